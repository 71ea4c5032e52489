package credentials

import (
	"strconv"

	"github.com/topcoder-platform/topcoder-cli/internal/config"
)

type rule func(v *Values) error

// Schema is the ordered list of constraints a command places on its merged
// parameters. The first violated constraint is reported.
type Schema struct {
	Name  string
	rules []rule
}

// Validate checks v and converts it into Params.
func (s Schema) Validate(v *Values) (*Params, error) {
	for _, r := range s.rules {
		if err := r(v); err != nil {
			return nil, err
		}
	}
	return toParams(v)
}

// authRules: username+password XOR m2m{client_id, client_secret}.
var authRules = []rule{
	m2mComplete,
	orKeys(KeyUsername, KeyM2M),
	xorKeys(KeyUsername, KeyM2M),
	withPeer(KeyUsername, KeyPassword),
	withPeer(KeyPassword, KeyUsername),
}

// SubmitSchema constrains the submit command.
var SubmitSchema = Schema{
	Name: "submit",
	rules: concat(
		[]rule{requiredKey(KeyChallengeIDs), memberIDValid},
		authRules,
		[]rule{withPeer(KeyM2M, KeyMemberID)},
	),
}

// FetchSubmissionsSchema constrains the fetch-submissions command.
var FetchSubmissionsSchema = Schema{
	Name: "fetch-submissions",
	rules: concat(
		[]rule{requiredKey(KeyChallengeID), memberIDValid},
		authRules,
		[]rule{
			withoutPeer(KeySubmissionID, KeyMemberID),
			withoutPeer(KeySubmissionID, KeyLatest),
			withoutPeer(KeyMemberID, KeySubmissionID),
			withoutPeer(KeyLatest, KeySubmissionID),
		},
	),
}

// FetchArtifactsSchema constrains the fetch-artifacts command.
var FetchArtifactsSchema = Schema{
	Name: "fetch-artifacts",
	rules: concat(
		authRules,
		[]rule{
			orKeys(KeySubmissionID, KeyLegacySubmissionID),
			xorKeys(KeySubmissionID, KeyLegacySubmissionID),
		},
	),
}

// AllowedCLIKeys lists, per schema, the flags that may override rc values in
// addition to username and password.
var AllowedCLIKeys = map[string][]Key{
	SubmitSchema.Name:           {KeyChallengeIDs, KeyMemberID},
	FetchSubmissionsSchema.Name: {KeyChallengeID, KeyMemberID, KeySubmissionID, KeyLatest},
	FetchArtifactsSchema.Name:   {KeySubmissionID, KeyLegacySubmissionID},
}

func concat(groups ...[]rule) []rule {
	var out []rule
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

func requiredKey(key Key) rule {
	return func(v *Values) error {
		if !v.has(key) {
			return required(string(key))
		}
		return nil
	}
}

func orKeys(keys ...Key) rule {
	return func(v *Values) error {
		for _, k := range keys {
			if v.has(k) {
				return nil
			}
		}
		return missingAlternative(keyNames(keys)...)
	}
}

func xorKeys(keys ...Key) rule {
	return func(v *Values) error {
		count := 0
		for _, k := range keys {
			if v.has(k) {
				count++
			}
		}
		if count > 1 {
			return exclusive(keyNames(keys)...)
		}
		return nil
	}
}

func withPeer(key, peer Key) rule {
	return func(v *Values) error {
		if v.has(key) && !v.has(peer) {
			return missingPeer(string(key), string(peer))
		}
		return nil
	}
}

func withoutPeer(key, peer Key) rule {
	return func(v *Values) error {
		if v.has(key) && v.has(peer) {
			return forbiddenPeer(string(key), string(peer))
		}
		return nil
	}
}

func m2mComplete(v *Values) error {
	if v.M2M.IsZero() {
		return nil
	}
	if v.M2M.ClientID == "" {
		return required("m2m.client_id")
	}
	if v.M2M.ClientSecret == "" {
		return required("m2m.client_secret")
	}
	return nil
}

func memberIDValid(v *Values) error {
	if v.MemberID == "" {
		return nil
	}
	id, err := strconv.ParseInt(v.MemberID, 10, 64)
	if err != nil {
		return invalid(string(KeyMemberID), "must be an integer")
	}
	if id < 1 {
		return invalid(string(KeyMemberID), "must be greater than or equal to 1")
	}
	return nil
}

func keyNames(keys []Key) []string {
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = string(k)
	}
	return names
}

func toParams(v *Values) (*Params, error) {
	p := &Params{
		Username:           v.Username,
		Password:           v.Password,
		ChallengeIDs:       v.ChallengeIDs,
		ChallengeID:        v.ChallengeID,
		SubmissionID:       v.SubmissionID,
		LegacySubmissionID: v.LegacySubmissionID,
		Latest:             v.Latest,
	}
	if !v.M2M.IsZero() {
		m2m := config.M2M{ClientID: v.M2M.ClientID, ClientSecret: v.M2M.ClientSecret}
		p.M2M = &m2m
	}
	if v.MemberID != "" {
		id, err := strconv.ParseInt(v.MemberID, 10, 64)
		if err != nil {
			return nil, invalid(string(KeyMemberID), "must be an integer")
		}
		p.MemberID = id
	}
	return p, nil
}
