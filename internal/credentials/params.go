package credentials

import (
	"strings"

	"github.com/topcoder-platform/topcoder-cli/internal/config"
)

// Key names a parameter as it appears in the rc file and on the command line.
type Key string

const (
	KeyUsername           Key = "username"
	KeyPassword           Key = "password"
	KeyM2M                Key = "m2m"
	KeyMemberID           Key = "memberId"
	KeyChallengeIDs       Key = "challengeIds"
	KeyChallengeID        Key = "challengeId"
	KeySubmissionID       Key = "submissionId"
	KeyLegacySubmissionID Key = "legacySubmissionId"
	KeyLatest             Key = "latest"
)

// CLIParams holds flag values as typed by the user. Empty strings and a
// false Latest mean the flag was not given.
type CLIParams struct {
	Username           string
	Password           string
	MemberID           string
	ChallengeIDs       string
	ChallengeID        string
	SubmissionID       string
	LegacySubmissionID string
	Latest             bool
}

// Values is the merged, not yet validated parameter set. Absent keys are
// zero values.
type Values struct {
	Username           string
	Password           string
	M2M                config.M2M
	MemberID           string
	ChallengeIDs       []string
	ChallengeID        string
	SubmissionID       string
	LegacySubmissionID string
	Latest             bool
}

// Params is a validated parameter set. Exactly one of the username/password
// pair or M2M is set.
type Params struct {
	Username           string
	Password           string
	M2M                *config.M2M
	MemberID           int64
	ChallengeIDs       []string
	ChallengeID        string
	SubmissionID       string
	LegacySubmissionID string
	Latest             bool
}

// UsesM2M reports whether machine credentials were resolved.
func (p *Params) UsesM2M() bool {
	return p.M2M != nil
}

func (v *Values) has(key Key) bool {
	switch key {
	case KeyUsername:
		return v.Username != ""
	case KeyPassword:
		return v.Password != ""
	case KeyM2M:
		return !v.M2M.IsZero()
	case KeyMemberID:
		return v.MemberID != ""
	case KeyChallengeIDs:
		return len(v.ChallengeIDs) > 0
	case KeyChallengeID:
		return v.ChallengeID != ""
	case KeySubmissionID:
		return v.SubmissionID != ""
	case KeyLegacySubmissionID:
		return v.LegacySubmissionID != ""
	case KeyLatest:
		return v.Latest
	}
	return false
}

func fromProject(p *config.ProjectConfig) Values {
	return Values{
		Username:           strings.TrimSpace(p.Username),
		Password:           p.Password,
		M2M:                p.M2M,
		MemberID:           strings.TrimSpace(p.MemberID),
		ChallengeIDs:       splitIDs(p.ChallengeIDs...),
		ChallengeID:        strings.TrimSpace(p.ChallengeID),
		SubmissionID:       strings.TrimSpace(p.SubmissionID),
		LegacySubmissionID: strings.TrimSpace(p.LegacySubmissionID),
		Latest:             p.Latest,
	}
}

// overlay copies the non-empty CLI value for key onto v.
func (v *Values) overlay(key Key, cli CLIParams) {
	switch key {
	case KeyUsername:
		setIfNonEmpty(&v.Username, strings.TrimSpace(cli.Username))
	case KeyPassword:
		setIfNonEmpty(&v.Password, cli.Password)
	case KeyMemberID:
		setIfNonEmpty(&v.MemberID, strings.TrimSpace(cli.MemberID))
	case KeyChallengeIDs:
		if ids := splitIDs(cli.ChallengeIDs); len(ids) > 0 {
			v.ChallengeIDs = ids
		}
	case KeyChallengeID:
		setIfNonEmpty(&v.ChallengeID, strings.TrimSpace(cli.ChallengeID))
	case KeySubmissionID:
		setIfNonEmpty(&v.SubmissionID, strings.TrimSpace(cli.SubmissionID))
	case KeyLegacySubmissionID:
		setIfNonEmpty(&v.LegacySubmissionID, strings.TrimSpace(cli.LegacySubmissionID))
	case KeyLatest:
		if cli.Latest {
			v.Latest = true
		}
	}
}

func setIfNonEmpty(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

// splitIDs turns "a,b" style entries into a flat list, dropping blanks.
func splitIDs(raw ...string) []string {
	var ids []string
	for _, entry := range raw {
		for _, id := range strings.Split(entry, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
	}
	return ids
}
