package credentials

import (
	"fmt"
	"strings"
)

// Rule classifies which constraint a parameter set violated.
type Rule int

const (
	// RuleRequired: a mandatory field is missing.
	RuleRequired Rule = iota
	// RuleMissingPeer: a field is present without a field it depends on.
	RuleMissingPeer
	// RuleForbiddenPeer: a field is present together with one it excludes.
	RuleForbiddenPeer
	// RuleExclusive: more than one of an exactly-one group is present.
	RuleExclusive
	// RuleMissingAlternative: none of an exactly-one group is present.
	RuleMissingAlternative
	// RuleInvalid: a value has the wrong shape (not a number, too small, empty list).
	RuleInvalid
)

func (r Rule) String() string {
	switch r {
	case RuleRequired:
		return "required"
	case RuleMissingPeer:
		return "missing peer"
	case RuleForbiddenPeer:
		return "forbidden peer"
	case RuleExclusive:
		return "exclusive conflict"
	case RuleMissingAlternative:
		return "missing alternative"
	case RuleInvalid:
		return "invalid"
	default:
		return fmt.Sprintf("rule(%d)", int(r))
	}
}

// ValidationError reports the first constraint a merged parameter set
// violates. The message format is stable; callers match on it.
type ValidationError struct {
	Field  string
	Rule   Rule
	Peers  []string
	Reason string
}

func (e *ValidationError) Error() string {
	return "Validation failed: " + e.message()
}

func (e *ValidationError) message() string {
	switch e.Rule {
	case RuleRequired:
		return fmt.Sprintf("%q is required", e.Field)
	case RuleMissingPeer:
		return fmt.Sprintf("%q missing required peer %q", e.Field, e.Peers[0])
	case RuleForbiddenPeer:
		return fmt.Sprintf("%q conflict with forbidden peer %q", e.Field, e.Peers[0])
	case RuleExclusive:
		return fmt.Sprintf(`"value" contains a conflict between exclusive peers [%s]`, strings.Join(e.Peers, ", "))
	case RuleMissingAlternative:
		return fmt.Sprintf(`"value" must contain at least one of [%s]`, strings.Join(e.Peers, ", "))
	default:
		return fmt.Sprintf("%q %s", e.Field, e.Reason)
	}
}

func required(field string) error {
	return &ValidationError{Field: field, Rule: RuleRequired}
}

func missingPeer(field, peer string) error {
	return &ValidationError{Field: field, Rule: RuleMissingPeer, Peers: []string{peer}}
}

func forbiddenPeer(field, peer string) error {
	return &ValidationError{Field: field, Rule: RuleForbiddenPeer, Peers: []string{peer}}
}

func exclusive(peers ...string) error {
	return &ValidationError{Rule: RuleExclusive, Peers: peers}
}

func missingAlternative(peers ...string) error {
	return &ValidationError{Rule: RuleMissingAlternative, Peers: peers}
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Rule: RuleInvalid, Reason: reason}
}
