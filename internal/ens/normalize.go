package ens

import (
	"fmt"
	"strings"

	"github.com/adraffy/go-ens-normalize/ensip15"

	"ens-name-tracker/internal/domain"
)

// NormalizationError reports a name that cannot be brought into canonical form.
type NormalizationError struct {
	Input  string
	Reason string
	Err    error
}

func (e *NormalizationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("normalize %q: %s: %v", e.Input, e.Reason, e.Err)
	}
	return fmt.Sprintf("normalize %q: %s", e.Input, e.Reason)
}

func (e *NormalizationError) Unwrap() error {
	return e.Err
}

// normalizer is safe for concurrent use once built.
var normalizer = ensip15.New()

// Normalize returns the canonical ENS form of name under ENSIP-15: mapped,
// case-folded and NFC-composed, with every label checked against the allowed
// character, script and emoji rules. Invalid names fail closed with
// *NormalizationError.
func Normalize(name string) (string, error) {
	if name == "" {
		return "", &NormalizationError{Input: name, Reason: "empty name"}
	}

	normalized, err := normalizer.Normalize(name)
	if err != nil {
		return "", &NormalizationError{Input: name, Reason: "disallowed name", Err: err}
	}
	return normalized, nil
}

// NormalizeCandidate normalizes word as the label of a .eth second-level name
// and returns the full name. Words that map to more than one label fail.
func NormalizeCandidate(word string) (string, error) {
	name, err := Normalize(word + domain.NameSuffix)
	if err != nil {
		return "", err
	}
	label := strings.TrimSuffix(name, domain.NameSuffix)
	if strings.Contains(label, ".") {
		return "", &NormalizationError{Input: word, Reason: "not a single label"}
	}
	return name, nil
}
