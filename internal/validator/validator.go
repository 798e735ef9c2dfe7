package validator

// Package validator pairs detection patterns with mathematical validation.
// A Validator owns the regular expression that finds candidates in free
// text and the checksum logic that decides whether a candidate is real.
// Pattern matches that fail validation are never redacted.

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Validator identifies one class of sensitive data.
type Validator interface {
	// Kind returns a stable machine-readable identifier (e.g. "br_cpf").
	Kind() string

	// Pattern returns the compiled regexp that finds candidate substrings.
	Pattern() *regexp.Regexp

	// Validate reports whether the candidate is mathematically valid.
	Validate(candidate string) bool
}

var nonDigits = regexp.MustCompile(`\D`)

func digitsOnly(s string) string {
	return nonDigits.ReplaceAllString(s, "")
}

func allSame(s string) bool {
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			return false
		}
	}
	return len(s) > 0
}

var registry = map[string]Validator{}

func register(v Validator) Validator {
	registry[v.Kind()] = v
	return v
}

// ByKind resolves a validator by its Kind identifier.
func ByKind(kind string) (Validator, error) {
	v, ok := registry[strings.ToLower(strings.TrimSpace(kind))]
	if !ok {
		return nil, fmt.Errorf("unknown validator kind %q", kind)
	}
	return v, nil
}

// Kinds returns all registered validator kinds, sorted.
func Kinds() []string {
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// FromKinds resolves a list of kind names (e.g. from configuration) into
// validators, failing on the first unknown name.
func FromKinds(kinds []string) ([]Validator, error) {
	out := make([]Validator, 0, len(kinds))
	for _, k := range kinds {
		v, err := ByKind(k)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
