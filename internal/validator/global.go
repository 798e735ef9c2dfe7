package validator

import (
	"regexp"

	"opaque/internal/algorithms"
)

var (
	// Email is a pattern-only validator for email addresses.
	Email = register(emailValidator{})
	// Aadhaar validates the Indian national ID (12 digits, Verhoeff).
	Aadhaar = register(aadhaarValidator{})
)

type emailValidator struct{}

var emailPattern = regexp.MustCompile(`\b[\w.+-]+@[\w.-]+\.\w{2,}\b`)

func (emailValidator) Kind() string            { return "email" }
func (emailValidator) Pattern() *regexp.Regexp { return emailPattern }

func (emailValidator) Validate(candidate string) bool {
	return emailPattern.MatchString(candidate)
}

type aadhaarValidator struct{}

// Aadhaar numbers never start with 0 or 1 and may be written spaced 4-4-4.
var aadhaarPattern = regexp.MustCompile(`\b[2-9]\d{3}[ -]?\d{4}[ -]?\d{4}\b`)

func (aadhaarValidator) Kind() string            { return "in_aadhaar" }
func (aadhaarValidator) Pattern() *regexp.Regexp { return aadhaarPattern }

func (aadhaarValidator) Validate(candidate string) bool {
	num := digitsOnly(candidate)
	if len(num) != 12 || num[0] < '2' {
		return false
	}
	return algorithms.VerhoeffValidate(num)
}
