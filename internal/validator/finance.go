package validator

import (
	"regexp"
	"strings"

	"opaque/internal/algorithms"
)

var (
	// CreditCard matches 13-19 digit card numbers and validates with Luhn.
	CreditCard = register(creditCardValidator{})
	// IBAN validates international bank account numbers (ISO 7064 Mod 97-10).
	IBAN = register(ibanValidator{})
)

type creditCardValidator struct{}

// Separators are only allowed between digits so the match never swallows
// the whitespace after the number.
var creditCardPattern = regexp.MustCompile(`\b\d(?:[ -]?\d){12,18}\b`)

func (creditCardValidator) Kind() string            { return "credit_card" }
func (creditCardValidator) Pattern() *regexp.Regexp { return creditCardPattern }

func (creditCardValidator) Validate(candidate string) bool {
	num := digitsOnly(candidate)
	if len(num) < 13 || len(num) > 19 {
		return false
	}
	return algorithms.LuhnValidate(num)
}

type ibanValidator struct{}

var ibanPattern = regexp.MustCompile(`\b[A-Z]{2}\d{2}(?:[ ]?[A-Za-z0-9]{4}){2,7}(?:[ ]?[A-Za-z0-9]{1,3})?\b`)

func (ibanValidator) Kind() string            { return "iban" }
func (ibanValidator) Pattern() *regexp.Regexp { return ibanPattern }

func (ibanValidator) Validate(candidate string) bool {
	iban := strings.ToUpper(strings.ReplaceAll(candidate, " ", ""))
	if len(iban) < 15 || len(iban) > 34 {
		return false
	}
	num, err := algorithms.IBANToNumeric(iban)
	if err != nil {
		return false
	}
	return algorithms.Mod97_10(num)
}
