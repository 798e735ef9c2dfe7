package validator

import (
	"regexp"

	"opaque/internal/algorithms"
)

// Brazilian document validators. CPF and CNPJ carry two weighted Mod 11
// check digits; Pix keys are UUID, email or +55 phone forms.

var (
	// CPF is the Brazilian natural-person tax ID (###.###.###-##).
	CPF = register(cpfValidator{})
	// CNPJ is the Brazilian company tax ID (##.###.###/####-##).
	CNPJ = register(cnpjValidator{})
	// Pix matches Brazilian instant-payment keys.
	Pix = register(pixValidator{})
)

type cpfValidator struct{}

var cpfPattern = regexp.MustCompile(`\b\d{3}\.?\d{3}\.?\d{3}-?\d{2}\b`)

func (cpfValidator) Kind() string            { return "br_cpf" }
func (cpfValidator) Pattern() *regexp.Regexp { return cpfPattern }

func (cpfValidator) Validate(candidate string) bool {
	cpf := digitsOnly(candidate)
	if len(cpf) != 11 || allSame(cpf) {
		return false
	}
	digits := make([]int, 11)
	for i := range cpf {
		digits[i] = int(cpf[i] - '0')
	}
	d1 := algorithms.Mod11CheckDigit(digits[:9], []int{10, 9, 8, 7, 6, 5, 4, 3, 2})
	if digits[9] != d1 {
		return false
	}
	d2 := algorithms.Mod11CheckDigit(digits[:10], []int{11, 10, 9, 8, 7, 6, 5, 4, 3, 2})
	return digits[10] == d2
}

type cnpjValidator struct{}

var cnpjPattern = regexp.MustCompile(`\b\d{2}\.?\d{3}\.?\d{3}/?\d{4}-?\d{2}\b`)

func (cnpjValidator) Kind() string            { return "br_cnpj" }
func (cnpjValidator) Pattern() *regexp.Regexp { return cnpjPattern }

func (cnpjValidator) Validate(candidate string) bool {
	cnpj := digitsOnly(candidate)
	if len(cnpj) != 14 || allSame(cnpj) {
		return false
	}
	digits := make([]int, 14)
	for i := range cnpj {
		digits[i] = int(cnpj[i] - '0')
	}
	d1 := algorithms.Mod11CheckDigit(digits[:12], []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2})
	if digits[12] != d1 {
		return false
	}
	d2 := algorithms.Mod11CheckDigit(digits[:13], []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2})
	return digits[13] == d2
}

type pixValidator struct{}

var (
	pixPattern = regexp.MustCompile(`(?i)(?:\b[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}\b)|(?:\+55\d{10,11})|(?:\b[\w.-]+@[\w.-]+\.\w+\b)`)

	pixUUID  = regexp.MustCompile(`(?i)^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)
	pixEmail = regexp.MustCompile(`^[\w.-]+@[\w.-]+\.\w+$`)
	pixPhone = regexp.MustCompile(`^\+55\d{10,11}$`)
)

func (pixValidator) Kind() string            { return "br_pix" }
func (pixValidator) Pattern() *regexp.Regexp { return pixPattern }

func (pixValidator) Validate(candidate string) bool {
	return pixUUID.MatchString(candidate) ||
		pixEmail.MatchString(candidate) ||
		pixPhone.MatchString(candidate)
}
