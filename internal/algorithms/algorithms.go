package algorithms

// Package algorithms implements the pure checksum math used for document
// validation: Verhoeff, Luhn, ISO 7064 Mod 97-10, and weighted Mod 11.
// It has no dependencies and no I/O; validators build on top of it.

import (
	"errors"
	"strings"
)

var ErrNotNumeric = errors.New("input is not numeric")

// verhoeffD is the multiplication table of the dihedral group D5.
var verhoeffD = [10][10]int{
	{0, 1, 2, 3, 4, 5, 6, 7, 8, 9},
	{1, 2, 3, 4, 0, 6, 7, 8, 9, 5},
	{2, 3, 4, 0, 1, 7, 8, 9, 5, 6},
	{3, 4, 0, 1, 2, 8, 9, 5, 6, 7},
	{4, 0, 1, 2, 3, 9, 5, 6, 7, 8},
	{5, 9, 8, 7, 6, 0, 4, 3, 2, 1},
	{6, 5, 9, 8, 7, 1, 0, 4, 3, 2},
	{7, 6, 5, 9, 8, 2, 1, 0, 4, 3},
	{8, 7, 6, 5, 9, 3, 2, 1, 0, 4},
	{9, 8, 7, 6, 5, 4, 3, 2, 1, 0},
}

// verhoeffP is the permutation table, cycling with period 8.
var verhoeffP = [8][10]int{
	{0, 1, 2, 3, 4, 5, 6, 7, 8, 9},
	{1, 5, 7, 6, 2, 8, 3, 0, 9, 4},
	{5, 8, 0, 3, 7, 9, 6, 1, 4, 2},
	{8, 9, 1, 6, 0, 4, 3, 5, 2, 7},
	{9, 4, 5, 3, 1, 2, 6, 8, 7, 0},
	{4, 2, 8, 6, 5, 7, 3, 9, 0, 1},
	{2, 7, 9, 3, 8, 0, 6, 4, 1, 5},
	{7, 0, 4, 6, 9, 1, 3, 2, 5, 8},
}

// verhoeffInv maps an interim checksum to the digit that cancels it.
var verhoeffInv = [10]int{0, 4, 3, 2, 1, 5, 6, 7, 8, 9}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// VerhoeffValidate reports whether num (digits only, check digit included)
// passes the Verhoeff checksum. Detects all single-digit errors and all
// adjacent transpositions.
func VerhoeffValidate(num string) bool {
	if !isDigits(num) {
		return false
	}
	c := 0
	for i := 0; i < len(num); i++ {
		d := int(num[len(num)-1-i] - '0')
		c = verhoeffD[c][verhoeffP[i%8][d]]
	}
	return c == 0
}

// VerhoeffCheckDigit computes the Verhoeff check digit for num.
func VerhoeffCheckDigit(num string) (string, error) {
	if !isDigits(num) {
		return "", ErrNotNumeric
	}
	c := 0
	for i := 0; i < len(num); i++ {
		d := int(num[len(num)-1-i] - '0')
		c = verhoeffD[c][verhoeffP[(i+1)%8][d]]
	}
	return string(rune('0' + verhoeffInv[c])), nil
}

// LuhnValidate reports whether num (digits only) passes the Luhn mod-10
// checksum used by credit cards, IMEI and similar identifiers.
func LuhnValidate(num string) bool {
	if !isDigits(num) {
		return false
	}
	sum := 0
	for i := 0; i < len(num); i++ {
		d := int(num[len(num)-1-i] - '0')
		if i%2 == 1 {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
	}
	return sum%10 == 0
}

// Mod97_10 reports whether the numeric string satisfies ISO 7064 Mod 97-10,
// i.e. its value mod 97 equals 1. The remainder is computed incrementally
// so inputs of IBAN length do not need big integers.
func Mod97_10(num string) bool {
	if !isDigits(num) {
		return false
	}
	rem := 0
	for i := 0; i < len(num); i++ {
		rem = (rem*10 + int(num[i]-'0')) % 97
	}
	return rem == 1
}

// IBANToNumeric rearranges an IBAN (first four characters moved to the end)
// and expands letters to their 10..35 values, producing the numeric string
// checked by Mod97_10. Input must already be upper case without spaces.
func IBANToNumeric(iban string) (string, error) {
	if len(iban) < 5 {
		return "", ErrNotNumeric
	}
	rearranged := iban[4:] + iban[:4]
	var b strings.Builder
	b.Grow(len(rearranged) * 2)
	for _, r := range rearranged {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			v := int(r-'A') + 10
			b.WriteByte(byte('0' + v/10))
			b.WriteByte(byte('0' + v%10))
		default:
			return "", ErrNotNumeric
		}
	}
	return b.String(), nil
}

// Mod11CheckDigit computes the standard weighted Mod 11 check digit used by
// several South American document schemes. Remainders below 2 map to 0.
func Mod11CheckDigit(digits []int, weights []int) int {
	sum := 0
	for i := 0; i < len(digits) && i < len(weights); i++ {
		sum += digits[i] * weights[i]
	}
	rem := sum % 11
	if rem < 2 {
		return 0
	}
	return 11 - rem
}
