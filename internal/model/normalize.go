package model

import "strings"

// NormalizeName trims s and collapses every whitespace run to one space.
func NormalizeName(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Digits strips everything but ASCII digits from s.
func Digits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if c := s[i]; c >= '0' && c <= '9' {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// FullNumber composes the stored number: "+" and the country code digits
// when a country code is given, followed by the subscriber digits.
// Both inputs must already be digit-only.
func FullNumber(countryCode, number string) string {
	if countryCode == "" {
		return number
	}
	return "+" + countryCode + number
}
