package phone

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// defaultRegion is assumed for numbers entered without a country code.
const defaultRegion = "FR"

// Normalize returns the E.164 form of raw when it parses as a valid number,
// and the trimmed input otherwise. Guest phone numbers are display data, so
// an unparseable entry is kept as typed rather than rejected.
func Normalize(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	num, err := phonenumbers.Parse(raw, defaultRegion)
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return raw
	}
	return phonenumbers.Format(num, phonenumbers.E164)
}

// Digits strips everything but digits from s. Search matching compares
// phone numbers in this form so spaces, dashes and parentheses in either the
// stored number or the query do not matter.
func Digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
