// Package phone provides phone number utilities.
// This is part of the platform layer and contains no business logic.
package phone

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

const defaultRegion = "NZ"

// Normalize strips all whitespace from a phone number. The normalized form
// is the customer dedup key, so it must stay a pure formatting operation:
// "021 234 5678" and "0212345678" must map to the same value.
func Normalize(input string) string {
	return strings.Join(strings.Fields(input), "")
}

// IsValid reports whether the number parses as a valid NZ phone number.
// Used for advisory logging only; bookings are never rejected on this.
func IsValid(input string) bool {
	number, err := phonenumbers.Parse(strings.TrimSpace(input), defaultRegion)
	if err != nil {
		return false
	}
	return phonenumbers.IsValidNumber(number)
}

// FormatE164 returns the E.164 rendering of a valid number, or the
// normalized input when parsing fails. Display helper for the admin console.
func FormatE164(input string) string {
	number, err := phonenumbers.Parse(strings.TrimSpace(input), defaultRegion)
	if err != nil || !phonenumbers.IsValidNumber(number) {
		return Normalize(input)
	}
	return phonenumbers.Format(number, phonenumbers.E164)
}
