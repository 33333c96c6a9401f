// Package contacts resolves message handles (phone numbers and email
// addresses) to display names using the local AddressBook sources, and
// builds display labels for group chats.
package contacts

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English, cases.NoLower)

// NormalizePhone reduces a phone number to its digits, dropping the leading
// "1" from US-style 11-digit numbers so that "+1 (555) 010-1234" and
// "5550101234" map to the same key.
func NormalizePhone(raw string) string {
	if raw == "" {
		return ""
	}
	var sb strings.Builder
	for _, r := range raw {
		if unicode.IsDigit(r) {
			sb.WriteRune(r)
		}
	}
	digits := sb.String()
	if len(digits) > 10 && strings.HasPrefix(digits, "1") {
		digits = digits[1:]
	}
	return digits
}

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// NormalizeAddress normalizes a handle address, routing on whether it looks
// like an email or a phone number.
func NormalizeAddress(raw string) string {
	if raw == "" {
		return ""
	}
	if strings.Contains(raw, "@") {
		return NormalizeEmail(raw)
	}
	return NormalizePhone(raw)
}

// NormalizeDisplayName collapses whitespace and title-cases a contact name
// read from the address book.
func NormalizeDisplayName(name string) string {
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return ""
	}
	return titleCaser.String(name)
}
