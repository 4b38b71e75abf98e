package parsing

import (
	"regexp"
	"strings"
)

// phoneRe matches North American numbers such as (555) 123-4567, 555.123.4567 and 5551234567
var phoneRe = regexp.MustCompile(`\(?\b\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}\b`)

// ExtractPhone returns the first phone number in text, or NotAvailable.
func ExtractPhone(text string) string {
	m := phoneRe.FindString(text)
	if m == "" {
		return NotAvailable
	}
	return strings.TrimSpace(m)
}
