package notify

import "strings"

// NormalizePhone prepares a stored phone number for the WhatsApp API:
// strip everything but digits, assume the default country prefix for bare
// 10-digit numbers, and make sure the result carries a leading +.
func NormalizePhone(raw, defaultCountryPrefix string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if digits == "" {
		return ""
	}
	if len(digits) == 10 {
		digits = defaultCountryPrefix + digits
	}
	return "+" + digits
}
