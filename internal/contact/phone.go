package contact

import "strings"

// PhoneClass is the classification of a single phone candidate.
type PhoneClass int

const (
	PhoneInvalid PhoneClass = iota
	PhoneMobile
	PhoneLandline
)

// Landline STD prefixes checked against the digit-only form of a candidate.
// Metro codes first; the longer district codes follow.
var landlinePrefixes = []string{
	"011", "022", "033", "044", "020", "040", "080", "079",
	"0120", "0124", "0129", "0135", "0141", "0172", "0183",
	"0212", "0231", "0240", "0253", "0261", "0265", "0281",
	"0342", "0361", "0413", "0422", "0431", "0452", "0462",
	"0471", "0484", "0495", "0512", "0522", "0532", "0542",
	"0551", "0562", "0581", "0612", "0651", "0712", "0721",
	"0731", "0751", "0761", "0771", "0821", "0831", "0832",
	"0836", "0861", "0866", "0871", "0891",
}

// PhoneResult classifies the phone candidates found in one raw cell.
type PhoneResult struct {
	Primary   string   // first mobile number, "" when none
	Mobiles   []string // every candidate classified mobile
	Landlines []string // excluded from primary, kept for logging
	Invalid   []string // everything else
}

// ExtractPhones splits a raw cell the same way as ExtractEmails and
// classifies every candidate. Only mobiles are eligible for the primary
// phone field; landlines are filtered out but retained for the upload log.
func ExtractPhones(raw string) PhoneResult {
	var res PhoneResult
	for _, tok := range splitCandidates(raw) {
		switch ClassifyPhone(tok) {
		case PhoneMobile:
			if res.Primary == "" {
				res.Primary = tok
			}
			res.Mobiles = append(res.Mobiles, tok)
		case PhoneLandline:
			res.Landlines = append(res.Landlines, tok)
		default:
			res.Invalid = append(res.Invalid, tok)
		}
	}
	return res
}

// ClassifyPhone decides whether one candidate is a plausible mobile number,
// a landline, or garbage. Mobile shapes: 10 digits starting 6-9, 11 digits
// starting 0 followed by a 6-9 digit, or an international +XXXXXXXXXX with
// 10-15 digits and at least two distinct ones. Landlines are matched on a
// fixed STD prefix table.
func ClassifyPhone(candidate string) PhoneClass {
	plus := strings.HasPrefix(strings.TrimSpace(candidate), "+")
	digits := digitsOnly(candidate)
	if digits == "" {
		return PhoneInvalid
	}

	if plus {
		if len(digits) >= 10 && len(digits) <= 15 && distinctDigits(digits) >= 2 {
			return PhoneMobile
		}
		return PhoneInvalid
	}

	if len(digits) == 10 && digits[0] >= '6' && digits[0] <= '9' {
		return PhoneMobile
	}
	if len(digits) == 11 && digits[0] == '0' && digits[1] >= '6' && digits[1] <= '9' {
		return PhoneMobile
	}

	if isLandline(digits) {
		return PhoneLandline
	}
	return PhoneInvalid
}

func isLandline(digits string) bool {
	if len(digits) < 10 || len(digits) > 12 {
		return false
	}
	for _, p := range landlinePrefixes {
		if strings.HasPrefix(digits, p) {
			return true
		}
	}
	return false
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func distinctDigits(s string) int {
	var seen [10]bool
	n := 0
	for _, r := range s {
		d := r - '0'
		if d < 10 && !seen[d] {
			seen[d] = true
			n++
		}
	}
	return n
}
