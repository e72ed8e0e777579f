package contact

import (
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}$`)

// EmailResult classifies the email candidates found in one raw cell.
type EmailResult struct {
	Primary string   // first valid address, "" when none
	Valid   []string // every valid address, primary included
	Invalid []string // tokens that failed the pattern
}

// ExtractEmails splits a raw spreadsheet cell on the common separators
// (comma, semicolon, pipe, whitespace) and validates each token. The first
// valid address becomes the primary; invalid tokens are kept for logging.
func ExtractEmails(raw string) EmailResult {
	var res EmailResult
	for _, tok := range splitCandidates(raw) {
		if emailPattern.MatchString(tok) {
			if res.Primary == "" {
				res.Primary = tok
			}
			res.Valid = append(res.Valid, tok)
		} else {
			res.Invalid = append(res.Invalid, tok)
		}
	}
	return res
}

// IsValidEmail reports whether s matches the import email pattern.
func IsValidEmail(s string) bool {
	return emailPattern.MatchString(strings.TrimSpace(s))
}

func splitCandidates(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		switch r {
		case ',', ';', '|', ' ', '\t', '\n', '\r':
			return true
		}
		return false
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}
