package service

import "strings"

// RenderTemplate substitutes {key} placeholders with values from data.
// Placeholders without a matching key are left verbatim, so a half-filled
// substitution map never errors.
func RenderTemplate(template string, data map[string]string) string {
	result := template
	for k, v := range data {
		result = strings.ReplaceAll(result, "{"+k+"}", v)
	}
	return result
}
