package validate

import "fmt"

// Text field length limits — single source of truth for the API surface.
const (
	MaxTitleLength       = 500
	MaxDescriptionLength = 5000
)

func checkLen(value string, max int, field string) string {
	if len(value) > max {
		return fmt.Sprintf("%s must be %d characters or fewer", field, max)
	}
	return ""
}

func Title(s string) string       { return checkLen(s, MaxTitleLength, "title") }
func Description(s string) string { return checkLen(s, MaxDescriptionLength, "description") }

// FieldLimits returns a map of field names to max lengths for API clients.
func FieldLimits() map[string]int {
	return map[string]int{
		"title":       MaxTitleLength,
		"description": MaxDescriptionLength,
	}
}
