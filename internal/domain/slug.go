package domain

import "strings"

// Slug lower-cases name and joins its whitespace-separated words with hyphens.
// Slug(Slug(x)) == Slug(x).
func Slug(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}
