package service

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// slugify lowercases a name and collapses every run of non-alphanumeric
// characters into a single hyphen. Names with no usable characters fall back
// to "status" so the generated slug is never empty.
func slugify(name string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) && r < unicode.MaxASCII || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastHyphen = false
		} else if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		return "status"
	}
	return slug
}

// uniqueSlug appends a short random suffix so two columns with the same name
// never collide within a project.
func uniqueSlug(name string) string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:4]
	return slugify(name) + "-" + suffix
}
