package textutil

import "strings"

// fileNameReplacer replaces filesystem-unsafe characters with safe alternatives.
var fileNameReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
)

// SanitizeFileName makes name safe as a single path segment. Slashes,
// backslashes, colons, and asterisks become dashes, other unsafe characters
// are removed, and runs of whitespace collapse to one underscore. An input
// that sanitizes to nothing returns fallback.
func SanitizeFileName(name, fallback string) string {
	name = strings.TrimSpace(fileNameReplacer.Replace(name))
	name = strings.Join(strings.Fields(name), "_")
	name = strings.Trim(name, ".")
	if name == "" {
		return fallback
	}
	return name
}
