package report

import (
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ExportFileName returns ceo-<slug>-<YYYY-MM-DD>.<ext> for a project name.
// The slug is lowercased with spaces turned into dashes, commas dropped and
// accents stripped.
func ExportFileName(projectName string, date time.Time, ext string) string {
	return "ceo-" + slug(projectName) + "-" + date.Format(time.DateOnly) + "." + strings.TrimPrefix(ext, ".")
}

func slug(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	plain, _, err := transform.String(t, name)
	if err != nil {
		plain = name
	}
	plain = strings.ReplaceAll(plain, " ", "-")
	plain = strings.ReplaceAll(plain, ",", "")
	return strings.ToLower(plain)
}
