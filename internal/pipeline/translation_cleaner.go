package pipeline

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	parentheticalPattern = regexp.MustCompile(`\([^)]*\)`)
	quoteReplacer        = strings.NewReplacer(`"`, "", `'`, "", "“", "", "”", "", "‘", "", "’", "")
)

const dashRunes = "-–—"

// Cleaner strips the commentary chat models tend to wrap around a bare translation.
type Cleaner struct {
	languagePrefix *regexp.Regexp
}

func NewCleaner(targetLanguage string) *Cleaner {
	return &Cleaner{
		languagePrefix: regexp.MustCompile(`(?i)^In ` + regexp.QuoteMeta(targetLanguage) + `,?\s*`),
	}
}

// CleanTranslation is a one-off convenience around NewCleaner.
func CleanTranslation(text, targetLanguage string) string {
	return NewCleaner(targetLanguage).Clean(text)
}

// Clean applies the cleanup steps until the text stops changing, so Clean(Clean(s)) == Clean(s).
func (c *Cleaner) Clean(text string) string {
	for {
		next := c.cleanOnce(text)
		if next == text {
			return next
		}
		text = next
	}
}

// cleanOnce removes asides, cuts at the first dash, drops a leading "In <language>," prefix,
// strips quotes, cuts at the first period and trims. Order matters.
func (c *Cleaner) cleanOnce(text string) string {
	s := parentheticalPattern.ReplaceAllString(text, "")
	if i := strings.IndexAny(s, dashRunes); i >= 0 {
		s = s[:i]
	}
	s = c.languagePrefix.ReplaceAllString(s, "")
	s = quoteReplacer.Replace(s)
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimFunc(s, isTrimmable)
}

// isTrimmable treats zero-width spaces and byte order marks as whitespace.
func isTrimmable(r rune) bool {
	return unicode.IsSpace(r) || r == '\u200B' || r == '\uFEFF'
}
