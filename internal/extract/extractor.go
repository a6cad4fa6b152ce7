package extract

import (
	"regexp"
	"strings"
	"unicode"
)

const (
	// EmailPattern matches a local part, "@", domain labels and a TLD of
	// two or more letters.
	EmailPattern = `[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`

	// phoneSeparator is a hyphen, a dot or any whitespace rune, including
	// the no-break space that &nbsp; decodes to.
	phoneSeparator = `[-.\s\x{000B}\p{Zs}\x{FEFF}\x{2028}\x{2029}]`

	// PhonePattern matches an optional country code, an area code with
	// optional parentheses, then groups of 3-4 and 4 digits. Groups may be
	// separated by a space, a dot or a hyphen.
	PhonePattern = `(\+?\d{1,3}` + phoneSeparator + `?)?(\(?\d{2,4}\)?` + phoneSeparator + `?)\d{3,4}` + phoneSeparator + `?\d{4}`
)

// Contacts holds the identifiers found in one text.
type Contacts struct {
	// Emails are unique email-like strings in order of first appearance.
	Emails []string

	// Phones are unique phone-like strings in order of first appearance.
	Phones []string
}

// Empty reports whether nothing was found.
func (c Contacts) Empty() bool {
	return len(c.Emails) == 0 && len(c.Phones) == 0
}

// Extractor finds emails and phone numbers in text.
// An Extractor is safe for concurrent use.
type Extractor struct {
	emailRegex *regexp.Regexp
	phoneRegex *regexp.Regexp
}

// NewExtractor creates an Extractor with the default patterns.
func NewExtractor() *Extractor {
	return &Extractor{
		emailRegex: regexp.MustCompile(EmailPattern),
		phoneRegex: regexp.MustCompile(PhonePattern),
	}
}

// Extract returns the emails and phones found in text.
// The result only depends on text, so calling it twice yields the same
// slices in the same order.
func (e *Extractor) Extract(text string) Contacts {
	return Contacts{
		Emails: e.Emails(text),
		Phones: e.Phones(text),
	}
}

// Emails returns the unique email-like substrings of text.
func (e *Extractor) Emails(text string) []string {
	return uniqueMatches(e.emailRegex, text)
}

// Phones returns the unique phone-like substrings of text.
func (e *Extractor) Phones(text string) []string {
	return uniqueMatches(e.phoneRegex, text)
}

// uniqueMatches returns every non-overlapping match of re in text, trimmed
// and de-duplicated, keeping the first occurrence. It never returns nil.
func uniqueMatches(re *regexp.Regexp, text string) []string {
	out := make([]string, 0)
	seen := make(map[string]bool)

	for _, m := range re.FindAllString(text, -1) {
		m = strings.TrimFunc(m, isSpace)
		if m == "" || seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
	}
	return out
}

// isSpace reports whitespace, counting the byte order mark as well.
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || r == '\uFEFF'
}
