package model

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// PreviewLength is the number of characters of body text kept in a preview.
const PreviewLength = 200

// PreviewEllipsis is appended to a preview whose source text was cut.
const PreviewEllipsis = "…"

// PageRecord holds what was collected from one successfully fetched page.
// A record is built once by NewPageRecord and is not modified afterwards.
type PageRecord struct {
	// URL is the address the page was fetched from, as it was enqueued.
	URL string `json:"url"`

	// Title is the trimmed text of the first <title> element.
	// Empty when the page has none.
	Title string `json:"title"`

	// Preview is a short, whitespace-collapsed excerpt of the body text.
	Preview string `json:"preview"`

	// Emails are the unique email-like strings found in the body text,
	// in order of first appearance.
	Emails []string `json:"emails"`

	// Phones are the unique phone-like strings found in the body text,
	// in order of first appearance.
	Phones []string `json:"phones"`
}

// NewPageRecord creates a PageRecord. The preview is derived from bodyText.
// Nil contact slices are stored as empty slices so that they serialize as [].
func NewPageRecord(pageURL, title, bodyText string, emails, phones []string) PageRecord {
	return PageRecord{
		URL:     pageURL,
		Title:   strings.TrimSpace(title),
		Preview: Preview(bodyText),
		Emails:  cloneStrings(emails),
		Phones:  cloneStrings(phones),
	}
}

// Preview returns the first PreviewLength characters of text with every run
// of whitespace collapsed to a single space. PreviewEllipsis is appended
// when text is longer than PreviewLength characters.
func Preview(text string) string {
	head := text
	truncated := false
	if utf8.RuneCountInString(text) > PreviewLength {
		head = string([]rune(text)[:PreviewLength])
		truncated = true
	}

	preview := collapseWhitespace(head)
	if truncated {
		preview += PreviewEllipsis
	}
	return preview
}

// collapseWhitespace replaces every run of whitespace with one space.
// Leading and trailing runs are kept as a single space.
func collapseWhitespace(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	inSpace := false
	for _, r := range s {
		if isSpace(r) {
			if !inSpace {
				b.WriteByte(' ')
				inSpace = true
			}
			continue
		}
		inSpace = false
		b.WriteRune(r)
	}
	return b.String()
}

// isSpace matches unicode.IsSpace plus the byte order mark.
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || r == '\uFEFF'
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
