package crawler

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"
)

// Media types the parser understands.
const (
	mediaTypeHTML  = "text/html"
	mediaTypeXHTML = "application/xhtml+xml"
	mediaTypePlain = "text/plain"
)

// Parser extracts the title, body text and links of a fetched page.
// Relative links are resolved against the page's own URL.
type Parser struct {
	// baseURL is the URL of the page being parsed.
	baseURL *url.URL
}

// ParseResult contains what the crawler needs from one page.
type ParseResult struct {
	// Title is the trimmed text of the first <title> element.
	Title string

	// Text is the text content of <body> with <script> and <style> removed.
	// For text/plain pages it is the whole body.
	Text string

	// Links are the absolute, fragment-free targets of every <a href>
	// in document order. Duplicates are kept.
	Links []string
}

// NewParser creates a new parser for a page located at baseURL.
func NewParser(baseURL string) (*Parser, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	return &Parser{baseURL: u}, nil
}

// Parse decodes content according to contentType and extracts the page data.
// HTML and XHTML are parsed with goquery, text/plain is taken as-is and has
// no links. Anything else returns ErrUnsupportedContent.
// An empty contentType is sniffed from the content.
func (p *Parser) Parse(content io.Reader, contentType string) (*ParseResult, error) {
	body, err := io.ReadAll(content)
	if err != nil {
		return nil, fmt.Errorf("failed to read content: %w", err)
	}

	if strings.TrimSpace(contentType) == "" {
		contentType = http.DetectContentType(body)
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil && !errors.Is(err, mime.ErrInvalidMediaParameter) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedContent, contentType)
	}

	switch mediaType {
	case mediaTypeHTML, mediaTypeXHTML:
		return p.parseHTML(body, contentType)
	case mediaTypePlain:
		text, err := decode(body, contentType)
		if err != nil {
			return nil, err
		}
		return &ParseResult{Text: text, Links: make([]string, 0)}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedContent, mediaType)
	}
}

func (p *Parser) parseHTML(body []byte, contentType string) (*ParseResult, error) {
	r, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to decode content: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	result := &ParseResult{
		Title: strings.TrimSpace(doc.Find("title").First().Text()),
		Links: make([]string, 0),
	}

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if resolved := p.resolveURL(href); resolved != "" {
			result.Links = append(result.Links, resolved)
		}
	})

	doc.Find("script, style").Remove()
	result.Text = doc.Find("body").Text()

	return result, nil
}

// decode converts body to UTF-8 using the charset in contentType or,
// failing that, one sniffed from the content.
func decode(body []byte, contentType string) (string, error) {
	r, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		return "", fmt.Errorf("failed to decode content: %w", err)
	}
	out, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to decode content: %w", err)
	}
	return string(out), nil
}

// resolveURL resolves href against the base URL and drops the fragment.
// Empty, malformed and non-navigational hrefs return "".
func (p *Parser) resolveURL(href string) string {
	href = strings.TrimSpace(href)
	if href == "" || href == "#" {
		return ""
	}

	lower := strings.ToLower(href)
	for _, prefix := range []string{"javascript:", "mailto:", "tel:", "data:"} {
		if strings.HasPrefix(lower, prefix) {
			return ""
		}
	}

	u, err := url.Parse(href)
	if err != nil {
		return ""
	}

	resolved := p.baseURL.ResolveReference(u)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	resolved.Fragment = ""
	resolved.RawFragment = ""

	return resolved.String()
}
