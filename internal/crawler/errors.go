package crawler

import "errors"

var (
	// ErrInvalidSeed is returned by Crawl when the seed URL is not an
	// absolute http or https URL.
	ErrInvalidSeed = errors.New("invalid seed URL")

	// ErrUnsupportedContent is returned by Parser.Parse for content types
	// other than HTML, XHTML and plain text.
	ErrUnsupportedContent = errors.New("unsupported content type")
)
