package fetch

import "errors"

var (
	// ErrFetchFailed is returned when a page could not be fetched after
	// the retry. The underlying cause is wrapped as well.
	ErrFetchFailed = errors.New("fetch failed")

	// ErrUnexpectedStatus is returned for responses outside 200-399.
	ErrUnexpectedStatus = errors.New("unexpected status code")

	// ErrTooManyRedirects is returned when a request is redirected more
	// often than allowed.
	ErrTooManyRedirects = errors.New("too many redirects")

	// ErrNoUserAgents is returned when the user-agent pool is empty.
	ErrNoUserAgents = errors.New("user-agent pool is empty")

	// ErrUnsupportedProxy is returned for a proxy scheme no transport can be built for.
	ErrUnsupportedProxy = errors.New("unsupported proxy scheme")

	// ErrUnknownProxy is returned when an IdentityPicker hands out a proxy
	// the Fetcher has no transport for.
	ErrUnknownProxy = errors.New("proxy not configured")
)
