// Package fetch retrieves pages over HTTP with a randomized client identity.
//
// Every attempt draws a fresh Identity (a User-Agent string and, for https
// targets, an optional proxy endpoint) from an IdentityPicker. A failed
// attempt is retried exactly once with a new identity. When the retry fails
// too, the error is logged and an error wrapping ErrFetchFailed is returned;
// callers treat it as "no page" and carry on.
//
// Proxies may be http, https, socks5 or socks5h endpoints. One transport is
// built per endpoint when the Fetcher is created and reused for the whole run.
package fetch
