package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/net/proxy"
)

// maxAttempts is the initial attempt plus one retry.
const maxAttempts = 2

// Defaults used when no option overrides them.
const (
	defaultTimeout        = 10 * time.Second
	defaultMaxRedirects   = 5
	defaultMaxBodySize    = 5 * 1024 * 1024 // 5MB
	defaultReferer        = "https://www.google.com/"
	defaultAcceptLanguage = "en-US,en;q=0.9"
	acceptHeader          = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
)

// Response is a successfully fetched page.
type Response struct {
	// URL is the URL that was requested.
	URL string

	// FinalURL is the URL after redirects.
	FinalURL string

	// StatusCode is the HTTP status of the final response.
	StatusCode int

	// ContentType is the Content-Type header of the final response.
	ContentType string

	// Body is the response body, truncated to the configured size limit.
	Body []byte
}

// Fetcher performs HTTP GET requests with one retry.
// A Fetcher is safe for concurrent use.
type Fetcher struct {
	direct  *http.Client
	proxied map[string]*http.Client

	picker     IdentityPicker
	userAgents []string
	proxies    []*url.URL

	timeout        time.Duration
	maxRedirects   int
	maxBodySize    int64
	referer        string
	acceptLanguage string

	// baseTransport is cloned for every client.
	baseTransport *http.Transport

	logger *slog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout of a single attempt, redirects included.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithMaxRedirects sets how many redirects are followed per attempt.
func WithMaxRedirects(n int) Option {
	return func(f *Fetcher) {
		f.maxRedirects = n
	}
}

// WithMaxBodySize sets the maximum number of body bytes read.
func WithMaxBodySize(size int64) Option {
	return func(f *Fetcher) {
		f.maxBodySize = size
	}
}

// WithReferer sets the Referer header.
func WithReferer(referer string) Option {
	return func(f *Fetcher) {
		f.referer = referer
	}
}

// WithAcceptLanguage sets the Accept-Language header.
func WithAcceptLanguage(lang string) Option {
	return func(f *Fetcher) {
		f.acceptLanguage = lang
	}
}

// WithUserAgents sets the pool the default picker draws user-agents from.
func WithUserAgents(userAgents []string) Option {
	return func(f *Fetcher) {
		f.userAgents = userAgents
	}
}

// WithProxies sets the proxy endpoints. A transport is built for each.
func WithProxies(proxies []*url.URL) Option {
	return func(f *Fetcher) {
		f.proxies = proxies
	}
}

// WithIdentityPicker replaces the default RandomPicker.
// Any proxy the picker returns must also be passed to WithProxies.
func WithIdentityPicker(p IdentityPicker) Option {
	return func(f *Fetcher) {
		f.picker = p
	}
}

// WithLogger sets the logger failed fetches are reported to.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

// New creates a Fetcher and builds one HTTP client per proxy endpoint.
func New(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{
		timeout:        defaultTimeout,
		maxRedirects:   defaultMaxRedirects,
		maxBodySize:    defaultMaxBodySize,
		referer:        defaultReferer,
		acceptLanguage: defaultAcceptLanguage,
		proxied:        make(map[string]*http.Client),
		logger:         slog.Default(),
	}

	for _, opt := range opts {
		opt(f)
	}

	if f.baseTransport == nil {
		base, ok := http.DefaultTransport.(*http.Transport)
		if !ok {
			base = &http.Transport{}
		}
		f.baseTransport = base
	}

	if f.picker == nil {
		picker, err := NewRandomPicker(f.userAgents, f.proxies)
		if err != nil {
			return nil, err
		}
		f.picker = picker
	}

	direct := f.baseTransport.Clone()
	direct.Proxy = nil
	f.direct = f.newClient(direct)

	for _, p := range f.proxies {
		transport, err := f.proxyTransport(p)
		if err != nil {
			return nil, err
		}
		f.proxied[p.String()] = f.newClient(transport)
	}

	return f, nil
}

// proxyTransport builds a transport that routes through p.
// http and https proxies use the transport's Proxy hook; socks5 and
// socks5h proxies dial through golang.org/x/net/proxy.
func (f *Fetcher) proxyTransport(p *url.URL) (*http.Transport, error) {
	transport := f.baseTransport.Clone()

	switch p.Scheme {
	case "http", "https":
		transport.Proxy = http.ProxyURL(p)
	case "socks5", "socks5h":
		dialer, err := proxy.FromURL(p, proxy.Direct)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrUnsupportedProxy, p.Redacted(), err)
		}
		transport.Proxy = nil
		transport.DialContext = contextDialer(dialer)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedProxy, p.Scheme)
	}
	return transport, nil
}

// contextDialer adapts a proxy.Dialer to the transport's DialContext hook.
func contextDialer(d proxy.Dialer) func(ctx context.Context, network, addr string) (net.Conn, error) {
	if cd, ok := d.(proxy.ContextDialer); ok {
		return cd.DialContext
	}
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		type dialResult struct {
			conn net.Conn
			err  error
		}
		resultCh := make(chan dialResult, 1)

		go func() {
			conn, err := d.Dial(network, addr)
			resultCh <- dialResult{conn, err}
		}()

		select {
		case result := <-resultCh:
			return result.conn, result.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

func (f *Fetcher) newClient(transport http.RoundTripper) *http.Client {
	maxRedirects := f.maxRedirects
	return &http.Client{
		Transport: transport,
		Timeout:   f.timeout,
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) > maxRedirects {
				return fmt.Errorf("%w: stopped after %d", ErrTooManyRedirects, maxRedirects)
			}
			return nil
		},
	}
}

// Fetch retrieves rawURL. A failed attempt is retried once with a freshly
// picked identity. If both attempts fail the last error is logged and
// returned wrapped in ErrFetchFailed.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Response, error) {
	target, err := url.Parse(rawURL)
	if err != nil {
		f.logger.Error("fetch failed", "url", rawURL, "error", err)
		return nil, fmt.Errorf("%w: %s: %w", ErrFetchFailed, rawURL, err)
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		id := f.picker.Pick(target)

		resp, err := f.attempt(ctx, target, id)
		if err == nil {
			resp.URL = rawURL
			return resp, nil
		}
		lastErr = err

		f.logger.Debug("fetch attempt failed",
			"url", rawURL,
			"attempt", attempt,
			"proxy", proxyLabel(id.Proxy),
			"error", err,
		)

		if ctx.Err() != nil {
			break
		}
	}

	f.logger.Error("fetch failed", "url", rawURL, "error", lastErr)
	return nil, fmt.Errorf("%w: %s: %w", ErrFetchFailed, rawURL, lastErr)
}

// attempt performs a single GET with the given identity.
func (f *Fetcher) attempt(ctx context.Context, target *url.URL, id Identity) (*Response, error) {
	client := f.direct
	if id.Proxy != nil {
		c, ok := f.proxied[id.Proxy.String()]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownProxy, id.Proxy.Redacted())
		}
		client = c
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", id.UserAgent)
	req.Header.Set("Referer", f.referer)
	req.Header.Set("Accept-Language", f.acceptLanguage)
	req.Header.Set("Accept", acceptHeader)

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusBadRequest {
		// Drain a little so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096)) //nolint:errcheck // best effort
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}

	return &Response{
		FinalURL:    resp.Request.URL.String(),
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}

// proxyLabel returns a loggable form of a proxy endpoint.
func proxyLabel(p *url.URL) string {
	if p == nil {
		return "direct"
	}
	return p.Redacted()
}
