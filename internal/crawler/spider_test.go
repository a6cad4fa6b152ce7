package crawler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/nao1215/contactcrawl/internal/fetch"
)

// fakePage is a canned response for fakeFetcher.
type fakePage struct {
	contentType string
	body        string
	fail        bool
}

// fakeFetcher serves canned pages and records every call.
type fakeFetcher struct {
	mu    sync.Mutex
	pages map[string]fakePage
	calls map[string]int
	order []string
}

func newFakeFetcher(pages map[string]fakePage) *fakeFetcher {
	return &fakeFetcher{pages: pages, calls: make(map[string]int)}
}

func (f *fakeFetcher) Fetch(ctx context.Context, rawURL string) (*fetch.Response, error) {
	f.mu.Lock()
	f.calls[rawURL]++
	f.order = append(f.order, rawURL)
	page, ok := f.pages[rawURL]
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", fetch.ErrFetchFailed, rawURL, err)
	}
	if !ok || page.fail {
		return nil, fmt.Errorf("%w: %s", fetch.ErrFetchFailed, rawURL)
	}

	contentType := page.contentType
	if contentType == "" {
		contentType = htmlUTF8
	}
	return &fetch.Response{
		URL:         rawURL,
		FinalURL:    rawURL,
		StatusCode:  http.StatusOK,
		ContentType: contentType,
		Body:        []byte(page.body),
	}, nil
}

func (f *fakeFetcher) callCount(rawURL string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[rawURL]
}

func (f *fakeFetcher) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.order)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// links renders an HTML page linking to every href.
func links(hrefs ...string) string {
	var b strings.Builder
	b.WriteString("<html><body>")
	for _, h := range hrefs {
		fmt.Fprintf(&b, `<a href="%s">%s</a>`, h, h)
	}
	b.WriteString("</body></html>")
	return b.String()
}

func recordURLs(t *testing.T, s *Spider, seed string) []string {
	t.Helper()

	rs, err := s.Crawl(t.Context(), seed)
	if err != nil {
		t.Fatalf("Crawl() error = %v", err)
	}
	urls := make([]string, 0, rs.Len())
	for _, rec := range rs.Records() {
		urls = append(urls, rec.URL)
	}
	return urls
}

// TestSpiderEndToEnd crawls a single level and checks the collected record.
func TestSpiderEndToEnd(t *testing.T) {
	t.Parallel()

	f := newFakeFetcher(map[string]fakePage{
		"https://example.com": {
			body: `<html><head><title>Example</title></head><body>contact: a@b.com or call 555-123-4567 <a href="/about">About</a></body></html>`,
		},
		"https://example.com/about": {body: links()},
	})

	spider := NewSpider(f, WithMaxDepth(1), WithMaxPagesPerLevel(1), WithLogger(quietLogger()))

	rs, err := spider.Crawl(t.Context(), "https://example.com")
	if err != nil {
		t.Fatalf("Crawl() error = %v", err)
	}

	if rs.Len() != 1 {
		t.Fatalf("expected 1 record, got %d", rs.Len())
	}
	rec := rs.Records()[0]
	if rec.URL != "https://example.com" {
		t.Errorf("URL = %q", rec.URL)
	}
	if rec.Title != "Example" {
		t.Errorf("Title = %q", rec.Title)
	}
	if !slices.Equal(rec.Emails, []string{"a@b.com"}) {
		t.Errorf("Emails = %q", rec.Emails)
	}
	if !slices.Equal(rec.Phones, []string{"555-123-4567"}) {
		t.Errorf("Phones = %q", rec.Phones)
	}
	if f.callCount("https://example.com/about") != 0 {
		t.Error("/about was fetched beyond the maximum depth")
	}
	if spider.State() != StateFinished {
		t.Errorf("State() = %v, expected finished", spider.State())
	}
}

// TestSpiderDepthLimit checks that no fetch happens at depth >= maxDepth.
func TestSpiderDepthLimit(t *testing.T) {
	t.Parallel()

	f := newFakeFetcher(map[string]fakePage{
		"https://example.com/":  {body: links("/a")},
		"https://example.com/a": {body: links("/b")},
		"https://example.com/b": {body: links("/c")},
		"https://example.com/c": {body: links()},
	})

	spider := NewSpider(f, WithMaxDepth(2), WithLogger(quietLogger()))
	got := recordURLs(t, spider, "https://example.com/")

	want := []string{"https://example.com/", "https://example.com/a"}
	if !slices.Equal(got, want) {
		t.Errorf("records = %q, want %q", got, want)
	}
	if f.callCount("https://example.com/b") != 0 || f.callCount("https://example.com/c") != 0 {
		t.Error("pages beyond the maximum depth were fetched")
	}
}

// TestSpiderPerLevelCap checks that exactly maxPagesPerLevel URLs are fetched.
func TestSpiderPerLevelCap(t *testing.T) {
	t.Parallel()

	pages := map[string]fakePage{
		"https://example.com/": {body: links("/1", "/2", "/3", "/4", "/5")},
	}
	for i := 1; i <= 5; i++ {
		pages[fmt.Sprintf("https://example.com/%d", i)] = fakePage{body: links("/deeper")}
	}
	f := newFakeFetcher(pages)

	var mu sync.Mutex
	var events []LevelEvent
	observer := func(ev LevelEvent) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, ev)
	}

	spider := NewSpider(f,
		WithMaxDepth(2),
		WithMaxPagesPerLevel(3),
		WithLevelObserver(observer),
		WithLogger(quietLogger()),
	)
	got := recordURLs(t, spider, "https://example.com/")

	want := []string{"https://example.com/", "https://example.com/1", "https://example.com/2", "https://example.com/3"}
	if !slices.Equal(got, want) {
		t.Errorf("records = %q, want %q", got, want)
	}
	if f.totalCalls() != 4 {
		t.Errorf("fetched %d URLs, expected 4", f.totalCalls())
	}
	for _, dropped := range []string{"https://example.com/4", "https://example.com/5"} {
		if f.callCount(dropped) != 0 {
			t.Errorf("%s was fetched although it exceeded the cap", dropped)
		}
	}

	var level1 *LevelEvent
	for i := range events {
		if events[i].State == StateLevelDone && events[i].Depth == 1 {
			level1 = &events[i]
		}
	}
	if level1 == nil {
		t.Fatal("no LevelDone event for depth 1")
	}
	if level1.Frontier != 5 || level1.Admitted != 3 || level1.Dropped != 2 || level1.Fetched != 3 {
		t.Errorf("unexpected level event: %+v", *level1)
	}
	if stats := spider.Stats(); stats.URLsDropped != 2 || stats.URLsVisited != 4 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

// TestSpiderDeduplication checks that a URL is never fetched twice.
func TestSpiderDeduplication(t *testing.T) {
	t.Parallel()

	f := newFakeFetcher(map[string]fakePage{
		"https://example.com":   {body: links("/a", "/b", "/", "https://EXAMPLE.com:443/", "#top")},
		"https://example.com/a": {body: links("/c", "/c#team", "/a")},
		"https://example.com/b": {body: links("/c", "https://example.com/c", "/")},
		"https://example.com/c": {body: links("/a", "/b")},
	})

	spider := NewSpider(f, WithMaxDepth(5), WithLogger(quietLogger()))
	got := recordURLs(t, spider, "https://example.com")

	want := []string{
		"https://example.com",
		"https://example.com/a",
		"https://example.com/b",
		"https://example.com/c",
	}
	if !slices.Equal(got, want) {
		t.Errorf("records = %q, want %q", got, want)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for u, n := range f.calls {
		if n != 1 {
			t.Errorf("%s fetched %d times", u, n)
		}
	}
	if len(f.order) != 4 {
		t.Errorf("fetched %d URLs, expected 4: %q", len(f.order), f.order)
	}
}

// TestSpiderSameOrigin checks that cross-origin links are never enqueued.
func TestSpiderSameOrigin(t *testing.T) {
	t.Parallel()

	f := newFakeFetcher(map[string]fakePage{
		"https://example.com/": {body: links(
			"https://other.example/contact",
			"http://example.com/insecure",
			"https://example.com:8443/port",
			"https://sub.example.com/sub",
			"https://example.com/same",
		)},
		"https://example.com/same": {body: links()},
	})

	spider := NewSpider(f, WithMaxDepth(3), WithLogger(quietLogger()))
	got := recordURLs(t, spider, "https://example.com/")

	want := []string{"https://example.com/", "https://example.com/same"}
	if !slices.Equal(got, want) {
		t.Errorf("records = %q, want %q", got, want)
	}
	if f.totalCalls() != 2 {
		t.Errorf("fetched %d URLs, expected 2", f.totalCalls())
	}
}

// TestSpiderSkipsFailedPages checks that failures are dropped without stopping the crawl.
func TestSpiderSkipsFailedPages(t *testing.T) {
	t.Parallel()

	f := newFakeFetcher(map[string]fakePage{
		"https://example.com/":       {body: links("/broken", "/data.json", "/ok")},
		"https://example.com/broken": {fail: true},
		"https://example.com/data.json": {
			contentType: "application/json",
			body:        `{"email":"json@example.com"}`,
		},
		"https://example.com/ok": {body: "<body>ok@example.com</body>"},
	})

	spider := NewSpider(f, WithMaxDepth(2), WithLogger(quietLogger()))
	rs, err := spider.Crawl(t.Context(), "https://example.com/")
	if err != nil {
		t.Fatalf("Crawl() error = %v", err)
	}

	records := rs.Records()
	if len(records) != 2 || records[1].URL != "https://example.com/ok" {
		t.Fatalf("unexpected records: %+v", records)
	}
	if !slices.Equal(records[1].Emails, []string{"ok@example.com"}) {
		t.Errorf("Emails = %q", records[1].Emails)
	}
	if stats := spider.Stats(); stats.FetchFailures != 2 || stats.PagesFetched != 2 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

// TestSpiderStateTransitions checks the order of reported states.
func TestSpiderStateTransitions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		maxDepth int
		pages    map[string]fakePage
		want     []State
	}{
		{
			name:     "two levels",
			maxDepth: 2,
			pages: map[string]fakePage{
				"https://example.com/":  {body: links("/a")},
				"https://example.com/a": {body: links()},
			},
			want: []State{
				StateLevelPending, StateLevelFetching, StateLevelDone,
				StateLevelPending, StateLevelFetching, StateLevelDone,
				StateFinished,
			},
		},
		{
			name:     "empty frontier ends early",
			maxDepth: 5,
			pages: map[string]fakePage{
				"https://example.com/": {body: links()},
			},
			want: []State{StateLevelPending, StateLevelFetching, StateLevelDone, StateFinished},
		},
		{
			name:     "failed seed ends early",
			maxDepth: 3,
			pages:    map[string]fakePage{},
			want:     []State{StateLevelPending, StateLevelFetching, StateLevelDone, StateFinished},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var got []State
			spider := NewSpider(newFakeFetcher(tt.pages),
				WithMaxDepth(tt.maxDepth),
				WithLogger(quietLogger()),
				WithLevelObserver(func(ev LevelEvent) {
					got = append(got, ev.State)
					if ev.MaxDepth != tt.maxDepth {
						t.Errorf("MaxDepth = %d, want %d", ev.MaxDepth, tt.maxDepth)
					}
				}),
			)

			if _, err := spider.Crawl(t.Context(), "https://example.com/"); err != nil {
				t.Fatalf("Crawl() error = %v", err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("states = %v, want %v", got, tt.want)
			}
		})
	}
}

// barrierFetcher blocks every call until want calls are in flight at once.
type barrierFetcher struct {
	want    int
	mu      sync.Mutex
	arrived int
	release chan struct{}
}

func (b *barrierFetcher) Fetch(_ context.Context, rawURL string) (*fetch.Response, error) {
	b.mu.Lock()
	release := b.release
	b.arrived++
	if b.arrived == b.want {
		close(release)
	}
	b.mu.Unlock()

	select {
	case <-release:
	case <-time.After(5 * time.Second):
		return nil, errors.New("fetches were not concurrent")
	}

	body := "<body>page</body>"
	if rawURL == "https://example.com/" {
		body = links("/1", "/2", "/3")
	}
	return &fetch.Response{URL: rawURL, FinalURL: rawURL, ContentType: htmlUTF8, Body: []byte(body)}, nil
}

// TestSpiderFetchesLevelConcurrently checks that a level's batch is fetched in parallel.
func TestSpiderFetchesLevelConcurrently(t *testing.T) {
	t.Parallel()

	// The seed arrives alone, so it needs its own barrier of one.
	b := &barrierFetcher{want: 1, release: make(chan struct{})}
	level := 0
	spider := NewSpider(b,
		WithMaxDepth(2),
		WithLogger(quietLogger()),
		WithLevelObserver(func(ev LevelEvent) {
			if ev.State == StateLevelPending && ev.Depth > level {
				level = ev.Depth
				b.mu.Lock()
				b.want, b.arrived = ev.Frontier, 0
				b.release = make(chan struct{})
				b.mu.Unlock()
			}
		}),
	)

	rs, err := spider.Crawl(t.Context(), "https://example.com/")
	if err != nil {
		t.Fatalf("Crawl() error = %v", err)
	}
	if rs.Len() != 4 {
		t.Errorf("expected 4 records, got %d", rs.Len())
	}
}

// TestSpiderContextCancelled checks that a cancelled context stops the crawl.
func TestSpiderContextCancelled(t *testing.T) {
	t.Parallel()

	t.Run("before the first level", func(t *testing.T) {
		t.Parallel()

		f := newFakeFetcher(map[string]fakePage{"https://example.com/": {body: links()}})
		spider := NewSpider(f, WithLogger(quietLogger()))

		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		rs, err := spider.Crawl(ctx, "https://example.com/")
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if rs == nil || rs.Len() != 0 {
			t.Errorf("expected an empty result set, got %v", rs)
		}
		if f.totalCalls() != 0 {
			t.Errorf("fetched %d URLs, expected 0", f.totalCalls())
		}
	})

	t.Run("between levels", func(t *testing.T) {
		t.Parallel()

		f := newFakeFetcher(map[string]fakePage{
			"https://example.com/":  {body: links("/a")},
			"https://example.com/a": {body: links()},
		})

		ctx, cancel := context.WithCancel(t.Context())
		defer cancel()

		spider := NewSpider(f,
			WithMaxDepth(3),
			WithLogger(quietLogger()),
			WithLevelObserver(func(ev LevelEvent) {
				if ev.State == StateLevelDone && ev.Depth == 0 {
					cancel()
				}
			}),
		)

		rs, err := spider.Crawl(ctx, "https://example.com/")
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if rs.Len() != 1 {
			t.Errorf("expected the seed record to be kept, got %d records", rs.Len())
		}
		if f.callCount("https://example.com/a") != 0 {
			t.Error("next level was fetched after cancellation")
		}
		if spider.State() != StateFinished {
			t.Errorf("State() = %v, expected finished", spider.State())
		}
	})
}

// TestSpiderInvalidSeed tests seed validation.
func TestSpiderInvalidSeed(t *testing.T) {
	t.Parallel()

	for _, seed := range []string{"", "example.com", "ftp://example.com/", "http://[::1", "https://"} {
		t.Run(seed, func(t *testing.T) {
			t.Parallel()

			spider := NewSpider(newFakeFetcher(nil))
			if _, err := spider.Crawl(t.Context(), seed); !errors.Is(err, ErrInvalidSeed) {
				t.Errorf("Crawl(%q) error = %v, expected ErrInvalidSeed", seed, err)
			}
		})
	}
}

// TestSpiderPatterns tests ignore and follow patterns.
func TestSpiderPatterns(t *testing.T) {
	t.Parallel()

	pages := map[string]fakePage{
		"https://example.com/":            {body: links("/admin/users", "/docs/a.pdf", "/blog/1", "/team")},
		"https://example.com/admin/users": {body: links()},
		"https://example.com/docs/a.pdf":  {body: links()},
		"https://example.com/blog/1":      {body: links()},
		"https://example.com/team":        {body: links()},
	}

	t.Run("ignore", func(t *testing.T) {
		t.Parallel()

		spider := NewSpider(newFakeFetcher(pages),
			WithMaxDepth(2),
			WithIgnorePatterns([]string{"/admin/*", "*.pdf"}),
			WithLogger(quietLogger()),
		)
		got := recordURLs(t, spider, "https://example.com/")

		want := []string{"https://example.com/", "https://example.com/blog/1", "https://example.com/team"}
		if !slices.Equal(got, want) {
			t.Errorf("records = %q, want %q", got, want)
		}
	})

	t.Run("follow", func(t *testing.T) {
		t.Parallel()

		spider := NewSpider(newFakeFetcher(pages),
			WithMaxDepth(2),
			WithFollowPatterns([]string{"/blog/*"}),
			WithLogger(quietLogger()),
		)
		got := recordURLs(t, spider, "https://example.com/")

		want := []string{"https://example.com/", "https://example.com/blog/1"}
		if !slices.Equal(got, want) {
			t.Errorf("records = %q, want %q", got, want)
		}
	})
}

// TestSpiderWithHTTPFetcher runs the spider against a real server.
func TestSpiderWithHTTPFetcher(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `<html><head><title>Home</title></head><body>
			<a href="/team">Team</a><a href="/missing">Missing</a><a href="/old">Old</a>
		</body></html>`)
	})
	mux.HandleFunc("/team", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `<html><head><title>Team</title></head><body>
			<p>Alice: alice@example.com, +1 555 123 4567</p>
			<a href="team">self</a>
		</body></html>`)
	})
	mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/team#moved", http.StatusMovedPermanently)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	f, err := fetch.New(fetch.WithUserAgents([]string{"test-agent"}), fetch.WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("fetch.New() error = %v", err)
	}

	spider := NewSpider(f, WithMaxDepth(3), WithLogger(quietLogger()))
	rs, err := spider.Crawl(t.Context(), server.URL)
	if err != nil {
		t.Fatalf("Crawl() error = %v", err)
	}

	byURL := make(map[string][]string)
	for _, rec := range rs.Records() {
		byURL[rec.URL] = rec.Emails
	}

	if _, ok := byURL[server.URL]; !ok {
		t.Errorf("seed missing from records: %v", byURL)
	}
	if emails := byURL[server.URL+"/team"]; !slices.Equal(emails, []string{"alice@example.com"}) {
		t.Errorf("team emails = %q", emails)
	}
	if _, ok := byURL[server.URL+"/missing"]; ok {
		t.Error("404 page produced a record")
	}
	// /old lands on /team, which is fetched in the same level.
	if _, ok := byURL[server.URL+"/old"]; ok {
		t.Error("redirect onto a visited URL produced a record")
	}
	if rs.Len() != 2 {
		t.Errorf("expected 2 records, got %d: %v", rs.Len(), byURL)
	}
	if got := spider.Stats().RedirectsSkipped; got != 1 {
		t.Errorf("RedirectsSkipped = %d, expected 1", got)
	}
}

// TestSpiderRedirects checks that redirect targets join the visited-set.
func TestSpiderRedirects(t *testing.T) {
	t.Parallel()

	other := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `<html><body>elsewhere: other@example.org</body></html>`)
	}))
	defer other.Close()

	var mu sync.Mutex
	hits := make(map[string]int)

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		hits[r.URL.Path]++
		mu.Unlock()

		switch r.URL.Path {
		case "/":
			http.Redirect(w, r, "/home", http.StatusFound)
		case "/home":
			w.Header().Set("Content-Type", "text/html")
			fmt.Fprint(w, `<html><body>a@b.com
				<a href="/home">self</a><a href="/start">start</a>
				<a href="/contact">contact</a><a href="/away">away</a>
			</body></html>`)
		case "/start", "/contact":
			http.Redirect(w, r, "/info", http.StatusFound)
		case "/info":
			w.Header().Set("Content-Type", "text/html")
			fmt.Fprint(w, `<html><body>info@b.com</body></html>`)
		case "/away":
			http.Redirect(w, r, other.URL+"/", http.StatusFound)
		default:
			http.NotFound(w, r)
		}
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	f, err := fetch.New(fetch.WithUserAgents([]string{"test-agent"}), fetch.WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("fetch.New() error = %v", err)
	}

	spider := NewSpider(f, WithMaxDepth(3), WithLogger(quietLogger()))
	rs, err := spider.Crawl(t.Context(), server.URL+"/")
	if err != nil {
		t.Fatalf("Crawl() error = %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if hits["/home"] != 1 {
		t.Errorf("/home fetched %d times, expected 1 (hits=%v)", hits["/home"], hits)
	}

	got := make([]string, 0, rs.Len())
	for _, rec := range rs.Records() {
		got = append(got, rec.URL)
		if slices.Contains(rec.Emails, "other@example.org") {
			t.Errorf("off-origin content stored under %s", rec.URL)
		}
	}
	// /start and /contact both land on /info; only the first is kept.
	expected := []string{server.URL + "/", server.URL + "/start"}
	if !slices.Equal(got, expected) {
		t.Errorf("records = %v, expected %v", got, expected)
	}

	stats := spider.Stats()
	if stats.RedirectsSkipped != 2 {
		t.Errorf("RedirectsSkipped = %d, expected 2", stats.RedirectsSkipped)
	}
	if stats.FetchFailures != 0 {
		t.Errorf("FetchFailures = %d, expected 0", stats.FetchFailures)
	}
}

// TestNormalizeURL tests URL normalization for deduplication.
func TestNormalizeURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"removes fragment", "https://example.com/page#section", "https://example.com/page"},
		{"lowercase scheme", "HTTPS://example.com/page", "https://example.com/page"},
		{"lowercase host", "https://EXAMPLE.com/page", "https://example.com/page"},
		{"empty path becomes root", "https://example.com", "https://example.com/"},
		{"preserves query", "https://example.com/search?q=test", "https://example.com/search?q=test"},
		{"drops default https port", "https://example.com:443/a", "https://example.com/a"},
		{"drops default http port", "http://example.com:80/a", "http://example.com/a"},
		{"keeps other ports", "https://example.com:8443/a", "https://example.com:8443/a"},
		{"path case is kept", "https://example.com/About", "https://example.com/About"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := normalizeURL(tt.input); got != tt.expected {
				t.Errorf("normalizeURL(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

// TestIsSameOrigin tests same-origin detection.
func TestIsSameOrigin(t *testing.T) {
	t.Parallel()

	base, err := url.Parse("https://example.com")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		target string
		want   bool
	}{
		{"same origin", "https://example.com/page", true},
		{"different case", "HTTPS://EXAMPLE.COM/page", true},
		{"explicit default port", "https://example.com:443/page", true},
		{"different scheme", "http://example.com/page", false},
		{"different port", "https://example.com:8443/page", false},
		{"subdomain", "https://www.example.com/page", false},
		{"different host", "https://other.example/page", false},
		{"invalid URL", "://invalid", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := isSameOrigin(base, tt.target); got != tt.want {
				t.Errorf("isSameOrigin(%q) = %v, want %v", tt.target, got, tt.want)
			}
		})
	}
}

// TestMatchPattern tests glob matching of URL paths.
func TestMatchPattern(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		pattern string
		path    string
		want    bool
	}{
		{"admin prefix match", "/admin/*", "/admin/dashboard", true},
		{"admin prefix exact", "/admin/*", "/admin", true},
		{"admin prefix no match", "/admin/*", "/user/profile", false},
		{"admin prefix partial no match", "/admin/*", "/administrator", false},
		{"nested admin", "/admin/*", "/admin/users/edit", true},
		{"pdf extension", "*.pdf", "/docs/file.pdf", true},
		{"pdf extension no match", "*.pdf", "/docs/file.txt", false},
		{"exact match", "/logout", "/logout", true},
		{"exact no match", "/logout", "/login", false},
		{"wildcard middle", "/api/v?/users", "/api/v1/users", true},
		{"wildcard middle no match", "/api/v?/users", "/api/v10/users", false},
		{"root no match prefix", "/admin/*", "/", false},
		{"segment glob", "*team*", "/about/team", true},
		{"segment glob no match", "*team*", "/about/staff", false},
		{"bad pattern", "[", "/", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := matchPattern(tt.pattern, tt.path); got != tt.want {
				t.Errorf("matchPattern(%q, %q) = %v, want %v", tt.pattern, tt.path, got, tt.want)
			}
		})
	}
}

func TestStateString(t *testing.T) {
	t.Parallel()

	tests := map[State]string{
		StateIdle:          "idle",
		StateLevelPending:  "level pending",
		StateLevelFetching: "level fetching",
		StateLevelDone:     "level done",
		StateFinished:      "finished",
		State(99):          "unknown",
	}
	for state, want := range tests {
		if got := state.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", int(state), got, want)
		}
	}
}
