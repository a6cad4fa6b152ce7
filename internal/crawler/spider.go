package crawler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"path"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/contactcrawl/internal/extract"
	"github.com/nao1215/contactcrawl/internal/fetch"
	"github.com/nao1215/contactcrawl/internal/model"
)

// Fetcher retrieves a page. *fetch.Fetcher satisfies it.
// Fetch must be safe for concurrent use; a nil response with an error means
// the page is absent.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (*fetch.Response, error)
}

// Spider performs a level-bounded breadth-first crawl of a single origin.
//
// Levels are processed strictly one after another. All admitted URLs of a
// level are fetched concurrently and the next level starts only after every
// fetch has completed. The visited-set and the result set are touched only
// between levels, from the goroutine running Crawl.
type Spider struct {
	fetcher   Fetcher
	extractor *extract.Extractor
	logger    *slog.Logger
	observer  LevelObserver

	// maxDepth is the number of levels to fetch. The seed is level 0,
	// so a maxDepth of 1 fetches only the seed.
	maxDepth int

	// maxPagesPerLevel caps the URLs fetched at each level.
	// Excess URLs are dropped, not deferred.
	maxPagesPerLevel int

	// ignorePatterns are URL path patterns never enqueued.
	ignorePatterns []string

	// followPatterns, if set, are the only URL path patterns enqueued.
	followPatterns []string

	// mutex protects visited, state and stats.
	mutex   sync.Mutex
	visited map[string]bool
	state   State
	stats   SpiderStats
}

// SpiderOption configures a Spider.
type SpiderOption func(*Spider)

// WithMaxDepth sets the number of levels to fetch.
// 1 = only the seed, 2 = the seed plus the pages it links to, etc.
func WithMaxDepth(depth int) SpiderOption {
	return func(s *Spider) {
		s.maxDepth = depth
	}
}

// WithMaxPagesPerLevel sets the number of URLs fetched at each level.
func WithMaxPagesPerLevel(n int) SpiderOption {
	return func(s *Spider) {
		s.maxPagesPerLevel = n
	}
}

// WithExtractor sets the contact extractor.
func WithExtractor(e *extract.Extractor) SpiderOption {
	return func(s *Spider) {
		s.extractor = e
	}
}

// WithLogger sets the logger for skipped pages.
func WithLogger(logger *slog.Logger) SpiderOption {
	return func(s *Spider) {
		s.logger = logger
	}
}

// WithLevelObserver registers a function called on every state transition.
func WithLevelObserver(o LevelObserver) SpiderOption {
	return func(s *Spider) {
		s.observer = o
	}
}

// WithIgnorePatterns sets URL path patterns to skip during crawling.
// Patterns use glob syntax (e.g., "/admin/*", "*.pdf", "/logout*").
// URLs matching any of these patterns will not be crawled.
func WithIgnorePatterns(patterns []string) SpiderOption {
	return func(s *Spider) {
		s.ignorePatterns = patterns
	}
}

// WithFollowPatterns sets URL path patterns to follow during crawling.
// If set, only URLs matching at least one pattern are crawled.
// The seed is always fetched.
func WithFollowPatterns(patterns []string) SpiderOption {
	return func(s *Spider) {
		s.followPatterns = patterns
	}
}

// NewSpider creates a new Spider that fetches pages with fetcher.
func NewSpider(fetcher Fetcher, opts ...SpiderOption) *Spider {
	s := &Spider{
		fetcher:          fetcher,
		extractor:        extract.NewExtractor(),
		logger:           slog.Default(),
		maxDepth:         3,
		maxPagesPerLevel: 20,
		visited:          make(map[string]bool),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// pageOutcome is what one fetch goroutine hands back to the control flow.
type pageOutcome struct {
	record   model.PageRecord
	links    []string
	finalURL string
}

// Crawl fetches seedURL and the same-origin pages reachable from it, level
// by level, and returns one record per successfully fetched page.
//
// Failed fetches and unparsable pages are logged and skipped. If ctx is
// cancelled the records collected so far are returned together with the
// context's error.
func (s *Spider) Crawl(ctx context.Context, seedURL string) (*model.ResultSet, error) {
	seedURL = strings.TrimSpace(seedURL)
	seed, err := url.Parse(seedURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSeed, err)
	}
	if (seed.Scheme != "http" && seed.Scheme != "https") || seed.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSeed, seedURL)
	}

	s.reset()
	results := model.NewResultSet()
	frontier := []string{seedURL}
	lastDepth := -1

	for depth := 0; depth < s.maxDepth; depth++ {
		if len(frontier) == 0 {
			break
		}
		if err := ctx.Err(); err != nil {
			s.finish(lastDepth, results.Len())
			return results, err
		}
		lastDepth = depth

		s.transition(LevelEvent{
			State:     StateLevelPending,
			Depth:     depth,
			Frontier:  len(frontier),
			Collected: results.Len(),
		})

		batch, dropped := s.admit(frontier)

		s.transition(LevelEvent{
			State:     StateLevelFetching,
			Depth:     depth,
			Frontier:  len(frontier),
			Admitted:  len(batch),
			Dropped:   dropped,
			Collected: results.Len(),
		})

		outcomes := s.fetchLevel(ctx, batch)

		// Level join: only this goroutine touches results and visited from here.
		next := make([]string, 0)
		queued := make(map[string]bool)
		landed := make(map[string]bool)
		fetched, skipped := 0, 0
		for i, o := range outcomes {
			if o == nil {
				continue
			}
			if !s.acceptLanding(seed, batch[i], o.finalURL, landed) {
				skipped++
				continue
			}
			fetched++
			results.Append(o.record)

			if depth+1 >= s.maxDepth {
				continue
			}
			for _, link := range o.links {
				key := normalizeURL(link)
				if queued[key] || s.isVisited(link) {
					continue
				}
				if !isSameOrigin(seed, link) || !s.shouldCrawl(link) {
					continue
				}
				queued[key] = true
				next = append(next, link)
			}
		}

		s.mutex.Lock()
		s.stats.PagesFetched += fetched
		s.stats.RedirectsSkipped += skipped
		s.stats.FetchFailures += len(batch) - fetched - skipped
		s.mutex.Unlock()

		s.transition(LevelEvent{
			State:     StateLevelDone,
			Depth:     depth,
			Frontier:  len(frontier),
			Admitted:  len(batch),
			Dropped:   dropped,
			Fetched:   fetched,
			Collected: results.Len(),
		})

		frontier = next
	}

	s.finish(lastDepth, results.Len())
	if err := ctx.Err(); err != nil {
		return results, err
	}
	return results, nil
}

// admit applies the per-level cap and marks the admitted URLs as visited.
func (s *Spider) admit(frontier []string) ([]string, int) {
	batch := frontier
	dropped := 0
	if len(batch) > s.maxPagesPerLevel {
		dropped = len(batch) - s.maxPagesPerLevel
		batch = batch[:s.maxPagesPerLevel]
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()
	for _, u := range batch {
		s.visited[normalizeURL(u)] = true
	}
	s.stats.URLsDropped += dropped

	return batch, dropped
}

// fetchLevel fetches every URL of batch concurrently and waits for all of
// them. The outcome of batch[i] lands in slot i; a nil slot means the page
// was not fetched or not usable.
func (s *Spider) fetchLevel(ctx context.Context, batch []string) []*pageOutcome {
	outcomes := make([]*pageOutcome, len(batch))

	// Workers never return an error, so one failed page cannot cancel the rest.
	var g errgroup.Group
	for i, pageURL := range batch {
		g.Go(func() error {
			outcomes[i] = s.visit(ctx, pageURL)
			return nil
		})
	}
	_ = g.Wait() //nolint:errcheck // workers always return nil

	return outcomes
}

// visit fetches, parses and extracts a single page.
func (s *Spider) visit(ctx context.Context, pageURL string) *pageOutcome {
	resp, err := s.fetcher.Fetch(ctx, pageURL)
	if err != nil || resp == nil {
		// The fetcher has already reported the failure.
		return nil
	}

	base := resp.FinalURL
	if base == "" {
		base = pageURL
	}
	parser, err := NewParser(base)
	if err != nil {
		s.logger.Warn("skipping page", "url", pageURL, "error", err)
		return nil
	}

	result, err := parser.Parse(bytes.NewReader(resp.Body), resp.ContentType)
	if err != nil {
		if errors.Is(err, ErrUnsupportedContent) {
			s.logger.Info("skipping page", "url", pageURL, "error", err)
		} else {
			s.logger.Warn("skipping page", "url", pageURL, "error", err)
		}
		return nil
	}

	contacts := s.extractor.Extract(result.Text)
	if contacts.Empty() {
		s.logger.Debug("no contacts on page", "url", pageURL)
	}

	return &pageOutcome{
		record:   model.NewPageRecord(pageURL, result.Title, result.Text, contacts.Emails, contacts.Phones),
		links:    result.Links,
		finalURL: base,
	}
}

// acceptLanding decides whether the page fetched for pageURL is kept.
// A page whose redirect left the seed's origin is dropped, and so is one
// that landed on a URL already visited or already landed on in this level.
// The landing URL is marked as visited.
func (s *Spider) acceptLanding(seed *url.URL, pageURL, finalURL string, landed map[string]bool) bool {
	key := normalizeURL(pageURL)
	finalKey := key
	if finalURL != "" {
		finalKey = normalizeURL(finalURL)
	}

	if finalKey != key {
		if !isSameOrigin(seed, finalURL) {
			s.logger.Info("skipping page redirected off origin", "url", pageURL, "final_url", finalURL)
			return false
		}
		if landed[finalKey] || s.isVisited(finalURL) {
			s.logger.Debug("skipping page redirected to a visited URL", "url", pageURL, "final_url", finalURL)
			return false
		}
	} else if landed[finalKey] {
		return false
	}

	landed[finalKey] = true
	s.mutex.Lock()
	s.visited[finalKey] = true
	s.mutex.Unlock()
	return true
}

// transition records the new state and notifies the observer.
func (s *Spider) transition(ev LevelEvent) {
	ev.MaxDepth = s.maxDepth

	s.mutex.Lock()
	s.state = ev.State
	if ev.State == StateLevelFetching {
		s.stats.Levels++
	}
	s.mutex.Unlock()

	if s.observer != nil {
		s.observer(ev)
	}
}

func (s *Spider) finish(lastDepth, collected int) {
	s.transition(LevelEvent{
		State:     StateFinished,
		Depth:     lastDepth,
		Collected: collected,
	})
}

// reset clears the state of a previous crawl.
func (s *Spider) reset() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.visited = make(map[string]bool)
	s.state = StateIdle
	s.stats = SpiderStats{}
}

// State returns the current state of the crawl.
func (s *Spider) State() State {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.state
}

// isVisited checks if a URL has been visited.
func (s *Spider) isVisited(pageURL string) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.visited[normalizeURL(pageURL)]
}

// Stats returns current crawl statistics.
func (s *Spider) Stats() SpiderStats {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	stats := s.stats
	stats.URLsVisited = len(s.visited)
	return stats
}

// SpiderStats contains crawl statistics.
type SpiderStats struct {
	// Levels is the number of levels that were fetched.
	Levels int

	// URLsVisited is the number of unique URLs admitted for fetching or
	// reached through a redirect.
	URLsVisited int

	// PagesFetched is the number of pages that produced a record.
	PagesFetched int

	// FetchFailures is the number of admitted URLs that produced no record.
	FetchFailures int

	// URLsDropped is the number of URLs discarded by the per-level cap.
	URLsDropped int

	// RedirectsSkipped is the number of fetched pages discarded because a
	// redirect led off origin or onto an already visited URL.
	RedirectsSkipped int
}

// normalizeURL normalizes a URL for deduplication.
// The fragment is removed, scheme and host are lower-cased, a default port
// is dropped and an empty path becomes "/".
func normalizeURL(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		return pageURL
	}

	u.Fragment = ""
	u.RawFragment = ""
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)

	if port := u.Port(); port != "" && port == defaultPort(u.Scheme) {
		u.Host = u.Hostname()
		if strings.Contains(u.Host, ":") {
			u.Host = "[" + u.Host + "]"
		}
	}

	if u.Path == "" {
		u.Path = "/"
	}

	return u.String()
}

// isSameOrigin reports whether targetURL has the same scheme, host and
// port as base. Default ports are made explicit before comparing.
func isSameOrigin(base *url.URL, targetURL string) bool {
	u, err := url.Parse(targetURL)
	if err != nil {
		return false
	}

	return strings.EqualFold(u.Scheme, base.Scheme) &&
		strings.EqualFold(u.Hostname(), base.Hostname()) &&
		effectivePort(u) == effectivePort(base)
}

func effectivePort(u *url.URL) string {
	if port := u.Port(); port != "" {
		return port
	}
	return defaultPort(strings.ToLower(u.Scheme))
}

func defaultPort(scheme string) string {
	switch scheme {
	case "http":
		return "80"
	case "https":
		return "443"
	default:
		return ""
	}
}

// shouldCrawl applies the path filters to a discovered link. An ignore
// match always wins; with follow patterns set, the path must match one.
func (s *Spider) shouldCrawl(targetURL string) bool {
	u, err := url.Parse(targetURL)
	if err != nil {
		return false
	}
	p := u.Path
	if p == "" {
		p = "/"
	}

	matches := func(pattern string) bool { return matchPattern(pattern, p) }
	if slices.ContainsFunc(s.ignorePatterns, matches) {
		return false
	}
	return len(s.followPatterns) == 0 || slices.ContainsFunc(s.followPatterns, matches)
}

// matchPattern reports whether a URL path matches a filter pattern.
//
//	"/blog/*"  the /blog subtree, /blog included
//	"*.pdf"    any path ending in .pdf
//	"*team*"   a slash-free pattern is also tried on the last segment
//
// Anything else is a path.Match glob over the whole path.
func matchPattern(pattern, p string) bool {
	switch {
	case strings.HasSuffix(pattern, "/*"):
		dir := strings.TrimSuffix(pattern, "/*")
		if p == dir || strings.HasPrefix(p, dir+"/") {
			return true
		}
	case strings.HasPrefix(pattern, "*."):
		if strings.HasSuffix(p, pattern[1:]) {
			return true
		}
	}

	if ok, err := path.Match(pattern, p); err == nil && ok {
		return true
	}
	if strings.Contains(pattern, "*") && !strings.Contains(pattern, "/") {
		ok, err := path.Match(pattern, path.Base(p))
		return err == nil && ok
	}
	return false
}
