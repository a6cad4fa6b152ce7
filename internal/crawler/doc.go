// Package crawler implements a level-bounded, same-origin breadth-first crawl.
//
// # Architecture
//
// The Spider walks the site one level at a time. Level 0 is the seed URL.
// For each level it takes at most maxPagesPerLevel URLs from the frontier
// (the rest are dropped), fetches them concurrently, and waits for all of
// them before merging the results and building the next frontier from the
// links they contain. The crawl stops after maxDepth levels or as soon as a
// frontier is empty.
//
// A link is admitted to the next frontier only if it has the seed's scheme,
// host and port and its normalized form has not been visited or queued yet,
// so no URL is fetched in more than one level.
//
// # Components
//
//   - Spider: Runs the level loop and reports state transitions
//   - Parser: Decodes a page and extracts its title, body text and links
//
// # Usage
//
//	f, _ := fetch.New(fetch.WithUserAgents(cfg.UserAgents))
//	spider := crawler.NewSpider(f, crawler.WithMaxDepth(2), crawler.WithMaxPagesPerLevel(10))
//	results, err := spider.Crawl(ctx, "https://example.com")
package crawler
