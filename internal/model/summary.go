package model

import "time"

// Summary is a condensed, human-readable view of a finished crawl.
// It is derived from a ResultSet and never persisted with it.
type Summary struct {
	// RunID identifies the crawl run in logs and summaries. Empty if unset.
	RunID string `json:"run_id,omitempty"`

	// SeedURL is the URL the crawl started from.
	SeedURL string `json:"seed_url"`

	// DateCrawled is when the crawl started.
	DateCrawled time.Time `json:"date_crawled"`

	// Duration is the wall-clock time the crawl took.
	Duration time.Duration `json:"duration"`

	// PagesCrawled is the number of pages that produced a record.
	PagesCrawled int `json:"pages_crawled"`

	// PagesWithContacts is the number of pages with at least one email or phone.
	PagesWithContacts int `json:"pages_with_contacts"`

	// Emails are the unique emails across all pages, in order of first appearance.
	Emails []string `json:"emails"`

	// Phones are the unique phones across all pages, in order of first appearance.
	Phones []string `json:"phones"`

	// Pages lists the crawled pages in result order.
	Pages []PageSummary `json:"pages"`

	// OutputFile is where the full results were written. Empty if not written.
	OutputFile string `json:"output_file,omitempty"`
}

// PageSummary is one row of a Summary.
type PageSummary struct {
	URL      string `json:"url"`
	Title    string `json:"title"`
	Emails   int    `json:"emails"`
	Phones   int    `json:"phones"`
	Contacts bool   `json:"contacts"`
}

// NewSummary builds a Summary from a ResultSet.
func NewSummary(seedURL string, started time.Time, duration time.Duration, rs *ResultSet) *Summary {
	s := &Summary{
		SeedURL:     seedURL,
		DateCrawled: started,
		Duration:    duration,
		Emails:      make([]string, 0),
		Phones:      make([]string, 0),
		Pages:       make([]PageSummary, 0),
	}
	if rs == nil {
		return s
	}

	seenEmails := make(map[string]bool)
	seenPhones := make(map[string]bool)

	for _, rec := range rs.records {
		hasContacts := len(rec.Emails) > 0 || len(rec.Phones) > 0
		if hasContacts {
			s.PagesWithContacts++
		}
		s.Pages = append(s.Pages, PageSummary{
			URL:      rec.URL,
			Title:    rec.Title,
			Emails:   len(rec.Emails),
			Phones:   len(rec.Phones),
			Contacts: hasContacts,
		})

		for _, e := range rec.Emails {
			if !seenEmails[e] {
				seenEmails[e] = true
				s.Emails = append(s.Emails, e)
			}
		}
		for _, p := range rec.Phones {
			if !seenPhones[p] {
				seenPhones[p] = true
				s.Phones = append(s.Phones, p)
			}
		}
	}
	s.PagesCrawled = len(s.Pages)

	return s
}

// HasContacts reports whether any page yielded an email or a phone.
func (s *Summary) HasContacts() bool {
	return len(s.Emails) > 0 || len(s.Phones) > 0
}
