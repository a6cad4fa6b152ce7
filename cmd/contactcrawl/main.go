// Package main provides the entry point for the contactcrawl CLI.
//
// contactcrawl crawls a website breadth-first within the seed's origin and
// collects email addresses and phone numbers found in page text.
//
// Usage:
//
//	contactcrawl crawl <seed-url>
//	contactcrawl compare <previous.json> <current.json>
//
// See --help for all available options.
package main

// main is the entry point for contactcrawl.
func main() {
	Execute()
}
