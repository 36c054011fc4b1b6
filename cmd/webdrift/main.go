// Package main provides the entry point for the webdrift CLI.
//
// Webdrift is a breadth-first web crawler that streams page text to
// the terminal as it walks a site's link graph.
//
// Usage:
//
//	webdrift crawl <url>
//	webdrift probe <url>
//
// See --help for all available options.
package main

// main is the entry point for webdrift.
func main() {
	Execute()
}
