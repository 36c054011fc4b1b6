// Package crawler implements the webdrift crawl engine.
//
// # Architecture
//
// The package is built around four pieces:
//
//   - ExtractLinks: dual-strategy link extraction over page text
//   - Streamer: line-oriented page streaming that suppresses style blocks
//   - ManifestProber: the one-shot llms.txt probe
//   - Spider: the breadth-first crawl loop tying them together
//
// Design decision: We implement our own crawl loop rather than using a
// third-party crawling library because:
//  1. The traversal is deliberately unbounded with no visited set,
//     which every general-purpose crawler exists to prevent
//  2. Page text must be streamed to the console as it is processed
//  3. The loop is a few dozen lines; a framework would obscure it
//
// # Traversal
//
// The Spider owns a FIFO work queue seeded with one address. Every
// extracted http(s) link is enqueued unconditionally: the same address
// may be fetched many times, and a cyclic link graph keeps the queue
// alive forever. The only exits are queue exhaustion, context
// cancellation, and a successful manifest probe before the loop starts.
//
// # Usage
//
//	spider := crawler.NewSpider(fetcher, streamer, prober, os.Stdout)
//	summary, err := spider.Run(ctx, "http://example.com/")
package crawler
