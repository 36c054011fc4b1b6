// Package database provides SQLite-based persistence for the fetch
// journal. Every queue item the crawler processes is appended as a
// row, so past sessions can be inspected after the fact: which
// addresses were fetched, which were skipped by the content-type gate,
// and which failed.
//
// The journal is strictly write-behind: the crawler never reads it to
// decide what to fetch next.
package database
