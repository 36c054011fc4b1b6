package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// printBanner writes the startup banner. Color output degrades to
// plain text automatically when stdout is not a terminal.
func printBanner(w io.Writer) {
	title := color.New(color.FgCyan, color.Bold)
	dim := color.New(color.Faint)

	_, _ = title.Fprintln(w, "webdrift")
	_, _ = dim.Fprintln(w, "breadth-first crawler / page text streamer")
	fmt.Fprintln(w)
}

// promptSeed asks the user for a seed URL when none was given on the
// command line. Returns an empty string when the input stream ends
// without a usable line.
func promptSeed(r io.Reader, w io.Writer) string {
	fmt.Fprint(w, "Enter the URL to crawl: ")

	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		return ""
	}
	return strings.TrimSpace(scanner.Text())
}

// promptYesNo asks a yes/no question and returns the answer.
// Anything other than an explicit yes counts as no.
func promptYesNo(r io.Reader, w io.Writer, question string) bool {
	fmt.Fprintf(w, "%s [y/N]: ", question)

	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		return false
	}

	switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// normalizeSeed prefixes a bare hostname with http:// so users can
// type "example.com" instead of a full URL.
func normalizeSeed(seed string) string {
	seed = strings.TrimSpace(seed)
	if seed == "" {
		return seed
	}
	if !strings.Contains(seed, "://") {
		return "http://" + seed
	}
	return seed
}
