package crawler

import (
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// hrefPattern is the fallback matcher: href followed by = and a quoted
// value, anywhere in the raw text. It fires inside comments and broken
// tags that the structural parser never surfaces as anchors.
var hrefPattern = regexp.MustCompile(`(?i)href\s*=\s*["']([^"']+)["']`)

// ExtractLinks returns every href target found in text, resolved to
// absolute form against baseURL, deduplicated while preserving
// first-seen order.
//
// Two independent passes run over the same input: a structural pass
// over a forgiving HTML parse tree, then a permissive regex pass over
// the raw text. Their results are concatenated before deduplication.
//
// Design decision: The passes stay separate rather than being merged
// into one scan because the fallback must keep working on markup the
// structural parser mangles or drops. Overlap between them is expected
// and handled by the dedup step.
func ExtractLinks(baseURL, text string) []string {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil
	}

	links := structuralLinks(base, text)
	links = append(links, fallbackLinks(base, text)...)

	seen := make(map[string]struct{}, len(links))
	unique := make([]string, 0, len(links))
	for _, link := range links {
		if _, ok := seen[link]; ok {
			continue
		}
		seen[link] = struct{}{}
		unique = append(unique, link)
	}

	return unique
}

// structuralLinks walks a parsed HTML tree and collects the first
// non-empty href attribute of every anchor element.
//
// html.Parse never aborts on malformed input; it repairs what it can
// and the fallback pass covers the rest.
func structuralLinks(base *url.URL, text string) []string {
	doc, err := html.Parse(strings.NewReader(text))
	if err != nil {
		return nil
	}

	var links []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && strings.EqualFold(n.Data, "a") {
			for _, attr := range n.Attr {
				if strings.EqualFold(attr.Key, "href") && attr.Val != "" {
					if resolved, ok := resolveRef(base, attr.Val); ok {
						links = append(links, resolved)
					}
					break
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return links
}

// fallbackLinks scans the raw text for quoted href values regardless
// of surrounding markup. Values are trimmed before resolution; a
// whitespace-only value therefore resolves to the base address itself,
// which the structural pass would have ignored.
func fallbackLinks(base *url.URL, text string) []string {
	matches := hrefPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}

	links := make([]string, 0, len(matches))
	for _, m := range matches {
		if resolved, ok := resolveRef(base, strings.TrimSpace(m[1])); ok {
			links = append(links, resolved)
		}
	}

	return links
}

// resolveRef resolves one href value against the base address using
// standard relative-URL resolution.
func resolveRef(base *url.URL, href string) (string, bool) {
	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	return base.ResolveReference(ref).String(), true
}
