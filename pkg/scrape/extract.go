package scrape

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// skipReason tags why a fragment (or one extraction stage of it) yielded no
// value. Making the skip-vs-accept policy a visible result type keeps the
// extractor's control flow testable instead of burying it in error handling.
type skipReason int

const (
	skipNone skipReason = iota
	// skipNoStarElement: the row renders without a star count, which is how
	// GitHub displays ghost and private dependents. Expected, not an error.
	skipNoStarElement
	// skipBadStarCount: the star element's text did not parse as an integer.
	skipBadStarCount
	// skipNoRepoLink: no repository link element in the row.
	skipNoRepoLink
	// skipNoHref: the link element carries no href attribute.
	skipNoHref
)

func (r skipReason) String() string {
	switch r {
	case skipNone:
		return "none"
	case skipNoStarElement:
		return "no star count element"
	case skipBadStarCount:
		return "unparsable star count"
	case skipNoRepoLink:
		return "no repository link"
	case skipNoHref:
		return "repository link without href"
	default:
		return "unknown"
	}
}

// extractStars locates and parses the star count of one dependent row.
// Thousands separators ("1,234") are stripped before conversion.
func extractStars(frag *goquery.Selection, sel Selectors) (int, skipReason) {
	el := frag.Find(sel.Stars)
	if el.Length() == 0 {
		return 0, skipNoStarElement
	}
	text := strings.TrimSpace(el.First().Text())
	n, err := strconv.Atoi(strings.ReplaceAll(text, ",", ""))
	if err != nil || n < 0 {
		return 0, skipBadStarCount
	}
	return n, skipNone
}

// extractRepoPath locates the repository link of one dependent row and
// returns its relative path (e.g. "/owner/repo").
func extractRepoPath(frag *goquery.Selection, sel Selectors) (string, skipReason) {
	link := frag.Find(sel.Repo)
	if link.Length() == 0 {
		return "", skipNoRepoLink
	}
	href, ok := link.First().Attr("href")
	if !ok || href == "" {
		return "", skipNoHref
	}
	return href, skipNone
}

// nextPageURL resolves the successor listing page from a page's pagination
// controls. The policy mirrors how GitHub renders them:
//
//   - exactly two links: "Previous" and "Next", in that order; take the second
//   - one link labeled "Next": first page of a multi-page listing; take it
//   - no links, or a single "Previous": pagination is exhausted
//
// A matching link without a usable href also ends pagination. Any layout
// outside these shapes is treated as exhaustion; the page-cap safety valve
// in the run loop guards against pathological self-referencing controls.
func nextPageURL(doc *goquery.Document, sel Selectors) (string, bool) {
	links := doc.Find(sel.NextButton)
	var next *goquery.Selection
	switch {
	case links.Length() == 2:
		next = links.Eq(1)
	case links.Length() >= 1 && strings.TrimSpace(links.First().Text()) == "Next":
		next = links.First()
	default:
		return "", false
	}
	href, ok := next.Attr("href")
	if !ok || href == "" {
		return "", false
	}
	return href, true
}
