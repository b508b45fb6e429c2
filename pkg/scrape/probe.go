package scrape

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// TotalCount fetches the first listing page and parses the declared total
// dependent count out of the listing header ("1,234 Repositories"). The
// value only sizes the progress indicator.
//
// Unlike mid-pagination failures, every failure here is fatal: without a
// first page there is nothing to scrape and nothing to report. Fetched
// through the caching transport, the page is served from cache again when
// pagination starts.
func (s *Scraper) TotalCount(ctx context.Context) (int, error) {
	doc, err := s.fetchDoc(ctx, s.opts.StartURL)
	if err != nil {
		return 0, err
	}

	el := doc.Find(s.opts.Selectors.Count)
	if el.Length() == 0 {
		return 0, fmt.Errorf("dependent count element not found (selector %q)", s.opts.Selectors.Count)
	}

	text := strings.TrimSpace(el.First().Text())
	if text == "" {
		return 0, fmt.Errorf("dependent count element is empty")
	}

	token := strings.Fields(text)[0]
	n, err := strconv.Atoi(strings.ReplaceAll(token, ",", ""))
	if err != nil {
		return 0, fmt.Errorf("dependent count %q is not a number", token)
	}
	if n < 0 {
		return 0, fmt.Errorf("dependent count %d is negative", n)
	}
	return n, nil
}
