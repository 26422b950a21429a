package letterboxd

import "context"

// PageFetcher fetches the markup for one page of a listing.
type PageFetcher func(ctx context.Context, page int) (string, error)

// Collect drives a per-page extractor across successive pages of a listing
// and returns the deduplicated union.
//
// Pagination stops at maxPages, on the first fetch failure (treated as "no
// more pages", not an error), on an empty page, or - when minPerPage is
// positive - on a page with fewer than minPerPage items, which signals a
// final partial page.
func Collect[T any](ctx context.Context, maxPages, minPerPage int, fetchPage PageFetcher, extract func(html string) []T, key func(T) string) []T {
	seen := make(map[string]bool)
	collected := []T{}

	for page := 1; page <= maxPages; page++ {
		html, err := fetchPage(ctx, page)
		if err != nil {
			break
		}

		items := extract(html)
		for _, item := range items {
			k := key(item)
			if seen[k] {
				continue
			}
			seen[k] = true
			collected = append(collected, item)
		}

		if len(items) == 0 {
			break
		}
		if minPerPage > 0 && len(items) < minPerPage {
			break
		}
	}

	return collected
}
