package letterboxd

import (
	"context"
	"regexp"
)

// PageReport records what a single diagnostic fetch saw.
type PageReport struct {
	URL     string `json:"url"`
	OK      bool   `json:"ok"`
	Items   int    `json:"items"`
	Error   string `json:"error,omitempty"`
	Snippet string `json:"snippet,omitempty"`
}

// Report is a visibility report for a user's listings: which pages answered,
// how many items each one exposed, and a snippet of what came back. It is
// produced without touching the catalog or embedding services.
type Report struct {
	Username  string       `json:"username"`
	Ratings   []PageReport `json:"ratings"`
	Feed      PageReport   `json:"feed"`
	Diary     []PageReport `json:"diary"`
	Watchlist []PageReport `json:"watchlist"`
}

// Diagnose fetches the first two pages of each listing plus the feed and
// reports item counts. Fetches go through the raw tier only, so the report
// reflects what the direct client identity can actually see.
func (r *Reader) Diagnose(ctx context.Context, user string) *Report {
	report := &Report{Username: user}

	for page := 1; page <= 2; page++ {
		report.Ratings = append(report.Ratings,
			r.probe(ctx, r.RatingsURL(user, page), func(html string) int { return len(ExtractRatings(html)) }))
		report.Diary = append(report.Diary,
			r.probe(ctx, r.DiaryURL(user, page), func(html string) int { return len(ExtractDiary(html)) }))
		report.Watchlist = append(report.Watchlist,
			r.probe(ctx, r.WatchlistURL(user, page), func(html string) int { return len(ExtractWatchlist(html)) }))
	}
	report.Feed = r.probe(ctx, r.FeedURL(user), func(body string) int { return len(ParseDiaryFeed(body)) })

	return report
}

func (r *Reader) probe(ctx context.Context, url string, count func(string) int) PageReport {
	body, err := r.raw(ctx, url)
	if err != nil {
		return PageReport{URL: url, Error: err.Error()}
	}
	return PageReport{
		URL:     url,
		OK:      true,
		Items:   count(body),
		Snippet: snip(body, 200),
	}
}

var whitespace = regexp.MustCompile(`\s+`)

func snip(s string, n int) string {
	s = whitespace.ReplaceAllString(s, " ")
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
