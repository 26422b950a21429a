package letterboxd

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/mbaxter/reeltaste/internal/fetch"
	"github.com/mbaxter/reeltaste/internal/types"
)

// DefaultBaseURL is the public site root.
const DefaultBaseURL = "https://letterboxd.com"

// Pagination bounds per listing kind. The watchlist grid shows 18 posters per
// full page, so a shorter page is the final one.
const (
	MaxRatingsPages   = 10
	MaxDiaryPages     = 5
	MaxWatchlistPages = 20
	WatchlistPageSize = 18
)

// Fetcher produces the markup for a listing URL, or an error when every
// fetch tier is exhausted.
type Fetcher interface {
	Page(ctx context.Context, url string) (string, error)
}

// RawFetch fetches a URL without the markup plausibility gate; used for the
// RSS feed, which has no html root.
type RawFetch func(ctx context.Context, url string) (string, error)

// Reader produces deduplicated listing collections for a username. Every
// method degrades to an empty collection on total failure; fetch errors never
// propagate to the caller.
type Reader struct {
	fetcher Fetcher
	raw     RawFetch
	baseURL string
}

// Option configures a Reader.
type Option func(*Reader)

// WithBaseURL overrides the site root (tests point this at a local server).
func WithBaseURL(base string) Option {
	return func(r *Reader) { r.baseURL = strings.TrimSuffix(base, "/") }
}

// WithRawFetch overrides the feed fetch.
func WithRawFetch(raw RawFetch) Option {
	return func(r *Reader) { r.raw = raw }
}

// NewReader creates a Reader on top of a resilient page fetcher.
func NewReader(fetcher Fetcher, opts ...Option) *Reader {
	r := &Reader{
		fetcher: fetcher,
		baseURL: DefaultBaseURL,
		raw: func(ctx context.Context, url string) (string, error) {
			result, err := fetch.URL(ctx, url, nil)
			if err != nil {
				return "", err
			}
			return result.Body, nil
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// CleanUsername normalizes user input: whitespace, a leading @, and stray
// slashes are dropped.
func CleanUsername(user string) string {
	user = strings.TrimSpace(user)
	user = strings.TrimPrefix(user, "@")
	return strings.Trim(user, "/")
}

// RatingsURL returns the address of one ratings page.
func (r *Reader) RatingsURL(user string, page int) string {
	return r.listingURL(fmt.Sprintf("%s/films/ratings/", user), page)
}

// DiaryURL returns the address of one diary page.
func (r *Reader) DiaryURL(user string, page int) string {
	return r.listingURL(fmt.Sprintf("%s/films/diary/", user), page)
}

// WatchlistURL returns the address of one watchlist page.
func (r *Reader) WatchlistURL(user string, page int) string {
	return r.listingURL(fmt.Sprintf("%s/watchlist/", user), page)
}

// FeedURL returns the address of the user's RSS feed.
func (r *Reader) FeedURL(user string) string {
	return fmt.Sprintf("%s/%s/rss/", r.baseURL, user)
}

func (r *Reader) listingURL(path string, page int) string {
	if page <= 1 {
		return fmt.Sprintf("%s/%s", r.baseURL, path)
	}
	return fmt.Sprintf("%s/%spage/%d/", r.baseURL, path, page)
}

// Ratings collects the user's rated films across ratings pages.
func (r *Reader) Ratings(ctx context.Context, user string) []types.RatedFilm {
	return Collect(ctx, MaxRatingsPages, 0,
		func(ctx context.Context, page int) (string, error) {
			return r.fetcher.Page(ctx, r.RatingsURL(user, page))
		},
		ExtractRatings,
		types.RatedFilm.Key,
	)
}

// Diary collects the user's diary entries. The RSS feed is tried first (one
// request); if it yields nothing the paginated markup reader takes over.
func (r *Reader) Diary(ctx context.Context, user string) []types.DiaryEntry {
	if body, err := r.raw(ctx, r.FeedURL(user)); err == nil {
		if entries := dedupeDiary(ParseDiaryFeed(body)); len(entries) > 0 {
			return entries
		}
	} else {
		log.Debug().Str("user", user).Err(err).Msg("diary feed unavailable, using markup pages")
	}

	return Collect(ctx, MaxDiaryPages, 0,
		func(ctx context.Context, page int) (string, error) {
			return r.fetcher.Page(ctx, r.DiaryURL(user, page))
		},
		ExtractDiary,
		types.DiaryEntry.Key,
	)
}

// Watchlist collects the user's watchlist entries. A page with fewer than
// WatchlistPageSize posters is treated as the final one.
func (r *Reader) Watchlist(ctx context.Context, user string) []types.WatchlistEntry {
	return Collect(ctx, MaxWatchlistPages, WatchlistPageSize,
		func(ctx context.Context, page int) (string, error) {
			return r.fetcher.Page(ctx, r.WatchlistURL(user, page))
		},
		ExtractWatchlist,
		types.WatchlistEntry.Key,
	)
}

func dedupeDiary(entries []types.DiaryEntry) []types.DiaryEntry {
	seen := make(map[string]bool)
	out := []types.DiaryEntry{}
	for _, e := range entries {
		if seen[e.Key()] {
			continue
		}
		seen[e.Key()] = true
		out = append(out, e)
	}
	return out
}
