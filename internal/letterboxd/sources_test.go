package letterboxd

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mapFetcher serves canned bodies by URL; unknown URLs fail like a 404.
type mapFetcher struct {
	pages map[string]string
	hits  []string
}

func (f *mapFetcher) Page(_ context.Context, url string) (string, error) {
	f.hits = append(f.hits, url)
	body, ok := f.pages[url]
	if !ok {
		return "", fmt.Errorf("no page at %s", url)
	}
	return body, nil
}

func detailRating(name, year string, rated int) string {
	return fmt.Sprintf(`<li class="film-detail"><h2 class="headline-2"><a>%s</a>
		<small class="metadata"><a>%s</a></small></h2>
		<span class="rating rated-%d"></span></li>`, name, year, rated)
}

func posterCell(name, year string) string {
	return fmt.Sprintf(`<li><div class="poster" data-film-name="%s" data-film-release-year="%s"></div></li>`, name, year)
}

func htmlPage(inner string) string {
	return "<html><body>" + inner + "</body></html>"
}

func TestCleanUsername(t *testing.T) {
	assert.Equal(t, "kogonada", CleanUsername("  @kogonada/ "))
	assert.Equal(t, "kogonada", CleanUsername("/kogonada"))
	assert.Equal(t, "", CleanUsername("  @/ "))
}

func TestReader_URLShapes(t *testing.T) {
	r := NewReader(&mapFetcher{}, WithBaseURL("https://example.org/"))
	assert.Equal(t, "https://example.org/u/films/ratings/", r.RatingsURL("u", 1))
	assert.Equal(t, "https://example.org/u/films/ratings/page/2/", r.RatingsURL("u", 2))
	assert.Equal(t, "https://example.org/u/films/diary/", r.DiaryURL("u", 1))
	assert.Equal(t, "https://example.org/u/watchlist/page/3/", r.WatchlistURL("u", 3))
	assert.Equal(t, "https://example.org/u/rss/", r.FeedURL("u"))
}

func TestReader_Ratings_PaginatesAndDeduplicates(t *testing.T) {
	fetcher := &mapFetcher{pages: map[string]string{
		"https://x/u/films/ratings/":        htmlPage(detailRating("Stalker", "1979", 10) + detailRating("Mirror", "1975", 9)),
		"https://x/u/films/ratings/page/2/": htmlPage(detailRating("Mirror", "1975", 9) + detailRating("Solaris", "1972", 8)),
		"https://x/u/films/ratings/page/3/": htmlPage(""),
	}}
	r := NewReader(fetcher, WithBaseURL("https://x"))

	films := r.Ratings(context.Background(), "u")
	require.Len(t, films, 3)
	assert.Equal(t, "Stalker", films[0].Name)
	assert.Equal(t, "Mirror", films[1].Name)
	assert.Equal(t, "Solaris", films[2].Name)
}

func TestReader_Ratings_TotalFailureIsEmptyNotError(t *testing.T) {
	r := NewReader(&mapFetcher{}, WithBaseURL("https://x"))
	films := r.Ratings(context.Background(), "u")
	assert.NotNil(t, films)
	assert.Empty(t, films)
}

func TestReader_Diary_PrefersFeed(t *testing.T) {
	fetcher := &mapFetcher{}
	raw := func(_ context.Context, url string) (string, error) {
		require.Contains(t, url, "/rss/")
		return sampleFeed, nil
	}
	r := NewReader(fetcher, WithBaseURL("https://x"), WithRawFetch(raw))

	entries := r.Diary(context.Background(), "u")
	require.NotEmpty(t, entries)
	assert.Equal(t, "Past Lives", entries[0].Name)
	assert.Empty(t, fetcher.hits, "no markup pages fetched when the feed answers")
}

func TestReader_Diary_FeedFailureFallsBackToMarkup(t *testing.T) {
	fetcher := &mapFetcher{pages: map[string]string{
		"https://x/u/films/diary/": htmlPage(`<span class="diary-entry-title"><a>Burning</a></span>`),
	}}
	raw := func(_ context.Context, _ string) (string, error) {
		return "", fmt.Errorf("feed blocked")
	}
	r := NewReader(fetcher, WithBaseURL("https://x"), WithRawFetch(raw))

	entries := r.Diary(context.Background(), "u")
	require.Len(t, entries, 1)
	assert.Equal(t, "Burning", entries[0].Name)
}

func TestReader_Diary_EmptyFeedFallsBackToMarkup(t *testing.T) {
	fetcher := &mapFetcher{pages: map[string]string{
		"https://x/u/films/diary/": htmlPage(`<span class="diary-entry-title"><a>Burning</a></span>`),
	}}
	raw := func(_ context.Context, _ string) (string, error) {
		return `<rss><channel><title>feed title only</title></channel></rss>`, nil
	}
	r := NewReader(fetcher, WithBaseURL("https://x"), WithRawFetch(raw))

	entries := r.Diary(context.Background(), "u")
	require.Len(t, entries, 1)
	assert.Equal(t, "Burning", entries[0].Name)
}

func TestReader_Watchlist_ShortPageStops(t *testing.T) {
	// Page 1 is a full grid of 18; page 2 has 3 posters, so page 3 is never hit.
	var page1 strings.Builder
	for i := 0; i < WatchlistPageSize; i++ {
		page1.WriteString(posterCell(fmt.Sprintf("Film %d", i), "2020"))
	}
	fetcher := &mapFetcher{pages: map[string]string{
		"https://x/u/watchlist/": htmlPage(`<ul class="poster-list">` + page1.String() + `</ul>`),
		"https://x/u/watchlist/page/2/": htmlPage(`<ul class="poster-list">` +
			posterCell("A", "2021") + posterCell("B", "2022") + posterCell("C", "2023") + `</ul>`),
		"https://x/u/watchlist/page/3/": htmlPage(`<ul class="poster-list">` + posterCell("D", "2024") + `</ul>`),
	}}
	r := NewReader(fetcher, WithBaseURL("https://x"))

	entries := r.Watchlist(context.Background(), "u")
	assert.Len(t, entries, WatchlistPageSize+3)
	assert.Len(t, fetcher.hits, 2)
}

func TestReader_Diagnose(t *testing.T) {
	raw := func(_ context.Context, url string) (string, error) {
		switch {
		case strings.Contains(url, "/rss/"):
			return sampleFeed, nil
		case strings.Contains(url, "/ratings/"):
			return htmlPage(detailRating("Stalker", "1979", 10)), nil
		default:
			return "", fmt.Errorf("HTTP status 404")
		}
	}
	r := NewReader(&mapFetcher{}, WithBaseURL("https://x"), WithRawFetch(raw))

	report := r.Diagnose(context.Background(), "u")
	require.Len(t, report.Ratings, 2)
	assert.True(t, report.Ratings[0].OK)
	assert.Equal(t, 1, report.Ratings[0].Items)
	assert.True(t, report.Feed.OK)
	assert.Equal(t, 3, report.Feed.Items)
	assert.False(t, report.Watchlist[0].OK)
	assert.Contains(t, report.Watchlist[0].Error, "404")
}
