// Package letterboxd reads a user's public film listings (ratings, diary,
// watchlist) from semi-structured markup and the diary RSS feed.
//
// The site ships at least two layouts per listing: a detail/list layout
// (li.film-detail rows) and a poster/grid layout (ul.poster-list). Extraction
// queries both and merges the results, so a page matching either layout, or a
// mix, still yields records. Zero matches is a valid result, not an error.
package letterboxd

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/mbaxter/reeltaste/internal/types"
)

// ExtractRatings pulls rated films out of one ratings page.
func ExtractRatings(html string) []types.RatedFilm {
	films := []types.RatedFilm{}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return films
	}

	// Detail layout
	doc.Find("li.film-detail").Each(func(_ int, s *goquery.Selection) {
		name := firstText(s, ".headline-2 a", "h2 a")
		if name == "" {
			return
		}
		films = append(films, types.RatedFilm{
			Name:   name,
			Year:   firstText(s, "small.metadata a", ".metadata a"),
			Rating: ratedClassValue(s),
		})
	})

	// Grid layout
	doc.Find("ul.poster-list li").Each(func(_ int, s *goquery.Selection) {
		name, year := posterNameYear(s)
		if name == "" {
			return
		}
		films = append(films, types.RatedFilm{
			Name:   name,
			Year:   year,
			Rating: ratedClassValue(s),
		})
	})

	return films
}

// ExtractDiary pulls diary entries out of one diary page.
func ExtractDiary(html string) []types.DiaryEntry {
	entries := []types.DiaryEntry{}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return entries
	}

	// Detail layout: diary rows
	doc.Find(".diary-entry-title a").Each(func(_ int, s *goquery.Selection) {
		name := strings.TrimSpace(s.Text())
		if name == "" {
			return
		}
		year := ""
		row := s.Closest("tr")
		if row.Length() > 0 {
			year = firstText(row, ".diary-entry-year", "td.releasedate a")
			if year == "" {
				year = firstAttr(row, "[data-film-release-year]", "data-film-release-year")
			}
		}
		entries = append(entries, types.DiaryEntry{Name: name, Year: year})
	})

	// Grid layout
	doc.Find("ul.poster-list li").Each(func(_ int, s *goquery.Selection) {
		name, year := posterNameYear(s)
		if name == "" {
			return
		}
		entries = append(entries, types.DiaryEntry{Name: name, Year: year})
	})

	return entries
}

// ExtractWatchlist pulls watchlist entries out of one watchlist page.
func ExtractWatchlist(html string) []types.WatchlistEntry {
	entries := []types.WatchlistEntry{}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return entries
	}

	// Grid layout (the usual watchlist shape)
	doc.Find("ul.poster-list li").Each(func(_ int, s *goquery.Selection) {
		name, year := posterNameYear(s)
		if name == "" {
			return
		}
		entries = append(entries, types.WatchlistEntry{Name: name, Year: year})
	})

	// Detail layout
	doc.Find("li.film-detail").Each(func(_ int, s *goquery.Selection) {
		name := firstText(s, ".headline-2 a", "h2 a")
		if name == "" {
			return
		}
		entries = append(entries, types.WatchlistEntry{
			Name: name,
			Year: firstText(s, "small.metadata a", ".metadata a"),
		})
	})

	return entries
}

// posterNameYear reads the film name and release year from a poster cell.
func posterNameYear(s *goquery.Selection) (string, string) {
	name := firstAttr(s, "div[data-film-name]", "data-film-name")
	if name == "" {
		if alt, ok := s.Find("img").First().Attr("alt"); ok {
			name = strings.TrimSpace(alt)
		}
	}
	year := firstAttr(s, "div[data-film-release-year]", "data-film-release-year")
	return name, year
}

// ratedClassValue parses the rated-N class on a rating span into the
// normalized 0-1 rating (rated-8 -> 0.8). No rating span, or no rated-N
// class, yields 0.
func ratedClassValue(s *goquery.Selection) float64 {
	class, ok := s.Find("span.rating").First().Attr("class")
	if !ok {
		return 0
	}
	for _, field := range strings.Fields(class) {
		n, found := strings.CutPrefix(field, "rated-")
		if !found {
			continue
		}
		value, err := strconv.Atoi(n)
		if err != nil || value < 0 || value > 10 {
			continue
		}
		return float64(value) / 10
	}
	return 0
}

// firstText returns the trimmed text of the first selector that matches.
func firstText(s *goquery.Selection, selectors ...string) string {
	for _, sel := range selectors {
		if found := s.Find(sel); found.Length() > 0 {
			if text := strings.TrimSpace(found.First().Text()); text != "" {
				return text
			}
		}
	}
	return ""
}

// firstAttr returns the named attribute of the first selector that matches.
func firstAttr(s *goquery.Selection, selector, attr string) string {
	found := s.Find(selector)
	if found.Length() == 0 {
		// The attribute may sit on the element itself rather than a child.
		if value, ok := s.Attr(attr); ok {
			return strings.TrimSpace(value)
		}
		return ""
	}
	value, _ := found.First().Attr(attr)
	return strings.TrimSpace(value)
}
