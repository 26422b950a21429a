// Package types defines the core data model shared across the recommendation pipeline.
package types

import "fmt"

// RatedFilm is one entry from a user's ratings listing.
// Rating is the normalized value parsed from the site's rated-N class
// (rated-8 -> 0.8, rated-10 -> 1.0); a missing class yields 0.
type RatedFilm struct {
	Name   string  `json:"name"`
	Year   string  `json:"year,omitempty"`
	Rating float64 `json:"rating"`
}

// Stars converts the normalized rating to the familiar 0-5 star scale.
// The result is always a multiple of 0.5.
func (f RatedFilm) Stars() float64 {
	return f.Rating * 5
}

// Liked reports whether the film counts as a taste seed (4 stars or more).
func (f RatedFilm) Liked() bool {
	return f.Stars() >= 4
}

// Key is the deduplication identity for a rated film.
func (f RatedFilm) Key() string {
	return fmt.Sprintf("%s|%s|%.1f", f.Name, f.Year, f.Rating)
}

// DiaryEntry is one entry from a user's diary listing or feed.
type DiaryEntry struct {
	Name string `json:"name"`
	Year string `json:"year,omitempty"`
}

// Key is the deduplication identity for a diary entry.
func (e DiaryEntry) Key() string {
	return e.Name + "|" + e.Year
}

// WatchlistEntry is one entry from a user's watchlist listing.
type WatchlistEntry struct {
	Name string `json:"name"`
	Year string `json:"year,omitempty"`
}

// Key is the deduplication identity for a watchlist entry.
func (e WatchlistEntry) Key() string {
	return e.Name + "|" + e.Year
}

// FilmMetadata is the fully expanded catalog record for one film.
// It is immutable once fetched and fetched at most once per ID per request.
type FilmMetadata struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	ReleaseDate string   `json:"release_date,omitempty"`
	Genres      []string `json:"genres,omitempty"`
	Keywords    []string `json:"keywords,omitempty"`
	Cast        []string `json:"cast,omitempty"`      // top-billed, at most 8
	Directors   []string `json:"directors,omitempty"` // directors and writers
	Overview    string   `json:"overview,omitempty"`
	Popularity  float64  `json:"popularity,omitempty"`
	VoteCount   int      `json:"vote_count,omitempty"`
}

// Candidate is a film under consideration for recommendation.
// It exists only for the duration of one request.
type Candidate struct {
	ID        int          `json:"id"`
	Metadata  FilmMetadata `json:"metadata"`
	Score     float64      `json:"score"`
	Providers []string     `json:"providers,omitempty"`
	Eligible  bool         `json:"eligible"`
}
