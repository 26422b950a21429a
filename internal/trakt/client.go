// Package trakt is a thin client for the Trakt API: PIN-based token exchange
// and the three movie listings. Listing failures degrade to empty results;
// only the token exchange surfaces errors, since the caller cannot proceed
// without one.
package trakt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mbaxter/reeltaste/internal/types"
)

// DefaultBaseURL is the public API root.
const DefaultBaseURL = "https://api.trakt.tv"

const defaultTimeout = 15 * time.Second

// pinRedirectURI is the out-of-band redirect used by PIN authorization.
const pinRedirectURI = "urn:ietf:wg:oauth:2.0:oob"

// Client talks to the Trakt API.
type Client struct {
	clientID     string
	clientSecret string
	baseURL      string
	client       *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API root (tests point this at a local server).
func WithBaseURL(base string) Option {
	return func(c *Client) { c.baseURL = strings.TrimSuffix(base, "/") }
}

// NewClient creates a Trakt client.
func NewClient(clientID, clientSecret string, opts ...Option) *Client {
	c := &Client{
		clientID:     clientID,
		clientSecret: clientSecret,
		baseURL:      DefaultBaseURL,
		client:       &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Token is the response of a successful PIN exchange.
type Token struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	CreatedAt    int64  `json:"created_at"`
}

// ExchangePIN trades an authorization PIN for an access token.
func (c *Client) ExchangePIN(ctx context.Context, pin string) (*Token, error) {
	payload, err := json.Marshal(map[string]string{
		"code":          pin,
		"client_id":     c.clientID,
		"client_secret": c.clientSecret,
		"redirect_uri":  pinRedirectURI,
		"grant_type":    "authorization_code",
	})
	if err != nil {
		return nil, fmt.Errorf("encoding token request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/oauth/token", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("exchanging pin: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("exchanging pin: unexpected status %d", resp.StatusCode)
	}

	var token Token
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return nil, fmt.Errorf("decoding token response: %w", err)
	}
	return &token, nil
}

type listedMovie struct {
	Rating int `json:"rating,omitempty"`
	Movie  struct {
		Title string `json:"title"`
		Year  int    `json:"year"`
	} `json:"movie"`
}

// Ratings returns the user's rated movies. Trakt rates on a 1-10 scale,
// normalized here the same way site rating classes are.
func (c *Client) Ratings(ctx context.Context, user string) []types.RatedFilm {
	var listed []listedMovie
	if err := c.getJSON(ctx, fmt.Sprintf("/users/%s/ratings/movies", user), &listed); err != nil {
		log.Debug().Str("user", user).Err(err).Msg("trakt ratings unavailable")
		return []types.RatedFilm{}
	}

	out := make([]types.RatedFilm, 0, len(listed))
	for _, m := range listed {
		if m.Movie.Title == "" {
			continue
		}
		out = append(out, types.RatedFilm{
			Name:   m.Movie.Title,
			Year:   yearString(m.Movie.Year),
			Rating: float64(m.Rating) / 10,
		})
	}
	return out
}

// History returns the user's watched movies as diary entries.
func (c *Client) History(ctx context.Context, user string) []types.DiaryEntry {
	var listed []listedMovie
	if err := c.getJSON(ctx, fmt.Sprintf("/users/%s/history/movies", user), &listed); err != nil {
		log.Debug().Str("user", user).Err(err).Msg("trakt history unavailable")
		return []types.DiaryEntry{}
	}

	out := make([]types.DiaryEntry, 0, len(listed))
	for _, m := range listed {
		if m.Movie.Title == "" {
			continue
		}
		out = append(out, types.DiaryEntry{Name: m.Movie.Title, Year: yearString(m.Movie.Year)})
	}
	return out
}

// Watchlist returns the user's watchlisted movies.
func (c *Client) Watchlist(ctx context.Context, user string) []types.WatchlistEntry {
	var listed []listedMovie
	if err := c.getJSON(ctx, fmt.Sprintf("/users/%s/watchlist/movies", user), &listed); err != nil {
		log.Debug().Str("user", user).Err(err).Msg("trakt watchlist unavailable")
		return []types.WatchlistEntry{}
	}

	out := make([]types.WatchlistEntry, 0, len(listed))
	for _, m := range listed {
		if m.Movie.Title == "" {
			continue
		}
		out = append(out, types.WatchlistEntry{Name: m.Movie.Title, Year: yearString(m.Movie.Year)})
	}
	return out
}

func (c *Client) getJSON(ctx context.Context, path string, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request for %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("trakt-api-version", "2")
	req.Header.Set("trakt-api-key", c.clientID)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("requesting %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("requesting %s: unexpected status %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}
	return nil
}

func yearString(year int) string {
	if year == 0 {
		return ""
	}
	return fmt.Sprintf("%d", year)
}
