// Package tmdb is a thin client for the TMDb catalog API: fuzzy title search,
// metadata expansion, related/popular title graphs, and watch providers.
//
// The pipeline treats the catalog as an unreliable collaborator: a failed or
// non-2xx lookup degrades to an empty result rather than an error, and the
// orchestrator decides what emptiness means.
package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/mbaxter/reeltaste/internal/types"
)

// DefaultBaseURL is the public API root.
const DefaultBaseURL = "https://api.themoviedb.org/3"

// maxCastNames bounds the top-billed cast carried into a fingerprint.
const maxCastNames = 8

// Client talks to the TMDb API.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API root (tests point this at a local server).
func WithBaseURL(base string) Option {
	return func(c *Client) { c.baseURL = base }
}

// NewClient creates a TMDb client.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// get issues one API call and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	if query == nil {
		query = url.Values{}
	}
	query.Set("api_key", c.apiKey)

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, query.Encode())
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("tmdb %s: HTTP status %d", path, resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

type searchResponse struct {
	Results []struct {
		ID int `json:"id"`
	} `json:"results"`
}

// Search resolves a (title, year) pair to a catalog ID via fuzzy search.
// First result wins; no further disambiguation. The second return is false
// when nothing matched or the lookup failed.
func (c *Client) Search(ctx context.Context, title, year string) (int, bool) {
	query := url.Values{"query": []string{title}}
	if year != "" {
		query.Set("year", year)
	}

	var resp searchResponse
	if err := c.get(ctx, "/search/movie", query, &resp); err != nil {
		log.Debug().Str("title", title).Err(err).Msg("catalog search failed")
		return 0, false
	}
	if len(resp.Results) == 0 {
		return 0, false
	}
	return resp.Results[0].ID, true
}

type detailsResponse struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	ReleaseDate string  `json:"release_date"`
	Overview    string  `json:"overview"`
	Popularity  float64 `json:"popularity"`
	VoteCount   int     `json:"vote_count"`
	Genres      []struct {
		Name string `json:"name"`
	} `json:"genres"`
}

type keywordsResponse struct {
	Keywords []struct {
		Name string `json:"name"`
	} `json:"keywords"`
}

type creditsResponse struct {
	Cast []struct {
		Name string `json:"name"`
	} `json:"cast"`
	Crew []struct {
		Name       string `json:"name"`
		Job        string `json:"job"`
		Department string `json:"department"`
	} `json:"crew"`
}

// Expand fetches details, keywords, and credits for one catalog ID
// concurrently and merges them. Any of the three failing degrades to empty
// sub-fields; the expansion itself never fails. Callers deduplicate IDs
// before expanding, so each ID is expanded at most once per request.
func (c *Client) Expand(ctx context.Context, id int) types.FilmMetadata {
	var details detailsResponse
	var keywords keywordsResponse
	var credits creditsResponse

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := c.get(gCtx, fmt.Sprintf("/movie/%d", id), nil, &details); err != nil {
			log.Debug().Int("id", id).Err(err).Msg("details lookup failed")
		}
		return nil
	})
	g.Go(func() error {
		if err := c.get(gCtx, fmt.Sprintf("/movie/%d/keywords", id), nil, &keywords); err != nil {
			log.Debug().Int("id", id).Err(err).Msg("keywords lookup failed")
		}
		return nil
	})
	g.Go(func() error {
		if err := c.get(gCtx, fmt.Sprintf("/movie/%d/credits", id), nil, &credits); err != nil {
			log.Debug().Int("id", id).Err(err).Msg("credits lookup failed")
		}
		return nil
	})
	_ = g.Wait()

	md := types.FilmMetadata{
		ID:          id,
		Title:       details.Title,
		ReleaseDate: details.ReleaseDate,
		Overview:    details.Overview,
		Popularity:  details.Popularity,
		VoteCount:   details.VoteCount,
	}
	for _, g := range details.Genres {
		md.Genres = append(md.Genres, g.Name)
	}
	for _, k := range keywords.Keywords {
		md.Keywords = append(md.Keywords, k.Name)
	}
	for i, member := range credits.Cast {
		if i >= maxCastNames {
			break
		}
		md.Cast = append(md.Cast, member.Name)
	}
	seen := make(map[string]bool)
	for _, member := range credits.Crew {
		if member.Job != "Director" && member.Department != "Writing" {
			continue
		}
		if seen[member.Name] {
			continue
		}
		seen[member.Name] = true
		md.Directors = append(md.Directors, member.Name)
	}
	return md
}

// Related returns catalog IDs similar to the given title, in catalog order.
// Failures degrade to an empty list.
func (c *Client) Related(ctx context.Context, id, page int) []int {
	var resp searchResponse
	query := url.Values{"page": []string{strconv.Itoa(page)}}
	if err := c.get(ctx, fmt.Sprintf("/movie/%d/recommendations", id), query, &resp); err != nil {
		log.Debug().Int("id", id).Err(err).Msg("related lookup failed")
		return nil
	}
	ids := make([]int, 0, len(resp.Results))
	for _, r := range resp.Results {
		ids = append(ids, r.ID)
	}
	return ids
}

// Popular returns one page of generally popular catalog IDs, the last-resort
// candidate source. Failures degrade to an empty list.
func (c *Client) Popular(ctx context.Context, page int) []int {
	var resp searchResponse
	query := url.Values{"page": []string{strconv.Itoa(page)}}
	if err := c.get(ctx, "/movie/popular", query, &resp); err != nil {
		log.Debug().Err(err).Msg("popular lookup failed")
		return nil
	}
	ids := make([]int, 0, len(resp.Results))
	for _, r := range resp.Results {
		ids = append(ids, r.ID)
	}
	return ids
}
