package tmdb

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// Providers lists streaming-provider names for one film in one region,
// grouped by availability class.
type Providers struct {
	Flatrate []string `json:"flatrate,omitempty"` // subscription
	Ads      []string `json:"ads,omitempty"`      // ad-supported
	Free     []string `json:"free,omitempty"`
	Rent     []string `json:"rent,omitempty"`
	Buy      []string `json:"buy,omitempty"`
}

// Names returns every provider name regardless of class.
func (p Providers) Names() []string {
	names := []string{}
	for _, group := range [][]string{p.Flatrate, p.Ads, p.Free, p.Rent, p.Buy} {
		names = append(names, group...)
	}
	return names
}

// Included returns the providers not tagged rental or purchase; a film with
// at least one of these passes the subscription-only filter.
func (p Providers) Included() []string {
	names := []string{}
	for _, group := range [][]string{p.Flatrate, p.Ads, p.Free} {
		names = append(names, group...)
	}
	return names
}

type providerEntry struct {
	ProviderName string `json:"provider_name"`
}

type providersResponse struct {
	Results map[string]struct {
		Flatrate []providerEntry `json:"flatrate"`
		Ads      []providerEntry `json:"ads"`
		Free     []providerEntry `json:"free"`
		Rent     []providerEntry `json:"rent"`
		Buy      []providerEntry `json:"buy"`
	} `json:"results"`
}

// WatchProviders fetches provider availability for one film in one region.
// Failures and unknown regions degrade to the empty Providers value.
func (c *Client) WatchProviders(ctx context.Context, id int, region string) Providers {
	var resp providersResponse
	if err := c.get(ctx, fmt.Sprintf("/movie/%d/watch/providers", id), nil, &resp); err != nil {
		log.Debug().Int("id", id).Err(err).Msg("provider lookup failed")
		return Providers{}
	}

	regional, ok := resp.Results[region]
	if !ok {
		return Providers{}
	}

	return Providers{
		Flatrate: entryNames(regional.Flatrate),
		Ads:      entryNames(regional.Ads),
		Free:     entryNames(regional.Free),
		Rent:     entryNames(regional.Rent),
		Buy:      entryNames(regional.Buy),
	}
}

func entryNames(entries []providerEntry) []string {
	if len(entries) == 0 {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.ProviderName)
	}
	return names
}
