// Package availability annotates scored candidates with streaming providers
// and applies the subscription-only filter.
package availability

import (
	"context"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/mbaxter/reeltaste/internal/tmdb"
	"github.com/mbaxter/reeltaste/internal/types"
)

// TopN is how many of the highest-scored candidates get provider lookups.
const TopN = 80

// MaxAlternates is how many runners-up accompany the top pick.
const MaxAlternates = 7

const maxConcurrent = 8

// Lookup is the provider-lookup slice of the catalog API.
type Lookup interface {
	WatchProviders(ctx context.Context, id int, region string) tmdb.Providers
}

// Result is the final selection after provider annotation.
type Result struct {
	TopPick    *types.Candidate
	Alternates []types.Candidate
}

// Annotate fetches providers for the top candidates and picks the winner.
//
// A candidate is eligible under the subscription-only filter iff it has at
// least one provider not tagged rental or purchase. The top pick is the first
// eligible candidate, falling back to the first candidate overall when none
// are eligible; alternates are the next eligible candidates (or simply the
// next candidates when the filter is off).
func Annotate(ctx context.Context, lookup Lookup, region string, ranked []types.Candidate, onlyFlatrate bool) Result {
	if len(ranked) == 0 {
		return Result{}
	}
	top := ranked
	if len(top) > TopN {
		top = top[:TopN]
	}

	annotated := make([]types.Candidate, len(top))
	copy(annotated, top)

	limit := semaphore.NewWeighted(maxConcurrent)
	g, gCtx := errgroup.WithContext(ctx)
	for i := range annotated {
		if err := limit.Acquire(gCtx, 1); err != nil {
			break
		}
		g.Go(func() error {
			defer limit.Release(1)
			providers := lookup.WatchProviders(gCtx, annotated[i].ID, region)
			annotated[i].Providers = providers.Names()
			annotated[i].Eligible = len(providers.Included()) > 0
			return nil
		})
	}
	_ = g.Wait()

	if !onlyFlatrate {
		result := Result{TopPick: &annotated[0]}
		result.Alternates = tail(annotated[1:], MaxAlternates)
		return result
	}

	eligible := []types.Candidate{}
	for _, c := range annotated {
		if c.Eligible {
			eligible = append(eligible, c)
		}
	}

	if len(eligible) == 0 {
		// Nothing passes the filter; the best-scored candidate still wins.
		result := Result{TopPick: &annotated[0]}
		result.Alternates = tail(annotated[1:], MaxAlternates)
		return result
	}

	result := Result{TopPick: &eligible[0]}
	result.Alternates = tail(eligible[1:], MaxAlternates)
	return result
}

func tail(candidates []types.Candidate, n int) []types.Candidate {
	if len(candidates) > n {
		candidates = candidates[:n]
	}
	out := make([]types.Candidate, len(candidates))
	copy(out, candidates)
	return out
}
