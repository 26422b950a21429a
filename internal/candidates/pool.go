// Package candidates assembles the scoring candidate pool, either from the
// user's watchlist or from the catalog's related-titles graph, with a
// popular-titles last resort.
package candidates

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/mbaxter/reeltaste/internal/types"
)

// ErrNoCandidates reports an exhausted candidate pool: the selected mode and
// all its fallbacks produced nothing to score.
var ErrNoCandidates = errors.New("no candidates available")

// Pool assembly caps. Outbound catalog calls are bounded by maxConcurrent to
// respect third-party rate limits.
const (
	MaxPoolSize        = 400
	MaxLikedResolved   = 60
	MaxRelatedSeeds    = 20
	RelatedPerSeed     = 5
	MaxDiaryReseed     = 40
	MaxWatchlistReseed = 30
	MaxPopular         = 60

	maxConcurrent = 8
)

// Catalog is the slice of the catalog API the pool builder needs.
type Catalog interface {
	Search(ctx context.Context, title, year string) (int, bool)
	Expand(ctx context.Context, id int) types.FilmMetadata
	Related(ctx context.Context, id, page int) []int
	Popular(ctx context.Context, page int) []int
}

// Pool is an assembled candidate set, each candidate expanded to full
// metadata. Source names which assembly path produced it.
type Pool struct {
	Candidates []types.Candidate
	Source     string
}

// Builder assembles candidate pools against a catalog.
type Builder struct {
	catalog Catalog
	limit   *semaphore.Weighted
}

// NewBuilder creates a pool builder.
func NewBuilder(catalog Catalog) *Builder {
	return &Builder{
		catalog: catalog,
		limit:   semaphore.NewWeighted(maxConcurrent),
	}
}

// ResolveTitles resolves (title, year) pairs to catalog IDs with bounded
// concurrency, preserving input order and dropping misses silently. At most
// limit IDs are returned; zero limit means no cap.
func (b *Builder) ResolveTitles(ctx context.Context, titles []Title, limit int) []int {
	resolved := make([]int, len(titles))
	found := make([]bool, len(titles))

	g, gCtx := errgroup.WithContext(ctx)
	for i, title := range titles {
		if err := b.limit.Acquire(gCtx, 1); err != nil {
			break
		}
		g.Go(func() error {
			defer b.limit.Release(1)
			if id, ok := b.catalog.Search(gCtx, title.Name, title.Year); ok {
				resolved[i] = id
				found[i] = true
			}
			return nil
		})
	}
	_ = g.Wait()

	ids := []int{}
	seen := make(map[int]bool)
	for i := range titles {
		if !found[i] || seen[resolved[i]] {
			continue
		}
		seen[resolved[i]] = true
		ids = append(ids, resolved[i])
		if limit > 0 && len(ids) >= limit {
			break
		}
	}
	return ids
}

// ExpandAll expands catalog IDs to full metadata with bounded concurrency,
// preserving input order. Callers pass deduplicated IDs, so each is expanded
// at most once per request.
func (b *Builder) ExpandAll(ctx context.Context, ids []int) []types.FilmMetadata {
	expanded := make([]types.FilmMetadata, len(ids))

	g, gCtx := errgroup.WithContext(ctx)
	for i, id := range ids {
		if err := b.limit.Acquire(gCtx, 1); err != nil {
			break
		}
		g.Go(func() error {
			defer b.limit.Release(1)
			expanded[i] = b.catalog.Expand(gCtx, id)
			return nil
		})
	}
	_ = g.Wait()

	return expanded
}

// Title is a (name, year) pair awaiting catalog resolution.
type Title struct {
	Name string
	Year string
}

// FromWatchlist builds the pool from the user's watchlist. An empty watchlist
// is ErrNoCandidates; this mode never silently switches to another source.
func (b *Builder) FromWatchlist(ctx context.Context, entries []types.WatchlistEntry) (*Pool, error) {
	if len(entries) == 0 {
		return nil, ErrNoCandidates
	}
	if len(entries) > MaxPoolSize {
		entries = entries[:MaxPoolSize]
	}

	titles := make([]Title, len(entries))
	for i, e := range entries {
		titles[i] = Title{Name: e.Name, Year: e.Year}
	}

	ids := b.ResolveTitles(ctx, titles, MaxPoolSize)
	if len(ids) == 0 {
		return nil, ErrNoCandidates
	}

	return &Pool{Candidates: b.expandToCandidates(ctx, ids), Source: "watchlist"}, nil
}

// FromRelated builds the pool from the related-titles graph: the first
// MaxRelatedSeeds seed IDs each contribute their top RelatedPerSeed related
// titles, deduplicated and capped at MaxPoolSize. When the graph yields
// nothing, one page of popular titles is the last resort.
func (b *Builder) FromRelated(ctx context.Context, seedIDs []int) (*Pool, error) {
	if len(seedIDs) > MaxRelatedSeeds {
		seedIDs = seedIDs[:MaxRelatedSeeds]
	}

	related := make([][]int, len(seedIDs))
	g, gCtx := errgroup.WithContext(ctx)
	for i, id := range seedIDs {
		if err := b.limit.Acquire(gCtx, 1); err != nil {
			break
		}
		g.Go(func() error {
			defer b.limit.Release(1)
			related[i] = b.catalog.Related(gCtx, id, 1)
			return nil
		})
	}
	_ = g.Wait()

	ids := []int{}
	seen := make(map[int]bool)
	for _, group := range related {
		for j, id := range group {
			if j >= RelatedPerSeed {
				break
			}
			if seen[id] {
				continue
			}
			seen[id] = true
			ids = append(ids, id)
		}
	}
	if len(ids) > MaxPoolSize {
		ids = ids[:MaxPoolSize]
	}

	source := "related"
	if len(ids) == 0 {
		log.Debug().Int("seeds", len(seedIDs)).Msg("related graph empty, falling back to popular titles")
		ids = b.catalog.Popular(ctx, 1)
		if len(ids) > MaxPopular {
			ids = ids[:MaxPopular]
		}
		source = "popular"
	}
	if len(ids) == 0 {
		return nil, ErrNoCandidates
	}

	return &Pool{Candidates: b.expandToCandidates(ctx, ids), Source: source}, nil
}

func (b *Builder) expandToCandidates(ctx context.Context, ids []int) []types.Candidate {
	metadata := b.ExpandAll(ctx, ids)
	out := make([]types.Candidate, len(ids))
	for i, id := range ids {
		out[i] = types.Candidate{ID: id, Metadata: metadata[i]}
	}
	return out
}
