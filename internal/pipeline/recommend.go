package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/mbaxter/reeltaste/internal/availability"
	"github.com/mbaxter/reeltaste/internal/candidates"
	"github.com/mbaxter/reeltaste/internal/letterboxd"
	"github.com/mbaxter/reeltaste/internal/taste"
	"github.com/mbaxter/reeltaste/internal/types"
)

// Seed caps per taste tier. The liked tier resolves more titles than it
// embeds because the surplus reseeds the related-titles graph.
const (
	MaxLikedSeeds     = 40
	MaxDiarySeeds     = 40
	MaxWatchlistSeeds = 30
)

// Sources produces the user's three listing collections. Implementations
// degrade to empty collections on failure.
type Sources interface {
	Ratings(ctx context.Context, user string) []types.RatedFilm
	Diary(ctx context.Context, user string) []types.DiaryEntry
	Watchlist(ctx context.Context, user string) []types.WatchlistEntry
}

// Catalog is the full catalog surface the pipeline needs: pool assembly plus
// provider lookups.
type Catalog interface {
	candidates.Catalog
	availability.Lookup
}

// Request carries the parameters of one recommendation run.
type Request struct {
	Username     string
	Mode         types.Mode
	OnlyFlatrate bool
}

// Pipeline wires the source readers, catalog, and embedder into the
// recommend operation.
type Pipeline struct {
	sources  Sources
	builder  *candidates.Builder
	catalog  Catalog
	embedder taste.Embedder
	region   string
}

// New creates a Pipeline.
func New(sources Sources, catalog Catalog, embedder taste.Embedder, region string) *Pipeline {
	return &Pipeline{
		sources:  sources,
		builder:  candidates.NewBuilder(catalog),
		catalog:  catalog,
		embedder: embedder,
		region:   region,
	}
}

// Recommend runs the full pipeline for one user: read the three listings,
// build the taste vector from the strongest available seed tier, assemble and
// score the candidate pool, and apply the availability filter.
func (p *Pipeline) Recommend(ctx context.Context, req Request) (*types.Recommendation, error) {
	started := time.Now()

	user := letterboxd.CleanUsername(req.Username)
	if user == "" {
		return nil, ErrNoUsername
	}
	mode := req.Mode
	if !mode.Valid() {
		mode = types.ModeAI
	}

	diag := types.Diagnostics{
		RequestID: uuid.NewString(),
		Username:  user,
		Mode:      mode,
	}
	logger := log.With().Str("request_id", diag.RequestID).Str("user", user).Logger()

	// The three listings are independent reads.
	var (
		ratings   []types.RatedFilm
		diary     []types.DiaryEntry
		watchlist []types.WatchlistEntry
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error { ratings = p.sources.Ratings(gCtx, user); return nil })
	g.Go(func() error { diary = p.sources.Diary(gCtx, user); return nil })
	g.Go(func() error { watchlist = p.sources.Watchlist(gCtx, user); return nil })
	_ = g.Wait()

	liked := likedFilms(ratings)
	diag.Sources = types.SourceCounts{
		Ratings:   len(ratings),
		Liked:     len(liked),
		Diary:     len(diary),
		Watchlist: len(watchlist),
	}
	logger.Info().
		Int("ratings", len(ratings)).
		Int("liked", len(liked)).
		Int("diary", len(diary)).
		Int("watchlist", len(watchlist)).
		Msg("listings collected")

	if len(ratings) == 0 && len(diary) == 0 && len(watchlist) == 0 {
		return nil, ErrNoData
	}

	seedIDs, poolSeedIDs, seedSource := p.resolveSeeds(ctx, liked, diary, watchlist)
	if len(seedIDs) == 0 {
		return nil, ErrInsufficientTaste
	}
	diag.SeedSource = seedSource

	// The taste vector and the candidate pool build against independent
	// catalog and embedding calls, so the two branches run concurrently.
	var (
		tasteVector      []float32
		seedText         string
		pool             *candidates.Pool
		candidateVectors [][]float32
	)
	g, gCtx = errgroup.WithContext(ctx)
	g.Go(func() error {
		fingerprints := fingerprintAll(p.builder.ExpandAll(gCtx, seedIDs))
		if len(fingerprints) == 0 {
			return ErrInsufficientTaste
		}
		diag.SeedCount = len(fingerprints)
		seedText = strings.Join(fingerprints, " ")

		vector, err := taste.BuildVector(gCtx, p.embedder, fingerprints)
		if err != nil {
			return err
		}
		tasteVector = vector
		return nil
	})
	g.Go(func() error {
		var err error
		switch mode {
		case types.ModeWatchlist:
			pool, err = p.builder.FromWatchlist(gCtx, watchlist)
		default:
			pool, err = p.builder.FromRelated(gCtx, poolSeedIDs)
		}
		if err != nil {
			return err
		}

		fingerprints := make([]string, len(pool.Candidates))
		for i, c := range pool.Candidates {
			fingerprints[i] = taste.Fingerprint(c.Metadata)
		}
		candidateVectors, err = p.embedder.EmbedBatch(gCtx, fingerprints)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	diag.PoolSource = pool.Source
	diag.PoolSize = len(pool.Candidates)
	logger.Info().
		Str("seed_source", seedSource).
		Int("seeds", diag.SeedCount).
		Str("pool_source", pool.Source).
		Int("pool", len(pool.Candidates)).
		Msg("taste profile and pool ready")

	ranked := taste.Rank(pool.Candidates, tasteVector, candidateVectors, seedText)
	picked := availability.Annotate(ctx, p.catalog, p.region, ranked, req.OnlyFlatrate)

	diag.ElapsedMS = time.Since(started).Milliseconds()
	return &types.Recommendation{
		TopPick:     picked.TopPick,
		Alternates:  picked.Alternates,
		Diagnostics: diag,
	}, nil
}

// resolveSeeds picks the strongest available taste tier and resolves its
// titles to catalog IDs. The liked tier resolves up to MaxLikedResolved IDs
// for reseeding the related graph but embeds only the first MaxLikedSeeds;
// the fallback tiers use one shared cap. A tier whose titles all fail
// resolution falls through to the next.
func (p *Pipeline) resolveSeeds(ctx context.Context, liked []types.RatedFilm, diary []types.DiaryEntry, watchlist []types.WatchlistEntry) (seedIDs, poolSeedIDs []int, source string) {
	if len(liked) > 0 {
		titles := make([]candidates.Title, len(liked))
		for i, f := range liked {
			titles[i] = candidates.Title{Name: f.Name, Year: f.Year}
		}
		if ids := p.builder.ResolveTitles(ctx, titles, candidates.MaxLikedResolved); len(ids) > 0 {
			seeds := ids
			if len(seeds) > MaxLikedSeeds {
				seeds = seeds[:MaxLikedSeeds]
			}
			return seeds, ids, "liked"
		}
	}

	if len(diary) > 0 {
		titles := make([]candidates.Title, len(diary))
		for i, e := range diary {
			titles[i] = candidates.Title{Name: e.Name, Year: e.Year}
		}
		if ids := p.builder.ResolveTitles(ctx, titles, MaxDiarySeeds); len(ids) > 0 {
			return ids, ids, "diary"
		}
	}

	if len(watchlist) > 0 {
		titles := make([]candidates.Title, len(watchlist))
		for i, e := range watchlist {
			titles[i] = candidates.Title{Name: e.Name, Year: e.Year}
		}
		if ids := p.builder.ResolveTitles(ctx, titles, MaxWatchlistSeeds); len(ids) > 0 {
			return ids, ids, "watchlist"
		}
	}

	return nil, nil, ""
}

func likedFilms(ratings []types.RatedFilm) []types.RatedFilm {
	out := []types.RatedFilm{}
	for _, f := range ratings {
		if f.Liked() {
			out = append(out, f)
		}
	}
	return out
}

func fingerprintAll(metadata []types.FilmMetadata) []string {
	out := []string{}
	for _, md := range metadata {
		if fp := taste.Fingerprint(md); fp != "" {
			out = append(out, fp)
		}
	}
	return out
}
