package availability

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbaxter/reeltaste/internal/tmdb"
	"github.com/mbaxter/reeltaste/internal/types"
)

// fakeLookup serves canned providers by candidate ID.
type fakeLookup struct {
	mu    sync.Mutex
	byID  map[int]tmdb.Providers
	calls int
}

func (f *fakeLookup) WatchProviders(_ context.Context, id int, _ string) tmdb.Providers {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.byID[id]
}

func ranked(n int) []types.Candidate {
	out := make([]types.Candidate, n)
	for i := range out {
		out[i] = types.Candidate{ID: i + 1, Score: float64(n - i)}
	}
	return out
}

func TestAnnotate_FilterDisabled(t *testing.T) {
	lookup := &fakeLookup{byID: map[int]tmdb.Providers{
		1: {Rent: []string{"Apple TV"}},
	}}

	result := Annotate(context.Background(), lookup, "US", ranked(10), false)
	require.NotNil(t, result.TopPick)
	assert.Equal(t, 1, result.TopPick.ID, "highest score wins regardless of providers")
	assert.Len(t, result.Alternates, MaxAlternates)
	assert.Equal(t, 2, result.Alternates[0].ID)
}

func TestAnnotate_SubscriptionFilter(t *testing.T) {
	lookup := &fakeLookup{byID: map[int]tmdb.Providers{
		1: {Rent: []string{"Apple TV"}},          // not eligible
		2: {Flatrate: []string{"Criterion"}},     // eligible
		3: {Ads: []string{"Tubi"}},               // eligible
		4: {Buy: []string{"Amazon"}},             // not eligible
	}}

	result := Annotate(context.Background(), lookup, "US", ranked(4), true)
	require.NotNil(t, result.TopPick)
	assert.Equal(t, 2, result.TopPick.ID)
	assert.True(t, result.TopPick.Eligible)
	require.Len(t, result.Alternates, 1)
	assert.Equal(t, 3, result.Alternates[0].ID)
}

func TestAnnotate_NoEligibleFallsBackToBestOverall(t *testing.T) {
	// Every provider is rental/purchase only; the filter finds nothing and
	// the top-scored candidate wins anyway.
	lookup := &fakeLookup{byID: map[int]tmdb.Providers{
		1: {Rent: []string{"Apple TV"}},
		2: {Buy: []string{"Amazon"}},
		3: {Rent: []string{"Google Play"}},
		4: {Rent: []string{"Apple TV"}, Buy: []string{"Amazon"}},
	}}

	result := Annotate(context.Background(), lookup, "US", ranked(4), true)
	require.NotNil(t, result.TopPick)
	assert.Equal(t, 1, result.TopPick.ID)
	assert.False(t, result.TopPick.Eligible)
}

func TestAnnotate_ProviderNamesAttached(t *testing.T) {
	lookup := &fakeLookup{byID: map[int]tmdb.Providers{
		1: {Flatrate: []string{"Criterion"}, Rent: []string{"Apple TV"}},
	}}

	result := Annotate(context.Background(), lookup, "US", ranked(1), true)
	require.NotNil(t, result.TopPick)
	assert.ElementsMatch(t, []string{"Criterion", "Apple TV"}, result.TopPick.Providers)
}

func TestAnnotate_OnlyTopNLookedUp(t *testing.T) {
	lookup := &fakeLookup{byID: map[int]tmdb.Providers{}}
	_ = Annotate(context.Background(), lookup, "US", ranked(TopN+40), false)
	assert.Equal(t, TopN, lookup.calls)
}

func TestAnnotate_EmptyInput(t *testing.T) {
	result := Annotate(context.Background(), &fakeLookup{}, "US", nil, true)
	assert.Nil(t, result.TopPick)
	assert.Empty(t, result.Alternates)
}

func TestAnnotate_AlternatesCapped(t *testing.T) {
	lookup := &fakeLookup{byID: map[int]tmdb.Providers{}}
	for i := 1; i <= 20; i++ {
		lookup.byID[i] = tmdb.Providers{Flatrate: []string{fmt.Sprintf("Service %d", i)}}
	}

	result := Annotate(context.Background(), lookup, "US", ranked(20), true)
	assert.Len(t, result.Alternates, MaxAlternates)
}
