// Package pipeline orchestrates one recommendation request end to end:
// source reading, taste building, candidate assembly, scoring, and the
// availability filter.
package pipeline

import (
	"errors"

	"github.com/mbaxter/reeltaste/internal/candidates"
)

// Terminal request outcomes. Partial collaborator failures degrade to empty
// results inside their own packages; only these conditions surface to the
// caller.
var (
	// ErrNoUsername reports a missing username; detected before any network call.
	ErrNoUsername = errors.New("no username provided")

	// ErrMissingCredentials reports absent service credentials; detected before any work begins.
	ErrMissingCredentials = errors.New("missing service credentials")

	// ErrNoData reports that all three listings came back empty.
	ErrNoData = errors.New("no public listing data found for user")

	// ErrNoCandidates reports an exhausted candidate pool across all fallbacks.
	ErrNoCandidates = candidates.ErrNoCandidates

	// ErrInsufficientTaste reports that no taste seeds survived any fallback tier.
	ErrInsufficientTaste = errors.New("not enough rated, logged, or saved films to build a taste profile")
)
