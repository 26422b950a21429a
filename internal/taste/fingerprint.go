// Package taste turns film metadata into taste vectors and scores candidates
// against them.
package taste

import (
	"strings"

	"github.com/mbaxter/reeltaste/internal/types"
)

// Fingerprint reduces film metadata to the normalized text blob used as
// embedding input: lowercase title, genres, keywords, top-billed cast,
// directors/writers, and overview. It is a pure function of the metadata, so
// embeddings stay reproducible within a request.
func Fingerprint(md types.FilmMetadata) string {
	var sb strings.Builder

	write := func(s string) {
		if s == "" {
			return
		}
		if sb.Len() > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(s)
	}

	write(md.Title)
	for _, g := range md.Genres {
		write(g)
	}
	for _, k := range md.Keywords {
		write(k)
	}
	for _, name := range md.Cast {
		write(name)
	}
	for _, name := range md.Directors {
		write(name)
	}
	write(md.Overview)

	return strings.ToLower(sb.String())
}
