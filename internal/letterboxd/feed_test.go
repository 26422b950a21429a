package letterboxd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbaxter/reeltaste/internal/types"
)

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Letterboxd - someuser</title>
    <item><title>Past Lives (2023)</title></item>
    <item><title>Aftersun (2022) - ★★★★½</title></item>
    <item><title>Oddity</title></item>
  </channel>
</rss>`

func TestParseDiaryFeed(t *testing.T) {
	entries := ParseDiaryFeed(sampleFeed)
	require.Len(t, entries, 3)

	assert.Equal(t, types.DiaryEntry{Name: "Past Lives", Year: "2023"}, entries[0])
	assert.Equal(t, types.DiaryEntry{Name: "Aftersun", Year: "2022"}, entries[1], "star suffix stripped")
	assert.Equal(t, types.DiaryEntry{Name: "Oddity"}, entries[2], "title without a year keeps the name")
}

func TestParseDiaryFeed_FirstTitleDiscarded(t *testing.T) {
	entries := ParseDiaryFeed(sampleFeed)
	for _, e := range entries {
		assert.NotContains(t, e.Name, "Letterboxd")
	}
}

func TestParseDiaryFeed_EmptyAndMalformed(t *testing.T) {
	assert.Empty(t, ParseDiaryFeed(""))
	assert.Empty(t, ParseDiaryFeed("<html><body>an error page</body></html>"))

	// Truncated XML returns what was readable.
	truncated := `<rss><channel><title>feed</title><item><title>Tampopo (1985)</title></item><item><title>Cut Of`
	entries := ParseDiaryFeed(truncated)
	require.Len(t, entries, 1)
	assert.Equal(t, "Tampopo", entries[0].Name)
}
