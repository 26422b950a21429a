package types

// Mode selects how the candidate pool is assembled.
type Mode string

const (
	// ModeWatchlist scores the user's own watchlist.
	ModeWatchlist Mode = "watchlist"
	// ModeAI scores films related to the user's liked titles.
	ModeAI Mode = "ai"
)

// Valid reports whether the mode is one of the two supported values.
func (m Mode) Valid() bool {
	return m == ModeWatchlist || m == ModeAI
}

// SourceCounts records how many deduplicated entries each listing produced.
type SourceCounts struct {
	Ratings   int `json:"ratings"`
	Liked     int `json:"liked"`
	Diary     int `json:"diary"`
	Watchlist int `json:"watchlist"`
}

// Diagnostics summarizes what a recommendation request saw along the way.
type Diagnostics struct {
	RequestID  string       `json:"request_id"`
	Username   string       `json:"username"`
	Mode       Mode         `json:"mode"`
	Sources    SourceCounts `json:"sources"`
	SeedSource string       `json:"seed_source"` // liked, diary, or watchlist
	SeedCount  int          `json:"seed_count"`
	PoolSource string       `json:"pool_source"` // watchlist, related, or popular
	PoolSize   int          `json:"pool_size"`
	ElapsedMS  int64        `json:"elapsed_ms"`
}

// Recommendation is the result of one recommend request.
type Recommendation struct {
	TopPick     *Candidate  `json:"top_pick"`
	Alternates  []Candidate `json:"alternates,omitempty"`
	Diagnostics Diagnostics `json:"diagnostics"`
}
