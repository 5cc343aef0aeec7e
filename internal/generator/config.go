package generator

// Config drives the synthetic topology generator.
type Config struct {
	NumNodes            int
	NumLinks            int
	NodePrefix          string
	MinLatency          float64
	MaxLatency          float64
	BidirectionalChance float64
	// DirtyRowChance is the probability of emitting an extra malformed row
	// (missing field, non-numeric or negative latency) after each link.
	DirtyRowChance float64
	Seed           int64
}

// DefaultConfig returns a mid-sized backbone suitable for demos.
func DefaultConfig() Config {
	return Config{
		NumNodes:            50,
		NumLinks:            200,
		NodePrefix:          "R",
		MinLatency:          0.5,
		MaxLatency:          80,
		BidirectionalChance: 0.6,
		Seed:                42,
	}
}
