package domain

// ColumnStats reports how many values of a column are empty.
type ColumnStats struct {
	EmptyCount      int
	EmptyPercentage float64
}

// DataInfo summarises the currently loaded dataset.
type DataInfo struct {
	Loaded       bool
	Filename     string
	Version      string
	TotalRows    int
	TotalColumns int
	EmptyStats   map[string]ColumnStats
	Columns      []string
}
