package domain

import "time"

// Canonical dataset column names, as they appear in stored and downloaded CSV files.
const (
	ColumnID          = "id"
	ColumnOrigin      = "Origen"
	ColumnDestination = "Destino"
	ColumnWeight      = "Latencia_ms"
)

// Columns lists the canonical columns in their stored order.
var Columns = []string{ColumnID, ColumnOrigin, ColumnDestination, ColumnWeight}

// EdgeRecord is one validated row of the dataset: a directed link from Origin
// to Destination with a non-negative Weight (latency in milliseconds).
type EdgeRecord struct {
	ID          int     `json:"id"`
	Origin      string  `json:"origin" validate:"required"`
	Destination string  `json:"destination" validate:"required"`
	Weight      float64 `json:"weight" validate:"gte=0"`
}

// Dataset is an immutable snapshot of the edge record store. Callers must not
// modify Records once the snapshot has been published.
type Dataset struct {
	Version  string       `json:"version"`
	Filename string       `json:"filename"`
	LoadedAt time.Time    `json:"loadedAt"`
	Records  []EdgeRecord `json:"records"`
}

// Len returns the number of rows in the snapshot. A nil dataset has no rows.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Records)
}
