package ingest

import (
	"fmt"
	"strings"

	"github.com/vanshika/netlatency/backend/internal/domain"
)

// MissingColumnsError lists the required columns absent from a header.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Columns, ", "))
}

// columnAliases maps each required column to the header spellings that
// satisfy it. Matching ignores case, underscores and spaces.
var columnAliases = map[string][]string{
	domain.ColumnOrigin:      {domain.ColumnOrigin, "Origin"},
	domain.ColumnDestination: {domain.ColumnDestination, "Destination"},
	domain.ColumnWeight:      {domain.ColumnWeight, "Latency_ms"},
}

var requiredColumns = []string{domain.ColumnOrigin, domain.ColumnDestination, domain.ColumnWeight}

// columnIndex records where each required column sits in a header row.
type columnIndex struct {
	origin      int
	destination int
	weight      int
}

func matchColumns(header []string) (columnIndex, error) {
	found := make(map[string]int, len(requiredColumns))
	var missing []string
	for _, required := range requiredColumns {
		idx := -1
	search:
		for i, actual := range header {
			for _, alias := range columnAliases[required] {
				if normalizeColumn(actual) == normalizeColumn(alias) {
					idx = i
					break search
				}
			}
		}
		if idx < 0 {
			missing = append(missing, required)
			continue
		}
		found[required] = idx
	}
	if len(missing) > 0 {
		return columnIndex{}, &MissingColumnsError{Columns: missing}
	}
	return columnIndex{
		origin:      found[domain.ColumnOrigin],
		destination: found[domain.ColumnDestination],
		weight:      found[domain.ColumnWeight],
	}, nil
}

func normalizeColumn(name string) string {
	name = strings.TrimPrefix(name, "\ufeff")
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, "_", "")
	return strings.ReplaceAll(name, " ", "")
}
