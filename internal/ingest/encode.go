package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/vanshika/netlatency/backend/internal/domain"
)

// Encode writes records as CSV with the canonical header. When includeID is
// false the id column is left out, which is the download format.
func Encode(w io.Writer, records []domain.EdgeRecord, includeID bool) error {
	writer := csv.NewWriter(w)

	header := []string{domain.ColumnOrigin, domain.ColumnDestination, domain.ColumnWeight}
	if includeID {
		header = append([]string{domain.ColumnID}, header...)
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, rec := range records {
		row := []string{rec.Origin, rec.Destination, strconv.FormatFloat(rec.Weight, 'f', -1, 64)}
		if includeID {
			row = append([]string{strconv.Itoa(rec.ID)}, row...)
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write csv row %d: %w", rec.ID, err)
		}
	}

	writer.Flush()
	return writer.Error()
}
