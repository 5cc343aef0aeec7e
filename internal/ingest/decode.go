// Package ingest turns uploaded CSV files into validated edge records and
// writes records back out as CSV.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/vanshika/netlatency/backend/internal/domain"
)

// ErrEmptyFile is returned when the input has no header row.
var ErrEmptyFile = errors.New("csv file is empty")

var validate = validator.New()

// nullMarkers are cell values treated as missing.
var nullMarkers = map[string]struct{}{
	"":     {},
	"N/A":  {},
	"n/a":  {},
	"NULL": {},
	"null": {},
	"NaN":  {},
	"nan":  {},
}

// Report summarises what Decode kept and dropped.
type Report struct {
	TotalRows      int
	AcceptedRows   int
	MissingValues  int
	InvalidWeights int
	NegativeWeight int
}

// Dropped returns the number of rows that were discarded.
func (r Report) Dropped() int {
	return r.TotalRows - r.AcceptedRows
}

// Decode reads a CSV with Origen, Destino and Latencia_ms columns (matched
// ignoring case, spaces and underscores) and returns the cleaned records.
// Rows with a missing field, a non-numeric weight or a negative weight are
// dropped. Surviving rows are numbered from 1 in file order. Extra columns
// are ignored.
func Decode(r io.Reader) ([]domain.EdgeRecord, Report, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = false

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, Report{}, ErrEmptyFile
	}
	if err != nil {
		return nil, Report{}, fmt.Errorf("read csv header: %w", err)
	}

	cols, err := matchColumns(header)
	if err != nil {
		return nil, Report{}, err
	}

	var (
		records []domain.EdgeRecord
		report  Report
		line    = 1
	)
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, report, fmt.Errorf("read csv line %d: %w", line, err)
		}
		report.TotalRows++

		origin, okOrigin := cell(row, cols.origin)
		destination, okDestination := cell(row, cols.destination)
		rawWeight, okWeight := cell(row, cols.weight)
		if !okOrigin || !okDestination || !okWeight {
			report.MissingValues++
			continue
		}

		weight, err := strconv.ParseFloat(strings.TrimSpace(rawWeight), 64)
		if err != nil || math.IsNaN(weight) || math.IsInf(weight, 0) {
			report.InvalidWeights++
			continue
		}

		rec := domain.EdgeRecord{
			ID:          len(records) + 1,
			Origin:      origin,
			Destination: destination,
			Weight:      weight,
		}
		if err := validate.Struct(rec); err != nil {
			report.NegativeWeight++
			continue
		}
		records = append(records, rec)
	}

	report.AcceptedRows = len(records)
	return records, report, nil
}

// cell returns the value at idx, reporting false for absent cells and null
// markers.
func cell(row []string, idx int) (string, bool) {
	if idx >= len(row) {
		return "", false
	}
	v := row[idx]
	if _, isNull := nullMarkers[strings.TrimSpace(v)]; isNull {
		return "", false
	}
	return v, true
}

// AllowedFile reports whether name carries the .csv extension.
func AllowedFile(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".csv")
}

// ValidateRecords checks every record against the EdgeRecord constraints.
// store.Holder runs stored records through this before publishing them.
func ValidateRecords(records []domain.EdgeRecord) error {
	for _, rec := range records {
		if err := validate.Struct(rec); err != nil {
			return fmt.Errorf("record %d: %w", rec.ID, err)
		}
	}
	return nil
}
