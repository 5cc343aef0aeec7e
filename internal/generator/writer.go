package generator

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/vanshika/netlatency/backend/internal/domain"
	"github.com/vanshika/netlatency/backend/internal/ingest"
)

// WriteDataset writes the dataset as an upload-ready CSV file at path.
func WriteDataset(dataset Dataset, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	if err := WriteCSV(file, dataset); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return file.Close()
}

// WriteCSV writes clean records in the download format followed by any
// malformed rows.
func WriteCSV(w io.Writer, dataset Dataset) error {
	if len(dataset.DirtyRows) == 0 {
		return ingest.Encode(w, dataset.Records, false)
	}

	writer := csv.NewWriter(w)
	if err := writer.Write([]string{domain.ColumnOrigin, domain.ColumnDestination, domain.ColumnWeight}); err != nil {
		return err
	}
	for _, rec := range dataset.Records {
		if err := writer.Write([]string{rec.Origin, rec.Destination, strconv.FormatFloat(rec.Weight, 'f', -1, 64)}); err != nil {
			return err
		}
	}
	if err := writer.WriteAll(dataset.DirtyRows); err != nil {
		return err
	}
	return writer.Error()
}
