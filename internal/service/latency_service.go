package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/vanshika/netlatency/backend/internal/domain"
	"github.com/vanshika/netlatency/backend/internal/ingest"
	"github.com/vanshika/netlatency/backend/internal/metrics"
	"github.com/vanshika/netlatency/backend/internal/network"
)

var (
	// ErrNoData is returned when an operation needs a dataset and none is loaded.
	ErrNoData = errors.New("no data loaded")
	// ErrInvalidQuery marks requests with missing or malformed parameters.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrInvalidFile marks uploads that cannot be turned into a dataset.
	ErrInvalidFile = errors.New("invalid file")
)

const (
	defaultPageSize = 25
	maxPageSize     = 500
)

// DatasetStore is the storage contract required by the latency service.
type DatasetStore interface {
	Snapshot() *domain.Dataset
	Replace(ctx context.Context, filename string, records []domain.EdgeRecord) (*domain.Dataset, error)
}

// LatencyService answers table, graph and route queries over the current
// dataset. Every query works on the snapshot visible when it starts and
// builds its own graph.
type LatencyService struct {
	store  DatasetStore
	logger *slog.Logger
	nowFn  func() time.Time
}

// TableParams selects one page of dataset rows.
type TableParams struct {
	Page        int
	Size        int
	Sort        string
	SortDir     string
	Search      string
	Origin      string
	Destination string
}

// PathParams is a route request; Stops is a comma separated waypoint list.
type PathParams struct {
	Source string
	Target string
	Stops  string
}

// UploadResult describes an accepted upload.
type UploadResult struct {
	Filename string
	Version  string
	Rows     int
	Dropped  int
}

// NewLatencyService constructs the service.
func NewLatencyService(store DatasetStore, logger *slog.Logger) *LatencyService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &LatencyService{
		store:  store,
		logger: logger.With("component", "latency_service"),
		nowFn:  time.Now,
	}
}

// Table filters, sorts and paginates the dataset rows. With no dataset it
// returns an empty page rather than an error.
func (s *LatencyService) Table(_ context.Context, params TableParams) (domain.TablePage, error) {
	page, size := normalizePagination(params.Page, params.Size)

	ds := s.store.Snapshot()
	if ds == nil {
		return domain.TablePage{
			Rows:    []domain.EdgeRecord{},
			Page:    1,
			Size:    size,
			Columns: domain.Columns,
		}, nil
	}

	rows := filterRows(ds.Records, params)
	if less := rowComparator(params.Sort); less != nil {
		desc := strings.EqualFold(params.SortDir, "desc")
		slices.SortStableFunc(rows, func(a, b domain.EdgeRecord) int {
			if desc {
				return less(b, a)
			}
			return less(a, b)
		})
	}

	total := len(rows)
	totalPages := max(1, int(math.Ceil(float64(total)/float64(size))))
	page = min(page, totalPages)
	start := min((page-1)*size, total)
	end := min(start+size, total)

	return domain.TablePage{
		Rows:       rows[start:end],
		Total:      total,
		Page:       page,
		Size:       size,
		TotalPages: totalPages,
		Columns:    domain.Columns,
	}, nil
}

// FilterOptions lists sorted distinct origins and destinations.
func (s *LatencyService) FilterOptions(context.Context) (domain.FilterOptions, error) {
	opts := domain.FilterOptions{Origins: []string{}, Destinations: []string{}}
	ds := s.store.Snapshot()
	if ds == nil {
		return opts, nil
	}

	origins := make(map[string]struct{})
	destinations := make(map[string]struct{})
	for _, rec := range ds.Records {
		origins[rec.Origin] = struct{}{}
		destinations[rec.Destination] = struct{}{}
	}
	for o := range origins {
		opts.Origins = append(opts.Origins, o)
	}
	for d := range destinations {
		opts.Destinations = append(opts.Destinations, d)
	}
	slices.Sort(opts.Origins)
	slices.Sort(opts.Destinations)
	return opts, nil
}

// DataInfo summarises the loaded dataset. Stored rows are already cleaned,
// so every column reports zero empty values.
func (s *LatencyService) DataInfo(context.Context) (domain.DataInfo, error) {
	ds := s.store.Snapshot()
	if ds == nil {
		return domain.DataInfo{Loaded: false}, nil
	}

	stats := make(map[string]domain.ColumnStats, len(domain.Columns))
	for _, col := range domain.Columns {
		stats[col] = domain.ColumnStats{}
	}
	return domain.DataInfo{
		Loaded:       true,
		Filename:     ds.Filename,
		Version:      ds.Version,
		TotalRows:    ds.Len(),
		TotalColumns: len(domain.Columns),
		EmptyStats:   stats,
		Columns:      domain.Columns,
	}, nil
}

// Graph builds the latency graph of the current dataset and exports it.
func (s *LatencyService) Graph(context.Context) (domain.GraphView, error) {
	ds := s.store.Snapshot()
	if ds == nil {
		return domain.GraphView{}, ErrNoData
	}
	g := network.Build(ds.Records)
	metrics.ObserveGraphBuild(g.NodeCount(), g.EdgeCount())
	return network.ExportGraph(g), nil
}

// ShortestPath finds the minimum-latency route from Source to Target through
// the optional stops, in order.
func (s *LatencyService) ShortestPath(_ context.Context, params PathParams) (view domain.PathView, err error) {
	start := s.nowFn()
	query := domain.PathQuery{
		Source:    params.Source,
		Target:    params.Target,
		Waypoints: network.ParseWaypoints(params.Stops),
	}
	defer func() {
		metrics.ObservePathQuery(pathResultLabel(err), len(query.Waypoints)+1, s.nowFn().Sub(start))
	}()

	if query.Source == "" || query.Target == "" {
		return domain.PathView{}, fmt.Errorf("%w: source and target are required", ErrInvalidQuery)
	}
	ds := s.store.Snapshot()
	if ds == nil {
		return domain.PathView{}, ErrNoData
	}

	g := network.Build(ds.Records)
	metrics.ObserveGraphBuild(g.NodeCount(), g.EdgeCount())

	result, err := network.FindPath(g, query)
	if err != nil {
		s.logger.Debug("path query failed",
			"source", query.Source,
			"target", query.Target,
			"waypoints", query.Waypoints,
			"error", err,
		)
		return domain.PathView{}, err
	}
	return network.ExportPath(result), nil
}

// Upload decodes a CSV upload and makes it the current dataset.
func (s *LatencyService) Upload(ctx context.Context, filename string, r io.Reader) (res UploadResult, err error) {
	defer func() {
		label := metrics.ResultOK
		if err != nil {
			label = metrics.ResultInvalid
			if !errors.Is(err, ErrInvalidFile) {
				label = metrics.ResultError
			}
		}
		metrics.ObserveUpload(label)
	}()

	filename = filepath.Base(strings.TrimSpace(filename))
	if filename == "" || filename == "." || filename == string(filepath.Separator) {
		return UploadResult{}, fmt.Errorf("%w: no file selected", ErrInvalidFile)
	}
	if !ingest.AllowedFile(filename) {
		return UploadResult{}, fmt.Errorf("%w: only .csv files are accepted", ErrInvalidFile)
	}

	records, report, err := ingest.Decode(r)
	if err != nil {
		return UploadResult{}, fmt.Errorf("%w: %w", ErrInvalidFile, err)
	}

	ds, err := s.store.Replace(ctx, filename, records)
	if err != nil {
		return UploadResult{}, fmt.Errorf("store upload %s: %w", filename, err)
	}

	s.logger.Info("dataset uploaded",
		"filename", filename,
		"version", ds.Version,
		"rows", report.AcceptedRows,
		"dropped", report.Dropped(),
	)
	return UploadResult{
		Filename: filename,
		Version:  ds.Version,
		Rows:     len(records),
		Dropped:  report.Dropped(),
	}, nil
}

// Download writes the current dataset as CSV without the id column.
func (s *LatencyService) Download(_ context.Context, w io.Writer) error {
	ds := s.store.Snapshot()
	if ds == nil {
		return ErrNoData
	}
	if err := ingest.Encode(w, ds.Records, false); err != nil {
		return fmt.Errorf("encode download: %w", err)
	}
	return nil
}

// DownloadFilename names a download after the current time.
func (s *LatencyService) DownloadFilename() string {
	return "network_data_" + s.nowFn().Format("20060102_150405") + ".csv"
}

func normalizePagination(page, size int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return page, size
}

func filterRows(records []domain.EdgeRecord, params TableParams) []domain.EdgeRecord {
	search := strings.ToLower(strings.TrimSpace(params.Search))
	rows := make([]domain.EdgeRecord, 0, len(records))
	for _, rec := range records {
		if params.Origin != "" && rec.Origin != params.Origin {
			continue
		}
		if params.Destination != "" && rec.Destination != params.Destination {
			continue
		}
		if search != "" && !rowContains(rec, search) {
			continue
		}
		rows = append(rows, rec)
	}
	return rows
}

func rowContains(rec domain.EdgeRecord, needle string) bool {
	fields := [...]string{
		strconv.Itoa(rec.ID),
		rec.Origin,
		rec.Destination,
		formatWeight(rec.Weight),
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

// formatWeight renders weights the way they read in the table: integral
// values keep one decimal ("5.0").
func formatWeight(w float64) string {
	s := strconv.FormatFloat(w, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// rowComparator returns the ordering for a sort column, or nil when the
// column is unknown and rows keep their stored order.
func rowComparator(column string) func(a, b domain.EdgeRecord) int {
	switch strings.ToLower(strings.TrimSpace(column)) {
	case "", "id":
		return func(a, b domain.EdgeRecord) int { return a.ID - b.ID }
	case "origen", "origin":
		return func(a, b domain.EdgeRecord) int { return compareNatural(a.Origin, b.Origin) }
	case "destino", "destination":
		return func(a, b domain.EdgeRecord) int { return compareNatural(a.Destination, b.Destination) }
	case "latencia_ms", "latency_ms", "weight":
		return func(a, b domain.EdgeRecord) int {
			switch {
			case a.Weight < b.Weight:
				return -1
			case a.Weight > b.Weight:
				return 1
			}
			return 0
		}
	default:
		return nil
	}
}

func pathResultLabel(err error) string {
	switch {
	case err == nil:
		return metrics.ResultOK
	case errors.Is(err, ErrInvalidQuery):
		return metrics.ResultInvalid
	case errors.Is(err, ErrNoData):
		return metrics.ResultNoData
	case errors.Is(err, network.ErrNodeNotFound):
		return metrics.ResultNodeNotFound
	case errors.Is(err, network.ErrNoPath):
		return metrics.ResultNoPath
	default:
		return metrics.ResultError
	}
}
