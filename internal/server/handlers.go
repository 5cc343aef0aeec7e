package server

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/vanshika/netlatency/backend/internal/logging"
	"github.com/vanshika/netlatency/backend/internal/network"
	"github.com/vanshika/netlatency/backend/internal/service"
)

const defaultMaxUploadBytes = 10 << 20

var validate = validator.New()

// APIHandlers exposes HTTP handlers for the REST API.
type APIHandlers struct {
	logger         *slog.Logger
	service        *service.LatencyService
	maxUploadBytes int64
}

// NewAPIHandlers constructs an APIHandlers instance. maxUploadBytes <= 0
// selects the 10 MiB default.
func NewAPIHandlers(logger *slog.Logger, svc *service.LatencyService, maxUploadBytes int64) *APIHandlers {
	if maxUploadBytes <= 0 {
		maxUploadBytes = defaultMaxUploadBytes
	}
	return &APIHandlers{
		logger:         logger,
		service:        svc,
		maxUploadBytes: maxUploadBytes,
	}
}

func (h *APIHandlers) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("file exceeds %d bytes", h.maxUploadBytes))
		case errors.Is(err, http.ErrMissingFile):
			writeError(w, http.StatusBadRequest, "no file provided")
		default:
			writeError(w, http.StatusBadRequest, "invalid multipart form")
		}
		return
	}
	defer file.Close()

	res, err := h.service.Upload(r.Context(), header.Filename, file)
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("file exceeds %d bytes", h.maxUploadBytes))
		case errors.Is(err, service.ErrInvalidFile):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			logging.FromContext(r.Context(), h.logger).Error("upload failed", "error", err, "filename", header.Filename)
			writeError(w, http.StatusInternalServerError, "failed to store dataset")
		}
		return
	}

	respondJSON(w, http.StatusOK, uploadResponse{
		Success:  true,
		Message:  "file uploaded and processed",
		Filename: res.Filename,
		Version:  res.Version,
		Rows:     res.Rows,
		Dropped:  res.Dropped,
	})
}

func (h *APIHandlers) handleTable(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	q := r.URL.Query()
	page, err := h.service.Table(r.Context(), service.TableParams{
		Page:        parseInt(q.Get("page"), 1),
		Size:        parseInt(q.Get("size"), 0),
		Sort:        valueOr(q.Get("sort"), "id"),
		SortDir:     valueOr(q.Get("sort_dir"), "asc"),
		Search:      q.Get("search"),
		Origin:      firstNonEmpty(q.Get("origin"), q.Get("origen")),
		Destination: firstNonEmpty(q.Get("destination"), q.Get("destino")),
	})
	if err != nil {
		logging.FromContext(r.Context(), h.logger).Error("table query failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to read table")
		return
	}

	resp := tableResponse{
		Data:       make([]tableRow, 0, len(page.Rows)),
		Total:      page.Total,
		Page:       page.Page,
		Size:       page.Size,
		TotalPages: page.TotalPages,
		Columns:    page.Columns,
	}
	for _, rec := range page.Rows {
		resp.Data = append(resp.Data, tableRow{
			ID:          rec.ID,
			Origin:      rec.Origin,
			Destination: rec.Destination,
			Weight:      rec.Weight,
		})
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *APIHandlers) handleFilterOptions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	opts, err := h.service.FilterOptions(r.Context())
	if err != nil {
		logging.FromContext(r.Context(), h.logger).Error("filter options failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to read filter options")
		return
	}
	respondJSON(w, http.StatusOK, filterOptionsResponse{
		Origins:      opts.Origins,
		Destinations: opts.Destinations,
	})
}

func (h *APIHandlers) handleGraph(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	view, err := h.service.Graph(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, newGraphResponse(view))
}

func (h *APIHandlers) handleShortestPath(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	q := r.URL.Query()
	req := pathRequest{
		Source: q.Get("source"),
		Target: q.Get("target"),
		Stops:  q.Get("stops"),
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	view, err := h.service.ShortestPath(r.Context(), service.PathParams{
		Source: req.Source,
		Target: req.Target,
		Stops:  req.Stops,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, newPathResponse(view))
}

func (h *APIHandlers) handleDataInfo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	info, err := h.service.DataInfo(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, newDataInfoResponse(info))
}

func (h *APIHandlers) handleDownload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	var buf strings.Builder
	if err := h.service.Download(r.Context(), &buf); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", h.service.DownloadFilename()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(buf.String()))
}

// writeServiceError maps service and path engine errors to status codes.
func (h *APIHandlers) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrNoData):
		writeError(w, http.StatusBadRequest, "no data loaded")
	case errors.Is(err, service.ErrInvalidQuery):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, network.ErrNodeNotFound), errors.Is(err, network.ErrEmptyEndpoint):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, network.ErrNoPath):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		logging.FromContext(r.Context(), h.logger).Error("request failed", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "invalid request"
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, strings.ToLower(fe.Field()))
	}
	return "invalid or missing parameters: " + strings.Join(fields, ", ")
}

func parseInt(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	if v, err := strconv.Atoi(value); err == nil {
		return v
	}
	return fallback
}

func valueOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func writeError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{
		"error": msg,
	})
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}
