package server

import (
	"github.com/vanshika/netlatency/backend/internal/domain"
)

type pathRequest struct {
	Source string `validate:"required"`
	Target string `validate:"required"`
	Stops  string
}

type uploadResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Filename string `json:"filename"`
	Version  string `json:"version"`
	Rows     int    `json:"rows"`
	Dropped  int    `json:"dropped"`
}

// tableRow keys match the dataset's column names so clients can index rows
// by the entries of tableResponse.Columns.
type tableRow struct {
	ID          int     `json:"id"`
	Origin      string  `json:"Origen"`
	Destination string  `json:"Destino"`
	Weight      float64 `json:"Latencia_ms"`
}

type tableResponse struct {
	Data       []tableRow `json:"data"`
	Total      int        `json:"total"`
	Page       int        `json:"page"`
	Size       int        `json:"size"`
	TotalPages int        `json:"total_pages"`
	Columns    []string   `json:"columns"`
}

type filterOptionsResponse struct {
	Origins      []string `json:"origins"`
	Destinations []string `json:"destinations"`
}

type graphNode struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Title string `json:"title"`
}

type graphEdge struct {
	ID     string  `json:"id"`
	From   string  `json:"from"`
	To     string  `json:"to"`
	Weight float64 `json:"weight"`
	Label  string  `json:"label"`
	Title  string  `json:"title"`
}

type graphResponse struct {
	Nodes     []graphNode `json:"nodes"`
	Edges     []graphEdge `json:"edges"`
	NodeCount int         `json:"nodeCount"`
	EdgeCount int         `json:"edgeCount"`
	AllNodes  []string    `json:"allNodes"`
}

func newGraphResponse(view domain.GraphView) graphResponse {
	resp := graphResponse{
		Nodes:     make([]graphNode, 0, len(view.Nodes)),
		Edges:     make([]graphEdge, 0, len(view.Edges)),
		NodeCount: view.NodeCount,
		EdgeCount: view.EdgeCount,
		AllNodes:  view.SortedNodeLabels,
	}
	if resp.AllNodes == nil {
		resp.AllNodes = []string{}
	}
	for _, n := range view.Nodes {
		resp.Nodes = append(resp.Nodes, graphNode{ID: n.ID, Label: n.Label, Title: n.Title})
	}
	for _, e := range view.Edges {
		resp.Edges = append(resp.Edges, graphEdge{
			ID:     e.ID,
			From:   e.From,
			To:     e.To,
			Weight: e.Weight,
			Label:  e.Label,
			Title:  e.Title,
		})
	}
	return resp
}

type pathEdge struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Weight float64 `json:"weight"`
}

type pathResponse struct {
	Path    []string   `json:"path"`
	Latency float64    `json:"latency"`
	Edges   []pathEdge `json:"edges"`
}

func newPathResponse(view domain.PathView) pathResponse {
	resp := pathResponse{
		Path:    view.Path,
		Latency: view.Latency,
		Edges:   make([]pathEdge, 0, len(view.Edges)),
	}
	for _, e := range view.Edges {
		resp.Edges = append(resp.Edges, pathEdge{From: e.From, To: e.To, Weight: e.Weight})
	}
	return resp
}

type columnStats struct {
	EmptyCount      int     `json:"empty_count"`
	EmptyPercentage float64 `json:"empty_percentage"`
}

type dataInfoResponse struct {
	Loaded       bool                   `json:"loaded"`
	Filename     string                 `json:"filename"`
	Version      string                 `json:"version"`
	TotalRows    int                    `json:"total_rows"`
	TotalColumns int                    `json:"total_columns"`
	EmptyStats   map[string]columnStats `json:"empty_stats"`
	Columns      []string               `json:"columns"`
}

// newDataInfoResponse reports only the loaded flag when nothing is loaded.
func newDataInfoResponse(info domain.DataInfo) any {
	if !info.Loaded {
		return map[string]bool{"loaded": false}
	}
	stats := make(map[string]columnStats, len(info.EmptyStats))
	for col, s := range info.EmptyStats {
		stats[col] = columnStats{EmptyCount: s.EmptyCount, EmptyPercentage: s.EmptyPercentage}
	}
	return dataInfoResponse{
		Loaded:       true,
		Filename:     info.Filename,
		Version:      info.Version,
		TotalRows:    info.TotalRows,
		TotalColumns: info.TotalColumns,
		EmptyStats:   stats,
		Columns:      info.Columns,
	}
}
