package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vanshika/netlatency/backend/internal/domain"
	"github.com/vanshika/netlatency/backend/internal/ingest"
	"github.com/vanshika/netlatency/backend/internal/network"
)

type rootOptions struct {
	file     string
	jsonOut  bool
	source   string
	target   string
	stops    string
	maxEdges int
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "routectl",
		Short:         "Inspect latency datasets and compute minimum-latency routes",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.file, "file", "f", "", "latency CSV (Origen,Destino,Latencia_ms)")
	root.PersistentFlags().BoolVar(&opts.jsonOut, "json", false, "print JSON instead of text")
	_ = root.MarkPersistentFlagRequired("file")

	root.AddCommand(newValidateCmd(opts), newGraphCmd(opts), newPathCmd(opts))
	return root
}

func newValidateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Report how many rows survive cleaning",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			records, report, err := loadRecords(opts.file)
			if err != nil {
				return err
			}
			if opts.jsonOut {
				return writeJSON(cmd.OutOrStdout(), map[string]int{
					"total_rows":      report.TotalRows,
					"accepted_rows":   report.AcceptedRows,
					"missing_values":  report.MissingValues,
					"invalid_weights": report.InvalidWeights,
					"negative_weight": report.NegativeWeight,
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "rows read:       %d\n", report.TotalRows)
			fmt.Fprintf(out, "rows accepted:   %d\n", len(records))
			fmt.Fprintf(out, "missing values:  %d\n", report.MissingValues)
			fmt.Fprintf(out, "invalid latency: %d\n", report.InvalidWeights)
			fmt.Fprintf(out, "negative:        %d\n", report.NegativeWeight)
			return nil
		},
	}
}

func newGraphCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Build the latency graph and print its nodes and edges",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			records, _, err := loadRecords(opts.file)
			if err != nil {
				return err
			}
			view := network.BuildAndExport(records)
			if opts.jsonOut {
				return writeJSON(cmd.OutOrStdout(), view)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "nodes: %d  edges: %d\n", view.NodeCount, view.EdgeCount)
			fmt.Fprintf(out, "%s\n", strings.Join(view.SortedNodeLabels, " "))
			for i, e := range view.Edges {
				if opts.maxEdges > 0 && i >= opts.maxEdges {
					fmt.Fprintf(out, "... %d more\n", len(view.Edges)-i)
					break
				}
				fmt.Fprintf(out, "%s -> %s  %s\n", e.From, e.To, e.Label)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&opts.maxEdges, "max-edges", 50, "edges to list in text mode (0 for all)")
	return cmd
}

func newPathCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "path",
		Short: "Find the minimum-latency route through optional stops",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			records, _, err := loadRecords(opts.file)
			if err != nil {
				return err
			}
			res, err := network.ComputePath(records, opts.source, opts.target, opts.stops)
			if err != nil {
				return err
			}
			view := network.ExportPath(res)
			if opts.jsonOut {
				return writeJSON(cmd.OutOrStdout(), view)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s\n", strings.Join(view.Path, " -> "))
			for _, e := range view.Edges {
				fmt.Fprintf(out, "  %s -> %s  %s\n", e.From, e.To, network.EdgeLabel(e.Weight))
			}
			fmt.Fprintf(out, "total latency: %.2f ms\n", view.Latency)
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.source, "source", "", "route start node")
	cmd.Flags().StringVar(&opts.target, "target", "", "route end node")
	cmd.Flags().StringVar(&opts.stops, "stops", "", "comma separated waypoints, visited in order")
	_ = cmd.MarkFlagRequired("source")
	_ = cmd.MarkFlagRequired("target")
	return cmd
}

func loadRecords(path string) ([]domain.EdgeRecord, ingest.Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ingest.Report{}, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	records, report, err := ingest.Decode(f)
	if err != nil {
		return nil, ingest.Report{}, fmt.Errorf("read %s: %w", path, err)
	}
	return records, report, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
