package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/vanshika/netlatency/backend/internal/generator"
)

func main() {
	cfg := generator.DefaultConfig()
	var (
		nodes         = flag.Int("nodes", cfg.NumNodes, "number of routers to generate")
		links         = flag.Int("links", cfg.NumLinks, "number of directed links to generate")
		prefix        = flag.String("prefix", cfg.NodePrefix, "node name prefix")
		minLatency    = flag.Float64("min-latency", cfg.MinLatency, "minimum link latency in ms")
		maxLatency    = flag.Float64("max-latency", cfg.MaxLatency, "maximum link latency in ms")
		bidirectional = flag.Float64("bidirectional-chance", cfg.BidirectionalChance, "probability of adding the reverse link")
		dirty         = flag.Float64("dirty-chance", cfg.DirtyRowChance, "probability of emitting a malformed row after each link")
		seed          = flag.Int64("seed", cfg.Seed, "random seed for deterministic generation")
		output        = flag.String("output", "data/links.csv", "CSV file to write")
		writeStdout   = flag.Bool("stdout", false, "write the CSV to stdout instead of a file")
	)
	flag.Parse()

	genCfg := generator.Config{
		NumNodes:            *nodes,
		NumLinks:            *links,
		NodePrefix:          *prefix,
		MinLatency:          *minLatency,
		MaxLatency:          *maxLatency,
		BidirectionalChance: clampProbability(*bidirectional),
		DirtyRowChance:      clampProbability(*dirty),
		Seed:                *seed,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	gen := generator.New(genCfg)
	dataset, err := gen.Generate(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "generation failed: %v\n", err)
		os.Exit(1)
	}

	if *writeStdout {
		if err := generator.WriteCSV(os.Stdout, dataset); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write dataset to stdout: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := generator.WriteDataset(dataset, *output); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write dataset: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stdout, "Generated %d links (%d malformed rows) into %s\n", len(dataset.Records), len(dataset.DirtyRows), *output)
}

func clampProbability(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}
