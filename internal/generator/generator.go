package generator

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/vanshika/netlatency/backend/internal/domain"
)

// Dataset contains generated links plus optional malformed rows.
type Dataset struct {
	Records   []domain.EdgeRecord
	DirtyRows [][]string
}

// Generator produces synthetic latency topologies. Every node lies on a
// directed ring, so any node can reach any other.
type Generator struct {
	cfg  Config
	rand *rand.Rand
}

// New returns a configured Generator instance.
func New(cfg Config) *Generator {
	def := DefaultConfig()
	if cfg.NumNodes < 2 {
		cfg.NumNodes = def.NumNodes
	}
	if cfg.NumLinks < cfg.NumNodes {
		cfg.NumLinks = cfg.NumNodes
	}
	if cfg.NodePrefix == "" {
		cfg.NodePrefix = def.NodePrefix
	}
	if cfg.MinLatency < 0 {
		cfg.MinLatency = 0
	}
	if cfg.MaxLatency <= cfg.MinLatency {
		cfg.MaxLatency = cfg.MinLatency + def.MaxLatency
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	return &Generator{
		cfg:  cfg,
		rand: rand.New(rand.NewSource(cfg.Seed)),
	}
}

// Generate synthesises links. It respects context cancellation.
func (g *Generator) Generate(ctx context.Context) (Dataset, error) {
	n := g.cfg.NumNodes
	maxLinks := n * (n - 1)
	target := min(g.cfg.NumLinks, maxLinks)

	seen := make(map[[2]int]struct{}, target)
	var ds Dataset

	add := func(from, to int) bool {
		key := [2]int{from, to}
		if from == to {
			return false
		}
		if _, dup := seen[key]; dup {
			return false
		}
		seen[key] = struct{}{}
		ds.Records = append(ds.Records, domain.EdgeRecord{
			ID:          len(ds.Records) + 1,
			Origin:      g.nodeName(from),
			Destination: g.nodeName(to),
			Weight:      g.latency(),
		})
		g.maybeDirty(&ds)
		return true
	}

	for i := 0; i < n; i++ {
		add(i, (i+1)%n)
	}

	for attempts := 0; len(ds.Records) < target; attempts++ {
		if attempts%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return Dataset{}, err
			}
		}
		from, to := g.rand.Intn(n), g.rand.Intn(n)
		if !add(from, to) {
			continue
		}
		if len(ds.Records) < target && g.rand.Float64() < g.cfg.BidirectionalChance {
			add(to, from)
		}
	}
	return ds, nil
}

func (g *Generator) nodeName(i int) string {
	return fmt.Sprintf("%s%d", g.cfg.NodePrefix, i+1)
}

func (g *Generator) latency() float64 {
	v := g.cfg.MinLatency + g.rand.Float64()*(g.cfg.MaxLatency-g.cfg.MinLatency)
	return math.Round(v*10) / 10
}

func (g *Generator) maybeDirty(ds *Dataset) {
	if g.cfg.DirtyRowChance <= 0 || g.rand.Float64() >= g.cfg.DirtyRowChance {
		return
	}
	a := g.nodeName(g.rand.Intn(g.cfg.NumNodes))
	b := g.nodeName(g.rand.Intn(g.cfg.NumNodes))
	var row []string
	switch g.rand.Intn(4) {
	case 0:
		row = []string{a, "", "12.5"}
	case 1:
		row = []string{a, b, "N/A"}
	case 2:
		row = []string{a, b, "fast"}
	default:
		row = []string{a, b, "-3"}
	}
	ds.DirtyRows = append(ds.DirtyRows, row)
}
