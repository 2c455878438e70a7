// Package candidate generates the pool of candidate routes: shortest paths
// between a seeded sample of graph nodes, with per-path aggregate length and
// weight derived from the constituent edges.
package candidate

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"

	"corridor/internal/network"

	"github.com/pkg/errors"
)

// DefaultSampleSize is the default number of nodes sampled for pair generation.
const DefaultSampleSize = 80

// ErrNoCandidates is returned when no node pair yields a usable path.
var ErrNoCandidates = errors.New("candidate generation produced no paths")

// Path is one candidate route: the shortest path by length between two
// sampled nodes. Edges holds dense edge indexes into the graph.
type Path struct {
	Origin int64
	Dest   int64
	Edges  []int
	Length float64
	Weight float64
}

// Config controls candidate generation.
type Config struct {
	SampleSize int   // number of nodes to sample, DefaultSampleSize when <= 0
	Seed       int64 // RNG seed for node sampling, fixed for reproducibility
	Workers    int   // concurrent shortest-path workers, GOMAXPROCS-ish default
}

type pairJob struct {
	slot   int
	origin int64
	dest   int64
}

// Generate samples up to cfg.SampleSize nodes with a seeded RNG and computes
// the shortest path for every unordered pair. Pair computations only read the
// immutable graph and write disjoint result slots, so they fan out to a
// worker pool and fan back in with no ordering requirement.
func Generate(ctx context.Context, g *network.Graph, cfg Config, logger *slog.Logger) ([]Path, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.SampleSize <= 0 {
		cfg.SampleSize = DefaultSampleSize
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 8
	}

	sampled := sampleNodes(g, cfg.SampleSize, cfg.Seed)

	jobs := buildPairJobs(sampled)
	slots := make([]*Path, len(jobs))

	jobCh := make(chan pairJob, len(jobs))

	var waitGroup sync.WaitGroup
	workerCount := min(cfg.Workers, len(jobs))
	for workerIdx := 0; workerIdx < workerCount; workerIdx++ {
		waitGroup.Add(1)
		go func() {
			defer waitGroup.Done()
			for job := range jobCh {
				if ctx.Err() != nil {
					return
				}
				slots[job.slot] = computePath(g, job.origin, job.dest)
			}
		}()
	}

	for _, job := range jobs {
		jobCh <- job
	}
	close(jobCh)
	waitGroup.Wait()

	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "candidate generation canceled")
	}

	paths := make([]Path, 0, len(slots))
	for _, path := range slots {
		if path != nil {
			paths = append(paths, *path)
		}
	}

	if len(paths) == 0 {
		return nil, errors.Wrapf(ErrNoCandidates, "sampled %d nodes", len(sampled))
	}

	logger.Info("candidate paths generated",
		"sampled_nodes", len(sampled),
		"pairs", len(jobs),
		"paths", len(paths),
		"seed", cfg.Seed,
	)

	return paths, nil
}

// sampleNodes picks up to sampleSize node IDs. The node list is sorted before
// permutation so the same seed always yields the same sample.
func sampleNodes(g *network.Graph, sampleSize int, seed int64) []int64 {
	ids := g.NodeIDs()
	if len(ids) <= sampleSize {
		return ids
	}

	rng := rand.New(rand.NewSource(seed))
	perm := rng.Perm(len(ids))

	sampled := make([]int64, sampleSize)
	for i := 0; i < sampleSize; i++ {
		sampled[i] = ids[perm[i]]
	}

	return sampled
}

func buildPairJobs(sampled []int64) []pairJob {
	jobs := make([]pairJob, 0, len(sampled)*(len(sampled)-1)/2)
	for i := 0; i < len(sampled); i++ {
		for j := i + 1; j < len(sampled); j++ {
			jobs = append(jobs, pairJob{slot: len(jobs), origin: sampled[i], dest: sampled[j]})
		}
	}

	return jobs
}

// computePath runs Dijkstra for one pair. Unreachable pairs are dropped.
func computePath(g *network.Graph, origin, dest int64) *Path {
	edges, ok := shortestPath(g, origin, dest)
	if !ok || len(edges) == 0 {
		return nil
	}

	path := &Path{Origin: origin, Dest: dest, Edges: edges}
	path.Length, path.Weight = Aggregate(g, edges)

	return path
}

// Aggregate recomputes total length and weight from the edge set. Aggregates
// are always derived this way, never cached independently of the edges.
func Aggregate(g *network.Graph, edges []int) (length, weight float64) {
	for _, edge := range edges {
		e := g.Edge(edge)
		length += e.Length
		weight += e.Weight
	}

	return length, weight
}
