// Package batch runs headless Collector episodes on a pool of workers. Each
// episode is driven by a scripted policy, optionally recorded to disk, and
// its result handed to a saver.
package batch

import (
	"github.com/vovakirdan/collector/internal/registry"
)

// Job is one episode to run.
type Job struct {
	GameID string // registered preset
	Seed   int64
	Policy string // "idle", "random" or "seek"
}

// Config holds configuration for the runner.
type Config struct {
	Workers   int    // Parallel episodes
	MaxTicks  int    // Hard stop per episode, 0 for none
	RecordDir string // Trajectory directory, empty to disable recording
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Workers:  4,
		MaxTicks: 5000,
	}
}

// ResultSaver persists finished episodes.
// This allows the runner to save results without depending on the storage package.
type ResultSaver interface {
	SaveEpisode(r registry.Result) (int64, error)
}

// Jobs builds count jobs for one preset on consecutive seeds.
func Jobs(gameID, policy string, firstSeed int64, count int) []Job {
	jobs := make([]Job, count)
	for i := range jobs {
		jobs[i] = Job{GameID: gameID, Seed: firstSeed + int64(i), Policy: policy}
	}
	return jobs
}
