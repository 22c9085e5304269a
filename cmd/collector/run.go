package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/collector/internal/batch"
	"github.com/vovakirdan/collector/internal/registry"
	"github.com/vovakirdan/collector/internal/storage"
)

var (
	flagEpisodes  int
	flagWorkers   int
	flagPolicy    string
	flagRecordDir string
	flagMaxTicks  int
	flagNoSave    bool
)

var runCmd = &cobra.Command{
	Use:   "run [preset]",
	Short: "Run headless episodes",
	Long: `Run episodes without a terminal UI, each driven by a scripted policy on
consecutive seeds starting at --seed. Results go to the episode database and,
with --record-dir, every trajectory is written as zstd-compressed JSON lines.

Policies:
  idle    - never act; goals fill on their own
  random  - uniform random actions
  seek    - steer to fuel when low, resources when empty, goals when loaded

Examples:
  collector run --episodes 100
  collector run collector_random --policy random --workers 8
  collector run --seed 1 --episodes 10 --record-dir ./traj`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRun,
}

func init() {
	def := batch.DefaultConfig()
	runCmd.Flags().IntVarP(&flagEpisodes, "episodes", "n", 10, "Number of episodes")
	runCmd.Flags().IntVarP(&flagWorkers, "workers", "w", def.Workers, "Parallel episodes")
	runCmd.Flags().StringVar(&flagPolicy, "policy", "seek", "Policy: "+strings.Join(batch.PolicyNames, ", "))
	runCmd.Flags().StringVar(&flagRecordDir, "record-dir", "", "Write trajectories to this directory")
	runCmd.Flags().IntVar(&flagMaxTicks, "max-ticks", def.MaxTicks, "Stop an episode after this many ticks (0 = never)")
	runCmd.Flags().BoolVar(&flagNoSave, "no-save", false, "Do not store results in the episode database")
}

func runRun(_ *cobra.Command, args []string) error {
	id := presetArg(args)
	if !registry.Exists(id) {
		return fmt.Errorf("unknown preset %q (see 'collector list')", id)
	}
	if _, err := batch.NewPolicy(flagPolicy, 0); err != nil {
		return err
	}
	if flagEpisodes < 1 {
		return errors.New("--episodes must be at least 1")
	}

	logger := newLogger("collector-run")
	runner := batch.NewRunner(batch.Config{
		Workers:   flagWorkers,
		MaxTicks:  flagMaxTicks,
		RecordDir: flagRecordDir,
	})
	runner.SetLogger(logger)

	if !flagNoSave {
		store, err := storage.Open(flagDBPath)
		if err != nil {
			return fmt.Errorf("opening episode database: %w", err)
		}
		defer store.Close()
		runner.SetResultSaver(store)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	first := seed()
	jobs := batch.Jobs(id, flagPolicy, first, flagEpisodes)
	logger.Info("starting batch", "preset", id, "policy", flagPolicy,
		"episodes", len(jobs), "first_seed", first, "workers", flagWorkers)

	events := make(chan batch.Event)
	done := make(chan struct{})
	go func() {
		defer close(done)
		finished := 0
		for ev := range events {
			switch ev := ev.(type) {
			case batch.EpisodeFinishedEvent:
				finished++
				logger.Info("episode", "n", fmt.Sprintf("%d/%d", finished, len(jobs)),
					"seed", ev.Job.Seed, "ticks", ev.Result.Ticks,
					"reward", fmt.Sprintf("%.1f", ev.Result.TotalReward),
					"complete", ev.Result.LevelComplete)
				if ev.Recording != "" {
					logger.Debug("recorded", "path", ev.Recording)
				}
			case batch.EpisodeFailedEvent:
				logger.Error("episode failed", "seed", ev.Job.Seed, "err", ev.Err)
			}
		}
	}()

	results, err := runner.Run(ctx, jobs, events)
	close(events)
	<-done

	sum := batch.Summarize(results)
	fmt.Println()
	fmt.Printf("Episodes:     %d/%d\n", sum.Episodes, len(jobs))
	fmt.Printf("Completed:    %d\n", sum.Completed)
	fmt.Printf("Mean reward:  %.2f\n", sum.MeanReward)
	fmt.Printf("Best reward:  %.2f\n", sum.BestReward)
	fmt.Printf("Mean ticks:   %.1f\n", sum.MeanTicks)

	if errors.Is(err, context.Canceled) {
		return errors.New("interrupted")
	}
	return err
}
