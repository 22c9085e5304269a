package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/collector/internal/engine"
	"github.com/vovakirdan/collector/internal/games/collector"
	"github.com/vovakirdan/collector/internal/games/collector/core"
	"github.com/vovakirdan/collector/internal/recording"
	"github.com/vovakirdan/collector/internal/registry"
)

// ctxCheckEvery is how many ticks an episode runs between context checks.
const ctxCheckEvery = 256

// Runner executes batches of episodes.
type Runner struct {
	config Config
	saver  ResultSaver // Optional, can be nil
	logger *log.Logger
}

// NewRunner creates a runner.
func NewRunner(cfg Config) *Runner {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &Runner{config: cfg, logger: log.New(io.Discard)}
}

// SetResultSaver sets the optional result saver.
func (r *Runner) SetResultSaver(saver ResultSaver) {
	r.saver = saver
}

// SetLogger replaces the default silent logger.
func (r *Runner) SetLogger(l *log.Logger) {
	if l != nil {
		r.logger = l
	}
}

// Run executes jobs on the worker pool and returns their results in job
// order. Failed jobs leave a zero Result and are reported together in the
// returned error. events may be nil; otherwise the caller must drain it.
func (r *Runner) Run(ctx context.Context, jobs []Job, events chan<- Event) ([]registry.Result, error) {
	results := make([]registry.Result, len(jobs))
	queue := make(chan int)

	var (
		mu   sync.Mutex
		errs []error
		wg   sync.WaitGroup
	)

	emit := func(ev Event) {
		if events == nil {
			return
		}
		select {
		case events <- ev:
		case <-ctx.Done():
		}
	}

	workers := min(r.config.Workers, max(len(jobs), 1))
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for i := range queue {
				job := jobs[i]
				emit(EpisodeStartedEvent{Worker: worker, Job: job})

				res, path, err := r.runEpisode(ctx, job)
				if err != nil {
					mu.Lock()
					errs = append(errs, err)
					mu.Unlock()
					r.logger.Warn("episode failed", "game", job.GameID, "seed", job.Seed, "err", err)
					emit(EpisodeFailedEvent{Worker: worker, Job: job, Err: err})
					continue
				}
				results[i] = res
				r.logger.Debug("episode finished", "game", job.GameID, "seed", job.Seed,
					"ticks", res.Ticks, "reward", res.TotalReward, "complete", res.LevelComplete)
				emit(EpisodeFinishedEvent{Worker: worker, Job: job, Result: res, Recording: path})
			}
		}(w)
	}

dispatch:
	for i := range jobs {
		select {
		case queue <- i:
		case <-ctx.Done():
			break dispatch
		}
	}
	close(queue)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return results, err
	}
	return results, errors.Join(errs...)
}

// RunEpisode plays a single job to completion.
func (r *Runner) RunEpisode(ctx context.Context, job Job) (registry.Result, error) {
	res, _, err := r.runEpisode(ctx, job)
	return res, err
}

func (r *Runner) runEpisode(ctx context.Context, job Job) (res registry.Result, path string, err error) {
	opts, err := collector.PresetOptions(job.GameID)
	if err != nil {
		return res, "", err
	}
	policy, err := NewPolicy(job.Policy, job.Seed)
	if err != nil {
		return res, "", err
	}
	ep, err := core.NewEpisode(opts)
	if err != nil {
		return res, "", fmt.Errorf("%s seed %d: %w", job.GameID, job.Seed, err)
	}
	if err := ep.Reset(job.Seed); err != nil {
		return res, "", fmt.Errorf("%s: %w", job.GameID, err)
	}

	var rec *recording.Recorder
	if r.config.RecordDir != "" {
		rec, err = recording.Create(r.config.RecordDir, job.GameID, job.Seed)
		if err != nil {
			return res, "", err
		}
		path = rec.Path()
		defer func() {
			if cerr := rec.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}()
		if err := rec.WriteLayout(job.GameID, ep); err != nil {
			return res, path, err
		}
	}

	var sd core.StepData
	for !sd.Done {
		if r.config.MaxTicks > 0 && ep.Tick() >= r.config.MaxTicks {
			break
		}
		if ep.Tick()%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return res, path, err
			}
		}

		action := policy.Action(ep)
		var contacts []int
		sd, contacts, err = engine.AdvanceContacts(ep, action)
		if err != nil {
			return res, path, fmt.Errorf("%s seed %d tick %d: %w", job.GameID, job.Seed, ep.Tick(), err)
		}
		if rec != nil {
			if err := rec.WriteStep(ep, action, sd, contacts); err != nil {
				return res, path, err
			}
		}
	}

	res = registry.Result{
		GameID:        job.GameID,
		Seed:          job.Seed,
		Locator:       opts.Locator.String(),
		Ticks:         ep.Tick(),
		TotalReward:   ep.TotalReward(),
		LevelComplete: sd.LevelComplete,
		FuelLeft:      ep.Ship().Fuel.Value(),
	}
	if rec != nil {
		if err := rec.WriteResult(res); err != nil {
			return res, path, err
		}
	}
	if r.saver != nil {
		if _, err := r.saver.SaveEpisode(res); err != nil {
			return res, path, err
		}
	}
	return res, path, nil
}

// Summary aggregates a batch of results.
type Summary struct {
	Episodes   int
	Completed  int
	MeanReward float64
	BestReward float64
	MeanTicks  float64
}

// Summarize aggregates results, skipping zero entries left by failed jobs.
func Summarize(results []registry.Result) Summary {
	var s Summary
	var sumReward, sumTicks float64
	for _, r := range results {
		if r.GameID == "" {
			continue
		}
		if s.Episodes == 0 || r.TotalReward > s.BestReward {
			s.BestReward = r.TotalReward
		}
		s.Episodes++
		if r.LevelComplete {
			s.Completed++
		}
		sumReward += r.TotalReward
		sumTicks += float64(r.Ticks)
	}
	if s.Episodes > 0 {
		s.MeanReward = sumReward / float64(s.Episodes)
		s.MeanTicks = sumTicks / float64(s.Episodes)
	}
	return s
}
