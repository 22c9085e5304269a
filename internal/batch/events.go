package batch

import "github.com/vovakirdan/collector/internal/registry"

// Event is reported by the runner while a batch is in progress.
type Event interface {
	batchEvent()
}

// EpisodeStartedEvent is sent when a worker picks up a job.
type EpisodeStartedEvent struct {
	Worker int
	Job    Job
}

func (EpisodeStartedEvent) batchEvent() {}

// EpisodeFinishedEvent is sent when an episode ends.
type EpisodeFinishedEvent struct {
	Worker    int
	Job       Job
	Result    registry.Result
	Recording string // path of the trajectory file, if recorded
}

func (EpisodeFinishedEvent) batchEvent() {}

// EpisodeFailedEvent is sent when a job could not be completed.
type EpisodeFailedEvent struct {
	Worker int
	Job    Job
	Err    error
}

func (EpisodeFailedEvent) batchEvent() {}
