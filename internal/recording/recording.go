// Package recording writes episode trajectories as zstd-compressed JSON
// lines: one header with the generated layout, one line per tick and a
// closing result line.
package recording

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zstd"

	"github.com/vovakirdan/collector/internal/games/collector/core"
	"github.com/vovakirdan/collector/internal/registry"
)

// Line types.
const (
	TypeHeader = "header"
	TypeStep   = "step"
	TypeResult = "result"
)

// Entity is the position of one object at layout time.
type Entity struct {
	Index int     `json:"index"`
	Kind  string  `json:"kind"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Cell  int     `json:"cell"`
}

// Layout is the level an episode started from.
type Layout struct {
	GameID   string   `json:"game_id"`
	Seed     int64    `json:"seed"`
	Locator  string   `json:"locator"`
	WorldDim int      `json:"world_dim"`
	Width    int      `json:"width"`
	Height   int      `json:"height"`
	Rot      float64  `json:"agent_rot"`
	Entities []Entity `json:"entities"`
}

// Step is one tick of a trajectory.
type Step struct {
	Tick     int     `json:"tick"`
	Action   int     `json:"action"`
	Reward   float64 `json:"reward"`
	Done     bool    `json:"done,omitempty"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Rot      float64 `json:"rot"`
	Fuel     float64 `json:"fuel"`
	Cargo    float64 `json:"cargo"`
	Contacts []int   `json:"contacts,omitempty"`

	// Observation vectors after the tick.
	Ship      []float32 `json:"state_ship"`
	Goals     []float32 `json:"state_goals"`
	Resources []float32 `json:"state_resources"`
	Obstacles []float32 `json:"state_obstacles"`
}

// Line is one JSON line of a recording. Exactly one payload is set.
type Line struct {
	Type   string           `json:"type"`
	Layout *Layout          `json:"layout,omitempty"`
	Step   *Step            `json:"step,omitempty"`
	Result *registry.Result `json:"result,omitempty"`
}

// Snapshot captures the current layout of ep.
func Snapshot(gameID string, ep *core.Episode) Layout {
	w := ep.World()
	l := Layout{
		GameID:   gameID,
		Seed:     ep.Seed(),
		Locator:  ep.Options().Locator.String(),
		WorldDim: ep.Options().WorldDim,
		Width:    ep.Grid().Width(),
		Height:   ep.Grid().Height(),
		Entities: make([]Entity, 0, w.Len()),
	}
	for i := 0; i < w.Len(); i++ {
		e := w.At(i)
		if !e.Active() {
			continue
		}
		if e.Kind == core.KindAgent {
			l.Rot = e.Rot
		}
		l.Entities = append(l.Entities, Entity{Index: i, Kind: e.Kind.String(), X: e.Pos.X, Y: e.Pos.Y, Cell: e.Cell})
	}
	return l
}

// Recorder writes a single episode to a file.
type Recorder struct {
	path string

	mu  sync.Mutex
	f   *os.File
	enc *zstd.Encoder
	w   *bufio.Writer
}

// FileName returns the file name used for an episode of gameID on seed.
func FileName(gameID string, seed int64) string {
	return fmt.Sprintf("%s-seed%d.jsonl.zst", gameID, seed)
}

// Create opens a new recording under dir, replacing any previous recording
// of the same episode.
func Create(dir, gameID string, seed int64) (*Recorder, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("recording: create dir: %w", err)
	}
	path := filepath.Join(dir, FileName(gameID, seed))
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("recording: %w", err)
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("recording: %w", err)
	}
	return &Recorder{
		path: path,
		f:    f,
		enc:  enc,
		w:    bufio.NewWriterSize(enc, 64*1024),
	}, nil
}

// Path returns the file being written.
func (r *Recorder) Path() string {
	return r.path
}

// WriteLayout records the level ep was reset to.
func (r *Recorder) WriteLayout(gameID string, ep *core.Episode) error {
	l := Snapshot(gameID, ep)
	return r.write(Line{Type: TypeHeader, Layout: &l})
}

// WriteStep records the tick that just ran.
func (r *Recorder) WriteStep(ep *core.Episode, action int, sd core.StepData, contacts []int) error {
	agent := ep.Ship().Entity()
	s := Step{
		Tick:     sd.Tick,
		Action:   action,
		Reward:   sd.Reward,
		Done:     sd.Done,
		X:        agent.Pos.X,
		Y:        agent.Pos.Y,
		Rot:      agent.Rot,
		Fuel:     ep.Ship().Fuel.Value(),
		Cargo:    ep.Ship().Cargo.Value(),
		Contacts: contacts,

		Ship:      ep.Obs().Get(core.ObsShip),
		Goals:     ep.Obs().Get(core.ObsGoals),
		Resources: ep.Obs().Get(core.ObsResources),
		Obstacles: ep.Obs().Get(core.ObsObstacles),
	}
	return r.write(Line{Type: TypeStep, Step: &s})
}

// WriteResult records the episode summary.
func (r *Recorder) WriteResult(res registry.Result) error {
	return r.write(Line{Type: TypeResult, Result: &res})
}

func (r *Recorder) write(v Line) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.w == nil {
		return errors.New("recording: closed")
	}

	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := r.w.Write(b); err != nil {
		return err
	}
	return r.w.WriteByte('\n')
}

// Close flushes the stream and closes the file.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	if r.w != nil {
		errs = append(errs, r.w.Flush())
		r.w = nil
	}
	if r.enc != nil {
		errs = append(errs, r.enc.Close())
		r.enc = nil
	}
	if r.f != nil {
		errs = append(errs, r.f.Close())
		r.f = nil
	}
	return errors.Join(errs...)
}

// Read decodes every line of a recording stream.
func Read(src io.Reader) ([]Line, error) {
	dec, err := zstd.NewReader(src)
	if err != nil {
		return nil, fmt.Errorf("recording: %w", err)
	}
	defer dec.Close()

	var lines []Line
	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		var l Line
		if err := json.Unmarshal(sc.Bytes(), &l); err != nil {
			return lines, fmt.Errorf("recording: line %d: %w", len(lines)+1, err)
		}
		lines = append(lines, l)
	}
	if err := sc.Err(); err != nil {
		return lines, fmt.Errorf("recording: %w", err)
	}
	return lines, nil
}

// ReadFile decodes a recording from disk.
func ReadFile(path string) ([]Line, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("recording: %w", err)
	}
	defer f.Close()
	return Read(f)
}
