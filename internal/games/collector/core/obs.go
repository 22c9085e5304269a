package core

import (
	"fmt"
	"sort"
)

// Observation buffer names.
const (
	ObsShip           = "state_ship"
	ObsGoals          = "state_goals"
	ObsResources      = "state_resources"
	ObsObstacles      = "state_obstacles"
	InfoLevelComplete = "level_complete"
)

// Per-entity widths of the state vectors.
const (
	GoalStateSize     = 4
	ResourceStateSize = 4
	ObstacleStateSize = 3
)

// BufferSpec describes one declared buffer.
type BufferSpec struct {
	Name string
	Size int
}

// ObsBuffers holds named float observation and byte info buffers. Sizes are
// declared up front; hosts may bind their own memory, and writes to unbound
// buffers only update the internal copy.
type ObsBuffers struct {
	sizes     map[string]int
	obs       map[string][]float32
	info      map[string][]uint8
	boundObs  map[string][]float32
	boundInfo map[string][]uint8
}

// NewObsBuffers creates an empty registry.
func NewObsBuffers() *ObsBuffers {
	return &ObsBuffers{
		sizes:     make(map[string]int),
		obs:       make(map[string][]float32),
		info:      make(map[string][]uint8),
		boundObs:  make(map[string][]float32),
		boundInfo: make(map[string][]uint8),
	}
}

// Register declares a float buffer of size elements.
func (b *ObsBuffers) Register(name string, size int) {
	b.sizes[name] = size
	b.obs[name] = make([]float32, size)
}

// RegisterInfo declares a byte info buffer of size elements.
func (b *ObsBuffers) RegisterInfo(name string, size int) {
	b.sizes[name] = size
	b.info[name] = make([]uint8, size)
}

// Specs lists the declared float buffers sorted by name.
func (b *ObsBuffers) Specs() []BufferSpec {
	out := make([]BufferSpec, 0, len(b.obs))
	for name := range b.obs {
		out = append(out, BufferSpec{Name: name, Size: b.sizes[name]})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Bind attaches external memory to a declared float buffer.
func (b *ObsBuffers) Bind(name string, dst []float32) error {
	if _, ok := b.obs[name]; !ok {
		return fmt.Errorf("obs: unknown buffer %q", name)
	}
	b.boundObs[name] = dst
	return nil
}

// BindInfo attaches external memory to a declared info buffer.
func (b *ObsBuffers) BindInfo(name string, dst []uint8) error {
	if _, ok := b.info[name]; !ok {
		return fmt.Errorf("obs: unknown info buffer %q", name)
	}
	b.boundInfo[name] = dst
	return nil
}

// Write stores src into the named buffer and copies it to bound memory.
// Copies are truncated to the shorter of source and destination.
func (b *ObsBuffers) Write(name string, src []float32) {
	buf, ok := b.obs[name]
	if !ok {
		return
	}
	clear(buf)
	copy(buf, src)
	if dst, ok := b.boundObs[name]; ok {
		clear(dst)
		copy(dst, src)
	}
}

// WriteInfo stores src into the named info buffer and copies it to bound memory.
func (b *ObsBuffers) WriteInfo(name string, src []uint8) {
	buf, ok := b.info[name]
	if !ok {
		return
	}
	clear(buf)
	copy(buf, src)
	if dst, ok := b.boundInfo[name]; ok {
		clear(dst)
		copy(dst, src)
	}
}

// Get returns the internal copy of a float buffer.
func (b *ObsBuffers) Get(name string) []float32 {
	return b.obs[name]
}

// GetInfo returns the internal copy of an info buffer.
func (b *ObsBuffers) GetInfo(name string) []uint8 {
	return b.info[name]
}
