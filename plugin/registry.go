// Package plugin holds the pluggable variants for effect, shape, and color
// generation. Three kinds form three independent namespaces; registration
// is additive and happens before the simulation loop starts, so resolution
// on the render path is a cached lookup with no allocation.
package plugin

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/lixenwraith/kaleido/scene"
	"github.com/lixenwraith/kaleido/spectral"
)

// Kind selects a plugin namespace.
type Kind int

const (
	KindEffect Kind = iota
	KindShape
	KindColor
)

func (k Kind) String() string {
	switch k {
	case KindEffect:
		return "effect"
	case KindShape:
		return "shape"
	case KindColor:
		return "color"
	}
	return "unknown"
}

// Descriptor identifies a plugin and its parameter values. Params are the
// only part mutable after registration.
type Descriptor struct {
	Kind   Kind
	Name   string
	Params map[string]float64
}

// Spawn is the shape plugin's contribution to a newly spawned particle.
type Spawn struct {
	SizeScale float64 // multiplier on the base particle size
	Speed     float64 // multiplier on the initial radial speed
	Spin      float64 // initial tangential velocity bias (units/sec)
}

// Shape seeds spawn-time geometry for new particles and names the glyph
// the renderer should draw.
type Shape interface {
	Name() string
	SpawnParams(rng *rand.Rand) Spawn
}

// Color resolves a particle's color from its stable seed, the current
// band intensity, and the pulse level. Implementations must be stateless.
type Color interface {
	Seed(rng *rand.Rand) float64
	At(seed, intensity, pulse float64) scene.Color
}

// Effect perturbs particle velocity each tick. Implementations must be
// stateless so instances can be shared across particles.
type Effect interface {
	Perturb(px, py, pz, vx, vy, vz float64, f spectral.Features, pulse, dt float64) (nvx, nvy, nvz float64)
}

type entry struct {
	desc     Descriptor
	instance any
}

// Registry stores constructed plugin instances per kind. Resolve is a
// non-blocking read-locked lookup suitable for the render tick.
type Registry struct {
	mu      sync.RWMutex
	entries map[Kind]map[string]entry
	order   map[Kind][]string // registration order, first entry is the fallback default
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: map[Kind]map[string]entry{
			KindEffect: {},
			KindShape:  {},
			KindColor:  {},
		},
		order: map[Kind][]string{},
	}
}

// Register constructs the plugin via factory and stores it under the
// descriptor's kind and name. Duplicate names within a kind are rejected.
func (r *Registry) Register(desc Descriptor, factory func() any) error {
	if desc.Name == "" {
		return fmt.Errorf("plugin: empty identifier for kind %s", desc.Kind)
	}
	if factory == nil {
		return fmt.Errorf("plugin: nil factory for %s %q", desc.Kind, desc.Name)
	}

	inst := factory()
	if err := checkKind(desc.Kind, inst); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	kindMap, ok := r.entries[desc.Kind]
	if !ok {
		return fmt.Errorf("plugin: unknown kind %d", desc.Kind)
	}
	if _, exists := kindMap[desc.Name]; exists {
		return fmt.Errorf("plugin: %s %q already registered", desc.Kind, desc.Name)
	}
	kindMap[desc.Name] = entry{desc: desc, instance: inst}
	r.order[desc.Kind] = append(r.order[desc.Kind], desc.Name)
	return nil
}

func checkKind(kind Kind, inst any) error {
	switch kind {
	case KindEffect:
		if _, ok := inst.(Effect); !ok {
			return fmt.Errorf("plugin: instance does not implement Effect")
		}
	case KindShape:
		if _, ok := inst.(Shape); !ok {
			return fmt.Errorf("plugin: instance does not implement Shape")
		}
	case KindColor:
		if _, ok := inst.(Color); !ok {
			return fmt.Errorf("plugin: instance does not implement Color")
		}
	default:
		return fmt.Errorf("plugin: unknown kind %d", kind)
	}
	return nil
}

// Resolve returns the cached instance for an identifier. An unknown
// identifier is a configuration error, never a silent fallback.
func (r *Registry) Resolve(kind Kind, name string) (any, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[kind][name]
	if !ok {
		return nil, fmt.Errorf("plugin: unknown %s %q", kind, name)
	}
	return e.instance, nil
}

// ResolveOrDefault returns the named instance, or the first registered
// entry of the kind as a last-resort default for the renderer collaborator.
func (r *Registry) ResolveOrDefault(kind Kind, name string) (any, error) {
	if inst, err := r.Resolve(kind, name); err == nil {
		return inst, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	names := r.order[kind]
	if len(names) == 0 {
		return nil, fmt.Errorf("plugin: no %s plugins registered", kind)
	}
	return r.entries[kind][names[0]].instance, nil
}

// ResolveShape is a typed convenience over Resolve.
func (r *Registry) ResolveShape(name string) (Shape, error) {
	inst, err := r.Resolve(KindShape, name)
	if err != nil {
		return nil, err
	}
	return inst.(Shape), nil
}

// ResolveColor is a typed convenience over Resolve.
func (r *Registry) ResolveColor(name string) (Color, error) {
	inst, err := r.Resolve(KindColor, name)
	if err != nil {
		return nil, err
	}
	return inst.(Color), nil
}

// ResolveEffect is a typed convenience over Resolve.
func (r *Registry) ResolveEffect(name string) (Effect, error) {
	inst, err := r.Resolve(KindEffect, name)
	if err != nil {
		return nil, err
	}
	return inst.(Effect), nil
}

// Available lists identifiers of a kind in registration order.
func (r *Registry) Available(kind Kind) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.order[kind]))
	copy(names, r.order[kind])
	return names
}

// Describe returns the descriptor for a registered plugin.
func (r *Registry) Describe(kind Kind, name string) (Descriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[kind][name]
	if !ok {
		return Descriptor{}, fmt.Errorf("plugin: unknown %s %q", kind, name)
	}
	return e.desc, nil
}
