// Package cosmology owns the life cycle of one cosmology: raw inputs
// are validated, merged over the fiducial defaults and compiled into a
// canonical parameter set at construction, and a computation backend
// may then be attached by name.
package cosmology

import (
	"github.com/san-kum/cosmolab/internal/background"
	"github.com/san-kum/cosmolab/internal/engine"
	"github.com/san-kum/cosmolab/internal/params"
)

// Cosmology is an immutable compiled parameter set plus, optionally, an
// attached computation backend. Compilation happens once, in New;
// Clone derives a new Cosmology rather than mutating this one.
type Cosmology struct {
	raw      map[string]any
	params   *params.Params
	registry *engine.Registry
	engine   engine.Engine
}

// New validates raw inputs for conflicts, merges them over the
// defaults (inputs win on a conflict-group basis) and compiles the
// canonical parameter set. No backend is attached yet.
func New(raw map[string]any) (*Cosmology, error) {
	if err := params.Check(raw); err != nil {
		return nil, err
	}
	merged := params.Merge(params.Defaults(), raw)
	p, err := params.Compile(merged)
	if err != nil {
		return nil, err
	}
	return &Cosmology{
		raw:      merged,
		params:   p,
		registry: engine.NewRegistry(),
	}, nil
}

// Clone compiles a new Cosmology with overrides merged over this one's
// inputs; overrides win over the base on a conflict-group basis. The
// receiver is left untouched and no backend carries over.
func (c *Cosmology) Clone(overrides map[string]any) (*Cosmology, error) {
	if err := params.Check(overrides); err != nil {
		return nil, err
	}
	return New(params.Merge(c.raw, overrides))
}

// Params returns the compiled canonical parameter set.
func (c *Cosmology) Params() *params.Params { return c.params }

// Engine returns the attached backend, or nil.
func (c *Cosmology) Engine() engine.Engine { return c.engine }

// Engines lists the backend names that can be attached.
func (c *Cosmology) Engines() []string { return c.registry.List() }

// SetEngine attaches the named backend with its extra configuration,
// replacing any previous one.
func (c *Cosmology) SetEngine(name string, extra map[string]any) error {
	eng, err := c.registry.Get(name, c.params, extra)
	if err != nil {
		return err
	}
	c.engine = eng
	return nil
}

// Background returns the expansion-history calculations of the
// attached backend, attaching the analytic one first if none is set.
func (c *Cosmology) Background() (*background.Background, error) {
	if c.engine == nil {
		if err := c.SetEngine("analytic", nil); err != nil {
			return nil, err
		}
	}
	return c.engine.Background()
}

// State captures everything needed to reconstruct a Cosmology: the
// canonical parameter mapping and, when a backend is attached, its
// name and extra configuration.
type State struct {
	Params map[string]any `json:"params"`
	Engine *EngineState   `json:"engine,omitempty"`
}

// EngineState records an attached backend.
type EngineState struct {
	Name  string         `json:"name"`
	Extra map[string]any `json:"extra,omitempty"`
}

// State returns the persistable snapshot of this cosmology.
func (c *Cosmology) State() *State {
	s := &State{Params: c.params.Map()}
	if c.engine != nil {
		s.Engine = &EngineState{Name: c.engine.Name(), Extra: c.engine.ExtraParams()}
	}
	return s
}

// FromState recompiles a Cosmology from a snapshot and re-attaches the
// recorded backend, if any. Compiling a canonical mapping is
// idempotent, so the result is equivalent to the snapshotted one.
func FromState(s *State) (*Cosmology, error) {
	c, err := New(s.Params)
	if err != nil {
		return nil, err
	}
	if s.Engine != nil {
		if err := c.SetEngine(s.Engine.Name, s.Engine.Extra); err != nil {
			return nil, err
		}
	}
	return c, nil
}
