// Package engine attaches computation backends to a compiled parameter
// set. A backend is looked up by name in a statically constructed
// registry and exposes background-expansion calculations through an
// explicit capability interface.
package engine

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/san-kum/cosmolab/internal/background"
	"github.com/san-kum/cosmolab/internal/params"
)

// Engine is one computation backend bound to a compiled cosmology.
type Engine interface {
	// Name is the registry name the engine was created under.
	Name() string
	// ExtraParams returns the backend-specific configuration the
	// engine was created with.
	ExtraParams() map[string]any
	// Background returns the expansion-history calculations.
	Background() (*background.Background, error)
}

// Factory builds an engine from compiled parameters and
// backend-specific extra configuration.
type Factory func(p *params.Params, extra map[string]any) (Engine, error)

// Registry maps backend names to factories.
type Registry struct {
	engines map[string]Factory
}

// NewRegistry returns a registry with the built-in backends: "analytic"
// solves the Friedmann equation over the compiled fractions,
// "tabulated" interpolates E(z) from an ASCII file named by the
// "filename" extra parameter.
func NewRegistry() *Registry {
	r := &Registry{engines: make(map[string]Factory)}

	r.engines["analytic"] = func(p *params.Params, extra map[string]any) (Engine, error) {
		bg, err := background.NewAnalytic(p)
		if err != nil {
			return nil, err
		}
		return &analytic{bg: bg, extra: extra}, nil
	}
	r.engines["tabulated"] = func(p *params.Params, extra map[string]any) (Engine, error) {
		filename, _ := extra["filename"].(string)
		if filename == "" {
			return nil, fmt.Errorf("engine: tabulated backend needs a \"filename\" extra parameter")
		}
		zs, efuncs, err := readTable(filename)
		if err != nil {
			return nil, err
		}
		bg, err := background.NewTabulated(p, zs, efuncs)
		if err != nil {
			return nil, err
		}
		return &tabulated{bg: bg, extra: extra}, nil
	}

	return r
}

// Get builds the named engine.
func (r *Registry) Get(name string, p *params.Params, extra map[string]any) (Engine, error) {
	fn, ok := r.engines[name]
	if !ok {
		return nil, fmt.Errorf("unknown engine: %s (available: %s)", name, strings.Join(r.List(), ", "))
	}
	return fn(p, extra)
}

// List returns the registered backend names, sorted.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.engines))
	for name := range r.engines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type analytic struct {
	bg    *background.Background
	extra map[string]any
}

func (e *analytic) Name() string                { return "analytic" }
func (e *analytic) ExtraParams() map[string]any { return e.extra }
func (e *analytic) Background() (*background.Background, error) {
	return e.bg, nil
}

type tabulated struct {
	bg    *background.Background
	extra map[string]any
}

func (e *tabulated) Name() string                { return "tabulated" }
func (e *tabulated) ExtraParams() map[string]any { return e.extra }
func (e *tabulated) Background() (*background.Background, error) {
	return e.bg, nil
}

// readTable parses a whitespace-separated ASCII table of z and E(z)
// columns; '#' starts a comment.
func readTable(filename string) (zs, efuncs []float64, err error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, nil, fmt.Errorf("engine: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}
		if len(fields) < 2 {
			return nil, nil, fmt.Errorf("engine: %s:%d: expected at least 2 columns, got %d", filename, line, len(fields))
		}
		z, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("engine: %s:%d: %w", filename, line, err)
		}
		e, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("engine: %s:%d: %w", filename, line, err)
		}
		zs = append(zs, z)
		efuncs = append(efuncs, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("engine: %w", err)
	}
	return zs, efuncs, nil
}
