package runner

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/mkrastev/veridict/internal/judge"
)

// Registry maps judge names to ready-to-run pipelines so the API, stream
// and MCP surfaces can resolve one by name.
type Registry struct {
	runners map[string]*Runner
	def     string
}

// NewRegistry wires the given runners directly. The default name must be a
// key of the map.
func NewRegistry(runners map[string]*Runner, defaultName string) *Registry {
	return &Registry{runners: runners, def: defaultName}
}

// FromFactory builds one runner per registered judge.
func FromFactory(factory *judge.Factory, workers int, timeout time.Duration, logger *zerolog.Logger) *Registry {
	runners := make(map[string]*Runner, len(factory.Names()))
	for _, name := range factory.Names() {
		entry, err := factory.Get(name)
		if err != nil {
			continue
		}
		runners[name] = New(entry.Judge, entry.Mapper, workers, timeout, logger)
	}
	return NewRegistry(runners, factory.Default())
}

// Resolve returns the pipeline for the named judge. An empty name resolves
// to the default judge.
func (r *Registry) Resolve(judgeName string) (*Runner, error) {
	if judgeName == "" {
		judgeName = r.def
	}
	pipeline, ok := r.runners[judgeName]
	if !ok {
		return nil, fmt.Errorf("%w: %s", judge.ErrJudgeNotFound, judgeName)
	}
	return pipeline, nil
}

// Default returns the name of the default judge.
func (r *Registry) Default() string {
	return r.def
}

// Names lists every registered judge.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.runners))
	for name := range r.runners {
		names = append(names, name)
	}
	return names
}
