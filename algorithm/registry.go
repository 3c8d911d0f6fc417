// Package algorithm resolves algorithm names to stemming implementations.
//
// A Registry is built once and never mutated afterwards, so it can be shared
// between goroutines without locking.
package algorithm

import (
	"sort"

	"github.com/pkg/errors"
)

var (
	// ErrUnknownAlgorithm is returned when a name has no registered plugin.
	ErrUnknownAlgorithm = errors.New("unknown stemming algorithm")
	// ErrMalformedInput is returned by plugins for text they cannot decode.
	ErrMalformedInput = errors.New("malformed input")
)

// Plugin stems a single word. Implementations must be deterministic and must
// not share mutable state between calls.
type Plugin interface {
	Stem(word string) (string, error)
}

// Func adapts an ordinary function to the Plugin interface.
type Func func(word string) (string, error)

func (f Func) Stem(word string) (string, error) {
	return f(word)
}

// Entry registers a plugin under a canonical name and any number of aliases.
type Entry struct {
	Name    string
	Aliases []string
	Plugin  Plugin
}

type Registry struct {
	plugins    map[string]Plugin
	canonical  map[string]string
	algorithms []string
	names      []string
}

// NewRegistry builds an immutable registry. Every name and alias must be
// non-empty and unique across all entries.
func NewRegistry(entries ...Entry) (*Registry, error) {
	r := &Registry{
		plugins:   make(map[string]Plugin),
		canonical: make(map[string]string),
	}

	for _, e := range entries {
		if e.Name == "" {
			return nil, errors.New("algorithm entry without a name")
		}
		if e.Plugin == nil {
			return nil, errors.Errorf("algorithm %q has no plugin", e.Name)
		}

		for _, name := range append([]string{e.Name}, e.Aliases...) {
			if name == "" {
				return nil, errors.Errorf("algorithm %q has an empty alias", e.Name)
			}
			if _, dup := r.plugins[name]; dup {
				return nil, errors.Errorf("algorithm name %q registered twice", name)
			}
			r.plugins[name] = e.Plugin
			r.canonical[name] = e.Name
			r.names = append(r.names, name)
		}
		r.algorithms = append(r.algorithms, e.Name)
	}

	sort.Strings(r.algorithms)
	sort.Strings(r.names)
	return r, nil
}

// Algorithms returns the canonical algorithm names in sorted order.
func (r *Registry) Algorithms() []string {
	out := make([]string, len(r.algorithms))
	copy(out, r.algorithms)
	return out
}

// Names returns every registered name, aliases included, in sorted order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Resolve looks name up by exact string equality.
func (r *Registry) Resolve(name string) (Plugin, error) {
	p, ok := r.plugins[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownAlgorithm, "%q", name)
	}
	return p, nil
}

// Canonical returns the canonical name that name is registered under.
func (r *Registry) Canonical(name string) (string, error) {
	c, ok := r.canonical[name]
	if !ok {
		return "", errors.Wrapf(ErrUnknownAlgorithm, "%q", name)
	}
	return c, nil
}
