// Package stemmer reduces words to their stems with a named algorithm and
// remembers recent results in a bounded cache.
//
// A Stemmer is owned by one goroutine at a time. Callers sharing an instance
// must serialize calls themselves; the cache mutates on every call.
package stemmer

import (
	"github.com/pkg/errors"

	"github.com/deidaraiorek/deistem/algorithm"
	"github.com/deidaraiorek/deistem/internal/cache"
)

// Version of the stemmer API.
const Version = "1.0.0"

// DefaultCacheSize is used when no WithCacheSize option is given.
const DefaultCacheSize = 10000

// ErrInvalidCacheSize is returned for negative cache sizes.
var ErrInvalidCacheSize = errors.New("cache size must not be negative")

type options struct {
	cacheSize int
}

type Option func(*options)

// WithCacheSize bounds the number of cached stems. Zero disables caching.
func WithCacheSize(n int) Option {
	return func(o *options) {
		o.cacheSize = n
	}
}

// Stats counts cache activity since creation or the last Reset.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

type Stemmer struct {
	name   string
	plugin algorithm.Plugin
	cache  *cache.FIFO
	stats  Stats
}

// Algorithms lists the canonical names of the bundled algorithms.
func Algorithms() []string {
	return algorithm.Default().Algorithms()
}

// New returns a stemmer for a bundled algorithm.
func New(name string, opts ...Option) (*Stemmer, error) {
	return NewWithRegistry(algorithm.Default(), name, opts...)
}

// NewWithRegistry returns a stemmer for an algorithm registered in reg.
func NewWithRegistry(reg *algorithm.Registry, name string, opts ...Option) (*Stemmer, error) {
	o := options{cacheSize: DefaultCacheSize}
	for _, opt := range opts {
		opt(&o)
	}
	if o.cacheSize < 0 {
		return nil, errors.Wrapf(ErrInvalidCacheSize, "got %d", o.cacheSize)
	}

	plugin, err := reg.Resolve(name)
	if err != nil {
		return nil, err
	}

	s := &Stemmer{name: name, plugin: plugin}
	if o.cacheSize > 0 {
		s.cache = cache.NewFIFO(o.cacheSize)
	}
	return s, nil
}

// Algorithm returns the name the stemmer was created with.
func (s *Stemmer) Algorithm() string { return s.name }

// CacheSize returns the cache capacity; zero means caching is off.
func (s *Stemmer) CacheSize() int {
	if s.cache == nil {
		return 0
	}
	return s.cache.Cap()
}

// Len returns the number of cached stems.
func (s *Stemmer) Len() int {
	if s.cache == nil {
		return 0
	}
	return s.cache.Len()
}

func (s *Stemmer) Stats() Stats { return s.stats }

// Reset empties the cache and zeroes the stats.
func (s *Stemmer) Reset() {
	if s.cache != nil {
		s.cache.Clear()
	}
	s.stats = Stats{}
}

// StemWord returns the stem of word. Plugin errors are returned as is and
// leave the cache untouched.
func (s *Stemmer) StemWord(word string) (string, error) {
	if s.cache != nil {
		if stem, ok := s.cache.Get(word); ok {
			s.stats.Hits++
			return stem, nil
		}
	}

	stem, err := s.plugin.Stem(word)
	if err != nil {
		return "", err
	}
	s.stats.Misses++

	if s.cache != nil && s.cache.Add(word, stem) {
		s.stats.Evictions++
	}
	return stem, nil
}

// StemWords stems each word in order. Later duplicates are served from cache
// entries added earlier in the same call. If any word fails, the cache and
// stats are restored to their state before the call.
func (s *Stemmer) StemWords(words []string) ([]string, error) {
	before := s.stats
	if s.cache != nil {
		s.cache.Begin()
	}

	out := make([]string, len(words))
	for i, w := range words {
		stem, err := s.StemWord(w)
		if err != nil {
			if s.cache != nil {
				s.cache.Rollback()
			}
			s.stats = before
			return nil, err
		}
		out[i] = stem
	}

	if s.cache != nil {
		s.cache.Commit()
	}
	return out, nil
}
