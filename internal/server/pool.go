package server

import (
	"sort"
	"sync"

	"github.com/deidaraiorek/deistem/algorithm"
	"github.com/deidaraiorek/deistem/stemmer"
)

// Pool hands out one stemmer per canonical algorithm. Stemmers are created on
// first use and each one is serialized by its own lock.
type Pool struct {
	cacheSize int

	mu       sync.Mutex
	stemmers map[string]*pooled
}

type pooled struct {
	mu sync.Mutex
	s  *stemmer.Stemmer
}

func NewPool(cacheSize int) *Pool {
	return &Pool{
		cacheSize: cacheSize,
		stemmers:  make(map[string]*pooled),
	}
}

func (p *Pool) get(name string) (*pooled, string, error) {
	canonical, err := algorithm.Default().Canonical(name)
	if err != nil {
		return nil, "", err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if ps, ok := p.stemmers[canonical]; ok {
		return ps, canonical, nil
	}
	s, err := stemmer.New(canonical, stemmer.WithCacheSize(p.cacheSize))
	if err != nil {
		return nil, "", err
	}
	ps := &pooled{s: s}
	p.stemmers[canonical] = ps
	return ps, canonical, nil
}

// StemWords stems words with the named algorithm and returns the canonical
// algorithm name alongside the stems.
func (p *Pool) StemWords(name string, words []string) (string, []string, error) {
	ps, canonical, err := p.get(name)
	if err != nil {
		return "", nil, err
	}

	ps.mu.Lock()
	defer ps.mu.Unlock()
	stems, err := ps.s.StemWords(words)
	return canonical, stems, err
}

// StemWord is StemWords for a single word.
func (p *Pool) StemWord(name, word string) (string, string, error) {
	ps, canonical, err := p.get(name)
	if err != nil {
		return "", "", err
	}

	ps.mu.Lock()
	defer ps.mu.Unlock()
	stem, err := ps.s.StemWord(word)
	return canonical, stem, err
}

// AlgorithmStats is a snapshot of one pooled stemmer.
type AlgorithmStats struct {
	Algorithm string
	Len       int
	stemmer.Stats
}

// Stats returns a snapshot for every stemmer created so far, sorted by name.
func (p *Pool) Stats() []AlgorithmStats {
	p.mu.Lock()
	pooledList := make([]*pooled, 0, len(p.stemmers))
	for _, ps := range p.stemmers {
		pooledList = append(pooledList, ps)
	}
	p.mu.Unlock()

	out := make([]AlgorithmStats, 0, len(pooledList))
	for _, ps := range pooledList {
		ps.mu.Lock()
		out = append(out, AlgorithmStats{
			Algorithm: ps.s.Algorithm(),
			Len:       ps.s.Len(),
			Stats:     ps.s.Stats(),
		})
		ps.mu.Unlock()
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Algorithm < out[j].Algorithm })
	return out
}
