// Package bench times batch stemming over word files at several cache sizes.
package bench

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/deidaraiorek/deistem/internal/corpus"
	"github.com/deidaraiorek/deistem/stemmer"
)

type Config struct {
	Algorithm  string
	CacheSizes []int
	Iterations []int
	// Repeat is how many fresh stemmers each measurement is taken with; the
	// fastest one is reported.
	Repeat int
}

func DefaultConfig() Config {
	return Config{
		Algorithm:  "english",
		CacheSizes: []int{0, 1, 10000, 30000},
		Iterations: []int{1, 2, 3, 10},
		Repeat:     5,
	}
}

type Result struct {
	File       string
	Words      int
	CacheSize  int
	Iterations int
	// MinTime is the fastest time for one StemWords call over the file.
	MinTime time.Duration
}

func (r Result) String() string {
	return fmt.Sprintf("'%s':words=%d,cacheSize=%d,iters=%d,mintime=%f",
		r.File, r.Words, r.CacheSize, r.Iterations, r.MinTime.Seconds())
}

// Run benchmarks every file in turn.
func Run(ctx context.Context, cfg Config, files []string, log *zap.Logger) ([]Result, error) {
	if log == nil {
		log = zap.NewNop()
	}

	var results []Result
	for _, file := range files {
		words, err := corpus.ReadWordFile(file)
		if err != nil {
			return nil, err
		}
		log.Info("benchmarking", zap.String("file", file), zap.Int("words", len(words)))

		res, err := RunWords(ctx, cfg, file, words)
		if err != nil {
			return nil, err
		}
		for _, r := range res {
			log.Debug("result",
				zap.String("file", r.File),
				zap.Int("cache_size", r.CacheSize),
				zap.Int("iterations", r.Iterations),
				zap.Duration("min_time", r.MinTime))
		}
		results = append(results, res...)
	}
	return results, nil
}

// RunWords benchmarks one word list, labelling results with name.
func RunWords(ctx context.Context, cfg Config, name string, words []string) ([]Result, error) {
	if cfg.Repeat <= 0 {
		return nil, errors.Errorf("repeat must be positive, got %d", cfg.Repeat)
	}

	var results []Result
	for _, size := range cfg.CacheSizes {
		for _, iters := range cfg.Iterations {
			if iters <= 0 {
				return nil, errors.Errorf("iterations must be positive, got %d", iters)
			}

			var best time.Duration
			for rep := 0; rep < cfg.Repeat; rep++ {
				if err := ctx.Err(); err != nil {
					return nil, err
				}
				d, err := measure(cfg.Algorithm, size, iters, words)
				if err != nil {
					return nil, errors.Wrapf(err, "%s cache=%d", name, size)
				}
				if rep == 0 || d < best {
					best = d
				}
			}

			results = append(results, Result{
				File:       name,
				Words:      len(words),
				CacheSize:  size,
				Iterations: iters,
				MinTime:    best,
			})
		}
	}
	return results, nil
}

// measure returns the mean time of one StemWords call over iters calls on a
// new stemmer, so that later iterations see the cache earlier ones filled.
func measure(algorithm string, cacheSize, iters int, words []string) (time.Duration, error) {
	s, err := stemmer.New(algorithm, stemmer.WithCacheSize(cacheSize))
	if err != nil {
		return 0, err
	}

	start := time.Now()
	for i := 0; i < iters; i++ {
		if _, err := s.StemWords(words); err != nil {
			return 0, err
		}
	}
	return time.Since(start) / time.Duration(iters), nil
}
