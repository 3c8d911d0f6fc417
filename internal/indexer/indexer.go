// Package indexer builds the stem dictionary from a pages database.
package indexer

import (
	"context"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/deidaraiorek/deistem/internal/corpus"
	"github.com/deidaraiorek/deistem/internal/storage"
	"github.com/deidaraiorek/deistem/internal/textprocessor"
)

type Config struct {
	Algorithm     string
	CacheSize     int
	BatchSize     int
	TitleWeight   int
	DescWeight    int
	ContentWeight int
}

// DefaultConfig weights titles over descriptions over body text.
func DefaultConfig() Config {
	return Config{
		Algorithm:     "english",
		CacheSize:     10000,
		BatchSize:     1000,
		TitleWeight:   3,
		DescWeight:    2,
		ContentWeight: 1,
	}
}

type Indexer struct {
	pages     *corpus.PageDB
	store     *storage.StemDB
	processor *textprocessor.TextProcessor
	algorithm string
	cfg       Config
	log       *zap.Logger
}

// NewIndexer opens both databases. The caller must Close the indexer.
func NewIndexer(pagesPath, indexPath string, cfg Config, log *zap.Logger) (*Indexer, error) {
	processor, err := textprocessor.NewTextProcessor(cfg.Algorithm, cfg.CacheSize)
	if err != nil {
		return nil, err
	}

	pages, err := corpus.NewPageDB(pagesPath)
	if err != nil {
		return nil, err
	}

	store, err := storage.NewStemDB(indexPath)
	if err != nil {
		pages.Close()
		return nil, err
	}

	return New(pages, store, processor, cfg, log), nil
}

func New(pages *corpus.PageDB, store *storage.StemDB, processor *textprocessor.TextProcessor, cfg Config, log *zap.Logger) *Indexer {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultConfig().BatchSize
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Indexer{
		pages:     pages,
		store:     store,
		processor: processor,
		// Canonical, so that aliases share rows in the stem tables.
		algorithm: processor.Stemmer().Algorithm(),
		cfg:       cfg,
		log:       log,
	}
}

func (idx *Indexer) Close() error {
	pErr := idx.pages.Close()
	sErr := idx.store.Close()
	if pErr != nil {
		return pErr
	}
	return sErr
}

// IndexAll indexes every page after the last indexed one. It stops between
// batches when ctx is cancelled; committed batches stay indexed.
func (idx *Indexer) IndexAll(ctx context.Context) error {
	lastID, err := idx.store.GetLastIndexedPageID()
	if err != nil {
		return errors.Wrap(err, "reading last indexed page")
	}

	total, err := idx.pages.GetTotalPageCount()
	if err != nil {
		return errors.Wrap(err, "counting pages")
	}
	idx.log.Info("indexing started",
		zap.String("algorithm", idx.algorithm),
		zap.Int("resume_after", lastID),
		zap.Int("total_pages", total),
		zap.Int("batch_size", idx.cfg.BatchSize))

	start := time.Now()
	indexed := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		pages, err := idx.pages.GetPagesAfterID(lastID, idx.cfg.BatchSize)
		if err != nil {
			return errors.Wrapf(err, "reading pages after %d", lastID)
		}
		if len(pages) == 0 {
			break
		}

		if err := idx.indexBatch(pages); err != nil {
			return err
		}
		lastID = pages[len(pages)-1].ID
		indexed += len(pages)

		if err := idx.store.SetMetadata("last_indexed_page_id", strconv.Itoa(lastID)); err != nil {
			return errors.Wrap(err, "saving progress")
		}

		stats := idx.processor.Stemmer().Stats()
		idx.log.Info("batch indexed",
			zap.Int("pages", len(pages)),
			zap.Int("last_id", lastID),
			zap.Int("indexed", indexed),
			zap.Uint64("cache_hits", stats.Hits),
			zap.Uint64("cache_misses", stats.Misses),
			zap.Duration("elapsed", time.Since(start)))
	}

	count, err := idx.store.GetIndexedPageCount()
	if err != nil {
		return errors.Wrap(err, "counting indexed pages")
	}
	for key, value := range map[string]string{
		"total_documents":   strconv.Itoa(count),
		"algorithm":         idx.algorithm,
		"indexing_complete": "true",
	} {
		if err := idx.store.SetMetadata(key, value); err != nil {
			return errors.Wrapf(err, "saving %s", key)
		}
	}

	idx.log.Info("indexing finished",
		zap.Int("indexed", indexed),
		zap.Int("total_documents", count),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}

func (idx *Indexer) indexBatch(pages []*corpus.Page) error {
	tx, err := idx.store.BeginTransaction()
	if err != nil {
		return errors.Wrap(err, "beginning batch")
	}
	defer tx.Rollback()

	for _, page := range pages {
		doc := storage.Document{ID: page.ID, URL: page.URL, Algorithm: idx.algorithm}

		// Failed fetches are recorded as indexed with no terms.
		if page.StatusCode >= 200 && page.StatusCode < 300 {
			processed, err := idx.processor.ProcessDocumentWithWeights(
				textprocessor.DocumentFields{
					Title:       page.Title,
					Description: page.Description,
					Content:     page.Content,
				},
				idx.cfg.TitleWeight, idx.cfg.DescWeight, idx.cfg.ContentWeight,
			)
			if err != nil {
				idx.log.Warn("skipping page", zap.Int("id", page.ID), zap.String("url", page.URL), zap.Error(err))
			} else {
				doc.Forms = processed.Forms
				doc.TokenFrequencies = processed.TokenFrequencies
				doc.StemFrequencies = processed.TermFrequencies
				doc.Length = processed.TotalTerms
			}
		}

		if err := idx.store.SaveDocumentInTransaction(tx, doc); err != nil {
			return errors.Wrapf(err, "saving page %d", page.ID)
		}
	}

	return errors.Wrap(tx.Commit(), "committing batch")
}
