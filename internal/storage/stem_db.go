// Package storage persists the stem dictionary built by the indexer.
package storage

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned by lookups that match no row.
var ErrNotFound = errors.New("not found")

// Document is one indexed page: its surface tokens, the stems they reduced
// to and the (weighted) counts of both.
type Document struct {
	ID               int
	URL              string
	Algorithm        string
	Forms            map[string]string
	TokenFrequencies map[string]int
	StemFrequencies  map[string]int
	Length           int
}

type StemCount struct {
	Stem              string
	Frequency         int
	DocumentFrequency int
}

type StemDB struct {
	db *sql.DB
}

func NewStemDB(dbPath string) (*StemDB, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open stem database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	stemDB := &StemDB{db: db}
	if err := stemDB.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return stemDB, nil
}

func (sdb *StemDB) initSchema() error {
	_, err := sdb.db.Exec(Schema)
	return err
}

func (sdb *StemDB) Close() error {
	return sdb.db.Close()
}

func (sdb *StemDB) IsPageIndexed(pageID int) (bool, error) {
	var exists bool
	err := sdb.db.QueryRow(
		"SELECT EXISTS(SELECT 1 FROM indexed_pages WHERE doc_id = ?)",
		pageID,
	).Scan(&exists)
	return exists, err
}

func (sdb *StemDB) GetLastIndexedPageID() (int, error) {
	var lastID int
	err := sdb.db.QueryRow(
		"SELECT COALESCE(MAX(doc_id), 0) FROM indexed_pages",
	).Scan(&lastID)
	return lastID, err
}

func (sdb *StemDB) GetIndexedPageCount() (int, error) {
	var count int
	err := sdb.db.QueryRow("SELECT COUNT(*) FROM indexed_pages").Scan(&count)
	return count, err
}

func (sdb *StemDB) BeginTransaction() (*sql.Tx, error) {
	return sdb.db.Begin()
}

func (sdb *StemDB) SetMetadata(key, value string) error {
	_, err := sdb.db.Exec(
		"INSERT OR REPLACE INTO index_metadata (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)",
		key, value,
	)
	return err
}

func (sdb *StemDB) GetMetadata(key string) (string, error) {
	var value string
	err := sdb.db.QueryRow(
		"SELECT value FROM index_metadata WHERE key = ?",
		key,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("metadata %q: %w", key, ErrNotFound)
	}
	return value, err
}

// LookupStem returns the stem recorded for term under algorithm.
func (sdb *StemDB) LookupStem(term, algorithm string) (string, error) {
	var stem string
	err := sdb.db.QueryRow(`
		SELECT s.stem FROM terms t
		JOIN stems s ON s.stem_id = t.stem_id
		WHERE t.term = ? AND t.algorithm = ?`,
		term, algorithm,
	).Scan(&stem)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("term %q (%s): %w", term, algorithm, ErrNotFound)
	}
	return stem, err
}

// TermsForStem lists the surface forms that reduced to stem, most frequent
// first.
func (sdb *StemDB) TermsForStem(stem, algorithm string) ([]string, error) {
	rows, err := sdb.db.Query(`
		SELECT t.term FROM terms t
		JOIN stems s ON s.stem_id = t.stem_id
		WHERE s.stem = ? AND s.algorithm = ?
		ORDER BY t.frequency DESC, t.term`,
		stem, algorithm,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var terms []string
	for rows.Next() {
		var term string
		if err := rows.Scan(&term); err != nil {
			return nil, err
		}
		terms = append(terms, term)
	}
	return terms, rows.Err()
}

// TopStems returns the most frequent stems of an algorithm.
func (sdb *StemDB) TopStems(algorithm string, limit int) ([]StemCount, error) {
	rows, err := sdb.db.Query(`
		SELECT stem, frequency, document_frequency FROM stems
		WHERE algorithm = ?
		ORDER BY frequency DESC, stem
		LIMIT ?`,
		algorithm, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stems []StemCount
	for rows.Next() {
		var sc StemCount
		if err := rows.Scan(&sc.Stem, &sc.Frequency, &sc.DocumentFrequency); err != nil {
			return nil, err
		}
		stems = append(stems, sc)
	}
	return stems, rows.Err()
}

// SaveDocumentInTransaction records doc and folds its counts into the stem
// and term tables. Pages already indexed are left alone.
func (sdb *StemDB) SaveDocumentInTransaction(tx *sql.Tx, doc Document) error {
	result, err := tx.Exec(
		"INSERT OR IGNORE INTO indexed_pages (doc_id, source_url) VALUES (?, ?)",
		doc.ID, doc.URL,
	)
	if err != nil {
		return fmt.Errorf("failed to mark page as indexed: %w", err)
	}
	if n, err := result.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return nil
	}

	_, err = tx.Exec(
		"INSERT OR REPLACE INTO doc_stats (doc_id, doc_length, unique_terms) VALUES (?, ?, ?)",
		doc.ID, doc.Length, len(doc.StemFrequencies),
	)
	if err != nil {
		return fmt.Errorf("failed to save doc stats: %w", err)
	}

	upsertStemStmt, err := tx.Prepare(`
		INSERT INTO stems (stem, algorithm, document_frequency, frequency) VALUES (?, ?, 1, ?)
		ON CONFLICT(stem, algorithm) DO UPDATE SET
			document_frequency = document_frequency + 1,
			frequency = frequency + excluded.frequency`)
	if err != nil {
		return err
	}
	defer upsertStemStmt.Close()

	getStemStmt, err := tx.Prepare("SELECT stem_id FROM stems WHERE stem = ? AND algorithm = ?")
	if err != nil {
		return err
	}
	defer getStemStmt.Close()

	upsertTermStmt, err := tx.Prepare(`
		INSERT INTO terms (term, algorithm, stem_id, frequency) VALUES (?, ?, ?, ?)
		ON CONFLICT(term, algorithm) DO UPDATE SET frequency = frequency + excluded.frequency`)
	if err != nil {
		return err
	}
	defer upsertTermStmt.Close()

	insertPostingStmt, err := tx.Prepare("INSERT OR REPLACE INTO postings (stem_id, doc_id, term_frequency) VALUES (?, ?, ?)")
	if err != nil {
		return err
	}
	defer insertPostingStmt.Close()

	stemIDs := make(map[string]int64, len(doc.StemFrequencies))
	for stem, freq := range doc.StemFrequencies {
		if _, err := upsertStemStmt.Exec(stem, doc.Algorithm, freq); err != nil {
			return fmt.Errorf("failed to upsert stem %q: %w", stem, err)
		}

		var stemID int64
		if err := getStemStmt.QueryRow(stem, doc.Algorithm).Scan(&stemID); err != nil {
			return fmt.Errorf("failed to query stem %q: %w", stem, err)
		}
		stemIDs[stem] = stemID

		if _, err := insertPostingStmt.Exec(stemID, doc.ID, freq); err != nil {
			return fmt.Errorf("failed to insert posting for stem %q: %w", stem, err)
		}
	}

	for term, stem := range doc.Forms {
		stemID, ok := stemIDs[stem]
		if !ok {
			return fmt.Errorf("term %q maps to stem %q with no frequency", term, stem)
		}
		if _, err := upsertTermStmt.Exec(term, doc.Algorithm, stemID, doc.TokenFrequencies[term]); err != nil {
			return fmt.Errorf("failed to upsert term %q: %w", term, err)
		}
	}

	return nil
}
