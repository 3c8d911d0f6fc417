// Package corpus reads the documents the indexer and benchmarks consume.
package corpus

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// PagesSchema matches the crawler's pages table so that an existing crawl
// database can be indexed directly.
const PagesSchema = `
CREATE TABLE IF NOT EXISTS pages (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	url TEXT UNIQUE NOT NULL,
	title TEXT,
	description TEXT,
	content TEXT,
	status_code INTEGER,
	crawled_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_pages_url ON pages(url);
`

type Page struct {
	ID          int
	URL         string
	Title       string
	Description string
	Content     string
	StatusCode  int
}

type PageDB struct {
	db *sql.DB
}

// NewPageDB opens a pages database, creating the table if it is missing.
func NewPageDB(dbPath string) (*PageDB, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open pages database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if _, err := db.Exec(PagesSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create pages schema: %w", err)
	}

	return &PageDB{db: db}, nil
}

func (pdb *PageDB) Close() error {
	return pdb.db.Close()
}

// SavePage inserts a page or replaces the one stored under the same URL and
// returns its id.
func (pdb *PageDB) SavePage(page *Page) (int, error) {
	_, err := pdb.db.Exec(`
		INSERT INTO pages (url, title, description, content, status_code, crawled_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			content = excluded.content,
			status_code = excluded.status_code,
			crawled_at = excluded.crawled_at
	`, page.URL, page.Title, page.Description, page.Content, page.StatusCode, time.Now())
	if err != nil {
		return 0, err
	}

	var id int
	err = pdb.db.QueryRow("SELECT id FROM pages WHERE url = ?", page.URL).Scan(&id)
	return id, err
}

func (pdb *PageDB) GetPageByID(id int) (*Page, error) {
	page := &Page{}
	err := pdb.db.QueryRow(
		`SELECT id, url, COALESCE(title, ''), COALESCE(description, ''), COALESCE(content, ''),
		        COALESCE(status_code, 0)
		 FROM pages WHERE id = ?`,
		id,
	).Scan(&page.ID, &page.URL, &page.Title, &page.Description, &page.Content, &page.StatusCode)

	if err != nil {
		return nil, err
	}
	return page, nil
}

func (pdb *PageDB) GetPagesAfterID(afterID int, limit int) ([]*Page, error) {
	rows, err := pdb.db.Query(
		`SELECT id, url, COALESCE(title, ''), COALESCE(description, ''), COALESCE(content, ''),
		        COALESCE(status_code, 0)
		 FROM pages WHERE id > ? ORDER BY id LIMIT ?`,
		afterID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []*Page
	for rows.Next() {
		page := &Page{}
		err := rows.Scan(&page.ID, &page.URL, &page.Title, &page.Description, &page.Content, &page.StatusCode)
		if err != nil {
			return nil, err
		}
		pages = append(pages, page)
	}

	return pages, rows.Err()
}

func (pdb *PageDB) GetTotalPageCount() (int, error) {
	var count int
	err := pdb.db.QueryRow("SELECT COUNT(*) FROM pages").Scan(&count)
	return count, err
}
