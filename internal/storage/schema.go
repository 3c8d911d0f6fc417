package storage

const Schema = `
-- Stems per algorithm with corpus-wide counts
CREATE TABLE IF NOT EXISTS stems (
    stem_id INTEGER PRIMARY KEY AUTOINCREMENT,
    stem TEXT NOT NULL,
    algorithm TEXT NOT NULL,
    document_frequency INTEGER DEFAULT 0,
    frequency INTEGER DEFAULT 0,
    UNIQUE (stem, algorithm)
);
CREATE INDEX IF NOT EXISTS idx_stems_frequency ON stems(algorithm, frequency DESC);

-- Surface forms: every distinct token seen and the stem it reduced to
CREATE TABLE IF NOT EXISTS terms (
    term TEXT NOT NULL,
    algorithm TEXT NOT NULL,
    stem_id INTEGER NOT NULL,
    frequency INTEGER DEFAULT 0,
    PRIMARY KEY (term, algorithm),
    FOREIGN KEY (stem_id) REFERENCES stems(stem_id)
);
CREATE INDEX IF NOT EXISTS idx_terms_stem ON terms(stem_id);

-- Postings: stem occurrences per indexed page
CREATE TABLE IF NOT EXISTS postings (
    stem_id INTEGER NOT NULL,
    doc_id INTEGER NOT NULL,
    term_frequency INTEGER NOT NULL,
    PRIMARY KEY (stem_id, doc_id),
    FOREIGN KEY (stem_id) REFERENCES stems(stem_id),
    FOREIGN KEY (doc_id) REFERENCES indexed_pages(doc_id)
);
CREATE INDEX IF NOT EXISTS idx_postings_doc ON postings(doc_id);

CREATE TABLE IF NOT EXISTS doc_stats (
    doc_id INTEGER PRIMARY KEY,
    doc_length INTEGER NOT NULL,      -- weighted number of terms
    unique_terms INTEGER NOT NULL,    -- number of distinct stems
    indexed_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (doc_id) REFERENCES indexed_pages(doc_id)
);

-- Pages already processed, so indexing can resume
CREATE TABLE IF NOT EXISTS indexed_pages (
    doc_id INTEGER PRIMARY KEY,       -- references pages.id in the pages DB
    source_url TEXT NOT NULL,
    indexed_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS index_metadata (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

INSERT OR IGNORE INTO index_metadata (key, value) VALUES
    ('total_documents', '0'),
    ('last_indexed_page_id', '0'),
    ('index_version', '1'),
    ('indexing_complete', 'false');
`
