package storage_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/deidaraiorek/deistem/internal/storage"
)

func newStemDB(t *testing.T) *storage.StemDB {
	t.Helper()
	db, err := storage.NewStemDB(filepath.Join(t.TempDir(), "stems.db"))
	if err != nil {
		t.Fatalf("Failed to create stem DB: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func saveDocument(t *testing.T, db *storage.StemDB, doc storage.Document) {
	t.Helper()
	tx, err := db.BeginTransaction()
	if err != nil {
		t.Fatalf("Failed to begin transaction: %v", err)
	}
	if err := db.SaveDocumentInTransaction(tx, doc); err != nil {
		tx.Rollback()
		t.Fatalf("Failed to save document: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("Failed to commit transaction: %v", err)
	}
}

func cyclingDoc(id int) storage.Document {
	return storage.Document{
		ID:        id,
		URL:       "https://example.com/cycling",
		Algorithm: "english",
		Forms: map[string]string{
			"cycling": "cycl",
			"cycles":  "cycl",
			"cyclist": "cyclist",
		},
		TokenFrequencies: map[string]int{"cycling": 2, "cycles": 1, "cyclist": 1},
		StemFrequencies:  map[string]int{"cycl": 3, "cyclist": 1},
		Length:           4,
	}
}

func TestNewStemDB(t *testing.T) {
	db := newStemDB(t)

	count, err := db.GetIndexedPageCount()
	if err != nil {
		t.Fatalf("Failed to get indexed page count: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected 0 indexed pages, got %d", count)
	}
}

func TestSaveDocumentInTransaction(t *testing.T) {
	db := newStemDB(t)
	saveDocument(t, db, cyclingDoc(1))

	indexed, err := db.IsPageIndexed(1)
	if err != nil {
		t.Fatalf("Failed to check if page is indexed: %v", err)
	}
	if !indexed {
		t.Error("Expected page to be indexed")
	}

	stem, err := db.LookupStem("cycling", "english")
	if err != nil {
		t.Fatalf("LookupStem failed: %v", err)
	}
	if stem != "cycl" {
		t.Errorf("LookupStem(cycling) = %q, want %q", stem, "cycl")
	}

	terms, err := db.TermsForStem("cycl", "english")
	if err != nil {
		t.Fatalf("TermsForStem failed: %v", err)
	}
	if len(terms) != 2 || terms[0] != "cycling" || terms[1] != "cycles" {
		t.Errorf("TermsForStem(cycl) = %v, want [cycling cycles]", terms)
	}
}

func TestSaveDocumentAccumulates(t *testing.T) {
	db := newStemDB(t)
	saveDocument(t, db, cyclingDoc(1))
	saveDocument(t, db, cyclingDoc(2))
	// Saving an indexed page again must not double count.
	saveDocument(t, db, cyclingDoc(2))

	top, err := db.TopStems("english", 10)
	if err != nil {
		t.Fatalf("TopStems failed: %v", err)
	}
	if len(top) != 2 {
		t.Fatalf("Expected 2 stems, got %d", len(top))
	}
	if top[0].Stem != "cycl" || top[0].Frequency != 6 || top[0].DocumentFrequency != 2 {
		t.Errorf("Unexpected top stem: %+v", top[0])
	}
	if top[1].Stem != "cyclist" || top[1].Frequency != 2 {
		t.Errorf("Unexpected second stem: %+v", top[1])
	}

	count, err := db.GetIndexedPageCount()
	if err != nil {
		t.Fatalf("Failed to get indexed page count: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 indexed pages, got %d", count)
	}
}

func TestAlgorithmsAreSeparate(t *testing.T) {
	db := newStemDB(t)
	saveDocument(t, db, cyclingDoc(1))

	_, err := db.LookupStem("cycling", "porter")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	top, err := db.TopStems("porter", 10)
	if err != nil {
		t.Fatalf("TopStems failed: %v", err)
	}
	if len(top) != 0 {
		t.Errorf("Expected no porter stems, got %v", top)
	}
}

func TestGetLastIndexedPageID(t *testing.T) {
	db := newStemDB(t)

	lastID, err := db.GetLastIndexedPageID()
	if err != nil {
		t.Fatalf("Failed to get last indexed page ID: %v", err)
	}
	if lastID != 0 {
		t.Errorf("Expected last ID to be 0, got %d", lastID)
	}

	for _, id := range []int{5, 10, 3} {
		saveDocument(t, db, storage.Document{ID: id, URL: "https://example.com", Algorithm: "english"})
	}

	lastID, err = db.GetLastIndexedPageID()
	if err != nil {
		t.Fatalf("Failed to get last indexed page ID: %v", err)
	}
	if lastID != 10 {
		t.Errorf("Expected last ID to be 10, got %d", lastID)
	}
}

func TestMetadata(t *testing.T) {
	db := newStemDB(t)

	value, err := db.GetMetadata("total_documents")
	if err != nil {
		t.Fatalf("Failed to get metadata: %v", err)
	}
	if value != "0" {
		t.Errorf("Expected total_documents to be '0', got %q", value)
	}

	if err := db.SetMetadata("total_documents", "100"); err != nil {
		t.Fatalf("Failed to set metadata: %v", err)
	}

	value, err = db.GetMetadata("total_documents")
	if err != nil {
		t.Fatalf("Failed to get metadata: %v", err)
	}
	if value != "100" {
		t.Errorf("Expected total_documents to be '100', got %q", value)
	}

	if _, err := db.GetMetadata("missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}
