// Package storage provides the SQLite document store backing
// retrieval: ingested passages with their embedding vectors, searched
// by brute-force cosine similarity.
//
// Thread-safe: sql.DB handles connection pooling and concurrent access.

package storage

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Document is one ingested passage with its source attribution.
type Document struct {
	ID     string
	Source string
	Text   string
}

// SearchResult pairs a document with its similarity to the query.
type SearchResult struct {
	Document Document
	Score    float64
}

// SqliteStore persists documents and their embedding vectors.
type SqliteStore struct {
	db *sql.DB
}

// OpenSqlite opens or creates a SQLite database at the given path.
// Creates parent directories if they don't exist.
func OpenSqlite(path string) (*SqliteStore, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	store := &SqliteStore{db: db}
	if err := store.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// NewSqliteInMemory creates an in-memory database (useful for testing).
func NewSqliteInMemory() (*SqliteStore, error) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory SQLite: %w", err)
	}

	store := &SqliteStore{db: db}
	if err := store.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *SqliteStore) Close() error {
	return s.db.Close()
}

func (s *SqliteStore) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS documents (
			id TEXT PRIMARY KEY,
			source TEXT NOT NULL,
			content TEXT NOT NULL,
			embedding BLOB NOT NULL,
			created_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_documents_source
		ON documents(source);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// AddDocument stores a passage with its embedding and returns the
// assigned document ID.
func (s *SqliteStore) AddDocument(ctx context.Context, source, text string, vector []float32) (string, error) {
	if len(vector) == 0 {
		return "", fmt.Errorf("cannot store document with empty embedding")
	}

	id := uuid.New().String()
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO documents (id, source, content, embedding, created_at) VALUES (?, ?, ?, ?, ?)",
		id, source, text, encodeVector(vector), time.Now().Unix())
	if err != nil {
		return "", fmt.Errorf("failed to store document: %w", err)
	}
	return id, nil
}

// Count returns the number of stored documents.
func (s *SqliteStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}
	return count, nil
}

// Search returns the passage texts of the k documents most similar to
// the query vector, best first. Fewer than k results, or none at all,
// is a valid outcome, not an error.
func (s *SqliteStore) Search(ctx context.Context, vector []float32, k int) ([]string, error) {
	results, err := s.SearchDocuments(ctx, vector, k)
	if err != nil {
		return nil, err
	}
	texts := make([]string, 0, len(results))
	for _, r := range results {
		texts = append(texts, r.Document.Text)
	}
	return texts, nil
}

// SearchDocuments is Search with full document metadata and scores.
// Similarity is brute-force cosine over every stored vector; fine for
// the corpus sizes a single coach instance handles.
func (s *SqliteStore) SearchDocuments(ctx context.Context, vector []float32, k int) ([]SearchResult, error) {
	if k <= 0 {
		return []SearchResult{}, nil
	}

	rows, err := s.db.QueryContext(ctx, "SELECT id, source, content, embedding FROM documents")
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	results := []SearchResult{}
	for rows.Next() {
		var doc Document
		var blob []byte
		if err := rows.Scan(&doc.ID, &doc.Source, &doc.Text, &blob); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		stored, err := decodeVector(blob)
		if err != nil {
			return nil, fmt.Errorf("document %s: %w", doc.ID, err)
		}
		if len(stored) != len(vector) {
			// Dimension mismatch means the document was embedded
			// with a different model; it cannot match this query.
			continue
		}
		results = append(results, SearchResult{Document: doc, Score: cosine(vector, stored)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating documents: %w", err)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// encodeVector packs float32 components as little-endian bytes.
func encodeVector(vector []float32) []byte {
	buf := make([]byte, 4*len(vector))
	for i, v := range vector {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

func decodeVector(blob []byte) ([]float32, error) {
	if len(blob)%4 != 0 {
		return nil, fmt.Errorf("malformed embedding blob of %d bytes", len(blob))
	}
	vector := make([]float32, len(blob)/4)
	for i := range vector {
		vector[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[i*4:]))
	}
	return vector, nil
}

func cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
