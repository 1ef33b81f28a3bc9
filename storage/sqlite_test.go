package storage

import (
	"context"
	"testing"
)

func newTestStore(t *testing.T) *SqliteStore {
	t.Helper()
	store, err := NewSqliteInMemory()
	if err != nil {
		t.Fatalf("failed to create in-memory store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestAddAndCount(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.AddDocument(ctx, "notes.md", "Decision trees map options.", []float32{1, 0, 0})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if id == "" {
		t.Error("expected non-empty document ID")
	}

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 document, got %d", count)
	}
}

func TestAddRejectsEmptyEmbedding(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.AddDocument(context.Background(), "x", "text", nil); err == nil {
		t.Error("expected error for empty embedding")
	}
}

func TestSearchOrdersBySimilarity(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	docs := []struct {
		text   string
		vector []float32
	}{
		{"orthogonal passage", []float32{0, 1, 0}},
		{"exact match passage", []float32{1, 0, 0}},
		{"close passage", []float32{0.9, 0.1, 0}},
	}
	for _, d := range docs {
		if _, err := store.AddDocument(ctx, "corpus.txt", d.text, d.vector); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	texts, err := store.Search(ctx, []float32{1, 0, 0}, 2)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(texts) != 2 {
		t.Fatalf("expected 2 results, got %d", len(texts))
	}
	if texts[0] != "exact match passage" || texts[1] != "close passage" {
		t.Errorf("unexpected order: %v", texts)
	}
}

func TestSearchFewerThanKIsValid(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.AddDocument(ctx, "one.txt", "only passage", []float32{1, 1}); err != nil {
		t.Fatalf("add: %v", err)
	}

	texts, err := store.Search(ctx, []float32{1, 1}, 5)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(texts) != 1 {
		t.Errorf("expected 1 result, got %d", len(texts))
	}
}

func TestSearchEmptyStore(t *testing.T) {
	store := newTestStore(t)
	texts, err := store.Search(context.Background(), []float32{1, 0}, 5)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(texts) != 0 {
		t.Errorf("expected no results, got %v", texts)
	}
}

func TestSearchSkipsDimensionMismatch(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.AddDocument(ctx, "old.txt", "old embedding model", []float32{1, 0, 0, 0}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := store.AddDocument(ctx, "new.txt", "current embedding model", []float32{1, 0}); err != nil {
		t.Fatalf("add: %v", err)
	}

	results, err := store.SearchDocuments(ctx, []float32{1, 0}, 5)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 1 || results[0].Document.Text != "current embedding model" {
		t.Errorf("expected only the matching-dimension document, got %v", results)
	}
}

func TestVectorRoundTrip(t *testing.T) {
	in := []float32{0.25, -1.5, 3.0e-7, 42}
	out, err := decodeVector(encodeVector(in))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	for i := range in {
		if in[i] != out[i] {
			t.Errorf("component %d: %v != %v", i, in[i], out[i])
		}
	}
}
