package search

import (
	"context"
	"testing"
)

func TestNewIndexer_EmptyURLIsUnavailable(t *testing.T) {
	ix := NewIndexer("", "key")
	if ix.Available() {
		t.Fatal("indexer without a URL must be unavailable")
	}
	var nilIx *Indexer
	if nilIx.Available() {
		t.Fatal("nil indexer must be unavailable")
	}
}

func TestIndexer_UnavailableOperationsError(t *testing.T) {
	var ix *Indexer
	if err := ix.Upsert(context.Background(), Document{ID: "doc-1"}); err == nil {
		t.Fatal("expected error from unavailable indexer")
	}
	if err := ix.InitSchema(context.Background()); err == nil {
		t.Fatal("expected error from unavailable indexer")
	}
	if _, err := ix.Search(context.Background(), "user-1", "whiplash", 10); err == nil {
		t.Fatal("expected error from unavailable indexer")
	}
}
