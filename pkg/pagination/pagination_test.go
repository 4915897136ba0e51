package pagination_test

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/kartik48/sunitas-creations/pkg/pagination"
)

func TestNormalizeLimit(t *testing.T) {
	if got := pagination.NormalizeLimit(0); got != pagination.DefaultLimit {
		t.Fatalf("expected default limit, got %d", got)
	}
	if got := pagination.NormalizeLimit(-3); got != pagination.DefaultLimit {
		t.Fatalf("expected default limit for negative input, got %d", got)
	}
	if got := pagination.NormalizeLimit(5000); got != pagination.MaxLimit {
		t.Fatalf("expected max limit, got %d", got)
	}
	if got := pagination.NormalizeLimit(10); got != 10 {
		t.Fatalf("expected passthrough, got %d", got)
	}
}

func TestCursorRoundTrip(t *testing.T) {
	in := pagination.Cursor{
		CreatedAt: time.Date(2026, 3, 14, 9, 26, 53, 589000000, time.UTC),
		ID:        uuid.New(),
	}

	out, err := pagination.ParseCursor(pagination.EncodeCursor(in))
	if err != nil {
		t.Fatalf("ParseCursor returned error: %v", err)
	}
	if out == nil {
		t.Fatal("expected cursor, got nil")
	}
	if !out.CreatedAt.Equal(in.CreatedAt) || out.ID != in.ID {
		t.Fatalf("cursor mismatch: got %+v want %+v", out, in)
	}
}

func TestParseCursorEmpty(t *testing.T) {
	cursor, err := pagination.ParseCursor("  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cursor != nil {
		t.Fatal("expected nil cursor for blank input")
	}
}

func TestParseCursorMalformed(t *testing.T) {
	if _, err := pagination.ParseCursor("%%%not-base64%%%"); err == nil {
		t.Fatal("expected error for invalid base64")
	}
	if _, err := pagination.ParseCursor("bm8tcGlwZS1oZXJl"); err == nil {
		t.Fatal("expected error for missing separator")
	}
}
