package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/papertrailapp/papertrail-server/internal/store"
)

func TestUpsertAndGetPaper(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	paper := makeTestPaper("W2100837269", "Attention Is All You Need")
	paper.Authors = []string{"Ashish Vaswani", "Noam Shazeer"}

	if err := s.UpsertPaper(ctx, paper); err != nil {
		t.Fatalf("UpsertPaper: %v", err)
	}

	got, err := s.GetPaper(ctx, "W2100837269")
	if err != nil {
		t.Fatalf("GetPaper: %v", err)
	}

	if got.Title != paper.Title {
		t.Errorf("Title: got %q, want %q", got.Title, paper.Title)
	}
	if len(got.Authors) != 2 || got.Authors[0] != "Ashish Vaswani" {
		t.Errorf("Authors: got %v, want %v", got.Authors, paper.Authors)
	}
	if got.Year != 2017 {
		t.Errorf("Year: got %d, want 2017", got.Year)
	}
	if got.Source != "openalex" {
		t.Errorf("Source: got %q, want openalex", got.Source)
	}
}

func TestUpsertPaper_RefreshesMetadata(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	paper := makeTestPaper("W1", "Old Title")
	if err := s.UpsertPaper(ctx, paper); err != nil {
		t.Fatalf("UpsertPaper: %v", err)
	}

	paper.Title = "New Title"
	paper.Year = 2020
	if err := s.UpsertPaper(ctx, paper); err != nil {
		t.Fatalf("UpsertPaper (second): %v", err)
	}

	got, err := s.GetPaper(ctx, "W1")
	if err != nil {
		t.Fatalf("GetPaper: %v", err)
	}
	if got.Title != "New Title" {
		t.Errorf("Title: got %q, want %q", got.Title, "New Title")
	}
	if got.Year != 2020 {
		t.Errorf("Year: got %d, want 2020", got.Year)
	}
}

func TestUpsertPaper_RejectsInvalid(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	paper := makeTestPaper("", "No ID")
	err := s.UpsertPaper(ctx, paper)
	if !errors.Is(err, store.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestGetPaper_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetPaper(context.Background(), "W404")
	if !errors.Is(err, store.ErrPaperNotFound) {
		t.Errorf("expected ErrPaperNotFound, got %v", err)
	}
}

func TestGetPapersByIDs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"W1", "W2", "W3"} {
		if err := s.UpsertPaper(ctx, makeTestPaper(id, "Paper "+id)); err != nil {
			t.Fatalf("UpsertPaper(%s): %v", id, err)
		}
	}

	got, err := s.GetPapersByIDs(ctx, []string{"W1", "W3", "W404"})
	if err != nil {
		t.Fatalf("GetPapersByIDs: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("expected 2 papers, got %d", len(got))
	}
	if got["W1"] == nil || got["W3"] == nil {
		t.Errorf("missing expected papers in %v", got)
	}
	if _, ok := got["W404"]; ok {
		t.Errorf("unknown ID should be omitted")
	}
}

func TestGetPapersByIDs_Empty(t *testing.T) {
	s := newTestStore(t)

	got, err := s.GetPapersByIDs(context.Background(), nil)
	if err != nil {
		t.Fatalf("GetPapersByIDs: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty map, got %v", got)
	}
}

func TestSearchPapersByTitle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.UpsertPaper(ctx, makeTestPaper("W1", "Attention Is All You Need")); err != nil {
		t.Fatalf("UpsertPaper: %v", err)
	}
	if err := s.UpsertPaper(ctx, makeTestPaper("W2", "Deep Residual Learning")); err != nil {
		t.Fatalf("UpsertPaper: %v", err)
	}

	got, err := s.SearchPapersByTitle(ctx, "attention", 10)
	if err != nil {
		t.Fatalf("SearchPapersByTitle: %v", err)
	}
	if len(got) != 1 || got[0].OpenAlexID != "W1" {
		t.Errorf("expected [W1], got %v", got)
	}
}
