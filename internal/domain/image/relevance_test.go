package image

import (
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

func record(title, category string, keywords ...string) *ImageRecord {
	return &ImageRecord{
		ID:       uuid.New(),
		Title:    title,
		Category: category,
		Keywords: pq.StringArray(keywords),
	}
}

func TestRelated_ScoresAndOrders(t *testing.T) {
	ref := record("Lake", "Nature", "water", "calm", "blue")
	river := record("River", "Nature", "water", "flow")       // 10 + 2 = 12
	ocean := record("Ocean", "Seascape", "water", "blue")     // 0 + 4 = 4
	forest := record("Forest", "Nature", "trees")             // 10
	city := record("City", "Urban", "skyline")                // 0, dropped

	got := Related(ref, []*ImageRecord{city, ocean, forest, river}, 0)

	want := []string{"River", "Forest", "Ocean"}
	if len(got) != len(want) {
		t.Fatalf("expected %d results, got %d", len(want), len(got))
	}
	for i, title := range want {
		if got[i].Title != title {
			t.Errorf("position %d: expected %q, got %q", i, title, got[i].Title)
		}
	}
}

func TestRelated_ExcludesReference(t *testing.T) {
	ref := record("Lake", "Nature", "water")
	got := Related(ref, []*ImageRecord{ref, record("River", "Nature", "water")}, 0)

	for _, r := range got {
		if r.ID == ref.ID {
			t.Error("reference record must not appear in its own related list")
		}
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 result, got %d", len(got))
	}
}

func TestRelated_KeywordsMatchCaseInsensitive(t *testing.T) {
	ref := record("Lake", "Landscape", "Nature", "Water")
	candidate := record("Pond", "Other", "nature", "WATER")

	got := Related(ref, []*ImageRecord{candidate}, 0)
	if len(got) != 1 {
		t.Fatalf("expected 1 result, got %d", len(got))
	}
}

func TestRelated_DuplicateKeywordsCountOnce(t *testing.T) {
	ref := record("Lake", "Landscape", "water")
	dup := record("Pond", "Other", "water", "Water", "WATER") // still just 2
	single := record("Sea", "Landscape")                      // category only, 10

	got := Related(ref, []*ImageRecord{dup, single}, 0)
	if len(got) != 2 {
		t.Fatalf("expected 2 results, got %d", len(got))
	}
	if got[0].Title != "Sea" {
		t.Errorf("expected category match to outrank duplicate keywords, got %q first", got[0].Title)
	}
}

func TestRelated_CapsAtLimit(t *testing.T) {
	ref := record("Lake", "Nature", "water")
	var candidates []*ImageRecord
	for i := 0; i < 10; i++ {
		candidates = append(candidates, record("Scene", "Nature"))
	}

	if got := Related(ref, candidates, 0); len(got) != DefaultRelatedLimit {
		t.Errorf("expected default cap of %d, got %d", DefaultRelatedLimit, len(got))
	}
	if got := Related(ref, candidates, 3); len(got) != 3 {
		t.Errorf("expected cap of 3, got %d", len(got))
	}
}

func TestRelated_StableOnTies(t *testing.T) {
	ref := record("Lake", "Nature")
	first := record("First", "Nature")
	second := record("Second", "Nature")

	got := Related(ref, []*ImageRecord{first, second}, 0)
	if len(got) != 2 || got[0].Title != "First" || got[1].Title != "Second" {
		t.Errorf("tied candidates must keep input order, got %v", []string{got[0].Title, got[1].Title})
	}
}

func TestRelated_EmptyWhenNothingMatches(t *testing.T) {
	ref := record("Lake", "Nature", "water")
	got := Related(ref, []*ImageRecord{record("City", "Urban", "skyline")}, 0)
	if len(got) != 0 {
		t.Errorf("expected empty result, got %d entries", len(got))
	}
}
