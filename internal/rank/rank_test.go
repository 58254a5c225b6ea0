package rank_test

import (
	"reflect"
	"testing"

	"github.com/edgard/jobscout/internal/rank"
	"github.com/edgard/jobscout/internal/vacancy"
)

func records(pairs ...any) []vacancy.Record {
	out := make([]vacancy.Record, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, vacancy.Record{
			Title:          pairs[i].(string),
			Score:          pairs[i+1].(float64),
			Recommendation: vacancy.RecommendApply,
		})
	}
	return out
}

func TestRankScoreAndRecommendationGate(t *testing.T) {
	t.Parallel()

	input := []vacancy.Record{
		{Title: "A", Score: 0.9, Recommendation: "apply"},
		{Title: "B", Score: 0.5, Recommendation: "consider"},
		{Title: "C", Score: 0.3, Recommendation: "apply"},
	}

	got := rank.Rank(input, 0.4, []string{"apply", "consider"}, 10)

	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got[0].Title != "A" || got[1].Title != "B" {
		t.Errorf("expected [A B], got [%s %s]", got[0].Title, got[1].Title)
	}
}

func TestRankSortsDescendingWithStableTies(t *testing.T) {
	t.Parallel()

	input := []vacancy.Record{
		{Title: "low", Score: 0.5, Recommendation: "apply"},
		{Title: "tie-first", Score: 0.8, Recommendation: "apply"},
		{Title: "tie-second", Score: 0.8, Recommendation: "apply"},
		{Title: "high", Score: 0.9, Recommendation: "apply"},
	}

	got := rank.Rank(input, 0, []string{"apply"}, 10)

	expected := []string{"high", "tie-first", "tie-second", "low"}
	for i, title := range expected {
		if got[i].Title != title {
			t.Errorf("position %d: expected %q, got %q", i, title, got[i].Title)
		}
	}
}

func TestRankDeterministic(t *testing.T) {
	t.Parallel()

	input := records("a", 0.7, "b", 0.7, "c", 0.9, "d", 0.2, "e", 0.7)

	first := rank.Rank(input, 0.1, []string{"apply"}, 10)
	for i := 0; i < 50; i++ {
		again := rank.Rank(input, 0.1, []string{"apply"}, 10)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("iteration %d: output differs from first invocation", i)
		}
	}
}

func TestRankOutputIsSubsequenceOfInput(t *testing.T) {
	t.Parallel()

	input := records("a", 0.9, "b", 0.1, "c", 0.6, "d", 0.8)

	got := rank.Rank(input, 0.5, []string{"apply"}, 10)

	inputTitles := make(map[string]vacancy.Record, len(input))
	for _, rec := range input {
		inputTitles[rec.Title] = rec
	}
	for _, rec := range got {
		orig, ok := inputTitles[rec.Title]
		if !ok {
			t.Fatalf("output record %q not present in input", rec.Title)
		}
		if !reflect.DeepEqual(orig, rec) {
			t.Errorf("output record %q was mutated", rec.Title)
		}
	}
}

func TestRankRecommendationCaseInsensitive(t *testing.T) {
	t.Parallel()

	input := []vacancy.Record{
		{Title: "A", Score: 0.9, Recommendation: "Apply"},
		{Title: "B", Score: 0.8, Recommendation: "SKIP"},
	}

	got := rank.Rank(input, 0, []string{"APPLY", "consider"}, 10)

	if len(got) != 1 || got[0].Title != "A" {
		t.Fatalf("expected only A, got %+v", got)
	}
}

func TestRankTruncatesToMaxResults(t *testing.T) {
	t.Parallel()

	input := records("a", 0.9, "b", 0.8, "c", 0.7, "d", 0.6)

	got := rank.Rank(input, 0, []string{"apply"}, 2)

	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got[0].Title != "a" || got[1].Title != "b" {
		t.Errorf("expected top two by score, got [%s %s]", got[0].Title, got[1].Title)
	}
}

func TestRankEmptyInput(t *testing.T) {
	t.Parallel()

	if got := rank.Rank(nil, 0.4, []string{"apply"}, 10); got != nil {
		t.Errorf("expected nil for empty input, got %+v", got)
	}
}
