// Package vacancy defines the vacancy record produced by AI classification
// and consumed by ranking and delivery.
package vacancy

import "strings"

// Recommendation values assigned by the classifier.
const (
	RecommendApply    = "apply"
	RecommendConsider = "consider"
	RecommendSkip     = "skip"
)

// Record is a single scored vacancy extracted from channel messages.
// Records are produced only by the classifier and never mutated downstream;
// ranking may reorder and drop them but never synthesizes new ones.
type Record struct {
	Title          string   `json:"title"`
	Company        string   `json:"company"`
	Location       string   `json:"location"`
	Salary         string   `json:"salary,omitempty"`
	Score          float64  `json:"score"`
	Recommendation string   `json:"recommendation"`
	MatchReasons   []string `json:"match_reasons,omitempty"`
	Concerns       []string `json:"concerns,omitempty"`
}

// Normalize coerces a record into its canonical shape at the classifier
// boundary: the score is clamped to [0,1], the recommendation is lowercased
// and defaults to "consider" when missing.
func (r *Record) Normalize() {
	if r.Score < 0 {
		r.Score = 0
	}
	if r.Score > 1 {
		r.Score = 1
	}

	r.Recommendation = strings.ToLower(strings.TrimSpace(r.Recommendation))
	if r.Recommendation == "" {
		r.Recommendation = RecommendConsider
	}
}
