// Package profile loads the resume profile document used for vacancy
// classification. The document is free-form JSON maintained by the user;
// only scoring_weights.min_score is interpreted by the pipeline, the rest
// is passed verbatim into the classifier prompt.
package profile

import (
	"encoding/json"
	"fmt"
	"os"
)

// Resume is the user's resume profile. Raw keeps the full document for
// prompt substitution; ScoringWeights carries the interpreted fields.
type Resume struct {
	Raw            map[string]any
	ScoringWeights ScoringWeights
}

// ScoringWeights are the scoring parameters read from the profile document.
type ScoringWeights struct {
	MinScore float64 `json:"min_score"`
}

// Load reads and parses the resume profile from path.
func Load(path string) (*Resume, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read resume profile %q: %w", path, err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse resume profile %q: %w", path, err)
	}

	resume := &Resume{Raw: raw}
	if weights, ok := raw["scoring_weights"]; ok {
		// Round-trip through JSON rather than type-asserting nested maps.
		weightsJSON, err := json.Marshal(weights)
		if err == nil {
			_ = json.Unmarshal(weightsJSON, &resume.ScoringWeights)
		}
	}

	return resume, nil
}

// MinScore returns the profile's minimum score when set, falling back to
// the given default.
func (r *Resume) MinScore(fallback float64) float64 {
	if r.ScoringWeights.MinScore > 0 {
		return r.ScoringWeights.MinScore
	}
	return fallback
}

// JSON renders the full profile document as indented JSON for prompt
// substitution.
func (r *Resume) JSON() (string, error) {
	data, err := json.MarshalIndent(r.Raw, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal resume profile: %w", err)
	}
	return string(data), nil
}
