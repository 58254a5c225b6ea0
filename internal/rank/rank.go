// Package rank sorts and filters classifier output into the final list of
// vacancies worth delivering. Everything here is pure: given identical
// input, the output is identical, and every output record is one of the
// input records.
package rank

import (
	"sort"
	"strings"

	"github.com/edgard/jobscout/internal/vacancy"
)

// Rank sorts records descending by score (ties keep input order), drops
// records below minScore or whose recommendation is not in allowed
// (compared case-insensitively), and truncates to maxResults.
func Rank(records []vacancy.Record, minScore float64, allowed []string, maxResults int) []vacancy.Record {
	if len(records) == 0 {
		return nil
	}

	allowedSet := make(map[string]struct{}, len(allowed))
	for _, rec := range allowed {
		allowedSet[strings.ToLower(rec)] = struct{}{}
	}

	sorted := make([]vacancy.Record, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})

	var filtered []vacancy.Record
	for _, rec := range sorted {
		if rec.Score < minScore {
			continue
		}
		if _, ok := allowedSet[strings.ToLower(rec.Recommendation)]; !ok {
			continue
		}
		filtered = append(filtered, rec)
	}

	if maxResults > 0 && len(filtered) > maxResults {
		filtered = filtered[:maxResults]
	}
	return filtered
}
