// Package channel defines the channel directory snapshot and the selection
// logic that decides which channels to monitor for vacancies.
package channel

import "strings"

// Channel is an immutable directory snapshot of a messaging channel.
type Channel struct {
	ID          int64
	Title       string
	Handle      string
	UnreadCount int
	IsChannel   bool
}

// jobKeywords are matched case-insensitively against channel titles when no
// explicit channel IDs are configured. The set mixes English and Russian
// job-market terms with a few technology terms common in channel names.
var jobKeywords = []string{
	"job", "вакансии", "работа", "карьера", "vacancy", "hire", "recruit",
	"python", "developer", "программист", "разработчик", "it",
}

// Select returns the subset of channels to monitor, preserving input order.
//
// When explicitIDs is non-empty, only channels whose ID is in the set are
// returned; IDs with no matching channel are silently omitted. Otherwise
// channels are auto-selected by keyword match against their titles.
func Select(channels []Channel, explicitIDs []int64) []Channel {
	if len(explicitIDs) > 0 {
		wanted := make(map[int64]struct{}, len(explicitIDs))
		for _, id := range explicitIDs {
			wanted[id] = struct{}{}
		}

		var selected []Channel
		for _, ch := range channels {
			if _, ok := wanted[ch.ID]; ok {
				selected = append(selected, ch)
			}
		}
		return selected
	}

	var selected []Channel
	for _, ch := range channels {
		if matchesKeywords(ch.Title) {
			selected = append(selected, ch)
		}
	}
	return selected
}

func matchesKeywords(title string) bool {
	lower := strings.ToLower(title)
	for _, keyword := range jobKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}
