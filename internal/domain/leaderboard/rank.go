package leaderboard

import (
	"strings"

	"golang.org/x/exp/slices"
)

type Entry struct {
	Rank   int
	UserID string
	Points int
}

// Rank orders entries by points descending then user id ascending, and gives
// each of them a distinct 1-based rank. The input is not modified.
func Rank(entries []Entry) []Entry {
	result := slices.Clone(entries)
	slices.SortStableFunc(result, func(a, b Entry) int {
		if a.Points != b.Points {
			return b.Points - a.Points
		}

		return strings.Compare(a.UserID, b.UserID)
	})

	for i := range result {
		result[i].Rank = i + 1
	}

	return result
}
