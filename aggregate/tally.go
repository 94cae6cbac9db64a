// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package aggregate

import (
	"sort"

	"github.com/danielhkuo/quickly-schedule/models"
)

// Tally counts answers per candidate over the filled matrix and ranks the
// candidates. Unanswered cells count as absent.
func Tally(m *Matrix) []models.CandidateSummary {
	summaries := make([]models.CandidateSummary, len(m.Candidates))
	for i, c := range m.Candidates {
		s := models.CandidateSummary{
			CandidateID:   c.CandidateID,
			CandidateName: c.CandidateName,
		}
		for _, p := range m.Participants {
			switch m.Cell(p.UserID, c.CandidateID) {
			case models.Present:
				s.Present++
			case models.Uncertain:
				s.Uncertain++
			default:
				s.Absent++
			}
		}
		summaries[i] = s
	}

	ranked := make([]models.CandidateSummary, len(summaries))
	copy(ranked, summaries)
	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]

		// 1. More present answers win
		if a.Present != b.Present {
			return a.Present > b.Present
		}

		// 2. More uncertain answers win
		if a.Uncertain != b.Uncertain {
			return a.Uncertain > b.Uncertain
		}

		// 3. Stable tie-breaking by candidate ID (ascending)
		return a.CandidateID < b.CandidateID
	})

	rank := make(map[int64]int, len(ranked))
	for i, s := range ranked {
		rank[s.CandidateID] = i + 1 // 1-indexed ranking
	}

	// Keep display order; only the rank reflects the sort.
	for i := range summaries {
		summaries[i].Rank = rank[summaries[i].CandidateID]
	}
	return summaries
}
