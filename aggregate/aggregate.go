// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package aggregate

import (
	"sort"

	"github.com/danielhkuo/quickly-schedule/models"
)

// Input is everything read from the store for one schedule view.
type Input struct {
	Candidates     []models.Candidate          // ordered by CandidateID ascending
	Availabilities []models.AvailabilityRecord // joined with usernames
	Comments       []models.Comment
	Viewer         models.User
}

type cellKey struct {
	userID      int64
	candidateID int64
}

// Matrix is the filled participant × candidate grid. It is never mutated
// after Build returns.
type Matrix struct {
	Participants []models.Participant
	Candidates   []models.Candidate

	cells    map[cellKey]models.Availability
	comments map[int64]string
}

// Build derives the response matrix. The viewer is always a participant,
// participants are ordered by username then user id, and every
// participant × candidate cell without an explicit answer is Absent.
func Build(in Input) *Matrix {
	m := &Matrix{
		Candidates: in.Candidates,
		cells:      make(map[cellKey]models.Availability, len(in.Availabilities)),
		comments:   make(map[int64]string, len(in.Comments)),
	}
	if m.Candidates == nil {
		m.Candidates = []models.Candidate{}
	}

	// Participants: the viewer first, then every distinct responder.
	seen := map[int64]bool{in.Viewer.UserID: true}
	m.Participants = append(m.Participants, models.Participant{
		UserID:   in.Viewer.UserID,
		Username: in.Viewer.Username,
		IsSelf:   true,
	})
	for _, a := range in.Availabilities {
		if seen[a.UserID] {
			continue
		}
		seen[a.UserID] = true
		m.Participants = append(m.Participants, models.Participant{
			UserID:   a.UserID,
			Username: a.Username,
			IsSelf:   false,
		})
	}
	sort.SliceStable(m.Participants, func(i, j int) bool {
		a, b := m.Participants[i], m.Participants[j]
		if a.Username != b.Username {
			return a.Username < b.Username
		}
		return a.UserID < b.UserID
	})

	// Explicit answers
	known := make(map[int64]bool, len(m.Candidates))
	for _, c := range m.Candidates {
		known[c.CandidateID] = true
	}
	for _, a := range in.Availabilities {
		if !known[a.CandidateID] {
			continue
		}
		m.cells[cellKey{a.UserID, a.CandidateID}] = a.Availability
	}

	// Fill the full cross product
	for _, p := range m.Participants {
		for _, c := range m.Candidates {
			k := cellKey{p.UserID, c.CandidateID}
			if _, ok := m.cells[k]; !ok {
				m.cells[k] = models.Absent
			}
		}
	}

	for _, c := range in.Comments {
		m.comments[c.UserID] = c.Comment
	}

	return m
}

// Cell returns the answer of userID for candidateID. Pairs outside the
// matrix read as Absent.
func (m *Matrix) Cell(userID, candidateID int64) models.Availability {
	return m.cells[cellKey{userID, candidateID}]
}

// Comment returns the user's comment and whether one exists.
func (m *Matrix) Comment(userID int64) (string, bool) {
	c, ok := m.comments[userID]
	return c, ok
}

// Size is the number of filled cells.
func (m *Matrix) Size() int {
	return len(m.cells)
}

// Rows renders the matrix in participant order with one cell per candidate.
func (m *Matrix) Rows() []models.ParticipantRow {
	rows := make([]models.ParticipantRow, 0, len(m.Participants))
	for _, p := range m.Participants {
		row := models.ParticipantRow{
			Participant: p,
			Cells:       make([]models.Availability, len(m.Candidates)),
		}
		for i, c := range m.Candidates {
			row.Cells[i] = m.Cell(p.UserID, c.CandidateID)
		}
		if comment, ok := m.Comment(p.UserID); ok {
			row.Comment = &comment
		}
		rows = append(rows, row)
	}
	return rows
}
