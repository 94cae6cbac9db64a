// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package aggregate builds the participant × candidate response matrix of a
schedule from raw store rows.

# Building

	m := aggregate.Build(aggregate.Input{
		Candidates:     candidates,     // ordered by candidate id
		Availabilities: availabilities, // joined with usernames
		Comments:       comments,
		Viewer:         viewer,
	})

The viewer is always a participant, even without any answer. Every other
user appearing in the availabilities is added once. Participants are sorted
by username, then user id. Every participant × candidate cell without an
explicit answer reads as Absent, so the matrix always holds exactly
len(Participants) × len(Candidates) cells.

# Reading

  - Cell(userID, candidateID): the answer, explicit or defaulted
  - Comment(userID): the comment and whether it exists
  - Rows(): render-ready rows in participant order

# Tally

Tally counts present/uncertain/absent answers per candidate and ranks the
candidates: most present first, then most uncertain, then lowest candidate id.

Build and Tally are pure; a Matrix is safe for concurrent reads.
*/
package aggregate
