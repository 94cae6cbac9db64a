// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - ScheduleRequest: scheduleName, memo, candidates (newline separated)
  - SetAvailabilityRequest: availability (0, 1 or 2)
  - SetCommentRequest: comment

# Response Types

Types for JSON responses:

  - CreateScheduleResponse: schedule_id
  - SetAvailabilityResponse: status, availability
  - SetCommentResponse: status, comment
  - DeleteScheduleResponse: schedule_id, deleted
  - ErrorResponse: error, message

# Domain Types

Rows of the relational store:

  - User: identity owned by the identity provider
  - Schedule: name, memo, owner and last update time
  - Candidate: one proposed slot, ordered by CandidateID
  - AvailabilityRecord: one answer per (schedule, user, candidate)
  - Comment: one per (schedule, user)

# View Types

The render-ready response matrix:

  - ScheduleView: schedule, viewer, candidates, participants and rows
  - ParticipantRow: one cell per candidate plus the optional comment
  - CandidateSummary: per-candidate counts and rank

# Availability

	Absent    = 0 // also the value of every unanswered cell
	Uncertain = 1
	Present   = 2
*/
package models
