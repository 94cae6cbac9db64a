package models

import (
	"fmt"
	"time"
)

// MaxScheduleNameLength is the stored width of schedules.schedule_name.
const MaxScheduleNameLength = 255

// MaxCommentLength is the stored width of comments.comment.
const MaxCommentLength = 255

// Availability is a participant's answer for one candidate.
type Availability int

// Availability values. Absent is also the value synthesized for unanswered cells.
const (
	Absent    Availability = 0
	Uncertain Availability = 1
	Present   Availability = 2
)

// Valid reports whether a is one of the three defined answers.
func (a Availability) Valid() bool {
	return a == Absent || a == Uncertain || a == Present
}

func (a Availability) String() string {
	switch a {
	case Absent:
		return "absent"
	case Uncertain:
		return "uncertain"
	case Present:
		return "present"
	}
	return fmt.Sprintf("Availability(%d)", int(a))
}

// Request types

type ScheduleRequest struct {
	ScheduleName string `json:"scheduleName"`
	Memo         string `json:"memo"`
	Candidates   string `json:"candidates"`
}

type SetAvailabilityRequest struct {
	Availability *int `json:"availability"`
}

type SetCommentRequest struct {
	Comment *string `json:"comment"`
}

// Response types

type CreateScheduleResponse struct {
	ScheduleID string `json:"schedule_id"`
}

type SetAvailabilityResponse struct {
	Status       string `json:"status"`
	Availability int    `json:"availability"`
}

type SetCommentResponse struct {
	Status  string `json:"status"`
	Comment string `json:"comment"`
}

type DeleteScheduleResponse struct {
	ScheduleID string `json:"schedule_id"`
	Deleted    bool   `json:"deleted"`
}

// Domain types

type User struct {
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
}

type Schedule struct {
	ScheduleID   string    `json:"scheduleId"`
	ScheduleName string    `json:"scheduleName"`
	Memo         string    `json:"memo"`
	CreatedBy    int64     `json:"createdBy"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type Candidate struct {
	CandidateID   int64  `json:"candidateId"`
	CandidateName string `json:"candidateName"`
	ScheduleID    string `json:"scheduleId"`
}

type AvailabilityRecord struct {
	ScheduleID   string       `json:"scheduleId"`
	UserID       int64        `json:"userId"`
	CandidateID  int64        `json:"candidateId"`
	Availability Availability `json:"availability"`
	// Username is filled when the row is read joined with users.
	Username string `json:"username,omitempty"`
}

type Comment struct {
	ScheduleID string `json:"scheduleId"`
	UserID     int64  `json:"userId"`
	Comment    string `json:"comment"`
}

type ScheduleWithCandidates struct {
	Schedule   Schedule    `json:"schedule"`
	Candidates []Candidate `json:"candidates"`
}

// View types

type Participant struct {
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
	IsSelf   bool   `json:"isSelf"`
}

type ParticipantRow struct {
	Participant Participant    `json:"participant"`
	Cells       []Availability `json:"cells"` // one per candidate, same order as ScheduleView.Candidates
	Comment     *string        `json:"comment,omitempty"`
}

type CandidateSummary struct {
	CandidateID   int64  `json:"candidateId"`
	CandidateName string `json:"candidateName"`
	Present       int    `json:"present"`
	Uncertain     int    `json:"uncertain"`
	Absent        int    `json:"absent"`
	Rank          int    `json:"rank"` // 1-indexed ranking
}

type ScheduleView struct {
	Schedule     Schedule           `json:"schedule"`
	Owner        *User              `json:"owner,omitempty"`
	Viewer       User               `json:"viewer"`
	IsOwner      bool               `json:"isOwner"`
	Candidates   []Candidate        `json:"candidates"`
	Participants []Participant      `json:"participants"`
	Rows         []ParticipantRow   `json:"rows"`
	Summary      []CandidateSummary `json:"summary"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
