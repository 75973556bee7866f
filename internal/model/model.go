// Package model defines the transport-facing shapes of the roster API:
// request payloads and the session view returned by every session endpoint.
package model

import (
	"time"

	"github.com/stridefantasy/roster-engine/internal/roster"
	"github.com/stridefantasy/roster-engine/internal/session"
)

// SessionView is the API representation of a draft session. Slots only carry
// filled positions; CanEdit/CanSubmit are derived server-side so clients
// never re-implement the rules.
type SessionView struct {
	ID              string                          `json:"id"`
	Slots           map[roster.Slot]*roster.Athlete `json:"slots"`
	TotalSpent      int                             `json:"total_spent"`
	RemainingBudget int                             `json:"remaining_budget"`
	State           session.State                   `json:"state"`
	IsSubmitted     bool                            `json:"is_submitted"`
	IsLocked        bool                            `json:"is_locked"`
	CanEdit         bool                            `json:"can_edit"`
	CanSubmit       bool                            `json:"can_submit"`
	TotalBudget     int                             `json:"total_budget"`
	LastModified    time.Time                       `json:"last_modified"`
	Version         int                             `json:"version"`
}

// NewSessionView projects a session (plus its storage identity) into the API shape.
func NewSessionView(id string, version int, s *session.Session) *SessionView {
	slots := make(map[roster.Slot]*roster.Athlete)
	for _, slot := range roster.AllSlots {
		if a := s.Slots[slot]; a != nil {
			slots[slot] = a
		}
	}
	return &SessionView{
		ID:              id,
		Slots:           slots,
		TotalSpent:      s.TotalSpent,
		RemainingBudget: s.RemainingBudget,
		State:           s.Current,
		IsSubmitted:     s.IsSubmitted,
		IsLocked:        s.IsPermanentlyLocked,
		CanEdit:         s.CanEdit(),
		CanSubmit:       s.CanSubmit(),
		TotalBudget:     s.Config.TotalBudget,
		LastModified:    s.LastModified,
		Version:         version,
	}
}

// SetSlotRequest is the payload for assigning an athlete to a slot.
type SetSlotRequest struct {
	AthleteID int `json:"athlete_id"`
}

// SubmitRejection is returned when a submit attempt fails validation. The
// rejection is data, not an exception: the full rule detail rides along.
type SubmitRejection struct {
	Error      string        `json:"error"`
	Validation roster.Result `json:"validation"`
}

// ErrorResponse is a standard JSON error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}
