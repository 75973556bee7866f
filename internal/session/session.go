// Package session implements the draft-session state machine wrapping a
// roster: add/remove/clear/submit/lock transitions, derived spend totals, and
// the state enum re-derived from facts after every mutation and load.
package session

import (
	"time"

	"github.com/stridefantasy/roster-engine/internal/roster"
)

// State is the draft session's position in its lifecycle.
type State string

const (
	StateInitial        State = "INITIAL"
	StateSelecting      State = "SELECTING"
	StateRosterComplete State = "ROSTER_COMPLETE"
	StateSubmitting     State = "SUBMITTING"
	StateSubmitted      State = "SUBMITTED"
	StateLocked         State = "LOCKED"
)

// Session is one player's draft session for one race. Totals are always
// derived from Slots, never independently settable; Current is a cache of
// derivable facts and is recomputed after every mutation and load.
type Session struct {
	Slots               roster.Roster
	TotalSpent          int
	RemainingBudget     int
	Current             State
	IsSubmitted         bool
	IsPermanentlyLocked bool
	LastModified        time.Time
	Config              roster.Config
}

// New creates a session with all slots empty and the full budget remaining.
func New(cfg roster.Config) *Session {
	s := &Session{
		Slots:   roster.NewRoster(),
		Current: StateInitial,
		Config:  cfg.Normalized(),
	}
	s.recompute()
	return s
}

// AddAthlete places a into the given slot, replacing any current occupant.
// A locked session is a silent no-op; UI races around the lock deadline must
// not surface as failures. Unknown slots are ignored.
func (s *Session) AddAthlete(slot roster.Slot, a *roster.Athlete) {
	if s.IsPermanentlyLocked || !slot.Valid() {
		return
	}
	s.Slots[slot] = a
	s.recompute()
	s.Current = deriveActiveState(s.Slots, s.Config)
	s.touch()
}

// RemoveAthlete empties the given slot. A roster missing any athlete can
// never be complete, so the session always lands in SELECTING.
func (s *Session) RemoveAthlete(slot roster.Slot) {
	if s.IsPermanentlyLocked || !slot.Valid() {
		return
	}
	s.Slots[slot] = nil
	s.recompute()
	s.Current = StateSelecting
	s.touch()
}

// Clear empties every slot and returns the session to INITIAL.
func (s *Session) Clear() {
	if s.IsPermanentlyLocked {
		return
	}
	s.Slots = roster.NewRoster()
	s.recompute()
	s.Current = StateInitial
	s.touch()
}

// SetSubmitting marks the session as mid-submission. Edits are refused while
// the external persistence call is in flight.
func (s *Session) SetSubmitting() {
	if s.IsPermanentlyLocked {
		return
	}
	s.Current = StateSubmitting
	s.touch()
}

// SetSubmitted records a confirmed submission. It applies unconditionally,
// with or without a prior SetSubmitting, once the caller has confirmed the
// write succeeded.
func (s *Session) SetSubmitted() {
	if s.IsPermanentlyLocked {
		return
	}
	s.IsSubmitted = true
	s.Current = StateSubmitted
	s.touch()
}

// Lock permanently freezes the session. There is no unlock; a new session
// must be created for a later race.
func (s *Session) Lock() {
	s.IsPermanentlyLocked = true
	s.Current = StateLocked
	s.touch()
}

// Load reconstructs the session from externally persisted slot data, deriving
// Current from the saved facts rather than trusting a stored enum. Restoring
// saved state is not itself a transition.
func (s *Session) Load(saved map[roster.Slot]*roster.Athlete, locked bool) {
	s.Slots = roster.NewRoster()
	for slot, a := range saved {
		if slot.Valid() {
			s.Slots[slot] = a
		}
	}
	s.IsPermanentlyLocked = locked
	s.recompute()
	s.Current = DeriveState(s.Slots, s.Config, locked)
}

// CanEdit reports whether roster mutations are currently allowed.
func (s *Session) CanEdit() bool {
	return !s.IsPermanentlyLocked && s.Current != StateSubmitting
}

// CanSubmit reports whether the roster may be submitted right now. Derived
// on demand, never cached.
func (s *Session) CanSubmit() bool {
	if s.IsPermanentlyLocked || s.Current == StateSubmitting {
		return false
	}
	return roster.Validate(s.Slots, s.Config).IsValid
}

// Validate runs the full rule set against the current roster.
func (s *Session) Validate() roster.Result {
	return roster.Validate(s.Slots, s.Config)
}

// DeriveState computes the state enum from persisted facts. It is the single
// source of truth for the enum: called after every mutation and after every
// load, so stored data can never desynchronize from it.
func DeriveState(slots roster.Roster, cfg roster.Config, locked bool) State {
	if locked {
		return StateLocked
	}
	return deriveActiveState(slots, cfg)
}

func deriveActiveState(slots roster.Roster, cfg roster.Config) State {
	res := roster.Validate(slots, cfg)
	if res.Details.SlotsFilled.IsValid && res.IsValid {
		return StateRosterComplete
	}
	if slots.FilledCount(roster.AllSlots) > 0 {
		return StateSelecting
	}
	return StateInitial
}

// recompute rebuilds both totals from the slots. Always from scratch, never
// incrementally, so the totals cannot drift from the source of truth.
func (s *Session) recompute() {
	s.TotalSpent = s.Slots.TotalSalary()
	s.RemainingBudget = s.Config.TotalBudget - s.TotalSpent
}

func (s *Session) touch() {
	s.LastModified = time.Now().UTC()
}
