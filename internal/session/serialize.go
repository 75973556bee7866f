package session

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/stridefantasy/roster-engine/internal/roster"
)

// snapshot is the flat persisted shape of a session. Current is deliberately
// absent: the enum is re-derived from slots and the lock flag on load, so a
// corrupted stored state can never be restored.
type snapshot struct {
	Slots               map[roster.Slot]*roster.Athlete `json:"slots"`
	TotalSpent          int                             `json:"totalSpent"`
	RemainingBudget     int                             `json:"remainingBudget"`
	IsSubmitted         bool                            `json:"isSubmitted"`
	IsPermanentlyLocked bool                            `json:"isPermanentlyLocked"`
	LastModified        time.Time                       `json:"lastModified"`
	Config              roster.Config                   `json:"config"`
}

// Serialize renders the session as a flat JSON document suitable for storing
// as a single blob.
func (s *Session) Serialize() ([]byte, error) {
	snap := snapshot{
		Slots:               make(map[roster.Slot]*roster.Athlete),
		TotalSpent:          s.TotalSpent,
		RemainingBudget:     s.RemainingBudget,
		IsSubmitted:         s.IsSubmitted,
		IsPermanentlyLocked: s.IsPermanentlyLocked,
		LastModified:        s.LastModified,
		Config:              s.Config,
	}
	for _, slot := range roster.AllSlots {
		if a := s.Slots[slot]; a != nil {
			snap.Slots[slot] = a
		}
	}
	return json.Marshal(snap)
}

// Deserialize rebuilds a session from a serialized blob. Totals and the state
// enum are recomputed from the slots rather than trusted from storage.
func Deserialize(data []byte) (*Session, error) {
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	s := New(snap.Config)
	s.Load(snap.Slots, snap.IsPermanentlyLocked)
	s.IsSubmitted = snap.IsSubmitted
	s.LastModified = snap.LastModified
	return s, nil
}
