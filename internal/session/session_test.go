package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stridefantasy/roster-engine/internal/roster"
)

func man(id, salary int) *roster.Athlete {
	return &roster.Athlete{ID: id, Gender: roster.GenderMen, Salary: salary}
}

func woman(id, salary int) *roster.Athlete {
	return &roster.Athlete{ID: id, Gender: roster.GenderWomen, Salary: salary}
}

// fill completes the session with a valid 30000 roster.
func fill(s *Session) {
	s.AddAthlete(roster.SlotM1, man(1, 6000))
	s.AddAthlete(roster.SlotM2, man(2, 5000))
	s.AddAthlete(roster.SlotM3, man(3, 4000))
	s.AddAthlete(roster.SlotW1, woman(4, 6000))
	s.AddAthlete(roster.SlotW2, woman(5, 5000))
	s.AddAthlete(roster.SlotW3, woman(6, 4000))
}

func TestNew_StartsEmpty(t *testing.T) {
	s := New(roster.DefaultConfig())

	assert.Equal(t, StateInitial, s.Current)
	assert.Equal(t, 0, s.TotalSpent)
	assert.Equal(t, 30000, s.RemainingBudget)
	assert.False(t, s.IsSubmitted)
	assert.False(t, s.IsPermanentlyLocked)
}

func TestAddAthlete_TransitionsToSelectingThenComplete(t *testing.T) {
	s := New(roster.DefaultConfig())

	s.AddAthlete(roster.SlotM1, man(1, 6000))
	assert.Equal(t, StateSelecting, s.Current)
	assert.Equal(t, 6000, s.TotalSpent)
	assert.Equal(t, 24000, s.RemainingBudget)

	fill(s)
	assert.Equal(t, StateRosterComplete, s.Current)
	assert.Equal(t, 30000, s.TotalSpent)
	assert.True(t, s.CanSubmit())
}

func TestAddAthlete_FullButInvalidStaysSelecting(t *testing.T) {
	s := New(roster.DefaultConfig())
	fill(s)
	// Blow the budget: full roster, but the validator now fails it.
	s.AddAthlete(roster.SlotM1, man(1, 20000))

	assert.Equal(t, StateSelecting, s.Current)
	assert.Equal(t, 44000, s.TotalSpent)
	assert.Equal(t, -14000, s.RemainingBudget)
	assert.False(t, s.CanSubmit())
}

func TestAddAthlete_ReplacesOccupantAndRecomputes(t *testing.T) {
	s := New(roster.DefaultConfig())
	s.AddAthlete(roster.SlotM1, man(1, 6000))
	s.AddAthlete(roster.SlotM1, man(7, 8000))

	assert.Equal(t, 8000, s.TotalSpent, "totals recomputed from slots, not accumulated")
	assert.Equal(t, 7, s.Slots[roster.SlotM1].ID)
}

func TestRemoveAthlete_AlwaysSelecting(t *testing.T) {
	s := New(roster.DefaultConfig())
	fill(s)
	require.Equal(t, StateRosterComplete, s.Current)

	s.RemoveAthlete(roster.SlotW2)

	assert.Equal(t, StateSelecting, s.Current)
	assert.Equal(t, 25000, s.TotalSpent)
	assert.Nil(t, s.Slots[roster.SlotW2])
}

func TestClear_ReturnsToInitial(t *testing.T) {
	s := New(roster.DefaultConfig())
	fill(s)

	s.Clear()

	assert.Equal(t, StateInitial, s.Current)
	assert.Equal(t, 0, s.TotalSpent)
	assert.Equal(t, 30000, s.RemainingBudget)
}

func TestSubmitBracket(t *testing.T) {
	s := New(roster.DefaultConfig())
	fill(s)

	s.SetSubmitting()
	assert.Equal(t, StateSubmitting, s.Current)
	assert.False(t, s.CanEdit())
	assert.False(t, s.CanSubmit())

	s.SetSubmitted()
	assert.Equal(t, StateSubmitted, s.Current)
	assert.True(t, s.IsSubmitted)
}

func TestSetSubmitted_WithoutPriorSubmitting(t *testing.T) {
	s := New(roster.DefaultConfig())
	fill(s)

	s.SetSubmitted()

	assert.True(t, s.IsSubmitted)
	assert.Equal(t, StateSubmitted, s.Current)
}

func TestLock_MonotonicTowardLocked(t *testing.T) {
	s := New(roster.DefaultConfig())
	fill(s)
	s.Lock()

	require.Equal(t, StateLocked, s.Current)
	require.True(t, s.IsPermanentlyLocked)

	before := s.Slots.Clone()
	spent := s.TotalSpent

	// No sequence of mutations may change a locked session.
	s.AddAthlete(roster.SlotM1, man(99, 1000))
	s.RemoveAthlete(roster.SlotW1)
	s.Clear()
	s.SetSubmitting()
	s.SetSubmitted()

	assert.Equal(t, StateLocked, s.Current)
	assert.Equal(t, spent, s.TotalSpent)
	assert.Equal(t, before, s.Slots)
	assert.False(t, s.CanEdit())
	assert.False(t, s.CanSubmit())
	assert.False(t, s.IsSubmitted)
}

func TestAddAthlete_UnknownSlotIgnored(t *testing.T) {
	s := New(roster.DefaultConfig())
	s.AddAthlete(roster.Slot("Z1"), man(1, 5000))

	assert.Equal(t, StateInitial, s.Current)
	assert.Equal(t, 0, s.TotalSpent)
	assert.Len(t, s.Slots, 6)
}

func TestDeriveState(t *testing.T) {
	cfg := roster.DefaultConfig()
	empty := roster.NewRoster()

	partial := roster.NewRoster()
	partial[roster.SlotM1] = man(1, 5000)

	full := roster.NewRoster()
	full[roster.SlotM1] = man(1, 6000)
	full[roster.SlotM2] = man(2, 5000)
	full[roster.SlotM3] = man(3, 4000)
	full[roster.SlotW1] = woman(4, 6000)
	full[roster.SlotW2] = woman(5, 5000)
	full[roster.SlotW3] = woman(6, 4000)

	tests := []struct {
		name   string
		slots  roster.Roster
		locked bool
		want   State
	}{
		{"empty unlocked", empty, false, StateInitial},
		{"partial unlocked", partial, false, StateSelecting},
		{"full valid unlocked", full, false, StateRosterComplete},
		{"locked wins over everything", full, true, StateLocked},
		{"empty locked", empty, true, StateLocked},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveState(tt.slots, cfg, tt.locked))
		})
	}
}

func TestLoad_DerivesStateFromFacts(t *testing.T) {
	saved := map[roster.Slot]*roster.Athlete{
		roster.SlotM1: man(1, 6000),
		roster.SlotW1: woman(4, 6000),
	}

	s := New(roster.DefaultConfig())
	s.Load(saved, false)

	assert.Equal(t, StateSelecting, s.Current)
	assert.Equal(t, 12000, s.TotalSpent)
	assert.Equal(t, 18000, s.RemainingBudget)

	locked := New(roster.DefaultConfig())
	locked.Load(saved, true)
	assert.Equal(t, StateLocked, locked.Current)
	assert.False(t, locked.CanEdit())
}

func TestSerialize_RoundTrip(t *testing.T) {
	s := New(roster.DefaultConfig())
	fill(s)
	s.SetSubmitted()

	data, err := s.Serialize()
	require.NoError(t, err)
	assert.NotContains(t, string(data), "currentState", "the enum is never persisted")

	got, err := Deserialize(data)
	require.NoError(t, err)

	assert.Equal(t, s.Slots, got.Slots)
	assert.Equal(t, s.TotalSpent, got.TotalSpent)
	assert.Equal(t, s.RemainingBudget, got.RemainingBudget)
	assert.True(t, got.IsSubmitted)
	assert.False(t, got.IsPermanentlyLocked)
	// Current is re-derived from slots + lock flag, not read from storage.
	assert.Equal(t, StateRosterComplete, got.Current)
	assert.Equal(t, s.Config, got.Config)
}

func TestDeserialize_LockedSession(t *testing.T) {
	s := New(roster.DefaultConfig())
	fill(s)
	s.Lock()

	data, err := s.Serialize()
	require.NoError(t, err)

	got, err := Deserialize(data)
	require.NoError(t, err)

	assert.Equal(t, StateLocked, got.Current)
	assert.True(t, got.IsPermanentlyLocked)
}

func TestDeserialize_Garbage(t *testing.T) {
	_, err := Deserialize([]byte("{not json"))
	require.Error(t, err)
}
