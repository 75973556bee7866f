// Package roster defines the salary-cap roster domain: athletes, the fixed
// six-slot roster layout, and the budget configuration the validation rules
// run against.
package roster

// DefaultSalary is the price assumed for an athlete whose salary is missing.
// Malformed pool data degrades gracefully instead of failing validation.
const DefaultSalary = 5000

// DefaultTotalBudget is the salary cap applied when no override is configured.
const DefaultTotalBudget = 30000

// Gender determines which roster slots an athlete may occupy.
type Gender string

const (
	GenderMen   Gender = "men"
	GenderWomen Gender = "women"
)

// Slot is one of the six fixed roster positions. The set is closed at design
// time; slots are never created dynamically.
type Slot string

const (
	SlotM1 Slot = "M1"
	SlotM2 Slot = "M2"
	SlotM3 Slot = "M3"
	SlotW1 Slot = "W1"
	SlotW2 Slot = "W2"
	SlotW3 Slot = "W3"
)

// AllSlots lists every slot in canonical order (men first, then women).
// Validation messages and serialized output follow this order.
var AllSlots = []Slot{SlotM1, SlotM2, SlotM3, SlotW1, SlotW2, SlotW3}

// Valid reports whether s is one of the six known slot identifiers.
func (s Slot) Valid() bool {
	switch s {
	case SlotM1, SlotM2, SlotM3, SlotW1, SlotW2, SlotW3:
		return true
	}
	return false
}

// Gender returns the gender an athlete must have to occupy this slot.
// Unknown slots return the empty Gender.
func (s Slot) Gender() Gender {
	switch s {
	case SlotM1, SlotM2, SlotM3:
		return GenderMen
	case SlotW1, SlotW2, SlotW3:
		return GenderWomen
	}
	return ""
}

// Athlete is a draftable competitor. The engine only reads these fields; the
// persistence layer owns the athlete lifecycle.
type Athlete struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Gender Gender `json:"gender"`
	Salary int    `json:"salary"`
	Rank   int    `json:"rank,omitempty"` // lower is better; 0 = unranked
}

// EffectiveSalary returns the athlete's salary, substituting DefaultSalary
// when the salary is missing or non-positive.
func (a *Athlete) EffectiveSalary() int {
	if a == nil {
		return 0
	}
	if a.Salary <= 0 {
		return DefaultSalary
	}
	return a.Salary
}

// Roster maps each slot to its occupant, or nil while the slot is empty.
// Transient invalid states are allowed; rosters are built incrementally and
// rules are checked by Validate, never silently enforced on write.
type Roster map[Slot]*Athlete

// NewRoster returns a roster with all six slots present and empty.
func NewRoster() Roster {
	r := make(Roster, len(AllSlots))
	for _, s := range AllSlots {
		r[s] = nil
	}
	return r
}

// Clone returns a shallow copy of the roster (slot map copied, athletes shared).
func (r Roster) Clone() Roster {
	out := make(Roster, len(AllSlots))
	for _, s := range AllSlots {
		out[s] = r[s]
	}
	return out
}

// FilledCount returns how many of the given slots hold an athlete.
func (r Roster) FilledCount(slots []Slot) int {
	n := 0
	for _, s := range slots {
		if r[s] != nil {
			n++
		}
	}
	return n
}

// TotalSalary sums the effective salary of every athlete on the roster.
func (r Roster) TotalSalary() int {
	total := 0
	for _, s := range AllSlots {
		total += r[s].EffectiveSalary()
	}
	return total
}

// Config holds the salary-cap rules for one game. Supplied once at session
// creation and treated as immutable thereafter.
type Config struct {
	TotalBudget int    `json:"totalBudget"`
	MenSlots    []Slot `json:"menSlots"`
	WomenSlots  []Slot `json:"womenSlots"`
}

// DefaultConfig returns the standard 30000-cap, 3-men/3-women configuration.
func DefaultConfig() Config {
	return Config{
		TotalBudget: DefaultTotalBudget,
		MenSlots:    []Slot{SlotM1, SlotM2, SlotM3},
		WomenSlots:  []Slot{SlotW1, SlotW2, SlotW3},
	}
}

// Normalized returns the config with zero-valued fields replaced by defaults,
// so a partially populated config (e.g. budget only) behaves sensibly.
func (c Config) Normalized() Config {
	def := DefaultConfig()
	if c.TotalBudget <= 0 {
		c.TotalBudget = def.TotalBudget
	}
	if len(c.MenSlots) == 0 {
		c.MenSlots = def.MenSlots
	}
	if len(c.WomenSlots) == 0 {
		c.WomenSlots = def.WomenSlots
	}
	return c
}
