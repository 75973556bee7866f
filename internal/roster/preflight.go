package roster

import "fmt"

// BudgetImpact describes how a hypothetical slot assignment would change
// total spend. NewTotal replaces whatever currently occupies the target slot,
// so re-selecting into the same slot never double-counts the old occupant.
type BudgetImpact struct {
	CurrentTotal int `json:"currentTotal"`
	NewTotal     int `json:"newTotal"`
	Remaining    int `json:"remaining"`
}

// Preflight is the result of a pre-commit check. It is validation-shaped
// data, never an error: a bad slot id, a duplicate, a gender mismatch, and a
// budget overrun all land in Errors with CanAdd false, and the caller decides
// whether to apply anything.
type Preflight struct {
	CanAdd       bool         `json:"canAdd"`
	Errors       []string     `json:"errors"`
	BudgetImpact BudgetImpact `json:"budgetImpact"`
}

// CanAddToSlot checks whether placing athlete a into slot would keep the
// roster consistent: the slot must exist, the athlete may not already occupy
// a different slot, the slot's gender must match, and the post-add total must
// fit within maxBudget (<= 0 means the default cap). The checks are
// independent; every failed one is reported, and BudgetImpact is populated
// regardless of the other outcomes. No side effects.
func CanAddToSlot(r Roster, slot Slot, a *Athlete, maxBudget int) Preflight {
	if maxBudget <= 0 {
		maxBudget = DefaultTotalBudget
	}

	current := r.TotalSalary()
	pf := Preflight{
		BudgetImpact: BudgetImpact{
			CurrentTotal: current,
			NewTotal:     current + a.EffectiveSalary(),
			Remaining:    maxBudget - current - a.EffectiveSalary(),
		},
	}

	if !slot.Valid() {
		pf.Errors = append(pf.Errors, fmt.Sprintf("unknown slot: %s", slot))
		return pf
	}

	// The replacement cost is only known once the slot id is valid.
	newTotal := current - r[slot].EffectiveSalary() + a.EffectiveSalary()
	pf.BudgetImpact.NewTotal = newTotal
	pf.BudgetImpact.Remaining = maxBudget - newTotal

	if a == nil {
		pf.Errors = append(pf.Errors, "no athlete given")
		return pf
	}

	for _, s := range AllSlots {
		if s == slot {
			continue
		}
		if occ := r[s]; occ != nil && occ.ID == a.ID {
			pf.Errors = append(pf.Errors, fmt.Sprintf("athlete %d already occupies slot %s", a.ID, s))
		}
	}

	if a.Gender != slot.Gender() {
		pf.Errors = append(pf.Errors, fmt.Sprintf("slot %s requires a %s athlete", slot, slot.Gender()))
	}

	if newTotal > maxBudget {
		pf.Errors = append(pf.Errors, fmt.Sprintf("adding athlete %d would spend %d of %d budget (over by %d)", a.ID, newTotal, maxBudget, newTotal-maxBudget))
	}

	pf.CanAdd = len(pf.Errors) == 0
	return pf
}
