// Validation rules for the salary-cap roster. Every check is an independent
// pure predicate; Validate runs all of them and aggregates, never stopping at
// the first failure, so callers can surface every problem at once.
package roster

import (
	"fmt"
	"sort"
	"strings"
)

// Result is the aggregate outcome of validating a roster. IsValid is the
// logical AND of all six checks; Errors concatenates each check's messages in
// a fixed order (slots filled, men quota, women quota, budget, duplicates,
// slot genders).
type Result struct {
	IsValid bool     `json:"isValid"`
	Errors  []string `json:"errors"`
	Details Details  `json:"details"`
}

// Details exposes the per-check results behind the aggregate verdict.
type Details struct {
	SlotsFilled SlotsFilledCheck `json:"slotsFilled"`
	MenQuota    QuotaCheck       `json:"menQuota"`
	WomenQuota  QuotaCheck       `json:"womenQuota"`
	Budget      BudgetCheck      `json:"budget"`
	Duplicates  DuplicateCheck   `json:"duplicates"`
	SlotGenders GenderCheck      `json:"slotGenders"`
}

// SlotsFilledCheck reports which slots are still empty.
type SlotsFilledCheck struct {
	IsValid    bool   `json:"isValid"`
	EmptySlots []Slot `json:"emptySlots"`
}

// QuotaCheck reports filled vs required slots for one gender category.
type QuotaCheck struct {
	IsValid  bool `json:"isValid"`
	Filled   int  `json:"filled"`
	Required int  `json:"required"`
}

// BudgetCheck reports spend against the cap. Overage is zero when under or
// exactly at the cap; exactly-at-cap is valid.
type BudgetCheck struct {
	IsValid   bool `json:"isValid"`
	Spent     int  `json:"spent"`
	Cap       int  `json:"cap"`
	Remaining int  `json:"remaining"`
	Overage   int  `json:"overage"`
}

// DuplicateCheck reports athlete ids occupying more than one slot.
type DuplicateCheck struct {
	IsValid      bool  `json:"isValid"`
	DuplicateIDs []int `json:"duplicateIds"`
}

// GenderCheck reports slots whose occupant has the wrong gender.
type GenderCheck struct {
	IsValid        bool   `json:"isValid"`
	ViolatingSlots []Slot `json:"violatingSlots"`
}

// Validate checks a roster against every salary-cap rule and returns the full
// pass/fail detail. It is a pure function: same roster and config in, same
// result out, no mutation.
func Validate(r Roster, cfg Config) Result {
	cfg = cfg.Normalized()

	details := Details{
		SlotsFilled: ValidateSlotsFilled(r),
		MenQuota:    ValidateQuota(r, cfg.MenSlots),
		WomenQuota:  ValidateQuota(r, cfg.WomenSlots),
		Budget:      ValidateBudget(r, cfg.TotalBudget),
		Duplicates:  ValidateDuplicates(r),
		SlotGenders: ValidateSlotGenders(r, cfg),
	}

	var errs []string
	if !details.SlotsFilled.IsValid {
		errs = append(errs, fmt.Sprintf("missing athletes in slots: %s", joinSlots(details.SlotsFilled.EmptySlots)))
	}
	if !details.MenQuota.IsValid {
		errs = append(errs, fmt.Sprintf("men's slots filled %d of %d required", details.MenQuota.Filled, details.MenQuota.Required))
	}
	if !details.WomenQuota.IsValid {
		errs = append(errs, fmt.Sprintf("women's slots filled %d of %d required", details.WomenQuota.Filled, details.WomenQuota.Required))
	}
	if !details.Budget.IsValid {
		errs = append(errs, fmt.Sprintf("budget exceeded: spent %d of %d cap (over by %d)", details.Budget.Spent, details.Budget.Cap, details.Budget.Overage))
	}
	if !details.Duplicates.IsValid {
		for _, id := range details.Duplicates.DuplicateIDs {
			errs = append(errs, fmt.Sprintf("athlete %d is selected in more than one slot", id))
		}
	}
	if !details.SlotGenders.IsValid {
		for _, s := range details.SlotGenders.ViolatingSlots {
			errs = append(errs, fmt.Sprintf("slot %s requires a %s athlete", s, s.Gender()))
		}
	}

	return Result{
		IsValid: len(errs) == 0,
		Errors:  errs,
		Details: details,
	}
}

// ValidateSlotsFilled checks that every slot holds an athlete.
func ValidateSlotsFilled(r Roster) SlotsFilledCheck {
	var empty []Slot
	for _, s := range AllSlots {
		if r[s] == nil {
			empty = append(empty, s)
		}
	}
	return SlotsFilledCheck{IsValid: len(empty) == 0, EmptySlots: empty}
}

// ValidateQuota checks that every slot in one gender category is filled.
func ValidateQuota(r Roster, slots []Slot) QuotaCheck {
	filled := r.FilledCount(slots)
	return QuotaCheck{
		IsValid:  filled == len(slots),
		Filled:   filled,
		Required: len(slots),
	}
}

// ValidateBudget checks total spend against the cap. The boundary is
// inclusive: spending exactly the cap is valid.
func ValidateBudget(r Roster, totalBudget int) BudgetCheck {
	if totalBudget <= 0 {
		totalBudget = DefaultTotalBudget
	}
	spent := r.TotalSalary()
	check := BudgetCheck{
		Spent:     spent,
		Cap:       totalBudget,
		Remaining: totalBudget - spent,
	}
	if spent > totalBudget {
		check.Overage = spent - totalBudget
	} else {
		check.IsValid = true
	}
	return check
}

// ValidateDuplicates checks that no athlete id occupies more than one slot.
// Detection is order-independent: which two slots collide does not matter.
func ValidateDuplicates(r Roster) DuplicateCheck {
	seen := make(map[int]int, len(AllSlots))
	for _, s := range AllSlots {
		if a := r[s]; a != nil {
			seen[a.ID]++
		}
	}
	var dups []int
	for id, n := range seen {
		if n > 1 {
			dups = append(dups, id)
		}
	}
	sort.Ints(dups)
	return DuplicateCheck{IsValid: len(dups) == 0, DuplicateIDs: dups}
}

// ValidateSlotGenders checks that men's slots hold men and women's slots hold
// women. Empty slots never violate; that is the slots-filled check's job.
func ValidateSlotGenders(r Roster, cfg Config) GenderCheck {
	cfg = cfg.Normalized()
	var bad []Slot
	for _, s := range cfg.MenSlots {
		if a := r[s]; a != nil && a.Gender != GenderMen {
			bad = append(bad, s)
		}
	}
	for _, s := range cfg.WomenSlots {
		if a := r[s]; a != nil && a.Gender != GenderWomen {
			bad = append(bad, s)
		}
	}
	return GenderCheck{IsValid: len(bad) == 0, ViolatingSlots: bad}
}

func joinSlots(slots []Slot) string {
	parts := make([]string, len(slots))
	for i, s := range slots {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}
