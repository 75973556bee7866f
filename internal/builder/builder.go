// Package builder generates valid salary-cap rosters from a priced athlete
// pool without human interaction. A strategy biases the pick order and splits
// the budget between the men's and women's selections; the selection itself
// is a greedy walk with a cheapest-first fallback.
package builder

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/stridefantasy/roster-engine/internal/roster"
)

// PicksPerGender is how many athletes each gender selection must produce.
const PicksPerGender = 3

// InfeasibleError reports that no 3 athletes fit under the requested budget,
// even cheapest-first. It carries the true minimum cost so callers can tell a
// bad strategy split from a mathematically unsatisfiable budget.
type InfeasibleError struct {
	Budget  int
	MinCost int
}

func (e *InfeasibleError) Error() string {
	return fmt.Sprintf("cannot pick %d athletes under budget %d: cheapest trio costs %d", PicksPerGender, e.Budget, e.MinCost)
}

// Strategy names an ordering preference and a budget split. Less orders the
// candidate pool; a nil Less means a randomized order (shuffle). MenShare is
// the fraction of the total budget offered to the men's selection; zero means
// an even split. The women's budget is always the remainder after the men's
// spend, never an independent allocation.
type Strategy struct {
	Name     string
	Less     func(a, b roster.Athlete) bool
	MenShare float64
}

// The four stock strategies. Premium chases expensive athletes, Value cheap
// ones, Elite the best-ranked, and Contrarian shuffles. Contrarian is
// intentionally non-deterministic across seeds and must not be used where
// reproducibility matters.
var (
	Premium    = Strategy{Name: "premium", Less: BySalaryDesc}
	Value      = Strategy{Name: "value", Less: BySalaryAsc}
	Elite      = Strategy{Name: "elite", Less: ByRankAsc}
	Contrarian = Strategy{Name: "contrarian"}
)

// Strategies lists the stock strategies by name.
var Strategies = map[string]Strategy{
	Premium.Name:    Premium,
	Value.Name:      Value,
	Elite.Name:      Elite,
	Contrarian.Name: Contrarian,
}

// BySalaryAsc orders cheapest first. Ties break on id for determinism.
func BySalaryAsc(a, b roster.Athlete) bool {
	sa, sb := a.EffectiveSalary(), b.EffectiveSalary()
	if sa != sb {
		return sa < sb
	}
	return a.ID < b.ID
}

// BySalaryDesc orders most expensive first.
func BySalaryDesc(a, b roster.Athlete) bool {
	sa, sb := a.EffectiveSalary(), b.EffectiveSalary()
	if sa != sb {
		return sa > sb
	}
	return a.ID < b.ID
}

// ByRankAsc orders best-ranked first; unranked athletes sort last.
func ByRankAsc(a, b roster.Athlete) bool {
	ra, rb := a.Rank, b.Rank
	if ra <= 0 {
		ra = int(^uint(0) >> 1)
	}
	if rb <= 0 {
		rb = int(^uint(0) >> 1)
	}
	if ra != rb {
		return ra < rb
	}
	return a.ID < b.ID
}

// PickThreeUnderBudget selects exactly 3 athletes from the pool whose summed
// effective salary fits within budget. The pool is never mutated; multiple
// builds may legitimately reuse the same athletes (daily-fantasy drafting,
// not snake-draft exclusivity). rng is only consulted for randomized
// strategies and may be nil otherwise.
//
// Selection walks the strategy's ordering greedily; if that fails to reach 3,
// it retries cheapest-first over the same pool, since an ordering preference
// must never make a feasible selection infeasible. If even cheapest-first
// fails, the budget itself is unsatisfiable and an InfeasibleError carrying
// the true minimum cost is returned.
func PickThreeUnderBudget(pool []roster.Athlete, budget int, strat Strategy, rng *rand.Rand) ([]roster.Athlete, error) {
	if len(pool) < PicksPerGender {
		return nil, fmt.Errorf("pool has %d athletes, need %d", len(pool), PicksPerGender)
	}

	if picks, ok := greedyPick(ordered(pool, strat, rng), budget); ok {
		return picks, nil
	}

	cheapest := ordered(pool, Value, nil)
	if picks, ok := greedyPick(cheapest, budget); ok {
		return picks, nil
	}

	minCost := 0
	for _, a := range cheapest[:PicksPerGender] {
		minCost += a.EffectiveSalary()
	}
	return nil, &InfeasibleError{Budget: budget, MinCost: minCost}
}

// BuildTeam assembles a full 3-men/3-women roster under the strategy. Men are
// picked first against the strategy's men budget; the women's budget is
// whatever remains of the total, which caps the whole roster by construction.
// The Validator still runs on the result as a final defense.
func BuildTeam(men, women []roster.Athlete, strat Strategy, cfg roster.Config, rng *rand.Rand) (roster.Roster, error) {
	cfg = cfg.Normalized()

	menBudget := strat.menBudget(cfg.TotalBudget)
	menPicks, err := PickThreeUnderBudget(men, menBudget, strat, rng)
	if err != nil {
		return nil, fmt.Errorf("men's selection: %w", err)
	}

	menSpent := 0
	for _, a := range menPicks {
		menSpent += a.EffectiveSalary()
	}

	womenPicks, err := PickThreeUnderBudget(women, cfg.TotalBudget-menSpent, strat, rng)
	if err != nil {
		return nil, fmt.Errorf("women's selection: %w", err)
	}

	r := roster.NewRoster()
	for i, slot := range cfg.MenSlots {
		a := menPicks[i]
		r[slot] = &a
	}
	for i, slot := range cfg.WomenSlots {
		a := womenPicks[i]
		r[slot] = &a
	}

	if res := roster.Validate(r, cfg); !res.IsValid {
		return nil, fmt.Errorf("generated roster failed validation: %v", res.Errors)
	}
	return r, nil
}

func (s Strategy) menBudget(total int) int {
	share := s.MenShare
	if share <= 0 || share >= 1 {
		share = 0.5
	}
	return int(float64(total) * share)
}

// ordered returns a sorted copy of the pool. The input is left untouched.
func ordered(pool []roster.Athlete, strat Strategy, rng *rand.Rand) []roster.Athlete {
	out := make([]roster.Athlete, len(pool))
	copy(out, pool)
	if strat.Less == nil {
		if rng != nil {
			rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
		}
		return out
	}
	sort.SliceStable(out, func(i, j int) bool { return strat.Less(out[i], out[j]) })
	return out
}

// greedyPick walks an already-ordered pool accepting athletes while they fit.
func greedyPick(candidates []roster.Athlete, budget int) ([]roster.Athlete, bool) {
	picks := make([]roster.Athlete, 0, PicksPerGender)
	total := 0
	for _, a := range candidates {
		cost := a.EffectiveSalary()
		if total+cost > budget {
			continue
		}
		picks = append(picks, a)
		total += cost
		if len(picks) == PicksPerGender {
			return picks, true
		}
	}
	return nil, false
}
