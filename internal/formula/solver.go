package formula

import "math"

// DefaultMaxPasses bounds the relaxation loop of Solve.
const DefaultMaxPasses = 1000

// Equation binds a variable to a formula. A nil Formula means the value must
// already be known.
type Equation struct {
	Var     string
	Formula *Expr
}

// Equations is an insertion-ordered set of equations keyed by variable.
// Redefining a variable replaces its formula in place.
type Equations struct {
	entries []Equation
	index   map[string]int
}

// Set binds name to f, keeping the original position when name already exists.
func (eq *Equations) Set(name string, f *Expr) {
	if eq.index == nil {
		eq.index = make(map[string]int)
	}
	if i, ok := eq.index[name]; ok {
		eq.entries[i].Formula = f
		return
	}
	eq.index[name] = len(eq.entries)
	eq.entries = append(eq.entries, Equation{Var: name, Formula: f})
}

// Require marks name as an input that must be known already.
func (eq *Equations) Require(name string) {
	eq.Set(name, nil)
}

// Merge writes every equation of other over eq, in other's order.
func (eq *Equations) Merge(other Equations) {
	for _, e := range other.entries {
		eq.Set(e.Var, e.Formula)
	}
}

// Entries returns the equations in insertion order.
func (eq Equations) Entries() []Equation {
	out := make([]Equation, len(eq.entries))
	copy(out, eq.entries)
	return out
}

// Report describes how a Solve call went.
type Report struct {
	Passes     int      `json:"passes"`
	Resolved   []string `json:"resolved,omitempty"`
	Unresolved []string `json:"unresolved,omitempty"`
}

// Converged reports whether every formula resolved.
func (r Report) Converged() bool { return len(r.Unresolved) == 0 }

// Solver resolves equations by repeated passes until nothing changes or the
// pass budget runs out.
type Solver struct {
	MaxPasses int
}

// Solve resolves with the default pass budget.
func Solve(eqs Equations, known Values) Values {
	out, _ := Solver{}.Solve(eqs, known)
	return out
}

// Solve evaluates every formula whose variable is not yet known against the
// numbers known so far. A result is kept only when it is finite, and the first
// value written for a variable is never replaced. Known values without a
// formula pass through unchanged, nulls included.
func (s Solver) Solve(eqs Equations, known Values) (Values, Report) {
	maxPasses := s.MaxPasses
	if maxPasses <= 0 {
		maxPasses = DefaultMaxPasses
	}

	scope := make(MapScope, len(known))
	results := make(Values, len(known))
	for k, v := range known {
		if n, ok := v.Float(); ok {
			scope[k] = n
		}
		if !v.IsNull() {
			results[k] = v
		}
	}

	var report Report
	for pass := 0; pass < maxPasses; pass++ {
		report.Passes = pass + 1
		progressed := false
		for _, e := range eqs.entries {
			if e.Formula == nil {
				continue
			}
			if v, ok := results[e.Var]; ok && !v.IsNull() {
				continue
			}
			x, err := e.Formula.Eval(scope)
			if err != nil || math.IsNaN(x) || math.IsInf(x, 0) {
				continue
			}
			results[e.Var] = Number(x)
			scope[e.Var] = x
			report.Resolved = append(report.Resolved, e.Var)
			progressed = true
		}
		// A pass without progress leaves the scope unchanged, so every later
		// pass would do the same.
		if !progressed {
			break
		}
	}

	for _, e := range eqs.entries {
		if e.Formula == nil {
			continue
		}
		if v, ok := results[e.Var]; !ok || v.IsNull() {
			report.Unresolved = append(report.Unresolved, e.Var)
		}
	}

	for k, v := range known {
		if _, ok := results[k]; !ok {
			results[k] = v
		}
	}
	return results, report
}
