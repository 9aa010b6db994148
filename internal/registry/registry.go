// Package registry builds the equation sets that tie the pro-forma variables
// together. Each builder returns the equations it contributes and a
// human-readable note per derivation; builders that settle a record field
// themselves return the updated record as well.
package registry

import (
	"strconv"

	"github.com/Simplici0/estatecalc/internal/formula"
)

// Registry is an ordered set of equations with its derivation notes.
type Registry struct {
	Equations formula.Equations
	Notes     []string
}

func (r *Registry) note(n string) {
	if n != "" {
		r.Notes = append(r.Notes, n)
	}
}

// given marks name as an input that is never derived.
func (r *Registry) given(name, note string) {
	r.note(note)
	r.Equations.Require(name)
}

// derive binds name to the formula src. Sources are fixed at build time so
// a compile failure is a programming error.
func (r *Registry) derive(name, src, note string) {
	r.note(note)
	r.Equations.Set(name, formula.MustCompile(src))
}

// literal binds name to a value computed outside the formula grammar.
func (r *Registry) literal(name string, v float64, note string) {
	r.note(note)
	r.Equations.Set(name, formula.Literal(v))
}

// deriveUnless binds name to src only when the value is not already known.
func (r *Registry) deriveUnless(known bool, name, src, note string) {
	if known {
		r.given(name, note)
		return
	}
	r.derive(name, src, note)
}

// Merge appends other's equations and notes; a variable other also defines
// takes other's formula.
func (r *Registry) Merge(other Registry) {
	r.Equations.Merge(other.Equations)
	r.Notes = append(r.Notes, other.Notes...)
}

// Formulas returns the formula text of every equation in order; inputs have
// no expression.
func (r Registry) Formulas() []Formula {
	entries := r.Equations.Entries()
	out := make([]Formula, len(entries))
	for i, e := range entries {
		out[i] = Formula{Var: e.Var}
		if e.Formula != nil {
			out[i].Expr = e.Formula.String()
			out[i].Inputs = e.Formula.Vars()
		}
	}
	return out
}

// Formula is the printable form of one equation.
type Formula struct {
	Var    string   `json:"var"`
	Expr   string   `json:"expr,omitempty"`
	Inputs []string `json:"inputs,omitempty"`
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
