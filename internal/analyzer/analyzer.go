// Package analyzer runs the multi-year pro-forma: it parses each year's cells
// into records, resolves every derivable figure and threads the loan balance
// and cumulative net cash flow from one year into the next.
package analyzer

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/Simplici0/estatecalc/internal/entity"
	"github.com/Simplici0/estatecalc/internal/formula"
	"github.com/Simplici0/estatecalc/internal/registry"
)

// ExtraYears is how many years past the loan term are simulated.
const ExtraYears = 3

// Analyzer runs analyses. The zero value is ready to use and logs nothing.
type Analyzer struct {
	Solver formula.Solver
	Logger zerolog.Logger
}

// New returns an Analyzer logging to logger with the given solver pass
// budget; a non-positive budget uses the default.
func New(logger zerolog.Logger, maxPasses int) *Analyzer {
	return &Analyzer{
		Solver: formula.Solver{MaxPasses: maxPasses},
		Logger: logger.With().Str("component", "analyzer").Logger(),
	}
}

// Analyze runs d with a silent default Analyzer.
func Analyze(d Dataset) Dataset {
	return New(zerolog.Nop(), 0).Analyze(d)
}

// yearResult is what one run of the pipeline produces.
type yearResult struct {
	values   formula.Values
	notes    []string
	formulas []registry.Formula
	report   formula.Report
	entities entity.Entities
}

// Analyze computes year 1 from the fixed cells and the year-1 cells, then
// every following year up to the loan term plus ExtraYears. The input is not
// modified. A failing year stops the run with the error recorded and the
// earlier years kept.
func (a *Analyzer) Analyze(in Dataset) Dataset {
	out := Dataset{
		FixedCells:  entity.CloneCells(in.FixedCells),
		YearlyCells: cloneYearly(in.YearlyCells),
	}

	yearCells := entity.CloneCells(in.YearlyCells["1"])
	res, err := a.runYear(1, join(out.FixedCells, yearCells))
	if err != nil {
		out.Err, out.Error = err, err.Error()
		return out
	}

	out.YearlyCells = map[string][]entity.Cell{}
	UpdateCells(out.FixedCells, res.values)
	yearCells = UpdateCells(yearCells, res.values)
	out.YearlyCells["1"] = yearCells
	out.Outputs = append(out.Outputs, YearOutput{Year: 1, Values: res.values.Clone(), Notes: res.notes, Formulas: res.formulas, Report: res.report})

	years := int(math.Ceil(float64(res.entities.LoanInfo.TermMonths)/12)) + ExtraYears
	column := 0
	if len(yearCells) > 0 {
		column = yearCells[0].ColumnIndex
	}

	prev, prevCells := res.values, yearCells
	for year := 2; year <= years; year++ {
		label := strconv.Itoa(year)
		template, ok := in.YearlyCells[label]
		if ok {
			template = entity.CloneCells(template)
		} else {
			template = entity.CloneCells(prevCells)
		}
		col := column + year - 1
		for i := range template {
			template[i].ColumnIndex = col
			template[i].YearTag = entity.IntPtr(year)
		}
		template = upsert(template, entity.KeyYearsElapsed, label, col, year)
		if v, ok := prev[registry.KeyDebtEnd]; ok && !v.IsNull() {
			template = upsert(template, entity.KeyPriorBalance, v.String(), col, year)
		}
		if v, ok := prev[registry.KeyNetAmountAll]; ok && !v.IsNull() {
			template = upsert(template, entity.KeyPriorCumulativeNet, v.String(), col, year)
		}

		res, err := a.runYear(year, join(out.FixedCells, template))
		if err != nil {
			err = fmt.Errorf("year %d: %w", year, err)
			out.Err, out.Error = err, err.Error()
			a.Logger.Warn().Err(err).Int("year", year).Msg("analysis stopped")
			break
		}

		values := prev.Clone()
		values[entity.KeyYearsElapsed] = formula.Number(float64(year))
		values = values.Overlay(res.values)

		UpdateCells(out.FixedCells, values)
		template = UpdateCells(template, values)
		out.YearlyCells[label] = template
		out.Outputs = append(out.Outputs, YearOutput{Year: year, Values: values.Clone(), Notes: res.notes, Formulas: res.formulas, Report: res.report})
		prev, prevCells = values, template
	}

	a.Logger.Debug().Int("years", len(out.Outputs)).Msg("analysis finished")
	return out
}

func join(fixed, yearly []entity.Cell) []entity.Cell {
	cells := make([]entity.Cell, 0, len(fixed)+len(yearly))
	cells = append(cells, fixed...)
	return append(cells, yearly...)
}

var errUnresolvedDebt = errors.New("debt could not be resolved from the purchase figures")

func (a *Analyzer) solve(year int, stage string, eqs formula.Equations, known formula.Values) (formula.Values, formula.Report) {
	vals, report := a.Solver.Solve(eqs, known)
	if !report.Converged() {
		a.Logger.Debug().Int("year", year).Str("stage", stage).Int("passes", report.Passes).
			Strs("unresolved", report.Unresolved).Msg("formulas left unresolved")
	}
	return vals, report
}

// runYear resolves one year from its full set of cells.
func (a *Analyzer) runYear(year int, cells []entity.Cell) (yearResult, error) {
	e, err := entity.Parse(cells)
	if err != nil {
		return yearResult{}, err
	}
	if e, err = triangulate(e); err != nil {
		return yearResult{}, err
	}

	// Prices first, then once more with the settled prices written back.
	pricing := registry.Pricing()
	vals, _ := a.solve(year, "pricing", pricing.Equations, e.Values())
	if p, ok := vals.Number(entity.KeyBuildingPrice); ok {
		e.Building = e.Building.WithPrice(p)
	}
	if p, ok := vals.Number(entity.KeyLandPrice); ok {
		e.Land = e.Land.WithPrice(p)
	}
	vals, _ = a.solve(year, "pricing", pricing.Equations, e.Values())

	initCost, e := registry.InitialCost(e)
	vals, _ = a.solve(year, "initial cost", initCost.Equations, vals.Overlay(e.Values()))
	debt, ok := vals.Number(registry.KeyDebt)
	if !ok {
		return yearResult{}, errUnresolvedDebt
	}

	reg, e := registry.InitialCost(e)
	vals = vals.Overlay(e.Values())

	loan, loanInfo, _ := registry.Loan(debt, e.LoanInfo, e.Estate)
	e.LoanInfo = loanInfo
	reg.Merge(loan)
	vals = vals.Overlay(loanInfo.Values())

	reg.Merge(registry.Yearly(e, nil))
	other := registry.Other(e)
	reg.Merge(other)
	first, _ := a.solve(year, "yearly", reg.Equations, vals)

	// Clamp pass: taxable income is fixed at its first-pass amount floored at
	// zero. The sale figures keep their first build.
	taxable, ok := first.Number(registry.KeyTaxableIncome)
	if !ok {
		taxable = 0
	}
	reg.Equations.Merge(registry.Yearly(e, &taxable).Equations)
	reg.Equations.Merge(other.Equations)

	final, report := a.solve(year, "clamp", reg.Equations, vals)
	a.Logger.Debug().Int("year", year).Int("passes", report.Passes).Int("resolved", len(report.Resolved)).Msg("year solved")

	return yearResult{values: final, notes: reg.Notes, formulas: reg.Formulas(), report: report, entities: e}, nil
}
