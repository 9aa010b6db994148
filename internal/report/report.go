// Package report renders an analysis as a Markdown document and as HTML.
package report

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/Simplici0/estatecalc/internal/amortization"
	"github.com/Simplici0/estatecalc/internal/analyzer"
	"github.com/Simplici0/estatecalc/internal/entity"
	"github.com/Simplici0/estatecalc/internal/formula"
	"github.com/Simplici0/estatecalc/internal/registry"
)

type column struct {
	title string
	key   string
	ratio bool
}

var purchaseRows = []column{
	{"Total price", registry.KeyPriceAll, false},
	{"Building price", entity.KeyBuildingPrice, false},
	{"Land price", entity.KeyLandPrice, false},
	{"Initial cost", registry.KeyInitCost, false},
	{"Initial tax", registry.KeyInitTax, false},
	{"Debt", registry.KeyDebt, false},
	{"Down payment", entity.KeyDownPayment, false},
	{"Surface yield", entity.KeySurfaceYield, true},
	{"Surface yield on outlay", registry.KeySurfaceYieldAll, true},
}

var yearColumns = []column{
	{"Rent", registry.KeyRentYearly, false},
	{"Cost", registry.KeyCostYearly, false},
	{"Interest", registry.KeyInterestPaid, false},
	{"Principal", registry.KeyPrincipalPaid, false},
	{"Tax", registry.KeyTaxAll, false},
	{"Net", registry.KeyNetAmount, false},
	{"Cumulative", registry.KeyNetAmountAll, false},
	{"Balance", registry.KeyDebtEnd, false},
	{"Net yield", registry.KeyNetYield, true},
}

// Markdown renders d as a Markdown document titled name.
func Markdown(name string, d analyzer.Dataset) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", name)

	if d.Error != "" {
		fmt.Fprintf(&b, "> **Analysis stopped:** %s\n\n", d.Error)
	}
	first, ok := d.Output(1)
	if !ok {
		b.WriteString("No year could be computed.\n")
		return b.String()
	}

	b.WriteString("## Purchase\n\n| Item | Amount |\n| --- | ---: |\n")
	for _, row := range purchaseRows {
		fmt.Fprintf(&b, "| %s | %s |\n", row.title, cell(first.Values, row))
	}

	b.WriteString("\n## Cash flow\n\n| Year |")
	for _, c := range yearColumns {
		fmt.Fprintf(&b, " %s |", c.title)
	}
	b.WriteString("\n| ---: |")
	b.WriteString(strings.Repeat(" ---: |", len(yearColumns)))
	b.WriteString("\n")
	for _, o := range d.Outputs {
		fmt.Fprintf(&b, "| %d |", o.Year)
		for _, c := range yearColumns {
			fmt.Fprintf(&b, " %s |", cell(o.Values, c))
		}
		b.WriteString("\n")
	}

	if rows := loanSchedule(first.Values); len(rows) > 0 {
		b.WriteString("\n## Loan schedule\n\n| Loan year | Payment | Interest | Principal | Balance |\n| ---: | ---: | ---: | ---: | ---: |\n")
		for _, r := range rows {
			fmt.Fprintf(&b, "| %d | %s | %s | %s | %s |\n",
				r.Year, amount(r.Payment()), amount(r.Interest), amount(r.Principal), amount(r.EndBalance))
		}
	}

	var unresolved []string
	for _, o := range d.Outputs {
		if !o.Report.Converged() {
			unresolved = append(unresolved, fmt.Sprintf("- Year %d: %s", o.Year, strings.Join(o.Report.Unresolved, ", ")))
		}
	}
	if len(unresolved) > 0 {
		b.WriteString("\n## Unresolved figures\n\n")
		b.WriteString(strings.Join(unresolved, "\n"))
		b.WriteString("\n")
	}

	if len(first.Notes) > 0 {
		b.WriteString("\n## Derivations\n\n")
		for _, n := range first.Notes {
			fmt.Fprintf(&b, "- %s\n", n)
		}
	}

	var derived []registry.Formula
	for _, f := range first.Formulas {
		if f.Expr != "" {
			derived = append(derived, f)
		}
	}
	if len(derived) > 0 {
		b.WriteString("\n## Formulas\n\n| Figure | Formula | Depends on |\n| --- | --- | --- |\n")
		for _, f := range derived {
			fmt.Fprintf(&b, "| %s | `%s` | %s |\n", f.Var, f.Expr, strings.Join(f.Inputs, ", "))
		}
	}
	return b.String()
}

// HTML renders the Markdown report of d to HTML.
func HTML(name string, d analyzer.Dataset) ([]byte, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	var buf bytes.Buffer
	if err := md.Convert([]byte(Markdown(name, d)), &buf); err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	return buf.Bytes(), nil
}

// loanSchedule rebuilds the full-term repayment table from the first year's
// figures.
func loanSchedule(v formula.Values) []amortization.Year {
	debt, ok := v.Number(registry.KeyDebt)
	if !ok {
		return nil
	}
	rate, _ := v.Number(entity.KeyAnnualRate)
	months, _ := v.Number(entity.KeyTermMonths)
	scheme := amortization.EqualPrincipal
	if s, ok := v[entity.KeyPaymentScheme].Str(); ok && s == string(entity.EqualInstallment) {
		scheme = amortization.EqualInstallment
	}
	return amortization.Schedule(scheme, debt, rate, int(months))
}

func cell(v formula.Values, c column) string {
	n, ok := v.Number(c.key)
	if !ok {
		return "-"
	}
	if c.ratio {
		return strconv.FormatFloat(n*100, 'f', 2, 64) + "%"
	}
	return amount(n)
}

// amount formats n rounded to whole units with thousands separators.
func amount(n float64) string {
	s := strconv.FormatFloat(math.Abs(math.Round(n)), 'f', 0, 64)
	var b strings.Builder
	if math.Round(n) < 0 {
		b.WriteByte('-')
	}
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return b.String()
}
