// Package amortization computes yearly loan repayment figures for the two
// Japanese repayment schemes: equal principal (元金均等) and equal
// installment (元利均等).
package amortization

import "math"

// Scheme selects how each monthly payment is made up.
type Scheme int

const (
	EqualPrincipal Scheme = iota
	EqualInstallment
)

func (s Scheme) String() string {
	if s == EqualInstallment {
		return "equal_installment"
	}
	return "equal_principal"
}

// SnapThreshold is the balance below which a loan counts as repaid.
const SnapThreshold = 100

// Year is the repayment summary of one loan year.
type Year struct {
	Year            int     `json:"year"`
	RemainingMonths int     `json:"remaining_months"`
	StartBalance    float64 `json:"start_balance"`
	MonthlyPayment  float64 `json:"monthly_payment"`
	Principal       float64 `json:"principal"`
	Interest        float64 `json:"interest"`
	EndBalance      float64 `json:"end_balance"`
}

// Payment is the yearly total paid.
func (y Year) Payment() float64 { return y.Principal + y.Interest }

// RemainingMonths is the number of loan months left at the start of the given
// holding year, counting the first year as 1.
func RemainingMonths(termMonths, yearsElapsed int) int {
	return max(termMonths-(yearsElapsed-1)*12, 0)
}

// ClampCarried returns the balance carried into a year: the prior year-end
// balance when known, never more than the total debt.
func ClampCarried(prior *float64, debt float64) float64 {
	if prior == nil || *prior > debt {
		return debt
	}
	return *prior
}

// EndBalance subtracts the year's principal from the starting balance and
// snaps a residue below SnapThreshold to zero.
func EndBalance(start, principal float64) float64 {
	end := start - principal
	if end < SnapThreshold {
		return 0
	}
	return end
}

// Params describes the loan for one year.
type Params struct {
	Scheme       Scheme
	Debt         float64 // original amount borrowed
	StartBalance float64 // balance carried into the year
	AnnualRate   float64
	TermMonths   int
	YearsElapsed int
}

// ForYear computes the repayment of the year p.YearsElapsed. Once the term has
// run out nothing is paid and the balance is zero.
func ForYear(p Params) Year {
	remaining := RemainingMonths(p.TermMonths, p.YearsElapsed)
	y := Year{Year: p.YearsElapsed, RemainingMonths: remaining, StartBalance: p.StartBalance}
	if remaining == 0 || p.TermMonths <= 0 {
		return y
	}

	switch p.Scheme {
	case EqualInstallment:
		y.MonthlyPayment, y.Interest, y.Principal = installmentYear(p.StartBalance, p.AnnualRate, remaining)
	default:
		y.MonthlyPayment, y.Interest, y.Principal = principalYear(p.Debt, p.StartBalance, p.AnnualRate, p.TermMonths, remaining)
	}
	y.EndBalance = EndBalance(p.StartBalance, y.Principal)
	return y
}

// principalYear repays debt/term each month and charges interest on the
// balance before each payment.
func principalYear(debt, balance, annualRate float64, termMonths, remaining int) (monthly, interest, principal float64) {
	perMonth := debt / float64(termMonths)
	months := min(remaining, 12)
	for range months {
		interest += balance * annualRate / 12
		balance -= perMonth
	}
	return perMonth, interest, perMonth * float64(months)
}

// installmentYear simulates up to twelve months of a level annuity over the
// remaining months. The last loan month repays whatever balance is left.
func installmentYear(balance, annualRate float64, remaining int) (monthly, interest, principal float64) {
	i := annualRate / 12
	if i == 0 {
		monthly = balance / float64(remaining)
	} else {
		f := math.Pow(1+i, float64(remaining))
		monthly = balance * i * f / (f - 1)
	}

	for month := 1; month <= min(12, remaining); month++ {
		monthInterest := balance * i
		monthPrincipal := monthly - monthInterest
		if month == remaining {
			monthPrincipal = balance
		}
		balance -= monthPrincipal
		interest += monthInterest
		principal += monthPrincipal
	}
	return monthly, interest, principal
}

// Schedule returns every loan year of a debt repaid over termMonths, each
// year starting from the previous year-end balance.
func Schedule(scheme Scheme, debt, annualRate float64, termMonths int) []Year {
	if termMonths <= 0 {
		return nil
	}
	years := (termMonths + 11) / 12
	out := make([]Year, 0, years)
	balance := debt
	for y := 1; y <= years; y++ {
		row := ForYear(Params{
			Scheme:       scheme,
			Debt:         debt,
			StartBalance: balance,
			AnnualRate:   annualRate,
			TermMonths:   termMonths,
			YearsElapsed: y,
		})
		out = append(out, row)
		balance = row.EndBalance
	}
	return out
}
