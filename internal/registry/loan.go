package registry

import (
	"github.com/Simplici0/estatecalc/internal/amortization"
	"github.com/Simplici0/estatecalc/internal/entity"
)

// Scheme maps a record payment scheme to the calculator's.
func Scheme(s entity.PaymentScheme) amortization.Scheme {
	if s == entity.EqualInstallment {
		return amortization.EqualInstallment
	}
	return amortization.EqualPrincipal
}

// Loan computes the year's repayment of debt eagerly and binds the figures as
// literals. The carried balance is clamped to debt; the returned LoanInfo
// holds the clamped value.
func Loan(debt float64, li entity.LoanInfo, est entity.Estate) (Registry, entity.LoanInfo, amortization.Year) {
	var r Registry
	r.given(entity.KeyAnnualRate, "interest rate = given or 0.02")
	r.given(entity.KeyTermMonths, "term months = given or 240")

	carried := amortization.ClampCarried(li.PriorBalance, debt)
	li = li.WithPriorBalance(carried)
	r.literal(entity.KeyPriorBalance, carried, "balance at start of year = carried balance, at most the debt")

	year := amortization.ForYear(amortization.Params{
		Scheme:       Scheme(li.Scheme),
		Debt:         debt,
		StartBalance: carried,
		AnnualRate:   li.AnnualRate,
		TermMonths:   li.TermMonths,
		YearsElapsed: est.YearsElapsed,
	})

	r.literal(KeyRemainingMonths, float64(year.RemainingMonths), "remaining months")
	r.literal(KeyPrincipalPaid, year.Principal, "principal repaid")
	r.literal(KeyInterestPaid, year.Interest, "interest paid")
	r.derive(KeyRepayment, "et_principal_repayment_ + et_interest_paid_", "repayment = principal + interest")
	r.literal(KeyDebtEnd, year.EndBalance, "balance at end of year")

	return r, li, year
}
