package amortization

import (
	"math"
	"testing"
)

func nearlyEqual(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-6*math.Max(1, math.Abs(want)) {
		t.Fatalf("%s = %v, want %v", name, got, want)
	}
}

func TestForYear_EqualPrincipal(t *testing.T) {
	y := ForYear(Params{
		Scheme:       EqualPrincipal,
		Debt:         1200,
		StartBalance: 1200,
		AnnualRate:   0.12,
		TermMonths:   12,
		YearsElapsed: 1,
	})

	nearlyEqual(t, "principal", y.Principal, 1200)
	// 1% a month on 1200, 1100, ..., 100
	nearlyEqual(t, "interest", y.Interest, 78)
	nearlyEqual(t, "endBalance", y.EndBalance, 0)
	nearlyEqual(t, "payment", y.Payment(), 1278)
	if y.RemainingMonths != 12 {
		t.Fatalf("remaining = %d, want 12", y.RemainingMonths)
	}
}

func TestForYear_EqualInstallmentZeroRate(t *testing.T) {
	y := ForYear(Params{
		Scheme:       EqualInstallment,
		Debt:         1200,
		StartBalance: 1200,
		TermMonths:   24,
		YearsElapsed: 1,
	})

	nearlyEqual(t, "monthly", y.MonthlyPayment, 50)
	nearlyEqual(t, "principal", y.Principal, 600)
	nearlyEqual(t, "interest", y.Interest, 0)
	nearlyEqual(t, "endBalance", y.EndBalance, 600)
}

func TestForYear_EqualInstallmentFinalMonthClearsBalance(t *testing.T) {
	y := ForYear(Params{
		Scheme:       EqualInstallment,
		Debt:         12000,
		StartBalance: 1000,
		AnnualRate:   0.12,
		TermMonths:   15,
		YearsElapsed: 2,
	})

	if y.RemainingMonths != 3 {
		t.Fatalf("remaining = %d, want 3", y.RemainingMonths)
	}
	nearlyEqual(t, "principal", y.Principal, 1000)
	nearlyEqual(t, "endBalance", y.EndBalance, 0)
	if y.Interest <= 0 {
		t.Fatalf("interest = %v, want > 0", y.Interest)
	}
}

func TestForYear_ElapsedTermPaysNothing(t *testing.T) {
	for _, scheme := range []Scheme{EqualPrincipal, EqualInstallment} {
		y := ForYear(Params{
			Scheme:       scheme,
			Debt:         30_000_000,
			StartBalance: 5_000,
			AnnualRate:   0.02,
			TermMonths:   240,
			YearsElapsed: 22,
		})

		nearlyEqual(t, scheme.String()+" principal", y.Principal, 0)
		nearlyEqual(t, scheme.String()+" interest", y.Interest, 0)
		nearlyEqual(t, scheme.String()+" endBalance", y.EndBalance, 0)
	}
}

func TestForYear_NonPositiveTerm(t *testing.T) {
	y := ForYear(Params{Debt: 100, StartBalance: 100, TermMonths: 0, YearsElapsed: 1})

	nearlyEqual(t, "principal", y.Principal, 0)
	nearlyEqual(t, "endBalance", y.EndBalance, 0)
}

func TestSchedule_SumsToDebt(t *testing.T) {
	const debt = 31_500_000
	for _, scheme := range []Scheme{EqualPrincipal, EqualInstallment} {
		rows := Schedule(scheme, debt, 0.02, 240)
		if len(rows) != 20 {
			t.Fatalf("%s: %d rows, want 20", scheme, len(rows))
		}

		var principal float64
		for i, r := range rows {
			principal += r.Principal
			if i > 0 && r.StartBalance != rows[i-1].EndBalance {
				t.Fatalf("%s: year %d starts at %v, previous ended at %v", scheme, r.Year, r.StartBalance, rows[i-1].EndBalance)
			}
		}
		nearlyEqual(t, scheme.String()+" principal", principal, debt)
		nearlyEqual(t, scheme.String()+" last balance", rows[len(rows)-1].EndBalance, 0)
	}
}

func TestSchedule_PartialLastYear(t *testing.T) {
	rows := Schedule(EqualInstallment, 1000, 0.05, 18)

	if len(rows) != 2 {
		t.Fatalf("%d rows, want 2", len(rows))
	}
	if rows[1].RemainingMonths != 6 {
		t.Fatalf("remaining = %d, want 6", rows[1].RemainingMonths)
	}
	nearlyEqual(t, "last balance", rows[1].EndBalance, 0)
}

func TestInstallmentPaymentIsLevel(t *testing.T) {
	rows := Schedule(EqualInstallment, 10_000_000, 0.03, 120)

	for _, r := range rows[1:] {
		nearlyEqual(t, "monthly", r.MonthlyPayment, rows[0].MonthlyPayment)
	}
}

func TestClampCarried(t *testing.T) {
	over, under := 200.0, 50.0

	nearlyEqual(t, "nil", ClampCarried(nil, 100), 100)
	nearlyEqual(t, "over", ClampCarried(&over, 100), 100)
	nearlyEqual(t, "under", ClampCarried(&under, 100), 50)
}

func TestEndBalance_Snaps(t *testing.T) {
	nearlyEqual(t, "residue", EndBalance(1000, 950), 0)
	nearlyEqual(t, "negative", EndBalance(1000, 1200), 0)
	nearlyEqual(t, "kept", EndBalance(1000, 900), 100)
}

func TestRemainingMonths(t *testing.T) {
	cases := []struct{ term, years, want int }{
		{240, 1, 240},
		{240, 2, 228},
		{240, 20, 12},
		{240, 21, 0},
		{240, 30, 0},
	}
	for _, tc := range cases {
		if got := RemainingMonths(tc.term, tc.years); got != tc.want {
			t.Fatalf("RemainingMonths(%d, %d) = %d, want %d", tc.term, tc.years, got, tc.want)
		}
	}
}
