package entity

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Simplici0/estatecalc/internal/formula"
)

func cell(key, value string) Cell {
	return Cell{Key: key, Value: StringPtr(value)}
}

func TestParseBuilding_Defaults(t *testing.T) {
	b, errs, rest := ParseBuilding(nil)

	require.Empty(t, errs)
	require.NotNil(t, b)
	assert.Empty(t, rest)
	assert.Nil(t, b.Price)
	assert.Equal(t, 1.0, b.PriceRatio)
	assert.Equal(t, 1, b.RoomCount)
	assert.Equal(t, UnknownBuildingType, b.Type)
	assert.Equal(t, 47, b.LegalLifespan)
	assert.Equal(t, 47.0, b.RemainingLifespan)
	assert.Equal(t, 80000.0, b.RegistrationCost)
}

func TestParseBuilding_Normalizes(t *testing.T) {
	b, errs, _ := ParseBuilding([]Cell{
		cell(KeyBuildingPrice, "-5"),
		cell(KeyRoomCount, "0"),
		cell(KeyAgeAtPurchase, "10"),
		cell(KeyBuildingType, "木"),
		cell(KeyLegalLifespan, "0"),
		cell(KeyReformCost, "-100"),
		cell(KeyRemainingLifespan, "1"),
	})

	require.Empty(t, errs)
	require.NotNil(t, b.Price)
	assert.Equal(t, 0.0, *b.Price)
	assert.Equal(t, 1, b.RoomCount)
	assert.Equal(t, 22, b.LegalLifespan)
	assert.Equal(t, 0.0, b.ReformCost)
	// floor((22 - 10) + 10*0.2) = 14
	assert.Equal(t, 14.0, b.RemainingLifespan)
}

func TestParseBuilding_AbsentLifespanIgnoresType(t *testing.T) {
	b, errs, _ := ParseBuilding([]Cell{cell(KeyBuildingType, "木")})

	require.Empty(t, errs)
	assert.Equal(t, Wood, b.Type)
	assert.Equal(t, 47, b.LegalLifespan)
	assert.Equal(t, 47.0, b.RemainingLifespan)

	b, errs, _ = ParseBuilding([]Cell{cell(KeyBuildingType, "木"), cell(KeyLegalLifespan, "-1")})

	require.Empty(t, errs)
	assert.Equal(t, 22, b.LegalLifespan)
	assert.Equal(t, 22.0, b.RemainingLifespan)
}

func TestParseBuilding_KeepsSuppliedRemainingLifespan(t *testing.T) {
	b, errs, _ := ParseBuilding([]Cell{cell(KeyRemainingLifespan, "12.5")})

	require.Empty(t, errs)
	assert.Equal(t, 12.5, b.RemainingLifespan)
}

func TestParseBuilding_ThousandsSeparatorsAndCodes(t *testing.T) {
	b, errs, _ := ParseBuilding([]Cell{
		cell(KeyBuildingPrice, "20,000,000"),
		cell(KeyBuildingType, "rc"),
	})

	require.Empty(t, errs)
	assert.Equal(t, 20000000.0, *b.Price)
	assert.Equal(t, ReinforcedConcrete, b.Type)
}

func TestRemainingLifespan(t *testing.T) {
	cases := []struct {
		age, legal, want int
	}{
		{0, 22, 22},
		{-3, 47, 47},
		{22, 22, 2},
		{30, 22, 2},
		{10, 22, 14},
		{20, 22, 6},
		{21, 22, 5},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, RemainingLifespan(tc.age, tc.legal), "age %d legal %d", tc.age, tc.legal)
	}
}

func TestParseBuildingInfo_Fallbacks(t *testing.T) {
	bi, errs, _ := ParseBuildingInfo([]Cell{
		cell(KeyBuildingAssessedValue, "-1"),
		cell(KeyVacancyRatio, "0.1"),
		cell(KeyRentIncome, "-80000"),
		cell(KeyMaintenanceFee, "-1"),
		cell(KeyRepairCost, "-10"),
	})

	require.Empty(t, errs)
	assert.Equal(t, 0.0, *bi.AssessedValue)
	assert.Equal(t, 0.0, *bi.TaxRollValue)
	assert.Equal(t, 0.1, *bi.SaleVacancyRatio)
	assert.Nil(t, bi.RentIncome)
	assert.Nil(t, bi.MaintenanceFee)
	assert.Equal(t, 0.0, bi.RepairCost)
}

func TestParseLandInfo_NegativeBecomesAbsent(t *testing.T) {
	li, errs, _ := ParseLandInfo([]Cell{cell(KeyLandAssessedValue, "-1"), cell(KeyLandTaxRollValue, "5")})

	require.Empty(t, errs)
	assert.Nil(t, li.AssessedValue)
	assert.Equal(t, 5.0, *li.TaxRollValue)
}

func TestParseLoanInfo_DefaultsAndClamps(t *testing.T) {
	li, errs, _ := ParseLoanInfo([]Cell{cell(KeyTermMonths, "-12"), cell(KeyAnnualRate, "-0.5")})

	require.Empty(t, errs)
	assert.Equal(t, 240, li.TermMonths)
	assert.Equal(t, 0.02, li.AnnualRate)
	assert.Equal(t, EqualPrincipal, li.Scheme)
	assert.Nil(t, li.PriorBalance)

	li, errs, _ = ParseLoanInfo([]Cell{cell(KeyPaymentScheme, "元利均等返済")})
	require.Empty(t, errs)
	assert.Equal(t, EqualInstallment, li.Scheme)
}

func TestParseLoanInfo_RejectsOverlongTerm(t *testing.T) {
	li, errs, _ := ParseLoanInfo([]Cell{cell(KeyTermMonths, "1200")})
	require.Empty(t, errs)
	assert.Equal(t, MaxTermMonths, li.TermMonths)

	_, errs, _ = ParseLoanInfo([]Cell{cell(KeyTermMonths, "120000")})
	require.Len(t, errs, 1)
	assert.Equal(t, KeyTermMonths, errs[0].Field)
	assert.Contains(t, errs[0].Reason, "exceeds 1200")
}

func TestParseEstate(t *testing.T) {
	e, errs, _ := ParseEstate([]Cell{cell(KeyYearsElapsed, "-2"), cell(KeySurfaceYield, "0.08")})

	require.Empty(t, errs)
	assert.Equal(t, 1, e.YearsElapsed)
	assert.Equal(t, 0.08, *e.SaleSurfaceYield)
	assert.Equal(t, 0.0, e.PriorCumulativeNet)
}

func TestParse_PassesForeignCellsThrough(t *testing.T) {
	cells := []Cell{cell("note", "hello"), cell(KeyLandPrice, "100")}

	l, errs, rest := ParseLand(cells)

	require.Empty(t, errs)
	assert.Equal(t, 100.0, *l.Price)
	require.Len(t, rest, 1)
	assert.Equal(t, "note", rest[0].Key)
}

func TestParse_EmptyAndNilValuesAreAbsent(t *testing.T) {
	l, errs, _ := ParseLand([]Cell{{Key: KeyLandPrice}, cell(KeyLandRegistration, "  ")})

	require.Empty(t, errs)
	assert.Nil(t, l.Price)
	assert.Equal(t, 80000.0, l.RegistrationCost)
}

func TestParse_AggregatesFieldErrors(t *testing.T) {
	_, err := Parse([]Cell{
		cell(KeyBuildingType, "castle"),
		cell(KeyRoomCount, "2.5"),
		cell(KeyLandPrice, "cheap"),
		cell(KeyPaymentScheme, "balloon"),
		cell(KeyYearsElapsed, "1"),
	})

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.ElementsMatch(t,
		[]string{KeyBuildingType, KeyRoomCount, KeyLandPrice, KeyPaymentScheme},
		verr.Fields())
	assert.Contains(t, err.Error(), "invalid input")
}

func TestEntities_Values(t *testing.T) {
	e, err := Parse([]Cell{
		cell(KeyBuildingPrice, "20000000"),
		cell(KeyBuildingType, "wood"),
		cell(KeyPaymentScheme, "equal_installment"),
	})
	require.NoError(t, err)

	vals := e.Values()

	assert.Len(t, vals, len(AllFieldNames()))
	assert.Equal(t, formula.Number(20000000), vals[KeyBuildingPrice])
	assert.Equal(t, formula.Text("木"), vals[KeyBuildingType])
	assert.Equal(t, formula.Text("元利均等返済"), vals[KeyPaymentScheme])
	assert.True(t, vals[KeyLandPrice].IsNull())
}

func TestWithUpdatesDoNotMutate(t *testing.T) {
	b := Building{PriceRatio: 1}
	b2 := b.WithPrice(10).WithPriceRatio(2)

	assert.Nil(t, b.Price)
	assert.Equal(t, 1.0, b.PriceRatio)
	assert.Equal(t, 10.0, *b2.Price)
	assert.Equal(t, 2.0, b2.PriceRatio)
}

func TestFieldNameClassification(t *testing.T) {
	initial := 0
	for _, name := range AllFieldNames() {
		if IsInitialField(name) {
			initial++
		}
	}

	assert.Equal(t, len(InitialFieldNames), initial)
	assert.True(t, IsInitialField(KeyDownPayment))
	assert.True(t, IsInitialField(KeyBuildingPrice))
	assert.False(t, IsInitialField(KeyRentIncome))
}

func TestCloneCells(t *testing.T) {
	orig := []Cell{{Key: "a", Value: StringPtr("1"), YearTag: IntPtr(1)}}

	cp := CloneCells(orig)
	*cp[0].Value = "2"
	*cp[0].YearTag = 2

	assert.Equal(t, "1", *orig[0].Value)
	assert.Equal(t, 1, *orig[0].YearTag)
}
