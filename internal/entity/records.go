package entity

import (
	"math"

	"github.com/Simplici0/estatecalc/internal/formula"
)

const (
	defaultRegistrationCost = 80000
	defaultTermMonths       = 20 * 12
	defaultAnnualRate       = 0.02
	defaultLegalLifespan    = 47

	// MaxTermMonths bounds the loan term; the analysis runs a year per
	// twelve months of it.
	MaxTermMonths = 100 * 12
)

// Building is the structure bought with the land.
type Building struct {
	Price             *float64
	PriceRatio        float64 // building price over land price
	RoomCount         int
	AgeAtPurchase     int
	Type              BuildingType
	LegalLifespan     int
	RemainingLifespan float64
	RegistrationCost  float64
	ReformCost        float64
	RemovalCost       float64
}

// ParseBuilding builds a Building from the cells it owns and returns the rest.
func ParseBuilding(cells []Cell) (*Building, []FieldError, []Cell) {
	return parseWith(cells, "building", BuildingFieldNames, func(r *reader) Building {
		b := Building{
			Price:            r.optional(KeyBuildingPrice),
			PriceRatio:       r.numberOr(KeyPriceRatio, 1),
			RoomCount:        r.integerOr(KeyRoomCount, 1),
			AgeAtPurchase:    r.integerOr(KeyAgeAtPurchase, 0),
			Type:             UnknownBuildingType,
			RegistrationCost: math.Max(r.numberOr(KeyBuildingRegistration, defaultRegistrationCost), 0),
			ReformCost:       math.Max(r.numberOr(KeyReformCost, 0), 0),
			RemovalCost:      math.Max(r.numberOr(KeyRemovalCost, 0), 0),
		}
		if s, ok := r.text(KeyBuildingType); ok {
			t, err := ParseBuildingType(s)
			if err != nil {
				r.fail(KeyBuildingType, "%v", err)
			} else {
				b.Type = t
			}
		}
		if b.Price != nil && *b.Price <= 0 {
			b.Price = ptr(0.0)
		}
		if b.RoomCount <= 0 {
			b.RoomCount = 1
		}
		if b.AgeAtPurchase < 0 {
			b.AgeAtPurchase = 0
		}

		// Only a supplied non-positive lifespan falls back to the building type.
		b.LegalLifespan = r.integerOr(KeyLegalLifespan, defaultLegalLifespan)
		if b.LegalLifespan <= 0 {
			b.LegalLifespan = b.Type.LegalLifespan()
		}

		remaining := r.optional(KeyRemainingLifespan)
		if remaining == nil || *remaining <= 2 {
			b.RemainingLifespan = float64(RemainingLifespan(b.AgeAtPurchase, b.LegalLifespan))
		} else {
			b.RemainingLifespan = *remaining
		}
		return b
	})
}

// RemainingLifespan is the depreciation period of a building bought at the
// given age: the full legal lifespan when new, two years once the legal
// lifespan is used up, and otherwise the unused part plus a fifth of the age.
func RemainingLifespan(age, legal int) int {
	switch {
	case age <= 0:
		return legal
	case legal <= age:
		return 2
	default:
		return max(int(math.Floor(float64(legal-age)+float64(age)*0.2)), 2)
	}
}

// WithPrice returns a copy of b with the price set.
func (b Building) WithPrice(p float64) Building {
	b.Price = ptr(p)
	return b
}

// WithPriceRatio returns a copy of b with the price ratio set.
func (b Building) WithPriceRatio(ratio float64) Building {
	b.PriceRatio = ratio
	return b
}

// Values exposes b to the solver keyed by field name.
func (b Building) Values() formula.Values {
	return formula.Values{
		KeyBuildingPrice:        formula.OptionalNumber(b.Price),
		KeyPriceRatio:           formula.Number(b.PriceRatio),
		KeyRoomCount:            formula.Number(float64(b.RoomCount)),
		KeyAgeAtPurchase:        formula.Number(float64(b.AgeAtPurchase)),
		KeyBuildingType:         formula.Text(string(b.Type)),
		KeyLegalLifespan:        formula.Number(float64(b.LegalLifespan)),
		KeyRemainingLifespan:    formula.Number(b.RemainingLifespan),
		KeyBuildingRegistration: formula.Number(b.RegistrationCost),
		KeyReformCost:           formula.Number(b.ReformCost),
		KeyRemovalCost:          formula.Number(b.RemovalCost),
	}
}

// BuildingInfo holds the yearly figures of the building.
type BuildingInfo struct {
	AssessedValue    *float64
	TaxRollValue     *float64
	VacancyRatio     *float64
	SaleVacancyRatio *float64
	RepairCost       float64
	AdFeeRatio       float64
	RentIncome       *float64 // per room and month
	MaintenanceFee   *float64
	SaleDeduction    float64
}

// ParseBuildingInfo builds a BuildingInfo from the cells it owns and returns the rest.
func ParseBuildingInfo(cells []Cell) (*BuildingInfo, []FieldError, []Cell) {
	return parseWith(cells, "building_info", BuildingInfoFieldNames, func(r *reader) BuildingInfo {
		bi := BuildingInfo{
			AssessedValue:    clampNonNegative(r.optional(KeyBuildingAssessedValue)),
			TaxRollValue:     clampNonNegative(r.optional(KeyBuildingTaxRollValue)),
			VacancyRatio:     clampNonNegative(r.optional(KeyVacancyRatio)),
			SaleVacancyRatio: clampNonNegative(r.optional(KeySaleVacancyRatio)),
			RepairCost:       math.Max(r.numberOr(KeyRepairCost, 0), 0),
			AdFeeRatio:       math.Max(r.numberOr(KeyAdFeeRatio, 0), 0),
			RentIncome:       dropNegative(r.optional(KeyRentIncome)),
			MaintenanceFee:   dropNegative(r.optional(KeyMaintenanceFee)),
			SaleDeduction:    r.numberOr(KeySaleDeduction, 0),
		}
		if bi.TaxRollValue == nil {
			bi.TaxRollValue = bi.AssessedValue
		}
		if bi.SaleVacancyRatio == nil {
			bi.SaleVacancyRatio = bi.VacancyRatio
		}
		return bi
	})
}

// WithVacancyRatio returns a copy of bi with the vacancy ratio set.
func (bi BuildingInfo) WithVacancyRatio(v float64) BuildingInfo {
	bi.VacancyRatio = ptr(v)
	return bi
}

// WithRentIncome returns a copy of bi with the monthly rent per room set.
func (bi BuildingInfo) WithRentIncome(v float64) BuildingInfo {
	bi.RentIncome = ptr(v)
	return bi
}

// Values exposes bi to the solver keyed by field name.
func (bi BuildingInfo) Values() formula.Values {
	return formula.Values{
		KeyBuildingAssessedValue: formula.OptionalNumber(bi.AssessedValue),
		KeyBuildingTaxRollValue:  formula.OptionalNumber(bi.TaxRollValue),
		KeyVacancyRatio:          formula.OptionalNumber(bi.VacancyRatio),
		KeySaleVacancyRatio:      formula.OptionalNumber(bi.SaleVacancyRatio),
		KeyRepairCost:            formula.Number(bi.RepairCost),
		KeyAdFeeRatio:            formula.Number(bi.AdFeeRatio),
		KeyRentIncome:            formula.OptionalNumber(bi.RentIncome),
		KeyMaintenanceFee:        formula.OptionalNumber(bi.MaintenanceFee),
		KeySaleDeduction:         formula.Number(bi.SaleDeduction),
	}
}

// Land is the plot bought with the building.
type Land struct {
	Price            *float64
	RegistrationCost float64
}

// ParseLand builds a Land from the cells it owns and returns the rest.
func ParseLand(cells []Cell) (*Land, []FieldError, []Cell) {
	return parseWith(cells, "land", LandFieldNames, func(r *reader) Land {
		l := Land{
			Price:            r.optional(KeyLandPrice),
			RegistrationCost: math.Max(r.numberOr(KeyLandRegistration, defaultRegistrationCost), 0),
		}
		if l.Price != nil && *l.Price <= 0 {
			l.Price = ptr(0.0)
		}
		return l
	})
}

// WithPrice returns a copy of l with the price set.
func (l Land) WithPrice(p float64) Land {
	l.Price = ptr(p)
	return l
}

// Values exposes l to the solver keyed by field name.
func (l Land) Values() formula.Values {
	return formula.Values{
		KeyLandPrice:        formula.OptionalNumber(l.Price),
		KeyLandRegistration: formula.Number(l.RegistrationCost),
	}
}

// LandInfo holds the tax valuations of the land.
type LandInfo struct {
	AssessedValue *float64
	TaxRollValue  *float64
}

// ParseLandInfo builds a LandInfo from the cells it owns and returns the rest.
func ParseLandInfo(cells []Cell) (*LandInfo, []FieldError, []Cell) {
	return parseWith(cells, "land_info", LandInfoFieldNames, func(r *reader) LandInfo {
		return LandInfo{
			AssessedValue: dropNegative(r.optional(KeyLandAssessedValue)),
			TaxRollValue:  dropNegative(r.optional(KeyLandTaxRollValue)),
		}
	})
}

// Values exposes li to the solver keyed by field name.
func (li LandInfo) Values() formula.Values {
	return formula.Values{
		KeyLandAssessedValue: formula.OptionalNumber(li.AssessedValue),
		KeyLandTaxRollValue:  formula.OptionalNumber(li.TaxRollValue),
	}
}

// Loan is the financing agreed at purchase.
type Loan struct {
	DownPayment        float64
	FirstPeriodPayment float64
}

// ParseLoan builds a Loan from the cells it owns and returns the rest.
func ParseLoan(cells []Cell) (*Loan, []FieldError, []Cell) {
	return parseWith(cells, "loan", LoanFieldNames, func(r *reader) Loan {
		return Loan{
			DownPayment:        math.Max(r.numberOr(KeyDownPayment, 0), 0),
			FirstPeriodPayment: r.numberOr(KeyFirstPeriodPayment, 0),
		}
	})
}

// Values exposes l to the solver keyed by field name.
func (l Loan) Values() formula.Values {
	return formula.Values{
		KeyDownPayment:        formula.Number(l.DownPayment),
		KeyFirstPeriodPayment: formula.Number(l.FirstPeriodPayment),
	}
}

// LoanInfo holds the loan terms and the balance carried into the year.
type LoanInfo struct {
	TermMonths   int
	Scheme       PaymentScheme
	AnnualRate   float64
	PriorBalance *float64
}

// ParseLoanInfo builds a LoanInfo from the cells it owns and returns the rest.
// A term longer than MaxTermMonths is a field error.
func ParseLoanInfo(cells []Cell) (*LoanInfo, []FieldError, []Cell) {
	return parseWith(cells, "loan_info", LoanInfoFieldNames, func(r *reader) LoanInfo {
		li := LoanInfo{
			TermMonths:   r.integerOr(KeyTermMonths, defaultTermMonths),
			Scheme:       EqualPrincipal,
			AnnualRate:   r.numberOr(KeyAnnualRate, defaultAnnualRate),
			PriorBalance: r.optional(KeyPriorBalance),
		}
		if s, ok := r.text(KeyPaymentScheme); ok {
			scheme, err := ParsePaymentScheme(s)
			if err != nil {
				r.fail(KeyPaymentScheme, "%v", err)
			} else {
				li.Scheme = scheme
			}
		}
		if li.TermMonths < 0 {
			li.TermMonths = defaultTermMonths
		}
		if li.TermMonths > MaxTermMonths {
			r.fail(KeyTermMonths, "term of %d months exceeds %d", li.TermMonths, MaxTermMonths)
		}
		if li.AnnualRate < 0 {
			li.AnnualRate = defaultAnnualRate
		}
		return li
	})
}

// WithPriorBalance returns a copy of li with the carried balance set.
func (li LoanInfo) WithPriorBalance(b float64) LoanInfo {
	li.PriorBalance = ptr(b)
	return li
}

// Values exposes li to the solver keyed by field name.
func (li LoanInfo) Values() formula.Values {
	return formula.Values{
		KeyTermMonths:    formula.Number(float64(li.TermMonths)),
		KeyPaymentScheme: formula.Text(string(li.Scheme)),
		KeyAnnualRate:    formula.Number(li.AnnualRate),
		KeyPriorBalance:  formula.OptionalNumber(li.PriorBalance),
	}
}

// Estate is the holding as a whole for one year.
type Estate struct {
	YearsElapsed       int
	SurfaceYield       *float64
	SaleSurfaceYield   *float64
	PriorCumulativeNet float64
}

// ParseEstate builds an Estate from the cells it owns and returns the rest.
func ParseEstate(cells []Cell) (*Estate, []FieldError, []Cell) {
	return parseWith(cells, "estate", EstateFieldNames, func(r *reader) Estate {
		e := Estate{
			YearsElapsed:       r.integerOr(KeyYearsElapsed, 1),
			SurfaceYield:       r.optional(KeySurfaceYield),
			SaleSurfaceYield:   r.optional(KeySaleSurfaceYield),
			PriorCumulativeNet: r.numberOr(KeyPriorCumulativeNet, 0),
		}
		if e.YearsElapsed < 0 {
			e.YearsElapsed = 1
		}
		if e.SaleSurfaceYield == nil {
			e.SaleSurfaceYield = e.SurfaceYield
		}
		return e
	})
}

// WithSurfaceYield returns a copy of e with the surface yield replaced; nil
// clears it.
func (e Estate) WithSurfaceYield(y *float64) Estate {
	e.SurfaceYield = y
	return e
}

// Values exposes e to the solver keyed by field name.
func (e Estate) Values() formula.Values {
	return formula.Values{
		KeyYearsElapsed:       formula.Number(float64(e.YearsElapsed)),
		KeySurfaceYield:       formula.OptionalNumber(e.SurfaceYield),
		KeySaleSurfaceYield:   formula.OptionalNumber(e.SaleSurfaceYield),
		KeyPriorCumulativeNet: formula.Number(e.PriorCumulativeNet),
	}
}
