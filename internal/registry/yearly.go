package registry

import (
	"math"

	"github.com/Simplici0/estatecalc/internal/entity"
)

const (
	maintenanceRate = 0.04
	incomeTaxRate   = 0.3
)

// depreciationYears is the remaining lifespan the building is depreciated
// over.
func depreciationYears(b entity.Building) float64 {
	if b.RemainingLifespan > 0 {
		return b.RemainingLifespan
	}
	return float64(b.Type.LegalLifespan())
}

// fullyDepreciated reports whether the holding year lies past the
// depreciation period.
func fullyDepreciated(e entity.Entities) bool {
	return float64(e.Estate.YearsElapsed-1) > depreciationYears(e.Building)
}

// Yearly derives the operating figures of one year: costs, depreciation,
// taxes, net cash flow and yields. A non-nil taxableIncome replaces the
// taxable income formula with that amount floored at zero.
func Yearly(e entity.Entities, taxableIncome *float64) Registry {
	r := PricingYearly()

	r.given(entity.KeyAdFeeRatio, "ad fee ratio = given or 0")
	r.derive(KeyAdFee, "bd_full_rent_yearly_ * bd_ad_fee_ratio", "ad fee = full-occupancy rent * ad fee ratio")
	r.deriveUnless(e.BuildingInfo.MaintenanceFee != nil, entity.KeyMaintenanceFee,
		"bd_full_rent_yearly_ * "+num(maintenanceRate), "maintenance fee = full-occupancy rent * 0.04 or given")
	r.given(entity.KeyRepairCost, "repair cost = given or 0")
	r.derive(KeyCostYearly, "et_interest_paid_ + bd_ad_fee_ + bd_maintenance_fee + bd_repair_cost",
		"yearly cost = interest + ad fee + maintenance fee + repair cost")
	r.derive(KeyNetYearly, "bd_rent_yearly_ - et_cost_yearly_", "yearly net = yearly rent - yearly cost")

	const depNote = "depreciation = building price / remaining lifespan"
	years := depreciationYears(e.Building)
	switch {
	case fullyDepreciated(e):
		r.literal(KeyDepreciation, 0, depNote)
	case e.Building.Price != nil:
		r.literal(KeyDepreciation, *e.Building.Price/years, depNote)
	default:
		r.derive(KeyDepreciation, "bd_price / "+num(years), depNote)
	}

	const taxableNote = "taxable income = yearly rent - yearly cost - fixed assets tax - city planning tax - depreciation"
	if taxableIncome != nil {
		r.literal(KeyTaxableIncome, math.Max(*taxableIncome, 0), taxableNote)
	} else {
		r.derive(KeyTaxableIncome,
			"bd_rent_yearly_ - et_cost_yearly_ - et_fixed_assets_tax_ - et_city_plan_tax_ - bd_depreciation_", taxableNote)
	}

	r.derive(KeyTax, "et_taxable_income_ * "+num(incomeTaxRate), "income tax = taxable income * 30%")
	r.derive(KeyTaxAll, "et_fixed_assets_tax_ + et_city_plan_tax_ + et_tax_", "tax cash out = fixed assets tax + city planning tax + income tax")
	r.derive(KeyNetAmount, "et_net_yearly_ - et_tax_all_ - et_principal_repayment_",
		"net cash flow = yearly net - tax cash out - principal repaid")
	r.given(entity.KeyPriorCumulativeNet, "cumulative net at start of year = given")
	r.derive(KeyNetAmountAll, "et_last_net_amount + et_net_amount_", "cumulative net = cumulative net at start of year + net cash flow")
	r.derive(KeySurfaceYieldAll, "bd_rent_yearly_ / et_init_cashout_", "surface yield on outlay = yearly rent / initial cash out")
	r.derive(KeyNetYield, "et_net_amount_ / et_price_all_", "net yield = net cash flow / total price")
	r.derive(KeyNetYieldAll, "et_net_amount_ / et_init_cashout_", "net yield on outlay = net cash flow / initial cash out")
	return r
}

// Other derives the figures used when the holding is sold.
func Other(e entity.Entities) Registry {
	var r Registry

	const leftNote = "depreciation years left = remaining lifespan - years held"
	if fullyDepreciated(e) {
		r.literal(KeyDepreciationLeft, 0, leftNote)
	} else {
		r.literal(KeyDepreciationLeft, depreciationYears(e.Building)-float64(e.Estate.YearsElapsed), leftNote)
	}

	r.given(entity.KeySaleVacancyRatio, "vacancy ratio on sale = given or vacancy ratio")
	r.deriveUnless(e.Estate.SaleSurfaceYield != nil, entity.KeySaleSurfaceYield,
		"et_surface_ratio", "surface yield on sale = given or surface yield")
	return r
}
