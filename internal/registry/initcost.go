package registry

import (
	"math"

	"github.com/Simplici0/estatecalc/internal/entity"
)

// Fee and tax rates applied at purchase.
const (
	brokerageRate       = 0.03
	brokerageFlatFee    = 60000
	buildingAssessRatio = 0.6
	minAgeFactor        = 0.2
)

// InitialCost derives the acquisition costs and taxes, the total debt and the
// opening cash flows. The building's tax roll value falls back to its
// assessed value; the returned records carry that fallback.
func InitialCost(e entity.Entities) (Registry, entity.Entities) {
	r := PricingInitial()

	r.given(entity.KeyYearsElapsed, "years held = given or 1")
	r.given(entity.KeyRoomCount, "rooms = given or 1")
	r.given(entity.KeyAgeAtPurchase, "age at purchase = given or 0")
	r.given(entity.KeyLegalLifespan, "legal lifespan = given or by building type")
	r.given(entity.KeyRemainingLifespan, "remaining lifespan = given or from age and legal lifespan")
	r.given(entity.KeyBuildingRegistration, "building registration cost = given or 80000")
	r.given(entity.KeyReformCost, "initial reform cost = given or 0")
	r.given(entity.KeyRemovalCost, "removal cost = given or 0")
	r.given(entity.KeyLandRegistration, "land registration cost = given or 80000")

	if e.Building.Price == nil && e.Land.Price == nil {
		r.derive(entity.KeyBuildingPrice, "ld_price * bd_ld_bd_ratio", "building price = given")
	} else {
		r.given(entity.KeyBuildingPrice, "building price = given")
	}

	r.derive(KeyPurchaseFee, "et_price_all_ * "+num(brokerageRate)+" + "+num(brokerageFlatFee),
		"brokerage fee = total price * 0.03 + 60000")

	bi := e.BuildingInfo
	const rollNote = "building tax roll value = given or building assessed value"
	switch {
	case bi.TaxRollValue != nil:
		r.given(entity.KeyBuildingTaxRollValue, rollNote)
	case bi.AssessedValue != nil:
		v := *bi.AssessedValue
		bi.TaxRollValue = &v
		r.given(entity.KeyBuildingTaxRollValue, rollNote)
	default:
		r.derive(entity.KeyBuildingTaxRollValue, "bd_tax_account_price", rollNote)
	}
	e.BuildingInfo = bi

	r.note("building assessed value = building price * 0.6 * age factor, or given")
	r.note("age factor = (legal lifespan - years held - age) / legal lifespan, at least 0.2")
	if bi.AssessedValue == nil {
		b := e.Building
		factor := minAgeFactor
		if b.LegalLifespan > 0 {
			factor = math.Max(float64(b.LegalLifespan-e.Estate.YearsElapsed-b.AgeAtPurchase)/float64(b.LegalLifespan), minAgeFactor)
		}
		r.derive(entity.KeyBuildingAssessedValue, "bd_price * "+num(buildingAssessRatio)+" * "+num(factor), "")
	} else {
		r.given(entity.KeyBuildingAssessedValue, "")
	}

	r.deriveUnless(e.LandInfo.AssessedValue != nil, entity.KeyLandAssessedValue,
		"ld_price * 0.7 / 1.1", "land assessed value = land price * 0.7 / 1.1 or given")
	r.deriveUnless(e.LandInfo.TaxRollValue != nil, entity.KeyLandTaxRollValue,
		"ld_tax_eval_price", "land tax roll value = land assessed value or given")

	r.derive(KeyLandRegTax, "ld_tax_eval_price * 0.015", "land registration tax = land assessed value * 1.5%")
	r.derive(KeyLandPurchaseTax, "ld_tax_account_price * 0.03", "land acquisition tax = land tax roll value * 3%")
	r.derive(KeyBuildingRegTax, "bd_tax_account_price * 0.02", "building registration tax = building assessed value * 2.0%")
	r.derive(KeyBuildingPurTax, "bd_tax_eval_price * 0.03", "building acquisition tax = building tax roll value * 3%")
	r.derive(KeyFixedAssetsTax, "( ld_tax_eval_price + bd_tax_eval_price ) * 0.014",
		"fixed assets tax = (land assessed value + building tax roll value) * 1.4%")
	r.derive(KeyCityPlanTax, "( ld_tax_eval_price + bd_tax_eval_price ) * 0.003",
		"city planning tax = (land assessed value + building tax roll value) * 0.3%")

	r.derive(KeyInitCostAll, "et_init_cost_ + et_init_tax_", "initial outlay = initial cost + initial tax")
	r.derive(KeyDebtAll, "et_init_cost_all_", "total funding = initial outlay")
	r.given(entity.KeyDownPayment, "down payment = given or 0")
	r.derive(KeyDebt, "et_debt_all_ - ln_init_amount", "debt = total funding - down payment")
	r.derive(KeyInitCashOut, "et_init_cost_all_ + ln_init_amount", "initial cash out = initial outlay + down payment")
	r.derive(KeyInitCashIn, "et_debt_", "initial cash in = debt")
	r.derive(KeyInitCashNet, "et_init_cashin_ - et_init_cashout_", "initial net = initial cash in - initial cash out")
	r.derive(KeyInitCost,
		"bd_reg_cost + bd_price + bd_init_reform_cost + bd_remove_leaves_cost + ld_reg_cost + ld_price + et_purchase_fee_",
		"initial cost = registrations + prices + reform + removal + brokerage fee")
	r.derive(KeyInitTax, "ld_reg_tax_ + bd_reg_tax_ + ld_purchase_tax_ + bd_purchase_tax_",
		"initial tax = registration taxes + acquisition taxes")

	return r, e
}
