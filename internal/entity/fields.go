package entity

// Cell keys of every record field.
const (
	KeyBuildingPrice        = "bd_price"
	KeyPriceRatio           = "bd_ld_bd_ratio"
	KeyRoomCount            = "bd_room_count"
	KeyAgeAtPurchase        = "bd_leaves_on_purchase"
	KeyBuildingType         = "bd_type"
	KeyLegalLifespan        = "bd_lifespan"
	KeyRemainingLifespan    = "bd_lifespan_now"
	KeyBuildingRegistration = "bd_reg_cost"
	KeyReformCost           = "bd_init_reform_cost"
	KeyRemovalCost          = "bd_remove_leaves_cost"

	KeyBuildingAssessedValue = "bd_tax_account_price"
	KeyBuildingTaxRollValue  = "bd_tax_eval_price"
	KeyVacancyRatio          = "bd_empty_ratio"
	KeySaleVacancyRatio      = "bd_empty_ratio_on_sell"
	KeyRepairCost            = "bd_repair_cost"
	KeyAdFeeRatio            = "bd_ad_fee_ratio"
	KeyRentIncome            = "bd_rent_income"
	KeyMaintenanceFee        = "bd_maintenance_fee"
	KeySaleDeduction         = "bd_sale_deduction_amount"

	KeyLandPrice        = "ld_price"
	KeyLandRegistration = "ld_reg_cost"

	KeyLandAssessedValue = "ld_tax_eval_price"
	KeyLandTaxRollValue  = "ld_tax_account_price"

	KeyDownPayment        = "ln_init_amount"
	KeyFirstPeriodPayment = "ln_debt_payment_all_first"

	KeyTermMonths    = "ln_monthes"
	KeyPaymentScheme = "ln_payment_type"
	KeyAnnualRate    = "ln_ratio"
	KeyPriorBalance  = "ln_debt_all_last"

	KeyYearsElapsed       = "et_years"
	KeySurfaceYield       = "et_surface_ratio"
	KeySaleSurfaceYield   = "et_surface_ratio_on_sell"
	KeyPriorCumulativeNet = "et_last_net_amount"
)

var (
	BuildingFieldNames = []string{
		KeyBuildingRegistration, KeyReformCost, KeyBuildingPrice, KeyRemovalCost, KeyRoomCount,
		KeyAgeAtPurchase, KeyBuildingType, KeyLegalLifespan, KeyRemainingLifespan, KeyPriceRatio,
	}
	BuildingInfoFieldNames = []string{
		KeyBuildingAssessedValue, KeyBuildingTaxRollValue, KeyVacancyRatio, KeySaleVacancyRatio,
		KeyRepairCost, KeyAdFeeRatio, KeyRentIncome, KeyMaintenanceFee, KeySaleDeduction,
	}
	LandFieldNames     = []string{KeyLandRegistration, KeyLandPrice}
	LandInfoFieldNames = []string{KeyLandAssessedValue, KeyLandTaxRollValue}
	LoanFieldNames     = []string{KeyDownPayment, KeyFirstPeriodPayment}
	LoanInfoFieldNames = []string{KeyTermMonths, KeyPaymentScheme, KeyAnnualRate, KeyPriorBalance}
	EstateFieldNames   = []string{KeyYearsElapsed, KeySurfaceYield, KeySaleSurfaceYield, KeyPriorCumulativeNet}
)

// InitialFieldNames are the keys that describe the purchase and do not change
// from year to year.
var InitialFieldNames = []string{
	KeyBuildingPrice,
	KeyLandPrice,
	KeyPriceRatio,
	KeyRoomCount,
	KeyAgeAtPurchase,
	KeyBuildingType,
	KeyLegalLifespan,
	KeyRemainingLifespan,
	KeyReformCost,
	KeyRemovalCost,
	KeyBuildingRegistration,
	KeyLandRegistration,
	KeyDownPayment,
}

// AllFieldNames lists every record key in schema order.
func AllFieldNames() []string {
	var out []string
	for _, names := range [][]string{
		BuildingFieldNames, BuildingInfoFieldNames, LandFieldNames, LandInfoFieldNames,
		LoanFieldNames, LoanInfoFieldNames, EstateFieldNames,
	} {
		out = append(out, names...)
	}
	return out
}

// IsInitialField reports whether key belongs to the year-invariant inputs.
func IsInitialField(key string) bool {
	for _, name := range InitialFieldNames {
		if name == key {
			return true
		}
	}
	return false
}
