package registry

// Derived variables. A trailing underscore marks a value that is only ever
// computed, never entered.
const (
	KeyPriceAll        = "et_price_all_"
	KeyFullRentYearly  = "bd_full_rent_yearly_"
	KeyRentYearly      = "bd_rent_yearly_"
	KeyPurchaseFee     = "et_purchase_fee_"
	KeyLandRegTax      = "ld_reg_tax_"
	KeyLandPurchaseTax = "ld_purchase_tax_"
	KeyBuildingRegTax  = "bd_reg_tax_"
	KeyBuildingPurTax  = "bd_purchase_tax_"
	KeyFixedAssetsTax  = "et_fixed_assets_tax_"
	KeyCityPlanTax     = "et_city_plan_tax_"
	KeyInitCost        = "et_init_cost_"
	KeyInitTax         = "et_init_tax_"
	KeyInitCostAll     = "et_init_cost_all_"
	KeyDebtAll         = "et_debt_all_"
	KeyDebt            = "et_debt_"
	KeyInitCashOut     = "et_init_cashout_"
	KeyInitCashIn      = "et_init_cashin_"
	KeyInitCashNet     = "et_init_cashnet_"

	KeyRemainingMonths = "leave_monthes_"
	KeyPrincipalPaid   = "et_principal_repayment_"
	KeyInterestPaid    = "et_interest_paid_"
	KeyRepayment       = "et_repayment_"
	KeyDebtEnd         = "et_leave_debt_end_"

	KeyAdFee            = "bd_ad_fee_"
	KeyCostYearly       = "et_cost_yearly_"
	KeyNetYearly        = "et_net_yearly_"
	KeyDepreciation     = "bd_depreciation_"
	KeyTaxableIncome    = "et_taxable_income_"
	KeyTax              = "et_tax_"
	KeyTaxAll           = "et_tax_all_"
	KeyNetAmount        = "et_net_amount_"
	KeyNetAmountAll     = "et_net_amount_all_"
	KeySurfaceYieldAll  = "et_surface_ratio_all_"
	KeyNetYield         = "et_net_ratio_"
	KeyNetYieldAll      = "et_net_ratio_all_"
	KeyDepreciationLeft = "bd_depreciation_leaves_"
)
