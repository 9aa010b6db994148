package registry

import "github.com/Simplici0/estatecalc/internal/entity"

// PricingInitial relates the purchase prices.
func PricingInitial() Registry {
	var r Registry
	r.given(entity.KeyVacancyRatio, "vacancy ratio = given or back-solved")
	r.given(entity.KeyPriceRatio, "price ratio = building price / land price")
	r.given(entity.KeyLandPrice, "land price = given")
	r.derive(KeyPriceAll, "bd_price + ld_price", "total price = building price + land price")
	return r
}

// PricingYearly relates rent to the yearly rent roll.
func PricingYearly() Registry {
	var r Registry
	r.given(entity.KeyRentIncome, "rent per room = given or back-solved")
	r.derive(KeyFullRentYearly, "bd_rent_income * bd_room_count * 12", "full-occupancy rent = rent per room * rooms * 12")
	r.derive(KeyRentYearly, "bd_full_rent_yearly_ * (1 - bd_empty_ratio)", "yearly rent = full-occupancy rent * (1 - vacancy ratio)")
	r.given(entity.KeySurfaceYield, "surface yield = yearly rent / total price")
	return r
}

// Pricing settles the building price from the land price when it was not
// given.
func Pricing() Registry {
	r := PricingInitial()
	r.Merge(PricingYearly())
	r.derive(entity.KeyBuildingPrice, "ld_price * bd_ld_bd_ratio", "building price = given or land price * price ratio")
	return r
}
