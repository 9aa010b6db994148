package entity

import "fmt"

// BuildingType is the structural kind of the building. It decides the legal
// lifespan used for depreciation.
type BuildingType string

const (
	Wood                    BuildingType = "木"
	ReinforcedConcrete      BuildingType = "鉄筋コンクリート"
	SteelReinforcedConcrete BuildingType = "鉄骨鉄筋コンクリート"
	LightGaugeSteel         BuildingType = "軽量鉄骨"
	HeavySteel              BuildingType = "重量鉄骨"
	UnknownBuildingType     BuildingType = "不明"
)

var buildingTypeCodes = map[string]BuildingType{
	"wood":    Wood,
	"rc":      ReinforcedConcrete,
	"src":     SteelReinforcedConcrete,
	"lgs":     LightGaugeSteel,
	"hgs":     HeavySteel,
	"unknown": UnknownBuildingType,
}

// ParseBuildingType accepts the label or its ASCII code.
func ParseBuildingType(s string) (BuildingType, error) {
	if t, ok := buildingTypeCodes[s]; ok {
		return t, nil
	}
	switch t := BuildingType(s); t {
	case Wood, ReinforcedConcrete, SteelReinforcedConcrete, LightGaugeSteel, HeavySteel, UnknownBuildingType:
		return t, nil
	}
	return "", fmt.Errorf("unknown building type %q", s)
}

// LegalLifespan returns the statutory useful life in years.
func (t BuildingType) LegalLifespan() int {
	switch t {
	case Wood:
		return 22
	case LightGaugeSteel:
		return 27
	case HeavySteel:
		return 34
	default:
		return 47
	}
}

// PaymentScheme is how the loan is repaid.
type PaymentScheme string

const (
	// EqualPrincipal repays a constant principal each month.
	EqualPrincipal PaymentScheme = "元金均等返済"
	// EqualInstallment pays a constant installment each month.
	EqualInstallment PaymentScheme = "元利均等返済"
)

// ParsePaymentScheme accepts the label or its ASCII code.
func ParsePaymentScheme(s string) (PaymentScheme, error) {
	switch s {
	case string(EqualPrincipal), "equal_principal":
		return EqualPrincipal, nil
	case string(EqualInstallment), "equal_installment":
		return EqualInstallment, nil
	}
	return "", fmt.Errorf("unknown payment scheme %q", s)
}
