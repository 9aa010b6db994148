package entity

import "github.com/Simplici0/estatecalc/internal/formula"

// Entities is the full set of records for one year.
type Entities struct {
	Building     Building
	BuildingInfo BuildingInfo
	Land         Land
	LandInfo     LandInfo
	Loan         Loan
	LoanInfo     LoanInfo
	Estate       Estate
}

// Parse runs every record schema over cells in turn, each seeing only the
// cells the previous ones left. All field errors are returned together as a
// *ValidationError.
func Parse(cells []Cell) (Entities, error) {
	var (
		e    Entities
		errs []FieldError
	)
	rest := cells

	building, fe, rest := ParseBuilding(rest)
	errs = append(errs, fe...)
	buildingInfo, fe, rest := ParseBuildingInfo(rest)
	errs = append(errs, fe...)
	land, fe, rest := ParseLand(rest)
	errs = append(errs, fe...)
	landInfo, fe, rest := ParseLandInfo(rest)
	errs = append(errs, fe...)
	loan, fe, rest := ParseLoan(rest)
	errs = append(errs, fe...)
	loanInfo, fe, rest := ParseLoanInfo(rest)
	errs = append(errs, fe...)
	estate, fe, _ := ParseEstate(rest)
	errs = append(errs, fe...)

	if len(errs) > 0 {
		return Entities{}, &ValidationError{Errors: errs}
	}

	e.Building = *building
	e.BuildingInfo = *buildingInfo
	e.Land = *land
	e.LandInfo = *landInfo
	e.Loan = *loan
	e.LoanInfo = *loanInfo
	e.Estate = *estate
	return e, nil
}

// Values flattens every record field into one value map.
func (e Entities) Values() formula.Values {
	out := make(formula.Values, 40)
	for _, vs := range []formula.Values{
		e.Building.Values(),
		e.BuildingInfo.Values(),
		e.Loan.Values(),
		e.Land.Values(),
		e.LandInfo.Values(),
		e.Estate.Values(),
		e.LoanInfo.Values(),
	} {
		for k, v := range vs {
			out[k] = v
		}
	}
	return out
}
