package analyzer

import (
	"fmt"
	"math"
	"strings"

	"github.com/Simplici0/estatecalc/internal/entity"
)

// InsufficientInputError reports that vacancy ratio, rent and surface yield
// do not pin down the prices and each other.
type InsufficientInputError struct {
	Need  int
	Known []string
}

func (e *InsufficientInputError) Error() string {
	return fmt.Sprintf("insufficient input: need %d of %s, %s, %s; have [%s]",
		e.Need, entity.KeyVacancyRatio, entity.KeyRentIncome, entity.KeySurfaceYield, strings.Join(e.Known, ", "))
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

// triangulate settles the prices and fills the one missing quantity among
// vacancy ratio, rent and surface yield.
func triangulate(e entity.Entities) (entity.Entities, error) {
	b, bi, l, est := e.Building, e.BuildingInfo, e.Land, e.Estate

	var known []string
	if bi.VacancyRatio != nil {
		known = append(known, entity.KeyVacancyRatio)
	}
	if bi.RentIncome != nil {
		known = append(known, entity.KeyRentIncome)
	}
	if est.SurfaceYield != nil {
		known = append(known, entity.KeySurfaceYield)
	}
	rooms := float64(b.RoomCount)

	switch {
	case b.Price == nil && l.Price == nil:
		if len(known) < 3 {
			return e, &InsufficientInputError{Need: 3, Known: known}
		}
		total := *bi.RentIncome * rooms * 12 * (1 - *bi.VacancyRatio) / *est.SurfaceYield
		land := total / (1 + b.PriceRatio)
		if !finite(total) || !finite(land) {
			return e, &InsufficientInputError{Need: 3, Known: known}
		}
		l = l.WithPrice(land)
		b = b.WithPrice(land * b.PriceRatio)
	default:
		switch {
		case b.Price != nil && l.Price != nil:
			if *l.Price != 0 {
				b = b.WithPriceRatio(*b.Price / *l.Price)
			}
		case l.Price != nil:
			b = b.WithPrice(*l.Price * b.PriceRatio)
		default:
			l = l.WithPrice(*b.Price / b.PriceRatio)
		}
		if !finite(*b.Price) || !finite(*l.Price) {
			return e, fmt.Errorf("cannot split price with %s = %v", entity.KeyPriceRatio, b.PriceRatio)
		}
		if len(known) < 2 {
			return e, &InsufficientInputError{Need: 2, Known: known}
		}
		if len(known) == 3 {
			est = est.WithSurfaceYield(nil)
		}
	}

	total := *b.Price + *l.Price
	switch {
	case bi.VacancyRatio == nil:
		v := 1 - *est.SurfaceYield*total/(*bi.RentIncome*rooms*12)
		if !finite(v) {
			return e, &InsufficientInputError{Need: 2, Known: known}
		}
		bi = bi.WithVacancyRatio(v)
	case bi.RentIncome == nil:
		r := *est.SurfaceYield * total / (rooms * 12 * (1 - *bi.VacancyRatio))
		if !finite(r) {
			return e, &InsufficientInputError{Need: 2, Known: known}
		}
		bi = bi.WithRentIncome(r)
	case est.SurfaceYield == nil:
		y := *bi.RentIncome * rooms * 12 * (1 - *bi.VacancyRatio) / total
		if !finite(y) {
			return e, &InsufficientInputError{Need: 2, Known: known}
		}
		est = est.WithSurfaceYield(&y)
	}

	e.Building, e.BuildingInfo, e.Land, e.Estate = b, bi, l, est
	return e, nil
}
