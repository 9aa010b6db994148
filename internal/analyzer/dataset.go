package analyzer

import (
	"sort"
	"strconv"

	"github.com/Simplici0/estatecalc/internal/entity"
	"github.com/Simplici0/estatecalc/internal/formula"
	"github.com/Simplici0/estatecalc/internal/registry"
)

// Dataset is the input and result of one analysis run. YearlyCells is keyed
// by year label ("1", "2", ...).
type Dataset struct {
	Error       string                   `json:"error,omitempty"`
	Err         error                    `json:"-"`
	FixedCells  []entity.Cell            `json:"fixed_cells"`
	YearlyCells map[string][]entity.Cell `json:"yearly_cells"`
	Outputs     []YearOutput             `json:"outputs"`
}

// YearOutput is everything resolved for one holding year.
type YearOutput struct {
	Year     int                `json:"year"`
	Values   formula.Values     `json:"values"`
	Notes    []string           `json:"notes,omitempty"`
	Formulas []registry.Formula `json:"formulas,omitempty"`
	Report   formula.Report     `json:"report"`
}

// Output returns the output of the given year.
func (d Dataset) Output(year int) (YearOutput, bool) {
	for _, o := range d.Outputs {
		if o.Year == year {
			return o, true
		}
	}
	return YearOutput{}, false
}

// YearLabels returns the labels of YearlyCells in numeric order; labels that
// are not numbers sort last.
func (d Dataset) YearLabels() []string {
	labels := make([]string, 0, len(d.YearlyCells))
	for l := range d.YearlyCells {
		labels = append(labels, l)
	}
	sort.Slice(labels, func(i, j int) bool {
		a, errA := strconv.Atoi(labels[i])
		b, errB := strconv.Atoi(labels[j])
		switch {
		case errA == nil && errB == nil:
			return a < b
		case errA == nil:
			return true
		case errB == nil:
			return false
		default:
			return labels[i] < labels[j]
		}
	})
	return labels
}

// UpdateCells writes every resolved value back onto the cell with the same
// key. A null value clears the cell. Cells are edited in place and returned.
func UpdateCells(cells []entity.Cell, values formula.Values) []entity.Cell {
	for i := range cells {
		v, ok := values[cells[i].Key]
		if !ok {
			continue
		}
		if v.IsNull() {
			cells[i].Value = nil
			continue
		}
		cells[i].Value = entity.StringPtr(v.String())
	}
	return cells
}

func cloneYearly(in map[string][]entity.Cell) map[string][]entity.Cell {
	out := make(map[string][]entity.Cell, len(in))
	for k, v := range in {
		out[k] = entity.CloneCells(v)
	}
	return out
}

// upsert sets the value of the cell with key, appending a new cell in the
// given column when none exists.
func upsert(cells []entity.Cell, key, value string, column, year int) []entity.Cell {
	row := 0
	for i := range cells {
		if cells[i].Key == key {
			cells[i].Value = entity.StringPtr(value)
			return cells
		}
		row = max(row, cells[i].RowIndex+1)
	}
	return append(cells, entity.Cell{
		Key:         key,
		Value:       entity.StringPtr(value),
		RowIndex:    row,
		ColumnIndex: column,
		YearTag:     entity.IntPtr(year),
	})
}
