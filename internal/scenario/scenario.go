// Package scenario reads investment scenarios written as YAML and turns them
// into analysis datasets.
//
// A scenario lists purchase inputs under "fixed" and per-year inputs under
// "years", keyed by year number. A flat "inputs" section may be used instead;
// its keys are split between the fixed cells and year 1 by field kind.
package scenario

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strconv"

	"gopkg.in/yaml.v2"

	"github.com/Simplici0/estatecalc/internal/analyzer"
	"github.com/Simplici0/estatecalc/internal/entity"
)

//go:embed samples/*.yaml
var samples embed.FS

// Scenario is one set of inputs to analyze.
type Scenario struct {
	Name        string        `yaml:"name" json:"name"`
	Description string        `yaml:"description,omitempty" json:"description,omitempty"`
	Fixed       yaml.MapSlice `yaml:"fixed,omitempty" json:"-"`
	Years       yaml.MapSlice `yaml:"years,omitempty" json:"-"`
	Inputs      yaml.MapSlice `yaml:"inputs,omitempty" json:"-"`
}

// ErrNoName is returned for a scenario without a name.
var ErrNoName = errors.New("scenario has no name")

// Parse decodes a YAML scenario.
func Parse(data []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode scenario: %w", err)
	}
	if s.Name == "" {
		return nil, ErrNoName
	}
	return &s, nil
}

// Load reads and decodes the scenario file at p.
func Load(p string) (*Scenario, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	return Parse(data)
}

// Marshal encodes s back to YAML.
func (s *Scenario) Marshal() ([]byte, error) {
	return yaml.Marshal(s)
}

// Samples returns the bundled example scenarios sorted by name.
func Samples() ([]*Scenario, error) {
	entries, err := fs.ReadDir(samples, "samples")
	if err != nil {
		return nil, fmt.Errorf("list samples: %w", err)
	}
	out := make([]*Scenario, 0, len(entries))
	for _, e := range entries {
		data, err := samples.ReadFile(path.Join("samples", e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read sample %s: %w", e.Name(), err)
		}
		s, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("sample %s: %w", e.Name(), err)
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Sample returns the bundled scenario with the given name.
func Sample(name string) (*Scenario, bool) {
	all, err := Samples()
	if err != nil {
		return nil, false
	}
	for _, s := range all {
		if s.Name == name {
			return s, true
		}
	}
	return nil, false
}

// Dataset lays the scenario out as cells: fixed inputs in column 1 and year N
// in column N+1. Without any yearly section a single year 1 is produced.
func (s *Scenario) Dataset() (analyzer.Dataset, error) {
	d := analyzer.Dataset{YearlyCells: map[string][]entity.Cell{}}

	fixed, err := cellsOf(s.Fixed, 1, nil)
	if err != nil {
		return d, fmt.Errorf("fixed: %w", err)
	}
	d.FixedCells = fixed

	var firstYear []entity.Cell
	for _, item := range s.Inputs {
		key := fmt.Sprint(item.Key)
		value, err := text(item.Value)
		if err != nil {
			return d, fmt.Errorf("inputs.%s: %w", key, err)
		}
		c := entity.Cell{Key: key, Value: value}
		if entity.IsInitialField(key) {
			c.RowIndex, c.ColumnIndex = len(d.FixedCells), 1
			d.FixedCells = append(d.FixedCells, c)
			continue
		}
		c.RowIndex, c.ColumnIndex, c.YearTag = len(firstYear), 2, entity.IntPtr(1)
		firstYear = append(firstYear, c)
	}
	if len(firstYear) > 0 {
		d.YearlyCells["1"] = firstYear
	}

	for _, item := range s.Years {
		label := fmt.Sprint(item.Key)
		year, err := strconv.Atoi(label)
		if err != nil || year < 1 {
			return d, fmt.Errorf("years: %q is not a year number", label)
		}
		body, ok := item.Value.(yaml.MapSlice)
		if !ok && item.Value != nil {
			return d, fmt.Errorf("years.%s: expected a mapping", label)
		}
		cells, err := cellsOf(body, year+1, entity.IntPtr(year))
		if err != nil {
			return d, fmt.Errorf("years.%s: %w", label, err)
		}
		d.YearlyCells[label] = append(d.YearlyCells[label], cells...)
	}

	if _, ok := d.YearlyCells["1"]; !ok {
		d.YearlyCells["1"] = nil
	}
	return d, nil
}

func cellsOf(items yaml.MapSlice, column int, year *int) ([]entity.Cell, error) {
	out := make([]entity.Cell, 0, len(items))
	for i, item := range items {
		key := fmt.Sprint(item.Key)
		value, err := text(item.Value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		c := entity.Cell{Key: key, Value: value, RowIndex: i, ColumnIndex: column}
		if year != nil {
			c.YearTag = entity.IntPtr(*year)
		}
		out = append(out, c)
	}
	return out, nil
}

// text renders a decoded YAML scalar as cell text.
func text(v any) (*string, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case string:
		return entity.StringPtr(t), nil
	case int:
		return entity.StringPtr(strconv.Itoa(t)), nil
	case int64:
		return entity.StringPtr(strconv.FormatInt(t, 10)), nil
	case uint64:
		return entity.StringPtr(strconv.FormatUint(t, 10)), nil
	case float64:
		return entity.StringPtr(strconv.FormatFloat(t, 'f', -1, 64)), nil
	case bool:
		return entity.StringPtr(strconv.FormatBool(t)), nil
	default:
		return nil, fmt.Errorf("unsupported value %v", v)
	}
}

// FromDataset builds a scenario holding the cells of d.
func FromDataset(name string, d analyzer.Dataset) *Scenario {
	s := &Scenario{Name: name}
	for _, c := range d.FixedCells {
		s.Fixed = append(s.Fixed, yaml.MapItem{Key: c.Key, Value: cellValue(c)})
	}
	for _, label := range d.YearLabels() {
		var body yaml.MapSlice
		for _, c := range d.YearlyCells[label] {
			body = append(body, yaml.MapItem{Key: c.Key, Value: cellValue(c)})
		}
		if year, err := strconv.Atoi(label); err == nil {
			s.Years = append(s.Years, yaml.MapItem{Key: year, Value: body})
		}
	}
	return s
}

func cellValue(c entity.Cell) any {
	if t, ok := c.Text(); ok {
		return t
	}
	return nil
}
