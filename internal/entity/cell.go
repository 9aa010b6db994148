// Package entity turns labeled input cells into the typed records the
// pro-forma is computed from: the building, the land, the loan and the
// holding itself, each with its yearly information.
package entity

import (
	"math"
	"strconv"
	"strings"
)

// Cell is one labeled input or output value, positioned the way the caller
// laid it out. Key decides which record field the cell feeds.
type Cell struct {
	Key         string  `json:"key" yaml:"key"`
	Value       *string `json:"value" yaml:"value"`
	RowIndex    int     `json:"row_index" yaml:"row_index"`
	ColumnIndex int     `json:"column_index" yaml:"column_index"`
	YearTag     *int    `json:"year_tag" yaml:"year_tag"`
	Title       string  `json:"title,omitempty" yaml:"title,omitempty"`
}

// Text returns the raw cell text and whether the cell has any.
func (c Cell) Text() (string, bool) {
	if c.Value == nil {
		return "", false
	}
	return *c.Value, true
}

// StringPtr is a helper for building cells.
func StringPtr(s string) *string { return &s }

// IntPtr is a helper for building cells.
func IntPtr(i int) *int { return &i }

// CloneCells deep-copies cells so the copy can be edited independently.
func CloneCells(cells []Cell) []Cell {
	out := make([]Cell, len(cells))
	for i, c := range cells {
		out[i] = c
		if c.Value != nil {
			out[i].Value = StringPtr(*c.Value)
		}
		if c.YearTag != nil {
			out[i].YearTag = IntPtr(*c.YearTag)
		}
	}
	return out
}

// rawValue is a cell value after separator stripping: a number when the text
// parses as one, otherwise the text itself.
type rawValue struct {
	num   float64
	text  string
	isNum bool
}

func parseRaw(s string) (rawValue, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return rawValue{}, false
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return rawValue{num: f, text: s, isNum: true}, true
	}
	return rawValue{text: s}, true
}
