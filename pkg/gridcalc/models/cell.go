// Package models defines the value types shared by the grid packages.
package models

import (
	"math"
	"strconv"
	"strings"
)

const (
	// MaxRows is the number of addressable rows.
	MaxRows = 10000
	// MaxCols is the number of addressable columns.
	MaxCols = 10000
)

// Address is a zero-based cell position.
type Address struct {
	// Row is the row index (0-based).
	Row int `json:"row"`
	// Col is the column index (0-based).
	Col int `json:"col"`
}

// Valid reports whether the address lies inside the grid.
func (a Address) Valid() bool {
	return a.Row >= 0 && a.Row < MaxRows && a.Col >= 0 && a.Col < MaxCols
}

// Less orders addresses row-major.
func (a Address) Less(b Address) bool {
	if a.Row != b.Row {
		return a.Row < b.Row
	}
	return a.Col < b.Col
}

// Compare orders addresses row-major for slices.SortFunc.
func Compare(a, b Address) int {
	switch {
	case a.Less(b):
		return -1
	case b.Less(a):
		return 1
	default:
		return 0
	}
}

// FormulaPrefix marks raw text as a formula.
const FormulaPrefix = "="

// Record is the content of a single non-empty cell.
type Record struct {
	// Raw is the text exactly as entered.
	Raw string `json:"raw"`
	// Formula equals Raw when Raw starts with "=", and is empty otherwise.
	Formula string `json:"formula,omitempty"`
	// Computed is the cached result of Formula. Empty for literal cells.
	Computed Value `json:"computed,omitzero"`
}

// NewRecord builds a record from raw text. The computed value is left empty.
func NewRecord(raw string) Record {
	r := Record{Raw: raw}
	if strings.HasPrefix(raw, FormulaPrefix) {
		r.Formula = raw
	}
	return r
}

// IsFormula reports whether the record holds a formula.
func (r Record) IsFormula() bool {
	return r.Formula != ""
}

// Effective returns the text substituted for a reference to this cell:
// the computed value when there is one, the raw text when it is numeric,
// and "0" otherwise.
func (r Record) Effective() string {
	if !r.Computed.IsEmpty() {
		return r.Computed.String()
	}
	if f, ok := parseDecimal(r.Raw); ok {
		return FormatNumber(f)
	}
	return "0"
}

// parseDecimal accepts finite decimal text. Hex floats and digit
// separators, which strconv also takes, are rejected.
func parseDecimal(text string) (float64, bool) {
	text = strings.TrimSpace(text)
	if strings.Contains(text, "_") {
		return 0, false
	}
	unsigned := strings.TrimLeft(text, "+-")
	if strings.HasPrefix(unsigned, "0x") || strings.HasPrefix(unsigned, "0X") {
		return 0, false
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// Display returns what a renderer shows for the cell.
func (r Record) Display() string {
	if r.IsFormula() {
		return r.Computed.String()
	}
	return r.Raw
}
