// Package formula evaluates cell formulas: references are replaced by the
// values of the cells they name and the remaining text is evaluated as an
// arithmetic expression over + - * / and parentheses.
package formula

import (
	"strings"

	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/models"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/ref"
)

// Reader is a read-only view of the cells a formula can reference.
type Reader interface {
	Cell(a models.Address) (models.Record, bool)
}

// MapReader adapts a plain map to Reader.
type MapReader map[models.Address]models.Record

// Cell implements Reader.
func (m MapReader) Cell(a models.Address) (models.Record, bool) {
	r, ok := m[a]
	return r, ok
}

// Substitute strips the leading "=" and replaces every reference with the
// effective text of the cell it names. Missing cells, cells outside the grid
// and non-numeric literals read as "0".
func Substitute(formulaText string, r Reader) string {
	expr := strings.TrimPrefix(formulaText, models.FormulaPrefix)
	return ref.Pattern.ReplaceAllStringFunc(expr, func(label string) string {
		a, ok := ref.Decode(label)
		if !ok || !a.Valid() {
			return "0"
		}
		rec, ok := r.Cell(a)
		if !ok {
			return "0"
		}
		return rec.Effective()
	})
}

// Evaluate computes the value of a formula against r. It never fails: any
// text that is not a well-formed arithmetic expression, and any result that
// is not finite, yields the error marker.
func Evaluate(formulaText string, r Reader) models.Value {
	node, err := Parse(Substitute(formulaText, r))
	if err != nil {
		return models.Error()
	}
	result, err := node.Eval()
	if err != nil {
		return models.Error()
	}
	return models.Number(result)
}

// References lists the distinct in-grid cells named by a formula, in order
// of first appearance.
func References(formulaText string) []models.Address {
	var out []models.Address
	seen := make(map[models.Address]struct{})
	for _, label := range ref.Pattern.FindAllString(formulaText, -1) {
		a, ok := ref.ParseAddress(label)
		if !ok {
			continue
		}
		if _, dup := seen[a]; dup {
			continue
		}
		seen[a] = struct{}{}
		out = append(out, a)
	}
	return out
}
