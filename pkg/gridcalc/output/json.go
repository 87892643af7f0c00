// Package output renders sheets, windows and recalculation reports as JSON.
package output

import (
	"encoding/json"
	"slices"

	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/models"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/ref"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/sheet"
)

// CellView is one non-empty cell as written to JSON.
type CellView struct {
	Cell    string       `json:"cell"`
	Raw     string       `json:"raw"`
	Formula string       `json:"formula,omitempty"`
	Value   models.Value `json:"value,omitzero"`
	Display string       `json:"display"`
}

// SheetView is a whole sheet with the report of its last recalculation.
type SheetView struct {
	Bounds models.Bounds `json:"bounds"`
	Cells  []CellView    `json:"cells"`
	Report *sheet.Report `json:"report,omitempty"`
}

// WindowView is the part of a sheet inside a window.
type WindowView struct {
	Window models.Window `json:"window"`
	Cells  []CellView    `json:"cells"`
}

// NewCellView converts a record.
func NewCellView(a models.Address, rec models.Record) CellView {
	return CellView{
		Cell:    ref.FormatAddress(a),
		Raw:     rec.Raw,
		Formula: rec.Formula,
		Value:   rec.Computed,
		Display: rec.Display(),
	}
}

// NewSheetView lists cells row-major. rep may be nil.
func NewSheetView(cells map[models.Address]models.Record, bounds models.Bounds, rep *sheet.Report) SheetView {
	return SheetView{
		Bounds: bounds,
		Cells:  views(cells, func(models.Address) bool { return true }),
		Report: rep,
	}
}

// NewWindowView keeps the cells that fall inside win.
func NewWindowView(cells map[models.Address]models.Record, win models.Window) WindowView {
	return WindowView{
		Window: win,
		Cells:  views(cells, win.Contains),
	}
}

func views(cells map[models.Address]models.Record, keep func(models.Address) bool) []CellView {
	addrs := make([]models.Address, 0, len(cells))
	for a := range cells {
		if keep(a) {
			addrs = append(addrs, a)
		}
	}
	slices.SortFunc(addrs, models.Compare)

	out := make([]CellView, 0, len(addrs))
	for _, a := range addrs {
		out = append(out, NewCellView(a, cells[a]))
	}
	return out
}

// ToJSON serializes v to JSON.
func ToJSON(v any, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}
