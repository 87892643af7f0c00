package source

import (
	"fmt"
	"strings"

	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/models"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/ref"
	"github.com/xuri/excelize/v2"
)

// ParseRange parses "A1:D10", "$A$1:$D$10" or a single cell into the
// half-open window covering it. Corners may be given in either order.
func ParseRange(text string) (models.Window, error) {
	text = strings.ReplaceAll(strings.TrimSpace(text), "$", "")
	first, last, found := strings.Cut(text, ":")
	if !found {
		last = first
	}

	from, ok := ref.ParseAddress(first)
	if !ok {
		return models.Window{}, fmt.Errorf("%w: %q", ErrInvalidLabel, first)
	}
	to, ok := ref.ParseAddress(last)
	if !ok {
		return models.Window{}, fmt.Errorf("%w: %q", ErrInvalidLabel, last)
	}

	return models.Window{
		RowStart: min(from.Row, to.Row),
		RowEnd:   max(from.Row, to.Row) + 1,
		ColStart: min(from.Col, to.Col),
		ColEnd:   max(from.Col, to.Col) + 1,
	}, nil
}

// ReadPrintAreas returns the print areas defined for a sheet of an xlsx
// file. Areas that do not fit the grid are skipped.
func ReadPrintAreas(path, sheetName string) ([]models.Window, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	if sheetName == "" {
		if sheets := f.GetSheetList(); len(sheets) > 0 {
			sheetName = sheets[0]
		}
	}

	var areas []models.Window
	for _, dn := range f.GetDefinedName() {
		if !strings.EqualFold(dn.Name, "_xlnm.Print_Area") {
			continue
		}
		for _, part := range strings.Split(dn.RefersTo, ",") {
			sheet, rangeStr, found := strings.Cut(strings.TrimSpace(part), "!")
			if !found || strings.Trim(sheet, "'") != sheetName {
				continue
			}
			if win, err := ParseRange(rangeStr); err == nil {
				areas = append(areas, win)
			}
		}
	}
	return areas, nil
}
