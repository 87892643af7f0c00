package source

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/models"
	"github.com/xuri/excelize/v2"
)

// ReadWorkbook reads one sheet of an xlsx file as edits in row-major order.
// Formula cells yield their formula text with a leading "=". An empty
// sheetName selects the first sheet. Cells outside the grid are skipped
// with a warning, as are formulas that use features the evaluator lacks.
func ReadWorkbook(path, sheetName string) ([]models.Edit, []Warning, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	if sheetName == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, nil, fmt.Errorf("workbook %s has no sheets", path)
		}
		sheetName = sheets[0]
	}

	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, nil, fmt.Errorf("read sheet %q: %w", sheetName, err)
	}

	var edits []models.Edit
	var warnings []Warning
	for rowIdx, row := range rows {
		for colIdx, cellValue := range row {
			a := models.Address{Row: rowIdx, Col: colIdx}
			cellName, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
			if err != nil {
				return nil, nil, err
			}

			formula, err := f.GetCellFormula(sheetName, cellName)
			if err != nil {
				return nil, nil, fmt.Errorf("read formula %s: %w", cellName, err)
			}
			raw := cellValue
			if formula != "" {
				raw = models.FormulaPrefix + strings.TrimPrefix(formula, models.FormulaPrefix)
			}
			if raw == "" {
				continue
			}

			if !a.Valid() {
				warnings = append(warnings, Warning{Address: a, Cell: cellName, Reason: "outside the grid"})
				continue
			}
			if formula != "" {
				for _, reason := range Unsupported(raw) {
					warnings = append(warnings, Warning{Address: a, Cell: cellName, Formula: raw, Reason: reason})
				}
			}
			edits = append(edits, models.Edit{Address: a, Raw: raw})
		}
	}
	return edits, warnings, nil
}

// WriteWorkbook writes cells to a new xlsx file. Numeric literals are stored
// as numbers, other literals as text, and formulas with their last computed
// number as the cached value.
func WriteWorkbook(path, sheetName string, cells map[models.Address]models.Record) error {
	f := excelize.NewFile()
	defer f.Close()

	const defaultSheet = "Sheet1"
	if sheetName == "" {
		sheetName = defaultSheet
	}
	if sheetName != defaultSheet {
		if err := f.SetSheetName(defaultSheet, sheetName); err != nil {
			return fmt.Errorf("rename sheet: %w", err)
		}
	}

	addrs := make([]models.Address, 0, len(cells))
	for a := range cells {
		addrs = append(addrs, a)
	}
	slices.SortFunc(addrs, models.Compare)

	for _, a := range addrs {
		rec := cells[a]
		cellName, err := excelize.CoordinatesToCellName(a.Col+1, a.Row+1)
		if err != nil {
			return err
		}
		if err := writeCell(f, sheetName, cellName, rec); err != nil {
			return fmt.Errorf("write %s: %w", cellName, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func writeCell(f *excelize.File, sheetName, cellName string, rec models.Record) error {
	if !rec.IsFormula() {
		if n, err := strconv.ParseFloat(rec.Raw, 64); err == nil && !math.IsInf(n, 0) && !math.IsNaN(n) {
			return f.SetCellFloat(sheetName, cellName, n, -1, 64)
		}
		return f.SetCellStr(sheetName, cellName, rec.Raw)
	}

	if rec.Computed.Kind == models.ValueNumber {
		if err := f.SetCellFloat(sheetName, cellName, rec.Computed.Number, -1, 64); err != nil {
			return err
		}
	}
	return f.SetCellFormula(sheetName, cellName, strings.TrimPrefix(rec.Formula, models.FormulaPrefix))
}
