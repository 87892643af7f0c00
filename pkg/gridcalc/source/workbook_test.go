package source

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/models"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/sheet"
	"github.com/xuri/excelize/v2"
)

func TestReadWorkbook(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Sheet1"
	f.SetCellFormula(sheetName, "A1", "SUM(B1:C1)")
	f.SetCellValue(sheetName, "B1", 2)
	f.SetCellValue(sheetName, "C1", 3.5)
	f.SetCellFormula(sheetName, "A2", "B1*C1")
	f.SetCellValue(sheetName, "B2", "note")
	f.SetCellValue(sheetName, "NTQ3", "wide")

	tmpFile := filepath.Join(t.TempDir(), "test.xlsx")
	if err := f.SaveAs(tmpFile); err != nil {
		t.Fatalf("Failed to save test file: %v", err)
	}

	edits, warnings, err := ReadWorkbook(tmpFile, "")
	if err != nil {
		t.Fatalf("ReadWorkbook failed: %v", err)
	}

	wantEdits := []models.Edit{
		{Address: models.Address{Row: 0, Col: 0}, Raw: "=SUM(B1:C1)"},
		{Address: models.Address{Row: 0, Col: 1}, Raw: "2"},
		{Address: models.Address{Row: 0, Col: 2}, Raw: "3.5"},
		{Address: models.Address{Row: 1, Col: 0}, Raw: "=B1*C1"},
		{Address: models.Address{Row: 1, Col: 1}, Raw: "note"},
	}
	if diff := cmp.Diff(wantEdits, edits); diff != "" {
		t.Errorf("edits mismatch (-want +got):\n%s", diff)
	}

	var reasons []string
	for _, w := range warnings {
		reasons = append(reasons, w.Cell+": "+w.Reason)
	}
	wantReasons := []string{
		"A1: function SUM",
		"A1: range B1:C1",
		"NTQ3: outside the grid",
	}
	if diff := cmp.Diff(wantReasons, reasons); diff != "" {
		t.Errorf("warnings mismatch (-want +got):\n%s", diff)
	}
}

func TestReadWorkbookMissingSheet(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	tmpFile := filepath.Join(t.TempDir(), "empty.xlsx")
	if err := f.SaveAs(tmpFile); err != nil {
		t.Fatalf("Failed to save test file: %v", err)
	}

	if _, _, err := ReadWorkbook(tmpFile, "Nope"); err == nil {
		t.Error("expected an error for a missing sheet")
	}
	if _, _, err := ReadWorkbook(filepath.Join(t.TempDir(), "absent.xlsx"), ""); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestWorkbookRoundTrip(t *testing.T) {
	s := sheet.New(sheet.DefaultOptions())
	edits := []models.Edit{
		{Address: models.Address{Row: 0, Col: 0}, Raw: "5"},
		{Address: models.Address{Row: 0, Col: 1}, Raw: "=A1*2"},
		{Address: models.Address{Row: 0, Col: 2}, Raw: "label"},
		{Address: models.Address{Row: 2, Col: 0}, Raw: "=B1-A1"},
		{Address: models.Address{Row: 2, Col: 3}, Raw: "0.25"},
	}
	if _, err := s.Apply(edits...); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	tmpFile := filepath.Join(t.TempDir(), "out.xlsx")
	if err := WriteWorkbook(tmpFile, "Grid", s.Snapshot()); err != nil {
		t.Fatalf("WriteWorkbook failed: %v", err)
	}

	got, warnings, err := ReadWorkbook(tmpFile, "Grid")
	if err != nil {
		t.Fatalf("ReadWorkbook failed: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	if diff := cmp.Diff(edits, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestUnsupported(t *testing.T) {
	tests := []struct {
		formula  string
		expected []string
	}{
		{"=1+2*A1", nil},
		{"=-(B2/3)", nil},
		{"=SUM(A1:B2)", []string{"function SUM", "range A1:B2"}},
		{"=Sheet2!A1+1", []string{"cross-sheet reference Sheet2!A1"}},
		{"=$A$1*2", []string{"absolute reference $A$1"}},
		{"=2^3", []string{"operator ^"}},
		{"=10%", []string{"operator %"}},
		{"=A1>1", []string{"operator >"}},
		{"=total*2", []string{"name total"}},
		{"=A1&\"x\"", []string{"operator &", "text operand"}},
		{"=NTQ1+1", nil},
	}

	for _, tt := range tests {
		result := Unsupported(tt.formula)
		if diff := cmp.Diff(tt.expected, result); diff != "" {
			t.Errorf("Unsupported(%q) mismatch (-want +got):\n%s", tt.formula, diff)
		}
	}
}
