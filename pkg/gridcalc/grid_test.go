package gridcalc

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/models"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/viewport"
	"github.com/xuri/excelize/v2"
)

func newGrid(t *testing.T) *Grid {
	t.Helper()
	g, err := New(DefaultOptions())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return g
}

func mustAddress(t *testing.T, g *Grid, label string) models.Address {
	t.Helper()
	a, ok := g.LabelToAddress(label)
	if !ok {
		t.Fatalf("LabelToAddress(%q) failed", label)
	}
	return a
}

func TestSetAndGet(t *testing.T) {
	g := newGrid(t)
	if _, err := g.SetCell(mustAddress(t, g, "A1"), "5"); err != nil {
		t.Fatal(err)
	}
	if _, err := g.SetCell(mustAddress(t, g, "B1"), "=A1*2"); err != nil {
		t.Fatal(err)
	}
	if _, err := g.SetCell(mustAddress(t, g, "A1"), "7"); err != nil {
		t.Fatal(err)
	}

	rec, ok := g.GetCell(mustAddress(t, g, "B1"))
	if !ok || rec.Display() != "14" {
		t.Errorf("B1 = %+v, expected 14", rec)
	}
	if _, ok := g.GetCell(mustAddress(t, g, "Z9")); ok {
		t.Error("Z9 present in an untouched grid")
	}
}

func TestSetCellError(t *testing.T) {
	g := newGrid(t)
	_, err := g.SetCell(models.Address{Row: -1, Col: 2}, "1")

	var editErr *EditError
	if !errors.As(err, &editErr) {
		t.Fatalf("SetCell error = %v, expected *EditError", err)
	}
	if editErr.Op != "set" || editErr.Address != (models.Address{Row: -1, Col: 2}) {
		t.Errorf("EditError = %+v", editErr)
	}
	if !errors.Is(err, models.ErrAddressOutOfRange) {
		t.Errorf("SetCell error = %v, expected ErrAddressOutOfRange", err)
	}
	if !strings.Contains(err.Error(), "(-1, 2)") {
		t.Errorf("error text = %q", err.Error())
	}
}

func TestApplyScript(t *testing.T) {
	g := newGrid(t)
	rep, err := g.ApplyScript(strings.NewReader("A1 2\nA2 =A1*A1\nA3 =A2+A1\n"))
	if err != nil {
		t.Fatalf("ApplyScript failed: %v", err)
	}
	if !rep.Converged {
		t.Errorf("report = %+v", rep)
	}
	if rec, _ := g.GetCell(mustAddress(t, g, "A3")); rec.Display() != "6" {
		t.Errorf("A3 = %q, expected 6", rec.Display())
	}

	_, err = g.Apply(models.Edit{Address: models.Address{Row: 0, Col: models.MaxCols}, Raw: "1"})
	var editErr *EditError
	if !errors.As(err, &editErr) || editErr.Op != "apply" || editErr.Address.Col != models.MaxCols {
		t.Errorf("Apply error = %v", err)
	}
}

func TestComputeWindow(t *testing.T) {
	g := newGrid(t)
	win := g.ComputeWindow(240, 500, 480, 300)
	want := models.Window{RowStart: 10, RowEnd: 32, ColStart: 5, ColEnd: 10}
	if diff := cmp.Diff(want, win); diff != "" {
		t.Errorf("window mismatch (-want +got):\n%s", diff)
	}

	h, w := g.ContentSize()
	if h != 240000 || w != 1000000 {
		t.Errorf("ContentSize() = %v, %v", h, w)
	}
}

func TestLabels(t *testing.T) {
	g := newGrid(t)
	if got := g.IndexToLabel(27); got != "AB" {
		t.Errorf("IndexToLabel(27) = %q, expected AB", got)
	}
	if _, ok := g.LabelToAddress("A0"); ok {
		t.Error("LabelToAddress(A0) succeeded")
	}
}

func TestEditorCommitsThroughGrid(t *testing.T) {
	g := newGrid(t)
	if _, err := g.SetCell(mustAddress(t, g, "A1"), "4"); err != nil {
		t.Fatal(err)
	}

	ed := g.Editor()
	if _, err := ed.BeginEditAt(mustAddress(t, g, "C3")); err != nil {
		t.Fatal(err)
	}
	ed.SetBuffer("=A1/8")
	if _, err := ed.Select(mustAddress(t, g, "A1")); err != nil {
		t.Fatal(err)
	}

	if rec, _ := g.GetCell(mustAddress(t, g, "C3")); rec.Display() != "0.5" {
		t.Errorf("C3 = %q, expected 0.5", rec.Display())
	}
}

func TestDependencies(t *testing.T) {
	g := newGrid(t)
	if _, err := g.ApplyScript(strings.NewReader("A1 =B1+1\nB1 =A1+1\nC1 =A1\n")); err != nil {
		t.Fatal(err)
	}
	cycles := g.Dependencies().Cycles()
	want := [][]models.Address{{mustAddress(t, g, "A1"), mustAddress(t, g, "B1")}}
	if diff := cmp.Diff(want, cycles); diff != "" {
		t.Errorf("cycles mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadAndSaveWorkbook(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	f.SetCellValue("Sheet1", "A1", 3)
	f.SetCellFormula("Sheet1", "B1", "A1*3")
	f.SetCellValue("Sheet1", "C1", "end")
	f.SetCellFormula("Sheet1", "A2", "MAX(A1,B1)")
	f.SetCellValue("Sheet1", "B2", 1)

	dir := t.TempDir()
	in := filepath.Join(dir, "in.xlsx")
	if err := f.SaveAs(in); err != nil {
		t.Fatalf("Failed to save test file: %v", err)
	}

	g := newGrid(t)
	if _, err := g.SetCell(mustAddress(t, g, "Z99"), "stale"); err != nil {
		t.Fatal(err)
	}
	_, warnings, err := g.LoadWorkbook(in, "")
	if err != nil {
		t.Fatalf("LoadWorkbook failed: %v", err)
	}
	if len(warnings) == 0 || warnings[0].Cell != "A2" {
		t.Errorf("warnings = %v, expected one for A2", warnings)
	}
	if _, ok := g.GetCell(mustAddress(t, g, "Z99")); ok {
		t.Error("LoadWorkbook kept earlier cells")
	}
	if rec, _ := g.GetCell(mustAddress(t, g, "B1")); rec.Display() != "9" {
		t.Errorf("B1 = %q, expected 9", rec.Display())
	}
	if rec, _ := g.GetCell(mustAddress(t, g, "A2")); !rec.Computed.IsError() {
		t.Errorf("A2 = %+v, expected the error marker", rec)
	}

	out := filepath.Join(dir, "out.xlsx")
	if err := g.SaveWorkbook(out, ""); err != nil {
		t.Fatalf("SaveWorkbook failed: %v", err)
	}
	reloaded := newGrid(t)
	if _, _, err := reloaded.LoadWorkbook(out, ""); err != nil {
		t.Fatalf("LoadWorkbook failed: %v", err)
	}
	if diff := cmp.Diff(g.Snapshot(), reloaded.Snapshot()); diff != "" {
		t.Errorf("save/load mismatch (-saved +reloaded):\n%s", diff)
	}

	if _, _, err := g.LoadWorkbook(filepath.Join(dir, "missing.xlsx"), ""); !errors.Is(err, ErrFileNotFound) {
		t.Errorf("LoadWorkbook error = %v, expected ErrFileNotFound", err)
	}
}

func TestInvalidOptions(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxPasses = -1
	if _, err := New(opts); !errors.Is(err, models.ErrInvalidOptions) {
		t.Errorf("New error = %v, expected ErrInvalidOptions", err)
	}

	opts = DefaultOptions()
	opts.Viewport = viewport.Options{}
	if _, err := New(opts); !errors.Is(err, models.ErrInvalidOptions) {
		t.Errorf("New error = %v, expected ErrInvalidOptions", err)
	}
}
