package gridcalc

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/depgraph"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/models"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/ref"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/selection"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/sheet"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/source"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/viewport"
)

// Grid ties a sheet to its viewport geometry and selection state.
// It is not safe for concurrent use.
type Grid struct {
	sheet  *sheet.Sheet
	window *viewport.Windower
	editor *selection.Editor
	log    zerolog.Logger
}

// New creates an empty grid.
func New(opts Options) (*Grid, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	w, err := viewport.New(opts.Viewport)
	if err != nil {
		return nil, err
	}
	s := sheet.New(opts.sheetOptions())
	return &Grid{
		sheet:  s,
		window: w,
		editor: selection.NewEditor(s, opts.Logger),
		log:    opts.Logger.With().Str("component", "grid").Logger(),
	}, nil
}

// GetCell returns the record at a.
func (g *Grid) GetCell(a models.Address) (models.Record, bool) {
	return g.sheet.Get(a)
}

// SetCell writes raw text to a and recalculates. Empty text clears the cell.
func (g *Grid) SetCell(a models.Address, raw string) (sheet.Report, error) {
	rep, err := g.sheet.Set(a, raw)
	if err != nil {
		return rep, NewEditError(a, "set", err)
	}
	return rep, nil
}

// Apply writes a batch of edits and recalculates once.
func (g *Grid) Apply(edits ...models.Edit) (sheet.Report, error) {
	rep, err := g.sheet.Apply(edits...)
	if err != nil {
		var bad models.Address
		for _, e := range edits {
			if !e.Address.Valid() {
				bad = e.Address
				break
			}
		}
		return rep, NewEditError(bad, "apply", err)
	}
	return rep, nil
}

// ApplyScript reads an edit script and applies it as one batch.
func (g *Grid) ApplyScript(r io.Reader) (sheet.Report, error) {
	edits, err := source.ReadEdits(r)
	if err != nil {
		return sheet.Report{}, err
	}
	return g.Apply(edits...)
}

// LoadWorkbook replaces the grid contents with one sheet of an xlsx file.
// Warnings list cells that will not evaluate as they do in Excel.
func (g *Grid) LoadWorkbook(path, sheetName string) (sheet.Report, []source.Warning, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return sheet.Report{}, nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}
	edits, warnings, err := source.ReadWorkbook(path, sheetName)
	if err != nil {
		return sheet.Report{}, nil, err
	}
	for _, w := range warnings {
		g.log.Warn().Str("cell", w.Cell).Str("formula", w.Formula).Msg(w.Reason)
	}

	g.editor.Cancel()
	g.sheet.Clear()
	rep, err := g.Apply(edits...)
	return rep, warnings, err
}

// SaveWorkbook writes the grid contents to an xlsx file.
func (g *Grid) SaveWorkbook(path, sheetName string) error {
	return source.WriteWorkbook(path, sheetName, g.sheet.Snapshot())
}

// Recalculate runs the recalculation engine without changing any cell.
func (g *Grid) Recalculate() sheet.Report {
	return g.sheet.Recalculate()
}

// ComputeWindow returns the rows and columns to render.
func (g *Grid) ComputeWindow(scrollTop, scrollLeft, heightPx, widthPx float64) models.Window {
	return g.window.Compute(scrollTop, scrollLeft, heightPx, widthPx)
}

// CurrentWindow computes the window from the renderer's size and scroll state.
func (g *Grid) CurrentWindow(size viewport.SizeSource, scroll viewport.ScrollSource) models.Window {
	return g.window.Current(size, scroll)
}

// ContentSize returns the full scrollable size in pixels.
func (g *Grid) ContentSize() (heightPx, widthPx float64) {
	return g.window.ContentSize()
}

// IndexToLabel returns the column label of a 0-based index.
func (g *Grid) IndexToLabel(col int) string {
	return ref.ColumnLabel(col)
}

// LabelToAddress parses an A1 label.
func (g *Grid) LabelToAddress(text string) (models.Address, bool) {
	return ref.ParseAddress(text)
}

// Editor returns the selection/edit state machine of the grid.
func (g *Grid) Editor() *selection.Editor {
	return g.editor
}

// Dependencies builds the reference graph of the current formulas.
func (g *Grid) Dependencies() *depgraph.Graph {
	return depgraph.Build(g.sheet.Snapshot())
}

// Snapshot returns a detached copy of every cell.
func (g *Grid) Snapshot() map[models.Address]models.Record {
	return g.sheet.Snapshot()
}

// Bounds returns the used range.
func (g *Grid) Bounds() models.Bounds {
	return g.sheet.Bounds()
}

// Len returns the number of non-empty cells.
func (g *Grid) Len() int {
	return g.sheet.Len()
}
