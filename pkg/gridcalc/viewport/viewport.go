// Package viewport maps scroll offsets and a visible pixel area to the
// block of rows and columns a renderer has to materialize.
package viewport

import (
	"errors"
	"fmt"
	"math"

	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/models"
)

// Options describes the grid geometry.
type Options struct {
	// CellWidth is the width of a column in pixels.
	CellWidth float64
	// CellHeight is the height of a row in pixels.
	CellHeight float64
	// OverscanRows is the number of rows rendered past the visible edge.
	OverscanRows int
	// OverscanCols is the number of columns rendered past the visible edge.
	OverscanCols int
	// TotalRows is the number of rows in the grid.
	TotalRows int
	// TotalCols is the number of columns in the grid.
	TotalCols int
}

// DefaultOptions returns a 100x24 pixel cell grid spanning the whole sheet
// with two rows and columns of overscan.
func DefaultOptions() Options {
	return Options{
		CellWidth:    100,
		CellHeight:   24,
		OverscanRows: 2,
		OverscanCols: 2,
		TotalRows:    models.MaxRows,
		TotalCols:    models.MaxCols,
	}
}

// Validate checks that the geometry is usable.
func (o Options) Validate() error {
	var errs []error
	if !(o.CellWidth > 0) || math.IsInf(o.CellWidth, 0) {
		errs = append(errs, fmt.Errorf("cell width %v must be positive", o.CellWidth))
	}
	if !(o.CellHeight > 0) || math.IsInf(o.CellHeight, 0) {
		errs = append(errs, fmt.Errorf("cell height %v must be positive", o.CellHeight))
	}
	if o.OverscanRows < 0 || o.OverscanRows > models.MaxRows {
		errs = append(errs, fmt.Errorf("overscan rows %d must be in [0, %d]", o.OverscanRows, models.MaxRows))
	}
	if o.OverscanCols < 0 || o.OverscanCols > models.MaxCols {
		errs = append(errs, fmt.Errorf("overscan cols %d must be in [0, %d]", o.OverscanCols, models.MaxCols))
	}
	if o.TotalRows <= 0 || o.TotalRows > models.MaxRows {
		errs = append(errs, fmt.Errorf("total rows %d must be in (0, %d]", o.TotalRows, models.MaxRows))
	}
	if o.TotalCols <= 0 || o.TotalCols > models.MaxCols {
		errs = append(errs, fmt.Errorf("total cols %d must be in (0, %d]", o.TotalCols, models.MaxCols))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", models.ErrInvalidOptions, errors.Join(errs...))
	}
	return nil
}

// SizeSource reports the current visible size of the grid in pixels.
type SizeSource interface {
	ViewportSize() (heightPx, widthPx float64)
}

// ScrollSource reports the current scroll offsets in pixels.
type ScrollSource interface {
	ScrollOffset() (top, left float64)
}

// Windower computes windows for a fixed geometry.
type Windower struct {
	opts Options
}

// New returns a Windower after validating opts.
func New(opts Options) (*Windower, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Windower{opts: opts}, nil
}

// Options returns the geometry in use.
func (w *Windower) Options() Options {
	return w.opts
}

// Compute returns the rows and columns to render for the given scroll
// offsets and visible size. The result always satisfies
// 0 <= start <= end <= total on both axes.
func (w *Windower) Compute(scrollTop, scrollLeft, heightPx, widthPx float64) models.Window {
	rowStart, rowEnd := span(scrollTop, heightPx, w.opts.CellHeight, w.opts.OverscanRows, w.opts.TotalRows)
	colStart, colEnd := span(scrollLeft, widthPx, w.opts.CellWidth, w.opts.OverscanCols, w.opts.TotalCols)
	return models.Window{RowStart: rowStart, RowEnd: rowEnd, ColStart: colStart, ColEnd: colEnd}
}

// Current reads the collaborators and computes the window.
func (w *Windower) Current(size SizeSource, scroll ScrollSource) models.Window {
	h, wd := size.ViewportSize()
	top, left := scroll.ScrollOffset()
	return w.Compute(top, left, h, wd)
}

// ContentSize returns the pixel size of the whole grid, for sizing the
// scroll container.
func (w *Windower) ContentSize() (heightPx, widthPx float64) {
	return float64(w.opts.TotalRows) * w.opts.CellHeight, float64(w.opts.TotalCols) * w.opts.CellWidth
}

func span(offset, extent, cell float64, overscan, total int) (start, end int) {
	start = cells(offset, cell, total)
	visible := cells(extent, cell, total)
	// saturate before adding so a large overscan cannot wrap
	end = min(start+min(visible+min(max(overscan, 0), total), total), total)
	return start, end
}

// cells converts a pixel distance to whole cells, clamped to [0, total].
func cells(px, cell float64, total int) int {
	if math.IsNaN(px) || px <= 0 {
		return 0
	}
	n := math.Floor(px / cell)
	if n >= float64(total) {
		return total
	}
	return int(n)
}
