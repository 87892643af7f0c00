// Package gridcalc is the calculation core of a spreadsheet grid: a sparse
// cell store with arithmetic formulas, a bounded recalculation engine, a
// viewport windower and the selection/edit state machine.
package gridcalc

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/models"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/sheet"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/viewport"
)

// Options configures a Grid.
type Options struct {
	// Viewport is the grid geometry used by ComputeWindow.
	Viewport viewport.Options
	// MaxPasses caps every recalculation. Zero picks the number of
	// formula cells plus one.
	MaxPasses int
	// Logger receives diagnostics. The zero value discards them.
	Logger zerolog.Logger
}

// DefaultOptions returns default grid options.
func DefaultOptions() Options {
	return Options{
		Viewport: viewport.DefaultOptions(),
		Logger:   zerolog.Nop(),
	}
}

// Validate checks the options.
func (o Options) Validate() error {
	if o.MaxPasses < 0 {
		return fmt.Errorf("%w: max passes %d must not be negative", models.ErrInvalidOptions, o.MaxPasses)
	}
	return o.Viewport.Validate()
}

func (o Options) sheetOptions() sheet.Options {
	return sheet.Options{MaxPasses: o.MaxPasses, Logger: o.Logger}
}
