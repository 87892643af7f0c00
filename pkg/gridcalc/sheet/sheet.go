// Package sheet stores cell contents and keeps formula values up to date.
package sheet

import (
	"fmt"
	"slices"

	"github.com/rs/zerolog"
	"github.com/tiendc/go-deepcopy"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/formula"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/models"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/ref"
)

// Options configures a Sheet.
type Options struct {
	// MaxPasses bounds a recalculation. Zero or less selects the automatic
	// bound of one pass per formula cell plus one.
	MaxPasses int
	// Logger receives recalculation diagnostics. The zero value discards them.
	Logger zerolog.Logger
}

// DefaultOptions returns options with the automatic pass bound and no logging.
func DefaultOptions() Options {
	return Options{Logger: zerolog.Nop()}
}

// Sheet is a sparse grid of cells. It is not safe for concurrent use.
type Sheet struct {
	cells map[models.Address]models.Record
	opts  Options
	log   zerolog.Logger
}

// New creates an empty sheet.
func New(opts Options) *Sheet {
	return &Sheet{
		cells: make(map[models.Address]models.Record),
		opts:  opts,
		log:   opts.Logger.With().Str("component", "sheet").Logger(),
	}
}

// Cell implements formula.Reader.
func (s *Sheet) Cell(a models.Address) (models.Record, bool) {
	r, ok := s.cells[a]
	return r, ok
}

// Get returns the record at a.
func (s *Sheet) Get(a models.Address) (models.Record, bool) {
	return s.Cell(a)
}

// Len returns the number of non-empty cells.
func (s *Sheet) Len() int {
	return len(s.cells)
}

// Set writes raw text to a and recalculates the sheet. Empty text removes
// the cell. An address outside the grid is rejected before anything is
// written.
func (s *Sheet) Set(a models.Address, raw string) (Report, error) {
	if err := s.write(a, raw); err != nil {
		return Report{}, err
	}
	return s.Recalculate(), nil
}

// Apply writes every edit in order, then runs a single recalculation. It
// stops at the first out-of-grid address; edits before it stay written and
// are recalculated.
func (s *Sheet) Apply(edits ...models.Edit) (Report, error) {
	for _, e := range edits {
		if err := s.write(e.Address, e.Raw); err != nil {
			return s.Recalculate(), err
		}
	}
	return s.Recalculate(), nil
}

func (s *Sheet) write(a models.Address, raw string) error {
	if !a.Valid() {
		return fmt.Errorf("%w: row %d, col %d", models.ErrAddressOutOfRange, a.Row, a.Col)
	}
	if raw == "" {
		delete(s.cells, a)
		return nil
	}

	rec := models.NewRecord(raw)
	s.cells[a] = rec
	if rec.IsFormula() {
		// evaluated against the store that already holds the new record
		rec.Computed = formula.Evaluate(rec.Formula, s)
		s.cells[a] = rec
	}
	s.log.Debug().Str("cell", ref.FormatAddress(a)).Bool("formula", rec.IsFormula()).Msg("cell written")
	return nil
}

// Clear removes every cell.
func (s *Sheet) Clear() {
	clear(s.cells)
}

// Addresses returns the addresses of all cells in row-major order.
func (s *Sheet) Addresses() []models.Address {
	out := make([]models.Address, 0, len(s.cells))
	for a := range s.cells {
		out = append(out, a)
	}
	sortAddresses(out)
	return out
}

// Formulas returns the addresses of formula cells in row-major order.
func (s *Sheet) Formulas() []models.Address {
	var out []models.Address
	for a, r := range s.cells {
		if r.IsFormula() {
			out = append(out, a)
		}
	}
	sortAddresses(out)
	return out
}

// Bounds returns the bounding box of the non-empty cells.
func (s *Sheet) Bounds() models.Bounds {
	if len(s.cells) == 0 {
		return models.Bounds{Empty: true}
	}
	b := models.Bounds{R1: -1, C1: -1, R2: -1, C2: -1}
	for a := range s.cells {
		if b.R1 < 0 || a.Row < b.R1 {
			b.R1 = a.Row
		}
		if a.Row > b.R2 {
			b.R2 = a.Row
		}
		if b.C1 < 0 || a.Col < b.C1 {
			b.C1 = a.Col
		}
		if a.Col > b.C2 {
			b.C2 = a.Col
		}
	}
	return b
}

// Snapshot returns a detached copy of every cell. Later edits do not show
// through it.
func (s *Sheet) Snapshot() map[models.Address]models.Record {
	var out map[models.Address]models.Record
	if err := deepcopy.Copy(&out, &s.cells); err != nil {
		// records hold only plain values, so fall back to a shallow copy
		out = make(map[models.Address]models.Record, len(s.cells))
		for a, r := range s.cells {
			out[a] = r
		}
	}
	if out == nil {
		out = make(map[models.Address]models.Record)
	}
	return out
}

func sortAddresses(addrs []models.Address) {
	slices.SortFunc(addrs, models.Compare)
}
