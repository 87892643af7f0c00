// Package selection tracks the focused cell and the in-progress edit of a
// grid. Commits go through a Store so the recalculation it triggers stays
// with the owner of the cells.
package selection

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/models"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/ref"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/sheet"
)

// Store is the cell storage an Editor reads from and commits to.
type Store interface {
	Get(a models.Address) (models.Record, bool)
	Set(a models.Address, raw string) (sheet.Report, error)
}

// Editor is the selection/edit state machine.
//
// Idle: a cell is selected and nothing is being edited.
// Editing: the buffer holds pending text for the editing cell. Select,
// Commit and BeginEditAt on another cell write the buffer; Cancel drops it.
type Editor struct {
	store   Store
	log     zerolog.Logger
	state   models.SelectionState
	editing models.Address
}

// NewEditor returns an idle editor with A1 selected.
func NewEditor(store Store, log zerolog.Logger) *Editor {
	return &Editor{
		store: store,
		log:   log.With().Str("component", "selection").Logger(),
	}
}

// State returns a copy of the current state.
func (e *Editor) State() models.SelectionState {
	st := e.state
	if st.Editing != nil {
		a := *st.Editing
		st.Editing = &a
	}
	return st
}

// Editing reports whether an edit is in progress.
func (e *Editor) Editing() bool {
	return e.state.Editing != nil
}

// Select moves the selection to a. A pending edit is committed first.
func (e *Editor) Select(a models.Address) (sheet.Report, error) {
	if err := checkAddress(a); err != nil {
		return sheet.Report{}, err
	}
	rep, err := e.Commit()
	if err != nil {
		return rep, err
	}
	e.state.Selected = a
	return rep, nil
}

// BeginEdit starts editing the selected cell. It does nothing when an edit
// is already in progress.
func (e *Editor) BeginEdit() {
	if e.Editing() {
		return
	}
	e.begin(e.state.Selected)
}

// BeginEditAt selects a and starts editing it, as a double click does.
func (e *Editor) BeginEditAt(a models.Address) (sheet.Report, error) {
	if err := checkAddress(a); err != nil {
		return sheet.Report{}, err
	}
	if e.Editing() && e.editing == a {
		return sheet.Report{}, nil
	}
	rep, err := e.Select(a)
	if err != nil {
		return rep, err
	}
	e.begin(a)
	return rep, nil
}

func (e *Editor) begin(a models.Address) {
	buf := ""
	if rec, ok := e.store.Get(a); ok {
		buf = rec.Raw
	}
	e.editing = a
	e.state.Editing = &e.editing
	e.state.Buffer = buf
	e.log.Debug().Str("cell", ref.FormatAddress(a)).Msg("edit started")
}

// SetBuffer replaces the pending text. It reports false when idle.
func (e *Editor) SetBuffer(text string) bool {
	if !e.Editing() {
		return false
	}
	e.state.Buffer = text
	return true
}

// Commit writes the buffer to the editing cell and returns to idle.
// Committing while idle does nothing.
func (e *Editor) Commit() (sheet.Report, error) {
	if !e.Editing() {
		return sheet.Report{}, nil
	}
	a, raw := e.editing, e.state.Buffer
	e.reset()
	rep, err := e.store.Set(a, raw)
	if err != nil {
		return rep, fmt.Errorf("commit %s: %w", ref.FormatAddress(a), err)
	}
	e.log.Debug().
		Str("cell", ref.FormatAddress(a)).
		Int("passes", rep.Passes).
		Bool("converged", rep.Converged).
		Msg("edit committed")
	return rep, nil
}

// Cancel drops the pending edit.
func (e *Editor) Cancel() {
	if e.Editing() {
		e.log.Debug().Str("cell", ref.FormatAddress(e.editing)).Msg("edit cancelled")
	}
	e.reset()
}

func (e *Editor) reset() {
	e.state.Editing = nil
	e.state.Buffer = ""
}

func checkAddress(a models.Address) error {
	if !a.Valid() {
		return fmt.Errorf("select (%d, %d): %w", a.Row, a.Col, models.ErrAddressOutOfRange)
	}
	return nil
}
