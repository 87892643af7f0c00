package models

import "iter"

// Window is a half-open block of rows and columns to materialize.
type Window struct {
	// RowStart is the first row (inclusive).
	RowStart int `json:"row_start"`
	// RowEnd is one past the last row.
	RowEnd int `json:"row_end"`
	// ColStart is the first column (inclusive).
	ColStart int `json:"col_start"`
	// ColEnd is one past the last column.
	ColEnd int `json:"col_end"`
}

// Rows returns the number of rows in the window.
func (w Window) Rows() int { return w.RowEnd - w.RowStart }

// Cols returns the number of columns in the window.
func (w Window) Cols() int { return w.ColEnd - w.ColStart }

// Contains reports whether a falls inside the window.
func (w Window) Contains(a Address) bool {
	return a.Row >= w.RowStart && a.Row < w.RowEnd &&
		a.Col >= w.ColStart && a.Col < w.ColEnd
}

// Cells iterates every address of the window row-major.
func (w Window) Cells() iter.Seq[Address] {
	return func(yield func(Address) bool) {
		for row := w.RowStart; row < w.RowEnd; row++ {
			for col := w.ColStart; col < w.ColEnd; col++ {
				if !yield(Address{Row: row, Col: col}) {
					return
				}
			}
		}
	}
}

// Bounds is the inclusive bounding box of the non-empty cells of a sheet.
type Bounds struct {
	// Empty is set when the sheet has no cells; the other fields are zero.
	Empty bool `json:"empty,omitempty"`
	// R1 is the first row (0-based).
	R1 int `json:"r1"`
	// C1 is the first column (0-based).
	C1 int `json:"c1"`
	// R2 is the last row (0-based, inclusive).
	R2 int `json:"r2"`
	// C2 is the last column (0-based, inclusive).
	C2 int `json:"c2"`
}

// Window converts the bounds to the equivalent half-open window.
func (b Bounds) Window() Window {
	if b.Empty {
		return Window{}
	}
	return Window{RowStart: b.R1, RowEnd: b.R2 + 1, ColStart: b.C1, ColEnd: b.C2 + 1}
}
