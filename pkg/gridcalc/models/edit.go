package models

// SelectionState is the selection and in-progress edit of a grid.
type SelectionState struct {
	// Selected is the focused cell.
	Selected Address `json:"selected"`
	// Editing is the cell being edited, nil when idle.
	Editing *Address `json:"editing,omitempty"`
	// Buffer holds the pending text while editing.
	Buffer string `json:"buffer"`
}

// Edit is a single raw-text write to a cell.
type Edit struct {
	Address Address
	Raw     string
}
