// Package source turns external input into cell edits: line-oriented edit
// scripts and xlsx workbooks. It also writes a sheet back to xlsx.
package source

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/models"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/ref"
)

// ErrInvalidLabel indicates an edit line that does not start with an A1 label
// inside the grid.
var ErrInvalidLabel = errors.New("invalid cell label")

// LineError reports a malformed edit script line.
type LineError struct {
	Line int
	Text string
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v: %q", e.Line, e.Err, e.Text)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// ReadEdits parses an edit script. Each line is an A1 label followed by
// whitespace and the raw text; a label alone clears the cell. Blank lines
// and lines starting with '#' are skipped.
func ReadEdits(r io.Reader) ([]models.Edit, error) {
	var edits []models.Edit
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		label, raw := text, ""
		if i := strings.IndexFunc(text, unicode.IsSpace); i >= 0 {
			label, raw = text[:i], strings.TrimSpace(text[i:])
		}
		a, ok := ref.ParseAddress(label)
		if !ok {
			return nil, &LineError{Line: line, Text: label, Err: ErrInvalidLabel}
		}
		edits = append(edits, models.Edit{Address: a, Raw: raw})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read edits: %w", err)
	}
	return edits, nil
}

// WriteEdits writes edits in the format ReadEdits accepts.
func WriteEdits(w io.Writer, edits []models.Edit) error {
	bw := bufio.NewWriter(w)
	for _, e := range edits {
		if _, err := fmt.Fprintf(bw, "%s %s\n", ref.FormatAddress(e.Address), e.Raw); err != nil {
			return err
		}
	}
	return bw.Flush()
}
