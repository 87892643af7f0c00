// Package ref converts between zero-based cell positions and A1 labels.
package ref

import (
	"regexp"
	"strconv"

	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/models"
)

// Pattern matches a cell reference anywhere in a string.
var Pattern = regexp.MustCompile(`[A-Z]+[0-9]+`)

var anchored = regexp.MustCompile(`^([A-Z]+)([0-9]+)$`)

// maxIndex caps decoding so long letter or digit runs cannot overflow.
const maxIndex = 1 << 40

// ColumnLabel encodes a column index in bijective base 26: 0 is "A",
// 25 is "Z" and 26 is "AA". Negative input yields "".
func ColumnLabel(col int) string {
	if col < 0 {
		return ""
	}
	var buf [16]byte
	i := len(buf)
	for n := col + 1; n > 0; n = (n - 1) / 26 {
		i--
		buf[i] = byte('A' + (n-1)%26)
	}
	return string(buf[i:])
}

// ColumnIndex decodes a column label made of the letters A-Z.
func ColumnIndex(label string) (int, bool) {
	if label == "" {
		return 0, false
	}
	n := 0
	for i := 0; i < len(label); i++ {
		ch := label[i]
		if ch < 'A' || ch > 'Z' {
			return 0, false
		}
		n = n*26 + int(ch-'A') + 1
		if n > maxIndex {
			return 0, false
		}
	}
	return n - 1, true
}

// Decode splits a reference into its column and row without checking the
// grid bounds. Row "0" and overflowing runs are rejected.
func Decode(text string) (models.Address, bool) {
	m := anchored.FindStringSubmatch(text)
	if m == nil {
		return models.Address{}, false
	}
	col, ok := ColumnIndex(m[1])
	if !ok {
		return models.Address{}, false
	}
	row, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil || row < 1 || row > maxIndex {
		return models.Address{}, false
	}
	return models.Address{Row: int(row - 1), Col: col}, true
}

// ParseAddress decodes an A1 label such as "BA12" into an in-grid address.
// Text that is not a reference reports false.
func ParseAddress(text string) (models.Address, bool) {
	a, ok := Decode(text)
	if !ok || !a.Valid() {
		return models.Address{}, false
	}
	return a, true
}

// FormatAddress renders a as an A1 label.
func FormatAddress(a models.Address) string {
	return ColumnLabel(a.Col) + strconv.Itoa(a.Row+1)
}
