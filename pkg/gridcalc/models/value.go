package models

import (
	"encoding/json"
	"math"
	"strconv"
)

// ErrorMarker is the text of a cell whose formula failed to evaluate.
const ErrorMarker = "#ERROR"

// ValueKind tells which arm of a Value is set.
type ValueKind uint8

const (
	// ValueEmpty means no value has been computed.
	ValueEmpty ValueKind = iota
	// ValueNumber holds a finite number.
	ValueNumber
	// ValueError is the error marker.
	ValueError
)

// Value is the cached result of a formula.
type Value struct {
	Kind   ValueKind
	Number float64
}

// Number returns a numeric value. Non-finite input yields the error marker.
func Number(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Error()
	}
	return Value{Kind: ValueNumber, Number: f}
}

// Error returns the error marker value.
func Error() Value {
	return Value{Kind: ValueError}
}

// IsEmpty reports whether no value is set.
func (v Value) IsEmpty() bool { return v.Kind == ValueEmpty }

// IsError reports whether v is the error marker.
func (v Value) IsError() bool { return v.Kind == ValueError }

// Equal is strict value equality across the union.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	return v.Kind != ValueNumber || v.Number == o.Number
}

// String renders the value as formulas see it.
func (v Value) String() string {
	switch v.Kind {
	case ValueNumber:
		return FormatNumber(v.Number)
	case ValueError:
		return ErrorMarker
	default:
		return ""
	}
}

// MarshalJSON encodes numbers as JSON numbers and the error marker as a string.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case ValueNumber:
		return json.Marshal(v.Number)
	case ValueError:
		return json.Marshal(ErrorMarker)
	default:
		return []byte("null"), nil
	}
}

// FormatNumber returns the shortest text that parses back to f. Magnitudes
// in [1e-6, 1e21) are written in plain decimal notation.
func FormatNumber(f float64) string {
	if f == 0 {
		return "0"
	}
	abs := math.Abs(f)
	if abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'e', -1, 64)
}
