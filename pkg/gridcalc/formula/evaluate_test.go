package formula

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/models"
)

func addr(row, col int) models.Address {
	return models.Address{Row: row, Col: col}
}

func literal(raw string) models.Record {
	return models.NewRecord(raw)
}

func computed(raw string, v models.Value) models.Record {
	r := models.NewRecord(raw)
	r.Computed = v
	return r
}

func testSheet() MapReader {
	return MapReader{
		addr(0, 0): literal("5"),                                 // A1
		addr(0, 1): computed("=A1*2", models.Number(10)),         // B1
		addr(0, 2): literal("hello"),                             // C1
		addr(0, 3): computed("=1/0", models.Error()),             // D1
		addr(0, 4): literal("-3"),                                // E1
		addr(0, 5): literal(" 2.5 "),                             // F1
		addr(0, 6): literal("1e3"),                               // G1
		addr(0, 7): literal("NaN"),                               // H1
		addr(1, 0): computed("=0.000001/10", models.Number(1e-7)), // A2
	}
}

func TestEvaluate(t *testing.T) {
	sheet := testSheet()
	tests := []struct {
		formula  string
		expected models.Value
	}{
		{"=1+2", models.Number(3)},
		{"=A1*2", models.Number(10)},
		{"=B1+A1", models.Number(15)},
		{"=C1+1", models.Number(1)},
		{"=Z99+1", models.Number(1)},
		{"=A10001+1", models.Number(1)},
		{"=2-E1", models.Number(5)},
		{"=E1*E1", models.Number(9)},
		{"=F1*2", models.Number(5)},
		{"=G1/10", models.Number(100)},
		{"=H1+1", models.Number(1)},
		{"=A2*2", models.Number(2e-7)},
		{"=(1+2)*3", models.Number(9)},
		{"=1+2*3", models.Number(7)},
		{"=10/4", models.Number(2.5)},
		{"=8-2-1", models.Number(5)},
		{"=--4", models.Number(4)},
		{"=-(2+3)", models.Number(-5)},
		{"= 1 +\t2 ", models.Number(3)},
		{"=.5+5.", models.Number(5.5)},
		{"=1/0", models.Error()},
		{"=0/0", models.Error()},
		{"=D1+1", models.Error()},
		{"=", models.Error()},
		{"=1+", models.Error()},
		{"=(1+2", models.Error()},
		{"=1+2)", models.Error()},
		{"=1 2", models.Error()},
		{"=2^3", models.Error()},
		{"=alert(1)", models.Error()},
		{"=a1+1", models.Error()},
		{"=1.2.3", models.Error()},
		{"=1e308*10", models.Error()},
		{"=1e400", models.Error()},
	}

	for _, tt := range tests {
		result := Evaluate(tt.formula, sheet)
		if !result.Equal(tt.expected) {
			t.Errorf("Evaluate(%q) = %v, expected %v", tt.formula, result, tt.expected)
		}
	}
}

func TestEvaluateIsDeterministic(t *testing.T) {
	sheet := testSheet()
	first := Evaluate("=B1*A1-E1/F1", sheet)
	for i := 0; i < 100; i++ {
		if got := Evaluate("=B1*A1-E1/F1", sheet); !got.Equal(first) {
			t.Fatalf("evaluation %d = %v, first was %v", i, got, first)
		}
	}
}

func TestSubstitute(t *testing.T) {
	sheet := testSheet()
	tests := []struct {
		formula  string
		expected string
	}{
		{"=A1+B1", "5+10"},
		{"=C1", "0"},
		{"=D1", "#ERROR"},
		{"=A2", "1e-07"},
		{"=A1A1", "55"},
		{"no prefix A1", "no prefix 5"},
	}

	for _, tt := range tests {
		if result := Substitute(tt.formula, sheet); result != tt.expected {
			t.Errorf("Substitute(%q) = %q, expected %q", tt.formula, result, tt.expected)
		}
	}
}

func TestReferences(t *testing.T) {
	got := References("=A1+B2*A1-ZZZZZZ1+C3")
	want := []models.Address{addr(0, 0), addr(1, 1), addr(2, 2)}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("References mismatch (-want +got):\n%s", diff)
	}

	if refs := References("=1+2"); len(refs) != 0 {
		t.Errorf("References(=1+2) = %v, expected none", refs)
	}
}

func TestParseErrors(t *testing.T) {
	_, err := Parse("1 + * 2")
	var syntaxErr *SyntaxError
	if !errors.As(err, &syntaxErr) {
		t.Fatalf("Parse error = %v, expected *SyntaxError", err)
	}
	if syntaxErr.Pos != 4 {
		t.Errorf("SyntaxError.Pos = %d, expected 4", syntaxErr.Pos)
	}

	node, err := Parse("1/(2-2)")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, err := node.Eval(); !errors.Is(err, ErrDivideByZero) {
		t.Errorf("Eval error = %v, expected ErrDivideByZero", err)
	}

	node, err = Parse("1e308+1e308")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, err := node.Eval(); !errors.Is(err, ErrNotFinite) {
		t.Errorf("Eval error = %v, expected ErrNotFinite", err)
	}
}

func TestNodeString(t *testing.T) {
	node, err := Parse("1+2*-3")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got, want := node.String(), "(1+(2*(-3)))"; got != want {
		t.Errorf("String() = %q, expected %q", got, want)
	}
}
