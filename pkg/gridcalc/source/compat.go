package source

import (
	"fmt"
	"strings"

	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/models"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/ref"
	"github.com/xuri/efp"
)

// Warning describes an imported cell that will not behave as it does in a
// spreadsheet application.
type Warning struct {
	Address models.Address `json:"address"`
	Cell    string         `json:"cell"`
	Formula string         `json:"formula,omitempty"`
	Reason  string         `json:"reason"`
}

func (w Warning) String() string {
	if w.Formula == "" {
		return fmt.Sprintf("%s: %s", w.Cell, w.Reason)
	}
	return fmt.Sprintf("%s %s: %s", w.Cell, w.Formula, w.Reason)
}

// Unsupported tokenizes an Excel formula and lists the constructs the
// arithmetic evaluator cannot handle. Such formulas evaluate to #ERROR.
// Duplicate reasons are reported once.
func Unsupported(formula string) []string {
	ps := efp.ExcelParser()
	tokens := ps.Parse(strings.TrimPrefix(formula, models.FormulaPrefix))

	var reasons []string
	seen := make(map[string]bool)
	add := func(reason string) {
		if !seen[reason] {
			seen[reason] = true
			reasons = append(reasons, reason)
		}
	}

	for _, token := range tokens {
		switch token.TType {
		case efp.TokenTypeFunction:
			if token.TSubType == efp.TokenSubTypeStart {
				add("function " + strings.ToUpper(strings.TrimSuffix(token.TValue, "(")))
			}
		case efp.TokenTypeOperand:
			switch token.TSubType {
			case efp.TokenSubTypeRange:
				if reason := referenceProblem(token.TValue); reason != "" {
					add(reason)
				}
			case efp.TokenSubTypeText:
				add("text operand")
			case efp.TokenSubTypeLogical:
				add("logical operand")
			case efp.TokenSubTypeError:
				add("error literal " + token.TValue)
			}
		case efp.TokenTypeOperatorInfix:
			switch token.TValue {
			case "+", "-", "*", "/":
			default:
				add("operator " + token.TValue)
			}
		case efp.TokenTypeOperatorPostfix:
			add("operator " + token.TValue)
		}
	}
	return reasons
}

func referenceProblem(text string) string {
	switch {
	case strings.Contains(text, "!"):
		return "cross-sheet reference " + text
	case strings.Contains(text, ":"):
		return "range " + text
	case strings.Contains(text, "$"):
		return "absolute reference " + text
	}
	if _, ok := ref.ParseAddress(text); !ok {
		if _, ok := ref.Decode(text); ok {
			// outside the grid, reads as 0
			return ""
		}
		return "name " + text
	}
	return ""
}
