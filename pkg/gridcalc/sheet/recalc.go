package sheet

import (
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/depgraph"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/formula"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/models"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/ref"
)

// Report summarizes one recalculation.
type Report struct {
	// Passes is the number of full sweeps over the formula cells.
	Passes int `json:"passes"`
	// Evaluations is the number of formula evaluations performed.
	Evaluations int `json:"evaluations"`
	// Converged is false when the pass bound stopped a sweep that was
	// still changing values.
	Converged bool `json:"converged"`
	// Unstable lists the cells whose values changed during the last pass
	// of a recalculation that did not converge.
	Unstable []models.Address `json:"unstable,omitempty"`
}

// PassBound returns the pass limit for a sheet with n formula cells.
func (s *Sheet) PassBound(n int) int {
	if s.opts.MaxPasses > 0 {
		return s.opts.MaxPasses
	}
	return n + 1
}

// Recalculate re-evaluates every formula cell until a full pass changes
// nothing or the pass bound is reached. Cells are visited row-major and
// updated in place, so later cells in a pass see earlier updates. When the
// bound is hit the last computed values are kept.
func (s *Sheet) Recalculate() Report {
	order := s.Formulas()
	bound := s.PassBound(len(order))

	var rep Report
	if len(order) == 0 {
		rep.Converged = true
		return rep
	}

	var changed []models.Address
	for rep.Passes < bound {
		rep.Passes++
		changed = changed[:0]

		for _, a := range order {
			rec := s.cells[a]
			v := formula.Evaluate(rec.Formula, s)
			rep.Evaluations++
			if !v.Equal(rec.Computed) {
				rec.Computed = v
				s.cells[a] = rec
				changed = append(changed, a)
			}
		}

		if len(changed) == 0 {
			rep.Converged = true
			break
		}
	}

	if !rep.Converged {
		rep.Unstable = append([]models.Address(nil), changed...)
		var cycles []string
		for _, group := range depgraph.Build(s.cells).Cycles() {
			cycles = append(cycles, labels(group)...)
		}
		s.log.Warn().
			Int("passes", rep.Passes).
			Strs("unstable", labels(rep.Unstable)).
			Strs("cycles", cycles).
			Msg("recalculation did not converge")
	} else {
		s.log.Debug().
			Int("passes", rep.Passes).
			Int("evaluations", rep.Evaluations).
			Msg("recalculation converged")
	}

	return rep
}

func labels(addrs []models.Address) []string {
	out := make([]string, len(addrs))
	for i, a := range addrs {
		out[i] = ref.FormatAddress(a)
	}
	return out
}
