package assign

import (
	"errors"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

const relaxTolerance = 1e-7

// relaxation is the linear program of a node once integrality is dropped.
// Fixed variables are folded into the bounds and every free variable lies in
// [0,1]. The objective is zero so solving it is a feasibility test: an
// infeasible relaxation proves the node has no integer completion.
type relaxation struct {
	n int // free variables
	g mat.Matrix
	h []float64
	a mat.Matrix // nil without equality rows
	b []float64
}

// solveRelaxation converts the relaxation to standard form and runs the
// simplex method on it.
func solveRelaxation(r relaxation) error {
	c := make([]float64, r.n)
	cStd, aStd, bStd := lp.Convert(c, r.g, r.h, r.a, r.b)
	_, _, err := lp.Simplex(cStd, aStd, bStd, relaxTolerance, nil)
	return err
}

// relaxSolve points to the function used to solve relaxations. It can be
// overridden in tests to simulate solver failures.
var relaxSolve = solveRelaxation

func (s *search) shouldRelax(depth int) bool {
	free := len(s.val) - len(s.trail)
	return s.relaxDepth >= 0 && depth <= s.relaxDepth && free > 0 && free <= s.maxRelaxVars
}

// relax reports whether the node may still contain a solution. Solver errors
// other than infeasibility keep the node.
func (s *search) relax() bool {
	s.relaxations++
	err := relaxSolve(s.relaxation())
	switch {
	case err == nil:
		return true
	case errors.Is(err, lp.ErrInfeasible):
		s.relaxPruned++
		return false
	default:
		s.log.Debugf("relaxation skipped: %v", err)
		return true
	}
}

type relaxRow struct {
	ci   int
	sign float64
	rhs  float64
}

func (s *search) relaxation() relaxation {
	cols := make([]int, len(s.val))
	n := 0
	for x, v := range s.val {
		cols[x] = -1
		if v < 0 {
			cols[x] = n
			n++
		}
	}

	var ineq, eq []relaxRow
	for ci, c := range s.cons {
		if s.free[ci] == 0 {
			continue
		}
		rest := c.RHS - s.ones[ci]
		switch c.Sense {
		case AtMost:
			if rest < s.free[ci] {
				ineq = append(ineq, relaxRow{ci: ci, sign: 1, rhs: float64(rest)})
			}
		case AtLeast:
			if rest > 0 {
				ineq = append(ineq, relaxRow{ci: ci, sign: -1, rhs: -float64(rest)})
			}
		case Equal:
			eq = append(eq, relaxRow{ci: ci, sign: 1, rhs: float64(rest)})
		}
	}

	g := mat.NewDense(len(ineq)+2*n, n, nil)
	h := make([]float64, len(ineq)+2*n)
	for r, row := range ineq {
		s.fillRow(g, r, row, cols)
		h[r] = row.rhs
	}
	for j := 0; j < n; j++ {
		// x <= 1 and -x <= 0
		g.Set(len(ineq)+2*j, j, 1)
		h[len(ineq)+2*j] = 1
		g.Set(len(ineq)+2*j+1, j, -1)
	}

	r := relaxation{n: n, g: g, h: h}
	if len(eq) > 0 {
		a := mat.NewDense(len(eq), n, nil)
		r.b = make([]float64, len(eq))
		for i, row := range eq {
			s.fillRow(a, i, row, cols)
			r.b[i] = row.rhs
		}
		r.a = a
	}
	return r
}

func (s *search) fillRow(m *mat.Dense, r int, row relaxRow, cols []int) {
	for _, x := range s.cons[row.ci].Vars {
		if j := cols[x]; j >= 0 {
			m.Set(r, j, row.sign)
		}
	}
}
