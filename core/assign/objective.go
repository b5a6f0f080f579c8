package assign

import (
	"fmt"

	"github.com/kilianp07/carpool/core/model"
)

// Objective is an integer cost to minimise over complete assignments.
type Objective interface {
	Name() string
	// Cost evaluates a complete assignment.
	Cost(m *Model, values []bool) int
	// LowerBound never exceeds the Cost of any completion of partial, where
	// free variables are -1 and fixed ones 0 or 1.
	LowerBound(m *Model, partial []int8) int
}

// NewObjective returns the built-in objective with the given name. "" and
// "none" return nil, meaning feasibility only.
func NewObjective(name string) (Objective, error) {
	switch name {
	case "", "none":
		return nil, nil
	case "balance":
		return Balance{}, nil
	case "max_load":
		return MaxLoad{}, nil
	default:
		return nil, fmt.Errorf("unknown objective %q", name)
	}
}

// Balance minimises the sum of squared vehicle loads. The total load is fixed,
// so this is the occupancy variance up to a constant.
type Balance struct{}

func (Balance) Name() string { return "balance" }

func (Balance) Cost(m *Model, values []bool) int {
	return sumSquares(completeLoads(m, values))
}

func (Balance) LowerBound(m *Model, partial []int8) int {
	loads, unplaced := m.loads(partial)
	return sumSquares(waterFill(loads, m.vehicles, unplaced))
}

// MaxLoad minimises the occupancy of the fullest vehicle.
type MaxLoad struct{}

func (MaxLoad) Name() string { return "max_load" }

func (MaxLoad) Cost(m *Model, values []bool) int {
	return maxOf(completeLoads(m, values))
}

func (MaxLoad) LowerBound(m *Model, partial []int8) int {
	loads, unplaced := m.loads(partial)
	return maxOf(waterFill(loads, m.vehicles, unplaced))
}

func completeLoads(m *Model, values []bool) []int {
	partial := make([]int8, len(values))
	for i, v := range values {
		if v {
			partial[i] = 1
		}
	}
	loads, _ := m.loads(partial)
	return loads
}

// waterFill adds n students one at a time to the least loaded vehicle with
// room left, lowest position first. Both objectives are convex and separable
// in the loads, so the greedy fill minimises them over all placements that
// ignore the per-student rules.
func waterFill(loads []int, vehicles []model.Vehicle, n int) []int {
	out := append([]int(nil), loads...)
	for ; n > 0; n-- {
		best := -1
		for v := range out {
			if out[v] >= vehicles[v].Capacity {
				continue
			}
			if best < 0 || out[v] < out[best] {
				best = v
			}
		}
		if best < 0 {
			break
		}
		out[best]++
	}
	return out
}

func sumSquares(xs []int) int {
	total := 0
	for _, x := range xs {
		total += x * x
	}
	return total
}

func maxOf(xs []int) int {
	best := 0
	for _, x := range xs {
		if x > best {
			best = x
		}
	}
	return best
}
