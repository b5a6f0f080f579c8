package assign

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/carpool/core/model"
)

// looseModel seats four students in two vehicles of capacity four with only
// the assignment and capacity rules, so every split of the students is
// feasible.
func looseModel(t *testing.T) *Model {
	t.Helper()
	students := []model.Student{
		{ID: 1, Gender: model.Male, Grade: 1},
		{ID: 2, Gender: model.Male, Grade: 1},
		{ID: 3, Gender: model.Male, Grade: 1},
		{ID: 4, Gender: model.Male, Grade: 1},
	}
	vehicles := []model.Vehicle{{ID: 1, Capacity: 4}, {ID: 2, Capacity: 4}}
	m, err := Build(students, vehicles, WithoutFamilies(FamilyDriver, FamilyGrade, FamilyGender, FamilyAdjacency))
	require.NoError(t, err)
	return m
}

func TestNewObjective(t *testing.T) {
	for _, name := range []string{"", "none"} {
		obj, err := NewObjective(name)
		require.NoError(t, err)
		assert.Nil(t, obj)
	}
	obj, err := NewObjective("balance")
	require.NoError(t, err)
	assert.Equal(t, "balance", obj.Name())
	obj, err = NewObjective("max_load")
	require.NoError(t, err)
	assert.Equal(t, "max_load", obj.Name())
	_, err = NewObjective("fastest")
	assert.Error(t, err)
}

func TestObjective_CostAndBound(t *testing.T) {
	m := looseModel(t)

	// students 1..3 in vehicle 1, student 4 in vehicle 2
	values := make([]bool, m.NumVars())
	values[m.Var(0, 0)] = true
	values[m.Var(1, 0)] = true
	values[m.Var(2, 0)] = true
	values[m.Var(3, 1)] = true
	assert.Equal(t, 10, Balance{}.Cost(m, values))
	assert.Equal(t, 3, MaxLoad{}.Cost(m, values))

	free := make([]int8, m.NumVars())
	for i := range free {
		free[i] = -1
	}
	assert.Equal(t, 8, Balance{}.LowerBound(m, free))
	assert.Equal(t, 2, MaxLoad{}.LowerBound(m, free))

	partial := append([]int8(nil), free...)
	for s := 0; s < 3; s++ {
		partial[m.Var(s, 0)] = 1
		partial[m.Var(s, 1)] = 0
	}
	assert.Equal(t, 10, Balance{}.LowerBound(m, partial))
	assert.Equal(t, 3, MaxLoad{}.LowerBound(m, partial))
}

func TestWaterFill_RespectsCapacity(t *testing.T) {
	vehicles := []model.Vehicle{{ID: 1, Capacity: 1}, {ID: 2, Capacity: 4}}
	assert.Equal(t, []int{1, 3}, waterFill([]int{0, 0}, vehicles, 4))
	assert.Equal(t, []int{1, 4}, waterFill([]int{0, 0}, vehicles, 9), "overflow is dropped")
}

func TestBranchAndBound_Objectives(t *testing.T) {
	m := looseModel(t)
	cases := []struct {
		obj  Objective
		cost int
	}{
		{Balance{}, 8},
		{MaxLoad{}, 2},
	}
	for _, c := range cases {
		t.Run(c.obj.Name(), func(t *testing.T) {
			out := NewBranchAndBound().Solve(context.Background(), m, SolveOptions{Objective: c.obj})
			require.Equal(t, Optimal, out.Status)
			assert.True(t, out.HasCost)
			assert.Equal(t, c.cost, out.Cost)

			tbl, err := Extract(out)
			require.NoError(t, err)
			assert.Len(t, tbl.Occupants(1), 2)
			assert.Len(t, tbl.Occupants(2), 2)
		})
	}
}

func TestBranchAndBound_ObjectiveOnRuledModel(t *testing.T) {
	students, vehicles := grid(2, 3)
	m, err := Build(students, vehicles)
	require.NoError(t, err)

	plain := NewBranchAndBound().Solve(context.Background(), m, SolveOptions{})
	balanced := NewBranchAndBound().Solve(context.Background(), m, SolveOptions{Objective: Balance{}})
	require.Equal(t, Optimal, balanced.Status)
	assert.Equal(t, 18, balanced.Cost)
	assert.GreaterOrEqual(t, balanced.Nodes, plain.Nodes)
	assert.Empty(t, m.Violations(balanced.Values))
}

func TestSAT_ObjectiveIsReportedNotOptimised(t *testing.T) {
	m := looseModel(t)
	out := NewSAT().Solve(context.Background(), m, SolveOptions{Objective: Balance{}})
	require.Equal(t, Feasible, out.Status)
	assert.True(t, out.HasCost)
	assert.Equal(t, Balance{}.Cost(m, out.Values), out.Cost)
}
