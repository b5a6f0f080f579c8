package assign

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/carpool/core/model"
)

func familyCounts(m *Model) map[Family]int {
	counts := map[Family]int{}
	for _, c := range m.Constraints() {
		counts[c.Family]++
	}
	return counts
}

func TestBuild_Families(t *testing.T) {
	students, vehicles := pair()
	m, err := Build(students, vehicles)
	require.NoError(t, err)

	assert.Equal(t, 16, m.NumVars())
	assert.Equal(t, 34, m.NumConstraints())
	assert.Equal(t, map[Family]int{
		FamilyAssignment: 8,
		FamilyCapacity:   2,
		FamilyDriver:     2,
		FamilyGrade:      4,
		FamilyGender:     4,
		FamilyAdjacency:  14,
	}, familyCounts(m))
	assert.Equal(t, []model.Grade{1, 2}, m.Grades())
}

func TestBuild_EmissionOrder(t *testing.T) {
	students, vehicles := pair()
	m, err := Build(students, vehicles)
	require.NoError(t, err)

	last := FamilyAssignment
	for _, c := range m.Constraints() {
		assert.GreaterOrEqual(t, int(c.Family), int(last), "%s emitted after %s", c.Family, last)
		last = c.Family
	}
}

func TestBuild_ConstraintShapes(t *testing.T) {
	students, vehicles := pair()
	m, err := Build(students, vehicles)
	require.NoError(t, err)
	cons := m.Constraints()

	first := cons[0]
	assert.Equal(t, FamilyAssignment, first.Family)
	assert.Equal(t, Equal, first.Sense)
	assert.Equal(t, 1, first.RHS)
	assert.Equal(t, []Var{0, 1}, first.Vars)

	capacity := cons[8]
	assert.Equal(t, FamilyCapacity, capacity.Family)
	assert.Equal(t, AtMost, capacity.Sense)
	assert.Equal(t, 4, capacity.RHS)
	assert.Equal(t, []Var{0, 2, 4, 6, 8, 10, 12, 14}, capacity.Vars)

	driver := cons[10]
	assert.Equal(t, FamilyDriver, driver.Family)
	assert.Equal(t, AtLeast, driver.Sense)
	assert.Equal(t, []Var{0, 2}, driver.Vars)

	adjacency := cons[20]
	assert.Equal(t, FamilyAdjacency, adjacency.Family)
	assert.Equal(t, AtMost, adjacency.Sense)
	assert.Equal(t, 1, adjacency.RHS)
	assert.Equal(t, []Var{0, 2}, adjacency.Vars)
	assert.Equal(t, "students 1/2 vehicle 10", adjacency.Label)
}

func TestBuild_AdjacencyUsesIDsNotPositions(t *testing.T) {
	students := []model.Student{
		{ID: 7, Gender: model.Male, Grade: 1, Licensed: true},
		{ID: 3, Gender: model.Female, Grade: 1, Licensed: true},
		{ID: 6, Gender: model.Female, Grade: 1},
		{ID: 4, Gender: model.Male, Grade: 1},
	}
	m, err := Build(students, []model.Vehicle{{ID: 1, Capacity: 4}})
	require.NoError(t, err)

	var labels []string
	for _, c := range m.Constraints() {
		if c.Family == FamilyAdjacency {
			labels = append(labels, c.Label)
		}
	}
	assert.Equal(t, []string{"students 3/4 vehicle 1", "students 6/7 vehicle 1"}, labels)
}

func TestBuild_AdjacencyAtIntRangeEnds(t *testing.T) {
	students := []model.Student{
		{ID: math.MaxInt, Gender: model.Male, Grade: 1, Licensed: true},
		{ID: math.MinInt, Gender: model.Female, Grade: 1},
		{ID: math.MaxInt - 1, Gender: model.Female, Grade: 1},
	}
	m, err := Build(students, []model.Vehicle{{ID: 1, Capacity: 3}})
	require.NoError(t, err)

	var labels []string
	for _, c := range m.Constraints() {
		if c.Family == FamilyAdjacency {
			labels = append(labels, c.Label)
		}
	}
	want := fmt.Sprintf("students %d/%d vehicle 1", math.MaxInt-1, math.MaxInt)
	assert.Equal(t, []string{want}, labels, "MaxInt must not wrap around to MinInt")
}

func TestBuild_WithoutFamilies(t *testing.T) {
	students, vehicles := pair()
	m, err := Build(students, vehicles, WithoutFamilies(FamilyAdjacency, FamilyGrade, FamilyAdjacency))
	require.NoError(t, err)

	counts := familyCounts(m)
	assert.Zero(t, counts[FamilyAdjacency])
	assert.Zero(t, counts[FamilyGrade])
	assert.Equal(t, 2, counts[FamilyDriver])
	assert.Equal(t, []Family{FamilyAdjacency, FamilyGrade}, m.Disabled())
}

func TestBuild_WithGrades(t *testing.T) {
	students, vehicles := pair()
	m, err := Build(students, vehicles, WithGrades(model.Grades()...))
	require.NoError(t, err)

	assert.Equal(t, model.Grades(), m.Grades())
	assert.Equal(t, 8, familyCounts(m)[FamilyGrade])

	var empty int
	for _, c := range m.Constraints() {
		if c.Family == FamilyGrade && len(c.Vars) == 0 {
			empty++
		}
	}
	assert.Equal(t, 4, empty, "grades 3 and 4 have no students in either vehicle")
}

func TestBuild_InvalidInput(t *testing.T) {
	students := []model.Student{
		{ID: 1, Gender: model.Male, Grade: 1},
		{ID: 1, Gender: model.Female, Grade: 2},
		{ID: 2, Gender: model.Gender(3), Grade: 1},
		{ID: 3, Gender: model.Male, Grade: 9},
	}
	vehicles := []model.Vehicle{{ID: 10, Capacity: 2}, {ID: 10, Capacity: 0}}

	m, err := Build(students, vehicles, WithoutFamilies(FamilyCapacity), WithGrades(7))
	assert.Nil(t, m)
	var invalid *InvalidInputError
	require.True(t, errors.As(err, &invalid))
	assert.Len(t, invalid.Problems, 7)
	assert.Contains(t, invalid.Problems, "duplicate student id 1")
	assert.Contains(t, invalid.Problems, "duplicate vehicle id 10")
	assert.Contains(t, invalid.Problems, "constraint family capacity cannot be disabled")
	assert.Contains(t, err.Error(), "7 problems")
}

func TestBuild_Empty(t *testing.T) {
	m, err := Build(nil, nil)
	require.NoError(t, err)
	assert.Zero(t, m.NumVars())
	assert.Zero(t, m.NumConstraints())
}

func TestModel_AccessorsReturnCopies(t *testing.T) {
	students, vehicles := pair()
	m, err := Build(students, vehicles)
	require.NoError(t, err)

	cons := m.Constraints()
	cons[0].Vars[0] = 99
	cons[0].RHS = 5
	assert.Equal(t, Var(0), m.Constraints()[0].Vars[0])
	assert.Equal(t, 1, m.Constraints()[0].RHS)

	ss := m.Students()
	ss[0].ID = 42
	assert.Equal(t, 1, m.Students()[0].ID)

	students[0].ID = 42
	assert.Equal(t, 1, m.Students()[0].ID, "Build copies its input")
}

func TestModel_VarSplit(t *testing.T) {
	students, vehicles := pair()
	m, err := Build(students, vehicles)
	require.NoError(t, err)

	for s := range students {
		for v := range vehicles {
			gs, gv := m.Split(m.Var(s, v))
			assert.Equal(t, s, gs)
			assert.Equal(t, v, gv)
		}
	}
}

func TestModel_ValuesAndViolations(t *testing.T) {
	students, vehicles := pair()
	m, err := Build(students, vehicles)
	require.NoError(t, err)

	var rows []Row
	for _, s := range students {
		vid := 10
		if s.ID%2 == 0 {
			vid = 20
		}
		rows = append(rows, Row{StudentID: s.ID, VehicleID: vid})
	}
	tbl, err := NewTable(rows)
	require.NoError(t, err)
	values, err := m.Values(tbl)
	require.NoError(t, err)
	assert.Empty(t, m.Violations(values))

	rows[1].VehicleID = 10 // student 2 joins student 1
	tbl, err = NewTable(rows)
	require.NoError(t, err)
	values, err = m.Values(tbl)
	require.NoError(t, err)
	var families []Family
	for _, v := range m.Violations(values) {
		families = append(families, v.Constraint.Family)
	}
	assert.Contains(t, families, FamilyCapacity)
	assert.Contains(t, families, FamilyDriver)
	assert.Contains(t, families, FamilyAdjacency)

	_, err = m.Values(mustTable(t, Row{StudentID: 99, VehicleID: 10}))
	assert.Error(t, err)
	_, err = m.Values(mustTable(t, Row{StudentID: 1, VehicleID: 99}))
	assert.Error(t, err)
}

func mustTable(t *testing.T, rows ...Row) *Table {
	t.Helper()
	tbl, err := NewTable(rows)
	require.NoError(t, err)
	return tbl
}

func TestParseFamily(t *testing.T) {
	for _, f := range Families {
		got, err := ParseFamily(f.String())
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}
	_, err := ParseFamily("siblings")
	assert.Error(t, err)
}
