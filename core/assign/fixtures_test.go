package assign

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/carpool/core/model"
)

// grid returns nv vehicles and nv*per students with ids 1..nv*per. Student i
// fits vehicle (i-1)%nv, so consecutive ids never share a vehicle, and each
// vehicle's group holds one driver, both genders and every grade up to per.
func grid(nv, per int) ([]model.Student, []model.Vehicle) {
	vehicles := make([]model.Vehicle, nv)
	for v := range vehicles {
		vehicles[v] = model.Vehicle{ID: 100 + v, Capacity: per}
	}
	students := make([]model.Student, 0, nv*per)
	for i := 1; i <= nv*per; i++ {
		k := (i - 1) / nv
		students = append(students, model.Student{
			ID:       i,
			Gender:   model.Gender(k % 2),
			Grade:    model.Grade(k%int(model.MaxGrade) + 1),
			Licensed: k == 0,
		})
	}
	return students, vehicles
}

// pair returns the eight-student, two-vehicle dataset used across tests.
func pair() ([]model.Student, []model.Vehicle) {
	students := []model.Student{
		{ID: 1, Gender: model.Male, Grade: 1, Licensed: true},
		{ID: 2, Gender: model.Female, Grade: 1, Licensed: true},
		{ID: 3, Gender: model.Female, Grade: 2},
		{ID: 4, Gender: model.Male, Grade: 2},
		{ID: 5, Gender: model.Male, Grade: 1},
		{ID: 6, Gender: model.Female, Grade: 2},
		{ID: 7, Gender: model.Female, Grade: 2},
		{ID: 8, Gender: model.Male, Grade: 1},
	}
	vehicles := []model.Vehicle{{ID: 10, Capacity: 4}, {ID: 20, Capacity: 4}}
	return students, vehicles
}

func engines() []Engine {
	return []Engine{NewBranchAndBound(), NewSAT()}
}

// assertProperties checks a table against the rules every default model
// enforces.
func assertProperties(t *testing.T, students []model.Student, vehicles []model.Vehicle, tbl *Table) {
	t.Helper()
	require.NotNil(t, tbl)
	require.Equal(t, len(students), tbl.Len(), "every student exactly once")

	byID := make(map[int]model.Student, len(students))
	for _, s := range students {
		byID[s.ID] = s
		vid, ok := tbl.VehicleOf(s.ID)
		require.True(t, ok, "student %d missing", s.ID)
		assert.Contains(t, vehicleIDs(vehicles), vid)
	}

	gradeCount := map[model.Grade]int{}
	genderCount := map[model.Gender]int{}
	for _, s := range students {
		gradeCount[s.Grade]++
		genderCount[s.Gender]++
	}

	for _, v := range vehicles {
		occ := tbl.Occupants(v.ID)
		assert.LessOrEqual(t, len(occ), v.Capacity, "capacity of vehicle %d", v.ID)

		drivers := 0
		grades := map[model.Grade]bool{}
		genders := map[model.Gender]bool{}
		for _, id := range occ {
			s := byID[id]
			if s.Licensed {
				drivers++
			}
			grades[s.Grade] = true
			genders[s.Gender] = true
		}
		assert.GreaterOrEqual(t, drivers, 1, "driver in vehicle %d", v.ID)
		for g, n := range gradeCount {
			if n >= len(vehicles) {
				assert.True(t, grades[g], "grade %d in vehicle %d", g, v.ID)
			}
		}
		if genderCount[model.Male] >= len(vehicles) && genderCount[model.Female] >= len(vehicles) {
			assert.True(t, genders[model.Male], "male in vehicle %d", v.ID)
			assert.True(t, genders[model.Female], "female in vehicle %d", v.ID)
		}
	}

	for _, s := range students {
		if _, ok := byID[s.ID+1]; !ok {
			continue
		}
		a, _ := tbl.VehicleOf(s.ID)
		b, _ := tbl.VehicleOf(s.ID + 1)
		assert.NotEqual(t, a, b, "students %d and %d share a vehicle", s.ID, s.ID+1)
	}
}

func vehicleIDs(vehicles []model.Vehicle) []int {
	ids := make([]int, len(vehicles))
	for i, v := range vehicles {
		ids[i] = v.ID
	}
	return ids
}
