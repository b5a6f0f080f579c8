package assign

import (
	"cmp"
	"fmt"
	"slices"
)

// Row maps one student to the vehicle it rides in.
type Row struct {
	StudentID int `json:"student_id"`
	VehicleID int `json:"car_id"`
}

// Table is a student to vehicle assignment, one row per student, sorted by
// student id.
type Table struct {
	rows  []Row
	index map[int]int
}

// NewTable sorts rows by student id. A student listed twice is an error.
func NewTable(rows []Row) (*Table, error) {
	t := &Table{rows: slices.Clone(rows), index: make(map[int]int, len(rows))}
	slices.SortFunc(t.rows, func(a, b Row) int { return cmp.Compare(a.StudentID, b.StudentID) })
	for i, r := range t.rows {
		if _, ok := t.index[r.StudentID]; ok {
			return nil, fmt.Errorf("student %d assigned more than once", r.StudentID)
		}
		t.index[r.StudentID] = i
	}
	return t, nil
}

// Rows returns a copy of the rows.
func (t *Table) Rows() []Row {
	return slices.Clone(t.rows)
}

func (t *Table) Len() int {
	return len(t.rows)
}

// VehicleOf returns the vehicle of a student.
func (t *Table) VehicleOf(studentID int) (int, bool) {
	i, ok := t.index[studentID]
	if !ok {
		return 0, false
	}
	return t.rows[i].VehicleID, true
}

// Occupants returns the ids of the students riding in a vehicle, ascending.
func (t *Table) Occupants(vehicleID int) []int {
	var ids []int
	for _, r := range t.rows {
		if r.VehicleID == vehicleID {
			ids = append(ids, r.StudentID)
		}
	}
	return ids
}
