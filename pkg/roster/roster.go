// Package roster reads the student and vehicle tables and reads or writes
// assignments as CSV. Columns are located by header name, so extra columns and
// any column order are accepted.
package roster

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/kilianp07/carpool/core/assign"
	"github.com/kilianp07/carpool/core/model"
)

// File names used inside a dataset directory.
const (
	StudentsFile   = "students.csv"
	VehiclesFile   = "vehicles.csv"
	AssignmentFile = "assignment.csv"
)

var (
	studentColumns    = []string{"student_id", "gender", "grade", "license"}
	vehicleColumns    = []string{"car_id", "capacity"}
	assignmentColumns = []string{"student_id", "car_id"}
)

// table is a CSV body with the positions of the requested columns.
type table struct {
	index   map[string]int
	records [][]string
}

func readTable(r io.Reader, columns []string) (*table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.New("missing header")
	}
	header := lo.Map(records[0], func(h string, _ int) string { return strings.TrimSpace(h) })
	header[0] = strings.TrimPrefix(header[0], "\ufeff")

	t := &table{index: make(map[string]int, len(columns)), records: records[1:]}
	for _, c := range columns {
		i := lo.IndexOf(header, c)
		if i < 0 {
			return nil, fmt.Errorf("missing column %q", c)
		}
		t.index[c] = i
	}
	return t, nil
}

// intAt parses the named column of record n (0-based, header excluded).
func (t *table) intAt(n int, column string) (int, error) {
	raw := strings.TrimSpace(t.records[n][t.index[column]])
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("line %d: %s: %q is not an integer", n+2, column, raw)
	}
	return v, nil
}

func (t *table) boolAt(n int, column string) (bool, error) {
	raw := strings.TrimSpace(t.records[n][t.index[column]])
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("line %d: %s: %q is not 0 or 1", n+2, column, raw)
	}
	return v, nil
}

// ReadStudents reads student_id, gender (0 male, 1 female), grade and license
// (0 or 1) columns. Value ranges are checked when the model is built.
func ReadStudents(r io.Reader) ([]model.Student, error) {
	t, err := readTable(r, studentColumns)
	if err != nil {
		return nil, fmt.Errorf("students: %w", err)
	}
	students := make([]model.Student, 0, len(t.records))
	for n := range t.records {
		var s model.Student
		var gender, grade int
		if s.ID, err = t.intAt(n, "student_id"); err != nil {
			return nil, fmt.Errorf("students: %w", err)
		}
		if gender, err = t.intAt(n, "gender"); err != nil {
			return nil, fmt.Errorf("students: %w", err)
		}
		if grade, err = t.intAt(n, "grade"); err != nil {
			return nil, fmt.Errorf("students: %w", err)
		}
		if s.Licensed, err = t.boolAt(n, "license"); err != nil {
			return nil, fmt.Errorf("students: %w", err)
		}
		s.Gender, s.Grade = model.Gender(gender), model.Grade(grade)
		students = append(students, s)
	}
	return students, nil
}

// ReadVehicles reads car_id and capacity columns.
func ReadVehicles(r io.Reader) ([]model.Vehicle, error) {
	t, err := readTable(r, vehicleColumns)
	if err != nil {
		return nil, fmt.Errorf("vehicles: %w", err)
	}
	vehicles := make([]model.Vehicle, 0, len(t.records))
	for n := range t.records {
		var v model.Vehicle
		if v.ID, err = t.intAt(n, "car_id"); err != nil {
			return nil, fmt.Errorf("vehicles: %w", err)
		}
		if v.Capacity, err = t.intAt(n, "capacity"); err != nil {
			return nil, fmt.Errorf("vehicles: %w", err)
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, nil
}

// ReadAssignment reads student_id and car_id columns into a table.
func ReadAssignment(r io.Reader) (*assign.Table, error) {
	t, err := readTable(r, assignmentColumns)
	if err != nil {
		return nil, fmt.Errorf("assignment: %w", err)
	}
	rows := make([]assign.Row, 0, len(t.records))
	for n := range t.records {
		var row assign.Row
		if row.StudentID, err = t.intAt(n, "student_id"); err != nil {
			return nil, fmt.Errorf("assignment: %w", err)
		}
		if row.VehicleID, err = t.intAt(n, "car_id"); err != nil {
			return nil, fmt.Errorf("assignment: %w", err)
		}
		rows = append(rows, row)
	}
	tbl, err := assign.NewTable(rows)
	if err != nil {
		return nil, fmt.Errorf("assignment: %w", err)
	}
	return tbl, nil
}

// WriteCSV writes the assignment with a student_id,car_id header.
func WriteCSV(w io.Writer, t *assign.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(assignmentColumns); err != nil {
		return err
	}
	for _, r := range t.Rows() {
		if err := cw.Write([]string{strconv.Itoa(r.StudentID), strconv.Itoa(r.VehicleID)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON writes the assignment as an array of {student_id, car_id}.
func WriteJSON(w io.Writer, t *assign.Table) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(t.Rows())
}

// LoadStudents reads the students file at path.
func LoadStudents(path string) ([]model.Student, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadStudents(f)
}

// LoadVehicles reads the vehicles file at path.
func LoadVehicles(path string) ([]model.Vehicle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadVehicles(f)
}

// LoadAssignment reads the assignment file at path.
func LoadAssignment(path string) (*assign.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadAssignment(f)
}

// LoadDir reads students.csv and vehicles.csv from dir.
func LoadDir(dir string) ([]model.Student, []model.Vehicle, error) {
	students, err := LoadStudents(filepath.Join(dir, StudentsFile))
	if err != nil {
		return nil, nil, err
	}
	vehicles, err := LoadVehicles(filepath.Join(dir, VehiclesFile))
	if err != nil {
		return nil, nil, err
	}
	return students, vehicles, nil
}
