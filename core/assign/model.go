package assign

import (
	"fmt"

	"github.com/kilianp07/carpool/core/model"
)

// Var indexes the binary decision "student s rides in vehicle v". Variables are
// laid out student-major: Var = s*|V| + v, with s and v the positions of the
// records in the model.
type Var int

// Sense is the relation of a constraint's left-hand sum to its bound.
type Sense int

const (
	Equal Sense = iota
	AtMost
	AtLeast
)

func (s Sense) String() string {
	switch s {
	case Equal:
		return "=="
	case AtMost:
		return "<="
	case AtLeast:
		return ">="
	default:
		return "?"
	}
}

// Family identifies the rule that produced a constraint.
type Family int

const (
	FamilyAssignment Family = iota
	FamilyCapacity
	FamilyDriver
	FamilyGrade
	FamilyGender
	FamilyAdjacency
)

// Families lists every constraint family in emission order.
var Families = []Family{FamilyAssignment, FamilyCapacity, FamilyDriver, FamilyGrade, FamilyGender, FamilyAdjacency}

func (f Family) String() string {
	switch f {
	case FamilyAssignment:
		return "assignment"
	case FamilyCapacity:
		return "capacity"
	case FamilyDriver:
		return "driver"
	case FamilyGrade:
		return "grade"
	case FamilyGender:
		return "gender"
	case FamilyAdjacency:
		return "adjacency"
	default:
		return "unknown"
	}
}

// ParseFamily returns the family with the given name.
func ParseFamily(name string) (Family, error) {
	for _, f := range Families {
		if f.String() == name {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unknown constraint family %q", name)
}

// Constraint is the cardinality relation Σ x[v] (Sense) RHS over Vars. All
// coefficients are one.
type Constraint struct {
	Family Family
	Label  string
	Vars   []Var // ascending
	Sense  Sense
	RHS    int
}

// Holds reports whether a left-hand sum satisfies the constraint.
func (c Constraint) Holds(sum int) bool {
	switch c.Sense {
	case Equal:
		return sum == c.RHS
	case AtMost:
		return sum <= c.RHS
	case AtLeast:
		return sum >= c.RHS
	default:
		return false
	}
}

func (c Constraint) String() string {
	return fmt.Sprintf("%s %s: sum(%d vars) %s %d", c.Family, c.Label, len(c.Vars), c.Sense, c.RHS)
}

// Violation is a constraint not satisfied by a set of values.
type Violation struct {
	Constraint Constraint
	Sum        int
}

func (v Violation) String() string {
	return fmt.Sprintf("%s %s: got %d, want %s %d", v.Constraint.Family, v.Constraint.Label, v.Sum, v.Constraint.Sense, v.Constraint.RHS)
}

// Model is the 0-1 integer program built from students and vehicles. A Model
// is never modified after Build returns and can be shared between goroutines.
type Model struct {
	students    []model.Student
	vehicles    []model.Vehicle
	constraints []Constraint
	disabled    []Family
	grades      []model.Grade
}

// NumVars returns the number of decision variables.
func (m *Model) NumVars() int {
	return len(m.students) * len(m.vehicles)
}

// Var returns the variable of the student at position s and the vehicle at
// position v.
func (m *Model) Var(s, v int) Var {
	return Var(s*len(m.vehicles) + v)
}

// Split returns the student and vehicle positions of x.
func (m *Model) Split(x Var) (s, v int) {
	return int(x) / len(m.vehicles), int(x) % len(m.vehicles)
}

// Students returns a copy of the student records in model order.
func (m *Model) Students() []model.Student {
	return append([]model.Student(nil), m.students...)
}

// Vehicles returns a copy of the vehicle records in model order.
func (m *Model) Vehicles() []model.Vehicle {
	return append([]model.Vehicle(nil), m.vehicles...)
}

// Grades returns the grades covered by the grade family.
func (m *Model) Grades() []model.Grade {
	return append([]model.Grade(nil), m.grades...)
}

// Disabled returns the families left out of the model.
func (m *Model) Disabled() []Family {
	return append([]Family(nil), m.disabled...)
}

// Constraints returns a deep copy of the constraint list.
func (m *Model) Constraints() []Constraint {
	out := make([]Constraint, len(m.constraints))
	for i, c := range m.constraints {
		c.Vars = append([]Var(nil), c.Vars...)
		out[i] = c
	}
	return out
}

// NumConstraints returns the number of constraints.
func (m *Model) NumConstraints() int {
	return len(m.constraints)
}

// Violations evaluates every constraint against values using integer sums.
func (m *Model) Violations(values []bool) []Violation {
	var out []Violation
	for _, c := range m.constraints {
		sum := 0
		for _, x := range c.Vars {
			if int(x) < len(values) && values[x] {
				sum++
			}
		}
		if !c.Holds(sum) {
			out = append(out, Violation{Constraint: c, Sum: sum})
		}
	}
	return out
}

// Values converts a table into variable values. Students absent from the
// table keep all their variables at zero, which the assignment family reports
// as a violation. Unknown ids are errors.
func (m *Model) Values(t *Table) ([]bool, error) {
	sIndex := make(map[int]int, len(m.students))
	for i, s := range m.students {
		sIndex[s.ID] = i
	}
	vIndex := make(map[int]int, len(m.vehicles))
	for i, v := range m.vehicles {
		vIndex[v.ID] = i
	}
	values := make([]bool, m.NumVars())
	for _, row := range t.Rows() {
		s, ok := sIndex[row.StudentID]
		if !ok {
			return nil, fmt.Errorf("assignment references unknown student %d", row.StudentID)
		}
		v, ok := vIndex[row.VehicleID]
		if !ok {
			return nil, fmt.Errorf("assignment references unknown vehicle %d", row.VehicleID)
		}
		values[m.Var(s, v)] = true
	}
	return values, nil
}

// loads counts the students fixed in each vehicle. partial uses -1 for free
// variables, 0 and 1 for fixed ones.
func (m *Model) loads(partial []int8) (loads []int, unplaced int) {
	nv := len(m.vehicles)
	loads = make([]int, nv)
	for s := range m.students {
		placed := false
		for v := 0; v < nv; v++ {
			if partial[s*nv+v] == 1 {
				loads[v]++
				placed = true
			}
		}
		if !placed {
			unplaced++
		}
	}
	return loads, unplaced
}
