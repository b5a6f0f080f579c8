package model

import "fmt"

// Gender is the binary gender category recorded for a student.
type Gender int

const (
	Male Gender = iota
	Female
)

// Genders lists every gender category in a stable order.
var Genders = []Gender{Male, Female}

// String returns a human-readable representation of the gender.
func (g Gender) String() string {
	switch g {
	case Male:
		return "male"
	case Female:
		return "female"
	default:
		return "unknown"
	}
}

// Valid reports whether g is a known category.
func (g Gender) Valid() bool {
	return g == Male || g == Female
}

// Grade is the school year of a student.
type Grade int

const (
	MinGrade Grade = 1
	MaxGrade Grade = 4
)

// Grades returns the full grade roster from MinGrade to MaxGrade.
func Grades() []Grade {
	out := make([]Grade, 0, MaxGrade-MinGrade+1)
	for g := MinGrade; g <= MaxGrade; g++ {
		out = append(out, g)
	}
	return out
}

// Valid reports whether g lies within the grade roster.
func (g Grade) Valid() bool {
	return g >= MinGrade && g <= MaxGrade
}

// Student is a passenger to be seated. IDs are totally ordered: two students
// whose IDs differ by one are considered adjacent.
type Student struct {
	ID       int
	Gender   Gender
	Grade    Grade
	Licensed bool // true if the student may drive
}

// Validate checks the categorical fields of the student.
func (s Student) Validate() error {
	if !s.Gender.Valid() {
		return fmt.Errorf("student %d: invalid gender %d", s.ID, int(s.Gender))
	}
	if !s.Grade.Valid() {
		return fmt.Errorf("student %d: grade %d outside [%d,%d]", s.ID, int(s.Grade), MinGrade, MaxGrade)
	}
	return nil
}

// AdjacentTo reports whether the IDs of s and o are consecutive integers.
func (s Student) AdjacentTo(o Student) bool {
	if s.ID > o.ID {
		s, o = o, s
	}
	return s.ID < o.ID && o.ID-1 == s.ID
}
