package model

import (
	"math"
	"testing"
)

func TestVehicleValidate(t *testing.T) {
	if err := (Vehicle{ID: 1, Capacity: 4}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, c := range []int{0, -3} {
		if err := (Vehicle{ID: 2, Capacity: c}).Validate(); err == nil {
			t.Fatalf("capacity %d should be rejected", c)
		}
	}
}

func TestTotalCapacity(t *testing.T) {
	got := TotalCapacity([]Vehicle{{ID: 1, Capacity: 3}, {ID: 2, Capacity: 5}})
	if got != 8 {
		t.Fatalf("expected 8 got %d", got)
	}
}

func TestStudentValidate(t *testing.T) {
	cases := []struct {
		name    string
		student Student
		wantErr bool
	}{
		{"valid", Student{ID: 1, Gender: Female, Grade: 2}, false},
		{"bad gender", Student{ID: 2, Gender: Gender(7), Grade: 2}, true},
		{"grade too low", Student{ID: 3, Gender: Male, Grade: 0}, true},
		{"grade too high", Student{ID: 4, Gender: Male, Grade: 5}, true},
	}
	for _, c := range cases {
		err := c.student.Validate()
		if (err != nil) != c.wantErr {
			t.Errorf("%s: err=%v wantErr=%v", c.name, err, c.wantErr)
		}
	}
}

func TestStudentAdjacentTo(t *testing.T) {
	a := Student{ID: 5}
	if !a.AdjacentTo(Student{ID: 6}) || !a.AdjacentTo(Student{ID: 4}) {
		t.Fatal("consecutive ids should be adjacent")
	}
	if a.AdjacentTo(Student{ID: 7}) || a.AdjacentTo(a) {
		t.Fatal("non consecutive ids should not be adjacent")
	}
	top, bottom := Student{ID: math.MaxInt}, Student{ID: math.MinInt}
	if top.AdjacentTo(bottom) || bottom.AdjacentTo(top) {
		t.Fatal("ids at opposite ends of the int range should not wrap around")
	}
	if !top.AdjacentTo(Student{ID: math.MaxInt - 1}) {
		t.Fatal("MaxInt-1 and MaxInt should be adjacent")
	}
}

func TestGrades(t *testing.T) {
	gs := Grades()
	if len(gs) != 4 || gs[0] != 1 || gs[3] != 4 {
		t.Fatalf("unexpected roster %v", gs)
	}
	if Male.String() != "male" || Female.String() != "female" || Gender(9).String() != "unknown" {
		t.Fatal("unexpected gender names")
	}
}
