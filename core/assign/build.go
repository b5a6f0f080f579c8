package assign

import (
	"fmt"
	"math"
	"slices"

	"github.com/samber/lo"

	"github.com/kilianp07/carpool/core/model"
)

type buildOptions struct {
	disabled []Family
	grades   []model.Grade
}

// BuildOption customises Build.
type BuildOption func(*buildOptions)

// WithoutFamilies leaves the given constraint families out of the model. The
// assignment and capacity families cannot be disabled.
func WithoutFamilies(fs ...Family) BuildOption {
	return func(o *buildOptions) { o.disabled = append(o.disabled, fs...) }
}

// WithGrades sets the grades every vehicle must cover. By default the grades
// present among the students are covered.
func WithGrades(gs ...model.Grade) BuildOption {
	return func(o *buildOptions) { o.grades = append(o.grades, gs...) }
}

// Build validates the records and turns them into a 0-1 model. It returns an
// *InvalidInputError listing every problem found; no constraint is built in
// that case.
func Build(students []model.Student, vehicles []model.Vehicle, opts ...BuildOption) (*Model, error) {
	var o buildOptions
	for _, opt := range opts {
		opt(&o)
	}
	if problems := validate(students, vehicles, o); len(problems) > 0 {
		return nil, &InvalidInputError{Problems: problems}
	}

	m := &Model{
		students: slices.Clone(students),
		vehicles: slices.Clone(vehicles),
		disabled: lo.Uniq(o.disabled),
		grades:   coveredGrades(students, o.grades),
	}
	b := builder{m: m}
	b.assignment()
	b.capacity()
	if !m.isDisabled(FamilyDriver) {
		b.drivers()
	}
	if !m.isDisabled(FamilyGrade) {
		b.gradeCoverage()
	}
	if !m.isDisabled(FamilyGender) {
		b.genderCoverage()
	}
	if !m.isDisabled(FamilyAdjacency) {
		b.adjacency()
	}
	return m, nil
}

func validate(students []model.Student, vehicles []model.Vehicle, o buildOptions) []string {
	var problems []string
	for _, s := range lo.FindDuplicatesBy(students, func(s model.Student) int { return s.ID }) {
		problems = append(problems, fmt.Sprintf("duplicate student id %d", s.ID))
	}
	for _, v := range lo.FindDuplicatesBy(vehicles, func(v model.Vehicle) int { return v.ID }) {
		problems = append(problems, fmt.Sprintf("duplicate vehicle id %d", v.ID))
	}
	for _, s := range students {
		if err := s.Validate(); err != nil {
			problems = append(problems, err.Error())
		}
	}
	for _, v := range vehicles {
		if err := v.Validate(); err != nil {
			problems = append(problems, err.Error())
		}
	}
	for _, f := range o.disabled {
		switch f {
		case FamilyAssignment, FamilyCapacity:
			problems = append(problems, fmt.Sprintf("constraint family %s cannot be disabled", f))
		case FamilyDriver, FamilyGrade, FamilyGender, FamilyAdjacency:
		default:
			problems = append(problems, fmt.Sprintf("unknown constraint family %d", int(f)))
		}
	}
	for _, g := range o.grades {
		if !g.Valid() {
			problems = append(problems, fmt.Sprintf("covered grade %d outside [%d,%d]", int(g), model.MinGrade, model.MaxGrade))
		}
	}
	return problems
}

func coveredGrades(students []model.Student, explicit []model.Grade) []model.Grade {
	grades := explicit
	if len(grades) == 0 {
		grades = lo.Map(students, func(s model.Student, _ int) model.Grade { return s.Grade })
	}
	grades = lo.Uniq(grades)
	slices.Sort(grades)
	return grades
}

func (m *Model) isDisabled(f Family) bool {
	return slices.Contains(m.disabled, f)
}

type builder struct {
	m *Model
}

func (b *builder) add(c Constraint) {
	b.m.constraints = append(b.m.constraints, c)
}

// column collects the variables of vehicle v for the students accepted by keep.
func (b *builder) column(v int, keep func(model.Student) bool) []Var {
	var vars []Var
	for s, st := range b.m.students {
		if keep(st) {
			vars = append(vars, b.m.Var(s, v))
		}
	}
	return vars
}

func everyone(model.Student) bool { return true }

func (b *builder) assignment() {
	for s, st := range b.m.students {
		vars := make([]Var, len(b.m.vehicles))
		for v := range b.m.vehicles {
			vars[v] = b.m.Var(s, v)
		}
		b.add(Constraint{Family: FamilyAssignment, Label: fmt.Sprintf("student %d", st.ID), Vars: vars, Sense: Equal, RHS: 1})
	}
}

func (b *builder) capacity() {
	for v, vh := range b.m.vehicles {
		b.add(Constraint{Family: FamilyCapacity, Label: fmt.Sprintf("vehicle %d", vh.ID), Vars: b.column(v, everyone), Sense: AtMost, RHS: vh.Capacity})
	}
}

func (b *builder) drivers() {
	licensed := func(s model.Student) bool { return s.Licensed }
	for v, vh := range b.m.vehicles {
		b.add(Constraint{Family: FamilyDriver, Label: fmt.Sprintf("vehicle %d", vh.ID), Vars: b.column(v, licensed), Sense: AtLeast, RHS: 1})
	}
}

func (b *builder) gradeCoverage() {
	for v, vh := range b.m.vehicles {
		for _, g := range b.m.grades {
			inGrade := func(s model.Student) bool { return s.Grade == g }
			b.add(Constraint{Family: FamilyGrade, Label: fmt.Sprintf("vehicle %d grade %d", vh.ID, g), Vars: b.column(v, inGrade), Sense: AtLeast, RHS: 1})
		}
	}
}

func (b *builder) genderCoverage() {
	for v, vh := range b.m.vehicles {
		for _, g := range model.Genders {
			ofGender := func(s model.Student) bool { return s.Gender == g }
			b.add(Constraint{Family: FamilyGender, Label: fmt.Sprintf("vehicle %d %s", vh.ID, g), Vars: b.column(v, ofGender), Sense: AtLeast, RHS: 1})
		}
	}
}

// adjacency forbids students with consecutive ids from sharing a vehicle. The
// rule is literal: ids s and s+1 are paired whenever both exist, whatever the
// order of the records.
func (b *builder) adjacency() {
	position := make(map[int]int, len(b.m.students))
	for s, st := range b.m.students {
		position[st.ID] = s
	}
	for s, st := range b.m.students {
		if st.ID == math.MaxInt {
			continue
		}
		next, ok := position[st.ID+1]
		if !ok || !st.AdjacentTo(b.m.students[next]) {
			continue
		}
		for v, vh := range b.m.vehicles {
			vars := []Var{b.m.Var(s, v), b.m.Var(next, v)}
			slices.Sort(vars)
			b.add(Constraint{
				Family: FamilyAdjacency,
				Label:  fmt.Sprintf("students %d/%d vehicle %d", st.ID, st.ID+1, vh.ID),
				Vars:   vars,
				Sense:  AtMost,
				RHS:    1,
			})
		}
	}
}
