package assign

import (
	"fmt"
	"strings"
)

// Extract turns a solved outcome into an assignment table. Outcomes without a
// solution yield *NoSolutionError. Values that place a student in zero or
// several vehicles, or violate any constraint, yield *InternalInvariantError;
// nothing is repaired.
func Extract(o Outcome) (*Table, error) {
	if !o.Status.HasSolution() {
		return nil, &NoSolutionError{Status: o.Status}
	}
	m := o.model
	if m == nil {
		return nil, &InternalInvariantError{Engine: o.Engine, Detail: "outcome carries no model"}
	}
	if len(o.Values) != m.NumVars() {
		return nil, &InternalInvariantError{
			Engine: o.Engine,
			Detail: fmt.Sprintf("got %d values for %d variables", len(o.Values), m.NumVars()),
		}
	}

	placed := make([]int, len(m.students))
	rows := make([]Row, len(m.students))
	for x, on := range o.Values {
		if !on {
			continue
		}
		s, v := m.Split(Var(x))
		placed[s]++
		rows[s] = Row{StudentID: m.students[s].ID, VehicleID: m.vehicles[v].ID}
	}
	for s, st := range m.students {
		if placed[s] != 1 {
			return nil, &InternalInvariantError{
				Engine: o.Engine,
				Detail: fmt.Sprintf("student %d placed in %d vehicles", st.ID, placed[s]),
			}
		}
	}

	if vs := m.Violations(o.Values); len(vs) > 0 {
		msgs := make([]string, len(vs))
		for i, v := range vs {
			msgs[i] = v.String()
		}
		return nil, &InternalInvariantError{Engine: o.Engine, Detail: strings.Join(msgs, "; ")}
	}

	t, err := NewTable(rows)
	if err != nil {
		return nil, &InternalInvariantError{Engine: o.Engine, Detail: err.Error()}
	}
	return t, nil
}
