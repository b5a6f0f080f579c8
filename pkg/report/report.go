// Package report derives per-vehicle breakdowns from an assignment.
package report

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/samber/lo"

	"github.com/kilianp07/carpool/core/assign"
	"github.com/kilianp07/carpool/core/model"
)

// VehicleSummary describes who rides in one vehicle.
type VehicleSummary struct {
	VehicleID int                  `json:"car_id"`
	Capacity  int                  `json:"capacity"`
	Occupants []int                `json:"occupants"`
	Drivers   []int                `json:"drivers"`
	Genders   map[model.Gender]int `json:"genders"`
	Grades    map[model.Grade]int  `json:"grades"`
}

// Load is the number of occupants.
func (v VehicleSummary) Load() int {
	return len(v.Occupants)
}

// Summary lists the vehicles in input order.
type Summary struct {
	Vehicles []VehicleSummary `json:"vehicles"`
}

// Summarize joins the table with the student and vehicle records. A table row
// naming an unknown student or vehicle is an error.
func Summarize(t *assign.Table, students []model.Student, vehicles []model.Vehicle) (*Summary, error) {
	byID := lo.KeyBy(students, func(s model.Student) int { return s.ID })
	known := lo.KeyBy(vehicles, func(v model.Vehicle) int { return v.ID })

	groups := make(map[int][]model.Student, len(vehicles))
	for _, r := range t.Rows() {
		s, ok := byID[r.StudentID]
		if !ok {
			return nil, fmt.Errorf("unknown student %d", r.StudentID)
		}
		if _, ok := known[r.VehicleID]; !ok {
			return nil, fmt.Errorf("student %d: unknown vehicle %d", r.StudentID, r.VehicleID)
		}
		groups[r.VehicleID] = append(groups[r.VehicleID], s)
	}

	sum := &Summary{Vehicles: make([]VehicleSummary, 0, len(vehicles))}
	for _, v := range vehicles {
		riders := groups[v.ID]
		sum.Vehicles = append(sum.Vehicles, VehicleSummary{
			VehicleID: v.ID,
			Capacity:  v.Capacity,
			Occupants: lo.Map(riders, func(s model.Student, _ int) int { return s.ID }),
			Drivers: lo.FilterMap(riders, func(s model.Student, _ int) (int, bool) {
				return s.ID, s.Licensed
			}),
			Genders: lo.CountValuesBy(riders, func(s model.Student) model.Gender { return s.Gender }),
			Grades:  lo.CountValuesBy(riders, func(s model.Student) model.Grade { return s.Grade }),
		})
	}
	return sum, nil
}

// WriteText renders one aligned line per vehicle.
func (s *Summary) WriteText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CAR\tLOAD\tDRIVERS\tGENDER\tGRADES\tSTUDENTS")
	for _, v := range s.Vehicles {
		fmt.Fprintf(tw, "%d\t%d/%d\t%d\t%s\t%s\t%s\n",
			v.VehicleID, v.Load(), v.Capacity, len(v.Drivers),
			genders(v.Genders), grades(v.Grades), joinInts(v.Occupants))
	}
	return tw.Flush()
}

func genders(counts map[model.Gender]int) string {
	parts := lo.Map(model.Genders, func(g model.Gender, _ int) string {
		return fmt.Sprintf("%s=%d", g, counts[g])
	})
	return strings.Join(parts, " ")
}

func grades(counts map[model.Grade]int) string {
	keys := lo.Keys(counts)
	slices.Sort(keys)
	parts := lo.Map(keys, func(g model.Grade, _ int) string {
		return fmt.Sprintf("%d:%d", g, counts[g])
	})
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, " ")
}

func joinInts(ids []int) string {
	if len(ids) == 0 {
		return "-"
	}
	return strings.Join(lo.Map(ids, func(id int, _ int) string { return fmt.Sprint(id) }), ",")
}
