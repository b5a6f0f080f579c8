package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/carpool/core/assign"
	"github.com/kilianp07/carpool/pkg/roster"
)

func newVerifyCmd(rt *runtime) *cobra.Command {
	var students, vehicles, assignment string
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check an existing assignment against the seating rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ss, err := roster.LoadStudents(students)
			if err != nil {
				return err
			}
			vs, err := roster.LoadVehicles(vehicles)
			if err != nil {
				return err
			}
			tbl, err := roster.LoadAssignment(assignment)
			if err != nil {
				return err
			}
			opts, err := rt.cfg.Solver.BuildOptions()
			if err != nil {
				return err
			}
			m, err := assign.Build(ss, vs, opts...)
			if err != nil {
				return err
			}
			values, err := m.Values(tbl)
			if err != nil {
				return err
			}
			violations := m.Violations(values)
			out := cmd.OutOrStdout()
			for _, v := range violations {
				fmt.Fprintln(out, v)
			}
			if len(violations) > 0 {
				return fmt.Errorf("%d of %d constraints violated", len(violations), m.NumConstraints())
			}
			fmt.Fprintf(out, "ok: %d students, %d constraints satisfied\n", len(ss), m.NumConstraints())
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&students, "students", "", "students CSV")
	f.StringVar(&vehicles, "vehicles", "", "vehicles CSV")
	f.StringVar(&assignment, "assignment", "", "assignment CSV (student_id,car_id)")
	for _, name := range []string{"students", "vehicles", "assignment"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}
