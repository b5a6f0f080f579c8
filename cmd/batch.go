package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/carpool/core/assign"
	"github.com/kilianp07/carpool/pkg/roster"
)

func newBatchCmd(rt *runtime) *cobra.Command {
	var write bool
	cmd := &cobra.Command{
		Use:   "batch DIR...",
		Short: "Solve the students.csv/vehicles.csv pair of each directory concurrently",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, dirs []string) error {
			planner, err := rt.planner(rt.cfg.Solver)
			if err != nil {
				return err
			}

			results := make(map[string]assign.BatchResult, len(dirs))
			var reqs []assign.Request
			for _, dir := range dirs {
				students, vehicles, err := roster.LoadDir(dir)
				if err != nil {
					results[dir] = assign.BatchResult{Name: dir, Err: err}
					continue
				}
				reqs = append(reqs, assign.Request{Name: dir, Students: students, Vehicles: vehicles})
			}
			for _, r := range planner.PlanBatch(cmd.Context(), reqs) {
				results[r.Name] = r
			}

			var failed int
			var unsolved *assign.NoSolutionError
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "DATASET\tSTATUS\tNODES\tELAPSED\tDETAIL")
			for _, dir := range dirs {
				r := results[dir]
				switch {
				case r.Err != nil:
					failed++
					fmt.Fprintf(tw, "%s\terror\t-\t-\t%v\n", dir, r.Err)
				default:
					out := r.Plan.Outcome
					detail := r.Plan.ID
					if r.Plan.Solved() && write {
						path := filepath.Join(dir, roster.AssignmentFile)
						table := r.Plan.Table
						if err := writeFile(path, func(w io.Writer) error { return roster.WriteCSV(w, table) }); err != nil {
							failed++
							detail = err.Error()
						} else {
							detail = path
						}
					}
					if !r.Plan.Solved() && unsolved == nil {
						unsolved = &assign.NoSolutionError{Status: out.Status}
					}
					fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", dir, out.Status, out.Nodes, out.Elapsed.Round(time.Microsecond), detail)
				}
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d datasets failed", failed, len(dirs))
			}
			if unsolved != nil {
				return fmt.Errorf("batch: %w", unsolved)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&write, "write", "w", false, "write "+roster.AssignmentFile+" into each solved directory")
	return cmd
}
