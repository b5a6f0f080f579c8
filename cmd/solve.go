package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/carpool/core/assign"
	"github.com/kilianp07/carpool/core/factory"
	"github.com/kilianp07/carpool/pkg/report"
	"github.com/kilianp07/carpool/pkg/roster"
)

type solveOptions struct {
	students  string
	vehicles  string
	engine    string
	objective string
	timeLimit time.Duration
	out       string
	format    string
	summary   bool
}

func newSolveCmd(rt *runtime) *cobra.Command {
	o := &solveOptions{}
	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Solve one dataset and write the assignment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return o.run(cmd, rt)
		},
	}
	f := cmd.Flags()
	f.StringVar(&o.students, "students", "", "students CSV (student_id,gender,grade,license)")
	f.StringVar(&o.vehicles, "vehicles", "", "vehicles CSV (car_id,capacity)")
	f.StringVar(&o.engine, "engine", "", "solver engine: bnb or sat")
	f.StringVar(&o.objective, "objective", "", "objective: none, balance or max_load")
	f.DurationVar(&o.timeLimit, "time-limit", 0, "stop the search after this duration (0 = no limit)")
	f.StringVarP(&o.out, "out", "o", "", "output file (default stdout)")
	f.StringVar(&o.format, "format", "csv", "output format: csv or json")
	f.BoolVar(&o.summary, "summary", false, "print a per-vehicle breakdown")
	_ = cmd.MarkFlagRequired("students")
	_ = cmd.MarkFlagRequired("vehicles")
	return cmd
}

// solverConfig applies the flags set on the command line over the loaded
// configuration.
func (o *solveOptions) solverConfig(cmd *cobra.Command, base assign.Config) assign.Config {
	cfg := base
	if cmd.Flags().Changed("engine") && o.engine != cfg.Engine.Type {
		cfg.Engine = factory.ModuleConfig{Type: o.engine}
	}
	if cmd.Flags().Changed("objective") {
		cfg.Objective = o.objective
	}
	if cmd.Flags().Changed("time-limit") {
		cfg.TimeLimitMS = int(o.timeLimit.Milliseconds())
	}
	return cfg
}

func (o *solveOptions) run(cmd *cobra.Command, rt *runtime) error {
	write, err := writer(o.format)
	if err != nil {
		return err
	}
	students, err := roster.LoadStudents(o.students)
	if err != nil {
		return err
	}
	vehicles, err := roster.LoadVehicles(o.vehicles)
	if err != nil {
		return err
	}
	planner, err := rt.planner(o.solverConfig(cmd, rt.cfg.Solver))
	if err != nil {
		return err
	}

	plan, err := planner.Plan(cmd.Context(), students, vehicles)
	if err != nil {
		return err
	}
	if !plan.Solved() {
		return &assign.NoSolutionError{Status: plan.Outcome.Status}
	}

	// The breakdown goes to stderr when stdout carries the table.
	summaryOut := cmd.ErrOrStderr()
	if o.out != "" {
		err = writeFile(o.out, func(w io.Writer) error { return write(w, plan.Table) })
		summaryOut = cmd.OutOrStdout()
	} else {
		err = write(cmd.OutOrStdout(), plan.Table)
	}
	if err != nil {
		return fmt.Errorf("write assignment: %w", err)
	}
	if o.summary {
		sum, err := report.Summarize(plan.Table, students, vehicles)
		if err != nil {
			return err
		}
		fmt.Fprintf(summaryOut, "%s (%s, %d nodes, %s)\n", plan.Outcome.Status, plan.Outcome.Engine, plan.Outcome.Nodes, plan.Outcome.Elapsed.Round(time.Microsecond))
		return sum.WriteText(summaryOut)
	}
	return nil
}

// writeFile creates path and fills it with write. Close errors are reported.
func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, f.Close()) }()
	return write(f)
}

func writer(format string) (func(io.Writer, *assign.Table) error, error) {
	switch format {
	case "csv":
		return roster.WriteCSV, nil
	case "json":
		return roster.WriteJSON, nil
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}
