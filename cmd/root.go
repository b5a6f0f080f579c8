package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/carpool/config"
	"github.com/kilianp07/carpool/core/assign"
	"github.com/kilianp07/carpool/core/logger"
	coremetrics "github.com/kilianp07/carpool/core/metrics"
	infralogger "github.com/kilianp07/carpool/infra/logger"
	"github.com/kilianp07/carpool/infra/metrics"
)

// Exit statuses returned by ExitCode.
const (
	ExitOK         = 0
	ExitError      = 1
	ExitNoSolution = 2
)

// runtime holds what every subcommand needs once the configuration is loaded.
type runtime struct {
	cfgPath string
	cfg     *config.Config
	log     logger.Logger
	sink    coremetrics.MetricsSink
}

func newRootCmd() *cobra.Command {
	rt := &runtime{}
	root := &cobra.Command{
		Use:           "carpool",
		Short:         "Assign students to vehicles under seating rules",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return rt.setup(cmd)
		},
	}
	root.PersistentFlags().StringVarP(&rt.cfgPath, "config", "c", "", "configuration file (yaml or json)")
	root.AddCommand(newSolveCmd(rt), newVerifyCmd(rt), newBatchCmd(rt))
	return root
}

func (rt *runtime) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(rt.cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	rt.cfg = cfg

	log, err := infralogger.NewZerologLoggerWithOptions(cmd.Name(), infralogger.Options{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.Console,
		Out:     cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	rt.log = log

	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		return fmt.Errorf("metrics sink: %w", err)
	}
	rt.sink = sink

	if addr := cfg.Metrics.Listen; addr != "" {
		ctx := cmd.Context()
		go func() {
			if err := metrics.StartPromServer(ctx, addr, log); err != nil {
				log.Errorf("prom server: %v", err)
			}
		}()
	}
	return nil
}

func (rt *runtime) planner(solver assign.Config) (*assign.Planner, error) {
	return assign.NewPlanner(solver, assign.WithLogger(rt.log), assign.WithMetrics(rt.sink))
}

// Execute runs the CLI until completion or until SIGINT/SIGTERM cancels the
// running solve.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return newRootCmd().ExecuteContext(ctx)
}

// ExitCode maps an error returned by Execute to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var noSolution *assign.NoSolutionError
	if errors.As(err, &noSolution) {
		return ExitNoSolution
	}
	return ExitError
}
