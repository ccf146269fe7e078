package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jihwankim/matrixsim/pkg/sim"
	"github.com/jihwankim/matrixsim/pkg/sim/examples"
	"github.com/jihwankim/matrixsim/pkg/simconfig"
	"github.com/jihwankim/matrixsim/pkg/simlog"
	"github.com/jihwankim/matrixsim/pkg/simmetrics"
	"github.com/jihwankim/matrixsim/pkg/simreport"
	"github.com/jihwankim/matrixsim/pkg/simtui"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Args:  cobra.NoArgs,
	Short: "Execute a scenario to completion",
	Long:  `Loads a scenario YAML file, runs it to completion, and writes a run report.`,
	RunE:  runScenario,
}

func init() {
	runCmd.Flags().String("scenario", "", "path to scenario YAML file")
	runCmd.Flags().String("report-dir", "./reports", "directory run reports are written to")
	runCmd.Flags().String("report-format", "text", "run report format (text, html)")
	runCmd.Flags().Bool("tui", false, "attach a live terminal dashboard while the run executes")
}

// behaviorRegistry maps the process "kind" names a scenario file may
// declare to the built-in example behaviors that construct them. Process
// logic is compiled Go code, not scenario data, so unlike the teacher's
// fault definitions a scenario can only select among kinds this binary
// was built with.
func behaviorRegistry() map[string]simconfig.BehaviorFactory {
	return map[string]simconfig.BehaviorFactory{
		"pinger": func(id sim.ProcessId) sim.ProcessBehavior {
			return &examples.Pinger{Peer: 1, Rounds: 10}
		},
		"ponger": func(id sim.ProcessId) sim.ProcessBehavior {
			return &examples.Ponger{}
		},
		"voter": func(id sim.ProcessId) sim.ProcessBehavior {
			return &examples.Voter{Pool: sim.GlobalPool, Value: int(id)}
		},
		"collector": func(id sim.ProcessId) sim.ProcessBehavior {
			return &examples.Collector{Quorum: 3, ResultKey: "quorum_result"}
		},
	}
}

func runScenario(cmd *cobra.Command, args []string) error {
	scenarioPath, _ := cmd.Flags().GetString("scenario")
	if scenarioPath == "" {
		return fmt.Errorf("--scenario flag is required")
	}
	reportDir, _ := cmd.Flags().GetString("report-dir")
	reportFormat, _ := cmd.Flags().GetString("report-format")
	attachTUI, _ := cmd.Flags().GetBool("tui")

	logLevel := simlog.LevelInfo
	if verbose {
		logLevel = simlog.LevelDebug
	}
	logger := simlog.New(simlog.Config{Level: logLevel, Format: simlog.FormatText, Output: os.Stdout})

	logger.Infof("loading scenario file=%s", scenarioPath)
	sc, err := simconfig.Load(scenarioPath)
	if err != nil {
		return fmt.Errorf("failed to load scenario: %w", err)
	}

	builder, err := sc.ToBuilder(behaviorRegistry())
	if err != nil {
		return fmt.Errorf("failed to build scenario: %w", err)
	}
	builder = builder.WithLogger(logger)

	simn, err := builder.Build()
	if err != nil {
		return fmt.Errorf("failed to build simulation: %w", err)
	}

	var dashboard *simtui.Dashboard
	if attachTUI {
		dashboard = simtui.New(simn.Engine(), sc.Metadata.Name, 200*time.Millisecond)
		go func() {
			if derr := dashboard.Run(); derr != nil {
				logger.Infof("dashboard exited: %v", derr)
			}
		}()
	}

	logger.Infof("starting run scenario=%s", sc.Metadata.Name)
	started := time.Now()
	outcome := simn.Run()
	finished := time.Now()

	if dashboard != nil {
		dashboard.Stop()
	}

	logger.Infof("run halted reason=%s final_clock=%d", outcome.HaltReason, outcome.FinalClock)

	storage, err := simreport.NewStorage(reportDir, 50, logger)
	if err != nil {
		return fmt.Errorf("failed to create report storage: %w", err)
	}
	report := simreport.FromOutcome(sc.Metadata.Name, sc.Metadata.Name, sc.Spec.Seed, simn.Engine().ProcessTable().Len(), outcome, started, finished)
	path, err := storage.Save(report)
	if err != nil {
		logger.Infof("failed to save run report: %v", err)
		return nil
	}
	logger.Infof("run report saved path=%s", path)

	formatter := simreport.NewFormatter()
	renderedPath := path + "." + reportFormat
	if ferr := formatter.Render(report, simreport.Format(reportFormat), renderedPath); ferr != nil {
		logger.Infof("failed to render run report: %v", ferr)
	}

	registry := simmetrics.Snapshot(sc.Metadata.Name, outcome, simn.Engine().ProcessTable())
	metricsText, merr := simmetrics.Export(registry)
	if merr != nil {
		logger.Infof("failed to export metrics: %v", merr)
	} else if werr := os.WriteFile(path+".prom", []byte(metricsText), 0o644); werr != nil {
		logger.Infof("failed to write metrics file: %v", werr)
	}

	return nil
}
