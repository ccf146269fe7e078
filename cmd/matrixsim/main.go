package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
	version = "dev"
)

var rootCmd = &cobra.Command{
	Use:   "matrixsim",
	Short: "Deterministic discrete-event simulator for distributed systems",
	Long: `matrixsim drives a single-threaded, deterministic, virtual-time
simulation of message-passing processes: scenarios declare pools of
processes, a latency topology between them, and an outbound bandwidth
limit, and the engine dispatches every Deliver and TimerFire event in
strict (fire_time, seq) order.`,
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "not read by any command; run takes its scenario file from --scenario")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(runCmd)
}

// Commands are defined in separate files:
// - runCmd in run.go

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
