package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configFile string
	preset     string
	engineName string
	debugView  bool
	logFile    string
	listOnly   bool
)

// main runs the root command.
// It exits the process with status 1 if command execution returns an error.
func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newRootCmd registers the commands. Flags shared by several commands with
// different defaults are read from each command's own flag set.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "handswarm",
		Short:        "a swarm drifting to the origin, pushed around by tracked hands",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "preset applied over the config")
	rootCmd.PersistentFlags().StringVar(&logFile, "log", "", "log file, stderr when empty")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run the simulation",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	runCmd.Flags().StringVar(&engineName, "engine", "", "rendering engine: headless, terminal or raylib")
	runCmd.Flags().Int64("seed", 0, "spawn seed, 0 for a time based one")
	runCmd.Flags().Int("frames", 0, "stop after that many frames")
	runCmd.Flags().BoolVar(&debugView, "debug", false, "draw the physics debug view")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "run headless and plot the swarm radius",
		Args:  cobra.NoArgs,
		RunE:  benchSimulation,
	}
	benchCmd.Flags().Int("frames", 600, "number of frames")
	benchCmd.Flags().Int64("seed", 1, "spawn seed")

	recordCmd := &cobra.Command{
		Use:   "record",
		Short: "record the configured video source to a replay file",
		Args:  cobra.NoArgs,
		RunE:  recordSource,
	}
	recordCmd.Flags().Int("frames", 240, "number of frames")
	recordCmd.Flags().StringP("out", "o", "recording.yaml", "output file")

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "print the effective configuration",
		Args:  cobra.NoArgs,
		RunE:  printConfig,
	}
	configCmd.Flags().StringP("out", "o", "", "write to a file instead of stdout")
	configCmd.Flags().BoolVar(&listOnly, "presets", false, "list the presets")

	rootCmd.AddCommand(runCmd, benchCmd, recordCmd, configCmd)

	return rootCmd
}
