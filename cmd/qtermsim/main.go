package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var version = "0.1.0-dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "qtermsim",
		Short: "Statevector quantum circuit simulator",
		Long: `qtermsim simulates small quantum circuits on a classical machine.

It runs textbook protocols (Bell pairs, teleportation, superdense coding),
executes OpenQASM 2.0 programs, optimizes max-cut QAOA parameters and
offers an interactive terminal UI.

Settings are read from ~/.qtermsim/config.yaml (or --config) and the
QTERMSIM_* environment variables; flags override both.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "Config file (default ~/.qtermsim/config.yaml)")
	rootCmd.PersistentFlags().Uint64("seed", 0, "Seed for measurement randomness (0 = unseeded)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: trace, debug, info, warn, error")
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")

	rootCmd.AddCommand(
		newVersionCmd(),
		newConfigCmd(),
		newBellCmd(),
		newTeleportCmd(),
		newSuperdenseCmd(),
		newCoinCmd(),
		newRandomCmd(),
		newQAOACmd(),
		newRunCmd(),
		newTUICmd(),
	)
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return writeJSON(cmd, map[string]string{"version": version})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "qtermsim version %s\n", version)
			return nil
		},
	}
}
