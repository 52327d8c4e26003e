package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"qtermsim/internal/config"
	"qtermsim/internal/logging"
	"qtermsim/internal/tui"
	"qtermsim/qaoa"
	"qtermsim/quantum"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run FILE",
		Short: "Execute an OpenQASM 2.0 program",
		Long: `Execute an OpenQASM 2.0 program and print the final state. The supported
subset is the gate set of the simulator (id, h, x, y, z, s, sdg, t, tdg,
rx, ry, rz, p, u1, u3, cx, cz, crx) plus measure; use "-" to read from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			var src []byte
			if args[0] == "-" {
				src, err = io.ReadAll(cmd.InOrStdin())
			} else {
				src, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("failed to read program: %w", err)
			}

			c, err := quantum.LoadQASM(string(src), e.circuitOptions()...)
			if err != nil {
				return err
			}
			e.logger.Debug("program executed", "qubits", c.NumQubits(), "ops", len(c.Ops()))

			if e.json {
				return writeJSON(cmd, stateReport(c, false))
			}
			printState(cmd, c)
			return nil
		},
	}
	return cmd
}

func newTUICmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Start the interactive circuit sandbox",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			qubits, _ := cmd.Flags().GetInt("qubits")
			save, _ := cmd.Flags().GetString("save")
			logFile, _ := cmd.Flags().GetString("log-file")

			// The terminal belongs to the UI, so logs go to a file or nowhere.
			e.logger = logging.Discard()
			if logFile != "" {
				f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
				if err != nil {
					return fmt.Errorf("failed to open log file: %w", err)
				}
				defer f.Close()
				e.logger = logging.NewLogger(e.cfg.Logging.Level, f)
			}

			qaoaOpts := []qaoa.Option{
				qaoa.WithIterations(e.cfg.QAOA.Iterations),
				qaoa.WithDelta(e.cfg.QAOA.Delta),
				qaoa.WithLogger(e.logger),
				qaoa.WithCircuitOptions(e.simulatorOptions()...),
			}
			if seed := e.cfg.Simulator.Seed; seed != 0 {
				qaoaOpts = append(qaoaOpts, qaoa.WithRand(quantum.NewSeededRand(seed)))
			}

			return tui.Run(tui.Settings{
				NumQubits:      qubits,
				CircuitOptions: e.circuitOptions(),
				QAOASteps:      e.cfg.QAOA.Steps,
				QAOAOptions:    qaoaOpts,
				SavePath:       save,
				Logger:         e.logger,
			})
		},
	}

	cmd.Flags().Int("qubits", 3, "Initial number of qubits")
	cmd.Flags().String("save", "circuit.qasm", "File written by ctrl+s")
	cmd.Flags().String("log-file", "", "Write logs to this file while the UI runs")
	return cmd
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `Print the configuration after merging defaults, the config file, QTERMSIM_*
environment variables and global flags.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			if e.json {
				return writeJSON(cmd, e.cfg)
			}
			out, err := yaml.Marshal(e.cfg)
			if err != nil {
				return fmt.Errorf("failed to encode config: %w", err)
			}
			path, _ := cmd.Flags().GetString("config")
			if path == "" {
				path = config.DefaultPath()
			}
			fmt.Fprintf(cmd.OutOrStdout(), "# %s\n", path)
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}
