package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"qtermsim/protocol"
)

func newCoinCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "coin",
		Short: "Play the quantum coin game",
		Long: `The machine puts a coin in superposition, the player either flips it
(--flip) or leaves it, and the machine undoes its superposition before
looking. The player's move cannot change the outcome: the machine wins.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			flip, _ := cmd.Flags().GetBool("flip")

			out, err := protocol.CoinGame(flip, e.circuitOptions()...)
			if err != nil {
				return err
			}
			if e.json {
				return writeJSON(cmd, map[string]any{
					"flip":        flip,
					"outcome":     int(out),
					"machineWins": out == protocol.MachineWins,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), out.String())
			return nil
		},
	}

	cmd.Flags().Bool("flip", false, "Flip the coin on the player's turn")
	return cmd
}

func newRandomCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "random MAX",
		Short: "Draw a uniform random integer by measuring qubits",
		Long: `Draw a uniform integer in [--min, MAX] from measurements of a uniform
superposition. With --string, MAX is instead the length of a random
alphanumeric string.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			limit, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid MAX %q: %w", args[0], err)
			}
			lo, _ := cmd.Flags().GetInt("min")
			asString, _ := cmd.Flags().GetBool("string")
			opts := e.circuitOptions()

			if asString {
				s, err := protocol.RandomString(limit, opts...)
				if err != nil {
					return err
				}
				if e.json {
					return writeJSON(cmd, map[string]any{"value": s})
				}
				fmt.Fprintln(cmd.OutOrStdout(), s)
				return nil
			}

			n, err := protocol.RandomInRange(lo, limit, opts...)
			if err != nil {
				return err
			}
			if e.json {
				return writeJSON(cmd, map[string]any{"value": n, "min": lo, "max": limit})
			}
			fmt.Fprintln(cmd.OutOrStdout(), n)
			return nil
		},
	}

	cmd.Flags().Int("min", 0, "Lower bound (inclusive)")
	cmd.Flags().Bool("string", false, "Print a random alphanumeric string of length MAX")
	return cmd
}
