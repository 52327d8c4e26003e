package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"qtermsim/protocol"
	"qtermsim/quantum"
)

func newBellCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bell KIND",
		Short: "Prepare a Bell state on two qubits",
		Long: `Prepare one of the four Bell states on qubits 0 and 1 and print the
resulting state. KIND is phi+, phi-, psi+ or psi- (the spelled out forms
phiplus, psiminus, ... work too).

With --measure both qubits are measured afterwards; the outcomes are always
correlated (phi) or anti-correlated (psi).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			kind, err := protocol.ParseBellState(args[0])
			if err != nil {
				return err
			}
			measure, _ := cmd.Flags().GetBool("measure")

			c, err := quantum.New(2, e.circuitOptions()...)
			if err != nil {
				return err
			}
			if err := protocol.PrepareBell(c, kind, 0, 1); err != nil {
				return err
			}
			c.Run()
			if measure {
				if _, err := c.MeasureAll(); err != nil {
					return err
				}
			}
			e.logger.Debug("bell state prepared", "kind", kind.String(), "measured", measure)

			if e.json {
				return writeJSON(cmd, map[string]any{
					"kind":  kind.String(),
					"state": stateReport(c, true),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), headerStyle.Render("Bell state "+kind.String()))
			printState(cmd, c)
			return nil
		},
	}

	cmd.Flags().Bool("measure", false, "Measure both qubits after preparation")
	return cmd
}

func newTeleportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "teleport",
		Short: "Teleport the state of qubit 0 onto qubit 2",
		Long: `Prepare qubit 0, share a Bell pair between qubits 1 and 2 and teleport
qubit 0 onto qubit 2. The source is |0⟩ or |1⟩, or an arbitrary state given
by --theta and --phi (RY(theta) followed by RZ(phi)).

By default the Pauli correction depends on the measured bits. With
--unconditional the fixed CNOT/CZ sequence is used, which only reproduces
basis-state inputs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			source, _ := cmd.Flags().GetString("source")
			thetaStr, _ := cmd.Flags().GetString("theta")
			phiStr, _ := cmd.Flags().GetString("phi")
			unconditional, _ := cmd.Flags().GetBool("unconditional")

			c, err := quantum.New(3, e.circuitOptions()...)
			if err != nil {
				return err
			}
			if err := prepareSource(c, source, thetaStr, phiStr); err != nil {
				return err
			}

			teleport := protocol.Teleport
			if unconditional {
				teleport = protocol.TeleportUnconditional
			}
			res, err := teleport(c)
			if err != nil {
				return err
			}
			out, err := c.ReducedQubitState(2)
			if err != nil {
				return err
			}
			e.logger.Debug("teleported", "m0", res.M0, "m1", res.M1, "unconditional", unconditional)

			if e.json {
				return writeJSON(cmd, map[string]any{
					"m0":     res.M0,
					"m1":     res.M1,
					"target": map[string]float64{"theta": out.Spherical.Theta, "phi": out.Spherical.Phi, "p1": out.Probability1},
					"state":  stateReport(c, true),
				})
			}
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, headerStyle.Render("Teleportation"))
			fmt.Fprintf(w, "  %s M0=%d M1=%d\n", labelStyle.Render("classical bits"), res.M0, res.M1)
			fmt.Fprintf(w, "  %s θ=%s φ=%s\n", labelStyle.Render("q[2]"),
				quantum.FormatAngle(out.Spherical.Theta), quantum.FormatAngle(out.Spherical.Phi))
			printState(cmd, c)
			return nil
		},
	}

	cmd.Flags().String("source", "1", "Basis state of qubit 0: 0 or 1 (ignored with --theta)")
	cmd.Flags().String("theta", "", "Polar angle of the source state, e.g. pi/3")
	cmd.Flags().String("phi", "0", "Azimuth of the source state, used with --theta")
	cmd.Flags().Bool("unconditional", false, "Use the fixed correction sequence")
	return cmd
}

// prepareSource puts qubit 0 into the state to teleport.
func prepareSource(c *quantum.Circuit, source, thetaStr, phiStr string) error {
	if thetaStr != "" {
		theta, err := quantum.ParseAngle(thetaStr)
		if err != nil {
			return fmt.Errorf("invalid --theta: %w", err)
		}
		phi, err := quantum.ParseAngle(phiStr)
		if err != nil {
			return fmt.Errorf("invalid --phi: %w", err)
		}
		if err := c.RY(0, theta); err != nil {
			return err
		}
		if phi != 0 {
			return c.RZ(0, phi)
		}
		return nil
	}
	switch source {
	case "0":
		return nil
	case "1":
		return c.X(0)
	default:
		return fmt.Errorf("invalid --source %q: must be 0 or 1", source)
	}
}

func newSuperdenseCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "sdc BITS",
		Aliases: []string{"superdense"},
		Short:   "Send two classical bits with one qubit",
		Long: `Superdense coding: Alice and Bob share a Bell pair, Alice encodes the
two-bit message BITS (00, 01, 10 or 11) on her qubit and Bob decodes it by
measuring both qubits. The decoded message always equals BITS.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			res, err := protocol.SendTwoBits(args[0], e.circuitOptions()...)
			if err != nil {
				return err
			}
			e.logger.Debug("superdense coding", "sent", args[0], "decoded", res.Message)

			if e.json {
				return writeJSON(cmd, map[string]any{
					"sent":    args[0],
					"decoded": res.Message,
					"state":   stateReport(res.Circuit, true),
				})
			}
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, headerStyle.Render("Superdense coding"))
			fmt.Fprintf(w, "  %s %s\n", labelStyle.Render("sent   "), args[0])
			fmt.Fprintf(w, "  %s %s\n", labelStyle.Render("decoded"), res.Message)
			return nil
		},
	}
}
