package main

import (
	"fmt"
	"math/rand/v2"

	"github.com/spf13/cobra"

	"qtermsim/qaoa"
	"qtermsim/quantum"
)

func newQAOACmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "qaoa",
		Short: "Optimize QAOA parameters for max-cut",
		Long: `Search QAOA angles that maximize the cut found by measuring the ansatz.

The graph defaults to the complete bipartite graph K(3,2). Use --edge to
give your own edges as u-v or u-v:weight; the node count is taken from the
largest endpoint unless --nodes is set.

With --trials > 1 independent searches run in parallel, trial i seeded with
seed+i, and the best one is reported.`,
		Example: `  qtermsim qaoa --iterations 300 --seed 42
  qtermsim qaoa --edge 0-1 --edge 1-2 --edge 2-0 --steps 2
  qtermsim qaoa --trials 8 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			g, err := graphFromFlags(cmd)
			if err != nil {
				return err
			}

			steps := e.cfg.QAOA.Steps
			if cmd.Flags().Changed("steps") {
				steps, _ = cmd.Flags().GetInt("steps")
			}
			iterations := e.cfg.QAOA.Iterations
			if cmd.Flags().Changed("iterations") {
				iterations, _ = cmd.Flags().GetInt("iterations")
			}
			delta := e.cfg.QAOA.Delta
			if cmd.Flags().Changed("delta") {
				delta, _ = cmd.Flags().GetFloat64("delta")
			}
			trials := e.cfg.QAOA.Trials
			if cmd.Flags().Changed("trials") {
				trials, _ = cmd.Flags().GetInt("trials")
			}
			showQASM, _ := cmd.Flags().GetBool("qasm")

			seed := e.cfg.Simulator.Seed
			if seed == 0 {
				seed = rand.Uint64()
			}
			opts := []qaoa.Option{
				qaoa.WithIterations(iterations),
				qaoa.WithDelta(delta),
				qaoa.WithLogger(e.logger),
				qaoa.WithCircuitOptions(e.simulatorOptions()...),
			}

			var set qaoa.TrialSet
			if trials > 1 {
				set, err = qaoa.RunTrials(cmd.Context(), g, steps, trials, seed, opts...)
			} else {
				var res qaoa.Result
				res, err = qaoa.Optimize(g, steps, append(opts, qaoa.WithRand(quantum.NewSeededRand(seed)))...)
				set = qaoa.TrialSet{Trials: []qaoa.Trial{{Seed: seed, Result: res}}}
				set.Best = set.Trials[0]
			}
			if err != nil {
				return err
			}

			best := set.Best.Result
			optimum, optimalCut := qaoa.MaxCut(g)
			var program string
			if showQASM {
				c, err := qaoa.BuildAnsatz(g, qaoa.Params{Beta: best.Beta, Gamma: best.Gamma}, e.simulatorOptions()...)
				if err != nil {
					return err
				}
				program = c.QASM()
			}

			if e.json {
				return writeJSON(cmd, qaoaReport(g, set, optimum, optimalCut, program))
			}
			printQAOA(cmd, g, set, optimum, program)
			return nil
		},
	}

	cmd.Flags().StringArray("edge", nil, "Graph edge u-v or u-v:weight (repeatable)")
	cmd.Flags().Int("nodes", 0, "Node count (default: largest endpoint + 1)")
	cmd.Flags().Int("steps", 1, "QAOA layers p")
	cmd.Flags().Int("iterations", qaoa.DefaultIterations, "Local search iterations per trial")
	cmd.Flags().Float64("delta", qaoa.DefaultDelta, "Largest parameter perturbation")
	cmd.Flags().Int("trials", 1, "Independent trials run in parallel")
	cmd.Flags().Bool("qasm", false, "Print the ansatz at the best parameters as OpenQASM")
	return cmd
}

// graphFromFlags builds the graph from --edge/--nodes, or K(3,2) when no
// edge is given.
func graphFromFlags(cmd *cobra.Command) (qaoa.Graph, error) {
	raw, _ := cmd.Flags().GetStringArray("edge")
	nodes, _ := cmd.Flags().GetInt("nodes")
	if len(raw) == 0 {
		if nodes != 0 {
			return qaoa.Graph{}, fmt.Errorf("--nodes requires at least one --edge")
		}
		return qaoa.CompleteBipartite(3, 2), nil
	}

	edges := make([]qaoa.Edge, 0, len(raw))
	largest := 0
	for _, s := range raw {
		edge, err := qaoa.ParseEdge(s)
		if err != nil {
			return qaoa.Graph{}, err
		}
		largest = max(largest, edge.U, edge.V)
		edges = append(edges, edge)
	}
	if nodes == 0 {
		nodes = largest + 1
	}
	g := qaoa.NewGraph(nodes, edges...)
	return g, g.Validate()
}

type trialJSON struct {
	ID          string    `json:"id,omitempty"`
	Seed        uint64    `json:"seed"`
	Score       int       `json:"score"`
	Beta        []float64 `json:"beta"`
	Gamma       []float64 `json:"gamma"`
	Evaluations int       `json:"evaluations"`
}

type qaoaJSON struct {
	Nodes      int         `json:"nodes"`
	Edges      []string    `json:"edges"`
	Best       trialJSON   `json:"best"`
	MaxCut     int         `json:"maxCut"`
	OptimalCut []int       `json:"optimalCut"`
	Trials     []trialJSON `json:"trials"`
	QASM       string      `json:"qasm,omitempty"`
}

func toTrialJSON(t qaoa.Trial) trialJSON {
	return trialJSON{
		ID:          t.ID,
		Seed:        t.Seed,
		Score:       t.Result.Score,
		Beta:        t.Result.Beta,
		Gamma:       t.Result.Gamma,
		Evaluations: t.Result.Evaluations,
	}
}

func qaoaReport(g qaoa.Graph, set qaoa.TrialSet, optimum int, optimalCut []int, program string) qaoaJSON {
	out := qaoaJSON{
		Nodes:      len(g.Nodes),
		Best:       toTrialJSON(set.Best),
		MaxCut:     optimum,
		OptimalCut: optimalCut,
		QASM:       program,
	}
	for _, e := range g.Edges {
		out.Edges = append(out.Edges, e.String())
	}
	for _, t := range set.Trials {
		out.Trials = append(out.Trials, toTrialJSON(t))
	}
	return out
}

func printQAOA(cmd *cobra.Command, g qaoa.Graph, set qaoa.TrialSet, optimum int, program string) {
	w := cmd.OutOrStdout()
	best := set.Best.Result

	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("QAOA max-cut (%d nodes, %d edges, p=%d)", len(g.Nodes), len(g.Edges), len(best.Beta))))
	fmt.Fprintf(w, "  %s %d / %d\n", labelStyle.Render("best cut"), best.Score, optimum)
	for i := range best.Beta {
		fmt.Fprintf(w, "  %s β=%s γ=%s\n", labelStyle.Render(fmt.Sprintf("layer %d ", i+1)),
			quantum.FormatAngle(best.Beta[i]), quantum.FormatAngle(best.Gamma[i]))
	}
	fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf("  %d evaluations, seed %d", best.Evaluations, set.Best.Seed)))

	if len(set.Trials) > 1 {
		for _, t := range set.Trials {
			fmt.Fprintf(w, "  %s seed=%d score=%d\n", dimStyle.Render(t.ID), t.Seed, t.Result.Score)
		}
	}
	if program != "" {
		fmt.Fprintln(w)
		fmt.Fprint(w, program)
	}
}
