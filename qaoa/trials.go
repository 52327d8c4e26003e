package qaoa

import (
	"context"
	"fmt"
	"runtime"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"qtermsim/quantum"
)

// Trial is one independent optimizer run.
type Trial struct {
	ID     string
	Seed   uint64
	Result Result
}

// TrialSet holds every trial in seed order and the best of them.
type TrialSet struct {
	Trials []Trial
	Best   Trial
}

// RunTrials runs trials independent optimizations in parallel. Trial i uses
// its own circuits and a PCG source seeded with seed+i, so the scores depend
// only on seed: WithRand, and WithRand passed through WithCircuitOptions, are
// overridden per trial. A custom strategy must come from WithStrategyFactory.
// Ties for the best score go to the lowest seed.
func RunTrials(ctx context.Context, g Graph, steps, trials int, seed uint64, opts ...Option) (TrialSet, error) {
	if trials <= 0 {
		return TrialSet{}, fmt.Errorf("trials must be positive, got %d", trials)
	}
	if err := g.Validate(); err != nil {
		return TrialSet{}, err
	}
	s := newSettings(opts)
	if s.strategy != nil && s.newStrategy == nil {
		return TrialSet{}, ErrSharedStrategy
	}
	logger := s.logger

	results := make([]Trial, trials)
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))

	for i := range trials {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			trialSeed := seed + uint64(i)
			trialOpts := append(append([]Option{}, opts...), WithRand(quantum.NewSeededRand(trialSeed)))

			res, err := Optimize(g, steps, trialOpts...)
			if err != nil {
				return fmt.Errorf("trial %d: %w", i, err)
			}
			results[i] = Trial{ID: uuid.New().String(), Seed: trialSeed, Result: res}
			logger.Debug("trial finished", "id", results[i].ID, "seed", trialSeed, "score", res.Score)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return TrialSet{}, err
	}

	best := results[0]
	for _, t := range results[1:] {
		if t.Result.Score > best.Result.Score {
			best = t
		}
	}
	return TrialSet{Trials: results, Best: best}, nil
}
