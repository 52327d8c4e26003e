package qaoa

import (
	"log/slog"

	"qtermsim/internal/logging"
	"qtermsim/quantum"
)

const (
	DefaultIterations = 100
	DefaultDelta      = 0.05
)

// Objective scores a parameter set. Higher is better.
type Objective func(Params) (int, error)

// CutObjective builds and measures a fresh circuit for every call and
// returns the cut score of the single sample, so repeated calls with the
// same parameters may disagree.
func CutObjective(g Graph, opts ...quantum.Option) Objective {
	return func(p Params) (int, error) {
		_, bits, err := BuildCircuit(g, p, opts...)
		if err != nil {
			return 0, err
		}
		return CutScore(g, bits), nil
	}
}

// Result is the best parameter set an optimizer found.
type Result struct {
	Beta        []float64
	Gamma       []float64
	Score       int
	MaxCutScore int
	Evaluations int
}

// Strategy searches parameter space for a high objective value.
type Strategy interface {
	Optimize(obj Objective, init Params) (Result, error)
}

// LocalSearch perturbs each layer's β and γ by independent draws from
// U(-Delta, Delta) and keeps the candidate only if it strictly beats the
// best score so far. It always spends the full iteration budget.
type LocalSearch struct {
	Iterations int
	Delta      float64
	Rand       quantum.Rand
	Logger     *slog.Logger
}

func (s LocalSearch) Optimize(obj Objective, init Params) (Result, error) {
	if err := init.Validate(); err != nil {
		return Result{}, err
	}
	iterations := s.Iterations
	if iterations <= 0 {
		iterations = DefaultIterations
	}
	delta := s.Delta
	if delta <= 0 {
		delta = DefaultDelta
	}
	rng := s.Rand
	if rng == nil {
		rng = quantum.DefaultRand()
	}
	logger := s.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	best := init.Clone()
	bestScore, err := obj(best)
	if err != nil {
		return Result{}, err
	}
	evals := 1

	for it := range iterations {
		for i := range best.Steps() {
			cand := best.Clone()
			cand.Beta[i] += (rng.Float64()*2 - 1) * delta
			cand.Gamma[i] += (rng.Float64()*2 - 1) * delta

			score, err := obj(cand)
			if err != nil {
				return Result{}, err
			}
			evals++
			if score > bestScore {
				logger.Debug("accepted parameters",
					"iteration", it, "layer", i, "score", score, "previous", bestScore,
					"beta", cand.Beta[i], "gamma", cand.Gamma[i])
				best, bestScore = cand, score
			}
		}
	}

	return Result{
		Beta:        best.Beta,
		Gamma:       best.Gamma,
		Score:       bestScore,
		MaxCutScore: bestScore,
		Evaluations: evals,
	}, nil
}

// Option configures Optimize and RunTrials.
type Option func(*settings)

type settings struct {
	iterations  int
	delta       float64
	strategy    Strategy
	newStrategy func(quantum.Rand) Strategy
	rng         quantum.Rand
	logger      *slog.Logger
	circuitOpts []quantum.Option
}

func WithIterations(n int) Option {
	return func(s *settings) { s.iterations = n }
}

func WithDelta(d float64) Option {
	return func(s *settings) { s.delta = d }
}

// WithStrategy replaces the default LocalSearch. The strategy keeps its own
// randomness; WithRand then only feeds the measurements. RunTrials rejects
// it with ErrSharedStrategy; use WithStrategyFactory there.
func WithStrategy(st Strategy) Option {
	return func(s *settings) { s.strategy = st }
}

// WithStrategyFactory builds the strategy from the run's source, so every
// trial of RunTrials gets its own instance fed by its own seed.
func WithStrategyFactory(f func(quantum.Rand) Strategy) Option {
	return func(s *settings) { s.newStrategy = f }
}

// WithRand sets the source shared by measurement and parameter perturbation.
func WithRand(r quantum.Rand) Option {
	return func(s *settings) { s.rng = r }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *settings) { s.logger = l }
}

// WithCircuitOptions passes extra options to every circuit the objective
// builds, such as quantum.WithMaxQubits.
func WithCircuitOptions(opts ...quantum.Option) Option {
	return func(s *settings) { s.circuitOpts = append(s.circuitOpts, opts...) }
}

func newSettings(opts []Option) settings {
	s := settings{
		iterations: DefaultIterations,
		delta:      DefaultDelta,
		rng:        quantum.DefaultRand(),
		logger:     logging.Discard(),
	}
	for _, opt := range opts {
		opt(&s)
	}
	if s.rng == nil {
		s.rng = quantum.DefaultRand()
	}
	if s.logger == nil {
		s.logger = logging.Discard()
	}
	return s
}

// Optimize searches steps layers of QAOA parameters for the max cut of g,
// starting from π/4 everywhere.
func Optimize(g Graph, steps int, opts ...Option) (Result, error) {
	if err := g.Validate(); err != nil {
		return Result{}, err
	}
	if steps <= 0 {
		return Result{}, ErrInvalidSteps
	}
	s := newSettings(opts)

	// The run's source goes last so a WithRand among the circuit options
	// cannot replace it.
	circuitOpts := append(append([]quantum.Option{}, s.circuitOpts...), quantum.WithRand(s.rng))
	obj := CutObjective(g, circuitOpts...)

	strategy := s.strategy
	if s.newStrategy != nil {
		strategy = s.newStrategy(s.rng)
	}
	if strategy == nil {
		strategy = LocalSearch{
			Iterations: s.iterations,
			Delta:      s.delta,
			Rand:       s.rng,
			Logger:     s.logger,
		}
	}

	res, err := strategy.Optimize(obj, InitialParams(steps))
	if err != nil {
		return Result{}, err
	}
	s.logger.Debug("qaoa optimized",
		"nodes", len(g.Nodes), "edges", len(g.Edges), "steps", steps,
		"score", res.Score, "evaluations", res.Evaluations)
	return res, nil
}
