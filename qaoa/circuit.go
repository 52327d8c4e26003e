package qaoa

import (
	"fmt"
	"math"
	"slices"

	"qtermsim/quantum"
)

// Params holds one β and one γ per QAOA layer.
type Params struct {
	Beta  []float64
	Gamma []float64
}

// InitialParams returns π/4 for every β and γ.
func InitialParams(steps int) Params {
	p := Params{Beta: make([]float64, steps), Gamma: make([]float64, steps)}
	for i := range steps {
		p.Beta[i] = math.Pi / 4
		p.Gamma[i] = math.Pi / 4
	}
	return p
}

func (p Params) Steps() int { return len(p.Beta) }

func (p Params) Validate() error {
	if len(p.Beta) == 0 || len(p.Beta) != len(p.Gamma) {
		return fmt.Errorf("%w: len(beta)=%d len(gamma)=%d", ErrParamLength, len(p.Beta), len(p.Gamma))
	}
	return nil
}

func (p Params) Clone() Params {
	return Params{Beta: slices.Clone(p.Beta), Gamma: slices.Clone(p.Gamma)}
}

// BuildAnsatz prepares the QAOA state without measuring it: H on every node,
// then per layer the cost term CNOT(u,v) RZ(v, 2γw) CNOT(u,v) for each edge
// followed by the mixer RX(2β) on each node.
func BuildAnsatz(g Graph, p Params, opts ...quantum.Option) (*quantum.Circuit, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	c, err := quantum.New(len(g.Nodes), opts...)
	if err != nil {
		return nil, err
	}
	for _, node := range g.Nodes {
		if err := c.H(node); err != nil {
			return nil, err
		}
	}

	for layer := range p.Steps() {
		gamma, beta := p.Gamma[layer], p.Beta[layer]
		for _, e := range g.Edges {
			if err := appendZZTerm(c, e, gamma); err != nil {
				return nil, fmt.Errorf("layer %d: %w", layer, err)
			}
		}
		for _, node := range g.Nodes {
			if err := c.RX(node, 2*beta); err != nil {
				return nil, fmt.Errorf("layer %d: %w", layer, err)
			}
		}
	}
	return c, nil
}

func appendZZTerm(c *quantum.Circuit, e Edge, gamma float64) error {
	if err := c.CNOT(e.U, e.V); err != nil {
		return err
	}
	if err := c.RZ(e.V, 2*gamma*e.weight()); err != nil {
		return err
	}
	return c.CNOT(e.U, e.V)
}

// BuildCircuit builds the ansatz and measures every qubit once. The returned
// bits are indexed by node.
func BuildCircuit(g Graph, p Params, opts ...quantum.Option) (*quantum.Circuit, []int, error) {
	c, err := BuildAnsatz(g, p, opts...)
	if err != nil {
		return nil, nil, err
	}
	c.Run()

	bits, err := c.MeasureAll()
	if err != nil {
		return nil, nil, err
	}
	return c, bits, nil
}
