// Package qaoa builds max-cut QAOA circuits on top of quantum.Circuit and
// tunes their β/γ parameters against a sampled cut objective.
package qaoa

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	ErrInvalidGraph   = errors.New("invalid graph")
	ErrParamLength    = errors.New("beta and gamma must have the same non-zero length")
	ErrInvalidSteps   = errors.New("steps must be positive")
	ErrInvalidEdge    = errors.New("invalid edge")
	ErrSharedStrategy = errors.New("parallel trials need WithStrategyFactory, not WithStrategy")
)

// Edge connects nodes U and V. A zero Weight counts as 1.
type Edge struct {
	U, V   int
	Weight float64
}

func (e Edge) weight() float64 {
	if e.Weight == 0 {
		return 1
	}
	return e.Weight
}

func (e Edge) String() string {
	if e.Weight == 0 || e.Weight == 1 {
		return fmt.Sprintf("%d-%d", e.U, e.V)
	}
	return fmt.Sprintf("%d-%d:%s", e.U, e.V, strconv.FormatFloat(e.Weight, 'g', -1, 64))
}

// ParseEdge reads "u-v" or "u-v:w".
func ParseEdge(s string) (Edge, error) {
	s = strings.TrimSpace(s)
	pair, weight, hasWeight := strings.Cut(s, ":")
	us, vs, ok := strings.Cut(pair, "-")
	if !ok {
		return Edge{}, fmt.Errorf("%w: %q (want u-v[:w])", ErrInvalidEdge, s)
	}

	u, err := strconv.Atoi(strings.TrimSpace(us))
	if err != nil {
		return Edge{}, fmt.Errorf("%w: %q: %v", ErrInvalidEdge, s, err)
	}
	v, err := strconv.Atoi(strings.TrimSpace(vs))
	if err != nil {
		return Edge{}, fmt.Errorf("%w: %q: %v", ErrInvalidEdge, s, err)
	}

	e := Edge{U: u, V: v}
	if hasWeight {
		e.Weight, err = strconv.ParseFloat(strings.TrimSpace(weight), 64)
		if err != nil {
			return Edge{}, fmt.Errorf("%w: %q: %v", ErrInvalidEdge, s, err)
		}
	}
	return e, nil
}

// Graph is a max-cut instance. Node i is mapped to qubit i, so Nodes must be
// a permutation of 0..len(Nodes)-1.
type Graph struct {
	Nodes []int
	Edges []Edge
}

// NewGraph returns a graph over nodes 0..n-1.
func NewGraph(n int, edges ...Edge) Graph {
	nodes := make([]int, n)
	for i := range nodes {
		nodes[i] = i
	}
	return Graph{Nodes: nodes, Edges: edges}
}

// CompleteBipartite connects every node in 0..left-1 to every node in
// left..left+right-1. Its maximum cut contains every edge.
func CompleteBipartite(left, right int) Graph {
	g := NewGraph(left + right)
	for u := range left {
		for v := left; v < left+right; v++ {
			g.Edges = append(g.Edges, Edge{U: u, V: v})
		}
	}
	return g
}

func (g Graph) Validate() error {
	n := len(g.Nodes)
	if n == 0 {
		return fmt.Errorf("%w: no nodes", ErrInvalidGraph)
	}

	seen := make([]bool, n)
	for _, node := range g.Nodes {
		if node < 0 || node >= n {
			return fmt.Errorf("%w: node %d outside 0..%d", ErrInvalidGraph, node, n-1)
		}
		if seen[node] {
			return fmt.Errorf("%w: node %d listed twice", ErrInvalidGraph, node)
		}
		seen[node] = true
	}

	for _, e := range g.Edges {
		if e.U < 0 || e.U >= n || e.V < 0 || e.V >= n {
			return fmt.Errorf("%w: edge %s references unknown node", ErrInvalidGraph, e)
		}
		if e.U == e.V {
			return fmt.Errorf("%w: self-loop on node %d", ErrInvalidGraph, e.U)
		}
		if math.IsNaN(e.Weight) || math.IsInf(e.Weight, 0) {
			return fmt.Errorf("%w: edge %s has non-finite weight", ErrInvalidGraph, e)
		}
	}
	return nil
}

// CutScore counts the edges whose endpoints fall on different sides of the
// cut. bits is indexed by node.
func CutScore(g Graph, bits []int) int {
	score := 0
	for _, e := range g.Edges {
		if bits[e.U] != bits[e.V] {
			score++
		}
	}
	return score
}

// WeightedCut sums the weights of the cut edges.
func WeightedCut(g Graph, bits []int) float64 {
	total := 0.0
	for _, e := range g.Edges {
		if bits[e.U] != bits[e.V] {
			total += e.weight()
		}
	}
	return total
}

// MaxCut finds the best cut by enumerating every assignment. Only meant for
// small graphs, as a reference for the sampled search.
func MaxCut(g Graph) (int, []int) {
	n := len(g.Nodes)
	bits := make([]int, n)
	best, bestBits := -1, make([]int, n)
	for mask := range 1 << n {
		for q := range bits {
			bits[q] = (mask >> q) & 1
		}
		if s := CutScore(g, bits); s > best {
			best = s
			copy(bestBits, bits)
		}
	}
	return best, bestBits
}
