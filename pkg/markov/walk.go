package markov

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
)

var (
	// ErrEmptyChain is returned when a walk is requested on a chain with no vertices.
	ErrEmptyChain = errors.New("markov: chain has no nodes")
	// ErrNoStartState is returned when no start is given and every vertex is terminal.
	ErrNoStartState = errors.New("markov: chain has no non-terminal node to start from")
	// ErrInvalidMaxSteps is returned for a negative step bound.
	ErrInvalidMaxSteps = errors.New("markov: max steps must not be negative")
)

// DefaultMaxSteps is the step bound used when WithMaxSteps is not given.
const DefaultMaxSteps = 100

// walkOptions Is used by the walk functions to configure default options.
type walkOptions struct {
	start    NodeID
	hasStart bool
	maxSteps int
}

// WalkOption is a function that configures a single walk. It's used as a
// variadic argument in Walk and Path.
type WalkOption func(*walkOptions)

// WithStart makes the walk begin at id. The start vertex is used as is, even
// if its payload is terminal.
func WithStart(id NodeID) WalkOption {
	return func(o *walkOptions) {
		o.start = id
		o.hasStart = true
	}
}

// WithMaxSteps sets how many edges a walk may follow. A walk visits at most
// n+1 vertices; with n == 0 only the start vertex is visited.
func WithMaxSteps(n int) WalkOption {
	return func(o *walkOptions) { o.maxSteps = n }
}

// Walker performs frequency-weighted random walks over a chain. It owns its
// random source, so two walkers seeded alike produce the same walks over
// chains built in the same order.
type Walker[T any] struct {
	chain  *Chain[T]
	rng    *rand.Rand
	logger *slog.Logger
}

// NewWalker creates a Walker over chain drawing from src.
func NewWalker[T any](chain *Chain[T], src rand.Source) *Walker[T] {
	return &Walker[T]{
		chain:  chain,
		rng:    rand.New(src),
		logger: chain.logger,
	}
}

// NewSeededWalker is a convenience wrapper around NewWalker using a PCG
// source derived from seed.
func NewSeededWalker[T any](chain *Chain[T], seed uint64) *Walker[T] {
	return NewWalker(chain, rand.NewPCG(seed, seed))
}

// SetLogger sets the logger for the Walker. By default, the chain's logger is used.
func (w *Walker[T]) SetLogger(logger *slog.Logger) {
	if logger != nil {
		w.logger = logger
	}
}

// Walk performs one walk and prints each visited payload to out as soon as it
// is reached, separated by a single space. It returns the number of visited
// vertices. No newline is written after the last payload.
func (w *Walker[T]) Walk(out io.Writer, opts ...WalkOption) (int, error) {
	visited := 0
	err := w.walk(func(id NodeID) error {
		if visited > 0 {
			if _, err := io.WriteString(out, " "); err != nil {
				return err
			}
		}
		visited++
		return w.chain.Print(out, id)
	}, opts)
	return visited, err
}

// Path performs one walk and returns the visited vertices in order.
func (w *Walker[T]) Path(opts ...WalkOption) ([]NodeID, error) {
	var path []NodeID
	err := w.walk(func(id NodeID) error {
		path = append(path, id)
		return nil
	}, opts)
	return path, err
}

// walk contains the main loop shared by Walk and Path.
func (w *Walker[T]) walk(visit func(NodeID) error, opts []WalkOption) error {
	options := &walkOptions{maxSteps: DefaultMaxSteps}
	for _, opt := range opts {
		opt(options)
	}
	if options.maxSteps < 0 {
		return ErrInvalidMaxSteps
	}

	c := w.chain
	if c.closed {
		return ErrClosed
	}

	var current NodeID
	if options.hasStart {
		if !c.valid(options.start) {
			return fmt.Errorf("walk start %d: %w", options.start, ErrNodeNotFound)
		}
		current = options.start
	} else {
		start, err := w.randomStart()
		if err != nil {
			return err
		}
		current = start
	}

	for steps := 0; ; steps++ {
		if err := visit(current); err != nil {
			return fmt.Errorf("failed to visit node %d: %w", current, err)
		}
		if c.IsTerminal(current) {
			w.logger.Debug("Walk terminated by terminal node",
				slog.Int("node", int(current)),
				slog.Int("steps", steps),
			)
			return nil
		}
		if steps == options.maxSteps {
			w.logger.Debug("Walk terminated by reaching max steps",
				slog.Int("max_steps", options.maxSteps),
			)
			return nil
		}
		next, ok := w.nextNode(current)
		if !ok {
			w.logger.Debug("Walk terminated due to dead-end",
				slog.Int("node", int(current)),
				slog.Int("steps", steps),
			)
			return nil
		}
		current = next
	}
}

// randomStart picks vertices uniformly at random, discarding terminal ones.
func (w *Walker[T]) randomStart() (NodeID, error) {
	c := w.chain
	if len(c.nodes) == 0 {
		return 0, ErrEmptyChain
	}
	hasStart := false
	for i := range c.nodes {
		if !c.behavior.IsTerminal(c.nodes[i].payload) {
			hasStart = true
			break
		}
	}
	if !hasStart {
		return 0, ErrNoStartState
	}
	for {
		id := NodeID(w.rng.IntN(len(c.nodes)))
		if !c.behavior.IsTerminal(c.nodes[id].payload) {
			return id, nil
		}
	}
}

// nextNode chooses a successor of id weighted by edge count. It returns
// false when id has no successors.
func (w *Walker[T]) nextNode(id NodeID) (NodeID, bool) {
	edges := w.chain.nodes[id].edges
	total := 0
	for _, e := range edges {
		total += e.Count
	}
	if total == 0 {
		return 0, false
	}
	return chooseNext(edges, w.rng.IntN(total)), true
}

// chooseNext returns the target of the first edge whose cumulative count
// exceeds r. r must be in [0, total weight).
func chooseNext(edges []Edge, r int) NodeID {
	for _, e := range edges {
		r -= e.Count
		if r < 0 {
			return e.To
		}
	}
	return edges[len(edges)-1].To
}
