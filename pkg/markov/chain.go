package markov

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
)

var (
	// ErrClosed is returned by every operation on a chain after Close.
	ErrClosed = errors.New("markov: chain is closed")
	// ErrNodeNotFound is returned when a NodeID does not belong to the chain.
	ErrNodeNotFound = errors.New("markov: node not found")
	// ErrCapacity is returned when a node or edge limit would be exceeded.
	ErrCapacity = errors.New("markov: capacity exceeded")
	// ErrInvalidCount is returned when a link is given a non-positive count.
	ErrInvalidCount = errors.New("markov: link count must be positive")
)

// NodeID is the stable index of a vertex within its chain. IDs are assigned
// in insertion order starting at 0 and never change.
type NodeID int

// Edge is a single adjacency entry: the target vertex and the number of times
// the transition was observed.
type Edge struct {
	To    NodeID
	Count int
}

// Behavior is the set of payload operations a chain is bound to. It is the
// only place payload types are known; the engine itself never inspects T.
type Behavior[T any] interface {
	// Compare orders two payloads. Zero means equal.
	Compare(a, b T) int
	// Copy returns an owned duplicate of p to be stored in a vertex.
	Copy(p T) (T, error)
	// Release is called exactly once per stored payload when the chain closes.
	Release(p T)
	// Print writes the display form of p.
	Print(w io.Writer, p T) error
	// IsTerminal reports whether p ends a walk.
	IsTerminal(p T) bool
}

type node[T any] struct {
	payload T
	edges   []Edge
}

// Chain is an in-memory Markov chain: an ordered arena of distinct payloads,
// each with a frequency-weighted list of successors.
type Chain[T any] struct {
	behavior Behavior[T]
	nodes    []node[T]
	closed   bool
	maxNodes int
	maxEdges int
	logger   *slog.Logger
}

// ChainOption configures a Chain at construction.
type ChainOption func(*chainOptions)

type chainOptions struct {
	maxNodes int
	maxEdges int
	logger   *slog.Logger
}

// WithNodeLimit caps the number of vertices. Adding past the cap fails with
// ErrCapacity. A value of 0 means no limit.
func WithNodeLimit(n int) ChainOption {
	return func(o *chainOptions) { o.maxNodes = n }
}

// WithEdgeLimit caps the number of distinct successors per vertex. A value of
// 0 means no limit.
func WithEdgeLimit(n int) ChainOption {
	return func(o *chainOptions) { o.maxEdges = n }
}

// WithLogger sets the logger for the chain. By default, all logs are discarded.
func WithLogger(logger *slog.Logger) ChainOption {
	return func(o *chainOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewChain creates an empty chain bound to the given behavior. The behavior
// cannot be changed afterwards.
func NewChain[T any](behavior Behavior[T], opts ...ChainOption) *Chain[T] {
	options := &chainOptions{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(options)
	}
	return &Chain[T]{
		behavior: behavior,
		maxNodes: options.maxNodes,
		maxEdges: options.maxEdges,
		logger:   options.logger,
	}
}

// Len returns the number of vertices in the chain.
func (c *Chain[T]) Len() int {
	return len(c.nodes)
}

// Closed reports whether Close has been called.
func (c *Chain[T]) Closed() bool {
	return c.closed
}

// Find returns the first vertex whose payload compares equal to p.
func (c *Chain[T]) Find(p T) (NodeID, bool) {
	if c.closed {
		return 0, false
	}
	for i := range c.nodes {
		if c.behavior.Compare(c.nodes[i].payload, p) == 0 {
			return NodeID(i), true
		}
	}
	return 0, false
}

// Add returns the vertex holding p, creating it at the end of the chain if no
// equal payload exists yet. The stored payload is a copy made through the
// chain's Behavior. On failure the chain is left unchanged.
func (c *Chain[T]) Add(p T) (NodeID, error) {
	if c.closed {
		return 0, ErrClosed
	}
	if id, ok := c.Find(p); ok {
		return id, nil
	}
	if c.maxNodes > 0 && len(c.nodes) >= c.maxNodes {
		return 0, fmt.Errorf("could not add node %d: %w", len(c.nodes), ErrCapacity)
	}
	cp, err := c.behavior.Copy(p)
	if err != nil {
		return 0, fmt.Errorf("could not copy payload: %w", err)
	}
	c.nodes = append(c.nodes, node[T]{payload: cp})
	return NodeID(len(c.nodes) - 1), nil
}

// Link records one observed transition from -> to.
func (c *Chain[T]) Link(from, to NodeID) error {
	return c.LinkWeighted(from, to, 1)
}

// LinkWeighted records count observed transitions from -> to. An existing
// edge to the same target has its count increased; otherwise a new edge is
// appended. If the vertex is at its edge limit the existing edges are kept
// and ErrCapacity is returned.
func (c *Chain[T]) LinkWeighted(from, to NodeID, count int) error {
	if c.closed {
		return ErrClosed
	}
	if !c.valid(from) {
		return fmt.Errorf("link source %d: %w", from, ErrNodeNotFound)
	}
	if !c.valid(to) {
		return fmt.Errorf("link target %d: %w", to, ErrNodeNotFound)
	}
	if count <= 0 {
		return fmt.Errorf("link %d -> %d with count %d: %w", from, to, count, ErrInvalidCount)
	}

	src := &c.nodes[from]
	for i := range src.edges {
		if src.edges[i].To == to {
			src.edges[i].Count += count
			return nil
		}
	}
	if c.maxEdges > 0 && len(src.edges) >= c.maxEdges {
		return fmt.Errorf("could not link %d -> %d: %w", from, to, ErrCapacity)
	}
	src.edges = append(src.edges, Edge{To: to, Count: count})
	return nil
}

// TotalWeight returns the sum of all edge counts leaving id, or 0 if id is
// not a vertex of the chain.
func (c *Chain[T]) TotalWeight(id NodeID) int {
	if c.closed || !c.valid(id) {
		return 0
	}
	var total int
	for _, e := range c.nodes[id].edges {
		total += e.Count
	}
	return total
}

// Successors returns a copy of the edges leaving id in storage order, along
// with their total count.
func (c *Chain[T]) Successors(id NodeID) ([]Edge, int, error) {
	if c.closed {
		return nil, 0, ErrClosed
	}
	if !c.valid(id) {
		return nil, 0, fmt.Errorf("successors of %d: %w", id, ErrNodeNotFound)
	}
	edges := make([]Edge, len(c.nodes[id].edges))
	copy(edges, c.nodes[id].edges)
	var total int
	for _, e := range edges {
		total += e.Count
	}
	return edges, total, nil
}

// Payload returns the payload stored at id.
func (c *Chain[T]) Payload(id NodeID) (T, error) {
	var zero T
	if c.closed {
		return zero, ErrClosed
	}
	if !c.valid(id) {
		return zero, fmt.Errorf("payload of %d: %w", id, ErrNodeNotFound)
	}
	return c.nodes[id].payload, nil
}

// IsTerminal reports whether the payload at id ends a walk.
func (c *Chain[T]) IsTerminal(id NodeID) bool {
	if c.closed || !c.valid(id) {
		return false
	}
	return c.behavior.IsTerminal(c.nodes[id].payload)
}

// Print writes the display form of the payload at id.
func (c *Chain[T]) Print(w io.Writer, id NodeID) error {
	if c.closed {
		return ErrClosed
	}
	if !c.valid(id) {
		return fmt.Errorf("print %d: %w", id, ErrNodeNotFound)
	}
	return c.behavior.Print(w, c.nodes[id].payload)
}

// Close releases every payload through the chain's Behavior, in insertion
// order, and drops all vertices. It is safe to call more than once; after
// the first call every other operation reports ErrClosed.
func (c *Chain[T]) Close() {
	if c.closed {
		return
	}
	released := len(c.nodes)
	for i := range c.nodes {
		c.behavior.Release(c.nodes[i].payload)
		c.nodes[i].edges = nil
	}
	c.nodes = nil
	c.closed = true

	c.logger.Debug("Chain closed", slog.Int("payloads_released", released))
}

func (c *Chain[T]) valid(id NodeID) bool {
	return id >= 0 && int(id) < len(c.nodes)
}
