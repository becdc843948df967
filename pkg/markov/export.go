package markov

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
)

// Codec converts payloads to and from text for persistence and export. It is
// never used by the chain or walker themselves.
type Codec[T any] interface {
	Encode(p T) (string, error)
	Decode(s string) (T, error)
}

// ExportedChain is the serializable representation of a chain, used for
// JSON-based import and export. Nodes are listed in insertion order and edges
// in storage order, so a re-imported chain walks exactly like the original.
type ExportedChain struct {
	Nodes []string       `json:"nodes"`
	Edges []ExportedEdge `json:"edges"`
}

// ExportedEdge is the serializable representation of a single adjacency
// entry, used within an ExportedChain.
type ExportedEdge struct {
	From  int `json:"from"`
	To    int `json:"to"`
	Count int `json:"count"`
}

// Snapshot encodes every payload of c with codec and returns the chain's
// serializable form.
func Snapshot[T any](c *Chain[T], codec Codec[T]) (*ExportedChain, error) {
	if c.closed {
		return nil, ErrClosed
	}
	exported := &ExportedChain{
		Nodes: make([]string, 0, len(c.nodes)),
		Edges: []ExportedEdge{},
	}
	for i := range c.nodes {
		text, err := codec.Encode(c.nodes[i].payload)
		if err != nil {
			return nil, fmt.Errorf("could not encode node %d: %w", i, err)
		}
		exported.Nodes = append(exported.Nodes, text)
		for _, e := range c.nodes[i].edges {
			exported.Edges = append(exported.Edges, ExportedEdge{From: i, To: int(e.To), Count: e.Count})
		}
	}
	return exported, nil
}

// Restore merges an exported chain into c. Payloads already present are
// reused and edge counts are added to existing edges. Every node index is
// validated and every payload decoded before c is modified.
func Restore[T any](c *Chain[T], codec Codec[T], exported *ExportedChain) error {
	if c.closed {
		return ErrClosed
	}
	payloads := make([]T, len(exported.Nodes))
	for i, text := range exported.Nodes {
		p, err := codec.Decode(text)
		if err != nil {
			return fmt.Errorf("could not decode node %d: %w", i, err)
		}
		payloads[i] = p
	}
	for _, e := range exported.Edges {
		if e.From < 0 || e.From >= len(payloads) || e.To < 0 || e.To >= len(payloads) {
			return fmt.Errorf("consistency error: edge %d -> %d references a missing node: %w", e.From, e.To, ErrNodeNotFound)
		}
		if e.Count <= 0 {
			return fmt.Errorf("consistency error: edge %d -> %d has count %d: %w", e.From, e.To, e.Count, ErrInvalidCount)
		}
	}

	idMap := make([]NodeID, len(payloads)) // exported index -> chain id
	for i, p := range payloads {
		id, err := c.Add(p)
		if err != nil {
			return fmt.Errorf("failed to add node %d: %w", i, err)
		}
		idMap[i] = id
	}
	for _, e := range exported.Edges {
		if err := c.LinkWeighted(idMap[e.From], idMap[e.To], e.Count); err != nil {
			return fmt.Errorf("failed to link %d -> %d: %w", e.From, e.To, err)
		}
	}
	return nil
}

// ExportChain serializes c into JSON and writes it to w. This is useful for
// backups or for transferring chains.
func ExportChain[T any](w io.Writer, c *Chain[T], codec Codec[T]) error {
	exported, err := Snapshot(c, codec)
	if err != nil {
		return err
	}

	c.logger.Info("Chain exported",
		slog.Int("nodes_exported", len(exported.Nodes)),
		slog.Int("edges_exported", len(exported.Edges)),
	)

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(exported)
}

// ImportChain reads a JSON chain from r and merges it into c. If the import
// fails part way the caller should Close c rather than keep using it.
func ImportChain[T any](r io.Reader, c *Chain[T], codec Codec[T]) error {
	var imported ExportedChain
	if err := json.NewDecoder(r).Decode(&imported); err != nil {
		return fmt.Errorf("failed to decode json chain: %w", err)
	}
	if err := Restore(c, codec, &imported); err != nil {
		return err
	}

	c.logger.Info("Chain imported",
		slog.Int("nodes_merged", len(imported.Nodes)),
		slog.Int("edges_merged", len(imported.Edges)),
	)
	return nil
}
