package markov

// Stats holds aggregated statistics for a single chain.
type Stats struct {
	Nodes          int // The number of distinct payloads
	Edges          int // The number of distinct from->to transitions
	TotalFrequency int // The sum of all edge counts; the total number of observed transitions
	StartingNodes  int // The number of non-terminal nodes a random walk may start from
	TerminalNodes  int // The number of nodes that end a walk
}

// Stats returns a snapshot of statistics for the chain. A closed chain
// reports zero values.
func (c *Chain[T]) Stats() Stats {
	var s Stats
	if c.closed {
		return s
	}
	s.Nodes = len(c.nodes)
	for i := range c.nodes {
		n := &c.nodes[i]
		s.Edges += len(n.edges)
		for _, e := range n.edges {
			s.TotalFrequency += e.Count
		}
		if c.behavior.IsTerminal(n.payload) {
			s.TerminalNodes++
		} else {
			s.StartingNodes++
		}
	}
	return s
}
