/*
Package markov provides a small, generic Markov chain engine.

A Chain stores distinct payloads in insertion order, each with a list of
frequency-weighted successors. Everything the engine needs to know about a
payload type (equality, copying, release, printing and whether it ends a walk)
comes from a Behavior bound to the chain when it is created, so the same
engine serves word sequences and board-game paths alike.

A Walker draws frequency-weighted random walks from a chain using its own
random source. Walks are reproducible: the same seed over a chain built in the
same order yields the same walk.

Chains are not safe for concurrent use.
*/
package markov
