/*
Package words hosts word sequences on the markov engine.

Text is split on whitespace line by line; each distinct token becomes a node
and consecutive tokens of a line are linked unless the first one ends a
sentence. A token ending in '.' is terminal, so generated tweets stop at the
first sentence end.
*/
package words
