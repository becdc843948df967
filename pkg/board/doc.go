// Package board hosts snakes-and-ladders paths on the markov engine. Each
// cell of a board is a node; a plain cell links to the cells a die roll can
// reach, a ladder or snake cell links only to its destination, and the last
// cell ends every walk.
package board
