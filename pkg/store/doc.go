/*
Package store persists markov chains in a SQLite database.

Several named models can live in one database. A model keeps its nodes in
insertion order and its edges in storage order, so a chain loaded back walks
exactly like the chain that was saved. Payloads are stored as text produced
by a markov.Codec.
*/
package store
