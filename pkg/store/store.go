package store

import (
	"database/sql"
	"fmt"
	"io"
	"log/slog"
)

// SetupSchema initializes the necessary tables in the provided database. It
// is idempotent and safe to call on an already-initialized database.
func SetupSchema(db *sql.DB) error {

	const (
		schemaModels = `
CREATE TABLE IF NOT EXISTS markov_models (
    model_id INTEGER PRIMARY KEY,
    model_name TEXT NOT NULL UNIQUE,
    model_kind TEXT NOT NULL
);
`
		schemaNodes = `
CREATE TABLE IF NOT EXISTS markov_nodes (
    model_id INTEGER NOT NULL,
    node_index INTEGER NOT NULL,
    payload TEXT NOT NULL,
    PRIMARY KEY (model_id, node_index)
);
`
		schemaEdges = `
CREATE TABLE IF NOT EXISTS markov_edges (
    model_id INTEGER NOT NULL,
    from_index INTEGER NOT NULL,
    position INTEGER NOT NULL,
    to_index INTEGER NOT NULL,
    frequency INTEGER NOT NULL DEFAULT 1,
    PRIMARY KEY (model_id, from_index, position)
);
`
	)

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}

	// If the transaction succeeds, tx.Commit() will be called first, and the rollback will do nothing.
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	if _, err = tx.Exec(schemaModels); err != nil {
		return fmt.Errorf("could not create models schema: %w", err)
	}

	if _, err = tx.Exec(schemaNodes); err != nil {
		return fmt.Errorf("could not create nodes schema: %w", err)
	}

	if _, err = tx.Exec(schemaEdges); err != nil {
		return fmt.Errorf("could not create edges schema: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}

	return nil
}

// Store holds the database connection and prepared SQL statements for
// saving and loading chains.
type Store struct {
	db               *sql.DB
	stmtGetModelInfo *sql.Stmt
	stmtGetModels    *sql.Stmt
	stmtAddModel     *sql.Stmt
	stmtInsertNode   *sql.Stmt
	stmtInsertEdge   *sql.Stmt
	stmtGetNodes     *sql.Stmt
	stmtGetEdges     *sql.Stmt
	stmtPruneModel   *sql.Stmt
	stmtModelEdges   *sql.Stmt
	stmtModelFreq    *sql.Stmt
	logger           *slog.Logger
}

// NewStore creates and returns a new Store. It pre-compiles all necessary SQL
// statements, returning an error if any preparation fails. SetupSchema must
// have been called on db first.
func NewStore(db *sql.DB) (*Store, error) {
	s := &Store{
		db:     db,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	stmts := []struct {
		dst   **sql.Stmt
		query string
	}{
		{&s.stmtGetModelInfo, `SELECT m.model_id, m.model_kind, (SELECT COUNT(*) FROM markov_nodes n WHERE n.model_id = m.model_id) FROM markov_models m WHERE m.model_name = ?;`},
		{&s.stmtGetModels, `SELECT m.model_id, m.model_name, m.model_kind, (SELECT COUNT(*) FROM markov_nodes n WHERE n.model_id = m.model_id) FROM markov_models m ORDER BY m.model_name;`},
		{&s.stmtAddModel, `INSERT INTO markov_models (model_name, model_kind) VALUES (?, ?);`},
		{&s.stmtInsertNode, `INSERT INTO markov_nodes (model_id, node_index, payload) VALUES (?, ?, ?);`},
		{&s.stmtInsertEdge, `INSERT INTO markov_edges (model_id, from_index, position, to_index, frequency) VALUES (?, ?, ?, ?, ?);`},
		{&s.stmtGetNodes, `SELECT payload FROM markov_nodes WHERE model_id = ? ORDER BY node_index;`},
		{&s.stmtGetEdges, `SELECT from_index, to_index, frequency FROM markov_edges WHERE model_id = ? ORDER BY from_index, position;`},
		{&s.stmtPruneModel, `DELETE FROM markov_edges WHERE model_id = ? AND frequency <= ?;`},
		{&s.stmtModelEdges, `SELECT COUNT(*) FROM markov_edges WHERE model_id = ?;`},
		{&s.stmtModelFreq, `SELECT coalesce(SUM(frequency), 0) FROM markov_edges WHERE model_id = ?;`},
	}

	for _, st := range stmts {
		stmt, err := db.Prepare(st.query)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("could not prepare statement: %w", err)
		}
		*st.dst = stmt
	}

	return s, nil
}

// Close releases all prepared SQL statements held by the Store. The database
// itself is left open.
func (s *Store) Close() {
	for _, stmt := range []*sql.Stmt{
		s.stmtGetModelInfo,
		s.stmtGetModels,
		s.stmtAddModel,
		s.stmtInsertNode,
		s.stmtInsertEdge,
		s.stmtGetNodes,
		s.stmtGetEdges,
		s.stmtPruneModel,
		s.stmtModelEdges,
		s.stmtModelFreq,
	} {
		if stmt != nil {
			_ = stmt.Close()
		}
	}
}

// SetLogger sets the logger for the Store. By default, all logs are discarded.
func (s *Store) SetLogger(logger *slog.Logger) {
	if logger != nil {
		s.logger = logger
	}
}
