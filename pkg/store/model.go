package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/CTAG07/markovwalk/pkg/markov"
)

// Model kinds recorded alongside each saved chain.
const (
	KindWords = "words"
	KindBoard = "board"
)

// ModelInfo holds the metadata of a saved chain.
type ModelInfo struct {
	Id    int
	Name  string
	Kind  string
	Nodes int
}

// GetModelInfos retrieves metadata for all models in the database, ordered by
// name.
func (s *Store) GetModelInfos(ctx context.Context) ([]ModelInfo, error) {
	rows, err := s.stmtGetModels.QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	var models []ModelInfo
	for rows.Next() {
		var model ModelInfo
		if err = rows.Scan(&model.Id, &model.Name, &model.Kind, &model.Nodes); err != nil {
			return nil, err
		}
		models = append(models, model)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return models, nil
}

// GetModelInfo retrieves the metadata for a single model specified by name.
// It returns sql.ErrNoRows if the model does not exist.
func (s *Store) GetModelInfo(ctx context.Context, modelName string) (ModelInfo, error) {
	model := ModelInfo{Name: modelName}
	err := s.stmtGetModelInfo.QueryRowContext(ctx, modelName).Scan(&model.Id, &model.Kind, &model.Nodes)
	if err != nil {
		return ModelInfo{}, err
	}
	return model, nil
}

// RemoveModel deletes a model and all of its nodes and edges. The operation is
// performed within a transaction.
func (s *Store) RemoveModel(ctx context.Context, model ModelInfo) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	if err = deleteModel(ctx, tx, model.Id); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "Model removed successfully",
		slog.String("model_name", model.Name),
		slog.Int("model_id", model.Id),
	)

	return tx.Commit()
}

func deleteModel(ctx context.Context, tx *sql.Tx, modelID int) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM markov_edges WHERE model_id = ?", modelID); err != nil {
		return fmt.Errorf("failed to remove edges for model %d: %w", modelID, err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM markov_nodes WHERE model_id = ?", modelID); err != nil {
		return fmt.Errorf("failed to remove nodes for model %d: %w", modelID, err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM markov_models WHERE model_id = ?", modelID); err != nil {
		return fmt.Errorf("failed to remove model %d: %w", modelID, err)
	}
	return nil
}

// SaveModel writes chain under name, replacing any model of the same name.
// The entire operation is performed within a single transaction, so a failed
// save leaves the previous model in place.
func SaveModel[T any](ctx context.Context, s *Store, name, kind string, chain *markov.Chain[T], codec markov.Codec[T]) (ModelInfo, error) {
	snapshot, err := markov.Snapshot(chain, codec)
	if err != nil {
		return ModelInfo{}, fmt.Errorf("could not snapshot chain: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ModelInfo{}, err
	}
	// All transaction-specific statements will also be closed with this or the .Commit()
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	var oldID int
	err = tx.QueryRowContext(ctx, "SELECT model_id FROM markov_models WHERE model_name = ?", name).Scan(&oldID)
	switch {
	case err == nil:
		if err = deleteModel(ctx, tx, oldID); err != nil {
			return ModelInfo{}, err
		}
	case !errors.Is(err, sql.ErrNoRows):
		return ModelInfo{}, fmt.Errorf("failed to query for model '%s': %w", name, err)
	}

	res, err := tx.StmtContext(ctx, s.stmtAddModel).ExecContext(ctx, name, kind)
	if err != nil {
		return ModelInfo{}, fmt.Errorf("failed to insert model '%s': %w", name, err)
	}
	newID, err := res.LastInsertId()
	if err != nil {
		return ModelInfo{}, err
	}
	modelID := int(newID)

	stmtInsertNode := tx.StmtContext(ctx, s.stmtInsertNode)
	for i, payload := range snapshot.Nodes {
		if _, err = stmtInsertNode.ExecContext(ctx, modelID, i, payload); err != nil {
			return ModelInfo{}, fmt.Errorf("failed to insert node %d: %w", i, err)
		}
	}

	stmtInsertEdge := tx.StmtContext(ctx, s.stmtInsertEdge)
	position, lastFrom := 0, -1
	for _, e := range snapshot.Edges {
		if e.From != lastFrom {
			position, lastFrom = 0, e.From
		}
		if _, err = stmtInsertEdge.ExecContext(ctx, modelID, e.From, position, e.To, e.Count); err != nil {
			return ModelInfo{}, fmt.Errorf("failed to insert edge (%d -> %d): %w", e.From, e.To, err)
		}
		position++
	}

	if err = tx.Commit(); err != nil {
		return ModelInfo{}, err
	}

	s.logger.InfoContext(ctx, "Model saved",
		slog.String("model_name", name),
		slog.String("model_kind", kind),
		slog.Int("model_id", modelID),
		slog.Int("nodes_saved", len(snapshot.Nodes)),
		slog.Int("edges_saved", len(snapshot.Edges)),
	)

	return ModelInfo{Id: modelID, Name: name, Kind: kind, Nodes: len(snapshot.Nodes)}, nil
}

// LoadModel rebuilds a saved model into a new chain bound to behavior. On any
// failure the partially built chain is closed and an error returned.
func LoadModel[T any](ctx context.Context, s *Store, model ModelInfo, behavior markov.Behavior[T], codec markov.Codec[T], opts ...markov.ChainOption) (*markov.Chain[T], error) {
	exported := &markov.ExportedChain{}

	rows, err := s.stmtGetNodes.QueryContext(ctx, model.Id)
	if err != nil {
		return nil, fmt.Errorf("could not query nodes for model %d: %w", model.Id, err)
	}
	for rows.Next() {
		var payload string
		if err = rows.Scan(&payload); err != nil {
			_ = rows.Close()
			return nil, err
		}
		exported.Nodes = append(exported.Nodes, payload)
	}
	_ = rows.Close()
	if err = rows.Err(); err != nil {
		return nil, err
	}

	eRows, err := s.stmtGetEdges.QueryContext(ctx, model.Id)
	if err != nil {
		return nil, fmt.Errorf("could not query edges for model %d: %w", model.Id, err)
	}
	for eRows.Next() {
		var e markov.ExportedEdge
		if err = eRows.Scan(&e.From, &e.To, &e.Count); err != nil {
			_ = eRows.Close()
			return nil, err
		}
		exported.Edges = append(exported.Edges, e)
	}
	_ = eRows.Close()
	if err = eRows.Err(); err != nil {
		return nil, err
	}

	chain := markov.NewChain(behavior, opts...)
	if err = markov.Restore(chain, codec, exported); err != nil {
		chain.Close()
		return nil, fmt.Errorf("could not rebuild model '%s': %w", model.Name, err)
	}
	if chain.Len() != len(exported.Nodes) {
		chain.Close()
		return nil, fmt.Errorf("consistency error: model '%s' holds duplicate nodes", model.Name)
	}

	s.logger.DebugContext(ctx, "Model loaded",
		slog.String("model_name", model.Name),
		slog.Int("model_id", model.Id),
		slog.Int("nodes_loaded", len(exported.Nodes)),
		slog.Int("edges_loaded", len(exported.Edges)),
	)

	return chain, nil
}
