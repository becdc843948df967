package store

import (
	"context"
	"fmt"
	"log/slog"
)

// PruneModel removes all edges of a model that have a frequency less than or
// equal to minFreq. Nodes are kept, so a pruned model may contain dead ends.
func (s *Store) PruneModel(ctx context.Context, model ModelInfo, minFreq int) (int64, error) {
	res, err := s.stmtPruneModel.ExecContext(ctx, model.Id, minFreq)
	if err != nil {
		return 0, fmt.Errorf("could not prune model %d: %w", model.Id, err)
	}
	rowsAffected, _ := res.RowsAffected()

	s.logger.InfoContext(ctx, "Model pruned",
		slog.String("model_name", model.Name),
		slog.Int("model_id", model.Id),
		slog.Int("min_frequency", minFreq),
		slog.Int64("edges_removed", rowsAffected),
	)
	return rowsAffected, nil
}
