package store

import (
	"context"
)

// DBStats holds aggregated statistics for the entire database, including a
// list of all models and their individual stats.
type DBStats struct {
	Models []ModelInfo        // A list of models in the database
	Stats  map[int]ModelStats // A mapping of model ids to their stats
}

// ModelStats holds aggregated statistics for a single saved model.
type ModelStats struct {
	Nodes          int // The number of distinct payloads
	TotalEdges     int // The number of distinct from->to edges
	TotalFrequency int // The sum of frequencies of all edges; the total number of observed transitions
}

// GetStats returns a snapshot of statistics for every model in the database.
func (s *Store) GetStats(ctx context.Context) (*DBStats, error) {
	models, err := s.GetModelInfos(ctx)
	if err != nil {
		return nil, err
	}

	modelStats := make(map[int]ModelStats, len(models))
	for _, m := range models {
		var totalEdges, totalFrequency int
		if err = s.stmtModelEdges.QueryRowContext(ctx, m.Id).Scan(&totalEdges); err != nil {
			return nil, err
		}
		if err = s.stmtModelFreq.QueryRowContext(ctx, m.Id).Scan(&totalFrequency); err != nil {
			return nil, err
		}
		modelStats[m.Id] = ModelStats{
			Nodes:          m.Nodes,
			TotalEdges:     totalEdges,
			TotalFrequency: totalFrequency,
		}
	}

	return &DBStats{
		Models: models,
		Stats:  modelStats,
	}, nil
}
