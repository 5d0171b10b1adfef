package store

import (
	"context"
	"time"
)

// SessionRecord is one finished game as kept for the history endpoint.
type SessionRecord struct {
	ID             string
	PlayerAddress  string
	GameID         string
	Outcome        string
	MatchedPairs   int
	LivesRemaining int
	Points         uint64
	CreatedAt      time.Time
}

func (s *Store) RecordSession(ctx context.Context, rec SessionRecord) error {
	if rec.ID == "" {
		rec.ID = NewID()
	}
	_, err := s.Pool.Exec(ctx,
		`INSERT INTO session_history
		   (id, player_address, game_id, outcome, matched_pairs, lives_remaining, points, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, now())`,
		rec.ID, rec.PlayerAddress, rec.GameID, rec.Outcome,
		rec.MatchedPairs, rec.LivesRemaining, rec.Points,
	)
	return err
}

// ListSessions returns the player's finished games, newest first.
func (s *Store) ListSessions(ctx context.Context, player string, limit, offset int) ([]SessionRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	rows, err := s.Pool.Query(ctx,
		`SELECT id, player_address, game_id, outcome, matched_pairs, lives_remaining, points, created_at
		 FROM session_history
		 WHERE player_address = $1
		 ORDER BY created_at DESC, id DESC
		 LIMIT $2 OFFSET $3`,
		player, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SessionRecord
	for rows.Next() {
		var rec SessionRecord
		if err := rows.Scan(&rec.ID, &rec.PlayerAddress, &rec.GameID, &rec.Outcome,
			&rec.MatchedPairs, &rec.LivesRemaining, &rec.Points, &rec.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
