package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

// GetPendingClaim returns the game id awaiting a claim for the player, or
// ErrNotFound when the slot is empty.
func (s *Store) GetPendingClaim(ctx context.Context, player string) (string, error) {
	var gameID string
	err := s.Pool.QueryRow(ctx,
		`SELECT game_id FROM pending_claims WHERE player_address = $1`,
		player,
	).Scan(&gameID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return gameID, nil
}

// SetPendingClaim records the game id whose result is confirmed on chain but
// not yet claimed. One slot per player; a new game overwrites the old id.
func (s *Store) SetPendingClaim(ctx context.Context, player, gameID string) error {
	_, err := s.Pool.Exec(ctx,
		`INSERT INTO pending_claims (player_address, game_id, updated_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (player_address)
		 DO UPDATE SET game_id = EXCLUDED.game_id, updated_at = now()`,
		player, gameID,
	)
	return err
}

// ClearPendingClaim empties the player's slot after a confirmed claim.
func (s *Store) ClearPendingClaim(ctx context.Context, player string) error {
	_, err := s.Pool.Exec(ctx,
		`DELETE FROM pending_claims WHERE player_address = $1`,
		player,
	)
	return err
}
