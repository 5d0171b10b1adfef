package store

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Memory keeps claims and history in process memory. It backs tests and the
// no-database local mode; the method set mirrors Store.
type Memory struct {
	mu      sync.Mutex
	claims  map[string]string
	history map[string][]SessionRecord
}

func NewMemory() *Memory {
	return &Memory{
		claims:  map[string]string{},
		history: map[string][]SessionRecord{},
	}
}

func (m *Memory) GetPendingClaim(ctx context.Context, player string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	gameID, ok := m.claims[player]
	if !ok {
		return "", ErrNotFound
	}
	return gameID, nil
}

func (m *Memory) SetPendingClaim(ctx context.Context, player, gameID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.claims[player] = gameID
	return nil
}

func (m *Memory) ClearPendingClaim(ctx context.Context, player string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.claims, player)
	return nil
}

func (m *Memory) RecordSession(ctx context.Context, rec SessionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if rec.ID == "" {
		rec.ID = NewID()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	m.history[rec.PlayerAddress] = append(m.history[rec.PlayerAddress], rec)
	return nil
}

func (m *Memory) ListSessions(ctx context.Context, player string, limit, offset int) ([]SessionRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	all := append([]SessionRecord(nil), m.history[player]...)
	sort.SliceStable(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID > all[j].ID
	})
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}
