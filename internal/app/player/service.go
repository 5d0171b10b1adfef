package player

import (
	"context"

	"chessflip/internal/chain"
	"chessflip/internal/orchestrator"
)

// Service reads the wallet's on-chain profile and handles registration.
type Service struct {
	backend chain.Backend
	orch    *orchestrator.Orchestrator
}

func NewService(backend chain.Backend, orch *orchestrator.Orchestrator) *Service {
	return &Service{backend: backend, orch: orch}
}

func (s *Service) Profile(ctx context.Context) (*ProfileResponse, error) {
	account := s.backend.Account()
	p, err := s.backend.GetPlayer(ctx, account)
	if err != nil {
		return nil, err
	}
	return &ProfileResponse{
		Address:         account.Hex(),
		Username:        p.Username,
		Registered:      p.Registered,
		TotalPoints:     p.TotalPoints,
		TotalPointsText: formatPoints(p.TotalPoints),
		TotalGames:      p.TotalGames,
		Wins:            p.Wins,
		Losses:          p.Losses,
		WinRate:         winRate(p.Wins, p.TotalGames),
		UnclaimedPoints: p.UnclaimedPoints,
		HasUnclaimed:    s.orch.HasPendingClaim(ctx),
	}, nil
}

// Register validates the username and submits it on chain. ErrUsernameTaken
// and ErrAlreadyRegistered come back as revert reasons.
func (s *Service) Register(ctx context.Context, username string) error {
	return s.orch.Register(ctx, username)
}
