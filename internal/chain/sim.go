package chain

import (
	"context"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// SimBackend implements the ChessFlip contract semantics in memory: the
// entry-fee allowance pull, sequential game ids, idempotent result
// submission and claim accounting. It backs tests and the no-funds local
// mode. Effects apply at Wait time, like a real chain confirming a block.
type SimBackend struct {
	mu        sync.Mutex
	chainID   *big.Int
	account   common.Address
	entryFee  *big.Int
	balance   *big.Int
	allowance *big.Int
	players   map[common.Address]*Player
	usernames map[string]common.Address
	games     map[uint64]*Game
	nextGame  uint64
	txCounter int64

	rejectNext map[string]bool
	revertNext map[string]string
}

func NewSim(chainID uint64, account common.Address) *SimBackend {
	return &SimBackend{
		chainID:    new(big.Int).SetUint64(chainID),
		account:    account,
		entryFee:   big.NewInt(1_000_000_000_000_000),     // 0.001 token, 18 decimals
		balance:    big.NewInt(1_000_000_000_000_000_000), // 1 token
		allowance:  big.NewInt(0),
		players:    map[common.Address]*Player{},
		usernames:  map[string]common.Address{},
		games:      map[uint64]*Game{},
		nextGame:   1,
		rejectNext: map[string]bool{},
		revertNext: map[string]string{},
	}
}

// RejectNext makes the next write of the given kind fail at signing, as if
// the user declined the wallet prompt.
func (s *SimBackend) RejectNext(method string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rejectNext[method] = true
}

// RevertNext makes the next write of the given kind confirm as reverted.
func (s *SimBackend) RevertNext(method, reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revertNext[method] = reason
}

// SwitchChain simulates the wallet moving to another network mid-session.
func (s *SimBackend) SwitchChain(chainID uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chainID = new(big.Int).SetUint64(chainID)
}

func (s *SimBackend) EntryFee() *big.Int { return new(big.Int).Set(s.entryFee) }

func (s *SimBackend) Account() common.Address { return s.account }

func (s *SimBackend) ChainID(ctx context.Context) (*big.Int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return new(big.Int).Set(s.chainID), nil
}

func (s *SimBackend) GetPlayer(ctx context.Context, account common.Address) (Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.players[account]; ok {
		return *p, nil
	}
	return Player{}, nil
}

func (s *SimBackend) GetGame(ctx context.Context, gameID *big.Int) (Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if g, ok := s.games[gameID.Uint64()]; ok {
		out := *g
		out.ID = new(big.Int).Set(g.ID)
		return out, nil
	}
	return Game{}, ErrGameNotFound
}

func (s *SimBackend) Allowance(ctx context.Context) (*big.Int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return new(big.Int).Set(s.allowance), nil
}

func (s *SimBackend) FindUnclaimedGame(ctx context.Context) (*big.Int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var best uint64
	for id, g := range s.games {
		if g.Player == s.account && g.Outcome != OutcomePending && !g.Claimed && id > best {
			best = id
		}
	}
	if best == 0 {
		return nil, ErrNoUnclaimedGame
	}
	return new(big.Int).SetUint64(best), nil
}

func (s *SimBackend) RegisterPlayer(ctx context.Context, username string) (PendingTx, error) {
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}
	return s.newTx("registerPlayer", func(r *Receipt) {
		if owner, taken := s.usernames[username]; taken && owner != s.account {
			r.Reverted, r.RevertReason = true, ErrUsernameTaken.Error()
			return
		}
		if p, ok := s.players[s.account]; ok && p.Registered {
			r.Reverted, r.RevertReason = true, ErrAlreadyRegistered.Error()
			return
		}
		s.usernames[username] = s.account
		s.players[s.account] = &Player{Username: username, Registered: true}
	})
}

func (s *SimBackend) Approve(ctx context.Context, amount *big.Int) (PendingTx, error) {
	granted := new(big.Int).Set(amount)
	return s.newTx("approve", func(r *Receipt) {
		s.allowance = granted
	})
}

func (s *SimBackend) StartGame(ctx context.Context) (PendingTx, error) {
	return s.newTx("startGame", func(r *Receipt) {
		p, ok := s.players[s.account]
		if !ok || !p.Registered {
			r.Reverted, r.RevertReason = true, ErrNotRegistered.Error()
			return
		}
		if s.allowance.Cmp(s.entryFee) < 0 || s.balance.Cmp(s.entryFee) < 0 {
			r.Reverted, r.RevertReason = true, ErrInsufficientFunds.Error()
			return
		}
		s.allowance.Sub(s.allowance, s.entryFee)
		s.balance.Sub(s.balance, s.entryFee)
		id := s.nextGame
		s.nextGame++
		now := uint64(time.Now().Unix())
		s.games[id] = &Game{
			ID:             new(big.Int).SetUint64(id),
			Player:         s.account,
			Outcome:        OutcomePending,
			LivesRemaining: 5,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		r.GameID = new(big.Int).SetUint64(id)
	})
}

func (s *SimBackend) SubmitGameResult(ctx context.Context, gameID *big.Int, outcome Outcome, matchedPairs, livesRemaining uint8) (PendingTx, error) {
	id := gameID.Uint64()
	return s.newTx("submitGameResult", func(r *Receipt) {
		g, ok := s.games[id]
		if !ok {
			r.Reverted, r.RevertReason = true, ErrGameNotFound.Error()
			return
		}
		if g.Player != s.account {
			r.Reverted, r.RevertReason = true, ErrNotGameOwner.Error()
			return
		}
		if g.Outcome != OutcomePending {
			r.Reverted, r.RevertReason = true, ErrAlreadySubmitted.Error()
			return
		}
		g.Outcome = outcome
		g.MatchedPairs = matchedPairs
		g.LivesRemaining = livesRemaining
		g.UpdatedAt = uint64(time.Now().Unix())
		p := s.players[s.account]
		p.TotalGames++
		if outcome == OutcomeWin {
			g.PointsAwarded = 10
			p.Wins++
		} else {
			g.PointsAwarded = 2
			p.Losses++
		}
		p.UnclaimedPoints += g.PointsAwarded
	})
}

func (s *SimBackend) ClaimPoints(ctx context.Context, gameID *big.Int) (PendingTx, error) {
	id := gameID.Uint64()
	return s.newTx("claimPoints", func(r *Receipt) {
		g, ok := s.games[id]
		if !ok {
			r.Reverted, r.RevertReason = true, ErrGameNotFound.Error()
			return
		}
		if g.Player != s.account {
			r.Reverted, r.RevertReason = true, ErrNotGameOwner.Error()
			return
		}
		if g.Outcome == OutcomePending {
			r.Reverted, r.RevertReason = true, ErrResultNotSubmitted.Error()
			return
		}
		if g.Claimed {
			r.Reverted, r.RevertReason = true, ErrAlreadyClaimed.Error()
			return
		}
		g.Claimed = true
		p := s.players[s.account]
		p.UnclaimedPoints -= g.PointsAwarded
		p.TotalPoints += g.PointsAwarded
	})
}

func (s *SimBackend) newTx(method string, apply func(*Receipt)) (PendingTx, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rejectNext[method] {
		delete(s.rejectNext, method)
		return nil, ErrTxRejected
	}
	s.txCounter++
	tx := &simTx{
		backend: s,
		hash:    common.BigToHash(big.NewInt(s.txCounter)),
	}
	if reason, ok := s.revertNext[method]; ok {
		delete(s.revertNext, method)
		tx.apply = func(r *Receipt) { r.Reverted, r.RevertReason = true, reason }
	} else {
		tx.apply = apply
	}
	return tx, nil
}

type simTx struct {
	backend *SimBackend
	hash    common.Hash
	apply   func(*Receipt)
	done    *Receipt
}

func (t *simTx) Hash() common.Hash { return t.hash }

func (t *simTx) Wait(ctx context.Context) (*Receipt, error) {
	t.backend.mu.Lock()
	defer t.backend.mu.Unlock()
	if t.done != nil {
		return t.done, nil
	}
	r := &Receipt{TxHash: t.hash}
	t.apply(r)
	t.done = r
	return r, nil
}
