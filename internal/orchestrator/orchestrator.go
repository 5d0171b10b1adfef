package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"chessflip/internal/chain"
	"chessflip/internal/store"
)

// Entry-fee economics, in wei of an 18-decimal token. A game costs 0.001;
// the allowance must cover at least two games before a start is attempted,
// and a refresh grants a full token so approvals stay rare.
var (
	EntryFee      = big.NewInt(1_000_000_000_000_000)
	MinAllowance  = big.NewInt(2_000_000_000_000_000)
	ApproveAmount = big.NewInt(1_000_000_000_000_000_000)
)

var (
	ErrSubmitOutstanding = errors.New("submit_outstanding")
	ErrNothingToClaim    = errors.New("nothing_to_claim")
	ErrAlreadySubmitting = errors.New("submit_in_flight")
)

// ClaimStore is the durable single-slot pointer to the game whose result is
// confirmed on chain but whose points have not been claimed. It has to
// survive restarts, otherwise a crash between submit and claim strands the
// points until recovery scans the chain.
type ClaimStore interface {
	GetPendingClaim(ctx context.Context, player string) (string, error)
	SetPendingClaim(ctx context.Context, player, gameID string) error
	ClearPendingClaim(ctx context.Context, player string) error
}

// Orchestrator sequences contract writes for one wallet: allowance refresh
// before starts, exactly one result submission per game and claims gated on
// a recorded submission. Every write is preceded by a network guard check.
type Orchestrator struct {
	backend chain.Backend
	guard   *chain.Guard
	claims  ClaimStore

	mu        sync.Mutex
	history   []*TxRecord
	submitted map[string]bool
	inFlight  map[TxKind]bool
}

func New(backend chain.Backend, guard *chain.Guard, claims ClaimStore) *Orchestrator {
	return &Orchestrator{
		backend:   backend,
		guard:     guard,
		claims:    claims,
		submitted: map[string]bool{},
		inFlight:  map[TxKind]bool{},
	}
}

func (o *Orchestrator) Account() string {
	return o.backend.Account().Hex()
}

// Register submits the username on chain. Validation happens before any
// signing so a bad name never costs gas.
func (o *Orchestrator) Register(ctx context.Context, username string) error {
	if err := chain.ValidateUsername(username); err != nil {
		return err
	}
	if err := o.guard.Check(ctx, o.backend); err != nil {
		return err
	}
	rec := o.begin(TxRegister, "")
	tx, err := o.backend.RegisterPlayer(ctx, username)
	if err != nil {
		o.fail(rec, err)
		return err
	}
	receipt, err := o.await(ctx, rec, tx)
	if err != nil {
		return err
	}
	if receipt.Reverted {
		return revertError(receipt)
	}
	log.Info().Str("username", username).Str("tx", receipt.TxHash.Hex()).Msg("player registered")
	return nil
}

// StartGame refreshes the allowance if it cannot cover two games, then pays
// the entry fee and returns the on-chain game id. A failed or rejected
// approval blocks the start entirely.
func (o *Orchestrator) StartGame(ctx context.Context) (*big.Int, error) {
	o.mu.Lock()
	if o.inFlight[TxSubmitResult] {
		o.mu.Unlock()
		return nil, ErrSubmitOutstanding
	}
	o.mu.Unlock()

	if err := o.guard.Check(ctx, o.backend); err != nil {
		return nil, err
	}
	allowance, err := o.backend.Allowance(ctx)
	if err != nil {
		return nil, err
	}
	if allowance.Cmp(MinAllowance) < 0 {
		if err := o.approve(ctx); err != nil {
			return nil, err
		}
		// The wallet may have hopped networks while the approval confirmed.
		if err := o.guard.Check(ctx, o.backend); err != nil {
			return nil, err
		}
	}

	rec := o.begin(TxStartGame, "")
	tx, err := o.backend.StartGame(ctx)
	if err != nil {
		o.fail(rec, err)
		return nil, err
	}
	receipt, err := o.await(ctx, rec, tx)
	if err != nil {
		return nil, err
	}
	if receipt.Reverted {
		return nil, revertError(receipt)
	}
	if receipt.GameID == nil {
		return nil, fmt.Errorf("start confirmed without a game id, tx %s", receipt.TxHash.Hex())
	}
	o.mu.Lock()
	rec.GameID = receipt.GameID.String()
	o.mu.Unlock()
	log.Info().Str("game_id", receipt.GameID.String()).Str("tx", receipt.TxHash.Hex()).Msg("game started")
	return receipt.GameID, nil
}

func (o *Orchestrator) approve(ctx context.Context) error {
	rec := o.begin(TxApprove, "")
	tx, err := o.backend.Approve(ctx, ApproveAmount)
	if err != nil {
		o.fail(rec, err)
		return err
	}
	receipt, err := o.await(ctx, rec, tx)
	if err != nil {
		return err
	}
	if receipt.Reverted {
		return revertError(receipt)
	}
	log.Info().Str("tx", receipt.TxHash.Hex()).Msg("allowance refreshed")
	return nil
}

// SubmitResult reports a finished game on chain, at most once per game id.
// A confirmed submission records the pending claim before returning, so the
// claim survives a restart.
func (o *Orchestrator) SubmitResult(ctx context.Context, gameID *big.Int, outcome chain.Outcome, matchedPairs, livesRemaining uint8) error {
	id := gameID.String()
	o.mu.Lock()
	if o.submitted[id] {
		o.mu.Unlock()
		return chain.ErrAlreadySubmitted
	}
	if o.inFlight[TxSubmitResult] {
		o.mu.Unlock()
		return ErrAlreadySubmitting
	}
	o.mu.Unlock()

	if err := o.guard.Check(ctx, o.backend); err != nil {
		return err
	}
	rec := o.begin(TxSubmitResult, id)
	tx, err := o.backend.SubmitGameResult(ctx, gameID, outcome, matchedPairs, livesRemaining)
	if err != nil {
		o.fail(rec, err)
		return err
	}
	receipt, err := o.await(ctx, rec, tx)
	if err != nil {
		return err
	}
	if receipt.Reverted {
		// The contract already holds a result for this game. Treat it as
		// submitted so the claim path can proceed.
		if receipt.RevertReason == chain.ErrAlreadySubmitted.Error() {
			o.markSubmitted(ctx, id)
			return chain.ErrAlreadySubmitted
		}
		return revertError(receipt)
	}
	o.markSubmitted(ctx, id)
	log.Info().Str("game_id", id).Str("outcome", outcome.String()).Str("tx", receipt.TxHash.Hex()).Msg("result submitted")
	return nil
}

func (o *Orchestrator) markSubmitted(ctx context.Context, id string) {
	o.mu.Lock()
	o.submitted[id] = true
	o.mu.Unlock()
	if err := o.claims.SetPendingClaim(ctx, o.Account(), id); err != nil {
		log.Error().Err(err).Str("game_id", id).Msg("record pending claim")
	}
}

// Claim collects the points of the recorded pending game. With an empty
// slot it falls back to scanning the chain, which covers results submitted
// before a crash.
func (o *Orchestrator) Claim(ctx context.Context) (*big.Int, error) {
	gameID, err := o.pendingGame(ctx)
	if err != nil {
		return nil, err
	}
	if err := o.guard.Check(ctx, o.backend); err != nil {
		return nil, err
	}
	rec := o.begin(TxClaimPoints, gameID.String())
	tx, err := o.backend.ClaimPoints(ctx, gameID)
	if err != nil {
		o.fail(rec, err)
		return nil, err
	}
	receipt, err := o.await(ctx, rec, tx)
	if err != nil {
		return nil, err
	}
	if receipt.Reverted {
		if receipt.RevertReason == chain.ErrAlreadyClaimed.Error() {
			_ = o.claims.ClearPendingClaim(ctx, o.Account())
		}
		return nil, revertError(receipt)
	}
	if err := o.claims.ClearPendingClaim(ctx, o.Account()); err != nil {
		log.Error().Err(err).Str("game_id", gameID.String()).Msg("clear pending claim")
	}
	log.Info().Str("game_id", gameID.String()).Str("tx", receipt.TxHash.Hex()).Msg("points claimed")
	return gameID, nil
}

func (o *Orchestrator) pendingGame(ctx context.Context) (*big.Int, error) {
	stored, err := o.claims.GetPendingClaim(ctx, o.Account())
	if errors.Is(err, store.ErrNotFound) {
		return o.RecoverPending(ctx)
	}
	if err != nil {
		return nil, err
	}
	gameID, ok := new(big.Int).SetString(stored, 10)
	if !ok {
		return nil, fmt.Errorf("stored pending claim %q is not a game id", stored)
	}
	return gameID, nil
}

// RecoverPending scans the chain for a submitted, unclaimed game and
// restores the claim slot. Returns ErrNothingToClaim when the wallet has no
// such game.
func (o *Orchestrator) RecoverPending(ctx context.Context) (*big.Int, error) {
	gameID, err := o.backend.FindUnclaimedGame(ctx)
	if errors.Is(err, chain.ErrNoUnclaimedGame) {
		return nil, ErrNothingToClaim
	}
	if err != nil {
		return nil, err
	}
	if err := o.claims.SetPendingClaim(ctx, o.Account(), gameID.String()); err != nil {
		log.Error().Err(err).Str("game_id", gameID.String()).Msg("restore pending claim")
	}
	log.Info().Str("game_id", gameID.String()).Msg("recovered unclaimed game")
	return gameID, nil
}

// HasPendingClaim reports whether a confirmed result awaits its claim.
func (o *Orchestrator) HasPendingClaim(ctx context.Context) bool {
	_, err := o.claims.GetPendingClaim(ctx, o.Account())
	return err == nil
}

func (o *Orchestrator) begin(kind TxKind, gameID string) *TxRecord {
	o.mu.Lock()
	defer o.mu.Unlock()
	rec := &TxRecord{
		Kind:      kind,
		Status:    StatusAwaitingSignature,
		GameID:    gameID,
		StartedAt: time.Now(),
	}
	o.history = append(o.history, rec)
	o.inFlight[kind] = true
	return rec
}

func (o *Orchestrator) fail(rec *TxRecord, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	rec.Status = StatusFailed
	rec.Error = err.Error()
	o.inFlight[rec.Kind] = false
	log.Warn().Str("kind", string(rec.Kind)).Err(err).Msg("transaction failed before broadcast")
}

func (o *Orchestrator) await(ctx context.Context, rec *TxRecord, tx chain.PendingTx) (*chain.Receipt, error) {
	o.mu.Lock()
	rec.Status = StatusConfirming
	rec.TxHash = tx.Hash().Hex()
	o.mu.Unlock()

	receipt, err := tx.Wait(ctx)
	o.mu.Lock()
	defer o.mu.Unlock()
	o.inFlight[rec.Kind] = false
	if err != nil {
		rec.Status = StatusFailed
		rec.Error = err.Error()
		return nil, err
	}
	if receipt.Reverted {
		rec.Status = StatusFailed
		rec.Error = receipt.RevertReason
		return receipt, nil
	}
	rec.Status = StatusConfirmed
	return receipt, nil
}

// Transactions returns a snapshot of every write attempted this process,
// newest first.
func (o *Orchestrator) Transactions() []TxRecord {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]TxRecord, 0, len(o.history))
	for i := len(o.history) - 1; i >= 0; i-- {
		out = append(out, *o.history[i])
	}
	return out
}

func revertError(receipt *chain.Receipt) error {
	if err := chain.ReasonError(receipt.RevertReason); err != nil {
		return err
	}
	if receipt.RevertReason != "" {
		return errors.New(receipt.RevertReason)
	}
	return fmt.Errorf("transaction %s reverted", receipt.TxHash.Hex())
}
