package match

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"chessflip/internal/chain"
	"chessflip/internal/game"
	"chessflip/internal/orchestrator"
	"chessflip/internal/store"
)

var (
	ErrNoSession       = errors.New("no_active_session")
	ErrSessionOngoing  = errors.New("session_in_progress")
	ErrSessionNotOver  = errors.New("session_not_over")
	ErrNothingToSubmit = errors.New("nothing_to_submit")
)

const submitTimeout = 2 * time.Minute

// HistoryStore records finished sessions for the history endpoint.
type HistoryStore interface {
	RecordSession(ctx context.Context, rec store.SessionRecord) error
	ListSessions(ctx context.Context, player string, limit, offset int) ([]store.SessionRecord, error)
}

// Coordinator runs one board at a time for the wallet. It owns the reveal
// delay between a mismatch and the flip-back, records finished sessions and
// pushes their results on chain through the orchestrator.
type Coordinator struct {
	orch    *orchestrator.Orchestrator
	history HistoryStore

	pairs       int
	lives       int
	revealDelay time.Duration

	mu           sync.Mutex
	starting     bool
	session      *game.Session
	submitStatus SubmitStatus
	submitError  string
}

func NewCoordinator(orch *orchestrator.Orchestrator, history HistoryStore, pairs, lives int, revealDelay time.Duration) *Coordinator {
	if pairs <= 0 {
		pairs = game.DefaultPairs
	}
	if lives <= 0 {
		lives = game.DefaultLives
	}
	return &Coordinator{
		orch:        orch,
		history:     history,
		pairs:       pairs,
		lives:       lives,
		revealDelay: revealDelay,
	}
}

// Start pays the entry fee and deals a fresh board. Refused while a board
// is still being played or while the previous result submission is in
// flight.
func (c *Coordinator) Start(ctx context.Context) (*game.SessionView, error) {
	// The starting flag holds the one-board-at-a-time rule across the
	// on-chain start, which runs without the lock. Without it a second
	// request could slip past the session check and pay a second fee.
	c.mu.Lock()
	if c.starting || (c.session != nil && !c.session.Terminal()) {
		c.mu.Unlock()
		return nil, ErrSessionOngoing
	}
	c.starting = true
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.starting = false
		c.mu.Unlock()
	}()

	gameID, err := c.orch.StartGame(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = game.NewSession(store.NewID(), gameID.String(), c.pairs, c.lives, nil)
	c.submitStatus = SubmitNone
	c.submitError = ""
	view := c.session.Snapshot()
	return &view, nil
}

// Flip turns a card face up. The second card of a pair starts the
// resolution clock: after the reveal delay the pair is evaluated and, on a
// mismatch, turned back over. A zero delay resolves inline, which keeps
// tests and bots deterministic.
func (c *Coordinator) Flip(ctx context.Context, cardID int) (*FlipResponse, error) {
	c.mu.Lock()
	if c.session == nil {
		c.mu.Unlock()
		return nil, ErrNoSession
	}
	if c.session.Terminal() {
		c.mu.Unlock()
		return nil, ErrSessionNotOver
	}
	flip := c.session.SelectCard(cardID)
	resolving := flip.Accepted && flip.Resolving
	c.mu.Unlock()

	if resolving {
		if c.revealDelay == 0 {
			c.resolve()
		} else {
			time.AfterFunc(c.revealDelay, c.resolve)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	out := &FlipResponse{Accepted: flip.Accepted, Session: c.session.Snapshot()}
	if flip.Accepted {
		out.Revealed = flip.Revealed.String()
	}
	return out, nil
}

func (c *Coordinator) resolve() {
	c.mu.Lock()
	if c.session == nil {
		c.mu.Unlock()
		return
	}
	res := c.session.ResolvePending()
	terminal := res.Applied && res.Terminal
	c.mu.Unlock()

	if terminal {
		c.finish(context.Background())
	}
}

// Surrender ends the board as a loss and submits it like any other result.
func (c *Coordinator) Surrender(ctx context.Context) (*game.SessionView, error) {
	c.mu.Lock()
	if c.session == nil {
		c.mu.Unlock()
		return nil, ErrNoSession
	}
	if !c.session.Surrender() {
		c.mu.Unlock()
		return nil, ErrSessionNotOver
	}
	c.mu.Unlock()

	c.finish(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	view := c.session.Snapshot()
	return &view, nil
}

// finish records the terminal session and submits its result exactly once.
func (c *Coordinator) finish(ctx context.Context) {
	c.mu.Lock()
	sess := c.session
	if sess == nil || !sess.Terminal() || c.submitStatus != SubmitNone {
		c.mu.Unlock()
		return
	}
	c.submitStatus = SubmitPending
	outcome, matched, lives := sess.Result()
	rec := store.SessionRecord{
		ID:             sess.ID,
		PlayerAddress:  c.orch.Account(),
		GameID:         sess.GameID,
		Outcome:        string(outcome),
		MatchedPairs:   matched,
		LivesRemaining: lives,
		Points:         sess.PointsEarned,
	}
	c.mu.Unlock()

	if err := c.history.RecordSession(ctx, rec); err != nil {
		log.Error().Err(err).Str("session_id", rec.ID).Msg("record session history")
	}
	c.submit(ctx)
}

func (c *Coordinator) submit(ctx context.Context) {
	c.mu.Lock()
	sess := c.session
	c.mu.Unlock()
	if sess == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), submitTimeout)
	defer cancel()

	gameID, ok := new(big.Int).SetString(sess.GameID, 10)
	if !ok {
		log.Error().Str("game_id", sess.GameID).Msg("session holds a bad game id")
		return
	}
	outcome, matched, lives := sess.Result()
	err := c.orch.SubmitResult(ctx, gameID, chainOutcome(outcome), uint8(matched), uint8(lives))

	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case err == nil:
		c.submitStatus = SubmitConfirmed
		c.submitError = ""
	default:
		c.submitStatus = SubmitFailed
		c.submitError = err.Error()
	}
}

// RetrySubmit re-attempts a failed result submission. There is no
// automatic retry; the player decides when to try again.
func (c *Coordinator) RetrySubmit(ctx context.Context) error {
	c.mu.Lock()
	if c.session == nil || !c.session.Terminal() {
		c.mu.Unlock()
		return ErrNothingToSubmit
	}
	if c.submitStatus == SubmitConfirmed {
		c.mu.Unlock()
		return ErrNothingToSubmit
	}
	c.submitStatus = SubmitPending
	c.submitError = ""
	c.mu.Unlock()

	c.submit(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.submitStatus == SubmitFailed {
		if err := chain.ReasonError(c.submitError); err != nil {
			return err
		}
		return errors.New(c.submitError)
	}
	return nil
}

// State reports the current board and where its result submission stands.
func (c *Coordinator) State(ctx context.Context) (*StateResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return nil, ErrNoSession
	}
	view := c.session.Snapshot()
	return &StateResponse{
		Session: view,
		Submit:  SubmitInfo{Status: c.submitStatus, Error: c.submitError},
	}, nil
}

// History lists the wallet's finished sessions, newest first.
func (c *Coordinator) History(ctx context.Context, limit, offset int) ([]store.SessionRecord, error) {
	return c.history.ListSessions(ctx, c.orch.Account(), limit, offset)
}
