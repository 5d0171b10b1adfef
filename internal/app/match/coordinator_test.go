package match

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"chessflip/internal/chain"
	"chessflip/internal/game"
	"chessflip/internal/orchestrator"
	"chessflip/internal/store"
	"chessflip/internal/testutil"
)

var testAccount = common.HexToAddress("0x1111111111111111111111111111111111111111")

func newCoordinator(t *testing.T, revealDelay time.Duration) (*Coordinator, *chain.SimBackend, *orchestrator.Orchestrator) {
	t.Helper()
	sim := chain.NewSim(42220, testAccount)
	orch := orchestrator.New(sim, chain.NewGuard(42220), store.NewMemory())
	if err := orch.Register(context.Background(), "match_tester"); err != nil {
		t.Fatalf("register: %v", err)
	}
	c := NewCoordinator(orch, store.NewMemory(), game.DefaultPairs, game.DefaultLives, revealDelay)
	return c, sim, orch
}

// pairGroups reads the live board, which tests may do and players may not.
func pairGroups(c *Coordinator) map[game.Piece][2]int {
	groups := map[game.Piece][2]int{}
	seen := map[game.Piece]int{}
	for _, card := range c.session.Cards {
		g := groups[card.Pair]
		g[seen[card.Pair]] = card.ID
		groups[card.Pair] = g
		seen[card.Pair]++
	}
	return groups
}

func playToWin(t *testing.T, c *Coordinator) {
	t.Helper()
	ctx := context.Background()
	for _, ids := range pairGroups(c) {
		if _, err := c.Flip(ctx, ids[0]); err != nil {
			t.Fatalf("flip %d: %v", ids[0], err)
		}
		if _, err := c.Flip(ctx, ids[1]); err != nil {
			t.Fatalf("flip %d: %v", ids[1], err)
		}
	}
}

func TestStartDealsBoardOnce(t *testing.T) {
	c, _, _ := newCoordinator(t, 0)
	ctx := context.Background()

	view, err := c.Start(ctx)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if len(view.Cards) != game.DefaultPairs*2 {
		t.Fatalf("card count = %d, want %d", len(view.Cards), game.DefaultPairs*2)
	}
	if view.Status != string(game.StatusPlaying) || view.GameID != "1" {
		t.Fatalf("unexpected view: %+v", view)
	}
	for _, card := range view.Cards {
		if card.Face != "" || card.Flipped || card.Matched {
			t.Fatalf("card %d dealt face up: %+v", card.ID, card)
		}
	}

	if _, err := c.Start(ctx); !errors.Is(err, ErrSessionOngoing) {
		t.Fatalf("second start err = %v, want ErrSessionOngoing", err)
	}
}

// slowStartBackend parks StartGame until released so a test can hold a
// start in flight.
type slowStartBackend struct {
	*chain.SimBackend
	entered chan struct{}
	release chan struct{}
}

func (b *slowStartBackend) StartGame(ctx context.Context) (chain.PendingTx, error) {
	close(b.entered)
	<-b.release
	return b.SimBackend.StartGame(ctx)
}

func TestConcurrentStartPaysOneFee(t *testing.T) {
	sim := chain.NewSim(42220, testAccount)
	backend := &slowStartBackend{SimBackend: sim, entered: make(chan struct{}), release: make(chan struct{})}
	orch := orchestrator.New(backend, chain.NewGuard(42220), store.NewMemory())
	ctx := context.Background()
	if err := orch.Register(ctx, "racer_01"); err != nil {
		t.Fatalf("register: %v", err)
	}
	c := NewCoordinator(orch, store.NewMemory(), game.DefaultPairs, game.DefaultLives, 0)

	done := make(chan error, 1)
	go func() {
		_, err := c.Start(ctx)
		done <- err
	}()
	<-backend.entered

	// The first start has paid but not dealt yet; a second request must be
	// refused instead of buying another game.
	if _, err := c.Start(ctx); !errors.Is(err, ErrSessionOngoing) {
		t.Fatalf("start during start err = %v, want ErrSessionOngoing", err)
	}

	close(backend.release)
	if err := <-done; err != nil {
		t.Fatalf("first start: %v", err)
	}
	if _, err := sim.GetGame(ctx, big.NewInt(2)); !errors.Is(err, chain.ErrGameNotFound) {
		t.Fatal("a second entry fee was paid during the race")
	}
}

func TestWinSubmitsResultAndRecordsHistory(t *testing.T) {
	c, sim, _ := newCoordinator(t, 0)
	ctx := context.Background()

	if _, err := c.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	playToWin(t, c)

	state, err := c.State(ctx)
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	if state.Session.Status != string(game.StatusWon) || state.Session.PointsEarned != game.WinPoints {
		t.Fatalf("session after win: %+v", state.Session)
	}
	if state.Submit.Status != SubmitConfirmed {
		t.Fatalf("submit status = %s, want confirmed", state.Submit.Status)
	}

	p, _ := sim.GetPlayer(ctx, testAccount)
	if p.Wins != 1 || p.UnclaimedPoints != game.WinPoints {
		t.Fatalf("player after win: %+v", p)
	}

	recs, err := c.History(ctx, 10, 0)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(recs) != 1 || recs[0].Outcome != "win" || recs[0].Points != game.WinPoints {
		t.Fatalf("history = %+v", recs)
	}
}

func TestMismatchFlipsBackAfterDelay(t *testing.T) {
	c, _, _ := newCoordinator(t, 20*time.Millisecond)
	ctx := context.Background()

	if _, err := c.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	groups := pairGroups(c)
	first := groups[game.King][0]
	second := groups[game.Queen][0]

	if _, err := c.Flip(ctx, first); err != nil {
		t.Fatalf("flip first: %v", err)
	}
	flip, err := c.Flip(ctx, second)
	if err != nil {
		t.Fatalf("flip second: %v", err)
	}
	if !flip.Session.Resolving {
		t.Fatal("expected the pair to await resolution")
	}
	if flip.Revealed != game.Queen.String() {
		t.Fatalf("revealed = %q, want %q", flip.Revealed, game.Queen.String())
	}

	// A third selection during the reveal window is ignored.
	before := flip.Session.Lives
	third, err := c.Flip(ctx, groups[game.King][1])
	if err != nil {
		t.Fatalf("third flip: %v", err)
	}
	if third.Accepted {
		t.Fatal("third flip accepted during resolution")
	}

	time.Sleep(100 * time.Millisecond)
	state, err := c.State(ctx)
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	if state.Session.Resolving {
		t.Fatal("still resolving after the delay")
	}
	if state.Session.Lives != before-1 {
		t.Fatalf("lives = %d, want %d", state.Session.Lives, before-1)
	}
	for _, card := range state.Session.Cards {
		if card.Flipped {
			t.Fatalf("card %d still face up after mismatch", card.ID)
		}
	}
}

func TestSurrenderSubmitsLoss(t *testing.T) {
	c, sim, _ := newCoordinator(t, 0)
	ctx := context.Background()

	if _, err := c.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	view, err := c.Surrender(ctx)
	if err != nil {
		t.Fatalf("surrender: %v", err)
	}
	if view.Status != string(game.StatusLost) || view.PointsEarned != game.LossPoints {
		t.Fatalf("view after surrender: %+v", view)
	}

	p, _ := sim.GetPlayer(ctx, testAccount)
	if p.Losses != 1 || p.UnclaimedPoints != game.LossPoints {
		t.Fatalf("player after surrender: %+v", p)
	}

	if _, err := c.Surrender(ctx); !errors.Is(err, ErrSessionNotOver) {
		t.Fatalf("second surrender err = %v, want ErrSessionNotOver", err)
	}
}

func TestRetrySubmitAfterRejection(t *testing.T) {
	c, sim, _ := newCoordinator(t, 0)
	ctx := context.Background()

	if _, err := c.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	sim.RejectNext("submitGameResult")
	if _, err := c.Surrender(ctx); err != nil {
		t.Fatalf("surrender: %v", err)
	}

	state, _ := c.State(ctx)
	if state.Submit.Status != SubmitFailed {
		t.Fatalf("submit status = %s, want failed", state.Submit.Status)
	}

	if err := c.RetrySubmit(ctx); err != nil {
		t.Fatalf("retry submit: %v", err)
	}
	state, _ = c.State(ctx)
	if state.Submit.Status != SubmitConfirmed {
		t.Fatalf("submit status after retry = %s, want confirmed", state.Submit.Status)
	}

	if err := c.RetrySubmit(ctx); !errors.Is(err, ErrNothingToSubmit) {
		t.Fatalf("retry after confirm err = %v, want ErrNothingToSubmit", err)
	}
}

func TestFlipWithoutSessionFails(t *testing.T) {
	c, _, _ := newCoordinator(t, 0)

	if _, err := c.Flip(context.Background(), 0); !errors.Is(err, ErrNoSession) {
		t.Fatalf("err = %v, want ErrNoSession", err)
	}
	if _, err := c.State(context.Background()); !errors.Is(err, ErrNoSession) {
		t.Fatalf("state err = %v, want ErrNoSession", err)
	}
}

func TestNewBoardAfterFinishedGame(t *testing.T) {
	c, _, _ := newCoordinator(t, 0)
	ctx := context.Background()

	if _, err := c.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	playToWin(t, c)

	view, err := c.Start(ctx)
	if err != nil {
		t.Fatalf("start after win: %v", err)
	}
	if view.GameID != "2" || view.Status != string(game.StatusPlaying) {
		t.Fatalf("second board: %+v", view)
	}

	recs, err := c.History(ctx, 10, 0)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("history len = %d, want 1", len(recs))
	}
}

func TestHistoryPersistsThroughPostgres(t *testing.T) {
	st, cleanup := testutil.OpenTestStore(t)
	defer cleanup()

	sim := chain.NewSim(42220, testAccount)
	orch := orchestrator.New(sim, chain.NewGuard(42220), store.NewMemory())
	ctx := context.Background()
	if err := orch.Register(ctx, "pg_tester"); err != nil {
		t.Fatalf("register: %v", err)
	}
	c := NewCoordinator(orch, st, game.DefaultPairs, game.DefaultLives, 0)

	if _, err := c.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := c.Surrender(ctx); err != nil {
		t.Fatalf("surrender: %v", err)
	}

	recs, err := c.History(ctx, 10, 0)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(recs) != 1 || recs[0].Outcome != "loss" || recs[0].GameID != "1" {
		t.Fatalf("history = %+v", recs)
	}
}
