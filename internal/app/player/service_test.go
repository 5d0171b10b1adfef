package player

import (
	"context"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"chessflip/internal/chain"
	"chessflip/internal/orchestrator"
	"chessflip/internal/store"
)

var testAccount = common.HexToAddress("0x1111111111111111111111111111111111111111")

func newService(t *testing.T) (*Service, *chain.SimBackend) {
	t.Helper()
	sim := chain.NewSim(42220, testAccount)
	orch := orchestrator.New(sim, chain.NewGuard(42220), store.NewMemory())
	return NewService(sim, orch), sim
}

func TestProfileUnregistered(t *testing.T) {
	svc, _ := newService(t)

	p, err := svc.Profile(context.Background())
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if p.Registered {
		t.Fatal("fresh wallet reported as registered")
	}
	if p.WinRate != 0 || p.TotalPointsText != "0" {
		t.Fatalf("unexpected profile: %+v", p)
	}
}

func TestRegisterThenProfile(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	if err := svc.Register(ctx, "chess_fan"); err != nil {
		t.Fatalf("register: %v", err)
	}
	p, err := svc.Profile(ctx)
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if !p.Registered || p.Username != "chess_fan" {
		t.Fatalf("profile after register = %+v", p)
	}
	if p.Address != testAccount.Hex() {
		t.Fatalf("address = %s", p.Address)
	}
}

func TestRegisterRejectsBadUsername(t *testing.T) {
	svc, _ := newService(t)

	if err := svc.Register(context.Background(), "no"); !errors.Is(err, chain.ErrInvalidUsername) {
		t.Fatalf("err = %v, want ErrInvalidUsername", err)
	}
}
