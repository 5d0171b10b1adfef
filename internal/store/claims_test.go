package store

import (
	"errors"
	"testing"
)

const testPlayer = "0x1111111111111111111111111111111111111111"

func TestPendingClaimSlot(t *testing.T) {
	st, ctx, cleanup := openStore(t)
	defer cleanup()

	if _, err := st.GetPendingClaim(ctx, testPlayer); !errors.Is(err, ErrNotFound) {
		t.Fatalf("empty slot err = %v, want ErrNotFound", err)
	}

	if err := st.SetPendingClaim(ctx, testPlayer, "7"); err != nil {
		t.Fatalf("set pending claim: %v", err)
	}
	gameID, err := st.GetPendingClaim(ctx, testPlayer)
	if err != nil {
		t.Fatalf("get pending claim: %v", err)
	}
	if gameID != "7" {
		t.Fatalf("gameID = %q, want 7", gameID)
	}

	// A newer game overwrites the slot.
	if err := st.SetPendingClaim(ctx, testPlayer, "8"); err != nil {
		t.Fatalf("overwrite pending claim: %v", err)
	}
	gameID, err = st.GetPendingClaim(ctx, testPlayer)
	if err != nil || gameID != "8" {
		t.Fatalf("after overwrite: gameID = %q err = %v, want 8", gameID, err)
	}

	if err := st.ClearPendingClaim(ctx, testPlayer); err != nil {
		t.Fatalf("clear pending claim: %v", err)
	}
	if _, err := st.GetPendingClaim(ctx, testPlayer); !errors.Is(err, ErrNotFound) {
		t.Fatalf("cleared slot err = %v, want ErrNotFound", err)
	}
}

func TestPendingClaimIsPerPlayer(t *testing.T) {
	st, ctx, cleanup := openStore(t)
	defer cleanup()

	other := "0x2222222222222222222222222222222222222222"
	if err := st.SetPendingClaim(ctx, testPlayer, "3"); err != nil {
		t.Fatalf("set pending claim: %v", err)
	}
	if _, err := st.GetPendingClaim(ctx, other); !errors.Is(err, ErrNotFound) {
		t.Fatalf("other player slot err = %v, want ErrNotFound", err)
	}
}
