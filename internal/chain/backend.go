package chain

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Receipt is the finalized result of a broadcast transaction.
type Receipt struct {
	TxHash   common.Hash
	Reverted bool
	// RevertReason is set when the failure cause is recognizable
	// (e.g. username_taken, result_already_submitted); empty otherwise.
	RevertReason string
	// GameID is decoded from the GameStarted event on startGame receipts.
	GameID *big.Int
}

// PendingTx is a signed, broadcast transaction awaiting confirmation. It
// cannot be cancelled; only its outcome can be awaited.
type PendingTx interface {
	Hash() common.Hash
	Wait(ctx context.Context) (*Receipt, error)
}

// Backend abstracts the ChessFlip contract plus its entry-fee token for one
// wallet, so the orchestration layer stays chain-agnostic. Reads are
// synchronous; writes return a PendingTx once signed and broadcast.
type Backend interface {
	// Account is the wallet this backend signs for.
	Account() common.Address
	// ChainID reports the connected network; the guard compares it against
	// the deployment network before every write.
	ChainID(ctx context.Context) (*big.Int, error)

	GetPlayer(ctx context.Context, account common.Address) (Player, error)
	GetGame(ctx context.Context, gameID *big.Int) (Game, error)
	// Allowance is the entry-fee token allowance granted to the contract.
	Allowance(ctx context.Context) (*big.Int, error)
	// FindUnclaimedGame scans for the wallet's most recent submitted,
	// unclaimed game. Returns ErrNoUnclaimedGame when none exists.
	FindUnclaimedGame(ctx context.Context) (*big.Int, error)

	RegisterPlayer(ctx context.Context, username string) (PendingTx, error)
	Approve(ctx context.Context, amount *big.Int) (PendingTx, error)
	StartGame(ctx context.Context) (PendingTx, error)
	SubmitGameResult(ctx context.Context, gameID *big.Int, outcome Outcome, matchedPairs, livesRemaining uint8) (PendingTx, error)
	ClaimPoints(ctx context.Context, gameID *big.Int) (PendingTx, error)
}
