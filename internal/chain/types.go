package chain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Outcome mirrors the contract's uint8 outcome enum.
type Outcome uint8

const (
	OutcomePending Outcome = iota
	OutcomeWin
	OutcomeLoss
)

func (o Outcome) String() string {
	switch o {
	case OutcomeWin:
		return "win"
	case OutcomeLoss:
		return "loss"
	default:
		return "pending"
	}
}

// Player is the on-chain player record. The zero value is an unregistered
// player, matching the contract's default struct.
type Player struct {
	Username        string
	TotalPoints     uint64
	TotalGames      uint32
	Wins            uint32
	Losses          uint32
	UnclaimedPoints uint64
	Registered      bool
}

// Game is the authoritative on-chain game record. The client session is a
// prediction of this; submitGameResult is what makes an outcome durable.
type Game struct {
	ID             *big.Int
	Player         common.Address
	Outcome        Outcome
	MatchedPairs   uint8
	LivesRemaining uint8
	CreatedAt      uint64
	UpdatedAt      uint64
	PointsAwarded  uint64
	Claimed        bool
}
