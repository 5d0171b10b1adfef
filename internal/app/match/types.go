package match

import (
	"chessflip/internal/chain"
	"chessflip/internal/game"
)

type SubmitStatus string

const (
	SubmitNone      SubmitStatus = "none"
	SubmitPending   SubmitStatus = "pending"
	SubmitConfirmed SubmitStatus = "confirmed"
	SubmitFailed    SubmitStatus = "failed"
)

type SubmitInfo struct {
	Status SubmitStatus `json:"status"`
	Error  string       `json:"error,omitempty"`
}

type StateResponse struct {
	Session game.SessionView `json:"session"`
	Submit  SubmitInfo       `json:"submit"`
}

type FlipRequest struct {
	CardID int `json:"card_id"`
}

// FlipResponse reports the revealed face alongside the board. The face is
// repeated here because a mismatch with a zero reveal delay is already
// turned back over in the session snapshot.
type FlipResponse struct {
	Accepted bool             `json:"accepted"`
	Revealed string           `json:"revealed,omitempty"`
	Session  game.SessionView `json:"session"`
}

func chainOutcome(o game.Outcome) chain.Outcome {
	if o == game.OutcomeWin {
		return chain.OutcomeWin
	}
	return chain.OutcomeLoss
}
