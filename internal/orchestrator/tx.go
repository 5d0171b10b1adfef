package orchestrator

import "time"

type TxKind string

const (
	TxRegister     TxKind = "register"
	TxApprove      TxKind = "approve"
	TxStartGame    TxKind = "start_game"
	TxSubmitResult TxKind = "submit_result"
	TxClaimPoints  TxKind = "claim_points"
)

type TxStatus string

const (
	StatusAwaitingSignature TxStatus = "awaiting_signature"
	StatusConfirming        TxStatus = "confirming"
	StatusConfirmed         TxStatus = "confirmed"
	StatusFailed            TxStatus = "failed"
)

// TxRecord is one attempted contract write, kept for the transactions
// endpoint.
type TxRecord struct {
	Kind      TxKind    `json:"kind"`
	Status    TxStatus  `json:"status"`
	TxHash    string    `json:"tx_hash,omitempty"`
	GameID    string    `json:"game_id,omitempty"`
	Error     string    `json:"error,omitempty"`
	StartedAt time.Time `json:"started_at"`
}
