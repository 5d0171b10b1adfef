package chain

import "errors"

var (
	ErrWrongNetwork       = errors.New("wrong_network")
	ErrInvalidUsername    = errors.New("invalid_username")
	ErrUsernameTaken      = errors.New("username_taken")
	ErrAlreadyRegistered  = errors.New("already_registered")
	ErrNotRegistered      = errors.New("not_registered")
	ErrInsufficientFunds  = errors.New("insufficient_funds")
	ErrGameNotFound       = errors.New("game_not_found")
	ErrNotGameOwner       = errors.New("not_game_owner")
	ErrAlreadySubmitted   = errors.New("result_already_submitted")
	ErrResultNotSubmitted = errors.New("result_not_submitted")
	ErrAlreadyClaimed     = errors.New("already_claimed")
	ErrNoUnclaimedGame    = errors.New("no_unclaimed_game")
	ErrTxRejected         = errors.New("signature_rejected")
)

var reasonErrors = func() map[string]error {
	out := map[string]error{}
	for _, err := range []error{
		ErrWrongNetwork, ErrInvalidUsername, ErrUsernameTaken, ErrAlreadyRegistered,
		ErrNotRegistered, ErrInsufficientFunds, ErrGameNotFound, ErrNotGameOwner,
		ErrAlreadySubmitted, ErrResultNotSubmitted, ErrAlreadyClaimed,
		ErrNoUnclaimedGame, ErrTxRejected,
	} {
		out[err.Error()] = err
	}
	return out
}()

// ReasonError resolves a receipt revert reason back to its sentinel, or nil
// for an unrecognized reason.
func ReasonError(reason string) error {
	return reasonErrors[reason]
}
