package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"chessflip/internal/app/match"
	"chessflip/internal/app/player"
	"chessflip/internal/chain"
	"chessflip/internal/orchestrator"
)

func healthHandler(ping func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ping != nil {
			if err := ping(r.Context()); err != nil {
				writeHTTPError(w, http.StatusServiceUnavailable, "db_unavailable")
				return
			}
		}
		writeJSON(w, map[string]any{"status": "ok"})
	}
}

func profileHandler(players *player.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := players.Profile(r.Context())
		if err != nil {
			writeHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		writeJSON(w, p)
	}
}

func registerHandler(players *player.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req player.RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		if err := players.Register(r.Context(), req.Username); err != nil {
			status, code := errToStatus(err)
			writeHTTPError(w, status, code)
			return
		}
		writeJSON(w, map[string]any{"registered": true, "username": req.Username})
	}
}

func matchStartHandler(matches *match.Coordinator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := matches.Start(r.Context())
		if err != nil {
			status, code := errToStatus(err)
			writeHTTPError(w, status, code)
			return
		}
		writeJSON(w, view)
	}
}

func matchStateHandler(matches *match.Coordinator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, err := matches.State(r.Context())
		if err != nil {
			status, code := errToStatus(err)
			writeHTTPError(w, status, code)
			return
		}
		writeJSON(w, state)
	}
}

func matchFlipHandler(matches *match.Coordinator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req match.FlipRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		view, err := matches.Flip(r.Context(), req.CardID)
		if err != nil {
			status, code := errToStatus(err)
			writeHTTPError(w, status, code)
			return
		}
		writeJSON(w, view)
	}
}

func matchSurrenderHandler(matches *match.Coordinator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := matches.Surrender(r.Context())
		if err != nil {
			status, code := errToStatus(err)
			writeHTTPError(w, status, code)
			return
		}
		writeJSON(w, view)
	}
}

func submitRetryHandler(matches *match.Coordinator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := matches.RetrySubmit(r.Context()); err != nil {
			status, code := errToStatus(err)
			writeHTTPError(w, status, code)
			return
		}
		writeJSON(w, map[string]any{"submitted": true})
	}
}

func claimHandler(orch *orchestrator.Orchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID, err := orch.Claim(r.Context())
		if err != nil {
			status, code := errToStatus(err)
			writeHTTPError(w, status, code)
			return
		}
		writeJSON(w, map[string]any{"claimed": true, "game_id": gameID.String()})
	}
}

func transactionsHandler(orch *orchestrator.Orchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"items": orch.Transactions()})
	}
}

func historyHandler(matches *match.Coordinator, defaultLimit int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, offset := parsePagination(r, defaultLimit)
		recs, err := matches.History(r.Context(), limit, offset)
		if err != nil {
			writeHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		items := make([]map[string]any, 0, len(recs))
		for _, rec := range recs {
			items = append(items, map[string]any{
				"id":              rec.ID,
				"game_id":         rec.GameID,
				"outcome":         rec.Outcome,
				"matched_pairs":   rec.MatchedPairs,
				"lives_remaining": rec.LivesRemaining,
				"points":          rec.Points,
				"created_at":      rec.CreatedAt,
			})
		}
		writeJSON(w, map[string]any{
			"items":  items,
			"limit":  limit,
			"offset": offset,
		})
	}
}

// errToStatus maps domain errors onto HTTP statuses. The error messages are
// already wire-ready snake_case codes.
func errToStatus(err error) (int, string) {
	switch {
	case errors.Is(err, chain.ErrInvalidUsername):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, match.ErrNoSession),
		errors.Is(err, chain.ErrGameNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, chain.ErrNotRegistered):
		return http.StatusForbidden, err.Error()
	// The guard wraps this one with the chain ids; keep the code bare.
	case errors.Is(err, chain.ErrWrongNetwork):
		return http.StatusConflict, chain.ErrWrongNetwork.Error()
	case errors.Is(err, chain.ErrInsufficientFunds):
		return http.StatusPaymentRequired, err.Error()
	case errors.Is(err, match.ErrSessionOngoing),
		errors.Is(err, match.ErrSessionNotOver),
		errors.Is(err, match.ErrNothingToSubmit),
		errors.Is(err, orchestrator.ErrSubmitOutstanding),
		errors.Is(err, orchestrator.ErrAlreadySubmitting),
		errors.Is(err, orchestrator.ErrNothingToClaim),
		errors.Is(err, chain.ErrUsernameTaken),
		errors.Is(err, chain.ErrAlreadyRegistered),
		errors.Is(err, chain.ErrAlreadySubmitted),
		errors.Is(err, chain.ErrAlreadyClaimed):
		return http.StatusConflict, err.Error()
	case errors.Is(err, chain.ErrTxRejected):
		return http.StatusBadGateway, err.Error()
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
