package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-chi/chi/v5"

	"chessflip/internal/app/match"
	"chessflip/internal/app/player"
	"chessflip/internal/chain"
	"chessflip/internal/config"
	"chessflip/internal/game"
	"chessflip/internal/orchestrator"
	"chessflip/internal/store"
)

var testWallet = common.HexToAddress("0x1111111111111111111111111111111111111111")

// testLives is generous so a memory-playing test cannot lose a board it
// intends to win; loss paths are covered by surrender.
const testLives = 99

func newTestRouter(t *testing.T) (*chi.Mux, *chain.SimBackend) {
	t.Helper()
	sim := chain.NewSim(42220, testWallet)
	orch := orchestrator.New(sim, chain.NewGuard(42220), store.NewMemory())
	players := player.NewService(sim, orch)
	matches := match.NewCoordinator(orch, store.NewMemory(), game.DefaultPairs, testLives, 0)
	cfg := config.ServerConfig{HistoryPageSize: 20}
	return newRouter(cfg, orch, players, matches, nil), sim
}

func doRequest(t *testing.T, router *chi.Mux, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var out map[string]string
	decodeBody(t, w, &out)
	return out["error"]
}

func registerTestPlayer(t *testing.T, router *chi.Mux) {
	t.Helper()
	w := doRequest(t, router, http.MethodPost, "/api/register", map[string]string{"username": "test_player"})
	if w.Code != http.StatusOK {
		t.Fatalf("register status = %d body = %s", w.Code, w.Body.String())
	}
}

func startTestMatch(t *testing.T, router *chi.Mux) game.SessionView {
	t.Helper()
	w := doRequest(t, router, http.MethodPost, "/api/match/start", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("start status = %d body = %s", w.Code, w.Body.String())
	}
	var view game.SessionView
	decodeBody(t, w, &view)
	return view
}

// playToWin clears the board through the API alone, remembering every face
// a flip reveals and pairing known twins before exploring further.
func playToWin(t *testing.T, router *chi.Mux) match.StateResponse {
	t.Helper()
	faces := map[int]string{}
	matched := map[int]bool{}

	flip := func(id int) match.FlipResponse {
		w := doRequest(t, router, http.MethodPost, "/api/match/flip", match.FlipRequest{CardID: id})
		if w.Code != http.StatusOK {
			t.Fatalf("flip %d status = %d body = %s", id, w.Code, w.Body.String())
		}
		var out match.FlipResponse
		decodeBody(t, w, &out)
		if out.Accepted {
			faces[id] = out.Revealed
		}
		for _, card := range out.Session.Cards {
			if card.Matched {
				matched[card.ID] = true
			}
		}
		return out
	}

	knownTwin := func(id int) (int, bool) {
		for other, face := range faces {
			if other != id && !matched[other] && face != "" && face == faces[id] {
				return other, true
			}
		}
		return 0, false
	}

	total := game.DefaultPairs * 2
	for safety := 0; safety < total*total; safety++ {
		// Pair up anything already known.
		paired := false
		for id := 0; id < total; id++ {
			if matched[id] || faces[id] == "" {
				continue
			}
			if twin, ok := knownTwin(id); ok {
				flip(id)
				flip(twin)
				paired = true
				break
			}
		}
		if paired {
			continue
		}

		// Explore an unseen card; its twin may now be known.
		explored := false
		for id := 0; id < total; id++ {
			if matched[id] || faces[id] != "" {
				continue
			}
			flip(id)
			if twin, ok := knownTwin(id); ok {
				flip(twin)
			} else {
				for other := 0; other < total; other++ {
					if other != id && !matched[other] && faces[other] == "" {
						flip(other)
						break
					}
				}
			}
			explored = true
			break
		}
		if !explored {
			break
		}
	}

	w := doRequest(t, router, http.MethodGet, "/api/match/state", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("state status = %d", w.Code)
	}
	var state match.StateResponse
	decodeBody(t, w, &state)
	if state.Session.Status != string(game.StatusWon) {
		t.Fatalf("board not cleared: %+v", state.Session)
	}
	return state
}
