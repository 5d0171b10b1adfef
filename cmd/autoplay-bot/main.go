package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"chessflip/internal/app/match"
	"chessflip/internal/app/player"
	"chessflip/internal/config"
	"chessflip/internal/game"
)

// client drives one board at a time through the JSON API, remembering every
// face a flip reveals and pairing known twins before exploring new cards.
type client struct {
	baseURL string
	http    *http.Client
	pause   time.Duration
}

func main() {
	cfg, err := config.LoadBot()
	if err != nil {
		log.Fatal(err)
	}
	c := &client{
		baseURL: cfg.APIURL,
		http:    &http.Client{Timeout: 30 * time.Second},
		pause:   time.Duration(cfg.PollIntervalMS) * time.Millisecond,
	}

	if err := c.ensureRegistered(cfg.Username); err != nil {
		log.Fatal(err)
	}
	for i := 0; i < cfg.Games; i++ {
		if err := c.playGame(); err != nil {
			log.Fatal(err)
		}
	}

	var profile player.ProfileResponse
	if err := c.call(http.MethodGet, "/api/profile", nil, &profile); err != nil {
		log.Fatal(err)
	}
	log.Printf("done: %d games, %d wins, %s points", profile.TotalGames, profile.Wins, profile.TotalPointsText)
}

func (c *client) ensureRegistered(username string) error {
	var profile player.ProfileResponse
	if err := c.call(http.MethodGet, "/api/profile", nil, &profile); err != nil {
		return err
	}
	if profile.Registered {
		return nil
	}
	log.Printf("registering as %s", username)
	return c.call(http.MethodPost, "/api/register", player.RegisterRequest{Username: username}, nil)
}

func (c *client) playGame() error {
	var view game.SessionView
	if err := c.call(http.MethodPost, "/api/match/start", nil, &view); err != nil {
		return fmt.Errorf("start: %w", err)
	}
	log.Printf("game %s started, %d cards", view.GameID, len(view.Cards))

	faces := map[int]string{}
	matched := map[int]bool{}
	total := len(view.Cards)

	flip := func(id int) (match.FlipResponse, error) {
		var out match.FlipResponse
		if err := c.call(http.MethodPost, "/api/match/flip", match.FlipRequest{CardID: id}, &out); err != nil {
			return out, err
		}
		if out.Accepted {
			faces[id] = out.Revealed
		}
		for _, card := range out.Session.Cards {
			if card.Matched {
				matched[card.ID] = true
			}
		}
		time.Sleep(c.pause)
		return out, nil
	}
	knownTwin := func(id int) (int, bool) {
		for other, face := range faces {
			if other != id && !matched[other] && face == faces[id] {
				return other, true
			}
		}
		return 0, false
	}

	for {
		state, err := c.state()
		if err != nil {
			return err
		}
		if state.Session.Status != string(game.StatusPlaying) {
			return c.settle(*state)
		}
		if state.Session.Resolving {
			time.Sleep(c.pause)
			continue
		}

		next := -1
		var twin int
		for id := 0; id < total; id++ {
			if matched[id] || faces[id] == "" {
				continue
			}
			if t, ok := knownTwin(id); ok {
				next, twin = id, t
				break
			}
		}
		if next >= 0 {
			if _, err := flip(next); err != nil {
				return err
			}
			if _, err := flip(twin); err != nil {
				return err
			}
			continue
		}

		for id := 0; id < total; id++ {
			if matched[id] || faces[id] != "" {
				continue
			}
			if _, err := flip(id); err != nil {
				return err
			}
			if t, ok := knownTwin(id); ok {
				_, err = flip(t)
			} else {
				for other := 0; other < total; other++ {
					if other != id && !matched[other] && faces[other] == "" {
						_, err = flip(other)
						break
					}
				}
			}
			if err != nil {
				return err
			}
			break
		}
	}
}

// settle waits out the result submission and claims the points.
func (c *client) settle(state match.StateResponse) error {
	log.Printf("game %s over: %s, %d points", state.Session.GameID, state.Session.Status, state.Session.PointsEarned)
	for state.Submit.Status == match.SubmitPending || state.Submit.Status == match.SubmitNone {
		time.Sleep(c.pause)
		next, err := c.state()
		if err != nil {
			return err
		}
		state = *next
	}
	if state.Submit.Status == match.SubmitFailed {
		log.Printf("submit failed (%s), retrying once", state.Submit.Error)
		if err := c.call(http.MethodPost, "/api/match/submit/retry", nil, nil); err != nil {
			return err
		}
	}

	var claim map[string]any
	if err := c.call(http.MethodPost, "/api/claim", nil, &claim); err != nil {
		return fmt.Errorf("claim: %w", err)
	}
	log.Printf("claimed game %v", claim["game_id"])
	return nil
}

func (c *client) state() (*match.StateResponse, error) {
	var out match.StateResponse
	if err := c.call(http.MethodGet, "/api/match/state", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *client) call(method, path string, body, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequest(method, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s %s: %s", method, path, apiErr.Error)
		}
		return fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(data, out)
}
