package game

// CardView hides the face of any card the player has not earned a look at.
type CardView struct {
	ID      int    `json:"id"`
	Face    string `json:"face,omitempty"`
	Flipped bool   `json:"flipped"`
	Matched bool   `json:"matched"`
}

type SessionView struct {
	SessionID    string     `json:"session_id"`
	GameID       string     `json:"game_id"`
	Status       string     `json:"status"`
	Lives        int        `json:"lives"`
	MatchedPairs int        `json:"matched_pairs"`
	Pairs        int        `json:"pairs"`
	PointsEarned uint64     `json:"points_earned,omitempty"`
	Resolving    bool       `json:"resolving"`
	Cards        []CardView `json:"cards"`
}

func (s *Session) Snapshot() SessionView {
	cards := make([]CardView, 0, len(s.Cards))
	for _, c := range s.Cards {
		cv := CardView{ID: c.ID, Flipped: c.Flipped, Matched: c.Matched}
		if c.Flipped || c.Matched {
			cv.Face = c.Pair.String()
		}
		cards = append(cards, cv)
	}
	return SessionView{
		SessionID:    s.ID,
		GameID:       s.GameID,
		Status:       string(s.Status),
		Lives:        s.Lives,
		MatchedPairs: s.MatchedPairs,
		Pairs:        s.Pairs,
		PointsEarned: s.PointsEarned,
		Resolving:    s.Resolving(),
		Cards:        cards,
	}
}
