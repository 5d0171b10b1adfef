package game

import "math/rand"

// Session is the mutable state of one play-through. It is not safe for
// concurrent use; the owning coordinator serializes access.
type Session struct {
	ID           string
	GameID       string
	Cards        []Card
	Lives        int
	Pairs        int
	MatchedPairs int
	Status       Status
	PointsEarned uint64

	pending []int
}

// Flip reports what a SelectCard call did. Rejected inputs leave the
// session untouched and come back with Accepted=false.
type Flip struct {
	Accepted  bool
	Revealed  Piece
	Resolving bool
}

// Resolution is the outcome of evaluating two pending cards.
type Resolution struct {
	Applied  bool
	Matched  bool
	CardIDs  [2]int
	Terminal bool
}

func NewSession(id, gameID string, pairs, lives int, rnd *rand.Rand) *Session {
	cards := NewBoard(pairs)
	Shuffle(cards, rnd)
	return &Session{
		ID:     id,
		GameID: gameID,
		Cards:  cards,
		Lives:  lives,
		Pairs:  pairs,
		Status: StatusPlaying,
	}
}

func (s *Session) card(id int) *Card {
	for i := range s.Cards {
		if s.Cards[i].ID == id {
			return &s.Cards[i]
		}
	}
	return nil
}

// Resolving reports whether two cards are face up awaiting evaluation.
// While true, further selections are ignored.
func (s *Session) Resolving() bool {
	return len(s.pending) == 2
}

// SelectCard flips the card face up. Invalid input (terminal session,
// resolution in progress, unknown id, card already face up or matched) is a
// silent no-op: the caller is responsible for disabling invalid actions.
func (s *Session) SelectCard(cardID int) Flip {
	if s.Status != StatusPlaying || s.Resolving() {
		return Flip{}
	}
	c := s.card(cardID)
	if c == nil || c.Flipped || c.Matched {
		return Flip{}
	}
	c.Flipped = true
	s.pending = append(s.pending, cardID)
	return Flip{Accepted: true, Revealed: c.Pair, Resolving: s.Resolving()}
}

// ResolvePending evaluates the two selected cards. A match fixes both cards
// and may end the game won; a mismatch turns both back over and costs a
// life, ending the game lost at zero. Calling it without two pending cards
// does nothing.
func (s *Session) ResolvePending() Resolution {
	if s.Status != StatusPlaying || !s.Resolving() {
		return Resolution{}
	}
	first := s.card(s.pending[0])
	second := s.card(s.pending[1])
	res := Resolution{Applied: true, CardIDs: [2]int{first.ID, second.ID}}
	s.pending = nil

	if first.Pair == second.Pair {
		first.Matched = true
		second.Matched = true
		s.MatchedPairs++
		res.Matched = true
		if s.MatchedPairs == s.Pairs {
			s.Status = StatusWon
			s.PointsEarned = WinPoints
			res.Terminal = true
		}
		return res
	}

	first.Flipped = false
	second.Flipped = false
	s.Lives--
	if s.Lives == 0 {
		s.Status = StatusLost
		s.PointsEarned = LossPoints
		res.Terminal = true
	}
	return res
}

// Surrender forces a loss while the game is still running, banking the
// consolation points instead of abandoning the entry fee outright.
func (s *Session) Surrender() bool {
	if s.Status != StatusPlaying {
		return false
	}
	s.pending = nil
	s.Status = StatusLost
	s.PointsEarned = LossPoints
	return true
}

// Result reports the terminal outcome for on-chain submission.
func (s *Session) Result() (Outcome, int, int) {
	if s.Status == StatusWon {
		return OutcomeWin, s.MatchedPairs, s.Lives
	}
	return OutcomeLoss, s.MatchedPairs, s.Lives
}

func (s *Session) Terminal() bool {
	return s.Status == StatusWon || s.Status == StatusLost
}
