package game

const (
	DefaultPairs = 6
	DefaultLives = 5

	WinPoints  = 10
	LossPoints = 2
)

type Status string

const (
	StatusPlaying Status = "playing"
	StatusWon     Status = "won"
	StatusLost    Status = "lost"
)

type Outcome string

const (
	OutcomeWin  Outcome = "win"
	OutcomeLoss Outcome = "loss"
)
