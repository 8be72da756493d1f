package entity

// Side identifies a player.
type Side int

const (
	SideX Side = iota
	SideO
)

func (that Side) Token() Token {
	if that == SideX {
		return PlayerX
	}
	return PlayerO
}

func (that Side) Other() Side {
	if that == SideX {
		return SideO
	}
	return SideX
}

func (that Side) String() string {
	if that == SideX {
		return "X"
	}
	return "O"
}

// Outcome is the terminal state of a game, or InProgress.
type Outcome int

const (
	InProgress Outcome = iota
	PlayerXWin
	PlayerOWin
	Tie
)

func (that Outcome) IsTerminal() bool {
	return that != InProgress
}

// WinFor returns the winning outcome for the side.
func WinFor(side Side) Outcome {
	if side == SideX {
		return PlayerXWin
	}
	return PlayerOWin
}

func (that Outcome) String() string {
	switch that {
	case PlayerXWin:
		return "player_x_win"
	case PlayerOWin:
		return "player_o_win"
	case Tie:
		return "tie"
	default:
		return "in_progress"
	}
}
