package entity

import "time"

const (
	KindComputer = "computer"
	KindHuman    = "human"
)

// Session is the registry view of a running game session.
type Session struct {
	ID        string      `json:"id"`
	Number    int64       `json:"number"`
	Kind      string      `json:"kind"`
	Board     []string    `json:"board"`
	Turn      string      `json:"turn"`
	Outcome   string      `json:"outcome"`
	LastMove  *Coordinate `json:"last_move,omitempty"`
	Players   []string    `json:"players"`
	StartedAt time.Time   `json:"started_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// NewSession - registry record for a session that has not moved yet; board holds the rendered rows.
func NewSession(id string, number int64, kind string, board []string, players ...string) *Session {
	now := time.Now().UTC()

	return &Session{
		ID:        id,
		Number:    number,
		Kind:      kind,
		Board:     board,
		Outcome:   InProgress.String(),
		Turn:      SideX.String(),
		Players:   players,
		StartedAt: now,
		UpdatedAt: now,
	}
}

func (that *Session) IsWithComputer() bool {
	return that.Kind == KindComputer
}
