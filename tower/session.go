package tower

import (
	"fmt"

	"github.com/google/uuid"
)

// EndReason says why a session ended.
type EndReason uint8

const (
	ReasonNone EndReason = iota
	ReasonCollapse
	ReasonHeight
)

func (r EndReason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonCollapse:
		return "collapse"
	case ReasonHeight:
		return "height"
	}
	return fmt.Sprintf("EndReason(%d)", uint8(r))
}

// Session is the state of one play session. Restart replaces it wholesale.
type Session struct {
	ID          uuid.UUID
	Score       int
	TowerHeight float64
	GameOver    bool
	Reason      EndReason

	Landings      int
	LevelsCleared int
	MaxHeight     float64
}

// NewSession returns an empty session with a fresh id.
func NewSession() Session {
	return Session{ID: uuid.New()}
}
