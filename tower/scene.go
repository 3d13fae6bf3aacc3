package tower

// PieceView is what a scene needs to draw a piece.
type PieceView struct {
	ID      PieceID
	Shape   ShapeKind
	Color   Color
	Offsets []Cell
	State   PieceState
}

// Scene receives the pieces to draw. Attach is called once per piece and again
// when it lands or a line clear reshapes it; Place is called every tick for every attached piece.
type Scene interface {
	Attach(piece PieceView)
	Detach(id PieceID)
	Place(id PieceID, pose Pose)
}

// Scoreboard is told the score and game-over flag whenever either changes.
type Scoreboard interface {
	Update(score int, gameOver bool)
}

// Observer is notified of game events. Embed NopObserver to implement a subset.
type Observer interface {
	Landed(piece LandedPiece)
	Cleared(levels int)
	Collapsed()
	GameOver(reason EndReason)
	Restarted()
}

type NopObserver struct{}

func (NopObserver) Landed(LandedPiece) {}
func (NopObserver) Cleared(int)        {}
func (NopObserver) Collapsed()         {}
func (NopObserver) GameOver(EndReason) {}
func (NopObserver) Restarted()         {}

type nopScene struct{}

func (nopScene) Attach(PieceView)    {}
func (nopScene) Detach(PieceID)      {}
func (nopScene) Place(PieceID, Pose) {}

type nopScoreboard struct{}

func (nopScoreboard) Update(int, bool) {}
