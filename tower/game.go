package tower

import (
	"math/rand/v2"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/plus3/towerfall/ecs"
)

// Option configures a Game.
type Option func(*Game)

// WithLogger sets the logger. The default discards everything.
func WithLogger(log *zap.Logger) Option {
	return func(g *Game) {
		if log != nil {
			g.log = log
		}
	}
}

func WithScene(scene Scene) Option {
	return func(g *Game) {
		if scene != nil {
			g.scene = scene
		}
	}
}

func WithScoreboard(board Scoreboard) Option {
	return func(g *Game) {
		if board != nil {
			g.board = board
		}
	}
}

// WithObserver adds an event observer. It may be given more than once.
func WithObserver(o Observer) Option {
	return func(g *Game) {
		if o != nil {
			g.observers = append(g.observers, o)
		}
	}
}

// WithCatalog restricts the shapes new pieces are drawn from.
func WithCatalog(shapes ...PieceShape) Option {
	return func(g *Game) {
		g.factory.SetCatalog(shapes...)
	}
}

// WithPalette restricts the colors new pieces are drawn from.
func WithPalette(colors ...Color) Option {
	return func(g *Game) {
		g.factory.SetPalette(colors...)
	}
}

// Game owns one play session: the storage holding the tower and the falling
// piece, the systems that move it, the state machine and the pending timers.
// A Game is driven by a single goroutine through Tick.
type Game struct {
	cfg       Config
	log       *zap.Logger
	scene     Scene
	board     Scoreboard
	observers []Observer

	storage   *ecs.Storage
	scheduler *ecs.Scheduler
	timers    *ecs.Timers
	machine   *StateMachine
	factory   *PieceFactory
	stability *StabilityModel
	resolver  CollisionResolver
	clearer   LineClearEngine
	tower     *Tower
	scatter   *rand.Rand

	session *ecs.Singleton[Session]
	input   *ecs.Singleton[Input]

	falling *ecs.EntityRef
	pending []ecs.TimerId

	started   bool
	closed    bool
	published bool
	lastScore int
	lastOver  bool
}

// NewGame validates cfg and builds a game ready to Start.
func NewGame(cfg Config, opts ...Option) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[PieceInfo](registry)
	ecs.RegisterComponent[Pose](registry)
	ecs.RegisterComponent[Falling](registry)
	ecs.RegisterComponent[Landed](registry)
	storage := ecs.NewStorage(registry)

	g := &Game{
		cfg:       cfg,
		log:       zap.NewNop(),
		scene:     nopScene{},
		board:     nopScoreboard{},
		storage:   storage,
		scheduler: ecs.NewScheduler(storage),
		factory:   NewPieceFactory(rand.New(rand.NewPCG(cfg.Seed, 1)), cfg.SpawnClearance),
		stability: NewStabilityModel(cfg.Stability, rand.New(rand.NewPCG(cfg.Seed, 2))),
		scatter:   rand.New(rand.NewPCG(cfg.Seed, 3)),
		resolver:  NewCollisionResolver(cfg.Tolerance),
		clearer:   LineClearEngine{Threshold: cfg.FullLevelCells},
		tower:     newTower(storage),
	}
	for _, opt := range opts {
		opt(g)
	}

	g.timers = g.scheduler.Timers()
	g.machine = NewStateMachine(g.log)
	ecs.NewSingleton(storage, cfg)
	g.session = ecs.NewSingleton(storage, NewSession())
	g.input = ecs.NewSingleton[Input](storage)

	g.scheduler.Register(&ControlSystem{tower: g.tower, resolver: g.resolver, land: g.land})
	g.scheduler.Register(&GravitySystem{tower: g.tower, resolver: g.resolver, land: g.land})
	g.scheduler.Register(&SceneSystem{scene: g.scene})
	return g, nil
}

// Start spawns the first piece. Calling it again has no effect.
func (g *Game) Start() {
	if g.started || g.closed {
		return
	}
	g.started = true
	g.logger().Info("session started", zap.Uint64("seed", g.cfg.Seed))
	g.spawn()
	g.publish()
}

// Tick advances the game by one fixed step of dt seconds with the given input.
// Gravity moves a constant distance per tick; dt only drives the timers.
func (g *Game) Tick(dt float64, in Input) {
	if g.closed {
		return
	}
	if !g.started {
		g.Start()
	}
	if in.Restart {
		g.Restart()
	}

	*g.input.Get() = in
	g.scheduler.Once(dt)
	g.publish()
}

// HardDrop lands the falling piece at once. Without a falling piece it does nothing.
func (g *Game) HardDrop() {
	if g.closed {
		return
	}
	g.land()
	g.publish()
}

// Restart begins a fresh session. It only works once the game is over.
func (g *Game) Restart() {
	if g.closed {
		return
	}
	if g.machine.Phase() != PhaseGameOver {
		g.log.Debug("restart ignored", zap.Stringer("phase", g.machine.Phase()))
		return
	}

	cancelled := g.cancelPending()
	for _, id := range g.tower.reset() {
		g.scene.Detach(id)
	}
	g.dropFalling()

	old := g.session.Get().ID
	*g.session.Get() = NewSession()
	g.machine.Transition(PhaseSpawning)
	g.logger().Info("session restarted",
		zap.Stringer("previous", old),
		zap.Int("cancelled_timers", cancelled))
	for _, o := range g.observers {
		o.Restarted()
	}

	g.spawn()
	g.publish()
}

// Close cancels pending timers and detaches every piece from the scene.
// The game ignores all calls afterwards.
func (g *Game) Close() {
	if g.closed {
		return
	}
	g.cancelPending()
	for _, id := range g.tower.reset() {
		g.scene.Detach(id)
	}
	g.dropFalling()
	g.closed = true
}

func (g *Game) Session() Session {
	return *g.session.Get()
}

func (g *Game) Phase() Phase {
	return g.machine.Phase()
}

func (g *Game) Tower() *Tower {
	return g.tower
}

func (g *Game) Config() Config {
	return g.cfg
}

// History returns the recent phase transitions, oldest first.
func (g *Game) History() []Transition {
	return g.machine.History()
}

// CollapseChance returns the probability that the next landing at the current
// height topples the tower.
func (g *Game) CollapseChance() float64 {
	return g.stability.Chance(g.tower.Height())
}

// FallingPiece is a snapshot of the piece under player control.
type FallingPiece struct {
	Info    PieceInfo
	Pose    Pose
	Falling Falling
	Cells   []Vec3
}

// Falling returns the current falling piece, if there is one.
func (g *Game) Falling() (FallingPiece, bool) {
	e, ok := g.current()
	if !ok {
		return FallingPiece{}, false
	}
	info := *e.PieceInfo
	info.Offsets = slices.Clone(info.Offsets)
	return FallingPiece{
		Info:    info,
		Pose:    *e.Pose,
		Falling: *e.Falling,
		Cells:   e.Pose.CellCenters(e.Offsets),
	}, true
}

// Ghost returns where the falling piece would rest if dropped now.
func (g *Game) Ghost() (Pose, []Cell, bool) {
	e, ok := g.current()
	if !ok {
		return Pose{}, nil, false
	}
	pose, cells := g.resolver.Settle(e.Offsets, *e.Pose, g.tower)
	return pose, cells, true
}

// Stats reports runtime counters for debug views and reports.
type Stats struct {
	Frames        uint64
	PendingTimers int
	Pieces        int
	Rolls         int
	Collapses     int
	Storage       ecs.StorageStats
	Systems       *ecs.SchedulerStats
}

func (g *Game) Stats() Stats {
	rolls, collapses := g.stability.Rolls()
	return Stats{
		Frames:        g.scheduler.Frames(),
		PendingTimers: g.timers.Pending(),
		Pieces:        g.factory.Created(),
		Rolls:         rolls,
		Collapses:     collapses,
		Storage:       g.storage.CollectStats(),
		Systems:       g.scheduler.GetStats(),
	}
}

// Storage exposes the game's entities to inspection tools. Structural edits
// made through it bypass the game's own bookkeeping.
func (g *Game) Storage() *ecs.Storage {
	return g.storage
}

func (g *Game) current() (fallingEntity, bool) {
	id, ok := g.storage.ResolveEntityRef(g.falling)
	if !ok || !g.storage.HasComponent(id, fallingType) {
		return fallingEntity{}, false
	}
	return fallingEntity{
		PieceInfo: ecs.ReadComponent[PieceInfo](g.storage, id),
		Pose:      ecs.ReadComponent[Pose](g.storage, id),
		Falling:   ecs.ReadComponent[Falling](g.storage, id),
	}, true
}

func (g *Game) spawn() {
	if g.machine.Phase() == PhaseGameOver {
		g.log.Debug("spawn ignored after game over")
		return
	}
	if _, ok := g.current(); ok {
		return
	}
	if g.machine.Phase() != PhaseSpawning && !g.machine.Transition(PhaseSpawning) {
		return
	}

	piece := g.factory.CreatePiece(g.tower.Height())
	id := g.storage.Spawn(piece.Info, piece.Pose, Falling{})
	g.falling = g.storage.CreateEntityRef(id)
	g.scene.Attach(piece.View())
	g.scene.Place(piece.Info.ID, piece.Pose)
	g.machine.Transition(PhaseFalling)

	g.logger().Debug("piece spawned",
		zap.Uint32("piece", uint32(piece.Info.ID)),
		zap.Stringer("shape", piece.Info.Shape),
		zap.Stringer("color", piece.Info.Color),
		zap.Float64("y", piece.Pose.Origin.Y))
}

// land settles the falling piece into the tower and resolves the landing.
func (g *Game) land() {
	if g.machine.Phase() != PhaseFalling {
		return
	}
	e, ok := g.current()
	if !ok {
		return
	}
	id, _ := g.storage.ResolveEntityRef(g.falling)

	pose, cells := g.resolver.Settle(e.Offsets, *e.Pose, g.tower)
	pieceID := e.ID
	id = g.tower.land(id, pose, cells)
	g.storage.InvalidateEntityRef(g.falling)
	g.falling = nil
	g.machine.Transition(PhaseLanded)
	info := *ecs.ReadComponent[PieceInfo](g.storage, id)
	g.scene.Attach(PieceView{ID: pieceID, Shape: info.Shape, Color: info.Color, Offsets: info.Offsets, State: StateLanded})
	g.scene.Place(pieceID, pose)

	sess := g.session.Get()
	sess.Landings++
	g.syncHeight()

	g.logger().Info("piece landed",
		zap.Uint32("piece", uint32(pieceID)),
		zap.Int("level", cells[0].Y),
		zap.Float64("height", sess.TowerHeight))

	if len(g.observers) > 0 {
		landed := LandedPiece{Entity: id, Info: info, Pose: pose, Cells: cells}
		if l := ecs.ReadComponent[Landed](g.storage, id); l != nil {
			landed.Seq = l.Seq
		}
		for _, o := range g.observers {
			o.Landed(landed)
		}
	}

	g.resolveLanding()
}

// resolveLanding runs the clear, the stability roll and the height check, in
// that order, and reaches exactly one of collapse, game over or respawn.
func (g *Game) resolveLanding() {
	sess := g.session.Get()

	g.machine.Transition(PhaseClearing)
	if result := g.clearer.Evaluate(g.tower); result.Count() > 0 {
		g.applyClear(result)
	}
	g.machine.Transition(PhaseLanded)

	if !g.stability.Evaluate(sess.TowerHeight) {
		g.collapse()
		return
	}
	if sess.TowerHeight > g.cfg.HeightCeiling {
		g.endGame(ReasonHeight)
		return
	}
	g.schedule(g.cfg.RespawnDelay, g.spawn)
}

func (g *Game) applyClear(result ClearResult) {
	sess := g.session.Get()
	sess.Score += g.cfg.LevelBonus * result.Count()
	sess.LevelsCleared += result.Count()
	g.syncHeight()

	for _, id := range result.Removed {
		g.scene.Detach(id)
	}
	reshaped := make(map[PieceID]bool, len(result.Reshaped))
	for _, id := range result.Reshaped {
		reshaped[id] = true
	}
	for _, p := range g.tower.Pieces() {
		if reshaped[p.Info.ID] {
			g.scene.Detach(p.Info.ID)
			g.scene.Attach(PieceView{ID: p.Info.ID, Shape: p.Info.Shape, Color: p.Info.Color, Offsets: p.Info.Offsets, State: StateLanded})
		}
		if slices.Contains(result.Moved, p.Info.ID) {
			g.scene.Place(p.Info.ID, p.Pose)
		}
	}

	g.logger().Info("levels cleared",
		zap.Ints("levels", result.Levels),
		zap.Int("removed", len(result.Removed)),
		zap.Int("score", sess.Score),
		zap.Float64("height", sess.TowerHeight))
	for _, o := range g.observers {
		o.Cleared(result.Count())
	}
}

// collapse knocks every tower piece askew, one after another, then ends the game.
func (g *Game) collapse() {
	if !g.machine.Transition(PhaseCollapsing) {
		return
	}
	g.logger().Info("tower collapsed",
		zap.Float64("height", g.session.Get().TowerHeight),
		zap.Int("pieces", g.tower.Len()))
	for _, o := range g.observers {
		o.Collapsed()
	}

	for i, p := range g.tower.Pieces() {
		entity, id := p.Entity, p.Info.ID
		g.schedule(time.Duration(i)*g.cfg.CollapseStagger, func() {
			g.scatterPiece(entity, id)
		})
	}
	g.schedule(g.cfg.CollapseDelay, func() {
		g.endGame(ReasonCollapse)
	})
}

// scatterPiece moves a landed piece sideways and tilts it. Its lattice cells
// are left alone: the tower is only knocked over visually.
func (g *Game) scatterPiece(entity ecs.EntityId, id PieceID) {
	info := ecs.ReadComponent[PieceInfo](g.storage, entity)
	pose := ecs.ReadComponent[Pose](g.storage, entity)
	if info == nil || pose == nil || info.ID != id {
		return
	}
	r := g.cfg.ScatterRadius
	pose.Origin.X += (g.scatter.Float64()*2 - 1) * r
	pose.Origin.Z += (g.scatter.Float64()*2 - 1) * r
	pose.TiltX = g.scatter.Float64()
	pose.TiltZ = g.scatter.Float64()
	g.scene.Place(id, *pose)
}

func (g *Game) endGame(reason EndReason) {
	if !g.machine.Transition(PhaseGameOver) {
		return
	}
	sess := g.session.Get()
	sess.GameOver = true
	sess.Reason = reason

	g.logger().Info("game over",
		zap.Stringer("reason", reason),
		zap.Int("score", sess.Score),
		zap.Float64("height", sess.TowerHeight),
		zap.Int("landings", sess.Landings))
	for _, o := range g.observers {
		o.GameOver(reason)
	}
	g.publish()
}

func (g *Game) syncHeight() {
	sess := g.session.Get()
	sess.TowerHeight = g.tower.Height()
	sess.MaxHeight = max(sess.MaxHeight, sess.TowerHeight)
}

// schedule runs fn after delay and tracks the timer so Restart can cancel it.
func (g *Game) schedule(delay time.Duration, fn func()) {
	g.pending = slices.DeleteFunc(g.pending, func(id ecs.TimerId) bool {
		return !g.timers.Scheduled(id)
	})
	g.pending = append(g.pending, g.timers.After(delay, fn))
}

func (g *Game) cancelPending() int {
	n := 0
	for _, id := range g.pending {
		if g.timers.Cancel(id) {
			n++
		}
	}
	g.pending = nil
	return n
}

func (g *Game) dropFalling() {
	if id, ok := g.storage.ResolveEntityRef(g.falling); ok {
		if info := ecs.ReadComponent[PieceInfo](g.storage, id); info != nil {
			g.scene.Detach(info.ID)
		}
		g.storage.Delete(id)
	}
	g.falling = nil
}

// publish pushes score and game-over to the scoreboard when either changed.
func (g *Game) publish() {
	sess := g.session.Get()
	if g.published && sess.Score == g.lastScore && sess.GameOver == g.lastOver {
		return
	}
	g.published = true
	g.lastScore, g.lastOver = sess.Score, sess.GameOver
	g.board.Update(sess.Score, sess.GameOver)
}

func (g *Game) logger() *zap.Logger {
	return g.log.With(zap.Stringer("session", g.session.Get().ID))
}
