package sim

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/san-kum/bouncesim/internal/dynamo"
	"github.com/san-kum/bouncesim/internal/paint"
	"github.com/san-kum/bouncesim/internal/physics"
	"github.com/san-kum/bouncesim/internal/solver"
)

// Simulator owns the arena, its entities, the collision grid and the
// constraint solver. It is not safe for concurrent use; hosts drive it from
// one goroutine and hand Snapshot values to other goroutines.
type Simulator struct {
	cfg Config
	log *slog.Logger
	rng *rand.Rand

	state          State
	resumeAfter    bool
	restartPending bool

	arena     physics.Arena
	hasBounds bool
	grid      *physics.CollisionGrid
	solver    *solver.Solver
	factory   *physics.BallFactory
	lostText  *physics.LostBallsText

	entities []physics.Entity
	balls    []*physics.Ball
	removals map[physics.EntityID]bool
	nextID   physics.EntityID

	gravity   dynamo.Vector2
	simTime   float64
	lost      int
	lastSteps int

	advances  int
	perfSteps int
	perfStart time.Time

	metrics   []Metric
	observers []Observer
}

type Option func(*Simulator)

// WithLogger routes simulator logs to l. The default discards them.
func WithLogger(l *slog.Logger) Option {
	return func(s *Simulator) { s.log = l }
}

// WithRand replaces the spawn random source, which is otherwise seeded
// from Config.Seed.
func WithRand(r *rand.Rand) Option {
	return func(s *Simulator) { s.rng = r }
}

func New(cfg Config, opts ...Option) *Simulator {
	s := &Simulator{
		cfg:      cfg,
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		rng:      rand.New(rand.NewSource(cfg.Seed)),
		removals: make(map[physics.EntityID]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Metrics returns the current value of every attached metric.
func (s *Simulator) Metrics() map[string]float64 {
	out := make(map[string]float64, len(s.metrics))
	for _, m := range s.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}

func (s *Simulator) Config() Config { return s.cfg }

// Initialize sets up a fresh world inside bounds. A nil bounds reuses the
// last valid ones. On failure the simulator stays where it was and returns
// an error wrapping dynamo.ErrInvalidBounds.
func (s *Simulator) Initialize(bounds *dynamo.Vector2) error {
	if bounds != nil {
		arena := physics.NewArena(*bounds)
		if !arena.Valid() {
			return fmt.Errorf("%w: %v", dynamo.ErrInvalidBounds, *bounds)
		}
		s.arena = arena
		s.hasBounds = true
	} else if !s.hasBounds {
		return fmt.Errorf("%w: no bounds known yet", dynamo.ErrInvalidBounds)
	}

	if err := s.reset(); err != nil {
		s.state = StateUninitialized
		return err
	}
	s.state = StateInitialized
	s.log.Info("simulator initialized",
		"width", s.arena.Width(),
		"height", s.arena.Height(),
		"cell", s.grid.MinCellDimension(),
		"ending_wall", s.cfg.EndingWall.String(),
	)
	return nil
}

func (s *Simulator) reset() error {
	s.grid = physics.NewCollisionGrid(s.cfg.CellSize())
	s.solver = solver.New(s.cfg.Solver, s.markForRemoval)
	s.factory = physics.NewBallFactory(s.cfg.Ball)
	s.entities = nil
	s.balls = nil
	s.removals = make(map[physics.EntityID]bool)
	s.nextID = 1
	s.simTime = 0
	s.lost = 0
	s.lastSteps = 0
	s.lostText = nil

	walls, err := s.arena.Walls(s.cfg.WallWidth, s.cfg.WallRestitution, s.cfg.EndingWall)
	if err != nil {
		return err
	}
	for _, w := range walls {
		s.addStatic(w)
	}
	if s.cfg.EndingWall != physics.WallNone {
		s.lostText = physics.NewLostBallsText()
		s.register(s.lostText)
	}
	return nil
}

// Run starts or resumes stepping.
func (s *Simulator) Run() {
	if s.state == StateInitialized || s.state == StatePaused {
		s.state = StateRunning
	}
}

func (s *Simulator) Pause() {
	if s.state == StateRunning {
		s.state = StatePaused
	}
}

// Restart schedules a re-initialization with the current bounds. It takes
// effect at the start of the next Advance, which does nothing else.
//
// A simulator that was RUNNING when Restart was called is RUNNING again
// after the re-initialization. From any other state it is left INITIALIZED
// and the host must call Run.
func (s *Simulator) Restart() {
	s.restartPending = true
	s.resumeAfter = s.state == StateRunning
}

// Resize is accepted and ignored; the arena keeps the bounds it was
// initialized with.
func (s *Simulator) Resize(width, height float64) {
	s.log.Debug("resize ignored", "width", width, "height", height)
}

// SetGravity sets the ambient gravity to v scaled by Config.GravityStrength.
func (s *Simulator) SetGravity(v dynamo.Vector2) {
	s.gravity = v.Scale(s.cfg.GravityStrength)
	for _, b := range s.balls {
		b.SetGravity(s.gravity)
	}
}

func (s *Simulator) Gravity() dynamo.Vector2 { return s.gravity }

func (s *Simulator) State() State { return s.state }

func (s *Simulator) Population() int { return len(s.balls) }

func (s *Simulator) SimulationTime() float64 { return s.simTime }

// LostBalls counts balls removed by the ending wall or ending barriers.
func (s *Simulator) LostBalls() int { return s.lost }

// SubSteps is the number of sub-steps taken by the last stepped Advance.
func (s *Simulator) SubSteps() int { return s.lastSteps }

func (s *Simulator) Constraints() int {
	if s.solver == nil {
		return 0
	}
	return s.solver.Len()
}

// Advance moves the world forward by dt. It does nothing unless running,
// except apply a pending restart.
func (s *Simulator) Advance(dt float64) {
	if s.restartPending {
		s.applyRestart()
		return
	}
	if s.state != StateRunning || !(dt > 0) {
		return
	}

	s.trySpawn()

	n, h := s.subSteps(dt)
	for i := 0; i < n; i++ {
		s.subStep(h)
	}
	s.lastSteps = n
	s.perfSteps += n

	s.advances++
	s.reportPerformance()
	s.notify()
}

func (s *Simulator) applyRestart() {
	s.restartPending = false
	resume := s.resumeAfter
	s.resumeAfter = false
	if err := s.Initialize(nil); err != nil {
		s.log.Warn("restart failed", "err", err)
		return
	}
	if resume {
		s.state = StateRunning
	}
	s.log.Info("simulator restarted", "running", resume)
}

// subSteps splits dt into n equal chunks no longer than MaxSubStep.
func (s *Simulator) subSteps(dt float64) (int, float64) {
	limit := s.MaxSubStep()
	if math.IsInf(limit, 1) || dt <= limit {
		return 1, dt
	}
	n := int(math.Ceil(dt / limit))
	return n, dt / float64(n)
}

// MaxSubStep is the longest sub-step for which no ball can move more than
// half a grid cell minus its radius, with a √2 margin on its speed limit.
// It is +Inf when nothing moves.
func (s *Simulator) MaxSubStep() float64 {
	if len(s.balls) == 0 || s.grid == nil {
		return math.Inf(1)
	}
	var maxRadius, maxSpeed float64
	for _, b := range s.balls {
		maxRadius = math.Max(maxRadius, b.BoundingRadius())
		speed := b.SpeedLimit()
		if math.IsInf(speed, 1) {
			speed = b.Velocity.Mag()
		}
		maxSpeed = math.Max(maxSpeed, speed)
	}
	if maxSpeed == 0 {
		return math.Inf(1)
	}
	limit := (s.grid.MinCellDimension()/2 - maxRadius) / (math.Sqrt2 * maxSpeed)
	if !(limit > 0) {
		s.log.Warn("no safe sub-step, ball too large for grid", "radius", maxRadius, "cell", s.grid.MinCellDimension())
		return math.Inf(1)
	}
	return limit
}

func (s *Simulator) subStep(h float64) {
	for _, b := range s.balls {
		b.MarkGrid(s.grid)
	}
	s.solver.Step(s.grid, s.balls, h)
	for _, b := range s.balls {
		b.UnmarkGrid(s.grid)
	}
	s.removeMarked()
	for _, b := range s.balls {
		b.Travel(h)
	}
	s.simTime += h
}

func (s *Simulator) markForRemoval(b *physics.Ball) {
	s.removals[b.ID()] = true
}

func (s *Simulator) removeMarked() {
	if len(s.removals) == 0 {
		return
	}
	kept := s.balls[:0]
	for _, b := range s.balls {
		if s.removals[b.ID()] {
			s.solver.Forget(b.ID())
			s.lost++
			continue
		}
		kept = append(kept, b)
	}
	for i := len(kept); i < len(s.balls); i++ {
		s.balls[i] = nil
	}
	s.balls = kept

	entities := s.entities[:0]
	for _, e := range s.entities {
		if !s.removals[e.ID()] {
			entities = append(entities, e)
		}
	}
	for i := len(entities); i < len(s.entities); i++ {
		s.entities[i] = nil
	}
	s.entities = entities

	if s.lostText != nil {
		s.lostText.Count = s.lost
	}
	s.log.Debug("balls removed", "count", len(s.removals), "lost", s.lost)
	clear(s.removals)
}

func (s *Simulator) trySpawn() {
	if len(s.balls) >= s.cfg.PopulationLimit {
		return
	}
	if s.simTime < float64(len(s.balls))*s.cfg.SpawnInterval {
		return
	}

	b := s.factory.Create()
	b.Position, b.Velocity = s.arena.SpawnPose(s.rng, s.cfg.SpawnMinSpeed, s.cfg.SpawnMaxSpeed)
	if s.overlapsAny(b) {
		s.log.Debug("spawn rejected", "pos", b.Position.String())
		return
	}
	s.addBall(b)
}

// AddBall places b in the world if it fits the grid and overlaps nothing.
func (s *Simulator) AddBall(b *physics.Ball) bool {
	if s.state == StateUninitialized || b == nil {
		return false
	}
	if 2*b.Radius >= s.grid.MinCellDimension() || !b.Position.IsValid() {
		return false
	}
	if s.overlapsAny(b) {
		return false
	}
	s.addBall(b)
	return true
}

// AddBarrier adds a player barrier from start to end. Segments shorter than
// physics.MinBarrierLength are refused.
func (s *Simulator) AddBarrier(start, end dynamo.Vector2) bool {
	if s.state == StateUninitialized {
		return false
	}
	w, err := physics.NewPlayerBarrier(start, end, s.cfg.BarrierRestitution)
	if err != nil {
		s.log.Debug("barrier rejected", "err", err)
		return false
	}
	s.addStatic(w)
	return true
}

func (s *Simulator) overlapsAny(b *physics.Ball) bool {
	for _, e := range s.entities {
		if c, ok := e.(physics.Collidable); ok && c.Collided(b) {
			return true
		}
	}
	return false
}

func (s *Simulator) register(e physics.Entity) {
	e.SetID(s.nextID)
	s.nextID++
	s.entities = append(s.entities, e)
}

func (s *Simulator) addBall(b *physics.Ball) {
	b.SetGravity(s.gravity)
	s.register(b)
	s.balls = append(s.balls, b)
}

// addStatic registers a collidable that never moves and marks it on the grid once.
func (s *Simulator) addStatic(c physics.Collidable) {
	s.register(c)
	c.MarkGrid(s.grid)
}

// Snapshot projects the world into drawable primitives. The result shares
// no memory with the simulator.
func (s *Simulator) Snapshot() paint.ShapeList {
	if s.state == StateUninitialized {
		return paint.ShapeList{}
	}
	out := paint.ShapeList{
		UpperLeft:  paint.PointOf(s.arena.Lower),
		LowerRight: paint.PointOf(s.arena.Upper),
		Items:      make([]paint.Shape, 0, len(s.entities)),
	}
	for _, e := range s.entities {
		if p, ok := e.(physics.Paintable); ok {
			out.Items = append(out.Items, p.Shape())
		}
	}
	return out
}

// Bodies copies the state of every ball.
func (s *Simulator) Bodies() []BodyState {
	out := make([]BodyState, len(s.balls))
	for i, b := range s.balls {
		out[i] = BodyState{
			ID:       b.ID(),
			Position: b.Position,
			Velocity: b.Velocity,
			Radius:   b.Radius,
		}
	}
	return out
}

// KineticEnergy is the total kinetic energy of all balls.
func (s *Simulator) KineticEnergy() float64 {
	var e float64
	for _, b := range s.balls {
		e += b.KineticEnergy()
	}
	return e
}

// NextContactTime returns the earliest predicted contact between any ball
// and its grid neighbors, or dynamo.NoCollision.
func (s *Simulator) NextContactTime() float64 {
	if s.state == StateUninitialized || len(s.balls) == 0 {
		return dynamo.NoCollision
	}
	for _, b := range s.balls {
		b.MarkGrid(s.grid)
	}
	defer func() {
		for _, b := range s.balls {
			b.UnmarkGrid(s.grid)
		}
	}()

	best := math.Inf(1)
	for _, b := range s.balls {
		for _, other := range b.PotentialColliders(s.grid) {
			if t := b.CollisionTime(other); t >= 0 && t < best {
				best = t
			}
		}
	}
	if math.IsInf(best, 1) {
		return dynamo.NoCollision
	}
	return best
}

// Frame captures the current state for observers.
func (s *Simulator) Frame() Frame {
	return Frame{
		Time:        s.simTime,
		Population:  len(s.balls),
		LostBalls:   s.lost,
		SubSteps:    s.lastSteps,
		Constraints: s.Constraints(),
		Bodies:      s.Bodies(),
	}
}

func (s *Simulator) notify() {
	if len(s.metrics) == 0 && len(s.observers) == 0 {
		return
	}
	f := s.Frame()
	for _, m := range s.metrics {
		m.Observe(f)
	}
	for _, o := range s.observers {
		o.OnStep(f)
	}
}

func (s *Simulator) reportPerformance() {
	every := s.cfg.PerfReportInterval
	if every <= 0 {
		return
	}
	if s.perfStart.IsZero() {
		s.perfStart = time.Now()
	}
	if s.advances%every != 0 {
		return
	}

	st := s.solver.Stats()
	balls := max(len(s.balls), 1)
	perBall := func(d time.Duration) int64 {
		return d.Nanoseconds() / int64(balls*every)
	}
	s.log.Debug("performance",
		"balls", len(s.balls),
		"constraints", s.solver.Len(),
		"substeps", s.perfSteps,
		"wall_ms", time.Since(s.perfStart).Milliseconds(),
		"add_ns_per_ball", perBall(st.AddTime),
		"impulse_ns_per_ball", perBall(st.ImpulseTime),
		"purge_ns_per_ball", perBall(st.PurgeTime),
		"impulses", st.Impulses,
	)
	s.solver.ResetStats()
	s.perfSteps = 0
	s.perfStart = time.Now()
}

// RunFrames drives the simulator for a fixed number of frames, stopping
// early if ctx is cancelled.
func (s *Simulator) RunFrames(ctx context.Context, frames int, dt float64) error {
	if s.state == StateUninitialized {
		return dynamo.ErrNotRunning
	}
	s.Run()
	for i := 0; i < frames; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		s.Advance(dt)
	}
	return nil
}
