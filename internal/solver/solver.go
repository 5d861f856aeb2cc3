package solver

import (
	"time"

	"github.com/san-kum/bouncesim/internal/physics"
)

// Stats accumulates counters and timings across steps until Reset.
type Stats struct {
	Steps       int
	Added       int
	Purged      int
	Impulses    int
	AddTime     time.Duration
	ImpulseTime time.Duration
	PurgeTime   time.Duration
}

func (s *Stats) Reset() { *s = Stats{} }

// Solver owns the constraint cache.
type Solver struct {
	params Params
	cache  map[PairKey]Constraint
	order  []PairKey
	onEnd  func(*physics.Ball)
	stats  Stats
}

// New returns a solver. onEnd is called once for every ball that touches an
// ending barrier; it may be nil.
func New(p Params, onEnd func(*physics.Ball)) *Solver {
	return &Solver{
		params: p,
		cache:  make(map[PairKey]Constraint),
		onEnd:  onEnd,
	}
}

func (s *Solver) Params() Params { return s.params }

// Len returns the number of cached constraints.
func (s *Solver) Len() int { return len(s.order) }

func (s *Solver) Stats() Stats { return s.stats }

func (s *Solver) ResetStats() { s.stats.Reset() }

// Lookup returns the cached constraint for the pair, in either order.
func (s *Solver) Lookup(a, b physics.EntityID) (Constraint, bool) {
	c, ok := s.cache[MakePairKey(a, b)]
	return c, ok
}

// Each visits cached constraints in creation order.
func (s *Solver) Each(fn func(Constraint)) {
	for _, k := range s.order {
		fn(s.cache[k])
	}
}

// Step resolves one time step of length dt. Balls must be marked on g.
func (s *Solver) Step(g *physics.CollisionGrid, balls []*physics.Ball, dt float64) {
	start := time.Now()
	s.addRequired(g, balls)
	s.stats.AddTime += time.Since(start)

	for _, k := range s.order {
		s.cache[k].ResetInitialQuantities()
	}

	for _, b := range balls {
		b.ApplyGravityAcceleration(dt)
	}

	start = time.Now()
	for _, k := range s.order {
		s.cache[k].WarmStart(s.params.WarmStartFactor)
	}
	for i := 0; i < s.params.Iterations; i++ {
		for _, k := range s.order {
			c := s.cache[k]
			if c.Satisfied() {
				continue
			}
			c.ApplyImpulse(c.EvalImpulse(dt))
			s.stats.Impulses++
		}
	}
	s.stats.ImpulseTime += time.Since(start)

	start = time.Now()
	s.ageAndPurge(dt)
	s.stats.PurgeTime += time.Since(start)
	s.stats.Steps++
}

func (s *Solver) addRequired(g *physics.CollisionGrid, balls []*physics.Ball) {
	for _, b := range balls {
		for _, other := range b.PotentialColliders(g) {
			key := MakePairKey(b.ID(), other.ID())
			if _, ok := s.cache[key]; ok {
				continue
			}
			switch o := other.(type) {
			case *physics.Ball:
				s.insert(key, NewBallBall(b, o, s.params))
			case *physics.Barrier:
				s.insert(key, NewBallBarrier(b, o, s.params, s.onEnd))
			}
		}
	}
}

func (s *Solver) insert(key PairKey, c Constraint) {
	s.cache[key] = c
	s.order = append(s.order, key)
	s.stats.Added++
}

func (s *Solver) ageAndPurge(dt float64) {
	kept := s.order[:0]
	for _, k := range s.order {
		c := s.cache[k]
		c.Age(dt)
		if c.TimedOut(s.params.IdleLifetime) {
			delete(s.cache, k)
			s.stats.Purged++
			continue
		}
		kept = append(kept, k)
	}
	s.order = kept
}

// Forget drops every constraint involving id. Call it when an entity leaves
// the world.
func (s *Solver) Forget(id physics.EntityID) {
	kept := s.order[:0]
	for _, k := range s.order {
		if k.Involves(id) {
			delete(s.cache, k)
			continue
		}
		kept = append(kept, k)
	}
	s.order = kept
}

// Clear drops the whole cache.
func (s *Solver) Clear() {
	s.cache = make(map[PairKey]Constraint)
	s.order = nil
}
