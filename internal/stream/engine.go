package stream

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/san-kum/bouncesim/internal/sim"
)

var ErrEngineStopped = errors.New("stream: engine stopped")

// Engine owns a simulator on a single goroutine. Everything else reaches
// the simulator through Do.
type Engine struct {
	sim      *sim.Simulator
	dt       float64
	interval time.Duration
	hub      *Hub
	log      *slog.Logger

	cmds    chan func(*sim.Simulator)
	stopped chan struct{}
	tick    uint64
}

// NewEngine advances s by dt fps times a second and broadcasts each frame
// on hub.
func NewEngine(s *sim.Simulator, dt float64, fps int, hub *Hub, log *slog.Logger) *Engine {
	if fps <= 0 {
		fps = 30
	}
	return &Engine{
		sim:      s,
		dt:       dt,
		interval: time.Second / time.Duration(fps),
		hub:      hub,
		log:      log,
		cmds:     make(chan func(*sim.Simulator)),
		stopped:  make(chan struct{}),
	}
}

// Run blocks until ctx is done.
func (e *Engine) Run(ctx context.Context) error {
	defer close(e.stopped)

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	e.log.Info("engine started", "dt", e.dt, "interval", e.interval)
	for {
		select {
		case <-ctx.Done():
			e.log.Info("engine stopped", "ticks", e.tick)
			return ctx.Err()
		case fn := <-e.cmds:
			fn(e.sim)
		case <-ticker.C:
			e.step()
		}
	}
}

func (e *Engine) step() {
	e.sim.Advance(e.dt)
	e.tick++
	if e.hub.Len() == 0 {
		return
	}
	data, err := EncodeFrame(NewWireFrame(e.tick, e.sim))
	if err != nil {
		e.log.Warn("encode frame", "err", err)
		return
	}
	e.hub.Broadcast(data)
}

// Do runs fn on the engine goroutine and waits for it to finish.
func (e *Engine) Do(ctx context.Context, fn func(*sim.Simulator)) error {
	done := make(chan struct{})
	cmd := func(s *sim.Simulator) {
		defer close(done)
		fn(s)
	}

	select {
	case e.cmds <- cmd:
	case <-e.stopped:
		return ErrEngineStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Frame captures the current state through Do.
func (e *Engine) Frame(ctx context.Context) (WireFrame, error) {
	var f WireFrame
	err := e.Do(ctx, func(s *sim.Simulator) {
		f = NewWireFrame(e.tick, s)
	})
	return f, err
}
