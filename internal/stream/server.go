package stream

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/san-kum/bouncesim/internal/dynamo"
	"github.com/san-kum/bouncesim/internal/sim"
)

const (
	commandTimeout  = 2 * time.Second
	shutdownTimeout = 5 * time.Second

	msgpackType = "application/msgpack"
)

type GravityRequest struct {
	X *float64 `json:"x" binding:"required"`
	Y *float64 `json:"y" binding:"required"`
}

type BarrierRequest struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

// Server exposes an Engine over HTTP and a websocket frame stream.
type Server struct {
	engine  *Engine
	hub     *Hub
	router  *gin.Engine
	log     *slog.Logger
	started time.Time
}

func NewServer(engine *Engine, hub *Hub, log *slog.Logger) *Server {
	s := &Server{
		engine:  engine,
		hub:     hub,
		router:  gin.New(),
		log:     log,
		started: time.Now(),
	}
	s.router.Use(gin.Recovery(), s.requestLog)
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.GET("/healthz", s.health)
	s.router.GET("/snapshot", s.snapshot)
	s.router.GET("/ws", s.websocket)
	s.router.POST("/gravity", s.gravity)
	s.router.POST("/restart", s.command(func(sm *sim.Simulator) { sm.Restart() }))
	s.router.POST("/pause", s.command(func(sm *sim.Simulator) { sm.Pause() }))
	s.router.POST("/run", s.command(func(sm *sim.Simulator) { sm.Run() }))
	s.router.POST("/barriers", s.barrier)
}

func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) requestLog(c *gin.Context) {
	start := time.Now()
	c.Next()
	s.log.Debug("request",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"status", c.Writer.Status(),
		"took", time.Since(start),
	)
}

// do runs fn on the engine and writes an error response if that fails.
func (s *Server) do(c *gin.Context, fn func(*sim.Simulator)) bool {
	ctx, cancel := context.WithTimeout(c.Request.Context(), commandTimeout)
	defer cancel()
	if err := s.engine.Do(ctx, fn); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return false
	}
	return true
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "bouncesim",
		"clients": s.hub.Len(),
		"dropped": s.hub.Dropped(),
		"uptime":  time.Since(s.started).String(),
	})
}

// snapshot answers with JSON, or msgpack when the client asks for it.
func (s *Server) snapshot(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), commandTimeout)
	defer cancel()
	f, err := s.engine.Frame(ctx)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	if c.GetHeader("Accept") == msgpackType {
		data, err := EncodeFrame(f)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Data(http.StatusOK, msgpackType, data)
		return
	}
	c.JSON(http.StatusOK, f)
}

func (s *Server) gravity(c *gin.Context) {
	var req GravityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	g := dynamo.Vec(*req.X, *req.Y)
	if !g.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "gravity must be finite"})
		return
	}

	var applied dynamo.Vector2
	if !s.do(c, func(sm *sim.Simulator) {
		sm.SetGravity(g)
		applied = sm.Gravity()
	}) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"x": applied.X(), "y": applied.Y()})
}

func (s *Server) barrier(c *gin.Context) {
	var req BarrierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var added bool
	if !s.do(c, func(sm *sim.Simulator) {
		added = sm.AddBarrier(dynamo.Vec(req.X1, req.Y1), dynamo.Vec(req.X2, req.Y2))
	}) {
		return
	}
	if !added {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "barrier rejected"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "added"})
}

func (s *Server) command(fn func(*sim.Simulator)) gin.HandlerFunc {
	return func(c *gin.Context) {
		var state string
		if !s.do(c, func(sm *sim.Simulator) {
			fn(sm)
			state = sm.State().String()
		}) {
			return
		}
		c.JSON(http.StatusOK, gin.H{"state": state})
	}
}

func (s *Server) websocket(c *gin.Context) {
	var first []byte
	ctx, cancel := context.WithTimeout(c.Request.Context(), commandTimeout)
	f, err := s.engine.Frame(ctx)
	cancel()
	if err == nil {
		first, _ = EncodeFrame(f)
	}
	if err := s.hub.ServeWS(c.Writer, c.Request, first); err != nil {
		s.log.Warn("websocket upgrade failed", "err", err)
	}
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.router}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.hub.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
