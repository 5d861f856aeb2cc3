package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/bouncesim/internal/dynamo"
	"github.com/san-kum/bouncesim/internal/paint"
	"github.com/san-kum/bouncesim/internal/physics"
	"github.com/san-kum/bouncesim/internal/sim"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Ball.Radius != 30 {
		t.Errorf("expected radius 30, got %v", cfg.Ball.Radius)
	}
	if cfg.Run.Dt <= 0 {
		t.Error("dt should be positive")
	}

	want := sim.DefaultConfig()
	got := cfg.SimConfig()
	if got.Ball != want.Ball || got.Solver != want.Solver || got.GridScale != want.GridScale {
		t.Errorf("SimConfig drifted from sim defaults:\n got %+v\nwant %+v", got, want)
	}
}

func TestLoadSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bouncesim.yaml")

	cfg := DefaultConfig()
	cfg.Arena.Width = 1024
	cfg.World.EndingWall = "left"
	cfg.Solver.Iterations = 5
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Arena.Width != 1024 || loaded.World.EndingWall != "left" || loaded.Solver.Iterations != 5 {
		t.Errorf("round trip lost fields: %+v", loaded)
	}
	if loaded.SimConfig().EndingWall != physics.WallLeft {
		t.Errorf("ending wall = %v", loaded.SimConfig().EndingWall)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("spawn:\n  limit: 7\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Spawn.Limit != 7 {
		t.Errorf("limit = %d, want 7", cfg.Spawn.Limit)
	}
	if cfg.Ball.Radius != physics.BaseBallRadius {
		t.Errorf("radius default lost: %v", cfg.Ball.Radius)
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("arena: [1, 2"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"zero width", func(c *Config) { c.Arena.Width = 0 }, dynamo.ErrInvalidBounds},
		{"unknown wall", func(c *Config) { c.World.EndingWall = "ceiling" }, dynamo.ErrInvalidParameter},
		{"zero dt", func(c *Config) { c.Run.Dt = 0 }, dynamo.ErrInvalidParameter},
		{"grid scale", func(c *Config) { c.World.GridScale = 0.9 }, dynamo.ErrInvalidParameter},
		{"slop", func(c *Config) { c.Solver.Slop = -1 }, dynamo.ErrInvalidParameter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestValidate_ReportsEveryField(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Run.Dt = 0
	cfg.Run.FPS = 0
	cfg.Ball.Colors = 0

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	var joined interface{ Unwrap() []error }
	if !errors.As(err, &joined) || len(joined.Unwrap()) < 3 {
		t.Errorf("expected at least 3 joined errors, got %v", err)
	}
}

func TestPresets(t *testing.T) {
	names := ListPresets()
	if len(names) != len(Presets) {
		t.Fatalf("ListPresets returned %d names", len(names))
	}
	for _, name := range names {
		cfg := GetPreset(name)
		if cfg == nil {
			t.Fatalf("preset %q missing", name)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("preset %q invalid: %v", name, err)
		}
	}

	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if GetPreset("pinball").SimConfig().EndingWall != physics.WallBottom {
		t.Error("pinball preset should end at the bottom wall")
	}
	if GetPreset("default").Ball.Restitution != DefaultConfig().Ball.Restitution {
		t.Error("presets must not mutate shared state")
	}
}

func TestApplyEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	if err := os.WriteFile(envFile, []byte("BOUNCESIM_FPS=12\nBOUNCESIM_DATA=/tmp/runs\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvAddr, ":9999")
	t.Setenv(EnvFPS, "")
	t.Setenv(EnvData, "")
	os.Unsetenv(EnvFPS)
	os.Unsetenv(EnvData)

	cfg := DefaultConfig()
	if err := cfg.ApplyEnv(envFile, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}

	if cfg.Server.Addr != ":9999" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
	if cfg.Run.FPS != 12 {
		t.Errorf("fps = %d, want 12", cfg.Run.FPS)
	}
	if cfg.Run.DataDir != "/tmp/runs" {
		t.Errorf("data dir = %q", cfg.Run.DataDir)
	}
}

func TestNewSimulator(t *testing.T) {
	cfg := GetPreset("pinball")
	s, err := cfg.NewSimulator()
	if err != nil {
		t.Fatalf("NewSimulator: %v", err)
	}
	if s.State() != sim.StateRunning {
		t.Errorf("state = %v, want running", s.State())
	}
	want := cfg.Gravity().Scale(cfg.World.GravityStrength)
	if !s.Gravity().Equal(want) {
		t.Errorf("gravity = %v, want %v", s.Gravity(), want)
	}
	if s.Snapshot().Count(paint.KindText) != 1 {
		t.Error("pinball preset should show the lost counter")
	}

	bad := DefaultConfig()
	bad.Arena.Width = 0
	if _, err := bad.NewSimulator(); !errors.Is(err, dynamo.ErrInvalidBounds) {
		t.Errorf("expected ErrInvalidBounds, got %v", err)
	}
}

func TestSetParam(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		name  string
		value float64
		check func() bool
	}{
		{"iterations", 4.7, func() bool { return cfg.Solver.Iterations == 4 }},
		{"slop", 0.25, func() bool { return cfg.Solver.Slop == 0.25 }},
		{"radius", 12, func() bool { return cfg.Ball.Radius == 12 }},
		{"spawn_limit", 5, func() bool { return cfg.Spawn.Limit == 5 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := cfg.SetParam(tt.name, tt.value); err != nil {
				t.Fatal(err)
			}
			if !tt.check() {
				t.Errorf("%s not applied", tt.name)
			}
		})
	}

	if err := cfg.SetParam("gravity", 1); !errors.Is(err, dynamo.ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter, got %v", err)
	}
	names := ParamNames()
	if len(names) == 0 || names[0] != "beta_ball_ball" {
		t.Errorf("ParamNames = %v", names)
	}
}
