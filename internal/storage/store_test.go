package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/bouncesim/internal/dynamo"
	"github.com/san-kum/bouncesim/internal/sim"
)

func testSamples() []Sample {
	return []Sample{
		{Time: 0, Population: 1, Energy: 4.5, SubSteps: 1},
		{Time: 1, Population: 2, LostBalls: 1, Energy: 9.25, SubSteps: 19, Constraints: 6},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	meta := RunMetadata{
		Preset:     "pinball",
		Seed:       42,
		Dt:         1,
		Frames:     2,
		Width:      800,
		Height:     600,
		EndingWall: "bottom",
		Metrics:    map[string]float64{"population": 2},
	}
	runID, err := st.Save(meta, testSamples())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Fatal("expected non-empty run id")
	}

	loaded, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.ID != runID || loaded.Seed != 42 || loaded.EndingWall != "bottom" {
		t.Errorf("metadata mismatch: %+v", loaded)
	}
	if loaded.Metrics["population"] != 2 {
		t.Errorf("metrics lost: %v", loaded.Metrics)
	}

	samples, err := st.LoadSeries(runID)
	if err != nil {
		t.Fatalf("load series failed: %v", err)
	}
	want := testSamples()
	if len(samples) != len(want) {
		t.Fatalf("expected %d samples, got %d", len(want), len(samples))
	}
	for i := range want {
		if samples[i] != want[i] {
			t.Errorf("sample %d = %+v, want %+v", i, samples[i], want[i])
		}
	}
}

func TestStoreList(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)

	runs, err := st.List()
	if err != nil || len(runs) != 0 {
		t.Fatalf("empty store: %v, %v", runs, err)
	}

	first, err := st.Save(RunMetadata{Preset: "a"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	second, err := st.Save(RunMetadata{Preset: "b"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "junk"), 0755); err != nil {
		t.Fatal(err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != first || runs[1].ID != second {
		t.Errorf("runs out of order: %s, %s", runs[0].ID, runs[1].ID)
	}
}

func TestStoreLatest(t *testing.T) {
	st := New(t.TempDir())
	if _, err := st.Latest(); !errors.Is(err, ErrNoRuns) {
		t.Fatalf("empty store: err = %v, want ErrNoRuns", err)
	}

	if _, err := st.Save(RunMetadata{Preset: "a"}, nil); err != nil {
		t.Fatal(err)
	}
	second, err := st.Save(RunMetadata{Preset: "b"}, nil)
	if err != nil {
		t.Fatal(err)
	}

	latest, err := st.Latest()
	if err != nil {
		t.Fatal(err)
	}
	if latest.ID != second {
		t.Errorf("latest = %s, want %s", latest.ID, second)
	}
}

func TestLoadSeries_SkipsMalformedRows(t *testing.T) {
	dir := t.TempDir()
	runDir := filepath.Join(dir, "manual")
	if err := os.MkdirAll(runDir, 0755); err != nil {
		t.Fatal(err)
	}
	content := "time,population,lost,energy,substeps,constraints\n" +
		"0.0,1,0,1.5,1,0\n" +
		"oops,1,0,1.5,1,0\n" +
		"2.0,3\n" +
		"3.0,2,1,0.5,4,2\n"
	if err := os.WriteFile(filepath.Join(runDir, seriesFile), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	samples, err := New(dir).LoadSeries("manual")
	if err != nil {
		t.Fatal(err)
	}
	if len(samples) != 2 || samples[1].Constraints != 2 {
		t.Errorf("samples = %+v", samples)
	}
}

func TestRecorder(t *testing.T) {
	cfg := sim.DefaultConfig()
	s := sim.New(cfg)
	bounds := dynamo.Vec(800, 600)
	if err := s.Initialize(&bounds); err != nil {
		t.Fatal(err)
	}
	rec := NewRecorder(2)
	s.AddObserver(rec)
	s.Run()
	for i := 0; i < 10; i++ {
		s.Advance(1)
	}

	samples := rec.Samples()
	if len(samples) != 5 {
		t.Fatalf("expected 5 samples, got %d", len(samples))
	}
	if samples[len(samples)-1].Population == 0 {
		t.Error("population never recorded")
	}
}

func TestSeries(t *testing.T) {
	values, err := Series(testSamples(), "energy")
	if err != nil {
		t.Fatal(err)
	}
	if len(values) != 2 || values[1] != 9.25 {
		t.Errorf("energy series = %v", values)
	}

	for _, name := range SeriesNames {
		if _, err := Series(testSamples(), name); err != nil {
			t.Errorf("series %q: %v", name, err)
		}
	}
	if _, err := Series(testSamples(), "velocity"); err == nil {
		t.Error("expected error for unknown series")
	}
}

func TestExportJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportJSON(&buf, RunMetadata{ID: "x"}, testSamples()); err != nil {
		t.Fatal(err)
	}

	var got ExportData
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if got.Run.ID != "x" || got.Steps != 2 || len(got.Samples) != 2 {
		t.Errorf("export = %+v", got)
	}
}
