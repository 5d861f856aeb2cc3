package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/san-kum/bouncesim/internal/config"
	"github.com/san-kum/bouncesim/internal/export"
	"github.com/san-kum/bouncesim/internal/metrics"
	"github.com/san-kum/bouncesim/internal/optim"
	"github.com/san-kum/bouncesim/internal/sim"
	"github.com/san-kum/bouncesim/internal/storage"
	"github.com/san-kum/bouncesim/internal/stream"
	"github.com/san-kum/bouncesim/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	verbose    bool

	frames   int
	dt       float64
	seed     int64
	gravityX float64
	gravityY float64
	fps      int

	series      string
	outFile     string
	addr        string
	runs        int
	workers     int
	sampleEvery int
	tuneParams  []string
	tuneMetric  string
	maximize    bool
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "bouncesim",
		Short:         "balls bouncing in a box",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return viz.RunInteractive(cfg, nil)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "data directory (default from config or "+config.EnvData+")")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging on stderr")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a headless simulation and save its telemetry",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addWorldFlags(runCmd)
	runCmd.Flags().IntVar(&sampleEvery, "sample", 1, "record every nth frame")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a recorded series (latest run by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&series, "series", "population", "series to plot ("+strings.Join(storage.SeriesNames, ", ")+")")
	plotCmd.Flags().StringVar(&outFile, "svg", "", "also write the chart as SVG")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON (latest run by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg",
		Short: "run headless and write the final arena as SVG",
		Args:  cobra.NoArgs,
		RunE:  exportSVG,
	}
	addWorldFlags(exportSVGCmd)
	exportSVGCmd.Flags().StringVarP(&outFile, "out", "o", "arena.svg", "output file, - for stdout")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run the simulation in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addWorldFlags(liveCmd)
	liveCmd.Flags().IntVar(&fps, "fps", 0, "frame rate (default from config)")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "stream the simulation over websocket",
		Args:  cobra.NoArgs,
		RunE:  serve,
	}
	addWorldFlags(serveCmd)
	serveCmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config or "+config.EnvAddr+")")
	serveCmd.Flags().IntVar(&fps, "fps", 0, "frame rate (default from config)")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "run seeded simulations in parallel and report throughput",
		Args:  cobra.NoArgs,
		RunE:  bench,
	}
	addWorldFlags(benchCmd)
	benchCmd.Flags().IntVar(&runs, "runs", 8, "number of runs")
	benchCmd.Flags().IntVar(&workers, "workers", 0, "parallel workers (default NumCPU)")

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search parameters for the best metric value",
		Args:  cobra.NoArgs,
		RunE:  tune,
	}
	addWorldFlags(tuneCmd)
	tuneCmd.Flags().StringArrayVar(&tuneParams, "param", nil, "name=v1,v2,... (repeatable; one of "+strings.Join(config.ParamNames(), ", ")+")")
	tuneCmd.Flags().StringVar(&tuneMetric, "metric", "max_penetration", "metric to optimize")
	tuneCmd.Flags().BoolVar(&maximize, "maximize", false, "prefer larger metric values")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("presets:")
			for _, p := range config.ListPresets() {
				fmt.Printf("  %s\n", p)
			}
		},
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportJSONCmd, exportSVGCmd, liveCmd, serveCmd, benchCmd, tuneCmd, presetsCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addWorldFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&frames, "frames", config.DefaultFrames, "number of frames")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "frame timestep")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (default from config)")
	cmd.Flags().Float64Var(&gravityX, "gravity-x", 0, "gravity direction x")
	cmd.Flags().Float64Var(&gravityY, "gravity-y", 1, "gravity direction y")
}

func newLogger(w io.Writer) *slog.Logger {
	if !verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// loadConfig layers preset, config file, .env and flags, in that order.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if err := cfg.ApplyEnv(".env"); err != nil {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("frames") {
		cfg.Run.Frames = frames
	}
	if flags.Changed("dt") {
		cfg.Run.Dt = dt
	}
	if flags.Changed("seed") {
		cfg.Run.Seed = seed
	}
	if flags.Changed("gravity-x") {
		cfg.World.GravityX = gravityX
	}
	if flags.Changed("gravity-y") {
		cfg.World.GravityY = gravityY
	}
	if flags.Changed("fps") {
		cfg.Run.FPS = fps
	}
	if flags.Changed("addr") {
		cfg.Server.Addr = addr
	}
	if dataDir != "" {
		cfg.Run.DataDir = dataDir
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func presetName() string {
	if preset == "" {
		return "default"
	}
	return preset
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := newLogger(os.Stderr)

	st := storage.New(cfg.Run.DataDir)
	if err := st.Init(); err != nil {
		return err
	}

	s, err := cfg.NewSimulator(sim.WithLogger(log))
	if err != nil {
		return err
	}
	for _, m := range metrics.Standard(cfg.Solver.Slop) {
		s.AddMetric(m)
	}
	rec := storage.NewRecorder(sampleEvery)
	s.AddObserver(rec)

	fmt.Printf("running %s for %d frames...\n", presetName(), cfg.Run.Frames)
	start := time.Now()
	if err := s.RunFrames(cmd.Context(), cfg.Run.Frames, cfg.Run.Dt); err != nil {
		return err
	}
	elapsed := time.Since(start)

	meta := storage.RunMetadata{
		Preset:     presetName(),
		Seed:       cfg.Run.Seed,
		Dt:         cfg.Run.Dt,
		Frames:     cfg.Run.Frames,
		Width:      cfg.Arena.Width,
		Height:     cfg.Arena.Height,
		EndingWall: cfg.World.EndingWall,
		Metrics:    s.Metrics(),
	}
	runID, err := st.Save(meta, rec.Samples())
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("samples: %d\n", len(rec.Samples()))
	fmt.Println("\nmetrics:")
	printMetrics(meta.Metrics)

	if pop, err := storage.Series(rec.Samples(), "population"); err == nil {
		if chart := viz.PlotSeries(pop, "population", 60, 8); chart != "" {
			fmt.Println()
			fmt.Println(chart)
		}
	}
	return nil
}

func printMetrics(m map[string]float64) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, name := range sortedKeys(m) {
		fmt.Fprintf(w, "  %s\t%.6f\n", name, m[name])
	}
	w.Flush()
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func store(cmd *cobra.Command) (*storage.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return storage.New(cfg.Run.DataDir), nil
}

// resolveRunID picks the run named in args, or the latest one.
func resolveRunID(st *storage.Store, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	latest, err := st.Latest()
	if err != nil {
		return "", err
	}
	return latest.ID, nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st, err := store(cmd)
	if err != nil {
		return err
	}
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tFRAMES\tDT\tSEED\tARENA\tENDING")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.3f\t%d\t%.0fx%.0f\t%s\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Frames,
			run.Dt,
			run.Seed,
			run.Width, run.Height,
			run.EndingWall,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st, err := store(cmd)
	if err != nil {
		return err
	}
	runID, err := resolveRunID(st, args)
	if err != nil {
		return err
	}
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	samples, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("no data to plot")
	}
	values, err := storage.Series(samples, series)
	if err != nil {
		return err
	}

	fmt.Println(titleStyle.Render("run: " + meta.ID))
	fmt.Println(dimStyle.Render(fmt.Sprintf("preset: %s  samples: %d", meta.Preset, len(samples))))
	fmt.Println()
	fmt.Println(viz.PlotSeries(values, series+" vs time", 80, 10))

	if outFile != "" {
		svg := export.SeriesToSVG(values, 800, 300, "#00ff88")
		if err := os.WriteFile(outFile, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Printf("\nwrote %s\n", outFile)
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st, err := store(cmd)
	if err != nil {
		return err
	}
	runID, err := resolveRunID(st, args)
	if err != nil {
		return err
	}
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	samples, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, *meta, samples)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	s, err := cfg.NewSimulator(sim.WithLogger(newLogger(os.Stderr)))
	if err != nil {
		return err
	}
	if err := s.RunFrames(cmd.Context(), cfg.Run.Frames, cfg.Run.Dt); err != nil {
		return err
	}

	if outFile == "-" {
		return export.WriteSVG(os.Stdout, s.Snapshot())
	}
	f, err := os.Create(outFile)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := export.WriteSVG(f, s.Snapshot()); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%d balls, t=%.1f)\n", outFile, s.Population(), s.SimulationTime())
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	// the terminal belongs to the TUI, so logs are dropped
	s, err := cfg.NewSimulator()
	if err != nil {
		return err
	}
	return viz.RunLive(viz.NewModel(s, presetName(), cfg.Run.Dt, cfg.Run.FPS, cfg.Gravity()))
}

func serve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := newLogger(os.Stderr)
	s, err := cfg.NewSimulator(sim.WithLogger(log))
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	hub := stream.NewHub(log)
	engine := stream.NewEngine(s, cfg.Run.Dt, cfg.Run.FPS, hub, log)
	go engine.Run(ctx)

	fmt.Printf("serving %s on %s\n", presetName(), cfg.Server.Addr)
	return stream.NewServer(engine, hub, log).ListenAndServe(ctx, cfg.Server.Addr)
}

func bench(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ens := sim.NewEnsemble(cfg.SimConfig(), runs, cfg.Run.Seed)
	ens.Bounds = cfg.Bounds()
	ens.Gravity = cfg.Gravity()
	if workers > 0 {
		ens.Workers = workers
	}

	fmt.Printf("benchmarking %s: %d runs x %d frames\n", presetName(), runs, cfg.Run.Frames)
	start := time.Now()
	results, err := ens.Run(cmd.Context(), cfg.Run.Frames, cfg.Run.Dt)
	if err != nil {
		return err
	}
	wall := time.Since(start)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tBALLS\tLOST\tSUBSTEPS\tENERGY\tTIME\tSTEPS/S")
	var total int
	for _, r := range results {
		total += r.SubSteps
		fmt.Fprintf(w, "%d\t%d\t%d\t%d\t%.2f\t%v\t%.0f\n",
			r.Seed, r.Population, r.LostBalls, r.SubSteps, r.KineticEnergy,
			r.Elapsed.Round(time.Millisecond), r.StepsPerSecond())
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\ntotal: %d substeps in %v (%.0f steps/s)\n", total, wall.Round(time.Millisecond), float64(total)/wall.Seconds())
	return nil
}

// parseParam splits "name=v1,v2" into a name and its values.
func parseParam(spec string) (string, []float64, error) {
	name, list, ok := strings.Cut(spec, "=")
	if !ok || name == "" || list == "" {
		return "", nil, fmt.Errorf("bad --param %q, want name=v1,v2", spec)
	}
	var values []float64
	for _, field := range strings.Split(list, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return "", nil, fmt.Errorf("bad value in --param %q: %w", spec, err)
		}
		values = append(values, v)
	}
	return name, values, nil
}

func tune(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if len(tuneParams) == 0 {
		return fmt.Errorf("at least one --param is required")
	}

	names := make([]string, 0, len(tuneParams))
	ranges := make([][]float64, 0, len(tuneParams))
	for _, spec := range tuneParams {
		name, values, err := parseParam(spec)
		if err != nil {
			return err
		}
		names = append(names, name)
		ranges = append(ranges, values)
	}

	search := optim.NewGridSearch(names, ranges)
	search.Maximize = maximize

	fmt.Printf("tuning %s over %s for %d frames\n", tuneMetric, strings.Join(names, ", "), cfg.Run.Frames)
	best, trials, err := search.Search(cmd.Context(), optim.SimEvaluator(cfg, tuneMetric))
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.ToUpper(strings.Join(names, "\t"))+"\t"+strings.ToUpper(tuneMetric))
	for _, tr := range trials {
		for _, n := range names {
			fmt.Fprintf(w, "%g\t", tr.Params[n])
		}
		fmt.Fprintf(w, "%.6f\n", tr.Value)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(titleStyle.Render(fmt.Sprintf("best %s = %.6f", tuneMetric, best.Value)))
	for _, n := range names {
		fmt.Printf("  %s = %g\n", n, best.Params[n])
	}
	return nil
}
