package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/verlet/internal/analysis"
	"github.com/san-kum/verlet/internal/automation"
	"github.com/san-kum/verlet/internal/config"
	"github.com/san-kum/verlet/internal/dynamo"
	"github.com/san-kum/verlet/internal/experiment"
	"github.com/san-kum/verlet/internal/export"
	"github.com/san-kum/verlet/internal/gui"
	"github.com/san-kum/verlet/internal/metrics"
	"github.com/san-kum/verlet/internal/optim"
	"github.com/san-kum/verlet/internal/physics"
	"github.com/san-kum/verlet/internal/sim"
	"github.com/san-kum/verlet/internal/storage"
	"github.com/san-kum/verlet/internal/viz"
)

var (
	dataDir    string
	verbose    bool
	configFile string
	preset     string
	integrator string

	particles int
	subSteps  int
	frames    int
	frameDt   float64
	gravity   float64
	seed      int64
	palette   string

	svgPath  string
	ensemble int
	theme    string

	column    string
	svgDir    string
	bins      int
	sweep     bool
	lyapunov  bool
	benchN    []int
	benchSubs []int

	tuneSubs   []float64
	tuneRadii  []float64
	tuneMetric string
	tuneCost   float64
)

var logger *slog.Logger

func main() {
	rootCmd := &cobra.Command{
		Use:   "verlet",
		Short: "verlet particle arena",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger = newLogger(verbose)
		},
		RunE: runGUI,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".verlet", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	addSimFlags(rootCmd)

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "open the arena in a window",
		RunE:  runGUI,
	}
	addSimFlags(guiCmd)

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run the arena in the terminal (preset menu without --preset or --config)",
		RunE:  runLive,
	}
	addSimFlags(liveCmd)
	liveCmd.Flags().StringVar(&theme, "theme", viz.CurrentTheme.Name, "colour theme: "+strings.Join(viz.ThemeNames(), ", "))

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run headless and archive the diagnostics",
		RunE:  runSimulation,
	}
	addSimFlags(runCmd)
	runCmd.Flags().StringVar(&svgPath, "svg", "", "write an svg snapshot of the final arena")
	runCmd.Flags().IntVar(&ensemble, "ensemble", 0, "run N seeded copies and print mean metrics")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "measure throughput by particle count and sub-steps",
		RunE:  benchArena,
	}
	addSimFlags(benchCmd)
	benchCmd.Flags().IntSliceVar(&benchN, "counts", []int{100, 250, 500, 1000}, "particle counts")
	benchCmd.Flags().IntSliceVar(&benchSubs, "subs", []int{1, 8, 32}, "sub-step counts")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a per-frame series of a run (latest by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&column, "column", "all", "kinetic_energy, max_overlap, max_escape, particles, corrected or all")
	plotCmd.Flags().StringVar(&svgDir, "svg", "", "also write each plotted series as <column>.svg into this directory")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "energy spectrum and radial density of a run",
		Args:  cobra.MaximumNArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().IntVar(&bins, "bins", 16, "radial profile bins")
	analyzeCmd.Flags().BoolVar(&sweep, "sweep", false, "replay the final crowd at several sub-step counts")
	analyzeCmd.Flags().BoolVar(&lyapunov, "lyapunov", false, "estimate divergence of the final crowd")
	analyzeCmd.Flags().StringVar(&integrator, "integrator", "verlet", "integrator for replays")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run samples to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search sub-steps and radius for the best accuracy per cost",
		RunE:  tuneArena,
	}
	addSimFlags(tuneCmd)
	tuneCmd.Flags().Float64SliceVar(&tuneSubs, "grid-substeps", []float64{1, 2, 4, 8, 16}, "sub-step values")
	tuneCmd.Flags().Float64SliceVar(&tuneRadii, "grid-radius", nil, "particle radius values (default: keep config)")
	tuneCmd.Flags().StringVar(&tuneMetric, "metric", "max_overlap", "metric to minimise")
	tuneCmd.Flags().Float64Var(&tuneCost, "cost", 0.01, "score added per sub-step per frame")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a yaml scenario of headless runs",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list presets",
		RunE:  listPresets,
	}

	rootCmd.AddCommand(guiCmd, liveCmd, runCmd, benchCmd, listCmd, plotCmd, analyzeCmd, tuneCmd, scenarioCmd, exportCSVCmd, exportJSONCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func addSimFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "use preset configuration")
	f.StringVar(&integrator, "integrator", "verlet", "integrator")
	f.IntVar(&particles, "particles", config.DefaultInitialCount, "initial particle count")
	f.IntVar(&subSteps, "substeps", config.DefaultSubSteps, "sub-steps per frame")
	f.IntVar(&frames, "frames", config.DefaultFrames, "frames to simulate (headless)")
	f.Float64Var(&frameDt, "dt", config.DefaultFrameDt, "frame time (headless)")
	f.Float64Var(&gravity, "gravity", config.DefaultGravity, "downward gravity")
	f.Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	f.StringVar(&palette, "palette", "random", "random, rainbow or mono")
}

// resolveConfig layers preset, then config file, then the flags the user
// actually set.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		loaded, err := config.LoadOnto(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("particles") {
		cfg.InitialCount = particles
	}
	if flags.Changed("substeps") {
		cfg.Physics.SubSteps = subSteps
	}
	if flags.Changed("frames") {
		cfg.Frames = frames
	}
	if flags.Changed("dt") {
		cfg.FrameDt = frameDt
	}
	if flags.Changed("gravity") {
		cfg.Physics.GravityY = gravity
	}
	if flags.Changed("palette") {
		cfg.Palette = palette
	}
	if flags.Changed("seed") || cfg.Seed == 0 {
		cfg.Seed = seed
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func integratorFor(name string) (dynamo.Integrator, error) {
	return experiment.NewRegistry().GetIntegrator(name)
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	integ, err := integratorFor(integrator)
	if err != nil {
		return err
	}
	logger.Info("opening window", "preset", cfg.Name, "particles", cfg.InitialCount, "sub_steps", cfg.Physics.SubSteps)
	return gui.Run(cfg, integ, logger)
}

func runLive(cmd *cobra.Command, args []string) error {
	integ, err := integratorFor(integrator)
	if err != nil {
		return err
	}
	if !contains(viz.ThemeNames(), theme) {
		return fmt.Errorf("unknown theme: %s (available: %s)", theme, strings.Join(viz.ThemeNames(), ", "))
	}
	viz.SetTheme(theme)
	if preset == "" && configFile == "" {
		_, err := tea.NewProgram(viz.NewInteractiveApp(integ), tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
		return err
	}

	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	return viz.Run(cfg, integ)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if ensemble > 0 {
		return runEnsemble(ctx, cfg)
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	integ, err := registry.GetIntegrator(integrator)
	if err != nil {
		return err
	}

	exp := experiment.New(cfg, logger)
	if err := exp.Setup(integ, registry.DefaultMetrics()); err != nil {
		return err
	}

	fmt.Printf("running %s: %d particles, %d frames at %d sub-steps...\n",
		cfg.Name, cfg.InitialCount, cfg.Frames, cfg.Physics.SubSteps)
	start := time.Now()

	result, runErr := exp.Run(ctx)
	if result == nil {
		return runErr
	}
	elapsed := time.Since(start)

	runID, err := st.Save(cfg, result)
	if err != nil {
		return err
	}

	if svgPath != "" {
		s := exp.GetSimulator()
		svg := export.ArenaToSVG(s.World().Bodies(nil, cfg.Physics.ParticleRadius), s.Config(), 600)
		if err := os.WriteFile(svgPath, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Printf("snapshot: %s\n", svgPath)
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("frames: %d, sub-steps: %d\n", result.FramesRun, result.StepsTaken)
	fmt.Println("\nmetrics:")
	for _, name := range sortedKeys(result.Metrics) {
		fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
	}
	for _, e := range result.Errors {
		fmt.Printf("error: %v\n", e)
	}
	return runErr
}

func runEnsemble(ctx context.Context, cfg *config.Config) error {
	fmt.Printf("running %d copies of %s from seed %d...\n", ensemble, cfg.Name, cfg.Seed)
	start := time.Now()

	results, err := experiment.NewEnsemble(cfg, experiment.NewRegistry(), integrator, ensemble, logger).Run(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", time.Since(start))
	mean := experiment.Mean(results)
	fmt.Println("\nmean metrics:")
	for _, name := range sortedKeys(mean) {
		fmt.Printf("  %s: %.6f\n", name, mean[name])
	}
	return nil
}

func benchArena(cmd *cobra.Command, args []string) error {
	base, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	integ, err := integratorFor(integrator)
	if err != nil {
		return err
	}

	const benchFrames = 60
	fmt.Printf("benchmarking %s, %d frames each\n\n", integrator, benchFrames)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PARTICLES\tSUBSTEPS\tAVG FRAME\tMAX FRAME\tSTEPS/SEC\tOVERLAP")

	for _, n := range benchN {
		for _, subs := range benchSubs {
			cfg := base.Clone()
			cfg.InitialCount = n
			cfg.Physics.SubSteps = subs

			world, err := experiment.Populate(cfg, rand.New(rand.NewSource(cfg.Seed)))
			if err != nil {
				return err
			}
			s := sim.New(world, integ, cfg.SimConfig())
			perf := metrics.NewPerf(benchFrames)
			for f := 0; f < benchFrames; f++ {
				start := time.Now()
				before := s.StepsTaken()
				if err := s.Frame(cfg.FrameDt); err != nil {
					return err
				}
				perf.Record(time.Since(start), s.StepsTaken()-before)
			}

			stats := perf.Stats()
			stats.Particles = n
			logger.Debug("bench", "stats", stats)
			fmt.Fprintf(w, "%d\t%d\t%v\t%v\t%.0f\t%.4f\n",
				n, subs,
				stats.AvgFrame.Round(time.Microsecond),
				stats.MaxFrame.Round(time.Microsecond),
				stats.StepsPerSec,
				physics.MaxOverlap(world.Particles(), cfg.Physics.ParticleRadius),
			)
		}
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTIME\tPARTICLES\tSUBSTEPS\tFRAMES\tERRORS")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%d\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.InitialCount,
			run.SubSteps,
			run.FramesRun,
			len(run.Errors),
		)
	}
	return w.Flush()
}

// runIDArg picks the run named on the command line, or the latest one.
func runIDArg(st *storage.Store, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	return st.Latest()
}

var sampleColumns = []string{"kinetic_energy", "max_overlap", "max_escape", "particles", "corrected"}

func sampleSeries(samples []dynamo.Sample, name string) ([]float64, error) {
	out := make([]float64, len(samples))
	for i, s := range samples {
		switch name {
		case "kinetic_energy":
			out[i] = s.KineticEnergy
		case "max_overlap":
			out[i] = s.MaxOverlap
		case "max_escape":
			out[i] = s.MaxEscape
		case "particles":
			out[i] = float64(s.Particles)
		case "corrected":
			out[i] = float64(s.Corrected)
		default:
			return nil, fmt.Errorf("unknown column: %s (available: %s)", name, strings.Join(sampleColumns, ", "))
		}
	}
	return out, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runID, err := runIDArg(st, args)
	if err != nil {
		return err
	}
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("particles: %d, sub-steps: %d\n", meta.InitialCount, meta.SubSteps)
	fmt.Printf("samples: %d\n\n", len(samples))

	cols := []string{column}
	if column == "all" {
		cols = sampleColumns
	}
	for _, c := range cols {
		data, err := sampleSeries(samples, c)
		if err != nil {
			return err
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(c),
		)
		fmt.Println(graph)
		fmt.Println()

		if svgDir != "" {
			if err := os.MkdirAll(svgDir, 0755); err != nil {
				return err
			}
			path := filepath.Join(svgDir, c+".svg")
			svg := export.SeriesToSVG(data, 800, 240, string(viz.CurrentTheme.Primary))
			if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n\n", path)
		}
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// arenaOf rebuilds the simulation config a run was archived with.
func arenaOf(meta *storage.RunMetadata) dynamo.Config {
	cfg := dynamo.DefaultConfig()
	cfg.ArenaRadius = meta.ArenaRadius
	cfg.ParticleRadius = meta.ParticleRadius
	cfg.SubSteps = meta.SubSteps
	return cfg
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runID, err := runIDArg(st, args)
	if err != nil {
		return err
	}
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}
	final, err := st.LoadParticles(runID)
	if err != nil {
		return err
	}
	arena := arenaOf(meta)

	fmt.Printf("run: %s\n\n", meta.ID)

	if len(samples) > 1 {
		energy, _ := sampleSeries(samples, "kinetic_energy")
		freq, power := analysis.DominantFrequency(energy, meta.FrameDt)
		fmt.Println("kinetic energy spectrum:")
		fmt.Printf("  dominant frequency: %.4f Hz\n", freq)
		fmt.Printf("  power: %.4f\n", power)
		if freq > 0 {
			fmt.Printf("  period: %.4f s\n", 1/freq)
		}
		fmt.Println()
	}

	fmt.Printf("final crowd: %d particles, packing %.3f\n", len(final), analysis.PackingFraction(len(final), arena))
	fmt.Println("radial density (centre to rim):")
	fmt.Print(analysis.ProfileToASCII(analysis.RadialProfile(final, arena, bins), 40))

	if !sweep && !lyapunov {
		return nil
	}
	if len(final) == 0 {
		return fmt.Errorf("run %s has no particles to replay", runID)
	}
	integ, err := integratorFor(integrator)
	if err != nil {
		return err
	}

	if sweep {
		points, err := analysis.SubStepSweep(context.Background(), final, integ, arena, []int{1, 2, 4, 8, 16, 32}, 120, meta.FrameDt)
		if err != nil {
			return err
		}
		fmt.Println("\nsub-step sweep (120 frames):")
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "SUBSTEPS\tMAX OVERLAP\tMAX ESCAPE\tENERGY")
		for _, p := range points {
			fmt.Fprintf(w, "%d\t%.4f\t%.4f\t%.2f\n", p.SubSteps, p.MaxOverlap, p.MaxEscape, p.Energy)
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}

	if lyapunov {
		lambda := analysis.LyapunovExponent(final, integ, arena, meta.FrameDt, 300, 1e-6)
		fmt.Printf("\nlargest lyapunov exponent: %.4f /s\n", lambda)
	}
	return nil
}

func tuneArena(cmd *cobra.Command, args []string) error {
	base, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	params := []string{"sub_steps"}
	ranges := [][]float64{tuneSubs}
	if len(tuneRadii) > 0 {
		params = append(params, "particle_radius")
		ranges = append(ranges, tuneRadii)
	}
	grid, err := optim.NewGridSearch(params, ranges)
	if err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	build := func(p optim.Point) (*experiment.Experiment, error) {
		cfg := base.Clone()
		if err := optim.Apply(cfg, p); err != nil {
			return nil, err
		}
		integ, err := registry.GetIntegrator(integrator)
		if err != nil {
			return nil, err
		}
		exp := experiment.New(cfg, logger)
		if err := exp.Setup(integ, registry.DefaultMetrics()); err != nil {
			logger.Warn("grid point rejected", "point", p.String(), "err", err)
			return nil, err
		}
		return exp, nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("searching %d points on %s...\n", grid.Size(), tuneMetric)
	best, score, err := grid.Search(ctx, build, optim.MetricObjective(tuneMetric, tuneCost))
	if err != nil {
		return err
	}
	fmt.Printf("best: %s\n", best)
	fmt.Printf("score: %.6f\n", score)
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := automation.RunScenario(ctx, sc, experiment.NewRegistry(), st, logger)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tPRESET\tFRAMES\tSTEPS\tMAX OVERLAP\tRUN ID")
	for i, r := range results {
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%.4f\t%s\n",
			i+1, r.Step.Preset, r.Result.FramesRun, r.Result.StepsTaken, r.Result.Metrics["max_overlap"], r.RunID)
	}
	if flushErr := w.Flush(); flushErr != nil && err == nil {
		err = flushErr
	}
	return err
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func exportCSV(cmd *cobra.Command, args []string) error {
	return storage.New(dataDir).ExportCSV(os.Stdout, args[0])
}

func exportJSON(cmd *cobra.Command, args []string) error {
	return storage.New(dataDir).ExportJSON(os.Stdout, args[0])
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tPARTICLES\tSUBSTEPS\tGRAVITY\tRADIUS\tPALETTE")
	for _, name := range config.ListPresets() {
		c := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%d\t%d\t%g\t%g\t%s\n",
			name, c.InitialCount, c.Physics.SubSteps, c.Physics.GravityY, c.Physics.ParticleRadius, c.Palette)
	}
	return w.Flush()
}
