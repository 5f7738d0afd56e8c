package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/rs/zerolog"
	"github.com/san-kum/enginesim/internal/analysis"
	"github.com/san-kum/enginesim/internal/automation"
	"github.com/san-kum/enginesim/internal/config"
	"github.com/san-kum/enginesim/internal/engine"
	"github.com/san-kum/enginesim/internal/export"
	"github.com/san-kum/enginesim/internal/gui"
	"github.com/san-kum/enginesim/internal/logging"
	"github.com/san-kum/enginesim/internal/metrics"
	"github.com/san-kum/enginesim/internal/optim"
	"github.com/san-kum/enginesim/internal/sim"
	"github.com/san-kum/enginesim/internal/storage"
	"github.com/san-kum/enginesim/internal/viz"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	dataDir  string
	logLevel string
	// Engine selection
	configFile string
	preset     string
	seed       int64
	// Headless runs
	dt     float64
	cycles int
	rpm    float64
	// Live view
	frameRate int
	gifPath   string
	theme     string
	// Exports
	outPath string
	svgW    int
	svgH    int
	// Sweeps
	sweepParam string
	sweepFrom  float64
	sweepTo    float64
	sweepSteps int
	gridArgs   []string
	metricName string
	maximize   bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "enginesim",
		Short:        "single-cylinder four-stroke engine simulator",
		SilenceUsage: true,
		RunE:         runLive,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".enginesim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (trace, debug, info, warn, error, off)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "engine config file (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0, "particle seed (0 = clock)")
	rootCmd.Flags().IntVar(&frameRate, "fps", 60, "frame rate")
	rootCmd.Flags().StringVar(&gifPath, "gif", "engine.gif", "GIF recording path")
	rootCmd.Flags().StringVar(&theme, "theme", "", "color theme")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run the engine in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	liveCmd.Flags().IntVar(&frameRate, "fps", 60, "frame rate")
	liveCmd.Flags().StringVar(&gifPath, "gif", "engine.gif", "GIF recording path")
	liveCmd.Flags().StringVar(&theme, "theme", "", "color theme")

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "run the engine in a window",
		Args:  cobra.NoArgs,
		RunE:  runGUI,
	}

	runCmd := &cobra.Command{
		Use:   "run [preset...]",
		Short: "run headless simulations and store them",
		RunE:  runSimulation,
	}
	runCmd.Flags().Float64Var(&dt, "dt", 1.0/60, "timestep (s)")
	runCmd.Flags().IntVar(&cycles, "cycles", 2, "full cycles to simulate")
	runCmd.Flags().Float64Var(&rpm, "rpm", 0, "crank speed (0 = engine default)")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "measure headless frame rate",
		Args:  cobra.NoArgs,
		RunE:  benchEngine,
	}
	benchCmd.Flags().IntVar(&cycles, "cycles", 50, "full cycles to simulate")
	benchCmd.Flags().Float64Var(&rpm, "rpm", 600, "crank speed")
	benchCmd.Flags().Float64Var(&dt, "dt", 1.0/60, "timestep (s)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export the PV loop of a run to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default <run_id>.svg)")
	exportSVGCmd.Flags().IntVar(&svgW, "width", 640, "image width")
	exportSVGCmd.Flags().IntVar(&svgH, "height", 480, "image height")

	presetsCmd := &cobra.Command{
		Use:   "presets [name]",
		Short: "list presets, or print one as yaml",
		Args:  cobra.MaximumNArgs(1),
		RunE:  showPresets,
	}

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a yaml scenario and store each step",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep one engine parameter",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&sweepParam, "param", "ignition_start", "parameter to sweep")
	sweepCmd.Flags().Float64Var(&sweepFrom, "from", 160, "first value")
	sweepCmd.Flags().Float64Var(&sweepTo, "to", 175, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 4, "number of values")
	sweepCmd.Flags().Float64Var(&dt, "dt", 1.0/60, "timestep (s)")
	sweepCmd.Flags().IntVar(&cycles, "cycles", 2, "full cycles per run")

	optimizeCmd := &cobra.Command{
		Use:   "optimize",
		Short: "grid search engine parameters for the best metric",
		Args:  cobra.NoArgs,
		RunE:  runOptimize,
	}
	optimizeCmd.Flags().StringArrayVar(&gridArgs, "param", nil, "name=lo:hi:n (repeatable)")
	optimizeCmd.Flags().StringVar(&metricName, "metric", "indicated_work", "metric to optimize")
	optimizeCmd.Flags().BoolVar(&maximize, "max", true, "maximize the metric (false minimizes)")
	optimizeCmd.Flags().Float64Var(&dt, "dt", 1.0/60, "timestep (s)")
	optimizeCmd.Flags().IntVar(&cycles, "cycles", 2, "full cycles per run")

	rootCmd.AddCommand(liveCmd, guiCmd, runCmd, benchCmd, listCmd, plotCmd, exportCmd, exportSVGCmd, presetsCmd, scenarioCmd, sweepCmd, optimizeCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func consoleLogger() zerolog.Logger {
	return logging.New(os.Stderr, logging.ParseLevel(logLevel), false)
}

// loadEngineConfig resolves --preset and --config (config wins) and the
// --seed override. name labels the run.
func loadEngineConfig(cmd *cobra.Command) (cfg *config.Config, name string, err error) {
	cfg, name = config.DefaultConfig(), "default"
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, "", fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		name = preset
	}
	if configFile != "" {
		cfg, err = config.Load(configFile)
		if err != nil {
			return nil, "", err
		}
		name = filepath.Base(configFile)
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}
	return cfg, name, nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadEngineConfig(cmd)
	if err != nil {
		return err
	}
	log, f, err := logging.OpenFile(filepath.Join(dataDir, "logs"), "live", logging.ParseLevel(logLevel))
	if err != nil {
		return err
	}
	defer f.Close()

	eng, err := engine.New(cfg, log)
	if err != nil {
		return err
	}
	log.Info().Str("engine", name).Msg("live view")

	m := viz.NewModel(eng, log, viz.Options{FPS: frameRate, GIFPath: gifPath, Theme: theme})
	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadEngineConfig(cmd)
	if err != nil {
		return err
	}
	log, f, err := logging.OpenFile(filepath.Join(dataDir, "logs"), "gui", logging.ParseLevel(logLevel))
	if err != nil {
		return err
	}
	defer f.Close()

	eng, err := engine.New(cfg, log)
	if err != nil {
		return err
	}
	log.Info().Str("engine", name).Msg("gui")
	gui.Run(eng, log)
	return nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	log := consoleLogger()
	run := sim.Config{Dt: dt, Cycles: cycles, RPM: rpm}

	var jobs []sim.Job
	if len(args) == 0 {
		cfg, name, err := loadEngineConfig(cmd)
		if err != nil {
			return err
		}
		jobs = append(jobs, sim.Job{Name: name, Engine: cfg, Run: run})
	}
	for _, name := range args {
		cfg := config.GetPreset(name)
		if cfg == nil {
			return fmt.Errorf("unknown preset: %s (available: %v)", name, config.ListPresets())
		}
		if cmd.Flags().Changed("seed") {
			cfg.Seed = seed
		}
		jobs = append(jobs, sim.Job{Name: name, Engine: cfg, Run: run})
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log.Info().Int("jobs", len(jobs)).Int("cycles", cycles).Float64("dt", dt).Msg("running")
	start := time.Now()
	results, err := sim.RunBatch(ctx, jobs, log)
	if err != nil {
		return err
	}
	log.Info().Dur("elapsed", time.Since(start)).Msg("completed")

	for i, res := range results {
		id, err := st.Save(jobs[i].Name, jobs[i].Engine, run, res)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", id)
		fmt.Printf("  frames: %d  cycles: %d  ignitions: %d  simulated: %.2fs\n",
			len(res.Frames), res.Cycles, res.Ignitions, res.Duration)
		names := make([]string, 0, len(res.Metrics))
		for name := range res.Metrics {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Printf("  %s: %.6f\n", name, res.Metrics[name])
		}
	}
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	log := consoleLogger()
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

	results, err := automation.RunScenario(ctx, sc, log)
	for _, r := range results {
		id, serr := st.Save(r.Name, r.Config, r.Run, r.Result)
		if serr != nil {
			return serr
		}
		fmt.Printf("%-20s run id: %s  ignitions: %d  work: %.2f\n", r.Name, id, r.Result.Ignitions, r.Result.Metrics["indicated_work"])
	}
	return err
}

func runSweep(cmd *cobra.Command, args []string) error {
	base, _, err := loadEngineConfig(cmd)
	if err != nil {
		return err
	}
	sweep := &automation.ParameterSweep{
		Base:      base,
		ParamName: sweepParam,
		ParamMin:  sweepFrom,
		ParamMax:  sweepTo,
		NumSteps:  sweepSteps,
		Run:       sim.Config{Dt: dt, Cycles: cycles},
	}
	results, err := automation.RunSweep(cmd.Context(), sweep, consoleLogger())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tFRAMES\tIGNITIONS\tPEAK\tWORK\n", sweepParam)
	for _, r := range results {
		fmt.Fprintf(w, "%.4f\t%d\t%d\t%.2f\t%.2f\n",
			r.ParamValue, r.Frames, r.Ignitions, r.Metrics["peak_pressure"], r.Metrics["indicated_work"])
	}
	return w.Flush()
}

func runOptimize(cmd *cobra.Command, args []string) error {
	if len(gridArgs) == 0 {
		return fmt.Errorf("at least one --param name=lo:hi:n is required")
	}
	base, _, err := loadEngineConfig(cmd)
	if err != nil {
		return err
	}

	names := make([]string, len(gridArgs))
	ranges := make([][]float64, len(gridArgs))
	for i, arg := range gridArgs {
		var lo, hi float64
		var n int
		eq := strings.IndexByte(arg, '=')
		if eq < 0 {
			return fmt.Errorf("bad --param %q, want name=lo:hi:n", arg)
		}
		if _, err := fmt.Sscanf(arg[eq+1:], "%g:%g:%d", &lo, &hi, &n); err != nil {
			return fmt.Errorf("bad --param %q: %w", arg, err)
		}
		names[i], ranges[i] = arg[:eq], optim.Linspace(lo, hi, n)
	}

	log := consoleLogger()
	newSim := func(cfg *config.Config) (*sim.Simulator, error) {
		eng, err := engine.New(cfg, log)
		if err != nil {
			return nil, err
		}
		s := sim.New(eng)
		for _, m := range metrics.Default() {
			s.AddMetric(m)
		}
		return s, nil
	}

	g := optim.NewGridSearch(names, ranges)
	if maximize {
		g.Maximize()
	}
	best, val, err := g.Search(cmd.Context(), base, optim.SimEvaluator(sim.Config{Dt: dt, Cycles: cycles}, newSim), metricName)
	if err != nil {
		return err
	}

	fmt.Printf("best %s: %.6f\n", metricName, val)
	for _, name := range names {
		fmt.Printf("  %s = %.4f\n", name, best[name])
	}
	return nil
}

func benchEngine(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadEngineConfig(cmd)
	if err != nil {
		return err
	}
	eng, err := engine.New(cfg, consoleLogger())
	if err != nil {
		return err
	}

	start := time.Now()
	res, err := sim.New(eng).Run(context.Background(), sim.Config{Dt: dt, Cycles: cycles, RPM: rpm})
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("engine: %s\n", name)
	fmt.Printf("frames: %d in %v\n", len(res.Frames), elapsed)
	if elapsed > 0 {
		fmt.Printf("rate: %.0f frames/s\n", float64(len(res.Frames))/elapsed.Seconds())
	}
	return nil
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
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tCYCLES\tRPM\tDT\tFRAMES\tWORK")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.0f\t%.4fs\t%d\t%.1f\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Cycles,
			run.RPM,
			run.Dt,
			run.Frames,
			run.Summary.LoopWork,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
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
	fmt.Printf("preset: %s\n", meta.Preset)
	fmt.Printf("samples: %d\n\n", len(samples))

	pressure := make([]float64, len(samples))
	volume := make([]float64, len(samples))
	for i, s := range samples {
		pressure[i] = s.Pressure
		volume[i] = s.Volume
	}
	for _, series := range []struct {
		caption string
		data    []float64
	}{
		{"pressure vs frame", pressure},
		{"volume vs frame", volume},
	} {
		graph := asciigraph.Plot(series.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(series.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	fmt.Println("P-V loop (volume →, pressure ↑)")
	fmt.Println(analysis.PVToASCII(samples, 80, 24))
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	if outPath != "" {
		return st.ExportJSONFile(outPath, args[0])
	}
	return st.ExportJSON(os.Stdout, args[0])
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)
	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}
	svg := export.PVToSVG(samples, svgW, svgH, "#6495ed")
	if svg == "" {
		return fmt.Errorf("run %s has too few samples", runID)
	}
	path := outPath
	if path == "" {
		path = runID + ".svg"
	}
	if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

func showPresets(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		fmt.Println("presets:")
		for _, p := range config.ListPresets() {
			c := config.GetPreset(p)
			fmt.Printf("  %-18s rpm %-5.0f compression ratio %.1f\n", p, c.Speed.Initial, c.CompressionRatio())
		}
		return nil
	}
	cfg := config.GetPreset(args[0])
	if cfg == nil {
		return fmt.Errorf("unknown preset: %s (available: %v)", args[0], config.ListPresets())
	}
	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(cfg)
}
