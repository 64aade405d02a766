package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/dendrite/internal/config"
	"github.com/san-kum/dendrite/internal/dendrite"
	"github.com/san-kum/dendrite/internal/export"
	"github.com/san-kum/dendrite/internal/mandel"
	"github.com/san-kum/dendrite/internal/metrics"
	"github.com/san-kum/dendrite/internal/render"
	"github.com/san-kum/dendrite/internal/storage"
	"github.com/san-kum/dendrite/internal/stream"
	"github.com/san-kum/dendrite/internal/sweep"
	"github.com/san-kum/dendrite/internal/viz"
)

// flags holds every command-line value. Forest and render flags only take
// effect when set explicitly, so presets and config files keep their values.
type flags struct {
	dataDir    string
	configFile string
	preset     string
	seed       int64
	runID      string
	parallel   bool
	name       string

	roots       int
	depth       int
	length      float64
	spread      float64
	jitter      float64
	minBranches int
	maxBranches int
	decay       float64

	out     string
	frames  int
	delayMs int
	width   int
	height  int
	extent  float64
	caption bool
	reveal  string
	frame   int

	maxIter int
	addr    string
	count   int
	pick    bool

	axes   []string
	trials int
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	f := &flags{}

	rootCmd := &cobra.Command{
		Use:          "dendrite",
		Short:        "fractal branch growth generator",
		SilenceUsage: true,
	}
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&f.dataDir, "data", ".dendrite", "data directory")
	pf.StringVar(&f.configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&f.preset, "preset", "", "use preset configuration")
	pf.Int64Var(&f.seed, "seed", 42, "random seed")

	growCmd := &cobra.Command{
		Use:   "grow",
		Short: "grow a forest and save it as a run",
		Args:  cobra.NoArgs,
		RunE:  f.runGrow,
	}
	f.forestFlags(growCmd)
	growCmd.Flags().BoolVar(&f.parallel, "parallel", false, "grow roots concurrently (per-root seeds)")
	growCmd.Flags().StringVar(&f.name, "name", "", "run name (defaults to the preset or config name)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  f.listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  f.showRun,
	}

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "per-depth statistics of a run or a fresh forest",
		Args:  cobra.NoArgs,
		RunE:  f.showStats,
	}
	f.forestFlags(statsCmd)
	f.sourceFlags(statsCmd)

	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "render the growth animation to GIF",
		Args:  cobra.NoArgs,
		RunE:  f.renderGIF,
	}
	f.forestFlags(renderCmd)
	f.sourceFlags(renderCmd)
	f.renderFlags(renderCmd)
	renderCmd.Flags().StringVarP(&f.out, "out", "o", "dendrite.gif", "output file")

	svgCmd := &cobra.Command{
		Use:   "export-svg",
		Short: "export one frame as SVG",
		Args:  cobra.NoArgs,
		RunE:  f.exportSVG,
	}
	f.forestFlags(svgCmd)
	f.sourceFlags(svgCmd)
	f.renderFlags(svgCmd)
	svgCmd.Flags().StringVarP(&f.out, "out", "o", "dendrite.svg", "output file")
	svgCmd.Flags().IntVar(&f.frame, "frame", -1, "frame index (negative counts from the end)")

	jsonCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  f.exportJSON,
	}
	jsonCmd.Flags().StringVarP(&f.out, "out", "o", "", "output file (default stdout)")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "replay growth in the terminal",
		Args:  cobra.NoArgs,
		RunE:  f.runLive,
	}
	f.forestFlags(liveCmd)
	f.renderFlags(liveCmd)
	liveCmd.Flags().BoolVar(&f.pick, "pick", false, "choose a preset from a menu first")
	liveCmd.Flags().StringVarP(&f.out, "out", "o", ".", "directory for SVG snapshots")

	mandelCmd := &cobra.Command{
		Use:   "mandel",
		Short: "render a Mandelbrot zoom to GIF",
		Args:  cobra.NoArgs,
		RunE:  f.renderMandel,
	}
	mandelCmd.Flags().StringVarP(&f.out, "out", "o", "mandelbrot.gif", "output file")
	mandelCmd.Flags().IntVar(&f.frames, "frames", 0, "number of frames")
	mandelCmd.Flags().IntVar(&f.delayMs, "delay", 0, "delay per frame in milliseconds")
	mandelCmd.Flags().IntVar(&f.width, "width", 0, "image width")
	mandelCmd.Flags().IntVar(&f.height, "height", 0, "image height")
	mandelCmd.Flags().IntVar(&f.maxIter, "max-iter", 0, "iteration limit")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "stream growth to a browser over websockets",
		Args:  cobra.NoArgs,
		RunE:  f.serve,
	}
	f.forestFlags(serveCmd)
	f.renderFlags(serveCmd)
	serveCmd.Flags().StringVar(&f.addr, "addr", "localhost:8080", "listen address")

	presetsCmd := &cobra.Command{
		Use:   "presets [kind]",
		Short: "list available presets (tree or mandel)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  f.listPresets,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark sequential and parallel growth",
		Args:  cobra.NoArgs,
		RunE:  f.bench,
	}
	f.forestFlags(benchCmd)

	checkCmd := &cobra.Command{
		Use:   "check [run_id]",
		Short: "verify structural invariants of a run or of many seeds",
		Args:  cobra.MaximumNArgs(1),
		RunE:  f.check,
	}
	f.forestFlags(checkCmd)
	checkCmd.Flags().IntVar(&f.count, "count", 100, "number of consecutive seeds to check")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "grid sweep over forest settings",
		Long:  "Each --axis is param=min:max:steps; params: " + strings.Join(sweep.Params, ", "),
		Args:  cobra.NoArgs,
		RunE:  f.runSweep,
	}
	f.forestFlags(sweepCmd)
	sweepCmd.Flags().StringArrayVar(&f.axes, "axis", nil, "swept setting as param=min:max:steps (repeatable)")
	sweepCmd.Flags().IntVar(&f.trials, "trials", 10, "seeds per grid point")
	sweepCmd.Flags().Float64Var(&f.extent, "extent", config.DefaultExtent, "window used for the containment metric")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted batch of forests from yaml",
		Args:  cobra.ExactArgs(1),
		RunE:  f.runScenario,
	}

	rootCmd.AddCommand(growCmd, listCmd, showCmd, statsCmd, renderCmd, svgCmd, jsonCmd, liveCmd, mandelCmd, serveCmd, presetsCmd, benchCmd, checkCmd, sweepCmd, scenarioCmd)
	return rootCmd
}

func (f *flags) forestFlags(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.IntVar(&f.roots, "roots", config.DefaultRoots, "number of trees")
	fs.IntVar(&f.depth, "depth", config.DefaultMaxDepth, "max recursion depth")
	fs.Float64Var(&f.length, "length", config.DefaultBaseLength, "base segment length")
	fs.Float64Var(&f.spread, "spread", 0.785, "max branch angle deviation (radians)")
	fs.Float64Var(&f.jitter, "jitter", config.DefaultJitter, "root heading jitter (radians)")
	fs.IntVar(&f.minBranches, "min-branches", 2, "fewest children per node")
	fs.IntVar(&f.maxBranches, "max-branches", 3, "most children per node")
	fs.Float64Var(&f.decay, "decay", 0.8, "length decay per generation")
}

func (f *flags) sourceFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.runID, "run", "", "use a saved run instead of growing")
}

func (f *flags) renderFlags(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.IntVar(&f.frames, "frames", config.DefaultFrames, "number of frames")
	fs.IntVar(&f.delayMs, "delay", config.DefaultDelayMs, "delay per frame in milliseconds")
	fs.IntVar(&f.width, "width", config.DefaultSize, "image width")
	fs.IntVar(&f.height, "height", config.DefaultSize, "image height")
	fs.Float64Var(&f.extent, "extent", config.DefaultExtent, "half-width of the world window")
	fs.BoolVar(&f.caption, "caption", false, "draw a progress caption")
	fs.StringVar(&f.reveal, "reveal", "edge", "when dots appear: edge or depth")
}

// resolveConfig layers defaults, preset, config file and explicit flags.
func (f *flags) resolveConfig(cmd *cobra.Command, kind string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if f.preset != "" {
		cfg = config.GetPreset(kind, f.preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", f.preset, config.ListPresets(kind))
		}
	}
	if f.configFile != "" {
		loaded, err := config.Load(f.configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	changed := cmd.Flags().Changed
	if changed("seed") {
		cfg.Seed = f.seed
	}

	fc := &cfg.Forest
	if changed("roots") {
		fc.Roots = f.roots
	}
	if changed("depth") {
		fc.MaxDepth = f.depth
	}
	if changed("length") {
		fc.BaseLength = f.length
	}
	if changed("spread") {
		fc.Spread = f.spread
	}
	if changed("jitter") {
		fc.Jitter = f.jitter
	}
	if changed("min-branches") {
		fc.MinBranches = f.minBranches
	}
	if changed("max-branches") {
		fc.MaxBranches = f.maxBranches
	}
	if changed("decay") {
		fc.Decay = f.decay
	}

	if kind == "mandel" {
		mc := &cfg.Mandel
		if changed("frames") {
			mc.Frames = f.frames
		}
		if changed("delay") {
			mc.DelayMs = f.delayMs
		}
		if changed("width") {
			mc.Width = f.width
		}
		if changed("height") {
			mc.Height = f.height
		}
		if changed("max-iter") {
			mc.MaxIter = f.maxIter
		}
	} else {
		rc := &cfg.Render
		if changed("frames") {
			rc.Frames = f.frames
		}
		if changed("delay") {
			rc.DelayMs = f.delayMs
		}
		if changed("width") {
			rc.Width = f.width
		}
		if changed("height") {
			rc.Height = f.height
		}
		if changed("extent") {
			rc.Extent = f.extent
		}
		if changed("caption") {
			rc.Caption = f.caption
		}
		if changed("reveal") {
			rc.Reveal = f.reveal
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func growForest(ctx context.Context, cfg *config.Config, parallel bool) (*dendrite.Forest, error) {
	if parallel {
		return dendrite.GrowForestParallel(ctx, cfg.ForestParams(), cfg.Seed)
	}
	return dendrite.GrowForest(rand.New(rand.NewSource(cfg.Seed)), cfg.ForestParams())
}

// forestFor loads the --run forest if given, otherwise grows one from cfg.
func (f *flags) forestFor(ctx context.Context, cfg *config.Config) (*dendrite.Forest, error) {
	if f.runID == "" {
		return growForest(ctx, cfg, false)
	}
	_, forest, err := storage.New(f.dataDir).LoadForest(f.runID)
	return forest, err
}

func (f *flags) runGrow(cmd *cobra.Command, args []string) error {
	cfg, err := f.resolveConfig(cmd, "tree")
	if err != nil {
		return err
	}
	name := f.name
	if name == "" {
		name = cfg.Name
	}

	st := storage.New(f.dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "growing %s (seed %d)...\n", name, cfg.Seed)
	start := time.Now()

	forest, err := growForest(cmd.Context(), cfg, f.parallel)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(name, cfg.Seed, forest)
	if err != nil {
		return err
	}

	stats := forest.Stats()
	fmt.Fprintf(out, "completed in %v\n", elapsed)
	fmt.Fprintf(out, "run id: %s\n", runID)
	fmt.Fprintf(out, "roots: %d\n", stats.Roots)
	fmt.Fprintf(out, "segments: %d\n", stats.Segments)
	fmt.Fprintf(out, "terminals: %d\n", stats.Terminals)
	return nil
}

func (f *flags) listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(f.dataDir).List()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTIME\tSEED\tROOTS\tDEPTH\tSEGMENTS\tTERMINALS")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%d\t%d\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Seed,
			run.Roots,
			run.MaxDepth,
			run.Segments,
			run.Terminals,
		)
	}
	return w.Flush()
}

func (f *flags) showRun(cmd *cobra.Command, args []string) error {
	meta, err := storage.New(f.dataDir).Load(args[0])
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "id:\t%s\n", meta.ID)
	fmt.Fprintf(w, "name:\t%s\n", meta.Name)
	fmt.Fprintf(w, "time:\t%s\n", meta.Timestamp.Format(time.RFC3339))
	fmt.Fprintf(w, "seed:\t%d\n", meta.Seed)
	fmt.Fprintf(w, "roots:\t%d\n", meta.Roots)
	fmt.Fprintf(w, "max depth:\t%d\n", meta.MaxDepth)
	fmt.Fprintf(w, "base length:\t%g\n", meta.BaseLength)
	fmt.Fprintf(w, "spread:\t%.4f rad\n", meta.Spread)
	fmt.Fprintf(w, "jitter:\t%.4f rad\n", meta.Jitter)
	fmt.Fprintf(w, "branches:\t%d-%d\n", meta.MinBranches, meta.MaxBranches)
	fmt.Fprintf(w, "decay:\t%g\n", meta.Decay)
	fmt.Fprintf(w, "origin:\t(%g, %g)\n", meta.OriginX, meta.OriginY)
	fmt.Fprintf(w, "segments:\t%d\n", meta.Segments)
	fmt.Fprintf(w, "terminals:\t%d\n", meta.Terminals)
	return w.Flush()
}

func (f *flags) showStats(cmd *cobra.Command, args []string) error {
	cfg, err := f.resolveConfig(cmd, "tree")
	if err != nil {
		return err
	}
	forest, err := f.forestFor(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	stats := forest.Stats()
	lo, hi := forest.Bounds()
	fmt.Fprintf(out, "roots: %d  segments: %d  terminals: %d\n", stats.Roots, stats.Segments, stats.Terminals)
	fmt.Fprintf(out, "bounds: (%.3f, %.3f) .. (%.3f, %.3f)\n\n", lo.X, lo.Y, hi.X, hi.Y)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DEPTH\tSEGMENTS\tMEAN LENGTH")
	for _, d := range stats.PerDepth {
		fmt.Fprintf(w, "%d\t%d\t%.4f\n", d.Depth, d.Segments, d.MeanLength)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	hist := forest.DepthHistogram()
	if len(hist) < 2 {
		return nil
	}
	data := make([]float64, len(hist))
	for i, n := range hist {
		data[i] = float64(n)
	}
	graph := asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Width(60),
		asciigraph.Caption("segments per depth"),
	)
	fmt.Fprintf(out, "\n%s\n", graph)
	return nil
}

func (f *flags) renderGIF(cmd *cobra.Command, args []string) error {
	cfg, err := f.resolveConfig(cmd, "tree")
	if err != nil {
		return err
	}
	forest, err := f.forestFor(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	plan, err := render.NewPlan(forest, cfg.Render.Frames)
	if err != nil {
		return err
	}
	plan.SetReveal(cfg.Reveal())
	r, err := render.NewRasterizer(cfg.RenderOptions())
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "rendering %d frames (%d segments)...\n", plan.Frames(), len(forest.Segments))
	frames, err := render.Animate(cmd.Context(), plan, r)
	if err != nil {
		return err
	}
	if err := writeFile(f.out, func(w io.Writer) error {
		return render.EncodeGIF(w, frames, config.GIFDelay(cfg.Render.DelayMs))
	}); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", f.out)
	return nil
}

func (f *flags) exportSVG(cmd *cobra.Command, args []string) error {
	cfg, err := f.resolveConfig(cmd, "tree")
	if err != nil {
		return err
	}
	forest, err := f.forestFor(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	plan, err := render.NewPlan(forest, cfg.Render.Frames)
	if err != nil {
		return err
	}
	plan.SetReveal(cfg.Reveal())

	k := f.frame
	if k < 0 {
		k += plan.Frames()
	}
	if k < 0 || k >= plan.Frames() {
		return fmt.Errorf("frame %d out of range [0, %d)", f.frame, plan.Frames())
	}

	opts := export.DefaultSVGOptions()
	opts.Width, opts.Height = cfg.Render.Width, cfg.Render.Height
	if cmd.Flags().Changed("extent") {
		opts.Extent = cfg.Render.Extent
	}
	svg := export.FrameToSVG(forest, plan.Frame(k), opts)
	if err := os.WriteFile(f.out, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "exported frame %d to %s\n", k, f.out)
	return nil
}

func (f *flags) exportJSON(cmd *cobra.Command, args []string) error {
	meta, forest, err := storage.New(f.dataDir).LoadForest(args[0])
	if err != nil {
		return err
	}
	if f.out == "" {
		return storage.ExportJSON(cmd.OutOrStdout(), meta, forest)
	}
	if err := writeFile(f.out, func(w io.Writer) error {
		return storage.ExportJSON(w, meta, forest)
	}); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "exported to %s\n", f.out)
	return nil
}

func (f *flags) runLive(cmd *cobra.Command, args []string) error {
	if f.pick {
		return viz.RunPicker(f.seed, f.out)
	}
	cfg, err := f.resolveConfig(cmd, "tree")
	if err != nil {
		return err
	}
	opts := viz.OptionsFromConfig(cfg)
	opts.SnapshotDir = f.out
	return viz.Run(cfg.ForestParams(), opts)
}

func (f *flags) renderMandel(cmd *cobra.Command, args []string) error {
	if f.preset == "" {
		f.preset = "classic"
	}
	cfg, err := f.resolveConfig(cmd, "mandel")
	if err != nil {
		return err
	}
	zc := cfg.ZoomConfig()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "rendering %d frames at %dx%d...\n", zc.Frames, zc.Width, zc.Height)
	start := time.Now()
	frames, err := mandel.Zoom(cmd.Context(), zc, func(i int) {
		if (i+1)%10 == 0 || i+1 == zc.Frames {
			fmt.Fprintf(out, "  %d/%d\n", i+1, zc.Frames)
		}
	})
	if err != nil {
		return err
	}
	if err := writeFile(f.out, func(w io.Writer) error {
		return render.EncodeGIF(w, frames, config.GIFDelay(cfg.Mandel.DelayMs))
	}); err != nil {
		return err
	}
	fmt.Fprintf(out, "wrote %s in %v\n", f.out, time.Since(start).Round(time.Millisecond))
	return nil
}

func (f *flags) serve(cmd *cobra.Command, args []string) error {
	cfg, err := f.resolveConfig(cmd, "tree")
	if err != nil {
		return err
	}
	svgOpts := export.DefaultSVGOptions()
	svgOpts.Width, svgOpts.Height = cfg.Render.Width, cfg.Render.Height

	srv, err := stream.NewServer(stream.Config{
		Params: cfg.ForestParams(),
		Seed:   cfg.Seed,
		Frames: cfg.Render.Frames,
		Delay:  time.Duration(cfg.Render.DelayMs) * time.Millisecond,
		SVG:    svgOpts,
		Reveal: cfg.Reveal(),
	}, log.New(cmd.ErrOrStderr(), "", log.LstdFlags))
	if err != nil {
		return err
	}
	return srv.ListenAndServe(cmd.Context(), f.addr)
}

func (f *flags) listPresets(cmd *cobra.Command, args []string) error {
	kinds := []string{"tree", "mandel"}
	if len(args) == 1 {
		kinds = args
	}
	out := cmd.OutOrStdout()
	for _, kind := range kinds {
		presets := config.ListPresets(kind)
		if len(presets) == 0 {
			fmt.Fprintf(out, "no presets for kind: %s\n", kind)
			continue
		}
		fmt.Fprintf(out, "%s presets:\n", kind)
		for _, p := range presets {
			fmt.Fprintf(out, "  %s\n", p)
		}
	}
	return nil
}

func (f *flags) bench(cmd *cobra.Command, args []string) error {
	cfg, err := f.resolveConfig(cmd, "tree")
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "benchmarking %d roots\n\n", cfg.Forest.Roots)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DEPTH\tMODE\tSEGMENTS\tTIME\tSEGMENTS/SEC")

	for depth := 2; depth <= cfg.Forest.MaxDepth; depth++ {
		c := *cfg
		c.Forest.MaxDepth = depth
		for _, parallel := range []bool{false, true} {
			start := time.Now()
			forest, err := growForest(cmd.Context(), &c, parallel)
			if err != nil {
				return err
			}
			elapsed := time.Since(start)
			mode := "sequential"
			if parallel {
				mode = "parallel"
			}
			rate := float64(len(forest.Segments)) / elapsed.Seconds()
			fmt.Fprintf(w, "%d\t%s\t%d\t%v\t%.0f\n", depth, mode, len(forest.Segments), elapsed.Round(time.Microsecond), rate)
		}
	}
	return w.Flush()
}

func (f *flags) check(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if len(args) == 1 {
		_, forest, err := storage.New(f.dataDir).LoadForest(args[0])
		if err != nil {
			return err
		}
		if err := forest.Check(); err != nil {
			return fmt.Errorf("run %s: %w", args[0], err)
		}
		fmt.Fprintf(out, "run %s ok (%d segments)\n", args[0], len(forest.Segments))
		return nil
	}

	cfg, err := f.resolveConfig(cmd, "tree")
	if err != nil {
		return err
	}
	var failed []string
	for i := 0; i < f.count; i++ {
		c := *cfg
		c.Seed = cfg.Seed + int64(i)
		forest, err := growForest(cmd.Context(), &c, false)
		if err == nil {
			err = forest.Check()
		}
		if err != nil {
			failed = append(failed, fmt.Sprintf("seed %d: %v", c.Seed, err))
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("%d of %d seeds failed:\n  %s", len(failed), f.count, strings.Join(failed, "\n  "))
	}
	fmt.Fprintf(out, "%d seeds ok\n", f.count)
	return nil
}

// parseAxis reads param=min:max:steps.
func parseAxis(s string) (sweep.Axis, error) {
	param, spec, ok := strings.Cut(s, "=")
	if !ok {
		return sweep.Axis{}, fmt.Errorf("axis %q: want param=min:max:steps", s)
	}
	parts := strings.Split(spec, ":")
	if len(parts) != 3 {
		return sweep.Axis{}, fmt.Errorf("axis %q: want param=min:max:steps", s)
	}
	a := sweep.Axis{Param: param}
	var err error
	if a.Min, err = strconv.ParseFloat(parts[0], 64); err != nil {
		return sweep.Axis{}, fmt.Errorf("axis %q: %w", s, err)
	}
	if a.Max, err = strconv.ParseFloat(parts[1], 64); err != nil {
		return sweep.Axis{}, fmt.Errorf("axis %q: %w", s, err)
	}
	if a.Steps, err = strconv.Atoi(parts[2]); err != nil {
		return sweep.Axis{}, fmt.Errorf("axis %q: %w", s, err)
	}
	if a.Steps < 1 {
		return sweep.Axis{}, fmt.Errorf("axis %q: steps must be positive", s)
	}
	return a, nil
}

func (f *flags) runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := f.resolveConfig(cmd, "tree")
	if err != nil {
		return err
	}
	axes := make([]sweep.Axis, 0, len(f.axes))
	for _, s := range f.axes {
		a, err := parseAxis(s)
		if err != nil {
			return err
		}
		axes = append(axes, a)
	}

	points, err := sweep.Grid(cmd.Context(), cfg, axes, f.trials, func() []metrics.Metric {
		return metrics.Default(f.extent)
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	var header []string
	for _, a := range axes {
		header = append(header, strings.ToUpper(a.Param))
	}
	names := make([]string, 0)
	for _, m := range metrics.Default(f.extent) {
		names = append(names, m.Name())
		header = append(header, strings.ToUpper(m.Name()))
	}
	fmt.Fprintln(w, strings.Join(header, "\t"))
	for _, p := range points {
		var row []string
		for _, a := range axes {
			row = append(row, fmt.Sprintf("%.4g", p.Values[a.Param]))
		}
		for _, n := range names {
			row = append(row, fmt.Sprintf("%.4g", p.Metrics[n]))
		}
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	return w.Flush()
}

func (f *flags) runScenario(cmd *cobra.Command, args []string) error {
	sc, err := sweep.LoadScenario(args[0])
	if err != nil {
		return err
	}
	st := storage.New(f.dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	results, err := sweep.RunScenario(cmd.Context(), sc, st, out)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tSEED\tSEGMENTS\tTERMINALS\tRUN")
	for _, r := range results {
		runID := r.RunID
		if runID == "" {
			runID = "-"
		}
		fmt.Fprintf(w, "%d\t%d\t%d\t%d\t%s\n", r.Step+1, r.Seed, len(r.Forest.Segments), len(r.Forest.Terminals), runID)
	}
	return w.Flush()
}

func writeFile(path string, write func(io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
