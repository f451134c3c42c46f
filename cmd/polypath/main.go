package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/san-kum/polypath/internal/config"
	"github.com/san-kum/polypath/internal/cpath"
	"github.com/san-kum/polypath/internal/homotopy"
	"github.com/san-kum/polypath/internal/integrators"
	"github.com/san-kum/polypath/internal/problems"
	"github.com/san-kum/polypath/internal/storage"
	"github.com/san-kum/polypath/internal/tracker"
	"github.com/san-kum/polypath/internal/tui"
	"github.com/san-kum/polypath/internal/viz"
)

var (
	dataDir    string
	verbose    bool
	configFile string
	preset     string

	dt               float64
	tolerance        float64
	rootTol          float64
	endgameThreshold float64
	blowup           float64
	adaptive         bool
	integratorName   string
	workers          int
	gammaSeed        int64

	live          bool
	plotPath      int
	plotResiduals bool
	saveRun       bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "polypath",
		Short: "polynomial system solver via homotopy continuation",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".polypath", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	solveCmd := &cobra.Command{
		Use:   "solve [problem]",
		Short: "track all paths of a problem and report its roots",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSolve,
	}
	solveCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	solveCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	solveCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "initial step size")
	solveCmd.Flags().Float64Var(&tolerance, "tol", config.DefaultTolerance, "local error tolerance")
	solveCmd.Flags().Float64Var(&rootTol, "root-tol", config.DefaultRootTol, "root residual tolerance")
	solveCmd.Flags().Float64Var(&endgameThreshold, "endgame", config.DefaultEndgameThreshold, "endgame threshold on t")
	solveCmd.Flags().Float64Var(&blowup, "blowup", config.DefaultBlowup, "norm above which a path is abandoned")
	solveCmd.Flags().BoolVar(&adaptive, "adaptive", true, "adaptive step control")
	solveCmd.Flags().StringVar(&integratorName, "integrator", "dopri", "integrator (euler|rk4|dopri)")
	solveCmd.Flags().IntVar(&workers, "workers", 0, "worker goroutines (0 = NumCPU)")
	solveCmd.Flags().Int64Var(&gammaSeed, "gamma-seed", config.DefaultGammaSeed, "seed for the gamma twist")
	solveCmd.Flags().BoolVar(&live, "live", false, "live progress view")
	solveCmd.Flags().IntVar(&plotPath, "plot-path", -1, "plot the trace of one path after solving")
	solveCmd.Flags().BoolVar(&plotResiduals, "plot-residuals", false, "plot the terminal residual of every path")
	solveCmd.Flags().BoolVar(&saveRun, "save", false, "persist the run under the data directory")

	problemsCmd := &cobra.Command{
		Use:   "problems",
		Short: "list built-in problems",
		Run:   listProblems,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run-id]",
		Short: "show the roots of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	rootCmd.AddCommand(solveCmd, problemsCmd, listCmd, showCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
}

func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	var cfg *config.Config
	switch {
	case preset != "":
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset %q (have: %v)", preset, config.ListPresets())
		}
	case configFile != "":
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	default:
		cfg = config.DefaultConfig()
	}

	if len(args) > 0 {
		cfg.Problem = args[0]
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("tol") {
		cfg.Tolerance = tolerance
	}
	if flags.Changed("root-tol") {
		cfg.RootTol = rootTol
	}
	if flags.Changed("endgame") {
		cfg.EndgameThreshold = endgameThreshold
	}
	if flags.Changed("blowup") {
		cfg.Blowup = blowup
	}
	if flags.Changed("adaptive") {
		cfg.Adaptive = adaptive
	}
	if flags.Changed("integrator") {
		cfg.Integrator = integratorName
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("gamma-seed") {
		cfg.GammaSeed = gammaSeed
	}

	return cfg, nil
}

func integratorFactory(name string) (func() cpath.Integrator, error) {
	switch name {
	case "euler":
		return func() cpath.Integrator { return integrators.NewEuler() }, nil
	case "rk4":
		return func() cpath.Integrator { return integrators.NewRK4() }, nil
	case "dopri", "":
		return func() cpath.Integrator { return integrators.NewDOPRI() }, nil
	default:
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
}

func runSolve(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	logger := newLogger()

	sys, inline, err := cfg.InlineSystem()
	if err != nil {
		return err
	}
	problemName := cfg.Problem
	if inline {
		problemName = "inline"
	} else {
		reg := problems.NewRegistry()
		sys, err = reg.Get(cfg.Problem)
		if err != nil {
			return err
		}
	}

	h, err := homotopy.NewTotalDegree(sys, homotopy.RandomGamma(cfg.GammaSeed))
	if err != nil {
		return err
	}
	logger.Info("homotopy built",
		"problem", problemName,
		"dimension", h.Size(),
		"paths", h.PathCount())

	tcfg := cfg.TrackerConfig()
	tcfg.RecordTrace = plotPath >= 0

	factory, err := integratorFactory(cfg.Integrator)
	if err != nil {
		return err
	}

	ens := tracker.NewEnsemble(h, tcfg)
	ens.SetLogger(logger)
	ens.SetWorkers(cfg.Workers)
	ens.SetIntegratorFactory(factory)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var summary *tracker.Summary
	if live {
		summary, err = runLive(ctx, ens, problemName, h.PathCount())
	} else {
		summary, err = ens.Run(ctx)
	}
	if err != nil {
		return err
	}
	if summary == nil {
		return fmt.Errorf("solve aborted")
	}

	fmt.Println(viz.RootsTable(summary))

	if plotPath >= 0 {
		if plotPath >= len(summary.Results) {
			return fmt.Errorf("path %d out of range [0,%d)", plotPath, len(summary.Results))
		}
		fmt.Println()
		fmt.Println(viz.TracePlot(summary.Results[plotPath], 80, 12))
	}

	if plotResiduals {
		fmt.Println()
		fmt.Println(viz.ResidualPlot(summary, 80, 10))
	}

	if saveRun {
		store := storage.New(dataDir)
		if err := store.Init(); err != nil {
			return err
		}
		runID, err := store.Save(problemName, cfg.Integrator, cfg.GammaSeed, h.Size(), summary)
		if err != nil {
			return err
		}
		logger.Info("run saved", "id", runID)
	}

	return nil
}

func runLive(ctx context.Context, ens *tracker.Ensemble, problemName string, total int) (*tracker.Summary, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(tui.New(problemName, total, cancel))
	ens.SetEventSink(func(ev tracker.Event) {
		p.Send(tui.EventMsg{Event: ev})
	})

	type outcome struct {
		summary *tracker.Summary
		err     error
	}
	done := make(chan outcome, 1)
	go func() {
		summary, err := ens.Run(ctx)
		done <- outcome{summary: summary, err: err}
		p.Send(tui.DoneMsg{Summary: summary})
	}()

	if _, err := p.Run(); err != nil {
		return nil, err
	}

	// Quitting the view cancels the context; the ensemble still finishes
	// its in-flight paths and reports a partial summary.
	out := <-done
	if out.err != nil && !errors.Is(out.err, context.Canceled) {
		return nil, out.err
	}
	return out.summary, nil
}

func listProblems(cmd *cobra.Command, args []string) {
	reg := problems.NewRegistry()
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tPATHS\tDESCRIPTION")
	for _, name := range reg.List() {
		sys, err := reg.Get(name)
		if err != nil {
			continue
		}
		count := 1
		for _, d := range sys.Degrees() {
			count *= d
		}
		fmt.Fprintf(w, "%s\t%d\t%s\n", name, count, reg.Describe(name))
	}
	w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	store := storage.New(dataDir)
	runs, err := store.List()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPROBLEM\tPATHS\tCONVERGED\tROOTS\tWHEN")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%s\n",
			run.ID, run.Problem, run.Paths, run.Converged, run.DistinctRoots,
			run.Timestamp.Format(time.RFC3339))
	}
	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	store := storage.New(dataDir)
	meta, err := store.Load(args[0])
	if err != nil {
		return err
	}
	roots, statuses, err := store.LoadRoots(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("%s: %s, %d paths, %d converged, %d distinct roots\n",
		meta.ID, meta.Problem, meta.Paths, meta.Converged, meta.DistinctRoots)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PATH\tSTATUS\tROOT")
	for i, root := range roots {
		parts := ""
		for j, z := range root {
			if j > 0 {
				parts += ", "
			}
			parts += fmt.Sprintf("%.6f%+.6fi", real(z), imag(z))
		}
		fmt.Fprintf(w, "%d\t%s\t(%s)\n", i, statuses[i], parts)
	}
	return w.Flush()
}
