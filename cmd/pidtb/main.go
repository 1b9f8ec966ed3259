package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/dsatizabal/pid-controller/internal/config"
	"github.com/dsatizabal/pid-controller/internal/experiment"
	"github.com/dsatizabal/pid-controller/internal/scenario"
	"github.com/dsatizabal/pid-controller/internal/storage"
	"github.com/dsatizabal/pid-controller/internal/viz"
)

const defaultDataDir = ".pidtb"

var (
	dataDir   string
	storeKind string
	logLevel  string
	quiet     bool

	configFile string
	preset     string
	dutModel   string
	setpoint   uint64
	feedback   uint64
	cycles     int

	plot    bool
	noSave  bool
	trace   bool
	rate    int
	workers int
)

var (
	errScenarioFailed = errors.New("scenario did not converge")
	errSuiteMismatch  = errors.New("suite outcomes differ from expectations")
)

func main() {
	env, err := config.LoadEnv(".env")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd(env).ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd(env config.Env) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "pidtb",
		Short:        "closed-loop verification bench for a synchronous PID controller",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", orDefault(env.DataDir, defaultDataDir), "data directory")
	rootCmd.PersistentFlags().StringVar(&storeKind, "store", orDefault(env.Store, "file"), "run store backend (file|sqlite)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", orDefault(env.LogLevel, "info"), "log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "only log warnings and errors")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run one scenario and report the outcome",
		Args:  cobra.NoArgs,
		RunE:  runScenario,
	}
	addScenarioFlags(runCmd)
	runCmd.Flags().BoolVar(&plot, "plot", false, "plot feedback and control signal after the report")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	runCmd.Flags().BoolVar(&trace, "trace", false, "print one line per cycle to stdout")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "report and plot a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "write a stored run and its trace as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list named scenarios",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			for _, name := range config.ListPresets() {
				fmt.Fprintf(out, "  %-12s %s\n", name, config.GetPreset(name).Description)
			}
		},
	}

	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "list device models",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range experiment.NewRegistry().ListModels() {
				fmt.Fprintln(cmd.OutOrStdout(), " ", name)
			}
		},
	}

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "follow a scenario live in the terminal",
		Args:  cobra.NoArgs,
		RunE:  watchScenario,
	}
	addScenarioFlags(watchCmd)
	watchCmd.Flags().IntVar(&rate, "rate", 20, "cycles per second")

	suiteCmd := &cobra.Command{
		Use:   "suite [preset...]",
		Short: "run presets concurrently and check each against its expected outcome",
		RunE:  runSuite,
	}
	suiteCmd.Flags().IntVar(&workers, "workers", 4, "scenarios run at the same time")

	rootCmd.AddCommand(runCmd, listCmd, showCmd, exportJSONCmd, presetsCmd, modelsCmd, watchCmd, suiteCmd)
	return rootCmd
}

func addScenarioFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use a named scenario")
	cmd.Flags().StringVar(&dutModel, "dut", config.DefaultModel, "device model (pid|constant|alternating)")
	cmd.Flags().Uint64Var(&setpoint, "setpoint", config.DefaultSetpoint, "setpoint")
	cmd.Flags().Uint64Var(&feedback, "feedback", config.DefaultInitialFeedback, "initial feedback")
	cmd.Flags().IntVar(&cycles, "cycles", 100, "total cycles")
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func newLogger(w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		return nil, errors.Wrapf(err, "log level %q", logLevel)
	}
	if quiet && level < slog.LevelWarn {
		level = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), nil
}

// buildConfig starts from the defaults, applies a preset, then a config
// file, then any flag the user set explicitly.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, errors.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, errors.Wrap(err, "failed to load config")
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("dut") {
		cfg.Device.Model = dutModel
	}
	if cmd.Flags().Changed("setpoint") {
		cfg.Scenario.Setpoint = setpoint
	}
	if cmd.Flags().Changed("feedback") {
		cfg.Scenario.InitialFeedback = feedback
	}
	if cmd.Flags().Changed("cycles") {
		cfg.Policy.TotalCycles = cycles
		if cfg.Policy.SettlingCycleThreshold > cycles {
			cfg.Policy.SettlingCycleThreshold = cycles
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func openStore() (storage.RunStore, error) {
	st, err := storage.Open(storeKind, dataDir)
	if err != nil {
		return nil, err
	}
	if err := st.Init(); err != nil {
		st.Close()
		return nil, err
	}
	return st, nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	logger, err := newLogger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	exp, err := experiment.New(cfg, experiment.NewRegistry(), logger)
	if err != nil {
		return err
	}

	rec := scenario.NewRecorder(cfg.Policy.TotalCycles)
	exp.Driver().AddObserver(rec)

	out := cmd.OutOrStdout()
	var tw *scenario.TraceWriter
	if trace {
		tw = scenario.NewTraceWriter(out)
		exp.Driver().AddObserver(tw)
	}

	logger.Info("running scenario",
		"scenario", cfg.Name,
		"dut", cfg.Device.Model,
		"clock", exp.Kernel().Clock().Format(exp.Kernel().Clock().Period()))

	result, runErr := exp.Run(cmd.Context())
	if tw != nil && tw.Err() != nil {
		logger.Warn("trace output failed", "err", tw.Err())
	}

	meta := exp.Metadata(result, runErr)

	if !noSave {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		if _, err := st.Save(meta, rec.Records()); err != nil {
			return errors.Wrap(err, "save run")
		}
		logger.Info("run saved", "id", meta.ID, "store", storeKind, "dir", dataDir)
	}

	fmt.Fprintln(out, viz.RenderReport(meta))

	if plot && len(rec.Records()) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, viz.PlotFeedback(rec.Records(), 80, 10))
		fmt.Fprintln(out)
		fmt.Fprintln(out, viz.PlotControl(rec.Records(), 80, 10))
	}

	if runErr != nil {
		return runErr
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.List()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tDUT\tTIME\tOUTCOME\tCYCLES\tSETPOINT\tFINAL")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d/%d\t%d\t%d\n",
			run.ID,
			run.Scenario,
			run.Model,
			run.Timestamp.Local().Format("2006-01-02 15:04:05"),
			strings.ToUpper(run.Outcome),
			run.CyclesRun,
			run.Policy.TotalCycles,
			run.Setpoint,
			run.FinalFeedback,
		)
	}

	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	records, err := st.LoadCycles(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, viz.RenderReport(meta))
	if len(records) == 0 {
		return nil
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, viz.PlotFeedback(records, 80, 10))
	fmt.Fprintln(out)
	fmt.Fprintln(out, viz.PlotControl(records, 80, 10))
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	records, err := st.LoadCycles(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(cmd.OutOrStdout(), meta, records)
}

func watchScenario(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	// the terminal belongs to the view, so the kernel and driver stay quiet
	exp, err := experiment.New(cfg, experiment.NewRegistry(), slog.New(slog.DiscardHandler))
	if err != nil {
		return err
	}

	p := tea.NewProgram(viz.NewWatch(cfg.Name, cfg.Policy), tea.WithContext(cmd.Context()))
	exp.Driver().AddObserver(viz.Forward(p))
	exp.Driver().AddObserver(scenario.NewPacer(rate))

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	go func() {
		result, err := exp.Run(ctx)
		p.Send(viz.DoneMsg{Result: result, Err: err})
	}()

	final, err := p.Run()
	cancel()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}

	if w, ok := final.(viz.Watch); ok && w.Done() && !w.Result().Passed() {
		return errScenarioFailed
	}
	return nil
}

func runSuite(cmd *cobra.Command, args []string) error {
	names := args
	if len(names) == 0 {
		names = config.ListPresets()
	}

	cfgs := make([]*config.Config, 0, len(names))
	for _, name := range names {
		cfg := config.GetPreset(name)
		if cfg == nil {
			return errors.Errorf("unknown preset: %s (available: %v)", name, config.ListPresets())
		}
		cfgs = append(cfgs, cfg)
	}

	logger, err := newLogger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	// per-cycle records from concurrent runs interleave, keep warnings only
	if !logger.Enabled(cmd.Context(), slog.LevelDebug) {
		logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelWarn}))
	}

	results := experiment.RunSuite(cmd.Context(), cfgs, experiment.NewRegistry(), logger, workers)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SCENARIO\tDUT\tEXPECT\tOUTCOME\tCYCLES\tFINAL\tSTATUS")

	mismatches := 0
	for _, r := range results {
		outcome, cyclesRun, final := "error", 0, uint64(0)
		if r.Result != nil {
			outcome = r.Result.Outcome.String()
			cyclesRun = r.Result.CyclesRun
			final = uint64(r.Result.FinalFeedback)
		}
		status := "ok"
		if !r.AsExpected() {
			status = "MISMATCH"
			mismatches++
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%s\n",
			r.Config.Name, r.Config.Device.Model, r.Config.ExpectedOutcome(),
			outcome, cyclesRun, final, status)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if mismatches > 0 {
		return errors.Wrapf(errSuiteMismatch, "%d of %d", mismatches, len(results))
	}
	return nil
}
