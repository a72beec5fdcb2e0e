// Package main provides the CLI entrypoint for tuear.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/tuear/internal/audio"
	"github.com/verte-zerg/tuear/internal/catalog"
	"github.com/verte-zerg/tuear/internal/config"
	"github.com/verte-zerg/tuear/internal/generator"
	"github.com/verte-zerg/tuear/internal/model"
	"github.com/verte-zerg/tuear/internal/quiz"
	"github.com/verte-zerg/tuear/internal/stats"
	"github.com/verte-zerg/tuear/internal/statsui"
	"github.com/verte-zerg/tuear/internal/store"
	"github.com/verte-zerg/tuear/internal/tui"
)

const (
	defaultMode        = string(model.ModeIntervals)
	defaultCurveWindow = 10
)

var (
	practiceMode      string
	practiceDailyGoal int
	practiceClips     string
	practicePlayer    string
	practiceRecord    string
	practiceSeed      int64
	practiceCatalog   string

	statsSince       string
	statsLast        int
	statsCurveWindow int
	statsPlain       bool

	notesClips      string
	notesForce      bool
	notesDurationMs int
	notesSampleRate int
	notesAmplitude  float64
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tuear",
		Short:         "TUI ear trainer",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	rootCmd.Flags().StringVar(&practiceMode, "mode", defaultMode, "starting category (intervals|notes|chords|scales)")
	rootCmd.Flags().IntVar(&practiceDailyGoal, "daily-goal", quiz.DefaultDailyGoal, "correct intervals that complete the daily goal")
	rootCmd.Flags().StringVar(&practiceClips, "clips", config.DefaultClipDir(), "directory with rendered <note>.wav clips")
	rootCmd.Flags().StringVar(&practicePlayer, "player", audio.DefaultCommand(), "command used to play a clip")
	rootCmd.Flags().StringVar(&practiceRecord, "record", "", "write every played cue to this MIDI file")
	rootCmd.Flags().Int64Var(&practiceSeed, "seed", 0, "random seed (0 uses the clock)")
	rootCmd.Flags().StringVar(&practiceCatalog, "catalog", config.DefaultCatalogPath(), "TOML file overriding chords and scales")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newNotesCmd())
	rootCmd.AddCommand(newStatsCmd())

	return rootCmd
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "mode", &practiceMode, fileCfg.Practice.Mode)
	applyIntConfig(cmd, "daily-goal", &practiceDailyGoal, fileCfg.Practice.DailyGoal)
	applyStringConfig(cmd, "record", &practiceRecord, fileCfg.Practice.Record)
	applyStringConfig(cmd, "catalog", &practiceCatalog, fileCfg.Practice.Catalog)
	applyStringConfig(cmd, "clips", &practiceClips, fileCfg.Audio.Clips)
	applyStringConfig(cmd, "player", &practicePlayer, fileCfg.Audio.Player)

	cfg := model.Config{
		Mode:        model.Mode(strings.ToLower(strings.TrimSpace(practiceMode))),
		DailyGoal:   practiceDailyGoal,
		ClipDir:     practiceClips,
		PlayerCmd:   practicePlayer,
		RecordPath:  practiceRecord,
		CatalogPath: practiceCatalog,
		Seed:        practiceSeed,
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	if missing := missingClips(cfg.ClipDir, cat.NoteNames()); missing > 0 {
		logErrf("%d note clips missing in %s; render them with: tuear notes\n", missing, cfg.ClipDir)
	}

	logger, closeLog, err := openLogger(config.DefaultLogPath())
	if err != nil {
		return err
	}
	defer closeLog()

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	clipPlayer, err := audio.NewClipPlayer(cfg.ClipDir, cfg.PlayerCmd, logger)
	if err != nil {
		return err
	}
	var player audio.Player = clipPlayer
	var recorder *audio.MIDIRecorder
	if cfg.RecordPath != "" {
		recorder = audio.NewMIDIRecorder(cat)
		player = audio.Multi{clipPlayer, recorder}
	}

	gen := generator.New()
	if cfg.Seed != 0 {
		gen = generator.NewSeeded(cfg.Seed)
	}
	engine := quiz.New(cat, gen, quiz.WithDailyGoal(cfg.DailyGoal))
	ui := tui.NewModel(engine, player, cfg.Mode, logger)
	logger.Info("session started", "mode", cfg.Mode, "daily_goal", cfg.DailyGoal, "clips", cfg.ClipDir)

	program := tea.NewProgram(ui, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}

	if recorder != nil && recorder.Cues() > 0 {
		if err := recorder.WriteFile(cfg.RecordPath); err != nil {
			logErrf("failed to write recording: %v\n", err)
		} else {
			logErrf("Recorded %d cues to %s\n", recorder.Cues(), cfg.RecordPath)
		}
	}
	if !ui.Answered() {
		return nil
	}
	session, intervals := ui.Session()
	id, err := st.InsertSession(context.Background(), session, intervals)
	if err != nil {
		logger.Error("failed to save session", "err", err)
		logErrf("failed to save session: %v\n", err)
		return nil
	}
	logger.Info("session saved", "id", id, "daily_progress", session.DailyProgress, "max_streak", session.MaxStreak)
	return nil
}

func openLogger(path string) (*slog.Logger, func(), error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelInfo}))
	return logger, func() {
		if cerr := f.Close(); cerr != nil {
			// Best-effort close of the log file.
			_ = cerr
		}
	}, nil
}

func missingClips(dir string, notes []string) int {
	missing := 0
	for _, note := range notes {
		if _, err := os.Stat(filepath.Join(dir, note+".wav")); err != nil {
			missing++
		}
	}
	return missing
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newNotesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notes",
		Short: "Render sine-wave note clips",
		Args:  cobra.NoArgs,
		RunE:  runNotesCmd,
	}
	cmd.Flags().StringVar(&notesClips, "clips", config.DefaultClipDir(), "output directory")
	cmd.Flags().BoolVar(&notesForce, "force", false, "overwrite existing clips")
	cmd.Flags().IntVar(&notesDurationMs, "duration-ms", int(audio.DefaultClipFormat.Duration/time.Millisecond), "clip length in milliseconds")
	cmd.Flags().IntVar(&notesSampleRate, "sample-rate", audio.DefaultClipFormat.SampleRate, "samples per second")
	cmd.Flags().Float64Var(&notesAmplitude, "amplitude", audio.DefaultClipFormat.Amplitude, "peak level (0-1]")
	return cmd
}

func runNotesCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "clips", &notesClips, fileCfg.Audio.Clips)
	applyIntConfig(cmd, "duration-ms", &notesDurationMs, fileCfg.Audio.DurationMs)
	applyIntConfig(cmd, "sample-rate", &notesSampleRate, fileCfg.Audio.SampleRate)
	applyFloatConfig(cmd, "amplitude", &notesAmplitude, fileCfg.Audio.Amplitude)

	cfg := model.AudioConfig{
		ClipDir:    notesClips,
		SampleRate: notesSampleRate,
		DurationMs: notesDurationMs,
		Amplitude:  notesAmplitude,
	}
	format := audio.ClipFormat{
		SampleRate: cfg.SampleRate,
		Duration:   time.Duration(cfg.DurationMs) * time.Millisecond,
		Amplitude:  cfg.Amplitude,
	}
	if err := format.Validate(); err != nil {
		return fmt.Errorf("invalid clip format: %w", err)
	}

	results, err := audio.RenderClips(cfg.ClipDir, catalog.Default(), format, notesForce)
	if err != nil {
		return fmt.Errorf("failed to render clips: %w", err)
	}
	written := 0
	for _, r := range results {
		if r.Skipped {
			continue
		}
		written++
		logErrf("Wrote %s\n", r.Path)
	}
	if skipped := len(results) - written; skipped > 0 {
		logErrf("Kept %d existing clips (use --force to overwrite)\n", skipped)
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show practice history",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print a text report instead of the browser")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	if statsLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}
	if statsCurveWindow < 1 {
		return fmt.Errorf("--curve-window must be >= 1")
	}
	cfg := model.StatsConfig{
		Since:       sinceTime,
		Last:        statsLast,
		CurveWindow: statsCurveWindow,
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	names := catalog.Default().IntervalNames()
	out := cmd.OutOrStdout()
	if statsPlain || !isTerminal(out) {
		return writeStatsReport(cmd.Context(), out, st, cfg, names)
	}

	program := tea.NewProgram(statsui.NewModel(st, cfg, names), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func writeStatsReport(ctx context.Context, w io.Writer, src stats.HistorySource, cfg model.StatsConfig, names []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	report, err := stats.BuildReport(ctx, src, cfg)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}
	if err := stats.RenderSummary(w, report.Sessions); err != nil {
		return err
	}
	if len(report.Sessions) == 0 {
		return nil
	}
	if err := stats.RenderIntervalTable(w, "Per-Interval", report.IntervalsAll, names); err != nil {
		return err
	}
	if weak := stats.WeakestIntervals(report.IntervalsWindow, 3); len(weak) > 0 {
		labels := make([]string, 0, len(weak))
		for _, id := range weak {
			if id < len(names) {
				labels = append(labels, names[id])
			}
		}
		if _, err := fmt.Fprintf(w, "Focus on: %s\n\n", strings.Join(labels, ", ")); err != nil {
			return err
		}
	}
	return stats.RenderCurve(w, report.Sessions, cfg.CurveWindow)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# tuear configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# mode = %q          # intervals, notes, chords or scales
# daily-goal = %d            # Correct intervals that complete the day
# record = ""                # MIDI file receiving every played cue
# catalog = %q

[audio]
# clips = %q
# player = %q
# sample-rate = %d        # Used by 'tuear notes'
# duration-ms = %d
# amplitude = %.1f
`,
		defaultMode,
		quiz.DefaultDailyGoal,
		config.DefaultCatalogPath(),
		config.DefaultClipDir(),
		audio.DefaultCommand(),
		audio.DefaultClipFormat.SampleRate,
		int(audio.DefaultClipFormat.Duration/time.Millisecond),
		audio.DefaultClipFormat.Amplitude,
	)
}

func validateConfig(cfg model.Config) error {
	if !slices.Contains(model.Modes, cfg.Mode) {
		return fmt.Errorf("--mode must be one of intervals, notes, chords, scales")
	}
	if cfg.DailyGoal <= 0 {
		return fmt.Errorf("--daily-goal must be > 0")
	}
	if strings.TrimSpace(cfg.ClipDir) == "" {
		return fmt.Errorf("--clips must not be empty")
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
