// Package main provides the CLI entrypoint for traceglyph.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gogpu/gg"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/traceglyph/internal/companion"
	"github.com/verte-zerg/traceglyph/internal/config"
	"github.com/verte-zerg/traceglyph/internal/effects"
	"github.com/verte-zerg/traceglyph/internal/game"
	"github.com/verte-zerg/traceglyph/internal/glyph"
	"github.com/verte-zerg/traceglyph/internal/handtrack"
	"github.com/verte-zerg/traceglyph/internal/model"
	"github.com/verte-zerg/traceglyph/internal/stats"
	"github.com/verte-zerg/traceglyph/internal/statsui"
	"github.com/verte-zerg/traceglyph/internal/store"
	"github.com/verte-zerg/traceglyph/internal/trace"
	"github.com/verte-zerg/traceglyph/internal/tui"
)

const (
	defaultWidth          = 1280
	defaultHeight         = 720
	defaultFPS            = 30
	defaultAdvanceDelay   = 2 * time.Second
	defaultCurveWindow    = 20
	defaultExportInterval = 3 * time.Second
	defaultExportWidth    = 640
	defaultExportQuality  = 50
)

var (
	playAlphabet     string
	playAlphabetFile string
	playShuffle      bool
	playSeed         int64
	playFont         string
	playWidth        int
	playHeight       int
	playMirror       bool
	playFPS          int
	playCellSize     int
	playTargetCells  int
	playCompleteAt   float64
	playStartRadius  float64
	playStartOffset  float64
	playAdvanceDelay time.Duration

	feedAddr   string
	feedReplay string

	companionURL   string
	companionVoice string
	exportInterval time.Duration
	exportWidth    int
	exportQuality  int

	statsAlphabet    string
	statsSince       string
	statsLast        int
	statsCurveWindow int
	statsGlyphs      string
	statsPlain       bool

	renderOut     string
	renderHit     bool
	renderStarted bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cal := trace.DefaultCalibration()
	rootCmd := &cobra.Command{
		Use:           "traceglyph",
		Short:         "Trace letters with your fingertip",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPlayCmd,
	}

	flags := rootCmd.Flags()
	flags.StringVar(&playAlphabet, "alphabet", glyph.DefaultAlphabet, "built-in alphabet or alphabet file name")
	flags.StringVar(&playAlphabetFile, "alphabet-file", "", "path to an alphabet file, one glyph per line")
	flags.BoolVar(&playShuffle, "shuffle", false, "shuffle the glyph order")
	flags.Int64Var(&playSeed, "seed", 0, "shuffle seed (0: random)")
	flags.StringVar(&playFont, "font", "", "TTF/OTF font path (default: Go Bold)")
	flags.IntVar(&playWidth, "width", defaultWidth, "raster width in pixels")
	flags.IntVar(&playHeight, "height", defaultHeight, "raster height in pixels")
	flags.BoolVar(&playMirror, "mirror", true, "mirror the camera horizontally")
	flags.IntVar(&playFPS, "fps", defaultFPS, "frames per second")
	flags.IntVar(&playCellSize, "cell-size", cal.CellSize, "coverage cell size in pixels")
	flags.IntVar(&playTargetCells, "target-cells", cal.TargetCells, "cells that count as 100% progress")
	flags.Float64Var(&playCompleteAt, "complete-at", cal.CompleteAt, "progress percentage that completes a glyph")
	flags.Float64Var(&playStartRadius, "start-radius", cal.StartRadius, "start gate radius in pixels")
	flags.Float64Var(&playStartOffset, "start-offset", cal.StartOffset, "start gate offset above centre in pixels")
	flags.DurationVar(&playAdvanceDelay, "advance-delay", defaultAdvanceDelay, "celebration time before the next glyph")
	flags.StringVar(&feedAddr, "feed-addr", "", "listen address for the landmark feed")
	flags.StringVar(&feedReplay, "replay", "", "play back a recorded landmark file instead of the live feed")
	flags.StringVar(&companionURL, "companion-url", "", "voice companion websocket URL (empty: disabled)")
	flags.StringVar(&companionVoice, "voice", companion.DefaultVoice, "companion voice")
	flags.DurationVar(&exportInterval, "export-interval", defaultExportInterval, "minimum time between snapshots sent to the companion")
	flags.IntVar(&exportWidth, "export-width", defaultExportWidth, "snapshot width in pixels")
	flags.IntVar(&exportQuality, "export-quality", defaultExportQuality, "snapshot JPEG quality (1-100)")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newAlphabetsCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newRenderCmd())

	return rootCmd
}

func runPlayCmd(cmd *cobra.Command, _ []string) error {
	envCfg, err := config.ParseEnv()
	if err != nil {
		return err
	}
	level, err := envCfg.Level()
	if err != nil {
		return err
	}
	applyEnv(cmd, envCfg)

	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := applyFileConfig(cmd, fileCfg); err != nil {
		return err
	}

	cfg := model.Config{
		Alphabet:     playAlphabet,
		AlphabetPath: playAlphabetFile,
		Shuffle:      playShuffle,
		Seed:         playSeed,
		FontPath:     playFont,
		Width:        playWidth,
		Height:       playHeight,
		Mirror:       playMirror,
		FPS:          playFPS,
		CellSize:     playCellSize,
		TargetCells:  playTargetCells,
		CompleteAt:   playCompleteAt,
		StartRadius:  playStartRadius,
		StartOffset:  playStartOffset,
		AdvanceDelay: playAdvanceDelay,
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}
	cal := calibrationFor(cfg)
	if err := cal.Validate(); err != nil {
		return err
	}

	logger, closeLog, err := openLogger(level)
	if err != nil {
		return err
	}
	defer closeLog()
	gg.SetLogger(logger)

	font, err := glyph.LoadFont(cfg.FontPath)
	if err != nil {
		return fmt.Errorf("failed to load font: %w", err)
	}
	glyphs, alphabetName, err := resolveAlphabet(cfg)
	if err != nil {
		return err
	}
	glyphs, missing := font.Filter(glyphs)
	if len(missing) > 0 {
		logger.Warn("font cannot draw glyphs", "font", font.Name(), "missing", string(missing))
		logErrf("skipping glyphs missing from %s: %s\n", font.Name(), string(missing))
	}
	if cfg.Shuffle {
		if cfg.Seed == 0 {
			cfg.Seed = time.Now().UnixNano()
		}
		glyphs = glyph.Shuffle(glyphs, cfg.Seed)
	}
	seq, err := glyph.NewSequence(glyphs)
	if err != nil {
		return err
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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sessionID := uuid.NewString()
	now := time.Now()
	if err := st.InsertSession(ctx, model.SessionStats{
		ID:        sessionID,
		StartedAt: now,
		Alphabet:  alphabetName,
		Glyphs:    seq.String(),
		Font:      font.Name(),
		Mirror:    cfg.Mirror,
	}); err != nil {
		return fmt.Errorf("failed to record session: %w", err)
	}

	provider, err := openProvider(ctx, logger)
	if err != nil {
		return err
	}

	setup := companion.DefaultSetup()
	setup.Voice = companionVoice
	var comp companion.Companion = companion.Nop{}
	var exporter game.Exporter
	if companionURL != "" {
		sock := companion.NewSocket(companionURL, setup, logger)
		go func() {
			if err := sock.Connect(ctx); err != nil {
				logger.Error("companion connect failed", "url", companionURL, "err", err)
			}
		}()
		comp = sock
		exporter = companion.NewExporter(comp, companion.ExportOptions{
			Interval: exportInterval,
			MaxWidth: exportWidth,
			Quality:  exportQuality,
		}, logger)
	}

	frame := glyph.NewFrame(cfg.Width, cfg.Height)
	defer func() {
		if cerr := frame.Close(); cerr != nil {
			logger.Warn("failed to release surfaces", "err", cerr)
		}
	}()
	canvas := glyph.NewCanvas(glyph.NewRenderer(font, glyph.DefaultStyle()), frame)
	particles := effects.NewSystem(cfg.Seed)

	opts := game.DefaultOptions(handtrack.Viewport{Width: cfg.Width, Height: cfg.Height, Mirror: cfg.Mirror})
	opts.SessionID = sessionID
	opts.Calibration = cal
	opts.AdvanceDelay = cfg.AdvanceDelay
	if cfg.Seed != 0 {
		opts.Seed = cfg.Seed
	}
	ctrl := game.NewController(opts, game.Deps{
		Provider:  provider,
		Canvas:    canvas,
		Sequence:  seq,
		Effects:   particles,
		Layers:    []glyph.Layer{particles},
		Companion: comp,
		Exporter:  exporter,
		Recorder:  st,
		Logger:    logger,
	}, now)
	defer func() {
		if cerr := ctrl.Close(); cerr != nil {
			logger.Warn("failed to close companion", "err", cerr)
		}
	}()

	logger.Info("session started", "id", sessionID, "alphabet", alphabetName, "glyphs", seq.Len())
	m := tui.NewModel(ctrl, setup.Name, cfg.FPS, logger)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func openProvider(ctx context.Context, logger *slog.Logger) (handtrack.Provider, error) {
	if feedReplay != "" {
		replay, err := handtrack.LoadReplay(feedReplay)
		if err != nil {
			return nil, fmt.Errorf("failed to load replay: %w", err)
		}
		return replay, nil
	}
	feed := handtrack.NewFeed(logger)
	go func() {
		if err := feed.Serve(ctx, feedAddr); err != nil {
			logger.Error("landmark feed stopped", "addr", feedAddr, "err", err)
		}
	}()
	logger.Info("landmark feed listening", "addr", feedAddr)
	return feed, nil
}

func openLogger(level slog.Level) (*slog.Logger, func(), error) {
	path := config.DefaultLogPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(file, &slog.HandlerOptions{Level: level}))
	return logger, func() {
		if cerr := file.Close(); cerr != nil {
			logErrf("failed to close log: %v\n", cerr)
		}
	}, nil
}

func calibrationFor(cfg model.Config) trace.Calibration {
	return trace.Calibration{
		CellSize:    cfg.CellSize,
		TargetCells: cfg.TargetCells,
		CompleteAt:  cfg.CompleteAt,
		StartRadius: cfg.StartRadius,
		StartOffset: cfg.StartOffset,
	}
}

// resolveAlphabet returns the glyphs to play and the name they are recorded
// under. An explicit file wins over a name; names that are not built in are
// looked up in the alphabet directory.
func resolveAlphabet(cfg model.Config) ([]rune, string, error) {
	if cfg.AlphabetPath != "" {
		glyphs, err := glyph.LoadAlphabet(cfg.AlphabetPath)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load alphabet: %w", err)
		}
		name := strings.TrimSuffix(filepath.Base(cfg.AlphabetPath), filepath.Ext(cfg.AlphabetPath))
		return glyphs, name, nil
	}
	name := strings.ToLower(strings.TrimSpace(cfg.Alphabet))
	if glyphs, ok := glyph.Alphabet(name); ok {
		return glyphs, name, nil
	}
	path := config.DefaultAlphabetPath(name)
	glyphs, err := glyph.LoadAlphabet(path)
	if err != nil {
		return nil, "", alphabetLoadError(name, path, err)
	}
	return glyphs, name, nil
}

func alphabetLoadError(name, path string, err error) error {
	lines := []string{
		fmt.Sprintf("failed to load alphabet: %v", err),
		fmt.Sprintf("alphabet %q is not built in", name),
		fmt.Sprintf("expected alphabet file at: %s", path),
		"Run: traceglyph alphabets",
	}
	return fmt.Errorf("%s", strings.Join(lines, "\n"))
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
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newAlphabetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "alphabets",
		Short: "List built-in and installed alphabets",
		Args:  cobra.NoArgs,
		RunE:  runAlphabetsCmd,
	}
}

func runAlphabetsCmd(cmd *cobra.Command, _ []string) error {
	names, err := listAlphabets(config.DefaultAlphabetDir())
	if err != nil {
		return err
	}
	for _, name := range names {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), name); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

// listAlphabets returns built-in names followed by *.txt files found in dir.
func listAlphabets(dir string) ([]string, error) {
	names := glyph.BuiltinAlphabets()
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return names, nil
		}
		return nil, fmt.Errorf("failed to read alphabet directory: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".txt")
		if _, builtin := glyph.Alphabet(name); builtin {
			continue
		}
		names = append(names, name)
	}
	return names, nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsAlphabet, "alphabet", "", "alphabet filter")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N rounds")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().StringVar(&statsGlyphs, "glyph", "", "glyphs to include (default: all)")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print a plain text report instead of the TUI")
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
	if statsCurveWindow < 1 {
		return fmt.Errorf("--curve-window must be >= 1")
	}

	cfg := model.StatsConfig{
		Alphabet:    statsAlphabet,
		Since:       sinceTime,
		Last:        statsLast,
		CurveWindow: statsCurveWindow,
		Glyphs:      statsGlyphs,
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

	load := func(ctx context.Context, cfg model.StatsConfig) (stats.Report, error) {
		return stats.BuildReport(ctx, st, cfg)
	}
	if statsPlain {
		report, err := load(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		return renderPlainStats(cmd.OutOrStdout(), report, cfg.CurveWindow)
	}

	m := statsui.NewModel(load, cfg)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func renderPlainStats(w io.Writer, report stats.Report, window int) error {
	if err := stats.RenderSummary(w, report.Rounds, report.NeedsPractice); err != nil {
		return err
	}
	if err := stats.RenderCurve(w, "Trace time per round", stats.TraceSeconds(report.Rounds), window, 0); err != nil {
		return err
	}
	return stats.RenderGlyphTable(w, report.GlyphsAll)
}

func newRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render <glyph>",
		Short: "Render a glyph road to PNG",
		Args:  cobra.ExactArgs(1),
		RunE:  runRenderCmd,
	}
	cmd.Flags().StringVar(&renderOut, "out", "", "output PNG path (default: <glyph>.png)")
	cmd.Flags().BoolVar(&renderHit, "hit", false, "render the hit-test surface instead of the display")
	cmd.Flags().BoolVar(&renderStarted, "started", false, "omit the start hint")
	cmd.Flags().StringVar(&playFont, "font", "", "TTF/OTF font path (default: Go Bold)")
	cmd.Flags().IntVar(&playWidth, "width", defaultWidth, "raster width in pixels")
	cmd.Flags().IntVar(&playHeight, "height", defaultHeight, "raster height in pixels")
	cmd.Flags().Float64Var(&playStartOffset, "start-offset", trace.DefaultCalibration().StartOffset, "start gate offset above centre in pixels")
	return cmd
}

func runRenderCmd(_ *cobra.Command, args []string) error {
	runes := []rune(args[0])
	if len(runes) != 1 {
		return fmt.Errorf("expected a single glyph, got %q", args[0])
	}
	if playWidth <= 0 || playHeight <= 0 {
		return fmt.Errorf("--width and --height must be > 0")
	}
	font, err := glyph.LoadFont(playFont)
	if err != nil {
		return fmt.Errorf("failed to load font: %w", err)
	}
	frame := glyph.NewFrame(playWidth, playHeight)
	defer func() { _ = frame.Close() }()

	r := glyph.NewRenderer(font, glyph.DefaultStyle())
	anchor := glyph.StartAnchor(playWidth, playHeight, playStartOffset)
	if err := r.DrawRoad(frame, runes[0], anchor, renderStarted, time.Now()); err != nil {
		return err
	}
	out := renderOut
	if out == "" {
		out = fmt.Sprintf("%U.png", runes[0])
	}
	surface := frame.Display
	if renderHit {
		surface = frame.Hit
	}
	if err := surface.SavePNG(out); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}
	logErrf("Wrote %s\n", out)
	return nil
}

func applyEnv(cmd *cobra.Command, e config.Env) {
	applyStringConfig(cmd, "feed-addr", &feedAddr, &e.FeedAddr)
	if e.CompanionURL != "" {
		applyStringConfig(cmd, "companion-url", &companionURL, &e.CompanionURL)
	}
	if e.CompanionVoice != "" {
		applyStringConfig(cmd, "voice", &companionVoice, &e.CompanionVoice)
	}
}

func applyFileConfig(cmd *cobra.Command, fc config.FileConfig) error {
	g := fc.Game
	applyStringConfig(cmd, "alphabet", &playAlphabet, g.Alphabet)
	applyBoolConfig(cmd, "shuffle", &playShuffle, g.Shuffle)
	applyInt64Config(cmd, "seed", &playSeed, g.Seed)
	applyStringConfig(cmd, "font", &playFont, g.Font)
	applyIntConfig(cmd, "width", &playWidth, g.Width)
	applyIntConfig(cmd, "height", &playHeight, g.Height)
	applyBoolConfig(cmd, "mirror", &playMirror, g.Mirror)
	applyIntConfig(cmd, "fps", &playFPS, g.FPS)
	applyIntConfig(cmd, "cell-size", &playCellSize, g.CellSize)
	applyIntConfig(cmd, "target-cells", &playTargetCells, g.TargetCells)
	applyFloatConfig(cmd, "complete-at", &playCompleteAt, g.CompleteAt)
	applyFloatConfig(cmd, "start-radius", &playStartRadius, g.StartRadius)
	applyFloatConfig(cmd, "start-offset", &playStartOffset, g.StartOffset)
	if err := applyDurationConfig(cmd, "advance-delay", &playAdvanceDelay, g.AdvanceDelay); err != nil {
		return err
	}

	applyStringConfig(cmd, "feed-addr", &feedAddr, fc.Feed.Addr)
	applyStringConfig(cmd, "replay", &feedReplay, fc.Feed.Replay)

	c := fc.Companion
	applyStringConfig(cmd, "companion-url", &companionURL, c.URL)
	applyStringConfig(cmd, "voice", &companionVoice, c.Voice)
	if err := applyDurationConfig(cmd, "export-interval", &exportInterval, c.ExportInterval); err != nil {
		return err
	}
	applyIntConfig(cmd, "export-width", &exportWidth, c.ExportWidth)
	applyIntConfig(cmd, "export-quality", &exportQuality, c.ExportQuality)
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyInt64Config(cmd *cobra.Command, name string, target, value *int64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyDurationConfig(cmd *cobra.Command, name string, target *time.Duration, value *string) error {
	if value == nil || cmd.Flags().Changed(name) {
		return nil
	}
	d, err := time.ParseDuration(*value)
	if err != nil {
		return fmt.Errorf("invalid %s in config: %w", name, err)
	}
	*target = d
	return nil
}

func defaultConfigTemplate() string {
	cal := trace.DefaultCalibration()
	return fmt.Sprintf(`# traceglyph configuration
# Uncomment a value to enable it. CLI flags override config values,
# config values override TRACEGLYPH_* environment variables.

[game]
# alphabet = %q          # Built-in alphabet or alphabet file name
# shuffle = false         # Shuffle the glyph order
# seed = 0                # Shuffle seed (0: random)
# font = ""               # TTF/OTF font path (default: Go Bold)
# width = %d            # Raster width in pixels
# height = %d            # Raster height in pixels
# mirror = true           # Mirror the camera horizontally
# fps = %d                # Frames per second
# cell-size = %d           # Coverage cell size in pixels
# target-cells = %d       # Cells that count as 100%% progress
# complete-at = %.1f     # Progress percentage that completes a glyph
# start-radius = %.1f    # Start gate radius in pixels
# start-offset = %.1f   # Start gate offset above centre in pixels
# advance-delay = %q    # Celebration time before the next glyph

[feed]
# addr = "127.0.0.1:8765" # Landmark feed listen address
# replay = ""             # Recorded landmark file to play back

[companion]
# url = ""                # Voice companion websocket URL
# voice = %q          # Companion voice
# export-interval = %q  # Minimum time between snapshots
# export-width = %d      # Snapshot width in pixels
# export-quality = %d     # Snapshot JPEG quality (1-100)
`,
		glyph.DefaultAlphabet,
		defaultWidth,
		defaultHeight,
		defaultFPS,
		cal.CellSize,
		cal.TargetCells,
		cal.CompleteAt,
		cal.StartRadius,
		cal.StartOffset,
		defaultAdvanceDelay.String(),
		companion.DefaultVoice,
		defaultExportInterval.String(),
		defaultExportWidth,
		defaultExportQuality,
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("--width and --height must be > 0")
	}
	if cfg.FPS <= 0 || cfg.FPS > 120 {
		return fmt.Errorf("--fps must be between 1 and 120")
	}
	if cfg.AdvanceDelay < 0 {
		return fmt.Errorf("--advance-delay must be >= 0")
	}
	if exportInterval < 0 {
		return fmt.Errorf("--export-interval must be >= 0")
	}
	if exportWidth <= 0 {
		return fmt.Errorf("--export-width must be > 0")
	}
	if exportQuality < 1 || exportQuality > 100 {
		return fmt.Errorf("--export-quality must be between 1 and 100")
	}
	if feedReplay == "" && strings.TrimSpace(feedAddr) == "" {
		return fmt.Errorf("--feed-addr must not be empty")
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
