package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mgpai22/subclip/internal/clip"
	"github.com/mgpai22/subclip/internal/config"
	"github.com/mgpai22/subclip/internal/logging"
	"github.com/mgpai22/subclip/internal/subtitle"
	"github.com/mgpai22/subclip/internal/translate"
	"github.com/mgpai22/subclip/internal/video"
)

var splitCmd = &cobra.Command{
	Use:   "split MOVIE|DIR [SUBTITLES]",
	Short: "Split a movie into clips, one per subtitle cue",
	Long: `Split a movie into one clip per subtitle cue.

Subtitles are read from SUBTITLES when given, otherwise from a .srt, .vtt,
.ass or .ssa file next to the movie, otherwise from the first text subtitle
stream inside it. Each clip is named after its cue number and text.

With --between the parts of the movie between cues are extracted instead.
When MOVIE is a directory every video file in it is split.

Examples:
  subclip split movie.mkv
  subclip split movie.mkv movie.en.srt -s -m "Luke"
  subclip split movie.mkv -r "I AM YOUR FATHER" -t
  subclip split movie.mkv -b --min-length 2 -o quiet-bits
  subclip split movie.mkv --translate-to french --provider openai
  subclip split movie.mkv -n`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSplit,
}

func init() {
	rootCmd.AddCommand(splitCmd)
	addSplitFlags(splitCmd)
}

func addSplitFlags(cmd *cobra.Command) {
	defaults := config.Default()
	f := cmd.Flags()

	f.BoolP("subs", "s", false, "Burn the subtitles into the clips")
	f.StringP("out", "o", "", `Destination directory (default "<movie> clips", or "<movie> betweens" with --between)`)
	f.BoolP("twitter", "t", false, "Re-encode with a Twitter-friendly preset; clips become .mp4")
	f.BoolP("between", "b", false, "Extract the parts between cues instead of the cues")
	f.Float64("end-early", defaults.Split.EndEarly, "With --between, end each clip this many seconds early")
	f.Float64("min-length", defaults.Split.MinLength, "With --between, skip clips shorter than this many seconds")
	f.StringP("match", "m", "", "Only cues whose text contains `PATTERN` (shell glob, case-sensitive)")
	f.StringP("replace", "r", "", "Replace every subtitle with `TEXT` ($NL for a newline); implies --subs")
	f.String("translate-to", "", "Translate the subtitles to `LANGUAGE` before burning them in; implies --subs")
	f.String("source-language", "", "Language of the subtitles, passed to the translator")
	f.String("provider", defaults.Translate.Provider, "Translation provider (gemini, openai, anthropic)")
	f.StringP("api-key", "k", "", "API key (or set GEMINI_API_KEY/OPENAI_API_KEY/ANTHROPIC_API_KEY)")
	f.String("model", "", "Translation model (provider default when empty)")
	f.Int("batch-size", defaults.Translate.BatchSize, "Subtitle lines per translation request")
	f.Int("stream", -1, "Use embedded subtitle stream `N` (counting subtitle streams from 0)")
	f.Float64("offset", -1, "Start offset in seconds (default: one tick of the video time base)")
	f.BoolP("dry-run", "n", false, "Print the clip plan without running ffmpeg")

	cmd.MarkFlagsMutuallyExclusive("replace", "translate-to")
}

type splitOptions struct {
	outDir    string
	subs      bool
	twitter   bool
	between   bool
	endEarly  time.Duration
	minLength time.Duration
	match     *clip.Matcher
	replace   string
	stream    int
	// negative probes the movie
	offset    time.Duration
	dryRun    bool

	translateTo string
	provider    translate.Provider
	apiKey      string
	translation translate.Options
}

func readSplitOptions(cmd *cobra.Command, c *config.Config) (splitOptions, error) {
	f := cmd.Flags()
	var opts splitOptions

	opts.outDir, _ = f.GetString("out")
	opts.subs, _ = f.GetBool("subs")
	opts.twitter, _ = f.GetBool("twitter")
	opts.between, _ = f.GetBool("between")
	opts.replace, _ = f.GetString("replace")
	opts.stream, _ = f.GetInt("stream")
	opts.dryRun, _ = f.GetBool("dry-run")
	opts.translateTo, _ = f.GetString("translate-to")
	opts.apiKey, _ = f.GetString("api-key")

	endEarly := c.Split.EndEarly
	if f.Changed("end-early") {
		endEarly, _ = f.GetFloat64("end-early")
	}
	minLength := c.Split.MinLength
	if f.Changed("min-length") {
		minLength, _ = f.GetFloat64("min-length")
	}
	if endEarly < 0 {
		return opts, fmt.Errorf("--end-early must not be negative, got %v", endEarly)
	}
	if minLength < 0 {
		return opts, fmt.Errorf("--min-length must not be negative, got %v", minLength)
	}
	opts.endEarly = secondsToDuration(endEarly)
	opts.minLength = secondsToDuration(minLength)

	offset, _ := f.GetFloat64("offset")
	opts.offset = -1
	if offset >= 0 {
		opts.offset = secondsToDuration(offset)
	}

	pattern, _ := f.GetString("match")
	matcher, err := clip.NewMatcher(pattern)
	if err != nil {
		return opts, err
	}
	opts.match = matcher

	provider := c.Translate.Provider
	if f.Changed("provider") {
		provider, _ = f.GetString("provider")
	}
	model := c.Translate.Model
	if f.Changed("model") {
		model, _ = f.GetString("model")
	}
	batchSize := c.Translate.BatchSize
	if f.Changed("batch-size") {
		batchSize, _ = f.GetInt("batch-size")
	}
	if batchSize <= 0 {
		return opts, fmt.Errorf("--batch-size must be positive, got %d", batchSize)
	}
	sourceLang, _ := f.GetString("source-language")

	opts.provider = translate.Provider(strings.ToLower(strings.TrimSpace(provider)))
	opts.translation = translate.Options{
		InputLanguage:  sourceLang,
		TargetLanguage: opts.translateTo,
		Model:          model,
		BatchSize:      batchSize,
	}

	if opts.replace != "" || opts.translateTo != "" {
		opts.subs = true
	}
	return opts, nil
}

func secondsToDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}

// ffprobe and ffmpeg operations split needs
type mediaTool interface {
	clip.Extractor
	clip.Cutter
}

type textTranslator interface {
	Translate(ctx context.Context, texts []string) ([]string, error)
}

// collaborators and config for split
type splitEnv struct {
	tool           mediaTool
	translator     textTranslator
	out            io.Writer
	logger         *logging.Logger
	twitter        video.TwitterPreset
	clipsSuffix    string
	betweensSuffix string
}

func runSplit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	opts, err := readSplitOptions(cmd, cfg)
	if err != nil {
		return err
	}

	env := splitEnv{
		tool:   newProcessor(),
		out:    cmd.OutOrStdout(),
		logger: logger,
		twitter: video.TwitterPreset{
			VideoBitrate: cfg.Twitter.VideoBitrate,
			AudioRate:    cfg.Twitter.AudioRate,
			FrameRate:    cfg.Twitter.FrameRate,
		},
		clipsSuffix:    cfg.Split.ClipsSuffix,
		betweensSuffix: cfg.Split.BetweensSuffix,
	}

	if opts.translateTo != "" && !opts.dryRun {
		apiKey, err := translate.ResolveAPIKey(opts.provider, opts.apiKey)
		if err != nil {
			return err
		}
		translator, err := translate.New(ctx, opts.provider, apiKey, opts.translation, logger)
		if err != nil {
			return fmt.Errorf("failed to create translator: %w", err)
		}
		env.translator = translator
	}

	target := args[0]
	var subsPath string
	if len(args) == 2 {
		subsPath = args[1]
	}

	info, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", target, err)
	}
	if !info.IsDir() {
		return splitMovie(ctx, env, target, subsPath, opts)
	}
	if subsPath != "" {
		return fmt.Errorf("a subtitle file cannot be given together with a directory")
	}
	return splitDirectory(ctx, env, target, opts)
}

// splits every video in dir; movies without subtitles are skipped
func splitDirectory(ctx context.Context, env splitEnv, dir string, opts splitOptions) error {
	movies, err := video.ListVideos(dir)
	if err != nil {
		return err
	}
	if len(movies) == 0 {
		return fmt.Errorf("no video files found in %s", dir)
	}

	var failures []error
	for i, movie := range movies {
		movieOpts := opts
		if opts.outDir != "" {
			movieOpts.outDir = filepath.Join(opts.outDir, filepath.Base(defaultOutDir(env, movie, opts.between)))
		}

		env.logger.Infow("splitting movie", "movie", movie, "n", i+1, "of", len(movies))
		err := splitMovie(ctx, env, movie, "", movieOpts)
		switch {
		case err == nil:
		case ctx.Err() != nil:
			return ctx.Err()
		case errors.Is(err, clip.ErrNoSubtitles):
			env.logger.Warnw("skipping movie without subtitles", "movie", movie)
		default:
			env.logger.Warnw("failed to split movie", "movie", movie, "error", err)
			failures = append(failures, fmt.Errorf("%s: %w", filepath.Base(movie), err))
		}
	}

	if len(failures) > 0 {
		return fmt.Errorf("%d of %d movies failed: %w", len(failures), len(movies), errors.Join(failures...))
	}
	return nil
}

func defaultOutDir(env splitEnv, movie string, between bool) string {
	suffix := env.clipsSuffix
	if between {
		suffix = env.betweensSuffix
	}
	return strings.TrimSuffix(movie, filepath.Ext(movie)) + suffix
}

func splitMovie(ctx context.Context, env splitEnv, movie, subsPath string, opts splitOptions) error {
	tempDir, err := os.MkdirTemp("", "subclip-subs-*")
	if err != nil {
		return fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer func() {
		_ = os.RemoveAll(tempDir)
	}()

	src, err := clip.LocateSubtitles(ctx, env.tool, movie, subsPath, opts.stream, tempDir)
	if err != nil {
		return err
	}
	if src.Embedded {
		env.logger.Infow("using embedded subtitles", "stream", src.Stream, "language", src.Language)
	}

	file, err := subtitle.Open(src.Path)
	if err != nil {
		return fmt.Errorf("failed to parse subtitles: %w", err)
	}
	cues := file.Subtitle().Entries
	if len(cues) == 0 {
		return fmt.Errorf("no cues in %s", src.Path)
	}
	env.logger.Debugw("loaded subtitles", "path", src.Path, "format", file.Format(), "cues", len(cues))

	job := clip.Job{Movie: movie, Cues: cues}
	if opts.twitter {
		preset := env.twitter
		job.Twitter = &preset
	}

	switch {
	case opts.replace != "":
		if err := subtitle.ReplaceAll(file, subtitle.ExpandNewlines(opts.replace)); err != nil {
			return err
		}
		job.BurnIn = file
	case opts.translateTo != "" && !opts.dryRun:
		if err := translateCues(ctx, env, file, opts.translateTo); err != nil {
			return err
		}
		job.BurnIn = file
	case opts.subs:
		job.BurnInPath = src.Path
	}

	offset := opts.offset
	if offset < 0 {
		info, err := env.tool.Probe(ctx, movie)
		if err != nil {
			return fmt.Errorf("failed to probe movie: %w", err)
		}
		if offset, err = info.FrameOffset(); err != nil {
			return fmt.Errorf("failed to determine frame offset: %w", err)
		}
	}

	ext := filepath.Ext(movie)
	if opts.twitter {
		ext = ".mp4"
	}
	outDir := opts.outDir
	if outDir == "" {
		outDir = defaultOutDir(env, movie, opts.between)
	}

	job.Options = clip.Options{
		Between:   opts.between,
		EndEarly:  opts.endEarly,
		MinLength: opts.minLength,
		Match:     opts.match,
		Offset:    offset,
		Extension: ext,
		OutDir:    outDir,
	}

	if opts.dryRun {
		segments := clip.Plan(job.Cues, job.Options)
		fmt.Fprintln(env.out, renderPlan(env.out, segments))
		fmt.Fprintf(env.out, "%d clips would be written to %s\n", len(segments), outDir)
		return nil
	}

	_, err = clip.NewSplitter(env.tool, env.logger, env.out).Run(ctx, job)
	return err
}

func translateCues(ctx context.Context, env splitEnv, file subtitle.File, language string) error {
	if env.translator == nil {
		return fmt.Errorf("no translator configured")
	}

	texts := subtitle.Texts(file)
	env.logger.Infow("translating subtitles", "cues", len(texts), "language", language)

	translated, err := env.translator.Translate(ctx, texts)
	if err != nil {
		return fmt.Errorf("translation failed: %w", err)
	}
	return subtitle.SetTexts(file, translated)
}

func renderPlan(w io.Writer, segments []clip.Segment) string {
	rows := make([][]string, 0, len(segments))
	for _, seg := range segments {
		rows = append(rows, []string{
			strconv.Itoa(seg.Cue),
			formatTimestamp(seg.Start),
			formatTimestamp(seg.End),
			formatSeconds(seg.Duration()),
			filepath.Base(seg.Path),
		})
	}
	return renderTable(w,
		[]string{"Cue", "Start", "End", "Length", "File"},
		rows,
		[]columnAlignment{alignRight, alignRight, alignRight, alignRight, alignLeft},
	)
}
