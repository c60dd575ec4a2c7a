package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mgpai22/subclip/internal/config"
	ffmpegbin "github.com/mgpai22/subclip/internal/ffmpeg"
	"github.com/mgpai22/subclip/internal/logging"
	"github.com/mgpai22/subclip/internal/video"
)

// commands annotated with this skip loading the config file
const skipConfigLoad = "skipConfigLoad"

var (
	verbose    bool
	configPath string
	cfg        *config.Config
	logger     *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "subclip",
	Short: "Split a video into clips along its subtitles",
	Long: `Subclip cuts a movie into one clip per subtitle cue, or into the
stretches between cues, using ffmpeg.

Clips can have the subtitles burned in, replaced with custom text, or
translated with an AI provider first.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Annotations[skipConfigLoad] == "true" {
			cfg = ptr(config.Default())
			logger = logging.NewLogger(verbose)
			return nil
		}

		loaded, path, exists, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		logger = logging.New(logging.Options{
			Verbose: verbose,
			Level:   cfg.Logging.Level,
			Format:  cfg.Logging.Format,
		})
		if exists {
			logger.Debugw("loaded config", "path", path)
		}
		return nil
	},
}

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Show ffmpeg output and the commands being run")
	rootCmd.PersistentFlags().
		StringVar(&configPath, "config", "", "Config file (default ~/.config/subclip/config.toml)")
}

// ffmpeg-backed processor configured from the loaded config
func newProcessor() *video.Processor {
	resolver := ffmpegbin.NewResolver(ffmpegbin.BinaryPaths{
		FFmpeg:  cfg.FFmpeg.FFmpegPath,
		FFprobe: cfg.FFmpeg.FFprobePath,
	})
	return video.NewProcessor(resolver, logger, verbose)
}

func ptr[T any](v T) *T {
	return &v
}
