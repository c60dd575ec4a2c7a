package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mgpai22/subclip/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init [PATH]",
	Short: "Write a commented sample configuration file",
	Long: `Write a commented sample configuration file.

The file goes to PATH, the --config path, or ~/.config/subclip/config.toml.`,
	Args:        cobra.MaximumNArgs(1),
	Annotations: map[string]string{skipConfigLoad: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := configTarget(args)
		if err != nil {
			return err
		}
		overwrite, _ := cmd.Flags().GetBool("overwrite")
		if overwrite {
			expanded, err := config.ExpandPath(path)
			if err != nil {
				return err
			}
			if err := os.Remove(expanded); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("remove existing config: %w", err)
			}
		}
		if err := config.CreateSample(path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote sample config to %s\n", path)
		return nil
	},
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the configuration file and print the effective settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// PersistentPreRunE has already loaded and validated cfg
		out := cmd.OutOrStdout()
		rows := [][]string{
			{"ffmpeg_path", cfg.FFmpeg.FFmpegPath},
			{"ffprobe_path", cfg.FFmpeg.FFprobePath},
			{"log_format", cfg.Logging.Format},
			{"log_level", cfg.Logging.Level},
			{"end_early", fmt.Sprint(cfg.Split.EndEarly)},
			{"min_length", fmt.Sprint(cfg.Split.MinLength)},
			{"clips_suffix", cfg.Split.ClipsSuffix},
			{"betweens_suffix", cfg.Split.BetweensSuffix},
			{"twitter.video_bitrate", cfg.Twitter.VideoBitrate},
			{"twitter.audio_rate", fmt.Sprint(cfg.Twitter.AudioRate)},
			{"twitter.frame_rate", fmt.Sprint(cfg.Twitter.FrameRate)},
			{"translate.provider", cfg.Translate.Provider},
			{"translate.model", cfg.Translate.Model},
			{"translate.batch_size", fmt.Sprint(cfg.Translate.BatchSize)},
		}
		fmt.Fprintln(out, renderTable(out, []string{"Setting", "Value"}, rows, nil))
		fmt.Fprintln(out, "Configuration is valid.")
		return nil
	},
}

func init() {
	configInitCmd.Flags().Bool("overwrite", false, "Replace an existing file")
	configCmd.AddCommand(configInitCmd, configValidateCmd)
	rootCmd.AddCommand(configCmd)
}

func configTarget(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	if configPath != "" {
		return configPath, nil
	}
	return config.DefaultConfigPath()
}
