package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mgpai22/subclip/internal/clip"
	"github.com/mgpai22/subclip/internal/logging"
	"github.com/mgpai22/subclip/internal/subtitle"
	"github.com/mgpai22/subclip/internal/video"
)

var extractCmd = &cobra.Command{
	Use:   "extract MOVIE",
	Short: "Save an embedded subtitle stream to a file",
	Long: `Save a text subtitle stream from inside a movie as a subtitle file.

By default the first text stream is written next to the movie with the
movie's name, where split will pick it up as a sidecar file.

Examples:
  subclip extract movie.mkv
  subclip extract movie.mkv --stream 2 -f vtt
  subclip extract movie.mkv -o subs/movie.en.srt`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().
		StringP("output", "o", "", "Output file (default: movie name with the format's extension)")
	extractCmd.Flags().
		StringP("format", "f", "srt", "Output format (srt, vtt, ass); ignored when --output has a subtitle extension")
	extractCmd.Flags().
		Int("stream", -1, "Subtitle stream `N` to extract (default: first text stream)")
	extractCmd.Flags().
		Bool("force", false, "Overwrite an existing output file")
}

func runExtract(cmd *cobra.Command, args []string) error {
	movie := args[0]
	output, _ := cmd.Flags().GetString("output")
	format, _ := cmd.Flags().GetString("format")
	stream, _ := cmd.Flags().GetInt("stream")
	force, _ := cmd.Flags().GetBool("force")

	if _, err := os.Stat(movie); err != nil {
		return fmt.Errorf("failed to open %s: %w", movie, err)
	}

	output, err := extractOutputPath(movie, output, format)
	if err != nil {
		return err
	}
	if !force {
		if _, err := os.Stat(output); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", output)
		}
	}

	proc := newProcessor()
	n, err := extractStream(cmd.Context(), proc, logger, movie, stream, output)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Subtitle stream %d saved to: %s\n", n, output)
	return nil
}

// picks the output file; its extension selects the codec ffmpeg writes
func extractOutputPath(movie, output, format string) (string, error) {
	if output != "" && subtitle.IsSubtitleFile(output) {
		return output, nil
	}

	var ext string
	switch subtitle.Format(strings.ToLower(strings.TrimSpace(format))) {
	case subtitle.FormatSRT:
		ext = ".srt"
	case subtitle.FormatVTT:
		ext = ".vtt"
	case subtitle.FormatASS:
		ext = ".ass"
	default:
		return "", fmt.Errorf("unsupported subtitle format %q (use srt, vtt or ass)", format)
	}

	if output != "" {
		return output + ext, nil
	}
	return strings.TrimSuffix(movie, filepath.Ext(movie)) + ext, nil
}

func extractStream(
	ctx context.Context,
	ex clip.Extractor,
	log *logging.Logger,
	movie string,
	want int,
	output string,
) (int, error) {
	info, err := ex.Probe(ctx, movie)
	if err != nil {
		return 0, fmt.Errorf("failed to probe movie: %w", err)
	}
	n, stream, err := video.SelectSubtitleStream(info, want)
	if err != nil {
		return 0, err
	}

	log.Infow("extracting subtitles",
		"stream", n,
		"codec", stream.CodecName,
		"language", stream.Language(),
		"output", output,
	)
	if err := ex.ExtractSubtitles(ctx, movie, n, output); err != nil {
		return 0, err
	}
	return n, nil
}
