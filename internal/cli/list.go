package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mgpai22/subclip/internal/clip"
	"github.com/mgpai22/subclip/internal/subtitle"
	"github.com/mgpai22/subclip/internal/video"
)

var listCmd = &cobra.Command{
	Use:   "list MOVIE|SUBTITLES",
	Short: "Show the subtitle cues of a movie or subtitle file",
	Long: `Print the cues split would work from, with their numbers and times.

Use --streams to list the subtitle streams embedded in a movie instead.

Examples:
  subclip list movie.srt
  subclip list movie.mkv -m "*father*"
  subclip list movie.mkv --streams`,
	Args: cobra.ExactArgs(1),
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().
		StringP("match", "m", "", "Only cues whose text contains `PATTERN` (shell glob, case-sensitive)")
	listCmd.Flags().
		Int("stream", -1, "Read embedded subtitle stream `N` instead of a sidecar file")
	listCmd.Flags().
		Bool("streams", false, "List the movie's embedded subtitle streams")
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	target := args[0]
	pattern, _ := cmd.Flags().GetString("match")
	stream, _ := cmd.Flags().GetInt("stream")
	streams, _ := cmd.Flags().GetBool("streams")
	out := cmd.OutOrStdout()

	if _, err := os.Stat(target); err != nil {
		return fmt.Errorf("failed to open %s: %w", target, err)
	}

	matcher, err := clip.NewMatcher(pattern)
	if err != nil {
		return err
	}

	if streams {
		info, err := newProcessor().Probe(ctx, target)
		if err != nil {
			return fmt.Errorf("failed to probe movie: %w", err)
		}
		subs := info.SubtitleStreams()
		if len(subs) == 0 {
			fmt.Fprintln(out, "No subtitle streams found.")
			return nil
		}
		fmt.Fprintln(out, renderStreams(out, subs))
		return nil
	}

	var ex clip.Extractor
	if !subtitle.IsSubtitleFile(target) {
		ex = newProcessor()
	}
	entries, err := loadCues(ctx, ex, target, stream)
	if err != nil {
		return err
	}

	shown := 0
	fmt.Fprintln(out, renderCues(out, entries, matcher, &shown))
	fmt.Fprintf(out, "%d of %d cues\n", shown, len(entries))
	return nil
}

// cues of a subtitle file, or of the subtitles found for a movie
func loadCues(ctx context.Context, ex clip.Extractor, target string, stream int) ([]subtitle.Entry, error) {
	path := target
	if !subtitle.IsSubtitleFile(target) {
		tempDir, err := os.MkdirTemp("", "subclip-subs-*")
		if err != nil {
			return nil, fmt.Errorf("failed to create temp directory: %w", err)
		}
		defer func() {
			_ = os.RemoveAll(tempDir)
		}()

		src, err := clip.LocateSubtitles(ctx, ex, target, "", stream, tempDir)
		if err != nil {
			return nil, err
		}
		path = src.Path
	}

	file, err := subtitle.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse subtitles: %w", err)
	}
	return file.Subtitle().Entries, nil
}

func renderCues(w io.Writer, entries []subtitle.Entry, matcher *clip.Matcher, shown *int) string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		if !matcher.Match(e.Text) {
			continue
		}
		rows = append(rows, []string{
			strconv.Itoa(e.Index),
			formatTimestamp(e.StartTime),
			formatTimestamp(e.EndTime),
			strings.ReplaceAll(e.Text, "\n", " / "),
		})
	}
	if shown != nil {
		*shown = len(rows)
	}
	return renderTable(w,
		[]string{"Cue", "Start", "End", "Text"},
		rows,
		[]columnAlignment{alignRight, alignRight, alignRight, alignLeft},
	)
}

func renderStreams(w io.Writer, streams []video.Stream) string {
	rows := make([][]string, 0, len(streams))
	for i, s := range streams {
		text := "no"
		if video.IsTextSubtitle(s) {
			text = "yes"
		}
		rows = append(rows, []string{
			strconv.Itoa(i),
			strconv.Itoa(s.Index),
			s.CodecName,
			s.Language(),
			text,
			s.Title(),
		})
	}
	return renderTable(w,
		[]string{"Stream", "Index", "Codec", "Language", "Text", "Title"},
		rows,
		[]columnAlignment{alignRight, alignRight, alignLeft, alignLeft, alignLeft, alignLeft},
	)
}
