package video

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// quiet global flags added unless verbose
var quietArgs = []string{"-hide_banner", "-loglevel", "panic"}

// re-encode settings for the Twitter-friendly preset
type TwitterPreset struct {
	VideoBitrate string
	AudioRate    int
	FrameRate    int
}

type CutOptions struct {
	Start time.Duration
	End   time.Duration
	// subtitle file burned in with the subtitles filter; empty for none
	Subtitles string
	// nil keeps ffmpeg's defaults for the output container
	Twitter *TwitterPreset
}

func (t TwitterPreset) kwargs() ffmpeg.KwArgs {
	return ffmpeg.KwArgs{
		"pix_fmt": "yuv420p",
		"vcodec":  "libx264",
		"acodec":  "aac",
		"b:v":     t.VideoBitrate,
		"minrate": t.VideoBitrate,
		"maxrate": t.VideoBitrate,
		"bufsize": t.VideoBitrate,
		"ar":      strconv.Itoa(t.AudioRate),
		"ac":      "2",
		"strict":  "experimental",
		"r":       strconv.Itoa(t.FrameRate),
	}
}

// CutArgs builds the ffmpeg arguments for one clip
func CutArgs(movie, output string, opts CutOptions, verbose bool) []string {
	kwargs := ffmpeg.KwArgs{
		"ss": seconds(opts.Start),
		"to": seconds(opts.End),
	}
	if opts.Subtitles != "" {
		kwargs["vf"] = "subtitles=" + EscapeFilterPath(opts.Subtitles)
	}
	if opts.Twitter != nil {
		for k, v := range opts.Twitter.kwargs() {
			kwargs[k] = v
		}
	}

	return finishArgs(ffmpeg.Input(movie).Output(output, kwargs), verbose)
}

// GlobalArgs starts a new node, so -y has to be set on the last stream
func finishArgs(stream *ffmpeg.Stream, verbose bool) []string {
	if !verbose {
		stream = stream.GlobalArgs(quietArgs...)
	}
	return stream.OverWriteOutput().GetArgs()
}

func (p *Processor) Cut(ctx context.Context, movie, output string, opts CutOptions) error {
	if opts.End <= opts.Start {
		return fmt.Errorf("empty clip %s-%s", seconds(opts.Start), seconds(opts.End))
	}
	if err := p.runFFmpeg(ctx, CutArgs(movie, output, opts, p.verbose)); err != nil {
		return fmt.Errorf("failed to cut %s: %w", output, err)
	}
	return nil
}

// full precision; a one-tick offset can be well under a millisecond
func seconds(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 64)
}

// EscapeFilterPath quotes a path for use as a filter option inside a
// filtergraph: once for the option value, once for the graph
func EscapeFilterPath(path string) string {
	option := strings.NewReplacer(`\`, `\\`, `'`, `\'`, `:`, `\:`).Replace(path)
	return strings.NewReplacer(
		`\`, `\\`,
		`'`, `\'`,
		`[`, `\[`,
		`]`, `\]`,
		`,`, `\,`,
		`;`, `\;`,
	).Replace(option)
}
