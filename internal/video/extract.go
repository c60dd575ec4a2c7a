package video

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// codecs ffmpeg can convert to text subtitles; bitmap tracks (PGS, VobSub)
// cannot be extracted this way
var textSubtitleCodecs = map[string]bool{
	"subrip":   true,
	"srt":      true,
	"ass":      true,
	"ssa":      true,
	"webvtt":   true,
	"mov_text": true,
	"text":     true,
}

func IsTextSubtitle(s Stream) bool {
	return textSubtitleCodecs[s.CodecName]
}

// ExtractArgs builds the ffmpeg arguments that copy subtitle stream n
// (counted among subtitle streams) to output, converting to the format
// implied by its extension
func ExtractArgs(movie, output string, n int, verbose bool) []string {
	stream := ffmpeg.Input(movie).
		Output(output, ffmpeg.KwArgs{"map": fmt.Sprintf("0:s:%d", n)})
	return finishArgs(stream, verbose)
}

func (p *Processor) ExtractSubtitles(ctx context.Context, movie string, n int, output string) error {
	if err := os.MkdirAll(filepath.Dir(output), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := p.runFFmpeg(ctx, ExtractArgs(movie, output, n, p.verbose)); err != nil {
		return fmt.Errorf("failed to extract subtitle stream %d: %w", n, err)
	}
	return nil
}

// SelectSubtitleStream returns the position among subtitle streams to use.
// A negative want picks the first text stream.
func SelectSubtitleStream(info *Info, want int) (int, Stream, error) {
	subs := info.SubtitleStreams()
	if len(subs) == 0 {
		return 0, Stream{}, fmt.Errorf("no subtitle streams found")
	}

	if want >= 0 {
		if want >= len(subs) {
			return 0, Stream{}, fmt.Errorf("subtitle stream %d out of range (found %d)", want, len(subs))
		}
		if !IsTextSubtitle(subs[want]) {
			return 0, Stream{}, fmt.Errorf("subtitle stream %d is %s, which is not a text format", want, subs[want].CodecName)
		}
		return want, subs[want], nil
	}

	for i, s := range subs {
		if IsTextSubtitle(s) {
			return i, s, nil
		}
	}
	return 0, Stream{}, fmt.Errorf("no text subtitle streams found (%d bitmap)", len(subs))
}
