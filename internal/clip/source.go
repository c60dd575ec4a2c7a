package clip

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mgpai22/subclip/internal/subtitle"
	"github.com/mgpai22/subclip/internal/video"
)

var ErrNoSubtitles = errors.New("couldn't find subtitle file")

// reads embedded subtitle tracks out of a movie
type Extractor interface {
	Probe(ctx context.Context, path string) (*video.Info, error)
	ExtractSubtitles(ctx context.Context, movie string, n int, output string) error
}

// where a movie's cues come from
type Source struct {
	Path string
	// set when Path was extracted from the movie
	Embedded bool
	Stream   int
	Language string
}

// LocateSubtitles picks the cue file for movie: the explicit path when
// given, else embedded stream n when n >= 0, else a sidecar file, else the
// first text subtitle stream. Extracted tracks are written to tempDir.
func LocateSubtitles(
	ctx context.Context,
	ex Extractor,
	movie, explicit string,
	stream int,
	tempDir string,
) (Source, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return Source{}, fmt.Errorf("failed to open subtitles: %w", err)
		}
		return Source{Path: explicit, Stream: -1}, nil
	}

	if stream >= 0 {
		return extractEmbedded(ctx, ex, movie, stream, tempDir)
	}

	found, guess, err := subtitle.Discover(movie)
	if err != nil {
		return Source{}, err
	}
	if found != "" {
		return Source{Path: found, Stream: -1}, nil
	}

	if ex != nil {
		src, err := extractEmbedded(ctx, ex, movie, -1, tempDir)
		if err == nil {
			return src, nil
		}
		if ctx.Err() != nil {
			return Source{}, ctx.Err()
		}
	}

	return Source{}, fmt.Errorf("%w (guessed %s): please specify the path explicitly", ErrNoSubtitles, guess)
}

func extractEmbedded(ctx context.Context, ex Extractor, movie string, want int, tempDir string) (Source, error) {
	if ex == nil {
		return Source{}, fmt.Errorf("embedded subtitles unavailable")
	}

	info, err := ex.Probe(ctx, movie)
	if err != nil {
		return Source{}, err
	}
	n, stream, err := video.SelectSubtitleStream(info, want)
	if err != nil {
		return Source{}, err
	}

	out := filepath.Join(tempDir, fmt.Sprintf("stream%d.srt", n))
	if err := ex.ExtractSubtitles(ctx, movie, n, out); err != nil {
		return Source{}, err
	}

	return Source{
		Path:     out,
		Embedded: true,
		Stream:   n,
		Language: stream.Language(),
	}, nil
}
