package video

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	ffmpegbin "github.com/mgpai22/subclip/internal/ffmpeg"
	"github.com/mgpai22/subclip/internal/logging"
)

// runs ffprobe and ffmpeg for a single movie at a time
type Processor struct {
	resolver *ffmpegbin.Resolver
	logger   *logging.Logger
	verbose  bool
	stderr   io.Writer
}

func NewProcessor(resolver *ffmpegbin.Resolver, logger *logging.Logger, verbose bool) *Processor {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Processor{
		resolver: resolver,
		logger:   logger,
		verbose:  verbose,
		stderr:   os.Stderr,
	}
}

func (p *Processor) Verbose() bool {
	return p.verbose
}

// runs ffmpeg with args; its stderr is passed through when verbose and
// otherwise kept for the error message
func (p *Processor) runFFmpeg(ctx context.Context, args []string) error {
	ffmpegPath, err := p.resolver.FFmpegPath(ctx)
	if err != nil {
		return err
	}

	if p.verbose {
		p.logger.Infow("running ffmpeg", "command", ffmpegPath+" "+strings.Join(args, " "))
	}

	cmd := exec.CommandContext(ctx, ffmpegPath, args...)
	var stderr bytes.Buffer
	if p.verbose {
		cmd.Stdout = p.stderr
		cmd.Stderr = p.stderr
	} else {
		cmd.Stderr = &stderr
	}

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("ffmpeg failed: %w: %s", err, msg)
		}
		return fmt.Errorf("ffmpeg failed: %w", err)
	}
	return nil
}

var videoExts = map[string]bool{
	".mp4":  true,
	".mkv":  true,
	".avi":  true,
	".mov":  true,
	".wmv":  true,
	".flv":  true,
	".webm": true,
	".m4v":  true,
	".mpeg": true,
	".mpg":  true,
	".ts":   true,
	".3gp":  true,
}

// checks if the file is a video based on extension
func IsVideoFile(path string) bool {
	return videoExts[strings.ToLower(filepath.Ext(path))]
}

// video files directly inside dir, sorted by name
func ListVideos(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var videos []string
	for _, entry := range entries {
		if entry.IsDir() || !IsVideoFile(entry.Name()) {
			continue
		}
		videos = append(videos, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(videos)
	return videos, nil
}
