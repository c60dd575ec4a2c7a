package clip

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/mgpai22/subclip/internal/logging"
	"github.com/mgpai22/subclip/internal/subtitle"
	"github.com/mgpai22/subclip/internal/video"
)

const lockFileName = ".subclip.lock"

var ErrLocked = errors.New("output directory is in use by another subclip run")

// writes one clip
type Cutter interface {
	Cut(ctx context.Context, movie, output string, opts video.CutOptions) error
}

type Job struct {
	Movie string
	// cues to plan from, with their original text
	Cues    []subtitle.Entry
	Options Options
	// burned into every clip when set; BurnIn wins over BurnInPath
	BurnIn     subtitle.File
	BurnInPath string
	Twitter    *video.TwitterPreset
}

func (j Job) burnsIn() bool {
	return j.BurnIn != nil || j.BurnInPath != ""
}

type Splitter struct {
	cutter Cutter
	logger *logging.Logger
	out    io.Writer
}

// clip names are printed to out as they are written
func NewSplitter(cutter Cutter, logger *logging.Logger, out io.Writer) *Splitter {
	if logger == nil {
		logger = logging.NewNop()
	}
	if out == nil {
		out = io.Discard
	}
	return &Splitter{cutter: cutter, logger: logger, out: out}
}

func (s *Splitter) Run(ctx context.Context, job Job) ([]Segment, error) {
	outDir := job.Options.OutDir
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	lock := flock.New(filepath.Join(outDir, lockFileName))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to lock output directory: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLocked, outDir)
	}
	// the lock file is left in place
	defer func() {
		if err := lock.Unlock(); err != nil {
			s.logger.Warnw("failed to release output lock", "error", err)
		}
	}()

	var burnIn string
	if job.burnsIn() {
		tempDir, err := os.MkdirTemp("", "subclip-*")
		if err != nil {
			return nil, fmt.Errorf("failed to create temp directory: %w", err)
		}
		defer func() {
			if err := os.RemoveAll(tempDir); err != nil {
				s.logger.Warnw("failed to remove temp directory", "path", tempDir, "error", err)
			}
		}()

		if burnIn, err = writeBurnIn(job, tempDir); err != nil {
			return nil, err
		}
	}

	segments := Plan(job.Cues, job.Options)
	s.logger.Debugw("planned clips",
		"movie", job.Movie,
		"cues", len(job.Cues),
		"clips", len(segments),
		"between", job.Options.Between,
		"offset", job.Options.Offset,
	)

	for i, seg := range segments {
		if err := ctx.Err(); err != nil {
			return segments[:i], err
		}

		fmt.Fprintln(s.out, seg.Name)

		err := s.cutter.Cut(ctx, job.Movie, seg.Path, video.CutOptions{
			Start:     seg.Start,
			End:       seg.End,
			Subtitles: burnIn,
			Twitter:   job.Twitter,
		})
		if err != nil {
			return segments[:i], fmt.Errorf("failed to write %s: %w", seg.Name, err)
		}
	}

	s.logger.Infow("split complete", "movie", job.Movie, "clips", len(segments), "dir", outDir)
	return segments, nil
}

// writes the burn-in subtitles into dir and returns the path
func writeBurnIn(job Job, dir string) (string, error) {
	if job.BurnIn != nil {
		path := filepath.Join(dir, "burn-in"+subtitle.GetExtensionForFormat(job.BurnIn.Format()))
		if err := job.BurnIn.Write(path); err != nil {
			return "", fmt.Errorf("failed to write burn-in subtitles: %w", err)
		}
		return path, nil
	}

	path := filepath.Join(dir, "burn-in"+filepath.Ext(job.BurnInPath))
	if err := copyFile(job.BurnInPath, path); err != nil {
		return "", fmt.Errorf("failed to copy burn-in subtitles: %w", err)
	}
	return path, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		_ = in.Close()
	}()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
