package clip

import (
	"path/filepath"
	"time"

	"github.com/mgpai22/subclip/internal/subtitle"
)

type Options struct {
	// extract the gaps between cues instead of the cues
	Between   bool
	// between mode only: end each gap this much before the next cue
	EndEarly  time.Duration
	// between mode only: gaps shorter than this are skipped
	MinLength time.Duration
	Match     *Matcher
	// one frame; delays each start so the first subtitle frame is kept
	Offset    time.Duration
	Extension string
	OutDir    string
}

// one output clip
type Segment struct {
	Cue   int
	Start time.Duration
	End   time.Duration
	Text  string
	Name  string
	Path  string
}

func (s Segment) Duration() time.Duration {
	return s.End - s.Start
}

// Plan computes the clips for cues in order. Cues rejected by the matcher
// are skipped entirely, so in between mode a gap runs from the end of the
// previous matching cue.
func Plan(cues []subtitle.Entry, opts Options) []Segment {
	var (
		segments []Segment
		lastEnd  time.Duration
	)

	for _, cue := range cues {
		if !opts.Match.Match(cue.Text) {
			continue
		}

		seg := Segment{Cue: cue.Index, Text: cue.Text}
		if opts.Between {
			seg.Start = lastEnd + opts.Offset
			seg.End = cue.StartTime - opts.Offset - opts.EndEarly
			lastEnd = cue.EndTime
			if seg.Duration() < opts.MinLength || seg.Duration() <= 0 {
				continue
			}
			seg.Name = FileName(cue.Index, BetweenName, opts.Extension)
		} else {
			seg.Start = cue.StartTime + opts.Offset
			seg.End = cue.EndTime
			seg.Name = FileName(cue.Index, CleanName(cue.Text), opts.Extension)
		}
		seg.Path = filepath.Join(opts.OutDir, seg.Name)

		segments = append(segments, seg)
	}

	return segments
}
