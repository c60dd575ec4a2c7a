package subtitle

import (
	"time"
)

// represents single subtitle entry
type Entry struct {
	Index     int
	StartTime time.Duration
	EndTime   time.Duration
	Text      string
	// format specific trailer of the timing line: SRT coordinates
	// ("X1:100 X2:200 ...") or WebVTT cue settings ("align:start")
	Proprietary string
}

func (e Entry) Duration() time.Duration {
	return e.EndTime - e.StartTime
}

// represents complete subtitle track
type Subtitle struct {
	Entries  []Entry
	Language string
	Format   string
}

// represents supported subtitle formats
type Format string

const (
	FormatSRT Format = "srt"
	FormatVTT Format = "vtt"
	FormatASS Format = "ass"
)

// interface for writing subtitles to files
type Writer interface {
	Write(subtitle *Subtitle, path string) error
}

// parsed subtitle file that preserves format specific metadata
type File interface {
	Format() Format
	// returns a copy; later SetText calls do not affect it
	Subtitle() *Subtitle
	SetText(index int, text string) error
	Write(path string) error
}
