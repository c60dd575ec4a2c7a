package subtitle

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SubRip format
type SRTWriter struct{}

// WebVTT format
type VTTWriter struct{}

// ASS output is only produced by ASSFile, which keeps the source styles
func NewWriter(format Format) (Writer, error) {
	switch format {
	case FormatSRT:
		return &SRTWriter{}, nil
	case FormatVTT:
		return &VTTWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// writes the subtitle to an SRT file, keeping cue numbers
func (w *SRTWriter) Write(sub *Subtitle, path string) error {
	var sb strings.Builder
	for i, entry := range sub.Entries {
		fmt.Fprintf(&sb, "%d\n", cueNumber(entry, i))
		fmt.Fprintf(&sb, "%s --> %s", formatSRTTime(entry.StartTime), formatSRTTime(entry.EndTime))
		if entry.Proprietary != "" {
			sb.WriteString(" " + entry.Proprietary)
		}
		sb.WriteString("\n")
		sb.WriteString(entry.Text)
		sb.WriteString("\n\n")
	}
	return writeFile(path, sb.String())
}

// writes the subtitle to a VTT file
func (w *VTTWriter) Write(sub *Subtitle, path string) error {
	var sb strings.Builder
	sb.WriteString("WEBVTT\n\n")

	for i, entry := range sub.Entries {
		fmt.Fprintf(&sb, "%d\n", cueNumber(entry, i))
		fmt.Fprintf(&sb, "%s --> %s", formatVTTTime(entry.StartTime), formatVTTTime(entry.EndTime))
		if entry.Proprietary != "" {
			sb.WriteString(" " + entry.Proprietary)
		}
		sb.WriteString("\n")
		sb.WriteString(entry.Text)
		sb.WriteString("\n\n")
	}
	return writeFile(path, sb.String())
}

// the parsed index, or the position for entries built without one
func cueNumber(entry Entry, i int) int {
	if entry.Index > 0 {
		return entry.Index
	}
	return i + 1
}

func writeFile(path, content string) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0644)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0755)
}
