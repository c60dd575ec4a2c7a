package subtitle

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
)

// hours are optional in WebVTT; trailing cue settings are kept
var vttTimingRegex = regexp.MustCompile(
	`^\s*(?:(\d+):)?(\d{2}):(\d{2})\.(\d{3})\s*-->\s*(?:(\d+):)?(\d{2}):(\d{2})\.(\d{3})(.*)$`,
)

type VTTFile struct {
	entries []Entry
}

func parseVTTFile(path string) (*VTTFile, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open VTT file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	return ParseVTT(file)
}

func ParseVTT(r io.Reader) (*VTTFile, error) {
	var (
		entries   []Entry
		current   *Entry
		textLines []string
		skipBlock bool
	)

	flush := func() {
		if current != nil {
			current.Text = strings.Join(textLines, "\n")
			entries = append(entries, *current)
		}
		current = nil
		textLines = nil
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNum := 0

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		lineNum++
		if lineNum == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
			if !strings.HasPrefix(line, "WEBVTT") {
				return nil, fmt.Errorf("missing WEBVTT header")
			}
			skipBlock = true
			continue
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			flush()
			skipBlock = false
			continue
		}
		if skipBlock {
			continue
		}

		if current == nil {
			// NOTE, STYLE and REGION blocks run until the next blank line
			if strings.HasPrefix(trimmed, "NOTE") ||
				strings.HasPrefix(trimmed, "STYLE") ||
				strings.HasPrefix(trimmed, "REGION") {
				skipBlock = true
				continue
			}

			if matches := vttTimingRegex.FindStringSubmatch(line); matches != nil {
				start, err := clockDuration(matches[1], matches[2], matches[3], matches[4])
				if err != nil {
					return nil, fmt.Errorf("invalid start timestamp at line %d: %w", lineNum, err)
				}
				end, err := clockDuration(matches[5], matches[6], matches[7], matches[8])
				if err != nil {
					return nil, fmt.Errorf("invalid end timestamp at line %d: %w", lineNum, err)
				}
				current = &Entry{
					Index:       len(entries) + 1,
					StartTime:   start,
					EndTime:     end,
					Proprietary: strings.TrimSpace(matches[9]),
				}
			}
			// anything else before the timing line is a cue identifier
			continue
		}

		textLines = append(textLines, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading VTT file: %w", err)
	}
	flush()

	return &VTTFile{entries: entries}, nil
}

func (f *VTTFile) Format() Format {
	return FormatVTT
}

func (f *VTTFile) Subtitle() *Subtitle {
	return &Subtitle{
		Entries: append([]Entry(nil), f.entries...),
		Format:  string(FormatVTT),
	}
}

func (f *VTTFile) SetText(index int, text string) error {
	if err := checkIndex(index, len(f.entries)); err != nil {
		return err
	}
	f.entries[index].Text = text
	return nil
}

func (f *VTTFile) Write(path string) error {
	return (&VTTWriter{}).Write(f.Subtitle(), path)
}
