package subtitle

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// SRT timing line; the fraction separator may be ',' or '.', and anything
// after the end time is kept as proprietary data
var srtTimingRegex = regexp.MustCompile(
	`^\s*(\d+):(\d{1,2}):(\d{1,2})[,.](\d{1,3})\s*-->\s*(\d+):(\d{1,2}):(\d{1,2})[,.](\d{1,3})(.*)$`,
)

type SRTFile struct {
	entries []Entry
}

func parseSRTFile(path string) (*SRTFile, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SRT file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	return ParseSRT(file)
}

func ParseSRT(r io.Reader) (*SRTFile, error) {
	var (
		entries   []Entry
		current   *Entry
		timed     bool
		textLines []string
	)

	flush := func() {
		if current != nil && timed {
			current.Text = strings.Join(textLines, "\n")
			entries = append(entries, *current)
		}
		current = nil
		timed = false
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
		}

		if strings.TrimSpace(line) == "" {
			if timed {
				flush()
			}
			continue
		}

		if timed {
			textLines = append(textLines, line)
			continue
		}

		if matches := srtTimingRegex.FindStringSubmatch(line); matches != nil {
			start, err := clockDuration(matches[1], matches[2], matches[3], matches[4])
			if err != nil {
				return nil, fmt.Errorf("invalid start timestamp at line %d: %w", lineNum, err)
			}
			end, err := clockDuration(matches[5], matches[6], matches[7], matches[8])
			if err != nil {
				return nil, fmt.Errorf("invalid end timestamp at line %d: %w", lineNum, err)
			}
			if current == nil {
				// missing counter line; number by position
				current = &Entry{Index: len(entries) + 1}
			}
			current.StartTime = start
			current.EndTime = end
			current.Proprietary = strings.TrimSpace(matches[9])
			timed = true
			continue
		}

		if index, err := strconv.Atoi(strings.TrimSpace(line)); err == nil {
			current = &Entry{Index: index}
			continue
		}

		return nil, fmt.Errorf("unexpected content at line %d: %q", lineNum, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading SRT file: %w", err)
	}
	flush()

	return &SRTFile{entries: entries}, nil
}

func (f *SRTFile) Format() Format {
	return FormatSRT
}

func (f *SRTFile) Subtitle() *Subtitle {
	return &Subtitle{
		Entries: append([]Entry(nil), f.entries...),
		Format:  string(FormatSRT),
	}
}

func (f *SRTFile) SetText(index int, text string) error {
	if err := checkIndex(index, len(f.entries)); err != nil {
		return err
	}
	f.entries[index].Text = text
	return nil
}

func (f *SRTFile) Write(path string) error {
	return (&SRTWriter{}).Write(f.Subtitle(), path)
}

func checkIndex(index, count int) error {
	if index < 0 || index >= count {
		return fmt.Errorf("index %d out of range (0-%d)", index, count-1)
	}
	return nil
}
