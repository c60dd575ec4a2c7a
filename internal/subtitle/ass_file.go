package subtitle

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"time"
)

var (
	assLeadingTagsRegex = regexp.MustCompile(`^(\{[^}]*\})+`)
	assOverrideRegex    = regexp.MustCompile(`\{[^}]*\}`)
	assTimeRegex        = regexp.MustCompile(`^(\d+):(\d{2}):(\d{2})\.(\d{1,3})$`)
)

// parsed Dialogue line; Fields holds every column including Text
type ASSDialogue struct {
	Fields      []string
	LeadingTags string
	Start       time.Duration
	End         time.Duration
}

// one line of the file; dialogue is -1 for lines kept verbatim
type assLine struct {
	raw      string
	dialogue int
}

// parsed ASS/SSA subtitle file that round-trips everything it does not edit
type ASSFile struct {
	lines     []assLine
	dialogues []ASSDialogue
	columns   []string
	textCol   int
	startCol  int
	endCol    int
	styleCol  int
}

func parseASSFile(path string) (*ASSFile, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ASS file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	return ParseASS(file)
}

func ParseASS(r io.Reader) (*ASSFile, error) {
	f := &ASSFile{textCol: -1, startCol: -1, endCol: -1, styleCol: -1}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	inEvents := false
	lineNum := 0

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		lineNum++
		if lineNum == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
			inEvents = strings.EqualFold(trimmed, "[Events]")
			f.keep(line)
			continue
		}

		switch {
		case inEvents && strings.HasPrefix(trimmed, "Format:"):
			if err := f.setColumns(strings.TrimPrefix(trimmed, "Format:")); err != nil {
				return nil, err
			}
			f.keep(line)
		case inEvents && strings.HasPrefix(trimmed, "Dialogue:"):
			if f.columns == nil {
				return nil, fmt.Errorf("Dialogue before Format line at line %d", lineNum)
			}
			d, err := f.parseDialogue(strings.TrimPrefix(trimmed, "Dialogue:"))
			if err != nil {
				return nil, fmt.Errorf("failed to parse Dialogue at line %d: %w", lineNum, err)
			}
			f.lines = append(f.lines, assLine{dialogue: len(f.dialogues)})
			f.dialogues = append(f.dialogues, d)
		default:
			f.keep(line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading ASS file: %w", err)
	}
	if f.columns == nil {
		return nil, fmt.Errorf("ASS file missing Format line in [Events] section")
	}

	return f, nil
}

func (f *ASSFile) keep(line string) {
	f.lines = append(f.lines, assLine{raw: line, dialogue: -1})
}

func (f *ASSFile) setColumns(spec string) error {
	columns := strings.Split(spec, ",")
	for i, col := range columns {
		columns[i] = strings.TrimSpace(col)
		switch strings.ToLower(columns[i]) {
		case "text":
			f.textCol = i
		case "start":
			f.startCol = i
		case "end":
			f.endCol = i
		case "style":
			f.styleCol = i
		}
	}
	if f.textCol != len(columns)-1 {
		return fmt.Errorf("ASS Format line must end with the Text column")
	}
	if f.startCol < 0 || f.endCol < 0 {
		return fmt.Errorf("ASS Format line missing Start or End column")
	}
	f.columns = columns
	return nil
}

func (f *ASSFile) parseDialogue(content string) (ASSDialogue, error) {
	// Text is last and may itself contain commas
	fields := strings.SplitN(strings.TrimSpace(content), ",", len(f.columns))
	if len(fields) < len(f.columns) {
		return ASSDialogue{}, fmt.Errorf(
			"expected %d fields, got %d",
			len(f.columns),
			len(fields),
		)
	}

	start, err := parseASSTimestamp(fields[f.startCol])
	if err != nil {
		return ASSDialogue{}, fmt.Errorf("start: %w", err)
	}
	end, err := parseASSTimestamp(fields[f.endCol])
	if err != nil {
		return ASSDialogue{}, fmt.Errorf("end: %w", err)
	}

	return ASSDialogue{
		Fields:      fields,
		LeadingTags: assLeadingTagsRegex.FindString(fields[f.textCol]),
		Start:       start,
		End:         end,
	}, nil
}

func parseASSTimestamp(ts string) (time.Duration, error) {
	matches := assTimeRegex.FindStringSubmatch(strings.TrimSpace(ts))
	if matches == nil {
		return 0, fmt.Errorf("invalid timestamp %q", ts)
	}
	return clockDuration(matches[1], matches[2], matches[3], matches[4])
}

func (f *ASSFile) Format() Format {
	return FormatASS
}

// Entry text has override blocks removed and \N, \n, \h decoded; the
// dialogue's style name is carried as Proprietary
func (f *ASSFile) Subtitle() *Subtitle {
	entries := make([]Entry, len(f.dialogues))
	for i, d := range f.dialogues {
		entries[i] = Entry{
			Index:     i + 1,
			StartTime: d.Start,
			EndTime:   d.End,
			Text:      plainASSText(d.Fields[f.textCol]),
		}
		if f.styleCol >= 0 {
			entries[i].Proprietary = d.Fields[f.styleCol]
		}
	}

	return &Subtitle{
		Entries: entries,
		Format:  string(FormatASS),
	}
}

func plainASSText(text string) string {
	text = assOverrideRegex.ReplaceAllString(text, "")
	text = strings.NewReplacer(`\N`, "\n", `\n`, "\n", `\h`, " ").Replace(text)
	return text
}

// replaces the dialogue text, keeping its leading override tags
func (f *ASSFile) SetText(index int, text string) error {
	if err := checkIndex(index, len(f.dialogues)); err != nil {
		return err
	}
	d := &f.dialogues[index]
	d.Fields[f.textCol] = d.LeadingTags + strings.ReplaceAll(text, "\n", `\N`)
	return nil
}

func (f *ASSFile) Write(path string) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create ASS file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	w := bufio.NewWriter(file)
	for _, line := range f.lines {
		text := line.raw
		if line.dialogue >= 0 {
			text = "Dialogue: " + strings.Join(f.dialogues[line.dialogue].Fields, ",")
		}
		if _, err := w.WriteString(text + "\n"); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return file.Close()
}
