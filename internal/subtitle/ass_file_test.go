package subtitle

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const sampleASS = `[Script Info]
Title: Sample
ScriptType: v4.00+

[V4+ Styles]
Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding
Style: Default,Arial,20,&H00FFFFFF,&H000000FF,&H00000000,&H00000000,0,0,0,0,100,100,0,0,1,2,2,2,10,10,10,1
Style: Sign,Arial,20,&H00FFFFFF,&H000000FF,&H00000000,&H00000000,0,1,0,0,100,100,0,0,1,2,2,2,10,10,10,1

[Events]
Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text
Comment: 0,0:00:00.00,0:00:01.00,Default,,0,0,0,,timing note
Dialogue: 0,0:00:01.00,0:00:04.00,Default,,0,0,0,,Hello, world!
Dialogue: 0,0:00:05.50,0:00:08.20,Sign,,0,0,0,,{\pos(100,200)}Sign {\i1}text{\i0}
Dialogue: 0,1:00:10.05,1:00:12.5,Default,,0,0,0,,Line one\Nline\htwo
`

func TestParseASS(t *testing.T) {
	file, err := ParseASS(strings.NewReader(sampleASS))
	if err != nil {
		t.Fatalf("ParseASS failed: %v", err)
	}

	entries := file.Subtitle().Entries
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}

	tests := []struct {
		start, end time.Duration
		text       string
		style      string
	}{
		{time.Second, 4 * time.Second, "Hello, world!", "Default"},
		{5500 * time.Millisecond, 8200 * time.Millisecond, "Sign text", "Sign"},
		{time.Hour + 10*time.Second + 50*time.Millisecond, time.Hour + 12500*time.Millisecond, "Line one\nline two", "Default"},
	}
	for i, tt := range tests {
		e := entries[i]
		if e.StartTime != tt.start || e.EndTime != tt.end {
			t.Errorf("entry %d: got %v-%v, want %v-%v", i, e.StartTime, e.EndTime, tt.start, tt.end)
		}
		if e.Text != tt.text {
			t.Errorf("entry %d: text = %q, want %q", i, e.Text, tt.text)
		}
		if e.Proprietary != tt.style {
			t.Errorf("entry %d: style = %q, want %q", i, e.Proprietary, tt.style)
		}
	}
}

func TestASSRewritePreservesEverythingElse(t *testing.T) {
	file, err := ParseASS(strings.NewReader(sampleASS))
	if err != nil {
		t.Fatalf("ParseASS failed: %v", err)
	}

	if err := file.SetText(1, "Panneau\nneuf"); err != nil {
		t.Fatalf("SetText failed: %v", err)
	}

	out := filepath.Join(t.TempDir(), "out.ass")
	if err := file.Write(out); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	got := string(data)

	checks := []string{
		"Style: Sign,Arial,20",
		"Comment: 0,0:00:00.00,0:00:01.00,Default,,0,0,0,,timing note",
		"Dialogue: 0,0:00:01.00,0:00:04.00,Default,,0,0,0,,Hello, world!",
		`Dialogue: 0,0:00:05.50,0:00:08.20,Sign,,0,0,0,,{\pos(100,200)}Panneau\Nneuf`,
		`Dialogue: 0,1:00:10.05,1:00:12.5,Default,,0,0,0,,Line one\Nline\htwo`,
	}
	for _, want := range checks {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q\n%s", want, got)
		}
	}

	if strings.Index(got, "[V4+ Styles]") > strings.Index(got, "[Events]") {
		t.Error("section order changed")
	}
}

func TestParseASSErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"no format", "[Events]\nDialogue: 0,0:00:01.00,0:00:02.00,Default,hi\n"},
		{"no events", "[Script Info]\nTitle: x\n"},
		{"text not last", "[Events]\nFormat: Text, Start, End\n"},
		{"bad time", "[Events]\nFormat: Layer, Start, End, Text\nDialogue: 0,soon,0:00:02.00,hi\n"},
		{"short dialogue", "[Events]\nFormat: Layer, Start, End, Style, Text\nDialogue: 0,0:00:01.00\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseASS(strings.NewReader(tt.content)); err == nil {
				t.Error("expected error")
			}
		})
	}
}
