package video

import (
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"
)

const sampleProbe = `{
  "streams": [
    {"index": 0, "codec_type": "audio", "codec_name": "aac", "time_base": "1/48000"},
    {"index": 1, "codec_type": "video", "codec_name": "h264", "time_base": "1/24000",
     "r_frame_rate": "24000/1001", "avg_frame_rate": "24000/1001", "width": 1920, "height": 1080},
    {"index": 2, "codec_type": "subtitle", "codec_name": "hdmv_pgs_subtitle", "time_base": "1/1000",
     "tags": {"language": "eng"}},
    {"index": 3, "codec_type": "subtitle", "codec_name": "subrip", "time_base": "1/1000",
     "tags": {"language": "fre", "title": "Forced"}},
    {"index": 4, "codec_type": "subtitle", "codec_name": "ass", "time_base": "1/1000"}
  ],
  "format": {"filename": "movie.mkv", "format_name": "matroska,webm", "duration": "5400.250000"}
}`

func TestParseProbe(t *testing.T) {
	info, err := ParseProbe([]byte(sampleProbe))
	if err != nil {
		t.Fatalf("ParseProbe failed: %v", err)
	}

	duration, err := info.Duration()
	if err != nil {
		t.Fatalf("Duration failed: %v", err)
	}
	if duration != 5400*time.Second+250*time.Millisecond {
		t.Errorf("duration = %v", duration)
	}

	offset, err := info.FrameOffset()
	if err != nil {
		t.Fatalf("FrameOffset failed: %v", err)
	}
	// 1/24000 s from the video stream, not the audio stream listed first
	if offset != 41667*time.Nanosecond {
		t.Errorf("offset = %v", offset)
	}

	subs := info.SubtitleStreams()
	if len(subs) != 3 {
		t.Fatalf("expected 3 subtitle streams, got %d", len(subs))
	}
	if subs[1].Language() != "fre" || subs[1].Title() != "Forced" {
		t.Errorf("unexpected tags: %+v", subs[1].Tags)
	}
	if subs[2].Language() != "und" {
		t.Errorf("expected und language, got %q", subs[2].Language())
	}
}

func TestFrameOffsetFallsBackToFirstStream(t *testing.T) {
	info, err := ParseProbe([]byte(`{"streams":[{"index":0,"codec_type":"audio","time_base":"1/44100"}]}`))
	if err != nil {
		t.Fatal(err)
	}
	offset, err := info.FrameOffset()
	if err != nil {
		t.Fatalf("FrameOffset failed: %v", err)
	}
	if offset != 22676*time.Nanosecond {
		t.Errorf("offset = %v", offset)
	}

	empty := &Info{}
	if _, err := empty.FrameOffset(); err == nil {
		t.Error("expected error without streams")
	}
}

func TestParseRational(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"1/25", 0.04, false},
		{"24000/1001", 24000.0 / 1001.0, false},
		{"0.5", 0.5, false},
		{"1/0", 0, true},
		{"a/b", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseRational(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseRational(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseRational(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
}

func TestSelectSubtitleStream(t *testing.T) {
	info, err := ParseProbe([]byte(sampleProbe))
	if err != nil {
		t.Fatal(err)
	}

	n, s, err := SelectSubtitleStream(info, -1)
	if err != nil {
		t.Fatalf("SelectSubtitleStream failed: %v", err)
	}
	if n != 1 || s.Index != 3 {
		t.Errorf("expected first text stream (1, index 3), got (%d, index %d)", n, s.Index)
	}

	if n, _, err := SelectSubtitleStream(info, 2); err != nil || n != 2 {
		t.Errorf("explicit stream: got %d, %v", n, err)
	}
	if _, _, err := SelectSubtitleStream(info, 0); err == nil {
		t.Error("expected error for bitmap stream")
	}
	if _, _, err := SelectSubtitleStream(info, 3); err == nil {
		t.Error("expected out of range error")
	}
	if _, _, err := SelectSubtitleStream(&Info{}, -1); err == nil {
		t.Error("expected error without subtitle streams")
	}
}

func TestCutArgs(t *testing.T) {
	opts := CutOptions{
		Start:     1500*time.Millisecond + 41666*time.Nanosecond,
		End:       4 * time.Second,
		Subtitles: "/tmp/sub clip/it's.srt",
	}

	args := CutArgs("in movie.mkv", "out/clip0001 Hello.mkv", opts, false)
	joined := strings.Join(args, " ")

	if args[0] != "-i" || args[1] != "in movie.mkv" {
		t.Errorf("expected input first, got %v", args)
	}
	if got := flagSeconds(t, args, "-ss"); math.Abs(got-1.500041666) > 1e-9 {
		t.Errorf("-ss = %v, want 1.500041666", got)
	}
	if got := flagSeconds(t, args, "-to"); got != 4 {
		t.Errorf("-to = %v, want 4", got)
	}
	for _, want := range []string{
		`-vf subtitles=/tmp/sub clip/it\\\'s.srt`,
		"out/clip0001 Hello.mkv",
		"-y",
		"-hide_banner",
		"-loglevel panic",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("args missing %q: %v", want, args)
		}
	}
	if strings.Contains(joined, "libx264") {
		t.Errorf("unexpected twitter args: %v", args)
	}
}

func TestCutArgsTwitterVerbose(t *testing.T) {
	opts := CutOptions{
		Start:   0,
		End:     2 * time.Second,
		Twitter: &TwitterPreset{VideoBitrate: "1024k", AudioRate: 44100, FrameRate: 30},
	}

	joined := strings.Join(CutArgs("in.mkv", "out.mp4", opts, true), " ")
	for _, want := range []string{
		"-pix_fmt yuv420p",
		"-vcodec libx264",
		"-acodec aac",
		"-b:v 1024k",
		"-minrate 1024k",
		"-maxrate 1024k",
		"-bufsize 1024k",
		"-ar 44100",
		"-ac 2",
		"-strict experimental",
		"-r 30",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("args missing %q: %s", want, joined)
		}
	}
	if strings.Contains(joined, "-loglevel") || strings.Contains(joined, "-vf") {
		t.Errorf("unexpected args in verbose mode without subtitles: %s", joined)
	}
}

func TestExtractArgs(t *testing.T) {
	for _, verbose := range []bool{false, true} {
		args := ExtractArgs("movie.mkv", "movie.srt", 2, verbose)
		joined := strings.Join(args, " ")
		for _, want := range []string{"-i movie.mkv", "-map 0:s:2", "movie.srt"} {
			if !strings.Contains(joined, want) {
				t.Errorf("verbose=%v: args missing %q: %s", verbose, want, joined)
			}
		}
		if !hasArg(args, "-y") {
			t.Errorf("verbose=%v: args missing -y: %s", verbose, joined)
		}
	}
}

func TestCutArgsOverwriteAndPrecision(t *testing.T) {
	// one tick of mp4's 1/12800 time base
	opts := CutOptions{Start: 10*time.Second + 78125*time.Nanosecond, End: 12 * time.Second}

	for _, verbose := range []bool{false, true} {
		args := CutArgs("in.mp4", "out.mp4", opts, verbose)
		if !hasArg(args, "-y") {
			t.Errorf("verbose=%v: args missing -y: %v", verbose, args)
		}
		if hasArg(args, "-hide_banner") == verbose {
			t.Errorf("verbose=%v: unexpected quiet args: %v", verbose, args)
		}
		got := flagSeconds(t, args, "-ss")
		if got <= 10 || math.Abs(got-10.000078125) > 1e-9 {
			t.Errorf("verbose=%v: -ss = %v, want 10.000078125", verbose, got)
		}
	}
}

func hasArg(args []string, want string) bool {
	for _, arg := range args {
		if arg == want {
			return true
		}
	}
	return false
}

// value following flag, parsed as seconds
func flagSeconds(t *testing.T, args []string, flag string) float64 {
	t.Helper()
	for i := 0; i+1 < len(args); i++ {
		if args[i] == flag {
			v, err := strconv.ParseFloat(args[i+1], 64)
			if err != nil {
				t.Fatalf("%s value %q: %v", flag, args[i+1], err)
			}
			return v
		}
	}
	t.Fatalf("args missing %s: %v", flag, args)
	return 0
}

func TestEscapeFilterPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/tmp/a.srt", "/tmp/a.srt"},
		{"/tmp/with space.srt", "/tmp/with space.srt"},
		{"C:/x/it's.srt", `C\\:/x/it\\\'s.srt`},
		{"/tmp/[a],b;c.srt", `/tmp/\[a\]\,b\;c.srt`},
		{`C:\subs\a.srt`, `C\\:\\\\subs\\\\a.srt`},
	}
	for _, tt := range tests {
		if got := EscapeFilterPath(tt.in); got != tt.want {
			t.Errorf("EscapeFilterPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestListVideos(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.mkv", "a.MP4", "notes.txt", "a.srt"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "c.mkv"), 0755); err != nil {
		t.Fatal(err)
	}

	videos, err := ListVideos(dir)
	if err != nil {
		t.Fatalf("ListVideos failed: %v", err)
	}
	want := []string{filepath.Join(dir, "a.MP4"), filepath.Join(dir, "b.mkv")}
	if strings.Join(videos, "|") != strings.Join(want, "|") {
		t.Errorf("ListVideos = %v, want %v", videos, want)
	}
}
