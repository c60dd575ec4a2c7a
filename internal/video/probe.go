package video

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

type Stream struct {
	Index        int               `json:"index"`
	CodecType    string            `json:"codec_type"`
	CodecName    string            `json:"codec_name"`
	TimeBase     string            `json:"time_base"`
	RFrameRate   string            `json:"r_frame_rate"`
	AvgFrameRate string            `json:"avg_frame_rate"`
	Width        int               `json:"width"`
	Height       int               `json:"height"`
	Tags         map[string]string `json:"tags"`
}

func (s Stream) Language() string {
	if lang := s.Tags["language"]; lang != "" {
		return lang
	}
	return "und"
}

func (s Stream) Title() string {
	return s.Tags["title"]
}

type FormatInfo struct {
	Filename   string `json:"filename"`
	FormatName string `json:"format_name"`
	Duration   string `json:"duration"`
}

// decoded ffprobe -show_format -show_streams output
type Info struct {
	Streams []Stream   `json:"streams"`
	Format  FormatInfo `json:"format"`
}

func (p *Processor) Probe(ctx context.Context, path string) (*Info, error) {
	ffprobePath, err := p.resolver.FFprobePath(ctx)
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, ffprobePath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	)

	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffprobe failed on %s: %w", path, err)
	}

	return ParseProbe(out.Bytes())
}

func ParseProbe(data []byte) (*Info, error) {
	var info Info
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}
	return &info, nil
}

func (i *Info) Duration() (time.Duration, error) {
	if i.Format.Duration == "" {
		return 0, fmt.Errorf("duration not reported")
	}
	seconds, err := strconv.ParseFloat(i.Format.Duration, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse duration: %w", err)
	}
	return time.Duration(math.Round(seconds * float64(time.Second))), nil
}

// subtitle streams in container order; position n is ffmpeg's 0:s:n
func (i *Info) SubtitleStreams() []Stream {
	var subs []Stream
	for _, s := range i.Streams {
		if s.CodecType == "subtitle" {
			subs = append(subs, s)
		}
	}
	return subs
}

// FrameOffset is one tick of the first video stream's time base, or of the
// first stream when there is no video
func (i *Info) FrameOffset() (time.Duration, error) {
	if len(i.Streams) == 0 {
		return 0, fmt.Errorf("no streams found")
	}

	stream := i.Streams[0]
	for _, s := range i.Streams {
		if s.CodecType == "video" {
			stream = s
			break
		}
	}

	seconds, err := ParseRational(stream.TimeBase)
	if err != nil {
		return 0, fmt.Errorf("stream %d time base: %w", stream.Index, err)
	}
	return time.Duration(math.Round(seconds * float64(time.Second))), nil
}

// ParseRational parses "num/den" or a plain decimal
func ParseRational(value string) (float64, error) {
	value = strings.TrimSpace(value)
	num, den, found := strings.Cut(value, "/")
	if !found {
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid rational %q", value)
		}
		return f, nil
	}

	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid rational %q", value)
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0, fmt.Errorf("invalid rational %q", value)
	}
	return n / d, nil
}
