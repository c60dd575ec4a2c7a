package config

import (
	"errors"
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	var err error
	if c.FFmpeg.FFmpegPath, err = expandPath(c.FFmpeg.FFmpegPath); err != nil {
		return fmt.Errorf("ffmpeg.ffmpeg_path: %w", err)
	}
	if c.FFmpeg.FFprobePath, err = expandPath(c.FFmpeg.FFprobePath); err != nil {
		return fmt.Errorf("ffmpeg.ffprobe_path: %w", err)
	}

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}

	if strings.TrimSpace(c.Split.ClipsSuffix) == "" {
		c.Split.ClipsSuffix = defaultClipsSuffix
	}
	if strings.TrimSpace(c.Split.BetweensSuffix) == "" {
		c.Split.BetweensSuffix = defaultBetweensSuffix
	}

	if strings.TrimSpace(c.Twitter.VideoBitrate) == "" {
		c.Twitter.VideoBitrate = defaultTwitterVideoBitrate
	}
	if c.Twitter.AudioRate == 0 {
		c.Twitter.AudioRate = defaultTwitterAudioRate
	}
	if c.Twitter.FrameRate == 0 {
		c.Twitter.FrameRate = defaultTwitterFrameRate
	}

	c.Translate.Provider = strings.ToLower(strings.TrimSpace(c.Translate.Provider))
	if c.Translate.Provider == "" {
		c.Translate.Provider = defaultTranslateProvider
	}
	if c.Translate.BatchSize == 0 {
		c.Translate.BatchSize = defaultTranslateBatchSize
	}
	return nil
}

// Validate reports every invalid setting in one error.
func (c *Config) Validate() error {
	var problems []error

	switch c.Logging.Format {
	case "console", "json":
	default:
		problems = append(problems, fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format))
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level))
	}

	if c.Split.EndEarly < 0 {
		problems = append(problems, fmt.Errorf("split.end_early must not be negative, got %v", c.Split.EndEarly))
	}
	if c.Split.MinLength < 0 {
		problems = append(problems, fmt.Errorf("split.min_length must not be negative, got %v", c.Split.MinLength))
	}

	if c.Twitter.AudioRate < 0 {
		problems = append(problems, fmt.Errorf("twitter.audio_rate must be positive, got %d", c.Twitter.AudioRate))
	}
	if c.Twitter.FrameRate < 0 {
		problems = append(problems, fmt.Errorf("twitter.frame_rate must be positive, got %d", c.Twitter.FrameRate))
	}

	switch c.Translate.Provider {
	case "gemini", "openai", "anthropic":
	default:
		problems = append(problems, fmt.Errorf("translate.provider must be gemini, openai, or anthropic, got %q", c.Translate.Provider))
	}
	if c.Translate.BatchSize < 0 {
		problems = append(problems, fmt.Errorf("translate.batch_size must be positive, got %d", c.Translate.BatchSize))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(problems...))
	}
	return nil
}
