package subtitle

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// sidecar extensions tried next to a movie, in order
var sidecarExtensions = []string{".srt", ".vtt", ".ass", ".ssa"}

func Open(path string) (File, error) {
	switch GetFormatFromExtension(path) {
	case FormatSRT:
		return parseSRTFile(path)
	case FormatVTT:
		return parseVTTFile(path)
	case FormatASS:
		return parseASSFile(path)
	default:
		return nil, fmt.Errorf("unsupported subtitle format: %s", filepath.Ext(path))
	}
}

// Discover returns the first existing subtitle file sharing the movie's base
// name. guess is the .srt path, reported to the user when nothing is found.
func Discover(moviePath string) (found string, guess string, err error) {
	base := strings.TrimSuffix(moviePath, filepath.Ext(moviePath))
	guess = base + sidecarExtensions[0]

	for _, ext := range sidecarExtensions {
		candidate := base + ext
		info, statErr := os.Stat(candidate)
		if statErr == nil && !info.IsDir() {
			return candidate, guess, nil
		}
		if statErr != nil && !errors.Is(statErr, fs.ErrNotExist) {
			return "", guess, fmt.Errorf("failed to check %s: %w", candidate, statErr)
		}
	}
	return "", guess, nil
}

// subtitle format based on file extension; empty when unsupported
func GetFormatFromExtension(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".srt":
		return FormatSRT
	case ".vtt":
		return FormatVTT
	case ".ass", ".ssa":
		return FormatASS
	default:
		return ""
	}
}

func IsSubtitleFile(path string) bool {
	return GetFormatFromExtension(path) != ""
}

// file extension for a format
func GetExtensionForFormat(format Format) string {
	switch format {
	case FormatVTT:
		return ".vtt"
	case FormatASS:
		return ".ass"
	default:
		return ".srt"
	}
}
