package clip

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	// name used for every clip in between mode
	BetweenName = "between"

	maxNameBytes = 120
)

var (
	nameDisallowedRegex = regexp.MustCompile(`[^a-zA-Z0-9,.']`)
	spaceRunRegex       = regexp.MustCompile(` {2,}`)
)

// CleanName turns cue text into something safe for a file name: accents are
// dropped, anything outside letters, digits, comma, period and apostrophe
// becomes a space, spaces collapse, and leading or trailing " .," go.
func CleanName(text string) string {
	name := nameDisallowedRegex.ReplaceAllString(stripAccents(text), " ")
	name = spaceRunRegex.ReplaceAllString(name, " ")
	name = strings.Trim(name, " .,")

	// only ASCII is left, so byte slicing is safe
	if len(name) > maxNameBytes {
		name = strings.TrimRight(name[:maxNameBytes], " .,")
	}
	return name
}

func stripAccents(text string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, text)
	if err != nil {
		return text
	}
	return out
}

// FileName is "clip0007 name.ext", or "clip0007.ext" when name is empty
func FileName(index int, name, ext string) string {
	if name == "" {
		return fmt.Sprintf("clip%04d%s", index, ext)
	}
	return fmt.Sprintf("clip%04d %s%s", index, name, ext)
}
