package subtitle

import (
	"fmt"
	"strings"
)

// placeholder accepted on the command line for a line break
const NewlineToken = "$NL"

func ExpandNewlines(text string) string {
	return strings.ReplaceAll(text, NewlineToken, "\n")
}

// replaces every cue's text, keeping timing and formatting
func ReplaceAll(f File, text string) error {
	count := len(f.Subtitle().Entries)
	for i := 0; i < count; i++ {
		if err := f.SetText(i, text); err != nil {
			return fmt.Errorf("failed to replace cue %d: %w", i+1, err)
		}
	}
	return nil
}

// SetTexts assigns texts[i] to cue i; the lengths must match
func SetTexts(f File, texts []string) error {
	count := len(f.Subtitle().Entries)
	if len(texts) != count {
		return fmt.Errorf("got %d texts for %d cues", len(texts), count)
	}
	for i, text := range texts {
		if err := f.SetText(i, text); err != nil {
			return fmt.Errorf("failed to set cue %d: %w", i+1, err)
		}
	}
	return nil
}

// Texts returns the text of every cue in order
func Texts(f File) []string {
	entries := f.Subtitle().Entries
	texts := make([]string, len(entries))
	for i, e := range entries {
		texts[i] = e.Text
	}
	return texts
}
