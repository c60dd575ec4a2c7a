package clip

import (
	"fmt"
	"regexp"
	"strings"
)

// Matcher selects cues whose whole text matches a shell-style glob.
// A nil Matcher matches everything.
type Matcher struct {
	pattern string
	re      *regexp.Regexp
}

// NewMatcher matches text containing pattern anywhere, i.e. the glob
// "*pattern*". Matching is case-sensitive; *, ?, [seq] and [!seq] work as
// in the shell, and a newline is an ordinary character.
func NewMatcher(pattern string) (*Matcher, error) {
	if pattern == "" {
		return nil, nil
	}
	re, err := regexp.Compile(globToRegexp("*" + pattern + "*"))
	if err != nil {
		return nil, fmt.Errorf("invalid match pattern %q: %w", pattern, err)
	}
	return &Matcher{pattern: pattern, re: re}, nil
}

func (m *Matcher) Match(text string) bool {
	if m == nil {
		return true
	}
	return m.re.MatchString(text)
}

func (m *Matcher) String() string {
	if m == nil {
		return ""
	}
	return m.pattern
}

func globToRegexp(glob string) string {
	var sb strings.Builder
	sb.WriteString(`(?s)\A`)

	runes := []rune(glob)
	for i := 0; i < len(runes); i++ {
		switch c := runes[i]; c {
		case '*':
			sb.WriteString(".*")
		case '?':
			sb.WriteString(".")
		case '[':
			class, next, ok := bracketClass(runes, i)
			if !ok {
				sb.WriteString(`\[`)
				continue
			}
			sb.WriteString(class)
			i = next
		default:
			sb.WriteString(regexp.QuoteMeta(string(c)))
		}
	}

	sb.WriteString(`\z`)
	return sb.String()
}

// bracketClass converts the set starting at runes[start] == '[' and reports
// the index of its closing ']'. A ']' right after the opening bracket (or
// after '!') is a member; an unterminated set is not a set at all.
func bracketClass(runes []rune, start int) (string, int, bool) {
	j := start + 1
	if j < len(runes) && runes[j] == '!' {
		j++
	}
	if j < len(runes) && runes[j] == ']' {
		j++
	}
	for j < len(runes) && runes[j] != ']' {
		j++
	}
	if j >= len(runes) {
		return "", 0, false
	}

	members := runes[start+1 : j]
	var sb strings.Builder
	sb.WriteString("[")
	if len(members) > 0 && members[0] == '!' {
		sb.WriteString("^")
		members = members[1:]
	}
	for _, r := range members {
		switch r {
		case '-':
			sb.WriteRune(r)
		case '\\', '[', ']', '^':
			sb.WriteRune('\\')
			sb.WriteRune(r)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteString("]")
	return sb.String(), j, true
}
