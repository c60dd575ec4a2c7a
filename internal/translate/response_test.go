package translate

import (
	"testing"
)

func TestExtractResults(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantCount int
		wantText  string
		wantErr   bool
	}{
		{
			name:      "plain array",
			input:     `[{"index": 0, "text": "Bonjour"}, {"index": 1, "text": "Au revoir"}]`,
			wantCount: 2,
			wantText:  "Bonjour",
		},
		{
			name: "chatter around the array",
			input: `Sure! Here you go:
			[{"index": 3, "text": "Hola"}]
			Anything else?`,
			wantCount: 1,
			wantText:  "Hola",
		},
		{
			name:      "results wrapper",
			input:     `{"results": [{"index": 0, "text": "Übersetzt"}]}`,
			wantCount: 1,
			wantText:  "Übersetzt",
		},
		{
			name:      "unknown wrapper key",
			input:     `{"subtitle_lines": [{"index": 0, "text": "Переведено"}]}`,
			wantCount: 1,
			wantText:  "Переведено",
		},
		{
			name:      "ass line break survives",
			input:     `[{"index": 0, "text": "one\Ntwo"}]`,
			wantCount: 1,
			wantText:  `one\Ntwo`,
		},
		{
			name:      "json newline decodes",
			input:     `[{"index": 0, "text": "one\ntwo"}]`,
			wantCount: 1,
			wantText:  "one\ntwo",
		},
		{name: "empty array", input: `[]`, wantErr: true},
		{name: "plain text", input: `I cannot help with that.`, wantErr: true},
		{name: "truncated", input: `[{"index": 0, "text": "cut off`, wantErr: true},
		{name: "only empty texts", input: `[{"index": 0, "text": ""}]`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := extractResults(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got %+v", results)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(results) != tt.wantCount {
				t.Fatalf("got %d results, want %d", len(results), tt.wantCount)
			}
			if results[0].Text != tt.wantText {
				t.Errorf("text = %q, want %q", results[0].Text, tt.wantText)
			}
		})
	}
}

func TestCleanJSONResponse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bare", `[{"index": 0}]`, `[{"index": 0}]`},
		{"json fence", "```json\n[{\"index\": 0}]\n```", `[{"index": 0}]`},
		{"plain fence", "```\n[]\n```", `[]`},
		{"padded", "  \n```json\n[]\n```\n ", `[]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanJSONResponse(tt.input); got != tt.want {
				t.Errorf("cleanJSONResponse() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFixInvalidEscapes(t *testing.T) {
	tests := map[string]string{
		`plain`:      `plain`,
		`a\nb`:       `a\nb`,
		`a\Nb`:       `a\\Nb`,
		`a\\Nb`:      `a\\Nb`,
		`\u00e9`:     `\u00e9`,
		`trailing\`:  `trailing\`,
		`say \"hi\"`: `say \"hi\"`,
	}
	for in, want := range tests {
		if got := fixInvalidEscapes(in); got != want {
			t.Errorf("fixInvalidEscapes(%q) = %q, want %q", in, got, want)
		}
	}
}
