package translate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
)

// answers every prompt by upper-casing the texts it was given
type fakeBackend struct {
	prompts []string
	reply   func(items []Item) string
	err     error
}

func (f *fakeBackend) name() string {
	return "fake"
}

func (f *fakeBackend) complete(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}

	start := strings.Index(prompt, "Input JSON:\n") + len("Input JSON:\n")
	end := strings.Index(prompt, "\n\nOutput the translated JSON array only:")
	var items []Item
	if err := json.Unmarshal([]byte(prompt[start:end]), &items); err != nil {
		return "", err
	}

	if f.reply != nil {
		return f.reply(items), nil
	}
	results := make([]Result, len(items))
	for i, item := range items {
		results[i] = Result{Index: item.Index, Text: strings.ToUpper(item.Text)}
	}
	data, _ := json.Marshal(results)
	return "```json\n" + string(data) + "\n```", nil
}

func TestTranslateBatchesSequentially(t *testing.T) {
	backend := &fakeBackend{}
	tr := newTranslator(backend, Options{TargetLanguage: "Shouting", BatchSize: 2}, nil)

	texts := []string{"one", "two", "", "three", "four\nfive", "six"}
	got, err := tr.Translate(context.Background(), texts)
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}

	want := []string{"ONE", "TWO", "", "THREE", "FOUR\nFIVE", "SIX"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("Translate = %q, want %q", got, want)
	}
	// five non-empty texts in batches of two
	if len(backend.prompts) != 3 {
		t.Errorf("expected 3 requests, got %d", len(backend.prompts))
	}
	if texts[0] != "one" {
		t.Error("input slice was modified")
	}
}

func TestTranslateAcceptsReorderedResults(t *testing.T) {
	backend := &fakeBackend{reply: func(items []Item) string {
		var sb strings.Builder
		sb.WriteString("Here you go: [")
		for i := len(items) - 1; i >= 0; i-- {
			fmt.Fprintf(&sb, `{"index": %d, "text": "t%d"}`, items[i].Index, items[i].Index)
			if i > 0 {
				sb.WriteString(",")
			}
		}
		sb.WriteString("]")
		return sb.String()
	}}
	tr := newTranslator(backend, Options{TargetLanguage: "x"}, nil)

	got, err := tr.Translate(context.Background(), []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if strings.Join(got, ",") != "t0,t1,t2" {
		t.Errorf("Translate = %v", got)
	}
}

func TestTranslateMissingResult(t *testing.T) {
	backend := &fakeBackend{reply: func(items []Item) string {
		return fmt.Sprintf(`[{"index": %d, "text": "only one"}]`, items[0].Index)
	}}
	tr := newTranslator(backend, Options{TargetLanguage: "x"}, nil)

	_, err := tr.Translate(context.Background(), []string{"a", "b"})
	if err == nil || !strings.Contains(err.Error(), "missing index 1") {
		t.Fatalf("expected missing index error, got %v", err)
	}
}

func TestTranslateBackendError(t *testing.T) {
	boom := errors.New("quota exceeded")
	tr := newTranslator(&fakeBackend{err: boom}, Options{TargetLanguage: "x"}, nil)

	_, err := tr.Translate(context.Background(), []string{"a"})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped backend error, got %v", err)
	}
}

func TestTranslateNothingToSend(t *testing.T) {
	backend := &fakeBackend{}
	tr := newTranslator(backend, Options{TargetLanguage: "x"}, nil)

	got, err := tr.Translate(context.Background(), []string{"", "  "})
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if len(got) != 2 || len(backend.prompts) != 0 {
		t.Errorf("expected passthrough without requests, got %q and %d requests", got, len(backend.prompts))
	}
}

func TestTranslateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	backend := &fakeBackend{}
	tr := newTranslator(backend, Options{TargetLanguage: "x"}, nil)
	if _, err := tr.Translate(ctx, []string{"a"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(backend.prompts) != 0 {
		t.Error("no request should be sent after cancellation")
	}
}

func TestNew(t *testing.T) {
	ctx := context.Background()
	for _, provider := range []Provider{ProviderGemini, ProviderOpenAI, ProviderAnthropic} {
		tr, err := New(ctx, provider, "fake-key", Options{TargetLanguage: "French"}, nil)
		if err != nil {
			t.Errorf("New(%s) failed: %v", provider, err)
			continue
		}
		if tr.backend == nil {
			t.Errorf("New(%s) has no backend", provider)
		}
	}

	if _, err := New(ctx, ProviderGemini, "fake-key", Options{}, nil); err == nil {
		t.Error("expected error for missing target language")
	}
	if _, err := New(ctx, ProviderOpenAI, "", Options{TargetLanguage: "French"}, nil); err == nil {
		t.Error("expected error for missing API key")
	}
	if _, err := New(ctx, Provider("unknown"), "fake-key", Options{TargetLanguage: "French"}, nil); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestDefaultModels(t *testing.T) {
	if b := newOpenAIBackend("k", ""); b.model != defaultOpenAIModel {
		t.Errorf("openai model = %q", b.model)
	}
	if b := newOpenAIBackend("k", "gpt-custom"); b.model != "gpt-custom" {
		t.Errorf("openai model = %q", b.model)
	}
	if b := newAnthropicBackend("k", ""); b.model == "" {
		t.Error("anthropic model should default")
	}
}

func TestResolveAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "from-env")

	if key, err := ResolveAPIKey(ProviderOpenAI, "explicit"); err != nil || key != "explicit" {
		t.Errorf("explicit key: got %q, %v", key, err)
	}
	if key, err := ResolveAPIKey(ProviderOpenAI, ""); err != nil || key != "from-env" {
		t.Errorf("env key: got %q, %v", key, err)
	}

	t.Setenv("ANTHROPIC_API_KEY", "")
	if _, err := ResolveAPIKey(ProviderAnthropic, ""); err == nil || !strings.Contains(err.Error(), "ANTHROPIC_API_KEY") {
		t.Errorf("expected error naming the env variable, got %v", err)
	}
	if _, err := ResolveAPIKey(Provider("nope"), ""); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestBuildPrompt(t *testing.T) {
	items := []Item{{Index: 0, Text: "Hello world"}, {Index: 4, Text: "Bye"}}

	prompt := BuildPrompt(Options{InputLanguage: "English", TargetLanguage: "Japanese", Prompt: "be polite"}, items)
	for _, want := range []string{"English subtitle lines to Japanese", "Hello world", `"index": 4`, "be polite"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}

	prompt = BuildPrompt(Options{TargetLanguage: "Spanish"}, items)
	if strings.Contains(prompt, "English") || strings.Contains(prompt, "Additional instructions") {
		t.Error("prompt has unset options")
	}
	if !strings.Contains(prompt, "lines to Spanish") {
		t.Error("prompt should contain target language")
	}
}

// only runs if OPENAI_API_KEY is set
func TestOpenAIIntegration(t *testing.T) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" || apiKey == "from-env" {
		t.Skip("OPENAI_API_KEY not set; skipping integration test")
	}

	ctx := context.Background()
	tr, err := New(ctx, ProviderOpenAI, apiKey, Options{TargetLanguage: "Spanish"}, nil)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	got, err := tr.Translate(ctx, []string{"Hello", "Goodbye"})
	if err != nil {
		t.Fatalf("Translate error: %v", err)
	}
	for i, text := range got {
		if text == "" {
			t.Errorf("result %d is empty", i)
		}
	}
}
