package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/mgpai22/subclip/internal/logging"
)

const DefaultBatchSize = 50

// one cue text sent to the model
type Item struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// translated cue text
type Result struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// translation service provider
type Provider string

const (
	ProviderGemini    Provider = "gemini"
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
)

var apiKeyEnv = map[Provider]string{
	ProviderGemini:    "GEMINI_API_KEY",
	ProviderOpenAI:    "OPENAI_API_KEY",
	ProviderAnthropic: "ANTHROPIC_API_KEY",
}

// APIKeyEnv is the environment variable holding the provider's key
func APIKeyEnv(provider Provider) string {
	return apiKeyEnv[provider]
}

// ResolveAPIKey prefers an explicit key over the provider's env variable
func ResolveAPIKey(provider Provider, explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	env, ok := apiKeyEnv[provider]
	if !ok {
		return "", fmt.Errorf("unsupported translation provider: %s", provider)
	}
	if key := os.Getenv(env); key != "" {
		return key, nil
	}
	return "", fmt.Errorf("API key is required: pass --api-key or set %s", env)
}

type Options struct {
	InputLanguage  string
	TargetLanguage string
	Model          string
	Prompt         string
	BatchSize      int // items per API request (default 50)
}

// sends one prompt and returns the model's text reply
type backend interface {
	complete(ctx context.Context, prompt string) (string, error)
	name() string
}

// Translator sends cue texts to a provider in sequential batches
type Translator struct {
	backend backend
	options Options
	logger  *logging.Logger
}

// creates a Translator for provider
func New(
	ctx context.Context,
	provider Provider,
	apiKey string,
	opts Options,
	logger *logging.Logger,
) (*Translator, error) {
	if opts.TargetLanguage == "" {
		return nil, fmt.Errorf("target language is required")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	var (
		b   backend
		err error
	)
	switch provider {
	case ProviderGemini:
		b, err = newGeminiBackend(ctx, apiKey, opts.Model)
	case ProviderOpenAI:
		b = newOpenAIBackend(apiKey, opts.Model)
	case ProviderAnthropic:
		b = newAnthropicBackend(apiKey, opts.Model)
	default:
		return nil, fmt.Errorf("unsupported translation provider: %s", provider)
	}
	if err != nil {
		return nil, err
	}

	return newTranslator(b, opts, logger), nil
}

func newTranslator(b backend, opts Options, logger *logging.Logger) *Translator {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Translator{backend: b, options: opts, logger: logger}
}

func (t *Translator) batchSize() int {
	if t.options.BatchSize > 0 {
		return t.options.BatchSize
	}
	return DefaultBatchSize
}

// Translate returns texts translated, in the same order. Empty texts are
// passed through without being sent.
func (t *Translator) Translate(ctx context.Context, texts []string) ([]string, error) {
	out := make([]string, len(texts))
	copy(out, texts)

	var items []Item
	for i, text := range texts {
		if strings.TrimSpace(text) == "" {
			continue
		}
		items = append(items, Item{Index: i, Text: text})
	}

	size := t.batchSize()
	batches := (len(items) + size - 1) / size
	for b := 0; b < batches; b++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		start := b * size
		end := min(start+size, len(items))
		batch := items[start:end]

		t.logger.Debugw("translating batch",
			"provider", t.backend.name(),
			"batch", b+1,
			"of", batches,
			"items", len(batch),
		)

		results, err := t.translateBatch(ctx, batch)
		if err != nil {
			return nil, fmt.Errorf("batch %d failed: %w", b+1, err)
		}
		for _, item := range batch {
			out[item.Index] = results[item.Index]
		}
	}

	return out, nil
}

// translated text keyed by item index; every item must come back
func (t *Translator) translateBatch(ctx context.Context, items []Item) (map[int]string, error) {
	reply, err := t.backend.complete(ctx, BuildPrompt(t.options, items))
	if err != nil {
		return nil, fmt.Errorf("translation failed: %w", err)
	}
	if reply == "" {
		return nil, fmt.Errorf("no text in %s response", t.backend.name())
	}

	cleaned := cleanJSONResponse(reply)
	results, err := extractResults(cleaned)
	if err != nil {
		return nil, fmt.Errorf(
			"failed to parse JSON response: %w (response: %s)",
			err,
			truncateString(cleaned, 200),
		)
	}

	byIndex := make(map[int]string, len(results))
	for _, r := range results {
		byIndex[r.Index] = r.Text
	}
	for _, item := range items {
		if _, ok := byIndex[item.Index]; !ok {
			return nil, fmt.Errorf(
				"expected %d results, got %d (missing index %d)",
				len(items),
				len(results),
				item.Index,
			)
		}
	}
	return byIndex, nil
}

// BuildPrompt creates the translation prompt for LLM providers
func BuildPrompt(opts Options, items []Item) string {
	var sb strings.Builder

	if opts.InputLanguage != "" {
		fmt.Fprintf(&sb,
			"Translate the following %s subtitle lines to %s.\n\n",
			opts.InputLanguage,
			opts.TargetLanguage,
		)
	} else {
		fmt.Fprintf(&sb,
			"Translate the following subtitle lines to %s.\n\n",
			opts.TargetLanguage,
		)
	}

	sb.WriteString("Rules:\n")
	sb.WriteString("1. Translate only the text, keeping its meaning and tone.\n")
	sb.WriteString("2. Keep line breaks where they are; lines are burned into video and must stay short.\n")
	sb.WriteString("3. Reply with a JSON array of objects with 'index' and 'text' fields only.\n")
	sb.WriteString("4. Every input index must appear exactly once in the reply.\n")
	sb.WriteString("5. No explanation and no markdown.\n\n")

	if opts.Prompt != "" {
		fmt.Fprintf(&sb, "Additional instructions: %s\n\n", opts.Prompt)
	}

	sb.WriteString("Input JSON:\n")
	inputJSON, _ := json.MarshalIndent(items, "", "  ")
	sb.Write(inputJSON)
	sb.WriteString("\n\nOutput the translated JSON array only:")

	return sb.String()
}
