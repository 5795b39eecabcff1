package annotate

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/rs/zerolog"

	"github.com/kikiluvv/scenecut/internal/scenes"
	"github.com/kikiluvv/scenecut/pkg/util"
)

const defaultPrompt = "Describe this video scene in one short sentence. " +
	"Focus on the visible subject and action, not image quality."

// Annotator produces a text description for a scene
type Annotator interface {
	Annotate(ctx context.Context, sc scenes.Scene) (string, error)
	Close() error
}

// Config for the OpenAI-backed annotator
type Config struct {
	Model   string
	BaseURL string
	APIKey  string
	Prompt  string
}

// OpenAIAnnotator describes scene thumbnails via a vision-capable chat model
type OpenAIAnnotator struct {
	logger zerolog.Logger
	client openai.Client
	model  string
	prompt string
}

// NewOpenAIAnnotator creates an annotator backed by the OpenAI chat API
func NewOpenAIAnnotator(logger zerolog.Logger, cfg Config) (*OpenAIAnnotator, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("api key is required")
	}
	if cfg.Model == "" {
		return nil, errors.New("model is required")
	}
	prompt := cfg.Prompt
	if prompt == "" {
		prompt = defaultPrompt
	}

	clientOpts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
	}
	if cfg.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAIAnnotator{
		logger: logger.With().Str("component", "annotator").Logger(),
		client: openai.NewClient(clientOpts...),
		model:  cfg.Model,
		prompt: prompt,
	}, nil
}

// Annotate sends the scene thumbnail to the model and returns its description
func (a *OpenAIAnnotator) Annotate(ctx context.Context, sc scenes.Scene) (string, error) {
	if len(sc.Thumbnail) == 0 {
		return "", fmt.Errorf("scene %d has no thumbnail", sc.ID)
	}

	dataURL := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(sc.Thumbnail)

	a.logger.Debug().
		Int("scene", sc.ID).
		Str("span", util.FormatSeconds(sc.Start)+" - "+util.FormatSeconds(sc.End)).
		Msg("requesting annotation")

	resp, err := a.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
				openai.TextContentPart(a.prompt),
				openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
					URL: dataURL,
				}),
			}),
		},
		Model:       a.model,
		Temperature: openai.Float(0.2),
	})
	if err != nil {
		return "", fmt.Errorf("annotation request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("model returned no choices")
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", errors.New("model returned empty description")
	}
	return text, nil
}

// Close is a no-op for the API-backed annotator
func (a *OpenAIAnnotator) Close() error {
	return nil
}

// AnnotateAll annotates every scene in the manager, skipping scenes that fail
func AnnotateAll(ctx context.Context, logger zerolog.Logger, ann Annotator, m *scenes.Manager) error {
	log := logger.With().Str("component", "annotator").Logger()

	var failed int
	for _, sc := range m.Scenes() {
		if err := ctx.Err(); err != nil {
			return err
		}

		text, err := ann.Annotate(ctx, sc)
		if err != nil {
			log.Warn().Err(err).Int("scene", sc.ID).Msg("annotation failed, skipping scene")
			failed++
			continue
		}
		if err := m.Attach(sc.ID, text); err != nil {
			return err
		}
		log.Debug().Int("scene", sc.ID).Str("text", text).Msg("scene annotated")
	}

	if failed > 0 {
		log.Warn().Int("failed", failed).Msg("some scenes were not annotated")
	}
	return nil
}
