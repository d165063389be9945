package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"github.com/jigyokei-ai/modelroute"
)

// GenerateInput is the payload for text generation requests.
type GenerateInput struct {
	Prompt string
	Config *genai.GenerateContentConfig
}

// GenerateOutput is the response for text generation requests. Text is the
// concatenated candidate text; Raw carries the full SDK response.
type GenerateOutput struct {
	Text string
	Raw  *genai.GenerateContentResponse
}

// EmbedInput is the payload for embedding requests. TaskType follows the
// Gemini API values, e.g. "RETRIEVAL_DOCUMENT", "RETRIEVAL_QUERY",
// "SEMANTIC_SIMILARITY".
type EmbedInput struct {
	Text     string
	TaskType string
}

// EmbedOutput is the response for embedding requests.
type EmbedOutput struct {
	Values []float32
}

// Invoker adapts the Google GenAI SDK to the router's invocation contract.
// It maps SDK failures into the router's closed error taxonomy so the
// router stays provider-agnostic.
type Invoker struct {
	client *genai.Client
}

var _ modelroute.Invoker = (*Invoker)(nil)

// NewInvoker creates an Invoker configured for the Gemini API backend.
func NewInvoker(ctx context.Context, apiKey string) (*Invoker, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini: api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}

	return &Invoker{client: client}, nil
}

// Invoke dispatches on the payload type: GenerateInput goes to the
// generation endpoint, EmbedInput to the embedding endpoint.
func (v *Invoker) Invoke(ctx context.Context, modelID string, payload any) (any, error) {
	switch p := payload.(type) {
	case GenerateInput:
		return v.generate(ctx, modelID, p)
	case *GenerateInput:
		return v.generate(ctx, modelID, *p)
	case EmbedInput:
		return v.embed(ctx, modelID, p)
	case *EmbedInput:
		return v.embed(ctx, modelID, *p)
	default:
		return nil, fmt.Errorf("%w: unsupported payload type %T", modelroute.ErrInvalidPayload, payload)
	}
}

func (v *Invoker) generate(ctx context.Context, modelID string, in GenerateInput) (any, error) {
	if strings.TrimSpace(in.Prompt) == "" {
		return nil, fmt.Errorf("%w: prompt must not be empty", modelroute.ErrInvalidPayload)
	}

	resp, err := v.client.Models.GenerateContent(ctx, modelID, genai.Text(in.Prompt), in.Config)
	if err != nil {
		return nil, mapError(err)
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	return GenerateOutput{Text: builder.String(), Raw: resp}, nil
}

func (v *Invoker) embed(ctx context.Context, modelID string, in EmbedInput) (any, error) {
	if strings.TrimSpace(in.Text) == "" {
		return nil, fmt.Errorf("%w: text must not be empty", modelroute.ErrInvalidPayload)
	}

	cfg := &genai.EmbedContentConfig{}
	if in.TaskType != "" {
		cfg.TaskType = in.TaskType
	}

	resp, err := v.client.Models.EmbedContent(ctx, modelID, genai.Text(in.Text), cfg)
	if err != nil {
		return nil, mapError(err)
	}

	if len(resp.Embeddings) == 0 || resp.Embeddings[0] == nil {
		return nil, fmt.Errorf("%w: empty embedding response", modelroute.ErrUnavailable)
	}

	return EmbedOutput{Values: resp.Embeddings[0].Values}, nil
}

// mapError translates SDK errors into the router's taxonomy. Context
// cancellation passes through untouched so the router can distinguish the
// caller giving up from the provider failing.
func mapError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == http.StatusTooManyRequests || apiErr.Status == "RESOURCE_EXHAUSTED":
			return fmt.Errorf("%w: %s", modelroute.ErrQuotaExhausted, apiErr.Message)
		case apiErr.Code == http.StatusUnauthorized || apiErr.Code == http.StatusForbidden:
			return fmt.Errorf("%w: %s", modelroute.ErrAuthFailed, apiErr.Message)
		case apiErr.Code == http.StatusBadRequest || apiErr.Code == http.StatusNotFound:
			return fmt.Errorf("%w: %s", modelroute.ErrInvalidPayload, apiErr.Message)
		default:
			return fmt.Errorf("%w: %s", modelroute.ErrUnavailable, apiErr.Message)
		}
	}

	return fmt.Errorf("%w: %v", modelroute.ErrUnavailable, err)
}
