package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
)

// OpenAIProvider implements TextGenerator on the chat completions API.
type OpenAIProvider struct {
	client   *openai.Client
	settings Settings
}

// NewOpenAIProvider creates a provider. baseURL overrides the API endpoint
// for compatible gateways; empty uses the public API.
func NewOpenAIProvider(apiKey, baseURL string, settings Settings) *OpenAIProvider {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	return &OpenAIProvider{client: openai.NewClientWithConfig(cfg), settings: settings}
}

func (p *OpenAIProvider) GenerateText(ctx context.Context, req Request) (string, error) {
	var messages []openai.ChatCompletionMessage
	if req.SystemInstruction != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.SystemInstruction,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Prompt,
	})

	format := &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject}
	if req.Schema != nil {
		def := toJSONSchema(req.Schema)
		format = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   "itinerary",
				Schema: &def,
				Strict: true,
			},
		}
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:          p.settings.Model,
		Messages:       messages,
		Temperature:    p.settings.Temperature,
		ResponseFormat: format,
	})
	if err != nil {
		return "", fmt.Errorf("openai: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: no choices: %w", ErrEmptyOutput)
	}
	content := resp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("openai: empty content: %w", ErrEmptyOutput)
	}
	return content, nil
}

// toJSONSchema translates s for strict structured outputs, which require
// additionalProperties=false on every object.
func toJSONSchema(s *Schema) jsonschema.Definition {
	def := jsonschema.Definition{
		Type:        openAIType(s.Type),
		Description: s.Description,
		Required:    s.Required,
	}
	if s.Items != nil {
		items := toJSONSchema(s.Items)
		def.Items = &items
	}
	if s.Type == TypeObject {
		def.Properties = make(map[string]jsonschema.Definition, len(s.Properties))
		for name, prop := range s.Properties {
			def.Properties[name] = toJSONSchema(prop)
		}
		def.AdditionalProperties = false
	}
	return def
}

func openAIType(t SchemaType) jsonschema.DataType {
	switch t {
	case TypeObject:
		return jsonschema.Object
	case TypeArray:
		return jsonschema.Array
	case TypeInteger:
		return jsonschema.Integer
	default:
		return jsonschema.String
	}
}
