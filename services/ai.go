package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// MetadataSuggestion is what the AI integration proposes for an image; any
// field may be empty.
type MetadataSuggestion struct {
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// MetadataSuggester is an optional capability: built once at startup when an
// API key is configured, nil otherwise.
type MetadataSuggester interface {
	Suggest(ctx context.Context, imageData []byte, mimeType, lang string) (*MetadataSuggestion, error)
}

type openAISuggester struct {
	client *openai.Client
	model  string
}

// NewOpenAISuggester returns nil when no API key is configured.
func NewOpenAISuggester(apiKey, model string) MetadataSuggester {
	if apiKey == "" {
		return nil
	}
	return &openAISuggester{client: openai.NewClient(apiKey), model: model}
}

func (s *openAISuggester) Suggest(ctx context.Context, imageData []byte, mimeType, lang string) (*MetadataSuggestion, error) {
	if lang == "" {
		lang = "en"
	}
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	prompt := fmt.Sprintf(
		`This is a panorama photo. Reply in language %q with a JSON object of the form `+
			`{"title": string, "description": string, "tags": [string]}: a short title, `+
			`a one-or-two sentence description, and 3 to 8 lowercase tags.`, lang)

	dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(imageData))

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: prompt},
					{
						Type:     openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{URL: dataURL, Detail: openai.ImageURLDetailLow},
					},
				},
			},
		},
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty completion response")
	}

	var suggestion MetadataSuggestion
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &suggestion); err != nil {
		return nil, fmt.Errorf("unparseable completion: %w", err)
	}
	return &suggestion, nil
}
