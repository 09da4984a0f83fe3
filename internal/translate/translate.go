// Package translate fills missing subtitle translations through the OpenAI
// chat API.
package translate

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const model = "gpt-4o-mini"

// Client translates individual subtitle lines.
type Client struct {
	api *openai.Client
}

func New(apiKey string) *Client {
	return &Client{api: openai.NewClient(apiKey)}
}

// Translate renders one subtitle line from source into target. Blank input
// is returned as-is without an API call.
func (c *Client) Translate(ctx context.Context, text, source, target string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return text, nil
	}

	prompt := fmt.Sprintf(
		"Translate the following subtitle line into %s. Reply with the translation only.\n\n%s",
		target, text,
	)
	if source != "" {
		prompt = fmt.Sprintf(
			"Translate the following %s subtitle line into %s. Reply with the translation only.\n\n%s",
			source, target, text,
		)
	}
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Temperature: 0.2,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to translate text: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("translation returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
