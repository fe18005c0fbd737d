// Package ai wraps the hosted completion provider. The rest of the system
// only depends on the Completer contract so tests can substitute a fake.
package ai

import (
	"context"
	"os"

	"github.com/fieldworks/skiptrace/internal/errors"
	"github.com/sashabaranov/go-openai"
)

// Completer is the reasoning/completion provider contract. Complete returns
// free text; CompleteJSON constrains the provider to return a JSON object.
// Callers must tolerate malformed or partial JSON from CompleteJSON.
type Completer interface {
	Complete(ctx context.Context, systemPrompt string, userPrompt string) (string, error)
	CompleteJSON(ctx context.Context, systemPrompt string, userPrompt string) (string, error)
}

type Client struct {
	client *openai.Client
	model  string
}

const MaxTokens = 4096

func NewClient() *Client {
	return &Client{
		client: openai.NewClient(os.Getenv("OPENAI_API_KEY")),
		model:  openai.GPT4TurboPreview,
	}
}

func (c *Client) Complete(ctx context.Context, systemPrompt string, userPrompt string) (string, error) {
	completion, err := c.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{ //nolint:exhaustruct // this is better for readability
			Model:     c.model,
			MaxTokens: MaxTokens,
			Messages:  messages(systemPrompt, userPrompt),
		},
	)
	if err != nil {
		return "", errors.Wrap(err, "create chat completion")
	}
	if len(completion.Choices) == 0 {
		return "", errors.New("completion returned no choices")
	}
	return completion.Choices[0].Message.Content, nil
}

func (c *Client) CompleteJSON(ctx context.Context, systemPrompt string, userPrompt string) (string, error) {
	completion, err := c.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{ //nolint:exhaustruct // this is better for readability
			Model:     c.model,
			MaxTokens: MaxTokens,
			Messages:  messages(systemPrompt, userPrompt),
			ResponseFormat: &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			},
		},
	)
	if err != nil {
		return "", errors.Wrap(err, "create JSON chat completion")
	}
	if len(completion.Choices) == 0 {
		return "", errors.New("completion returned no choices")
	}
	return completion.Choices[0].Message.Content, nil
}

func messages(systemPrompt string, userPrompt string) []openai.ChatCompletionMessage {
	return []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
		{Role: openai.ChatMessageRoleUser, Content: userPrompt},
	}
}
