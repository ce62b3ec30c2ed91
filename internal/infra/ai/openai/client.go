package openai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/bryanwahyu/debtguard/internal/domain/ai"
)

const maxTokens = 2048

// Client is the go-openai backed provider. The fast/deep models map to
// the two quality tiers the actions choose between.
type Client struct {
	*openai.Client
	ModelFast string
	ModelDeep string
}

func NewClient(apiKey, modelFast, modelDeep string) *Client {
	if modelFast == "" {
		modelFast = openai.GPT4oMini
	}
	if modelDeep == "" {
		modelDeep = openai.GPT4o
	}
	return &Client{Client: openai.NewClient(apiKey), ModelFast: modelFast, ModelDeep: modelDeep}
}

func (c *Client) SourceName() string { return "OpenAI" }

func (c *Client) model(tier ai.Tier) string {
	if tier == ai.TierDeep {
		return c.ModelDeep
	}
	return c.ModelFast
}

func (c *Client) Generate(ctx context.Context, r ai.Request) (string, error) {
	model := c.model(r.Tier)

	userMsg := openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser}
	if r.Attachment != nil {
		userMsg.MultiContent = []openai.ChatMessagePart{
			{Type: openai.ChatMessagePartTypeText, Text: r.Prompt},
			{
				Type: openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{
					URL: fmt.Sprintf("data:%s;base64,%s", r.Attachment.MimeType, base64.StdEncoding.EncodeToString(r.Attachment.Data)),
				},
			},
		}
	} else {
		userMsg.Content = r.Prompt
	}

	req := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: r.System},
			userMsg,
		},
	}
	// For reasoning models (o1/o3/o4/gpt-5*) use MaxCompletionTokens instead of MaxTokens
	if strings.HasPrefix(model, "o1") || strings.HasPrefix(model, "o3") || strings.HasPrefix(model, "o4") || strings.HasPrefix(model, "gpt-5") {
		req.MaxCompletionTokens = maxTokens
	} else {
		req.MaxTokens = maxTokens
	}

	resp, err := c.CreateChatCompletion(ctx, req)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == 429 {
			return "", fmt.Errorf("%w: %v", ai.ErrQuotaExceeded, err)
		}
		return "", fmt.Errorf("%w: failed to create chat completion: %v", ai.ErrUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty completion", ai.ErrUnavailable)
	}
	return resp.Choices[0].Message.Content, nil
}
