package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/bryanwahyu/debtguard/internal/domain/ai"
)

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type geminiRequest struct {
	SystemInstruction *content  `json:"systemInstruction,omitempty"`
	Contents          []content `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text,omitempty"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Client calls the Generative Language REST API directly. modelFast and
// modelDeep are the two quality tiers requests choose between.
type Client struct {
	apiKey    string
	modelFast string
	modelDeep string
	http      *http.Client
}

func NewClient(apiKey, modelFast, modelDeep string) *Client {
	return &Client{
		apiKey:    apiKey,
		modelFast: modelFast,
		modelDeep: modelDeep,
		http:      &http.Client{},
	}
}

func (c *Client) SourceName() string { return "Gemini" }

func (c *Client) model(tier ai.Tier) string {
	if tier == ai.TierDeep {
		return c.modelDeep
	}
	return c.modelFast
}

func (c *Client) Generate(ctx context.Context, req ai.Request) (string, error) {
	parts := []part{{Text: req.Prompt}}
	if req.Attachment != nil {
		parts = append(parts, part{
			InlineData: &inlineData{
				MimeType: req.Attachment.MimeType,
				Data:     base64.StdEncoding.EncodeToString(req.Attachment.Data),
			},
		})
	}

	body := geminiRequest{
		Contents: []content{{Role: "user", Parts: parts}},
	}
	if req.System != "" {
		body.SystemInstruction = &content{Parts: []part{{Text: req.System}}}
	}

	return c.generateContent(ctx, c.model(req.Tier), body)
}

func (c *Client) generateContent(ctx context.Context, model string, body geminiRequest) (string, error) {
	// try v1beta first, then v1
	endpoints := []string{
		fmt.Sprintf("https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent?key=%s", model, c.apiKey),
		fmt.Sprintf("https://generativelanguage.googleapis.com/v1/models/%s:generateContent?key=%s", model, c.apiKey),
	}

	data, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	var lastErr error
	for _, ep := range endpoints {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, ep, bytes.NewBuffer(data))
		if err != nil {
			lastErr = fmt.Errorf("failed to create request: %w", err)
			continue
		}
		req.Header.Set("Content-Type", "application/json")
		resp, err := c.http.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: %v", ai.ErrUnavailable, err)
			continue
		}
		bodyBytes, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("%w: failed to read response: %v", ai.ErrUnavailable, err)
			continue
		}
		if resp.StatusCode == http.StatusTooManyRequests {
			return "", fmt.Errorf("%w: %s", ai.ErrQuotaExceeded, string(bodyBytes))
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			lastErr = fmt.Errorf("%w: API error (status %d)", ai.ErrUnavailable, resp.StatusCode)
			// retry next endpoint if available
			continue
		}
		var gr geminiResponse
		if err := json.Unmarshal(bodyBytes, &gr); err != nil {
			lastErr = fmt.Errorf("%w: failed to parse response: %v", ai.ErrUnavailable, err)
			continue
		}
		if len(gr.Candidates) == 0 {
			lastErr = fmt.Errorf("%w: no candidates in response", ai.ErrUnavailable)
			continue
		}
		for _, p := range gr.Candidates[0].Content.Parts {
			if p.Text != "" {
				return p.Text, nil
			}
		}
		lastErr = fmt.Errorf("%w: no text part in response", ai.ErrUnavailable)
	}
	return "", lastErr
}
