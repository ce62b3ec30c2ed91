package ai

import "context"

// Tier selects the model-quality level for a request. Document analyses
// and drafted letters run on the deep tier; violation suggestions and
// citation explanations run on the fast tier.
type Tier string

const (
	TierFast Tier = "fast"
	TierDeep Tier = "deep"
)

// Attachment is an inline binary payload sent alongside a prompt.
type Attachment struct {
	MimeType string
	Data     []byte
}

// Request describes one outbound generation call.
type Request struct {
	System     string
	Prompt     string
	Tier       Tier
	Attachment *Attachment
}

// Client abstracts a generative-language provider.
// Implementations must be safe for concurrent use.
type Client interface {
	Generate(ctx context.Context, req Request) (string, error)
	// SourceName returns a short provider label (e.g. "Gemini", "OpenAI").
	SourceName() string
}
