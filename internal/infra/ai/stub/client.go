package stub

import (
	"context"
	"strings"

	"github.com/bryanwahyu/debtguard/internal/domain/ai"
)

// Client is a deterministic local provider for development and tests.
// Responses are canned per action family so citation extraction and the
// letter flows can be exercised without an API key.
type Client struct{}

func NewClient() *Client { return &Client{} }

func (*Client) SourceName() string { return "Stub" }

func (*Client) Generate(ctx context.Context, req ai.Request) (string, error) {
	p := strings.ToLower(req.Prompt)
	switch {
	case strings.Contains(p, "negotiable instrument"):
		return "This document appears to be a promissory note. It satisfies the requirements of negotiability [UCC § 3-104] and carries a blank endorsement, making it payable to bearer [UCC § 3-205].", nil
	case strings.Contains(p, "explain ucc article"):
		return "This section sets out a basic rule of commercial paper in plain terms.", nil
	case strings.Contains(p, "draft a formal"):
		return "Dear Sir or Madam,\n\n[YOUR NAME] disputes the items described below and demands validation.\n\nSincerely,\n[YOUR NAME]\n[DATE]", nil
	case strings.Contains(p, "debt-collector interaction"):
		return "Possible harassment through repeated calls; possible false representation of the amount owed.", nil
	default:
		return "Reviewed. Secured-party remedies after default are limited [UCC § 9-609].", nil
	}
}
