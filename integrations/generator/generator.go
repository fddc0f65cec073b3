package generator

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	domainVerify "github.com/Rutvik2598/PostPolice/domains/verify"
)

const systemPrompt = "You are a fact-checking assistant. Given a claim and supporting " +
	"evidence, answer with a verdict of TRUE, FALSE or UNVERIFIED followed by a " +
	"one-sentence justification."

// Config holds the configuration for the verdict generator.
type Config struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// Client asks a hosted LLM for claim verdicts. It implements
// verify.Generator and health.Probeable.
type Client struct {
	api     openai.Client
	model   string
	timeout time.Duration
	hasKey  bool
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		api:     openai.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:   cfg.Model,
		timeout: timeout,
		hasKey:  cfg.APIKey != "",
	}
}

// Generate sends the claim with its evidence and returns the model's free
// text. The call always carries a timeout; it never blocks indefinitely.
func (c *Client) Generate(ctx context.Context, claim string, evidence []domainVerify.Source) (string, error) {
	if !c.hasKey {
		return "", fmt.Errorf("generator api key is not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	completion, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(buildPrompt(claim, evidence)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}

	return strings.TrimSpace(completion.Choices[0].Message.Content), nil
}

func buildPrompt(claim string, evidence []domainVerify.Source) string {
	var b strings.Builder
	b.WriteString("Claim: ")
	b.WriteString(claim)

	if len(evidence) == 0 {
		b.WriteString("\n\nNo evidence was found. Answer UNVERIFIED unless the claim is common knowledge.")
		return b.String()
	}

	b.WriteString("\n\nEvidence:")
	for i, source := range evidence {
		fmt.Fprintf(&b, "\n%d. %s (%s): %s", i+1, source.Title, source.URL, source.Snippet)
	}
	return b.String()
}

// Healthcheck verifies the API is reachable with the configured credentials
// using a cheap models listing.
func (c *Client) Healthcheck(ctx context.Context) error {
	if !c.hasKey {
		return fmt.Errorf("generator api key is not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := c.api.Models.List(ctx); err != nil {
		return fmt.Errorf("generator unreachable: %w", err)
	}
	return nil
}

var _ domainVerify.Generator = (*Client)(nil)
