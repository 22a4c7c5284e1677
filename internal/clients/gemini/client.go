// Package gemini provides a client for the Google Gemini API
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/bobmcallan/hindsight/internal/common"
	"github.com/bobmcallan/hindsight/internal/interfaces"
	"github.com/bobmcallan/hindsight/internal/models"
)

const (
	DefaultModel = "gemini-2.0-flash"
)

// Client implements the GeminiClient interface
type Client struct {
	client *genai.Client
	model  string
	logger *common.Logger
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithModel sets the model to use
func WithModel(model string) ClientOption {
	return func(c *Client) {
		c.model = model
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new Gemini client
func NewClient(ctx context.Context, apiKey string, opts ...ClientOption) (*Client, error) {
	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	c := &Client{
		client: genaiClient,
		model:  DefaultModel,
		logger: common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Close closes the client
func (c *Client) Close() error {
	// The genai client doesn't have a Close method
	return nil
}

// generate runs a prompt and returns the response text
func (c *Client) generate(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (string, error) {
	c.logger.Debug().Str("model", c.model).Msg("Generating content")

	contents := genai.Text(prompt)
	result, err := c.client.Models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	return extractTextFromResponse(result)
}

// extractTextFromResponse extracts text from a generate content response
func extractTextFromResponse(result *genai.GenerateContentResponse) (string, error) {
	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content generated")
	}

	text := ""
	for _, part := range result.Candidates[0].Content.Parts {
		if part.Text != "" {
			text += part.Text
		}
	}

	return text, nil
}

// ClassifyEvent maps a free-text event description to a date range using
// structured JSON output. The returned dates are model output and must be
// validated by the caller.
func (c *Client) ClassifyEvent(ctx context.Context, event string) (*models.EventClassification, error) {
	prompt := fmt.Sprintf(`You are a financial market historian. Identify the market impact window for the following event.

Event: %s

Return the date range during which this event affected financial markets:
- start_date: the date the market impact began
- end_date: the date the market had substantially stabilized or recovered

Use YYYY-MM-DD format. If the event is ongoing, use today's date as end_date.`, event)

	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"start_date": {Type: genai.TypeString},
				"end_date":   {Type: genai.TypeString},
			},
			Required: []string{"start_date", "end_date"},
		},
	}

	text, err := c.generate(ctx, prompt, config)
	if err != nil {
		return nil, err
	}

	var classification models.EventClassification
	if err := json.Unmarshal([]byte(text), &classification); err != nil {
		return nil, fmt.Errorf("failed to parse classification response: %w", err)
	}

	c.logger.Debug().
		Str("event", event).
		Str("start", classification.StartDate).
		Str("end", classification.EndDate).
		Msg("Classified event window")

	return &classification, nil
}

// GenerateNarrative produces an analysis paragraph for an event's market impact
func (c *Client) GenerateNarrative(ctx context.Context, event string, impact *models.MarketImpact) (string, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, `You are a financial analyst. Write a concise analysis (2-3 paragraphs) of how the following event affected global markets, for a retail investor audience.

Event: %s

Market impact (MSCI World index):
- Value before the event: %.2f
- Lowest value during the event: %.2f (on %s)
- Value at end of window: %.2f
- Overall change: %.2f%%
`, event, impact.PreEventValue, impact.LowestValue, impact.LowestDate, impact.CurrentValue, impact.PercentChange)

	if impact.Recovered && impact.RecoveryDays != nil {
		fmt.Fprintf(&sb, "- The market recovered to its pre-event level after %d days\n", *impact.RecoveryDays)
	} else {
		sb.WriteString("- The market had not recovered to its pre-event level by the end of the window\n")
	}

	sb.WriteString("\nExplain what drove the decline, how the recovery unfolded, and what lesson a long-term investor should take from it. Do not use markdown formatting.")

	return c.generate(ctx, sb.String(), nil)
}

// GenerateAdvice produces investment advice comparing scenario outcomes
func (c *Client) GenerateAdvice(ctx context.Context, event string, results []models.ScenarioResult) (string, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, `You are a financial advisor. A client simulated how their portfolio would have performed through a historical market event under three strategies.

Event: %s

Strategy outcomes:
`, event)

	for _, r := range results {
		fmt.Fprintf(&sb, "- %s: total return %.2f%%, max drawdown %.2f%%", r.Label, r.TotalReturnPct, r.MaxDrawdownPct)
		if r.RecoveryDays != nil {
			fmt.Fprintf(&sb, ", recovered after %d days", *r.RecoveryDays)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\nIn 2-3 sentences, explain which strategy performed best and the general lesson about investing through market events. Do not use markdown formatting.")

	return c.generate(ctx, sb.String(), nil)
}

// Ensure Client implements GeminiClient
var _ interfaces.GeminiClient = (*Client)(nil)
