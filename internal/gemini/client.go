package gemini

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"
)

// Config controls a single generation call.
type Config struct {
	Model          string
	Temperature    float64
	ThinkingBudget int
}

// Client calls generateContent through the Gemini API SDK.
type Client struct {
	models *genai.Models
	// initErr is kept so a missing key fails at call time, like any other
	// request failure.
	initErr error
}

// New creates a client. An empty baseURL uses the SDK default endpoint;
// a zero timeout means the transport never gives up.
func New(ctx context.Context, baseURL, apiKey string, timeout time.Duration) *Client {
	cfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: timeout},
	}
	if baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: strings.TrimRight(baseURL, "/") + "/"}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return &Client{initErr: fmt.Errorf("gemini client: %w", err)}
	}
	return &Client{models: client.Models}
}

// Generate sends prompt and returns the text of the first candidate. An
// empty string with a nil error means the model returned no text.
func (c *Client) Generate(ctx context.Context, cfg Config, prompt string) (string, error) {
	if c.initErr != nil {
		return "", c.initErr
	}
	resp, err := c.models.GenerateContent(ctx, cfg.Model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(cfg.Temperature)),
		ThinkingConfig: &genai.ThinkingConfig{
			ThinkingBudget: genai.Ptr(int32(cfg.ThinkingBudget)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("prompt blocked: %s", resp.PromptFeedback.BlockReason)
	}
	return resp.Text(), nil
}
