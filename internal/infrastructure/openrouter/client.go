package openrouter

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/macrolens/foodcore/internal/analysis"
	"github.com/macrolens/foodcore/internal/domain"
)

// ClientConfig holds OpenRouter client settings
type ClientConfig struct {
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int
	Timeout   time.Duration
	Referer   string
	Title     string
}

// Client sends fridge and pantry photos to a vision model through OpenRouter
type Client struct {
	http      *resty.Client
	apiKey    string
	model     string
	maxTokens int
	logger    *zap.Logger
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// NewClient creates a new OpenRouter client
func NewClient(cfg ClientConfig, logger *zap.Logger) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://openrouter.ai/api/v1"
	}
	model := cfg.Model
	if model == "" {
		model = "openai/gpt-4o-mini"
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	httpClient := resty.New().
		SetBaseURL(strings.TrimSuffix(baseURL, "/")).
		SetTimeout(timeout).
		SetAuthToken(cfg.APIKey).
		SetHeader("Content-Type", "application/json")
	if cfg.Referer != "" {
		httpClient.SetHeader("HTTP-Referer", cfg.Referer)
	}
	if cfg.Title != "" {
		httpClient.SetHeader("X-Title", cfg.Title)
	}

	return &Client{
		http:      httpClient,
		apiKey:    cfg.APIKey,
		model:     model,
		maxTokens: maxTokens,
		logger:    logger.Named("openrouter"),
	}
}

// Configured reports whether an API key is set
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// AnalyzeImage implements domain.ImageAnalyzer. It returns the raw text of the
// first choice, or nil when the model produced none.
func (c *Client) AnalyzeImage(ctx context.Context, data []byte, mimeType string) (*string, error) {
	if !c.Configured() {
		return nil, domain.ErrVisionNotConfigured
	}

	body := chatRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Messages: []chatMessage{{
			Role: "user",
			Content: []contentPart{
				{Type: "text", Text: analysisPrompt},
				{Type: "image_url", ImageURL: &imageURL{URL: dataURL(mimeType, data)}},
			},
		}},
	}

	start := time.Now()
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		Post("/chat/completions")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}
	if resp.IsError() {
		c.logger.Warn("vision request failed",
			zap.Int("status", resp.StatusCode()),
			zap.String("body", truncate(resp.String(), 200)),
		)
		return nil, fmt.Errorf("%w: openrouter returned status %d", domain.ErrUpstreamUnavailable, resp.StatusCode())
	}

	var parsed chatResponse
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return nil, fmt.Errorf("%w: decode openrouter response: %v", domain.ErrUpstreamUnavailable, err)
	}

	c.logger.Debug("vision request completed",
		zap.String("model", c.model),
		zap.Int("image_bytes", len(data)),
		zap.Duration("elapsed", time.Since(start)),
	)

	if len(parsed.Choices) == 0 {
		return nil, nil
	}
	return parsed.Choices[0].Message.Content, nil
}

func dataURL(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

var analysisPrompt = fmt.Sprintf(`Identify every food item visible in this image.
Respond with JSON only, no prose, in the form
{"items":[{"name":string,"category":string,"quantity":number,"quantityUnit":string,"storageLocation":string,"shelfLifeDays":integer,"confidence":number}],"notes":string}.
category is one of: %s.
quantityUnit is one of: %s.
storageLocation is one of: %s.
shelfLifeDays is the expected days until spoilage (1-365). confidence is between 0 and 1.
If the image contains no food, return {"items":[],"error":"<reason>"}.`,
	strings.Join(analysis.Categories, ", "),
	strings.Join(analysis.QuantityUnits, ", "),
	strings.Join(analysis.StorageLocations, ", "),
)
