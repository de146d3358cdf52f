package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/recipehelper/backend/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// DefaultSystemPrompt steers the model toward short, step-numbered answers
const DefaultSystemPrompt = "You are a helpful cooking assistant. Answer concisely and use numbered steps when describing actions."

const maxAttempts = 3

// Config holds the chat-completions endpoint settings
type Config struct {
	APIKey       string
	BaseURL      string
	Model        string
	SystemPrompt string
	Timeout      time.Duration
	MaxTokens    int
	Temperature  float64
	RatePerSec   float64
	Burst        int
}

// Client answers free-form recipe questions through an OpenAI-compatible
// chat-completions API
type Client struct {
	http        *resty.Client
	cfg         Config
	rateLimiter *rate.Limiter
	logger      *zap.Logger
	backoff     func(attempt int) time.Duration
	debug       bool
}

// Message is one chat transcript entry
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

// NewClient creates a client. Without an API key there is nothing to talk
// to and ErrAssistantUnavailable is returned.
func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, domain.ErrAssistantUnavailable
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.SystemPrompt == "" {
		cfg.SystemPrompt = DefaultSystemPrompt
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 500
	}
	if cfg.RatePerSec <= 0 {
		cfg.RatePerSec = 1
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 5
	}

	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetAuthToken(cfg.APIKey).
		SetHeader("Content-Type", "application/json").
		SetHeader("User-Agent", "RecipeHelper/1.0")

	return &Client{
		http:        httpClient,
		cfg:         cfg,
		rateLimiter: rate.NewLimiter(rate.Limit(cfg.RatePerSec), cfg.Burst),
		logger:      logger.Named("assistant"),
		backoff:     exponentialBackoff,
	}, nil
}

// SetDebug enables or disables request/response logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// Ask sends question with a summary of recipe as context and returns the
// trimmed answer text
func (c *Client) Ask(ctx context.Context, question string, recipe *domain.Recipe) (string, error) {
	body := chatRequest{
		Model:       c.cfg.Model,
		Messages:    BuildMessages(c.cfg.SystemPrompt, question, recipe),
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("%w: %v", domain.ErrRateLimited, err)
		}

		answer, retry, err := c.post(ctx, body, attempt)
		if err == nil {
			return answer, nil
		}
		lastErr = err
		if !retry || attempt == maxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return "", fmt.Errorf("%w: %v", domain.ErrAssistantFailure, ctx.Err())
		case <-time.After(c.backoff(attempt)):
		}
	}

	c.logger.Warn("assistant request failed", zap.Error(lastErr))
	return "", lastErr
}

// post performs one request; retry reports whether the failure is transient
func (c *Client) post(ctx context.Context, body chatRequest, attempt int) (answer string, retry bool, err error) {
	if c.debug {
		c.logger.Debug("sending chat completion",
			zap.Int("attempt", attempt),
			zap.String("model", body.Model),
			zap.Int("messages", len(body.Messages)),
		)
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		Post("/chat/completions")
	if err != nil {
		return "", ctx.Err() == nil, fmt.Errorf("%w: %v", domain.ErrAssistantFailure, err)
	}

	if resp.StatusCode() != http.StatusOK {
		if c.debug {
			c.logger.Debug("chat completion error",
				zap.Int("status", resp.StatusCode()),
				zap.String("body", resp.String()),
			)
		}
		transient := resp.StatusCode() == http.StatusTooManyRequests || resp.StatusCode() >= 500
		return "", transient, fmt.Errorf("%w: status %d", domain.ErrAssistantFailure, resp.StatusCode())
	}

	var result chatResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return "", false, fmt.Errorf("%w: decode response: %v", domain.ErrAssistantFailure, err)
	}
	if len(result.Choices) == 0 {
		return "", false, fmt.Errorf("%w: no choices in response", domain.ErrAssistantFailure)
	}

	text := strings.TrimSpace(result.Choices[0].Message.Content)
	if text == "" {
		return "", false, fmt.Errorf("%w: empty answer", domain.ErrAssistantFailure)
	}
	return text, false, nil
}

// BuildMessages assembles the system prompt, the recipe summary and the
// user's question into a chat transcript
func BuildMessages(systemPrompt, question string, recipe *domain.Recipe) []Message {
	if systemPrompt == "" {
		systemPrompt = DefaultSystemPrompt
	}

	messages := []Message{{Role: "system", Content: systemPrompt}}
	if recipe != nil {
		messages = append(messages, Message{Role: "user", Content: "Recipe context:\n" + RecipeSummary(*recipe)})
	}
	messages = append(messages, Message{Role: "user", Content: "User question: " + question})
	return messages
}

// RecipeSummary renders the compact recipe context sent with each question
func RecipeSummary(recipe domain.Recipe) string {
	return fmt.Sprintf("Title: %s\nTime: %s\nIngredients: %s\nSteps: %s",
		recipe.Title,
		recipe.Time,
		strings.Join(recipe.Ingredients, ", "),
		strings.Join(recipe.Steps, " | "),
	)
}

// exponentialBackoff returns 500ms, 1s, 2s, ... for attempts 1, 2, 3, ...
func exponentialBackoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}
