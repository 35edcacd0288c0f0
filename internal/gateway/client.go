// Package gateway talks to the hosted chat-completion API (OpenRouter by
// default) and decodes every response into a tagged Result.
package gateway

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/tidwall/gjson"

	"nova/internal/models"
)

const (
	DefaultBaseURL   = "https://openrouter.ai/api/v1"
	DefaultMaxTokens = 1000
	DefaultTitle     = "Nova CLI"
	DefaultReferer   = "https://github.com/nova-chat/nova"
)

const RewritePrompt = `You rewrite drafts. Rephrase the user's message so it is clear, well structured and grammatically correct. Keep the meaning, the language and the point of view. Reply with the rewritten text only, without quotes or commentary.`

type Config struct {
	APIKey    string
	BaseURL   string
	Referer   string
	Title     string
	MaxTokens int64

	// Timeout bounds a single call. Zero leaves the call bounded only by ctx.
	Timeout    time.Duration
	HTTPClient *http.Client
}

type Client struct {
	api openai.Client
	cfg Config
}

func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if cfg.Title == "" {
		cfg.Title = DefaultTitle
	}
	if cfg.Referer == "" {
		cfg.Referer = DefaultReferer
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(cfg.BaseURL),
		option.WithHeader("HTTP-Referer", cfg.Referer),
		option.WithHeader("X-Title", cfg.Title),
		option.WithMaxRetries(0),
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}

	return &Client{api: openai.NewClient(opts...), cfg: cfg}
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool {
	return strings.TrimSpace(c.cfg.APIKey) != ""
}

// Complete sends msgs to model in a single attempt. It never returns an
// error: every failure is folded into the Result.
func (c *Client) Complete(ctx context.Context, model string, msgs []models.Message) Result {
	if !c.Configured() {
		log.Printf("gateway: no API key configured, skipping request")
		return Result{Kind: KindMissingKey}
	}

	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	var httpResp *http.Response
	resp, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:     model,
		Messages:  toParams(msgs),
		MaxTokens: openai.Int(c.cfg.MaxTokens),
	}, option.WithResponseInto(&httpResp))
	if err != nil {
		res := classifyError(ctx, err, httpResp)
		log.Printf("gateway: %s (model=%s)", res.Error(), model)
		return res
	}

	if msg := providerMessage(resp.RawJSON(), "error.message"); msg != "" {
		log.Printf("gateway: provider error in 2xx body: %s (model=%s)", msg, model)
		return Result{Kind: KindProvider, ProviderMessage: msg, StatusCode: http.StatusOK}
	}

	if len(resp.Choices) == 0 {
		log.Printf("gateway: empty choices (model=%s)", model)
		return Result{Kind: KindMalformed, StatusCode: http.StatusOK, Err: errors.New("empty response from model")}
	}

	// The decoded struct reports "" for both a missing message and a null
	// content, so the raw body decides.
	content := gjson.Get(resp.RawJSON(), "choices.0.message.content")
	if content.Type != gjson.String {
		log.Printf("gateway: choices[0] has no text content (model=%s)", model)
		return Result{Kind: KindMalformed, StatusCode: http.StatusOK, Err: errors.New("no message content in response")}
	}

	return Result{
		Kind:       KindOK,
		Content:    content.Str,
		StatusCode: http.StatusOK,
		Usage: Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
		},
	}
}

// Rewrite rephrases draft with a dedicated prompt. The conversation is not
// involved.
func (c *Client) Rewrite(ctx context.Context, model, draft string) Result {
	return c.Complete(ctx, model, []models.Message{
		models.SystemMessage(RewritePrompt),
		models.UserMessage(draft),
	})
}

func toParams(msgs []models.Message) []openai.ChatCompletionMessageParamUnion {
	params := make([]openai.ChatCompletionMessageParamUnion, 0, len(msgs))
	for _, msg := range msgs {
		switch msg.Role {
		case models.RoleSystem:
			params = append(params, openai.SystemMessage(msg.Content))
		case models.RoleAssistant:
			params = append(params, openai.AssistantMessage(msg.Content))
		default:
			params = append(params, openai.UserMessage(msg.Content))
		}
	}
	return params
}

// classifyError maps a failed call onto a Result. httpResp is whatever
// response was received before the failure, nil on a connection error.
func classifyError(ctx context.Context, err error, httpResp *http.Response) Result {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		msg := apiErr.Message
		if msg == "" {
			msg = providerMessage(apiErr.RawJSON(), "error.message", "message")
		}
		// openai-go restores the body of a >= 400 response, which covers
		// gateways that put "message" at the top level.
		if msg == "" && apiErr.Response != nil && apiErr.Response.Body != nil {
			if body, readErr := io.ReadAll(apiErr.Response.Body); readErr == nil {
				msg = providerMessage(string(body), "error.message", "message")
			}
		}
		if msg != "" {
			return Result{Kind: KindProvider, ProviderMessage: msg, StatusCode: apiErr.StatusCode, Err: err}
		}
		return Result{Kind: KindTransport, StatusCode: apiErr.StatusCode, Err: err}
	}

	// A 2xx that failed to decode is a bad payload, unless the body read
	// itself was cut short by the deadline.
	if httpResp != nil && httpResp.StatusCode >= 200 && httpResp.StatusCode < 300 && ctx.Err() == nil {
		return Result{Kind: KindMalformed, StatusCode: httpResp.StatusCode, Err: err}
	}

	return Result{Kind: KindTransport, Err: err}
}

// providerMessage returns the first non-empty string found at paths.
func providerMessage(raw string, paths ...string) string {
	if raw == "" || !gjson.Valid(raw) {
		return ""
	}
	for _, path := range paths {
		if v := gjson.Get(raw, path); v.Type == gjson.String && strings.TrimSpace(v.Str) != "" {
			return v.Str
		}
	}
	return ""
}
