package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"pdfqa/internal/models"
)

const (
	defaultZAIBaseURL = "https://open.bigmodel.cn/api/paas/v4/"
	defaultZAIModel   = "glm-4.5v"
)

// ZAIClient calls the Z.AI chat completions API directly. It is used when the
// vision model is not reachable through an OpenAI-compatible SDK.
type ZAIClient struct {
	apiKey     string
	baseURL    string
	model      string
	timeout    time.Duration
	maxRetries int
	retryDelay time.Duration
	httpClient *http.Client
	log        zerolog.Logger
}

func NewZAIClient(apiKey, baseURL, model string, timeout time.Duration, log zerolog.Logger) *ZAIClient {
	if baseURL == "" {
		baseURL = defaultZAIBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	if model == "" {
		model = defaultZAIModel
	}

	return &ZAIClient{
		apiKey:     apiKey,
		baseURL:    baseURL,
		model:      model,
		timeout:    timeout,
		maxRetries: 2,
		retryDelay: 2 * time.Second,
		httpClient: &http.Client{},
		log:        log.With().Str("component", "zai").Str("model", model).Logger(),
	}
}

// contentPart is a part of a message (text or image).
type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatMessage struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type thinkingConfig struct {
	Type string `json:"type"`
}

type zaiRequest struct {
	Model       string         `json:"model"`
	Messages    []chatMessage  `json:"messages"`
	Thinking    thinkingConfig `json:"thinking"`
	Stream      bool           `json:"stream"`
	Temperature float64        `json:"temperature"`
	TopP        float64        `json:"top_p"`
	MaxTokens   int            `json:"max_tokens"`
}

type zaiChoice struct {
	Index   int `json:"index"`
	Message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"message"`
	FinishReason string `json:"finish_reason"`
}

type zaiResponse struct {
	ID      string      `json:"id"`
	Model   string      `json:"model"`
	Choices []zaiChoice `json:"choices"`
	Usage   struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

func (c *ZAIClient) Generate(ctx context.Context, prompt string) (string, error) {
	return c.send(ctx, []contentPart{{Type: "text", Text: prompt}})
}

// GenerateWithImage places the image before the text prompt, which is the
// order the Z.AI vision models expect.
func (c *ZAIClient) GenerateWithImage(ctx context.Context, prompt string, image models.PageImage) (string, error) {
	return c.send(ctx, []contentPart{
		{Type: "image_url", ImageURL: &imageURL{URL: DataURI(image)}},
		{Type: "text", Text: prompt},
	})
}

func (c *ZAIClient) send(ctx context.Context, content []contentPart) (string, error) {
	ctx, cancel := withTimeout(ctx, c.timeout)
	defer cancel()

	reqBody, err := json.Marshal(zaiRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: content}},
		Thinking:    thinkingConfig{Type: "disabled"},
		Temperature: 0.2,
		TopP:        0.6,
		MaxTokens:   16384,
	})
	if err != nil {
		return "", fmt.Errorf("marshal zai request: %w", err)
	}
	c.log.Debug().Int("payload_kb", len(reqBody)/1024).Int("parts", len(content)).Msg("zai request")

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			c.log.Warn().Err(lastErr).Int("attempt", attempt+1).Msg("retrying zai call")
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(time.Duration(attempt) * c.retryDelay):
			}
		}

		result, retry, err := c.attempt(ctx, reqBody)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if !retry {
			return "", err
		}
	}

	return "", fmt.Errorf("zai api failed after %d attempts: %w", c.maxRetries+1, lastErr)
}

// attempt performs one HTTP round trip. The bool result reports whether the
// failure is worth retrying.
func (c *ZAIClient) attempt(ctx context.Context, reqBody []byte) (string, bool, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"chat/completions", bytes.NewReader(reqBody))
	if err != nil {
		return "", false, fmt.Errorf("create http request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept-Language", "en-US,en")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", ctx.Err() == nil, fmt.Errorf("execute zai request: %w", err)
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return "", true, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("zai api error: status=%d, body=%s", resp.StatusCode, string(body))
		// 4xx responses will not improve on retry.
		return "", resp.StatusCode >= 500, err
	}

	var out zaiResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", true, fmt.Errorf("unmarshal zai response: %w", err)
	}
	if len(out.Choices) == 0 || out.Choices[0].Message.Content == "" {
		return "", true, ErrEmptyResponse
	}

	c.log.Debug().Int("total_tokens", out.Usage.TotalTokens).Msg("zai response")
	return out.Choices[0].Message.Content, false, nil
}
