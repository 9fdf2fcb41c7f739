package llm

import (
	"net/http"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// ClientConfig is shared by the chat, image and speech services.
type ClientConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// NewClient builds an OpenAI client with retries disabled; callers decide
// whether a failed call is worth repeating.
func NewClient(cfg ClientConfig) *openai.Client {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}))
	}
	client := openai.NewClient(opts...)
	return &client
}
