package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"storybook/internal/logging"
	"storybook/internal/observability"
)

// Config is everything the server and the terminal player read at startup.
type Config struct {
	AppEnv   string `env:"APP_ENV" env-default:"development"`
	HTTPAddr string `env:"HTTP_ADDR" env-default:":8080"`

	Logger  logging.Config
	Tracing observability.Config
	OpenAI  OpenAIConfig
	Story   StoryConfig
	Image   ImageConfig
	Speech  SpeechConfig

	CompletionLogPath  string `env:"COMPLETION_LOG_PATH"`
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" env-default:"*"`
}

type OpenAIConfig struct {
	APIKey  string        `env:"OPENAI_API_KEY" env-required:"true"`
	BaseURL string        `env:"OPENAI_BASE_URL"`
	Timeout time.Duration `env:"PROVIDER_TIMEOUT" env-default:"120s"`
}

type StoryConfig struct {
	Model       string  `env:"STORY_MODEL" env-default:"gpt-4o-mini"`
	Temperature float64 `env:"STORY_TEMPERATURE" env-default:"0.8"`
	MaxTokens   int     `env:"STORY_MAX_TOKENS" env-default:"1200"`
}

type ImageConfig struct {
	Enabled        bool   `env:"IMAGE_GENERATION_ENABLED" env-default:"true"`
	Model          string `env:"IMAGE_MODEL" env-default:"dall-e-2"`
	Size           string `env:"IMAGE_SIZE" env-default:"512x512"`
	ResponseFormat string `env:"IMAGE_RESPONSE_FORMAT" env-default:"url"`
}

type SpeechConfig struct {
	Model string  `env:"SPEECH_MODEL" env-default:"tts-1"`
	Speed float64 `env:"SPEECH_SPEED" env-default:"0.85"`
}

// Load reads a .env file if one exists, then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("error loading configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.OpenAI.APIKey) == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}
	switch c.Image.ResponseFormat {
	case "url", "b64_json":
	default:
		return fmt.Errorf("IMAGE_RESPONSE_FORMAT must be url or b64_json, got %q", c.Image.ResponseFormat)
	}
	if c.Story.Temperature < 0 || c.Story.Temperature > 2 {
		return fmt.Errorf("STORY_TEMPERATURE must be between 0 and 2, got %v", c.Story.Temperature)
	}
	if c.Speech.Speed < 0.25 || c.Speech.Speed > 4 {
		return fmt.Errorf("SPEECH_SPEED must be between 0.25 and 4, got %v", c.Speech.Speed)
	}
	return nil
}

// AllowedOrigins splits CORS_ALLOWED_ORIGINS. An empty result or "*" allows any origin.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
