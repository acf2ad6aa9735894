package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"agriassist.app/errors"
)

// Config represents the application configuration structure
type Config struct {
	Server    ServerConfig    `split_words:"true"`
	Weather   WeatherConfig   `split_words:"true"`
	News      NewsConfig      `split_words:"true"`
	Chat      ChatConfig      `split_words:"true"`
	Vision    VisionConfig    `split_words:"true"`
	Cache     CacheConfig     `split_words:"true"`
	RateLimit RateLimitConfig `split_words:"true"`
	Logging   LoggingConfig   `split_words:"true"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port int `envconfig:"SERVER_PORT" default:"8080"`
}

// WeatherConfig contains settings for the weather upstream. An empty APIKey
// selects the fallback path for this upstream only.
type WeatherConfig struct {
	APIKey         string `envconfig:"OPENWEATHER_API_KEY"`
	BaseURL        string `envconfig:"OPENWEATHER_BASE_URL" default:"https://api.openweathermap.org/data/2.5"`
	TimeoutSeconds int    `envconfig:"WEATHER_TIMEOUT_SECONDS" default:"10"`
	CacheTTLMin    int    `envconfig:"WEATHER_CACHE_TTL_MINUTES" default:"10"`
}

// NewsConfig contains settings for the news upstream
type NewsConfig struct {
	APIKey         string `envconfig:"NEWS_API_KEY"`
	BaseURL        string `envconfig:"NEWS_API_BASE_URL" default:"https://newsapi.org/v2"`
	TimeoutSeconds int    `envconfig:"NEWS_TIMEOUT_SECONDS" default:"10"`
	CacheTTLMin    int    `envconfig:"NEWS_CACHE_TTL_MINUTES" default:"30"`
	DefaultCountry string `envconfig:"NEWS_DEFAULT_COUNTRY" default:"in"`
}

// ChatConfig contains settings for the chat-completion upstream
type ChatConfig struct {
	APIKey         string `envconfig:"OPENAI_API_KEY"`
	BaseURL        string `envconfig:"OPENAI_BASE_URL" default:"https://api.openai.com/v1"`
	Model          string `envconfig:"OPENAI_MODEL" default:"gpt-3.5-turbo"`
	TimeoutSeconds int    `envconfig:"CHAT_TIMEOUT_SECONDS" default:"30"`
}

// VisionConfig contains settings for the image-label upstream
type VisionConfig struct {
	APIKey         string `envconfig:"VISION_API_KEY"`
	BaseURL        string `envconfig:"VISION_BASE_URL" default:"https://vision.googleapis.com/v1"`
	TimeoutSeconds int    `envconfig:"VISION_TIMEOUT_SECONDS" default:"20"`
}

// CacheConfig selects and configures the response cache backend
type CacheConfig struct {
	Type          string `envconfig:"CACHE_TYPE" default:"memory"`
	JanitorMin    int    `envconfig:"CACHE_JANITOR_MINUTES" default:"5"`
	RedisAddr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`
}

// RateLimitConfig configures the per-client fixed window for the chat endpoint
type RateLimitConfig struct {
	MaxRequests   int `envconfig:"RATE_LIMIT_MAX_REQUESTS" default:"10"`
	WindowMinutes int `envconfig:"RATE_LIMIT_WINDOW_MINUTES" default:"60"`
	SweepMinutes  int `envconfig:"RATE_LIMIT_SWEEP_MINUTES" default:"10"`
}

// LoggingConfig configures the optional upstream call log
type LoggingConfig struct {
	EnableUpstreamLog bool   `envconfig:"ENABLE_UPSTREAM_LOG" default:"false"`
	UpstreamLogPath   string `envconfig:"UPSTREAM_LOG_PATH" default:"logs/upstream.log"`
}

// WeatherTimeout returns the weather upstream timeout as a duration
func (w WeatherConfig) Timeout() time.Duration {
	return time.Duration(w.TimeoutSeconds) * time.Second
}

// CacheTTL returns the weather cache TTL as a duration
func (w WeatherConfig) CacheTTL() time.Duration {
	return time.Duration(w.CacheTTLMin) * time.Minute
}

func (n NewsConfig) Timeout() time.Duration {
	return time.Duration(n.TimeoutSeconds) * time.Second
}

func (n NewsConfig) CacheTTL() time.Duration {
	return time.Duration(n.CacheTTLMin) * time.Minute
}

func (c ChatConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (v VisionConfig) Timeout() time.Duration {
	return time.Duration(v.TimeoutSeconds) * time.Second
}

// Window returns the rate-limit window length
func (r RateLimitConfig) Window() time.Duration {
	return time.Duration(r.WindowMinutes) * time.Minute
}

// SweepInterval returns how often expired rate-limit records are removed
func (r RateLimitConfig) SweepInterval() time.Duration {
	return time.Duration(r.SweepMinutes) * time.Minute
}

// JanitorInterval returns how often expired memory-cache entries are removed
func (c CacheConfig) JanitorInterval() time.Duration {
	return time.Duration(c.JanitorMin) * time.Minute
}

// LoadConfig loads and validates application configuration from environment variables
func LoadConfig() (*Config, error) {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return nil, errors.NewConfigurationError("error processing config", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if err := c.Weather.Validate(); err != nil {
		return err
	}
	if err := c.News.Validate(); err != nil {
		return err
	}
	if err := c.Chat.Validate(); err != nil {
		return err
	}
	if err := c.Vision.Validate(); err != nil {
		return err
	}
	if err := c.Cache.Validate(); err != nil {
		return err
	}
	if err := c.RateLimit.Validate(); err != nil {
		return err
	}
	return nil
}

// Validate checks server configuration
func (s *ServerConfig) Validate() error {
	if s.Port < 1 || s.Port > 65535 {
		return errors.NewConfigurationError("SERVER_PORT must be between 1 and 65535", nil)
	}
	return nil
}

func validateBaseURL(name, url string) error {
	if url == "" {
		return errors.NewConfigurationError(name+" cannot be empty", nil)
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return errors.NewConfigurationError(name+" must start with http:// or https://", nil)
	}
	return nil
}

// Validate checks weather upstream configuration. The API key is optional:
// its absence selects the fallback path rather than failing startup.
func (w *WeatherConfig) Validate() error {
	if err := validateBaseURL("OPENWEATHER_BASE_URL", w.BaseURL); err != nil {
		return err
	}
	if w.TimeoutSeconds < 1 {
		return errors.NewConfigurationError("WEATHER_TIMEOUT_SECONDS must be at least 1", nil)
	}
	if w.CacheTTLMin < 1 {
		return errors.NewConfigurationError("WEATHER_CACHE_TTL_MINUTES must be at least 1", nil)
	}
	return nil
}

// Validate checks news upstream configuration
func (n *NewsConfig) Validate() error {
	if err := validateBaseURL("NEWS_API_BASE_URL", n.BaseURL); err != nil {
		return err
	}
	if n.TimeoutSeconds < 1 {
		return errors.NewConfigurationError("NEWS_TIMEOUT_SECONDS must be at least 1", nil)
	}
	if n.CacheTTLMin < 1 {
		return errors.NewConfigurationError("NEWS_CACHE_TTL_MINUTES must be at least 1", nil)
	}
	if len(n.DefaultCountry) != 2 {
		return errors.NewConfigurationError("NEWS_DEFAULT_COUNTRY must be a two-letter country code", nil)
	}
	return nil
}

// Validate checks chat upstream configuration
func (c *ChatConfig) Validate() error {
	if err := validateBaseURL("OPENAI_BASE_URL", c.BaseURL); err != nil {
		return err
	}
	if c.Model == "" {
		return errors.NewConfigurationError("OPENAI_MODEL cannot be empty", nil)
	}
	if c.TimeoutSeconds < 1 {
		return errors.NewConfigurationError("CHAT_TIMEOUT_SECONDS must be at least 1", nil)
	}
	return nil
}

// Validate checks vision upstream configuration
func (v *VisionConfig) Validate() error {
	if err := validateBaseURL("VISION_BASE_URL", v.BaseURL); err != nil {
		return err
	}
	if v.TimeoutSeconds < 1 {
		return errors.NewConfigurationError("VISION_TIMEOUT_SECONDS must be at least 1", nil)
	}
	return nil
}

// Validate checks cache configuration
func (c *CacheConfig) Validate() error {
	if c.Type != "memory" && c.Type != "redis" {
		return errors.NewConfigurationError("CACHE_TYPE must be either 'memory' or 'redis'", nil)
	}
	if c.JanitorMin < 1 {
		return errors.NewConfigurationError("CACHE_JANITOR_MINUTES must be at least 1", nil)
	}
	if c.Type == "redis" && c.RedisAddr == "" {
		return errors.NewConfigurationError("REDIS_ADDR cannot be empty when CACHE_TYPE is redis", nil)
	}
	return nil
}

// Validate checks rate limiter configuration
func (r *RateLimitConfig) Validate() error {
	if r.MaxRequests < 1 {
		return errors.NewConfigurationError("RATE_LIMIT_MAX_REQUESTS must be at least 1", nil)
	}
	if r.WindowMinutes < 1 {
		return errors.NewConfigurationError("RATE_LIMIT_WINDOW_MINUTES must be at least 1", nil)
	}
	if r.SweepMinutes < 1 {
		return errors.NewConfigurationError("RATE_LIMIT_SWEEP_MINUTES must be at least 1", nil)
	}
	return nil
}

// ConfiguredUpstreams returns which of the four upstreams have credentials,
// for the debug endpoint and startup logging.
func (c *Config) ConfiguredUpstreams() map[string]bool {
	return map[string]bool{
		"weather": c.Weather.APIKey != "",
		"news":    c.News.APIKey != "",
		"chat":    c.Chat.APIKey != "",
		"vision":  c.Vision.APIKey != "",
	}
}

// String implements a redacted representation to keep keys out of logs.
func (c *Config) String() string {
	return fmt.Sprintf("Config{Server:%d Cache:%s RateLimit:%d/%dm}",
		c.Server.Port, c.Cache.Type, c.RateLimit.MaxRequests, c.RateLimit.WindowMinutes)
}
