package app

import (
	"log"

	"agriassist.app/config"
)

// ConfigDisplayer handles configuration display at startup
type ConfigDisplayer struct{}

// NewConfigDisplayer creates a new configuration displayer
func NewConfigDisplayer() *ConfigDisplayer {
	return &ConfigDisplayer{}
}

// PrintConfig prints the configuration with credentials masked
func (cd *ConfigDisplayer) PrintConfig(cfg *config.Config) {
	log.Println("==== APPLICATION CONFIGURATION ====")

	log.Printf("SERVER:\n")
	log.Printf("  Port: %d\n", cfg.Server.Port)

	log.Printf("\nWEATHER UPSTREAM:\n")
	log.Printf("  API Key: %s\n", cd.maskString(cfg.Weather.APIKey))
	log.Printf("  Base URL: %s\n", cfg.Weather.BaseURL)
	log.Printf("  Cache TTL: %d minutes\n", cfg.Weather.CacheTTLMin)

	log.Printf("\nNEWS UPSTREAM:\n")
	log.Printf("  API Key: %s\n", cd.maskString(cfg.News.APIKey))
	log.Printf("  Base URL: %s\n", cfg.News.BaseURL)
	log.Printf("  Cache TTL: %d minutes\n", cfg.News.CacheTTLMin)
	log.Printf("  Default Country: %s\n", cfg.News.DefaultCountry)

	log.Printf("\nCHAT UPSTREAM:\n")
	log.Printf("  API Key: %s\n", cd.maskString(cfg.Chat.APIKey))
	log.Printf("  Base URL: %s\n", cfg.Chat.BaseURL)
	log.Printf("  Model: %s\n", cfg.Chat.Model)

	log.Printf("\nVISION UPSTREAM:\n")
	log.Printf("  API Key: %s\n", cd.maskString(cfg.Vision.APIKey))
	log.Printf("  Base URL: %s\n", cfg.Vision.BaseURL)

	log.Printf("\nCACHE:\n")
	log.Printf("  Type: %s\n", cfg.Cache.Type)
	log.Printf("  Janitor Interval: %d minutes\n", cfg.Cache.JanitorMin)

	log.Printf("\nRATE LIMIT:\n")
	log.Printf("  Max Requests: %d\n", cfg.RateLimit.MaxRequests)
	log.Printf("  Window: %d minutes\n", cfg.RateLimit.WindowMinutes)
	log.Printf("  Sweep Interval: %d minutes\n", cfg.RateLimit.SweepMinutes)

	log.Println("===================================")
}

// maskString hides a credential while showing whether it is set
func (cd *ConfigDisplayer) maskString(s string) string {
	if s == "" {
		return "(not set - fallback mode)"
	}
	if len(s) <= 4 {
		return "****"
	}
	return s[:2] + "****" + s[len(s)-2:]
}
