// Package service contains the per-endpoint orchestration: validation,
// rate limiting and delegation to the resilient provider stacks.
package service

import (
	"log/slog"

	"agriassist.app/errors"
	"agriassist.app/models"
	"agriassist.app/providers"
)

// News categories accepted by the news endpoint.
var validNewsCategories = map[string]bool{
	"business":      true,
	"entertainment": true,
	"general":       true,
	"health":        true,
	"science":       true,
	"sports":        true,
	"technology":    true,
}

const (
	minPageSize     = 1
	maxPageSize     = 50
	defaultPageSize = 10
)

// WeatherService validates coordinates and delegates to the provider stack
// (cache proxy inside a resilient wrapper).
type WeatherService struct {
	provider providers.WeatherProvider
}

func NewWeatherService(provider providers.WeatherProvider) *WeatherService {
	return &WeatherService{
		provider: provider,
	}
}

// GetWeather retrieves normalized current weather for a coordinate pair.
func (s *WeatherService) GetWeather(lat, lon float64) (*models.WeatherReport, error) {
	if lat < -90 || lat > 90 {
		return nil, errors.NewValidationError("latitude must be between -90 and 90")
	}
	if lon < -180 || lon > 180 {
		return nil, errors.NewValidationError("longitude must be between -180 and 180")
	}

	report, err := s.provider.CurrentWeather(lat, lon)
	if err != nil {
		slog.Error("weather provider error", "error", err, "lat", lat, "lon", lon)
		return nil, err
	}

	return report, nil
}

// NewsService validates the query and delegates to the provider stack.
type NewsService struct {
	provider       providers.NewsProvider
	defaultCountry string
}

func NewNewsService(provider providers.NewsProvider, defaultCountry string) *NewsService {
	return &NewsService{
		provider:       provider,
		defaultCountry: defaultCountry,
	}
}

// GetNews retrieves filtered headlines. Category must be one of the fixed
// set; country and pageSize fall back to defaults when absent.
func (s *NewsService) GetNews(query providers.NewsQuery) (*models.NewsResult, error) {
	if query.Category == "" {
		query.Category = "general"
	}
	if !validNewsCategories[query.Category] {
		return nil, errors.NewValidationError("invalid news category: " + query.Category)
	}

	if query.Country == "" {
		query.Country = s.defaultCountry
	}

	if query.PageSize == 0 {
		query.PageSize = defaultPageSize
	}
	if query.PageSize < minPageSize {
		query.PageSize = minPageSize
	}
	if query.PageSize > maxPageSize {
		query.PageSize = maxPageSize
	}

	result, err := s.provider.TopHeadlines(query)
	if err != nil {
		slog.Error("news provider error", "error", err, "category", query.Category)
		return nil, err
	}

	return result, nil
}
