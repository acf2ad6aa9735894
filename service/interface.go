package service

import (
	"agriassist.app/models"
	"agriassist.app/providers"
)

// WeatherServiceInterface defines weather retrieval for the API layer
type WeatherServiceInterface interface {
	GetWeather(lat, lon float64) (*models.WeatherReport, error)
}

// NewsServiceInterface defines headline retrieval for the API layer
type NewsServiceInterface interface {
	GetNews(query providers.NewsQuery) (*models.NewsResult, error)
}

// ChatServiceInterface defines the rate-limited chat exchange
type ChatServiceInterface interface {
	Chat(clientID string, req *models.ChatRequest) (*models.ChatResponse, error)
}

// AnalysisServiceInterface defines crop image analysis
type AnalysisServiceInterface interface {
	AnalyzeImage(image []byte) (*models.AnalysisResult, error)
}
