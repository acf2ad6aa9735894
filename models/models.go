// Package models defines data structures used throughout the application
package models

import "time"

// Weather condition values every weather response is normalized to,
// regardless of which upstream (or fallback) produced it.
const (
	ConditionSunny  = "sunny"
	ConditionCloudy = "cloudy"
	ConditionRainy  = "rainy"
	ConditionSnowy  = "snowy"
)

// WeatherReport is the provider-agnostic weather shape. The adapter and the
// fallback both produce exactly this, so callers cannot tell which one ran.
type WeatherReport struct {
	Location     string    `json:"location"`
	TemperatureC int       `json:"temperatureC"`
	HumidityPct  int       `json:"humidityPct"`
	WindKph      float64   `json:"windKph"`
	VisibilityKm float64   `json:"visibilityKm"`
	Description  string    `json:"description"`
	Condition    string    `json:"condition"`
	Icon         string    `json:"icon"`
	Timestamp    time.Time `json:"timestamp"`
}

// NewsArticle is a single normalized headline.
type NewsArticle struct {
	Source      string `json:"source"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	ImageURL    string `json:"imageUrl"`
	PublishedAt string `json:"publishedAt"`
	Content     string `json:"content"`
}

// NewsResult is the normalized, relevance-filtered news response.
type NewsResult struct {
	Articles     []NewsArticle `json:"articles"`
	TotalResults int           `json:"totalResults"`
	Timestamp    time.Time     `json:"timestamp"`
}

// Chat roles accepted in a conversation history.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// ChatTurn is one message of a conversation.
type ChatTurn struct {
	Role    string `json:"role" binding:"required,oneof=user assistant system"`
	Content string `json:"content" binding:"required"`
}

// ChatRequest carries the latest user message plus optional prior turns.
type ChatRequest struct {
	Message      string     `json:"message" binding:"required"`
	Conversation []ChatTurn `json:"conversation" binding:"omitempty,dive"`
}

// ChatResponse is what the chat endpoint returns, whether the reply came
// from the upstream model or from the fallback.
type ChatResponse struct {
	Response       string    `json:"response"`
	ConversationID string    `json:"conversationId"`
	Timestamp      time.Time `json:"timestamp"`
}

// Label categories produced by the analysis categorizer.
const (
	CategoryCrop      = "crop"
	CategoryDisease   = "disease"
	CategoryPlantPart = "plant_part"
	CategoryColor     = "color"
	CategoryGeneral   = "general"
	CategoryOther     = "other"
)

// RawLabel is one label as the image upstream reports it, before
// categorization. Score is in [0,1].
type RawLabel struct {
	Description string
	Score       float64
}

// LabelAnnotation is the normalized output of the image-label adapter:
// ranked labels plus any text detected in the image.
type LabelAnnotation struct {
	Labels []RawLabel
	Text   []string
}

// DetectedLabel is a categorized label with a display confidence in [0,100].
type DetectedLabel struct {
	Description string `json:"description"`
	Confidence  int    `json:"confidence"`
	Category    string `json:"category"`
}

// AnalysisResult is the crop-analysis endpoint response.
type AnalysisResult struct {
	Labels       []DetectedLabel `json:"labels"`
	DetectedText []string        `json:"detectedText"`
	Suggestions  []string        `json:"suggestions"`
	Timestamp    time.Time       `json:"timestamp"`
}

// ErrorResponse represents an error message structure for API responses
type ErrorResponse struct {
	Error string `json:"error"`
}
