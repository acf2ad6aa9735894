package providers

import (
	"time"

	"agriassist.app/models"
)

// WeatherProvider returns normalized current weather for a coordinate pair.
type WeatherProvider interface {
	CurrentWeather(lat, lon float64) (*models.WeatherReport, error)
}

// NewsQuery carries the distinguishing parameters of a headline request;
// the same values form the cache key.
type NewsQuery struct {
	Category string
	Country  string
	PageSize int
}

// NewsProvider returns normalized, relevance-filtered headlines.
type NewsProvider interface {
	TopHeadlines(query NewsQuery) (*models.NewsResult, error)
}

// ChatProvider produces one assistant reply for a prepared conversation
// window. The persona system turn is prepended inside the adapter.
type ChatProvider interface {
	Complete(turns []models.ChatTurn) (string, error)
}

// LabelProvider annotates an image with ranked labels and detected text.
type LabelProvider interface {
	Annotate(image []byte) (*models.LabelAnnotation, error)
}

// UpstreamLogger defines the interface for upstream call logging
type UpstreamLogger interface {
	LogRequest(service, detail string)
	LogResponse(service, detail string, duration time.Duration)
	LogError(service, detail string, err error, duration time.Duration)
}
