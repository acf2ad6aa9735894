package providers

import (
	"fmt"
	"log/slog"
	"time"

	"agriassist.app/errors"
	"agriassist.app/metrics"
	"agriassist.app/models"
)

// The resilient wrappers pair a primary adapter with its fallback provider.
// A nil primary means the upstream is unconfigured and every call degrades
// immediately, without a network attempt. Upstream failures degrade to the
// fallback; validation errors pass through untouched.

func degrade(service string, err error, logger UpstreamLogger, detail string, duration time.Duration) error {
	if !errors.IsUpstream(err) {
		return err
	}

	slog.Warn("upstream failed, serving fallback",
		"service", service, "error", err)
	metrics.RecordUpstreamFailure(service)
	metrics.RecordFallback(service)
	if logger != nil {
		logger.LogError(service, detail, err, duration)
	}
	return nil
}

func recordSuccess(service string, logger UpstreamLogger, detail string, duration time.Duration) {
	metrics.RecordUpstreamSuccess(service)
	metrics.RecordUpstreamLatency(service, duration.Seconds())
	if logger != nil {
		logger.LogResponse(service, detail, duration)
	}
}

// ResilientWeatherProvider degrades weather lookups to the coordinate-bucket
// fallback.
type ResilientWeatherProvider struct {
	primary  WeatherProvider
	fallback WeatherProvider
	logger   UpstreamLogger
}

func NewResilientWeatherProvider(primary, fallback WeatherProvider, logger UpstreamLogger) *ResilientWeatherProvider {
	return &ResilientWeatherProvider{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (p *ResilientWeatherProvider) CurrentWeather(lat, lon float64) (*models.WeatherReport, error) {
	detail := fmt.Sprintf("lat=%.2f lon=%.2f", lat, lon)

	if p.primary == nil {
		return p.degradeWeather(lat, lon, errors.NewUnconfiguredError("weather"), detail, 0)
	}

	if p.logger != nil {
		p.logger.LogRequest("weather", detail)
	}

	start := time.Now()
	report, err := p.primary.CurrentWeather(lat, lon)
	duration := time.Since(start)

	if err != nil {
		return p.degradeWeather(lat, lon, err, detail, duration)
	}

	recordSuccess("weather", p.logger, detail, duration)
	return report, nil
}

func (p *ResilientWeatherProvider) degradeWeather(lat, lon float64, err error, detail string, duration time.Duration) (*models.WeatherReport, error) {
	if passThrough := degrade("weather", err, p.logger, detail, duration); passThrough != nil {
		return nil, passThrough
	}
	return p.fallback.CurrentWeather(lat, lon)
}

// ResilientNewsProvider degrades headline lookups to the fixed bulletin.
type ResilientNewsProvider struct {
	primary  NewsProvider
	fallback NewsProvider
	logger   UpstreamLogger
}

func NewResilientNewsProvider(primary, fallback NewsProvider, logger UpstreamLogger) *ResilientNewsProvider {
	return &ResilientNewsProvider{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (p *ResilientNewsProvider) TopHeadlines(query NewsQuery) (*models.NewsResult, error) {
	detail := fmt.Sprintf("category=%s country=%s pageSize=%d", query.Category, query.Country, query.PageSize)

	if p.primary == nil {
		return p.degradeNews(query, errors.NewUnconfiguredError("news"), detail, 0)
	}

	if p.logger != nil {
		p.logger.LogRequest("news", detail)
	}

	start := time.Now()
	result, err := p.primary.TopHeadlines(query)
	duration := time.Since(start)

	if err != nil {
		return p.degradeNews(query, err, detail, duration)
	}

	recordSuccess("news", p.logger, detail, duration)
	return result, nil
}

func (p *ResilientNewsProvider) degradeNews(query NewsQuery, err error, detail string, duration time.Duration) (*models.NewsResult, error) {
	if passThrough := degrade("news", err, p.logger, detail, duration); passThrough != nil {
		return nil, passThrough
	}
	return p.fallback.TopHeadlines(query)
}

// ResilientChatProvider degrades completions to canned domain replies.
type ResilientChatProvider struct {
	primary  ChatProvider
	fallback ChatProvider
	logger   UpstreamLogger
}

func NewResilientChatProvider(primary, fallback ChatProvider, logger UpstreamLogger) *ResilientChatProvider {
	return &ResilientChatProvider{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (p *ResilientChatProvider) Complete(turns []models.ChatTurn) (string, error) {
	detail := fmt.Sprintf("turns=%d", len(turns))

	if p.primary == nil {
		return p.degradeChat(turns, errors.NewUnconfiguredError("chat"), detail, 0)
	}

	if p.logger != nil {
		p.logger.LogRequest("chat", detail)
	}

	start := time.Now()
	reply, err := p.primary.Complete(turns)
	duration := time.Since(start)

	if err != nil {
		return p.degradeChat(turns, err, detail, duration)
	}

	recordSuccess("chat", p.logger, detail, duration)
	return reply, nil
}

func (p *ResilientChatProvider) degradeChat(turns []models.ChatTurn, err error, detail string, duration time.Duration) (string, error) {
	if passThrough := degrade("chat", err, p.logger, detail, duration); passThrough != nil {
		return "", passThrough
	}
	return p.fallback.Complete(turns)
}

// ResilientLabelProvider degrades image annotation to the fixed label set.
type ResilientLabelProvider struct {
	primary  LabelProvider
	fallback LabelProvider
	logger   UpstreamLogger
}

func NewResilientLabelProvider(primary, fallback LabelProvider, logger UpstreamLogger) *ResilientLabelProvider {
	return &ResilientLabelProvider{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (p *ResilientLabelProvider) Annotate(image []byte) (*models.LabelAnnotation, error) {
	detail := fmt.Sprintf("imageBytes=%d", len(image))

	if p.primary == nil {
		return p.degradeAnnotate(image, errors.NewUnconfiguredError("vision"), detail, 0)
	}

	if p.logger != nil {
		p.logger.LogRequest("vision", detail)
	}

	start := time.Now()
	annotation, err := p.primary.Annotate(image)
	duration := time.Since(start)

	if err != nil {
		return p.degradeAnnotate(image, err, detail, duration)
	}

	recordSuccess("vision", p.logger, detail, duration)
	return annotation, nil
}

func (p *ResilientLabelProvider) degradeAnnotate(image []byte, err error, detail string, duration time.Duration) (*models.LabelAnnotation, error) {
	if passThrough := degrade("vision", err, p.logger, detail, duration); passThrough != nil {
		return nil, passThrough
	}
	return p.fallback.Annotate(image)
}
