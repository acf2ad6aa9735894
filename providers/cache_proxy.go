package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"agriassist.app/models"
	"agriassist.app/providers/cache"
)

// The cache proxies implement read-through caching around a real adapter.
// They sit inside the resilient wrapper, so an adapter failure propagates
// out of the proxy without a write: fallback content can never enter the
// cache.

// WeatherCacheProxy caches normalized weather keyed by rounded coordinates.
type WeatherCacheProxy struct {
	realProvider WeatherProvider
	cache        cache.GenericCacheInterface
	cacheTTL     time.Duration
}

func NewWeatherCacheProxy(realProvider WeatherProvider, cacheStore cache.GenericCacheInterface, cacheTTL time.Duration) *WeatherCacheProxy {
	return &WeatherCacheProxy{
		realProvider: realProvider,
		cache:        cacheStore,
		cacheTTL:     cacheTTL,
	}
}

func (p *WeatherCacheProxy) CurrentWeather(lat, lon float64) (*models.WeatherReport, error) {
	ctx := context.Background()
	cacheKey := weatherCacheKey(lat, lon)

	if data, found := p.cache.Get(ctx, cacheKey); found {
		var report models.WeatherReport
		if err := json.Unmarshal(data, &report); err == nil {
			slog.Debug("weather cache hit", "key", cacheKey)
			return &report, nil
		}
		// Undecodable entry: drop it and refetch.
		p.cache.Delete(ctx, cacheKey)
	}

	slog.Debug("weather cache miss", "key", cacheKey)

	report, err := p.realProvider.CurrentWeather(lat, lon)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(report); err == nil {
		p.cache.Set(ctx, cacheKey, data, p.cacheTTL)
	}

	return report, nil
}

// weatherCacheKey rounds coordinates to two decimals (~1 km) so nearby
// requests share an entry.
func weatherCacheKey(lat, lon float64) string {
	return fmt.Sprintf("weather:%.2f:%.2f", lat, lon)
}

// NewsCacheProxy caches filtered headline results per query.
type NewsCacheProxy struct {
	realProvider NewsProvider
	cache        cache.GenericCacheInterface
	cacheTTL     time.Duration
}

func NewNewsCacheProxy(realProvider NewsProvider, cacheStore cache.GenericCacheInterface, cacheTTL time.Duration) *NewsCacheProxy {
	return &NewsCacheProxy{
		realProvider: realProvider,
		cache:        cacheStore,
		cacheTTL:     cacheTTL,
	}
}

func (p *NewsCacheProxy) TopHeadlines(query NewsQuery) (*models.NewsResult, error) {
	ctx := context.Background()
	cacheKey := newsCacheKey(query)

	if data, found := p.cache.Get(ctx, cacheKey); found {
		var result models.NewsResult
		if err := json.Unmarshal(data, &result); err == nil {
			slog.Debug("news cache hit", "key", cacheKey)
			return &result, nil
		}
		p.cache.Delete(ctx, cacheKey)
	}

	slog.Debug("news cache miss", "key", cacheKey)

	result, err := p.realProvider.TopHeadlines(query)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(result); err == nil {
		p.cache.Set(ctx, cacheKey, data, p.cacheTTL)
	}

	return result, nil
}

func newsCacheKey(query NewsQuery) string {
	return fmt.Sprintf("news:%s:%s:%d", query.Category, query.Country, query.PageSize)
}
