package app

import (
	"fmt"
	"log/slog"
	"time"

	"agriassist.app/analysis"
	"agriassist.app/api"
	"agriassist.app/config"
	"agriassist.app/providers"
	"agriassist.app/providers/cache"
	"agriassist.app/ratelimit"
	"agriassist.app/scheduler"
	"agriassist.app/service"
)

// Application is the composition root. It owns the shared mutable state
// (cache, rate limiter) and the lifecycle of the background maintenance
// jobs, and injects everything into the services and the server.
type Application struct {
	config      *config.Config
	server      *api.Server
	scheduler   *scheduler.Scheduler
	memoryCache *cache.MemoryCache
	limiter     *ratelimit.FixedWindowLimiter
	cacheStore  *providers.InstrumentedCache
}

// NewApplication creates and initializes a new application instance
func NewApplication() (*Application, error) {
	app := &Application{}

	if err := app.loadConfiguration(); err != nil {
		return nil, err
	}

	if err := app.initializeServices(); err != nil {
		return nil, err
	}

	return app, nil
}

func (app *Application) loadConfiguration() error {
	slog.Info("Loading configuration...")

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		return fmt.Errorf("load application configuration: %w", err)
	}

	app.config = cfg
	slog.Info("Configuration loaded successfully", "upstreams", cfg.ConfiguredUpstreams())
	return nil
}

func (app *Application) initializeServices() error {
	slog.Info("Initializing services...")

	if err := app.initializeCache(); err != nil {
		return err
	}

	app.limiter = ratelimit.NewFixedWindowLimiter(
		app.config.RateLimit.MaxRequests,
		app.config.RateLimit.Window(),
	)

	upstreamLogger, err := app.createUpstreamLogger()
	if err != nil {
		return err
	}

	weatherProvider := app.createWeatherProvider(upstreamLogger)
	newsProvider := app.createNewsProvider(upstreamLogger)
	chatProvider := app.createChatProvider(upstreamLogger)
	labelProvider := app.createLabelProvider(upstreamLogger)

	weatherService := service.NewWeatherService(weatherProvider)
	newsService := service.NewNewsService(newsProvider, app.config.News.DefaultCountry)
	chatService := service.NewChatService(chatProvider, app.limiter)
	analysisService := service.NewAnalysisService(labelProvider, analysis.NewCategorizer())

	app.server = api.NewServer(api.ServerOptions{
		Config:          app.config,
		WeatherService:  weatherService,
		NewsService:     newsService,
		ChatService:     chatService,
		AnalysisService: analysisService,
		DebugInfo:       app,
	})

	app.scheduler = scheduler.NewScheduler()
	app.scheduler.AddJob("ratelimit-sweep", app.config.RateLimit.SweepInterval(), app.limiter.Sweep)
	if app.memoryCache != nil {
		app.scheduler.AddJob("cache-janitor", app.config.Cache.JanitorInterval(), app.memoryCache.RemoveExpiredEntries)
	}

	slog.Info("Services initialized successfully")
	return nil
}

func (app *Application) initializeCache() error {
	var backend cache.GenericCacheInterface

	switch app.config.Cache.Type {
	case "redis":
		redisCache, err := cache.NewRedisCache(&cache.RedisCacheConfig{
			Addr:         app.config.Cache.RedisAddr,
			Password:     app.config.Cache.RedisPassword,
			DB:           app.config.Cache.RedisDB,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		})
		if err != nil {
			return fmt.Errorf("connect redis cache: %w", err)
		}
		backend = redisCache
	default:
		app.memoryCache = cache.NewMemoryCache()
		backend = app.memoryCache
	}

	app.cacheStore = providers.NewInstrumentedCache(backend, app.config.Cache.Type)
	return nil
}

func (app *Application) createUpstreamLogger() (providers.UpstreamLogger, error) {
	if !app.config.Logging.EnableUpstreamLog {
		return nil, nil
	}

	logger, err := providers.NewFileLogger(app.config.Logging.UpstreamLogPath)
	if err != nil {
		return nil, fmt.Errorf("create upstream logger: %w", err)
	}
	return logger, nil
}

// createWeatherProvider assembles fallback(cache(adapter)). A missing API
// key leaves the primary nil so requests degrade without a network attempt,
// and without consulting the cache.
func (app *Application) createWeatherProvider(logger providers.UpstreamLogger) providers.WeatherProvider {
	var primary providers.WeatherProvider
	if app.config.Weather.APIKey != "" {
		adapter := providers.NewOpenWeatherMapProvider(&app.config.Weather)
		primary = providers.NewWeatherCacheProxy(adapter, app.cacheStore, app.config.Weather.CacheTTL())
	}

	return providers.NewResilientWeatherProvider(primary, providers.NewWeatherFallbackProvider(), logger)
}

func (app *Application) createNewsProvider(logger providers.UpstreamLogger) providers.NewsProvider {
	var primary providers.NewsProvider
	if app.config.News.APIKey != "" {
		adapter := providers.NewNewsAPIProvider(&app.config.News)
		primary = providers.NewNewsCacheProxy(adapter, app.cacheStore, app.config.News.CacheTTL())
	}

	return providers.NewResilientNewsProvider(primary, providers.NewNewsFallbackProvider(), logger)
}

func (app *Application) createChatProvider(logger providers.UpstreamLogger) providers.ChatProvider {
	var primary providers.ChatProvider
	if app.config.Chat.APIKey != "" {
		primary = providers.NewOpenAIChatProvider(&app.config.Chat)
	}

	return providers.NewResilientChatProvider(primary, providers.NewChatFallbackProvider(), logger)
}

func (app *Application) createLabelProvider(logger providers.UpstreamLogger) providers.LabelProvider {
	var primary providers.LabelProvider
	if app.config.Vision.APIKey != "" {
		primary = providers.NewGoogleVisionProvider(&app.config.Vision)
	}

	return providers.NewResilientLabelProvider(primary, providers.NewVisionFallbackProvider(), logger)
}

// DebugInfo implements api.DebugInfoProvider.
func (app *Application) DebugInfo() map[string]interface{} {
	info := map[string]interface{}{
		"trackedClients": app.limiter.Len(),
		"cacheStats":     app.cacheStore.GetMetrics().GetStats(),
	}
	if app.memoryCache != nil {
		info["cacheEntries"] = app.memoryCache.Len()
	}
	return info
}

// Config returns the loaded configuration
func (app *Application) Config() *config.Config {
	return app.config
}

// Server returns the HTTP server, for tests.
func (app *Application) Server() *api.Server {
	return app.server
}

// Start starts the maintenance jobs and the HTTP server. Blocks until the
// server stops.
func (app *Application) Start() error {
	app.scheduler.Start()

	slog.Info("Starting HTTP server", "port", app.config.Server.Port)
	return app.server.Start()
}

// Shutdown stops the background jobs.
func (app *Application) Shutdown() error {
	slog.Info("Shutting down...")
	app.scheduler.Stop()
	return nil
}
