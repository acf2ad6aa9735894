package api

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"agriassist.app/config"
	apperr "agriassist.app/errors"
	"agriassist.app/models"
	"agriassist.app/providers"
	"agriassist.app/service"
)

const maxImageBytes = 8 << 20 // 8MB

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// DebugInfoProvider reports runtime state for the debug endpoint.
type DebugInfoProvider interface {
	DebugInfo() map[string]interface{}
}

// Server represents the HTTP server and API handler
type Server struct {
	router          *gin.Engine
	config          *config.Config
	weatherService  service.WeatherServiceInterface
	newsService     service.NewsServiceInterface
	chatService     service.ChatServiceInterface
	analysisService service.AnalysisServiceInterface
	debugInfo       DebugInfoProvider
}

// ServerOptions carries the dependencies the server needs.
type ServerOptions struct {
	Config          *config.Config
	WeatherService  service.WeatherServiceInterface
	NewsService     service.NewsServiceInterface
	ChatService     service.ChatServiceInterface
	AnalysisService service.AnalysisServiceInterface
	DebugInfo       DebugInfoProvider
}

// NewServer creates and configures a new HTTP server
func NewServer(opts ServerOptions) *Server {
	router := gin.Default()

	server := &Server{
		router:          router,
		config:          opts.Config,
		weatherService:  opts.WeatherService,
		newsService:     opts.NewsService,
		chatService:     opts.ChatService,
		analysisService: opts.AnalysisService,
		debugInfo:       opts.DebugInfo,
	}

	server.setupRoutes()
	return server
}

func (s *Server) setupRoutes() {
	api := s.router.Group("/api")
	{
		api.GET("/weather", s.getWeather)
		api.GET("/news", s.getNews)
		api.POST("/chat", s.postChat)
		api.POST("/crop-analyze", s.postCropAnalyze)
		api.GET("/health", s.health)
		api.GET("/debug", s.debugEndpoint)
	}

	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// Start begins the HTTP server
func (s *Server) Start() error {
	return s.router.Run(fmt.Sprintf(":%d", s.config.Server.Port))
}

// GetRouter returns the router for testing purposes
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

func (s *Server) getWeather(c *gin.Context) {
	latParam := c.Query("lat")
	lonParam := c.Query("lon")
	if latParam == "" || lonParam == "" {
		s.handleError(c, apperr.NewValidationError("lat and lon parameters are required"))
		return
	}

	lat, err := strconv.ParseFloat(latParam, 64)
	if err != nil {
		s.handleError(c, apperr.NewValidationError("lat must be a number"))
		return
	}
	lon, err := strconv.ParseFloat(lonParam, 64)
	if err != nil {
		s.handleError(c, apperr.NewValidationError("lon must be a number"))
		return
	}

	slog.Debug("Getting weather", "lat", lat, "lon", lon)
	report, err := s.weatherService.GetWeather(lat, lon)
	if err != nil {
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

func (s *Server) getNews(c *gin.Context) {
	query := providers.NewsQuery{
		Category: c.Query("category"),
		Country:  c.Query("country"),
	}

	if pageSizeParam := c.Query("pageSize"); pageSizeParam != "" {
		pageSize, err := strconv.Atoi(pageSizeParam)
		if err != nil {
			s.handleError(c, apperr.NewValidationError("pageSize must be an integer"))
			return
		}
		query.PageSize = pageSize
	}

	result, err := s.newsService.GetNews(query)
	if err != nil {
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) postChat(c *gin.Context) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Debug("chat request binding error", "error", err)
		s.handleError(c, apperr.NewValidationError("invalid request format"))
		return
	}

	response, err := s.chatService.Chat(c.ClientIP(), &req)
	if err != nil {
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (s *Server) postCropAnalyze(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		s.handleError(c, apperr.NewValidationError("image file is required"))
		return
	}

	if fileHeader.Size > maxImageBytes {
		s.handleError(c, apperr.NewValidationError("image cannot exceed 8MB"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		s.handleError(c, apperr.NewValidationError("unable to read image file"))
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			slog.Warn("close uploaded file", "error", closeErr)
		}
	}()

	image, err := io.ReadAll(io.LimitReader(file, maxImageBytes+1))
	if err != nil {
		s.handleError(c, apperr.NewValidationError("unable to read image file"))
		return
	}
	if len(image) > maxImageBytes {
		s.handleError(c, apperr.NewValidationError("image cannot exceed 8MB"))
		return
	}

	// Sniff the actual bytes; the declared Content-Type alone is not trusted.
	if !allowedImageTypes[http.DetectContentType(image)] {
		s.handleError(c, apperr.NewValidationError("image must be JPEG, PNG or WebP"))
		return
	}

	result, err := s.analysisService.AnalyzeImage(image)
	if err != nil {
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) debugEndpoint(c *gin.Context) {
	response := gin.H{
		"upstreams": s.config.ConfiguredUpstreams(),
		"cache":     gin.H{"type": s.config.Cache.Type},
		"rateLimit": gin.H{
			"maxRequests":   s.config.RateLimit.MaxRequests,
			"windowMinutes": s.config.RateLimit.WindowMinutes,
		},
	}

	if s.debugInfo != nil {
		response["runtime"] = s.debugInfo.DebugInfo()
	}

	c.JSON(http.StatusOK, response)
}

// handleError maps application errors onto HTTP statuses. Upstream failures
// are normally absorbed by the fallback providers before they get here; the
// 503 mapping is a safety net, not an expected path.
func (s *Server) handleError(c *gin.Context, err error) {
	var appErr *apperr.AppError
	var statusCode int
	var message string

	if errors.As(err, &appErr) {
		switch appErr.Type {
		case apperr.ValidationError:
			statusCode = http.StatusBadRequest
			message = appErr.Message
		case apperr.RateLimitError:
			statusCode = http.StatusTooManyRequests
			message = appErr.Message
		case apperr.UnconfiguredError, apperr.UnauthorizedError, apperr.ThrottledError,
			apperr.TimeoutError, apperr.UnreachableError, apperr.InvalidPayloadError:
			statusCode = http.StatusServiceUnavailable
			message = "External service unavailable"
		case apperr.ConfigurationError:
			statusCode = http.StatusInternalServerError
			message = "Internal server error"
		default:
			statusCode = http.StatusInternalServerError
			message = "Internal server error"
		}
	} else {
		statusCode = http.StatusInternalServerError
		message = "Internal server error"
	}

	if statusCode >= http.StatusInternalServerError {
		slog.Error("request failed", "error", err, "path", c.FullPath())
	}

	c.JSON(statusCode, models.ErrorResponse{Error: message})
}
