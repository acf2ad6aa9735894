package providers

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"agriassist.app/config"
	apperrors "agriassist.app/errors"
	"agriassist.app/models"
)

func weatherTestConfig(baseURL string) *config.WeatherConfig {
	return &config.WeatherConfig{
		APIKey:         "test-api-key",
		BaseURL:        baseURL,
		TimeoutSeconds: 5,
	}
}

func TestOpenWeatherMapProvider_CurrentWeather(t *testing.T) {
	t.Run("ValidWeatherResponse", func(t *testing.T) {
		mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Contains(t, r.URL.String(), "/weather")
			assert.Contains(t, r.URL.String(), "lat=28.6000")
			assert.Contains(t, r.URL.String(), "lon=77.2000")
			assert.Contains(t, r.URL.String(), "appid=test-api-key")
			assert.Contains(t, r.URL.String(), "units=metric")

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, err := w.Write([]byte(`{
				"name": "Delhi",
				"sys": {"country": "IN"},
				"main": {"temp": 31.4, "humidity": 58},
				"wind": {"speed": 3.5},
				"visibility": 6000,
				"weather": [{"main": "Clear", "description": "clear sky", "icon": "01d"}]
			}`))
			require.NoError(t, err)
		}))
		defer mockServer.Close()

		provider := NewOpenWeatherMapProvider(weatherTestConfig(mockServer.URL))
		report, err := provider.CurrentWeather(28.6, 77.2)

		require.NoError(t, err)
		require.NotNil(t, report)
		assert.Equal(t, "Delhi, IN", report.Location)
		assert.Equal(t, 31, report.TemperatureC)
		assert.Equal(t, 58, report.HumidityPct)
		assert.Equal(t, 12.6, report.WindKph, "3.5 m/s is 12.6 km/h")
		assert.Equal(t, 6.0, report.VisibilityKm)
		assert.Equal(t, models.ConditionSunny, report.Condition)
		assert.Equal(t, "clear sky", report.Description)
		assert.Equal(t, "01d", report.Icon)
		assert.False(t, report.Timestamp.IsZero())
	})

	t.Run("Unauthorized", func(t *testing.T) {
		mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer mockServer.Close()

		provider := NewOpenWeatherMapProvider(weatherTestConfig(mockServer.URL))
		_, err := provider.CurrentWeather(28.6, 77.2)

		require.Error(t, err)
		assert.Equal(t, apperrors.UnauthorizedError, apperrors.TypeOf(err))
	})

	t.Run("Throttled", func(t *testing.T) {
		mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer mockServer.Close()

		provider := NewOpenWeatherMapProvider(weatherTestConfig(mockServer.URL))
		_, err := provider.CurrentWeather(28.6, 77.2)

		require.Error(t, err)
		assert.Equal(t, apperrors.ThrottledError, apperrors.TypeOf(err))
	})

	t.Run("ServerErrorIsUnreachable", func(t *testing.T) {
		mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer mockServer.Close()

		provider := NewOpenWeatherMapProvider(weatherTestConfig(mockServer.URL))
		_, err := provider.CurrentWeather(28.6, 77.2)

		require.Error(t, err)
		assert.Equal(t, apperrors.UnreachableError, apperrors.TypeOf(err))
	})

	t.Run("Timeout", func(t *testing.T) {
		mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(300 * time.Millisecond)
		}))
		defer mockServer.Close()

		provider := NewOpenWeatherMapProvider(weatherTestConfig(mockServer.URL))
		provider.httpClient.Timeout = 50 * time.Millisecond

		_, err := provider.CurrentWeather(28.6, 77.2)

		require.Error(t, err)
		assert.Equal(t, apperrors.TimeoutError, apperrors.TypeOf(err))
	})

	t.Run("ConnectionRefusedIsUnreachable", func(t *testing.T) {
		cfg := weatherTestConfig("http://127.0.0.1:1")
		provider := NewOpenWeatherMapProvider(cfg)

		_, err := provider.CurrentWeather(28.6, 77.2)

		require.Error(t, err)
		assert.Equal(t, apperrors.UnreachableError, apperrors.TypeOf(err))
	})

	t.Run("MissingConditionsIsInvalidPayload", func(t *testing.T) {
		mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, err := w.Write([]byte(`{"name": "Delhi", "main": {"temp": 31.4}, "weather": []}`))
			require.NoError(t, err)
		}))
		defer mockServer.Close()

		provider := NewOpenWeatherMapProvider(weatherTestConfig(mockServer.URL))
		_, err := provider.CurrentWeather(28.6, 77.2)

		require.Error(t, err)
		assert.Equal(t, apperrors.InvalidPayloadError, apperrors.TypeOf(err))
	})

	t.Run("MalformedBodyIsInvalidPayload", func(t *testing.T) {
		mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, err := w.Write([]byte(`not json`))
			require.NoError(t, err)
		}))
		defer mockServer.Close()

		provider := NewOpenWeatherMapProvider(weatherTestConfig(mockServer.URL))
		_, err := provider.CurrentWeather(28.6, 77.2)

		require.Error(t, err)
		assert.Equal(t, apperrors.InvalidPayloadError, apperrors.TypeOf(err))
	})
}

func TestMapCondition(t *testing.T) {
	assert.Equal(t, models.ConditionSunny, mapCondition("Clear"))
	assert.Equal(t, models.ConditionRainy, mapCondition("Rain"))
	assert.Equal(t, models.ConditionRainy, mapCondition("Drizzle"))
	assert.Equal(t, models.ConditionRainy, mapCondition("Thunderstorm"))
	assert.Equal(t, models.ConditionSnowy, mapCondition("Snow"))
	assert.Equal(t, models.ConditionCloudy, mapCondition("Clouds"))
	assert.Equal(t, models.ConditionCloudy, mapCondition("Haze"))
	assert.Equal(t, models.ConditionCloudy, mapCondition("SomethingNew"))
}

func newsTestConfig(baseURL string) *config.NewsConfig {
	return &config.NewsConfig{
		APIKey:         "test-news-key",
		BaseURL:        baseURL,
		TimeoutSeconds: 5,
	}
}

func TestNewsAPIProvider_TopHeadlines(t *testing.T) {
	t.Run("NormalizesAndFilters", func(t *testing.T) {
		mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Contains(t, r.URL.String(), "category=general")
			assert.Contains(t, r.URL.String(), "country=in")
			assert.Contains(t, r.URL.String(), "apiKey=test-news-key")

			w.WriteHeader(http.StatusOK)
			_, err := w.Write([]byte(`{
				"status": "ok",
				"totalResults": 3,
				"articles": [
					{"source": {"name": "The Hindu"}, "title": "Monsoon arrives early in Kerala", "description": "Rainfall ahead of schedule", "url": "https://example.com/1", "urlToImage": "https://example.com/1.jpg", "publishedAt": "2025-06-01T08:00:00Z", "content": "..."},
					{"source": {"name": "Tech Daily"}, "title": "New smartphone released", "description": "Gadget news", "url": "https://example.com/2", "publishedAt": "2025-06-01T09:00:00Z"},
					{"source": {"name": "Dainik"}, "title": "किसानों के लिए नई योजना", "description": "सरकार की घोषणा", "url": "https://example.com/3", "publishedAt": "2025-06-01T10:00:00Z"}
				]
			}`))
			require.NoError(t, err)
		}))
		defer mockServer.Close()

		provider := NewNewsAPIProvider(newsTestConfig(mockServer.URL))
		result, err := provider.TopHeadlines(NewsQuery{Category: "general", Country: "in", PageSize: 10})

		require.NoError(t, err)
		require.Len(t, result.Articles, 2, "the gadget article must be filtered out")
		assert.Equal(t, "The Hindu", result.Articles[0].Source)
		assert.Equal(t, "Monsoon arrives early in Kerala", result.Articles[0].Title)
		assert.Equal(t, "किसानों के लिए नई योजना", result.Articles[1].Title)
		assert.Equal(t, 2, result.TotalResults)
	})

	t.Run("UpstreamErrorStatusIsInvalidPayload", func(t *testing.T) {
		mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, err := w.Write([]byte(`{"status": "error", "message": "apiKeyInvalid"}`))
			require.NoError(t, err)
		}))
		defer mockServer.Close()

		provider := NewNewsAPIProvider(newsTestConfig(mockServer.URL))
		_, err := provider.TopHeadlines(NewsQuery{Category: "general", Country: "in", PageSize: 10})

		require.Error(t, err)
		assert.Equal(t, apperrors.InvalidPayloadError, apperrors.TypeOf(err))
	})

	t.Run("Unauthorized", func(t *testing.T) {
		mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer mockServer.Close()

		provider := NewNewsAPIProvider(newsTestConfig(mockServer.URL))
		_, err := provider.TopHeadlines(NewsQuery{Category: "general", Country: "in", PageSize: 10})

		require.Error(t, err)
		assert.Equal(t, apperrors.UnauthorizedError, apperrors.TypeOf(err))
	})
}

func TestFilterRelevantArticles(t *testing.T) {
	articles := []models.NewsArticle{
		{Title: "FARM subsidies expanded", Description: "policy news"},
		{Title: "Stock markets rally", Description: "finance"},
		{Title: "Weekend football results", Description: "sports"},
		{Title: "Heavy RAIN expected", Description: "alerts"},
		{Title: "मंडी भाव में तेजी", Description: ""},
	}

	relevant := FilterRelevantArticles(articles)

	require.Len(t, relevant, 3)
	assert.Equal(t, "FARM subsidies expanded", relevant[0].Title, "matching is case-insensitive")
	assert.Equal(t, "Heavy RAIN expected", relevant[1].Title)
	assert.Equal(t, "मंडी भाव में तेजी", relevant[2].Title)
}

func TestFilterRelevantArticlesCapAfterFilter(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		// 12 relevant articles: the cap must apply after filtering.
		body := `{"status":"ok","totalResults":12,"articles":[`
		for i := 0; i < 12; i++ {
			if i > 0 {
				body += ","
			}
			body += `{"source":{"name":"AgWire"},"title":"Crop report","description":"harvest update","url":"https://example.com"}`
		}
		body += `]}`
		_, err := w.Write([]byte(body))
		require.NoError(t, err)
	}))
	defer mockServer.Close()

	provider := NewNewsAPIProvider(newsTestConfig(mockServer.URL))
	result, err := provider.TopHeadlines(NewsQuery{Category: "general", Country: "in", PageSize: 20})

	require.NoError(t, err)
	assert.Len(t, result.Articles, 10)
}

func chatTestConfig(baseURL string) *config.ChatConfig {
	return &config.ChatConfig{
		APIKey:         "test-chat-key",
		BaseURL:        baseURL,
		Model:          "gpt-3.5-turbo",
		TimeoutSeconds: 5,
	}
}

func TestOpenAIChatProvider_Complete(t *testing.T) {
	t.Run("ValidCompletion", func(t *testing.T) {
		mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/chat/completions", r.URL.Path)
			assert.Equal(t, "Bearer test-chat-key", r.Header.Get("Authorization"))

			w.WriteHeader(http.StatusOK)
			_, err := w.Write([]byte(`{"choices": [{"message": {"content": " Water early in the morning. "}}]}`))
			require.NoError(t, err)
		}))
		defer mockServer.Close()

		provider := NewOpenAIChatProvider(chatTestConfig(mockServer.URL))
		reply, err := provider.Complete([]models.ChatTurn{
			{Role: models.RoleUser, Content: "When should I water my crops?"},
		})

		require.NoError(t, err)
		assert.Equal(t, "Water early in the morning.", reply)
	})

	t.Run("SystemPersonaIsPrepended", func(t *testing.T) {
		var receivedBody string
		mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			receivedBody = string(body)

			w.WriteHeader(http.StatusOK)
			_, writeErr := w.Write([]byte(`{"choices": [{"message": {"content": "ok"}}]}`))
			require.NoError(t, writeErr)
		}))
		defer mockServer.Close()

		provider := NewOpenAIChatProvider(chatTestConfig(mockServer.URL))
		_, err := provider.Complete([]models.ChatTurn{
			{Role: models.RoleUser, Content: "hello"},
		})

		require.NoError(t, err)
		assert.Contains(t, receivedBody, `"role":"system"`)
		assert.Contains(t, receivedBody, "AgriAssist")
	})

	t.Run("EmptyChoicesIsInvalidPayload", func(t *testing.T) {
		mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, err := w.Write([]byte(`{"choices": []}`))
			require.NoError(t, err)
		}))
		defer mockServer.Close()

		provider := NewOpenAIChatProvider(chatTestConfig(mockServer.URL))
		_, err := provider.Complete([]models.ChatTurn{
			{Role: models.RoleUser, Content: "hello"},
		})

		require.Error(t, err)
		assert.Equal(t, apperrors.InvalidPayloadError, apperrors.TypeOf(err))
	})

	t.Run("Throttled", func(t *testing.T) {
		mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer mockServer.Close()

		provider := NewOpenAIChatProvider(chatTestConfig(mockServer.URL))
		_, err := provider.Complete([]models.ChatTurn{
			{Role: models.RoleUser, Content: "hello"},
		})

		require.Error(t, err)
		assert.Equal(t, apperrors.ThrottledError, apperrors.TypeOf(err))
	})

	t.Run("EmptyConversationIsValidationError", func(t *testing.T) {
		provider := NewOpenAIChatProvider(chatTestConfig("http://localhost"))
		_, err := provider.Complete(nil)

		require.Error(t, err)
		assert.Equal(t, apperrors.ValidationError, apperrors.TypeOf(err))
	})
}

func visionTestConfig(baseURL string) *config.VisionConfig {
	return &config.VisionConfig{
		APIKey:         "test-vision-key",
		BaseURL:        baseURL,
		TimeoutSeconds: 5,
	}
}

func TestGoogleVisionProvider_Annotate(t *testing.T) {
	t.Run("ValidAnnotation", func(t *testing.T) {
		mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/images:annotate", r.URL.Path)
			assert.Equal(t, "test-vision-key", r.URL.Query().Get("key"))

			w.WriteHeader(http.StatusOK)
			_, err := w.Write([]byte(`{
				"responses": [{
					"labelAnnotations": [
						{"description": "Plant", "score": 0.97},
						{"description": "Leaf blight", "score": 0.72}
					],
					"textAnnotations": [
						{"description": "Bayer CropScience\nFungicide"},
						{"description": "Bayer"},
						{"description": "CropScience"},
						{"description": "Fungicide"}
					]
				}]
			}`))
			require.NoError(t, err)
		}))
		defer mockServer.Close()

		provider := NewGoogleVisionProvider(visionTestConfig(mockServer.URL))
		annotation, err := provider.Annotate([]byte("fake image bytes"))

		require.NoError(t, err)
		require.Len(t, annotation.Labels, 2)
		assert.Equal(t, "Plant", annotation.Labels[0].Description)
		assert.InDelta(t, 0.97, annotation.Labels[0].Score, 0.001)
		assert.Equal(t, []string{"Bayer", "CropScience", "Fungicide"}, annotation.Text)
	})

	t.Run("AnnotationErrorIsInvalidPayload", func(t *testing.T) {
		mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, err := w.Write([]byte(`{"responses": [{"error": {"message": "image too large"}}]}`))
			require.NoError(t, err)
		}))
		defer mockServer.Close()

		provider := NewGoogleVisionProvider(visionTestConfig(mockServer.URL))
		_, err := provider.Annotate([]byte("fake image bytes"))

		require.Error(t, err)
		assert.Equal(t, apperrors.InvalidPayloadError, apperrors.TypeOf(err))
	})

	t.Run("EmptyImageIsValidationError", func(t *testing.T) {
		provider := NewGoogleVisionProvider(visionTestConfig("http://localhost"))
		_, err := provider.Annotate(nil)

		require.Error(t, err)
		assert.Equal(t, apperrors.ValidationError, apperrors.TypeOf(err))
	})
}
