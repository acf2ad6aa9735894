package providers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"time"

	"agriassist.app/config"
	"agriassist.app/errors"
	"agriassist.app/models"
)

// OpenWeatherMapProvider implements WeatherProvider against the
// OpenWeatherMap current-weather endpoint.
type OpenWeatherMapProvider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

type openWeatherMapResponse struct {
	Name string `json:"name"`
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity float64 `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"` // metres per second
	} `json:"wind"`
	Visibility float64 `json:"visibility"` // metres
	Weather    []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Sys struct {
		Country string `json:"country"`
	} `json:"sys"`
}

func NewOpenWeatherMapProvider(cfg *config.WeatherConfig) *OpenWeatherMapProvider {
	return &OpenWeatherMapProvider{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout(),
		},
	}
}

// CurrentWeather retrieves and normalizes current conditions for a coordinate pair.
func (p *OpenWeatherMapProvider) CurrentWeather(lat, lon float64) (*models.WeatherReport, error) {
	url := fmt.Sprintf("%s/weather?lat=%.4f&lon=%.4f&appid=%s&units=metric",
		p.baseURL, lat, lon, p.apiKey)

	resp, err := p.httpClient.Get(url)
	if err != nil {
		return nil, classifyTransport("weather", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			slog.Warn("close response body", "error", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, classifyStatus("weather", resp.StatusCode)
	}

	var apiResponse openWeatherMapResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		return nil, errors.NewInvalidPayloadError("weather", "body is not valid JSON")
	}

	return p.convertToWeatherReport(&apiResponse)
}

// convertToWeatherReport normalizes upstream units into the internal shape:
// m/s becomes km/h, metres become kilometres, temperature and humidity are
// rounded to integers.
func (p *OpenWeatherMapProvider) convertToWeatherReport(apiResp *openWeatherMapResponse) (*models.WeatherReport, error) {
	if len(apiResp.Weather) == 0 {
		return nil, errors.NewInvalidPayloadError("weather", "missing weather conditions")
	}

	condition := apiResp.Weather[0]

	location := apiResp.Name
	if location == "" {
		location = "Unknown location"
	}
	if apiResp.Sys.Country != "" {
		location = fmt.Sprintf("%s, %s", location, apiResp.Sys.Country)
	}

	return &models.WeatherReport{
		Location:     location,
		TemperatureC: int(math.Round(apiResp.Main.Temp)),
		HumidityPct:  int(math.Round(apiResp.Main.Humidity)),
		WindKph:      roundTo1(apiResp.Wind.Speed * 3.6),
		VisibilityKm: roundTo1(apiResp.Visibility / 1000),
		Description:  condition.Description,
		Condition:    mapCondition(condition.Main),
		Icon:         condition.Icon,
		Timestamp:    time.Now(),
	}, nil
}

// mapCondition collapses OpenWeatherMap's condition groups into the four
// values the rest of the system understands.
func mapCondition(main string) string {
	switch main {
	case "Clear":
		return models.ConditionSunny
	case "Rain", "Drizzle", "Thunderstorm", "Squall":
		return models.ConditionRainy
	case "Snow":
		return models.ConditionSnowy
	default:
		// Clouds, Mist, Haze, Fog, Smoke, Dust and anything new.
		return models.ConditionCloudy
	}
}

func roundTo1(v float64) float64 {
	return math.Round(v*10) / 10
}
