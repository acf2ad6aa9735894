package providers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"agriassist.app/config"
	"agriassist.app/errors"
	"agriassist.app/models"
)

const maxNewsArticles = 10

// relevanceKeywords is the bilingual filter applied to every article.
// A headline survives only if title+description contain at least one term.
var relevanceKeywords = []string{
	"agricultur", "farm", "crop", "harvest", "irrigation", "soil",
	"seed", "fertilizer", "fertiliser", "pesticide", "monsoon",
	"rain", "weather", "drought", "mandi", "rural", "wheat", "rice",
	"sugarcane", "livestock", "dairy", "horticulture",
	"किसान", "खेती", "फसल", "कृषि", "मौसम", "बारिश", "मंडी", "सिंचाई",
}

// NewsAPIProvider implements NewsProvider against the NewsAPI top-headlines
// endpoint.
type NewsAPIProvider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

type newsAPIResponse struct {
	Status       string `json:"status"`
	TotalResults int    `json:"totalResults"`
	Articles     []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		URLToImage  string `json:"urlToImage"`
		PublishedAt string `json:"publishedAt"`
		Content     string `json:"content"`
	} `json:"articles"`
	Message string `json:"message,omitempty"`
}

func NewNewsAPIProvider(cfg *config.NewsConfig) *NewsAPIProvider {
	return &NewsAPIProvider{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout(),
		},
	}
}

// TopHeadlines retrieves headlines, normalizes them, then applies the
// relevance filter and the article cap in that order.
func (p *NewsAPIProvider) TopHeadlines(query NewsQuery) (*models.NewsResult, error) {
	url := fmt.Sprintf("%s/top-headlines?category=%s&country=%s&pageSize=%d&apiKey=%s",
		p.baseURL, query.Category, query.Country, query.PageSize, p.apiKey)

	resp, err := p.httpClient.Get(url)
	if err != nil {
		return nil, classifyTransport("news", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			slog.Warn("close response body", "error", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, classifyStatus("news", resp.StatusCode)
	}

	var apiResponse newsAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		return nil, errors.NewInvalidPayloadError("news", "body is not valid JSON")
	}

	if apiResponse.Status != "ok" {
		return nil, errors.NewInvalidPayloadError("news",
			fmt.Sprintf("unexpected status %q", apiResponse.Status))
	}

	return p.convertToNewsResult(&apiResponse), nil
}

func (p *NewsAPIProvider) convertToNewsResult(apiResp *newsAPIResponse) *models.NewsResult {
	normalized := make([]models.NewsArticle, 0, len(apiResp.Articles))
	for _, a := range apiResp.Articles {
		normalized = append(normalized, models.NewsArticle{
			Source:      a.Source.Name,
			Title:       a.Title,
			Description: a.Description,
			URL:         a.URL,
			ImageURL:    a.URLToImage,
			PublishedAt: a.PublishedAt,
			Content:     a.Content,
		})
	}

	relevant := FilterRelevantArticles(normalized)
	if len(relevant) > maxNewsArticles {
		relevant = relevant[:maxNewsArticles]
	}

	return &models.NewsResult{
		Articles:     relevant,
		TotalResults: len(relevant),
		Timestamp:    time.Now(),
	}
}

// FilterRelevantArticles keeps only articles whose title or description
// mention at least one agriculture/weather/rural term. Matching is
// case-insensitive; relative order is preserved.
func FilterRelevantArticles(articles []models.NewsArticle) []models.NewsArticle {
	relevant := make([]models.NewsArticle, 0, len(articles))
	for _, article := range articles {
		haystack := strings.ToLower(article.Title + " " + article.Description)
		for _, keyword := range relevanceKeywords {
			if strings.Contains(haystack, keyword) {
				relevant = append(relevant, article)
				break
			}
		}
	}
	return relevant
}
