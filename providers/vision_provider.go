package providers

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"agriassist.app/config"
	"agriassist.app/errors"
	"agriassist.app/models"
)

const (
	maxLabelResults = 20
	maxTextResults  = 5
)

// GoogleVisionProvider implements LabelProvider against the Cloud Vision
// images:annotate REST endpoint.
type GoogleVisionProvider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

type visionAnnotateRequest struct {
	Requests []visionRequestEntry `json:"requests"`
}

type visionRequestEntry struct {
	Image    visionImage     `json:"image"`
	Features []visionFeature `json:"features"`
}

type visionImage struct {
	Content string `json:"content"`
}

type visionFeature struct {
	Type       string `json:"type"`
	MaxResults int    `json:"maxResults"`
}

type visionTextAnnotation struct {
	Description string `json:"description"`
}

type visionAnnotateResponse struct {
	Responses []struct {
		LabelAnnotations []struct {
			Description string  `json:"description"`
			Score       float64 `json:"score"`
		} `json:"labelAnnotations"`
		TextAnnotations []visionTextAnnotation `json:"textAnnotations"`
		Error           *struct {
			Message string `json:"message"`
		} `json:"error,omitempty"`
	} `json:"responses"`
}

func NewGoogleVisionProvider(cfg *config.VisionConfig) *GoogleVisionProvider {
	return &GoogleVisionProvider{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout(),
		},
	}
}

// Annotate submits the image for label and text detection and returns the
// normalized annotation, with labels in upstream rank order.
func (p *GoogleVisionProvider) Annotate(image []byte) (*models.LabelAnnotation, error) {
	if len(image) == 0 {
		return nil, errors.NewValidationError("image cannot be empty")
	}

	payload := visionAnnotateRequest{
		Requests: []visionRequestEntry{
			{
				Image: visionImage{Content: base64.StdEncoding.EncodeToString(image)},
				Features: []visionFeature{
					{Type: "LABEL_DETECTION", MaxResults: maxLabelResults},
					{Type: "TEXT_DETECTION", MaxResults: maxTextResults},
				},
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.NewInvalidPayloadError("vision", "failed to encode request")
	}

	url := fmt.Sprintf("%s/images:annotate?key=%s", p.baseURL, p.apiKey)
	resp, err := p.httpClient.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, classifyTransport("vision", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			slog.Warn("close response body", "error", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, classifyStatus("vision", resp.StatusCode)
	}

	var apiResponse visionAnnotateResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		return nil, errors.NewInvalidPayloadError("vision", "body is not valid JSON")
	}

	if len(apiResponse.Responses) == 0 {
		return nil, errors.NewInvalidPayloadError("vision", "empty annotation response")
	}

	annotation := apiResponse.Responses[0]
	if annotation.Error != nil {
		return nil, errors.NewInvalidPayloadError("vision", annotation.Error.Message)
	}

	labels := make([]models.RawLabel, 0, len(annotation.LabelAnnotations))
	for _, l := range annotation.LabelAnnotations {
		labels = append(labels, models.RawLabel{
			Description: l.Description,
			Score:       l.Score,
		})
	}

	return &models.LabelAnnotation{
		Labels: labels,
		Text:   extractText(annotation.TextAnnotations),
	}, nil
}

// extractText keeps up to maxTextResults distinct fragments. The first
// annotation is the aggregate block; individual fragments follow it, so the
// aggregate is skipped whenever fragments exist.
func extractText(annotations []visionTextAnnotation) []string {
	if len(annotations) == 0 {
		return nil
	}

	fragments := annotations
	if len(annotations) > 1 {
		fragments = annotations[1:]
	}

	text := make([]string, 0, maxTextResults)
	for _, a := range fragments {
		fragment := strings.TrimSpace(a.Description)
		if fragment == "" {
			continue
		}
		text = append(text, fragment)
		if len(text) == maxTextResults {
			break
		}
	}
	return text
}
