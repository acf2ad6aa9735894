// Package analysis turns raw image-label annotations into categorized,
// prioritized guidance for the crop-analysis endpoint.
package analysis

import (
	"math"
	"strings"
	"time"

	"agriassist.app/models"
)

const (
	minLabelScore      = 0.5
	maxLabels          = 10
	maxDetectedText    = 5
	maxSuggestions     = 4
	healthyCropMinConf = 80
)

// Category keyword sets, checked in this fixed order: crop, disease,
// plant_part, color, general. First substring match wins; no match means
// "other". The order is a product default, not load-bearing logic.
var categoryKeywords = []struct {
	category string
	keywords []string
}{
	{models.CategoryCrop, []string{
		"crop", "plant", "wheat", "rice", "maize", "corn", "tomato",
		"potato", "sugarcane", "cotton", "vegetable", "fruit", "grain",
		"tree", "flower", "grass", "paddy",
	}},
	{models.CategoryDisease, []string{
		"blight", "rust", "mildew", "rot", "spot", "wilt", "mold",
		"mould", "fungus", "pest", "insect", "aphid", "larva", "disease",
		"lesion", "canker",
	}},
	{models.CategoryPlantPart, []string{
		"leaf", "stem", "root", "branch", "petal", "seed", "bud", "bark",
	}},
	{models.CategoryColor, []string{
		"green", "yellow", "brown", "red", "white", "black",
	}},
	{models.CategoryGeneral, []string{
		"agriculture", "farm", "field", "soil", "nature", "outdoor",
		"garden", "food",
	}},
}

var genericSuggestions = []string{
	"Inspect your plants regularly and note any change in leaf color or growth.",
	"Keep soil moisture even; both waterlogging and drought stress invite problems.",
	"For a confirmed diagnosis and treatment plan, consult your local agriculture extension officer.",
}

// Categorizer converts a LabelAnnotation into the final AnalysisResult.
type Categorizer struct{}

func NewCategorizer() *Categorizer {
	return &Categorizer{}
}

// Analyze filters to confident labels, caps at ten preserving upstream rank,
// categorizes each, rescales confidence to a 0..100 integer, and generates
// at most four prioritized suggestions.
func (c *Categorizer) Analyze(annotation *models.LabelAnnotation) *models.AnalysisResult {
	labels := make([]models.DetectedLabel, 0, maxLabels)
	for _, raw := range annotation.Labels {
		if raw.Score <= minLabelScore {
			continue
		}
		labels = append(labels, models.DetectedLabel{
			Description: raw.Description,
			Confidence:  int(math.Round(raw.Score * 100)),
			Category:    Categorize(raw.Description),
		})
		if len(labels) == maxLabels {
			break
		}
	}

	text := annotation.Text
	if len(text) > maxDetectedText {
		text = text[:maxDetectedText]
	}

	return &models.AnalysisResult{
		Labels:       labels,
		DetectedText: text,
		Suggestions:  generateSuggestions(labels),
		Timestamp:    time.Now(),
	}
}

// Categorize assigns a category by case-insensitive substring match against
// the fixed keyword sets, in their fixed precedence order.
func Categorize(description string) string {
	lowered := strings.ToLower(description)
	for _, set := range categoryKeywords {
		for _, keyword := range set.keywords {
			if strings.Contains(lowered, keyword) {
				return set.category
			}
		}
	}
	return models.CategoryOther
}

// generateSuggestions builds the prioritized advisory list: disease caution
// first when any disease label is present, a healthy-crop affirmation when a
// confident crop label is, then the generic monitoring advice, capped at
// four entries.
func generateSuggestions(labels []models.DetectedLabel) []string {
	suggestions := make([]string, 0, maxSuggestions)

	if hasCategory(labels, models.CategoryDisease) {
		suggestions = append(suggestions,
			"Possible disease symptoms detected. Isolate affected plants and avoid overhead watering until diagnosed.",
			"Apply an appropriate treatment only after confirming the diagnosis; untargeted spraying wastes money and harms beneficial insects.",
		)
	} else if hasConfidentCrop(labels) {
		suggestions = append(suggestions,
			"Your crop looks healthy. Keep up the current care routine.",
		)
	}

	suggestions = append(suggestions, genericSuggestions...)

	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}
	return suggestions
}

func hasCategory(labels []models.DetectedLabel, category string) bool {
	for _, label := range labels {
		if label.Category == category {
			return true
		}
	}
	return false
}

func hasConfidentCrop(labels []models.DetectedLabel) bool {
	for _, label := range labels {
		if label.Category == models.CategoryCrop && label.Confidence > healthyCropMinConf {
			return true
		}
	}
	return false
}
