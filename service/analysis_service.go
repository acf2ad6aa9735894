package service

import (
	"log/slog"

	"agriassist.app/analysis"
	"agriassist.app/errors"
	"agriassist.app/models"
	"agriassist.app/providers"
)

// AnalysisService runs an uploaded image through the label provider stack
// and the categorizer. Results are never cached: every image is unique.
type AnalysisService struct {
	provider    providers.LabelProvider
	categorizer *analysis.Categorizer
}

func NewAnalysisService(provider providers.LabelProvider, categorizer *analysis.Categorizer) *AnalysisService {
	return &AnalysisService{
		provider:    provider,
		categorizer: categorizer,
	}
}

// AnalyzeImage annotates the image and converts the annotation into
// categorized labels and prioritized suggestions.
func (s *AnalysisService) AnalyzeImage(image []byte) (*models.AnalysisResult, error) {
	if len(image) == 0 {
		return nil, errors.NewValidationError("image cannot be empty")
	}

	annotation, err := s.provider.Annotate(image)
	if err != nil {
		slog.Error("label provider error", "error", err)
		return nil, err
	}

	return s.categorizer.Analyze(annotation), nil
}
