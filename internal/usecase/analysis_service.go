package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/macrolens/foodcore/internal/analysis"
	"github.com/macrolens/foodcore/internal/domain"
	"github.com/macrolens/foodcore/internal/imageformat"
)

// AnalysisService validates an uploaded image, sends it to the vision model
// and normalizes the model's answer.
type AnalysisService struct {
	analyzer domain.ImageAnalyzer
	logger   *zap.Logger
}

// NewAnalysisService creates an analysis service. A nil analyzer means
// vision is not configured and every request fails with ErrVisionNotConfigured.
func NewAnalysisService(analyzer domain.ImageAnalyzer, logger *zap.Logger) *AnalysisService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalysisService{
		analyzer: analyzer,
		logger:   logger.Named("analysis"),
	}
}

// Analyze returns the parsed result for one image. Validation failures wrap
// domain.ErrInvalidImage; vision failures are returned as-is. A malformed
// model answer is not an error: it yields Success=false.
func (s *AnalysisService) Analyze(ctx context.Context, filename string, data []byte) (*domain.AnalysisResult, error) {
	mimeType, err := imageformat.Validate(filename, data)
	if err != nil {
		return nil, err
	}
	if s.analyzer == nil {
		return nil, domain.ErrVisionNotConfigured
	}

	content, err := s.analyzer.AnalyzeImage(ctx, data, mimeType)
	if err != nil {
		return nil, fmt.Errorf("analyze image: %w", err)
	}

	result := analysis.ParseAnalysisResponse(content)
	if !result.Success {
		s.logger.Warn("vision response rejected", zap.String("error", result.Error))
	} else if result.Normalized {
		s.logger.Info("vision response normalized", zap.Int("items", len(result.Data.Items)))
	}

	return &result, nil
}
