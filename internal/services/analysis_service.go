package services

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/precisionhealth/skinsight-be/internal/analysis"
	"github.com/precisionhealth/skinsight-be/internal/models"
	"github.com/precisionhealth/skinsight-be/internal/vision"
)

// ModelInvoker is the outbound collaborator that turns an image or a chat
// turn into raw model text.
type ModelInvoker interface {
	Analyze(ctx context.Context, image []byte, patient *vision.PatientContext) (string, error)
	Chat(ctx context.Context, message string, history []vision.ChatTurn) (string, error)
}

// AnalysisServiceProvider defines the interface for analysis services.
type AnalysisServiceProvider interface {
	AnalyzeImage(ctx context.Context, image []byte, patient *vision.PatientContext) ([]models.AnalysisResult, error)
	AnalyzeImageRaw(ctx context.Context, image []byte) (models.RawAnalysis, error)
	ChatReply(ctx context.Context, message string, history []vision.ChatTurn) (string, error)
}

// AnalysisService forwards images to the vision model and normalizes the
// replies. A reply that cannot be parsed never fails; only a call that could
// not be made at all propagates an error.
type AnalysisService struct {
	invoker ModelInvoker
}

// NewAnalysisService creates a new AnalysisService.
func NewAnalysisService(invoker ModelInvoker) *AnalysisService {
	return &AnalysisService{invoker: invoker}
}

// AnalyzeImage returns the structured array contract: one or more normalized
// results for the uploaded image.
func (s *AnalysisService) AnalyzeImage(ctx context.Context, image []byte, patient *vision.PatientContext) ([]models.AnalysisResult, error) {
	raw, err := s.invoker.Analyze(ctx, image, patient)
	if err != nil {
		return nil, err
	}
	results := analysis.Normalize(raw)
	log.Info().Int("results", len(results)).Msg("Analysis completed successfully")
	return results, nil
}

// AnalyzeImageRaw serves the legacy single-object contract that passes the
// model reply through unparsed. Kept alongside AnalyzeImage because both
// response shapes shipped historically and clients of each still exist.
func (s *AnalysisService) AnalyzeImageRaw(ctx context.Context, image []byte) (models.RawAnalysis, error) {
	raw, err := s.invoker.Analyze(ctx, image, nil)
	if err != nil {
		return models.RawAnalysis{}, err
	}
	return models.RawAnalysis{Analysis: raw, Success: true}, nil
}

// ChatReply forwards a conversational turn to the model.
func (s *AnalysisService) ChatReply(ctx context.Context, message string, history []vision.ChatTurn) (string, error) {
	return s.invoker.Chat(ctx, message, history)
}
