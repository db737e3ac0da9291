package service

import (
	"context"

	"neurobridge-be/internal/dto"
	"neurobridge-be/internal/pkg/inference"
	"neurobridge-be/internal/pkg/logger"
)

// IEmotionService proxies still frames to the external FER inference
// service. Frames are never persisted and never travel through the stream
// gateway.
type IEmotionService interface {
	Analyze(ctx context.Context, imageBase64 string) (*dto.AnalyzeEmotionResponse, error)
}

type emotionService struct {
	client *inference.Client
	logger logger.ILogger
}

func NewEmotionService(client *inference.Client, log logger.ILogger) IEmotionService {
	return &emotionService{
		client: client,
		logger: log,
	}
}

func (s *emotionService) Analyze(ctx context.Context, imageBase64 string) (*dto.AnalyzeEmotionResponse, error) {
	result, err := s.client.Analyze(ctx, imageBase64)
	if err != nil {
		s.logger.Error("EmotionService", "Inference call failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}

	return &dto.AnalyzeEmotionResponse{
		Emotion:      result.Emotion,
		Confidence:   result.Confidence,
		FaceDetected: result.FaceDetected,
		AllEmotions:  result.AllEmotions,
	}, nil
}
