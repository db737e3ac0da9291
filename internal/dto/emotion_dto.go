package dto

type AnalyzeEmotionRequest struct {
	Image string `json:"image" validate:"required"` // base64 still frame
}

type AnalyzeEmotionResponse struct {
	Emotion      string             `json:"emotion"`
	Confidence   float64            `json:"confidence"`
	FaceDetected bool               `json:"face_detected"`
	AllEmotions  map[string]float64 `json:"all_emotions"`
}
