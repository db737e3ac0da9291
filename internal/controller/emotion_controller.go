package controller

import (
	"neurobridge-be/internal/dto"
	"neurobridge-be/internal/pkg/serverutils"
	"neurobridge-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IEmotionController interface {
	RegisterRoutes(r fiber.Router, auth fiber.Handler)
	Analyze(ctx *fiber.Ctx) error
}

type emotionController struct {
	emotions service.IEmotionService
}

func NewEmotionController(emotions service.IEmotionService) IEmotionController {
	return &emotionController{emotions: emotions}
}

func (c *emotionController) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	h := r.Group("/emotion/v1")
	h.Use(auth)
	h.Post("analyze", c.Analyze)
}

func (c *emotionController) Analyze(ctx *fiber.Ctx) error {
	var req dto.AnalyzeEmotionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewAppError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.emotions.Analyze(ctx.Context(), req.Image)
	if err != nil {
		return serverutils.NewAppError(fiber.StatusBadGateway, "Emotion analysis unavailable")
	}

	return ctx.JSON(serverutils.SuccessResponse("Success analyze emotion", res))
}
