package controller

import (
	"encoding/base64"
	"errors"

	"neurobridge-be/internal/dto"
	"neurobridge-be/internal/entity"
	"neurobridge-be/internal/pkg/serverutils"
	"neurobridge-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ISessionController interface {
	RegisterRoutes(r fiber.Router, auth fiber.Handler)
	List(ctx *fiber.Ctx) error
	Latest(ctx *fiber.Ctx) error
	Metadata(ctx *fiber.Ctx) error
	SaveSnapshot(ctx *fiber.Ctx) error
	ListSnapshots(ctx *fiber.Ctx) error
}

type sessionController struct {
	sessions  service.ISessionService
	metadata  service.IMetadataService
	snapshots service.ISnapshotService
}

func NewSessionController(sessions service.ISessionService, metadata service.IMetadataService, snapshots service.ISnapshotService) ISessionController {
	return &sessionController{
		sessions:  sessions,
		metadata:  metadata,
		snapshots: snapshots,
	}
}

func (c *sessionController) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	h := r.Group("/session/v1")
	h.Use(auth)
	h.Get("", c.List)
	h.Get("latest", c.Latest)
	h.Get(":id/metadata", c.Metadata)
	h.Post(":id/snapshots", c.SaveSnapshot)
	h.Get(":id/snapshots", c.ListSnapshots)
}

func (c *sessionController) List(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}

	limit := ctx.QueryInt("limit", 20)
	offset := ctx.QueryInt("offset", 0)
	if limit < 1 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	sessions, total, err := c.sessions.List(ctx.Context(), userId, limit, offset)
	if err != nil {
		return mapSessionError(err)
	}

	items := make([]dto.SessionResponse, 0, len(sessions))
	for _, s := range sessions {
		items = append(items, sessionResponse(s))
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get sessions", fiber.Map{
		"sessions": items,
		"total":    total,
	}))
}

func (c *sessionController) Latest(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}

	session, err := c.sessions.Latest(ctx.Context(), userId)
	if err != nil {
		return mapSessionError(err)
	}
	if session == nil {
		return ctx.JSON(serverutils.SuccessResponse("No sessions yet", nil))
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get latest session", sessionResponse(session)))
}

func (c *sessionController) Metadata(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}
	sessionId, err := sessionIdParam(ctx)
	if err != nil {
		return err
	}

	records, err := c.metadata.ListBySession(ctx.Context(), userId, sessionId)
	if err != nil {
		return mapSessionError(err)
	}

	items := make([]dto.MetadataRecordResponse, 0, len(records))
	for _, r := range records {
		items = append(items, dto.MetadataRecordResponse{
			Id:        r.Id,
			SessionId: r.SessionId,
			Blob:      base64.StdEncoding.EncodeToString(r.EncryptedBlob),
			Iv:        base64.StdEncoding.EncodeToString(r.Iv),
			DataType:  r.DataType,
			CreatedAt: r.CreatedAt,
		})
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get session metadata", items))
}

func (c *sessionController) SaveSnapshot(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}
	sessionId, err := sessionIdParam(ctx)
	if err != nil {
		return err
	}

	var req dto.SaveSnapshotRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewAppError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	snapshot, err := c.snapshots.Save(ctx.Context(), userId, sessionId, &req)
	if err != nil {
		return mapSessionError(err)
	}

	return ctx.Status(fiber.StatusCreated).
		JSON(serverutils.SuccessResponse("Success save snapshot", snapshotResponse(snapshot)))
}

func (c *sessionController) ListSnapshots(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}
	sessionId, err := sessionIdParam(ctx)
	if err != nil {
		return err
	}

	snapshots, err := c.snapshots.ListBySession(ctx.Context(), userId, sessionId)
	if err != nil {
		return mapSessionError(err)
	}

	items := make([]dto.SnapshotResponse, 0, len(snapshots))
	for _, s := range snapshots {
		items = append(items, snapshotResponse(s))
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get snapshots", items))
}

func currentUserId(ctx *fiber.Ctx) (uuid.UUID, error) {
	userIdStr, _ := ctx.Locals("user_id").(string)
	userId, err := uuid.Parse(userIdStr)
	if err != nil {
		return uuid.Nil, serverutils.NewAppError(fiber.StatusUnauthorized, "Invalid token identity")
	}
	return userId, nil
}

func sessionIdParam(ctx *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return uuid.Nil, serverutils.NewAppError(fiber.StatusBadRequest, "Invalid session id")
	}
	return id, nil
}

func mapSessionError(err error) error {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		return serverutils.NewAppError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrSessionAlreadyEnded),
		errors.Is(err, service.ErrInvalidWindow),
		errors.Is(err, service.ErrInvalidEncoding),
		errors.Is(err, service.ErrInvalidIV),
		errors.Is(err, service.ErrEmptyBlob):
		return serverutils.NewAppError(fiber.StatusBadRequest, err.Error())
	default:
		return err
	}
}

func sessionResponse(s *entity.Session) dto.SessionResponse {
	return dto.SessionResponse{
		Id:              s.Id,
		Title:           s.Title,
		StartedAt:       s.StartedAt,
		EndedAt:         s.EndedAt,
		DurationSeconds: s.DurationSeconds,
		IsActive:        s.IsActive,
	}
}

func snapshotResponse(s *entity.EmotionSnapshot) dto.SnapshotResponse {
	return dto.SnapshotResponse{
		Id:                  s.Id,
		SessionId:           s.SessionId,
		DominantEmotion:     s.DominantEmotion,
		EmotionDistribution: s.EmotionDistribution,
		SarcasmInstances:    s.SarcasmInstances,
		ConflictInstances:   s.ConflictInstances,
		WindowStart:         s.WindowStart,
		WindowEnd:           s.WindowEnd,
		CreatedAt:           s.CreatedAt,
	}
}
