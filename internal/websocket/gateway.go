package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"neurobridge-be/internal/pkg/logger"
	"neurobridge-be/internal/service"

	"github.com/google/uuid"
)

// Gateway routes authenticated stream frames to the session and metadata
// services and shapes the replies. One instance serves every connection;
// all per-connection state lives on the Client.
type Gateway struct {
	hub      *Hub
	sessions service.ISessionService
	metadata service.IMetadataService
	logger   logger.ILogger

	handlers map[string]func(ctx context.Context, c *Client, data []byte)
}

func NewGateway(hub *Hub, sessions service.ISessionService, metadata service.IMetadataService, log logger.ILogger) *Gateway {
	g := &Gateway{
		hub:      hub,
		sessions: sessions,
		metadata: metadata,
		logger:   log,
	}
	g.handlers = map[string]func(ctx context.Context, c *Client, data []byte){
		TypeSessionStart: g.handleSessionStart,
		TypeSessionEnd:   g.handleSessionEnd,
		TypeMetadataSync: g.handleMetadataSync,
		TypePresencePing: g.handlePresencePing,
	}
	return g
}

// Dispatch handles one inbound frame. Unknown or malformed frames produce an
// error reply on the same connection; they never close it.
func (g *Gateway) Dispatch(c *Client, data []byte) {
	var envelope Envelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		g.sendError(c, "malformed message")
		return
	}

	handler, ok := g.handlers[envelope.Type]
	if !ok {
		g.sendError(c, "unknown message type")
		return
	}

	handler(context.Background(), c, data)
}

// Established queues the connection greeting. The handler calls this before
// the client joins the hub, so it is always the first frame delivered.
func (g *Gateway) Established(c *Client) {
	c.enqueue(mustMarshal(ConnectionEstablished{
		Type:      TypeConnectionEstablished,
		UserID:    c.User.Id.String(),
		Username:  c.User.Username,
		Timestamp: wireTime(time.Now()),
	}))
}

func (g *Gateway) handleSessionStart(ctx context.Context, c *Client, data []byte) {
	var req SessionStartRequest
	if err := json.Unmarshal(data, &req); err != nil {
		g.sendError(c, "malformed message")
		return
	}

	session, err := g.sessions.Start(ctx, c.User.Id, req.Title)
	if err != nil {
		g.replyError(c, err)
		return
	}

	c.enqueue(mustMarshal(SessionStarted{
		Type:      TypeSessionStarted,
		SessionID: session.Id.String(),
		Title:     session.Title,
		StartedAt: wireTime(session.StartedAt),
	}))
	g.fanOut(c, ActionStarted, session.Id)
}

func (g *Gateway) handleSessionEnd(ctx context.Context, c *Client, data []byte) {
	var req SessionEndRequest
	if err := json.Unmarshal(data, &req); err != nil {
		g.sendError(c, "malformed message")
		return
	}
	sessionID, err := uuid.Parse(req.SessionID)
	if err != nil {
		g.sendError(c, "invalid session_id")
		return
	}

	session, err := g.sessions.End(ctx, c.User.Id, sessionID)
	if err != nil {
		g.replyError(c, err)
		return
	}

	c.enqueue(mustMarshal(SessionEnded{
		Type:            TypeSessionEnded,
		SessionID:       session.Id.String(),
		EndedAt:         wireTime(*session.EndedAt),
		DurationSeconds: *session.DurationSeconds,
	}))
	g.fanOut(c, ActionEnded, session.Id)
}

func (g *Gateway) handleMetadataSync(ctx context.Context, c *Client, data []byte) {
	var req MetadataSyncRequest
	if err := json.Unmarshal(data, &req); err != nil {
		g.sendError(c, "malformed message")
		return
	}
	sessionID, err := uuid.Parse(req.SessionID)
	if err != nil {
		g.sendError(c, "invalid session_id")
		return
	}

	record, err := g.metadata.Sync(ctx, c.User.Id, sessionID, req.Blob, req.Iv, req.DataType)
	if err != nil {
		g.replyError(c, err)
		return
	}

	// Sync is acknowledged to the sender only. Other devices reconcile
	// metadata through the pull endpoint, not a push.
	c.enqueue(mustMarshal(MetadataSynced{
		Type:       TypeMetadataSynced,
		MetadataID: record.Id.String(),
		SessionID:  record.SessionId.String(),
		Timestamp:  wireTime(record.CreatedAt),
	}))
}

func (g *Gateway) handlePresencePing(ctx context.Context, c *Client, data []byte) {
	c.enqueue(mustMarshal(PresencePong{
		Type:      TypePresencePong,
		Timestamp: wireTime(time.Now()),
	}))
}

// fanOut notifies the user's other devices that session state changed. The
// acting connection is excluded; it already got the full reply.
func (g *Gateway) fanOut(c *Client, action string, sessionID uuid.UUID) {
	g.hub.Publish(c.User.Id, mustMarshal(SessionUpdate{
		Type:      TypeSessionUpdate,
		Action:    action,
		SessionID: sessionID.String(),
	}), c)
}

// replyError maps service errors onto the wire. Domain errors go out with
// their own message; anything else is an internal failure whose details stay
// in the logs.
func (g *Gateway) replyError(c *Client, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrSessionAlreadyEnded),
		errors.Is(err, service.ErrInvalidEncoding),
		errors.Is(err, service.ErrInvalidIV),
		errors.Is(err, service.ErrEmptyBlob):
		g.sendError(c, err.Error())
	default:
		g.logger.Error("Gateway", "Handler failed", map[string]interface{}{
			"user_id": c.User.Id,
			"error":   err.Error(),
		})
		g.sendError(c, "internal error")
	}
}

func (g *Gateway) sendError(c *Client, message string) {
	c.enqueue(mustMarshal(ErrorMessage{
		Type:      TypeError,
		Message:   message,
		Timestamp: wireTime(time.Now()),
	}))
}
