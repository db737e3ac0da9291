package websocket

import (
	"encoding/base64"
	"encoding/json"
	"testing"
	"time"

	"neurobridge-be/internal/entity"
	"neurobridge-be/internal/pkg/logger"
	"neurobridge-be/internal/repository/memory"
	"neurobridge-be/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type gatewayFixture struct {
	hub     *Hub
	gateway *Gateway
	user    *entity.User
}

func newGatewayFixture(t *testing.T) *gatewayFixture {
	t.Helper()
	sessions := memory.NewSessionRepository()
	metadata := memory.NewMetadataRepository(sessions)

	noop := logger.NewNoopLogger()
	sessionSvc := service.NewSessionService(sessions, nil, noop)
	metadataSvc := service.NewMetadataService(sessions, metadata, noop)

	hub := NewHub(nil, noop)
	go hub.Run()

	return &gatewayFixture{
		hub:     hub,
		gateway: NewGateway(hub, sessionSvc, metadataSvc, noop),
		user:    &entity.User{Id: uuid.New(), Username: "alice"},
	}
}

func (f *gatewayFixture) connect(t *testing.T, user *entity.User) *Client {
	t.Helper()
	c := NewClient(f.hub, nil, user, f.gateway)
	before := f.hub.LocalConnections(user.Id)
	f.hub.Join(c)
	require.Eventually(t, func() bool {
		return f.hub.LocalConnections(user.Id) == before+1
	}, time.Second, 5*time.Millisecond)
	return c
}

func decodeFrame(t *testing.T, data []byte) map[string]interface{} {
	t.Helper()
	var frame map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &frame))
	return frame
}

func TestEstablishedIsQueuedFirst(t *testing.T) {
	f := newGatewayFixture(t)
	c := NewClient(f.hub, nil, f.user, f.gateway)

	f.gateway.Established(c)

	frame := decodeFrame(t, recvFrame(t, c))
	assert.Equal(t, TypeConnectionEstablished, frame["type"])
	assert.Equal(t, f.user.Id.String(), frame["user_id"])
	assert.Equal(t, "alice", frame["username"])
	assert.NotEmpty(t, frame["timestamp"])
}

func TestDispatchRejectsBadFrames(t *testing.T) {
	f := newGatewayFixture(t)
	c := f.connect(t, f.user)

	tests := []struct {
		name    string
		payload string
		wantMsg string
	}{
		{"not json", "{{{", "malformed message"},
		{"unknown type", `{"type":"session.restart"}`, "unknown message type"},
		{"missing type", `{}`, "unknown message type"},
		{"bad session id", `{"type":"session.end","session_id":"nope"}`, "invalid session_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f.gateway.Dispatch(c, []byte(tt.payload))
			frame := decodeFrame(t, recvFrame(t, c))
			assert.Equal(t, TypeError, frame["type"])
			assert.Equal(t, tt.wantMsg, frame["message"])
		})
	}
}

func TestSessionStartReplyAndFanOut(t *testing.T) {
	f := newGatewayFixture(t)
	acting := f.connect(t, f.user)
	other := f.connect(t, f.user)
	stranger := f.connect(t, &entity.User{Id: uuid.New()})

	f.gateway.Dispatch(acting, []byte(`{"type":"session.start","title":"Morning check-in"}`))

	reply := decodeFrame(t, recvFrame(t, acting))
	require.Equal(t, TypeSessionStarted, reply["type"])
	assert.Equal(t, "Morning check-in", reply["title"])
	assert.NotEmpty(t, reply["session_id"])
	assert.NotEmpty(t, reply["started_at"])

	update := decodeFrame(t, recvFrame(t, other))
	assert.Equal(t, TypeSessionUpdate, update["type"])
	assert.Equal(t, ActionStarted, update["action"])
	assert.Equal(t, reply["session_id"], update["session_id"])

	// The acting connection got its reply only, no echo of the fan-out.
	assertNoFrame(t, acting)
	// Other principals never see this user's activity.
	assertNoFrame(t, stranger)
}

func TestSessionEndReplyAndFanOut(t *testing.T) {
	f := newGatewayFixture(t)
	acting := f.connect(t, f.user)
	other := f.connect(t, f.user)

	f.gateway.Dispatch(acting, []byte(`{"type":"session.start"}`))
	started := decodeFrame(t, recvFrame(t, acting))
	sessionId := started["session_id"].(string)
	recvFrame(t, other) // drain the started fan-out

	f.gateway.Dispatch(acting, []byte(`{"type":"session.end","session_id":"`+sessionId+`"}`))

	reply := decodeFrame(t, recvFrame(t, acting))
	require.Equal(t, TypeSessionEnded, reply["type"])
	assert.Equal(t, sessionId, reply["session_id"])
	assert.NotEmpty(t, reply["ended_at"])
	assert.GreaterOrEqual(t, reply["duration_seconds"].(float64), float64(0))

	update := decodeFrame(t, recvFrame(t, other))
	assert.Equal(t, TypeSessionUpdate, update["type"])
	assert.Equal(t, ActionEnded, update["action"])
	assert.Equal(t, sessionId, update["session_id"])
}

func TestSessionEndErrorsOnWire(t *testing.T) {
	f := newGatewayFixture(t)
	acting := f.connect(t, f.user)

	f.gateway.Dispatch(acting, []byte(`{"type":"session.end","session_id":"`+uuid.NewString()+`"}`))
	frame := decodeFrame(t, recvFrame(t, acting))
	assert.Equal(t, TypeError, frame["type"])
	assert.Equal(t, "session not found", frame["message"])

	f.gateway.Dispatch(acting, []byte(`{"type":"session.start"}`))
	started := decodeFrame(t, recvFrame(t, acting))
	sessionId := started["session_id"].(string)

	endFrame := []byte(`{"type":"session.end","session_id":"` + sessionId + `"}`)
	f.gateway.Dispatch(acting, endFrame)
	recvFrame(t, acting) // session.ended

	f.gateway.Dispatch(acting, endFrame)
	frame = decodeFrame(t, recvFrame(t, acting))
	assert.Equal(t, TypeError, frame["type"])
	assert.Equal(t, "session already ended", frame["message"])
}

func TestMetadataSyncAckOnly(t *testing.T) {
	f := newGatewayFixture(t)
	acting := f.connect(t, f.user)
	other := f.connect(t, f.user)

	f.gateway.Dispatch(acting, []byte(`{"type":"session.start"}`))
	started := decodeFrame(t, recvFrame(t, acting))
	sessionId := started["session_id"].(string)
	recvFrame(t, other) // drain the started fan-out

	blob := base64.StdEncoding.EncodeToString([]byte("ciphertext"))
	iv := base64.StdEncoding.EncodeToString(make([]byte, 12))
	req, _ := json.Marshal(MetadataSyncRequest{
		Type:      TypeMetadataSync,
		SessionID: sessionId,
		Blob:      blob,
		Iv:        iv,
	})
	f.gateway.Dispatch(acting, req)

	ack := decodeFrame(t, recvFrame(t, acting))
	assert.Equal(t, TypeMetadataSynced, ack["type"])
	assert.Equal(t, sessionId, ack["session_id"])
	assert.NotEmpty(t, ack["metadata_id"])
	assert.NotEmpty(t, ack["timestamp"])

	// Metadata stays pull-based; the other device is not notified.
	assertNoFrame(t, other)
}

func TestMetadataSyncRejectsBadIV(t *testing.T) {
	f := newGatewayFixture(t)
	acting := f.connect(t, f.user)

	f.gateway.Dispatch(acting, []byte(`{"type":"session.start"}`))
	started := decodeFrame(t, recvFrame(t, acting))
	sessionId := started["session_id"].(string)

	req, _ := json.Marshal(MetadataSyncRequest{
		Type:      TypeMetadataSync,
		SessionID: sessionId,
		Blob:      base64.StdEncoding.EncodeToString([]byte("x")),
		Iv:        base64.StdEncoding.EncodeToString(make([]byte, 16)),
	})
	f.gateway.Dispatch(acting, req)

	frame := decodeFrame(t, recvFrame(t, acting))
	assert.Equal(t, TypeError, frame["type"])
	assert.Equal(t, "iv must decode to exactly 12 bytes", frame["message"])
}

func TestPresencePing(t *testing.T) {
	f := newGatewayFixture(t)
	c := f.connect(t, f.user)

	f.gateway.Dispatch(c, []byte(`{"type":"presence.ping"}`))

	frame := decodeFrame(t, recvFrame(t, c))
	assert.Equal(t, TypePresencePong, frame["type"])

	ts, err := time.Parse(time.RFC3339, frame["timestamp"].(string))
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC(), ts, 5*time.Second)
}
