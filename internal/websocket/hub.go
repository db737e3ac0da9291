package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"neurobridge-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// clusterChannel carries cross-instance fan-out payloads.
const clusterChannel = "cluster_events"

type Hub struct {
	// Registered clients map: UserID -> List of Clients (multi-device)
	clients map[uuid.UUID][]*Client

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Lock for safe map access
	mu sync.RWMutex

	// Redis connection for cross-instance communication. Nil in
	// single-instance deployments; the hub then stays purely local.
	rdb *redis.Client

	// Identifies this process on the cluster channel so our own published
	// messages are not delivered twice to local clients.
	instanceID string

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[uuid.UUID][]*Client),
		rdb:        rdb,
		instanceID: uuid.NewString(),
		logger:     log,
	}
}

func (h *Hub) Run() {
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.User.Id] = append(h.clients[client.User.Id], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"user_id": client.User.Id})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.User.Id]; ok {
				for i, c := range clients {
					if c == client {
						h.clients[client.User.Id] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.clients[client.User.Id]) == 0 {
					delete(h.clients, client.User.Id)
					h.logger.Info("Hub", "Last device disconnected", map[string]interface{}{"user_id": client.User.Id})
				}
			}
			h.mu.Unlock()
		}
	}
}

// Join registers a connection. The caller must have queued any
// connection-scoped greeting on client.Send first; nothing published before
// Join can reach this client.
func (h *Hub) Join(client *Client) {
	h.register <- client
}

func (h *Hub) Leave(client *Client) {
	h.unregister <- client
}

// Publish delivers a message to every live connection of userID except
// exclude (the acting connection, which gets its own direct reply). It also
// relays through Redis so sibling instances reach devices connected there.
func (h *Hub) Publish(userID uuid.UUID, data []byte, exclude *Client) {
	var stalled []*Client

	h.mu.RLock()
	for _, client := range h.clients[userID] {
		if client == exclude {
			continue
		}
		select {
		case client.Send <- data:
		default:
			// Slow consumer. Collect and drop after releasing the lock;
			// unregister needs the write lock.
			stalled = append(stalled, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range stalled {
		h.logger.Warn("Hub", "Client send buffer full, dropping connection", map[string]interface{}{"user_id": userID})
		h.unregister <- client
	}

	if h.rdb != nil {
		payload, _ := json.Marshal(clusterPayload{
			Origin:       h.instanceID,
			TargetUserID: userID.String(),
			Message:      data,
		})
		if err := h.rdb.Publish(context.Background(), clusterChannel, payload).Err(); err != nil {
			h.logger.Warn("Hub", "Cluster publish failed", map[string]interface{}{"error": err.Error()})
		}
	}
}

// LocalConnections reports how many connections userID has on this instance.
func (h *Hub) LocalConnections(userID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

type clusterPayload struct {
	Origin       string          `json:"origin"`
	TargetUserID string          `json:"target_user_id"`
	Message      json.RawMessage `json:"message"`
}

func (h *Hub) subscribeToRedis() {
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, clusterChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var payload clusterPayload
		if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
			h.logger.Warn("Hub", "Malformed cluster payload", map[string]interface{}{"error": err.Error()})
			continue
		}

		// Local clients already got this message when we published it.
		if payload.Origin == h.instanceID {
			continue
		}

		uid, err := uuid.Parse(payload.TargetUserID)
		if err != nil {
			continue
		}

		h.deliverLocal(uid, payload.Message)
	}
}

func (h *Hub) deliverLocal(userID uuid.UUID, data []byte) {
	var stalled []*Client

	h.mu.RLock()
	for _, client := range h.clients[userID] {
		select {
		case client.Send <- data:
		default:
			stalled = append(stalled, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range stalled {
		h.unregister <- client
	}
}
