package chat

import (
	"context"
	"log"
	"sync"

	"github.com/redis/go-redis/v9"
)

type Hub struct {
	redis   *redis.Client
	clients map[string]map[*Client]struct{}
	mu      sync.RWMutex
}

type Client struct {
	RoomKey string
	Send    chan []byte
}

func NewHub(redisClient *redis.Client) *Hub {
	h := &Hub{
		redis:   redisClient,
		clients: map[string]map[*Client]struct{}{},
	}

	if redisClient != nil {
		go h.subscribeRedis()
	}
	return h
}

func (h *Hub) Register(roomKey string) *Client {
	client := &Client{
		RoomKey: roomKey,
		Send:    make(chan []byte, 64),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[roomKey] == nil {
		h.clients[roomKey] = map[*Client]struct{}{}
	}
	h.clients[roomKey][client] = struct{}{}
	return client
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if roomClients, ok := h.clients[client.RoomKey]; ok {
		delete(roomClients, client)
		if len(roomClients) == 0 {
			delete(h.clients, client.RoomKey)
		}
	}
	close(client.Send)
}

// Broadcast delivers a payload to every client in the room. With Redis
// attached the pub/sub loop is the single delivery path, for local clients
// too, so each instance fans out a message exactly once. Without Redis the
// hub delivers directly.
func (h *Hub) Broadcast(roomKey string, payload []byte) {
	if h.redis != nil {
		err := h.redis.Publish(context.Background(), redisChannel(roomKey), payload).Err()
		if err == nil {
			return
		}
		log.Printf("redis publish error: %v", err)
	}
	h.deliver(roomKey, payload)
}

func (h *Hub) deliver(roomKey string, payload []byte) {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients[roomKey]))
	for client := range h.clients[roomKey] {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	for _, client := range clients {
		select {
		case client.Send <- payload:
		default:
		}
	}
}

func (h *Hub) subscribeRedis() {
	ctx := context.Background()
	pubsub := h.redis.PSubscribe(ctx, "chat:*:messages")
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		h.deliver(roomKeyFromChannel(msg.Channel), []byte(msg.Payload))
	}
}

func redisChannel(roomKey string) string {
	return "chat:" + roomKey + ":messages"
}

func roomKeyFromChannel(ch string) string {
	// chat:{room}:messages
	const prefix = "chat:"
	const suffix = ":messages"
	if len(ch) <= len(prefix)+len(suffix) {
		return ""
	}
	return ch[len(prefix) : len(ch)-len(suffix)]
}
