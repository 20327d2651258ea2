package chat

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	ErrRoomNotFound = errors.New("chat room not found")
	ErrNoStore      = errors.New("chat store unavailable")
)

type Service struct {
	redis *redis.Client
	hub   *Hub
}

func NewService(redisClient *redis.Client, hub *Hub) *Service {
	return &Service{redis: redisClient, hub: hub}
}

// ResolveOrCreate returns the single room for the unordered pair (a, b).
// The key for the call order is tried first, then the reversed key; an
// existing room wins regardless of which side created it. Only when
// neither ordering exists and create is set is a new room stored under
// the caller's ordering. Concurrent first use of the same pair can
// create two rooms; that race is accepted and later reads converge on
// whichever key is found first.
func (s *Service) ResolveOrCreate(ctx context.Context, a, b string, create bool) (Room, error) {
	if s.redis == nil {
		return Room{}, ErrNoStore
	}

	key := PairKey(a, b)
	room, found, err := s.loadRoom(ctx, key)
	if err != nil {
		return Room{}, err
	}
	if found {
		return room, nil
	}

	reversed := PairKey(b, a)
	room, found, err = s.loadRoom(ctx, reversed)
	if err != nil {
		return Room{}, err
	}
	if found {
		return room, nil
	}

	if !create {
		return Room{}, ErrRoomNotFound
	}

	room = Room{
		ID:        uuid.NewString(),
		Key:       key,
		UserA:     a,
		UserB:     b,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.redis.HSet(ctx, roomKey(key), map[string]any{
		"id":         room.ID,
		"user_a":     room.UserA,
		"user_b":     room.UserB,
		"created_at": room.CreatedAt.Format(time.RFC3339Nano),
	}).Err(); err != nil {
		return Room{}, err
	}
	return room, nil
}

// SendMessage appends a message document to the pair's room, creating the
// room on first use, and fans it out through the hub.
func (s *Service) SendMessage(ctx context.Context, sender, peer, body string) (Message, error) {
	room, err := s.ResolveOrCreate(ctx, sender, peer, true)
	if err != nil {
		return Message{}, err
	}

	msg := Message{
		ID:       uuid.NewString(),
		RoomID:   room.ID,
		SenderID: sender,
		Body:     body,
		SentAt:   time.Now().UTC(),
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return Message{}, err
	}
	if err := s.redis.RPush(ctx, messagesKey(room.Key), payload).Err(); err != nil {
		return Message{}, err
	}

	if s.hub != nil {
		s.hub.Broadcast(room.Key, payload)
	}
	return msg, nil
}

// Messages returns the room history in send order.
func (s *Service) Messages(ctx context.Context, a, b string) ([]Message, error) {
	room, err := s.ResolveOrCreate(ctx, a, b, false)
	if err != nil {
		return nil, err
	}

	raw, err := s.redis.LRange(ctx, messagesKey(room.Key), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	messages := make([]Message, 0, len(raw))
	for _, doc := range raw {
		var msg Message
		if err := json.Unmarshal([]byte(doc), &msg); err != nil {
			// A corrupt document is skipped rather than failing the read.
			continue
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

func (s *Service) loadRoom(ctx context.Context, key string) (Room, bool, error) {
	fields, err := s.redis.HGetAll(ctx, roomKey(key)).Result()
	if err != nil {
		return Room{}, false, err
	}
	if len(fields) == 0 {
		return Room{}, false, nil
	}

	createdAt, _ := time.Parse(time.RFC3339Nano, fields["created_at"])
	return Room{
		ID:        fields["id"],
		Key:       key,
		UserA:     fields["user_a"],
		UserB:     fields["user_b"],
		CreatedAt: createdAt,
	}, true, nil
}

func roomKey(key string) string {
	return "room:" + key
}

func messagesKey(key string) string {
	return "room:" + key + ":messages"
}
