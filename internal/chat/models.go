package chat

import "time"

type Room struct {
	ID        string    `json:"id"`
	Key       string    `json:"key"`
	UserA     string    `json:"user_a"`
	UserB     string    `json:"user_b"`
	CreatedAt time.Time `json:"created_at"`
}

type Message struct {
	ID       string    `json:"id"`
	RoomID   string    `json:"room_id"`
	SenderID string    `json:"sender_id"`
	Body     string    `json:"body"`
	SentAt   time.Time `json:"sent_at"`
}

type SendMessageBody struct {
	PeerID string `json:"peer_id"`
	Body   string `json:"body"`
}
