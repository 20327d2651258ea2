package post

import "time"

type Post struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	Title           string    `json:"title"`
	Content         string    `json:"content"`
	Tags            []string  `json:"tags"`
	InterestedUsers []string  `json:"interested_users"`
	ConfirmedUsers  []string  `json:"confirmed_users"`
	CreatedAt       time.Time `json:"created_at"`
}
