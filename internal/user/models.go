package user

import "time"

type User struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	Username         string    `json:"username"`
	FullName         string    `json:"full_name"`
	Role             string    `json:"role"`
	Friends          []string  `json:"friends"`
	FriendRequests   []string  `json:"friend_requests"`
	FriendsRequested []string  `json:"friends_requested"`
	RequestedPosts   []string  `json:"requested_posts"`
	ReminderPosts    []string  `json:"reminder_posts"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
