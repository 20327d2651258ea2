package friendship

// userRefs holds the relationship lists of one user row. The three lists
// are denormalized mirrors: friends is symmetric, friend_requests holds
// incoming pending ids and friends_requested the outgoing ones.
type userRefs struct {
	Friends          []string
	FriendRequests   []string
	FriendsRequested []string
}

// AcceptResult reports the outcome of accepting a pending request.
// StalePeerRemoved is set when the requester vanished and the pending
// entry was purged instead of completing the friendship.
type AcceptResult struct {
	Accepted         bool `json:"accepted"`
	StalePeerRemoved bool `json:"stale_peer_removed"`
}

type FriendRequestBody struct {
	ToID string `json:"to_id"`
}
