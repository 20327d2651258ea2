package engagement

// postRefs holds the engagement lists of one post row. interested_users
// and confirmed_users are disjoint per user; each mirrors the user-side
// requested_posts / reminder_posts lists.
type postRefs struct {
	OwnerID         string
	InterestedUsers []string
	ConfirmedUsers  []string
}

type userRefs struct {
	RequestedPosts []string
	ReminderPosts  []string
}
