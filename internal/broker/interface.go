package broker

// PostEvent is the payload published when a post is created.
type PostEvent struct {
	PostID     string   `json:"post_id"`
	UserID     string   `json:"user_id"`
	Username   string   `json:"username"`
	UserRole   string   `json:"user_role"`
	Content    string   `json:"content"`
	PostType   string   `json:"post_type"`
	SportsTags []string `json:"sports_tags"`
	Timestamp  string   `json:"timestamp"`
}

// FeedBroker fans out created posts to live feed subscribers.
type FeedBroker interface {
	Publish(event PostEvent) error
	Subscribe() (<-chan PostEvent, error)
	Close() error
}
