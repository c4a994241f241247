package store

// EventType identifies a store mutation
type EventType string

const (
	EventMemoryAdded    EventType = "memory.added"
	EventMemoryUpdated  EventType = "memory.updated"
	EventMemoryDeleted  EventType = "memory.deleted"
	EventMemoryLiked    EventType = "memory.liked"
	EventMemoryUnliked  EventType = "memory.unliked"
	EventCommentAdded   EventType = "comment.added"
	EventUserAdded      EventType = "user.added"
	EventUserFollowed   EventType = "user.followed"
	EventUserUnfollowed EventType = "user.unfollowed"
)

// Event describes a completed store mutation. Subscribers receive it
// after the collection has been persisted.
type Event struct {
	Type     EventType
	MemoryID string
	UserID   string
}

// Subscriber is notified after every successful mutation. Subscribers
// run synchronously on the mutating goroutine and must not block.
type Subscriber func(Event)
