package store

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"memoryvault/application/ports"
	"memoryvault/domain/entities"
	pkgerrors "memoryvault/pkg/errors"
)

// Well-known persistence keys
const (
	keyMemories = "memories"
	keyUsers    = "users"
)

// MemoryDraft contains the caller-supplied fields of a new memory.
// The store assigns the ID, the timestamps, and the social state.
type MemoryDraft struct {
	CreatorID   string
	Title       string
	Description string
	Date        string
	Location    string
	Category    entities.Category
	Tags        []string
	Privacy     entities.Privacy
	Media       []string
}

// UserDraft contains the caller-supplied fields of a new user
type UserDraft struct {
	Name  string
	Email string
	Role  entities.Role
}

// PublicFilter narrows the public memory listing. Empty fields match
// everything; all matching is case-insensitive.
type PublicFilter struct {
	Search   string
	Category string
	Location string
}

// Stats summarizes the platform for the admin view
type Stats struct {
	TotalUsers      int `json:"totalUsers"`
	TotalMemories   int `json:"totalMemories"`
	PublicMemories  int `json:"publicMemories"`
	PrivateMemories int `json:"privateMemories"`
}

// MemoryStore owns the Memories and Users collections. All mutation goes
// through it: each operation produces a new collection value, persists
// the full collection as one JSON blob, and only then replaces the
// in-memory state, so readers never observe a half-applied write.
type MemoryStore struct {
	kv     ports.KeyValueStore
	logger *zap.Logger

	mu       sync.RWMutex
	memories []entities.Memory
	users    []entities.User

	subMu sync.RWMutex
	subs  []Subscriber
}

// NewMemoryStore loads both collections from the key-value store. On
// first run, or when a persisted blob fails to parse, the affected
// collection falls back to the seed records and is persisted.
func NewMemoryStore(ctx context.Context, kv ports.KeyValueStore, logger *zap.Logger) (*MemoryStore, error) {
	s := &MemoryStore{
		kv:     kv,
		logger: logger,
	}

	seedMemories, seedUsers := seedData(time.Now().UTC())

	memories, ok, err := loadCollection[entities.Memory](ctx, kv, keyMemories, logger)
	if err != nil {
		return nil, err
	}
	if !ok {
		memories = seedMemories
		if err := persistCollection(ctx, kv, keyMemories, memories); err != nil {
			return nil, err
		}
		logger.Info("Seeded memories collection", zap.Int("count", len(memories)))
	}

	users, ok, err := loadCollection[entities.User](ctx, kv, keyUsers, logger)
	if err != nil {
		return nil, err
	}
	if !ok {
		users = seedUsers
		if err := persistCollection(ctx, kv, keyUsers, users); err != nil {
			return nil, err
		}
		logger.Info("Seeded users collection", zap.Int("count", len(users)))
	}

	s.memories = memories
	s.users = users
	return s, nil
}

// loadCollection reads and decodes one persisted collection. A missing
// key or a corrupt blob is reported as ok=false rather than an error,
// so the caller can fall back to seed state.
func loadCollection[T any](ctx context.Context, kv ports.KeyValueStore, key string, logger *zap.Logger) ([]T, bool, error) {
	raw, err := kv.Get(ctx, key)
	if errors.Is(err, ports.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, pkgerrors.NewDatabaseError("get "+key, err)
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		logger.Warn("Persisted collection is corrupt, falling back to seed state",
			zap.String("key", key),
			zap.Error(err),
		)
		return nil, false, nil
	}
	return items, true, nil
}

func persistCollection[T any](ctx context.Context, kv ports.KeyValueStore, key string, items []T) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return pkgerrors.NewInternalError("encode "+key, err)
	}
	if err := kv.Put(ctx, key, raw); err != nil {
		return pkgerrors.NewDatabaseError("put "+key, err)
	}
	return nil
}

// Subscribe registers a subscriber invoked after every successful
// mutation. Registration order is notification order.
func (s *MemoryStore) Subscribe(fn Subscriber) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.subs = append(s.subs, fn)
}

func (s *MemoryStore) notify(ev Event) {
	s.subMu.RLock()
	subs := make([]Subscriber, len(s.subs))
	copy(subs, s.subs)
	s.subMu.RUnlock()

	for _, fn := range subs {
		fn(ev)
	}
}

// AddMemory assigns a fresh ID and social state to the draft, appends it
// to the collection, persists, and returns the created record. The title
// is expected to be validated by the caller.
func (s *MemoryStore) AddMemory(ctx context.Context, draft MemoryDraft) (entities.Memory, error) {
	memory := entities.Memory{
		ID:          uuid.NewString(),
		CreatorID:   draft.CreatorID,
		Title:       draft.Title,
		Description: draft.Description,
		Date:        draft.Date,
		Location:    draft.Location,
		Category:    draft.Category,
		Tags:        draft.Tags,
		Privacy:     draft.Privacy,
		Media:       draft.Media,
		Likes:       0,
		LikedBy:     []string{},
		Comments:    []entities.Comment{},
		CreatedAt:   time.Now().UTC(),
	}
	if memory.Category == "" {
		memory.Category = entities.DefaultCategory
	}
	if memory.Privacy == "" {
		memory.Privacy = entities.PrivacyPublic
	}
	if memory.Tags == nil {
		memory.Tags = []string{}
	}
	if memory.Media == nil {
		memory.Media = []string{}
	}

	s.mu.Lock()
	next := append(cloneSlice(s.memories), memory)
	if err := persistCollection(ctx, s.kv, keyMemories, next); err != nil {
		s.mu.Unlock()
		return entities.Memory{}, err
	}
	s.memories = next
	s.mu.Unlock()

	s.notify(Event{Type: EventMemoryAdded, MemoryID: memory.ID, UserID: memory.CreatorID})
	return memory, nil
}

// UpdateMemory merges the patch into the record matching id. An unknown
// id is a silent no-op: the collection is left untouched.
func (s *MemoryStore) UpdateMemory(ctx context.Context, id string, patch entities.MemoryPatch) error {
	s.mu.Lock()
	found := false
	next := cloneSlice(s.memories)
	for i := range next {
		if next[i].ID == id {
			patch.Apply(&next[i])
			found = true
			break
		}
	}
	if !found {
		s.mu.Unlock()
		return nil
	}
	if err := persistCollection(ctx, s.kv, keyMemories, next); err != nil {
		s.mu.Unlock()
		return err
	}
	s.memories = next
	s.mu.Unlock()

	s.notify(Event{Type: EventMemoryUpdated, MemoryID: id})
	return nil
}

// DeleteMemory removes the record matching id. An unknown id is a
// silent no-op.
func (s *MemoryStore) DeleteMemory(ctx context.Context, id string) error {
	s.mu.Lock()
	next := make([]entities.Memory, 0, len(s.memories))
	found := false
	for _, m := range s.memories {
		if m.ID == id {
			found = true
			continue
		}
		next = append(next, m)
	}
	if !found {
		s.mu.Unlock()
		return nil
	}
	if err := persistCollection(ctx, s.kv, keyMemories, next); err != nil {
		s.mu.Unlock()
		return err
	}
	s.memories = next
	s.mu.Unlock()

	s.notify(Event{Type: EventMemoryDeleted, MemoryID: id})
	return nil
}

// LikeMemory toggles userID's like on the memory: a first call adds the
// like, a second call by the same user removes it. Likes always equals
// the size of the LikedBy set. Returns the updated record and whether
// the memory was found.
func (s *MemoryStore) LikeMemory(ctx context.Context, memoryID, userID string) (entities.Memory, bool, error) {
	s.mu.Lock()
	next := cloneSlice(s.memories)
	idx := -1
	for i := range next {
		if next[i].ID == memoryID {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return entities.Memory{}, false, nil
	}

	m := &next[idx]
	liked := !m.LikedByUser(userID)
	if liked {
		m.LikedBy = append(cloneSlice(m.LikedBy), userID)
	} else {
		likedBy := make([]string, 0, len(m.LikedBy))
		for _, id := range m.LikedBy {
			if id != userID {
				likedBy = append(likedBy, id)
			}
		}
		m.LikedBy = likedBy
	}
	m.Likes = len(m.LikedBy)
	updated := *m

	if err := persistCollection(ctx, s.kv, keyMemories, next); err != nil {
		s.mu.Unlock()
		return entities.Memory{}, false, err
	}
	s.memories = next
	s.mu.Unlock()

	evType := EventMemoryLiked
	if !liked {
		evType = EventMemoryUnliked
	}
	s.notify(Event{Type: evType, MemoryID: memoryID, UserID: userID})
	return updated, true, nil
}

// AddComment appends a new comment to the memory's comment list,
// preserving insertion order. Returns the created comment and whether
// the memory was found; an unknown memory is a silent no-op.
func (s *MemoryStore) AddComment(ctx context.Context, memoryID, userID, text string) (entities.Comment, bool, error) {
	comment := entities.Comment{
		ID:     uuid.NewString(),
		UserID: userID,
		Text:   text,
		Date:   time.Now().UTC(),
	}

	s.mu.Lock()
	next := cloneSlice(s.memories)
	idx := -1
	for i := range next {
		if next[i].ID == memoryID {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return entities.Comment{}, false, nil
	}
	next[idx].Comments = append(cloneSlice(next[idx].Comments), comment)

	if err := persistCollection(ctx, s.kv, keyMemories, next); err != nil {
		s.mu.Unlock()
		return entities.Comment{}, false, err
	}
	s.memories = next
	s.mu.Unlock()

	s.notify(Event{Type: EventCommentAdded, MemoryID: memoryID, UserID: userID})
	return comment, true, nil
}

// AddUser assigns a fresh ID and empty follow sets to the draft,
// appends it to the users collection, persists, and returns the record.
func (s *MemoryStore) AddUser(ctx context.Context, draft UserDraft) (entities.User, error) {
	user := entities.User{
		ID:        uuid.NewString(),
		Name:      draft.Name,
		Email:     draft.Email,
		Role:      draft.Role,
		JoinDate:  time.Now().UTC(),
		Followers: []string{},
		Following: []string{},
	}
	if user.Role == "" {
		user.Role = entities.RoleCreator
	}

	s.mu.Lock()
	next := append(cloneSlice(s.users), user)
	if err := persistCollection(ctx, s.kv, keyUsers, next); err != nil {
		s.mu.Unlock()
		return entities.User{}, err
	}
	s.users = next
	s.mu.Unlock()

	s.notify(Event{Type: EventUserAdded, UserID: user.ID})
	return user, nil
}

// EnsureUser inserts the given identity verbatim if no user with its ID
// exists yet. Session identities are mirrored into the users collection
// this way so follow relationships can reference them.
func (s *MemoryStore) EnsureUser(ctx context.Context, user entities.User) error {
	s.mu.Lock()
	for _, u := range s.users {
		if u.ID == user.ID {
			s.mu.Unlock()
			return nil
		}
	}
	if user.Followers == nil {
		user.Followers = []string{}
	}
	if user.Following == nil {
		user.Following = []string{}
	}
	next := append(cloneSlice(s.users), user)
	if err := persistCollection(ctx, s.kv, keyUsers, next); err != nil {
		s.mu.Unlock()
		return err
	}
	s.users = next
	s.mu.Unlock()

	s.notify(Event{Type: EventUserAdded, UserID: user.ID})
	return nil
}

// FollowUser toggles the follow relationship between the two users,
// updating both sides so the symmetry invariant holds after every call.
// A self-follow, or an id not present in the collection, is a silent
// no-op.
func (s *MemoryStore) FollowUser(ctx context.Context, followerID, followingID string) error {
	if followerID == followingID {
		return nil
	}

	s.mu.Lock()
	next := cloneSlice(s.users)
	followerIdx, followingIdx := -1, -1
	for i := range next {
		switch next[i].ID {
		case followerID:
			followerIdx = i
		case followingID:
			followingIdx = i
		}
	}
	if followerIdx < 0 || followingIdx < 0 {
		s.mu.Unlock()
		return nil
	}

	following := !next[followerIdx].IsFollowing(followingID)
	if following {
		next[followerIdx].Following = append(cloneSlice(next[followerIdx].Following), followingID)
		next[followingIdx].Followers = append(cloneSlice(next[followingIdx].Followers), followerID)
	} else {
		next[followerIdx].Following = removeID(next[followerIdx].Following, followingID)
		next[followingIdx].Followers = removeID(next[followingIdx].Followers, followerID)
	}

	if err := persistCollection(ctx, s.kv, keyUsers, next); err != nil {
		s.mu.Unlock()
		return err
	}
	s.users = next
	s.mu.Unlock()

	evType := EventUserFollowed
	if !following {
		evType = EventUserUnfollowed
	}
	s.notify(Event{Type: evType, UserID: followerID})
	return nil
}

// Memories returns a snapshot of the memories collection
func (s *MemoryStore) Memories() []entities.Memory {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlice(s.memories)
}

// Users returns a snapshot of the users collection
func (s *MemoryStore) Users() []entities.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlice(s.users)
}

// MemoryByID returns the memory with the given id, if present
func (s *MemoryStore) MemoryByID(id string) (entities.Memory, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.memories {
		if m.ID == id {
			return m, true
		}
	}
	return entities.Memory{}, false
}

// UserByID returns the user with the given id, if present
func (s *MemoryStore) UserByID(id string) (entities.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.ID == id {
			return u, true
		}
	}
	return entities.User{}, false
}

// MemoriesByCreator returns the memories authored by the given user,
// in collection order
func (s *MemoryStore) MemoriesByCreator(creatorID string) []entities.Memory {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []entities.Memory{}
	for _, m := range s.memories {
		if m.CreatorID == creatorID {
			out = append(out, m)
		}
	}
	return out
}

// PublicMemories returns the public memories matching the filter. The
// search term matches title, description, and tags; the location filter
// is a substring match; all comparisons are case-insensitive.
func (s *MemoryStore) PublicMemories(filter PublicFilter) []entities.Memory {
	search := strings.ToLower(filter.Search)
	location := strings.ToLower(filter.Location)

	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []entities.Memory{}
	for _, m := range s.memories {
		if m.Privacy != entities.PrivacyPublic {
			continue
		}
		if search != "" && !matchesSearch(m, search) {
			continue
		}
		if filter.Category != "" && !strings.EqualFold(string(m.Category), filter.Category) {
			continue
		}
		if location != "" && !strings.Contains(strings.ToLower(m.Location), location) {
			continue
		}
		out = append(out, m)
	}
	return out
}

// Stats summarizes both collections for the admin view
func (s *MemoryStore) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stats := Stats{
		TotalUsers:    len(s.users),
		TotalMemories: len(s.memories),
	}
	for _, m := range s.memories {
		switch m.Privacy {
		case entities.PrivacyPublic:
			stats.PublicMemories++
		case entities.PrivacyPrivate:
			stats.PrivateMemories++
		}
	}
	return stats
}

func matchesSearch(m entities.Memory, search string) bool {
	if strings.Contains(strings.ToLower(m.Title), search) {
		return true
	}
	if strings.Contains(strings.ToLower(m.Description), search) {
		return true
	}
	for _, tag := range m.Tags {
		if strings.Contains(strings.ToLower(tag), search) {
			return true
		}
	}
	return false
}

func cloneSlice[T any](items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	return out
}

func removeID(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
