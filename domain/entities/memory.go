package entities

import (
	"strings"
	"time"
)

// Privacy controls who can see a memory
type Privacy string

const (
	PrivacyPublic    Privacy = "public"
	PrivacyPrivate   Privacy = "private"
	PrivacyFollowers Privacy = "followers"
)

// Valid reports whether the privacy value is one of the known levels
func (p Privacy) Valid() bool {
	switch p {
	case PrivacyPublic, PrivacyPrivate, PrivacyFollowers:
		return true
	}
	return false
}

// Category classifies a memory
type Category string

// DefaultCategory is assigned when a draft does not specify a category
const DefaultCategory Category = "Personal"

// Categories returns the fixed set of memory categories
func Categories() []Category {
	return []Category{
		"Personal", "Travel", "Education", "Family", "Friends",
		"Celebration", "Work", "Hobby", "Other",
	}
}

// Valid reports whether the category is in the fixed set
func (c Category) Valid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// Memory is a user-authored record of a personal event. Likes must always
// equal len(LikedBy); every mutation goes through the store, which keeps
// the two in sync.
type Memory struct {
	ID          string    `json:"id"`
	CreatorID   string    `json:"creatorId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        string    `json:"date"`
	Location    string    `json:"location"`
	Category    Category  `json:"category"`
	Tags        []string  `json:"tags"`
	Privacy     Privacy   `json:"privacy"`
	Media       []string  `json:"media"`
	Likes       int       `json:"likes"`
	LikedBy     []string  `json:"likedBy"`
	Comments    []Comment `json:"comments"`
	CreatedAt   time.Time `json:"createdAt"`
}

// LikedByUser reports whether the given user has liked this memory
func (m Memory) LikedByUser(userID string) bool {
	return containsID(m.LikedBy, userID)
}

// ParseTags derives a tag list from a comma-separated input string.
// Tags are trimmed and empty entries are dropped; order is preserved.
func ParseTags(input string) []string {
	tags := []string{}
	for _, raw := range strings.Split(input, ",") {
		tag := strings.TrimSpace(raw)
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// MemoryPatch lists the optional fields an update may change. Only
// non-nil fields are applied, so callers cannot accidentally merge
// unexpected keys into a memory.
type MemoryPatch struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Date        *string   `json:"date,omitempty"`
	Location    *string   `json:"location,omitempty"`
	Category    *Category `json:"category,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
	Privacy     *Privacy  `json:"privacy,omitempty"`
}

// Apply merges the patch into the memory field by field
func (p MemoryPatch) Apply(m *Memory) {
	if p.Title != nil {
		m.Title = *p.Title
	}
	if p.Description != nil {
		m.Description = *p.Description
	}
	if p.Date != nil {
		m.Date = *p.Date
	}
	if p.Location != nil {
		m.Location = *p.Location
	}
	if p.Category != nil {
		m.Category = *p.Category
	}
	if p.Tags != nil {
		m.Tags = *p.Tags
	}
	if p.Privacy != nil {
		m.Privacy = *p.Privacy
	}
}
