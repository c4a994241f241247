package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTags(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty input", "", []string{}},
		{"single tag", "beach", []string{"beach"}},
		{"trims whitespace", " beach , summer ", []string{"beach", "summer"}},
		{"drops empty entries", "beach,,summer,", []string{"beach", "summer"}},
		{"only separators", " , ,", []string{}},
		{"preserves order", "c,a,b", []string{"c", "a", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseTags(tt.input))
		})
	}
}

func TestMemoryPatch_Apply(t *testing.T) {
	m := Memory{
		Title:       "Old title",
		Description: "Old description",
		Location:    "Old town",
		Category:    "Travel",
		Tags:        []string{"old"},
		Privacy:     PrivacyPublic,
	}

	title := "New title"
	privacy := PrivacyPrivate
	MemoryPatch{Title: &title, Privacy: &privacy}.Apply(&m)

	assert.Equal(t, "New title", m.Title)
	assert.Equal(t, PrivacyPrivate, m.Privacy)
	assert.Equal(t, "Old description", m.Description)
	assert.Equal(t, "Old town", m.Location)
	assert.Equal(t, Category("Travel"), m.Category)
	assert.Equal(t, []string{"old"}, m.Tags)
}

func TestMemoryPatch_ApplyEmptyValues(t *testing.T) {
	m := Memory{Title: "Kept", Description: "Cleared"}

	// A pointer to the zero value clears the field; a nil pointer leaves it
	empty := ""
	MemoryPatch{Description: &empty}.Apply(&m)
	assert.Equal(t, "Kept", m.Title)
	assert.Empty(t, m.Description)
}

func TestPrivacyValid(t *testing.T) {
	assert.True(t, PrivacyPublic.Valid())
	assert.True(t, PrivacyPrivate.Valid())
	assert.True(t, PrivacyFollowers.Valid())
	assert.False(t, Privacy("secret").Valid())
	assert.False(t, Privacy("").Valid())
}

func TestCategoryValid(t *testing.T) {
	for _, c := range Categories() {
		assert.True(t, c.Valid(), "category %q should be valid", c)
	}
	assert.True(t, DefaultCategory.Valid())
	assert.False(t, Category("Gardening").Valid())
	assert.False(t, Category("").Valid())
}

func TestMemoryLikedByUser(t *testing.T) {
	m := Memory{LikedBy: []string{"user-1", "user-2"}}
	assert.True(t, m.LikedByUser("user-1"))
	assert.False(t, m.LikedByUser("user-3"))
}
