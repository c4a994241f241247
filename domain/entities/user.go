package entities

import (
	"time"
)

// Role represents the platform role of a user
type Role string

const (
	RoleCreator Role = "creator"
	RoleAdmin   Role = "admin"
)

// Valid reports whether the role is one of the known roles
func (r Role) Valid() bool {
	return r == RoleCreator || r == RoleAdmin
}

// User is a member of the platform. The follow relationship is stored
// redundantly on both sides: b is in a.Following exactly when a is in
// b.Followers.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	JoinDate  time.Time `json:"joinDate"`
	Followers []string  `json:"followers"`
	Following []string  `json:"following"`
}

// IsFollowing reports whether the user follows the user with the given ID
func (u User) IsFollowing(userID string) bool {
	return containsID(u.Following, userID)
}

// HasFollower reports whether the user is followed by the user with the given ID
func (u User) HasFollower(userID string) bool {
	return containsID(u.Followers, userID)
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
