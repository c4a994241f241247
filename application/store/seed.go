package store

import (
	"time"

	"memoryvault/domain/entities"
)

// seedData builds the fixed example records installed on first run.
// Seed ids are fixed constants rather than generated: the memories and
// users collections fall back to seed independently, so a reseed of one
// collection must still reference records that exist in the other.
// Follow links are created on both sides and like counters match the
// LikedBy sets, so a freshly seeded store already satisfies every
// collection invariant.
func seedData(now time.Time) ([]entities.Memory, []entities.User) {
	john := entities.User{
		ID:       "user-1",
		Name:     "John Doe",
		Email:    "john@example.com",
		Role:     entities.RoleCreator,
		JoinDate: now,
	}
	jane := entities.User{
		ID:       "user-2",
		Name:     "Jane Smith",
		Email:    "jane@example.com",
		Role:     entities.RoleCreator,
		JoinDate: now,
	}
	admin := entities.User{
		ID:       "user-3",
		Name:     "Admin User",
		Email:    "admin@example.com",
		Role:     entities.RoleAdmin,
		JoinDate: now,
	}

	// jane and admin follow john; john follows jane
	john.Followers = []string{jane.ID, admin.ID}
	john.Following = []string{jane.ID}
	jane.Followers = []string{john.ID}
	jane.Following = []string{john.ID}
	admin.Followers = []string{}
	admin.Following = []string{john.ID}

	memories := []entities.Memory{
		{
			ID:          "memory-1",
			CreatorID:   john.ID,
			Title:       "Graduation Day",
			Description: "Celebrating my graduation with family and friends",
			Date:        "2023-05-15",
			Location:    "University Campus",
			Category:    "Education",
			Tags:        []string{"graduation", "celebration", "family"},
			Privacy:     entities.PrivacyPublic,
			Media:       []string{"graduation.jpg"},
			Likes:       2,
			LikedBy:     []string{jane.ID, admin.ID},
			Comments: []entities.Comment{
				{
					ID:     "comment-1",
					UserID: jane.ID,
					Text:   "Congratulations!",
					Date:   now,
				},
			},
			CreatedAt: now,
		},
		{
			ID:          "memory-2",
			CreatorID:   jane.ID,
			Title:       "Beach Vacation",
			Description: "Amazing time at the beach with friends",
			Date:        "2023-07-20",
			Location:    "Sunset Beach",
			Category:    "Travel",
			Tags:        []string{"vacation", "beach", "friends"},
			Privacy:     entities.PrivacyPublic,
			Media:       []string{"beach1.jpg", "beach2.jpg"},
			Likes:       1,
			LikedBy:     []string{john.ID},
			Comments:    []entities.Comment{},
			CreatedAt:   now,
		},
	}

	return memories, []entities.User{john, jane, admin}
}
