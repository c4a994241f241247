package entities

import "time"

// Comment is a user remark on a memory. Comments are kept in insertion
// order, which is also chronological order.
type Comment struct {
	ID     string    `json:"id"`
	UserID string    `json:"userId"`
	Text   string    `json:"text"`
	Date   time.Time `json:"date"`
}
