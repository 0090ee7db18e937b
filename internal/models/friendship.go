package models

import "time"

// FriendshipStatus defines the state of an established friendship edge.
type FriendshipStatus string

const (
	// FriendshipActive is the normal state of an accepted friendship.
	FriendshipActive FriendshipStatus = "active"
)

// Friendship is a directed edge from a user to one of their friends.
// The primary key is a composite of (UserID, FriendUserID) to ensure uniqueness.
// A mutual friendship is represented as two rows, one per direction; nothing
// symmetrizes a single row automatically.
type Friendship struct {
	UserID       uint             `gorm:"primaryKey"`
	FriendUserID uint             `gorm:"primaryKey"`
	Status       FriendshipStatus `gorm:"type:varchar(20);not null;default:'active'"`

	// MutualFriends is a cached count, never recomputed from the graph.
	MutualFriends int `gorm:"not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time

	User   User `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Friend User `gorm:"foreignKey:FriendUserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
