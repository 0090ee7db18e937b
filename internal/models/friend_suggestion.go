package models

import "time"

// FriendSuggestion is a precomputed recommendation edge. Rows are loaded by the
// seeder (or out of band in production); the API only ever reads them.
type FriendSuggestion struct {
	UserID          uint `gorm:"primaryKey"`
	SuggestedUserID uint `gorm:"primaryKey"`
	MutualFriends   int  `gorm:"not null;default:0"`

	CreatedAt time.Time

	User          User `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	SuggestedUser User `gorm:"foreignKey:SuggestedUserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
