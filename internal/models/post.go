package models

import "gorm.io/gorm"

// Post is a feed entry. Visibility is global: every authenticated user sees
// every post.
type Post struct {
	gorm.Model
	UserID uint   `gorm:"not null;index"`
	Text   string `gorm:"type:text;not null"`

	User     User      `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Comments []Comment `gorm:"foreignKey:PostID"`
}

// Comment belongs to exactly one post and is removed with it.
type Comment struct {
	gorm.Model
	PostID uint   `gorm:"not null;index"`
	UserID uint   `gorm:"not null;index"`
	Text   string `gorm:"type:text;not null"`

	Post Post `gorm:"foreignKey:PostID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	User User `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
