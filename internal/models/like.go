package models

import "time"

// PostLike marks that a user likes a post. Row existence is the single source
// of truth for like counts and the viewer's liked flag; the composite primary
// key makes a duplicate like a constraint violation rather than a second row.
type PostLike struct {
	PostID    uint `gorm:"primaryKey"`
	UserID    uint `gorm:"primaryKey"`
	CreatedAt time.Time

	Post Post `gorm:"foreignKey:PostID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	User User `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// CommentLike is the comment-scoped counterpart of PostLike.
type CommentLike struct {
	CommentID uint `gorm:"primaryKey"`
	UserID    uint `gorm:"primaryKey"`
	CreatedAt time.Time

	Comment Comment `gorm:"foreignKey:CommentID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	User    User    `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
