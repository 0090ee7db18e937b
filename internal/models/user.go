package models

import "gorm.io/gorm"

// UserStatus is the presence state shown next to a user in friend lists.
type UserStatus string

const (
	StatusOnline  UserStatus = "online"
	StatusOffline UserStatus = "offline"
)

// DefaultProfileImage is assigned at registration until the user uploads one.
const DefaultProfileImage = "https://i.pravatar.cc/150?img=1"

// User represents a registered account. Usernames are stored lowercase so the
// unique index doubles as the case-insensitive uniqueness check.
type User struct {
	gorm.Model
	Username     string     `gorm:"size:255;unique;not null"`
	PasswordHash string     `gorm:"size:255;not null"`
	ProfileImage string     `gorm:"size:512;not null"`
	Status       UserStatus `gorm:"type:varchar(20);not null;default:'offline'"`
}
