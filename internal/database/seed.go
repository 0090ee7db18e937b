package database

import (
	"errors"
	"log"

	"socialfeed/backend/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Seed loads a small demo dataset: a handful of users, a friendship pair and a
// static suggestion list. Suggestions are only ever written here; the API reads
// them as-is and never recomputes the recommendation graph.
func Seed(db *gorm.DB) error {
	var existing models.User
	err := db.Where("username = ?", "alice").First(&existing).Error
	if err == nil {
		return nil // already seeded
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	names := []string{"alice", "bob", "carol", "dave"}
	users := make([]models.User, 0, len(names))
	for _, name := range names {
		users = append(users, models.User{
			Username:     name,
			PasswordHash: string(hash),
			ProfileImage: models.DefaultProfileImage,
			Status:       models.StatusOffline,
		})
	}
	if err := db.Create(&users).Error; err != nil {
		return err
	}

	friendships := []models.Friendship{
		{UserID: users[0].ID, FriendUserID: users[1].ID, MutualFriends: 2},
		{UserID: users[1].ID, FriendUserID: users[0].ID, MutualFriends: 2},
	}
	if err := db.Create(&friendships).Error; err != nil {
		return err
	}

	suggestions := []models.FriendSuggestion{
		{UserID: users[0].ID, SuggestedUserID: users[2].ID, MutualFriends: 1},
		{UserID: users[0].ID, SuggestedUserID: users[3].ID, MutualFriends: 0},
		{UserID: users[1].ID, SuggestedUserID: users[2].ID, MutualFriends: 1},
	}
	if err := db.Create(&suggestions).Error; err != nil {
		return err
	}

	log.Println("Seeded demo data.")
	return nil
}
