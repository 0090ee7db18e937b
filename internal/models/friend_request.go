package models

import "gorm.io/gorm"

// RequestStatus defines the lifecycle state of a friend request.
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestAccepted RequestStatus = "accepted"
)

// FriendRequest is a directed request from sender to receiver. The ordered
// (sender, receiver) pair is unique; a reverse-direction request is a distinct
// row and is deliberately not collapsed into the forward one.
type FriendRequest struct {
	gorm.Model
	SenderUserID   uint          `gorm:"not null;uniqueIndex:idx_sender_receiver"`
	ReceiverUserID uint          `gorm:"not null;uniqueIndex:idx_sender_receiver"`
	Status         RequestStatus `gorm:"type:varchar(20);not null;default:'pending'"`
	MutualFriends  int           `gorm:"not null;default:0"`

	Sender   User `gorm:"foreignKey:SenderUserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Receiver User `gorm:"foreignKey:ReceiverUserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// RequestDirection distinguishes requests received by the viewer from requests
// the viewer sent.
type RequestDirection string

const (
	RequestIncoming RequestDirection = "incoming"
	RequestOutgoing RequestDirection = "outgoing"
)
