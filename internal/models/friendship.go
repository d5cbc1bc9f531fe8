package models

import (
	"time"
)

// FriendshipStatus represents the status of a directed friendship edge.
type FriendshipStatus string

const (
	// FriendshipStatusUnconfirmed marks a one-sided request the target has not reciprocated.
	FriendshipStatusUnconfirmed FriendshipStatus = "UNCONFIRMED"
	// FriendshipStatusConfirmed marks a mutual friendship; the reverse edge is confirmed too.
	FriendshipStatusConfirmed FriendshipStatus = "CONFIRMED"
)

// Friendship is a directed edge from UserID (owner) to FriendID (target).
// At most one edge exists per ordered pair.
type Friendship struct {
	ID        uint             `gorm:"primaryKey" json:"id"`
	UserID    uint             `gorm:"not null;uniqueIndex:idx_friendship_pair" json:"user_id"`
	FriendID  uint             `gorm:"not null;uniqueIndex:idx_friendship_pair;index:idx_friendships_target" json:"friend_id"`
	Status    FriendshipStatus `gorm:"type:varchar(20);not null;default:'UNCONFIRMED'" json:"status"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Friendship) TableName() string {
	return "friendships"
}
