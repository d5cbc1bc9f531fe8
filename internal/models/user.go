// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// User represents a registered member of the catalog.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"unique;not null" json:"email"`
	Login     string    `gorm:"unique;not null" json:"login"`
	Name      string    `json:"name"`
	Birthday  time.Time `gorm:"type:date" json:"birthday"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}

// UserWithFriends is a user together with the outgoing friendship edges it owns.
type UserWithFriends struct {
	User
	Friends map[uint]FriendshipStatus `json:"friends"`
}
