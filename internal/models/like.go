package models

import (
	"time"
)

// Like represents a user's like on a film.
// The combination of UserID and FilmID must be unique.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_like_user_film" json:"user_id"`
	FilmID    uint      `gorm:"not null;uniqueIndex:idx_like_user_film;index:idx_likes_film" json:"film_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM
func (Like) TableName() string {
	return "likes"
}
