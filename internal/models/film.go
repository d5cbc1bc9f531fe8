package models

import (
	"time"
)

// Genre is a catalog genre. Films reference genres through film_genres.
type Genre struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"unique;not null" json:"name"`
}

// TableName specifies the table name for GORM
func (Genre) TableName() string {
	return "genres"
}

// Film represents a catalog film.
type Film struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `gorm:"size:200" json:"description"`
	ReleaseDate time.Time `gorm:"type:date;not null;index" json:"release_date"`
	Duration    int       `gorm:"not null" json:"duration"`
	Genres      []Genre   `gorm:"many2many:film_genres;" json:"genres"`
	// LikesCount is not persisted; filled in by the ranking queries
	LikesCount int       `gorm:"-" json:"likes_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Film) TableName() string {
	return "films"
}

// FilmGenre is the join row between films and genres.
type FilmGenre struct {
	FilmID  uint `gorm:"primaryKey"`
	GenreID uint `gorm:"primaryKey;index"`
}

// TableName specifies the table name for GORM
func (FilmGenre) TableName() string {
	return "film_genres"
}

// GenreIDs returns the ids of the genres attached to the film.
func (f *Film) GenreIDs() []uint {
	ids := make([]uint, 0, len(f.Genres))
	for _, g := range f.Genres {
		ids = append(ids, g.ID)
	}
	return ids
}
