package repository

import (
	"context"
	"errors"

	"filmorate/internal/models"
	"filmorate/internal/observability"

	"gorm.io/gorm"
)

// GenreRepository defines persistence operations for genres.
type GenreRepository interface {
	Exists(ctx context.Context, id uint) (bool, error)
	GetByID(ctx context.Context, id uint) (*models.Genre, error)
	List(ctx context.Context) ([]models.Genre, error)
	Create(ctx context.Context, genre *models.Genre) error
}

type genreRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewGenreRepository returns a new GenreRepository implementation.
func NewGenreRepository(db *gorm.DB) GenreRepository {
	return &genreRepository{db: db, log: observability.NewRepoLogger("genres")}
}

func (r *genreRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Genre{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *genreRepository) GetByID(ctx context.Context, id uint) (*models.Genre, error) {
	var genre models.Genre
	if err := r.db.WithContext(ctx).First(&genre, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Genre", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &genre, nil
}

func (r *genreRepository) List(ctx context.Context) ([]models.Genre, error) {
	var genres []models.Genre
	if err := r.db.WithContext(ctx).Order("id").Find(&genres).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return genres, nil
}

func (r *genreRepository) Create(ctx context.Context, genre *models.Genre) error {
	if err := r.db.WithContext(ctx).Create(genre).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.NewConflictError("genre with this name already exists")
		}
		r.log.LogError(ctx, err, "create")
		return models.NewInternalError(err)
	}
	r.log.LogCreate(ctx, map[string]interface{}{"genre_id": genre.ID})
	return nil
}
