package service

import (
	"context"
	"strings"

	"filmorate/internal/models"
)

// GenreService manages the genre catalog.
type GenreService struct {
	store RelationStore
}

func NewGenreService(store RelationStore) *GenreService {
	return &GenreService{store: store}
}

func (s *GenreService) CreateGenre(ctx context.Context, genre *models.Genre) error {
	genre.Name = strings.TrimSpace(genre.Name)
	if genre.Name == "" {
		return models.NewInvalidArgumentError("genre name is required")
	}
	return s.store.Repositories().Genres.Create(ctx, genre)
}

func (s *GenreService) GetGenre(ctx context.Context, id uint) (*models.Genre, error) {
	return s.store.Repositories().Genres.GetByID(ctx, id)
}

func (s *GenreService) ListGenres(ctx context.Context) ([]models.Genre, error) {
	return s.store.Repositories().Genres.List(ctx)
}
