package service

import (
	"context"
	"strings"

	"filmorate/internal/models"
	"filmorate/internal/observability"
	"filmorate/internal/repository"
	"filmorate/internal/validation"
)

// FilmService manages film records and the like cascade of film deletion.
type FilmService struct {
	store RelationStore
	cache PopularCache
}

// NewFilmService returns a new FilmService.
func NewFilmService(store RelationStore, cache PopularCache) *FilmService {
	return &FilmService{store: store, cache: orNoopCache(cache)}
}

// normalizeFilm validates the film and resolves film.Genres against the genre
// table, dropping duplicates. Every referenced genre must exist.
func normalizeFilm(ctx context.Context, genres repository.GenreRepository, film *models.Film) error {
	film.Name = strings.TrimSpace(film.Name)
	for _, err := range []error{
		validation.ValidateFilmName(film.Name),
		validation.ValidateDescription(film.Description),
		validation.ValidateReleaseDate(film.ReleaseDate),
		validation.ValidateDuration(film.Duration),
	} {
		if err != nil {
			return models.NewInvalidArgumentError(err.Error())
		}
	}

	seen := newIDSet()
	resolved := make([]models.Genre, 0, len(film.Genres))
	for _, g := range film.Genres {
		if seen.has(g.ID) {
			continue
		}
		genre, err := genres.GetByID(ctx, g.ID)
		if err != nil {
			return err
		}
		seen[g.ID] = struct{}{}
		resolved = append(resolved, *genre)
	}
	film.Genres = resolved
	return nil
}

// CreateFilm stores a new film. Every referenced genre must exist.
func (s *FilmService) CreateFilm(ctx context.Context, film *models.Film) error {
	repos := s.store.Repositories()
	if err := normalizeFilm(ctx, repos.Genres, film); err != nil {
		return err
	}
	if err := repos.Films.Create(ctx, film); err != nil {
		return err
	}
	// A new film enters unfiltered rankings with zero likes.
	s.cache.Invalidate(ctx)
	return nil
}

// UpdateFilm replaces the fields and genres of an existing film and reloads it,
// with its like count, into film. Genre and release year feed the popularity
// filters, so the update runs inside the like critical section.
func (s *FilmService) UpdateFilm(ctx context.Context, film *models.Film) error {
	if film.ID == 0 {
		return models.NewInvalidArgumentError("film id is required")
	}
	if err := normalizeFilm(ctx, s.store.Repositories().Genres, film); err != nil {
		return err
	}
	err := s.store.WithLikes(ctx, func(r repository.Repositories) error {
		if err := requireFilm(ctx, r, film.ID); err != nil {
			return err
		}
		return r.Films.Update(ctx, film)
	})
	if err != nil {
		return err
	}
	s.cache.Invalidate(ctx)

	updated, err := s.GetFilm(ctx, film.ID)
	if err != nil {
		return err
	}
	*film = *updated
	return nil
}

// GetFilm returns the film with its like count.
func (s *FilmService) GetFilm(ctx context.Context, id uint) (*models.Film, error) {
	var film *models.Film
	err := s.store.ReadLikes(ctx, func(r repository.Repositories) error {
		f, err := r.Films.GetByID(ctx, id)
		if err != nil {
			return err
		}
		counts, err := r.Likes.CountByFilm(ctx, []uint{id})
		if err != nil {
			return err
		}
		f.LikesCount = counts[id]
		film = f
		return nil
	})
	return film, err
}

// ListFilms returns every film with its like count, ascending by id.
func (s *FilmService) ListFilms(ctx context.Context) ([]models.Film, error) {
	var films []models.Film
	err := s.store.ReadLikes(ctx, func(r repository.Repositories) error {
		var err error
		if films, err = r.Films.List(ctx); err != nil {
			return err
		}
		counts, err := r.Likes.CountByFilm(ctx, nil)
		if err != nil {
			return err
		}
		for i := range films {
			films[i].LikesCount = counts[films[i].ID]
		}
		return nil
	})
	return films, err
}

// DeleteFilm removes the film and every like referencing it.
func (s *FilmService) DeleteFilm(ctx context.Context, id uint) error {
	var likes int64
	err := s.store.WithLikes(ctx, func(r repository.Repositories) error {
		if err := requireFilm(ctx, r, id); err != nil {
			return err
		}
		var err error
		if likes, err = r.Likes.DeleteByFilm(ctx, id); err != nil {
			return err
		}
		return r.Films.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	observability.LogServiceCall(ctx, "FilmService", "DeleteFilm", map[string]interface{}{
		"film_id":       id,
		"likes_removed": likes,
	})
	s.cache.Invalidate(ctx)
	return nil
}
