package service

import (
	"context"
	"fmt"

	"filmorate/internal/models"
	"filmorate/internal/observability"
	"filmorate/internal/repository"
)

// LikeService maintains the like relation between users and films.
type LikeService struct {
	store RelationStore
	cache PopularCache
}

// NewLikeService returns a new LikeService. A nil cache disables invalidation.
func NewLikeService(store RelationStore, cache PopularCache) *LikeService {
	return &LikeService{store: store, cache: orNoopCache(cache)}
}

// AddLike records that the user liked the film. Liking twice is a no-op.
func (s *LikeService) AddLike(ctx context.Context, userID, filmID uint) (err error) {
	span, ctx := observability.NewSpan(ctx, "LikeService.AddLike",
		observability.UserAttr(userID), observability.FilmAttr(filmID))
	defer func() { span.SetError(err); span.End() }()

	var created bool
	err = s.store.WithLikes(ctx, func(r repository.Repositories) error {
		if err := requireUser(ctx, r, userID); err != nil {
			return err
		}
		if err := requireFilm(ctx, r, filmID); err != nil {
			return err
		}
		added, err := r.Likes.Add(ctx, userID, filmID)
		created = added
		return err
	})
	if err != nil || !created {
		return err
	}

	observability.LikeMutations.WithLabelValues("add").Inc()
	observability.LogServiceCall(ctx, "LikeService", "AddLike", map[string]interface{}{
		"user_id": userID,
		"film_id": filmID,
	})
	s.cache.Invalidate(ctx)
	return nil
}

// RemoveLike deletes the user's like of the film. A like that does not exist is NotFound.
func (s *LikeService) RemoveLike(ctx context.Context, userID, filmID uint) (err error) {
	span, ctx := observability.NewSpan(ctx, "LikeService.RemoveLike",
		observability.UserAttr(userID), observability.FilmAttr(filmID))
	defer func() { span.SetError(err); span.End() }()

	err = s.store.WithLikes(ctx, func(r repository.Repositories) error {
		if err := requireUser(ctx, r, userID); err != nil {
			return err
		}
		if err := requireFilm(ctx, r, filmID); err != nil {
			return err
		}
		removed, err := r.Likes.Remove(ctx, userID, filmID)
		if err != nil {
			return err
		}
		if !removed {
			return models.NewNotFoundMessage(fmt.Sprintf("User %d has not liked film %d", userID, filmID))
		}
		return nil
	})
	if err != nil {
		return err
	}

	observability.LikeMutations.WithLabelValues("remove").Inc()
	observability.LogServiceCall(ctx, "LikeService", "RemoveLike", map[string]interface{}{
		"user_id": userID,
		"film_id": filmID,
	})
	s.cache.Invalidate(ctx)
	return nil
}

// FilmsLikedBy returns the ids of the films the user liked, ascending.
func (s *LikeService) FilmsLikedBy(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := s.store.ReadLikes(ctx, func(r repository.Repositories) error {
		var err error
		ids, err = r.Likes.FilmsLikedBy(ctx, userID)
		return err
	})
	return ids, err
}

// UsersWhoLiked returns the ids of the users who liked the film, ascending.
// The length of the result is the film's popularity.
func (s *LikeService) UsersWhoLiked(ctx context.Context, filmID uint) ([]uint, error) {
	var ids []uint
	err := s.store.ReadLikes(ctx, func(r repository.Repositories) error {
		var err error
		ids, err = r.Likes.UsersWhoLiked(ctx, filmID)
		return err
	})
	return ids, err
}

// LikedFilms returns the film records the user liked. Unknown users are NotFound.
func (s *LikeService) LikedFilms(ctx context.Context, userID uint) ([]models.Film, error) {
	var films []models.Film
	err := s.store.ReadLikes(ctx, func(r repository.Repositories) error {
		if err := requireUser(ctx, r, userID); err != nil {
			return err
		}
		ids, err := r.Likes.FilmsLikedBy(ctx, userID)
		if err != nil {
			return err
		}
		films, err = withLikeCounts(ctx, r, ids)
		return err
	})
	return films, err
}

// Likers returns the users who liked the film. Unknown films are NotFound.
func (s *LikeService) Likers(ctx context.Context, filmID uint) ([]models.User, error) {
	var users []models.User
	err := s.store.ReadLikes(ctx, func(r repository.Repositories) error {
		if err := requireFilm(ctx, r, filmID); err != nil {
			return err
		}
		ids, err := r.Likes.UsersWhoLiked(ctx, filmID)
		if err != nil {
			return err
		}
		users, err = r.Users.GetByIDs(ctx, ids)
		return err
	})
	return users, err
}
