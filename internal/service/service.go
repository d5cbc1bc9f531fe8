// Package service implements the social-graph and ranking engine: the like index,
// the friendship graph, similarity search, recommendations and popularity ranking.
package service

import (
	"context"
	"sort"

	"filmorate/internal/models"
	"filmorate/internal/repository"
)

// RelationStore serialises access to the like and friendship relations.
// repository.Store is the production implementation.
type RelationStore interface {
	Repositories() repository.Repositories
	WithLikes(ctx context.Context, fn func(repository.Repositories) error) error
	WithFriends(ctx context.Context, fn func(repository.Repositories) error) error
	WithRelations(ctx context.Context, fn func(repository.Repositories) error) error
	ReadLikes(ctx context.Context, fn func(repository.Repositories) error) error
	ReadFriends(ctx context.Context, fn func(repository.Repositories) error) error
}

// PopularCache caches popular-film rankings. cache.PopularCache implements it.
//
// Get reports the generation it looked in; Set must be given that generation so a
// ranking computed before an Invalidate is never stored where later reads find it.
type PopularCache interface {
	Get(ctx context.Context, genreID *uint, year *int, limit *int) ([]models.Film, int64, bool)
	Set(ctx context.Context, gen int64, genreID *uint, year *int, limit *int, films []models.Film)
	Invalidate(ctx context.Context)
}

type noopPopularCache struct{}

func (noopPopularCache) Get(context.Context, *uint, *int, *int) ([]models.Film, int64, bool) {
	return nil, -1, false
}
func (noopPopularCache) Set(context.Context, int64, *uint, *int, *int, []models.Film) {}
func (noopPopularCache) Invalidate(context.Context)                                  {}

func orNoopCache(c PopularCache) PopularCache {
	if c == nil {
		return noopPopularCache{}
	}
	return c
}

type idSet map[uint]struct{}

func newIDSet(ids ...uint) idSet {
	s := make(idSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s idSet) has(id uint) bool {
	_, ok := s[id]
	return ok
}

func (s idSet) sorted() []uint {
	out := make([]uint, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func requireUser(ctx context.Context, r repository.Repositories, id uint) error {
	ok, err := r.Users.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return models.NewNotFoundError("User", id)
	}
	return nil
}

func requireFilm(ctx context.Context, r repository.Repositories, id uint) error {
	ok, err := r.Films.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return models.NewNotFoundError("Film", id)
	}
	return nil
}

// withLikeCounts looks up the films and fills LikesCount, keeping the order of ids.
func withLikeCounts(ctx context.Context, r repository.Repositories, ids []uint) ([]models.Film, error) {
	if len(ids) == 0 {
		return []models.Film{}, nil
	}
	films, err := r.Films.LookupFilms(ctx, ids)
	if err != nil {
		return nil, err
	}
	counts, err := r.Likes.CountByFilm(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]models.Film, len(films))
	for _, f := range films {
		f.LikesCount = counts[f.ID]
		byID[f.ID] = f
	}
	out := make([]models.Film, 0, len(films))
	for _, id := range ids {
		if f, ok := byID[id]; ok {
			out = append(out, f)
		}
	}
	return out, nil
}
