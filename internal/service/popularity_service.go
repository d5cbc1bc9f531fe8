package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"filmorate/internal/models"
	"filmorate/internal/observability"
	"filmorate/internal/repository"
)

// PopularQuery selects films for Popular. Nil fields are not applied.
type PopularQuery struct {
	GenreID *uint
	Year    *int
	Limit   *int
}

// PopularityService ranks films by number of likes.
type PopularityService struct {
	store RelationStore
	cache PopularCache
	now   func() time.Time
}

// NewPopularityService returns a new PopularityService. A nil cache disables caching.
func NewPopularityService(store RelationStore, cache PopularCache) *PopularityService {
	return &PopularityService{store: store, cache: orNoopCache(cache), now: time.Now}
}

func (s *PopularityService) validate(q PopularQuery) error {
	if q.Limit != nil && *q.Limit <= 0 {
		return models.NewInvalidArgumentError(fmt.Sprintf("count must be positive, got %d", *q.Limit))
	}
	if q.Year != nil && (*q.Year <= 0 || *q.Year > s.now().Year()) {
		return models.NewInvalidArgumentError(fmt.Sprintf("year %d is out of range", *q.Year))
	}
	return nil
}

// Popular returns films ordered by like count, descending. Films with equal counts
// stay in ascending id order. Genre and year filters are ANDed.
func (s *PopularityService) Popular(ctx context.Context, q PopularQuery) (_ []models.Film, err error) {
	span, ctx := observability.NewSpan(ctx, "PopularityService.Popular")
	defer func() { span.SetError(err); span.End() }()
	defer observability.TrackOperation("popular")()

	if err := s.validate(q); err != nil {
		return nil, err
	}
	if q.GenreID != nil {
		span.AddAttributes(observability.GenreAttr(*q.GenreID))
		ok, err := s.store.Repositories().Genres.Exists(ctx, *q.GenreID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, models.NewNotFoundError("Genre", *q.GenreID)
		}
	}

	// gen is read before the ranking is computed: a like committed in between
	// bumps the generation and the entry written below is never read.
	films, gen, ok := s.cache.Get(ctx, q.GenreID, q.Year, q.Limit)
	if ok {
		return films, nil
	}

	err = s.store.ReadLikes(ctx, func(r repository.Repositories) error {
		ids, err := r.Films.ListIDs(ctx)
		if err != nil {
			return err
		}
		if ids, err = filterFilms(ctx, r, ids, q); err != nil {
			return err
		}

		counts, err := r.Likes.CountByFilm(ctx, nil)
		if err != nil {
			return err
		}
		sort.SliceStable(ids, func(i, j int) bool { return counts[ids[i]] > counts[ids[j]] })
		if q.Limit != nil && len(ids) > *q.Limit {
			ids = ids[:*q.Limit]
		}

		films, err = withLikeCounts(ctx, r, ids)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, gen, q.GenreID, q.Year, q.Limit, films)
	return films, nil
}

func filterFilms(ctx context.Context, r repository.Repositories, ids []uint, q PopularQuery) ([]uint, error) {
	if q.GenreID != nil {
		genres, err := r.Films.FilmGenres(ctx, ids)
		if err != nil {
			return nil, err
		}
		kept := make([]uint, 0, len(ids))
		for _, id := range ids {
			for _, g := range genres[id] {
				if g == *q.GenreID {
					kept = append(kept, id)
					break
				}
			}
		}
		ids = kept
	}
	if q.Year != nil {
		years, err := r.Films.ReleaseYears(ctx, ids)
		if err != nil {
			return nil, err
		}
		kept := make([]uint, 0, len(ids))
		for _, id := range ids {
			if years[id] == *q.Year {
				kept = append(kept, id)
			}
		}
		ids = kept
	}
	return ids, nil
}

// CommonFilms returns the films both users liked, most popular first.
func (s *PopularityService) CommonFilms(ctx context.Context, userID, friendID uint) (_ []models.Film, err error) {
	span, ctx := observability.NewSpan(ctx, "PopularityService.CommonFilms",
		observability.UserAttr(userID), observability.FriendAttr(friendID))
	defer func() { span.SetError(err); span.End() }()

	var films []models.Film
	err = s.store.ReadLikes(ctx, func(r repository.Repositories) error {
		if err := requireUser(ctx, r, userID); err != nil {
			return err
		}
		if err := requireUser(ctx, r, friendID); err != nil {
			return err
		}
		mine, err := r.Likes.FilmsLikedBy(ctx, userID)
		if err != nil {
			return err
		}
		theirs, err := r.Likes.FilmsLikedBy(ctx, friendID)
		if err != nil {
			return err
		}
		other := newIDSet(theirs...)
		shared := make([]uint, 0)
		for _, id := range mine {
			if other.has(id) {
				shared = append(shared, id)
			}
		}
		if len(shared) == 0 {
			films = []models.Film{}
			return nil
		}

		counts, err := r.Likes.CountByFilm(ctx, shared)
		if err != nil {
			return err
		}
		sort.SliceStable(shared, func(i, j int) bool { return counts[shared[i]] > counts[shared[j]] })
		films, err = withLikeCounts(ctx, r, shared)
		return err
	})
	return films, err
}
