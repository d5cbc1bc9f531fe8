package seed

import (
	"context"
	"fmt"

	"filmorate/internal/middleware"
	"filmorate/internal/models"
	"filmorate/internal/repository"
	"filmorate/internal/service"

	"gorm.io/gorm"
)

// Options configuration for random seeding
type Options struct {
	NumUsers       int
	NumFilms       int
	NumGenres      int
	LikesPerUser   int
	FriendsPerUser int
	// Seed makes the generated data reproducible; zero picks a random seed.
	Seed int64
}

// Seeder writes data through the application services.
type Seeder struct {
	db      *gorm.DB
	users   *service.UserService
	films   *service.FilmService
	genres  *service.GenreService
	likes   *service.LikeService
	friends *service.FriendService
}

// NewSeeder creates a Seeder over db. cache may be nil; when set, seeded likes
// invalidate cached popularity rankings.
func NewSeeder(db *gorm.DB, cache service.PopularCache) *Seeder {
	store := repository.NewStore(db)
	return &Seeder{
		db:      db,
		users:   service.NewUserService(store, cache),
		films:   service.NewFilmService(store, cache),
		genres:  service.NewGenreService(store),
		likes:   service.NewLikeService(store, cache),
		friends: service.NewFriendService(store),
	}
}

// ClearAll removes every row, children first.
func (s *Seeder) ClearAll() error {
	tables := []interface{}{
		&models.Like{},
		&models.Friendship{},
		&models.FilmGenre{},
		&models.Film{},
		&models.Genre{},
		&models.User{},
	}
	for _, t := range tables {
		if err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(t).Error; err != nil {
			return fmt.Errorf("clear %T: %w", t, err)
		}
	}
	middleware.Logger.Info("database cleared")
	return nil
}

// SeedRandom generates users, genres and films with gofakeit and links them with
// random likes and friendship requests. Requests that happen to be reciprocated
// become confirmed friendships.
func (s *Seeder) SeedRandom(ctx context.Context, opts Options) error {
	f := NewFactory(opts.Seed)

	genreIDs := make([]uint, 0, opts.NumGenres)
	for _, name := range f.GenreNames(opts.NumGenres) {
		g := &models.Genre{Name: name}
		if err := s.genres.CreateGenre(ctx, g); err != nil {
			return fmt.Errorf("create genre: %w", err)
		}
		genreIDs = append(genreIDs, g.ID)
	}

	userIDs := make([]uint, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		u := f.BuildUser(i)
		if err := s.users.CreateUser(ctx, u); err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		userIDs = append(userIDs, u.ID)
	}

	filmIDs := make([]uint, 0, opts.NumFilms)
	for i := 0; i < opts.NumFilms; i++ {
		film := f.BuildFilm(genreIDs)
		if err := s.films.CreateFilm(ctx, film); err != nil {
			return fmt.Errorf("create film: %w", err)
		}
		filmIDs = append(filmIDs, film.ID)
	}

	for _, userID := range userIDs {
		for _, filmID := range f.Pick(filmIDs, opts.LikesPerUser) {
			if err := s.likes.AddLike(ctx, userID, filmID); err != nil {
				return fmt.Errorf("add like: %w", err)
			}
		}
	}

	requests := 0
	for _, userID := range userIDs {
		for _, friendID := range f.Pick(userIDs, opts.FriendsPerUser) {
			if friendID == userID {
				continue
			}
			_, err := s.friends.AddFriend(ctx, userID, friendID)
			if models.IsConflict(err) {
				continue
			}
			if err != nil {
				return fmt.Errorf("add friend: %w", err)
			}
			requests++
		}
	}

	middleware.Logger.Info("random seed complete",
		"users", len(userIDs), "films", len(filmIDs), "genres", len(genreIDs), "friend_requests", requests)
	return nil
}
