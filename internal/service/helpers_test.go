package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"filmorate/internal/database"
	"filmorate/internal/models"
	"filmorate/internal/repository"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type recordingCache struct {
	mu          sync.Mutex
	entries     map[string][]models.Film
	gen         int64
	invalidated int
}

func newRecordingCache() *recordingCache {
	return &recordingCache{entries: map[string][]models.Film{}}
}

func cacheKey(genreID *uint, year *int, limit *int) string {
	key := ""
	if genreID != nil {
		key += fmt.Sprintf("g%d", *genreID)
	}
	if year != nil {
		key += fmt.Sprintf("y%d", *year)
	}
	if limit != nil {
		key += fmt.Sprintf("l%d", *limit)
	}
	return key
}

func (c *recordingCache) Get(_ context.Context, genreID *uint, year *int, limit *int) ([]models.Film, int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	films, ok := c.entries[cacheKey(genreID, year, limit)]
	return films, c.gen, ok
}

func (c *recordingCache) Set(_ context.Context, gen int64, genreID *uint, year *int, limit *int, films []models.Film) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return
	}
	c.entries[cacheKey(genreID, year, limit)] = films
}

func (c *recordingCache) Invalidate(context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.invalidated++
	c.entries = map[string][]models.Film{}
}

func (c *recordingCache) invalidations() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.invalidated
}

type testEnv struct {
	db             *gorm.DB
	cache          *recordingCache
	likes          *LikeService
	friends        *FriendService
	similarity     *SimilarityService
	recommendation *RecommendationService
	popularity     *PopularityService
	users          *UserService
	films          *FilmService
	genres         *GenreService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.Migrate(db))

	store := repository.NewStore(db)
	c := newRecordingCache()
	popularity := NewPopularityService(store, c)
	popularity.now = func() time.Time { return time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC) }

	return &testEnv{
		db:             db,
		cache:          c,
		likes:          NewLikeService(store, c),
		friends:        NewFriendService(store),
		similarity:     NewSimilarityService(store),
		recommendation: NewRecommendationService(store),
		popularity:     popularity,
		users:          NewUserService(store, c),
		films:          NewFilmService(store, c),
		genres:         NewGenreService(store),
	}
}

// user creates a user with the given id.
func (e *testEnv) user(t *testing.T, id uint) models.User {
	t.Helper()
	u := models.User{
		ID:       id,
		Email:    fmt.Sprintf("user%d@example.com", id),
		Login:    fmt.Sprintf("user%d", id),
		Birthday: time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, e.users.CreateUser(context.Background(), &u))
	return u
}

// film creates a film with the given id, release year and genres.
func (e *testEnv) film(t *testing.T, id uint, year int, genreIDs ...uint) models.Film {
	t.Helper()
	f := models.Film{
		ID:          id,
		Name:        fmt.Sprintf("Film %d", id),
		ReleaseDate: time.Date(year, 5, 1, 0, 0, 0, 0, time.UTC),
		Duration:    120,
	}
	for _, g := range genreIDs {
		f.Genres = append(f.Genres, models.Genre{ID: g})
	}
	require.NoError(t, e.films.CreateFilm(context.Background(), &f))
	return f
}

func (e *testEnv) genre(t *testing.T, id uint, name string) {
	t.Helper()
	require.NoError(t, e.genres.CreateGenre(context.Background(), &models.Genre{ID: id, Name: name}))
}

func (e *testEnv) like(t *testing.T, userID uint, filmIDs ...uint) {
	t.Helper()
	for _, f := range filmIDs {
		require.NoError(t, e.likes.AddLike(context.Background(), userID, f))
	}
}

func filmIDs(films []models.Film) []uint {
	ids := make([]uint, 0, len(films))
	for _, f := range films {
		ids = append(ids, f.ID)
	}
	return ids
}

func userIDs(users []models.User) []uint {
	ids := make([]uint, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	return ids
}

func intPtr(v int) *int    { return &v }
func uintPtr(v uint) *uint { return &v }
