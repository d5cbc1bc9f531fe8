package repository

import (
	"testing"
	"time"

	"filmorate/internal/database"
	"filmorate/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	return gormDB, mock
}

// setupSQLiteDB returns a migrated in-memory database. A single connection keeps
// every query on the same :memory: database.
func setupSQLiteDB(t *testing.T) *gorm.DB {
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
	return db
}

func seedUsers(t *testing.T, db *gorm.DB, n int) []models.User {
	t.Helper()
	users := make([]models.User, 0, n)
	for i := 1; i <= n; i++ {
		u := models.User{
			Email:    "user" + string(rune('a'+i)) + "@example.com",
			Login:    "user" + string(rune('a'+i)),
			Name:     "User",
			Birthday: time.Date(1990, 1, i, 0, 0, 0, 0, time.UTC),
		}
		require.NoError(t, db.Create(&u).Error)
		users = append(users, u)
	}
	return users
}

func seedFilm(t *testing.T, db *gorm.DB, name string, year int, genres ...models.Genre) models.Film {
	t.Helper()
	f := models.Film{
		Name:        name,
		ReleaseDate: time.Date(year, 6, 1, 0, 0, 0, 0, time.UTC),
		Duration:    100,
		Genres:      genres,
	}
	require.NoError(t, db.Omit("Genres.*").Create(&f).Error)
	return f
}
