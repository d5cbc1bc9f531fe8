package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"filmorate/internal/config"
	"filmorate/internal/database"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testServer struct {
	server *Server
	app    *fiber.App
	redis  *miniredis.Miniredis
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	t.Setenv("APP_ENV", "test")

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

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := &config.Config{
		Port:                   "0",
		Env:                    "test",
		PopularCacheTTLSeconds: 60,
		RateLimitPerMinute:     10000,
	}
	s, err := NewServerWithDeps(cfg, db, rdb)
	require.NoError(t, err)

	return &testServer{server: s, app: s.App(), redis: mr}
}

// do sends a request and returns the status with the raw body.
func (ts *testServer) do(t *testing.T, method, path string, body any) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := ts.app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

// decode sends a request, asserts the status and unmarshals the body into out.
func (ts *testServer) decode(t *testing.T, method, path string, body any, wantStatus int, out any) {
	t.Helper()
	status, data := ts.do(t, method, path, body)
	require.Equal(t, wantStatus, status, string(data))
	if out != nil {
		require.NoError(t, json.Unmarshal(data, out))
	}
}

func (ts *testServer) expectStatus(t *testing.T, method, path string, want int) {
	t.Helper()
	status, data := ts.do(t, method, path, nil)
	assert.Equal(t, want, status, string(data))
}

func (ts *testServer) createUser(t *testing.T, login string) uint {
	t.Helper()
	var out struct {
		ID uint `json:"id"`
	}
	ts.decode(t, http.MethodPost, "/api/users", map[string]any{
		"email":    login + "@example.com",
		"login":    login,
		"birthday": "1990-05-17",
	}, http.StatusCreated, &out)
	return out.ID
}

func (ts *testServer) createGenre(t *testing.T, name string) uint {
	t.Helper()
	var out struct {
		ID uint `json:"id"`
	}
	ts.decode(t, http.MethodPost, "/api/genres", map[string]any{"name": name}, http.StatusCreated, &out)
	return out.ID
}

func (ts *testServer) createFilm(t *testing.T, name string, year int, genreIDs ...uint) uint {
	t.Helper()
	genres := make([]map[string]any, 0, len(genreIDs))
	for _, id := range genreIDs {
		genres = append(genres, map[string]any{"id": id})
	}
	var out struct {
		ID uint `json:"id"`
	}
	ts.decode(t, http.MethodPost, "/api/films", map[string]any{
		"name":         name,
		"description":  "A film called " + name,
		"release_date": fmt.Sprintf("%d-06-01", year),
		"duration":     100,
		"genres":       genres,
	}, http.StatusCreated, &out)
	return out.ID
}

func (ts *testServer) like(t *testing.T, userID uint, filmIDs ...uint) {
	t.Helper()
	for _, filmID := range filmIDs {
		ts.expectStatus(t, http.MethodPut, fmt.Sprintf("/api/films/%d/like/%d", filmID, userID), http.StatusNoContent)
	}
}

type idRecord struct {
	ID         uint `json:"id"`
	LikesCount int  `json:"likes_count"`
}

func ids(records []idRecord) []uint {
	out := make([]uint, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}
