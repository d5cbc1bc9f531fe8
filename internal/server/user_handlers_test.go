package server

import (
	"fmt"
	"net/http"
	"testing"

	"filmorate/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndGetUser(t *testing.T) {
	ts := newTestServer(t)

	var created models.User
	ts.decode(t, http.MethodPost, "/api/users", map[string]any{
		"email":    "ann@example.com",
		"login":    "ann",
		"birthday": "1991-02-03",
	}, http.StatusCreated, &created)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "ann", created.Name, "empty name defaults to login")

	var view models.UserWithFriends
	ts.decode(t, http.MethodGet, fmt.Sprintf("/api/users/%d", created.ID), nil, http.StatusOK, &view)
	assert.Equal(t, "ann@example.com", view.Email)
	assert.Empty(t, view.Friends)

	var all []models.User
	ts.decode(t, http.MethodGet, "/api/users", nil, http.StatusOK, &all)
	assert.Len(t, all, 1)
}

func TestCreateUser_Validation(t *testing.T) {
	ts := newTestServer(t)
	ts.createUser(t, "ann")

	tests := []struct {
		name string
		body map[string]any
		want int
	}{
		{"missing login", map[string]any{"email": "x@example.com"}, http.StatusBadRequest},
		{"login with space", map[string]any{"email": "x@example.com", "login": "a b"}, http.StatusBadRequest},
		{"bad birthday", map[string]any{"email": "x@example.com", "login": "x", "birthday": "03/02/1991"}, http.StatusBadRequest},
		{"future birthday", map[string]any{"email": "x@example.com", "login": "x", "birthday": "2999-01-01"}, http.StatusBadRequest},
		{"bad email", map[string]any{"email": "not-an-email", "login": "x", "birthday": "1991-02-03"}, http.StatusBadRequest},
		{"duplicate login", map[string]any{"email": "other@example.com", "login": "ann", "birthday": "1991-02-03"}, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := ts.do(t, http.MethodPost, "/api/users", tt.body)
			assert.Equal(t, tt.want, status, string(body))
		})
	}
}

func TestGetUser_Errors(t *testing.T) {
	ts := newTestServer(t)

	ts.expectStatus(t, http.MethodGet, "/api/users/abc", http.StatusBadRequest)
	ts.expectStatus(t, http.MethodGet, "/api/users/0", http.StatusBadRequest)
	ts.expectStatus(t, http.MethodGet, "/api/users/99", http.StatusNotFound)
	ts.expectStatus(t, http.MethodDelete, "/api/users/99", http.StatusNotFound)
}

func TestDeleteUser_Cascades(t *testing.T) {
	ts := newTestServer(t)
	a := ts.createUser(t, "a")
	b := ts.createUser(t, "b")
	film := ts.createFilm(t, "Heat", 1995)
	ts.like(t, a, film)
	ts.expectStatus(t, http.MethodPut, fmt.Sprintf("/api/users/%d/friends/%d", b, a), http.StatusOK)

	ts.expectStatus(t, http.MethodDelete, fmt.Sprintf("/api/users/%d", a), http.StatusNoContent)

	var likers []models.User
	ts.decode(t, http.MethodGet, fmt.Sprintf("/api/films/%d/likes", film), nil, http.StatusOK, &likers)
	assert.Empty(t, likers)

	var view models.UserWithFriends
	ts.decode(t, http.MethodGet, fmt.Sprintf("/api/users/%d", b), nil, http.StatusOK, &view)
	assert.Empty(t, view.Friends, "edges targeting the deleted user are gone")
}

func TestSimilarUsersAndRecommendations(t *testing.T) {
	ts := newTestServer(t)
	u1 := ts.createUser(t, "u1")
	u2 := ts.createUser(t, "u2")
	u3 := ts.createUser(t, "u3")
	var films []uint
	for i := 1; i <= 5; i++ {
		films = append(films, ts.createFilm(t, fmt.Sprintf("Film %d", i), 2000+i))
	}

	ts.like(t, u1, films[0], films[1], films[2])
	ts.like(t, u2, films[0], films[1], films[3])
	ts.like(t, u3, films[0], films[4])

	var similar []models.User
	ts.decode(t, http.MethodGet, fmt.Sprintf("/api/users/%d/similar", u1), nil, http.StatusOK, &similar)
	require.Len(t, similar, 1)
	assert.Equal(t, u2, similar[0].ID)

	var recs []idRecord
	ts.decode(t, http.MethodGet, fmt.Sprintf("/api/users/%d/recommendations", u1), nil, http.StatusOK, &recs)
	assert.Equal(t, []uint{films[3]}, ids(recs))

	var liked []idRecord
	ts.decode(t, http.MethodGet, fmt.Sprintf("/api/users/%d/likes", u3), nil, http.StatusOK, &liked)
	assert.Equal(t, []uint{films[0], films[4]}, ids(liked))

	ts.expectStatus(t, http.MethodGet, "/api/users/99/similar", http.StatusNotFound)
	ts.expectStatus(t, http.MethodGet, "/api/users/99/recommendations", http.StatusNotFound)
}

func TestSimilarUsers_NoLikesIsEmpty(t *testing.T) {
	ts := newTestServer(t)
	u1 := ts.createUser(t, "u1")

	var similar []models.User
	ts.decode(t, http.MethodGet, fmt.Sprintf("/api/users/%d/similar", u1), nil, http.StatusOK, &similar)
	assert.Empty(t, similar)

	var recs []idRecord
	ts.decode(t, http.MethodGet, fmt.Sprintf("/api/users/%d/recommendations", u1), nil, http.StatusOK, &recs)
	assert.Empty(t, recs)
}

func TestUpdateUser(t *testing.T) {
	ts := newTestServer(t)
	a := ts.createUser(t, "ann")
	ts.createUser(t, "bob")

	var updated models.User
	ts.decode(t, http.MethodPut, fmt.Sprintf("/api/users/%d", a), map[string]any{
		"email":    "anna@example.com",
		"login":    "anna",
		"name":     "Anna K.",
		"birthday": "1989-12-01",
	}, http.StatusOK, &updated)
	assert.Equal(t, a, updated.ID)
	assert.Equal(t, "Anna K.", updated.Name)

	var view models.UserWithFriends
	ts.decode(t, http.MethodGet, fmt.Sprintf("/api/users/%d", a), nil, http.StatusOK, &view)
	assert.Equal(t, "anna@example.com", view.Email)
	assert.Equal(t, "anna", view.Login)

	tests := []struct {
		name string
		path string
		body map[string]any
		want int
	}{
		{"bad id", "/api/users/abc", map[string]any{"email": "x@example.com", "login": "x", "birthday": "1990-01-01"}, http.StatusBadRequest},
		{"unknown user", "/api/users/99", map[string]any{"email": "x@example.com", "login": "x", "birthday": "1990-01-01"}, http.StatusNotFound},
		{"bad birthday", fmt.Sprintf("/api/users/%d", a), map[string]any{"email": "x@example.com", "login": "x", "birthday": "1.1.1990"}, http.StatusBadRequest},
		{"login taken", fmt.Sprintf("/api/users/%d", a), map[string]any{"email": "x@example.com", "login": "bob", "birthday": "1990-01-01"}, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := ts.do(t, http.MethodPut, tt.path, tt.body)
			assert.Equal(t, tt.want, status, string(body))
		})
	}
}
