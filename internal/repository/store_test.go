package repository

import (
	"context"
	"errors"
	"sync"
	"testing"

	"filmorate/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_LikeRelation(t *testing.T) {
	db := setupSQLiteDB(t)
	store := NewStore(db)
	ctx := context.Background()
	users := seedUsers(t, db, 3)
	heat := seedFilm(t, db, "Heat", 1995)
	ran := seedFilm(t, db, "Ran", 1985)

	err := store.WithLikes(ctx, func(r Repositories) error {
		for _, pair := range [][2]uint{{users[0].ID, heat.ID}, {users[0].ID, ran.ID}, {users[1].ID, heat.ID}} {
			created, err := r.Likes.Add(ctx, pair[0], pair[1])
			if err != nil {
				return err
			}
			assert.True(t, created)
		}
		created, err := r.Likes.Add(ctx, users[0].ID, heat.ID)
		assert.False(t, created)
		return err
	})
	require.NoError(t, err)

	err = store.ReadLikes(ctx, func(r Repositories) error {
		films, err := r.Likes.FilmsLikedBy(ctx, users[0].ID)
		require.NoError(t, err)
		assert.Equal(t, []uint{heat.ID, ran.ID}, films)

		likers, err := r.Likes.UsersWhoLiked(ctx, heat.ID)
		require.NoError(t, err)
		assert.Equal(t, []uint{users[0].ID, users[1].ID}, likers)

		overlap, err := r.Likes.OverlapCounts(ctx, users[0].ID, films)
		require.NoError(t, err)
		assert.Equal(t, map[uint]int{users[1].ID: 1}, overlap)

		counts, err := r.Likes.CountByFilm(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, map[uint]int{heat.ID: 2, ran.ID: 1}, counts)

		counts, err = r.Likes.CountByFilm(ctx, []uint{ran.ID})
		require.NoError(t, err)
		assert.Equal(t, map[uint]int{ran.ID: 1}, counts)

		none, err := r.Likes.FilmsLikedBy(ctx, users[2].ID)
		require.NoError(t, err)
		assert.Empty(t, none)
		return nil
	})
	require.NoError(t, err)
}

func TestStore_RollsBackOnError(t *testing.T) {
	db := setupSQLiteDB(t)
	store := NewStore(db)
	ctx := context.Background()
	users := seedUsers(t, db, 1)
	film := seedFilm(t, db, "Stalker", 1979)

	boom := errors.New("boom")
	err := store.WithLikes(ctx, func(r Repositories) error {
		if _, err := r.Likes.Add(ctx, users[0].ID, film.ID); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var count int64
	require.NoError(t, db.Model(&models.Like{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestStore_FriendEdges(t *testing.T) {
	db := setupSQLiteDB(t)
	store := NewStore(db)
	ctx := context.Background()
	users := seedUsers(t, db, 3)
	a, b, c := users[0].ID, users[1].ID, users[2].ID

	require.NoError(t, store.WithFriends(ctx, func(r Repositories) error {
		if err := r.Friends.Create(ctx, &models.Friendship{UserID: a, FriendID: b, Status: models.FriendshipStatusUnconfirmed}); err != nil {
			return err
		}
		if err := r.Friends.Create(ctx, &models.Friendship{UserID: c, FriendID: a, Status: models.FriendshipStatusUnconfirmed}); err != nil {
			return err
		}
		edge, err := r.Friends.GetEdgeForUpdate(ctx, a, b)
		if err != nil {
			return err
		}
		return r.Friends.UpdateStatus(ctx, edge.ID, models.FriendshipStatusConfirmed)
	}))

	err := store.WithFriends(ctx, func(r Repositories) error {
		return r.Friends.Create(ctx, &models.Friendship{UserID: a, FriendID: b, Status: models.FriendshipStatusUnconfirmed})
	})
	assert.True(t, models.IsConflict(err), "duplicate ordered pair violates the unique index")

	require.NoError(t, store.ReadFriends(ctx, func(r Repositories) error {
		out, err := r.Friends.ListOutgoing(ctx, a)
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, b, out[0].FriendID)
		assert.Equal(t, models.FriendshipStatusConfirmed, out[0].Status)
		return nil
	}))

	require.NoError(t, store.WithRelations(ctx, func(r Repositories) error {
		n, err := r.Friends.DeleteByUser(ctx, a)
		assert.EqualValues(t, 2, n)
		return err
	}))

	require.NoError(t, store.ReadFriends(ctx, func(r Repositories) error {
		edge, err := r.Friends.GetEdge(ctx, c, a)
		assert.Nil(t, edge)
		return err
	}))
}

func TestStore_ConcurrentAddsKeepPairsUnique(t *testing.T) {
	db := setupSQLiteDB(t)
	store := NewStore(db)
	ctx := context.Background()
	users := seedUsers(t, db, 1)
	film := seedFilm(t, db, "Solaris", 1972)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, store.WithLikes(ctx, func(r Repositories) error {
				_, err := r.Likes.Add(ctx, users[0].ID, film.ID)
				return err
			}))
		}()
	}
	wg.Wait()

	var count int64
	require.NoError(t, db.Model(&models.Like{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestFilmRepository_Lookups(t *testing.T) {
	db := setupSQLiteDB(t)
	repos := NewStore(db).Repositories()
	ctx := context.Background()

	drama := models.Genre{Name: "Drama"}
	crime := models.Genre{Name: "Crime"}
	require.NoError(t, repos.Genres.Create(ctx, &drama))
	require.NoError(t, repos.Genres.Create(ctx, &crime))
	assert.True(t, models.IsConflict(repos.Genres.Create(ctx, &models.Genre{Name: "Drama"})))

	heat := seedFilm(t, db, "Heat", 1995, crime, drama)
	ran := seedFilm(t, db, "Ran", 1985, drama)
	plain := seedFilm(t, db, "Untitled", 2001)

	ids, err := repos.Films.ListIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uint{heat.ID, ran.ID, plain.ID}, ids)

	genres, err := repos.Films.FilmGenres(ctx, ids)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{drama.ID, crime.ID}, genres[heat.ID])
	assert.Equal(t, []uint{drama.ID}, genres[ran.ID])
	assert.NotContains(t, genres, plain.ID)

	years, err := repos.Films.ReleaseYears(ctx, ids)
	require.NoError(t, err)
	assert.Equal(t, map[uint]int{heat.ID: 1995, ran.ID: 1985, plain.ID: 2001}, years)

	films, err := repos.Films.LookupFilms(ctx, []uint{ran.ID, heat.ID})
	require.NoError(t, err)
	require.Len(t, films, 2)
	assert.Equal(t, heat.ID, films[0].ID)
	assert.Len(t, films[0].Genres, 2)

	require.NoError(t, repos.Films.Delete(ctx, heat.ID))
	assert.True(t, models.IsNotFound(repos.Films.Delete(ctx, heat.ID)))
	genres, err = repos.Films.FilmGenres(ctx, []uint{heat.ID})
	require.NoError(t, err)
	assert.Empty(t, genres)
}

func TestUserRepository_CreateDuplicateIsConflict(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.User{Email: "a@example.com", Login: "a"}))
	err := repo.Create(ctx, &models.User{Email: "a@example.com", Login: "b"})
	assert.True(t, models.IsConflict(err))

	ok, err := repo.Exists(ctx, 1)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, repo.Delete(ctx, 1))
	assert.True(t, models.IsNotFound(repo.Delete(ctx, 1)))
}
