package service

import (
	"context"
	"sync"
	"testing"

	"filmorate/internal/models"
	"filmorate/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// untouchedStore fails the test if any relation access happens.
type untouchedStore struct{ t *testing.T }

func (s untouchedStore) fail() error {
	s.t.Fatal("store must not be touched")
	return nil
}
func (s untouchedStore) Repositories() repository.Repositories {
	_ = s.fail()
	return repository.Repositories{}
}
func (s untouchedStore) WithLikes(context.Context, func(repository.Repositories) error) error {
	return s.fail()
}
func (s untouchedStore) WithFriends(context.Context, func(repository.Repositories) error) error {
	return s.fail()
}
func (s untouchedStore) WithRelations(context.Context, func(repository.Repositories) error) error {
	return s.fail()
}
func (s untouchedStore) ReadLikes(context.Context, func(repository.Repositories) error) error {
	return s.fail()
}
func (s untouchedStore) ReadFriends(context.Context, func(repository.Repositories) error) error {
	return s.fail()
}

func TestFriendService_AddFriendSelfIsConflict(t *testing.T) {
	svc := NewFriendService(untouchedStore{t})
	for _, id := range []uint{1, 2, 999} {
		_, err := svc.AddFriend(context.Background(), id, id)
		assert.True(t, models.IsConflict(err), "user %d", id)
	}
}

func TestFriendService_RequestThenConfirm(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.user(t, 1)
	env.user(t, 2)

	view, err := env.friends.AddFriend(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, uint(1), view.ID)
	assert.Equal(t, map[uint]models.FriendshipStatus{2: models.FriendshipStatusUnconfirmed}, view.Friends)

	_, err = env.friends.GetFriendshipStatus(ctx, 2, 1)
	assert.True(t, models.IsNotFound(err), "a one-sided request creates no reverse edge")

	view, err = env.friends.AddFriend(ctx, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, models.FriendshipStatusConfirmed, view.Friends[1])

	status, err := env.friends.GetFriendshipStatus(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, models.FriendshipStatusConfirmed, status)
	status, err = env.friends.GetFriendshipStatus(ctx, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, models.FriendshipStatusConfirmed, status)
}

func TestFriendService_DuplicateRequestIsConflict(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.user(t, 1)
	env.user(t, 2)

	_, err := env.friends.AddFriend(ctx, 1, 2)
	require.NoError(t, err)
	_, err = env.friends.AddFriend(ctx, 1, 2)
	assert.True(t, models.IsConflict(err))

	_, err = env.friends.AddFriend(ctx, 2, 1)
	require.NoError(t, err)
	_, err = env.friends.AddFriend(ctx, 2, 1)
	assert.True(t, models.IsConflict(err), "already friends")
}

func TestFriendService_AddFriendUnknownUser(t *testing.T) {
	env := newTestEnv(t)
	env.user(t, 1)

	_, err := env.friends.AddFriend(context.Background(), 1, 42)
	assert.True(t, models.IsNotFound(err))
	_, err = env.friends.AddFriend(context.Background(), 42, 1)
	assert.True(t, models.IsNotFound(err))
}

func TestFriendService_DeleteFriendIsOwnerOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.user(t, 1)
	env.user(t, 2)
	_, err := env.friends.AddFriend(ctx, 1, 2)
	require.NoError(t, err)
	_, err = env.friends.AddFriend(ctx, 2, 1)
	require.NoError(t, err)

	require.NoError(t, env.friends.DeleteFriend(ctx, 1, 2))

	_, err = env.friends.GetFriendshipStatus(ctx, 1, 2)
	assert.True(t, models.IsNotFound(err))
	status, err := env.friends.GetFriendshipStatus(ctx, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, models.FriendshipStatusConfirmed, status, "the reverse edge survives")

	assert.True(t, models.IsNotFound(env.friends.DeleteFriend(ctx, 1, 2)), "deleting a missing edge is NotFound")
}

func TestFriendService_FriendsAndCommonFriends(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	for id := uint(1); id <= 4; id++ {
		env.user(t, id)
	}
	for _, pair := range [][2]uint{{1, 3}, {1, 4}, {2, 3}, {2, 4}, {4, 1}} {
		_, err := env.friends.AddFriend(ctx, pair[0], pair[1])
		require.NoError(t, err)
	}

	friends, err := env.friends.GetAllFriends(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []uint{3, 4}, userIDs(friends), "outgoing edges in any status")

	common, err := env.friends.GetCommonFriends(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, []uint{3, 4}, userIDs(common))

	common, err = env.friends.GetCommonFriends(ctx, 1, 3)
	require.NoError(t, err)
	assert.Empty(t, common)

	_, err = env.friends.GetAllFriends(ctx, 99)
	assert.True(t, models.IsNotFound(err))
}

func TestFriendService_UserDeletionCascades(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.user(t, 1)
	env.user(t, 2)
	env.user(t, 3)
	_, err := env.friends.AddFriend(ctx, 1, 2)
	require.NoError(t, err)
	_, err = env.friends.AddFriend(ctx, 3, 2)
	require.NoError(t, err)
	_, err = env.friends.AddFriend(ctx, 2, 3)
	require.NoError(t, err)

	require.NoError(t, env.users.DeleteUser(ctx, 2))

	friends, err := env.friends.GetAllFriends(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, friends)
	friends, err = env.friends.GetAllFriends(ctx, 3)
	require.NoError(t, err)
	assert.Empty(t, friends)

	var count int64
	require.NoError(t, env.db.Model(&models.Friendship{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestFriendService_ConcurrentReciprocationStaysSymmetric(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.user(t, 1)
	env.user(t, 2)

	var wg sync.WaitGroup
	for _, pair := range [][2]uint{{1, 2}, {2, 1}} {
		wg.Add(1)
		go func(a, b uint) {
			defer wg.Done()
			_, err := env.friends.AddFriend(ctx, a, b)
			assert.NoError(t, err)
		}(pair[0], pair[1])
	}
	wg.Wait()

	for _, pair := range [][2]uint{{1, 2}, {2, 1}} {
		status, err := env.friends.GetFriendshipStatus(ctx, pair[0], pair[1])
		require.NoError(t, err)
		assert.Equal(t, models.FriendshipStatusConfirmed, status)
	}
}
