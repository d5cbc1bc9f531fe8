package service

import (
	"context"
	"strings"
	"time"

	"filmorate/internal/models"
	"filmorate/internal/observability"
	"filmorate/internal/repository"
	"filmorate/internal/validation"
)

// UserService manages user records and the relation cascades of user deletion.
type UserService struct {
	store RelationStore
	cache PopularCache
}

// NewUserService returns a new UserService.
func NewUserService(store RelationStore, cache PopularCache) *UserService {
	return &UserService{store: store, cache: orNoopCache(cache)}
}

// normalizeUser trims and validates the editable fields. An empty name defaults to the login.
func normalizeUser(user *models.User) error {
	user.Email = strings.TrimSpace(user.Email)
	user.Login = strings.TrimSpace(user.Login)
	for _, err := range []error{
		validation.ValidateEmail(user.Email),
		validation.ValidateLogin(user.Login),
		validation.ValidateBirthday(user.Birthday, time.Now()),
	} {
		if err != nil {
			return models.NewInvalidArgumentError(err.Error())
		}
	}
	if strings.TrimSpace(user.Name) == "" {
		user.Name = user.Login
	}
	return nil
}

// CreateUser stores a new user. An empty name defaults to the login.
func (s *UserService) CreateUser(ctx context.Context, user *models.User) error {
	if err := normalizeUser(user); err != nil {
		return err
	}
	return s.store.Repositories().Users.Create(ctx, user)
}

// UpdateUser replaces the email, login, name and birthday of an existing user
// and reloads it into user.
func (s *UserService) UpdateUser(ctx context.Context, user *models.User) error {
	if user.ID == 0 {
		return models.NewInvalidArgumentError("user id is required")
	}
	if err := normalizeUser(user); err != nil {
		return err
	}
	repos := s.store.Repositories()
	if err := repos.Users.Update(ctx, user); err != nil {
		return err
	}
	updated, err := repos.Users.GetByID(ctx, user.ID)
	if err != nil {
		return err
	}
	*user = *updated
	return nil
}

func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	return s.store.Repositories().Users.GetByID(ctx, id)
}

func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.store.Repositories().Users.List(ctx)
}

// GetUsers returns the users with the given ids, ascending by id.
func (s *UserService) GetUsers(ctx context.Context, ids []uint) ([]models.User, error) {
	return s.store.Repositories().Users.GetByIDs(ctx, ids)
}

// DeleteUser removes the user with every like it made and every friendship edge
// it owns or is the target of.
func (s *UserService) DeleteUser(ctx context.Context, id uint) error {
	var likes, edges int64
	err := s.store.WithRelations(ctx, func(r repository.Repositories) error {
		if err := requireUser(ctx, r, id); err != nil {
			return err
		}
		var err error
		if likes, err = r.Likes.DeleteByUser(ctx, id); err != nil {
			return err
		}
		if edges, err = r.Friends.DeleteByUser(ctx, id); err != nil {
			return err
		}
		return r.Users.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	observability.LogServiceCall(ctx, "UserService", "DeleteUser", map[string]interface{}{
		"user_id":       id,
		"likes_removed": likes,
		"edges_removed": edges,
	})
	if likes > 0 {
		s.cache.Invalidate(ctx)
	}
	return nil
}
