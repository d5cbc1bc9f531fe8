package service

import (
	"context"
	"fmt"

	"filmorate/internal/models"
	"filmorate/internal/observability"
	"filmorate/internal/repository"
)

// FriendService maintains the directed friendship graph.
//
// Per ordered pair (A, B) an edge is absent, UNCONFIRMED (A asked, B has not
// answered) or CONFIRMED (both asked). Deleting an edge only ever removes the
// caller's own outgoing edge.
type FriendService struct {
	store RelationStore
}

// NewFriendService returns a new FriendService.
func NewFriendService(store RelationStore) *FriendService {
	return &FriendService{store: store}
}

// AddFriend creates the edge userID→friendID. If friendID already asked userID,
// both edges become CONFIRMED; otherwise the new edge is UNCONFIRMED.
// It returns userID with its outgoing edges after the change.
func (s *FriendService) AddFriend(ctx context.Context, userID, friendID uint) (_ *models.UserWithFriends, err error) {
	span, ctx := observability.NewSpan(ctx, "FriendService.AddFriend",
		observability.UserAttr(userID), observability.FriendAttr(friendID))
	defer func() { span.SetError(err); span.End() }()

	if userID == friendID {
		return nil, models.NewConflictError("A user cannot add themselves as a friend")
	}

	var transition string
	err = s.store.WithFriends(ctx, func(r repository.Repositories) error {
		if err := requireUser(ctx, r, userID); err != nil {
			return err
		}
		if err := requireUser(ctx, r, friendID); err != nil {
			return err
		}

		existing, err := r.Friends.GetEdge(ctx, userID, friendID)
		if err != nil {
			return err
		}
		if existing != nil {
			return models.NewConflictError(fmt.Sprintf("User %d is already a friend of or has already requested user %d", userID, friendID))
		}

		reverse, err := r.Friends.GetEdgeForUpdate(ctx, friendID, userID)
		if err != nil {
			return err
		}

		edge := &models.Friendship{UserID: userID, FriendID: friendID, Status: models.FriendshipStatusUnconfirmed}
		transition = "requested"
		if reverse != nil {
			if err := r.Friends.UpdateStatus(ctx, reverse.ID, models.FriendshipStatusConfirmed); err != nil {
				return err
			}
			edge.Status = models.FriendshipStatusConfirmed
			transition = "confirmed"
		}
		return r.Friends.Create(ctx, edge)
	})
	if err != nil {
		return nil, err
	}

	observability.FriendshipTransitions.WithLabelValues(transition).Inc()
	observability.LogServiceCall(ctx, "FriendService", "AddFriend", map[string]interface{}{
		"user_id":    userID,
		"friend_id":  friendID,
		"transition": transition,
	})
	return s.UserView(ctx, userID)
}

// DeleteFriend removes the edge userID→friendID. The reverse edge is left as is.
// A missing edge is NotFound.
func (s *FriendService) DeleteFriend(ctx context.Context, userID, friendID uint) (err error) {
	span, ctx := observability.NewSpan(ctx, "FriendService.DeleteFriend",
		observability.UserAttr(userID), observability.FriendAttr(friendID))
	defer func() { span.SetError(err); span.End() }()

	err = s.store.WithFriends(ctx, func(r repository.Repositories) error {
		if err := requireUser(ctx, r, userID); err != nil {
			return err
		}
		if err := requireUser(ctx, r, friendID); err != nil {
			return err
		}
		removed, err := r.Friends.Delete(ctx, userID, friendID)
		if err != nil {
			return err
		}
		if !removed {
			return models.NewNotFoundMessage(fmt.Sprintf("User %d has no friendship with user %d", userID, friendID))
		}
		return nil
	})
	if err != nil {
		return err
	}

	observability.FriendshipTransitions.WithLabelValues("removed").Inc()
	observability.LogServiceCall(ctx, "FriendService", "DeleteFriend", map[string]interface{}{
		"user_id":   userID,
		"friend_id": friendID,
	})
	return nil
}

func outgoingIDs(ctx context.Context, r repository.Repositories, userID uint) ([]uint, error) {
	edges, err := r.Friends.ListOutgoing(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(edges))
	for _, e := range edges {
		ids = append(ids, e.FriendID)
	}
	return ids, nil
}

// GetAllFriends returns every user the given user has an outgoing edge to, in either status.
func (s *FriendService) GetAllFriends(ctx context.Context, userID uint) ([]models.User, error) {
	var friends []models.User
	err := s.store.ReadFriends(ctx, func(r repository.Repositories) error {
		if err := requireUser(ctx, r, userID); err != nil {
			return err
		}
		ids, err := outgoingIDs(ctx, r, userID)
		if err != nil {
			return err
		}
		friends, err = r.Users.GetByIDs(ctx, ids)
		return err
	})
	return friends, err
}

// GetCommonFriends returns the users both given users have an outgoing edge to.
func (s *FriendService) GetCommonFriends(ctx context.Context, userID, otherID uint) ([]models.User, error) {
	var common []models.User
	err := s.store.ReadFriends(ctx, func(r repository.Repositories) error {
		if err := requireUser(ctx, r, userID); err != nil {
			return err
		}
		if err := requireUser(ctx, r, otherID); err != nil {
			return err
		}
		mine, err := outgoingIDs(ctx, r, userID)
		if err != nil {
			return err
		}
		theirs, err := outgoingIDs(ctx, r, otherID)
		if err != nil {
			return err
		}
		other := newIDSet(theirs...)
		shared := newIDSet()
		for _, id := range mine {
			if other.has(id) {
				shared[id] = struct{}{}
			}
		}
		common, err = r.Users.GetByIDs(ctx, shared.sorted())
		return err
	})
	return common, err
}

// GetFriendshipStatus returns the status of the edge userID→friendID, or NotFound.
func (s *FriendService) GetFriendshipStatus(ctx context.Context, userID, friendID uint) (models.FriendshipStatus, error) {
	var status models.FriendshipStatus
	err := s.store.ReadFriends(ctx, func(r repository.Repositories) error {
		edge, err := r.Friends.GetEdge(ctx, userID, friendID)
		if err != nil {
			return err
		}
		if edge == nil {
			return models.NewNotFoundMessage(fmt.Sprintf("User %d has no friendship with user %d", userID, friendID))
		}
		status = edge.Status
		return nil
	})
	return status, err
}

// UserView returns the user together with its outgoing edges.
func (s *FriendService) UserView(ctx context.Context, userID uint) (*models.UserWithFriends, error) {
	var view *models.UserWithFriends
	err := s.store.ReadFriends(ctx, func(r repository.Repositories) error {
		user, err := r.Users.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		edges, err := r.Friends.ListOutgoing(ctx, userID)
		if err != nil {
			return err
		}
		view = &models.UserWithFriends{User: *user, Friends: make(map[uint]models.FriendshipStatus, len(edges))}
		for _, e := range edges {
			view.Friends[e.FriendID] = e.Status
		}
		return nil
	})
	return view, err
}
