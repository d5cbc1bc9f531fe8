package repository

import (
	"context"
	"errors"

	"filmorate/internal/models"
	"filmorate/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FriendRepository persists directed friendship edges.
type FriendRepository interface {
	// GetEdge returns the owner→target edge, or nil when there is none.
	GetEdge(ctx context.Context, ownerID, targetID uint) (*models.Friendship, error)
	// GetEdgeForUpdate is GetEdge with a row lock held until the transaction ends.
	GetEdgeForUpdate(ctx context.Context, ownerID, targetID uint) (*models.Friendship, error)
	Create(ctx context.Context, friendship *models.Friendship) error
	UpdateStatus(ctx context.Context, friendshipID uint, status models.FriendshipStatus) error
	// Delete removes the owner→target edge and reports whether it existed.
	Delete(ctx context.Context, ownerID, targetID uint) (bool, error)
	ListOutgoing(ctx context.Context, ownerID uint) ([]models.Friendship, error)
	// DeleteByUser removes every edge the user owns or is the target of.
	DeleteByUser(ctx context.Context, userID uint) (int64, error)
}

type friendRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewFriendRepository creates a new friend repository
func NewFriendRepository(db *gorm.DB) FriendRepository {
	return &friendRepository{db: db, log: observability.NewRepoLogger("friendships")}
}

func (r *friendRepository) getEdge(db *gorm.DB, ownerID, targetID uint) (*models.Friendship, error) {
	var friendship models.Friendship
	if err := db.Where("user_id = ? AND friend_id = ?", ownerID, targetID).First(&friendship).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &friendship, nil
}

func (r *friendRepository) GetEdge(ctx context.Context, ownerID, targetID uint) (*models.Friendship, error) {
	return r.getEdge(r.db.WithContext(ctx), ownerID, targetID)
}

func (r *friendRepository) GetEdgeForUpdate(ctx context.Context, ownerID, targetID uint) (*models.Friendship, error) {
	return r.getEdge(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), ownerID, targetID)
}

func (r *friendRepository) Create(ctx context.Context, friendship *models.Friendship) error {
	if err := r.db.WithContext(ctx).Create(friendship).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.NewConflictError("friend request already exists")
		}
		r.log.LogError(ctx, err, "create")
		return models.NewInternalError(err)
	}
	r.log.LogCreate(ctx, map[string]interface{}{
		"user_id":   friendship.UserID,
		"friend_id": friendship.FriendID,
		"status":    friendship.Status,
	})
	return nil
}

func (r *friendRepository) UpdateStatus(ctx context.Context, friendshipID uint, status models.FriendshipStatus) error {
	if err := r.db.WithContext(ctx).
		Model(&models.Friendship{}).
		Where("id = ?", friendshipID).
		Update("status", status).Error; err != nil {
		r.log.LogError(ctx, err, "update")
		return models.NewInternalError(err)
	}
	r.log.LogUpdate(ctx, map[string]interface{}{"friendship_id": friendshipID, "status": status})
	return nil
}

func (r *friendRepository) Delete(ctx context.Context, ownerID, targetID uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND friend_id = ?", ownerID, targetID).
		Delete(&models.Friendship{})
	if result.Error != nil {
		r.log.LogError(ctx, result.Error, "delete")
		return false, models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return false, nil
	}
	r.log.LogDelete(ctx, map[string]interface{}{"user_id": ownerID, "friend_id": targetID})
	return true, nil
}

func (r *friendRepository) ListOutgoing(ctx context.Context, ownerID uint) ([]models.Friendship, error) {
	defer observability.TrackQuery("list_outgoing", "friendships")()
	friendships := []models.Friendship{}
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("friend_id").
		Find(&friendships).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return friendships, nil
}

func (r *friendRepository) DeleteByUser(ctx context.Context, userID uint) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? OR friend_id = ?", userID, userID).
		Delete(&models.Friendship{})
	if result.Error != nil {
		r.log.LogError(ctx, result.Error, "delete")
		return 0, models.NewInternalError(result.Error)
	}
	r.log.LogDelete(ctx, map[string]interface{}{"user_id": userID, "rows": result.RowsAffected})
	return result.RowsAffected, nil
}
