package repository

import (
	"context"

	"filmorate/internal/models"
	"filmorate/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LikeRepository persists the like relation between users and films.
type LikeRepository interface {
	// Add inserts the pair and reports whether a new row was written.
	Add(ctx context.Context, userID, filmID uint) (bool, error)
	// Remove deletes the pair and reports whether it existed.
	Remove(ctx context.Context, userID, filmID uint) (bool, error)
	FilmsLikedBy(ctx context.Context, userID uint) ([]uint, error)
	UsersWhoLiked(ctx context.Context, filmID uint) ([]uint, error)
	// OverlapCounts returns, for every user other than userID who liked at least
	// one of filmIDs, how many of filmIDs they liked.
	OverlapCounts(ctx context.Context, userID uint, filmIDs []uint) (map[uint]int, error)
	// CountByFilm returns like counts for filmIDs, or for every film when filmIDs is
	// empty. Films without likes are absent from the map.
	CountByFilm(ctx context.Context, filmIDs []uint) (map[uint]int, error)
	DeleteByUser(ctx context.Context, userID uint) (int64, error)
	DeleteByFilm(ctx context.Context, filmID uint) (int64, error)
}

type likeRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewLikeRepository returns a new LikeRepository implementation.
func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db, log: observability.NewRepoLogger("likes")}
}

func (r *likeRepository) Add(ctx context.Context, userID, filmID uint) (bool, error) {
	like := models.Like{UserID: userID, FilmID: filmID}
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&like)
	if result.Error != nil {
		r.log.LogError(ctx, result.Error, "create")
		return false, models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return false, nil
	}
	r.log.LogCreate(ctx, map[string]interface{}{"user_id": userID, "film_id": filmID})
	return true, nil
}

func (r *likeRepository) Remove(ctx context.Context, userID, filmID uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND film_id = ?", userID, filmID).
		Delete(&models.Like{})
	if result.Error != nil {
		r.log.LogError(ctx, result.Error, "delete")
		return false, models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return false, nil
	}
	r.log.LogDelete(ctx, map[string]interface{}{"user_id": userID, "film_id": filmID})
	return true, nil
}

func (r *likeRepository) FilmsLikedBy(ctx context.Context, userID uint) ([]uint, error) {
	defer observability.TrackQuery("films_liked_by", "likes")()
	ids := []uint{}
	if err := r.db.WithContext(ctx).Model(&models.Like{}).
		Where("user_id = ?", userID).
		Order("film_id").
		Pluck("film_id", &ids).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return ids, nil
}

func (r *likeRepository) UsersWhoLiked(ctx context.Context, filmID uint) ([]uint, error) {
	defer observability.TrackQuery("users_who_liked", "likes")()
	ids := []uint{}
	if err := r.db.WithContext(ctx).Model(&models.Like{}).
		Where("film_id = ?", filmID).
		Order("user_id").
		Pluck("user_id", &ids).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return ids, nil
}

type countRow struct {
	ID    uint
	Count int
}

func (r *likeRepository) OverlapCounts(ctx context.Context, userID uint, filmIDs []uint) (map[uint]int, error) {
	defer observability.TrackQuery("overlap_counts", "likes")()
	out := make(map[uint]int)
	if len(filmIDs) == 0 {
		return out, nil
	}
	var rows []countRow
	if err := r.db.WithContext(ctx).Model(&models.Like{}).
		Select("user_id AS id, COUNT(*) AS count").
		Where("film_id IN ? AND user_id <> ?", filmIDs, userID).
		Group("user_id").
		Scan(&rows).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	for _, row := range rows {
		out[row.ID] = row.Count
	}
	return out, nil
}

func (r *likeRepository) CountByFilm(ctx context.Context, filmIDs []uint) (map[uint]int, error) {
	defer observability.TrackQuery("count_by_film", "likes")()
	var rows []countRow
	query := r.db.WithContext(ctx).Model(&models.Like{}).Select("film_id AS id, COUNT(*) AS count")
	if len(filmIDs) > 0 {
		query = query.Where("film_id IN ?", filmIDs)
	}
	if err := query.Group("film_id").Scan(&rows).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	out := make(map[uint]int, len(rows))
	for _, row := range rows {
		out[row.ID] = row.Count
	}
	return out, nil
}

func (r *likeRepository) DeleteByUser(ctx context.Context, userID uint) (int64, error) {
	result := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Like{})
	if result.Error != nil {
		r.log.LogError(ctx, result.Error, "delete")
		return 0, models.NewInternalError(result.Error)
	}
	r.log.LogDelete(ctx, map[string]interface{}{"user_id": userID, "rows": result.RowsAffected})
	return result.RowsAffected, nil
}

func (r *likeRepository) DeleteByFilm(ctx context.Context, filmID uint) (int64, error) {
	result := r.db.WithContext(ctx).Where("film_id = ?", filmID).Delete(&models.Like{})
	if result.Error != nil {
		r.log.LogError(ctx, result.Error, "delete")
		return 0, models.NewInternalError(result.Error)
	}
	r.log.LogDelete(ctx, map[string]interface{}{"film_id": filmID, "rows": result.RowsAffected})
	return result.RowsAffected, nil
}
