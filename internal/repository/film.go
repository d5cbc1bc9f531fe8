package repository

import (
	"context"
	"errors"

	"filmorate/internal/models"
	"filmorate/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FilmRepository defines persistence operations for films and the film lookups
// the ranking engine filters on.
type FilmRepository interface {
	Exists(ctx context.Context, id uint) (bool, error)
	GetByID(ctx context.Context, id uint) (*models.Film, error)
	LookupFilms(ctx context.Context, ids []uint) ([]models.Film, error)
	List(ctx context.Context) ([]models.Film, error)
	ListIDs(ctx context.Context) ([]uint, error)
	FilmGenres(ctx context.Context, ids []uint) (map[uint][]uint, error)
	ReleaseYears(ctx context.Context, ids []uint) (map[uint]int, error)
	Create(ctx context.Context, film *models.Film) error
	Update(ctx context.Context, film *models.Film) error
	Delete(ctx context.Context, id uint) error
}

type filmRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewFilmRepository returns a new FilmRepository implementation.
func NewFilmRepository(db *gorm.DB) FilmRepository {
	return &filmRepository{db: db, log: observability.NewRepoLogger("films")}
}

func (r *filmRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Film{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *filmRepository) GetByID(ctx context.Context, id uint) (*models.Film, error) {
	var film models.Film
	if err := r.db.WithContext(ctx).Preload("Genres").First(&film, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Film", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &film, nil
}

// LookupFilms materialises film records for the given ids, ordered by id.
func (r *filmRepository) LookupFilms(ctx context.Context, ids []uint) ([]models.Film, error) {
	defer observability.TrackQuery("lookup_films", "films")()
	films := make([]models.Film, 0, len(ids))
	if len(ids) == 0 {
		return films, nil
	}
	if err := r.db.WithContext(ctx).Preload("Genres").Where("id IN ?", ids).Order("id").Find(&films).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return films, nil
}

func (r *filmRepository) List(ctx context.Context) ([]models.Film, error) {
	var films []models.Film
	if err := r.db.WithContext(ctx).Preload("Genres").Order("id").Find(&films).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return films, nil
}

// ListIDs returns every film id in ascending order.
func (r *filmRepository) ListIDs(ctx context.Context) ([]uint, error) {
	defer observability.TrackQuery("list_ids", "films")()
	var ids []uint
	if err := r.db.WithContext(ctx).Model(&models.Film{}).Order("id").Pluck("id", &ids).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return ids, nil
}

// FilmGenres returns the genre ids attached to each of the given films.
// Films without genres are absent from the map.
func (r *filmRepository) FilmGenres(ctx context.Context, ids []uint) (map[uint][]uint, error) {
	defer observability.TrackQuery("film_genres", "films")()
	out := make(map[uint][]uint)
	if len(ids) == 0 {
		return out, nil
	}
	var rows []models.FilmGenre
	if err := r.db.WithContext(ctx).Where("film_id IN ?", ids).Order("film_id, genre_id").Find(&rows).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	for _, row := range rows {
		out[row.FilmID] = append(out[row.FilmID], row.GenreID)
	}
	return out, nil
}

// ReleaseYears returns the release year of each of the given films.
func (r *filmRepository) ReleaseYears(ctx context.Context, ids []uint) (map[uint]int, error) {
	defer observability.TrackQuery("release_years", "films")()
	out := make(map[uint]int, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []models.Film
	if err := r.db.WithContext(ctx).Select("id", "release_date").Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	for _, f := range rows {
		out[f.ID] = f.ReleaseDate.Year()
	}
	return out, nil
}

// Create inserts the film and its film_genres rows. Genres must already exist.
func (r *filmRepository) Create(ctx context.Context, film *models.Film) error {
	if err := r.db.WithContext(ctx).Omit("Genres.*").Create(film).Error; err != nil {
		r.log.LogError(ctx, err, "create")
		return models.NewInternalError(err)
	}
	r.log.LogCreate(ctx, map[string]interface{}{"film_id": film.ID, "genres": film.GenreIDs()})
	return nil
}

// Update overwrites the film's fields and replaces its genre links with film.Genres.
// Run it inside a transaction so the links never reflect half an update.
func (r *filmRepository) Update(ctx context.Context, film *models.Film) error {
	db := r.db.WithContext(ctx)
	result := db.Model(film).
		Select("name", "description", "release_date", "duration", "updated_at").
		Omit(clause.Associations).
		Updates(film)
	if result.Error != nil {
		r.log.LogError(ctx, result.Error, "update")
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Film", film.ID)
	}

	if err := db.Where("film_id = ?", film.ID).Delete(&models.FilmGenre{}).Error; err != nil {
		r.log.LogError(ctx, err, "update")
		return models.NewInternalError(err)
	}
	if len(film.Genres) > 0 {
		links := make([]models.FilmGenre, 0, len(film.Genres))
		for _, g := range film.Genres {
			links = append(links, models.FilmGenre{FilmID: film.ID, GenreID: g.ID})
		}
		if err := db.Create(&links).Error; err != nil {
			r.log.LogError(ctx, err, "update")
			return models.NewInternalError(err)
		}
	}
	r.log.LogUpdate(ctx, map[string]interface{}{"film_id": film.ID, "genres": film.GenreIDs()})
	return nil
}

// Delete removes the film and its genre links.
func (r *filmRepository) Delete(ctx context.Context, id uint) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("film_id = ?", id).Delete(&models.FilmGenre{}).Error; err != nil {
		r.log.LogError(ctx, err, "delete")
		return models.NewInternalError(err)
	}
	result := db.Delete(&models.Film{}, id)
	if result.Error != nil {
		r.log.LogError(ctx, result.Error, "delete")
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Film", id)
	}
	r.log.LogDelete(ctx, map[string]interface{}{"film_id": id})
	return nil
}
