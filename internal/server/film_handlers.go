package server

import (
	"filmorate/internal/models"
	"filmorate/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createFilmRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ReleaseDate string `json:"release_date"`
	Duration    int    `json:"duration"`
	Genres      []struct {
		ID uint `json:"id"`
	} `json:"genres"`
}

func (req createFilmRequest) toFilm() (*models.Film, error) {
	released, err := parseDate("release_date", req.ReleaseDate)
	if err != nil {
		return nil, err
	}
	film := &models.Film{
		Name:        req.Name,
		Description: req.Description,
		ReleaseDate: released,
		Duration:    req.Duration,
	}
	for _, g := range req.Genres {
		film.Genres = append(film.Genres, models.Genre{ID: g.ID})
	}
	return film, nil
}

// CreateFilm handles POST /api/films
// @Summary Create film
// @Tags films
// @Accept json
// @Produce json
// @Param request body object{name=string,description=string,release_date=string,duration=int} true "Film"
// @Success 201 {object} models.Film
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /films [post]
func (s *Server) CreateFilm(c *fiber.Ctx) error {
	var req createFilmRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewInvalidArgumentError("Invalid request body"))
	}
	film, err := req.toFilm()
	if err != nil {
		return respond(c, err)
	}
	if err := s.filmService.CreateFilm(c.UserContext(), film); err != nil {
		return respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(film)
}

// UpdateFilm handles PUT /api/films/:id. The genre list replaces the film's genres.
// @Summary Update film
// @Tags films
// @Accept json
// @Produce json
// @Param id path int true "Film ID"
// @Param request body object{name=string,description=string,release_date=string,duration=int} true "Film"
// @Success 200 {object} models.Film
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /films/{id} [put]
func (s *Server) UpdateFilm(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	var req createFilmRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewInvalidArgumentError("Invalid request body"))
	}
	film, err := req.toFilm()
	if err != nil {
		return respond(c, err)
	}
	film.ID = id
	if err := s.filmService.UpdateFilm(c.UserContext(), film); err != nil {
		return respond(c, err)
	}
	return c.JSON(film)
}

// GetFilms handles GET /api/films
func (s *Server) GetFilms(c *fiber.Ctx) error {
	films, err := s.filmService.ListFilms(c.UserContext())
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(films)
}

// GetFilm handles GET /api/films/:id
func (s *Server) GetFilm(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	film, err := s.filmService.GetFilm(c.UserContext(), id)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(film)
}

// DeleteFilm handles DELETE /api/films/:id
func (s *Server) DeleteFilm(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.filmService.DeleteFilm(c.UserContext(), id); err != nil {
		return respond(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetPopularFilms handles GET /api/films/popular?count=&genreId=&year=
// @Summary Popular films
// @Description Films ordered by number of likes, optionally filtered by genre and release year
// @Tags films
// @Produce json
// @Param count query int false "Maximum number of films"
// @Param genreId query int false "Genre ID"
// @Param year query int false "Release year"
// @Success 200 {array} models.Film
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /films/popular [get]
func (s *Server) GetPopularFilms(c *fiber.Ctx) error {
	count, err := optionalQueryInt(c, "count")
	if err != nil {
		return nil
	}
	year, err := optionalQueryInt(c, "year")
	if err != nil {
		return nil
	}
	genreID, err := optionalQueryID(c, "genreId")
	if err != nil {
		return nil
	}

	films, err := s.popularityService.Popular(c.UserContext(), service.PopularQuery{
		GenreID: genreID,
		Year:    year,
		Limit:   count,
	})
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(films)
}

// GetCommonFilms handles GET /api/films/common?userId=&friendId=
func (s *Server) GetCommonFilms(c *fiber.Ctx) error {
	userID, err := s.parseQueryID(c, "userId")
	if err != nil {
		return nil
	}
	friendID, err := s.parseQueryID(c, "friendId")
	if err != nil {
		return nil
	}
	films, err := s.popularityService.CommonFilms(c.UserContext(), userID, friendID)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(films)
}

// AddLike handles PUT /api/films/:id/like/:userId
// @Summary Like film
// @Description Idempotent; liking a film twice keeps a single like
// @Tags likes
// @Param id path int true "Film ID"
// @Param userId path int true "User ID"
// @Success 204
// @Failure 404 {object} models.ErrorResponse
// @Router /films/{id}/like/{userId} [put]
func (s *Server) AddLike(c *fiber.Ctx) error {
	filmID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}
	if err := s.likeService.AddLike(c.UserContext(), userID, filmID); err != nil {
		return respond(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// RemoveLike handles DELETE /api/films/:id/like/:userId
func (s *Server) RemoveLike(c *fiber.Ctx) error {
	filmID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}
	if err := s.likeService.RemoveLike(c.UserContext(), userID, filmID); err != nil {
		return respond(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetFilmLikes handles GET /api/films/:id/likes
func (s *Server) GetFilmLikes(c *fiber.Ctx) error {
	filmID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	users, err := s.likeService.Likers(c.UserContext(), filmID)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(users)
}
