package server

import (
	"filmorate/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CreateGenre handles POST /api/genres
func (s *Server) CreateGenre(c *fiber.Ctx) error {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewInvalidArgumentError("Invalid request body"))
	}
	genre := &models.Genre{Name: req.Name}
	if err := s.genreService.CreateGenre(c.UserContext(), genre); err != nil {
		return respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(genre)
}

// GetGenres handles GET /api/genres
func (s *Server) GetGenres(c *fiber.Ctx) error {
	genres, err := s.genreService.ListGenres(c.UserContext())
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(genres)
}

// GetGenre handles GET /api/genres/:id
func (s *Server) GetGenre(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	genre, err := s.genreService.GetGenre(c.UserContext(), id)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(genre)
}
