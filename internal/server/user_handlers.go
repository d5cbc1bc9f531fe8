package server

import (
	"filmorate/internal/models"

	"github.com/gofiber/fiber/v2"
)

type createUserRequest struct {
	Email    string `json:"email"`
	Login    string `json:"login"`
	Name     string `json:"name"`
	Birthday string `json:"birthday"`
}

// CreateUser handles POST /api/users
// @Summary Create user
// @Tags users
// @Accept json
// @Produce json
// @Param request body object{email=string,login=string,name=string,birthday=string} true "User"
// @Success 201 {object} models.User
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /users [post]
func (s *Server) CreateUser(c *fiber.Ctx) error {
	var req createUserRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewInvalidArgumentError("Invalid request body"))
	}
	birthday, err := parseDate("birthday", req.Birthday)
	if err != nil {
		return respond(c, err)
	}

	user := &models.User{
		Email:    req.Email,
		Login:    req.Login,
		Name:     req.Name,
		Birthday: birthday,
	}
	if err := s.userService.CreateUser(c.UserContext(), user); err != nil {
		return respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// UpdateUser handles PUT /api/users/:id
// @Summary Update user
// @Tags users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param request body object{email=string,login=string,name=string,birthday=string} true "User"
// @Success 200 {object} models.User
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /users/{id} [put]
func (s *Server) UpdateUser(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	var req createUserRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewInvalidArgumentError("Invalid request body"))
	}
	birthday, err := parseDate("birthday", req.Birthday)
	if err != nil {
		return respond(c, err)
	}

	user := &models.User{
		ID:       id,
		Email:    req.Email,
		Login:    req.Login,
		Name:     req.Name,
		Birthday: birthday,
	}
	if err := s.userService.UpdateUser(c.UserContext(), user); err != nil {
		return respond(c, err)
	}
	return c.JSON(user)
}

// GetUsers handles GET /api/users
func (s *Server) GetUsers(c *fiber.Ctx) error {
	users, err := s.userService.ListUsers(c.UserContext())
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(users)
}

// GetUser handles GET /api/users/:id. The response carries the user's outgoing
// friendship edges keyed by target id.
// @Summary Get user
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} models.UserWithFriends
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id} [get]
func (s *Server) GetUser(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	view, err := s.friendService.UserView(c.UserContext(), id)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(view)
}

// DeleteUser handles DELETE /api/users/:id
// @Summary Delete user
// @Description Removes the user with its likes and every friendship edge touching it
// @Tags users
// @Param id path int true "User ID"
// @Success 204
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id} [delete]
func (s *Server) DeleteUser(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.userService.DeleteUser(c.UserContext(), id); err != nil {
		return respond(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetUserLikes handles GET /api/users/:id/likes
func (s *Server) GetUserLikes(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	films, err := s.likeService.LikedFilms(c.UserContext(), id)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(films)
}

// GetSimilarUsers handles GET /api/users/:id/similar
// @Summary Most similar users
// @Description Users sharing the largest number of liked films with the given user
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {array} models.User
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id}/similar [get]
func (s *Server) GetSimilarUsers(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	ctx := c.UserContext()
	ids, err := s.similarityService.MostSimilarUsers(ctx, id)
	if err != nil {
		return respond(c, err)
	}
	users, err := s.userService.GetUsers(ctx, ids)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(users)
}

// GetRecommendations handles GET /api/users/:id/recommendations
// @Summary Film recommendations
// @Description Films liked by the most similar users that the user has not liked
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {array} models.Film
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id}/recommendations [get]
func (s *Server) GetRecommendations(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	films, err := s.recommendationService.Recommend(c.UserContext(), id)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(films)
}
