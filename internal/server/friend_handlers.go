package server

import (
	"github.com/gofiber/fiber/v2"
)

// AddFriend handles PUT /api/users/:id/friends/:friendId
// @Summary Add friend
// @Description Requests friendship, or confirms it when the other user already asked
// @Tags friends
// @Produce json
// @Param id path int true "User ID"
// @Param friendId path int true "Friend ID"
// @Success 200 {object} models.UserWithFriends
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /users/{id}/friends/{friendId} [put]
func (s *Server) AddFriend(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	friendID, err := s.parseID(c, "friendId")
	if err != nil {
		return nil
	}
	view, err := s.friendService.AddFriend(c.UserContext(), userID, friendID)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(view)
}

// DeleteFriend handles DELETE /api/users/:id/friends/:friendId
// @Summary Delete friend
// @Description Removes only the caller's own edge; the reverse edge is left untouched
// @Tags friends
// @Param id path int true "User ID"
// @Param friendId path int true "Friend ID"
// @Success 204
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id}/friends/{friendId} [delete]
func (s *Server) DeleteFriend(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	friendID, err := s.parseID(c, "friendId")
	if err != nil {
		return nil
	}
	if err := s.friendService.DeleteFriend(c.UserContext(), userID, friendID); err != nil {
		return respond(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetFriends handles GET /api/users/:id/friends
func (s *Server) GetFriends(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	friends, err := s.friendService.GetAllFriends(c.UserContext(), userID)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(friends)
}

// GetCommonFriends handles GET /api/users/:id/friends/common/:otherId
func (s *Server) GetCommonFriends(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	otherID, err := s.parseID(c, "otherId")
	if err != nil {
		return nil
	}
	friends, err := s.friendService.GetCommonFriends(c.UserContext(), userID, otherID)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(friends)
}

// GetFriendshipStatus handles GET /api/users/:id/friends/:friendId/status
func (s *Server) GetFriendshipStatus(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	friendID, err := s.parseID(c, "friendId")
	if err != nil {
		return nil
	}
	status, err := s.friendService.GetFriendshipStatus(c.UserContext(), userID, friendID)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(fiber.Map{
		"user_id":   userID,
		"friend_id": friendID,
		"status":    status,
	})
}
