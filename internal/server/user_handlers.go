package server

import (
	"quill/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ProfileResponse wraps the caller's profile.
type ProfileResponse struct {
	User *service.UserProfile `json:"user"`
}

// GetProfile handles GET /api/user/profile
// @Summary Current user's profile
// @Tags user
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ProfileResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /user/profile [get]
func (s *Server) GetProfile(c *fiber.Ctx) error {
	profile, err := s.userService.Profile(c.UserContext(), identity(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(ProfileResponse{User: profile})
}

// GetMyPosts handles GET /api/user/posts
// @Summary Current user's posts, drafts included
// @Tags user
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Posts per page" default(10)
// @Success 200 {object} PostListResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /user/posts [get]
func (s *Server) GetMyPosts(c *fiber.Ctx) error {
	posts, meta, err := s.postService.ListMine(c.UserContext(), identity(c), parsePagination(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(PostListResponse{Posts: posts, Pagination: meta})
}
