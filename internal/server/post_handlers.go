package server

import (
	"scribe/internal/middleware"
	"scribe/internal/models"
	"scribe/internal/service"

	"github.com/gofiber/fiber/v2"
)

type postRequest struct {
	Title string `json:"title" form:"title"`
	Body  string `json:"body" form:"body"`
}

// ListPosts handles GET /api/posts
func (s *Server) ListPosts(c *fiber.Ctx) error {
	posts, err := s.posts.ListFeed(c.UserContext(), middleware.StateFrom(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(posts)
}

// GetPost handles GET /api/posts/:id. Edit forms use it to prefill.
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := parseID(c, "id", "post")
	if err != nil {
		return nil
	}

	post, err := s.posts.GetPost(c.UserContext(), middleware.StateFrom(c), id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(post)
}

// ListAccountPosts handles GET /api/accounts/:id/posts
func (s *Server) ListAccountPosts(c *fiber.Ctx) error {
	id, err := parseID(c, "id", "account")
	if err != nil {
		return nil
	}

	posts, err := s.posts.ListAccountPosts(c.UserContext(), middleware.StateFrom(c), id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(posts)
}

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req postRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	post, err := s.posts.CreatePost(c.UserContext(), middleware.StateFrom(c), service.CreatePostInput{
		Title: req.Title,
		Body:  req.Body,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	post.Author = middleware.AccountFrom(c)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Blog Posted",
		"post":    post,
	})
}

// UpdatePost handles PUT /api/posts/:id
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := parseID(c, "id", "post")
	if err != nil {
		return nil
	}
	var req postRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	post, err := s.posts.UpdatePost(c.UserContext(), middleware.StateFrom(c), service.UpdatePostInput{
		PostID: id,
		Title:  req.Title,
		Body:   req.Body,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Blog updated",
		"post":    post,
	})
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := parseID(c, "id", "post")
	if err != nil {
		return nil
	}

	if err := s.posts.DeletePost(c.UserContext(), middleware.StateFrom(c), id); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Your post has been deleted"})
}
