package post

import (
	"errors"

	"github.com/mayankag3005/sides-services-sub000/internal/auth"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/", authMiddleware, func(c *fiber.Ctx) error {
		var req Post
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if req.Title == "" {
			return fiber.NewError(fiber.StatusBadRequest, "title required")
		}
		req.UserID = auth.PrincipalFromCtx(c).UserID
		created, err := svc.Create(c.Context(), req)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(created)
	})

	r.Get("/:id", func(c *fiber.Ctx) error {
		p, err := svc.Get(c.Context(), c.Params("id"))
		if err != nil {
			return httpError(err)
		}
		return c.JSON(p)
	})

	r.Get("/", func(c *fiber.Ctx) error {
		if userID := c.Query("user_id"); userID != "" {
			posts, err := svc.ListByUser(c.Context(), userID)
			if err != nil {
				return httpError(err)
			}
			return c.JSON(posts)
		}
		if tag := c.Query("tag"); tag != "" {
			posts, err := svc.ListByTag(c.Context(), tag)
			if err != nil {
				return httpError(err)
			}
			return c.JSON(posts)
		}
		return fiber.NewError(fiber.StatusBadRequest, "user_id or tag required")
	})

	r.Delete("/:id", authMiddleware, func(c *fiber.Ctx) error {
		if err := svc.Delete(c.Context(), c.Params("id")); err != nil {
			return httpError(err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}

func httpError(err error) error {
	if errors.Is(err, ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	return fiber.NewError(fiber.StatusInternalServerError, err.Error())
}
