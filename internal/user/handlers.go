package user

import (
	"errors"

	"github.com/mayankag3005/sides-services-sub000/internal/auth"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Get("/", authMiddleware, func(c *fiber.Ctx) error {
		users, err := svc.List(c.Context())
		if err != nil {
			return httpError(err)
		}
		return c.JSON(users)
	})

	r.Get("/:id", authMiddleware, func(c *fiber.Ctx) error {
		u, err := svc.Get(c.Context(), c.Params("id"))
		if err != nil {
			return httpError(err)
		}
		return c.JSON(u)
	})

	r.Patch("/:id", authMiddleware, func(c *fiber.Ctx) error {
		if err := requireSelfOrAdmin(c); err != nil {
			return err
		}
		var patch User
		if err := c.BodyParser(&patch); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		u, err := svc.Update(c.Context(), c.Params("id"), patch)
		if err != nil {
			return httpError(err)
		}
		return c.JSON(u)
	})

	r.Delete("/:id", authMiddleware, func(c *fiber.Ctx) error {
		if err := requireSelfOrAdmin(c); err != nil {
			return err
		}
		if err := svc.Delete(c.Context(), c.Params("id")); err != nil {
			return httpError(err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}

// Only the account owner or an admin may modify or delete a user.
func requireSelfOrAdmin(c *fiber.Ctx) error {
	p := auth.PrincipalFromCtx(c)
	if p.UserID != c.Params("id") && !p.IsAdmin() {
		return fiber.NewError(fiber.StatusForbidden, "not allowed")
	}
	return nil
}

func httpError(err error) error {
	if errors.Is(err, ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	return fiber.NewError(fiber.StatusInternalServerError, err.Error())
}
