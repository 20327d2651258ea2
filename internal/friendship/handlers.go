package friendship

import (
	"errors"

	"github.com/mayankag3005/sides-services-sub000/internal/auth"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/requests", authMiddleware, func(c *fiber.Ctx) error {
		var req FriendRequestBody
		if err := c.BodyParser(&req); err != nil || req.ToID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "to_id required")
		}
		from := auth.PrincipalFromCtx(c).UserID
		if err := svc.SendRequest(c.Context(), from, req.ToID); err != nil {
			return httpError(err)
		}
		return c.SendStatus(fiber.StatusCreated)
	})

	r.Post("/requests/:id/accept", authMiddleware, func(c *fiber.Ctx) error {
		acceptor := auth.PrincipalFromCtx(c).UserID
		result, err := svc.AcceptRequest(c.Context(), c.Params("id"), acceptor)
		if err != nil {
			return httpError(err)
		}
		return c.JSON(result)
	})

	r.Delete("/requests/:id", authMiddleware, func(c *fiber.Ctx) error {
		to := auth.PrincipalFromCtx(c).UserID
		if err := svc.RejectRequest(c.Context(), c.Params("id"), to); err != nil {
			return httpError(err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	r.Delete("/:id", authMiddleware, func(c *fiber.Ctx) error {
		self := auth.PrincipalFromCtx(c).UserID
		if err := svc.RemoveFriend(c.Context(), self, c.Params("id")); err != nil {
			return httpError(err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	r.Get("/", authMiddleware, func(c *fiber.Ctx) error {
		self := auth.PrincipalFromCtx(c).UserID
		friends, err := svc.Friends(c.Context(), self)
		if err != nil {
			return httpError(err)
		}
		return c.JSON(fiber.Map{"friends": friends})
	})

	r.Get("/requests", authMiddleware, func(c *fiber.Ctx) error {
		self := auth.PrincipalFromCtx(c).UserID
		incoming, outgoing, err := svc.PendingRequests(c.Context(), self)
		if err != nil {
			return httpError(err)
		}
		return c.JSON(fiber.Map{"incoming": incoming, "outgoing": outgoing})
	})
}

func httpError(err error) error {
	switch {
	case errors.Is(err, ErrUserNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, ErrAlreadyFriends),
		errors.Is(err, ErrAlreadyRequested),
		errors.Is(err, ErrNotRequested),
		errors.Is(err, ErrNotFriends),
		errors.Is(err, ErrSelfRequest):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
}
