package engagement

import (
	"errors"

	"github.com/mayankag3005/sides-services-sub000/internal/auth"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/posts/:id/interest", authMiddleware, func(c *fiber.Ctx) error {
		userID := auth.PrincipalFromCtx(c).UserID
		if err := svc.RequestInterest(c.Context(), c.Params("id"), userID); err != nil {
			return httpError(err)
		}
		return c.SendStatus(fiber.StatusCreated)
	})

	r.Post("/posts/:id/interest/:userID/accept", authMiddleware, func(c *fiber.Ctx) error {
		actor := auth.PrincipalFromCtx(c)
		if err := svc.AcceptInterest(c.Context(), c.Params("id"), c.Params("userID"), actor); err != nil {
			return httpError(err)
		}
		return c.SendStatus(fiber.StatusOK)
	})

	r.Delete("/posts/:id/interest/:userID", authMiddleware, func(c *fiber.Ctx) error {
		actor := auth.PrincipalFromCtx(c)
		if err := svc.RejectInterest(c.Context(), c.Params("id"), c.Params("userID"), actor); err != nil {
			return httpError(err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	r.Delete("/posts/:id/confirmed/:userID", authMiddleware, func(c *fiber.Ctx) error {
		actor := auth.PrincipalFromCtx(c)
		if err := svc.RemoveConfirmed(c.Context(), c.Params("id"), c.Params("userID"), actor); err != nil {
			return httpError(err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}

func httpError(err error) error {
	switch {
	case errors.Is(err, ErrPostNotFound), errors.Is(err, ErrUserNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, ErrOwnPost), errors.Is(err, ErrNotAllowed):
		return fiber.NewError(fiber.StatusForbidden, err.Error())
	case errors.Is(err, ErrAlreadyInterested),
		errors.Is(err, ErrAlreadyConfirmed),
		errors.Is(err, ErrNotRequested),
		errors.Is(err, ErrNotConfirmed):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
}
