package chat

import (
	"errors"

	"github.com/mayankag3005/sides-services-sub000/internal/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, hub *Hub, authMiddleware fiber.Handler) {
	r.Post("/messages", authMiddleware, func(c *fiber.Ctx) error {
		var req SendMessageBody
		if err := c.BodyParser(&req); err != nil || req.PeerID == "" || req.Body == "" {
			return fiber.NewError(fiber.StatusBadRequest, "peer_id and body required")
		}
		sender := auth.PrincipalFromCtx(c).UserID
		msg, err := svc.SendMessage(c.Context(), sender, req.PeerID, req.Body)
		if err != nil {
			return httpError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(msg)
	})

	r.Get("/messages/:peerID", authMiddleware, func(c *fiber.Ctx) error {
		self := auth.PrincipalFromCtx(c).UserID
		messages, err := svc.Messages(c.Context(), self, c.Params("peerID"))
		if err != nil {
			return httpError(err)
		}
		return c.JSON(messages)
	})

	r.Get("/rooms/:peerID", authMiddleware, func(c *fiber.Ctx) error {
		self := auth.PrincipalFromCtx(c).UserID
		room, err := svc.ResolveOrCreate(c.Context(), self, c.Params("peerID"), false)
		if err != nil {
			return httpError(err)
		}
		return c.JSON(room)
	})

	r.Get("/ws/:roomKey", websocket.New(func(c *websocket.Conn) {
		roomKey := c.Params("roomKey")
		client := hub.Register(roomKey)
		defer hub.Unregister(client)

		done := make(chan struct{})
		go func() {
			for msg := range client.Send {
				if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
					break
				}
			}
			close(done)
		}()

		for {
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
		<-done
	}))
}

func httpError(err error) error {
	if errors.Is(err, ErrRoomNotFound) {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	return fiber.NewError(fiber.StatusInternalServerError, err.Error())
}
