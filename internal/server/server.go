package server

import (
	"github.com/mayankag3005/sides-services-sub000/internal/auth"
	"github.com/mayankag3005/sides-services-sub000/internal/chat"
	"github.com/mayankag3005/sides-services-sub000/internal/config"
	"github.com/mayankag3005/sides-services-sub000/internal/engagement"
	"github.com/mayankag3005/sides-services-sub000/internal/friendship"
	"github.com/mayankag3005/sides-services-sub000/internal/lifecycle"
	"github.com/mayankag3005/sides-services-sub000/internal/post"
	"github.com/mayankag3005/sides-services-sub000/internal/user"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	App   *fiber.App
	Cfg   config.Config
	DB    *pgxpool.Pool
	Redis *redis.Client
	Hub   *chat.Hub
}

func NewServer(cfg config.Config, db *pgxpool.Pool, redisClient *redis.Client) *Server {
	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())

	s := &Server{
		App:   app,
		Cfg:   cfg,
		DB:    db,
		Redis: redisClient,
		Hub:   chat.NewHub(redisClient),
	}

	registerRoutes(s)
	return s
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	jwtMiddleware := auth.JWTMiddleware(s.Cfg.JWTSecret)
	reconciler := lifecycle.NewReconciler(s.DB)

	auth.RegisterRoutes(s.App.Group("/auth"), auth.NewService(s.Cfg.JWTSecret, s.DB, s.Redis))
	user.RegisterRoutes(s.App.Group("/users"), user.NewService(s.DB, reconciler), jwtMiddleware)
	post.RegisterRoutes(s.App.Group("/posts"), post.NewService(s.DB, reconciler), jwtMiddleware)
	friendship.RegisterRoutes(s.App.Group("/friends"), friendship.NewService(s.DB), jwtMiddleware)
	engagement.RegisterRoutes(s.App.Group("/engagement"), engagement.NewService(s.DB), jwtMiddleware)
	chat.RegisterRoutes(s.App.Group("/chat"), chat.NewService(s.Redis, s.Hub), s.Hub, jwtMiddleware)
}
