package main

import (
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"drwheels/internal/config"
	"drwheels/internal/http/handlers"
	applog "drwheels/internal/log"
	"drwheels/internal/repos"
	"drwheels/internal/services"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			mw := io.MultiWriter(os.Stdout, f)
			log.SetOutput(mw)
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	authSvc := services.NewAuthService(repos.NewUserRepo(db), cfg.JWTSecret, time.Duration(cfg.JWTTTLHours)*time.Hour)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			applog.Error(c, "server.error", err, nil)
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})
	// Global body size guard
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(helmet.New(helmet.Config{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
		ReferrerPolicy:     "strict-origin-when-cross-origin",
		HSTSMaxAge:         31536000,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))
	// Auth responses must never be cached
	app.Use(func(c *fiber.Ctx) error {
		if strings.HasPrefix(c.Path(), "/api/auth") {
			c.Set("Cache-Control", "no-store, no-cache, must-revalidate, private")
		}
		return c.Next()
	})

	noLimit := func(c *fiber.Ctx) bool { return !cfg.RateLimits }
	generalLimiter := limiter.New(limiter.Config{
		Max:        100,
		Expiration: 15 * time.Minute,
		Next:       noLimit,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.general.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "Too many requests from this IP, please try again later."})
		},
	})
	authLimiter := limiter.New(limiter.Config{
		Max:                    5,
		Expiration:             15 * time.Minute,
		SkipSuccessfulRequests: true,
		Next:                   noLimit,
		KeyGenerator:           func(c *fiber.Ctx) string { return c.IP() + "|auth" },
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.auth.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "Too many authentication attempts, please try again later."})
		},
	})
	strictLimiter := limiter.New(limiter.Config{
		Max:          10,
		Expiration:   time.Hour,
		Next:         noLimit,
		KeyGenerator: func(c *fiber.Ctx) string { return c.IP() + "|strict" },
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.strict.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "Too many requests, please try again later."})
		},
	})

	// ---------- Routes ----------
	deps := handlers.NewDeps(db, authSvc)
	requireAuth := handlers.RequireAuth(authSvc)

	api := app.Group("/api", generalLimiter)

	auth := api.Group("/auth")
	auth.Post("/register", authLimiter, deps.AuthHandler.Register)
	auth.Post("/login", authLimiter, deps.AuthHandler.Login)
	auth.Get("/me", requireAuth, deps.AuthHandler.Me)

	cars := api.Group("/cars")
	cars.Get("/", deps.CarHandler.List)
	cars.Get("/my-cars", requireAuth, deps.CarHandler.MyCars)
	cars.Get("/:id", deps.CarHandler.Get)
	cars.Post("/", requireAuth, strictLimiter, deps.CarHandler.Create)
	cars.Put("/:id", requireAuth, deps.CarHandler.Update)
	cars.Delete("/:id", requireAuth, deps.CarHandler.Delete)

	favorites := api.Group("/favorites", requireAuth)
	favorites.Post("/", deps.FavoriteHandler.Add)
	favorites.Get("/", deps.FavoriteHandler.List)
	favorites.Get("/check/:carId", deps.FavoriteHandler.Check)
	favorites.Delete("/:carId", deps.FavoriteHandler.Remove)

	reviews := api.Group("/reviews")
	reviews.Get("/car/:carId", deps.ReviewHandler.ListByCar)
	reviews.Post("/car/:carId", requireAuth, deps.ReviewHandler.Create)
	reviews.Get("/user", requireAuth, deps.ReviewHandler.ListMine)
	reviews.Put("/:reviewId", requireAuth, deps.ReviewHandler.Update)
	reviews.Delete("/:reviewId", requireAuth, deps.ReviewHandler.Delete)

	orders := api.Group("/orders", requireAuth)
	orders.Post("/", deps.OrderHandler.Create)
	orders.Get("/", deps.OrderHandler.List)
	orders.Get("/:id", deps.OrderHandler.Get)
	orders.Put("/:orderId/status", deps.OrderHandler.UpdateStatus)
	orders.Post("/:orderId/cancel", deps.OrderHandler.Cancel)

	chat := api.Group("/chat", requireAuth)
	chat.Get("/", deps.ChatHandler.List)
	chat.Post("/", deps.ChatHandler.Create)
	chat.Get("/:id", deps.ChatHandler.Get)
	chat.Post("/:id/messages", deps.ChatHandler.Send)

	// Health & 404
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "timestamp": time.Now().UTC().Format(time.RFC3339)})
	})
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not found"})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}
