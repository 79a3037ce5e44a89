package main

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/gofiber/fiber/v3/middleware/session"
	"github.com/google/uuid"

	authhdl "bearh/internal/api/auth/handler"
	authrouter "bearh/internal/api/auth/router"
	hrrouter "bearh/internal/api/hr/router"
	kpirouter "bearh/internal/api/kpi/router"
	payrollrouter "bearh/internal/api/payroll/router"
	primerouter "bearh/internal/api/prime/router"
	reportrouter "bearh/internal/api/report/router"
	apirouter "bearh/internal/api/router"
	"bearh/internal/common"
	"bearh/internal/global"
	"bearh/internal/logger"
)

// InitFiberApp khởi tạo ứng dụng Fiber với các middleware cần thiết và đăng ký route
func InitFiberApp(services *apirouter.Services) (*fiber.App, error) {
	cfg := global.MongoDB_ServerConfig

	app := fiber.New(fiber.Config{
		AppName:       "BeaRH API",
		ServerHeader:  "BeaRH API",
		StrictRouting: true,
		CaseSensitive: true,

		BodyLimit:    4 * 1024 * 1024,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,

		ErrorHandler: func(c fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			message := common.MsgInternalError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
				switch code {
				case fiber.StatusNotFound:
					message = common.MsgNotFound
				case fiber.StatusTooManyRequests:
					message = common.MsgTooManyRequests
				case fiber.StatusMethodNotAllowed, fiber.StatusBadRequest:
					message = common.MsgBadRequest
				}
			}
			if code >= fiber.StatusInternalServerError {
				logger.WithRequest(c).WithError(err).Error("Request error")
			}
			return c.Status(code).JSON(fiber.Map{"success": false, "error": message})
		},
	})

	// 1. Request ID để trace log
	app.Use(requestid.New(requestid.Config{
		Header:    "X-Request-ID",
		Generator: uuid.NewString,
	}))

	// 2. CORS
	allowOrigins := []string{"*"}
	if cfg.CORS_Origins != "*" {
		allowOrigins = nil
		for _, origin := range strings.Split(cfg.CORS_Origins, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				allowOrigins = append(allowOrigins, origin)
			}
		}
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID", "X-Requested-With"},
		AllowCredentials: cfg.CORS_AllowCredentials,
		ExposeHeaders:    []string{"Content-Disposition", "X-Request-ID"},
		MaxAge:           24 * 60 * 60,
	}))

	// 3. Security headers
	app.Use(func(c fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		return c.Next()
	})

	// 4. Rate limit theo IP
	if cfg.RateLimit_Enabled && cfg.RateLimit_Max > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        cfg.RateLimit_Max,
			Expiration: time.Duration(cfg.RateLimit_Window) * time.Second,
			KeyGenerator: func(c fiber.Ctx) string {
				return c.IP()
			},
			LimitReached: func(c fiber.Ctx) error {
				return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"success": false, "error": common.MsgTooManyRequests})
			},
			Next: func(c fiber.Ctx) bool {
				return c.Method() == fiber.MethodOptions || c.Path() == "/health"
			},
		}))
		logger.GetAppLogger().Infof("Rate limiting enabled: %d requests per %d seconds", cfg.RateLimit_Max, cfg.RateLimit_Window)
	} else {
		logger.GetAppLogger().Info("Rate limiting disabled")
	}

	// 5. Recover
	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c fiber.Ctx, e interface{}) {
			logger.WithRequest(c).WithField("panic", e).Error("Panic recovered")
		},
	}))

	// 6. Phiên đăng nhập (cookie), giữ userId và tùy chọn giao diện
	app.Use(session.New(session.Config{
		IdleTimeout:    time.Duration(cfg.Session_TTLMinutes) * time.Minute,
		CookieSecure:   cfg.Session_CookieSecure,
		CookieHTTPOnly: true,
		CookieSameSite: fiber.CookieSameSiteLaxMode,
	}))

	app.Get("/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"success": true, "status": "ok"})
	})

	auth := authhdl.NewSessionAuthenticator(services.Users, services.Access)
	r := apirouter.NewRouter(app, auth, services)
	if err := apirouter.SetupRoutes(app, r,
		authrouter.Register,
		hrrouter.Register,
		kpirouter.Register,
		primerouter.Register,
		payrollrouter.Register,
		reportrouter.Register,
	); err != nil {
		return nil, err
	}
	return app, nil
}
