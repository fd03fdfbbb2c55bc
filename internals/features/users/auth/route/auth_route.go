// file: internals/features/users/auth/route/auth_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	authController "schoolku_backend/internals/features/users/auth/controller"
	"schoolku_backend/internals/middlewares"
)

func AuthRoutes(r fiber.Router, db *gorm.DB) {
	ctl := &authController.AuthController{DB: db}

	auth := r.Group("/auth")
	auth.Post("/login", middlewares.LoginRateLimiter(), ctl.Login) // POST /api/auth/login (rate limited)
	auth.Post("/refresh", ctl.Refresh)                             // POST /api/auth/refresh
	auth.Post("/logout", ctl.Logout)                               // POST /api/auth/logout
}
