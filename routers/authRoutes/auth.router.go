package authRoutes

import (
	authController "pulse/controllers/auth"
	"pulse/middleware"
	authValidator "pulse/validators/auth"

	"github.com/gofiber/fiber/v2"
)

// SetupAuthRoutes registers the credential endpoints. Paths are root-level
// to stay compatible with the existing client.
func SetupAuthRoutes(app *fiber.App) {
	app.Post("/register", authValidator.Register(), authController.Register)
	app.Post("/login", authValidator.Login(), authController.Login)
	app.Post("/verify", authValidator.Verify(), authController.VerifyEmail)
	app.Post("/resend-verification", authValidator.Resend(), authController.ResendVerification)

	app.Get("/auth/me", middleware.JWTMiddleware, authController.Me)
}
