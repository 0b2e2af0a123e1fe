package main

import (
	"pulse/config"
	"pulse/database"
	authRoutes "pulse/routers/authRoutes"
	reviewRoutes "pulse/routers/reviewRoutes"
	"pulse/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"log"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	// Background cleanup of expired verification codes
	utils.StartOTPCleanup()

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",        // Allowed HTTP methods
		AllowHeaders: "Content-Type,Authorization", // Allowed headers
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	// Serve the React client build
	app.Static("/", "./client/build")

	authRoutes.SetupAuthRoutes(app)
	reviewRoutes.SetupReviewRoutes(app)

	// Fallback to the client for any unmatched GET route
	app.Use(func(c *fiber.Ctx) error {
		if c.Method() == fiber.MethodGet {
			return c.SendFile("./client/build/index.html")
		}
		return c.SendStatus(fiber.StatusNotFound)
	})

	log.Printf("PULSE server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
