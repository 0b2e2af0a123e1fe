package reviewRoutes

import (
	reviewController "pulse/controllers/review"
	reviewValidator "pulse/validators/review"

	"github.com/gofiber/fiber/v2"
)

// SetupReviewRoutes registers the review endpoints under /api.
func SetupReviewRoutes(app *fiber.App) {
	api := app.Group("/api")

	api.Get("/reviews/latest", reviewController.LatestReviews)
	api.Get("/search", reviewController.SearchReviews)
	api.Post("/reviews/submit", reviewValidator.Submit(), reviewController.SubmitReview)
	api.Post("/reviews/:reviewId/like", reviewValidator.Like(), reviewController.LikeReview)
	api.Get("/reviews/user/:email", reviewController.UserReviews)
	api.Post("/summarize-reviews", reviewValidator.Summarize(), reviewController.SummarizeReviews)
}
