package reviewController

import (
	"errors"
	"log"
	"net/url"
	"pulse/database"
	"pulse/middleware"
	reviewService "pulse/services/review"
	"pulse/utils"
	"sync"

	"github.com/gofiber/fiber/v2"
)

// summarizer is lazily constructed so tests can install a fake before the
// first request goes out. Handlers run on multiple goroutines, so the
// first-use initialization is guarded by a mutex.
var (
	summarizerMu sync.Mutex
	summarizer   reviewService.Summarizer
)

func service() *reviewService.Service {
	summarizerMu.Lock()
	if summarizer == nil {
		summarizer = utils.NewSummarizer()
	}
	active := summarizer
	summarizerMu.Unlock()

	return reviewService.New(database.Database.Db, active)
}

// LatestReviews returns the first page of the newest reviews
func LatestReviews(c *fiber.Ctx) error {
	reviews, err := service().Latest(reviewService.DefaultLatestLimit)
	if err != nil {
		log.Printf("Error fetching latest reviews: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Error fetching reviews", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Reviews fetched!", fiber.Map{
		"reviews": reviews,
	})
}

// SearchReviews matches reviews by professor, course, or department
func SearchReviews(c *fiber.Ctx) error {
	results, err := service().Search(c.Query("type"), c.Query("query"))
	if err != nil {
		if errors.Is(err, reviewService.ErrInvalidSearch) {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Search type and query are required", nil)
		}
		log.Printf("Error searching reviews: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Error searching reviews", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Search completed!", fiber.Map{
		"results": results,
	})
}

// SubmitReview stores a new review
func SubmitReview(c *fiber.Ctx) error {
	draft, ok := c.Locals("validatedReview").(*reviewService.Draft)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	review, err := service().Submit(*draft)
	if err != nil {
		var validationErr *reviewService.ValidationError
		if errors.As(err, &validationErr) {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, validationErr.Message, nil)
		}
		log.Printf("Error submitting review: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Error submitting review", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Review submitted successfully", fiber.Map{
		"reviewId": review.ID,
	})
}

// LikeReview records a one-per-user like on a review
func LikeReview(c *fiber.Ctx) error {
	reviewId, err := c.ParamsInt("reviewId")
	if err != nil || reviewId <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Review ID and user email are required", nil)
	}

	email, ok := c.Locals("likeEmail").(string)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Review ID and user email are required", nil)
	}

	if err := service().Like(uint(reviewId), email); err != nil {
		switch {
		case errors.Is(err, reviewService.ErrAlreadyLiked):
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "You have already liked this review", nil)
		case errors.Is(err, reviewService.ErrReviewNotFound):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Review not found!", nil)
		default:
			log.Printf("Error liking review %d: %v", reviewId, err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Error liking review", nil)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Review liked successfully", nil)
}

// UserReviews returns all reviews authored by the given email
func UserReviews(c *fiber.Ctx) error {
	email, err := url.PathUnescape(c.Params("email"))
	if err != nil || email == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "User email is required", nil)
	}

	reviews, err := service().ByUser(email)
	if err != nil {
		log.Printf("Error fetching reviews for %s: %v", email, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Error fetching user reviews", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Reviews fetched!", fiber.Map{
		"reviews": reviews,
	})
}

// SummarizeReviews returns an AI synthesis of the given review texts
func SummarizeReviews(c *fiber.Ctx) error {
	texts, ok := c.Locals("summarizeTexts").([]string)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Review texts are required", nil)
	}

	summary, err := service().Summarize(texts)
	if err != nil {
		var validationErr *reviewService.ValidationError
		if errors.As(err, &validationErr) {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, validationErr.Message, nil)
		}
		// Surface the adapter failure as readable text instead of hiding it
		log.Printf("Error summarizing reviews: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, err.Error(), nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Summary generated!", fiber.Map{
		"summary": summary,
	})
}
