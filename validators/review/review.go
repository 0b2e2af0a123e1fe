package reviewValidator

import (
	"pulse/middleware"
	reviewService "pulse/services/review"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Semesters students can pick from in the submission form
var allowedSemesters = []string{
	"Fall 2024",
	"Spring 2024",
	"Fall 2023",
	"Spring 2023",
	"Fall 2022",
	"Spring 2022",
}

func isAllowedSemester(semester string) bool {
	for _, allowed := range allowedSemesters {
		if semester == allowed {
			return true
		}
	}
	return false
}

// Submit validator middleware
func Submit() fiber.Handler {
	return func(c *fiber.Ctx) error {
		draft := new(reviewService.Draft)
		if err := c.BodyParser(draft); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(draft.ProfessorName) == "" {
			errors["professorName"] = "Professor name is required!"
		}
		if strings.TrimSpace(draft.CourseName) == "" {
			errors["courseName"] = "Course name is required!"
		}
		if !isAllowedSemester(draft.Semester) {
			errors["semester"] = "Select a valid semester!"
		}
		if strings.TrimSpace(draft.ReviewText) == "" {
			errors["reviewText"] = "Review text is required!"
		}
		if draft.Ratings.Overall < 1 || draft.Ratings.Overall > 5 {
			errors["ratings.overall"] = "Overall rating must be between 1 and 5!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		// Pass the validated draft to the handler
		c.Locals("validatedReview", draft)
		return c.Next()
	}
}

// Like validator middleware
func Like() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Email string `json:"email"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if strings.TrimSpace(reqData.Email) == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Review ID and user email are required", nil)
		}

		c.Locals("likeEmail", reqData.Email)
		return c.Next()
	}
}

// Summarize validator middleware
func Summarize() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			ReviewTexts []string `json:"reviewTexts"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if len(reqData.ReviewTexts) == 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Review texts are required", nil)
		}

		c.Locals("summarizeTexts", reqData.ReviewTexts)
		return c.Next()
	}
}
