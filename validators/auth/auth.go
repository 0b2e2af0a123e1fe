package authValidator

import (
	"fmt"
	"pulse/config"
	"pulse/middleware"
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Helper to validate email format
func isValidEmail(email string) bool {
	re := regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	return re.MatchString(email)
}

// Helper to validate the 6-digit verification code format
func isValidCode(code string) bool {
	re := regexp.MustCompile(`^\d{6}$`)
	return re.MatchString(code)
}

// IsAllowedDomain reports whether the email belongs to one of the
// institution domains students may register with.
func IsAllowedDomain(email string) bool {
	lowered := strings.ToLower(strings.TrimSpace(email))
	for _, domain := range config.AppConfig.AllowedEmailDomains {
		if strings.HasSuffix(lowered, "@"+strings.ToLower(domain)) {
			return true
		}
	}
	return false
}

// allowedDomainsMessage builds the rejection message from the configured list
func allowedDomainsMessage() string {
	domains := config.AppConfig.AllowedEmailDomains
	suffixes := make([]string, 0, len(domains))
	for _, domain := range domains {
		suffixes = append(suffixes, "@"+domain)
	}
	return fmt.Sprintf("Email must end with %s.", strings.Join(suffixes, " or "))
}

// Register validator middleware
func Register() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Name     string `json:"name"`
			Email    string `json:"email"`
			Password string `json:"password"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		// Validate Name
		if strings.TrimSpace(reqData.Name) == "" {
			errors["name"] = "Name is required!"
		}

		// Validate Email
		if reqData.Email == "" || !isValidEmail(reqData.Email) {
			errors["email"] = "Invalid email!"
		}

		// Validate Password
		if len(strings.TrimSpace(reqData.Password)) < 8 {
			errors["password"] = "Password must be at least 8 characters long!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		// Institution restriction gets its own message so the client can
		// show it verbatim.
		if !IsAllowedDomain(reqData.Email) {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, allowedDomainsMessage(), nil)
		}

		return c.Next()
	}
}

// Login validator middleware
func Login() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.Email == "" || !isValidEmail(reqData.Email) {
			errors["email"] = "Invalid email!"
		}
		if reqData.Password == "" {
			errors["password"] = "Password is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		return c.Next()
	}
}

// Verify validator middleware
func Verify() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Email            string `json:"email"`
			VerificationCode string `json:"verificationCode"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.Email == "" || !isValidEmail(reqData.Email) {
			errors["email"] = "Invalid email!"
		}
		if !isValidCode(reqData.VerificationCode) {
			errors["verificationCode"] = "Verification code must be 6 digits!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		return c.Next()
	}
}

// Resend validator middleware
func Resend() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Email string `json:"email"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if reqData.Email == "" || !isValidEmail(reqData.Email) {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Email is required", nil)
		}

		return c.Next()
	}
}
