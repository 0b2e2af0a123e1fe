package reviewService

import (
	"errors"
	"fmt"
	"pulse/models"
	"strings"
	"time"

	"gorm.io/gorm"
)

const (
	// DefaultLatestLimit bounds the "latest reviews" feed to the first page.
	DefaultLatestLimit = 10

	// maxSummaryBatch caps how many review texts are forwarded to the adapter.
	maxSummaryBatch = 50
)

// Valid search types
const (
	SearchProfessor  = "professor"
	SearchCourse     = "course"
	SearchDepartment = "department"
)

// searchColumns maps a search type to the column it matches against.
var searchColumns = map[string]string{
	SearchProfessor:  "professor_name",
	SearchCourse:     "course_name",
	SearchDepartment: "department",
}

// Summarizer turns a batch of review texts into a short natural-language
// synthesis. Implementations are expected to make a single attempt and
// return a descriptive error on failure.
type Summarizer interface {
	Summarize(texts []string) (string, error)
}

// Service implements the review search/aggregation and like/summarize
// pipeline on top of the relational store.
type Service struct {
	db         *gorm.DB
	summarizer Summarizer
}

func New(db *gorm.DB, summarizer Summarizer) *Service {
	return &Service{db: db, summarizer: summarizer}
}

// Ratings carries the five sub-ratings of a review. Overall is mandatory;
// the others default to 0 when the student skips them.
type Ratings struct {
	Teaching     int `json:"teaching"`
	Difficulty   int `json:"difficulty"`
	Organization int `json:"organization"`
	Helpfulness  int `json:"helpfulness"`
	Overall      int `json:"overall"`
}

// Draft is the submission payload before validation.
type Draft struct {
	ProfessorName string  `json:"professorName"`
	CourseName    string  `json:"courseName"`
	Department    string  `json:"department"`
	Semester      string  `json:"semester"`
	ReviewText    string  `json:"reviewText"`
	Ratings       Ratings `json:"ratings"`
	StudentEmail  string  `json:"studentEmail"`
	StudentName   string  `json:"studentName"`
}

// View is the canonical review shape returned to the client, with the like
// count derived from the ReviewLike relation at read time.
type View struct {
	ID                 uint      `json:"id"`
	ProfessorName      string    `json:"professorName"`
	CourseName         string    `json:"courseName"`
	Department         string    `json:"department"`
	Semester           string    `json:"semester"`
	ReviewText         string    `json:"reviewText"`
	Ratings            Ratings   `json:"ratings"`
	StudentName        string    `json:"studentName"`
	StudentEmail       string    `json:"studentEmail"`
	CreatedAt          time.Time `json:"createdAt"`
	Likes              int64     `json:"likes"`
	LikedByCurrentUser bool      `json:"likedByCurrentUser"`
}

// Submit validates a draft and persists it as a new review. Missing required
// fields fail with *ValidationError and nothing is stored. Unspecified
// sub-ratings default to 0; all ratings are clamped to the 0-5 range.
func (s *Service) Submit(draft Draft) (*models.Review, error) {
	var missing []string
	if strings.TrimSpace(draft.ProfessorName) == "" {
		missing = append(missing, "professorName")
	}
	if strings.TrimSpace(draft.CourseName) == "" {
		missing = append(missing, "courseName")
	}
	if strings.TrimSpace(draft.Semester) == "" {
		missing = append(missing, "semester")
	}
	if strings.TrimSpace(draft.ReviewText) == "" {
		missing = append(missing, "reviewText")
	}
	if draft.Ratings.Overall < 1 {
		missing = append(missing, "ratings.overall")
	}
	if len(missing) > 0 {
		return nil, &ValidationError{Message: "Missing required review fields: " + strings.Join(missing, ", ")}
	}

	review := models.Review{
		ProfessorName:      draft.ProfessorName,
		CourseName:         draft.CourseName,
		Department:         draft.Department,
		Semester:           draft.Semester,
		ReviewText:         draft.ReviewText,
		TeachingRating:     clampRating(draft.Ratings.Teaching),
		DifficultyRating:   clampRating(draft.Ratings.Difficulty),
		OrganizationRating: clampRating(draft.Ratings.Organization),
		HelpfulnessRating:  clampRating(draft.Ratings.Helpfulness),
		OverallRating:      clampRating(draft.Ratings.Overall),
		StudentName:        draft.StudentName,
		StudentEmail:       draft.StudentEmail,
	}

	if err := s.db.Create(&review).Error; err != nil {
		return nil, fmt.Errorf("storing review: %w", err)
	}

	return &review, nil
}

// Latest returns the most recent reviews, newest first, bounded to limit
// (at most DefaultLatestLimit). An empty store yields an empty slice.
func (s *Service) Latest(limit int) ([]View, error) {
	if limit <= 0 || limit > DefaultLatestLimit {
		limit = DefaultLatestLimit
	}

	var reviews []models.Review
	if err := s.db.Order("created_at DESC, id DESC").Limit(limit).Find(&reviews).Error; err != nil {
		return nil, fmt.Errorf("fetching latest reviews: %w", err)
	}

	return s.views(reviews, false)
}

// Search performs a case-insensitive substring match of query against the
// column selected by searchType. No match yields an empty slice, not an error.
func (s *Service) Search(searchType, query string) ([]View, error) {
	column, ok := searchColumns[searchType]
	if !ok || strings.TrimSpace(query) == "" {
		return nil, ErrInvalidSearch
	}

	// LOWER(...) LIKE keeps the match case-insensitive on both the
	// postgres store and the sqlite store used in tests.
	pattern := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"

	var reviews []models.Review
	if err := s.db.Where(fmt.Sprintf("LOWER(%s) LIKE ?", column), pattern).
		Order("created_at DESC, id DESC").
		Find(&reviews).Error; err != nil {
		return nil, fmt.Errorf("searching reviews: %w", err)
	}

	return s.views(reviews, false)
}

// ByUser returns all reviews authored by the given email, newest first.
// Results are flagged as owned by the caller so the client suppresses the
// like button on self-authored content.
func (s *Service) ByUser(email string) ([]View, error) {
	var reviews []models.Review
	if err := s.db.Where("student_email = ?", email).
		Order("created_at DESC, id DESC").
		Find(&reviews).Error; err != nil {
		return nil, fmt.Errorf("fetching user reviews: %w", err)
	}

	return s.views(reviews, true)
}

// Like records exactly one like per (review, user) pair. A duplicate fails
// with ErrAlreadyLiked and performs no write. The pre-check keeps the common
// case cheap; the unique index on ReviewLike settles concurrent calls that
// both pass it.
func (s *Service) Like(reviewID uint, userEmail string) error {
	var review models.Review
	if err := s.db.First(&review, reviewID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReviewNotFound
		}
		return fmt.Errorf("fetching review: %w", err)
	}

	var existing models.ReviewLike
	err := s.db.Where("review_id = ? AND user_email = ?", reviewID, userEmail).First(&existing).Error
	if err == nil {
		return ErrAlreadyLiked
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("checking existing like: %w", err)
	}

	like := models.ReviewLike{ReviewID: reviewID, UserEmail: userEmail}
	if err := s.db.Create(&like).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAlreadyLiked
		}
		return fmt.Errorf("storing like: %w", err)
	}

	return nil
}

// Summarize forwards a batch of review texts to the summarization adapter
// and returns its prose. Adapter failures come back as *SummarizeError so
// the caller can surface the message inline. Single attempt, no retries.
func (s *Service) Summarize(texts []string) (string, error) {
	batch := make([]string, 0, len(texts))
	for _, text := range texts {
		if strings.TrimSpace(text) != "" {
			batch = append(batch, text)
		}
	}
	if len(batch) == 0 {
		return "", &ValidationError{Message: "At least one review text is required"}
	}
	if len(batch) > maxSummaryBatch {
		batch = batch[:maxSummaryBatch]
	}

	summary, err := s.summarizer.Summarize(batch)
	if err != nil {
		return "", &SummarizeError{Err: err}
	}

	return summary, nil
}

// views converts store rows into the canonical client shape, attaching
// derived like counts with a single grouped query.
func (s *Service) views(reviews []models.Review, ownedByCaller bool) ([]View, error) {
	views := make([]View, 0, len(reviews))
	if len(reviews) == 0 {
		return views, nil
	}

	ids := make([]uint, 0, len(reviews))
	for _, review := range reviews {
		ids = append(ids, review.ID)
	}

	type likeCount struct {
		ReviewID uint
		Total    int64
	}

	var counts []likeCount
	if err := s.db.Model(&models.ReviewLike{}).
		Select("review_id, COUNT(*) AS total").
		Where("review_id IN ?", ids).
		Group("review_id").
		Scan(&counts).Error; err != nil {
		return nil, fmt.Errorf("counting likes: %w", err)
	}

	likesByID := make(map[uint]int64, len(counts))
	for _, count := range counts {
		likesByID[count.ReviewID] = count.Total
	}

	for _, review := range reviews {
		views = append(views, View{
			ID:            review.ID,
			ProfessorName: review.ProfessorName,
			CourseName:    review.CourseName,
			Department:    review.Department,
			Semester:      review.Semester,
			ReviewText:    review.ReviewText,
			Ratings: Ratings{
				Teaching:     review.TeachingRating,
				Difficulty:   review.DifficultyRating,
				Organization: review.OrganizationRating,
				Helpfulness:  review.HelpfulnessRating,
				Overall:      review.OverallRating,
			},
			StudentName:        review.StudentName,
			StudentEmail:       review.StudentEmail,
			CreatedAt:          review.CreatedAt,
			Likes:              likesByID[review.ID],
			LikedByCurrentUser: ownedByCaller,
		})
	}

	return views, nil
}

// clampRating keeps a rating inside the 0-5 range instead of rejecting it.
func clampRating(rating int) int {
	if rating < 0 {
		return 0
	}
	if rating > 5 {
		return 5
	}
	return rating
}
