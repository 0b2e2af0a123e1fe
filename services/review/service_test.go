package reviewService_test

import (
	"errors"
	"fmt"
	"pulse/models"
	reviewService "pulse/services/review"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type fakeSummarizer struct {
	reply    string
	err      error
	received []string
}

func (f *fakeSummarizer) Summarize(texts []string) (string, error) {
	f.received = texts
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func setupService(t *testing.T, summarizer reviewService.Summarizer) (*reviewService.Service, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Review{}, &models.ReviewLike{}))

	return reviewService.New(db, summarizer), db
}

func validDraft() reviewService.Draft {
	return reviewService.Draft{
		ProfessorName: "Dr. Smith",
		CourseName:    "CS101",
		Department:    "Computer Science",
		Semester:      "Fall 2024",
		ReviewText:    "Great class",
		Ratings:       reviewService.Ratings{Teaching: 4, Difficulty: 3, Organization: 4, Helpfulness: 5, Overall: 5},
		StudentEmail:  "a@spelman.edu",
		StudentName:   "Ada",
	}
}

func TestSubmitThenLatest(t *testing.T) {
	svc, _ := setupService(t, nil)

	first, err := svc.Submit(validDraft())
	require.NoError(t, err)
	require.NotZero(t, first.ID)

	second := validDraft()
	second.ProfessorName = "Dr. Jones"
	stored, err := svc.Submit(second)
	require.NoError(t, err)

	latest, err := svc.Latest(10)
	require.NoError(t, err)
	require.Len(t, latest, 2)

	// Newest review leads the ordering
	assert.Equal(t, stored.ID, latest[0].ID)
	assert.Equal(t, "Dr. Jones", latest[0].ProfessorName)
	assert.Equal(t, first.ID, latest[1].ID)
	assert.EqualValues(t, 0, latest[0].Likes)
	assert.False(t, latest[0].LikedByCurrentUser)
	assert.Equal(t, reviewService.Ratings{Teaching: 4, Difficulty: 3, Organization: 4, Helpfulness: 5, Overall: 5}, latest[1].Ratings)
}

func TestSubmitClampsRatings(t *testing.T) {
	svc, _ := setupService(t, nil)

	draft := validDraft()
	draft.Ratings.Teaching = 9
	draft.Ratings.Difficulty = -2

	stored, err := svc.Submit(draft)
	require.NoError(t, err)
	assert.Equal(t, 5, stored.TeachingRating)
	assert.Equal(t, 0, stored.DifficultyRating)
}

func TestSubmitValidation(t *testing.T) {
	svc, db := setupService(t, nil)

	cases := map[string]func(*reviewService.Draft){
		"missing professor": func(d *reviewService.Draft) { d.ProfessorName = "" },
		"missing course":    func(d *reviewService.Draft) { d.CourseName = " " },
		"missing semester":  func(d *reviewService.Draft) { d.Semester = "" },
		"missing text":      func(d *reviewService.Draft) { d.ReviewText = "" },
		"missing overall":   func(d *reviewService.Draft) { d.Ratings.Overall = 0 },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			draft := validDraft()
			mutate(&draft)

			_, err := svc.Submit(draft)

			var validationErr *reviewService.ValidationError
			require.ErrorAs(t, err, &validationErr)
		})
	}

	// Nothing was stored by any rejected draft
	var count int64
	require.NoError(t, db.Model(&models.Review{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestSearch(t *testing.T) {
	svc, _ := setupService(t, nil)

	_, err := svc.Submit(validDraft())
	require.NoError(t, err)

	other := validDraft()
	other.ProfessorName = "Dr. Jones"
	other.CourseName = "MATH201"
	other.Department = "Mathematics"
	_, err = svc.Submit(other)
	require.NoError(t, err)

	t.Run("professor case-insensitive substring", func(t *testing.T) {
		results, err := svc.Search(reviewService.SearchProfessor, "SMITH")
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "Dr. Smith", results[0].ProfessorName)
	})

	t.Run("course substring", func(t *testing.T) {
		results, err := svc.Search(reviewService.SearchCourse, "cs1")
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "CS101", results[0].CourseName)
	})

	t.Run("department substring", func(t *testing.T) {
		results, err := svc.Search(reviewService.SearchDepartment, "math")
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "Mathematics", results[0].Department)
	})

	t.Run("no match yields empty slice", func(t *testing.T) {
		results, err := svc.Search(reviewService.SearchProfessor, "nobody")
		require.NoError(t, err)
		assert.NotNil(t, results)
		assert.Empty(t, results)
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := svc.Search("building", "smith")
		assert.ErrorIs(t, err, reviewService.ErrInvalidSearch)
	})

	t.Run("blank query", func(t *testing.T) {
		_, err := svc.Search(reviewService.SearchProfessor, "   ")
		assert.ErrorIs(t, err, reviewService.ErrInvalidSearch)
	})
}

func TestByUser(t *testing.T) {
	svc, _ := setupService(t, nil)

	mine := validDraft()
	_, err := svc.Submit(mine)
	require.NoError(t, err)

	theirs := validDraft()
	theirs.StudentEmail = "b@morehouse.edu"
	_, err = svc.Submit(theirs)
	require.NoError(t, err)

	results, err := svc.ByUser("a@spelman.edu")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "a@spelman.edu", results[0].StudentEmail)

	// Own reviews are flagged so the client disables the like button
	assert.True(t, results[0].LikedByCurrentUser)
}

func TestLike(t *testing.T) {
	svc, _ := setupService(t, nil)

	stored, err := svc.Submit(validDraft())
	require.NoError(t, err)

	require.NoError(t, svc.Like(stored.ID, "b@morehouse.edu"))

	// Second like from the same user is rejected without a write
	err = svc.Like(stored.ID, "b@morehouse.edu")
	assert.ErrorIs(t, err, reviewService.ErrAlreadyLiked)

	// A different user can still like
	require.NoError(t, svc.Like(stored.ID, "c@spelman.edu"))

	latest, err := svc.Latest(10)
	require.NoError(t, err)
	require.Len(t, latest, 1)
	assert.EqualValues(t, 2, latest[0].Likes)
}

func TestLikeUnknownReview(t *testing.T) {
	svc, _ := setupService(t, nil)

	err := svc.Like(12345, "a@spelman.edu")
	assert.ErrorIs(t, err, reviewService.ErrReviewNotFound)
}

func TestLikeExistingRowCaughtByPrecheck(t *testing.T) {
	svc, db := setupService(t, nil)

	stored, err := svc.Submit(validDraft())
	require.NoError(t, err)

	require.NoError(t, db.Create(&models.ReviewLike{ReviewID: stored.ID, UserEmail: "a@spelman.edu"}).Error)

	err = svc.Like(stored.ID, "a@spelman.edu")
	assert.ErrorIs(t, err, reviewService.ErrAlreadyLiked)

	var count int64
	require.NoError(t, db.Model(&models.ReviewLike{}).
		Where("review_id = ? AND user_email = ?", stored.ID, "a@spelman.edu").
		Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestLikeRaceSettledByUniqueIndex(t *testing.T) {
	// SkipDefaultTransaction so the insert injected below runs outside
	// the create's own transaction on the shared sqlite database.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true, SkipDefaultTransaction: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Review{}, &models.ReviewLike{}))

	svc := reviewService.New(db, nil)
	stored, err := svc.Submit(validDraft())
	require.NoError(t, err)

	// Interleave a concurrent like between the existence check and the
	// insert: the hook fires once the pre-check has already passed, so
	// only the unique index can reject the duplicate.
	injected := false
	err = db.Callback().Create().Before("gorm:create").Register("interleave_like", func(tx *gorm.DB) {
		if _, ok := tx.Statement.Dest.(*models.ReviewLike); !ok || injected {
			return
		}
		injected = true
		tx.AddError(db.Exec(
			"INSERT INTO review_likes (review_id, user_email, created_at, updated_at) VALUES (?, ?, ?, ?)",
			stored.ID, "a@spelman.edu", time.Now(), time.Now(),
		).Error)
	})
	require.NoError(t, err)

	err = svc.Like(stored.ID, "a@spelman.edu")
	assert.ErrorIs(t, err, reviewService.ErrAlreadyLiked)
	assert.True(t, injected)

	var count int64
	require.NoError(t, db.Model(&models.ReviewLike{}).
		Where("review_id = ? AND user_email = ?", stored.ID, "a@spelman.edu").
		Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestSummarize(t *testing.T) {
	t.Run("forwards non-blank texts", func(t *testing.T) {
		fake := &fakeSummarizer{reply: "Students praise the clear lectures."}
		svc, _ := setupService(t, fake)

		summary, err := svc.Summarize([]string{"Great class", "  ", "Tough exams"})
		require.NoError(t, err)
		assert.Equal(t, "Students praise the clear lectures.", summary)
		assert.Equal(t, []string{"Great class", "Tough exams"}, fake.received)
	})

	t.Run("empty batch", func(t *testing.T) {
		svc, _ := setupService(t, &fakeSummarizer{})

		_, err := svc.Summarize([]string{"", "   "})

		var validationErr *reviewService.ValidationError
		require.ErrorAs(t, err, &validationErr)
	})

	t.Run("caps the batch size", func(t *testing.T) {
		fake := &fakeSummarizer{reply: "ok"}
		svc, _ := setupService(t, fake)

		texts := make([]string, 60)
		for i := range texts {
			texts[i] = fmt.Sprintf("review %d", i)
		}

		_, err := svc.Summarize(texts)
		require.NoError(t, err)
		assert.Len(t, fake.received, 50)
	})

	t.Run("adapter failure is surfaced", func(t *testing.T) {
		fake := &fakeSummarizer{err: errors.New("quota exceeded")}
		svc, _ := setupService(t, fake)

		_, err := svc.Summarize([]string{"Great class"})

		var summarizeErr *reviewService.SummarizeError
		require.ErrorAs(t, err, &summarizeErr)
		assert.Contains(t, err.Error(), "quota exceeded")
	})
}
