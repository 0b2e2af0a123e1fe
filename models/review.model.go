package models

import "gorm.io/gorm"

// Review is a single student-authored evaluation of a professor/course/semester
// combination. Reviews are never updated or deleted once submitted.
type Review struct {
	gorm.Model
	ProfessorName string `gorm:"size:255;not null;index"`
	CourseName    string `gorm:"size:255;not null;index"`
	Department    string `gorm:"size:255;index"` // Optional on submission
	Semester      string `gorm:"size:50;not null"`
	ReviewText    string `gorm:"type:text;not null"`

	TeachingRating     int `gorm:"default:0;check:teaching_rating >= 0 AND teaching_rating <= 5"`
	DifficultyRating   int `gorm:"default:0;check:difficulty_rating >= 0 AND difficulty_rating <= 5"`
	OrganizationRating int `gorm:"default:0;check:organization_rating >= 0 AND organization_rating <= 5"`
	HelpfulnessRating  int `gorm:"default:0;check:helpfulness_rating >= 0 AND helpfulness_rating <= 5"`
	OverallRating      int `gorm:"not null;check:overall_rating >= 1 AND overall_rating <= 5"`

	StudentName  string `gorm:"size:255"`           // May be empty, client shows "Anonymous"
	StudentEmail string `gorm:"size:100;index"`     // Ownership filtering only, never displayed
}

// ReviewLike records a one-per-user endorsement of a review. The composite
// unique index is the source of truth for the at-most-one-like invariant:
// concurrent likes that pass the application-level check still collide here.
type ReviewLike struct {
	gorm.Model
	ReviewID  uint   `gorm:"not null;uniqueIndex:idx_review_like_once"`
	UserEmail string `gorm:"size:100;not null;uniqueIndex:idx_review_like_once"`
}
