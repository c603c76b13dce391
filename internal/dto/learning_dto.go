package dto

import (
	"encoding/json"
	"time"

	"github.com/ahmetcoskunkizilkaya/learnhub-backend/internal/models"
	"github.com/google/uuid"
)

type AddCourseRequest struct {
	CourseID string `json:"course_id" validate:"required,uuid"`
}

// UpdateProgressRequest uses a pointer so that a missing value is rejected
// instead of silently resetting progress to zero.
type UpdateProgressRequest struct {
	Progress *int `json:"progress" validate:"required"`
}

type SubmitToSupervisorRequest struct {
	Score          *float64   `json:"score"`
	SelectedSkills []string   `json:"selected_skills"`
	CompletionDate *time.Time `json:"completion_date"`
}

type EnrollmentResponse struct {
	CourseID       uuid.UUID      `json:"course_id"`
	Course         *models.Course `json:"course"`
	Progress       int            `json:"progress"`
	Type           string         `json:"type"`
	Score          *float64       `json:"score"`
	CompletionDate *time.Time     `json:"completion_date"`
	IsVerified     bool           `json:"is_verified"`
}

type ScoreResponse struct {
	CourseID       uuid.UUID  `json:"course_id"`
	Score          *float64   `json:"score"`
	Progress       int        `json:"progress"`
	IsVerified     bool       `json:"is_verified"`
	CompletionDate *time.Time `json:"completion_date"`
}

// SkillResponse is one entry of a user's skill set. ID is nil when the
// entry does not match a catalog skill.
type SkillResponse struct {
	ID          *uuid.UUID `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Level       string     `json:"level,omitempty"`
}

type DepartmentSkillResponse struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	Level          string    `json:"level"`
	DepartmentID   uuid.UUID `json:"department_id"`
	DepartmentName string    `json:"department_name"`
}

type GamificationProgress struct {
	Level      string  `json:"level"`
	Points     int     `json:"points"`
	MinPoints  int     `json:"min_points"`
	MaxPoints  int     `json:"max_points"`
	Percentage float64 `json:"percentage"`
	NextLevel  string  `json:"next_level,omitempty"`
}

type ProfileResponse struct {
	ID             uuid.UUID            `json:"id"`
	FirstName      string               `json:"first_name"`
	LastName       string               `json:"last_name"`
	Email          string               `json:"email"`
	Role           string               `json:"role"`
	DepartmentName string               `json:"department_name"`
	EmployeeID     string               `json:"employee_id"`
	Designation    string               `json:"designation"`
	Points         int                  `json:"points"`
	Progress       GamificationProgress `json:"progress"`
}

type ChartSeries struct {
	Labels []string `json:"labels"`
	Data   []int    `json:"data"`
}

type ScoreSeries struct {
	Labels []string  `json:"labels"`
	Data   []float64 `json:"data"`
}

type StatisticsResponse struct {
	EmployeeID         string               `json:"employee_id"`
	Points             int                  `json:"points"`
	Designation        string               `json:"designation"`
	Progress           GamificationProgress `json:"progress"`
	CompletionsByMonth ChartSeries          `json:"completions_by_month"`
	SkillDistribution  ChartSeries          `json:"skill_distribution"`
	PointsOverTime     ScoreSeries          `json:"points_over_time"`
	CourseTypes        ChartSeries          `json:"course_types"`
	CompletionRate     int                  `json:"completion_rate"`
}

// Recommendation is one item produced by the recommendation engine. Its
// shape is owned by the engine and passed through untouched.
type Recommendation = json.RawMessage
