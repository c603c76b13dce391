package dto

import (
	"github.com/ahmetcoskunkizilkaya/learnhub-backend/internal/models"
	"github.com/google/uuid"
)

type CreateEmployeeRequest struct {
	FirstName   string `json:"first_name" validate:"required,max=100"`
	LastName    string `json:"last_name" validate:"required,max=100"`
	Department  string `json:"department" validate:"max=100"`
	Designation string `json:"designation" validate:"max=100"`
	Email       string `json:"email" validate:"omitempty,email"`
	Password    string `json:"password" validate:"omitempty,min=8"`
}

type BulkUploadRequest struct {
	Employees []CreateEmployeeRequest `json:"employees" validate:"required,min=1,dive"`
}

// EmployeeCredentials is returned once, right after creation. The plain
// password is never stored or shown again.
type EmployeeCredentials struct {
	ID         uuid.UUID `json:"id"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	EmployeeID string    `json:"employee_id"`
	Email      string    `json:"email"`
	Password   string    `json:"password"`
}

type BulkRowError struct {
	Row     int    `json:"row"`
	Email   string `json:"email,omitempty"`
	Message string `json:"message"`
}

type BulkUploadResponse struct {
	Created []EmployeeCredentials `json:"created"`
	Errors  []BulkRowError        `json:"errors"`
}

type EmployeeResponse struct {
	ID             uuid.UUID `json:"id"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Email          string    `json:"email"`
	Role           string    `json:"role"`
	EmployeeID     string    `json:"employee_id"`
	DepartmentName string    `json:"department_name"`
	Designation    string    `json:"designation"`
	Points         int       `json:"points"`
	CourseCount    int       `json:"course_count"`
}

type CreateDepartmentRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

type CreateSkillRequest struct {
	Name         string `json:"name" validate:"required,max=100"`
	Description  string `json:"description"`
	Level        string `json:"level" validate:"omitempty,oneof=Beginner Intermediate Advanced Expert"`
	DepartmentID string `json:"department_id" validate:"required,uuid"`
}

// CreateCourseRequest accepts skills either as a list or as the
// comma-separated string the catalog import sheet uses.
type CreateCourseRequest struct {
	Partner         string   `json:"partner" validate:"max=255"`
	Title           string   `json:"title" validate:"required,max=255"`
	Skills          []string `json:"skills"`
	SkillsCSV       string   `json:"skills_csv"`
	Rating          float64  `json:"rating" validate:"gte=0,lte=5"`
	ReviewCount     int      `json:"review_count" validate:"gte=0"`
	Level           string   `json:"level" validate:"max=50"`
	CertificateType string   `json:"certificate_type" validate:"max=100"`
	Duration        string   `json:"duration" validate:"max=100"`
	CreditEligible  bool     `json:"credit_eligible"`
}

type VerifyEnrollmentResponse struct {
	Message       string                  `json:"message"`
	Enrollment    models.CourseEnrollment `json:"enrollment"`
	PointsAwarded int                     `json:"points_awarded"`
	Points        int                     `json:"points"`
}
