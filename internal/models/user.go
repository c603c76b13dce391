package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	RoleEmployee = "employee"
	RoleAdmin    = "admin"
)

// DefaultEnrollmentType is the type given to courses added from the catalog.
const DefaultEnrollmentType = "Course"

// User is an employee account together with its learning record. The
// enrolled courses and the skill set live on the same row so that every
// mutation of the record is persisted by a single save.
type User struct {
	ID           uuid.UUID                             `gorm:"type:uuid;primaryKey" json:"id"`
	FirstName    string                                `gorm:"size:100;not null" json:"first_name"`
	LastName     string                                `gorm:"size:100;not null" json:"last_name"`
	Email        string                                `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Password     string                                `gorm:"not null" json:"-"`
	Role         string                                `gorm:"size:20;default:'employee'" json:"role"`
	EmployeeID   string                                `gorm:"size:50;not null;uniqueIndex" json:"employee_id"`
	DepartmentID *uuid.UUID                            `gorm:"type:uuid;index" json:"department_id,omitempty"`
	Department   *Department                           `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	Designation  string                                `gorm:"size:100" json:"designation"`
	Points       int                                   `gorm:"default:0" json:"points"`
	Courses      datatypes.JSONSlice[CourseEnrollment] `json:"courses"`
	Skills       datatypes.JSONSlice[string]           `json:"skills"`
	CreatedAt    time.Time                             `json:"created_at"`
	UpdatedAt    time.Time                             `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = RoleEmployee
	}
	if u.Courses == nil {
		u.Courses = datatypes.JSONSlice[CourseEnrollment]{}
	}
	if u.Skills == nil {
		u.Skills = datatypes.JSONSlice[string]{}
	}
	return nil
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CourseEnrollment is one entry of a user's learning bucket.
type CourseEnrollment struct {
	CourseID       uuid.UUID  `json:"course_id"`
	Progress       int        `json:"progress"`
	Type           string     `json:"type"`
	Score          *float64   `json:"score,omitempty"`
	CompletionDate *time.Time `json:"completion_date,omitempty"`
	IsVerified     bool       `json:"is_verified"`
}

// IsComplete reports whether the enrollment counts as finished. A completion
// date is enough; verification is not required.
func (e CourseEnrollment) IsComplete() bool {
	return e.CompletionDate != nil
}

// FindEnrollment returns the index of courseID in the bucket or -1.
func (u *User) FindEnrollment(courseID uuid.UUID) int {
	for i := range u.Courses {
		if u.Courses[i].CourseID == courseID {
			return i
		}
	}
	return -1
}

// HasSkill reports whether skill is already part of the user's skill set.
// Names compare case-insensitively.
func (u *User) HasSkill(skill string) bool {
	for _, s := range u.Skills {
		if strings.EqualFold(s, skill) {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so that callers can mutate the learning record
// without touching the stored value.
func (u *User) Clone() *User {
	cp := *u
	if u.Courses != nil {
		cp.Courses = make(datatypes.JSONSlice[CourseEnrollment], len(u.Courses))
		for i, e := range u.Courses {
			if e.Score != nil {
				score := *e.Score
				e.Score = &score
			}
			if e.CompletionDate != nil {
				at := *e.CompletionDate
				e.CompletionDate = &at
			}
			cp.Courses[i] = e
		}
	}
	if u.Skills != nil {
		cp.Skills = make(datatypes.JSONSlice[string], len(u.Skills))
		copy(cp.Skills, u.Skills)
	}
	if u.DepartmentID != nil {
		id := *u.DepartmentID
		cp.DepartmentID = &id
	}
	if u.Department != nil {
		dept := *u.Department
		cp.Department = &dept
	}
	return &cp
}
