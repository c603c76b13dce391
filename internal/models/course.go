package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Course is a catalog entry offered by a learning partner.
type Course struct {
	ID              uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	Partner         string                      `gorm:"size:255" json:"partner"`
	Title           string                      `gorm:"size:255;not null" json:"title"`
	Skills          datatypes.JSONSlice[string] `json:"skills"`
	Rating          float64                     `json:"rating"`
	ReviewCount     int                         `json:"review_count"`
	Level           string                      `gorm:"size:50;index" json:"level"`
	CertificateType string                      `gorm:"size:100" json:"certificate_type"`
	Duration        string                      `gorm:"size:100" json:"duration"`
	CreditEligible  bool                        `gorm:"default:false" json:"credit_eligible"`
	CreatedAt       time.Time                   `json:"created_at"`
	UpdatedAt       time.Time                   `json:"updated_at"`
}

func (c *Course) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.Skills == nil {
		c.Skills = datatypes.JSONSlice[string]{}
	}
	return nil
}

// CourseCompletion is a catalog-wide completion event for one employee code.
type CourseCompletion struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID       uuid.UUID `gorm:"type:uuid;not null;index" json:"course_id"`
	EmployeeID     string    `gorm:"size:50;not null;index" json:"employee_id"`
	CompletionDate time.Time `gorm:"not null" json:"completion_date"`
	CreatedAt      time.Time `json:"created_at"`
}

func (c *CourseCompletion) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
