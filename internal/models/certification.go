package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Certification is issued when a supervisor verifies a completed enrollment.
type Certification struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_certifications_user_course" json:"user_id"`
	CourseID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_certifications_user_course" json:"course_id"`
	Course    *Course   `gorm:"foreignKey:CourseID" json:"course,omitempty"`
	Score     *float64  `json:"score,omitempty"`
	IssuedAt  time.Time `gorm:"not null" json:"issued_at"`
	CreatedAt time.Time `json:"created_at"`
}

func (c *Certification) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
