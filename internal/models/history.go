package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// HistoryRecord is written once per analysis and never updated.
type HistoryRecord struct {
	ID             uuid.UUID `gorm:"type:varchar(36);primaryKey" json:"id"`
	RoleTemplate   string    `gorm:"type:text" json:"role_template"`
	JobDescription string    `gorm:"type:text;not null" json:"job_description"`
	MatchScore     float64   `gorm:"not null" json:"match_score"`
	CreatedAt      time.Time `gorm:"index" json:"timestamp"`
}

func (HistoryRecord) TableName() string {
	return "history"
}

func (h *HistoryRecord) BeforeCreate(_ *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}
