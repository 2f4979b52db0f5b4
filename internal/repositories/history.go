package repositories

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/resumatch/resumatch/internal/models"
)

// HistoryRepository is the append-only log of past analyses.
type HistoryRepository interface {
	Record(entry *models.HistoryRecord) error
	ListAll(limit int) ([]models.HistoryRecord, error)
}

type historyRepository struct {
	db *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) HistoryRepository {
	return &historyRepository{db: db}
}

// Record implements HistoryRepository.
func (r *historyRepository) Record(entry *models.HistoryRecord) error {
	if err := r.db.Create(entry).Error; err != nil {
		return fmt.Errorf("failed to record history: %w", err)
	}
	return nil
}

// ListAll implements HistoryRepository. Records come back most recent first;
// a non-positive limit returns everything.
func (r *historyRepository) ListAll(limit int) ([]models.HistoryRecord, error) {
	var records []models.HistoryRecord
	query := r.db.Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	return records, nil
}
