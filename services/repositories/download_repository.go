package repositories

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/printvault/printvault_api/model"
)

type DownloadRepository struct {
	BaseRepository
}

func NewDownloadRepository(db *gorm.DB) *DownloadRepository {
	return &DownloadRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

func (ds *DownloadRepository) CreateLog(entry *model.DownloadLog) error {
	if entry.ID == "" {
		id, _ := uuid.NewV7()
		entry.ID = id.String()
	}
	return ds.db.Create(entry).Error
}

func (ds *DownloadRepository) CountByOutcome(outcome string) (int64, error) {
	var count int64
	err := ds.db.Model(&model.DownloadLog{}).
		Where("outcome = ?", outcome).
		Count(&count).Error
	return count, err
}
