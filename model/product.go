package model

import (
	"encoding/json"
	"time"
)

// Product is a downloadable 3D-printable model in the catalog. FileURL is
// relative to the storage root and never exposed to clients directly; the
// download gate resolves and validates it per request.
type Product struct {
	ID            string `gorm:"primaryKey"`
	Name          string `gorm:"not null"`
	Slug          string `gorm:"uniqueIndex;not null"`
	Description   string `gorm:"type:text"`
	Price         float64
	IsFree        bool            `gorm:"default:false;index"`
	Category      string          `gorm:"index"`
	Tags          json.RawMessage `gorm:"type:text"`
	FileURL       string          `gorm:"not null"`
	FileSize      float64         // megabytes
	PreviewImages json.RawMessage `gorm:"type:text"`
	Thumbnail     string
	Downloads     int64 `gorm:"default:0"`
	Featured      bool  `gorm:"default:false;index"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
