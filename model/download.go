package model

import "time"

// DownloadLog is the persistent audit trail for gate decisions. One row per
// attempt that reached a terminal outcome; written best-effort after the
// response is committed.
type DownloadLog struct {
	ID            string `gorm:"primaryKey"`
	ProductID     string `gorm:"not null;index"`
	Identity      string `gorm:"not null;index;size:255"`
	Authenticated bool
	Outcome       string `gorm:"not null;size:32"`
	CreatedAt     time.Time
}

const (
	DownloadOutcomeServed      = "served"
	DownloadOutcomeRateLimited = "rate_limited"
	DownloadOutcomeDenied      = "denied"
	DownloadOutcomeInvalidPath = "invalid_path"
	DownloadOutcomeMissing     = "missing_file"
)
