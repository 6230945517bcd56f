package model

import "time"

// Todo is a single item on the list. Seq only orders records by insertion;
// DueDate is kept verbatim and parsed only when sorting.
type Todo struct {
	Seq         uint      `gorm:"primaryKey"`
	ID          string    `gorm:"uniqueIndex;size:36"`
	CategoryID  string    `gorm:"index;size:36"`
	Title       string    `gorm:"not null"`
	Description string    `gorm:"not null"`
	DueDate     string    `gorm:"not null"`
	Completed   bool      `gorm:"default:false"`
	CreatedAt   time.Time `gorm:"autoCreateTime:false"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime:false"`
}
