package model

import "time"

// Category groups todos by area (work, personal, etc.).
type Category struct {
	Seq       uint      `gorm:"primaryKey"`
	ID        string    `gorm:"uniqueIndex;size:36"`
	Name      string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime:false"`
}
