package models

import "time"

type Restaurant struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	OwnerID      uint      `gorm:"not null;index" json:"owner_id"`
	Owner        User      `gorm:"foreignKey:OwnerID;references:ID" json:"-"`
	Name         string    `gorm:"type:varchar(255);not null" json:"name"`
	Description  string    `gorm:"type:text" json:"description"`
	Address      string    `gorm:"type:varchar(255)" json:"address"`
	ContactPhone string    `gorm:"type:varchar(50)" json:"contact_phone"`
	Email        string    `gorm:"type:varchar(255)" json:"email"`
	CoverImage   string    `gorm:"type:varchar(255)" json:"cover_image"`
	CuisineType  string    `gorm:"type:varchar(100)" json:"cuisine_type"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null" json:"updated_at"`
}
