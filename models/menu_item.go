package models

import "time"

type MenuItem struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	RestaurantID uint       `gorm:"not null;index" json:"restaurant_id"`
	Restaurant   Restaurant `gorm:"foreignKey:RestaurantID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Name         string     `gorm:"type:varchar(255);not null" json:"name"`
	Description  string     `gorm:"type:text" json:"description"`
	Price        float64    `gorm:"type:decimal(10,2);not null" json:"price"`
	ImageURL     string     `gorm:"type:varchar(255)" json:"image_url"`
	CreatedAt    time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"not null" json:"updated_at"`
}
