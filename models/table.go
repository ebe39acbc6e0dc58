package models

import "time"

// Table is one physical table of a restaurant. Capacity is the number of
// seats; a multi-table booking sums capacities against the party size.
type Table struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	RestaurantID uint       `gorm:"not null;index" json:"restaurant_id"`
	Restaurant   Restaurant `gorm:"foreignKey:RestaurantID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	TableNumber  string     `gorm:"type:varchar(50);not null" json:"table_number"`
	Capacity     int        `gorm:"not null" json:"capacity"`
	CreatedAt    time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"not null" json:"updated_at"`
}
