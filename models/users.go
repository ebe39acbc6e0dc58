package models

import "time"

const (
	RoleCustomer = "customer"
	RoleSeller   = "seller"
)

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"type:varchar(255);not null" json:"name"`
	Email        string    `gorm:"type:varchar(255);unique;not null" json:"email"`
	Password     string    `gorm:"type:varchar(255);not null" json:"-"`
	Phone        string    `gorm:"type:varchar(50)" json:"phone"`
	ProfileImage string    `gorm:"type:varchar(255)" json:"profile_image"`
	Role         string    `gorm:"type:varchar(20);not null" json:"role"` // customer or seller
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null" json:"updated_at"`
}
