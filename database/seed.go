package database

import (
	"errors"
	"os"

	"golang.org/x/crypto/bcrypt"

	"github.com/dinebook/reservation-app/models"
	"github.com/dinebook/reservation-app/utils"
)

// SeedDemoData creates a demo seller with one restaurant, tables and a
// small menu when SEED_DEMO_DATA=true. Reads the connection from
// utils.GetDB. Idempotent: skips when any user already exists.
func SeedDemoData() error {
	if os.Getenv("SEED_DEMO_DATA") != "true" {
		return nil
	}

	db := utils.GetDB()
	if db == nil {
		return errors.New("database not initialized")
	}

	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("demo1234"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	seller := models.User{
		Name:     "Demo Seller",
		Email:    "seller@example.com",
		Password: string(hashed),
		Role:     models.RoleSeller,
	}
	if err := db.Create(&seller).Error; err != nil {
		return err
	}

	customer := models.User{
		Name:     "Demo Customer",
		Email:    "customer@example.com",
		Password: string(hashed),
		Role:     models.RoleCustomer,
	}
	if err := db.Create(&customer).Error; err != nil {
		return err
	}

	restaurant := models.Restaurant{
		OwnerID:     seller.ID,
		Name:        "Trattoria Demo",
		Description: "Seeded development restaurant",
		Address:     "1 Demo Street",
		CuisineType: "Italian",
	}
	if err := db.Create(&restaurant).Error; err != nil {
		return err
	}

	tables := []models.Table{
		{RestaurantID: restaurant.ID, TableNumber: "T1", Capacity: 2},
		{RestaurantID: restaurant.ID, TableNumber: "T2", Capacity: 4},
		{RestaurantID: restaurant.ID, TableNumber: "T3", Capacity: 6},
	}
	if err := db.Create(&tables).Error; err != nil {
		return err
	}

	menu := []models.MenuItem{
		{RestaurantID: restaurant.ID, Name: "Margherita", Price: 11.50},
		{RestaurantID: restaurant.ID, Name: "Carbonara", Price: 13.00},
		{RestaurantID: restaurant.ID, Name: "Tiramisu", Price: 6.50},
	}
	if err := db.Create(&menu).Error; err != nil {
		return err
	}

	utils.InfoLogger.Println("Demo data seeded.")
	return nil
}
