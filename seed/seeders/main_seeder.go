package seeders

import (
	"log"

	"gorm.io/gorm"
)

// MainSeeder coordinates all seeding operations
type MainSeeder struct {
	db *gorm.DB
}

func NewMainSeeder(db *gorm.DB) *MainSeeder {
	return &MainSeeder{db: db}
}

// SeedAll runs all seeders in the correct order
func (s *MainSeeder) SeedAll() error {
	log.Println("Starting database seeding...")

	adminSeeder := NewAdminSeeder(s.db)
	if err := adminSeeder.SeedAdmin(); err != nil {
		log.Printf("Admin seeding failed: %v", err)
		return err
	}

	productSeeder := NewProductSeeder(s.db)
	if err := productSeeder.SeedProducts(); err != nil {
		log.Printf("Product seeding failed: %v", err)
		return err
	}

	log.Println("Database seeding completed successfully!")
	return nil
}

// SeedUsersOnly seeds only the bootstrap accounts
func (s *MainSeeder) SeedUsersOnly() error {
	adminSeeder := NewAdminSeeder(s.db)
	return adminSeeder.SeedAdmin()
}

// SeedProductsOnly seeds only the starter catalog
func (s *MainSeeder) SeedProductsOnly() error {
	productSeeder := NewProductSeeder(s.db)
	return productSeeder.SeedProducts()
}
