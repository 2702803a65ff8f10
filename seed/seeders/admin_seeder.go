package seeders

import (
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/printvault/printvault_api/model"
	"github.com/printvault/printvault_api/shared"
)

// AdminSeeder creates the bootstrap admin account and a test user.
type AdminSeeder struct {
	db *gorm.DB
}

func NewAdminSeeder(db *gorm.DB) *AdminSeeder {
	return &AdminSeeder{db: db}
}

func (s *AdminSeeder) SeedAdmin() error {
	email := os.Getenv("ADMIN_EMAIL")
	if email == "" {
		email = "admin@printvault.local"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin123"
	}

	if err := s.upsertUser(email, "Admin User", password, shared.RoleAdmin); err != nil {
		return err
	}

	return s.upsertUser("test@example.com", "Test User", "test123", shared.RoleUser)
}

func (s *AdminSeeder) upsertUser(email, name, password, role string) error {
	var existing model.User
	if err := s.db.Where("email = ?", email).First(&existing).Error; err == nil {
		log.Printf("User %s already exists, skipping", email)
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	id, _ := uuid.NewV7()

	user := model.User{
		ID:        id.String(),
		Email:     email,
		Name:      name,
		Password:  string(hashed),
		Role:      role,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := s.db.Create(&user).Error; err != nil {
		log.Printf("Error creating user %s: %v", email, err)
		return err
	}

	log.Printf("Created %s account: %s", role, email)
	return nil
}
