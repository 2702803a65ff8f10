package seeders

import (
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/printvault/printvault_api/model"
	"github.com/printvault/printvault_api/shared"
)

// ProductSeeder populates the starter catalog.
type ProductSeeder struct {
	db *gorm.DB
}

func NewProductSeeder(db *gorm.DB) *ProductSeeder {
	return &ProductSeeder{db: db}
}

type seedProduct struct {
	Name          string
	Slug          string
	Description   string
	Price         float64
	IsFree        bool
	Category      string
	Tags          []string
	FileURL       string
	FileSize      float64
	PreviewImages []string
	Thumbnail     string
	Downloads     int64
	Featured      bool
}

var seedCatalog = []seedProduct{
	{
		Name:          "Articulated Dragon",
		Slug:          "articulated-dragon",
		Description:   "Fully articulated dragon with moving joints. No supports needed! Perfect for display or play. This amazing print-in-place dragon features multiple articulation points allowing for dynamic poses.",
		IsFree:        true,
		Category:      shared.CategoryFigures,
		Tags:          []string{"dragon", "articulated", "flexible", "toys", "print-in-place"},
		FileURL:       "models/free/articulated-dragon-v1.stl",
		FileSize:      12.5,
		PreviewImages: []string{"https://images.unsplash.com/photo-1578632292335-df3abbb0d586?w=800"},
		Thumbnail:     "https://images.unsplash.com/photo-1578632292335-df3abbb0d586?w=600&h=600&fit=crop",
		Downloads:     25420,
		Featured:      true,
	},
	{
		Name:          "Flexi Rex Dinosaur",
		Slug:          "flexi-rex-dinosaur",
		Description:   "Flexible T-Rex with articulated joints. Fun and easy to print! Kids absolutely love it. Features a unique flexible body that prints as one piece.",
		IsFree:        true,
		Category:      shared.CategoryToys,
		Tags:          []string{"dinosaur", "flexi", "articulated", "toy", "kids"},
		FileURL:       "models/free/flexi-rex-v1.stl",
		FileSize:      8.3,
		PreviewImages: []string{"https://images.unsplash.com/photo-1565026057447-bc90a3dceb87?w=800"},
		Thumbnail:     "https://images.unsplash.com/photo-1565026057447-bc90a3dceb87?w=600&h=600&fit=crop",
		Downloads:     32900,
		Featured:      true,
	},
	{
		Name:          "Cable Management Clips",
		Slug:          "cable-management-clips",
		Description:   "Universal cable organizers for desk and wall mounting. Pack of 20 different sizes included. Keep your workspace tidy with these practical clips.",
		IsFree:        true,
		Category:      shared.CategoryTools,
		Tags:          []string{"cable", "organizer", "desk", "utility", "practical"},
		FileURL:       "models/free/cable-clips-v1.stl",
		FileSize:      2.1,
		PreviewImages: []string{"https://images.unsplash.com/photo-1558618666-fcd25c85cd64?w=800"},
		Thumbnail:     "https://images.unsplash.com/photo-1558618666-fcd25c85cd64?w=600&h=600&fit=crop",
		Downloads:     48200,
		Featured:      true,
	},
	{
		Name:          "Planetary Gear Fidget",
		Slug:          "planetary-gear-fidget",
		Description:   "Mesmerizing planetary gear system. Print-in-place with smooth action. No assembly required! Watch the gears move in perfect harmony.",
		IsFree:        true,
		Category:      shared.CategoryToys,
		Tags:          []string{"gear", "fidget", "mechanical", "print-in-place"},
		FileURL:       "models/free/planetary-gear-v1.stl",
		FileSize:      5.7,
		PreviewImages: []string{"https://images.unsplash.com/photo-1620756768662-08c03716f742?w=800"},
		Thumbnail:     "https://images.unsplash.com/photo-1620756768662-08c03716f742?w=600&h=600&fit=crop",
		Downloads:     21580,
		Featured:      true,
	},
	{
		Name:          "Sample Cube (Test)",
		Slug:          "sample-cube",
		Description:   "A simple 1cm cube for testing your 3D printer calibration. Perfect for first layer tests and basic printer diagnostics.",
		IsFree:        true,
		Category:      shared.CategoryOther,
		Tags:          []string{"test", "calibration", "cube", "simple"},
		FileURL:       "models/free/sample-cube.stl",
		FileSize:      0.001,
		PreviewImages: []string{"https://images.unsplash.com/photo-1606041011872-596597976b25?w=800"},
		Thumbnail:     "https://images.unsplash.com/photo-1606041011872-596597976b25?w=600&h=600&fit=crop",
		Downloads:     103500,
	},
	{
		Name:          "Cyberpunk Helmet",
		Slug:          "cyberpunk-helmet",
		Description:   "Futuristic wearable helmet perfect for cosplay. Split into printable pieces with detailed assembly guide. Features LED mounting points and adjustable sizing.",
		Price:         24.99,
		Category:      shared.CategoryOther,
		Tags:          []string{"cyberpunk", "helmet", "cosplay", "wearable", "futuristic"},
		FileURL:       "models/premium/cyberpunk-helmet-v2.zip",
		FileSize:      145.3,
		PreviewImages: []string{"https://images.unsplash.com/photo-1589254065878-42c9da997008?w=800"},
		Thumbnail:     "https://images.unsplash.com/photo-1589254065878-42c9da997008?w=600&h=600&fit=crop",
		Downloads:     4450,
		Featured:      true,
	},
	{
		Name:          "Samurai Armor Set",
		Slug:          "samurai-armor-set",
		Description:   "Complete wearable samurai armor for cosplay. Life-sized and highly detailed with comprehensive assembly guide. Includes chest plate, shoulder guards, helmet, and more.",
		Price:         49.99,
		Category:      shared.CategoryOther,
		Tags:          []string{"samurai", "armor", "cosplay", "wearable", "japanese"},
		FileURL:       "models/premium/samurai-armor-complete-v1.zip",
		FileSize:      328.7,
		PreviewImages: []string{"https://images.unsplash.com/photo-1613376023733-0a73315d9b06?w=800"},
		Thumbnail:     "https://images.unsplash.com/photo-1613376023733-0a73315d9b06?w=600&h=600&fit=crop",
		Downloads:     2890,
	},
	{
		Name:          "Mandalorian Helmet",
		Slug:          "mandalorian-helmet",
		Description:   "Screen-accurate helmet inspired by the popular space bounty hunter. Sized for adults with LED mounting points included. Split into easy-to-print pieces.",
		Price:         34.99,
		Category:      shared.CategoryOther,
		Tags:          []string{"mandalorian", "helmet", "star-wars", "cosplay", "armor"},
		FileURL:       "models/premium/mandalorian-helmet-v3.zip",
		FileSize:      187.2,
		PreviewImages: []string{"https://images.unsplash.com/photo-1608889476518-738c9b1dcb7e?w=800"},
		Thumbnail:     "https://images.unsplash.com/photo-1608889476518-738c9b1dcb7e?w=600&h=600&fit=crop",
		Downloads:     9420,
	},
}

func (s *ProductSeeder) SeedProducts() error {
	for _, entry := range seedCatalog {
		var existing model.Product
		if err := s.db.Where("slug = ?", entry.Slug).First(&existing).Error; err == nil {
			log.Printf("Product %s already exists, skipping", entry.Slug)
			continue
		}

		tags, _ := json.Marshal(entry.Tags)
		previews, _ := json.Marshal(entry.PreviewImages)
		id, _ := uuid.NewV7()

		product := model.Product{
			ID:            id.String(),
			Name:          entry.Name,
			Slug:          entry.Slug,
			Description:   entry.Description,
			Price:         entry.Price,
			IsFree:        entry.IsFree,
			Category:      entry.Category,
			Tags:          tags,
			FileURL:       entry.FileURL,
			FileSize:      entry.FileSize,
			PreviewImages: previews,
			Thumbnail:     entry.Thumbnail,
			Downloads:     entry.Downloads,
			Featured:      entry.Featured,
			CreatedAt:     time.Now(),
			UpdatedAt:     time.Now(),
		}

		if err := s.db.Create(&product).Error; err != nil {
			log.Printf("Error creating product %s: %v", entry.Slug, err)
			return err
		}

		log.Printf("Created product: %s", entry.Name)
	}

	return nil
}
