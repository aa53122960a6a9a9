package config

import (
	"fmt"
	"log"
	"math/rand"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ismailgltknn/shoppin/models"
	"github.com/ismailgltknn/shoppin/utils"
)

func SeedCategories(db *gorm.DB) {
	log.Println("Seeding categories...")

	names := []string{
		"Electronics",
		"Fashion",
		"Home & Living",
		"Books",
		"Toys",
		"Sports",
		"Beauty",
		"Office Supplies",
		"Kitchen",
		"Baby",
	}

	for _, name := range names {
		category := models.Category{
			Name: name,
			Slug: slugify(name),
		}
		var existing models.Category
		if err := db.Where("slug = ?", category.Slug).First(&existing).Error; err == gorm.ErrRecordNotFound {
			if err := db.Create(&category).Error; err != nil {
				log.Printf("Failed to seed category %s: %v", name, err)
			}
		}
	}
}

func SeedAdminUser(db *gorm.DB) {
	var existing models.User
	if err := db.Where("email = ?", "admin@admin.com").First(&existing).Error; err != gorm.ErrRecordNotFound {
		return
	}

	password, err := utils.HashPassword("password123")
	if err != nil {
		log.Printf("Failed to hash admin password: %v", err)
		return
	}

	admin := models.User{
		Name:     "Admin",
		Email:    "admin@admin.com",
		Password: password,
		Role:     models.RoleAdmin,
	}

	if err := db.Create(&admin).Error; err != nil {
		log.Printf("Failed to seed admin user: %v", err)
		return
	}

	log.Printf("Admin user created: %s (ID: %d)", admin.Email, admin.ID)
}

func SeedProducts(db *gorm.DB) {
	log.Println("Seeding products...")

	var categories []models.Category
	if err := db.Find(&categories).Error; err != nil || len(categories) == 0 {
		log.Println("No categories available, skipping product seed")
		return
	}

	for i := 1; i <= 48; i++ {
		name := fmt.Sprintf("Sample Product %d", i)
		image := fmt.Sprintf("https://picsum.photos/seed/product%d/500/350", i)
		product := models.Product{
			Name:        name,
			Slug:        fmt.Sprintf("%s-%d", slugify(name), i),
			Description: "Seeded catalog item for local development.",
			Price:       decimal.NewFromFloat(float64(rand.Intn(195000)+5000) / 100),
			Stock:       rand.Intn(101),
			Image:       &image,
		}
		if err := db.Create(&product).Error; err != nil {
			log.Printf("Failed to seed product %s: %v", name, err)
			continue
		}
		category := categories[rand.Intn(len(categories))]
		if err := db.Model(&product).Association("Categories").Replace(&category); err != nil {
			log.Printf("Failed to link product %s to category: %v", name, err)
		}
	}

	log.Println("Product seeding complete.")
}

func slugify(name string) string {
	slug := strings.ToLower(name)
	slug = strings.ReplaceAll(slug, "&", "and")
	slug = strings.Join(strings.Fields(slug), "-")
	return slug
}
