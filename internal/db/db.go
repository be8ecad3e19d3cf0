package db

import (
	"log"
	"os"

	"naebak/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		// Fallback for local dev if not set
		dsn = "host=localhost user=postgres password=postgres dbname=naebak port=5432 sslmode=disable TimeZone=Africa/Cairo"
	}

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	log.Println("Database connection established")

	err = DB.AutoMigrate(
		&models.User{},
		&models.DeputyProfile{},
		&models.Governorate{},
		&models.Complaint{},
		&models.ComplaintAction{},
		&models.ComplaintVote{},
		&models.Attachment{},
		&models.DeputyRating{},
		&models.PointLog{},
		&models.Notification{},
		&models.ManagerPermission{},
		&models.NewsItem{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed")

	seedGovernorates()
}

func seedGovernorates() {
	var count int64
	DB.Model(&models.Governorate{}).Count(&count)
	if count > 0 {
		log.Println("Governorates already seeded, skipping")
		return
	}

	names := map[string]string{
		"cairo":       "القاهرة",
		"giza":        "الجيزة",
		"alexandria":  "الإسكندرية",
		"dakahlia":    "الدقهلية",
		"sharqia":     "الشرقية",
		"qalyubia":    "القليوبية",
		"gharbia":     "الغربية",
		"monufia":     "المنوفية",
		"beheira":     "البحيرة",
		"kafr-sheikh": "كفر الشيخ",
		"damietta":    "دمياط",
		"port-said":   "بورسعيد",
		"ismailia":    "الإسماعيلية",
		"suez":        "السويس",
		"north-sinai": "شمال سيناء",
		"south-sinai": "جنوب سيناء",
		"fayoum":      "الفيوم",
		"beni-suef":   "بني سويف",
		"minya":       "المنيا",
		"assiut":      "أسيوط",
		"sohag":       "سوهاج",
		"qena":        "قنا",
		"luxor":       "الأقصر",
		"aswan":       "أسوان",
		"red-sea":     "البحر الأحمر",
		"new-valley":  "الوادي الجديد",
		"matrouh":     "مطروح",
	}

	for slug, name := range names {
		g := models.Governorate{Name: name, Slug: slug}
		if err := DB.Create(&g).Error; err != nil {
			log.Printf("Failed to create governorate %s: %v", name, err)
		}
	}
	log.Println("Governorates seeded successfully")
}
