package main

import (
	"log"

	"ruralearn/config"
	"ruralearn/database"
	courseModels "ruralearn/models/course"
)

type seedLesson struct {
	Title    string
	Content  string
	Duration int
	VideoURL string
}

type seedCourse struct {
	Title       string
	Description string
	Category    string
	Level       string
	Duration    string
	ImageURL    string
	Lessons     []seedLesson
}

var seedData = []seedCourse{
	{
		Title:       "Organic Farming Basics",
		Description: "Learn the fundamentals of organic farming, from soil preparation to natural pest control.",
		Category:    "Agriculture",
		Level:       courseModels.LevelBeginner,
		Duration:    "4 weeks",
		Lessons: []seedLesson{
			{Title: "Understanding Your Soil", Content: "Soil health is the foundation of organic farming. This lesson covers soil types, testing and preparation.", Duration: 25},
			{Title: "Composting at Home", Content: "Turn farm and kitchen waste into rich compost using simple pit and heap methods.", Duration: 30},
			{Title: "Natural Pest Control", Content: "Neem-based sprays, companion planting and other chemical-free ways to protect your crops.", Duration: 35},
			{Title: "Crop Rotation Planning", Content: "Plan a yearly rotation that keeps soil fertile and breaks pest cycles.", Duration: 30},
		},
	},
	{
		Title:       "Digital Payments and Banking",
		Description: "A practical guide to UPI, mobile banking and keeping your money safe online.",
		Category:    "Financial Literacy",
		Level:       courseModels.LevelBeginner,
		Duration:    "2 weeks",
		Lessons: []seedLesson{
			{Title: "Opening a Bank Account", Content: "Documents needed, types of accounts and how to choose the right one.", Duration: 20},
			{Title: "Using UPI Safely", Content: "Setting up UPI, sending and receiving money, and spotting common scams.", Duration: 25},
			{Title: "Saving and Budgeting", Content: "Simple budgeting habits for seasonal income households.", Duration: 30},
		},
	},
	{
		Title:       "Starting a Small Business",
		Description: "From idea to first sale. Covers registration, pricing and selling in local markets.",
		Category:    "Entrepreneurship",
		Level:       courseModels.LevelIntermediate,
		Duration:    "6 weeks",
		Lessons: []seedLesson{
			{Title: "Finding Your Business Idea", Content: "Spot opportunities in your village economy and validate demand before spending money.", Duration: 30},
			{Title: "Pricing Your Products", Content: "Cost-plus pricing, market rates and when to undercut or go premium.", Duration: 25},
			{Title: "Registering Your Business", Content: "Udyam registration, GST basics and when you need a license.", Duration: 35},
			{Title: "Selling Beyond Your Village", Content: "WhatsApp Business, local aggregators and online marketplaces.", Duration: 40},
		},
	},
	{
		Title:       "Mobile Phone Repair",
		Description: "Hands-on training for diagnosing and repairing common smartphone faults.",
		Category:    "Vocational Skills",
		Level:       courseModels.LevelAdvanced,
		Duration:    "8 weeks",
		Lessons: []seedLesson{
			{Title: "Tools and Workspace Setup", Content: "The essential toolkit and how to set up a safe repair bench.", Duration: 30},
			{Title: "Screen Replacement", Content: "Step by step screen and digitizer replacement for popular models.", Duration: 45},
			{Title: "Battery and Charging Faults", Content: "Diagnosing charging port, battery and power IC problems.", Duration: 40},
			{Title: "Water Damage Recovery", Content: "Cleaning, drying and board-level first aid for liquid damage.", Duration: 50},
			{Title: "Running a Repair Shop", Content: "Sourcing spare parts, warranty policy and customer handling.", Duration: 35},
		},
	},
}

func main() {
	config.LoadConfig()
	database.ConnectDb()
	database.RunMigrations(database.Database.Db)

	db := database.Database.Db
	created := 0
	skipped := 0

	for _, sc := range seedData {
		var existing courseModels.Course
		if err := db.Where("title = ? AND is_deleted = ?", sc.Title, false).First(&existing).Error; err == nil {
			skipped++
			continue
		}

		course := courseModels.Course{
			Title:       sc.Title,
			Description: sc.Description,
			Category:    sc.Category,
			Level:       sc.Level,
			Duration:    sc.Duration,
			ImageURL:    sc.ImageURL,
			Lessons:     len(sc.Lessons),
			IsPublished: true,
		}

		tx := db.Begin()
		if err := tx.Create(&course).Error; err != nil {
			tx.Rollback()
			log.Fatalf("Failed to create course %q: %v", sc.Title, err)
		}

		for i, sl := range sc.Lessons {
			lesson := courseModels.Lesson{
				CourseID:   course.ID,
				Title:      sl.Title,
				Content:    sl.Content,
				Duration:   sl.Duration,
				OrderIndex: i + 1,
				VideoURL:   sl.VideoURL,
			}
			if err := tx.Create(&lesson).Error; err != nil {
				tx.Rollback()
				log.Fatalf("Failed to create lesson %q: %v", sl.Title, err)
			}
		}

		if err := tx.Commit().Error; err != nil {
			log.Fatalf("Failed to commit course %q: %v", sc.Title, err)
		}
		created++
		log.Printf("Seeded course %q with %d lessons", course.Title, len(sc.Lessons))
	}

	log.Printf("Seeding done. Created: %d, Skipped (already present): %d", created, skipped)
}
