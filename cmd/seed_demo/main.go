package main

import (
	"fmt"
	"log"
	"time"

	"github.com/biovolailles/bvugo/internal/config"
	"github.com/biovolailles/bvugo/internal/database"
	"github.com/biovolailles/bvugo/internal/models"
	"github.com/biovolailles/bvugo/internal/utils"
)

func main() {
	fmt.Println("🌱 Biovolailles Union Demo Data Seeder")

	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer db.Close()

	fmt.Println("✅ Connected to database")
	fmt.Println()

	// Run migrations first
	fmt.Println("🔨 Running database migrations...")
	err = db.AutoMigrate(
		&models.UserAuth{},
		&models.UserRole{},
		&models.Cooperative{},
		&models.Flock{},
		&models.Livestock{},
		&models.ProductionLog{},
		&models.IncubationBatch{},
		&models.PackagingBatch{},
		&models.SlaughterBatch{},
		&models.ScanLog{},
	)
	if err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}
	fmt.Println("✅ Migrations complete")
	fmt.Println()

	// Check if data already exists
	var coopCount int64
	db.Model(&models.Cooperative{}).Count(&coopCount)
	if coopCount > 0 {
		fmt.Printf("⚠️  Database already has %d cooperatives. Clear it first? (y/N): ", coopCount)
		var answer string
		fmt.Scanln(&answer)
		if answer != "y" && answer != "Y" {
			fmt.Println("❌ Aborted. Database not modified.")
			return
		}

		fmt.Println("🗑️  Clearing existing data...")
		db.Exec("TRUNCATE TABLE scan_logs CASCADE")
		db.Exec("TRUNCATE TABLE packaging_batches CASCADE")
		db.Exec("TRUNCATE TABLE slaughter_batches CASCADE")
		db.Exec("TRUNCATE TABLE incubation_batches CASCADE")
		db.Exec("TRUNCATE TABLE production_logs CASCADE")
		db.Exec("TRUNCATE TABLE livestock CASCADE")
		db.Exec("TRUNCATE TABLE flocks CASCADE")
		db.Exec("TRUNCATE TABLE cooperatives CASCADE")
		fmt.Println("✅ Data cleared")
	}

	fmt.Println()
	fmt.Println("🐔 Creating demo data...")
	fmt.Println()

	// 1. Cooperatives
	fmt.Println("🏡 Creating cooperatives...")
	lat, lng := 33.4362, -5.2213
	coops := []models.Cooperative{
		{Name: "Coop Atlas", Location: "Azrou", GpsLat: &lat, GpsLng: &lng,
			ManagerName: "H. Benali", CertificationNumber: "ONSSA-771"},
		{Name: "Coop Tafilalet", Location: "Errachidia", ManagerName: "S. Ouhaddou"},
	}
	for i := range coops {
		if err := db.Create(&coops[i]).Error; err != nil {
			log.Printf("⚠️  Failed to create cooperative %s: %v", coops[i].Name, err)
		} else {
			fmt.Printf("   ✓ Created cooperative: %s\n", coops[i].Name)
		}
	}

	// 2. Flocks and livestock
	fmt.Println("🐣 Creating flocks and livestock...")
	flock := models.Flock{
		CooperativeID: coops[0].ID,
		Breed:         "Rhode Island",
		ArrivalDate:   time.Date(2024, 11, 2, 0, 0, 0, 0, time.UTC),
		QuantityHens:  1200,
		QuantityMales: 80,
		FeedType:      "maïs bio",
	}
	if err := db.Create(&flock).Error; err != nil {
		log.Fatalf("❌ Failed to create flock: %v", err)
	}
	fmt.Printf("   ✓ Created flock: %s (%s)\n", flock.Breed, coops[0].Name)

	weight := 42.5
	herd := models.Livestock{
		CooperativeID: coops[1].ID,
		AnimalType:    models.AnimalOvine,
		Breed:         "Timahdite",
		Quantity:      300,
		WeightAvgKg:   &weight,
		FeedType:      "pâturage",
		ArrivalDate:   time.Date(2024, 9, 15, 0, 0, 0, 0, time.UTC),
	}
	if err := db.Create(&herd).Error; err != nil {
		log.Fatalf("❌ Failed to create livestock: %v", err)
	}
	fmt.Printf("   ✓ Created livestock: %s %s (%s)\n", herd.AnimalType, herd.Breed, coops[1].Name)

	// 3. Production logs
	fmt.Println("📋 Creating production logs...")
	logs := []models.ProductionLog{
		{FlockID: flock.ID, CollectionDate: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), FeedType: "orge", VetCheckPassed: true},
		{FlockID: flock.ID, CollectionDate: time.Date(2025, 2, 8, 0, 0, 0, 0, time.UTC), FeedType: "maïs", VetCheckPassed: true},
	}
	for i := range logs {
		if err := db.Create(&logs[i]).Error; err != nil {
			log.Printf("⚠️  Failed to create production log: %v", err)
		}
	}
	fmt.Printf("   ✓ Created %d production logs\n", len(logs))

	// 4. Packaging batch with a stable demo reference
	fmt.Println("📦 Creating packaging batch...")
	flockID := flock.ID
	batch := models.PackagingBatch{
		BatchRef:     "BVU-2025-0001",
		FlockID:      &flockID,
		QuantityEggs: 360,
		Grade:        "A",
		PackageDate:  time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC),
		OnssaNumber:  "ONSSA-LOT-2291",
	}
	batch.QrCodeURL = utils.TraceURL(cfg.PublicOrigin, batch.BatchRef)
	if err := db.Create(&batch).Error; err != nil {
		log.Fatalf("❌ Failed to create packaging batch: %v", err)
	}
	fmt.Printf("   ✓ Created packaging batch: %s\n", batch.BatchRef)

	// 5. Slaughter batch
	fmt.Println("🔪 Creating slaughter batch...")
	herdID := herd.ID
	slaughter := models.SlaughterBatch{
		BatchRef:      utils.GenerateBatchRef(),
		LivestockID:   &herdID,
		QuantityBirds: 45,
		TotalKg:       1870.0,
		SlaughterDate: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	slaughter.QrCodeURL = utils.TraceURL(cfg.PublicOrigin, slaughter.BatchRef)
	if err := db.Create(&slaughter).Error; err != nil {
		log.Fatalf("❌ Failed to create slaughter batch: %v", err)
	}
	fmt.Printf("   ✓ Created slaughter batch: %s\n", slaughter.BatchRef)

	// 6. Admin account
	fmt.Println("👤 Creating super admin account...")
	hash, err := utils.HashPassword("admin123")
	if err != nil {
		log.Fatalf("❌ Failed to hash password: %v", err)
	}
	admin := models.UserAuth{
		Email:    "admin@bvunion.ma",
		Password: hash,
		FullName: "Union Admin",
		Approved: true,
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Printf("⚠️  Failed to create admin: %v", err)
	} else {
		db.Create(&models.UserRole{UserID: admin.ID, Role: models.RoleSuperAdmin})
		fmt.Printf("   ✓ Created admin: %s (password: admin123)\n", admin.Email)
	}

	fmt.Println()
	fmt.Printf("🎉 Done. Try: GET %s\n", utils.TraceURL(cfg.PublicOrigin, batch.BatchRef))
}
