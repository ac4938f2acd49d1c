package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"taskquest/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Seed file shape:
//
//	{
//	  "tiers": [{"name": "...", "min_points": 0, "rank": 1, ...}],
//	  "achievements": [{"name": "...", "description": "...", "criteria": "points 100"}]
//	}
type SeedFile struct {
	Tiers        []models.Tier        `json:"tiers"`
	Achievements []models.Achievement `json:"achievements"`
}

func main() {
	path := "./seed/reference.json"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	db := openDB()

	if err := db.AutoMigrate(&models.Tier{}, &models.Achievement{}); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatal("Failed to read seed file:", err)
	}

	var seed SeedFile
	if err := json.Unmarshal(data, &seed); err != nil {
		log.Fatal("Failed to parse seed file:", err)
	}

	imported := 0
	for _, tier := range seed.Tiers {
		res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&tier)
		if res.Error != nil {
			log.Fatalf("Failed to import tier %q: %v", tier.Name, res.Error)
		}
		imported += int(res.RowsAffected)
	}
	fmt.Printf("Imported %d of %d tiers\n", imported, len(seed.Tiers))

	imported = 0
	for _, achievement := range seed.Achievements {
		res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&achievement)
		if res.Error != nil {
			log.Fatalf("Failed to import achievement %q: %v", achievement.Name, res.Error)
		}
		imported += int(res.RowsAffected)
	}
	fmt.Printf("Imported %d of %d achievements\n", imported, len(seed.Achievements))
}

func openDB() *gorm.DB {
	dsn := os.Getenv("DATABASE_URL")

	var (
		db  *gorm.DB
		err error
	)
	if dsn != "" {
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	} else {
		// Local development fallback
		db, err = gorm.Open(sqlite.Open("./data/taskquest.db"), &gorm.Config{})
	}
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	return db
}
