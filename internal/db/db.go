package db

import (
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/mediconsult/consult-scheduler/internal/config"
	"github.com/mediconsult/consult-scheduler/internal/models"
)

func NewDB(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(
		&models.Doctor{},
		&models.ConsultationType{},
		&models.TemplateRange{},
		&models.DateOverride{},
		&models.OverrideRange{},
		&models.Slot{},
		&models.Reservation{},
		&models.AuditLog{},
	); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	seedConsultationTypes(db)

	return db
}

// seedConsultationTypes bootstraps the catalog on an empty database. In
// production the admin service owns these rows; the seed only covers the
// first boot so lookups never hit an empty table.
func seedConsultationTypes(db *gorm.DB) {
	var count int64
	db.Model(&models.ConsultationType{}).Count(&count)
	if count > 0 {
		return
	}

	defaults := []models.ConsultationType{
		{ID: "video", Label: "Video Consultation", DefaultDurationMin: 30, Color: "#2b7de9"},
		{ID: "in_person", Label: "In-Person Visit", DefaultDurationMin: 30, Color: "#27ae60"},
		{ID: "phone", Label: "Phone Consultation", DefaultDurationMin: 15, Color: "#f39c12"},
	}

	if err := db.Create(&defaults).Error; err != nil {
		log.Printf("failed to seed consultation types: %v", err)
	}
}
