package config

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"tea-techniques-api/models"
)

// InitDB opens the configured database and applies the schema.
func InitDB(cfg *Config) (*gorm.DB, error) {
	db, err := OpenDB(cfg)
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// OpenDB opens the database without migrating.
func OpenDB(cfg *Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	}
	if cfg.Debug {
		gormCfg.Logger = gormlogger.Default.LogMode(gormlogger.Info)
	}

	var db *gorm.DB
	var err error
	if cfg.UseSQLite {
		log.Info().Str("path", cfg.SQLitePath).Msg("using embedded sqlite store")
		db, err = gorm.Open(sqlite.Open(cfg.SQLitePath), gormCfg)
	} else {
		db, err = gorm.Open(postgres.Open(cfg.postgresDSN()), gormCfg)
	}
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.DBPoolSize)
	sqlDB.SetMaxIdleConns(cfg.DBPoolSize)

	return db, nil
}

func (cfg *Config) postgresDSN() string {
	if cfg.DatabaseURL != "" {
		return cfg.DatabaseURL
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName)
}

// Migrate creates or updates the schema for all catalog entities.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.AssuranceGoal{},
		&models.Category{},
		&models.SubCategory{},
		&models.Tag{},
		&models.AttributeType{},
		&models.ResourceType{},
		&models.Technique{},
		&models.AttributeValue{},
		&models.TechniqueResource{},
		&models.TechniqueExampleUseCase{},
		&models.TechniqueLimitation{},
		&models.User{},
		&models.Session{},
	)
}

// DropAll drops every catalog table, join tables included.
func DropAll(db *gorm.DB) error {
	return db.Migrator().DropTable(
		"technique_assurance_goal",
		"technique_category",
		"technique_subcategory",
		"technique_tag",
		&models.AttributeValue{},
		&models.TechniqueResource{},
		&models.TechniqueExampleUseCase{},
		&models.TechniqueLimitation{},
		&models.Technique{},
		&models.SubCategory{},
		&models.Category{},
		&models.AssuranceGoal{},
		&models.Tag{},
		&models.AttributeType{},
		&models.ResourceType{},
		&models.Session{},
		&models.User{},
	)
}
