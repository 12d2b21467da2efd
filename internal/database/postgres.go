package database

import (
	"fmt"
	"log/slog"

	"poll-service/internal/catalog"
	"poll-service/internal/config"
	"poll-service/internal/soundtrack"
	"poll-service/internal/user"
	"poll-service/internal/vote"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewPostgresConnection opens a gorm connection with a bounded pool.
// DATABASE_URL takes precedence over the individual POSTGRES_* settings.
func NewPostgresConnection(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := cfg.URI
	if dsn == "" {
		dsn = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		SkipDefaultTransaction:                   true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	// A request that cannot obtain a pooled connection blocks until its
	// context deadline; the pool itself never grows past MaxOpenConns.
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	return db, nil
}

// Migrate runs the schema migration and creates the query indexes.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&catalog.Category{},
		&catalog.Block{},
		&catalog.Question{},
		&catalog.Option{},
		&user.User{},
		&vote.Response{},
		&vote.CheckboxResponse{},
		&vote.OtherResponse{},
		&soundtrack.Soundtrack{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	if err := addIndexes(db); err != nil {
		return fmt.Errorf("failed to add indexes: %w", err)
	}

	slog.Info("Database migration completed")
	return nil
}

func addIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		columns []string
	}{
		{"responses", []string{"question_code", "user_uuid"}},
		{"checkbox_responses", []string{"question_code", "user_uuid"}},
		{"other_responses", []string{"question_code", "user_uuid"}},
		{"options", []string{"question_code"}},
		{"questions", []string{"category_id"}},
	}

	for _, idx := range indexes {
		for _, column := range idx.columns {
			indexName := fmt.Sprintf("idx_%s_%s", idx.table, column)
			if err := db.Exec(fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s (%s)",
				indexName, idx.table, column)).Error; err != nil {
				return err
			}
		}
	}

	return nil
}
