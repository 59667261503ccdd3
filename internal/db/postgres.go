package db

import (
	"fmt"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/oddjobz/oddjobz-backend/internal/logger"
	"github.com/oddjobz/oddjobz-backend/internal/types"
	"github.com/oddjobz/oddjobz-backend/internal/utils"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

// NewPostgresService connects using DATABASE_URL when present, otherwise the
// discrete POSTGRES_* variables. Missing both is a startup misconfiguration.
func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		postgresUser := os.Getenv("POSTGRES_USER")
		postgresPassword := os.Getenv("POSTGRES_PASSWORD")
		if postgresUser == "" || postgresPassword == "" {
			return nil, fmt.Errorf("database not configured: set DATABASE_URL or POSTGRES_USER/POSTGRES_PASSWORD")
		}
		postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", log)
		postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", log)
		postgresName := utils.GetEnv("POSTGRES_NAME", "oddjobz", log)
		dsn = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)
	}

	serviceLog.Info("Connecting to Postgres...")
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
	})
	if err != nil {
		serviceLog.Error("Failed to connect to Postgres", "error", err)
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}

	if err := gdb.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		serviceLog.Error("Failed to enable uuid-ossp extension", "error", err)
		return nil, fmt.Errorf("failed to enable uuid-ossp extension: %w", err)
	}

	return &PostgresService{db: gdb, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	err := s.db.AutoMigrate(
		&types.User{},
		&types.UserToken{},
		&types.Message{},
		&types.Quote{},
		&types.Review{},
	)
	if err != nil {
		s.log.Error("Auto migration failed for postgres tables", "error", err)
		return err
	}

	s.log.Info("Configuring foreign key relationships for postgres tables...")
	cascades := []struct {
		table      string
		constraint string
		column     string
	}{
		{"user_token", "fk_user_token_user_id", "user_id"},
		{"messages", "fk_messages_sender_id", "sender_id"},
		{"messages", "fk_messages_recipient_id", "recipient_id"},
		{"quotes", "fk_quotes_provider_id", "provider_id"},
		{"quotes", "fk_quotes_customer_id", "customer_id"},
		{"reviews", "fk_reviews_provider_id", "provider_id"},
		{"reviews", "fk_reviews_customer_id", "customer_id"},
	}
	for _, c := range cascades {
		if err := s.db.Exec(fmt.Sprintf(
			`ALTER TABLE %q DROP CONSTRAINT IF EXISTS %q`, c.table, c.constraint,
		)).Error; err != nil {
			return fmt.Errorf("failed to drop %s: %w", c.constraint, err)
		}
		if err := s.db.Exec(fmt.Sprintf(
			`ALTER TABLE %q ADD CONSTRAINT %q FOREIGN KEY (%q) REFERENCES "users"("id") ON DELETE CASCADE`,
			c.table, c.constraint, c.column,
		)).Error; err != nil {
			return fmt.Errorf("failed to add %s: %w", c.constraint, err)
		}
	}

	if err := s.db.Exec(
		`ALTER TABLE "reviews" DROP CONSTRAINT IF EXISTS "chk_reviews_rating_range"`,
	).Error; err != nil {
		return fmt.Errorf("failed to drop chk_reviews_rating_range: %w", err)
	}
	if err := s.db.Exec(
		`ALTER TABLE "reviews" ADD CONSTRAINT "chk_reviews_rating_range" CHECK (rating >= 1 AND rating <= 5)`,
	).Error; err != nil {
		return fmt.Errorf("failed to add chk_reviews_rating_range: %w", err)
	}
	return nil
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}
