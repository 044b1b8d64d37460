package database

import (
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const migrationNormalizeLeadEmails = "2026-08-12_normalize_lead_emails"

type migrationRecord struct {
	Name             string `gorm:"column:name;primaryKey;size:190;not null"`
	AppliedAtSeconds int64  `gorm:"column:applied_at_s;not null"`
}

func (migrationRecord) TableName() string {
	return "db_migrations"
}

type migrationDefinition struct {
	name  string
	apply func(*gorm.DB) error
}

func applyMigrations(db *gorm.DB, logger *zap.Logger) error {
	migrations := []migrationDefinition{
		{name: migrationNormalizeLeadEmails, apply: normalizeLeadEmails},
	}

	for _, migration := range migrations {
		var record migrationRecord
		err := db.Where("name = ?", migration.name).Take(&record).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := migration.apply(db); err != nil {
			if logger != nil {
				logger.Error("migration failed", zap.String("name", migration.name), zap.Error(err))
			}
			return err
		}

		record = migrationRecord{Name: migration.name, AppliedAtSeconds: time.Now().UTC().Unix()}
		if err := db.Create(&record).Error; err != nil {
			return err
		}
		if logger != nil {
			logger.Info("migration applied", zap.String("name", migration.name))
		}
	}

	return nil
}

// normalizeLeadEmails repairs rows ingested before email normalization
// moved into the pipeline: uppercase or padded emails break the
// (email, created_date) dedup key.
func normalizeLeadEmails(db *gorm.DB) error {
	return db.Exec("UPDATE leads SET email = lower(trim(email)) WHERE email != lower(trim(email));").Error
}
