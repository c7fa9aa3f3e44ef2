package migrations

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"predictive/app/internal/data/fragment"
	applog "predictive/app/internal/platform/log"
)

// MigrateFragments applies the fragment schema using Gorm's AutoMigrate and logs progress.
func MigrateFragments(ctx context.Context, db *gorm.DB, logger *logrus.Logger) error {
	if db == nil {
		return eris.New("gorm DB is required")
	}

	entry := applog.Component(logger, "fragment.migrate")
	entry.Info("applying fragment schema")

	if err := db.WithContext(ctx).AutoMigrate(&fragment.Record{}); err != nil {
		entry.WithField("error", err.Error()).Error("fragment schema migration failed")
		return eris.Wrap(err, "auto migrating fragment schema")
	}

	entry.Info("fragment schema migration complete")
	return nil
}
