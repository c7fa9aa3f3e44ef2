package fragment

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"predictive/app/internal/data/database"
	"predictive/app/internal/domain/page"
	"predictive/app/internal/infrastructure/include"
)

// Repository serves include fragments from SQLite.
type Repository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// NewRepository constructs a Gorm-backed fragment repository.
func NewRepository(db *gorm.DB, logger *logrus.Logger) (*Repository, error) {
	if db == nil {
		return nil, eris.New("gorm DB is required")
	}

	return &Repository{db: db, logger: logger}, nil
}

var _ page.FragmentProvider = (*Repository)(nil)

// Fragment returns the stored markup for name verbatim.
func (r *Repository) Fragment(ctx context.Context, name string) (string, error) {
	if err := include.ValidateName(name); err != nil {
		return "", err
	}

	var record Record
	err := r.db.WithContext(ctx).First(&record, "name = ?", name).Error
	if err != nil {
		if eris.Is(err, gorm.ErrRecordNotFound) {
			return "", eris.Wrapf(page.ErrIncludeNotFound, "fragment row %s", name)
		}
		r.logError(logrus.Fields{"fragment": name}, err, "fetching fragment")
		return "", eris.Wrapf(err, "fetching fragment: %s", name)
	}

	if err := include.Validate(name, record.HTML); err != nil {
		return "", err
	}

	return record.HTML, nil
}

// Upsert inserts or replaces the fragment stored under name.
func (r *Repository) Upsert(ctx context.Context, name, html string) error {
	name = strings.TrimSpace(name)
	if err := include.ValidateName(name); err != nil {
		return err
	}
	if err := include.Validate(name, html); err != nil {
		return err
	}

	record := &Record{Name: name, HTML: html}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"html", "updated_at"}),
	}).Create(record).Error
	if err != nil {
		r.logError(logrus.Fields{"fragment": name}, err, "upserting fragment")
		return eris.Wrapf(err, "upserting fragment: %s", name)
	}

	return nil
}

// Names returns every stored fragment name ordered alphabetically.
func (r *Repository) Names(ctx context.Context) ([]string, error) {
	var names []string

	if err := r.db.WithContext(ctx).Model(&Record{}).Order("name ASC").Pluck("name", &names).Error; err != nil {
		r.logError(nil, err, "listing fragments")
		return nil, eris.Wrap(err, "listing fragments")
	}

	return names, nil
}

// Ping checks the database connection.
func (r *Repository) Ping(ctx context.Context) error {
	return database.Ping(ctx, r.db)
}

func (r *Repository) logError(fields logrus.Fields, err error, message string) {
	if r.logger == nil || err == nil {
		return
	}

	entry := r.logger.WithField("error", err.Error())
	if len(fields) > 0 {
		entry = entry.WithFields(fields)
	}
	entry.Error(message)
}
