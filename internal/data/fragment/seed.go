package fragment

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"

	applog "predictive/app/internal/platform/log"
)

// Source lists and reads fragments, e.g. an include.FileProvider.
type Source interface {
	List() ([]string, error)
	Fragment(ctx context.Context, name string) (string, error)
}

// Seed copies every fragment from src into the repository and returns how
// many were written.
func Seed(ctx context.Context, repo *Repository, src Source, logger *logrus.Logger) (int, error) {
	if repo == nil {
		return 0, eris.New("fragment repository is required")
	}
	if src == nil {
		return 0, eris.New("fragment source is required")
	}

	names, err := src.List()
	if err != nil {
		return 0, eris.Wrap(err, "listing seed fragments")
	}

	written := 0
	for _, name := range names {
		html, err := src.Fragment(ctx, name)
		if err != nil {
			return written, eris.Wrapf(err, "reading seed fragment %s", name)
		}
		if err := repo.Upsert(ctx, name, html); err != nil {
			return written, eris.Wrapf(err, "seeding fragment %s", name)
		}
		written++
	}

	applog.Component(logger, "fragment.seed").WithField("count", written).Info("fragments seeded")

	return written, nil
}
