package fragment

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"

	"predictive/app/internal/data/database"
	"predictive/app/internal/domain/page"
	"predictive/app/internal/infrastructure/include"
)

func TestNewRepositoryRequiresDatabase(t *testing.T) {
	t.Parallel()

	if _, err := NewRepository(nil, nil); err == nil {
		t.Fatalf("expected error when database is nil")
	}
}

func TestFragmentMissingRowIsNotFound(t *testing.T) {
	t.Parallel()

	repo := setupRepository(t)

	_, err := repo.Fragment(context.Background(), "topnav")
	if !eris.Is(err, page.ErrIncludeNotFound) {
		t.Fatalf("expected ErrIncludeNotFound, got %v", err)
	}
}

func TestUpsertRoundTripPreservesMarkup(t *testing.T) {
	t.Parallel()

	repo := setupRepository(t)
	ctx := context.Background()

	markup := "  <div class=\"topnav\"><a href=\"/\">Home</a></div>\n"
	if err := repo.Upsert(ctx, " topnav ", markup); err != nil {
		t.Fatalf("Upsert returned error: %v", err)
	}

	stored, err := repo.Fragment(ctx, "topnav")
	if err != nil {
		t.Fatalf("Fragment returned error: %v", err)
	}
	if stored != markup {
		t.Fatalf("expected markup verbatim, got %q", stored)
	}
}

func TestUpsertReplacesExistingFragment(t *testing.T) {
	t.Parallel()

	repo := setupRepository(t)
	ctx := context.Background()

	if err := repo.Upsert(ctx, "topnav", "<nav>old</nav>"); err != nil {
		t.Fatalf("Upsert returned error: %v", err)
	}
	if err := repo.Upsert(ctx, "topnav", "<nav>new</nav>"); err != nil {
		t.Fatalf("second Upsert returned error: %v", err)
	}

	stored, err := repo.Fragment(ctx, "topnav")
	if err != nil {
		t.Fatalf("Fragment returned error: %v", err)
	}
	if stored != "<nav>new</nav>" {
		t.Fatalf("expected replaced markup, got %q", stored)
	}

	names, err := repo.Names(ctx)
	if err != nil {
		t.Fatalf("Names returned error: %v", err)
	}
	if len(names) != 1 {
		t.Fatalf("expected a single fragment row, got %v", names)
	}
}

func TestUpsertRejectsDirectives(t *testing.T) {
	t.Parallel()

	repo := setupRepository(t)

	err := repo.Upsert(context.Background(), "topnav", "<?php include('menu.php'); ?>")
	if !eris.Is(err, page.ErrIncludeInvalid) {
		t.Fatalf("expected ErrIncludeInvalid, got %v", err)
	}
}

func TestSeedCopiesDirectoryFragments(t *testing.T) {
	t.Parallel()

	repo := setupRepository(t)
	ctx := context.Background()

	src, err := include.NewFSProvider(fstest.MapFS{
		"topnav.html": {Data: []byte("<nav>top</nav>")},
		"footer.html": {Data: []byte("<footer>bottom</footer>")},
	}, nil)
	if err != nil {
		t.Fatalf("NewFSProvider returned error: %v", err)
	}

	written, err := Seed(ctx, repo, src, silentLogger())
	if err != nil {
		t.Fatalf("Seed returned error: %v", err)
	}
	if written != 2 {
		t.Fatalf("expected 2 fragments written, got %d", written)
	}

	names, err := repo.Names(ctx)
	if err != nil {
		t.Fatalf("Names returned error: %v", err)
	}
	if len(names) != 2 || names[0] != "footer" || names[1] != "topnav" {
		t.Fatalf("expected [footer topnav], got %v", names)
	}
}

func TestPingReportsHealthyDatabase(t *testing.T) {
	t.Parallel()

	repo := setupRepository(t)
	if err := repo.Ping(context.Background()); err != nil {
		t.Fatalf("Ping returned error: %v", err)
	}
}

func setupRepository(t *testing.T) *Repository {
	t.Helper()

	db, err := database.Open(database.Options{Path: filepath.Join(t.TempDir(), "fragments.db")})
	if err != nil {
		t.Fatalf("database.Open returned error: %v", err)
	}
	t.Cleanup(func() {
		if closeErr := database.Close(db); closeErr != nil {
			t.Errorf("closing database failed: %v", closeErr)
		}
	})

	if err := db.AutoMigrate(&Record{}); err != nil {
		t.Fatalf("AutoMigrate returned error: %v", err)
	}

	repo, err := NewRepository(db, silentLogger())
	if err != nil {
		t.Fatalf("NewRepository returned error: %v", err)
	}

	return repo
}

func silentLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
