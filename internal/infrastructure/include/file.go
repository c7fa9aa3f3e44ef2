package include

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"

	"predictive/app/internal/domain/page"
)

// FragmentExtension is appended to a fragment name to find its file.
const FragmentExtension = ".html"

// FileProvider resolves fragments from a directory of pre-rendered HTML files.
// Files are read on every call; edits show up on the next request.
type FileProvider struct {
	fsys   fs.FS
	logger *logrus.Logger
}

var _ page.FragmentProvider = (*FileProvider)(nil)

// NewFileProvider returns a provider rooted at dir.
func NewFileProvider(dir string, logger *logrus.Logger) (*FileProvider, error) {
	if dir == "" {
		return nil, eris.New("fragment directory is required")
	}
	return NewFSProvider(os.DirFS(dir), logger)
}

// NewFSProvider returns a provider backed by an arbitrary filesystem.
func NewFSProvider(fsys fs.FS, logger *logrus.Logger) (*FileProvider, error) {
	if fsys == nil {
		return nil, eris.New("fragment filesystem is required")
	}
	return &FileProvider{fsys: fsys, logger: logger}, nil
}

// Fragment reads <name>.html and returns its contents verbatim.
func (p *FileProvider) Fragment(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", eris.Wrap(err, "reading fragment")
	}

	if err := ValidateName(name); err != nil {
		return "", err
	}

	path := name + FragmentExtension
	data, err := fs.ReadFile(p.fsys, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", eris.Wrapf(page.ErrIncludeNotFound, "fragment file %s", path)
		}
		if p.logger != nil {
			p.logger.WithFields(logrus.Fields{"fragment": name, "path": path}).WithField("error", err.Error()).Error("reading fragment file")
		}
		return "", eris.Wrapf(err, "reading fragment file %s", path)
	}

	fragment := string(data)
	if err := Validate(name, fragment); err != nil {
		return "", err
	}

	return fragment, nil
}

// Ping checks that the fragment directory is readable.
func (p *FileProvider) Ping(_ context.Context) error {
	info, err := fs.Stat(p.fsys, ".")
	if err != nil {
		return eris.Wrap(err, "stat fragment directory")
	}
	if !info.IsDir() {
		return eris.New("fragment root is not a directory")
	}
	return nil
}

// List returns the fragment names present in the directory.
func (p *FileProvider) List() ([]string, error) {
	matches, err := fs.Glob(p.fsys, "*"+FragmentExtension)
	if err != nil {
		return nil, eris.Wrap(err, "listing fragment files")
	}

	names := make([]string, 0, len(matches))
	for _, match := range matches {
		name := match[:len(match)-len(FragmentExtension)]
		if ValidateName(name) != nil {
			continue
		}
		names = append(names, name)
	}
	return names, nil
}
