package importer

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

const (
	uploadedDir = "uploaded"
	parsedDir   = "parsed"
)

// Service hands out upload targets under the import directory. Files placed
// there are picked up by the watcher.
type Service struct {
	dir string
}

func NewService(dir string) (*Service, error) {
	for _, sub := range []string{uploadedDir, parsedDir} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			return nil, errors.Wrap(err, "create import dir")
		}
	}
	return &Service{dir: dir}, nil
}

var ErrBadFileName = errors.New("bad file name")

// UploadTarget returns the path a caller should write the named CSV to.
func (s *Service) UploadTarget(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || name != filepath.Base(name) {
		return "", ErrBadFileName
	}
	return filepath.Join(s.dir, uploadedDir, name), nil
}

// UploadedDir is watched for new CSV files.
func (s *Service) UploadedDir() string { return filepath.Join(s.dir, uploadedDir) }

// ParsedPath is where a file is moved once its rows were enqueued.
func (s *Service) ParsedPath(name string) string {
	return filepath.Join(s.dir, parsedDir, filepath.Base(name))
}
