package fsops

import (
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/petasbytes/ghostwriter/internal/safety"
)

// WriteFile writes data to a relative path under the write root, creating
// parent directories as needed.
func (s *Store) WriteFile(relPath string, data []byte) error {
	absPath, err := safety.ValidateWritePath(s.WriteRoot, relPath)
	if err != nil {
		return err
	}

	if err := s.Fs.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return err
	}
	return afero.WriteFile(s.Fs, absPath, data, 0o644)
}
