package fsops

import (
	"github.com/spf13/afero"

	"github.com/petasbytes/ghostwriter/internal/safety"
)

// ListFiles lists non-recursive entries of a relative directory under the
// read root. Directories are suffixed by "/".
func (s *Store) ListFiles(relDir string) ([]string, error) {
	if relDir == "" {
		relDir = "."
	}
	absDir, err := safety.ValidateRelPath(s.ReadRoot, relDir)
	if err != nil {
		return nil, err
	}

	entries, err := afero.ReadDir(s.Fs, absDir)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() {
			name += "/"
		}
		names = append(names, name)
	}
	return names, nil
}
