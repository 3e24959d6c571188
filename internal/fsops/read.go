package fsops

import (
	"github.com/spf13/afero"

	"github.com/petasbytes/ghostwriter/internal/safety"
)

// ReadFile reads a file addressed by a relative path under the read root.
// Policy violations come back as safety.PolicyError.
func (s *Store) ReadFile(relPath string) ([]byte, error) {
	absPath, err := safety.ValidateRelPath(s.ReadRoot, relPath)
	if err != nil {
		return nil, err
	}

	fi, err := s.Fs.Stat(absPath)
	if err != nil {
		return nil, err
	}
	if fi.IsDir() {
		return nil, safety.PolicyError{Code: "ERR_NOT_A_FILE", Message: "path is a directory"}
	}

	return afero.ReadFile(s.Fs, absPath)
}
