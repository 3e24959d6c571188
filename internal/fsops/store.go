// Package fsops reads prompts and writes debug artifacts under sandboxed roots.
package fsops

import (
	"github.com/spf13/afero"

	"github.com/petasbytes/ghostwriter/internal/safety"
)

// Store resolves relative paths against its read and write roots and
// performs IO through Fs.
type Store struct {
	Fs        afero.Fs
	ReadRoot  string
	WriteRoot string
}

// New resolves the roots (empty read root means the working directory, empty
// write root means the read root). A nil fs defaults to the OS filesystem.
func New(fs afero.Fs, readRoot, writeRoot string) (*Store, error) {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	r, w, err := safety.InitSandboxRoot(readRoot, writeRoot)
	if err != nil {
		return nil, err
	}
	return &Store{Fs: fs, ReadRoot: r, WriteRoot: w}, nil
}
