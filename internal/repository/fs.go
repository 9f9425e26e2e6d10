package repository

import "github.com/spf13/afero"

// FileSystemRepository is the filesystem used for the .bsr layout and hook
// discovery. Production code uses afero.NewOsFs; tests use a MemMapFs.

type FileSystemRepository interface {
	afero.Fs
}
