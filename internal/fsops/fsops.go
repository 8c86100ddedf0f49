package fsops

import (
	"errors"
	"io/fs"

	"github.com/spf13/afero"
)

const (
	directoryPermissionsConstant = 0o755
	pathRequiredMessageConstant  = "filesystem operation requires a path"
)

// ErrPathRequired indicates an operation received an empty path.
var ErrPathRequired = errors.New(pathRequiredMessageConstant)

// Operations performs idempotent filesystem mutations against a filesystem.
type Operations struct {
	fileSystem afero.Fs
}

// NewOperations constructs Operations over the operating-system filesystem.
func NewOperations() Operations {
	return NewOperationsWithFileSystem(afero.NewOsFs())
}

// NewOperationsWithFileSystem constructs Operations over an explicit filesystem.
func NewOperationsWithFileSystem(fileSystem afero.Fs) Operations {
	if fileSystem == nil {
		fileSystem = afero.NewOsFs()
	}
	return Operations{fileSystem: fileSystem}
}

// EnsureDirectory creates the directory and any missing parents. An already
// existing directory is success; an existing non-directory is an error.
func (operations Operations) EnsureDirectory(directoryPath string) error {
	if len(directoryPath) == 0 {
		return ErrPathRequired
	}
	return operations.fileSystem.MkdirAll(directoryPath, directoryPermissionsConstant)
}

// RemoveRecursive deletes the path and everything beneath it. An absent path
// is success, so repeated removal is safe.
func (operations Operations) RemoveRecursive(targetPath string) error {
	if len(targetPath) == 0 {
		return ErrPathRequired
	}

	removalError := operations.fileSystem.RemoveAll(targetPath)
	if removalError == nil || errors.Is(removalError, fs.ErrNotExist) {
		return nil
	}
	return removalError
}
