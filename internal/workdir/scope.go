package workdir

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/afero"

	"github.com/cixtool/cix/internal/fsops"
)

const (
	targetDirectoryRequiredMessageConstant = "target directory must be non-empty"
	controllerRequiredMessageConstant      = "directory controller must be provided"
	notADirectoryTemplateConstant          = "%q is not an existing directory"
)

// Construction errors for directory scopes.
var (
	// ErrTargetDirectoryRequired indicates a scope was requested with an empty target.
	ErrTargetDirectoryRequired = errors.New(targetDirectoryRequiredMessageConstant)
	// ErrControllerRequired indicates a scope was requested without a controller.
	ErrControllerRequired = errors.New(controllerRequiredMessageConstant)
)

// NotADirectoryError reports a scope target that does not exist and was not requested to be created.
type NotADirectoryError struct {
	Path string
}

// Error describes the missing directory.
func (failure NotADirectoryError) Error() string {
	return fmt.Sprintf(notADirectoryTemplateConstant, failure.Path)
}

// DirectoryController abstracts the process working directory and directory creation.
//
// The working directory is a single global per process; scopes built on one
// controller must not be used concurrently from multiple goroutines.
type DirectoryController interface {
	CurrentDirectory() (string, error)
	ChangeDirectory(targetDirectory string) error
	MakeDirectoryAll(targetDirectory string) error
	RemoveDirectoryAll(targetDirectory string) error
	DirectoryExists(targetDirectory string) (bool, error)
}

// OSDirectoryController implements DirectoryController against the host process.
type OSDirectoryController struct {
	fileSystem afero.Fs
	operations fsops.Operations
}

// NewOSDirectoryController constructs a controller backed by the operating system.
func NewOSDirectoryController(fileSystem afero.Fs) *OSDirectoryController {
	if fileSystem == nil {
		fileSystem = afero.NewOsFs()
	}
	return &OSDirectoryController{
		fileSystem: fileSystem,
		operations: fsops.NewOperationsWithFileSystem(fileSystem),
	}
}

// CurrentDirectory returns the process working directory.
func (controller *OSDirectoryController) CurrentDirectory() (string, error) {
	return os.Getwd()
}

// ChangeDirectory changes the process working directory.
func (controller *OSDirectoryController) ChangeDirectory(targetDirectory string) error {
	return os.Chdir(targetDirectory)
}

// MakeDirectoryAll creates the target directory along with missing parents.
func (controller *OSDirectoryController) MakeDirectoryAll(targetDirectory string) error {
	return controller.operations.EnsureDirectory(targetDirectory)
}

// RemoveDirectoryAll deletes the target directory and its contents.
func (controller *OSDirectoryController) RemoveDirectoryAll(targetDirectory string) error {
	return controller.operations.RemoveRecursive(targetDirectory)
}

// DirectoryExists reports whether the target exists as a directory.
func (controller *OSDirectoryController) DirectoryExists(targetDirectory string) (bool, error) {
	return afero.DirExists(controller.fileSystem, targetDirectory)
}

// ScopeOptions configure scope entry.
type ScopeOptions struct {
	// CreateMissing creates the target directory (and parents) before entering.
	CreateMissing bool
	// FreshDirectory removes the target directory before recreating it, so the
	// scope always starts from an empty directory. Implies CreateMissing.
	FreshDirectory bool
}

// Scope records the directory active before entry and restores it on Restore.
type Scope struct {
	controller        DirectoryController
	previousDirectory string
	restored          bool
}

// EnterScope changes into targetDirectory and returns a Scope that restores the prior directory.
//
// When the target is absent and CreateMissing is not set, entry fails with
// NotADirectoryError and the working directory is left untouched.
func EnterScope(controller DirectoryController, targetDirectory string, options ScopeOptions) (*Scope, error) {
	if controller == nil {
		return nil, ErrControllerRequired
	}
	trimmedTarget := strings.TrimSpace(targetDirectory)
	if len(trimmedTarget) == 0 {
		return nil, ErrTargetDirectoryRequired
	}

	if options.FreshDirectory {
		if removalError := controller.RemoveDirectoryAll(trimmedTarget); removalError != nil {
			return nil, removalError
		}
	}

	directoryPresent, existsError := controller.DirectoryExists(trimmedTarget)
	if existsError != nil {
		return nil, existsError
	}
	if !directoryPresent {
		if !options.CreateMissing && !options.FreshDirectory {
			return nil, NotADirectoryError{Path: trimmedTarget}
		}
		if creationError := controller.MakeDirectoryAll(trimmedTarget); creationError != nil {
			return nil, creationError
		}
	}

	previousDirectory, currentError := controller.CurrentDirectory()
	if currentError != nil {
		return nil, currentError
	}

	if changeError := controller.ChangeDirectory(trimmedTarget); changeError != nil {
		return nil, changeError
	}

	return &Scope{controller: controller, previousDirectory: previousDirectory}, nil
}

// PreviousDirectory returns the directory that was active before the scope was entered.
func (scope *Scope) PreviousDirectory() string {
	return scope.previousDirectory
}

// Restore returns to the directory recorded at entry. It is safe to defer and
// idempotent: only the first call changes directory.
func (scope *Scope) Restore() error {
	if scope == nil || scope.restored {
		return nil
	}
	scope.restored = true
	return scope.controller.ChangeDirectory(scope.previousDirectory)
}
