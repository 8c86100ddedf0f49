package lookup

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

const (
	searchPathEnvironmentVariableConstant = "PATH"
	emptySearchEntryDirectoryConstant     = "."
	programNameRequiredMessageConstant    = "program name must be non-empty"
	programNotFoundTemplateConstant       = "program %q not found on search path"
	executableModeMaskConstant            = 0o111
)

// ErrProgramNameRequired indicates resolution was attempted with an empty program name.
var ErrProgramNameRequired = errors.New(programNameRequiredMessageConstant)

// ProgramNotFoundError reports a program name with no executable match on the search path.
type ProgramNotFoundError struct {
	ProgramName string
	SearchPath  string
}

// Error describes the unresolved program name.
func (failure ProgramNotFoundError) Error() string {
	return fmt.Sprintf(programNotFoundTemplateConstant, failure.ProgramName)
}

// EnvironmentLookup reads a single environment variable.
type EnvironmentLookup func(variableName string) (string, bool)

// ResolutionOptions configure a single resolution request.
type ResolutionOptions struct {
	// BestEffort suppresses ProgramNotFoundError and yields a placeholder
	// resolution usable only for existence checks.
	BestEffort bool
	// SearchPath overrides the PATH environment variable when non-empty.
	SearchPath string
}

// Resolution reports the outcome of resolving a program name.
type Resolution struct {
	ProgramName  string
	ResolvedPath string
	Found        bool
}

// Resolver locates executable files on the configured search path.
type Resolver struct {
	fileSystem        afero.Fs
	environmentLookup EnvironmentLookup
}

// NewResolver constructs a Resolver with explicit filesystem and environment access.
func NewResolver(fileSystem afero.Fs, environmentLookup EnvironmentLookup) *Resolver {
	if fileSystem == nil {
		fileSystem = afero.NewOsFs()
	}
	if environmentLookup == nil {
		environmentLookup = os.LookupEnv
	}
	return &Resolver{fileSystem: fileSystem, environmentLookup: environmentLookup}
}

// Resolve locates the named program without mutating the filesystem.
//
// Names containing a path separator are probed directly; bare names are
// searched across the search-path directories in order.
func (resolver *Resolver) Resolve(programName string, options ResolutionOptions) (Resolution, error) {
	trimmedProgramName := strings.TrimSpace(programName)
	if len(trimmedProgramName) == 0 {
		return Resolution{}, ErrProgramNameRequired
	}

	if strings.ContainsRune(trimmedProgramName, os.PathSeparator) || strings.ContainsRune(trimmedProgramName, '/') {
		if resolver.isExecutableFile(trimmedProgramName) {
			return Resolution{ProgramName: trimmedProgramName, ResolvedPath: trimmedProgramName, Found: true}, nil
		}
		return resolver.notFound(trimmedProgramName, options)
	}

	searchPath := resolver.searchPathValue(options)
	for _, searchEntry := range filepath.SplitList(searchPath) {
		searchDirectory := searchEntry
		if len(searchDirectory) == 0 {
			searchDirectory = emptySearchEntryDirectoryConstant
		}
		candidatePath := filepath.Join(searchDirectory, trimmedProgramName)
		if resolver.isExecutableFile(candidatePath) {
			return Resolution{ProgramName: trimmedProgramName, ResolvedPath: candidatePath, Found: true}, nil
		}
	}

	return resolver.notFound(trimmedProgramName, options)
}

func (resolver *Resolver) searchPathValue(options ResolutionOptions) string {
	if len(options.SearchPath) > 0 {
		return options.SearchPath
	}
	searchPath, _ := resolver.environmentLookup(searchPathEnvironmentVariableConstant)
	return searchPath
}

func (resolver *Resolver) notFound(programName string, options ResolutionOptions) (Resolution, error) {
	if options.BestEffort {
		return Resolution{ProgramName: programName, Found: false}, nil
	}
	return Resolution{}, ProgramNotFoundError{ProgramName: programName, SearchPath: resolver.searchPathValue(options)}
}

func (resolver *Resolver) isExecutableFile(candidatePath string) bool {
	fileInformation, statError := resolver.fileSystem.Stat(candidatePath)
	if statError != nil {
		return false
	}
	if fileInformation.IsDir() {
		return false
	}
	return fileInformation.Mode().Perm()&executableModeMaskConstant != 0
}
