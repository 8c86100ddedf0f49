package patchfile

import (
	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/afero"
)

const defaultDiffContextLinesConstant = 3

// DiffOptions configure UnifiedDiff. ContextLines of zero selects the
// conventional three lines of context.
type DiffOptions struct {
	ContextLines int
}

// Differ renders unified diffs between files through an injectable filesystem.
type Differ struct {
	fileSystem afero.Fs
}

// NewDiffer constructs a Differ over the operating-system filesystem.
func NewDiffer() Differ {
	return NewDifferWithFileSystem(afero.NewOsFs())
}

// NewDifferWithFileSystem constructs a Differ over an explicit filesystem.
func NewDifferWithFileSystem(fileSystem afero.Fs) Differ {
	if fileSystem == nil {
		fileSystem = afero.NewOsFs()
	}
	return Differ{fileSystem: fileSystem}
}

// UnifiedDiff renders the unified diff between two files, labelling the hunks
// with the file paths. Identical files produce an empty string.
func (differ Differ) UnifiedDiff(fromFilePath string, toFilePath string, options DiffOptions) (string, error) {
	if len(fromFilePath) == 0 || len(toFilePath) == 0 {
		return "", ErrFilePathRequired
	}

	fromContents, fromReadError := afero.ReadFile(differ.fileSystem, fromFilePath)
	if fromReadError != nil {
		return "", fromReadError
	}
	toContents, toReadError := afero.ReadFile(differ.fileSystem, toFilePath)
	if toReadError != nil {
		return "", toReadError
	}

	contextLines := options.ContextLines
	if contextLines <= 0 {
		contextLines = defaultDiffContextLinesConstant
	}

	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(fromContents)),
		B:        difflib.SplitLines(string(toContents)),
		FromFile: fromFilePath,
		ToFile:   toFilePath,
		Context:  contextLines,
	})
}
