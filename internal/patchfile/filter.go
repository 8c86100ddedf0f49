package patchfile

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/spf13/afero"
)

const (
	defaultBackupExtensionConstant       = ".orig"
	filteredFilePermissionsConstant      = 0o644
	lineSeparatorConstant                = "\n"
	filePathRequiredMessageConstant      = "filter requires a file path"
	patternRequiredMessageConstant       = "filter requires a pattern"
	invalidPatternMessageTemplate        = "invalid filter pattern %q: %w"
	unchangedFileMessageTemplateConstant = "filtering %s produced no changes"
)

// Filter input validation errors.
var (
	// ErrFilePathRequired indicates FilterFile received an empty path.
	ErrFilePathRequired = errors.New(filePathRequiredMessageConstant)
	// ErrPatternRequired indicates FilterFile received an empty pattern.
	ErrPatternRequired = errors.New(patternRequiredMessageConstant)
)

// UnchangedFileError reports a filter whose replacements left the file
// byte-identical while a change was demanded.
type UnchangedFileError struct {
	FilePath string
}

// Error describes the unchanged file.
func (unchangedError UnchangedFileError) Error() string {
	return fmt.Sprintf(unchangedFileMessageTemplateConstant, unchangedError.FilePath)
}

// FilterOptions configure FilterFile.
//
// MaximumReplacements of zero means unlimited. LineBased applies the pattern
// to each line separately instead of the whole file, which keeps anchors like
// ^ and $ meaningful per line. AllowUnchanged suppresses the error normally
// raised when the filter leaves the file identical.
type FilterOptions struct {
	BackupExtension     string
	MaximumReplacements int
	LineBased           bool
	AllowUnchanged      bool
}

// Filterer rewrites files through an injectable filesystem.
type Filterer struct {
	fileSystem afero.Fs
}

// NewFilterer constructs a Filterer over the operating-system filesystem.
func NewFilterer() Filterer {
	return NewFiltererWithFileSystem(afero.NewOsFs())
}

// NewFiltererWithFileSystem constructs a Filterer over an explicit filesystem.
func NewFiltererWithFileSystem(fileSystem afero.Fs) Filterer {
	if fileSystem == nil {
		fileSystem = afero.NewOsFs()
	}
	return Filterer{fileSystem: fileSystem}
}

// FilterFile applies a regular-expression replacement to the file and writes
// the result back in place, saving the original contents to a sibling backup
// file first. The replacement may use Go expansion references such as $1.
//
// The backup file path is returned. When the replacements change nothing and
// AllowUnchanged is unset, an UnchangedFileError is returned and neither the
// file nor a backup is written.
func (filterer Filterer) FilterFile(filePath string, pattern string, replacement string, options FilterOptions) (string, error) {
	if len(filePath) == 0 {
		return "", ErrFilePathRequired
	}
	if len(pattern) == 0 {
		return "", ErrPatternRequired
	}

	compiledPattern, compileError := regexp.Compile(pattern)
	if compileError != nil {
		return "", fmt.Errorf(invalidPatternMessageTemplate, pattern, compileError)
	}

	originalContents, readError := afero.ReadFile(filterer.fileSystem, filePath)
	if readError != nil {
		return "", readError
	}

	filteredContents := filterer.applyReplacements(compiledPattern, string(originalContents), replacement, options)
	if filteredContents == string(originalContents) && !options.AllowUnchanged {
		return "", UnchangedFileError{FilePath: filePath}
	}

	backupExtension := options.BackupExtension
	if len(backupExtension) == 0 {
		backupExtension = defaultBackupExtensionConstant
	}
	backupFilePath := filePath + backupExtension

	if backupError := afero.WriteFile(filterer.fileSystem, backupFilePath, originalContents, filteredFilePermissionsConstant); backupError != nil {
		return "", backupError
	}
	if writeError := afero.WriteFile(filterer.fileSystem, filePath, []byte(filteredContents), filteredFilePermissionsConstant); writeError != nil {
		return "", writeError
	}
	return backupFilePath, nil
}

func (filterer Filterer) applyReplacements(compiledPattern *regexp.Regexp, contents string, replacement string, options FilterOptions) string {
	if !options.LineBased {
		return replaceWithLimit(compiledPattern, contents, replacement, options.MaximumReplacements)
	}

	contentLines := strings.Split(contents, lineSeparatorConstant)
	remainingReplacements := options.MaximumReplacements
	for lineIndex, contentLine := range contentLines {
		if options.MaximumReplacements > 0 && remainingReplacements == 0 {
			break
		}
		filteredLine, performedReplacements := replaceCountingMatches(compiledPattern, contentLine, replacement, remainingReplacements)
		contentLines[lineIndex] = filteredLine
		if options.MaximumReplacements > 0 {
			remainingReplacements -= performedReplacements
		}
	}
	return strings.Join(contentLines, lineSeparatorConstant)
}

func replaceWithLimit(compiledPattern *regexp.Regexp, input string, replacement string, maximumReplacements int) string {
	if maximumReplacements <= 0 {
		return compiledPattern.ReplaceAllString(input, replacement)
	}
	replaced, _ := replaceCountingMatches(compiledPattern, input, replacement, maximumReplacements)
	return replaced
}

func replaceCountingMatches(compiledPattern *regexp.Regexp, input string, replacement string, maximumReplacements int) (string, int) {
	if maximumReplacements <= 0 {
		matchCount := len(compiledPattern.FindAllStringIndex(input, -1))
		return compiledPattern.ReplaceAllString(input, replacement), matchCount
	}

	var resultBuilder strings.Builder
	remainingInput := input
	performedReplacements := 0
	for performedReplacements < maximumReplacements {
		matchLocation := compiledPattern.FindStringSubmatchIndex(remainingInput)
		if matchLocation == nil {
			break
		}
		resultBuilder.WriteString(remainingInput[:matchLocation[0]])
		resultBuilder.Write(compiledPattern.ExpandString(nil, replacement, remainingInput, matchLocation))
		advanceOffset := matchLocation[1]
		if advanceOffset == matchLocation[0] {
			if advanceOffset >= len(remainingInput) {
				remainingInput = remainingInput[advanceOffset:]
				performedReplacements++
				break
			}
			resultBuilder.WriteByte(remainingInput[advanceOffset])
			advanceOffset++
		}
		remainingInput = remainingInput[advanceOffset:]
		performedReplacements++
	}
	resultBuilder.WriteString(remainingInput)
	return resultBuilder.String(), performedReplacements
}
