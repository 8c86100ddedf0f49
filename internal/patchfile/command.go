package patchfile

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	patchCommandUseConstant          = "patch"
	patchCommandShortDescription     = "Rewrite files with regex filters and inspect the results"
	patchCommandLongDescription      = "patch groups file-rewriting helpers: filter applies a regular-expression replacement in place with a backup, and diff renders a unified diff between two files."
	filterCommandUseConstant         = "filter file pattern replacement"
	filterCommandShortDescription    = "Apply a regex replacement to a file in place, keeping a backup"
	diffCommandUseConstant           = "diff from-file to-file"
	diffCommandShortDescription      = "Print the unified diff between two files"
	flagBackupExtensionNameConstant  = "backup-ext"
	flagBackupExtensionDescription   = "Extension appended to the backup file name"
	flagReplacementCountNameConstant = "count"
	flagReplacementCountDescription  = "Maximum number of replacements (0 means unlimited)"
	flagLineBasedNameConstant        = "line-based"
	flagLineBasedDescriptionConstant = "Apply the pattern to each line instead of the whole file"
	flagAllowUnchangedNameConstant   = "allow-unchanged"
	flagAllowUnchangedDescription    = "Succeed even when the filter changes nothing"
	flagContextLinesNameConstant     = "context"
	flagContextLinesDescription      = "Number of context lines around each hunk"
	backupPathLineTemplateConstant   = "%s\n"
	fileFilteredLogMessageConstant   = "file filtered"
	logFieldFilePathConstant         = "file_path"
	logFieldBackupPathConstant       = "backup_path"
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the Cobra command tree for file patching.
type CommandBuilder struct {
	LoggerProvider LoggerProvider
	FileSystem     afero.Fs
	OutputWriter   io.Writer
}

// Build constructs the patch command with its filter and diff subcommands.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	patchCommand := &cobra.Command{
		Use:   patchCommandUseConstant,
		Short: patchCommandShortDescription,
		Long:  patchCommandLongDescription,
	}

	filterCommand := &cobra.Command{
		Use:   filterCommandUseConstant,
		Short: filterCommandShortDescription,
		Args:  cobra.ExactArgs(3),
		RunE:  builder.runFilter,
	}
	filterCommand.Flags().String(flagBackupExtensionNameConstant, "", flagBackupExtensionDescription)
	filterCommand.Flags().Int(flagReplacementCountNameConstant, 0, flagReplacementCountDescription)
	filterCommand.Flags().Bool(flagLineBasedNameConstant, false, flagLineBasedDescriptionConstant)
	filterCommand.Flags().Bool(flagAllowUnchangedNameConstant, false, flagAllowUnchangedDescription)

	diffCommand := &cobra.Command{
		Use:   diffCommandUseConstant,
		Short: diffCommandShortDescription,
		Args:  cobra.ExactArgs(2),
		RunE:  builder.runDiff,
	}
	diffCommand.Flags().Int(flagContextLinesNameConstant, 0, flagContextLinesDescription)

	patchCommand.AddCommand(filterCommand, diffCommand)

	return patchCommand, nil
}

func (builder *CommandBuilder) runFilter(command *cobra.Command, arguments []string) error {
	backupExtensionValue, _ := command.Flags().GetString(flagBackupExtensionNameConstant)
	replacementCountValue, _ := command.Flags().GetInt(flagReplacementCountNameConstant)
	lineBasedValue, _ := command.Flags().GetBool(flagLineBasedNameConstant)
	allowUnchangedValue, _ := command.Flags().GetBool(flagAllowUnchangedNameConstant)

	filterer := NewFiltererWithFileSystem(builder.FileSystem)
	backupFilePath, filterError := filterer.FilterFile(arguments[0], arguments[1], arguments[2], FilterOptions{
		BackupExtension:     backupExtensionValue,
		MaximumReplacements: replacementCountValue,
		LineBased:           lineBasedValue,
		AllowUnchanged:      allowUnchangedValue,
	})
	if filterError != nil {
		return filterError
	}

	builder.resolveLogger().Debug(
		fileFilteredLogMessageConstant,
		zap.String(logFieldFilePathConstant, arguments[0]),
		zap.String(logFieldBackupPathConstant, backupFilePath),
	)

	fmt.Fprintf(builder.resolveOutputWriter(), backupPathLineTemplateConstant, backupFilePath)
	return nil
}

func (builder *CommandBuilder) runDiff(command *cobra.Command, arguments []string) error {
	contextLinesValue, _ := command.Flags().GetInt(flagContextLinesNameConstant)

	differ := NewDifferWithFileSystem(builder.FileSystem)
	diffText, diffError := differ.UnifiedDiff(arguments[0], arguments[1], DiffOptions{ContextLines: contextLinesValue})
	if diffError != nil {
		return diffError
	}

	_, writeError := io.WriteString(builder.resolveOutputWriter(), diffText)
	return writeError
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func (builder *CommandBuilder) resolveOutputWriter() io.Writer {
	if builder.OutputWriter != nil {
		return builder.OutputWriter
	}
	return os.Stdout
}
