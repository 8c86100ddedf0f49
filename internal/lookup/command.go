package lookup

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	commandUseConstant                  = "which program [program...]"
	commandShortDescriptionConstant     = "Resolve program names to executable paths"
	commandLongDescriptionConstant      = "which resolves each program name against PATH and prints the executable path that run would invoke."
	resolvedPathLineTemplateConstant    = "%s\n"
	configurationBestEffortKeyConstant  = "best_effort"
	configurationKeySeparatorConstant   = "."
	flagBestEffortNameConstant          = "best-effort"
	flagBestEffortDescriptionConstant   = "Skip names that do not resolve instead of failing"
	programResolutionLogMessageConstant = "program resolution requested"
	logFieldProgramNameConstant         = "program_name"
	logFieldResolutionSucceededConstant = "resolved"
)

// CommandConfiguration captures configuration values for the which command.
type CommandConfiguration struct {
	BestEffort bool `mapstructure:"best_effort"`
}

// DefaultCommandConfiguration provides baseline configuration values for the which command.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{BestEffort: false}
}

// DefaultConfigurationValues exposes defaults keyed for the configuration loader.
func DefaultConfigurationValues(configurationPrefix string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		configurationPrefix + configurationKeySeparatorConstant + configurationBestEffortKeyConstant: defaults.BestEffort,
	}
}

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the Cobra command for program resolution.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider func() CommandConfiguration
	Resolver              *Resolver
	OutputWriter          io.Writer
}

// Build constructs the which command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.MinimumNArgs(1),
		RunE:  builder.run,
	}

	command.Flags().Bool(flagBestEffortNameConstant, false, flagBestEffortDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	configuration := builder.resolveConfiguration()
	if command.Flags().Changed(flagBestEffortNameConstant) {
		bestEffortValue, _ := command.Flags().GetBool(flagBestEffortNameConstant)
		configuration.BestEffort = bestEffortValue
	}

	logger := builder.resolveLogger()
	programResolver := builder.resolveResolver()
	outputWriter := builder.resolveOutputWriter()

	for _, programName := range arguments {
		resolution, resolutionError := programResolver.Resolve(programName, ResolutionOptions{BestEffort: configuration.BestEffort})
		if resolutionError != nil {
			return resolutionError
		}

		logger.Debug(
			programResolutionLogMessageConstant,
			zap.String(logFieldProgramNameConstant, programName),
			zap.Bool(logFieldResolutionSucceededConstant, resolution.Found),
		)

		if resolution.Found {
			fmt.Fprintf(outputWriter, resolvedPathLineTemplateConstant, resolution.ResolvedPath)
		}
	}

	return nil
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider()
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

func (builder *CommandBuilder) resolveResolver() *Resolver {
	if builder.Resolver != nil {
		return builder.Resolver
	}
	return NewResolver(nil, nil)
}

func (builder *CommandBuilder) resolveOutputWriter() io.Writer {
	if builder.OutputWriter != nil {
		return builder.OutputWriter
	}
	return os.Stdout
}
