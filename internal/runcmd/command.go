package runcmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cixtool/cix/internal/execshell"
	"github.com/cixtool/cix/internal/failfast"
	"github.com/cixtool/cix/internal/lookup"
	"github.com/cixtool/cix/internal/ui"
)

const (
	commandUseConstant                    = "run program [arguments...]"
	commandNameConstant                   = "run"
	commandShortDescriptionConstant       = "Resolve a program and run it with logged, fail-fast execution"
	commandLongDescriptionConstant        = "run resolves the named program on PATH, echoes the command line, and executes it synchronously. A failing child terminates cix with the child's exit code unless fail-fast is disabled."
	commandExecutionErrorTemplateConstant = "run failed: %w"
	missingProgramMessageConstant         = "run requires a program name"
	flagWorkingDirectoryNameConstant      = "cwd"
	flagWorkingDirectoryDescription       = "Directory to run the program in"
	flagCreateDirectoryNameConstant       = "create-cwd"
	flagCreateDirectoryDescription        = "Create the working directory when it does not exist"
	flagFreshDirectoryNameConstant        = "fresh-cwd"
	flagFreshDirectoryDescriptionConstant = "Remove and recreate the working directory before running"
	flagCaptureNameConstant               = "capture"
	flagCaptureDescriptionConstant        = "Capture child stdout and stderr instead of streaming"
	flagNoFailFastNameConstant            = "no-fail-fast"
	flagNoFailFastDescriptionConstant     = "Return the failure instead of terminating with the child's exit code"
	flagEnvironmentNameConstant           = "env"
	flagEnvironmentDescriptionConstant    = "Additional environment variable as KEY=VALUE (repeatable)"
	flagStandardInputNameConstant         = "input"
	flagStandardInputDescriptionConstant  = "String fed to the child's standard input"
	environmentAssignmentSeparator        = "="
	invalidAssignmentTemplateConstant     = "environment assignment must be KEY=VALUE: %q"
)

var errMissingProgram = errors.New(missingProgramMessageConstant)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the Cobra command for program execution.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	ConfigurationProvider        func() CommandConfiguration
	HumanReadableLoggingProvider func() bool
	Executor                     *execshell.ShellExecutor
	Resolver                     *lookup.Resolver
	Terminator                   failfast.ProcessTerminator
	ConsoleWriter                io.Writer
}

// Build constructs the run command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.MinimumNArgs(1),
		RunE:  builder.run,
	}

	command.Flags().String(flagWorkingDirectoryNameConstant, "", flagWorkingDirectoryDescription)
	command.Flags().Bool(flagCreateDirectoryNameConstant, false, flagCreateDirectoryDescription)
	command.Flags().Bool(flagFreshDirectoryNameConstant, false, flagFreshDirectoryDescriptionConstant)
	command.Flags().Bool(flagCaptureNameConstant, false, flagCaptureDescriptionConstant)
	command.Flags().Bool(flagNoFailFastNameConstant, false, flagNoFailFastDescriptionConstant)
	command.Flags().StringArray(flagEnvironmentNameConstant, nil, flagEnvironmentDescriptionConstant)
	command.Flags().String(flagStandardInputNameConstant, "", flagStandardInputDescriptionConstant)

	// Flags after the program name belong to the child, not to cix.
	command.Flags().SetInterspersed(false)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	options, optionsError := builder.parseOptions(command, arguments)
	if optionsError != nil {
		return optionsError
	}

	logger := builder.resolveLogger()
	executor, executorError := builder.resolveExecutor(logger)
	if executorError != nil {
		return executorError
	}

	escalationPolicy, policyError := failfast.NewPolicy(logger, builder.resolveTerminator())
	if policyError != nil {
		return policyError
	}

	service, serviceError := NewService(ServiceDependencies{
		Logger:           logger,
		Executor:         executor,
		Resolver:         builder.Resolver,
		EscalationPolicy: escalationPolicy,
		ConsoleWriter:    builder.ConsoleWriter,
	})
	if serviceError != nil {
		return serviceError
	}

	_, runError := service.Run(command.Context(), options)
	if runError != nil {
		return fmt.Errorf(commandExecutionErrorTemplateConstant, runError)
	}

	return nil
}

func (builder *CommandBuilder) parseOptions(command *cobra.Command, arguments []string) (RunOptions, error) {
	if len(arguments) == 0 {
		return RunOptions{}, errMissingProgram
	}

	configuration := builder.resolveConfiguration()

	workingDirectoryValue, _ := command.Flags().GetString(flagWorkingDirectoryNameConstant)
	if command.Flags().Changed(flagWorkingDirectoryNameConstant) {
		configuration.WorkingDirectory = strings.TrimSpace(workingDirectoryValue)
	}

	if command.Flags().Changed(flagCreateDirectoryNameConstant) {
		createDirectoryValue, _ := command.Flags().GetBool(flagCreateDirectoryNameConstant)
		configuration.CreateWorkingDirectory = createDirectoryValue
	}

	if command.Flags().Changed(flagFreshDirectoryNameConstant) {
		freshDirectoryValue, _ := command.Flags().GetBool(flagFreshDirectoryNameConstant)
		configuration.FreshWorkingDirectory = freshDirectoryValue
	}

	if command.Flags().Changed(flagCaptureNameConstant) {
		captureValue, _ := command.Flags().GetBool(flagCaptureNameConstant)
		configuration.CaptureOutput = captureValue
	}

	if command.Flags().Changed(flagNoFailFastNameConstant) {
		noFailFastValue, _ := command.Flags().GetBool(flagNoFailFastNameConstant)
		configuration.FailFast = !noFailFastValue
	}

	environmentAssignments, _ := command.Flags().GetStringArray(flagEnvironmentNameConstant)
	environmentVariables, environmentError := parseEnvironmentAssignments(environmentAssignments)
	if environmentError != nil {
		return RunOptions{}, environmentError
	}

	standardInputValue, _ := command.Flags().GetString(flagStandardInputNameConstant)

	runOptions := RunOptions{
		ProgramName:            arguments[0],
		Arguments:              arguments[1:],
		WorkingDirectory:       configuration.WorkingDirectory,
		CreateWorkingDirectory: configuration.CreateWorkingDirectory,
		FreshWorkingDirectory:  configuration.FreshWorkingDirectory,
		CaptureOutput:          configuration.CaptureOutput,
		EnvironmentVariables:   environmentVariables,
		FailFast:               configuration.FailFast,
	}
	if len(standardInputValue) > 0 {
		runOptions.StandardInput = []byte(standardInputValue)
	}

	return runOptions, nil
}

func parseEnvironmentAssignments(assignments []string) (map[string]string, error) {
	if len(assignments) == 0 {
		return nil, nil
	}

	environmentVariables := make(map[string]string, len(assignments))
	for _, assignment := range assignments {
		separatorIndex := strings.Index(assignment, environmentAssignmentSeparator)
		if separatorIndex <= 0 {
			return nil, fmt.Errorf(invalidAssignmentTemplateConstant, assignment)
		}
		environmentVariables[assignment[:separatorIndex]] = assignment[separatorIndex+1:]
	}
	return environmentVariables, nil
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider().Sanitize()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	return resolveLoggerFromProvider(builder.LoggerProvider)
}

func (builder *CommandBuilder) resolveTerminator() failfast.ProcessTerminator {
	return resolveTerminatorOrDefault(builder.Terminator)
}

func (builder *CommandBuilder) resolveExecutor(logger *zap.Logger) (*execshell.ShellExecutor, error) {
	humanReadableLogging := builder.HumanReadableLoggingProvider != nil && builder.HumanReadableLoggingProvider()
	return resolveExecutorOrDefault(logger, builder.Executor, builder.ConsoleWriter, humanReadableLogging)
}

func resolveLoggerFromProvider(loggerProvider LoggerProvider) *zap.Logger {
	if loggerProvider == nil {
		return zap.NewNop()
	}

	logger := loggerProvider()
	if logger == nil {
		return zap.NewNop()
	}

	return logger
}

func resolveTerminatorOrDefault(terminator failfast.ProcessTerminator) failfast.ProcessTerminator {
	if terminator != nil {
		return terminator
	}
	return failfast.OSProcessTerminator{}
}

func resolveExecutorOrDefault(logger *zap.Logger, configuredExecutor *execshell.ShellExecutor, consoleWriter io.Writer, humanReadableLogging bool) (*execshell.ShellExecutor, error) {
	if configuredExecutor != nil {
		return configuredExecutor, nil
	}

	commandRunner := execshell.NewOSCommandRunner()
	shellExecutor, creationError := execshell.NewShellExecutor(logger, commandRunner)
	if creationError != nil {
		return nil, creationError
	}

	return shellExecutor.WithEventObserver(buildConsoleEventObserver(logger, consoleWriter, humanReadableLogging)), nil
}

func buildConsoleEventObserver(logger *zap.Logger, consoleWriter io.Writer, humanReadableLogging bool) execshell.CommandEventObserver {
	if consoleWriter == nil {
		consoleWriter = os.Stdout
	}
	tracePrinter := ui.NewCommandTracePrinterWithWriter(consoleWriter)

	if humanReadableLogging {
		return ui.NewCompositeCommandEventObserver(tracePrinter, ui.NewConsoleCommandEventLogger(logger))
	}
	return tracePrinter
}
