package runcmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/cixtool/cix/internal/cmakeargs"
	"github.com/cixtool/cix/internal/execshell"
	"github.com/cixtool/cix/internal/failfast"
	"github.com/cixtool/cix/internal/lookup"
)

const (
	cmakeCommandUseConstant                    = "cmake [flags] [-- extra-configure-args...]"
	cmakeCommandNameConstant                   = "cmake"
	cmakeCommandShortDescriptionConstant       = "Configure and build a CMake project with generator-aware arguments"
	cmakeCommandLongDescriptionConstant        = "cmake resolves the cmake executable, configures the project with arguments folded from the generator, compiler, and build-type flags, then runs the build step. Extra configure arguments may follow the -- sequence."
	cmakeCommandExecutionErrorTemplateConstant = "cmake failed: %w"
	flagSourceDirectoryNameConstant            = "source-dir"
	flagSourceDirectoryDescriptionConstant     = "CMake source directory"
	flagBuildDirectoryNameConstant             = "build-dir"
	flagBuildDirectoryDescriptionConstant      = "CMake build directory, created when missing"
	flagConfigureOnlyNameConstant              = "configure-only"
	flagConfigureOnlyDescriptionConstant       = "Run only the configure step"
	cmakeSourceArgumentConstant                = "-S"
	cmakeBuildTreeArgumentConstant             = "-B"
	cmakeBuildStepArgumentConstant             = "--build"
)

// CMakeCommandBuilder assembles the Cobra command driving cmake configure and build.
type CMakeCommandBuilder struct {
	LoggerProvider               LoggerProvider
	ConfigurationProvider        func() CMakeCommandConfiguration
	HumanReadableLoggingProvider func() bool
	Executor                     *execshell.ShellExecutor
	Resolver                     *lookup.Resolver
	Terminator                   failfast.ProcessTerminator
	ConsoleWriter                io.Writer

	argumentSet *cmakeargs.ArgumentSet
}

// Build constructs the cmake command.
func (builder *CMakeCommandBuilder) Build() (*cobra.Command, error) {
	builder.argumentSet = cmakeargs.NewArgumentSet()

	command := &cobra.Command{
		Use:   cmakeCommandUseConstant,
		Short: cmakeCommandShortDescriptionConstant,
		Long:  cmakeCommandLongDescriptionConstant,
		Args:  cobra.ArbitraryArgs,
		RunE:  builder.run,
	}

	builder.argumentSet.BindFlags(command.Flags())
	command.Flags().String(flagSourceDirectoryNameConstant, "", flagSourceDirectoryDescriptionConstant)
	command.Flags().String(flagBuildDirectoryNameConstant, "", flagBuildDirectoryDescriptionConstant)
	command.Flags().Bool(flagConfigureOnlyNameConstant, false, flagConfigureOnlyDescriptionConstant)
	command.Flags().Bool(flagNoFailFastNameConstant, false, flagNoFailFastDescriptionConstant)

	return command, nil
}

func (builder *CMakeCommandBuilder) run(command *cobra.Command, arguments []string) error {
	configuration := builder.resolveConfiguration()

	if command.Flags().Changed(flagSourceDirectoryNameConstant) {
		sourceDirectoryValue, _ := command.Flags().GetString(flagSourceDirectoryNameConstant)
		configuration.SourceDirectory = sourceDirectoryValue
	}
	if command.Flags().Changed(flagBuildDirectoryNameConstant) {
		buildDirectoryValue, _ := command.Flags().GetString(flagBuildDirectoryNameConstant)
		configuration.BuildDirectory = buildDirectoryValue
	}
	if command.Flags().Changed(flagNoFailFastNameConstant) {
		noFailFastValue, _ := command.Flags().GetBool(flagNoFailFastNameConstant)
		configuration.FailFast = !noFailFastValue
	}
	configuration = configuration.Sanitize()

	builder.argumentSet.ExtraConfigureArguments = arguments
	if validationError := builder.argumentSet.Validate(); validationError != nil {
		return validationError
	}

	logger := resolveLoggerFromProvider(builder.LoggerProvider)
	humanReadableLogging := builder.HumanReadableLoggingProvider != nil && builder.HumanReadableLoggingProvider()
	executor, executorError := resolveExecutorOrDefault(logger, builder.Executor, builder.ConsoleWriter, humanReadableLogging)
	if executorError != nil {
		return executorError
	}

	escalationPolicy, policyError := failfast.NewPolicy(logger, resolveTerminatorOrDefault(builder.Terminator))
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

	configureArguments := append(
		[]string{cmakeSourceArgumentConstant, configuration.SourceDirectory, cmakeBuildTreeArgumentConstant, configuration.BuildDirectory},
		builder.argumentSet.ConfigureArguments()...,
	)
	if _, configureError := service.Run(command.Context(), RunOptions{
		ProgramName: cmakeCommandNameConstant,
		Arguments:   configureArguments,
		FailFast:    configuration.FailFast,
	}); configureError != nil {
		return fmt.Errorf(cmakeCommandExecutionErrorTemplateConstant, configureError)
	}

	configureOnly, _ := command.Flags().GetBool(flagConfigureOnlyNameConstant)
	if configureOnly {
		return nil
	}

	buildArguments := append(
		[]string{cmakeBuildStepArgumentConstant, configuration.BuildDirectory},
		builder.argumentSet.BuildArguments()...,
	)
	if _, buildError := service.Run(command.Context(), RunOptions{
		ProgramName: cmakeCommandNameConstant,
		Arguments:   buildArguments,
		FailFast:    configuration.FailFast,
	}); buildError != nil {
		return fmt.Errorf(cmakeCommandExecutionErrorTemplateConstant, buildError)
	}

	return nil
}

func (builder *CMakeCommandBuilder) resolveConfiguration() CMakeCommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCMakeCommandConfiguration()
	}
	return builder.ConfigurationProvider().Sanitize()
}
