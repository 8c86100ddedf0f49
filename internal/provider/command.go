package provider

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	commandUseConstant                 = "provider"
	commandShortDescriptionConstant    = "Report which continuous-integration service is hosting this process"
	commandLongDescriptionConstant     = "provider inspects the environment for CI markers and prints the detected providers, one per line."
	providerLineTemplateConstant       = "%s\n"
	genericProviderOutputConstant      = "generic"
	noProviderOutputConstant           = "none"
	detectionLogMessageConstant        = "provider detection completed"
	logFieldDetectedCountConstant      = "detected_count"
	logFieldContinuousIntegrationField = "continuous_integration"
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the Cobra command for CI provider detection.
type CommandBuilder struct {
	LoggerProvider    LoggerProvider
	EnvironmentLookup EnvironmentLookup
	OutputWriter      io.Writer
}

// Build constructs the provider command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	detector := NewDetectorWithLookup(builder.EnvironmentLookup)
	outputWriter := builder.resolveOutputWriter()

	detectedProviders := detector.DetectedProviders()
	onContinuousIntegration := detector.IsContinuousIntegration()

	builder.resolveLogger().Debug(
		detectionLogMessageConstant,
		zap.Int(logFieldDetectedCountConstant, len(detectedProviders)),
		zap.Bool(logFieldContinuousIntegrationField, onContinuousIntegration),
	)

	switch {
	case len(detectedProviders) > 0:
		for _, detectedProvider := range detectedProviders {
			fmt.Fprintf(outputWriter, providerLineTemplateConstant, detectedProvider)
		}
	case onContinuousIntegration:
		fmt.Fprintf(outputWriter, providerLineTemplateConstant, genericProviderOutputConstant)
	default:
		fmt.Fprintf(outputWriter, providerLineTemplateConstant, noProviderOutputConstant)
	}

	return nil
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
