package colorize

import (
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

const (
	stageCommandUseConstant             = "stage message..."
	stageCommandShortDescription        = "Print a build-stage banner"
	stageCommandLongDescription         = "stage prints a \"==> message\" banner with a bold green prefix so build phases stand out in the log."
	stageFlagForceColorNameConstant     = "force-color"
	stageFlagForceColorDescriptionValue = "Colorize the banner even when stdout is not a terminal"
	stageMessageArgumentJoinSeparator   = " "
)

// StageCommandBuilder assembles the Cobra command for stage banners.
type StageCommandBuilder struct {
	ForceColorProvider func() bool
	OutputWriter       io.Writer
	TerminalProbe      TerminalProbe
}

// Build constructs the stage command.
func (builder *StageCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   stageCommandUseConstant,
		Short: stageCommandShortDescription,
		Long:  stageCommandLongDescription,
		Args:  cobra.MinimumNArgs(1),
		RunE:  builder.run,
	}

	command.Flags().Bool(stageFlagForceColorNameConstant, false, stageFlagForceColorDescriptionValue)

	return command, nil
}

func (builder *StageCommandBuilder) run(command *cobra.Command, arguments []string) error {
	forceColor := builder.resolveForceColor()
	if command.Flags().Changed(stageFlagForceColorNameConstant) {
		forceColorValue, _ := command.Flags().GetBool(stageFlagForceColorNameConstant)
		forceColor = forceColorValue
	}

	stagePrinter := NewStagePrinterWithWriter(builder.resolveOutputWriter(), NewFormatter(), forceColor, builder.TerminalProbe)
	return stagePrinter.PrintStage(strings.Join(arguments, stageMessageArgumentJoinSeparator))
}

func (builder *StageCommandBuilder) resolveForceColor() bool {
	if builder.ForceColorProvider == nil {
		return false
	}
	return builder.ForceColorProvider()
}

func (builder *StageCommandBuilder) resolveOutputWriter() io.Writer {
	if builder.OutputWriter != nil {
		return builder.OutputWriter
	}
	return os.Stdout
}
