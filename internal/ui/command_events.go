package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/cixtool/cix/internal/execshell"
)

const (
	commandStartedMessageTemplateConstant          = "Running %s"
	commandCompletedMessageTemplateConstant        = "Completed %s"
	commandFailedExitCodeMessageTemplateConstant   = "%s failed with exit code %d"
	commandExecutionFailureMessageTemplateConstant = "%s failed: %s"
	commandLabelTemplateConstant                   = "%s%s"
	workingDirectorySuffixTemplateConstant         = " (in %s)"
	commandTraceLineTemplateConstant               = "$ %s\n"
	standardErrorSuffixTemplateConstant            = ": %s"
	unknownFailureMessageConstant                  = "unknown error"
	emptyStringConstant                            = ""
)

// CommandEventFormatter builds human-readable messages for command lifecycle events.
type CommandEventFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandEventFormatter) BuildStartedMessage(command execshell.ShellCommand) string {
	return fmt.Sprintf(commandStartedMessageTemplateConstant, formatter.formatCommandLabel(command))
}

// BuildSuccessMessage formats the message describing a completed command with a zero exit code.
func (formatter CommandEventFormatter) BuildSuccessMessage(command execshell.ShellCommand) string {
	return fmt.Sprintf(commandCompletedMessageTemplateConstant, formatter.formatCommandLabel(command))
}

// BuildFailureMessage formats the message describing a command that returned a non-zero exit code.
func (formatter CommandEventFormatter) BuildFailureMessage(command execshell.ShellCommand, result execshell.ExecutionResult) string {
	baseMessage := fmt.Sprintf(commandFailedExitCodeMessageTemplateConstant, formatter.formatCommandLabel(command), result.ExitCode)
	standardErrorSuffix := formatter.formatStandardErrorSuffix(result.StandardError)
	if len(standardErrorSuffix) == 0 {
		return baseMessage
	}
	return baseMessage + standardErrorSuffix
}

// BuildExecutionFailureMessage formats the message describing an unexpected execution failure.
func (formatter CommandEventFormatter) BuildExecutionFailureMessage(command execshell.ShellCommand, failure error) string {
	failureMessage := unknownFailureMessageConstant
	if failure != nil {
		failureMessage = failure.Error()
	}
	return fmt.Sprintf(commandExecutionFailureMessageTemplateConstant, formatter.formatCommandLabel(command), failureMessage)
}

func (formatter CommandEventFormatter) formatCommandLabel(command execshell.ShellCommand) string {
	workingDirectorySuffix := formatter.formatWorkingDirectorySuffix(command)
	return fmt.Sprintf(commandLabelTemplateConstant, command.CommandLine(), workingDirectorySuffix)
}

func (formatter CommandEventFormatter) formatWorkingDirectorySuffix(command execshell.ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory)
}

func (formatter CommandEventFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}

// CommandTracePrinter echoes each command before it runs, shell style, so the
// console shows the exact resolved path and arguments about to execute.
type CommandTracePrinter struct {
	writer io.Writer
}

// NewCommandTracePrinter constructs a trace printer writing to standard output.
func NewCommandTracePrinter() *CommandTracePrinter {
	return NewCommandTracePrinterWithWriter(os.Stdout)
}

// NewCommandTracePrinterWithWriter constructs a trace printer writing to an explicit writer.
func NewCommandTracePrinterWithWriter(writer io.Writer) *CommandTracePrinter {
	if writer == nil {
		writer = os.Stdout
	}
	return &CommandTracePrinter{writer: writer}
}

// CommandStarted implements execshell.CommandEventObserver by echoing the command line.
func (tracePrinter *CommandTracePrinter) CommandStarted(command execshell.ShellCommand) {
	if tracePrinter == nil {
		return
	}
	fmt.Fprintf(tracePrinter.writer, commandTraceLineTemplateConstant, command.CommandLine())
}

// CommandCompleted implements execshell.CommandEventObserver; the trace printer stays silent.
func (tracePrinter *CommandTracePrinter) CommandCompleted(command execshell.ShellCommand, result execshell.ExecutionResult) {
}

// CommandExecutionFailed implements execshell.CommandEventObserver; the trace printer stays silent.
func (tracePrinter *CommandTracePrinter) CommandExecutionFailed(command execshell.ShellCommand, failure error) {
}

// ConsoleCommandEventLogger renders command lifecycle events using a zap logger configured for human-readable output.
type ConsoleCommandEventLogger struct {
	logger    *zap.Logger
	formatter CommandEventFormatter
}

// NewConsoleCommandEventLogger constructs a console event logger backed by the provided zap logger.
func NewConsoleCommandEventLogger(logger *zap.Logger) *ConsoleCommandEventLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsoleCommandEventLogger{logger: logger, formatter: CommandEventFormatter{}}
}

// CommandStarted implements execshell.CommandEventObserver by logging command start notifications.
func (eventLogger *ConsoleCommandEventLogger) CommandStarted(command execshell.ShellCommand) {
	if eventLogger == nil {
		return
	}
	eventLogger.logger.Info(eventLogger.formatter.BuildStartedMessage(command))
}

// CommandCompleted implements execshell.CommandEventObserver by logging command completion notifications.
func (eventLogger *ConsoleCommandEventLogger) CommandCompleted(command execshell.ShellCommand, result execshell.ExecutionResult) {
	if eventLogger == nil {
		return
	}
	if result.ExitCode == 0 {
		eventLogger.logger.Info(eventLogger.formatter.BuildSuccessMessage(command))
		return
	}
	eventLogger.logger.Warn(eventLogger.formatter.BuildFailureMessage(command, result))
}

// CommandExecutionFailed implements execshell.CommandEventObserver by logging unexpected execution failures.
func (eventLogger *ConsoleCommandEventLogger) CommandExecutionFailed(command execshell.ShellCommand, failure error) {
	if eventLogger == nil {
		return
	}
	eventLogger.logger.Error(eventLogger.formatter.BuildExecutionFailureMessage(command, failure))
}

// CompositeCommandEventObserver fans every lifecycle event out to a list of observers.
type CompositeCommandEventObserver struct {
	observers []execshell.CommandEventObserver
}

// NewCompositeCommandEventObserver constructs a composite over the provided observers, skipping nils.
func NewCompositeCommandEventObserver(observers ...execshell.CommandEventObserver) *CompositeCommandEventObserver {
	retainedObservers := make([]execshell.CommandEventObserver, 0, len(observers))
	for _, candidateObserver := range observers {
		if candidateObserver != nil {
			retainedObservers = append(retainedObservers, candidateObserver)
		}
	}
	return &CompositeCommandEventObserver{observers: retainedObservers}
}

// CommandStarted implements execshell.CommandEventObserver.
func (composite *CompositeCommandEventObserver) CommandStarted(command execshell.ShellCommand) {
	for _, registeredObserver := range composite.observers {
		registeredObserver.CommandStarted(command)
	}
}

// CommandCompleted implements execshell.CommandEventObserver.
func (composite *CompositeCommandEventObserver) CommandCompleted(command execshell.ShellCommand, result execshell.ExecutionResult) {
	for _, registeredObserver := range composite.observers {
		registeredObserver.CommandCompleted(command, result)
	}
}

// CommandExecutionFailed implements execshell.CommandEventObserver.
func (composite *CompositeCommandEventObserver) CommandExecutionFailed(command execshell.ShellCommand, failure error) {
	for _, registeredObserver := range composite.observers {
		registeredObserver.CommandExecutionFailed(command, failure)
	}
}
