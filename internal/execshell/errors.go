package execshell

import (
	"errors"
	"fmt"
	"strings"
)

const (
	loggerNotConfiguredMessageConstant        = "shell executor requires a logger"
	commandRunnerNotConfiguredMessageConstant = "shell executor requires a command runner"
	executablePathRequiredMessageConstant     = "executable requires a resolved path"
	executorNotConfiguredMessageConstant      = "executable requires a shell executor"
	commandFailedTemplateConstant             = "%s failed with exit code %d"
	commandFailedStandardErrorSuffixConstant  = ": %s"
	commandExecutionFailureTemplateConstant   = "unable to execute %s: %v"
)

// Sentinel errors reported during construction.
var (
	// ErrLoggerNotConfigured indicates a ShellExecutor was created without a logger.
	ErrLoggerNotConfigured = errors.New(loggerNotConfiguredMessageConstant)
	// ErrCommandRunnerNotConfigured indicates a ShellExecutor was created without a runner.
	ErrCommandRunnerNotConfigured = errors.New(commandRunnerNotConfiguredMessageConstant)
	// ErrExecutablePathRequired indicates an Executable was created without a resolved path.
	ErrExecutablePathRequired = errors.New(executablePathRequiredMessageConstant)
	// ErrExecutorNotConfigured indicates an Executable was created without an executor.
	ErrExecutorNotConfigured = errors.New(executorNotConfiguredMessageConstant)
)

// CommandFailedError reports a child process that ran to completion with a nonzero exit code.
type CommandFailedError struct {
	Command ShellCommand
	Result  ExecutionResult
}

// Error describes the failed command, its exit code, and any captured standard error.
func (failure CommandFailedError) Error() string {
	baseMessage := fmt.Sprintf(commandFailedTemplateConstant, failure.Command.CommandLine(), failure.Result.ExitCode)
	trimmedStandardError := strings.TrimSpace(failure.Result.StandardError)
	if len(trimmedStandardError) == 0 {
		return baseMessage
	}
	return baseMessage + fmt.Sprintf(commandFailedStandardErrorSuffixConstant, trimmedStandardError)
}

// CommandExecutionError reports the operating system refusing to spawn a process.
type CommandExecutionError struct {
	Command ShellCommand
	Cause   error
}

// Error describes the command that could not be spawned.
func (failure CommandExecutionError) Error() string {
	return fmt.Sprintf(commandExecutionFailureTemplateConstant, failure.Command.CommandLine(), failure.Cause)
}

// Unwrap exposes the underlying operating system error.
func (failure CommandExecutionError) Unwrap() error {
	return failure.Cause
}
