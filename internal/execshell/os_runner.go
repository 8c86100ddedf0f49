package execshell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
)

const (
	environmentAssignmentSeparatorConstant = "="
	environmentAssignmentTemplateConstant  = "%s%s%s"
)

// OSCommandRunner executes commands using the operating system facilities.
//
// In streaming mode (the default) the child process writes directly to the
// runner's output streams and reads from the runner's input stream, so
// long-running commands produce incremental log output and interactive
// commands may block on input indefinitely. Capture mode buffers both output
// streams into the returned ExecutionResult instead.
type OSCommandRunner struct {
	standardOutput io.Writer
	standardError  io.Writer
	standardInput  io.Reader
}

// NewOSCommandRunner constructs a runner backed by os/exec attached to the process streams.
func NewOSCommandRunner() *OSCommandRunner {
	return &OSCommandRunner{
		standardOutput: os.Stdout,
		standardError:  os.Stderr,
		standardInput:  os.Stdin,
	}
}

// NewOSCommandRunnerWithStreams constructs a runner with explicit streaming targets.
func NewOSCommandRunnerWithStreams(standardOutput io.Writer, standardError io.Writer, standardInput io.Reader) *OSCommandRunner {
	return &OSCommandRunner{
		standardOutput: standardOutput,
		standardError:  standardError,
		standardInput:  standardInput,
	}
}

// Run executes the supplied command synchronously using os/exec.
func (runner *OSCommandRunner) Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	commandArguments := append([]string{}, command.Details.Arguments...)
	executable := exec.CommandContext(executionContext, string(command.Path), commandArguments...)

	if len(command.Details.WorkingDirectory) > 0 {
		executable.Dir = command.Details.WorkingDirectory
	}

	if len(command.Details.EnvironmentVariables) > 0 {
		mergedEnvironment := append([]string{}, os.Environ()...)
		for environmentKey, environmentValue := range command.Details.EnvironmentVariables {
			mergedEnvironment = append(mergedEnvironment, fmt.Sprintf(environmentAssignmentTemplateConstant, environmentKey, environmentAssignmentSeparatorConstant, environmentValue))
		}
		executable.Env = mergedEnvironment
	}

	var standardOutputBuffer bytes.Buffer
	var standardErrorBuffer bytes.Buffer
	if command.Details.CaptureOutput {
		executable.Stdout = &standardOutputBuffer
		executable.Stderr = &standardErrorBuffer
	} else {
		executable.Stdout = runner.standardOutput
		executable.Stderr = runner.standardError
	}

	if len(command.Details.StandardInput) > 0 {
		executable.Stdin = bytes.NewReader(command.Details.StandardInput)
	} else if !command.Details.CaptureOutput {
		executable.Stdin = runner.standardInput
	}

	runError := executable.Run()
	if runError != nil {
		exitError := &exec.ExitError{}
		if errors.As(runError, &exitError) {
			return ExecutionResult{
				StandardOutput: standardOutputBuffer.String(),
				StandardError:  standardErrorBuffer.String(),
				ExitCode:       exitError.ExitCode(),
			}, nil
		}
		return ExecutionResult{}, runError
	}

	return ExecutionResult{
		StandardOutput: standardOutputBuffer.String(),
		StandardError:  standardErrorBuffer.String(),
		ExitCode:       0,
	}, nil
}
