package execshell

import (
	"context"
	"strings"
)

// InvocationOptions configure a single invocation of an Executable.
type InvocationOptions struct {
	Arguments            []string
	WorkingDirectory     string
	EnvironmentVariables map[string]string
	StandardInput        []byte
	CaptureOutput        bool
}

// Executable binds a resolved program path to a ShellExecutor.
//
// The value is immutable after construction and may be invoked any number of
// times; each invocation spawns exactly one child process with
// argv = [resolved path] + arguments.
type Executable struct {
	resolvedPath string
	executor     *ShellExecutor
}

// NewExecutable constructs an Executable bound to the supplied resolved path.
func NewExecutable(executor *ShellExecutor, resolvedPath string) (*Executable, error) {
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	trimmedPath := strings.TrimSpace(resolvedPath)
	if len(trimmedPath) == 0 {
		return nil, ErrExecutablePathRequired
	}

	return &Executable{resolvedPath: trimmedPath, executor: executor}, nil
}

// Path returns the resolved program path the executable is bound to.
func (executable *Executable) Path() string {
	return executable.resolvedPath
}

// Invoke spawns the bound program synchronously with the supplied options.
func (executable *Executable) Invoke(executionContext context.Context, options InvocationOptions) (ExecutionResult, error) {
	shellCommand := ShellCommand{
		Path: CommandPath(executable.resolvedPath),
		Details: CommandDetails{
			Arguments:            append([]string{}, options.Arguments...),
			WorkingDirectory:     options.WorkingDirectory,
			EnvironmentVariables: options.EnvironmentVariables,
			StandardInput:        options.StandardInput,
			CaptureOutput:        options.CaptureOutput,
		},
	}
	return executable.executor.Execute(executionContext, shellCommand)
}
