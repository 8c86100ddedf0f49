package execshell

import "strings"

const (
	commandLineJoinSeparatorConstant = " "
)

// CommandPath identifies the resolved path of an executable program.
type CommandPath string

// CommandDetails describes a single invocation of an executable.
type CommandDetails struct {
	Arguments            []string
	WorkingDirectory     string
	EnvironmentVariables map[string]string
	StandardInput        []byte
	CaptureOutput        bool
}

// ShellCommand combines a resolved executable path with invocation details.
type ShellCommand struct {
	Path    CommandPath
	Details CommandDetails
}

// ExecutionResult captures the observable results of executing a command.
type ExecutionResult struct {
	StandardOutput string
	StandardError  string
	ExitCode       int
}

// CommandLine renders the resolved path followed by the arguments in order.
func (command ShellCommand) CommandLine() string {
	commandParts := append([]string{string(command.Path)}, command.Details.Arguments...)
	return strings.Join(commandParts, commandLineJoinSeparatorConstant)
}
