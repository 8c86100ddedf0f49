package runcmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/cixtool/cix/internal/execshell"
	"github.com/cixtool/cix/internal/failfast"
	"github.com/cixtool/cix/internal/lookup"
	"github.com/cixtool/cix/internal/workdir"
)

const (
	serviceLoggerRequiredMessageConstant   = "run service requires a logger"
	serviceExecutorRequiredMessageConstant = "run service requires a shell executor"
	servicePolicyRequiredMessageConstant   = "run service requires an escalation policy"
	scopeRestoreFailedLogMessageConstant   = "failed to restore previous working directory"
	programResolvedLogMessageConstant      = "program resolved"
	capturedExitCodeTemplateConstant       = "exit status %d\n"
	logFieldProgramNameConstant            = "program_name"
	logFieldResolvedPathConstant           = "resolved_path"
)

// Service construction errors.
var (
	// ErrServiceLoggerRequired indicates a Service was created without a logger.
	ErrServiceLoggerRequired = errors.New(serviceLoggerRequiredMessageConstant)
	// ErrServiceExecutorRequired indicates a Service was created without an executor.
	ErrServiceExecutorRequired = errors.New(serviceExecutorRequiredMessageConstant)
	// ErrServicePolicyRequired indicates a Service was created without an escalation policy.
	ErrServicePolicyRequired = errors.New(servicePolicyRequiredMessageConstant)
)

// RunOptions describe one program execution request.
type RunOptions struct {
	ProgramName            string
	Arguments              []string
	WorkingDirectory       string
	CreateWorkingDirectory bool
	FreshWorkingDirectory  bool
	CaptureOutput          bool
	EnvironmentVariables   map[string]string
	StandardInput          []byte
	FailFast               bool
}

// ServiceDependencies collect the collaborators a Service needs.
type ServiceDependencies struct {
	Logger              *zap.Logger
	Executor            *execshell.ShellExecutor
	Resolver            *lookup.Resolver
	DirectoryController workdir.DirectoryController
	EscalationPolicy    *failfast.Policy
	ConsoleWriter       io.Writer
}

// Service resolves a program and runs it synchronously, applying the
// fail-fast escalation policy to any failure when requested.
type Service struct {
	logger              *zap.Logger
	executor            *execshell.ShellExecutor
	resolver            *lookup.Resolver
	directoryController workdir.DirectoryController
	escalationPolicy    *failfast.Policy
	consoleWriter       io.Writer
}

// NewService validates dependencies and constructs a Service. The resolver and
// directory controller default to operating-system implementations.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	if dependencies.Logger == nil {
		return nil, ErrServiceLoggerRequired
	}
	if dependencies.Executor == nil {
		return nil, ErrServiceExecutorRequired
	}
	if dependencies.EscalationPolicy == nil {
		return nil, ErrServicePolicyRequired
	}

	programResolver := dependencies.Resolver
	if programResolver == nil {
		programResolver = lookup.NewResolver(nil, nil)
	}
	directoryController := dependencies.DirectoryController
	if directoryController == nil {
		directoryController = workdir.NewOSDirectoryController(nil)
	}
	consoleWriter := dependencies.ConsoleWriter
	if consoleWriter == nil {
		consoleWriter = os.Stdout
	}

	return &Service{
		logger:              dependencies.Logger,
		executor:            dependencies.Executor,
		resolver:            programResolver,
		directoryController: directoryController,
		escalationPolicy:    dependencies.EscalationPolicy,
		consoleWriter:       consoleWriter,
	}, nil
}

// Run resolves the program, optionally enters the requested working
// directory, and executes the program with argv bound to the resolved path.
//
// With FailFast set, any failure is escalated through the policy, which
// terminates the process with the child's exit code; without it, the failure
// is returned for the caller to handle.
func (service *Service) Run(executionContext context.Context, options RunOptions) (execshell.ExecutionResult, error) {
	resolution, resolutionError := service.resolver.Resolve(options.ProgramName, lookup.ResolutionOptions{})
	if resolutionError != nil {
		return execshell.ExecutionResult{}, service.concludeFailure(resolutionError, options)
	}

	service.logger.Debug(
		programResolvedLogMessageConstant,
		zap.String(logFieldProgramNameConstant, resolution.ProgramName),
		zap.String(logFieldResolvedPathConstant, resolution.ResolvedPath),
	)

	if len(options.WorkingDirectory) > 0 {
		directoryScope, scopeError := workdir.EnterScope(service.directoryController, options.WorkingDirectory, workdir.ScopeOptions{
			CreateMissing:  options.CreateWorkingDirectory,
			FreshDirectory: options.FreshWorkingDirectory,
		})
		if scopeError != nil {
			return execshell.ExecutionResult{}, service.concludeFailure(scopeError, options)
		}
		defer func() {
			if restoreError := directoryScope.Restore(); restoreError != nil {
				service.logger.Warn(scopeRestoreFailedLogMessageConstant, zap.Error(restoreError))
			}
		}()
	}

	executable, executableError := execshell.NewExecutable(service.executor, resolution.ResolvedPath)
	if executableError != nil {
		return execshell.ExecutionResult{}, service.concludeFailure(executableError, options)
	}

	executionResult, invocationError := executable.Invoke(executionContext, execshell.InvocationOptions{
		Arguments:            options.Arguments,
		EnvironmentVariables: options.EnvironmentVariables,
		StandardInput:        options.StandardInput,
		CaptureOutput:        options.CaptureOutput,
	})
	if options.CaptureOutput {
		service.reportCapturedResult(executionResult, invocationError != nil)
	}
	if invocationError != nil {
		return executionResult, service.concludeFailure(invocationError, options)
	}

	return executionResult, nil
}

// reportCapturedResult relays buffered child output to the console. Emitted
// before any fail-fast escalation so captured output survives termination.
func (service *Service) reportCapturedResult(executionResult execshell.ExecutionResult, invocationFailed bool) {
	if len(executionResult.StandardOutput) > 0 {
		io.WriteString(service.consoleWriter, executionResult.StandardOutput)
	}
	if len(executionResult.StandardError) > 0 {
		io.WriteString(service.consoleWriter, executionResult.StandardError)
	}
	if invocationFailed {
		fmt.Fprintf(service.consoleWriter, capturedExitCodeTemplateConstant, executionResult.ExitCode)
	}
}

func (service *Service) concludeFailure(failure error, options RunOptions) error {
	if options.FailFast {
		return service.escalationPolicy.Escalate(failure)
	}
	return failure
}
