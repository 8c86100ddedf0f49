package failfast

import (
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/cixtool/cix/internal/colorize"
	"github.com/cixtool/cix/internal/execshell"
)

const (
	defaultFailureExitCodeConstant       = 1
	escalationLogMessageConstant         = "terminating after failed command"
	logFieldExitCodeConstant             = "exit_code"
	failureMessagePrefixConstant         = "[X] "
	failureMessageTemplateConstant       = "%s%s\n"
	policyLoggerRequiredMessageConstant  = "escalation policy requires a logger"
	policyTerminatorRequiredMessage      = "escalation policy requires a process terminator"
)

// Policy construction errors.
var (
	// ErrPolicyLoggerRequired indicates a Policy was created without a logger.
	ErrPolicyLoggerRequired = errors.New(policyLoggerRequiredMessageConstant)
	// ErrPolicyTerminatorRequired indicates a Policy was created without a terminator.
	ErrPolicyTerminatorRequired = errors.New(policyTerminatorRequiredMessage)
)

// ProcessTerminator ends the hosting process with an exit code.
type ProcessTerminator interface {
	Exit(exitCode int)
}

// OSProcessTerminator terminates the process via os.Exit.
type OSProcessTerminator struct{}

// Exit ends the process immediately with the supplied code.
func (OSProcessTerminator) Exit(exitCode int) {
	os.Exit(exitCode)
}

// EscalationDecision is the explicit outcome of classifying a failure.
type EscalationDecision struct {
	ShouldTerminate bool
	ExitCode        int
}

// Policy classifies build-step failures and applies the termination decision.
type Policy struct {
	logger     *zap.Logger
	terminator ProcessTerminator
}

// NewPolicy validates dependencies and constructs a Policy.
func NewPolicy(logger *zap.Logger, terminator ProcessTerminator) (*Policy, error) {
	if logger == nil {
		return nil, ErrPolicyLoggerRequired
	}
	if terminator == nil {
		return nil, ErrPolicyTerminatorRequired
	}
	return &Policy{logger: logger, terminator: terminator}, nil
}

// Classify maps a failure to a termination decision.
//
// A child that ran and reported a nonzero status terminates the host with the
// child's exact exit code, so the CI provider observes an authentic failure
// code. Spawn refusals and any other failure terminate with the default code.
func (policy *Policy) Classify(failure error) EscalationDecision {
	if failure == nil {
		return EscalationDecision{}
	}

	commandFailure := execshell.CommandFailedError{}
	if errors.As(failure, &commandFailure) {
		return EscalationDecision{ShouldTerminate: true, ExitCode: commandFailure.Result.ExitCode}
	}

	return EscalationDecision{ShouldTerminate: true, ExitCode: defaultFailureExitCodeConstant}
}

// Escalate applies the classification, logging and terminating when required.
// The failure is returned unchanged when no termination happens.
func (policy *Policy) Escalate(failure error) error {
	escalationDecision := policy.Classify(failure)
	if !escalationDecision.ShouldTerminate {
		return failure
	}

	policy.logger.Error(
		escalationLogMessageConstant,
		zap.Int(logFieldExitCodeConstant, escalationDecision.ExitCode),
		zap.Error(failure),
	)
	policy.terminator.Exit(escalationDecision.ExitCode)
	return failure
}

// FailOptions configure Fail.
type FailOptions struct {
	ExitCode int
	NoPrefix bool
}

// Failer writes failure messages and terminates through the configured terminator.
type Failer struct {
	errorWriter io.Writer
	formatter   colorize.Formatter
	terminator  ProcessTerminator
}

// NewFailer constructs a Failer writing to standard error and exiting the process.
func NewFailer() *Failer {
	return NewFailerWithDependencies(os.Stderr, colorize.NewFormatter(), OSProcessTerminator{})
}

// NewFailerWithDependencies constructs a Failer with explicit writer, formatter, and terminator.
func NewFailerWithDependencies(errorWriter io.Writer, formatter colorize.Formatter, terminator ProcessTerminator) *Failer {
	return &Failer{errorWriter: errorWriter, formatter: formatter, terminator: terminator}
}

// Fail writes the explanation to the error stream and terminates.
//
// The message carries a bold red "[X] " prefix unless suppressed; the exit
// code defaults to 1 when unset.
func (failer *Failer) Fail(why string, options FailOptions) {
	messagePrefix := ""
	if !options.NoPrefix {
		messagePrefix = failer.formatter.Colorize(failureMessagePrefixConstant, colorize.Options{Color: colorize.ColorRed, Style: colorize.StyleBold})
	}

	fmt.Fprintf(failer.errorWriter, failureMessageTemplateConstant, messagePrefix, why)

	exitCode := options.ExitCode
	if exitCode == 0 {
		exitCode = defaultFailureExitCodeConstant
	}
	failer.terminator.Exit(exitCode)
}
