package failfast_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cixtool/cix/internal/colorize"
	"github.com/cixtool/cix/internal/execshell"
	"github.com/cixtool/cix/internal/failfast"
)

const (
	testNoFailureCaseNameConstant      = "no_failure"
	testCommandFailureCaseNameConstant = "command_failure_exit_code_propagated"
	testSpawnFailureCaseNameConstant   = "spawn_failure_default_exit_code"
	testGenericFailureCaseNameConstant = "generic_failure_default_exit_code"
	testChildExitCodeConstant          = 42
	testFailureMessageConstant         = "docs build produced warnings"
	testLinuxOperatingSystemName       = "linux"
)

type recordingProcessTerminator struct {
	recordedExitCodes []int
}

func (terminator *recordingProcessTerminator) Exit(exitCode int) {
	terminator.recordedExitCodes = append(terminator.recordedExitCodes, exitCode)
}

func TestNewPolicyValidation(testInstance *testing.T) {
	_, missingLoggerError := failfast.NewPolicy(nil, &recordingProcessTerminator{})
	require.ErrorIs(testInstance, missingLoggerError, failfast.ErrPolicyLoggerRequired)

	_, missingTerminatorError := failfast.NewPolicy(zap.NewNop(), nil)
	require.ErrorIs(testInstance, missingTerminatorError, failfast.ErrPolicyTerminatorRequired)

	policy, creationError := failfast.NewPolicy(zap.NewNop(), &recordingProcessTerminator{})
	require.NoError(testInstance, creationError)
	require.NotNil(testInstance, policy)
}

func TestPolicyClassify(testInstance *testing.T) {
	commandFailure := execshell.CommandFailedError{
		Result: execshell.ExecutionResult{ExitCode: testChildExitCodeConstant},
	}
	spawnFailure := execshell.CommandExecutionError{Cause: errors.New("permission denied")}

	testCases := []struct {
		name             string
		failure          error
		expectedDecision failfast.EscalationDecision
	}{
		{
			name:             testNoFailureCaseNameConstant,
			failure:          nil,
			expectedDecision: failfast.EscalationDecision{},
		},
		{
			name:             testCommandFailureCaseNameConstant,
			failure:          commandFailure,
			expectedDecision: failfast.EscalationDecision{ShouldTerminate: true, ExitCode: testChildExitCodeConstant},
		},
		{
			name:             testSpawnFailureCaseNameConstant,
			failure:          spawnFailure,
			expectedDecision: failfast.EscalationDecision{ShouldTerminate: true, ExitCode: 1},
		},
		{
			name:             testGenericFailureCaseNameConstant,
			failure:          errors.New("unclassified"),
			expectedDecision: failfast.EscalationDecision{ShouldTerminate: true, ExitCode: 1},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			policy, creationError := failfast.NewPolicy(zap.NewNop(), &recordingProcessTerminator{})
			require.NoError(testInstance, creationError)
			require.Equal(testInstance, testCase.expectedDecision, policy.Classify(testCase.failure))
		})
	}
}

func TestPolicyEscalateTerminatesWithChildExitCode(testInstance *testing.T) {
	terminator := &recordingProcessTerminator{}
	policy, creationError := failfast.NewPolicy(zap.NewNop(), terminator)
	require.NoError(testInstance, creationError)

	commandFailure := execshell.CommandFailedError{
		Result: execshell.ExecutionResult{ExitCode: testChildExitCodeConstant},
	}
	returnedFailure := policy.Escalate(commandFailure)

	require.Equal(testInstance, []int{testChildExitCodeConstant}, terminator.recordedExitCodes)
	require.Equal(testInstance, error(commandFailure), returnedFailure)
}

func TestPolicyEscalateSkipsTerminationWithoutFailure(testInstance *testing.T) {
	terminator := &recordingProcessTerminator{}
	policy, creationError := failfast.NewPolicy(zap.NewNop(), terminator)
	require.NoError(testInstance, creationError)

	require.NoError(testInstance, policy.Escalate(nil))
	require.Empty(testInstance, terminator.recordedExitCodes)
}

func TestFailerWritesPrefixedMessageAndTerminates(testInstance *testing.T) {
	var errorBuffer bytes.Buffer
	terminator := &recordingProcessTerminator{}
	formatter := colorize.NewFormatterForOperatingSystem(testLinuxOperatingSystemName)
	failer := failfast.NewFailerWithDependencies(&errorBuffer, formatter, terminator)

	failer.Fail(testFailureMessageConstant, failfast.FailOptions{})

	expectedPrefix := formatter.Colorize("[X] ", colorize.Options{Color: colorize.ColorRed, Style: colorize.StyleBold})
	require.Equal(testInstance, expectedPrefix+testFailureMessageConstant+"\n", errorBuffer.String())
	require.Equal(testInstance, []int{1}, terminator.recordedExitCodes)
}

func TestFailerHonorsOptions(testInstance *testing.T) {
	var errorBuffer bytes.Buffer
	terminator := &recordingProcessTerminator{}
	formatter := colorize.NewFormatterForOperatingSystem(testLinuxOperatingSystemName)
	failer := failfast.NewFailerWithDependencies(&errorBuffer, formatter, terminator)

	failer.Fail(testFailureMessageConstant, failfast.FailOptions{ExitCode: 9, NoPrefix: true})

	require.Equal(testInstance, testFailureMessageConstant+"\n", errorBuffer.String())
	require.Equal(testInstance, []int{9}, terminator.recordedExitCodes)
}
