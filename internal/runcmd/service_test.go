package runcmd_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cixtool/cix/internal/execshell"
	"github.com/cixtool/cix/internal/failfast"
	"github.com/cixtool/cix/internal/lookup"
	"github.com/cixtool/cix/internal/runcmd"
)

const (
	testProgramNameConstant          = "cmake"
	testSearchDirectoryConstant      = "/usr/local/bin"
	testResolvedProgramPathConstant  = "/usr/local/bin/cmake"
	testProgramArgumentConstant      = "--build"
	testMissingProgramNameConstant   = "definitely-absent"
	testTargetDirectoryConstant      = "/workspace/build"
	testInitialDirectoryConstant     = "/workspace"
	testChildFailureExitCodeConstant = 3
)

type recordingCommandRunner struct {
	recordedCommands []execshell.ShellCommand
	resultToReturn   execshell.ExecutionResult
	errorToReturn    error
}

func (runner *recordingCommandRunner) Run(executionContext context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error) {
	runner.recordedCommands = append(runner.recordedCommands, command)
	return runner.resultToReturn, runner.errorToReturn
}

type recordingProcessTerminator struct {
	recordedExitCodes []int
}

func (terminator *recordingProcessTerminator) Exit(exitCode int) {
	terminator.recordedExitCodes = append(terminator.recordedExitCodes, exitCode)
}

type fakeDirectoryController struct {
	currentDirectory    string
	existingDirectories map[string]bool
	changeHistory       []string
	removalHistory      []string
}

func (controller *fakeDirectoryController) CurrentDirectory() (string, error) {
	return controller.currentDirectory, nil
}

func (controller *fakeDirectoryController) ChangeDirectory(targetDirectory string) error {
	controller.currentDirectory = targetDirectory
	controller.changeHistory = append(controller.changeHistory, targetDirectory)
	return nil
}

func (controller *fakeDirectoryController) MakeDirectoryAll(targetDirectory string) error {
	controller.existingDirectories[targetDirectory] = true
	return nil
}

func (controller *fakeDirectoryController) RemoveDirectoryAll(targetDirectory string) error {
	controller.removalHistory = append(controller.removalHistory, targetDirectory)
	delete(controller.existingDirectories, targetDirectory)
	return nil
}

func (controller *fakeDirectoryController) DirectoryExists(targetDirectory string) (bool, error) {
	return controller.existingDirectories[targetDirectory], nil
}

func newTestResolver(testInstance *testing.T) *lookup.Resolver {
	fileSystem := afero.NewMemMapFs()
	require.NoError(testInstance, fileSystem.MkdirAll(testSearchDirectoryConstant, 0o755))
	require.NoError(testInstance, afero.WriteFile(fileSystem, testResolvedProgramPathConstant, []byte("#!/bin/sh\n"), 0o755))

	searchPathLookup := func(variableName string) (string, bool) {
		return testSearchDirectoryConstant, true
	}
	return lookup.NewResolver(fileSystem, searchPathLookup)
}

func newTestService(testInstance *testing.T, runner *recordingCommandRunner, terminator *recordingProcessTerminator, controller *fakeDirectoryController) *runcmd.Service {
	return newTestServiceWithConsole(testInstance, runner, terminator, controller, nil)
}

func newTestServiceWithConsole(testInstance *testing.T, runner *recordingCommandRunner, terminator *recordingProcessTerminator, controller *fakeDirectoryController, consoleBuffer *bytes.Buffer) *runcmd.Service {
	logger := zap.NewNop()
	executor, executorError := execshell.NewShellExecutor(logger, runner)
	require.NoError(testInstance, executorError)

	escalationPolicy, policyError := failfast.NewPolicy(logger, terminator)
	require.NoError(testInstance, policyError)

	dependencies := runcmd.ServiceDependencies{
		Logger:           logger,
		Executor:         executor,
		Resolver:         newTestResolver(testInstance),
		EscalationPolicy: escalationPolicy,
	}
	if controller != nil {
		dependencies.DirectoryController = controller
	}
	if consoleBuffer != nil {
		dependencies.ConsoleWriter = consoleBuffer
	}

	service, serviceError := runcmd.NewService(dependencies)
	require.NoError(testInstance, serviceError)
	return service
}

func TestNewServiceValidation(testInstance *testing.T) {
	logger := zap.NewNop()
	runner := &recordingCommandRunner{}
	executor, executorError := execshell.NewShellExecutor(logger, runner)
	require.NoError(testInstance, executorError)
	escalationPolicy, policyError := failfast.NewPolicy(logger, &recordingProcessTerminator{})
	require.NoError(testInstance, policyError)

	testCases := []struct {
		name          string
		dependencies  runcmd.ServiceDependencies
		expectedError error
	}{
		{
			name:          "missing_logger",
			dependencies:  runcmd.ServiceDependencies{Executor: executor, EscalationPolicy: escalationPolicy},
			expectedError: runcmd.ErrServiceLoggerRequired,
		},
		{
			name:          "missing_executor",
			dependencies:  runcmd.ServiceDependencies{Logger: logger, EscalationPolicy: escalationPolicy},
			expectedError: runcmd.ErrServiceExecutorRequired,
		},
		{
			name:          "missing_policy",
			dependencies:  runcmd.ServiceDependencies{Logger: logger, Executor: executor},
			expectedError: runcmd.ErrServicePolicyRequired,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			_, creationError := runcmd.NewService(testCase.dependencies)
			require.ErrorIs(testInstance, creationError, testCase.expectedError)
		})
	}
}

func TestServiceRunBindsResolvedPath(testInstance *testing.T) {
	runner := &recordingCommandRunner{}
	terminator := &recordingProcessTerminator{}
	service := newTestService(testInstance, runner, terminator, nil)

	executionResult, runError := service.Run(context.Background(), runcmd.RunOptions{
		ProgramName: testProgramNameConstant,
		Arguments:   []string{testProgramArgumentConstant},
		FailFast:    true,
	})

	require.NoError(testInstance, runError)
	require.Zero(testInstance, executionResult.ExitCode)
	require.Len(testInstance, runner.recordedCommands, 1)
	require.Equal(testInstance, execshell.CommandPath(testResolvedProgramPathConstant), runner.recordedCommands[0].Path)
	require.Equal(testInstance, []string{testProgramArgumentConstant}, runner.recordedCommands[0].Details.Arguments)
	require.Empty(testInstance, terminator.recordedExitCodes)
}

func TestServiceRunReturnsChildFailureWithoutFailFast(testInstance *testing.T) {
	runner := &recordingCommandRunner{resultToReturn: execshell.ExecutionResult{ExitCode: testChildFailureExitCodeConstant}}
	terminator := &recordingProcessTerminator{}
	service := newTestService(testInstance, runner, terminator, nil)

	executionResult, runError := service.Run(context.Background(), runcmd.RunOptions{ProgramName: testProgramNameConstant})

	require.Error(testInstance, runError)
	commandFailure := execshell.CommandFailedError{}
	require.ErrorAs(testInstance, runError, &commandFailure)
	require.Equal(testInstance, testChildFailureExitCodeConstant, executionResult.ExitCode)
	require.Empty(testInstance, terminator.recordedExitCodes)
}

func TestServiceRunEscalatesChildFailureWithFailFast(testInstance *testing.T) {
	runner := &recordingCommandRunner{resultToReturn: execshell.ExecutionResult{ExitCode: testChildFailureExitCodeConstant}}
	terminator := &recordingProcessTerminator{}
	service := newTestService(testInstance, runner, terminator, nil)

	_, runError := service.Run(context.Background(), runcmd.RunOptions{
		ProgramName: testProgramNameConstant,
		FailFast:    true,
	})

	require.Error(testInstance, runError)
	require.Equal(testInstance, []int{testChildFailureExitCodeConstant}, terminator.recordedExitCodes)
}

func TestServiceRunEscalatesResolutionFailure(testInstance *testing.T) {
	runner := &recordingCommandRunner{}
	terminator := &recordingProcessTerminator{}
	service := newTestService(testInstance, runner, terminator, nil)

	_, runError := service.Run(context.Background(), runcmd.RunOptions{
		ProgramName: testMissingProgramNameConstant,
		FailFast:    true,
	})

	require.Error(testInstance, runError)
	notFoundFailure := lookup.ProgramNotFoundError{}
	require.ErrorAs(testInstance, runError, &notFoundFailure)
	require.Equal(testInstance, []int{1}, terminator.recordedExitCodes)
	require.Empty(testInstance, runner.recordedCommands)
}

func TestServiceRunEntersAndRestoresWorkingDirectory(testInstance *testing.T) {
	runner := &recordingCommandRunner{}
	terminator := &recordingProcessTerminator{}
	controller := &fakeDirectoryController{
		currentDirectory:    testInitialDirectoryConstant,
		existingDirectories: map[string]bool{},
	}
	service := newTestService(testInstance, runner, terminator, controller)

	_, runError := service.Run(context.Background(), runcmd.RunOptions{
		ProgramName:            testProgramNameConstant,
		WorkingDirectory:       testTargetDirectoryConstant,
		CreateWorkingDirectory: true,
	})

	require.NoError(testInstance, runError)
	require.Equal(testInstance, []string{testTargetDirectoryConstant, testInitialDirectoryConstant}, controller.changeHistory)
	require.Equal(testInstance, testInitialDirectoryConstant, controller.currentDirectory)
	require.True(testInstance, controller.existingDirectories[testTargetDirectoryConstant])
}

func TestServiceRunWritesCapturedOutputToConsole(testInstance *testing.T) {
	runner := &recordingCommandRunner{resultToReturn: execshell.ExecutionResult{StandardOutput: "hello\n"}}
	terminator := &recordingProcessTerminator{}
	var consoleBuffer bytes.Buffer
	service := newTestServiceWithConsole(testInstance, runner, terminator, nil, &consoleBuffer)

	_, runError := service.Run(context.Background(), runcmd.RunOptions{
		ProgramName:   testProgramNameConstant,
		CaptureOutput: true,
		FailFast:      true,
	})

	require.NoError(testInstance, runError)
	require.Equal(testInstance, "hello\n", consoleBuffer.String())
}

func TestServiceRunReportsCapturedFailureOutputAndExitCode(testInstance *testing.T) {
	runner := &recordingCommandRunner{resultToReturn: execshell.ExecutionResult{
		StandardError: "configure error\n",
		ExitCode:      testChildFailureExitCodeConstant,
	}}
	terminator := &recordingProcessTerminator{}
	var consoleBuffer bytes.Buffer
	service := newTestServiceWithConsole(testInstance, runner, terminator, nil, &consoleBuffer)

	_, runError := service.Run(context.Background(), runcmd.RunOptions{
		ProgramName:   testProgramNameConstant,
		CaptureOutput: true,
	})

	require.Error(testInstance, runError)
	require.Equal(testInstance, "configure error\nexit status 3\n", consoleBuffer.String())
	require.Empty(testInstance, terminator.recordedExitCodes)
}

func TestServiceRunWritesCapturedOutputBeforeEscalating(testInstance *testing.T) {
	runner := &recordingCommandRunner{resultToReturn: execshell.ExecutionResult{
		StandardOutput: "partial build log\n",
		ExitCode:       testChildFailureExitCodeConstant,
	}}
	terminator := &recordingProcessTerminator{}
	var consoleBuffer bytes.Buffer
	service := newTestServiceWithConsole(testInstance, runner, terminator, nil, &consoleBuffer)

	_, runError := service.Run(context.Background(), runcmd.RunOptions{
		ProgramName:   testProgramNameConstant,
		CaptureOutput: true,
		FailFast:      true,
	})

	require.Error(testInstance, runError)
	require.Contains(testInstance, consoleBuffer.String(), "partial build log\n")
	require.Equal(testInstance, []int{testChildFailureExitCodeConstant}, terminator.recordedExitCodes)
}

func TestServiceRunFreshWorkingDirectoryRecreatesTarget(testInstance *testing.T) {
	runner := &recordingCommandRunner{}
	terminator := &recordingProcessTerminator{}
	controller := &fakeDirectoryController{
		currentDirectory:    testInitialDirectoryConstant,
		existingDirectories: map[string]bool{testTargetDirectoryConstant: true},
	}
	service := newTestService(testInstance, runner, terminator, controller)

	_, runError := service.Run(context.Background(), runcmd.RunOptions{
		ProgramName:           testProgramNameConstant,
		WorkingDirectory:      testTargetDirectoryConstant,
		FreshWorkingDirectory: true,
	})

	require.NoError(testInstance, runError)
	require.Equal(testInstance, []string{testTargetDirectoryConstant}, controller.removalHistory)
	require.True(testInstance, controller.existingDirectories[testTargetDirectoryConstant])
	require.Equal(testInstance, testInitialDirectoryConstant, controller.currentDirectory)
	require.Len(testInstance, runner.recordedCommands, 1)
}

func TestServiceRunRejectsMissingDirectoryWithoutCreate(testInstance *testing.T) {
	runner := &recordingCommandRunner{}
	terminator := &recordingProcessTerminator{}
	controller := &fakeDirectoryController{
		currentDirectory:    testInitialDirectoryConstant,
		existingDirectories: map[string]bool{},
	}
	service := newTestService(testInstance, runner, terminator, controller)

	_, runError := service.Run(context.Background(), runcmd.RunOptions{
		ProgramName:      testProgramNameConstant,
		WorkingDirectory: testTargetDirectoryConstant,
	})

	require.Error(testInstance, runError)
	require.Empty(testInstance, runner.recordedCommands)
	require.Empty(testInstance, controller.changeHistory)
}
