package cli

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func changeWorkingDirectory(testInstance *testing.T, directory string) {
	previousDirectory, directoryError := os.Getwd()
	require.NoError(testInstance, directoryError)
	require.NoError(testInstance, os.Chdir(directory))
	testInstance.Cleanup(func() {
		require.NoError(testInstance, os.Chdir(previousDirectory))
	})
}

const (
	testRunCommandNameConstant      = "run"
	testCMakeCommandNameConstant    = "cmake"
	testWhichCommandNameConstant    = "which"
	testProviderCommandNameConstant = "provider"
	testStageCommandNameConstant    = "stage"
	testPatchCommandNameConstant    = "patch"
)

func TestNewApplicationRegistersCommands(testInstance *testing.T) {
	application := NewApplication()

	registeredCommandNames := map[string]bool{}
	for _, registeredCommand := range application.rootCommand.Commands() {
		registeredCommandNames[registeredCommand.Name()] = true
	}

	for _, expectedCommandName := range []string{
		testRunCommandNameConstant,
		testCMakeCommandNameConstant,
		testWhichCommandNameConstant,
		testProviderCommandNameConstant,
		testStageCommandNameConstant,
		testPatchCommandNameConstant,
	} {
		require.True(testInstance, registeredCommandNames[expectedCommandName], expectedCommandName)
	}
}

func TestApplicationInitializeConfigurationAppliesEmbeddedDefaults(testInstance *testing.T) {
	changeWorkingDirectory(testInstance, testInstance.TempDir())

	application := NewApplication()
	require.NoError(testInstance, application.initializeConfiguration(application.rootCommand))

	require.Equal(testInstance, "info", application.configuration.Common.LogLevel)
	require.Equal(testInstance, "structured", application.configuration.Common.LogFormat)
	require.True(testInstance, application.configuration.Tools.Run.FailFast)
	require.False(testInstance, application.configuration.Tools.Which.BestEffort)
	require.Equal(testInstance, "build", application.configuration.Tools.CMake.BuildDirectory)
	require.True(testInstance, application.configuration.Tools.CMake.FailFast)
	require.NotNil(testInstance, application.logger)
	require.NotNil(testInstance, application.runCommandBuilder.ConsoleWriter)
	require.NotNil(testInstance, application.cmakeCommandBuilder.ConsoleWriter)
	require.NotNil(testInstance, application.stageCommandBuilder.OutputWriter)
}

func TestApplicationPersistentFlagsOverrideConfiguration(testInstance *testing.T) {
	changeWorkingDirectory(testInstance, testInstance.TempDir())

	application := NewApplication()
	require.NoError(testInstance, application.rootCommand.PersistentFlags().Set(logLevelFlagNameConstant, "debug"))
	require.NoError(testInstance, application.rootCommand.PersistentFlags().Set(logFormatFlagNameConstant, "console"))

	require.NoError(testInstance, application.initializeConfiguration(application.rootCommand))

	require.Equal(testInstance, "debug", application.configuration.Common.LogLevel)
	require.Equal(testInstance, "console", application.configuration.Common.LogFormat)
	require.True(testInstance, application.humanReadableLoggingEnabled())
}
