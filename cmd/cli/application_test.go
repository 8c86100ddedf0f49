package cli_test

import (
	"bytes"
	"testing"

	mapstructure "github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/cixtool/cix/cmd/cli"
	"github.com/cixtool/cix/internal/runcmd"
)

const (
	testRunToolsKeyConstant   = "tools.run"
	testWhichToolsKeyConstant = "tools.which.best_effort"
)

func decodeEmbeddedApplicationConfiguration(testingInstance testing.TB) (cli.ApplicationConfiguration, *viper.Viper) {
	testingInstance.Helper()

	configurationData, configurationType := cli.EmbeddedDefaultConfiguration()
	viperInstance := viper.New()
	viperInstance.SetConfigType(configurationType)

	readError := viperInstance.ReadConfig(bytes.NewReader(configurationData))
	require.NoError(testingInstance, readError)

	var configuration cli.ApplicationConfiguration
	unmarshalError := viperInstance.Unmarshal(&configuration)
	require.NoError(testingInstance, unmarshalError)

	return configuration, viperInstance
}

func TestEmbeddedDefaultConfigurationDecodes(testInstance *testing.T) {
	configuration, viperInstance := decodeEmbeddedApplicationConfiguration(testInstance)

	require.Equal(testInstance, "info", configuration.Common.LogLevel)
	require.Equal(testInstance, "structured", configuration.Common.LogFormat)
	require.False(testInstance, configuration.Common.ForceColor)
	require.True(testInstance, configuration.Tools.Run.FailFast)
	require.False(testInstance, viperInstance.GetBool(testWhichToolsKeyConstant))
}

func TestEmbeddedRunDefaultsDecodeWithMapstructure(testInstance *testing.T) {
	_, viperInstance := decodeEmbeddedApplicationConfiguration(testInstance)

	runOptions := viperInstance.GetStringMap(testRunToolsKeyConstant)
	require.NotEmpty(testInstance, runOptions)

	var runConfiguration runcmd.CommandConfiguration
	decoder, decoderError := mapstructure.NewDecoder(&mapstructure.DecoderConfig{TagName: "mapstructure", Result: &runConfiguration})
	require.NoError(testInstance, decoderError)
	require.NoError(testInstance, decoder.Decode(runOptions))

	require.True(testInstance, runConfiguration.FailFast)
	require.False(testInstance, runConfiguration.CaptureOutput)
	require.Empty(testInstance, runConfiguration.WorkingDirectory)
}
