package cli

import _ "embed"

// Baseline configuration cix runs with when no config.yaml is found; the YAML
// form doubles as a reference for user-written configuration files.
//
//go:embed default_config.yaml
var builtinConfigurationData []byte

// EmbeddedDefaultConfiguration returns a copy of the built-in cix defaults and their configuration type.
func EmbeddedDefaultConfiguration() ([]byte, string) {
	configurationCopy := make([]byte, len(builtinConfigurationData))
	copy(configurationCopy, builtinConfigurationData)
	return configurationCopy, configurationTypeConstant
}
