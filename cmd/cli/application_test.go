package cli_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/temirov/remit/cmd/cli"
)

const (
	testExpectedConfigurationTypeConstant = "yaml"
)

type embeddedConfigurationDocument struct {
	Common struct {
		LogLevel  string `yaml:"log_level"`
		LogFormat string `yaml:"log_format"`
	} `yaml:"common"`
	Tools struct {
		Import struct {
			Target  string `yaml:"target"`
			Delay   string `yaml:"delay"`
			Private bool   `yaml:"private"`
		} `yaml:"import"`
	} `yaml:"tools"`
}

func TestEmbeddedDefaultConfigurationParses(testInstance *testing.T) {
	configurationContent, configurationType := cli.EmbeddedDefaultConfiguration()
	require.Equal(testInstance, testExpectedConfigurationTypeConstant, configurationType)
	require.NotEmpty(testInstance, configurationContent)

	var document embeddedConfigurationDocument
	require.NoError(testInstance, yaml.Unmarshal(configurationContent, &document))

	require.Equal(testInstance, "info", document.Common.LogLevel)
	require.Equal(testInstance, "structured", document.Common.LogFormat)
	require.Equal(testInstance, "user", document.Tools.Import.Target)
	require.Equal(testInstance, "2s", document.Tools.Import.Delay)
	require.False(testInstance, document.Tools.Import.Private)
}
