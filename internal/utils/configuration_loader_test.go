package utils_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/remit/internal/utils"
)

const (
	testConfigurationNameConstant              = "config"
	testConfigurationTypeConstant              = "yaml"
	testEnvironmentPrefixConstant              = "REMITTEST"
	testConfigurationFileNameConstant          = "config.yaml"
	testDefaultsOnlyCaseNameConstant           = "defaults_only"
	testFileOverridesCaseNameConstant          = "file_overrides_defaults"
	testEmbeddedConfigurationCaseNameConstant  = "embedded_configuration"
	testMalformedConfigurationCaseNameConstant = "malformed_configuration"
	testDefaultLogLevelValueConstant           = "info"
	testOverriddenLogLevelValueConstant        = "debug"
	testLogLevelDefaultKeyConstant             = "common.log_level"
	testConfigurationFileContentConstant       = "common:\n  log_level: debug\n"
	testEmbeddedConfigurationContentConstant   = "common:\n  log_level: warn\n"
	testMalformedConfigurationContentConstant  = "common: [unclosed\n"
)

type testLoaderConfiguration struct {
	Common struct {
		LogLevel string `mapstructure:"log_level"`
	} `mapstructure:"common"`
}

func TestConfigurationLoaderLoadConfiguration(testInstance *testing.T) {
	testCases := []struct {
		name             string
		fileContent      string
		embeddedContent  string
		expectError      bool
		expectedLogLevel string
	}{
		{
			name:             testDefaultsOnlyCaseNameConstant,
			expectedLogLevel: testDefaultLogLevelValueConstant,
		},
		{
			name:             testFileOverridesCaseNameConstant,
			fileContent:      testConfigurationFileContentConstant,
			expectedLogLevel: testOverriddenLogLevelValueConstant,
		},
		{
			name:             testEmbeddedConfigurationCaseNameConstant,
			embeddedContent:  testEmbeddedConfigurationContentConstant,
			expectedLogLevel: "warn",
		},
		{
			name:        testMalformedConfigurationCaseNameConstant,
			fileContent: testMalformedConfigurationContentConstant,
			expectError: true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			temporaryDirectory := testInstance.TempDir()

			configurationFilePath := ""
			if len(testCase.fileContent) > 0 {
				configurationFilePath = filepath.Join(temporaryDirectory, testConfigurationFileNameConstant)
				require.NoError(testInstance, os.WriteFile(configurationFilePath, []byte(testCase.fileContent), 0o600))
			}

			configurationLoader := utils.NewConfigurationLoader(
				testConfigurationNameConstant,
				testConfigurationTypeConstant,
				testEnvironmentPrefixConstant,
				[]string{temporaryDirectory},
			)

			if len(testCase.embeddedContent) > 0 {
				configurationLoader.SetEmbeddedConfiguration([]byte(testCase.embeddedContent), testConfigurationTypeConstant)
			}

			defaultValues := map[string]any{
				testLogLevelDefaultKeyConstant: testDefaultLogLevelValueConstant,
			}

			var loadedConfiguration testLoaderConfiguration
			metadata, loadError := configurationLoader.LoadConfiguration(configurationFilePath, defaultValues, &loadedConfiguration)

			if testCase.expectError {
				require.Error(testInstance, loadError)
				return
			}

			require.NoError(testInstance, loadError)
			require.Equal(testInstance, testCase.expectedLogLevel, loadedConfiguration.Common.LogLevel)
			require.Equal(testInstance, len(testCase.embeddedContent) > 0, metadata.EmbeddedDefaultsApplied)

			if len(testCase.fileContent) > 0 {
				require.Equal(testInstance, configurationFilePath, metadata.ConfigFileUsed)
			}
		})
	}
}

func TestCommandContextAccessorRoundTrip(testInstance *testing.T) {
	accessor := utils.NewCommandContextAccessor()

	testInstance.Run("configuration_file_path", func(testInstance *testing.T) {
		decoratedContext := accessor.WithConfigurationFilePath(nil, testConfigurationFileNameConstant)
		storedPath, available := accessor.ConfigurationFilePath(decoratedContext)
		require.True(testInstance, available)
		require.Equal(testInstance, testConfigurationFileNameConstant, storedPath)
	})

	testInstance.Run("log_level", func(testInstance *testing.T) {
		decoratedContext := accessor.WithLogLevel(nil, testOverriddenLogLevelValueConstant)
		storedLevel, available := accessor.LogLevel(decoratedContext)
		require.True(testInstance, available)
		require.Equal(testInstance, testOverriddenLogLevelValueConstant, storedLevel)
	})

	testInstance.Run("missing_values", func(testInstance *testing.T) {
		_, pathAvailable := accessor.ConfigurationFilePath(nil)
		require.False(testInstance, pathAvailable)
		_, levelAvailable := accessor.LogLevel(nil)
		require.False(testInstance, levelAvailable)
	})
}
