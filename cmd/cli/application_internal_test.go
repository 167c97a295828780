package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/snykaudit/internal/snykapi"
	"github.com/temirov/snykaudit/internal/utils"
)

const (
	testCheckCommandNameConstant     = "check"
	testConfigurationFileConstant    = "config.yaml"
	testConfigurationContentConstant = "common:\n  log_level: warn\n  log_format: console\ntools:\n  check:\n    group_id: group-from-file\n    role_name: Admin\n    region: snyk-eu-01\n"
)

func TestNewApplicationRegistersCheckCommand(t *testing.T) {
	application := NewApplication()

	commandNames := make([]string, 0, len(application.rootCommand.Commands()))
	for _, registeredCommand := range application.rootCommand.Commands() {
		commandNames = append(commandNames, registeredCommand.Name())
	}

	require.Contains(t, commandNames, testCheckCommandNameConstant)
}

func TestInitializeConfigurationAppliesDefaults(t *testing.T) {
	application := NewApplication()
	application.rootCommand.SetContext(context.Background())

	initializationError := application.initializeConfiguration(application.rootCommand)
	require.NoError(t, initializationError)

	require.Equal(t, string(utils.LogLevelInfo), application.configuration.Common.LogLevel)
	require.Equal(t, string(snykapi.DefaultRegion), application.configuration.Tools.Check.Region)
	require.Equal(t, snykapi.DefaultAPIVersion, application.configuration.Tools.Check.APIVersion)
	require.NotNil(t, application.logger)
}

func TestInitializeConfigurationHonorsPersistentFlagOverrides(t *testing.T) {
	application := NewApplication()
	application.rootCommand.SetContext(context.Background())

	require.NoError(t, application.rootCommand.PersistentFlags().Set(logLevelFlagNameConstant, "debug"))
	require.NoError(t, application.rootCommand.PersistentFlags().Set(logFormatFlagNameConstant, "console"))

	initializationError := application.initializeConfiguration(application.rootCommand)
	require.NoError(t, initializationError)

	require.Equal(t, "debug", application.configuration.Common.LogLevel)
	require.Equal(t, "console", application.configuration.Common.LogFormat)
}

func TestInitializeConfigurationRejectsUnsupportedLogLevel(t *testing.T) {
	application := NewApplication()
	application.rootCommand.SetContext(context.Background())

	require.NoError(t, application.rootCommand.PersistentFlags().Set(logLevelFlagNameConstant, "verbose"))

	initializationError := application.initializeConfiguration(application.rootCommand)
	require.Error(t, initializationError)
}

func TestInitializeConfigurationReadsConfigurationFile(t *testing.T) {
	configurationPath := filepath.Join(t.TempDir(), testConfigurationFileConstant)
	require.NoError(t, os.WriteFile(configurationPath, []byte(testConfigurationContentConstant), 0o600))

	application := NewApplication()
	application.rootCommand.SetContext(context.Background())
	application.configurationFilePath = configurationPath

	initializationError := application.initializeConfiguration(application.rootCommand)
	require.NoError(t, initializationError)

	require.Equal(t, configurationPath, application.configurationMetadata.ConfigFileUsed)
	require.Equal(t, "warn", application.configuration.Common.LogLevel)
	require.Equal(t, "group-from-file", application.configuration.Tools.Check.GroupID)
	require.Equal(t, "Admin", application.configuration.Tools.Check.RoleName)
	require.Equal(t, "snyk-eu-01", application.configuration.Tools.Check.Region)
}
