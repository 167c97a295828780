package membership

import (
	"strings"

	"github.com/temirov/snykaudit/internal/snykapi"
)

const (
	groupIDConfigurationKeyConstant    = "group_id"
	roleNameConfigurationKeyConstant   = "role_name"
	regionConfigurationKeyConstant     = "region"
	apiVersionConfigurationKeyConstant = "api_version"
	outputConfigurationKeyConstant     = "output"
	configurationKeySeparatorConstant  = "."
)

// CommandConfiguration captures persistent settings for the check command.
type CommandConfiguration struct {
	GroupID    string `mapstructure:"group_id"`
	RoleName   string `mapstructure:"role_name"`
	Region     string `mapstructure:"region"`
	APIVersion string `mapstructure:"api_version"`
	Output     string `mapstructure:"output"`
}

// DefaultCommandConfiguration returns baseline configuration values for the check command.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		Region:     string(snykapi.DefaultRegion),
		APIVersion: snykapi.DefaultAPIVersion,
	}
}

// DefaultConfigurationValues exposes the command defaults keyed under the provided prefix.
func DefaultConfigurationValues(configurationKeyPrefix string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		configurationKeyPrefix + configurationKeySeparatorConstant + groupIDConfigurationKeyConstant:    defaults.GroupID,
		configurationKeyPrefix + configurationKeySeparatorConstant + roleNameConfigurationKeyConstant:   defaults.RoleName,
		configurationKeyPrefix + configurationKeySeparatorConstant + regionConfigurationKeyConstant:     defaults.Region,
		configurationKeyPrefix + configurationKeySeparatorConstant + apiVersionConfigurationKeyConstant: defaults.APIVersion,
		configurationKeyPrefix + configurationKeySeparatorConstant + outputConfigurationKeyConstant:     defaults.Output,
	}
}

// sanitize trims whitespace and applies defaults to unset configuration values.
func (configuration CommandConfiguration) sanitize() CommandConfiguration {
	sanitized := configuration

	sanitized.GroupID = strings.TrimSpace(configuration.GroupID)
	sanitized.RoleName = strings.TrimSpace(configuration.RoleName)
	sanitized.Region = strings.TrimSpace(configuration.Region)
	sanitized.APIVersion = strings.TrimSpace(configuration.APIVersion)
	sanitized.Output = strings.TrimSpace(configuration.Output)

	if len(sanitized.Region) == 0 {
		sanitized.Region = string(snykapi.DefaultRegion)
	}
	if len(sanitized.APIVersion) == 0 {
		sanitized.APIVersion = snykapi.DefaultAPIVersion
	}

	return sanitized
}
