package importer

import (
	"strings"
	"time"
)

const (
	defaultOwnerKindValueConstant    = "user"
	defaultInterProjectDelayConstant = 2 * time.Second

	configurationKeySeparatorConstant = "."
	debugConfigurationKeyConstant     = "debug"
	targetConfigurationKeyConstant    = "target"
	delayConfigurationKeyConstant     = "delay"
	privateConfigurationKeyConstant   = "private"
)

// CommandConfiguration captures persisted configuration for the import command.
type CommandConfiguration struct {
	EnableDebugLogging bool              `mapstructure:"debug"`
	ManifestPath       string            `mapstructure:"manifest"`
	OwnerName          string            `mapstructure:"owner"`
	OwnerKind          string            `mapstructure:"target"`
	NamePrefix         string            `mapstructure:"prefix"`
	SourceBaseURL      string            `mapstructure:"source_url"`
	Private            bool              `mapstructure:"private"`
	InterProjectDelay  time.Duration     `mapstructure:"delay"`
	AssumeYes          bool              `mapstructure:"assume_yes"`
	NameOverrides      map[string]string `mapstructure:"name_overrides"`
}

// DefaultCommandConfiguration returns baseline configuration values for the import command.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		EnableDebugLogging: false,
		OwnerKind:          defaultOwnerKindValueConstant,
		InterProjectDelay:  defaultInterProjectDelayConstant,
	}
}

// DefaultConfigurationValues exposes baseline values keyed under the provided
// configuration prefix for registration with the configuration loader.
func DefaultConfigurationValues(configurationPrefix string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		configurationPrefix + configurationKeySeparatorConstant + debugConfigurationKeyConstant:   defaults.EnableDebugLogging,
		configurationPrefix + configurationKeySeparatorConstant + targetConfigurationKeyConstant:  defaults.OwnerKind,
		configurationPrefix + configurationKeySeparatorConstant + delayConfigurationKeyConstant:   defaults.InterProjectDelay,
		configurationPrefix + configurationKeySeparatorConstant + privateConfigurationKeyConstant: defaults.Private,
	}
}

// Sanitize trims configured values and removes empty entries.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.ManifestPath = strings.TrimSpace(configuration.ManifestPath)
	sanitized.OwnerName = strings.TrimSpace(configuration.OwnerName)
	sanitized.OwnerKind = strings.TrimSpace(configuration.OwnerKind)
	sanitized.NamePrefix = strings.TrimSpace(configuration.NamePrefix)
	sanitized.SourceBaseURL = strings.TrimRight(strings.TrimSpace(configuration.SourceBaseURL), "/")

	if len(sanitized.OwnerKind) == 0 {
		sanitized.OwnerKind = defaultOwnerKindValueConstant
	}
	if sanitized.InterProjectDelay < 0 {
		sanitized.InterProjectDelay = defaultInterProjectDelayConstant
	}

	if len(configuration.NameOverrides) > 0 {
		sanitizedOverrides := make(map[string]string, len(configuration.NameOverrides))
		for fullName, overrideName := range configuration.NameOverrides {
			trimmedFullName := strings.TrimSpace(fullName)
			trimmedOverrideName := strings.TrimSpace(overrideName)
			if len(trimmedFullName) == 0 || len(trimmedOverrideName) == 0 {
				continue
			}
			sanitizedOverrides[trimmedFullName] = trimmedOverrideName
		}
		sanitized.NameOverrides = sanitizedOverrides
	}

	return sanitized
}
