package membership

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/snykaudit/internal/snykapi"
	"github.com/temirov/snykaudit/internal/snykauth"
	"github.com/temirov/snykaudit/internal/utils/flags"
)

const (
	commandUseConstant              = "check"
	commandShortDescriptionConstant = "Report group members without organization memberships"
	commandLongDescriptionConstant  = "check lists the memberships of a Snyk group, fetches each member's organization memberships, and reports members that belong to no organization."

	tokenFlagNameConstant             = "token"
	tokenFlagDescriptionConstant      = "Snyk API token (falls back to SNYK_TOKEN or PERSONAL_SNYK_TOKEN)"
	groupIDFlagNameConstant           = "group-id"
	groupIDFlagDescriptionConstant    = "Snyk group ID (falls back to configuration or GROUP_ID)"
	roleNameFlagNameConstant          = "role-name"
	roleNameFlagDescriptionConstant   = "Optional role name filter applied case-insensitively"
	regionFlagNameConstant            = "region"
	regionFlagDescriptionConstant     = "Snyk region"
	apiVersionFlagNameConstant        = "version"
	apiVersionFlagDescriptionConstant = "Snyk REST API version"
	outputFlagNameConstant            = "output"
	outputFlagDescriptionConstant     = "Optional path for the JSON result document"

	unexpectedArgumentsErrorMessageConstant = "check does not accept positional arguments"
	tokenMissingErrorMessageConstant        = "snyk api token is required: provide --token or set SNYK_TOKEN or PERSONAL_SNYK_TOKEN"
	groupIDMissingErrorMessageConstant      = "group id is required: provide --group-id or set GROUP_ID"
	regionParseErrorTemplateConstant        = "invalid region: %w"
	summaryWriteErrorTemplateConstant       = "unable to write summary: %w"
	jsonReportWrittenMessageConstant        = "JSON report written"
	logFieldOutputPathConstant              = "output_path"
)

// LoggerProvider supplies a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider returns the current check command configuration.
type ConfigurationProvider func() CommandConfiguration

// ClientFactory builds the membership client used by the reconciliation service.
type ClientFactory func(logger *zap.Logger, options CommandOptions) (MembershipClient, error)

// CommandBuilder assembles the check cobra command with configurable dependencies.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider ConfigurationProvider
	EnvironmentLookup     snykauth.EnvironmentLookup
	ClientFactory         ClientFactory
	RequestDelay          time.Duration
}

// Build constructs the cobra command for the membership check workflow.
func (builder *CommandBuilder) Build() *cobra.Command {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		RunE:  builder.run,
	}

	regionFlagUsage := flags.FormatChoiceUsage(string(snykapi.DefaultRegion), snykapi.RegionNames(), regionFlagDescriptionConstant)

	command.Flags().String(tokenFlagNameConstant, "", tokenFlagDescriptionConstant)
	command.Flags().String(groupIDFlagNameConstant, "", groupIDFlagDescriptionConstant)
	command.Flags().String(roleNameFlagNameConstant, "", roleNameFlagDescriptionConstant)
	command.Flags().String(regionFlagNameConstant, "", regionFlagUsage)
	command.Flags().String(apiVersionFlagNameConstant, "", apiVersionFlagDescriptionConstant)
	command.Flags().String(outputFlagNameConstant, "", outputFlagDescriptionConstant)

	return command
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	if len(arguments) > 0 {
		return errors.New(unexpectedArgumentsErrorMessageConstant)
	}

	options, optionsError := builder.parseOptions(command)
	if optionsError != nil {
		return optionsError
	}

	logger := builder.resolveLogger()

	client, clientError := builder.resolveClient(logger, options)
	if clientError != nil {
		return clientError
	}

	service := NewService(logger, client, builder.resolveRequestDelay())

	result, reconcileError := service.Reconcile(command.Context(), options.GroupID, options.RoleName)
	if reconcileError != nil {
		return reconcileError
	}

	summary := BuildSummary(options.GroupID, options.RoleName, result)
	if _, writeError := fmt.Fprint(command.OutOrStdout(), summary); writeError != nil {
		return fmt.Errorf(summaryWriteErrorTemplateConstant, writeError)
	}

	if len(options.OutputPath) > 0 {
		if reportError := WriteJSONReport(options.OutputPath, result); reportError != nil {
			return reportError
		}
		logger.Info(jsonReportWrittenMessageConstant, zap.String(logFieldOutputPathConstant, options.OutputPath))
	}

	if result.HasFindings() {
		return ErrAuditFindings
	}

	return nil
}

func (builder *CommandBuilder) parseOptions(command *cobra.Command) (CommandOptions, error) {
	configuration := builder.resolveConfiguration()

	tokenFlagValue, tokenFlagError := command.Flags().GetString(tokenFlagNameConstant)
	if tokenFlagError != nil {
		return CommandOptions{}, tokenFlagError
	}
	tokenValue := strings.TrimSpace(tokenFlagValue)
	if len(tokenValue) == 0 {
		environmentToken, tokenFound := snykauth.ResolveToken(builder.EnvironmentLookup)
		if !tokenFound {
			return CommandOptions{}, errors.New(tokenMissingErrorMessageConstant)
		}
		tokenValue = environmentToken
	}

	groupIDFlagValue, groupIDFlagError := command.Flags().GetString(groupIDFlagNameConstant)
	if groupIDFlagError != nil {
		return CommandOptions{}, groupIDFlagError
	}
	groupIDValue := selectStringValue(groupIDFlagValue, configuration.GroupID)
	if len(groupIDValue) == 0 {
		environmentGroupID, groupIDFound := snykauth.ResolveGroupID(builder.EnvironmentLookup)
		if !groupIDFound {
			return CommandOptions{}, errors.New(groupIDMissingErrorMessageConstant)
		}
		groupIDValue = environmentGroupID
	}

	roleNameFlagValue, roleNameFlagError := command.Flags().GetString(roleNameFlagNameConstant)
	if roleNameFlagError != nil {
		return CommandOptions{}, roleNameFlagError
	}
	roleNameValue := selectStringValue(roleNameFlagValue, configuration.RoleName)

	regionFlagValue, regionFlagError := command.Flags().GetString(regionFlagNameConstant)
	if regionFlagError != nil {
		return CommandOptions{}, regionFlagError
	}
	regionValue := selectStringValue(regionFlagValue, configuration.Region)
	parsedRegion, regionParseError := snykapi.ParseRegion(regionValue)
	if regionParseError != nil {
		return CommandOptions{}, fmt.Errorf(regionParseErrorTemplateConstant, regionParseError)
	}

	apiVersionFlagValue, apiVersionFlagError := command.Flags().GetString(apiVersionFlagNameConstant)
	if apiVersionFlagError != nil {
		return CommandOptions{}, apiVersionFlagError
	}
	apiVersionValue := selectStringValue(apiVersionFlagValue, configuration.APIVersion)

	outputFlagValue, outputFlagError := command.Flags().GetString(outputFlagNameConstant)
	if outputFlagError != nil {
		return CommandOptions{}, outputFlagError
	}
	outputValue := selectStringValue(outputFlagValue, configuration.Output)

	options := CommandOptions{
		Token:      tokenValue,
		GroupID:    groupIDValue,
		RoleName:   roleNameValue,
		Region:     parsedRegion,
		APIVersion: apiVersionValue,
		OutputPath: outputValue,
	}

	return options, nil
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	configuration := DefaultCommandConfiguration()
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider()
	}
	return configuration.sanitize()
}

func (builder *CommandBuilder) resolveClient(logger *zap.Logger, options CommandOptions) (MembershipClient, error) {
	if builder.ClientFactory != nil {
		return builder.ClientFactory(logger, options)
	}

	return snykapi.NewClient(logger, nil, snykapi.ClientConfiguration{
		Token:      options.Token,
		Region:     options.Region,
		APIVersion: options.APIVersion,
	})
}

func (builder *CommandBuilder) resolveRequestDelay() time.Duration {
	if builder.RequestDelay > 0 {
		return builder.RequestDelay
	}
	return DefaultRequestDelay
}

func selectStringValue(flagValue string, configurationValue string) string {
	trimmedFlagValue := strings.TrimSpace(flagValue)
	if len(trimmedFlagValue) > 0 {
		return trimmedFlagValue
	}
	return strings.TrimSpace(configurationValue)
}
