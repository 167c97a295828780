package membership_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/snykaudit/internal/membership"
	"github.com/temirov/snykaudit/internal/snykapi"
	"github.com/temirov/snykaudit/internal/snykauth"
)

func buildTestCommandBuilder(client membership.MembershipClient, environment map[string]string) *membership.CommandBuilder {
	return &membership.CommandBuilder{
		LoggerProvider: func() *zap.Logger {
			return zap.NewNop()
		},
		EnvironmentLookup: func(key string) (string, bool) {
			value, exists := environment[key]
			return value, exists
		},
		ClientFactory: func(logger *zap.Logger, options membership.CommandOptions) (membership.MembershipClient, error) {
			return client, nil
		},
		RequestDelay: time.Nanosecond,
	}
}

func executeCommand(testInstance *testing.T, builder *membership.CommandBuilder, arguments ...string) (string, error) {
	command := builder.Build()

	var outputBuffer bytes.Buffer
	command.SetOut(&outputBuffer)
	command.SetErr(&outputBuffer)
	command.SetContext(context.Background())
	command.SetArgs(arguments)

	executionError := command.Execute()
	return outputBuffer.String(), executionError
}

func TestCommandRequiresToken(testInstance *testing.T) {
	builder := buildTestCommandBuilder(&stubMembershipClient{}, map[string]string{})

	_, executionError := executeCommand(testInstance, builder, "--group-id", "group-1")
	require.Error(testInstance, executionError)
	require.Contains(testInstance, executionError.Error(), "token")
}

func TestCommandRequiresGroupID(testInstance *testing.T) {
	builder := buildTestCommandBuilder(&stubMembershipClient{}, map[string]string{
		snykauth.EnvSnykToken: "test-token",
	})

	_, executionError := executeCommand(testInstance, builder)
	require.Error(testInstance, executionError)
	require.Contains(testInstance, executionError.Error(), "group id")
}

func TestCommandResolvesDefaultsFromEnvironment(testInstance *testing.T) {
	client := &stubMembershipClient{
		members: []snykapi.GroupMembership{groupMember("user-1", "ada@example.com", "Group Member")},
		organizations: map[string][]snykapi.OrganizationMembership{
			"user-1": {orgMembership("org-1", "Payments", "user-1")},
		},
	}
	builder := buildTestCommandBuilder(client, map[string]string{
		snykauth.EnvPersonalSnykToken: "personal-token",
		snykauth.EnvGroupID:           "group-1",
	})

	output, executionError := executeCommand(testInstance, builder)
	require.NoError(testInstance, executionError)
	require.Contains(testInstance, output, "Group ID: group-1")
	require.Contains(testInstance, output, "Users WITH Org Memberships: 1")
}

func TestCommandRejectsInvalidRegion(testInstance *testing.T) {
	builder := buildTestCommandBuilder(&stubMembershipClient{}, map[string]string{
		snykauth.EnvSnykToken: "test-token",
	})

	_, executionError := executeCommand(testInstance, builder, "--group-id", "group-1", "--region", "SNYK-MARS-01")
	require.Error(testInstance, executionError)
	require.Contains(testInstance, executionError.Error(), "region")
}

func TestCommandRejectsPositionalArguments(testInstance *testing.T) {
	builder := buildTestCommandBuilder(&stubMembershipClient{}, map[string]string{
		snykauth.EnvSnykToken: "test-token",
	})

	_, executionError := executeCommand(testInstance, builder, "unexpected")
	require.Error(testInstance, executionError)
}

func TestCommandSignalsFindings(testInstance *testing.T) {
	client := &stubMembershipClient{
		members: []snykapi.GroupMembership{
			groupMember("user-1", "ada@example.com", "Group Member"),
			groupMember("user-2", "grace@example.com", "Group Member"),
		},
		organizations: map[string][]snykapi.OrganizationMembership{
			"user-1": {orgMembership("org-1", "Payments", "user-1")},
		},
	}
	builder := buildTestCommandBuilder(client, map[string]string{
		snykauth.EnvSnykToken: "test-token",
	})

	output, executionError := executeCommand(testInstance, builder, "--group-id", "group-1")
	require.ErrorIs(testInstance, executionError, membership.ErrAuditFindings)
	require.Contains(testInstance, output, "Users WITHOUT Org Memberships: 1")
}

func TestCommandForwardsVersionFlag(testInstance *testing.T) {
	var observedOptions membership.CommandOptions
	builder := &membership.CommandBuilder{
		LoggerProvider: func() *zap.Logger {
			return zap.NewNop()
		},
		EnvironmentLookup: func(key string) (string, bool) {
			if key == snykauth.EnvSnykToken {
				return "test-token", true
			}
			return "", false
		},
		ClientFactory: func(logger *zap.Logger, options membership.CommandOptions) (membership.MembershipClient, error) {
			observedOptions = options
			return &stubMembershipClient{}, nil
		},
		RequestDelay: time.Nanosecond,
	}

	_, executionError := executeCommand(testInstance, builder, "--group-id", "group-1", "--version", "2024-10-15")
	require.NoError(testInstance, executionError)
	require.Equal(testInstance, "2024-10-15", observedOptions.APIVersion)
}

func TestCommandWritesJSONReport(testInstance *testing.T) {
	outputPath := filepath.Join(testInstance.TempDir(), "report.json")
	client := &stubMembershipClient{
		members: []snykapi.GroupMembership{groupMember("user-1", "ada@example.com", "Group Member")},
		organizations: map[string][]snykapi.OrganizationMembership{
			"user-1": {orgMembership("org-1", "Payments", "user-1")},
		},
	}
	builder := buildTestCommandBuilder(client, map[string]string{
		snykauth.EnvSnykToken: "test-token",
	})

	_, executionError := executeCommand(testInstance, builder, "--group-id", "group-1", "--output", outputPath)
	require.NoError(testInstance, executionError)

	reportContents, readError := os.ReadFile(outputPath)
	require.NoError(testInstance, readError)
	require.Contains(testInstance, string(reportContents), "users_with_org_memberships")
}
