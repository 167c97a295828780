// Package snykauth resolves Snyk credentials and run defaults from the environment.
package snykauth

import (
	"os"
	"strings"
)

// Environment variable names consulted by the resolution helpers.
const (
	EnvSnykToken         = "SNYK_TOKEN"
	EnvPersonalSnykToken = "PERSONAL_SNYK_TOKEN"
	EnvGroupID           = "GROUP_ID"
)

var tokenPreference = []string{
	EnvSnykToken,
	EnvPersonalSnykToken,
}

// EnvironmentLookup obtains an environment variable value.
type EnvironmentLookup func(key string) (string, bool)

// ResolveToken returns the first non-empty Snyk API token observed in the
// environment, walking the preference order. A nil lookup falls back to the
// process environment.
func ResolveToken(environmentLookup EnvironmentLookup) (string, bool) {
	resolvedLookup := resolveLookup(environmentLookup)
	for _, environmentVariableName := range tokenPreference {
		if value, found := lookupNonEmpty(resolvedLookup, environmentVariableName); found {
			return value, true
		}
	}
	return "", false
}

// ResolveGroupID returns the default group identifier configured in the
// environment, when present.
func ResolveGroupID(environmentLookup EnvironmentLookup) (string, bool) {
	return lookupNonEmpty(resolveLookup(environmentLookup), EnvGroupID)
}

func resolveLookup(environmentLookup EnvironmentLookup) EnvironmentLookup {
	if environmentLookup == nil {
		return os.LookupEnv
	}
	return environmentLookup
}

func lookupNonEmpty(environmentLookup EnvironmentLookup, environmentVariableName string) (string, bool) {
	value, exists := environmentLookup(environmentVariableName)
	if !exists {
		return "", false
	}
	trimmedValue := strings.TrimSpace(value)
	if len(trimmedValue) == 0 {
		return "", false
	}
	return trimmedValue, true
}
