// Package githubauth resolves GitHub access tokens from the environment.
package githubauth

import (
	"os"
	"strings"
)

// Environment variable names consulted when resolving a token.
const (
	EnvGitHubToken    = "GITHUB_TOKEN"
	EnvGitHubCLIToken = "GH_TOKEN"
	EnvGitHubAPIToken = "GITHUB_API_TOKEN"
)

var tokenPreferenceOrder = []string{
	EnvGitHubToken,
	EnvGitHubCLIToken,
	EnvGitHubAPIToken,
}

// ResolveToken returns the first non-empty token found, preferring explicit
// overrides over the process environment. The boolean reports whether any
// token was located.
func ResolveToken(overrides map[string]string) (string, bool) {
	for _, variableName := range tokenPreferenceOrder {
		if tokenValue, found := lookupOverride(overrides, variableName); found {
			return tokenValue, true
		}
	}
	for _, variableName := range tokenPreferenceOrder {
		if rawValue, found := os.LookupEnv(variableName); found {
			trimmedValue := strings.TrimSpace(rawValue)
			if len(trimmedValue) > 0 {
				return trimmedValue, true
			}
		}
	}
	return "", false
}

func lookupOverride(overrides map[string]string, variableName string) (string, bool) {
	if overrides == nil {
		return "", false
	}
	rawValue, exists := overrides[variableName]
	if !exists {
		return "", false
	}
	trimmedValue := strings.TrimSpace(rawValue)
	if len(trimmedValue) == 0 {
		return "", false
	}
	return trimmedValue, true
}
