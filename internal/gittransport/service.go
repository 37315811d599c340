package gittransport

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/temirov/remit/internal/execshell"
)

const (
	executorNotConfiguredMessageConstant  = "git executor not configured"
	sourceURLRequiredMessageConstant      = "source url must be provided"
	destinationURLRequiredMessageConstant = "destination url must be provided"
	mirrorPathRequiredMessageConstant     = "mirror path must be provided"
	tokenRequiredMessageConstant          = "token must be provided"
	ownerRequiredMessageConstant          = "owner must be provided"
	repositoryRequiredMessageConstant     = "repository must be provided"
	cloneSubcommandConstant               = "clone"
	pushSubcommandConstant                = "push"
	lsRemoteSubcommandConstant            = "ls-remote"
	mirrorFlagConstant                    = "--mirror"
	terminalPromptVariableNameConstant    = "GIT_TERMINAL_PROMPT"
	terminalPromptDisabledValueConstant   = "0"
	mirrorWorkspacePatternConstant        = "remit-mirror-*"
	authenticatedPushURLTemplateConstant  = "https://%s@github.com/%s/%s.git"
)

// ErrExecutorNotConfigured indicates the service was constructed without a git executor.
var ErrExecutorNotConfigured = errors.New(executorNotConfiguredMessageConstant)

// GitExecutor runs git commands on behalf of the transport service.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// Service performs mirror transfers through a GitExecutor.
type Service struct {
	executor GitExecutor
}

// NewService constructs a Service backed by the provided executor.
func NewService(executor GitExecutor) (*Service, error) {
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	return &Service{executor: executor}, nil
}

// BuildAuthenticatedPushURL assembles the destination push URL with the token embedded.
// The returned value carries the credential and must never be logged unredacted.
func BuildAuthenticatedPushURL(token string, ownerName string, repositoryName string) (string, error) {
	trimmedToken := strings.TrimSpace(token)
	if len(trimmedToken) == 0 {
		return "", errors.New(tokenRequiredMessageConstant)
	}
	trimmedOwnerName := strings.TrimSpace(ownerName)
	if len(trimmedOwnerName) == 0 {
		return "", errors.New(ownerRequiredMessageConstant)
	}
	trimmedRepositoryName := strings.TrimSpace(repositoryName)
	if len(trimmedRepositoryName) == 0 {
		return "", errors.New(repositoryRequiredMessageConstant)
	}
	return fmt.Sprintf(authenticatedPushURLTemplateConstant, trimmedToken, trimmedOwnerName, trimmedRepositoryName), nil
}

// CreateMirrorWorkspace provisions a temporary directory for one mirror clone.
func (service *Service) CreateMirrorWorkspace() (string, error) {
	return os.MkdirTemp("", mirrorWorkspacePatternConstant)
}

// RemoveMirrorWorkspace discards a mirror workspace and everything under it.
func (service *Service) RemoveMirrorWorkspace(mirrorPath string) error {
	trimmedMirrorPath := strings.TrimSpace(mirrorPath)
	if len(trimmedMirrorPath) == 0 {
		return nil
	}
	return os.RemoveAll(trimmedMirrorPath)
}

// MirrorClone clones the source repository into mirrorPath as a bare mirror.
func (service *Service) MirrorClone(executionContext context.Context, sourceURL string, mirrorPath string) error {
	trimmedSourceURL := strings.TrimSpace(sourceURL)
	if len(trimmedSourceURL) == 0 {
		return CloneError{SourceURL: trimmedSourceURL, Cause: errors.New(sourceURLRequiredMessageConstant)}
	}
	trimmedMirrorPath := strings.TrimSpace(mirrorPath)
	if len(trimmedMirrorPath) == 0 {
		return CloneError{SourceURL: trimmedSourceURL, Cause: errors.New(mirrorPathRequiredMessageConstant)}
	}

	_, executionError := service.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:            []string{cloneSubcommandConstant, mirrorFlagConstant, trimmedSourceURL, trimmedMirrorPath},
		EnvironmentVariables: nonInteractiveEnvironment(),
	})
	if executionError != nil {
		return CloneError{SourceURL: execshell.RedactURLCredentials(trimmedSourceURL), Cause: executionError}
	}
	return nil
}

// MirrorPush pushes every ref held in mirrorPath to the destination repository.
func (service *Service) MirrorPush(executionContext context.Context, mirrorPath string, destinationURL string) error {
	trimmedMirrorPath := strings.TrimSpace(mirrorPath)
	redactedDestination := execshell.RedactURLCredentials(destinationURL)
	if len(trimmedMirrorPath) == 0 {
		return PushError{DestinationURL: redactedDestination, Cause: errors.New(mirrorPathRequiredMessageConstant)}
	}
	trimmedDestinationURL := strings.TrimSpace(destinationURL)
	if len(trimmedDestinationURL) == 0 {
		return PushError{DestinationURL: redactedDestination, Cause: errors.New(destinationURLRequiredMessageConstant)}
	}

	_, executionError := service.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:            []string{pushSubcommandConstant, mirrorFlagConstant, trimmedDestinationURL},
		WorkingDirectory:     trimmedMirrorPath,
		EnvironmentVariables: nonInteractiveEnvironment(),
	})
	if executionError != nil {
		return PushError{DestinationURL: redactedDestination, Cause: executionError}
	}
	return nil
}

// ProbeRemote checks whether the remote repository answers ls-remote queries.
func (service *Service) ProbeRemote(executionContext context.Context, remoteURL string) error {
	trimmedRemoteURL := strings.TrimSpace(remoteURL)
	redactedRemote := execshell.RedactURLCredentials(trimmedRemoteURL)
	if len(trimmedRemoteURL) == 0 {
		return ProbeError{RemoteURL: redactedRemote, Cause: errors.New(sourceURLRequiredMessageConstant)}
	}

	_, executionError := service.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:            []string{lsRemoteSubcommandConstant, trimmedRemoteURL},
		EnvironmentVariables: nonInteractiveEnvironment(),
	})
	if executionError != nil {
		return ProbeError{RemoteURL: redactedRemote, Cause: executionError}
	}
	return nil
}

func nonInteractiveEnvironment() map[string]string {
	return map[string]string{terminalPromptVariableNameConstant: terminalPromptDisabledValueConstant}
}
