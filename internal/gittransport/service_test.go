package gittransport_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/remit/internal/execshell"
	"github.com/temirov/remit/internal/gittransport"
)

const (
	testSourceURLConstant              = "https://gitlab.example.com/group/project.git"
	testMirrorPathConstant             = "/tmp/remit-mirror-test"
	testDestinationURLConstant         = "https://secret-token@github.com/octo-org/project.git"
	testRedactedDestinationConstant    = "https://github.com/octo-org/project.git"
	testCloneSucceedsCaseNameConstant  = "clone_invokes_mirror_arguments"
	testCloneFailsCaseNameConstant     = "clone_failure_wrapped"
	testPushSucceedsCaseNameConstant   = "push_invokes_mirror_arguments"
	testPushFailsCaseNameConstant      = "push_failure_redacts_destination"
	testProbeSucceedsCaseNameConstant  = "probe_invokes_ls_remote"
	testProbeFailsCaseNameConstant     = "probe_failure_wrapped"
	testPushURLBuiltCaseNameConstant   = "push_url_embeds_token"
	testPushURLMissingCaseNameConstant = "push_url_requires_token"
)

type recordingGitExecutor struct {
	recordedDetails []execshell.CommandDetails
	executionError  error
}

func (executor *recordingGitExecutor) ExecuteGit(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.recordedDetails = append(executor.recordedDetails, details)
	if executor.executionError != nil {
		return execshell.ExecutionResult{}, executor.executionError
	}
	return execshell.ExecutionResult{}, nil
}

func TestNewServiceRequiresExecutor(testInstance *testing.T) {
	service, creationError := gittransport.NewService(nil)
	require.ErrorIs(testInstance, creationError, gittransport.ErrExecutorNotConfigured)
	require.Nil(testInstance, service)
}

func TestServiceMirrorClone(testInstance *testing.T) {
	testCases := []struct {
		name           string
		executionError error
	}{
		{name: testCloneSucceedsCaseNameConstant},
		{name: testCloneFailsCaseNameConstant, executionError: errors.New("exit status 128")},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			executor := &recordingGitExecutor{executionError: testCase.executionError}
			service, creationError := gittransport.NewService(executor)
			require.NoError(testInstance, creationError)

			cloneError := service.MirrorClone(context.Background(), testSourceURLConstant, testMirrorPathConstant)

			require.Len(testInstance, executor.recordedDetails, 1)
			recordedDetails := executor.recordedDetails[0]
			require.Equal(testInstance, []string{"clone", "--mirror", testSourceURLConstant, testMirrorPathConstant}, recordedDetails.Arguments)
			require.Equal(testInstance, "0", recordedDetails.EnvironmentVariables["GIT_TERMINAL_PROMPT"])

			if testCase.executionError != nil {
				require.Error(testInstance, cloneError)
				require.IsType(testInstance, gittransport.CloneError{}, cloneError)
				require.ErrorIs(testInstance, cloneError, testCase.executionError)
			} else {
				require.NoError(testInstance, cloneError)
			}
		})
	}
}

func TestServiceMirrorPush(testInstance *testing.T) {
	testCases := []struct {
		name           string
		executionError error
	}{
		{name: testPushSucceedsCaseNameConstant},
		{name: testPushFailsCaseNameConstant, executionError: errors.New("exit status 1")},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			executor := &recordingGitExecutor{executionError: testCase.executionError}
			service, creationError := gittransport.NewService(executor)
			require.NoError(testInstance, creationError)

			pushError := service.MirrorPush(context.Background(), testMirrorPathConstant, testDestinationURLConstant)

			require.Len(testInstance, executor.recordedDetails, 1)
			recordedDetails := executor.recordedDetails[0]
			require.Equal(testInstance, []string{"push", "--mirror", testDestinationURLConstant}, recordedDetails.Arguments)
			require.Equal(testInstance, testMirrorPathConstant, recordedDetails.WorkingDirectory)
			require.Equal(testInstance, "0", recordedDetails.EnvironmentVariables["GIT_TERMINAL_PROMPT"])

			if testCase.executionError != nil {
				require.Error(testInstance, pushError)
				require.IsType(testInstance, gittransport.PushError{}, pushError)
				require.Contains(testInstance, pushError.Error(), testRedactedDestinationConstant)
				require.NotContains(testInstance, pushError.Error(), "secret-token")
			} else {
				require.NoError(testInstance, pushError)
			}
		})
	}
}

func TestServiceProbeRemote(testInstance *testing.T) {
	testCases := []struct {
		name           string
		executionError error
	}{
		{name: testProbeSucceedsCaseNameConstant},
		{name: testProbeFailsCaseNameConstant, executionError: errors.New("exit status 128")},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			executor := &recordingGitExecutor{executionError: testCase.executionError}
			service, creationError := gittransport.NewService(executor)
			require.NoError(testInstance, creationError)

			probeError := service.ProbeRemote(context.Background(), testSourceURLConstant)

			require.Len(testInstance, executor.recordedDetails, 1)
			require.Equal(testInstance, []string{"ls-remote", testSourceURLConstant}, executor.recordedDetails[0].Arguments)

			if testCase.executionError != nil {
				require.Error(testInstance, probeError)
				require.IsType(testInstance, gittransport.ProbeError{}, probeError)
			} else {
				require.NoError(testInstance, probeError)
			}
		})
	}
}

func TestBuildAuthenticatedPushURL(testInstance *testing.T) {
	testInstance.Run(testPushURLBuiltCaseNameConstant, func(testInstance *testing.T) {
		pushURL, buildError := gittransport.BuildAuthenticatedPushURL("secret-token", "octo-org", "project")
		require.NoError(testInstance, buildError)
		require.Equal(testInstance, "https://secret-token@github.com/octo-org/project.git", pushURL)
	})

	testInstance.Run(testPushURLMissingCaseNameConstant, func(testInstance *testing.T) {
		pushURL, buildError := gittransport.BuildAuthenticatedPushURL("   ", "octo-org", "project")
		require.Error(testInstance, buildError)
		require.Empty(testInstance, pushURL)
	})
}

func TestServiceMirrorWorkspaceLifecycle(testInstance *testing.T) {
	executor := &recordingGitExecutor{}
	service, creationError := gittransport.NewService(executor)
	require.NoError(testInstance, creationError)

	workspacePath, workspaceError := service.CreateMirrorWorkspace()
	require.NoError(testInstance, workspaceError)
	require.DirExists(testInstance, workspacePath)

	require.NoError(testInstance, service.RemoveMirrorWorkspace(workspacePath))
	require.NoDirExists(testInstance, workspacePath)

	require.NoError(testInstance, service.RemoveMirrorWorkspace("   "))
}
