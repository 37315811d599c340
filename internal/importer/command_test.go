package importer_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/remit/internal/githubapi"
	"github.com/temirov/remit/internal/gittransport"
	"github.com/temirov/remit/internal/importer"
)

const (
	testManifestFileNameConstant       = "manifest.xml"
	testSourceBaseURLConstant          = "https://gitlab.example.com"
	testCommandManifestContentConstant = `<manifest>
  <remote name="origin" fetch="https://gitlab.example.com"/>
  <project path="alpha" name="group/alpha" remote="origin" revision="main"/>
</manifest>`
	testSuccessfulRunCaseNameConstant    = "successful_run_renders_summary"
	testDeclinedRunCaseNameConstant      = "declined_run_performs_no_work"
	testAssumeYesCaseNameConstant        = "assume_yes_skips_prompt"
	testFailedProjectCaseNameConstant    = "failed_project_returns_error"
	testMissingManifestCaseNameConstant  = "missing_manifest_flag_rejected"
	testMissingOwnerCaseNameConstant     = "missing_owner_flag_rejected"
	testMissingTokenCaseNameConstant     = "missing_token_rejected"
	testPromptedTokenCaseNameConstant    = "prompted_token_used"
	testInvalidOwnerKindCaseNameConstant = "invalid_owner_kind_rejected"
)

type stubPrompter struct {
	answer       bool
	promptCount  int
	lastQuestion string
}

func (prompter *stubPrompter) Confirm(question string) (bool, error) {
	prompter.promptCount++
	prompter.lastQuestion = question
	return prompter.answer, nil
}

type stubSecretPrompter struct {
	secretValue string
	promptCount int
}

func (prompter *stubSecretPrompter) PromptSecret(string) (string, error) {
	prompter.promptCount++
	return prompter.secretValue, nil
}

func writeCommandManifest(testInstance *testing.T) string {
	testInstance.Helper()
	manifestPath := filepath.Join(testInstance.TempDir(), testManifestFileNameConstant)
	require.NoError(testInstance, os.WriteFile(manifestPath, []byte(testCommandManifestContentConstant), 0o600))
	return manifestPath
}

func buildTestCommandBuilder(client *stubRepositoryClient, transfer *stubMirrorTransfer, prompter *stubPrompter, sleeper *recordingSleeper) *importer.CommandBuilder {
	return &importer.CommandBuilder{
		LoggerProvider:        func() *zap.Logger { return zap.NewNop() },
		ConfigurationProvider: importer.DefaultCommandConfiguration,
		TokenResolver:         func() (string, bool) { return testTokenConstant, true },
		RepositoryClientProvider: func(string) (importer.RepositoryClient, error) {
			return client, nil
		},
		MirrorTransferProvider: func(gittransport.GitExecutor) (importer.MirrorTransfer, error) {
			return transfer, nil
		},
		Prompter: prompter,
		Sleeper:  sleeper.Sleep,
	}
}

func executeImportCommand(testInstance *testing.T, builder *importer.CommandBuilder, arguments []string) (string, error) {
	testInstance.Helper()
	command := builder.Build()

	outputBuffer := &bytes.Buffer{}
	command.SetOut(outputBuffer)
	command.SetErr(outputBuffer)
	command.SetArgs(arguments)

	executionError := command.ExecuteContext(context.Background())
	return outputBuffer.String(), executionError
}

func defaultCommandArguments(manifestPath string) []string {
	return []string{
		"--manifest", manifestPath,
		"--owner", testOwnerNameConstant,
		"--target", "org",
		"--source-url", testSourceBaseURLConstant,
		"--delay", "0s",
	}
}

func TestImportCommand(testInstance *testing.T) {
	testInstance.Run(testSuccessfulRunCaseNameConstant, func(testInstance *testing.T) {
		client := newStubRepositoryClient()
		transfer := newStubMirrorTransfer()
		prompter := &stubPrompter{answer: true}
		builder := buildTestCommandBuilder(client, transfer, prompter, &recordingSleeper{})

		output, executionError := executeImportCommand(testInstance, builder, defaultCommandArguments(writeCommandManifest(testInstance)))

		require.NoError(testInstance, executionError)
		require.Equal(testInstance, 1, prompter.promptCount)
		require.Contains(testInstance, output, "group/alpha -> alpha")
		require.Contains(testInstance, output, "created: 1")
		require.Equal(testInstance, 1, transfer.pushCallCount)
	})

	testInstance.Run(testDeclinedRunCaseNameConstant, func(testInstance *testing.T) {
		client := newStubRepositoryClient()
		transfer := newStubMirrorTransfer()
		prompter := &stubPrompter{answer: false}
		builder := buildTestCommandBuilder(client, transfer, prompter, &recordingSleeper{})

		output, executionError := executeImportCommand(testInstance, builder, defaultCommandArguments(writeCommandManifest(testInstance)))

		require.NoError(testInstance, executionError)
		require.Contains(testInstance, output, "Import declined")
		require.Zero(testInstance, transfer.cloneCallCount)
		require.Empty(testInstance, client.creationCallCounts)
	})

	testInstance.Run(testAssumeYesCaseNameConstant, func(testInstance *testing.T) {
		client := newStubRepositoryClient()
		transfer := newStubMirrorTransfer()
		prompter := &stubPrompter{answer: false}
		builder := buildTestCommandBuilder(client, transfer, prompter, &recordingSleeper{})

		arguments := append(defaultCommandArguments(writeCommandManifest(testInstance)), "--assume-yes")
		_, executionError := executeImportCommand(testInstance, builder, arguments)

		require.NoError(testInstance, executionError)
		require.Zero(testInstance, prompter.promptCount)
		require.Equal(testInstance, 1, transfer.pushCallCount)
	})

	testInstance.Run(testFailedProjectCaseNameConstant, func(testInstance *testing.T) {
		client := newStubRepositoryClient()
		client.existenceErrors["alpha"] = githubapi.UnexpectedStatusError{StatusCode: 500}
		transfer := newStubMirrorTransfer()
		prompter := &stubPrompter{answer: true}
		builder := buildTestCommandBuilder(client, transfer, prompter, &recordingSleeper{})

		output, executionError := executeImportCommand(testInstance, builder, defaultCommandArguments(writeCommandManifest(testInstance)))

		require.Error(testInstance, executionError)
		require.Contains(testInstance, executionError.Error(), "1 project(s) failed to import")
		require.Contains(testInstance, output, "failed:  1")
	})

	testInstance.Run(testMissingManifestCaseNameConstant, func(testInstance *testing.T) {
		builder := buildTestCommandBuilder(newStubRepositoryClient(), newStubMirrorTransfer(), &stubPrompter{}, &recordingSleeper{})

		_, executionError := executeImportCommand(testInstance, builder, []string{
			"--owner", testOwnerNameConstant,
			"--source-url", testSourceBaseURLConstant,
		})

		require.Error(testInstance, executionError)
		require.Contains(testInstance, executionError.Error(), "manifest path must be provided")
	})

	testInstance.Run(testMissingOwnerCaseNameConstant, func(testInstance *testing.T) {
		builder := buildTestCommandBuilder(newStubRepositoryClient(), newStubMirrorTransfer(), &stubPrompter{}, &recordingSleeper{})

		_, executionError := executeImportCommand(testInstance, builder, []string{
			"--manifest", writeCommandManifest(testInstance),
			"--source-url", testSourceBaseURLConstant,
		})

		require.Error(testInstance, executionError)
		require.Contains(testInstance, executionError.Error(), "destination owner must be provided")
	})

	testInstance.Run(testMissingTokenCaseNameConstant, func(testInstance *testing.T) {
		builder := buildTestCommandBuilder(newStubRepositoryClient(), newStubMirrorTransfer(), &stubPrompter{}, &recordingSleeper{})
		builder.TokenResolver = func() (string, bool) { return "", false }
		builder.TokenPrompter = &stubSecretPrompter{secretValue: "   "}

		_, executionError := executeImportCommand(testInstance, builder, defaultCommandArguments(writeCommandManifest(testInstance)))

		require.Error(testInstance, executionError)
		require.Contains(testInstance, executionError.Error(), "no GitHub token found")
	})

	testInstance.Run(testPromptedTokenCaseNameConstant, func(testInstance *testing.T) {
		client := newStubRepositoryClient()
		transfer := newStubMirrorTransfer()
		builder := buildTestCommandBuilder(client, transfer, &stubPrompter{answer: true}, &recordingSleeper{})
		builder.TokenResolver = func() (string, bool) { return "", false }
		tokenPrompter := &stubSecretPrompter{secretValue: testTokenConstant}
		builder.TokenPrompter = tokenPrompter

		_, executionError := executeImportCommand(testInstance, builder, defaultCommandArguments(writeCommandManifest(testInstance)))

		require.NoError(testInstance, executionError)
		require.Equal(testInstance, 1, tokenPrompter.promptCount)
		require.Equal(testInstance, 1, transfer.pushCallCount)
	})

	testInstance.Run(testInvalidOwnerKindCaseNameConstant, func(testInstance *testing.T) {
		builder := buildTestCommandBuilder(newStubRepositoryClient(), newStubMirrorTransfer(), &stubPrompter{}, &recordingSleeper{})

		arguments := append(defaultCommandArguments(writeCommandManifest(testInstance)), "--target", "team")
		_, executionError := executeImportCommand(testInstance, builder, arguments)

		require.Error(testInstance, executionError)
		require.Contains(testInstance, executionError.Error(), "not supported")
	})
}

func TestCommandConfigurationSanitize(testInstance *testing.T) {
	configuration := importer.CommandConfiguration{
		ManifestPath:  "  manifest.xml  ",
		OwnerName:     " octo-org ",
		OwnerKind:     "",
		SourceBaseURL: "https://gitlab.example.com/",
		NameOverrides: map[string]string{
			" group/alpha ": " renamed ",
			"group/blank":   "   ",
		},
		InterProjectDelay: -1,
	}

	sanitized := configuration.Sanitize()

	require.Equal(testInstance, "manifest.xml", sanitized.ManifestPath)
	require.Equal(testInstance, "octo-org", sanitized.OwnerName)
	require.Equal(testInstance, "user", sanitized.OwnerKind)
	require.Equal(testInstance, "https://gitlab.example.com", sanitized.SourceBaseURL)
	require.Equal(testInstance, map[string]string{"group/alpha": "renamed"}, sanitized.NameOverrides)
	require.Equal(testInstance, importer.DefaultCommandConfiguration().InterProjectDelay, sanitized.InterProjectDelay)
}
