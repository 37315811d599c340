package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/temirov/remit/internal/execshell"
	"github.com/temirov/remit/internal/githubapi"
	"github.com/temirov/remit/internal/githubauth"
	"github.com/temirov/remit/internal/gittransport"
	"github.com/temirov/remit/internal/manifest"
	"github.com/temirov/remit/internal/utils"
)

const (
	commandUseConstant              = "import"
	commandShortDescriptionConstant = "Import manifest projects into GitHub"
	commandLongDescriptionConstant  = "import reads a repo manifest, creates the listed repositories under the configured GitHub namespace, and mirrors every branch and tag from the source host."

	manifestFlagNameConstant  = "manifest"
	manifestFlagUsageConstant = "Path to the manifest XML file"
	ownerFlagNameConstant     = "owner"
	ownerFlagUsageConstant    = "Destination GitHub user or organization name"
	targetFlagNameConstant    = "target"
	targetFlagUsageConstant   = "Destination namespace kind (user or org)"
	prefixFlagNameConstant    = "prefix"
	prefixFlagUsageConstant   = "Prefix applied to every destination repository name"
	sourceURLFlagNameConstant = "source-url"
	sourceURLFlagUsageConst   = "Base URL of the source GitLab host"
	privateFlagNameConstant   = "private"
	privateFlagUsageConstant  = "Create destination repositories as private"
	delayFlagNameConstant     = "delay"
	delayFlagUsageConstant    = "Pause between consecutive projects"
	assumeYesFlagNameConstant = "assume-yes"
	assumeYesFlagUsageConst   = "Skip the confirmation prompt"

	manifestPathRequiredMessageConstant  = "manifest path must be provided"
	ownerRequiredMessageConstant         = "destination owner must be provided"
	sourceURLRequiredMessageConstant     = "source url must be provided"
	tokenMissingMessageConstant          = "no GitHub token found; set GITHUB_TOKEN"
	tokenPromptQuestionConstant          = "GitHub access token:"
	confirmationQuestionTemplateConstant = "Import %d project(s) into %s %q?"
	runDeclinedMessageConstant           = "Import declined"
	emptyManifestMessageConstant         = "Manifest contains no projects"
	failedProjectsTemplateConstant       = "%d project(s) failed to import"

	manifestParseErrorTemplateConstant    = "unable to read manifest: %w"
	githubClientCreationErrorTemplate     = "unable to construct GitHub client: %w"
	transferServiceCreationErrorTemplate  = "unable to construct git transfer service: %w"
	importServiceCreationErrorTemplate    = "unable to construct import service: %w"
	organizationMembershipWarningConstant = "Token does not list the target organization; creation may be rejected"
	organizationLookupFailureWarningConst = "Unable to verify organization membership"
	logFieldOwnerConstant                 = "owner"
	logFieldVisibleOrganizationsConstant  = "visible_organizations"
	confirmationFailureErrorTemplateConst = "confirmation prompt failed: %w"
	authenticatedLoginWarningMessageConst = "Unable to resolve authenticated login"
	logMessageAuthenticatedLoginConstant  = "Authenticated to GitHub"
	logFieldAuthenticatedLoginConstant    = "login"
	logMessageImportRunDeclinedConstant   = "Operator declined the import run"
	commandExecutionErrorTemplateConstant = "import run failed: %w"
)

type commandOptions struct {
	debugLoggingEnabled bool
	manifestPath        string
	target              githubapi.ImportTarget
	namePrefix          string
	sourceBaseURL       string
	private             bool
	interProjectDelay   time.Duration
	assumeYes           bool
	nameOverrides       map[string]string
}

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// TokenResolver locates the GitHub token for the run.
type TokenResolver func() (string, bool)

// RepositoryClientProvider constructs the destination API client for a token.
type RepositoryClientProvider func(token string) (RepositoryClient, error)

// MirrorTransferProvider constructs the git transfer collaborator.
type MirrorTransferProvider func(executor gittransport.GitExecutor) (MirrorTransfer, error)

// CommandBuilder assembles the import Cobra command.
type CommandBuilder struct {
	LoggerProvider           LoggerProvider
	ConfigurationProvider    func() CommandConfiguration
	TokenResolver            TokenResolver
	GitExecutor              gittransport.GitExecutor
	RepositoryClientProvider RepositoryClientProvider
	MirrorTransferProvider   MirrorTransferProvider
	Prompter                 ConfirmationPrompter
	TokenPrompter            SecretPrompter
	Sleeper                  SleepFunc
}

// Build constructs the import command.
func (builder *CommandBuilder) Build() *cobra.Command {
	command := &cobra.Command{
		Use:           commandUseConstant,
		Short:         commandShortDescriptionConstant,
		Long:          commandLongDescriptionConstant,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		RunE:          builder.runImport,
	}

	defaults := DefaultCommandConfiguration()
	command.Flags().String(manifestFlagNameConstant, defaults.ManifestPath, manifestFlagUsageConstant)
	command.Flags().String(ownerFlagNameConstant, defaults.OwnerName, ownerFlagUsageConstant)
	command.Flags().String(targetFlagNameConstant, defaults.OwnerKind, targetFlagUsageConstant)
	command.Flags().String(prefixFlagNameConstant, defaults.NamePrefix, prefixFlagUsageConstant)
	command.Flags().String(sourceURLFlagNameConstant, defaults.SourceBaseURL, sourceURLFlagUsageConst)
	command.Flags().Bool(privateFlagNameConstant, defaults.Private, privateFlagUsageConstant)
	command.Flags().Duration(delayFlagNameConstant, defaults.InterProjectDelay, delayFlagUsageConstant)
	command.Flags().Bool(assumeYesFlagNameConstant, defaults.AssumeYes, assumeYesFlagUsageConst)

	return command
}

func (builder *CommandBuilder) runImport(command *cobra.Command, arguments []string) error {
	options, optionsError := builder.parseOptions(command)
	if optionsError != nil {
		return optionsError
	}

	logger := builder.resolveLogger(options.debugLoggingEnabled)

	token, tokenError := builder.resolveRunToken()
	if tokenError != nil {
		return tokenError
	}

	repositoryClient, clientError := builder.resolveRepositoryClient(token)
	if clientError != nil {
		return fmt.Errorf(githubClientCreationErrorTemplate, clientError)
	}

	mirrorTransfer, transferError := builder.resolveMirrorTransfer(logger)
	if transferError != nil {
		return fmt.Errorf(transferServiceCreationErrorTemplate, transferError)
	}

	records, parseError := manifest.NewParser(options.sourceBaseURL).ParseFile(options.manifestPath)
	if parseError != nil {
		return fmt.Errorf(manifestParseErrorTemplateConstant, parseError)
	}

	outputWriter := command.OutOrStdout()
	renderer := NewSummaryRenderer(outputWriter)

	if len(records) == 0 {
		fmt.Fprintln(outputWriter, emptyManifestMessageConstant)
		return nil
	}

	builder.reportAuthenticatedIdentity(command.Context(), logger, repositoryClient, options.target)
	renderer.RenderPlan(options.target, records, options.namePrefix, options.nameOverrides)

	if !options.assumeYes {
		confirmed, confirmationError := builder.resolvePrompter().Confirm(
			fmt.Sprintf(confirmationQuestionTemplateConstant, len(records), options.target.Kind, options.target.OwnerName),
		)
		if confirmationError != nil {
			return fmt.Errorf(confirmationFailureErrorTemplateConst, confirmationError)
		}
		if !confirmed {
			logger.Info(logMessageImportRunDeclinedConstant)
			fmt.Fprintln(outputWriter, runDeclinedMessageConstant)
			return nil
		}
	}

	service, serviceError := NewService(ServiceDependencies{
		Logger:           logger,
		RepositoryClient: repositoryClient,
		MirrorTransfer:   mirrorTransfer,
		Sleeper:          builder.Sleeper,
	})
	if serviceError != nil {
		return fmt.Errorf(importServiceCreationErrorTemplate, serviceError)
	}

	summary, executionError := service.Execute(command.Context(), ImportOptions{
		Target:            options.target,
		Token:             token,
		Records:           records,
		NamePrefix:        options.namePrefix,
		NameOverrides:     options.nameOverrides,
		Private:           options.private,
		InterProjectDelay: options.interProjectDelay,
	})

	renderer.RenderSummary(summary)

	if executionError != nil {
		return fmt.Errorf(commandExecutionErrorTemplateConstant, executionError)
	}

	if summary.FailedCount() > 0 {
		failureErrors := make([]error, 0, summary.FailedCount())
		for _, result := range summary.Results {
			if result.Outcome == OutcomeFailed {
				failureErrors = append(failureErrors, result.Failure)
			}
		}
		return fmt.Errorf(commandExecutionErrorTemplateConstant, errors.Join(
			append([]error{fmt.Errorf(failedProjectsTemplateConstant, summary.FailedCount())}, failureErrors...)...,
		))
	}

	return nil
}

func (builder *CommandBuilder) parseOptions(command *cobra.Command) (commandOptions, error) {
	configuration := builder.resolveConfiguration()

	debugEnabled := configuration.EnableDebugLogging
	if command != nil {
		contextAccessor := utils.NewCommandContextAccessor()
		if logLevel, available := contextAccessor.LogLevel(command.Context()); available {
			if strings.EqualFold(logLevel, string(utils.LogLevelDebug)) {
				debugEnabled = true
			}
		}
	}

	manifestPath := configuration.ManifestPath
	ownerName := configuration.OwnerName
	ownerKindValue := configuration.OwnerKind
	namePrefix := configuration.NamePrefix
	sourceBaseURL := configuration.SourceBaseURL
	privateRepositories := configuration.Private
	interProjectDelay := configuration.InterProjectDelay
	assumeYes := configuration.AssumeYes

	if command != nil {
		flagSet := command.Flags()
		if flagSet.Changed(manifestFlagNameConstant) {
			manifestPath, _ = flagSet.GetString(manifestFlagNameConstant)
		}
		if flagSet.Changed(ownerFlagNameConstant) {
			ownerName, _ = flagSet.GetString(ownerFlagNameConstant)
		}
		if flagSet.Changed(targetFlagNameConstant) {
			ownerKindValue, _ = flagSet.GetString(targetFlagNameConstant)
		}
		if flagSet.Changed(prefixFlagNameConstant) {
			namePrefix, _ = flagSet.GetString(prefixFlagNameConstant)
		}
		if flagSet.Changed(sourceURLFlagNameConstant) {
			sourceBaseURL, _ = flagSet.GetString(sourceURLFlagNameConstant)
		}
		if flagSet.Changed(privateFlagNameConstant) {
			privateRepositories, _ = flagSet.GetBool(privateFlagNameConstant)
		}
		if flagSet.Changed(delayFlagNameConstant) {
			interProjectDelay, _ = flagSet.GetDuration(delayFlagNameConstant)
		}
		if flagSet.Changed(assumeYesFlagNameConstant) {
			assumeYes, _ = flagSet.GetBool(assumeYesFlagNameConstant)
		}
	}

	trimmedManifestPath := strings.TrimSpace(manifestPath)
	if len(trimmedManifestPath) == 0 {
		return commandOptions{}, errors.New(manifestPathRequiredMessageConstant)
	}
	trimmedOwnerName := strings.TrimSpace(ownerName)
	if len(trimmedOwnerName) == 0 {
		return commandOptions{}, errors.New(ownerRequiredMessageConstant)
	}
	trimmedSourceBaseURL := strings.TrimRight(strings.TrimSpace(sourceBaseURL), "/")
	if len(trimmedSourceBaseURL) == 0 {
		return commandOptions{}, errors.New(sourceURLRequiredMessageConstant)
	}

	ownerKind, ownerKindError := githubapi.ParseOwnerKind(ownerKindValue)
	if ownerKindError != nil {
		return commandOptions{}, ownerKindError
	}

	if interProjectDelay < 0 {
		interProjectDelay = DefaultCommandConfiguration().InterProjectDelay
	}

	return commandOptions{
		debugLoggingEnabled: debugEnabled,
		manifestPath:        trimmedManifestPath,
		target:              githubapi.ImportTarget{Kind: ownerKind, OwnerName: trimmedOwnerName},
		namePrefix:          strings.TrimSpace(namePrefix),
		sourceBaseURL:       trimmedSourceBaseURL,
		private:             privateRepositories,
		interProjectDelay:   interProjectDelay,
		assumeYes:           assumeYes,
		nameOverrides:       configuration.NameOverrides,
	}, nil
}

func (builder *CommandBuilder) reportAuthenticatedIdentity(executionContext context.Context, logger *zap.Logger, repositoryClient RepositoryClient, target githubapi.ImportTarget) {
	identityClient, supportsIdentity := repositoryClient.(interface {
		AuthenticatedLogin(executionContext context.Context) (string, error)
		ListOrganizationLogins(executionContext context.Context) ([]string, error)
	})
	if !supportsIdentity {
		return
	}

	authenticatedLogin, loginError := identityClient.AuthenticatedLogin(executionContext)
	if loginError != nil {
		logger.Warn(authenticatedLoginWarningMessageConst, zap.Error(loginError))
	} else {
		logger.Info(logMessageAuthenticatedLoginConstant, zap.String(logFieldAuthenticatedLoginConstant, authenticatedLogin))
	}

	if target.Kind != githubapi.OrganizationOwnerKind {
		return
	}

	organizationLogins, organizationsError := identityClient.ListOrganizationLogins(executionContext)
	if organizationsError != nil {
		logger.Warn(organizationLookupFailureWarningConst, zap.Error(organizationsError))
		return
	}

	for _, organizationLogin := range organizationLogins {
		if strings.EqualFold(organizationLogin, target.OwnerName) {
			return
		}
	}

	logger.Warn(
		organizationMembershipWarningConstant,
		zap.String(logFieldOwnerConstant, target.OwnerName),
		zap.Strings(logFieldVisibleOrganizationsConstant, organizationLogins),
	)
}

func (builder *CommandBuilder) resolveLogger(enableDebug bool) *zap.Logger {
	var logger *zap.Logger
	if builder.LoggerProvider != nil {
		logger = builder.LoggerProvider()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if enableDebug {
		logger = logger.WithOptions(zap.IncreaseLevel(zapcore.DebugLevel))
	}
	return logger
}

func (builder *CommandBuilder) resolveRunToken() (string, error) {
	tokenResolver := builder.TokenResolver
	if tokenResolver == nil {
		tokenResolver = func() (string, bool) { return githubauth.ResolveToken(nil) }
	}

	if resolvedToken, tokenFound := tokenResolver(); tokenFound {
		return resolvedToken, nil
	}

	tokenPrompter := builder.TokenPrompter
	if tokenPrompter == nil {
		tokenPrompter = NewSurveyPrompter()
	}

	promptedToken, promptError := tokenPrompter.PromptSecret(tokenPromptQuestionConstant)
	if promptError != nil {
		return "", errors.New(tokenMissingMessageConstant)
	}
	trimmedToken := strings.TrimSpace(promptedToken)
	if len(trimmedToken) == 0 {
		return "", errors.New(tokenMissingMessageConstant)
	}
	return trimmedToken, nil
}

func (builder *CommandBuilder) resolveRepositoryClient(token string) (RepositoryClient, error) {
	if builder.RepositoryClientProvider != nil {
		return builder.RepositoryClientProvider(token)
	}
	return githubapi.NewClient(githubapi.ClientConfiguration{Token: token})
}

func (builder *CommandBuilder) resolveMirrorTransfer(logger *zap.Logger) (MirrorTransfer, error) {
	executor := builder.GitExecutor
	if executor == nil {
		shellExecutor, executorError := execshell.NewShellExecutor(logger, execshell.NewOSCommandRunner())
		if executorError != nil {
			return nil, executorError
		}
		executor = shellExecutor
	}

	if builder.MirrorTransferProvider != nil {
		return builder.MirrorTransferProvider(executor)
	}
	return gittransport.NewService(executor)
}

func (builder *CommandBuilder) resolvePrompter() ConfirmationPrompter {
	if builder.Prompter != nil {
		return builder.Prompter
	}
	return NewSurveyPrompter()
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider().Sanitize()
}
