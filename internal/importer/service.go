package importer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/temirov/remit/internal/githubapi"
	"github.com/temirov/remit/internal/gittransport"
	"github.com/temirov/remit/internal/manifest"
)

const (
	repositoryClientNotConfiguredMessageConstant = "repository client not configured"
	mirrorTransferNotConfiguredMessageConstant   = "mirror transfer not configured"
	runAbortedTemplateConstant                   = "import run aborted: %w"
	repositoryDescriptionTemplateConstant        = "Imported from %s"
	existenceCheckErrorTemplateConstant          = "existence check for %s failed: %w"
	creationErrorTemplateConstant                = "creation of %s failed: %w"
	workspaceErrorTemplateConstant               = "mirror workspace for %s could not be provisioned: %w"
	sourceUnreachableTemplateConstant            = "source for %s is unreachable: %w"
	logMessageRepositorySkippedConstant          = "Repository already present, skipping"
	logMessageRepositoryImportedConstant         = "Repository imported"
	logMessageProjectFailedConstant              = "Project import failed"
	logMessageRateLimitRetryConstant             = "Rate limited, retrying after delay"
	logMessageWorkspaceCleanupFailedConstant     = "Mirror workspace cleanup failed"
	logFieldProjectConstant                      = "project"
	logFieldRepositoryConstant                   = "repository"
	logFieldWorkspaceConstant                    = "workspace"
	logFieldDelayConstant                        = "delay"
)

// RepositoryClient covers the destination API operations the pipeline needs.
type RepositoryClient interface {
	RepositoryExists(executionContext context.Context, target githubapi.ImportTarget, repositoryName string) (bool, error)
	CreateRepository(executionContext context.Context, target githubapi.ImportTarget, request githubapi.CreateRepositoryRequest) (githubapi.RepositoryHandle, error)
}

// MirrorTransfer covers the git transfer operations the pipeline needs.
type MirrorTransfer interface {
	ProbeRemote(executionContext context.Context, remoteURL string) error
	CreateMirrorWorkspace() (string, error)
	MirrorClone(executionContext context.Context, sourceURL string, mirrorPath string) error
	MirrorPush(executionContext context.Context, mirrorPath string, destinationURL string) error
	RemoveMirrorWorkspace(mirrorPath string) error
}

// SleepFunc pauses the pipeline between projects and before rate limit retries.
type SleepFunc func(pause time.Duration)

// ServiceDependencies carries the collaborators required to run imports.
type ServiceDependencies struct {
	Logger           *zap.Logger
	RepositoryClient RepositoryClient
	MirrorTransfer   MirrorTransfer
	Sleeper          SleepFunc
}

// Service executes import runs.
type Service struct {
	logger           *zap.Logger
	repositoryClient RepositoryClient
	mirrorTransfer   MirrorTransfer
	sleeper          SleepFunc
}

// NewService constructs a Service after validating dependencies.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	if dependencies.RepositoryClient == nil {
		return nil, errors.New(repositoryClientNotConfiguredMessageConstant)
	}
	if dependencies.MirrorTransfer == nil {
		return nil, errors.New(mirrorTransferNotConfiguredMessageConstant)
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	sleeper := dependencies.Sleeper
	if sleeper == nil {
		sleeper = time.Sleep
	}

	return &Service{
		logger:           logger,
		repositoryClient: dependencies.RepositoryClient,
		mirrorTransfer:   dependencies.MirrorTransfer,
		sleeper:          sleeper,
	}, nil
}

// Execute imports every record in document order and reports the aggregated
// summary. An authentication failure or context cancellation aborts the run;
// the returned summary still covers the records processed up to that point.
func (service *Service) Execute(executionContext context.Context, options ImportOptions) (RunSummary, error) {
	summary := RunSummary{}

	for recordIndex, record := range options.Records {
		if contextError := executionContext.Err(); contextError != nil {
			return summary, contextError
		}

		result := service.importProject(executionContext, options, record)
		summary.Results = append(summary.Results, result)

		if result.Outcome == OutcomeFailed {
			var authenticationError githubapi.AuthenticationError
			if errors.As(result.Failure, &authenticationError) {
				return summary, fmt.Errorf(runAbortedTemplateConstant, result.Failure)
			}
		}

		if recordIndex < len(options.Records)-1 && options.InterProjectDelay > 0 {
			service.sleeper(options.InterProjectDelay)
		}
	}

	return summary, nil
}

func (service *Service) importProject(executionContext context.Context, options ImportOptions, record manifest.ProjectRecord) ProjectResult {
	repositoryName := ResolveRepositoryName(record, options.NamePrefix, options.NameOverrides)
	result := ProjectResult{Record: record, RepositoryName: repositoryName}

	repositoryExists, existenceError := service.checkRepositoryExists(executionContext, options, repositoryName)
	if existenceError != nil {
		return service.failProject(result, fmt.Errorf(existenceCheckErrorTemplateConstant, repositoryName, existenceError))
	}
	if repositoryExists {
		service.logger.Info(
			logMessageRepositorySkippedConstant,
			zap.String(logFieldProjectConstant, record.FullName),
			zap.String(logFieldRepositoryConstant, repositoryName),
		)
		result.Outcome = OutcomeSkipped
		return result
	}

	if probeError := service.mirrorTransfer.ProbeRemote(executionContext, record.SourceCloneURL); probeError != nil {
		return service.failProject(result, fmt.Errorf(sourceUnreachableTemplateConstant, record.FullName, probeError))
	}

	creationError := service.createRepository(executionContext, options, record, repositoryName)
	if creationError != nil {
		var conflictError githubapi.ConflictError
		if errors.As(creationError, &conflictError) {
			service.logger.Info(
				logMessageRepositorySkippedConstant,
				zap.String(logFieldProjectConstant, record.FullName),
				zap.String(logFieldRepositoryConstant, repositoryName),
			)
			result.Outcome = OutcomeSkipped
			return result
		}
		return service.failProject(result, fmt.Errorf(creationErrorTemplateConstant, repositoryName, creationError))
	}

	transferError := service.transferHistory(executionContext, options, record, repositoryName)
	if transferError != nil {
		return service.failProject(result, transferError)
	}

	service.logger.Info(
		logMessageRepositoryImportedConstant,
		zap.String(logFieldProjectConstant, record.FullName),
		zap.String(logFieldRepositoryConstant, repositoryName),
	)
	result.Outcome = OutcomeCreated
	return result
}

func (service *Service) checkRepositoryExists(executionContext context.Context, options ImportOptions, repositoryName string) (bool, error) {
	repositoryExists, existenceError := service.repositoryClient.RepositoryExists(executionContext, options.Target, repositoryName)
	if existenceError == nil {
		return repositoryExists, nil
	}

	var rateLimitError githubapi.RateLimitError
	if !errors.As(existenceError, &rateLimitError) {
		return false, existenceError
	}

	service.pauseBeforeRetry(options, repositoryName)
	return service.repositoryClient.RepositoryExists(executionContext, options.Target, repositoryName)
}

func (service *Service) createRepository(executionContext context.Context, options ImportOptions, record manifest.ProjectRecord, repositoryName string) error {
	creationRequest := githubapi.CreateRepositoryRequest{
		Name:        repositoryName,
		Description: fmt.Sprintf(repositoryDescriptionTemplateConstant, record.FullName),
		Private:     options.Private,
	}

	_, creationError := service.repositoryClient.CreateRepository(executionContext, options.Target, creationRequest)
	if creationError == nil {
		return nil
	}

	var rateLimitError githubapi.RateLimitError
	if !errors.As(creationError, &rateLimitError) {
		return creationError
	}

	service.pauseBeforeRetry(options, repositoryName)
	_, retryError := service.repositoryClient.CreateRepository(executionContext, options.Target, creationRequest)
	return retryError
}

func (service *Service) transferHistory(executionContext context.Context, options ImportOptions, record manifest.ProjectRecord, repositoryName string) error {
	mirrorPath, workspaceError := service.mirrorTransfer.CreateMirrorWorkspace()
	if workspaceError != nil {
		return fmt.Errorf(workspaceErrorTemplateConstant, repositoryName, workspaceError)
	}
	defer service.removeWorkspace(mirrorPath)

	if cloneError := service.mirrorTransfer.MirrorClone(executionContext, record.SourceCloneURL, mirrorPath); cloneError != nil {
		return cloneError
	}

	destinationURL, buildError := gittransport.BuildAuthenticatedPushURL(options.Token, options.Target.OwnerName, repositoryName)
	if buildError != nil {
		return buildError
	}

	return service.mirrorTransfer.MirrorPush(executionContext, mirrorPath, destinationURL)
}

func (service *Service) removeWorkspace(mirrorPath string) {
	if removalError := service.mirrorTransfer.RemoveMirrorWorkspace(mirrorPath); removalError != nil {
		service.logger.Warn(
			logMessageWorkspaceCleanupFailedConstant,
			zap.String(logFieldWorkspaceConstant, mirrorPath),
			zap.Error(removalError),
		)
	}
}

func (service *Service) pauseBeforeRetry(options ImportOptions, repositoryName string) {
	service.logger.Warn(
		logMessageRateLimitRetryConstant,
		zap.String(logFieldRepositoryConstant, repositoryName),
		zap.Duration(logFieldDelayConstant, options.InterProjectDelay),
	)
	if options.InterProjectDelay > 0 {
		service.sleeper(options.InterProjectDelay)
	}
}

func (service *Service) failProject(result ProjectResult, failure error) ProjectResult {
	service.logger.Warn(
		logMessageProjectFailedConstant,
		zap.String(logFieldProjectConstant, result.Record.FullName),
		zap.String(logFieldRepositoryConstant, result.RepositoryName),
		zap.Error(failure),
	)
	result.Outcome = OutcomeFailed
	result.Failure = failure
	return result
}
