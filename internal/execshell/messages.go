package execshell

import (
	"fmt"
	"net/url"
	"strings"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	commandLabelTemplateConstant            = "%s%s"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	commandArgumentsJoinSeparatorConstant   = " "
	standardErrorSuffixTemplateConstant     = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	emptyStringConstant                     = ""
	fallbackUnknownValueLabelConstant       = "unknown"
	httpSchemePrefixConstant                = "http://"
	httpsSchemePrefixConstant               = "https://"
)

const (
	gitCloneSubcommandNameConstant    = "clone"
	gitPushSubcommandNameConstant     = "push"
	gitLSRemoteSubcommandNameConstant = "ls-remote"
	gitMirrorFlagConstant             = "--mirror"
)

const (
	gitMirrorCloneStartTemplateConstant            = "Mirroring %s into %s"
	gitMirrorCloneSuccessTemplateConstant          = "Mirrored %s into %s"
	gitMirrorCloneFailureTemplateConstant          = "Failed to mirror %s into %s (exit code %d%s)"
	gitMirrorCloneExecutionFailureTemplateConstant = "Unable to mirror %s into %s: %s"
	gitMirrorPushStartTemplateConstant             = "Pushing all refs from %s to %s"
	gitMirrorPushSuccessTemplateConstant           = "Pushed all refs from %s to %s"
	gitMirrorPushFailureTemplateConstant           = "Failed to push refs from %s to %s (exit code %d%s)"
	gitMirrorPushExecutionFailureTemplateConstant  = "Unable to push refs from %s to %s: %s"
	gitLSRemoteStartTemplateConstant               = "Querying remote references on %s"
	gitLSRemoteSuccessTemplateConstant             = "Queried remote references on %s"
	gitLSRemoteFailureTemplateConstant             = "Failed to query remote references on %s (exit code %d%s)"
	gitLSRemoteExecutionFailureTemplateConstant    = "Unable to query remote references on %s: %s"
)

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
// URLs carrying embedded credentials are redacted before appearing in any message.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildSuccessMessage formats the message describing a completed command with a zero exit code.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageSuccess)
}

// BuildFailureMessage formats the message describing a command that returned a non-zero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildExecutionFailureMessage formats the message describing an unexpected execution failure.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, ExecutionResult{}, failure, messageStageExecutionFailure)
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	if command.Name == CommandGit && len(command.Details.Arguments) > 0 {
		subcommand := strings.TrimSpace(command.Details.Arguments[0])
		switch subcommand {
		case gitCloneSubcommandNameConstant:
			if containsArgument(command.Details.Arguments, gitMirrorFlagConstant) {
				return formatter.describeMirrorCloneMessage(command, result, failure, stage)
			}
		case gitPushSubcommandNameConstant:
			if containsArgument(command.Details.Arguments, gitMirrorFlagConstant) {
				return formatter.describeMirrorPushMessage(command, result, failure, stage)
			}
		case gitLSRemoteSubcommandNameConstant:
			return formatter.describeLSRemoteMessage(command, result, failure, stage)
		}
	}

	return formatter.buildGenericMessage(command, result, failure, stage)
}

func (formatter CommandMessageFormatter) describeMirrorCloneMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	sourceLabel := formatter.ensureValue(RedactURLCredentials(formatter.argumentAtIndex(arguments, len(arguments)-2)))
	destinationLabel := formatter.ensureValue(formatter.argumentAtIndex(arguments, len(arguments)-1))

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitMirrorCloneStartTemplateConstant, sourceLabel, destinationLabel)
	case messageStageSuccess:
		return fmt.Sprintf(gitMirrorCloneSuccessTemplateConstant, sourceLabel, destinationLabel)
	case messageStageFailure:
		return fmt.Sprintf(gitMirrorCloneFailureTemplateConstant, sourceLabel, destinationLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return fmt.Sprintf(gitMirrorCloneExecutionFailureTemplateConstant, sourceLabel, destinationLabel, formatter.describeFailure(failure))
	}
}

func (formatter CommandMessageFormatter) describeMirrorPushMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	destinationLabel := formatter.ensureValue(RedactURLCredentials(formatter.argumentAtIndex(command.Details.Arguments, len(command.Details.Arguments)-1)))
	localLabel := formatter.describeWorkingDirectory(command)

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitMirrorPushStartTemplateConstant, localLabel, destinationLabel)
	case messageStageSuccess:
		return fmt.Sprintf(gitMirrorPushSuccessTemplateConstant, localLabel, destinationLabel)
	case messageStageFailure:
		return fmt.Sprintf(gitMirrorPushFailureTemplateConstant, localLabel, destinationLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return fmt.Sprintf(gitMirrorPushExecutionFailureTemplateConstant, localLabel, destinationLabel, formatter.describeFailure(failure))
	}
}

func (formatter CommandMessageFormatter) describeLSRemoteMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	remoteLabel := formatter.ensureValue(RedactURLCredentials(formatter.argumentAtIndex(command.Details.Arguments, len(command.Details.Arguments)-1)))

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitLSRemoteStartTemplateConstant, remoteLabel)
	case messageStageSuccess:
		return fmt.Sprintf(gitLSRemoteSuccessTemplateConstant, remoteLabel)
	case messageStageFailure:
		return fmt.Sprintf(gitLSRemoteFailureTemplateConstant, remoteLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return fmt.Sprintf(gitLSRemoteExecutionFailureTemplateConstant, remoteLabel, formatter.describeFailure(failure))
	}
}

func (formatter CommandMessageFormatter) buildGenericMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	commandLabel := formatter.formatCommandLabel(command)

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(genericStartTemplateConstant, commandLabel)
	case messageStageSuccess:
		return fmt.Sprintf(genericSuccessTemplateConstant, commandLabel)
	case messageStageFailure:
		return fmt.Sprintf(genericFailureTemplateConstant, commandLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return fmt.Sprintf(genericExecutionFailureTemplateConstant, commandLabel, formatter.describeFailure(failure))
	}
}

func (formatter CommandMessageFormatter) formatCommandLabel(command ShellCommand) string {
	commandParts := []string{string(command.Name)}
	for _, argument := range command.Details.Arguments {
		commandParts = append(commandParts, RedactURLCredentials(argument))
	}
	commandLabel := strings.Join(commandParts, commandArgumentsJoinSeparatorConstant)

	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return commandLabel
	}
	return fmt.Sprintf(commandLabelTemplateConstant, commandLabel, fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory))
}

func (formatter CommandMessageFormatter) describeWorkingDirectory(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return fallbackUnknownValueLabelConstant
	}
	return trimmedWorkingDirectory
}

func (formatter CommandMessageFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}

func (formatter CommandMessageFormatter) describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}

func (formatter CommandMessageFormatter) argumentAtIndex(arguments []string, index int) string {
	if index < 0 || index >= len(arguments) {
		return emptyStringConstant
	}
	return strings.TrimSpace(arguments[index])
}

func (formatter CommandMessageFormatter) ensureValue(value string) string {
	if len(value) == 0 {
		return fallbackUnknownValueLabelConstant
	}
	return value
}

func containsArgument(arguments []string, expectedArgument string) bool {
	for _, argument := range arguments {
		if strings.TrimSpace(argument) == expectedArgument {
			return true
		}
	}
	return false
}

// RedactURLCredentials strips embedded userinfo from http(s) URLs so tokens never reach logs.
func RedactURLCredentials(candidate string) string {
	trimmedCandidate := strings.TrimSpace(candidate)
	if !strings.HasPrefix(trimmedCandidate, httpSchemePrefixConstant) && !strings.HasPrefix(trimmedCandidate, httpsSchemePrefixConstant) {
		return trimmedCandidate
	}

	parsedURL, parseError := url.Parse(trimmedCandidate)
	if parseError != nil || parsedURL.User == nil {
		return trimmedCandidate
	}

	parsedURL.User = nil
	return parsedURL.String()
}
