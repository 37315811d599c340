package execshell

// CommandEventObserver receives lifecycle notifications for the git
// invocations issued during an import run. Observers see the raw command,
// including any credential-bearing push URL, and must redact before
// persisting anything.
type CommandEventObserver interface {
	// CommandStarted fires immediately before the command process is spawned.
	CommandStarted(command ShellCommand)
	// CommandCompleted fires once the process exited, regardless of exit code.
	CommandCompleted(command ShellCommand, result ExecutionResult)
	// CommandExecutionFailed fires when the process could not be started or
	// produced no execution result.
	CommandExecutionFailed(command ShellCommand, failure error)
}

// discardingCommandEventObserver is installed when no observer is registered.
type discardingCommandEventObserver struct{}

func (discardingCommandEventObserver) CommandStarted(ShellCommand) {}

func (discardingCommandEventObserver) CommandCompleted(ShellCommand, ExecutionResult) {}

func (discardingCommandEventObserver) CommandExecutionFailed(ShellCommand, error) {}
