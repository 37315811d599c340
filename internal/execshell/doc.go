// Package execshell provides structured helpers for invoking the git binary.
//
// It wraps os/exec behind the CommandRunner abstraction, exposes
// OSCommandRunner for default process execution, and layers ShellExecutor on
// top so mirror clone and push operations are logged consistently and can be
// substituted with recordings during testing.
package execshell
