// Package githubapi provides a typed client for the GitHub REST v3 endpoints
// used by the import pipeline.
//
// It exposes repository existence checks, repository creation, and account
// lookups, translating HTTP status codes into the error taxonomy the pipeline
// reacts to: authentication failures abort a run, rate limits trigger a single
// retry, conflicts mean the repository already exists.
package githubapi
