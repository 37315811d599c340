package importer

import (
	"strings"
	"time"

	"github.com/temirov/remit/internal/githubapi"
	"github.com/temirov/remit/internal/manifest"
)

const (
	outcomeCreatedValueConstant = "created"
	outcomeSkippedValueConstant = "skipped"
	outcomeFailedValueConstant  = "failed"
)

// Outcome classifies what happened to one manifest project during a run.
type Outcome string

// Outcome values recorded per project.
const (
	OutcomeCreated Outcome = Outcome(outcomeCreatedValueConstant)
	OutcomeSkipped Outcome = Outcome(outcomeSkippedValueConstant)
	OutcomeFailed  Outcome = Outcome(outcomeFailedValueConstant)
)

// ProjectResult captures the outcome of one manifest project.
type ProjectResult struct {
	Record         manifest.ProjectRecord
	RepositoryName string
	Outcome        Outcome
	Failure        error
}

// RunSummary aggregates per-project results in document order.
type RunSummary struct {
	Results []ProjectResult
}

// CreatedCount reports how many projects were imported.
func (summary RunSummary) CreatedCount() int {
	return summary.countOutcome(OutcomeCreated)
}

// SkippedCount reports how many projects already existed at the destination.
func (summary RunSummary) SkippedCount() int {
	return summary.countOutcome(OutcomeSkipped)
}

// FailedCount reports how many projects could not be imported.
func (summary RunSummary) FailedCount() int {
	return summary.countOutcome(OutcomeFailed)
}

func (summary RunSummary) countOutcome(outcome Outcome) int {
	matchingCount := 0
	for _, result := range summary.Results {
		if result.Outcome == outcome {
			matchingCount++
		}
	}
	return matchingCount
}

// ImportOptions describes one import run.
type ImportOptions struct {
	Target            githubapi.ImportTarget
	Token             string
	Records           []manifest.ProjectRecord
	NamePrefix        string
	NameOverrides     map[string]string
	Private           bool
	InterProjectDelay time.Duration
}

// ResolveRepositoryName derives the destination repository name for a record.
// An override keyed by the record's full name wins over the derived short
// name; the configured prefix is applied to either.
func ResolveRepositoryName(record manifest.ProjectRecord, namePrefix string, nameOverrides map[string]string) string {
	baseName := record.ShortName()
	if overrideName, overrideExists := nameOverrides[record.FullName]; overrideExists {
		trimmedOverrideName := strings.TrimSpace(overrideName)
		if len(trimmedOverrideName) > 0 {
			baseName = trimmedOverrideName
		}
	}
	return strings.TrimSpace(namePrefix) + baseName
}
