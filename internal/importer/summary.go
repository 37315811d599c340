package importer

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/temirov/remit/internal/githubapi"
	"github.com/temirov/remit/internal/manifest"
)

const (
	planHeaderTemplateConstant       = "Importing %d project(s) into %s %s:\n"
	planEntryTemplateConstant        = "  %s -> %s\n"
	summaryHeaderConstant            = "Import summary:\n"
	summaryCreatedTemplateConstant   = "  created: %d\n"
	summarySkippedTemplateConstant   = "  skipped: %d\n"
	summaryFailedTemplateConstant    = "  failed:  %d\n"
	summaryFailureEntryTemplate      = "  %s: %s\n"
	summaryFailureSectionHeaderConst = "Failures:\n"
)

// SummaryRenderer writes plan previews and run summaries for operators.
type SummaryRenderer struct {
	writer io.Writer
}

// NewSummaryRenderer constructs a renderer targeting the provided writer.
func NewSummaryRenderer(writer io.Writer) SummaryRenderer {
	return SummaryRenderer{writer: writer}
}

// RenderPlan lists the pending imports with their resolved destination names.
func (renderer SummaryRenderer) RenderPlan(target githubapi.ImportTarget, records []manifest.ProjectRecord, namePrefix string, nameOverrides map[string]string) {
	fmt.Fprintf(renderer.writer, planHeaderTemplateConstant, len(records), target.Kind, target.OwnerName)
	for _, record := range records {
		fmt.Fprintf(renderer.writer, planEntryTemplateConstant, record.FullName, ResolveRepositoryName(record, namePrefix, nameOverrides))
	}
}

// RenderSummary prints outcome counts and the failures that occurred.
func (renderer SummaryRenderer) RenderSummary(summary RunSummary) {
	fmt.Fprint(renderer.writer, summaryHeaderConstant)
	color.New(color.FgGreen).Fprintf(renderer.writer, summaryCreatedTemplateConstant, summary.CreatedCount())
	color.New(color.FgYellow).Fprintf(renderer.writer, summarySkippedTemplateConstant, summary.SkippedCount())
	color.New(color.FgRed).Fprintf(renderer.writer, summaryFailedTemplateConstant, summary.FailedCount())

	if summary.FailedCount() == 0 {
		return
	}

	fmt.Fprint(renderer.writer, summaryFailureSectionHeaderConst)
	for _, result := range summary.Results {
		if result.Outcome != OutcomeFailed {
			continue
		}
		color.New(color.FgRed).Fprintf(renderer.writer, summaryFailureEntryTemplate, result.Record.FullName, result.Failure)
	}
}
