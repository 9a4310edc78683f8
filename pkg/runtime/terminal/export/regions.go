package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/de-tools/account-scout/pkg/models/domain"
)

// RegionsReporter prints the active-regions reconciliation in the fixed
// operator-facing layout: per-source statuses, the sorted region list, and
// a per-source summary.
type RegionsReporter struct {
	writer io.Writer
}

func NewRegionsReporter(writer io.Writer) *RegionsReporter {
	return &RegionsReporter{writer: writer}
}

func (r *RegionsReporter) Handle(report domain.AggregateReport) error {
	var b strings.Builder

	b.WriteString("Permission Check Results:\n")
	b.WriteString(strings.Repeat("-", 50) + "\n")
	for _, src := range report.Sources {
		fmt.Fprintf(&b, "%s Status: %s\n", src.Name, src.Result.Status)
	}

	b.WriteString("\nRegions with active resources or billing:\n")
	b.WriteString(strings.Repeat("-", 50) + "\n")
	if len(report.Regions) == 0 {
		b.WriteString("No active regions found or insufficient permissions.\n")
	} else {
		for _, region := range report.Regions {
			b.WriteString(region + "\n")
		}
	}

	b.WriteString("\nSummary:\n")
	fmt.Fprintf(&b, "Total active regions found: %d\n", report.Total())
	for _, src := range report.Sources {
		fmt.Fprintf(&b, "Regions from %s: %d\n", src.Name, len(src.Result.Regions))
	}

	_, err := io.WriteString(r.writer, b.String())
	return err
}
