package utilization

import (
	"context"
	"fmt"

	"github.com/de-tools/account-scout/pkg/models/domain"
)

// GenerateReport runs the audit and shapes the results for the terminal
// reporter.
func (a *Analyzer) GenerateReport(ctx context.Context) *domain.Report {
	results := a.Run(ctx)
	end := a.now()

	report := &domain.Report{
		Title: "Resource Utilization Audit",
		Period: domain.TimePeriod{
			Start:    end.AddDate(0, 0, -a.settings.EC2LookbackDays),
			End:      end,
			Duration: a.settings.EC2LookbackDays,
		},
	}

	ec2Section := domain.ReportSection{
		Title: fmt.Sprintf("EC2 Instances with Low CPU Utilization (<%.0f%%)", a.settings.CPUThresholdPercent),
		Summary: map[string]interface{}{
			"instances_flagged": len(results.Instances),
		},
	}
	for _, instance := range results.Instances {
		ec2Section.Details = append(ec2Section.Details, domain.ReportDetail{
			Name:        instance.InstanceID,
			Value:       fmt.Sprintf("%.2f", instance.AverageCPU),
			Unit:        "% CPU",
			Description: fmt.Sprintf("%s (%s)", instance.Name, instance.InstanceType),
		})
	}
	report.Sections = append(report.Sections, ec2Section)

	rdsSection := domain.ReportSection{
		Title: fmt.Sprintf("Idle RDS Instances (no connections in %d days)", a.settings.RDSLookbackDays),
		Summary: map[string]interface{}{
			"databases_flagged": len(results.Databases),
		},
	}
	for _, db := range results.Databases {
		rdsSection.Details = append(rdsSection.Details, domain.ReportDetail{
			Name:        db.Identifier,
			Value:       db.Status,
			Description: fmt.Sprintf("%s on %s", db.Engine, db.InstanceClass),
		})
	}
	report.Sections = append(report.Sections, rdsSection)

	lambdaSection := domain.ReportSection{
		Title: fmt.Sprintf("Unused Lambda Functions (no invocations in %d days)", a.settings.LambdaLookbackDays),
		Summary: map[string]interface{}{
			"functions_flagged": len(results.Functions),
		},
	}
	for _, fn := range results.Functions {
		lambdaSection.Details = append(lambdaSection.Details, domain.ReportDetail{
			Name:        fn.Name,
			Value:       fn.Runtime,
			Description: fmt.Sprintf("last modified %s", fn.LastModified),
		})
	}
	report.Sections = append(report.Sections, lambdaSection)

	s3Section := domain.ReportSection{
		Title: "Unused S3 Buckets",
		Summary: map[string]interface{}{
			"buckets_flagged": len(results.Buckets),
		},
	}
	for _, bucket := range results.Buckets {
		s3Section.Details = append(s3Section.Details, domain.ReportDetail{
			Name:        bucket.Name,
			Value:       bucket.Reason,
			Description: fmt.Sprintf("created %s", bucket.CreationDate.Format("2006-01-02")),
		})
	}
	report.Sections = append(report.Sections, s3Section)

	return report
}
