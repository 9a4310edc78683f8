package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/de-tools/account-scout/pkg/models/domain"
	"github.com/de-tools/account-scout/pkg/runtime/terminal/export"
	"github.com/de-tools/account-scout/pkg/services/security"
	"github.com/de-tools/account-scout/pkg/services/utilization"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func NewAuditCmd(output io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Account hygiene and utilization audits",
	}

	cmd.AddCommand(newSecurityCmd(output))
	cmd.AddCommand(newUtilizationCmd(output))

	return cmd
}

type SecurityCmd struct {
	profile string
	outDir  string
	output  io.Writer
}

func newSecurityCmd(output io.Writer) *cobra.Command {
	sc := &SecurityCmd{output: output}
	cmd := &cobra.Command{
		Use:   "security",
		Short: "Audit IAM roles, MFA, security groups, and key pairs",
		RunE:  sc.run,
	}

	cmd.Flags().StringVar(&sc.profile, "profile", "", "AWS shared config profile to use")
	cmd.Flags().StringVar(&sc.outDir, "out-dir", ".", "Directory for the audit CSV files")

	return cmd
}

func (sc *SecurityCmd) run(cmd *cobra.Command, _ []string) error {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	auditor, err := security.AuditorFactory(ctx, sc.profile)
	if err != nil {
		return fmt.Errorf("failed to initialize AWS clients: %w", err)
	}

	timestamp := time.Now().Format("20060102_150405")

	// Each check fails open: one failing audit must not abort the others.
	sc.runCheck(ctx, fmt.Sprintf("iam_roles_audit_%s.csv", timestamp),
		func(w io.Writer) error {
			findings, err := auditor.CheckRolePolicies(ctx)
			if err != nil {
				return err
			}
			return export.WriteRolePolicyFindings(w, findings)
		})

	sc.runCheck(ctx, fmt.Sprintf("mfa_status_%s.csv", timestamp),
		func(w io.Writer) error {
			statuses, err := auditor.CheckMFAStatus(ctx)
			if err != nil {
				return err
			}
			return export.WriteMFAStatuses(w, statuses)
		})

	sc.runCheck(ctx, fmt.Sprintf("security_groups_audit_%s.csv", timestamp),
		func(w io.Writer) error {
			rules, err := auditor.CheckSecurityGroups(ctx)
			if err != nil {
				return err
			}
			return export.WriteOpenSecurityGroupRules(w, rules)
		})

	sc.runCheck(ctx, fmt.Sprintf("unused_key_pairs_%s.csv", timestamp),
		func(w io.Writer) error {
			usages, err := auditor.CheckKeyPairs(ctx)
			if err != nil {
				return err
			}
			return export.WriteKeyPairUsages(w, usages)
		})

	fmt.Fprintln(sc.output, "Audit complete. Please check the CSV files for detailed results.")
	return nil
}

func (sc *SecurityCmd) runCheck(ctx context.Context, fileName string, check func(io.Writer) error) {
	logger := zerolog.Ctx(ctx)
	path := filepath.Join(sc.outDir, fileName)

	f, err := os.Create(path)
	if err != nil {
		logger.Error().Str("file", path).Err(err).Msg("failed to create audit file")
		return
	}
	defer f.Close()

	if err := check(f); err != nil {
		logger.Error().Str("file", path).Err(err).Msg("audit check failed")
		return
	}
	fmt.Fprintf(sc.output, "Results saved to %s\n", path)
}

type UtilizationCmd struct {
	profile      string
	settingsPath string
	output       io.Writer
}

func newUtilizationCmd(output io.Writer) *cobra.Command {
	uc := &UtilizationCmd{output: output}
	cmd := &cobra.Command{
		Use:   "utilization",
		Short: "Report underutilized EC2, RDS, Lambda, and S3 resources",
		RunE:  uc.run,
	}

	cmd.Flags().StringVar(&uc.profile, "profile", "", "AWS shared config profile to use")
	cmd.Flags().StringVar(&uc.settingsPath, "settings", "", "Path to a thresholds settings file")

	return cmd
}

func (uc *UtilizationCmd) run(cmd *cobra.Command, _ []string) error {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	settings := utilization.DefaultSettings()
	if uc.settingsPath != "" {
		loaded, err := utilization.LoadSettings(uc.settingsPath)
		if err != nil {
			return fmt.Errorf("failed to load settings: %w", err)
		}
		settings = loaded
	}

	analyzer, err := utilization.AnalyzerFactory(ctx, uc.profile, settings)
	if err != nil {
		return fmt.Errorf("failed to initialize AWS clients: %w", err)
	}

	report := analyzer.GenerateReport(ctx)
	if err := export.NewReporter(uc.output).Handle(report); err != nil {
		return fmt.Errorf("failed to print report: %w", err)
	}

	uc.printSummary(report)
	return nil
}

func (uc *UtilizationCmd) printSummary(report *domain.Report) {
	fmt.Fprintln(uc.output, "Summary:")
	for _, section := range report.Sections {
		for key, value := range section.Summary {
			fmt.Fprintf(uc.output, "%s: %v\n", key, value)
		}
	}
}
