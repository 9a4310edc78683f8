package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/de-tools/account-scout/pkg/models/domain"
)

// writeCSV writes a header plus rows and flushes, wrapping any writer error.
func writeCSV(w io.Writer, header []string, rows [][]string) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func WriteInstanceTypeOfferings(w io.Writer, offerings []domain.InstanceTypeOffering) error {
	rows := make([][]string, 0, len(offerings))
	for _, o := range offerings {
		rows = append(rows, []string{o.Region, o.InstanceType})
	}
	return writeCSV(w, []string{"Region", "InstanceType"}, rows)
}

func WriteRolePolicyFindings(w io.Writer, findings []domain.RolePolicyFinding) error {
	rows := make([][]string, 0, len(findings))
	for _, f := range findings {
		rows = append(rows, []string{f.RoleName, f.PolicyName})
	}
	return writeCSV(w, []string{"IAMRoleName", "PolicyName"}, rows)
}

func WriteMFAStatuses(w io.Writer, statuses []domain.UserMFAStatus) error {
	rows := make([][]string, 0, len(statuses))
	for _, s := range statuses {
		rows = append(rows, []string{s.UserName, strconv.FormatBool(s.MFAEnabled)})
	}
	return writeCSV(w, []string{"IAMUserName", "MFAEnabled"}, rows)
}

func WriteOpenSecurityGroupRules(w io.Writer, rules []domain.OpenSecurityGroupRule) error {
	rows := make([][]string, 0, len(rules))
	for _, r := range rules {
		rows = append(rows, []string{r.GroupName, r.PortRange, r.AllowedIP})
	}
	return writeCSV(w, []string{"SGName", "Port", "AllowedIP"}, rows)
}

func WriteKeyPairUsages(w io.Writer, usages []domain.KeyPairUsage) error {
	rows := make([][]string, 0, len(usages))
	for _, u := range usages {
		rows = append(rows, []string{u.KeyName, strconv.FormatBool(u.InUse)})
	}
	return writeCSV(w, []string{"KeyPairName", "InUse"}, rows)
}
