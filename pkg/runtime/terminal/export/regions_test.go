package export

import (
	"strings"
	"testing"

	"github.com/de-tools/account-scout/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sourceReport(name string, status domain.SourceStatus, regions ...string) domain.SourceReport {
	return domain.SourceReport{
		Name: name,
		Result: domain.SourceResult{
			Regions: domain.NewRegionSet(regions...),
			Status:  status,
		},
	}
}

func TestRegionsReporter_FullReport(t *testing.T) {
	var out strings.Builder
	reporter := NewRegionsReporter(&out)

	err := reporter.Handle(domain.AggregateReport{
		Regions: []string{"ap-south-1", "eu-west-1", "us-east-1"},
		Sources: []domain.SourceReport{
			sourceReport("Cost Explorer", domain.SourceStatus{Kind: domain.StatusOK}, "us-east-1", "eu-west-1"),
			sourceReport("Resource Explorer", domain.SourceStatus{Kind: domain.StatusOK}, "us-east-1", "ap-south-1"),
			sourceReport("AWS Config", domain.SourceStatus{Kind: domain.StatusOK}),
		},
	})
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "Permission Check Results:")
	assert.Contains(t, text, "Cost Explorer Status: Success")
	assert.Contains(t, text, "Resource Explorer Status: Success")
	assert.Contains(t, text, "AWS Config Status: Success")
	assert.Contains(t, text, "Total active regions found: 3")
	assert.Contains(t, text, "Regions from Cost Explorer: 2")
	assert.Contains(t, text, "Regions from Resource Explorer: 2")
	assert.Contains(t, text, "Regions from AWS Config: 0")

	// Region list is printed one per line, sorted.
	idxAp := strings.Index(text, "ap-south-1\n")
	idxEu := strings.Index(text, "eu-west-1\n")
	idxUs := strings.Index(text, "us-east-1\n")
	assert.True(t, idxAp >= 0 && idxAp < idxEu && idxEu < idxUs)
}

func TestRegionsReporter_EmptyAggregate(t *testing.T) {
	var out strings.Builder
	reporter := NewRegionsReporter(&out)

	err := reporter.Handle(domain.AggregateReport{
		Sources: []domain.SourceReport{
			sourceReport("Cost Explorer", domain.SourceStatus{
				Kind:    domain.StatusPermissionDenied,
				Code:    "AccessDeniedException",
				Message: "denied",
			}),
			sourceReport("Resource Explorer", domain.SourceStatus{
				Kind:    domain.StatusPrerequisiteMissing,
				Message: "No Resource Explorer indexes found. Please set up Resource Explorer first.",
			}),
			sourceReport("AWS Config", domain.SourceStatus{Kind: domain.StatusOK}),
		},
	})
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "No active regions found or insufficient permissions.")
	assert.Contains(t, text, "Cost Explorer Status: AccessDeniedException - denied")
	assert.Contains(t, text, "Resource Explorer Status: No Resource Explorer indexes found.")
	assert.Contains(t, text, "Total active regions found: 0")
}

func TestWriteInstanceTypeOfferings(t *testing.T) {
	var out strings.Builder
	err := WriteInstanceTypeOfferings(&out, []domain.InstanceTypeOffering{
		{Region: "us-east-1", InstanceType: "t3.micro"},
		{Region: "us-east-1", InstanceType: "m5.large"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Region,InstanceType\nus-east-1,t3.micro\nus-east-1,m5.large\n", out.String())
}

func TestWriteMFAStatuses(t *testing.T) {
	var out strings.Builder
	err := WriteMFAStatuses(&out, []domain.UserMFAStatus{
		{UserName: "alice", MFAEnabled: true},
		{UserName: "bob", MFAEnabled: false},
	})
	require.NoError(t, err)
	assert.Equal(t, "IAMUserName,MFAEnabled\nalice,true\nbob,false\n", out.String())
}
