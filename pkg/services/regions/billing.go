package regions

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer/types"
	"github.com/de-tools/account-scout/pkg/models/domain"
)

const billingLookbackDays = 30

// CostExplorerAPI is the slice of the Cost Explorer client the billing
// source needs.
type CostExplorerAPI interface {
	GetCostAndUsage(
		ctx context.Context,
		params *costexplorer.GetCostAndUsageInput,
		optFns ...func(*costexplorer.Options),
	) (*costexplorer.GetCostAndUsageOutput, error)
}

// BillingSource reports a region active when it accrued any nonzero cost
// over the trailing 30 days.
type BillingSource struct {
	client CostExplorerAPI
	now    func() time.Time
}

func NewBillingSource(client CostExplorerAPI) *BillingSource {
	return &BillingSource{
		client: client,
		now:    time.Now,
	}
}

func (s *BillingSource) Name() string {
	return "Cost Explorer"
}

func (s *BillingSource) Collect(ctx context.Context) domain.SourceResult {
	end := s.now()
	start := end.AddDate(0, 0, -billingLookbackDays)

	input := &costexplorer.GetCostAndUsageInput{
		TimePeriod: &types.DateInterval{
			Start: aws.String(start.Format("2006-01-02")),
			End:   aws.String(end.Format("2006-01-02")),
		},
		Granularity: types.GranularityMonthly,
		Metrics:     []string{"UnblendedCost"},
		GroupBy: []types.GroupDefinition{
			{
				Type: types.GroupDefinitionTypeDimension,
				Key:  aws.String("REGION"),
			},
		},
	}

	result, err := s.client.GetCostAndUsage(ctx, input)
	if err != nil {
		return domain.SourceResult{Regions: domain.RegionSet{}, Status: classify(err)}
	}

	active := domain.RegionSet{}
	for _, resultByTime := range result.ResultsByTime {
		for _, group := range resultByTime.Groups {
			if len(group.Keys) == 0 {
				continue
			}
			metric, ok := group.Metrics["UnblendedCost"]
			if !ok || metric.Amount == nil {
				continue
			}
			amount, err := strconv.ParseFloat(*metric.Amount, 64)
			if err != nil {
				return domain.SourceResult{
					Regions: domain.RegionSet{},
					Status: domain.SourceStatus{
						Kind:    domain.StatusUnknown,
						Message: fmt.Sprintf("malformed cost amount %q: %v", *metric.Amount, err),
					},
				}
			}
			// A zero-amount line item does not make a region active.
			if amount > 0 {
				active.Add(group.Keys[0])
			}
		}
	}

	return domain.SourceResult{Regions: active, Status: success()}
}
