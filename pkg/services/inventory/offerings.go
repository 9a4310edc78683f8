package inventory

import (
	"context"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/de-tools/account-scout/pkg/models/domain"
	"github.com/de-tools/account-scout/pkg/services/awscfg"
	"github.com/rs/zerolog"
)

// EC2API is the slice of the EC2 client the inventory explorer needs.
type EC2API interface {
	DescribeRegions(
		ctx context.Context,
		params *ec2.DescribeRegionsInput,
		optFns ...func(*ec2.Options),
	) (*ec2.DescribeRegionsOutput, error)
	DescribeInstanceTypeOfferings(
		ctx context.Context,
		params *ec2.DescribeInstanceTypeOfferingsInput,
		optFns ...func(*ec2.Options),
	) (*ec2.DescribeInstanceTypeOfferingsOutput, error)
}

// EC2Factory returns an EC2 client bound to the given region. Instance type
// offerings are a regional API, so each region is queried at its own
// endpoint.
type EC2Factory func(region string) EC2API

// Explorer lists the unique instance types offered in every region.
type Explorer struct {
	client   EC2API
	regional EC2Factory
}

func NewExplorer(client EC2API, regional EC2Factory) *Explorer {
	return &Explorer{
		client:   client,
		regional: regional,
	}
}

// ExplorerFactory builds an explorer backed by real EC2 clients for the
// given shared-config profile.
func ExplorerFactory(ctx context.Context, profile string) (*Explorer, error) {
	cfg, err := awscfg.Load(ctx, profile)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}

	client := ec2.NewFromConfig(*cfg)
	return NewExplorer(client, func(region string) EC2API {
		regional := cfg.Copy()
		regional.Region = region
		return ec2.NewFromConfig(regional)
	}), nil
}

// ListOfferings returns one row per (region, instance type), regions in
// enumeration order and instance types sorted within each region. A region
// whose offerings cannot be listed is logged and contributes no rows; the
// remaining regions are still processed.
func (e *Explorer) ListOfferings(ctx context.Context) ([]domain.InstanceTypeOffering, error) {
	logger := zerolog.Ctx(ctx)

	resp, err := e.client.DescribeRegions(ctx, &ec2.DescribeRegionsInput{})
	if err != nil {
		return nil, fmt.Errorf("failed to describe regions: %w", err)
	}

	var offerings []domain.InstanceTypeOffering
	for _, region := range resp.Regions {
		if region.RegionName == nil {
			continue
		}
		name := *region.RegionName
		logger.Info().Str("region", name).Msg("collecting instance type offerings")

		instanceTypes, err := e.regionOfferings(ctx, name)
		if err != nil {
			logger.Warn().Str("region", name).Err(err).Msg("skipping region")
			continue
		}
		for _, it := range instanceTypes {
			offerings = append(offerings, domain.InstanceTypeOffering{
				Region:       name,
				InstanceType: it,
			})
		}
	}

	return offerings, nil
}

func (e *Explorer) regionOfferings(ctx context.Context, region string) ([]string, error) {
	client := e.regional(region)

	seen := map[string]struct{}{}
	var nextToken *string
	for {
		page, err := client.DescribeInstanceTypeOfferings(ctx, &ec2.DescribeInstanceTypeOfferingsInput{
			LocationType: types.LocationTypeRegion,
			NextToken:    nextToken,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to describe instance type offerings: %w", err)
		}

		for _, offering := range page.InstanceTypeOfferings {
			seen[string(offering.InstanceType)] = struct{}{}
		}

		if page.NextToken == nil {
			break
		}
		nextToken = page.NextToken
	}

	instanceTypes := make([]string, 0, len(seen))
	for it := range seen {
		instanceTypes = append(instanceTypes, it)
	}
	sort.Strings(instanceTypes)
	return instanceTypes, nil
}
