package regions

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/configservice"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/de-tools/account-scout/pkg/models/domain"
	"github.com/rs/zerolog"
)

// RegionLister enumerates every region known to the account.
type RegionLister interface {
	DescribeRegions(
		ctx context.Context,
		params *ec2.DescribeRegionsInput,
		optFns ...func(*ec2.Options),
	) (*ec2.DescribeRegionsOutput, error)
}

// ConfigServiceAPI is the slice of the AWS Config client the recorder
// source needs for a single region.
type ConfigServiceAPI interface {
	DescribeConfigurationRecorders(
		ctx context.Context,
		params *configservice.DescribeConfigurationRecordersInput,
		optFns ...func(*configservice.Options),
	) (*configservice.DescribeConfigurationRecordersOutput, error)
	GetDiscoveredResourceCounts(
		ctx context.Context,
		params *configservice.GetDiscoveredResourceCountsInput,
		optFns ...func(*configservice.Options),
	) (*configservice.GetDiscoveredResourceCountsOutput, error)
}

// ConfigServiceFactory returns a Config client bound to the given region.
type ConfigServiceFactory func(region string) ConfigServiceAPI

// RecorderSource reports a region active when an AWS Config recorder exists
// there and has discovered at least one resource.
//
// Region enumeration is a prerequisite: if it fails the whole source fails.
// A single region's own check failing must not abort the other regions, so
// per-region errors are logged and skipped.
type RecorderSource struct {
	regions  RegionLister
	recorder ConfigServiceFactory
}

func NewRecorderSource(regions RegionLister, recorder ConfigServiceFactory) *RecorderSource {
	return &RecorderSource{
		regions:  regions,
		recorder: recorder,
	}
}

func (s *RecorderSource) Name() string {
	return "AWS Config"
}

func (s *RecorderSource) Collect(ctx context.Context) domain.SourceResult {
	logger := zerolog.Ctx(ctx)

	resp, err := s.regions.DescribeRegions(ctx, &ec2.DescribeRegionsInput{})
	if err != nil {
		return domain.SourceResult{Regions: domain.RegionSet{}, Status: classify(err)}
	}

	active := domain.RegionSet{}
	for _, region := range resp.Regions {
		if region.RegionName == nil {
			continue
		}
		name := *region.RegionName
		client := s.recorder(name)

		recorders, err := client.DescribeConfigurationRecorders(
			ctx, &configservice.DescribeConfigurationRecordersInput{})
		if err != nil {
			s.skip(logger, name, err)
			continue
		}
		if len(recorders.ConfigurationRecorders) == 0 {
			continue
		}

		counts, err := client.GetDiscoveredResourceCounts(
			ctx, &configservice.GetDiscoveredResourceCountsInput{})
		if err != nil {
			s.skip(logger, name, err)
			continue
		}

		if counts.TotalDiscoveredResources > 0 {
			active.Add(name)
		}
	}

	return domain.SourceResult{Regions: active, Status: success()}
}

// skip logs a per-region failure and lets the loop move on. Access denials
// are expected in accounts where Config is not permitted everywhere, so
// they log at debug rather than warn.
func (s *RecorderSource) skip(logger *zerolog.Logger, region string, err error) {
	if isPermissionDenied(err) {
		logger.Debug().Str("region", region).Err(err).Msg("config recorder check not permitted")
		return
	}
	logger.Warn().Str("region", region).Err(err).Msg("skipping region")
}
