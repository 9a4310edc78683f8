package regions

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/resourceexplorer2"
	"github.com/de-tools/account-scout/pkg/models/domain"
)

const searchPageSize = 1000

// ResourceExplorerAPI is the slice of the Resource Explorer client the
// index source needs.
type ResourceExplorerAPI interface {
	ListIndexes(
		ctx context.Context,
		params *resourceexplorer2.ListIndexesInput,
		optFns ...func(*resourceexplorer2.Options),
	) (*resourceexplorer2.ListIndexesOutput, error)
	Search(
		ctx context.Context,
		params *resourceexplorer2.SearchInput,
		optFns ...func(*resourceexplorer2.Options),
	) (*resourceexplorer2.SearchOutput, error)
}

// ResourceExplorerFactory returns a client bound to the given region.
// Search must run against the regional endpoint hosting the primary index,
// not the caller's default region.
type ResourceExplorerFactory func(region string) ResourceExplorerAPI

// IndexSource reports a region active when Resource Explorer's index knows
// at least one resource living there.
type IndexSource struct {
	client   ResourceExplorerAPI
	regional ResourceExplorerFactory
}

func NewIndexSource(client ResourceExplorerAPI, regional ResourceExplorerFactory) *IndexSource {
	return &IndexSource{
		client:   client,
		regional: regional,
	}
}

func (s *IndexSource) Name() string {
	return "Resource Explorer"
}

func (s *IndexSource) Collect(ctx context.Context) domain.SourceResult {
	indexes, err := s.client.ListIndexes(ctx, &resourceexplorer2.ListIndexesInput{})
	if err != nil {
		return domain.SourceResult{Regions: domain.RegionSet{}, Status: classify(err)}
	}

	if len(indexes.Indexes) == 0 {
		return domain.SourceResult{
			Regions: domain.RegionSet{},
			Status: domain.SourceStatus{
				Kind:    domain.StatusPrerequisiteMissing,
				Message: "No Resource Explorer indexes found. Please set up Resource Explorer first.",
			},
		}
	}

	primaryRegion := aws.ToString(indexes.Indexes[0].Region)
	client := s.regional(primaryRegion)

	active := domain.RegionSet{}
	var nextToken *string
	for {
		page, err := client.Search(ctx, &resourceexplorer2.SearchInput{
			QueryString: aws.String("*"),
			MaxResults:  aws.Int32(searchPageSize),
			NextToken:   nextToken,
		})
		if err != nil {
			return domain.SourceResult{Regions: domain.RegionSet{}, Status: classify(err)}
		}

		for _, resource := range page.Resources {
			if resource.Region != nil {
				active.Add(*resource.Region)
			}
		}

		if page.NextToken == nil {
			break
		}
		nextToken = page.NextToken
	}

	return domain.SourceResult{Regions: active, Status: success()}
}
