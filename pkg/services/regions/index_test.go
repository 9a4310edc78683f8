package regions

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/resourceexplorer2"
	retypes "github.com/aws/aws-sdk-go-v2/service/resourceexplorer2/types"
	"github.com/aws/smithy-go"
	"github.com/de-tools/account-scout/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockResourceExplorer struct{ mock.Mock }

func (m *mockResourceExplorer) ListIndexes(
	ctx context.Context,
	params *resourceexplorer2.ListIndexesInput,
	optFns ...func(*resourceexplorer2.Options),
) (*resourceexplorer2.ListIndexesOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*resourceexplorer2.ListIndexesOutput), args.Error(1)
}

func (m *mockResourceExplorer) Search(
	ctx context.Context,
	params *resourceexplorer2.SearchInput,
	optFns ...func(*resourceexplorer2.Options),
) (*resourceexplorer2.SearchOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*resourceexplorer2.SearchOutput), args.Error(1)
}

func indexedResource(region string) retypes.Resource {
	return retypes.Resource{Region: aws.String(region)}
}

func TestIndexSource_NoIndexesIsPrerequisiteMissing(t *testing.T) {
	re := new(mockResourceExplorer)
	re.On("ListIndexes", mock.Anything, mock.Anything).
		Return(&resourceexplorer2.ListIndexesOutput{}, nil)

	source := NewIndexSource(re, func(region string) ResourceExplorerAPI {
		t.Fatalf("regional client requested for %q without an index", region)
		return nil
	})

	result := source.Collect(context.Background())
	assert.Empty(t, result.Regions)
	assert.Equal(t, domain.StatusPrerequisiteMissing, result.Status.Kind)
	assert.Contains(t, result.Status.Message, "set up Resource Explorer")
}

func TestIndexSource_SearchesPrimaryIndexRegion(t *testing.T) {
	re := new(mockResourceExplorer)
	re.On("ListIndexes", mock.Anything, mock.Anything).Return(&resourceexplorer2.ListIndexesOutput{
		Indexes: []retypes.Index{{Region: aws.String("eu-west-1")}},
	}, nil)

	regional := new(mockResourceExplorer)
	regional.On("Search", mock.Anything, mock.MatchedBy(func(in *resourceexplorer2.SearchInput) bool {
		return *in.QueryString == "*" && *in.MaxResults == int32(searchPageSize)
	})).Return(&resourceexplorer2.SearchOutput{
		Resources: []retypes.Resource{
			indexedResource("us-east-1"),
			indexedResource("eu-west-1"),
			indexedResource("us-east-1"),
		},
	}, nil)

	var requestedRegion string
	source := NewIndexSource(re, func(region string) ResourceExplorerAPI {
		requestedRegion = region
		return regional
	})

	result := source.Collect(context.Background())
	assert.Equal(t, "eu-west-1", requestedRegion)
	assert.True(t, result.Status.OK())
	assert.Equal(t, []string{"eu-west-1", "us-east-1"}, result.Regions.Sorted())
	re.AssertExpectations(t)
	regional.AssertExpectations(t)
}

func TestIndexSource_PaginatesUntilTokenExhausted(t *testing.T) {
	re := new(mockResourceExplorer)
	re.On("ListIndexes", mock.Anything, mock.Anything).Return(&resourceexplorer2.ListIndexesOutput{
		Indexes: []retypes.Index{{Region: aws.String("us-east-1")}},
	}, nil)

	regional := new(mockResourceExplorer)
	regional.On("Search", mock.Anything, mock.MatchedBy(func(in *resourceexplorer2.SearchInput) bool {
		return in.NextToken == nil
	})).Return(&resourceexplorer2.SearchOutput{
		Resources: []retypes.Resource{indexedResource("us-east-1")},
		NextToken: aws.String("page-2"),
	}, nil).Once()
	regional.On("Search", mock.Anything, mock.MatchedBy(func(in *resourceexplorer2.SearchInput) bool {
		return in.NextToken != nil && *in.NextToken == "page-2"
	})).Return(&resourceexplorer2.SearchOutput{
		Resources: []retypes.Resource{indexedResource("ap-south-1")},
	}, nil).Once()

	source := NewIndexSource(re, func(string) ResourceExplorerAPI { return regional })

	result := source.Collect(context.Background())
	assert.True(t, result.Status.OK())
	assert.Equal(t, []string{"ap-south-1", "us-east-1"}, result.Regions.Sorted())
	regional.AssertExpectations(t)
}

func TestIndexSource_ListIndexesFailure(t *testing.T) {
	re := new(mockResourceExplorer)
	re.On("ListIndexes", mock.Anything, mock.Anything).Return(nil, &smithy.GenericAPIError{
		Code:    "UnauthorizedException",
		Message: "missing resource-explorer-2:ListIndexes",
	})

	source := NewIndexSource(re, func(string) ResourceExplorerAPI { return nil })

	result := source.Collect(context.Background())
	assert.Empty(t, result.Regions)
	assert.Equal(t, domain.StatusPermissionDenied, result.Status.Kind)
}

func TestIndexSource_SearchFailureMidway(t *testing.T) {
	re := new(mockResourceExplorer)
	re.On("ListIndexes", mock.Anything, mock.Anything).Return(&resourceexplorer2.ListIndexesOutput{
		Indexes: []retypes.Index{{Region: aws.String("us-east-1")}},
	}, nil)

	regional := new(mockResourceExplorer)
	regional.On("Search", mock.Anything, mock.Anything).Return(nil, &smithy.GenericAPIError{
		Code:    "ThrottlingException",
		Message: "rate exceeded",
	})

	source := NewIndexSource(re, func(string) ResourceExplorerAPI { return regional })

	result := source.Collect(context.Background())
	assert.Empty(t, result.Regions)
	assert.Equal(t, domain.StatusThrottled, result.Status.Kind)
}
