package regions

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/configservice"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/resourceexplorer2"
	"github.com/de-tools/account-scout/pkg/services/awscfg"
)

// ReconcilerFactory builds a reconciler backed by real AWS clients for the
// given shared-config profile.
func ReconcilerFactory(ctx context.Context, profile string) (*Reconciler, error) {
	cfg, err := awscfg.Load(ctx, profile)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}

	billing := NewBillingSource(costexplorer.NewFromConfig(*cfg))

	index := NewIndexSource(
		resourceexplorer2.NewFromConfig(*cfg),
		func(region string) ResourceExplorerAPI {
			regional := cfg.Copy()
			regional.Region = region
			return resourceexplorer2.NewFromConfig(regional)
		},
	)

	recorder := NewRecorderSource(
		ec2.NewFromConfig(*cfg),
		func(region string) ConfigServiceAPI {
			regional := cfg.Copy()
			regional.Region = region
			return configservice.NewFromConfig(regional)
		},
	)

	return NewReconciler(billing, index, recorder), nil
}
