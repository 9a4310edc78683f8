package regions

import (
	"context"
	"testing"

	"github.com/de-tools/account-scout/pkg/models/domain"
	"github.com/stretchr/testify/assert"
)

type stubSource struct {
	name   string
	result domain.SourceResult
}

func (s stubSource) Name() string { return s.name }

func (s stubSource) Collect(_ context.Context) domain.SourceResult { return s.result }

func okResult(regions ...string) domain.SourceResult {
	return domain.SourceResult{
		Regions: domain.NewRegionSet(regions...),
		Status:  domain.SourceStatus{Kind: domain.StatusOK},
	}
}

func failedResult(kind domain.StatusKind, msg string) domain.SourceResult {
	return domain.SourceResult{
		Regions: domain.RegionSet{},
		Status:  domain.SourceStatus{Kind: kind, Message: msg},
	}
}

func TestReconcile_UnionOfOverlappingSets(t *testing.T) {
	r := NewReconciler(
		stubSource{name: "a", result: okResult("us-east-1", "eu-west-1")},
		stubSource{name: "b", result: okResult("eu-west-1", "ap-south-1")},
		stubSource{name: "c", result: okResult("us-east-1")},
	)

	report := r.Reconcile(context.Background())
	assert.Equal(t, []string{"ap-south-1", "eu-west-1", "us-east-1"}, report.Regions)
	assert.Equal(t, 3, report.Total())
}

func TestReconcile_DisjointSets(t *testing.T) {
	r := NewReconciler(
		stubSource{name: "a", result: okResult("us-west-2")},
		stubSource{name: "b", result: okResult("eu-central-1")},
		stubSource{name: "c", result: okResult("sa-east-1")},
	)

	report := r.Reconcile(context.Background())
	assert.Equal(t, []string{"eu-central-1", "sa-east-1", "us-west-2"}, report.Regions)
}

func TestReconcile_Idempotent(t *testing.T) {
	r := NewReconciler(
		stubSource{name: "a", result: okResult("us-east-1", "eu-west-1")},
		stubSource{name: "b", result: okResult("ap-south-1")},
		stubSource{name: "c", result: okResult()},
	)

	first := r.Reconcile(context.Background())
	second := r.Reconcile(context.Background())
	assert.Equal(t, first.Regions, second.Regions)
	assert.Equal(t, first.Sources, second.Sources)
}

func TestReconcile_FaultIsolation(t *testing.T) {
	r := NewReconciler(
		stubSource{name: "a", result: okResult("us-east-1")},
		stubSource{name: "b", result: failedResult(domain.StatusTransportError, "connection reset")},
		stubSource{name: "c", result: okResult("eu-west-1")},
	)

	report := r.Reconcile(context.Background())
	assert.Equal(t, []string{"eu-west-1", "us-east-1"}, report.Regions)
	assert.Equal(t, domain.StatusTransportError, report.Sources[1].Result.Status.Kind)
	assert.Empty(t, report.Sources[1].Result.Regions)
}

func TestReconcile_AllSourcesFail(t *testing.T) {
	r := NewReconciler(
		stubSource{name: "a", result: failedResult(domain.StatusPermissionDenied, "denied")},
		stubSource{name: "b", result: failedResult(domain.StatusTransportError, "timeout")},
		stubSource{name: "c", result: failedResult(domain.StatusUnknown, "boom")},
	)

	report := r.Reconcile(context.Background())
	assert.Empty(t, report.Regions)
	assert.Equal(t, 0, report.Total())
	for _, src := range report.Sources {
		assert.False(t, src.Result.Status.OK())
	}
}

// Scenario: two sources overlap on us-east-1, the third finds nothing.
func TestReconcile_MixedSources(t *testing.T) {
	r := NewReconciler(
		stubSource{name: "Cost Explorer", result: okResult("us-east-1", "eu-west-1")},
		stubSource{name: "Resource Explorer", result: okResult("us-east-1", "ap-south-1")},
		stubSource{name: "AWS Config", result: okResult()},
	)

	report := r.Reconcile(context.Background())
	assert.Equal(t, []string{"ap-south-1", "eu-west-1", "us-east-1"}, report.Regions)
	assert.Equal(t, 3, report.Total())
	assert.Len(t, report.Sources[0].Result.Regions, 2)
	assert.Len(t, report.Sources[1].Result.Regions, 2)
	assert.Len(t, report.Sources[2].Result.Regions, 0)
}

func TestRegionSet_UnionDoesNotMutateOperands(t *testing.T) {
	a := domain.NewRegionSet("us-east-1")
	b := domain.NewRegionSet("eu-west-1")

	merged := a.Union(b)
	assert.Len(t, merged, 2)
	assert.Len(t, a, 1)
	assert.Len(t, b, 1)
}
