package regions

import (
	"context"

	"github.com/de-tools/account-scout/pkg/models/domain"
)

// Reconciler merges independent activity signals into one view of which
// regions hold billed or active resources.
type Reconciler struct {
	sources []Source
}

func NewReconciler(sources ...Source) *Reconciler {
	return &Reconciler{sources: sources}
}

// Reconcile collects every source sequentially and unions their region
// sets. It cannot fail: a source that errored contributes an empty set and
// its failure status, and the remaining sources are still consulted.
func (r *Reconciler) Reconcile(ctx context.Context) domain.AggregateReport {
	union := domain.RegionSet{}
	reports := make([]domain.SourceReport, 0, len(r.sources))

	for _, source := range r.sources {
		result := source.Collect(ctx)
		union = union.Union(result.Regions)
		reports = append(reports, domain.SourceReport{
			Name:   source.Name(),
			Result: result,
		})
	}

	return domain.AggregateReport{
		Regions: union.Sorted(),
		Sources: reports,
	}
}
