package regions

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/de-tools/account-scout/pkg/models/api"
	"github.com/de-tools/account-scout/pkg/models/domain"
	"github.com/rs/zerolog"
)

// Reconciler produces the aggregate active-region report. Failures are
// carried inside the report's per-source statuses, never as an error.
type Reconciler interface {
	Reconcile(ctx context.Context) domain.AggregateReport
}

type Handler struct {
	reconciler Reconciler
}

func NewHandler(reconciler Reconciler) *Handler {
	return &Handler{reconciler: reconciler}
}

func (h *Handler) GetActiveRegions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	report := h.reconciler.Reconcile(ctx)

	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(mapReport(report))
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to encode active regions report")
	}
}

func mapReport(report domain.AggregateReport) api.ActiveRegionsReport {
	response := api.ActiveRegionsReport{
		Regions: report.Regions,
		Total:   report.Total(),
	}
	if response.Regions == nil {
		response.Regions = []string{}
	}

	for _, src := range report.Sources {
		response.Sources = append(response.Sources, api.SourceRegions{
			Source:  src.Name,
			Regions: src.Result.Regions.Sorted(),
			Count:   len(src.Result.Regions),
		})
		response.Statuses = append(response.Statuses, api.SourceStatus{
			Source:  src.Name,
			Kind:    src.Result.Status.Kind.String(),
			Code:    src.Result.Status.Code,
			Message: src.Result.Status.Message,
		})
	}

	return response
}
