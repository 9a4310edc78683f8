package regions

import (
	"context"
	"errors"

	"github.com/aws/smithy-go"
	"github.com/de-tools/account-scout/pkg/models/domain"
)

// Source queries one backend signal (billing, a resource index, a config
// recorder) for the set of regions it considers active. Collect never
// returns a Go error: any failure is folded into the result's status so the
// reconciler can proceed with the remaining sources.
type Source interface {
	Name() string
	Collect(ctx context.Context) domain.SourceResult
}

var permissionDeniedCodes = map[string]struct{}{
	"AccessDenied":                {},
	"AccessDeniedException":       {},
	"UnauthorizedOperation":       {},
	"UnauthorizedException":       {},
	"AuthorizationErrorException": {},
}

var throttledCodes = map[string]struct{}{
	"Throttling":               {},
	"ThrottlingException":      {},
	"RequestLimitExceeded":     {},
	"TooManyRequestsException": {},
}

// classify converts an adapter-level error into a SourceStatus. Structured
// API errors keep the provider's code and message verbatim; everything else
// becomes a transport error carrying the raw error text.
func classify(err error) domain.SourceStatus {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		status := domain.SourceStatus{
			Code:    apiErr.ErrorCode(),
			Message: apiErr.ErrorMessage(),
		}
		if _, ok := permissionDeniedCodes[apiErr.ErrorCode()]; ok {
			status.Kind = domain.StatusPermissionDenied
		} else if _, ok := throttledCodes[apiErr.ErrorCode()]; ok {
			status.Kind = domain.StatusThrottled
		} else {
			status.Kind = domain.StatusUnknown
		}
		return status
	}

	return domain.SourceStatus{
		Kind:    domain.StatusTransportError,
		Message: err.Error(),
	}
}

func success() domain.SourceStatus {
	return domain.SourceStatus{Kind: domain.StatusOK}
}

func isPermissionDenied(err error) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	_, ok := permissionDeniedCodes[apiErr.ErrorCode()]
	return ok
}
