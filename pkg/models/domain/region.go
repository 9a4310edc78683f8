package domain

import "sort"

// RegionSet is an unordered set of AWS region identifiers.
type RegionSet map[string]struct{}

func NewRegionSet(regions ...string) RegionSet {
	set := make(RegionSet, len(regions))
	for _, r := range regions {
		set[r] = struct{}{}
	}
	return set
}

func (s RegionSet) Add(region string) {
	s[region] = struct{}{}
}

func (s RegionSet) Contains(region string) bool {
	_, ok := s[region]
	return ok
}

// Union returns a new set containing every region present in s or other.
func (s RegionSet) Union(other RegionSet) RegionSet {
	merged := make(RegionSet, len(s)+len(other))
	for r := range s {
		merged[r] = struct{}{}
	}
	for r := range other {
		merged[r] = struct{}{}
	}
	return merged
}

// Sorted returns the set's members in lexicographic order.
func (s RegionSet) Sorted() []string {
	regions := make([]string, 0, len(s))
	for r := range s {
		regions = append(regions, r)
	}
	sort.Strings(regions)
	return regions
}

// StatusKind classifies a source adapter's outcome into a closed set of
// variants so failure handling can be tested deterministically.
type StatusKind int

const (
	StatusOK StatusKind = iota
	// StatusPrerequisiteMissing means the queried feature was never
	// provisioned for the account (e.g. no Resource Explorer index).
	// It is an operational note, not an API fault.
	StatusPrerequisiteMissing
	StatusPermissionDenied
	StatusThrottled
	StatusTransportError
	StatusUnknown
)

func (k StatusKind) String() string {
	switch k {
	case StatusOK:
		return "ok"
	case StatusPrerequisiteMissing:
		return "prerequisite_missing"
	case StatusPermissionDenied:
		return "permission_denied"
	case StatusThrottled:
		return "throttled"
	case StatusTransportError:
		return "transport_error"
	default:
		return "unknown"
	}
}

// SourceStatus describes how a source adapter finished. Code and Message
// carry the provider's error code/message verbatim when the underlying
// failure was a structured API error.
type SourceStatus struct {
	Kind    StatusKind
	Code    string
	Message string
}

func (s SourceStatus) OK() bool {
	return s.Kind == StatusOK
}

func (s SourceStatus) String() string {
	switch s.Kind {
	case StatusOK:
		return "Success"
	case StatusPrerequisiteMissing:
		return s.Message
	default:
		if s.Code != "" {
			return s.Code + " - " + s.Message
		}
		return s.Message
	}
}

// SourceResult is the value every source adapter returns. Adapters never
// return a Go error; a failed query yields an empty set and a non-OK status.
type SourceResult struct {
	Regions RegionSet
	Status  SourceStatus
}

// SourceReport pairs a source's display name with its result inside an
// aggregate report.
type SourceReport struct {
	Name   string
	Result SourceResult
}

// AggregateReport is the reconciler's output: the union of all source sets
// plus the per-source sets and statuses, retained for auditability.
type AggregateReport struct {
	Regions []string // union, lexicographically sorted
	Sources []SourceReport
}

// Total is the number of distinct active regions across all sources.
func (r AggregateReport) Total() int {
	return len(r.Regions)
}
