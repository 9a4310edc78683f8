package api

type SourceStatus struct {
	Source  string `json:"source"`
	Kind    string `json:"kind"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

type SourceRegions struct {
	Source  string   `json:"source"`
	Regions []string `json:"regions"`
	Count   int      `json:"count"`
}

type ActiveRegionsReport struct {
	Regions  []string        `json:"regions"`
	Total    int             `json:"total"`
	Sources  []SourceRegions `json:"sources"`
	Statuses []SourceStatus  `json:"statuses"`
}
