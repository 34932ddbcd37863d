package entity

import "encoding/json"

// ScopeFilter narrows the documents a query searches.
// It is either a ReportPeriod or a SourceRef; no other implementations exist.
type ScopeFilter interface {
	json.Marshaler
	scopeFilter()
}

// ReportPeriod selects one curated report by year and quarter
type ReportPeriod struct {
	Year    string
	Quarter string
}

func (ReportPeriod) scopeFilter() {}

func (p ReportPeriod) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Year    string `json:"year"`
		Quarter string `json:"qtr"`
	}{p.Year, p.Quarter})
}

// String renders the period the way the UI lists it, e.g. "2025_Q1"
func (p ReportPeriod) String() string {
	return p.Year + "_Q" + p.Quarter
}

// SourceRef selects a single uploaded document by its derived URL
type SourceRef struct {
	URL string
}

func (SourceRef) scopeFilter() {}

func (s SourceRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Src string `json:"src"`
	}{s.URL})
}
