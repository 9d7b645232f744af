package model

import "time"

// PairOutcome summarizes one (country, source) extraction, published per pair.
type PairOutcome struct {
	RunID      string     `json:"runId"`
	Country    string     `json:"country"`
	Source     SourceType `json:"source"`
	Records    int        `json:"records"`
	Skipped    int        `json:"skipped"`
	Pages      int        `json:"pages"`
	FetchError string     `json:"fetchError,omitempty"`
	SinkError  string     `json:"sinkError,omitempty"`
	Success    bool       `json:"success"`
	FinishedAt time.Time  `json:"finishedAt"`
}

// RunSummary is the end-of-run report covering every pair of the matrix.
type RunSummary struct {
	RunID       string        `json:"runId"`
	ExtractedAt time.Time     `json:"extractedAt"`
	Outcomes    []PairOutcome `json:"outcomes"`
	Records     int           `json:"records"`
	Skipped     int           `json:"skipped"`
	Succeeded   int           `json:"succeeded"`
	Failed      int           `json:"failed"`
	DurationMS  int64         `json:"durationMs"`
	FinishedAt  time.Time     `json:"finishedAt"`
}
