package query

// ReportResult is the one result contract shared by the full-page and the
// AJAX code paths. Constructed fresh per request, never cached.
type ReportResult struct {
	Rows  any            `json:"rows"`
	Stats AggregateStats `json:"stats"`
	Page  PageMetadata   `json:"pagination"`
}

// Assemble merges rows, stats and page metadata. Pure data composition; both
// render paths call this exact function.
func Assemble(rows any, stats AggregateStats, page PageMetadata) ReportResult {
	if stats == nil {
		stats = AggregateStats{}
	}
	return ReportResult{Rows: rows, Stats: stats, Page: page}
}

// EmptyResult is the degraded read-path result: zero rows, zeroed stats,
// total 0. A transient store failure renders as "no data", never as a crash.
// Rows stay a non-nil slice so they serialize as [] instead of null.
func EmptyResult(pageSize int) ReportResult {
	return Assemble([]struct{}{}, AggregateStats{}, Paginate(0, 1, pageSize))
}
