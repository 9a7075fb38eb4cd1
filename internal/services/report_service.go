package services

import (
	"context"

	"lms/internal/query"
	"lms/internal/repositories"
	"lms/internal/utils"
)

// ReportService is the read path: one plan drives the count query, the page
// query and the stats, so filters can never diverge between them.
type ReportService struct {
	Reports    repositories.ReportRepository
	Lookup     repositories.LookupRepository
	Aggregates AggregationService
	RequestID  string
}

// GetReport executes a report request end to end. Store failures never bubble
// up: the caller always receives a well-formed result, degraded to zero rows
// and zeroed stats when the store is unavailable.
func (s ReportService) GetReport(ctx context.Context, orgID int64, spec query.FilterSpec) query.ReportResult {
	plan := query.BuildPlan(ctx, orgID, spec, s.Lookup)

	filteredTotal, err := s.Reports.Count(ctx, plan)
	if err != nil {
		utils.LogEvent(s.RequestID, "report", "count_failed", err.Error())
		return query.EmptyResult(spec.PageSize)
	}

	// The summary total is the unfiltered population number the dashboard
	// card shows. It is counted independently, so on an unfiltered request
	// it is the authoritative total even when a racing write makes the two
	// counts disagree.
	summaryTotal := -1
	if !spec.HasFilters() {
		summaryPlan := query.BuildPlan(ctx, orgID, query.FilterSpec{Kind: spec.Kind}, s.Lookup)
		if n, err := s.Reports.Count(ctx, summaryPlan); err == nil {
			summaryTotal = n
		}
	}

	total := query.ResolveTotal(spec, summaryTotal, filteredTotal)
	meta := query.Paginate(total, spec.Page, spec.PageSize)

	rows, err := s.Reports.Page(ctx, plan, meta.PageSize, meta.Offset())
	if err != nil {
		utils.LogEvent(s.RequestID, "report", "page_failed", err.Error())
		return query.EmptyResult(spec.PageSize)
	}

	stats, err := s.Aggregates.ComputeStats(ctx, plan)
	if err != nil {
		utils.LogEvent(s.RequestID, "report", "stats_failed", err.Error())
		return query.EmptyResult(spec.PageSize)
	}

	return query.Assemble(rows, stats, meta)
}
