package services

import (
	"context"
	"strconv"

	"lms/internal/query"
	"lms/internal/repositories"
	"lms/internal/utils"
)

// AggregationService derives the stat block of a report. Every number comes
// off the same constrained plan as the page rows, either as one grouped query
// or as a small set of segment counts.
type AggregationService struct {
	Reports   repositories.ReportRepository
	RequestID string
}

func (s AggregationService) ComputeStats(ctx context.Context, plan query.QueryPlan) (query.AggregateStats, error) {
	switch plan.Kind {
	case query.KindStudent:
		return s.studentStats(ctx, plan)
	case query.KindCourseCompletion:
		return s.courseCompletionStats(ctx, plan)
	case query.KindAssignment:
		return s.assignmentStats(ctx, plan)
	default:
		return s.enrollmentStats(ctx, plan)
	}
}

// enrollmentStats is a single-pass grouped query: one row carries every
// numerator and denominator.
func (s AggregationService) enrollmentStats(ctx context.Context, plan query.QueryPlan) (query.AggregateStats, error) {
	// SUM over zero rows is NULL, not 0; COALESCE keeps an empty population
	// scannable so it yields zeroed stats instead of a scan error.
	var total, active, completed int64
	err := s.Reports.Aggregate(ctx, plan, `
		COUNT(*),
		COALESCE(SUM(CASE WHEN e.status = 0 THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN cm.state = 1 THEN 1 ELSE 0 END), 0)`,
		&total, &active, &completed)
	if err != nil {
		return nil, err
	}
	return query.AggregateStats{
		"total":           total,
		"active":          active,
		"completed":       completed,
		"completion_rate": query.Rate(completed, total),
	}, nil
}

func (s AggregationService) courseCompletionStats(ctx context.Context, plan query.QueryPlan) (query.AggregateStats, error) {
	var totalCourses, completedCourses, enrollments int64
	err := s.Reports.Aggregate(ctx, plan, `
		COUNT(DISTINCT c.id),
		COUNT(DISTINCT CASE WHEN cm.state = 1 THEN c.id END),
		COUNT(e.id)`,
		&totalCourses, &completedCourses, &enrollments)
	if err != nil {
		return nil, err
	}
	return query.AggregateStats{
		"total_courses":     totalCourses,
		"completed_courses": completedCourses,
		"enrollments":       enrollments,
		"completion_rate":   query.Rate(completedCourses, totalCourses),
	}, nil
}

func (s AggregationService) assignmentStats(ctx context.Context, plan query.QueryPlan) (query.AggregateStats, error) {
	var total, graded int64
	var avg float64
	err := s.Reports.Aggregate(ctx, plan, `
		COUNT(*),
		COALESCE(SUM(CASE WHEN s.status = 'graded' THEN 1 ELSE 0 END), 0),
		COALESCE(AVG(s.grade), 0)`,
		&total, &graded, &avg)
	if err != nil {
		return nil, err
	}
	return query.AggregateStats{
		"total":         total,
		"graded":        graded,
		"graded_pct":    query.Rate(graded, total),
		"average_grade": query.Round1(avg),
	}, nil
}

// studentStats is the multi-query decomposition path: the completion segments
// cannot share one grouped query with the student-level joins, so each is an
// independent count off the same plan plus one extra predicate. Percentages
// are always computed against the segment union, never against the
// independently fetched total.
func (s AggregationService) studentStats(ctx context.Context, plan query.QueryPlan) (query.AggregateStats, error) {
	segments := []struct {
		name      string
		predicate string
	}{
		{"completed", "cm.state = 1"},
		{"in_progress", "cm.state = 2"},
		{"not_started", "(cm.state IS NULL OR cm.state = 0)"},
	}

	counts := make([]query.Segment, 0, len(segments))
	for _, seg := range segments {
		var n int64
		err := s.Reports.Aggregate(ctx,
			plan.With(query.Constraint{Name: seg.name, Predicate: seg.predicate}),
			"COUNT(e.id)", &n)
		if err != nil {
			return nil, err
		}
		counts = append(counts, query.Segment{Name: seg.name, Count: n})
	}

	var independent int64
	if err := s.Reports.Aggregate(ctx, plan, "COUNT(e.id)", &independent); err != nil {
		return nil, err
	}

	union, consistent := query.ReconcileSegments(counts, independent)
	if !consistent {
		utils.LogEvent(s.RequestID, "report", "segment_drift",
			"union="+strconv.FormatInt(union, 10)+" independent="+strconv.FormatInt(independent, 10))
	}

	stats := query.AggregateStats{"total": union}
	for _, seg := range counts {
		stats[seg.Name] = seg.Count
		stats[seg.Name+"_pct"] = query.Rate(seg.Count, union)
	}
	return stats, nil
}
