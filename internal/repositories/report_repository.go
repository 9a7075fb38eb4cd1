package repositories

import (
	"context"
	"database/sql"
	"time"

	"lms/internal/domain"
	"lms/internal/query"
)

type ReportRepository struct {
	DB *sql.DB
}

type EnrollmentRow struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	UserName   string    `json:"user_name"`
	Email      string    `json:"email"`
	CourseID   int64     `json:"course_id"`
	CourseName string    `json:"course_name"`
	Role       string    `json:"role"`
	Status     int64     `json:"status"`
	Completed  int64     `json:"completed"`
	EnrolledAt time.Time `json:"enrolled_at"`
}

type StudentRow struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Enrolled   int64     `json:"enrolled"`
	Completed  int64     `json:"completed"`
	LastActive time.Time `json:"last_active"`
}

type AssignmentRow struct {
	ID          int64      `json:"id"`
	Assignment  string     `json:"assignment"`
	Course      string     `json:"course"`
	Student     string     `json:"student"`
	Grade       float64    `json:"grade"`
	Status      string     `json:"status"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
}

type CourseCompletionRow struct {
	ID             int64   `json:"id"`
	Course         string  `json:"course"`
	Enrolled       int64   `json:"enrolled"`
	Completed      int64   `json:"completed"`
	CompletionRate float64 `json:"completion_rate"`
}

// Count executes the count half of a plan. The SQL comes from the same plan
// value the page query uses; there is no second WHERE derivation.
func (r ReportRepository) Count(ctx context.Context, plan query.QueryPlan) (int, error) {
	q, args := plan.CountSQL()
	var total int
	if err := r.DB.QueryRowContext(ctx, q, args...).Scan(&total); err != nil {
		return 0, domain.StoreError{Op: "count " + string(plan.Kind), Err: err}
	}
	return total, nil
}

// Aggregate executes a single grouped-stat row over the plan's WHERE set.
func (r ReportRepository) Aggregate(ctx context.Context, plan query.QueryPlan, selectExpr string, dest ...any) error {
	q, args := plan.AggregateSQL(selectExpr)
	if err := r.DB.QueryRowContext(ctx, q, args...).Scan(dest...); err != nil {
		return domain.StoreError{Op: "aggregate " + string(plan.Kind), Err: err}
	}
	return nil
}

// Page executes the page half of a plan and scans kind-specific rows. The
// returned value is always a non-nil slice so it serializes as [].
func (r ReportRepository) Page(ctx context.Context, plan query.QueryPlan, limit, offset int) (any, error) {
	q, args := plan.PageSQL(limit, offset)
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, domain.StoreError{Op: "page " + string(plan.Kind), Err: err}
	}
	defer rows.Close()

	switch plan.Kind {
	case query.KindEnrollment:
		return scanEnrollments(rows)
	case query.KindStudent:
		return scanStudents(rows)
	case query.KindAssignment:
		return scanAssignments(rows)
	case query.KindCourseCompletion:
		return scanCourseCompletions(rows)
	}
	return nil, domain.StoreError{Op: "page: unknown kind " + string(plan.Kind)}
}

func scanEnrollments(rows *sql.Rows) (any, error) {
	out := []EnrollmentRow{}
	for rows.Next() {
		var row EnrollmentRow
		if err := rows.Scan(
			&row.ID,
			&row.UserID,
			&row.UserName,
			&row.Email,
			&row.CourseID,
			&row.CourseName,
			&row.Role,
			&row.Status,
			&row.Completed,
			&row.EnrolledAt,
		); err != nil {
			return nil, domain.StoreError{Op: "scan enrollment row", Err: err}
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StoreError{Op: "iterate enrollment rows", Err: err}
	}
	return out, nil
}

func scanStudents(rows *sql.Rows) (any, error) {
	out := []StudentRow{}
	for rows.Next() {
		var row StudentRow
		if err := rows.Scan(
			&row.ID,
			&row.Name,
			&row.Email,
			&row.Enrolled,
			&row.Completed,
			&row.LastActive,
		); err != nil {
			return nil, domain.StoreError{Op: "scan student row", Err: err}
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StoreError{Op: "iterate student rows", Err: err}
	}
	return out, nil
}

func scanAssignments(rows *sql.Rows) (any, error) {
	out := []AssignmentRow{}
	for rows.Next() {
		var row AssignmentRow
		var submitted sql.NullTime
		if err := rows.Scan(
			&row.ID,
			&row.Assignment,
			&row.Course,
			&row.Student,
			&row.Grade,
			&row.Status,
			&submitted,
		); err != nil {
			return nil, domain.StoreError{Op: "scan assignment row", Err: err}
		}
		if submitted.Valid {
			t := submitted.Time
			row.SubmittedAt = &t
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StoreError{Op: "iterate assignment rows", Err: err}
	}
	return out, nil
}

func scanCourseCompletions(rows *sql.Rows) (any, error) {
	out := []CourseCompletionRow{}
	for rows.Next() {
		var row CourseCompletionRow
		if err := rows.Scan(
			&row.ID,
			&row.Course,
			&row.Enrolled,
			&row.Completed,
		); err != nil {
			return nil, domain.StoreError{Op: "scan course completion row", Err: err}
		}
		// Rounding policy lives in one place; rows never compute their own.
		row.CompletionRate = query.Rate(row.Completed, row.Enrolled)
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StoreError{Op: "iterate course completion rows", Err: err}
	}
	return out, nil
}
