package query

import "strings"

// Kind selects the report variant. It fixes the joins, the select list, the
// ordering, the searchable columns, and which filter keys are understood.
type Kind string

const (
	KindEnrollment       Kind = "enrollment"
	KindStudent          Kind = "student"
	KindAssignment       Kind = "assignment"
	KindCourseCompletion Kind = "course-completion"
)

type filterColumn struct {
	Key    string
	Column string
	// Mapping of the raw value onto a bound arg. One of: "int" (positive
	// integer ids), "raw" (string equality), "role" and "status" (symbolic
	// name resolved through a Lookup).
	Mode string
}

type kindConfig struct {
	From      string
	Select    string
	GroupBy   string
	OrderBy   string
	CountExpr string
	OrgColumn string
	Search    []string
	Filters   []filterColumn
	PageSize  int
}

var kindConfigs = map[Kind]kindConfig{
	KindEnrollment: {
		From: `enrollments e
			JOIN users u ON u.id = e.user_id
			JOIN courses c ON c.id = e.course_id
			JOIN roles r ON r.id = e.role_id
			LEFT JOIN completions cm ON cm.enrollment_id = e.id`,
		Select: `e.id, u.id, CONCAT(u.first_name, ' ', u.last_name), u.email,
			c.id, c.fullname, r.shortname, e.status, COALESCE(cm.state, 0),
			e.created_at`,
		OrderBy:   "e.created_at DESC, e.id DESC",
		CountExpr: "COUNT(*)",
		OrgColumn: "e.org_id",
		Search:    []string{"u.first_name", "u.last_name", "u.email"},
		Filters: []filterColumn{
			{Key: "course", Column: "e.course_id", Mode: "int"},
			{Key: "role", Column: "e.role_id", Mode: "role"},
			{Key: "status", Column: "e.status", Mode: "status"},
			{Key: "cohort", Column: "e.cohort", Mode: "raw"},
		},
		PageSize: 10,
	},
	KindStudent: {
		From: `users u
			JOIN enrollments e ON e.user_id = u.id
			LEFT JOIN completions cm ON cm.enrollment_id = e.id`,
		Select: `u.id, CONCAT(u.first_name, ' ', u.last_name), u.email,
			COUNT(e.id),
			SUM(CASE WHEN cm.state = 1 THEN 1 ELSE 0 END),
			MAX(e.created_at)`,
		GroupBy:   "u.id, u.first_name, u.last_name, u.email",
		OrderBy:   "u.last_name ASC, u.first_name ASC, u.id ASC",
		CountExpr: "COUNT(DISTINCT u.id)",
		OrgColumn: "u.org_id",
		Search:    []string{"u.first_name", "u.last_name", "u.email"},
		Filters: []filterColumn{
			{Key: "course", Column: "e.course_id", Mode: "int"},
			{Key: "role", Column: "e.role_id", Mode: "role"},
			{Key: "status", Column: "e.status", Mode: "status"},
			{Key: "cohort", Column: "e.cohort", Mode: "raw"},
		},
		PageSize: 10,
	},
	KindAssignment: {
		From: `submissions s
			JOIN assignments a ON a.id = s.assignment_id
			JOIN courses c ON c.id = a.course_id
			JOIN users u ON u.id = s.user_id`,
		Select: `s.id, a.name, c.fullname,
			CONCAT(u.first_name, ' ', u.last_name),
			COALESCE(s.grade, 0), s.status, s.submitted_at`,
		OrderBy:   "s.submitted_at DESC, s.id DESC",
		CountExpr: "COUNT(*)",
		OrgColumn: "c.org_id",
		Search:    []string{"a.name", "u.first_name", "u.last_name"},
		Filters: []filterColumn{
			{Key: "course", Column: "a.course_id", Mode: "int"},
			{Key: "status", Column: "s.status", Mode: "raw"},
		},
		PageSize: 10,
	},
	KindCourseCompletion: {
		From: `courses c
			LEFT JOIN enrollments e ON e.course_id = c.id
			LEFT JOIN completions cm ON cm.enrollment_id = e.id`,
		Select: `c.id, c.fullname,
			COUNT(e.id),
			SUM(CASE WHEN cm.state = 1 THEN 1 ELSE 0 END)`,
		GroupBy:   "c.id, c.fullname",
		OrderBy:   "c.fullname ASC, c.id ASC",
		CountExpr: "COUNT(DISTINCT c.id)",
		OrgColumn: "c.org_id",
		Search:    []string{"c.fullname"},
		Filters: []filterColumn{
			{Key: "status", Column: "c.status", Mode: "raw"},
			{Key: "cohort", Column: "e.cohort", Mode: "raw"},
		},
		PageSize: 10,
	},
}

// ParseKind maps a URL slug onto a report kind.
func ParseKind(slug string) (Kind, bool) {
	k := Kind(strings.ToLower(strings.TrimSpace(slug)))
	_, ok := kindConfigs[k]
	return k, ok
}

// DefaultPageSize returns the fixed page size for a kind.
func DefaultPageSize(kind Kind) int {
	if cfg, ok := kindConfigs[kind]; ok && cfg.PageSize > 0 {
		return cfg.PageSize
	}
	return 10
}
