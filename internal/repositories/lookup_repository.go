package repositories

import (
	"context"
	"database/sql"
	"strings"
)

// LookupRepository resolves symbolic filter values (role shortnames, status
// names) to their stored ids. Misses and lookup failures both report ok=false
// so the caller drops the constraint instead of failing the whole query.
type LookupRepository struct {
	DB *sql.DB
}

var enrollmentStatuses = map[string]int64{
	"active":    0,
	"suspended": 1,
}

func (r LookupRepository) RoleID(ctx context.Context, shortname string) (int64, bool) {
	shortname = strings.ToLower(strings.TrimSpace(shortname))
	if shortname == "" || r.DB == nil {
		return 0, false
	}
	var id int64
	err := r.DB.QueryRowContext(ctx,
		`SELECT id FROM roles WHERE shortname = ? LIMIT 1`, shortname).Scan(&id)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func (r LookupRepository) EnrollmentStatus(name string) (int64, bool) {
	v, ok := enrollmentStatuses[strings.ToLower(strings.TrimSpace(name))]
	return v, ok
}
