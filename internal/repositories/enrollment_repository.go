package repositories

import (
	"context"
	"database/sql"

	"lms/internal/domain"
)

type EnrollmentRepository struct {
	DB *sql.DB
}

// EnrollmentRef is the minimal ownership record used to re-verify a mutation
// target at mutation time.
type EnrollmentRef struct {
	ID       int64
	UserID   int64
	CourseID int64
	RoleID   int64
}

// FindInScope loads an enrollment only if it belongs to the caller's
// organization. Targets are never trusted from a previously filtered list.
func (r EnrollmentRepository) FindInScope(ctx context.Context, orgID, enrollmentID int64) (EnrollmentRef, error) {
	var ref EnrollmentRef
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, user_id, course_id, role_id
		FROM enrollments
		WHERE id = ? AND org_id = ?
		LIMIT 1`, enrollmentID, orgID).Scan(&ref.ID, &ref.UserID, &ref.CourseID, &ref.RoleID)
	if err == sql.ErrNoRows {
		return EnrollmentRef{}, domain.NotFoundError{Resource: "enrollment"}
	}
	if err != nil {
		return EnrollmentRef{}, domain.StoreError{Op: "find enrollment", Err: err}
	}
	return ref, nil
}

// Delete removes the enrollment record and, when the delete took effect, its
// completion and group linkage rows in the same scope. A second delete of the
// same id reports NotFound, never a corrupt state.
func (r EnrollmentRepository) Delete(ctx context.Context, orgID, enrollmentID int64) error {
	res, err := r.DB.ExecContext(ctx,
		`DELETE FROM enrollments WHERE id = ? AND org_id = ?`, enrollmentID, orgID)
	if err != nil {
		return domain.StoreError{Op: "delete enrollment", Err: err}
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return domain.NotFoundError{Resource: "enrollment"}
	}

	if _, err := r.DB.ExecContext(ctx,
		`DELETE FROM completions WHERE enrollment_id = ?`, enrollmentID); err != nil {
		return domain.StoreError{Op: "delete completion linkage", Err: err}
	}
	if _, err := r.DB.ExecContext(ctx,
		`DELETE FROM group_members WHERE enrollment_id = ? AND org_id = ?`, enrollmentID, orgID); err != nil {
		return domain.StoreError{Op: "delete group linkage", Err: err}
	}
	return nil
}
