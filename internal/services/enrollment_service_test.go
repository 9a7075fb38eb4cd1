package services

import (
	"context"
	"strings"
	"testing"

	"lms/internal/domain"
	"lms/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
)

func expectDeleteWithLinkage(mock sqlmock.Sqlmock, id, orgID int64) {
	mock.ExpectExec("DELETE FROM enrollments").WithArgs(id, orgID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM completions").WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM group_members").WithArgs(id, orgID).
		WillReturnResult(sqlmock.NewResult(0, 0))
}

func TestUnenrollOneIdempotent(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	// First call: record exists in scope and matches user/course.
	mock.ExpectQuery("SELECT id, user_id, course_id, role_id").WithArgs(int64(10), int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "course_id", "role_id"}).
			AddRow(10, 2, 3, 5))
	expectDeleteWithLinkage(mock, 10, 1)

	// Second call: already removed.
	mock.ExpectQuery("SELECT id, user_id, course_id, role_id").WithArgs(int64(10), int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "course_id", "role_id"}))

	svc := EnrollmentService{Enrollments: repositories.EnrollmentRepository{DB: db}}

	if err := svc.UnenrollOne(context.Background(), 1, 10, 2, 3); err != nil {
		t.Fatalf("first unenroll should succeed: %v", err)
	}

	err = svc.UnenrollOne(context.Background(), 1, 10, 2, 3)
	if !domain.IsNotFound(err) {
		t.Fatalf("second unenroll should report not-found, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUnenrollOneRejectsMismatchedTarget(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	// Record exists in scope but references a different user: the caller's
	// view is stale, so no delete happens.
	mock.ExpectQuery("SELECT id, user_id, course_id, role_id").WithArgs(int64(10), int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "course_id", "role_id"}).
			AddRow(10, 99, 3, 5))

	svc := EnrollmentService{Enrollments: repositories.EnrollmentRepository{DB: db}}

	err = svc.UnenrollOne(context.Background(), 1, 10, 2, 3)
	if !domain.IsNotFound(err) {
		t.Fatalf("mismatched target should report not-found, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("delete should not run for a mismatched target: %v", err)
	}
}

func TestUnenrollManyBestEffort(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	// id 11 succeeds, id 12 is outside the caller's scope, id 13 succeeds.
	// The failure in the middle never aborts the rest.
	expectDeleteWithLinkage(mock, 11, 1)
	mock.ExpectExec("DELETE FROM enrollments").WithArgs(int64(12), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	expectDeleteWithLinkage(mock, 13, 1)

	svc := EnrollmentService{Enrollments: repositories.EnrollmentRepository{DB: db}}

	out := svc.UnenrollMany(context.Background(), 1, []int64{11, 12, 13})

	if out.Attempted != 3 || out.Succeeded != 2 {
		t.Fatalf("outcome: attempted=%d succeeded=%d", out.Attempted, out.Succeeded)
	}
	if len(out.Failures) != 1 || out.Failures[0].ID != 12 {
		t.Fatalf("failures: %+v", out.Failures)
	}
	if !strings.Contains(out.Summary(), "unenrolled 2 of 3") {
		t.Fatalf("summary: %q", out.Summary())
	}
	if !strings.Contains(out.Summary(), "12:") {
		t.Fatalf("summary should name the failed id: %q", out.Summary())
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
