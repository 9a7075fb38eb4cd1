package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"lms/internal/domain"
	"lms/internal/repositories"
	"lms/internal/utils"
)

// EnrollmentService owns the two write operations. Both re-verify the target
// against the caller's organization at mutation time; nothing is trusted from
// the filtered list the caller unenrolled from.
type EnrollmentService struct {
	Enrollments repositories.EnrollmentRepository
	RequestID   string
}

type MutationFailure struct {
	ID     int64  `json:"id"`
	Reason string `json:"reason"`
}

// MutationOutcome aggregates a bulk mutation. Constructed once per call,
// discarded after the response.
type MutationOutcome struct {
	Attempted int               `json:"attempted"`
	Succeeded int               `json:"succeeded"`
	Failures  []MutationFailure `json:"failures"`
}

// Summary renders the human-readable message for the response envelope.
func (o MutationOutcome) Summary() string {
	msg := fmt.Sprintf("unenrolled %d of %d", o.Succeeded, o.Attempted)
	if len(o.Failures) == 0 {
		return msg
	}
	parts := make([]string, 0, len(o.Failures))
	for _, f := range o.Failures {
		parts = append(parts, strconv.FormatInt(f.ID, 10)+": "+f.Reason)
	}
	return msg + "; failed: " + strings.Join(parts, ", ")
}

// UnenrollOne removes a single enrollment after re-verifying that the record
// still belongs to the org scope and still references the given user and
// course. A repeat call reports not-found, never a duplicate-removal error.
func (s EnrollmentService) UnenrollOne(ctx context.Context, orgID, enrollmentID, userID, courseID int64) error {
	ref, err := s.Enrollments.FindInScope(ctx, orgID, enrollmentID)
	if err != nil {
		return err
	}
	if ref.UserID != userID || ref.CourseID != courseID {
		// Stale client state: the record exists but no longer matches what
		// the caller thinks it is. Treated the same as gone.
		return domain.NotFoundError{Resource: "enrollment"}
	}

	if err := s.Enrollments.Delete(ctx, orgID, enrollmentID); err != nil {
		return err
	}

	utils.LogEvent(s.RequestID, "enrollment", "unenroll",
		"id="+strconv.FormatInt(enrollmentID, 10))
	return nil
}

// UnenrollMany is best-effort-all: every id is attempted, failures are
// collected per id, and one bad id never blocks the rest of the batch.
func (s EnrollmentService) UnenrollMany(ctx context.Context, orgID int64, ids []int64) MutationOutcome {
	out := MutationOutcome{Attempted: len(ids), Failures: []MutationFailure{}}

	for _, id := range ids {
		err := s.Enrollments.Delete(ctx, orgID, id)
		switch {
		case err == nil:
			out.Succeeded++
		case domain.IsNotFound(err):
			out.Failures = append(out.Failures, MutationFailure{ID: id, Reason: "not found or already removed"})
		default:
			out.Failures = append(out.Failures, MutationFailure{ID: id, Reason: "store error"})
			utils.LogEvent(s.RequestID, "enrollment", "bulk_unenroll_failed",
				"id="+strconv.FormatInt(id, 10)+" err="+err.Error())
		}
	}

	utils.LogEvent(s.RequestID, "enrollment", "bulk_unenroll",
		fmt.Sprintf("attempted=%d succeeded=%d", out.Attempted, out.Succeeded))
	return out
}
