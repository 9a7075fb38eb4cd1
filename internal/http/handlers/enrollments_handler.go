package handlers

import (
	"net/http"

	"lms/internal/domain"
	"lms/internal/http/middleware"
	"lms/internal/repositories"
	"lms/internal/services"

	"github.com/gin-gonic/gin"
)

type unenrollRequest struct {
	EnrollmentID int64 `json:"enrollment_id"`
	UserID       int64 `json:"user_id"`
	CourseID     int64 `json:"course_id"`
}

type bulkUnenrollRequest struct {
	EnrollmentIDs []int64 `json:"enrollment_ids"`
}

// POST /api/report/:kind/unenroll
// Engine outcomes are reported in-band: the response is 200 with a success
// boolean either way.
func (a API) Unenroll(c *gin.Context) {
	orgID, ok := middleware.GetOrgID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "missing organization scope"})
		return
	}

	var req unenrollRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if req.EnrollmentID <= 0 {
		RespondError(c, http.StatusBadRequest, "enrollment_id is required", nil)
		return
	}

	svc := services.EnrollmentService{
		Enrollments: repositories.EnrollmentRepository{DB: a.DB},
		RequestID:   middleware.GetRequestID(c),
	}

	err := svc.UnenrollOne(c.Request.Context(), orgID, req.EnrollmentID, req.UserID, req.CourseID)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "enrollment removed"})
	case domain.IsNotFound(err):
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "enrollment not found or already removed"})
	default:
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "could not remove enrollment"})
	}
}

// POST /api/report/:kind/bulk-unenroll
func (a API) BulkUnenroll(c *gin.Context) {
	orgID, ok := middleware.GetOrgID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "missing organization scope"})
		return
	}

	var req bulkUnenrollRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if len(req.EnrollmentIDs) == 0 {
		RespondError(c, http.StatusBadRequest, "enrollment_ids is required", nil)
		return
	}

	svc := services.EnrollmentService{
		Enrollments: repositories.EnrollmentRepository{DB: a.DB},
		RequestID:   middleware.GetRequestID(c),
	}

	outcome := svc.UnenrollMany(c.Request.Context(), orgID, req.EnrollmentIDs)
	c.JSON(http.StatusOK, gin.H{
		"success": len(outcome.Failures) == 0,
		"message": outcome.Summary(),
	})
}
