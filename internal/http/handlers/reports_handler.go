package handlers

import (
	"net/http"

	"lms/internal/http/middleware"
	"lms/internal/query"
	"lms/internal/repositories"
	"lms/internal/services"

	"github.com/gin-gonic/gin"
)

// GET /api/report/:kind?search=&filter.*=&page=&pageSize=&ajax=0|1
//
// ajax=1 returns the fragment envelope for partial refresh; anything else
// returns the full document for the page renderer. Both encode the exact
// same ReportResult.
func (a API) GetReport(c *gin.Context) {
	kind, ok := query.ParseKind(c.Param("kind"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "unknown report kind"})
		return
	}

	orgID, ok := middleware.GetOrgID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "missing organization scope"})
		return
	}

	spec := query.ParseFilterSpec(kind, c.Request.URL.Query())

	reqID := middleware.GetRequestID(c)
	svc := services.ReportService{
		Reports:    repositories.ReportRepository{DB: a.DB},
		Lookup:     repositories.LookupRepository{DB: a.DB},
		Aggregates: services.AggregationService{Reports: repositories.ReportRepository{DB: a.DB}, RequestID: reqID},
		RequestID:  reqID,
	}

	res := svc.GetReport(c.Request.Context(), orgID, spec)

	if c.Query("ajax") == "1" {
		c.JSON(http.StatusOK, gin.H{
			"success":    true,
			"rows":       res.Rows,
			"pagination": res.Page,
			"stats":      res.Stats,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"kind":       kind,
		"search":     spec.Search,
		"filters":    spec.Filters,
		"rows":       res.Rows,
		"pagination": res.Page,
		"stats":      res.Stats,
	})
}
