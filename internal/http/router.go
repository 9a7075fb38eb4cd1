package api

import (
	"database/sql"
	"log"
	stdhttp "net/http"

	"lms/internal/config"
	h "lms/internal/http/handlers"
	"lms/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

func NewRouter(env config.Env, db *sql.DB) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS())

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"success": false,
			"message": "route not found",
			"path":    c.Request.URL.Path,
			"method":  c.Request.Method,
		})
	})

	a := h.API{DB: db, Env: env}

	api := r.Group("/api")
	{
		api.GET("/health", a.Health)
		api.GET("/db-check", a.DBCheck)

		auth := api.Group("/auth")
		auth.POST("/login", a.Login)

		report := api.Group("/report", middleware.OrgScope(env.JWTSecret))
		report.GET("/:kind", a.GetReport)
		report.POST("/:kind/unenroll", a.Unenroll)
		report.POST("/:kind/bulk-unenroll", a.BulkUnenroll)
	}

	return r
}
