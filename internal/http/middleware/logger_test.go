package middleware

import (
	"bytes"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestLoggerIncludesResponseSize(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	prev := log.Writer()
	log.SetOutput(&buf)
	defer log.SetOutput(prev)

	r := gin.New()
	r.Use(RequestID(), Logger())
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w, req)

	out := buf.String()
	if !strings.Contains(out, "bytes=4") {
		t.Fatalf("log line should carry the body size: %q", out)
	}
	if !strings.Contains(out, "path=/ping") || !strings.Contains(out, "status=200") {
		t.Fatalf("log line missing request fields: %q", out)
	}
}
