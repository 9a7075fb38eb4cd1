package utils

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

func captureLog(t *testing.T, fn func()) string {
	t.Helper()
	var buf bytes.Buffer
	prev := log.Writer()
	log.SetOutput(&buf)
	defer log.SetOutput(prev)
	fn()
	return buf.String()
}

func TestLogEventFormatsLine(t *testing.T) {
	out := captureLog(t, func() {
		LogEvent("req-42", "report", "count_failed", "connection reset")
	})
	if !strings.Contains(out, "[REPORT] action=count_failed request_id=req-42 msg=connection reset") {
		t.Fatalf("unexpected log line: %q", out)
	}
}

func TestLogEventBlankRequestID(t *testing.T) {
	out := captureLog(t, func() {
		LogEvent("  ", "config", "db_ping", "ok")
	})
	if !strings.Contains(out, "request_id=- ") {
		t.Fatalf("blank request id should render as -: %q", out)
	}
}
