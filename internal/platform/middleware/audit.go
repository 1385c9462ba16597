package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// auditEntry describes one access to patient data.
type auditEntry struct {
	Resource   string
	PatientID  string
	Action     string // read, create
	IPAddress  string
	UserAgent  string
	Path       string
	Method     string
	RequestID  string
	StatusCode int
}

// Audit logs a phi_access event for every request that reads or writes
// patient data: the JSON API and the intake and diagnosis pages. The entry is
// built after the handler runs so the response status and any patient id the
// handler resolved are included.
func Audit(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			path := req.URL.Path

			if !isAuditablePath(path) {
				return next(c)
			}

			err := next(c)

			entry := auditEntry{
				Path:       path,
				Method:     req.Method,
				IPAddress:  c.RealIP(),
				UserAgent:  req.UserAgent(),
				StatusCode: c.Response().Status,
				Action:     httpMethodToAction(req.Method),
				Resource:   extractResource(path),
				PatientID:  extractPatientID(c),
			}
			if rid, ok := c.Get("request_id").(string); ok {
				entry.RequestID = rid
			}

			logger.Info().
				Str("type", "phi_access").
				Str("request_id", entry.RequestID).
				Str("resource", entry.Resource).
				Str("patient_id", entry.PatientID).
				Str("action", entry.Action).
				Str("method", entry.Method).
				Str("path", entry.Path).
				Str("remote_ip", entry.IPAddress).
				Str("user_agent", entry.UserAgent).
				Int("status", entry.StatusCode).
				Msg("phi_access")

			return err
		}
	}
}

func isAuditablePath(path string) bool {
	return strings.HasPrefix(path, "/api/v1/") || path == "/intake" || path == "/diagnosis"
}

func httpMethodToAction(method string) string {
	if method == http.MethodPost {
		return "create"
	}
	return "read"
}

// extractResource returns the first path segment under /api/v1/, or the page
// name for the HTML surfaces.
//
//	/api/v1/symptoms               -> symptoms
//	/api/v1/patients/7/diagnoses   -> patients
//	/diagnosis                     -> diagnosis
func extractResource(path string) string {
	trimmed := strings.TrimPrefix(path, "/api/v1/")
	trimmed = strings.TrimPrefix(trimmed, "/")
	seg, _, _ := strings.Cut(trimmed, "/")
	if seg == "" {
		return "unknown"
	}
	return seg
}

// extractPatientID looks for a patient id in this order: an int64 the handler
// stored under "patient_id", the /api/v1/patients/<id> path, then the
// user_id query or form parameter.
func extractPatientID(c echo.Context) string {
	switch v := c.Get("patient_id").(type) {
	case int64:
		return strconv.FormatInt(v, 10)
	}

	path := c.Request().URL.Path
	if rest, ok := strings.CutPrefix(path, "/api/v1/patients/"); ok {
		seg, _, _ := strings.Cut(rest, "/")
		if isNumericID(seg) {
			return seg
		}
	}

	if uid := strings.TrimSpace(c.QueryParam("user_id")); isNumericID(uid) {
		return uid
	}
	if c.Request().Method == http.MethodPost {
		if uid := strings.TrimSpace(c.FormValue("user_id")); isNumericID(uid) {
			return uid
		}
	}
	return ""
}

func isNumericID(s string) bool {
	if s == "" {
		return false
	}
	_, err := strconv.ParseInt(s, 10, 64)
	return err == nil
}
