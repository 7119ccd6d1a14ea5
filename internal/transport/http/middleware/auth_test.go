package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ErlanBelekov/printmarket/internal/auth"
	applog "github.com/ErlanBelekov/printmarket/internal/log"
	"github.com/ErlanBelekov/printmarket/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"
)

var authKey = []byte("middleware-test-secret-32-chars!!")

func init() {
	gin.SetMode(gin.TestMode)
}

// protected echoes the caller as seen through the gin key and the request
// context, and records whether it ran at all.
func protected(reached *bool) *gin.Engine {
	r := gin.New()
	r.GET("/protected", middleware.Auth(authKey), func(c *gin.Context) {
		*reached = true
		c.String(http.StatusOK, "%s|%s", c.GetString(middleware.UserIDKey), applog.UserIDFromContext(c.Request.Context()))
	})
	return r
}

func sign(t *testing.T, user string, issued time.Time) string {
	t.Helper()
	tok, err := auth.Sign(authKey, user, time.Hour, issued)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return tok
}

func TestAuth_RejectsBadHeaders(t *testing.T) {
	valid := sign(t, "maker-7", time.Now())
	headers := map[string]string{
		"missing":        "",
		"basic scheme":   "Basic dXNlcjpwYXNz",
		"lowercase":      "bearer " + valid,
		"empty bearer":   "Bearer ",
		"raw token":      valid,
		"expired bearer": "Bearer " + sign(t, "maker-7", time.Now().Add(-2*time.Hour)),
	}
	for name, h := range headers {
		t.Run(name, func(t *testing.T) {
			var reached bool
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if h != "" {
				req.Header.Set("Authorization", h)
			}
			w := httptest.NewRecorder()
			protected(&reached).ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", w.Code)
			}
			if reached {
				t.Error("handler ran for an unauthenticated request")
			}
		})
	}
}

func TestAuth_PropagatesSubject(t *testing.T) {
	var reached bool
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+sign(t, "maker-7", time.Now()))
	w := httptest.NewRecorder()
	protected(&reached).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if got := w.Body.String(); got != "maker-7|maker-7" {
		t.Errorf("body = %q, want subject in both gin and request context", got)
	}
}
