package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/centavo-app/centavo-backend/internal/domain"
	"github.com/labstack/echo/v4"
)

func TestAnonymousMiddleware_StampsLocalUser(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/expenses", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := func(c echo.Context) error {
		if GetSubject(c) != "local" {
			t.Errorf("Expected subject 'local', got %q", GetSubject(c))
		}
		if GetUserID(c) != domain.AnonymousUserID {
			t.Errorf("Expected anonymous user ID, got %s", GetUserID(c))
		}
		return c.String(http.StatusOK, "OK")
	}

	if err := AnonymousMiddleware()(handler)(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}
}
