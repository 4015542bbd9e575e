package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestParsePromotionEndDate(t *testing.T) {
	parsed, ok := parsePromotionEndDate("2026-09-30")
	if !ok {
		t.Fatal("expected yyyy-mm-dd to parse")
	}
	if parsed.Year() != 2026 || parsed.Month() != time.September || parsed.Day() != 30 {
		t.Fatalf("unexpected date: %v", parsed)
	}

	if _, ok := parsePromotionEndDate("2026-09-30T12:00:00Z"); !ok {
		t.Fatal("expected RFC 3339 to parse")
	}

	if _, ok := parsePromotionEndDate("30/09/2026"); ok {
		t.Fatal("expected dd/mm/yyyy to be rejected")
	}
}

// Binding failures must short-circuit before any database access.
func TestCreatePromotionRequiresTitle(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/promotions", CreatePromotion(nil))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/promotions", strings.NewReader(`{"endDate":"2026-09-30"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "title") {
		t.Fatalf("expected title in validation details, got %s", w.Body.String())
	}
}

func TestCreatePromotionRejectsBadEndDate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/promotions", CreatePromotion(nil))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/promotions",
		strings.NewReader(`{"title":"Spring Sale","endDate":"soon"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}
