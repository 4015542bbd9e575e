package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

// Two registrations can pass the count check at the same time; the loser of
// the insert race hits the unique email index and must get 409, not 500.
func TestRegisterReturnsConflictOnDuplicateInsert(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("duplicate key on insert maps to 409", func(mt *mtest.T) {
		gin.SetMode(gin.TestMode)

		ns := mt.DB.Name() + ".users"

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch),
			mtest.CreateWriteErrorsResponse(mtest.WriteError{
				Index:   0,
				Code:    11000,
				Message: "E11000 duplicate key error",
			}),
		)

		r := gin.New()
		r.POST("/api/users/register", Register(mt.DB, "test-secret", time.Hour))

		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/api/users/register",
			strings.NewReader(`{"username":"asha","email":"asha@example.com","password":"longenough"}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		if w.Code != http.StatusConflict {
			mt.Fatalf("expected 409, got %d: %s", w.Code, w.Body.String())
		}
		if !strings.Contains(w.Body.String(), "email already registered") {
			mt.Fatalf("expected conflict message, got %s", w.Body.String())
		}
	})
}
