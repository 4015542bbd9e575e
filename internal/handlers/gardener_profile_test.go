package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

// A profile resolved by the email fallback must still return the updated
// document when the update changes the email itself, so the re-read goes
// through the document id rather than the original filter.
func TestUpdateGardenerByEmailFilterReturnsUpdatedDocument(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("email change refetches by id", func(mt *mtest.T) {
		gin.SetMode(gin.TestMode)

		id := primitive.NewObjectID()
		ns := mt.DB.Name() + ".gardeners"

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
				{Key: "_id", Value: id},
				{Key: "email", Value: "old@example.com"},
			}),
			mtest.CreateSuccessResponse(
				bson.E{Key: "n", Value: 1},
				bson.E{Key: "nModified", Value: 1},
			),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
				{Key: "_id", Value: id},
				{Key: "email", Value: "new@example.com"},
			}),
		)

		r := gin.New()
		r.PUT("/profile", func(c *gin.Context) {
			updateGardenerByFilter(c, mt.DB, nil, "PUT /api/gardener/profile", bson.M{"email": "old@example.com"})
		})

		body := &bytes.Buffer{}
		form := multipart.NewWriter(body)
		if err := form.WriteField("email", "new@example.com"); err != nil {
			mt.Fatalf("writing form field failed: %v", err)
		}
		_ = form.Close()

		w := httptest.NewRecorder()
		req := httptest.NewRequest("PUT", "/profile", body)
		req.Header.Set("Content-Type", form.FormDataContentType())
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			mt.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
		if !strings.Contains(w.Body.String(), "new@example.com") {
			mt.Fatalf("expected updated email in response, got %s", w.Body.String())
		}
	})
}
