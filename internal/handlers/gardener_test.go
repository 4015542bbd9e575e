package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/gin-gonic/gin"

	"gardora-backend/internal/models"
)

func gardenerMultipartContext(t *testing.T, build func(writer *multipart.Writer)) *gin.Context {
	t.Helper()

	gin.SetMode(gin.TestMode)
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	build(writer)
	_ = writer.Close()

	req := httptest.NewRequest("POST", "/api/gardener/add", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = req
	return c
}

func TestParseMultipartGardenerRequestSplitsCommaLists(t *testing.T) {
	c := gardenerMultipartContext(t, func(writer *multipart.Writer) {
		_ = writer.WriteField("email", "Mika@Example.com")
		_ = writer.WriteField("certifications", "Arborist, Organic Farming ,Pest Control")
		_ = writer.WriteField("languages", "English,Hindi")
	})

	parsed, err := parseMultipartGardenerRequest(c)
	if err != nil {
		t.Fatalf("parseMultipartGardenerRequest returned error: %v", err)
	}

	if parsed.Email != "mika@example.com" {
		t.Fatalf("expected lowercased email, got %q", parsed.Email)
	}

	wantCerts := models.StringList{"Arborist", "Organic Farming", "Pest Control"}
	if !parsed.CertificationsSet || !reflect.DeepEqual(parsed.Certifications, wantCerts) {
		t.Fatalf("certifications parsed as %v, want %v", parsed.Certifications, wantCerts)
	}

	wantLangs := models.StringList{"English", "Hindi"}
	if !parsed.LanguagesSet || !reflect.DeepEqual(parsed.Languages, wantLangs) {
		t.Fatalf("languages parsed as %v, want %v", parsed.Languages, wantLangs)
	}
}

func TestParseMultipartGardenerRequestSkipsBlankRating(t *testing.T) {
	c := gardenerMultipartContext(t, func(writer *multipart.Writer) {
		_ = writer.WriteField("rating", "")
		_ = writer.WriteField("hourlyRate", "45.5")
		_ = writer.WriteField("minimumHours", "3")
	})

	parsed, err := parseMultipartGardenerRequest(c)
	if err != nil {
		t.Fatalf("parseMultipartGardenerRequest returned error: %v", err)
	}

	if parsed.RatingSet {
		t.Fatalf("expected blank rating to stay unset, got %+v", parsed)
	}
	if !parsed.HourlyRateSet || parsed.HourlyRate != 45.5 {
		t.Fatalf("expected hourlyRate=45.5, got %+v", parsed)
	}
	if !parsed.MinimumHoursSet || parsed.MinimumHours != 3 {
		t.Fatalf("expected minimumHours=3, got %+v", parsed)
	}
}

func TestParseMultipartGardenerRequestCollectsWorkImages(t *testing.T) {
	c := gardenerMultipartContext(t, func(writer *multipart.Writer) {
		part, _ := writer.CreateFormFile("faceImage", "face.jpg")
		_, _ = part.Write([]byte("face"))
		// The admin form indexes work images as workImages[0], workImages[1].
		part, _ = writer.CreateFormFile("workImages[0]", "garden1.jpg")
		_, _ = part.Write([]byte("one"))
		part, _ = writer.CreateFormFile("workImages[1]", "garden2.jpg")
		_, _ = part.Write([]byte("two"))
	})

	parsed, err := parseMultipartGardenerRequest(c)
	if err != nil {
		t.Fatalf("parseMultipartGardenerRequest returned error: %v", err)
	}

	if parsed.FaceImage == nil || parsed.FaceImage.Filename != "face.jpg" {
		t.Fatalf("expected faceImage to be parsed, got %+v", parsed.FaceImage)
	}
	if len(parsed.WorkImages) != 2 {
		t.Fatalf("expected 2 work images, got %d", len(parsed.WorkImages))
	}
}

func TestParseMultipartGardenerRequestAcceptsLegacyImageField(t *testing.T) {
	c := gardenerMultipartContext(t, func(writer *multipart.Writer) {
		part, _ := writer.CreateFormFile("image", "face.jpg")
		_, _ = part.Write([]byte("face"))
	})

	parsed, err := parseMultipartGardenerRequest(c)
	if err != nil {
		t.Fatalf("parseMultipartGardenerRequest returned error: %v", err)
	}
	if parsed.FaceImage == nil {
		t.Fatal("expected legacy image field to populate faceImage")
	}
}
