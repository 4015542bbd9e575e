package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func multipartContext(t *testing.T, build func(writer *multipart.Writer)) *gin.Context {
	t.Helper()

	gin.SetMode(gin.TestMode)
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	build(writer)
	_ = writer.Close()

	req := httptest.NewRequest("POST", "/api/products/add", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = req
	return c
}

func TestParseMultipartProductRequestSetsFlags(t *testing.T) {
	c := multipartContext(t, func(writer *multipart.Writer) {
		_ = writer.WriteField("name", " Organic Plant Fertilizer ")
		_ = writer.WriteField("price", "670")
		_ = writer.WriteField("category", "Gardening")
		_ = writer.WriteField("quantity", "10")
	})

	parsed, err := parseMultipartProductRequest(c)
	if err != nil {
		t.Fatalf("parseMultipartProductRequest returned error: %v", err)
	}

	if !parsed.NameSet || parsed.Name != "Organic Plant Fertilizer" {
		t.Fatalf("expected trimmed name, got %+v", parsed)
	}
	if !parsed.PriceSet || parsed.Price != 670 {
		t.Fatalf("expected price=670, got %+v", parsed)
	}
	if !parsed.CategorySet || parsed.Category != "Gardening" {
		t.Fatalf("expected category=Gardening, got %+v", parsed)
	}
	if !parsed.QuantitySet || parsed.Quantity != 10 {
		t.Fatalf("expected quantity=10, got %+v", parsed)
	}
	if parsed.DescriptionSet || parsed.BestsellerSet {
		t.Fatalf("expected absent fields to stay unset, got %+v", parsed)
	}
}

func TestParseMultipartProductRequestAcceptsCheckboxBool(t *testing.T) {
	c := multipartContext(t, func(writer *multipart.Writer) {
		_ = writer.WriteField("bestseller", "on")
	})

	parsed, err := parseMultipartProductRequest(c)
	if err != nil {
		t.Fatalf("parseMultipartProductRequest returned error: %v", err)
	}
	if !parsed.BestsellerSet || !parsed.Bestseller {
		t.Fatalf("expected bestseller=true for checkbox value, got %+v", parsed)
	}
}

func TestParseMultipartProductRequestRejectsBadNumber(t *testing.T) {
	c := multipartContext(t, func(writer *multipart.Writer) {
		_ = writer.WriteField("price", "six hundred")
	})

	if _, err := parseMultipartProductRequest(c); err == nil {
		t.Fatal("expected error for non-numeric price")
	}
}

func TestParseMultipartProductRequestCollectsImageFields(t *testing.T) {
	c := multipartContext(t, func(writer *multipart.Writer) {
		part, _ := writer.CreateFormFile("image1", "front.jpg")
		_, _ = part.Write([]byte("jpegdata"))
		part, _ = writer.CreateFormFile("image3", "side.png")
		_, _ = part.Write([]byte("pngdata"))
	})

	parsed, err := parseMultipartProductRequest(c)
	if err != nil {
		t.Fatalf("parseMultipartProductRequest returned error: %v", err)
	}
	if len(parsed.Images) != 2 {
		t.Fatalf("expected 2 images, got %d", len(parsed.Images))
	}
	if parsed.Images[0].Filename != "front.jpg" || parsed.Images[1].Filename != "side.png" {
		t.Fatalf("unexpected image order: %v, %v", parsed.Images[0].Filename, parsed.Images[1].Filename)
	}
}
