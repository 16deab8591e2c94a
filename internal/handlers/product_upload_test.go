package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestParseMultipartProductRequest_PicksLastFeaturedValue(t *testing.T) {
	gin.SetMode(gin.TestMode)
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	_ = writer.WriteField("featured", "false")
	_ = writer.WriteField("featured", "true")
	_ = writer.WriteField("price", "99")
	_ = writer.Close()

	req := httptest.NewRequest("PUT", "/admin/api/products/1", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = req

	parsed, err := parseMultipartProductRequest(c)
	if err != nil {
		t.Fatalf("parseMultipartProductRequest returned error: %v", err)
	}
	if !parsed.FeaturedSet || !parsed.Featured {
		t.Fatalf("expected featured=true, got %+v", parsed)
	}
	if !parsed.PriceSet || parsed.Price != 99 {
		t.Fatalf("expected price=99, got %+v", parsed)
	}
}

func TestParseMultipartProductRequest_AbsentFieldsStayUnset(t *testing.T) {
	gin.SetMode(gin.TestMode)
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	_ = writer.WriteField("name", "Amber Noir")
	_ = writer.Close()

	req := httptest.NewRequest("PUT", "/admin/api/products/1", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = req

	parsed, err := parseMultipartProductRequest(c)
	if err != nil {
		t.Fatalf("parseMultipartProductRequest returned error: %v", err)
	}
	if !parsed.NameSet || parsed.Name != "Amber Noir" {
		t.Fatalf("expected name to be set, got %+v", parsed)
	}
	if parsed.PriceSet || parsed.StockSet || parsed.ImageSet || parsed.IsActiveSet {
		t.Fatalf("expected absent fields to stay unset, got %+v", parsed)
	}
}

func TestParseMultipartProductRequest_CollectsCategoryArray(t *testing.T) {
	gin.SetMode(gin.TestMode)
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	_ = writer.WriteField("category", "Woody")
	_ = writer.WriteField("category", "Oriental")
	_ = writer.Close()

	req := httptest.NewRequest("POST", "/admin/api/products", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = req

	parsed, err := parseMultipartProductRequest(c)
	if err != nil {
		t.Fatalf("parseMultipartProductRequest returned error: %v", err)
	}
	if !parsed.CategSet || len(parsed.Categories) != 2 {
		t.Fatalf("expected two categories, got %+v", parsed)
	}
	if parsed.Categories[0] != "Woody" || parsed.Categories[1] != "Oriental" {
		t.Fatalf("unexpected category values: %+v", parsed.Categories)
	}
}

func TestNormalizeNamesDropsBlanksAndDuplicates(t *testing.T) {
	got := normalizeNames([]string{" Woody ", "", "Woody", "Citrus"})
	if len(got) != 2 || got[0] != "Woody" || got[1] != "Citrus" {
		t.Fatalf("unexpected result: %v", got)
	}
}
