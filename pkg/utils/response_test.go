package utils

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestError_WritesJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, http.StatusBadGateway, "upstream failed")

	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != `{"error":"upstream failed"}` {
		t.Errorf("body = %s", body)
	}
}

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x"}`))
	if err := DecodeJSON(req, &dst); err != nil || dst.Name != "x" {
		t.Errorf("decode = %+v, %v", dst, err)
	}

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	if err := DecodeJSON(req, &dst); err != nil {
		t.Errorf("empty body: %v", err)
	}

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{"))
	if err := DecodeJSON(req, &dst); err == nil {
		t.Error("expected error for truncated body")
	}
}
