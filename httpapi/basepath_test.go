package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNormalizeBasePath(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"/", ""},
		{"pad", "/pad"},
		{"/pad", "/pad"},
		{"/pad/", "/pad"},
	}
	for _, tc := range cases {
		if got := normalizeBasePath(tc.in); got != tc.want {
			t.Fatalf("normalizeBasePath(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestPublicURL(t *testing.T) {
	cases := []struct {
		baseURL  string
		basePath string
		want     string
	}{
		{"", "", ""},
		{"", "pad", "/pad/"},
		{"https://example.com/", "", "https://example.com/"},
		{"https://example.com", "/pad/", "https://example.com/pad/"},
	}
	for _, tc := range cases {
		if got := publicURL(tc.baseURL, tc.basePath); got != tc.want {
			t.Fatalf("publicURL(%q, %q) = %q, want %q", tc.baseURL, tc.basePath, got, tc.want)
		}
	}
}

func TestMountAtRedirectsBarePrefix(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(r.URL.Path))
	})
	handler := mountAt("/pad", inner)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/pad", nil))
	if rec.Code != http.StatusTemporaryRedirect || rec.Header().Get("Location") != "/pad/" {
		t.Fatalf("expected redirect to /pad/, got %d %q", rec.Code, rec.Header().Get("Location"))
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/pad/healthz", nil))
	if rec.Body.String() != "/healthz" {
		t.Fatalf("expected stripped path, got %q", rec.Body.String())
	}
}
