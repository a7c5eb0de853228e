package httpserver

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/clothing_shop/gateway/internal/middleware"
)

type seen struct {
	Service string `json:"service"`
	Path    string `json:"path"`
	Host    string `json:"forwarded_host"`
	Proto   string `json:"forwarded_proto"`
}

func backend(t *testing.T, name string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(seen{
			Service: name,
			Path:    r.URL.Path,
			Host:    r.Header.Get("X-Forwarded-Host"),
			Proto:   r.Header.Get("X-Forwarded-Proto"),
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newGateway(t *testing.T, catalogURL, orderURL string) *echo.Echo {
	t.Helper()
	e := echo.New()
	require.NoError(t, Register(e, &Deps{
		CatalogURL: catalogURL,
		OrderURL:   orderURL,
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		CSRFConfig: middleware.DefaultCSRFConfig(),
	}))
	return e
}

func TestGateway_Routes(t *testing.T) {
	t.Parallel()
	e := newGateway(t, backend(t, "catalog").URL, backend(t, "order").URL)

	tests := []struct {
		path    string
		service string
		want    string
	}{
		{path: "/api/v1/catalog/items?type=shirt", service: "catalog", want: "/catalog/items"},
		{path: "/api/v1/catalog/types", service: "catalog", want: "/catalog/types"},
		{path: "/api/v1/order", service: "order", want: "/order"},
		{path: "/api/v1/order/history", service: "order", want: "/order/history"},
		{path: "/api/v1/billing", service: "order", want: "/billing"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			var got seen
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Equal(t, tt.service, got.Service)
			assert.Equal(t, tt.want, got.Path)
			assert.Equal(t, "example.com", got.Host)
			assert.Equal(t, "http", got.Proto)
			assert.NotEmpty(t, rec.Header().Get("X-CSRF-Token"))
		})
	}
}

func TestGateway_CSRF(t *testing.T) {
	t.Parallel()
	e := newGateway(t, backend(t, "catalog").URL, backend(t, "order").URL)

	post := func(token, origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/order/items", strings.NewReader(`{}`))
		if token != "" {
			req.AddCookie(&http.Cookie{Name: "XSRF-TOKEN", Value: token})
			req.Header.Set("X-CSRF-Token", token)
		}
		if origin != "" {
			req.Header.Set("Origin", origin)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusForbidden, post("", "http://example.com").Code)
	assert.Equal(t, http.StatusForbidden, post("tok", "http://evil.example").Code)
	assert.Equal(t, http.StatusForbidden, post("tok", "").Code)
	assert.Equal(t, http.StatusOK, post("tok", "http://example.com").Code)
}

func TestGateway_BadGateway(t *testing.T) {
	t.Parallel()
	down := httptest.NewServer(http.NotFoundHandler())
	downURL := down.URL
	down.Close()

	e := newGateway(t, downURL, downURL)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/catalog/items", nil))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}
