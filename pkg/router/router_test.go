package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tag(name string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("X-Chain", name)
			next.ServeHTTP(w, r)
		})
	}
}

func TestGroupMiddlewareOrder(t *testing.T) {
	r := New()
	api := r.Group("/api", tag("group"))
	api.Put("/orders/{id}/items", "orders.items", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}, tag("route"))

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/orders/3/items", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []string{"group", "route"}, rec.Header().Values("X-Chain"))
}

func TestURLBuildsNamedRoutes(t *testing.T) {
	r := New()
	r.Group("addresses").Delete("/{id}", "addresses.destroy", func(http.ResponseWriter, *http.Request) {})

	url, err := r.URL("addresses.destroy", map[string]string{"id": "9"})
	require.NoError(t, err)
	assert.Equal(t, "/addresses/9", url)

	_, err = r.URL("addresses.destroy", nil)
	assert.Error(t, err)

	_, err = r.URL("nope", nil)
	assert.Error(t, err)
}

func TestRoutesSorted(t *testing.T) {
	r := New()
	noop := func(http.ResponseWriter, *http.Request) {}
	r.Post("/orders", "orders.store", noop)
	r.Get("/orders", "orders.index", noop)
	r.Get("/categories", "categories.index", noop)
	r.Get("/healthz", "", noop)

	infos := r.Routes()
	require.Len(t, infos, 3)
	assert.Equal(t, RouteInfo{Method: http.MethodGet, Path: "/categories", Name: "categories.index"}, infos[0])
	assert.Equal(t, "GET", infos[1].Method)
	assert.Equal(t, "POST", infos[2].Method)
}
