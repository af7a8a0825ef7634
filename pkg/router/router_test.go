package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ok(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }

func TestNamedRoutes(t *testing.T) {
	r := New()
	r.Get("/restaurants/{id}", "restaurants.show", ok)

	path, found := r.Path("restaurants.show")
	require.True(t, found)
	assert.Equal(t, "/restaurants/{id}", path)

	url, err := r.URL("restaurants.show", map[string]string{"id": "123"})
	require.NoError(t, err)
	assert.Equal(t, "/restaurants/123", url)

	_, err = r.URL("restaurants.show", nil)
	assert.Error(t, err, "unfilled params must error")

	_, err = r.URL("missing.route", nil)
	assert.Error(t, err)
}

func TestGroupPrefixAndDispatch(t *testing.T) {
	r := New()
	g := r.Group("/meals")
	g.Get("", "meals.index", ok)
	g.Get("/{id}", "meals.show", func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(chi.URLParam(req, "id")))
	})

	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	res, err := http.Get(srv.URL + "/meals")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	res, err = http.Get(srv.URL + "/meals/abc")
	require.NoError(t, err)
	defer res.Body.Close()
	buf := make([]byte, 3)
	res.Body.Read(buf)
	assert.Equal(t, "abc", string(buf))
}

func TestRouteMiddlewareOrdering(t *testing.T) {
	var calls []string
	mw := func(tag string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				calls = append(calls, tag)
				next.ServeHTTP(w, req)
			})
		}
	}

	r := New()
	g := r.Group("/api", mw("group"))
	g.Get("/x", "x", ok, mw("route"))

	req := httptest.NewRequest(http.MethodGet, "/api/x", nil)
	r.Handler().ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, []string{"group", "route"}, calls)
}

func TestWildcardRoute(t *testing.T) {
	r := New()
	r.Delete("/restaurants/{id}/images/*", "images.detach", func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(chi.URLParam(req, "*")))
	})

	req := httptest.NewRequest(http.MethodDelete, "/restaurants/42/images/restaurants/42/photo.jpg", nil)
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "restaurants/42/photo.jpg", rec.Body.String())
}

func TestRoutesListing(t *testing.T) {
	r := New()
	r.Post("/auth/login", "auth.login", ok)
	r.Get("/auth/me", "auth.me", ok)

	infos := r.Routes()
	require.Len(t, infos, 2)
	assert.Equal(t, "auth.login", infos[0].Name)
	assert.Equal(t, "auth.me", infos[1].Name)
}
