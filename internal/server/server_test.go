package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/recipedex/recipedex/internal/recipe"
	"github.com/recipedex/recipedex/internal/scrape"
	"github.com/recipedex/recipedex/internal/store"
)

type memSnapshot struct{ saved *recipe.Collection }

func (m *memSnapshot) SaveCollection(col recipe.Collection) error {
	m.saved = &col
	return nil
}

func (m *memSnapshot) LoadCollection() (recipe.Collection, bool, error) {
	if m.saved == nil {
		return recipe.Collection{}, false, nil
	}
	return *m.saved, true, nil
}

type seqIDs struct{ n int }

func (g *seqIDs) NewID() (string, error) {
	g.n++
	return fmt.Sprintf("id-%d", g.n), nil
}

type fixedClock struct{}

func (fixedClock) Now() time.Time { return time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC) }

type stubScraper struct{ result scrape.Result }

func (s stubScraper) Scrape(context.Context, string) scrape.Result { return s.result }

func newTestServer(t *testing.T, scraper Scraper) (*Server, *store.Store) {
	t.Helper()
	cat := store.New(&memSnapshot{}, nil, &seqIDs{}, fixedClock{}, nil)
	cat.Initialize(context.Background())
	if scraper == nil {
		scraper = stubScraper{}
	}
	return NewServer(cat, scraper, nil), cat
}

func doJSON(t *testing.T, h http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, nil)
	rec := doJSON(t, srv.Handler(), http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"ok"`)
}

func TestRecipeCRUD(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, nil)
	h := srv.Handler()

	rec := doJSON(t, h, http.MethodPost, "/api/recipes", recipe.Recipe{Name: "Pancakes"})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		Recipe recipe.Recipe `json:"recipe"`
		Sync   store.Outcome `json:"sync"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created.Recipe.ID)
	require.False(t, created.Sync.Synced)

	rec = doJSON(t, h, http.MethodGet, "/api/recipes/"+created.Recipe.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodPut, "/api/recipes/"+created.Recipe.ID, map[string]any{"name": "Fluffy Pancakes"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Fluffy Pancakes")

	rec = doJSON(t, h, http.MethodGet, "/api/recipes", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Fluffy Pancakes")

	rec = doJSON(t, h, http.MethodDelete, "/api/recipes/"+created.Recipe.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/recipes/"+created.Recipe.ID, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAddRejectsMissingName(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, nil)
	rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/recipes", recipe.Recipe{})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/recipes", strings.NewReader("{nope"))
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSaveNote(t *testing.T) {
	t.Parallel()

	srv, cat := newTestServer(t, nil)
	added, _ := cat.Add(context.Background(), recipe.Recipe{Name: "Stew"})

	rec := doJSON(t, srv.Handler(), http.MethodPut, "/api/recipes/"+added.ID+"/note", map[string]string{"notes": "more thyme"})
	require.Equal(t, http.StatusOK, rec.Code)
	cat.WaitForNoteSync()

	got, err := cat.GetByID(added.ID)
	require.NoError(t, err)
	require.Equal(t, "more thyme", got.Notes)

	rec = doJSON(t, srv.Handler(), http.MethodPut, "/api/recipes/nope/note", map[string]string{"notes": "x"})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSearchEndpoint(t *testing.T) {
	t.Parallel()

	srv, cat := newTestServer(t, nil)
	cat.Add(context.Background(), recipe.Recipe{Name: "Carnitas", Ingredients: []string{"pork shoulder"}})
	cat.Add(context.Background(), recipe.Recipe{Name: "Toast"})

	rec := doJSON(t, srv.Handler(), http.MethodGet, "/api/search?q=pork", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Carnitas")
	require.NotContains(t, rec.Body.String(), "Toast")
}

func TestStatsEndpoint(t *testing.T) {
	t.Parallel()

	srv, cat := newTestServer(t, nil)
	cat.Add(context.Background(), recipe.Recipe{Name: "Tacos", Category: "mexican"})

	rec := doJSON(t, srv.Handler(), http.MethodGet, "/api/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var st store.Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	require.Equal(t, 1, st.Total)
	require.Equal(t, 1, st.PerCategory["mexican"])
}

func TestScrapePreviewAndSave(t *testing.T) {
	t.Parallel()

	result := scrape.Result{
		Recipe:  recipe.Recipe{Name: "Lemon Bars", Category: "dessert"},
		Success: true,
		Stage:   scrape.StageStructured,
	}
	srv, cat := newTestServer(t, stubScraper{result: result})
	h := srv.Handler()

	rec := doJSON(t, h, http.MethodPost, "/api/scrape", map[string]any{"url": "https://example.com/lemon-bars"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Lemon Bars")
	require.Equal(t, 0, cat.Count(), "preview does not persist")

	rec = doJSON(t, h, http.MethodPost, "/api/scrape", map[string]any{"url": "https://example.com/lemon-bars", "save": true})
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, 1, cat.Count())

	rec = doJSON(t, h, http.MethodPost, "/api/scrape", map[string]any{"url": "  "})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportImportEndpoints(t *testing.T) {
	t.Parallel()

	srv, cat := newTestServer(t, nil)
	cat.Add(context.Background(), recipe.Recipe{Name: "Dip"})

	rec := doJSON(t, srv.Handler(), http.MethodGet, "/api/export", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Disposition"), "recipes.json")

	other, otherCat := newTestServer(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/import", bytes.NewReader(rec.Body.Bytes()))
	w := httptest.NewRecorder()
	other.Handler().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 1, otherCat.Count())

	req = httptest.NewRequest(http.MethodPost, "/api/import", strings.NewReader("{broken"))
	w = httptest.NewRecorder()
	other.Handler().ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, nil)
	rec := doJSON(t, srv.Handler(), http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}
