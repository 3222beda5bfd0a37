// Package server exposes the catalog over HTTP for local UI clients.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/recipedex/recipedex/internal/metrics"
	"github.com/recipedex/recipedex/internal/recipe"
	"github.com/recipedex/recipedex/internal/scrape"
	"github.com/recipedex/recipedex/internal/store"
)

// maxImportBytes bounds import payloads; collections are personal
// scale and anything bigger is a mistake.
const maxImportBytes = 8 << 20

// Catalog is the store surface the handlers need.
type Catalog interface {
	GetAll() []recipe.Recipe
	GetByID(id string) (recipe.Recipe, error)
	Search(query string) []recipe.Recipe
	Add(ctx context.Context, r recipe.Recipe) (recipe.Recipe, store.Outcome)
	Update(ctx context.Context, id string, p store.Patch) (recipe.Recipe, store.Outcome, error)
	SaveNote(id, text string) error
	Remove(ctx context.Context, id string) (store.Outcome, error)
	Stats() store.Stats
	ExportJSON() ([]byte, error)
	ImportJSON(ctx context.Context, data []byte) (int, store.Outcome, error)
}

// Scraper extracts a recipe candidate from a URL.
type Scraper interface {
	Scrape(ctx context.Context, pageURL string) scrape.Result
}

// Server wires HTTP handlers to the catalog and the scraper.
type Server struct {
	router  chi.Router
	catalog Catalog
	scraper Scraper
	logger  *zap.Logger
}

// NewServer constructs a Server with middleware and routes.
func NewServer(catalog Catalog, scraper Scraper, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{catalog: catalog, scraper: scraper, logger: logger}

	r := chi.NewRouter()
	r.Use(s.loggingMiddleware)
	r.Use(s.recoverMiddleware)
	r.Use(timeoutMiddleware(60 * time.Second))

	r.Get("/healthz", s.healthz)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/recipes", func(r chi.Router) {
			r.Get("/", s.listRecipes)
			r.Post("/", s.addRecipe)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.getRecipe)
				r.Put("/", s.updateRecipe)
				r.Delete("/", s.removeRecipe)
				r.Put("/note", s.saveNote)
			})
		})
		r.Get("/search", s.search)
		r.Get("/stats", s.stats)
		r.Post("/scrape", s.scrapeURL)
		r.Get("/export", s.exportCollection)
		r.Post("/import", s.importCollection)
	})

	s.router = r
	return s
}

// Handler returns the router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) listRecipes(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{"recipes": s.catalog.GetAll()})
}

func (s *Server) getRecipe(w http.ResponseWriter, r *http.Request) {
	rec, err := s.catalog.GetByID(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, http.StatusNotFound, "recipe not found")
		return
	}
	s.writeJSON(w, http.StatusOK, rec)
}

func (s *Server) addRecipe(w http.ResponseWriter, r *http.Request) {
	var rec recipe.Recipe
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if strings.TrimSpace(rec.Name) == "" {
		s.writeError(w, http.StatusBadRequest, "name required")
		return
	}
	added, out := s.catalog.Add(r.Context(), rec)
	s.writeJSON(w, http.StatusCreated, map[string]any{"recipe": added, "sync": out})
}

func (s *Server) updateRecipe(w http.ResponseWriter, r *http.Request) {
	var patch store.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	updated, out, err := s.catalog.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		s.writeError(w, http.StatusNotFound, "recipe not found")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"recipe": updated, "sync": out})
}

func (s *Server) removeRecipe(w http.ResponseWriter, r *http.Request) {
	out, err := s.catalog.Remove(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, http.StatusNotFound, "recipe not found")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"sync": out})
}

// saveNote returns immediately after the local write; the remote sync
// it triggers runs detached.
func (s *Server) saveNote(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Notes string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if err := s.catalog.SaveNote(chi.URLParam(r, "id"), req.Notes); err != nil {
		s.writeError(w, http.StatusNotFound, "recipe not found")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	hits := s.catalog.Search(r.URL.Query().Get("q"))
	s.writeJSON(w, http.StatusOK, map[string]any{"recipes": hits})
}

func (s *Server) stats(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.catalog.Stats())
}

func (s *Server) scrapeURL(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URL  string `json:"url"`
		Save bool   `json:"save"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.URL) == "" {
		s.writeError(w, http.StatusBadRequest, "url required")
		return
	}
	result := s.scraper.Scrape(r.Context(), req.URL)
	if !req.Save {
		s.writeJSON(w, http.StatusOK, result)
		return
	}
	added, out := s.catalog.Add(r.Context(), result.Recipe)
	s.writeJSON(w, http.StatusCreated, map[string]any{
		"recipe":  added,
		"success": result.Success,
		"stage":   result.Stage,
		"sync":    out,
	})
}

func (s *Server) exportCollection(w http.ResponseWriter, _ *http.Request) {
	data, err := s.catalog.ExportJSON()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "export failed")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="recipes.json"`)
	if _, err := w.Write(data); err != nil {
		s.logger.Error("export write failed", zap.Error(err))
	}
}

func (s *Server) importCollection(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxImportBytes))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "read body failed")
		return
	}
	n, out, err := s.catalog.ImportJSON(r.Context(), data)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"imported": n, "sync": out})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(ww, r)
		elapsed := time.Since(start)
		metrics.ObserveHTTPRequest(r.Method, routePattern(r), ww.status, elapsed)
		s.logger.Info("request completed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.status),
			zap.Int64("duration_ms", elapsed.Milliseconds()),
		)
	})
}

func (s *Server) recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("panic recovered", zap.Any("error", rec))
				s.writeError(w, http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func timeoutMiddleware(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, d, "request timed out")
	}
}

// routePattern labels metrics with the chi pattern, not the raw path,
// to keep label cardinality bounded.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil && !errors.Is(err, http.ErrHandlerTimeout) {
		s.logger.Error("write JSON failed", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
